package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/session-viewer/internal"
)

// JSONExporter writes a session as one indented JSON document. Subagent
// messages are moved out of "messages" into "sidechain".
type JSONExporter struct{}

type jsonSession struct {
	*internal.Session
	Messages  []internal.ParsedMessage `json:"messages"`
	Sidechain []internal.ParsedMessage `json:"sidechain,omitempty"`
}

func (e *JSONExporter) Export(session *internal.Session, w io.Writer) error {
	main, sidechain := internal.GroupByConversation(session.Messages)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(jsonSession{Session: session, Messages: main, Sidechain: sidechain})
}

func (e *JSONExporter) Extension() string {
	return "json"
}
