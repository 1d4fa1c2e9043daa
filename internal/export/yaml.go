package export

import (
	"fmt"
	"io"

	"github.com/iksnae/session-viewer/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes a session as YAML headed by a comment naming the
// session and its source. Tool arguments are raw JSON and are left out.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(session *internal.Session, w io.Writer) error {
	var node yaml.Node
	if err := node.Encode(session); err != nil {
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}
	node.HeadComment = fmt.Sprintf("# session %s: %d message(s)", session.ID, session.Metadata.MessageCount)
	if session.Source != "" {
		node.HeadComment += "\n# source " + session.Source
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(&node)
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
