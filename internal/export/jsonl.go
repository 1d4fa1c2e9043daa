package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/session-viewer/internal"
)

// JSONLExporter exports sessions in JSONL format (one message per line)
type JSONLExporter struct{}

type jsonlLine struct {
	SessionID       string                    `json:"session_id"`
	ID              string                    `json:"id,omitempty"`
	Role            string                    `json:"role"`
	Content         string                    `json:"content"`
	Timestamp       string                    `json:"timestamp,omitempty"`
	Model           string                    `json:"model,omitempty"`
	Thinking        string                    `json:"thinking,omitempty"`
	ToolInvocations []internal.ToolInvocation `json:"toolInvocations,omitempty"`
	IsSidechain     bool                      `json:"isSidechain,omitempty"`
	Hash            string                    `json:"hash,omitempty"`
}

// Export exports a session to JSONL format
func (e *JSONLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, msg := range session.Messages {
		line := jsonlLine{
			SessionID:       session.ID,
			ID:              msg.ID,
			Role:            msg.Role,
			Content:         msg.Content,
			Timestamp:       msg.Timestamp,
			Model:           msg.Model,
			Thinking:        msg.Thinking,
			ToolInvocations: msg.ToolInvocations,
			IsSidechain:     msg.IsSidechain,
			Hash:            msg.Hash,
		}

		// Encode to single line
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
