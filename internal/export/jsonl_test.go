package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iksnae/session-viewer/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		session *internal.Session
		want    []string
		wantErr bool
	}{
		{
			name:    "empty session",
			session: internal.CreateTestSessionWithMessages("test1", []internal.ParsedMessage{}),
			want:    []string{}, // No messages means no output lines
			wantErr: false,
		},
		{
			name:    "session with messages",
			session: internal.CreateTestSession("test2"),
			want: []string{
				`"role":"user"`,
				`"role":"assistant"`,
				`"session_id":"test2"`,
				`"model":"claude-sonnet-4"`,
			},
			wantErr: false,
		},
		{
			name: "session with thinking",
			session: internal.CreateTestSessionWithMessages("test3", []internal.ParsedMessage{
				{
					Role:      "assistant",
					Content:   "Done",
					Thinking:  "Check the file first",
					Timestamp: "2023-01-01T00:00:00Z",
				},
			}),
			want: []string{
				`"timestamp":"2023-01-01T00:00:00Z"`,
				`"thinking":"Check the file first"`,
			},
			wantErr: false,
		},
		{
			name: "session without timestamp",
			session: internal.CreateTestSessionWithMessages("test4", []internal.ParsedMessage{
				{
					Role:    "user",
					Content: "Hello",
				},
			}),
			want: []string{
				`"role":"user"`,
				`"content":"Hello"`,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONLExporter{}

			err := exporter.Export(tt.session, &buf)
			if (err != nil) != tt.wantErr {
				t.Errorf("JSONLExporter.Export() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				return
			}
			output := buf.String()
			if len(tt.session.Messages) == 0 {
				if output != "" {
					t.Errorf("Empty session should produce empty output, got: %q", output)
				}
				return
			}

			lines := strings.Split(strings.TrimSpace(output), "\n")
			if len(lines) != len(tt.session.Messages) {
				t.Errorf("Got %d lines, want %d", len(lines), len(tt.session.Messages))
			}
			for i, line := range lines {
				var msg map[string]interface{}
				if err := json.Unmarshal([]byte(line), &msg); err != nil {
					t.Errorf("Line %d is not valid JSON: %v", i, err)
					continue
				}
				if _, ok := msg["role"]; !ok {
					t.Errorf("Line %d missing 'role' field", i)
				}
				if _, ok := msg["content"]; !ok {
					t.Errorf("Line %d missing 'content' field", i)
				}
			}

			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
		})
	}
}

func TestJSONLExporter_Extension(t *testing.T) {
	exporter := &JSONLExporter{}
	if got := exporter.Extension(); got != "jsonl" {
		t.Errorf("JSONLExporter.Extension() = %v, want jsonl", got)
	}
}
