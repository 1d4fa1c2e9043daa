package internal

import (
	"testing"
)

func TestNewDeduplicator(t *testing.T) {
	d := NewDeduplicator()
	if d == nil {
		t.Error("NewDeduplicator() returned nil")
	}
}

func TestDeduplicator_Deduplicate(t *testing.T) {
	decoded := func(raw string) Message {
		msg, err := decodeMessage([]byte(raw))
		if err != nil {
			t.Fatalf("decodeMessage(%s) error = %v", raw, err)
		}
		return msg
	}

	tests := []struct {
		name     string
		messages []Message
		wantIDs  []string
	}{
		{
			name:     "empty",
			messages: []Message{},
			wantIDs:  []string{},
		},
		{
			name: "no duplicates",
			messages: []Message{
				decoded(`{"type":"user","uuid":"a"}`),
				decoded(`{"type":"user","uuid":"b"}`),
			},
			wantIDs: []string{"a", "b"},
		},
		{
			name: "exact duplicate keeps first",
			messages: []Message{
				decoded(`{"type":"user","uuid":"a"}`),
				decoded(`{"type":"user","uuid":"b"}`),
				decoded(`{"type": "user", "uuid": "a"}`),
			},
			wantIDs: []string{"a", "b"},
		},
		{
			name: "key order makes records distinct",
			messages: []Message{
				decoded(`{"type":"user","uuid":"a"}`),
				decoded(`{"uuid":"a","type":"user"}`),
			},
			wantIDs: []string{"a", "a"},
		},
		{
			name: "records without raw bytes",
			messages: []Message{
				*CreateTestMessage("user", TextContent("hi")),
				*CreateTestMessage("user", TextContent("hi")),
				*CreateTestMessage("user", TextContent("bye")),
			},
			wantIDs: []string{"uuid-user", "uuid-user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDeduplicator().Deduplicate(tt.messages)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Deduplicate() returned %d records, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].UUID != id {
					t.Errorf("record %d UUID = %q, want %q", i, got[i].UUID, id)
				}
			}
		})
	}
}

func TestDeduplicator_DeduplicateDocument(t *testing.T) {
	d := NewDeduplicator()
	if removed := d.DeduplicateDocument(nil); removed != 0 {
		t.Errorf("DeduplicateDocument(nil) = %d, want 0", removed)
	}

	msg := CreateTestMessage("user", TextContent("again"))
	doc := &SessionDocument{Messages: []Message{*msg, *msg, *msg}}
	if removed := d.DeduplicateDocument(doc); removed != 2 {
		t.Errorf("DeduplicateDocument() removed %d, want 2", removed)
	}
	if len(doc.Messages) != 1 {
		t.Errorf("len(Messages) = %d, want 1", len(doc.Messages))
	}
}
