package internal

import (
	"bytes"
	"encoding/json"
)

// Deduplicator removes repeated records. Fingerprints bucket candidates and
// the compact serialized form decides, since fingerprints may collide.
type Deduplicator struct{}

// NewDeduplicator creates a new Deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Deduplicate keeps the first occurrence of every distinct record
func (d *Deduplicator) Deduplicate(messages []Message) []Message {
	seen := make(map[string][][]byte)
	unique := make([]Message, 0, len(messages))

	for i := range messages {
		msg := messages[i]
		body := d.serialize(&msg)
		hash := FingerprintString(string(body))

		duplicate := false
		for _, prior := range seen[hash] {
			if bytes.Equal(prior, body) {
				duplicate = true
				break
			}
		}
		if duplicate {
			LogDebug("Dropping duplicate record %s (%s)", msg.UUID, hash)
			continue
		}
		seen[hash] = append(seen[hash], body)
		unique = append(unique, msg)
	}

	return unique
}

// DeduplicateDocument removes repeated records from a document in place
func (d *Deduplicator) DeduplicateDocument(doc *SessionDocument) int {
	if doc == nil {
		return 0
	}
	before := len(doc.Messages)
	doc.Messages = d.Deduplicate(doc.Messages)
	return before - len(doc.Messages)
}

func (d *Deduplicator) serialize(msg *Message) []byte {
	if len(msg.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, msg.Raw); err == nil {
			return buf.Bytes()
		}
	}
	s, err := compactJSON(msg)
	if err != nil {
		return nil
	}
	return []byte(s)
}
