package internal

import (
	"fmt"
)

// Normalizer converts decoded documents to Session format
type Normalizer struct {
	linkResults bool
}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{linkResults: true}
}

// WithoutToolResultLinking leaves tool invocations in the "call" state
func (n *Normalizer) WithoutToolResultLinking() *Normalizer {
	return &Normalizer{linkResults: false}
}

// NormalizeDocument parses the document's records and builds a Session
func (n *Normalizer) NormalizeDocument(doc *SessionDocument) (*Session, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	messages := Parse(doc.Messages)
	if n.linkResults {
		messages = LinkToolResults(messages)
	}

	session := &Session{
		ID:             doc.SessionID,
		Source:         doc.Source,
		ExtractionTime: doc.ExtractionTime,
		SourceFiles:    doc.SourceFiles,
		Messages:       messages,
		Metadata:       n.buildMetadata(doc, messages),
	}
	return session, nil
}

func (n *Normalizer) buildMetadata(doc *SessionDocument, messages []ParsedMessage) Metadata {
	meta := Metadata{
		MessageCount: len(messages),
		SkippedCount: doc.Skipped,
		Hash:         documentHash(doc),
	}

	for _, msg := range messages {
		if msg.IsSidechain {
			meta.SidechainCount++
		}
		if msg.Timestamp == "" {
			continue
		}
		if _, ok := ParseTimestamp(msg.Timestamp); !ok {
			continue
		}
		if meta.FirstTimestamp == "" {
			meta.FirstTimestamp = msg.Timestamp
		}
		meta.LastTimestamp = msg.Timestamp
	}

	// working directory and branch come from the first record that has them
	for i := range doc.Messages {
		raw := &doc.Messages[i]
		if meta.CWD == "" {
			meta.CWD = raw.CWD
		}
		if meta.GitBranch == "" {
			meta.GitBranch = raw.GitBranch
		}
		if meta.Version == "" {
			meta.Version = raw.Version
		}
	}
	return meta
}

// documentHash fingerprints the ordered record fingerprints, so it is stable
// for a document regardless of how it was decoded
func documentHash(doc *SessionDocument) string {
	hashes := make([]string, 0, len(doc.Messages))
	for i := range doc.Messages {
		hashes = append(hashes, doc.Messages[i].Fingerprint())
	}
	return Fingerprint(hashes)
}

// NormalizeAll normalizes every document, skipping those that fail
func (n *Normalizer) NormalizeAll(docs []*SessionDocument) []*Session {
	sessions := make([]*Session, 0, len(docs))
	for _, doc := range docs {
		session, err := n.NormalizeDocument(doc)
		if err != nil {
			LogWarn("Failed to normalize document: %v", err)
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions
}
