package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/session-viewer/testutil"
)

func TestDecodeSession(t *testing.T) {
	doc, err := DecodeSession([]byte(testutil.SessionDocumentJSON), "session.json")
	if err != nil {
		t.Fatalf("DecodeSession() error = %v", err)
	}
	if doc.SessionID != "3f1c2a9e-5b7d-4e21-9a0c-1d2e3f4a5b6c" {
		t.Errorf("SessionID = %q", doc.SessionID)
	}
	if doc.ExtractionTime != "2025-01-01T12:10:00Z" {
		t.Errorf("ExtractionTime = %q", doc.ExtractionTime)
	}
	if len(doc.SourceFiles) != 1 || doc.SourceFiles[0].LineNumber != 7 {
		t.Errorf("SourceFiles = %+v", doc.SourceFiles)
	}
	if len(doc.Messages) != 6 || doc.Skipped != 0 {
		t.Fatalf("Messages = %d, Skipped = %d, want 6 and 0", len(doc.Messages), doc.Skipped)
	}
	if len(doc.Messages[0].Raw) == 0 {
		t.Error("decoded records should keep their raw bytes")
	}
	if doc.Source != "session.json" {
		t.Errorf("Source = %q", doc.Source)
	}
}

func TestDecodeSession_SkipsMalformedRecords(t *testing.T) {
	data := `{"session_id":"s","messages":[
		{"type":"user","message":{"role":"user","content":"ok"}},
		5,
		"text",
		{"type":"user","isMeta":"yes"},
		{"type":"assistant","message":{"role":"assistant","content":{"weird":true}}}
	]}`

	doc, err := DecodeSession([]byte(data), "mixed.json")
	if err != nil {
		t.Fatalf("DecodeSession() error = %v", err)
	}
	if len(doc.Messages) != 2 {
		t.Errorf("len(Messages) = %d, want 2", len(doc.Messages))
	}
	if doc.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", doc.Skipped)
	}
	if doc.Messages[1].Content().Kind != ContentAbsent {
		t.Error("object content should decode as absent")
	}
}

func TestDecodeSession_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid JSON", `{"messages": [`},
		{"not an object", `[1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSession([]byte(tt.input), "bad.json")
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("DecodeSession() error = %v, want DecodeError", err)
			}
			if decodeErr.Index != -1 {
				t.Errorf("Index = %d, want -1", decodeErr.Index)
			}
		})
	}
}

func TestDecodeSession_FallbackID(t *testing.T) {
	data := []byte(`{"messages":[]}`)
	first, err := DecodeSession(data, "/tmp/a.json")
	if err != nil {
		t.Fatal(err)
	}
	second, _ := DecodeSession(data, "/tmp/a.json")
	other, _ := DecodeSession(data, "/tmp/b.json")

	if len(first.SessionID) != 36 {
		t.Errorf("fallback SessionID = %q, want a UUID", first.SessionID)
	}
	if first.SessionID != second.SessionID {
		t.Error("fallback SessionID should be stable for the same source")
	}
	if first.SessionID == other.SessionID {
		t.Error("fallback SessionID should differ between sources")
	}
	if first.Messages == nil || first.SourceFiles == nil {
		t.Error("Messages and SourceFiles should be empty, not nil")
	}
}

func TestDecodeTranscript(t *testing.T) {
	doc, err := DecodeTranscript(strings.NewReader(testutil.TranscriptJSONL), "/p/x.jsonl")
	if err != nil {
		t.Fatalf("DecodeTranscript() error = %v", err)
	}
	if doc.SessionID != testutil.TranscriptSessionID {
		t.Errorf("SessionID = %q", doc.SessionID)
	}
	if len(doc.Messages) != 2 {
		t.Errorf("len(Messages) = %d, want 2", len(doc.Messages))
	}
	if doc.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", doc.Skipped)
	}
	if len(doc.SourceFiles) != 1 || doc.SourceFiles[0].LineNumber != 5 {
		t.Errorf("SourceFiles = %+v, want one entry at line 5", doc.SourceFiles)
	}
}

func TestDecodeTranscript_SessionIDFromFilename(t *testing.T) {
	input := `{"type":"user","message":{"role":"user","content":"hi"}}`
	id := "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"

	doc, err := DecodeTranscript(strings.NewReader(input), filepath.Join("proj", id+".jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if doc.SessionID != id {
		t.Errorf("SessionID = %q, want %q", doc.SessionID, id)
	}

	doc, err = DecodeTranscript(strings.NewReader(input), "notes.jsonl")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.SessionID) != 36 {
		t.Errorf("SessionID = %q, want a fallback UUID", doc.SessionID)
	}
}

func TestLoadSessionFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := testutil.WriteSessionFixture(t, dir, "s.json", testutil.SessionDocumentJSON)
	jsonlPath := testutil.WriteSessionFixture(t, dir, "t.JSONL", testutil.TranscriptJSONL)

	doc, err := LoadSessionFile(jsonPath)
	if err != nil || len(doc.Messages) != 6 {
		t.Errorf("LoadSessionFile(json) = %v, %v", doc, err)
	}

	doc, err = LoadSessionFile(jsonlPath)
	if err != nil || doc.SessionID != testutil.TranscriptSessionID {
		t.Errorf("LoadSessionFile(jsonl) = %v, %v", doc, err)
	}

	_, err = LoadSessionFile(filepath.Join(dir, "missing.json"))
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || loadErr.Op != "open" {
		t.Errorf("LoadSessionFile(missing) error = %v, want LoadError", err)
	}
}

func TestFetchSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/session.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(testutil.SessionDocumentJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	doc, err := FetchSession(context.Background(), server.Client(), server.URL+"/session.json")
	if err != nil {
		t.Fatalf("FetchSession() error = %v", err)
	}
	if len(doc.Messages) != 6 {
		t.Errorf("len(Messages) = %d, want 6", len(doc.Messages))
	}

	_, err = FetchSession(context.Background(), server.Client(), server.URL+"/missing.json")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("FetchSession(missing) error = %v, want FetchError", err)
	}
	if fetchErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", fetchErr.Status)
	}
}

func TestFetchSession_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FetchSession(ctx, nil, "http://127.0.0.1:1/session.json")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Status != 0 {
		t.Errorf("FetchSession() error = %v, want transport FetchError", err)
	}
}

func TestSourceHelpers(t *testing.T) {
	if !IsTranscriptPath("a/b.jsonl") || !IsTranscriptPath("B.JSONL") || IsTranscriptPath("a.json") {
		t.Error("IsTranscriptPath() misclassified a path")
	}
	if !IsRemoteSource("https://x/y.json") || !IsRemoteSource("http://x") || IsRemoteSource("./http.json") {
		t.Error("IsRemoteSource() misclassified a source")
	}
}
