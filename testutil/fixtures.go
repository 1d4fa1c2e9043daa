package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SessionDocumentJSON is a session document covering text, thinking, tool
// calls, tool results, a meta record and a subagent record
const SessionDocumentJSON = `{
  "session_id": "3f1c2a9e-5b7d-4e21-9a0c-1d2e3f4a5b6c",
  "extraction_time": "2025-01-01T12:10:00Z",
  "source_files": [
    {"file_path": "/home/dev/.claude/projects/demo/3f1c2a9e.jsonl", "line_number": 7, "found_at": "2025-01-01T12:10:00Z"}
  ],
  "messages": [
    {"type": "user", "uuid": "u1", "timestamp": "2025-01-01T12:00:00Z", "cwd": "/work/demo", "gitBranch": "main", "version": "1.0.0",
     "message": {"role": "user", "content": "List the files please"}},
    {"type": "assistant", "uuid": "a1", "parentUuid": "u1", "timestamp": "2025-01-01T12:00:02Z",
     "message": {"role": "assistant", "model": "claude-sonnet-4", "content": [
       {"type": "thinking", "thinking": "I should run ls."},
       {"type": "text", "text": "Running ls."},
       {"type": "tool_use", "id": "toolu_1", "name": "Bash", "input": {"command": "ls"}}
     ], "usage": {"input_tokens": 12, "output_tokens": 8}}},
    {"type": "user", "uuid": "u2", "parentUuid": "a1", "timestamp": "2025-01-01T12:00:03Z",
     "message": {"role": "user", "content": [
       {"type": "tool_result", "tool_use_id": "toolu_1", "content": "main.go\ngo.mod"}
     ]}},
    {"type": "user", "uuid": "m1", "timestamp": "2025-01-01T12:00:04Z", "isMeta": true,
     "message": {"role": "user", "content": "<command-name>/clear</command-name>"}},
    {"type": "assistant", "uuid": "s1", "timestamp": "2025-01-01T12:00:05Z", "isSidechain": true,
     "message": {"role": "assistant", "content": [{"type": "text", "text": "Subagent report"}]}},
    {"type": "assistant", "uuid": "a2", "parentUuid": "u2", "timestamp": "2025-01-01T12:00:06Z",
     "message": {"role": "assistant", "model": "claude-sonnet-4", "content": [{"type": "text", "text": "Found main.go and go.mod."}]}}
  ]
}`

// TranscriptJSONL is a Claude transcript with a bookkeeping record, a blank
// line and one malformed line
const TranscriptJSONL = `{"type":"file-history-snapshot","messageId":"x"}
{"type":"user","uuid":"t1","sessionId":"9b2d7c4e-1a3f-4c5d-8e6f-7a8b9c0d1e2f","timestamp":"2025-02-01T09:00:00Z","cwd":"/work/api","gitBranch":"dev","message":{"role":"user","content":"hello"}}

not json
{"type":"assistant","uuid":"t2","sessionId":"9b2d7c4e-1a3f-4c5d-8e6f-7a8b9c0d1e2f","timestamp":"2025-02-01T09:00:01Z","message":{"role":"assistant","content":[{"type":"text","text":"hi there"}]}}
`

// TranscriptSessionID is the session id carried by TranscriptJSONL
const TranscriptSessionID = "9b2d7c4e-1a3f-4c5d-8e6f-7a8b9c0d1e2f"

// WriteSessionFixture writes content to dir/name and returns the full path
func WriteSessionFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return path
}

// CreateProjectsFixture creates a projects directory laid out like
// ~/.claude/projects with one session document and one transcript
func CreateProjectsFixture(t *testing.T) string {
	t.Helper()
	dir := CreateTempDir(t)
	WriteSessionFixture(t, dir, filepath.Join("-work-demo", "session.json"), SessionDocumentJSON)
	WriteSessionFixture(t, dir, filepath.Join("-work-api", TranscriptSessionID+".jsonl"), TranscriptJSONL)
	WriteSessionFixture(t, dir, filepath.Join("-work-api", "notes.txt"), "not a session")
	return dir
}
