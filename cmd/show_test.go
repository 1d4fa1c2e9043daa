package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/session-viewer/internal"
	"github.com/iksnae/session-viewer/testutil"
)

func TestShowCommand(t *testing.T) {
	env := newTestEnv(t)
	path := testutil.WriteSessionFixture(t, env.dir, "session.json", testutil.SessionDocumentJSON)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
		wantErr bool
	}{
		{
			name:    "show without source",
			args:    []string{"show"},
			wantErr: true,
		},
		{
			name:    "missing file",
			args:    []string{"show", env.dir + "/missing.json"},
			wantErr: true,
		},
		{
			name:    "invalid since",
			args:    []string{"show", path, "--since", "last week"},
			wantErr: true,
		},
		{
			name:    "default hides meta records",
			args:    []string{"show", path, "--plain"},
			want:    []string{"💬 3f1c2a9e-5b7d-4e21-9a0c-1d2e3f4a5b6c", "List the files please", "🔧 Bash", "main.go", "Subagent report", "Found main.go and go.mod."},
			notWant: []string{"/clear"},
		},
		{
			name: "all renders every record",
			args: []string{"show", path, "--plain", "--all"},
			want: []string{"$ /clear"},
		},
		{
			name:    "no sidechain",
			args:    []string{"show", path, "--plain", "--no-sidechain"},
			notWant: []string{"Subagent report"},
		},
		{
			name: "limit",
			args: []string{"show", path, "--plain", "-n", "2"},
			want: []string{"... (3 more message(s))"},
		},
		{
			name:    "since",
			args:    []string{"show", path, "--plain", "--since", "2025-01-01T12:00:05Z"},
			want:    []string{"Subagent report", "Found main.go"},
			notWant: []string{"List the files please"},
		},
		{
			name: "markdown rendering",
			args: []string{"show", path},
			want: []string{"List the files please"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, env, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("show error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("output should not contain %q:\n%s", nw, out)
				}
			}
		})
	}
}

func TestSelectRecords(t *testing.T) {
	doc, err := internal.DecodeSession([]byte(testutil.SessionDocumentJSON), "s.json")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		filter    recordFilter
		wantIDs   []string
		wantTotal int
	}{
		{
			name:      "parsed order without meta",
			filter:    recordFilter{},
			wantIDs:   []string{"u1", "a1", "u2", "s1", "a2"},
			wantTotal: 5,
		},
		{
			name:      "all in document order",
			filter:    recordFilter{all: true},
			wantIDs:   []string{"u1", "a1", "u2", "m1", "s1", "a2"},
			wantTotal: 6,
		},
		{
			name:      "no sidechain",
			filter:    recordFilter{noSidechain: true},
			wantIDs:   []string{"u1", "a1", "u2", "a2"},
			wantTotal: 4,
		},
		{
			name:      "tail",
			filter:    recordFilter{tail: 2},
			wantIDs:   []string{"s1", "a2"},
			wantTotal: 2,
		},
		{
			name:      "limit reports total",
			filter:    recordFilter{limit: 1},
			wantIDs:   []string{"u1"},
			wantTotal: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, total := selectRecords(doc, tt.filter)
			if total != tt.wantTotal {
				t.Errorf("total = %d, want %d", total, tt.wantTotal)
			}
			if len(records) != len(tt.wantIDs) {
				t.Fatalf("got %d records, want %d", len(records), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if records[i].UUID != id {
					t.Errorf("record %d = %q, want %q", i, records[i].UUID, id)
				}
			}
		})
	}
}

func TestDisplaySessionHeader(t *testing.T) {
	tests := []struct {
		name    string
		session *internal.Session
		want    []string
	}{
		{
			name:    "nil session",
			session: nil,
		},
		{
			name:    "with metadata",
			session: internal.CreateTestSession("header-test"),
			want:    []string{"💬 header-test", "Messages: 2", "Directory: /work/project", "Branch: main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			displaySessionHeader(&buf, tt.session)
			if tt.session == nil && buf.Len() != 0 {
				t.Errorf("nil session should print nothing, got %q", buf.String())
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("header missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}
