package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/session-viewer/internal"
	"github.com/iksnae/session-viewer/testutil"
)

func TestHealthcheckCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeCommand(t, env, "healthcheck")
	if err != nil {
		t.Fatalf("healthcheck error = %v\n%s", err, out)
	}
	for _, want := range []string{
		"No config file, using defaults",
		"Projects directory not found",
		"Cache directory is writable",
		"Index database holds 0 session(s)",
		"Health check passed!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Config: ") {
		t.Error("paths should only be printed with --verbose")
	}
}

func TestHealthcheckCommand_Verbose(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("style: notty\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, env, "healthcheck", "--verbose")
	if err != nil {
		t.Fatalf("healthcheck error = %v\n%s", err, out)
	}
	for _, want := range []string{
		"Config file loaded",
		"Config: " + env.configPath,
		"Directory: " + env.cacheDir,
		"Database: " + env.dbPath,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunHealthcheck_CountsSessions(t *testing.T) {
	dir := t.TempDir()
	conf := internal.DefaultConfig()
	conf.ProjectsDir = testutil.CreateProjectsFixture(t)
	conf.CacheDir = filepath.Join(dir, "cache")
	conf.DBPath = filepath.Join(dir, "cache", "index.db")

	var buf bytes.Buffer
	if err := runHealthcheck(&buf, conf, false); err != nil {
		t.Fatalf("runHealthcheck() error = %v\n%s", err, buf.String())
	}
	for _, want := range []string{"Found 2 session file(s)", "Session files: 2 found", "Indexed sessions: 0"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestRunHealthcheck_Failures(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	conf := internal.DefaultConfig()
	conf.ProjectsDir = dir
	conf.CacheDir = blocker
	conf.DBPath = filepath.Join(blocker, "index.db")

	var buf bytes.Buffer
	err := runHealthcheck(&buf, conf, false)
	if err == nil {
		t.Fatalf("expected failure, got output:\n%s", buf.String())
	}
	if !strings.Contains(err.Error(), "2 problem(s)") {
		t.Errorf("error = %v, want 2 problems", err)
	}
	if !strings.Contains(buf.String(), "Health check failed") {
		t.Errorf("output missing failure summary:\n%s", buf.String())
	}
}

func TestCheckWritable(t *testing.T) {
	if err := checkWritable(""); err == nil {
		t.Error("empty dir should fail")
	}

	dir := filepath.Join(t.TempDir(), "nested", "cache")
	if err := checkWritable(dir); err != nil {
		t.Fatalf("checkWritable() error = %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("probe file left behind: %v", entries)
	}
}
