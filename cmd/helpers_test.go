package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// testEnv points every configurable path into a temp dir
type testEnv struct {
	dir         string
	projectsDir string
	cacheDir    string
	dbPath      string
	configPath  string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:         dir,
		projectsDir: filepath.Join(dir, "projects"),
		cacheDir:    filepath.Join(dir, "cache"),
		dbPath:      filepath.Join(dir, "cache", "index.db"),
		configPath:  filepath.Join(dir, "config.yaml"),
	}
	t.Setenv("SESSION_VIEWER_PROJECTS_DIR", env.projectsDir)
	t.Setenv("SESSION_VIEWER_CACHE_DIR", env.cacheDir)
	t.Setenv("SESSION_VIEWER_DB_PATH", env.dbPath)
	t.Setenv("SESSION_VIEWER_STYLE", "notty")
	t.Setenv("SESSION_VIEWER_WIDTH", "")
	return env
}

// resetFlags restores every flag to its default so tests do not leak state
func resetFlags() {
	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
}

// executeCommand runs the root command with args and returns its output
func executeCommand(t *testing.T, env testEnv, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--config", env.configPath))

	err := rootCmd.Execute()
	return buf.String(), err
}
