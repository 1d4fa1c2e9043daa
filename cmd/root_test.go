package cmd

import (
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name: "version flag",
			args: []string{"--version"},
			want: "commit:",
		},
		{
			name: "help flag",
			args: []string{"--help"},
			want: "session-viewer",
		},
		{
			name:    "nonexistent command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, env, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.want != "" && !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("SESSION_VIEWER_WIDTH", "wide")

	if _, err := executeCommand(t, env, "list"); err == nil {
		t.Error("an invalid SESSION_VIEWER_WIDTH should fail before the command runs")
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	want := []string{"classify", "export", "hash", "healthcheck", "index", "inspect", "list", "search", "show", "watch"}
	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}
