package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/session-viewer/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	noCache    bool
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"

	cfg = internal.DefaultConfig()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "session-viewer",
	Short: "View and export captured AI assistant sessions",
	Long: `A CLI tool to inspect captured AI assistant conversation logs.

It reads session JSON documents and Claude JSONL transcripts, classifies every
message and renders it with the component registered for its kind.

Features:
  • Render sessions with thinking, tool calls and tool results
  • Classify records and show which component handles them
  • Export in multiple formats (JSONL, Markdown, YAML, JSON)
  • Index sessions in SQLite and search message text
  • Watch a transcript and re-render as it grows

Quick Start:
  session-viewer list                         # List transcripts in ~/.claude/projects
  session-viewer show session.json            # Render a session
  session-viewer export session.jsonl -f md   # Export as Markdown`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)

		path := configPath
		if path == "" {
			path = internal.DefaultConfigPath()
		}
		loaded, err := internal.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/session-viewer/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Do not read or write the session cache")

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
