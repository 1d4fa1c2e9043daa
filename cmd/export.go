package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/session-viewer/internal"
	"github.com/iksnae/session-viewer/internal/export"
	"github.com/spf13/cobra"
)

var (
	format      string
	outputDir   string
	dedupe      bool
	noSubagents bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file|url>...",
	Short: "Export sessions to file",
	Long: `Export sessions to jsonl, markdown, yaml or json.

Each source is written to <out>/session_<id>.<ext>. Use --dedupe to drop
records that appear more than once, as happens when transcripts are resumed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create exporter first so a bad format fails before any loading
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		var sessions []*internal.Session
		ctx := cmd.Context()
		steps := []internal.ProgressStep{
			{
				Message: "Loading sessions",
				Fn: func() error {
					for _, source := range args {
						session, err := loadForExport(ctx, source)
						if err != nil {
							return err
						}
						sessions = append(sessions, session)
					}
					return nil
				},
			},
			{
				Message: fmt.Sprintf("Exporting to %s", outputDir),
				Fn: func() error {
					return exportSessions(exporter, sessions, outputDir)
				},
			},
		}
		if err := internal.ShowProgressWithSteps(ctx, steps); err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d session(s) exported to %s", len(sessions), outputDir))
		return nil
	},
}

func loadForExport(ctx context.Context, source string) (*internal.Session, error) {
	var session *internal.Session
	if dedupe {
		doc, err := loadDocument(ctx, source)
		if err != nil {
			return nil, err
		}
		if dropped := internal.NewDeduplicator().DeduplicateDocument(doc); dropped > 0 {
			internal.LogInfo("Dropped %d duplicate record(s) from %s", dropped, source)
		}
		if session, err = internal.NewNormalizer().NormalizeDocument(doc); err != nil {
			return nil, err
		}
	} else {
		var err error
		if session, err = loadSession(ctx, source); err != nil {
			return nil, err
		}
	}

	if noSubagents {
		main, _ := internal.GroupByConversation(session.Messages)
		session.Messages = main
		session.Metadata.MessageCount = len(main)
		session.Metadata.SidechainCount = 0
	}
	return session, nil
}

// exportSessions writes one file per session into dir
func exportSessions(exporter export.Exporter, sessions []*internal.Session, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: dir, Err: err}
	}

	for _, session := range sessions {
		if session == nil {
			internal.LogWarn("Skipping nil session")
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("session_%s.%s", session.ID, exporter.Extension()))

		file, err := os.Create(path)
		if err != nil {
			return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
		}

		if err := exporter.Export(session, file); err != nil {
			_ = file.Close()
			return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
		}

		if err := file.Close(); err != nil {
			internal.LogWarn("Failed to close file %s: %v", path, err)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format ("+strings.Join(export.SupportedFormats(), ", ")+")")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().BoolVar(&dedupe, "dedupe", false, "Drop repeated records before exporting")
	exportCmd.Flags().BoolVar(&noSubagents, "no-sidechain", false, "Leave out subagent messages")
}
