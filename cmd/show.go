package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/session-viewer/internal"
	"github.com/spf13/cobra"
)

var (
	limit       int
	since       string
	showAll     bool
	noSidechain bool
	showHashes  bool
	plain       bool
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	remainingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

// recordFilter selects which records show renders
type recordFilter struct {
	all         bool
	since       *time.Time
	noSidechain bool
	// tail keeps only the last n records that pass the other filters
	tail  int
	limit int
}

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <file|url>",
	Short: "Render a session",
	Long: `Render a session document or transcript message by message.

Each message is classified and drawn by the highest-priority component that
accepts it. Messages nothing accepts are dumped as JSON.

By default meta records are hidden and messages are ordered by timestamp.
Use --all to render every record in document order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := recordFilter{all: showAll, noSidechain: noSidechain, limit: limit}
		if since != "" {
			t, ok := internal.ParseTimestamp(since)
			if !ok {
				return fmt.Errorf("invalid --since timestamp %q (expected RFC3339)", since)
			}
			filter.since = &t
		}

		doc, err := loadDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		session, err := internal.NewNormalizer().NormalizeDocument(doc)
		if err != nil {
			return fmt.Errorf("failed to normalize session: %w", err)
		}

		out := cmd.OutOrStdout()
		return renderSession(out, doc, session, filter, newTerminalRegistry(plain, showHashes))
	},
}

func renderSession(out io.Writer, doc *internal.SessionDocument, session *internal.Session, filter recordFilter, registry *internal.Registry) error {
	displaySessionHeader(out, session)

	records, total := selectRecords(doc, filter)
	for _, rec := range records {
		match := registry.FindMatch(rec)
		internal.LogDebug("Record %s rendered by %s (priority %d)", rec.UUID, match.MatchedType, match.Priority)
		if err := match.Renderer.Render(out, rec); err != nil {
			internal.LogWarn("Failed to render record %s: %v", rec.UUID, err)
		}
	}

	if remaining := total - len(records); remaining > 0 {
		fmt.Fprintln(out, remainingStyle.Render(fmt.Sprintf("... (%d more message(s))", remaining)))
	}
	return nil
}

// selectRecords returns the records to render and how many passed the
// filters before the limit was applied
func selectRecords(doc *internal.SessionDocument, filter recordFilter) ([]*internal.Message, int) {
	var candidates []*internal.Message
	if filter.all {
		for i := range doc.Messages {
			candidates = append(candidates, &doc.Messages[i])
		}
	} else {
		for _, msg := range internal.Parse(doc.Messages) {
			candidates = append(candidates, msg.Source)
		}
	}

	selected := make([]*internal.Message, 0, len(candidates))
	for _, rec := range candidates {
		if filter.noSidechain && rec.IsSidechain {
			continue
		}
		if filter.since != nil {
			t, ok := rec.Time()
			if !ok || t.Before(*filter.since) {
				continue
			}
		}
		selected = append(selected, rec)
	}

	if filter.tail > 0 && filter.tail < len(selected) {
		selected = selected[len(selected)-filter.tail:]
	}

	total := len(selected)
	if filter.limit > 0 && filter.limit < total {
		selected = selected[:filter.limit]
	}
	return selected, total
}

func displaySessionHeader(out io.Writer, session *internal.Session) {
	if session == nil {
		return
	}
	fmt.Fprintln(out, sessionHeaderStyle.Render(fmt.Sprintf("💬 %s", session.ID)))

	// Create metadata line
	var metaParts []string
	if session.Metadata.FirstTimestamp != "" {
		metaParts = append(metaParts, fmt.Sprintf("Started: %s", internal.FormatTimestamp(session.Metadata.FirstTimestamp, time.Now())))
	}
	metaParts = append(metaParts, fmt.Sprintf("Messages: %d", session.Metadata.MessageCount))
	if session.Metadata.SidechainCount > 0 {
		metaParts = append(metaParts, fmt.Sprintf("Subagent: %d", session.Metadata.SidechainCount))
	}
	if session.Metadata.CWD != "" {
		metaParts = append(metaParts, fmt.Sprintf("Directory: %s", session.Metadata.CWD))
	}
	if session.Metadata.GitBranch != "" {
		metaParts = append(metaParts, fmt.Sprintf("Branch: %s", session.Metadata.GitBranch))
	}
	if session.Metadata.SkippedCount > 0 {
		metaParts = append(metaParts, fmt.Sprintf("Skipped: %d", session.Metadata.SkippedCount))
	}

	fmt.Fprintln(out, sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of messages to show")
	showCmd.Flags().StringVar(&since, "since", "", "Show messages since timestamp (ISO8601)")
	showCmd.Flags().BoolVar(&showAll, "all", false, "Render every record, including meta records, in document order")
	showCmd.Flags().BoolVar(&noSidechain, "no-sidechain", false, "Hide subagent messages")
	showCmd.Flags().BoolVar(&showHashes, "hash", false, "Show record fingerprints")
	showCmd.Flags().BoolVar(&plain, "plain", false, "Disable markdown rendering")
}
