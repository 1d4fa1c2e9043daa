package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/session-viewer/internal"
	"github.com/spf13/cobra"
)

var searchLimit int

var matchStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("214")).
	Bold(true)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed message text",
	Long: `Search the content of indexed messages. Matching ignores ASCII case.
Run 'session-viewer index' first to populate the index.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := internal.OpenStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		query := strings.Join(args, " ")
		rows, err := store.Search(query, searchLimit)
		if err != nil {
			return err
		}
		displaySearchResults(cmd.OutOrStdout(), query, rows)
		return nil
	},
}

func displaySearchResults(out io.Writer, query string, rows []internal.MessageRow) {
	if len(rows) == 0 {
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("🔍 No matches for %q", query)))
		return
	}
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("🔍 %d match(es) for %q", len(rows), query)))
	fmt.Fprintln(out)

	for _, row := range rows {
		shortID := row.SessionID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		fmt.Fprintf(out, "%s %s %s\n", idStyle.Render(fmt.Sprintf("%s#%d", shortID, row.Position)), titleStyle.Render(row.Role), dateStyle.Render(row.Timestamp))
		fmt.Fprintf(out, "  %s\n\n", snippet(row.Content, query, 60))
	}
}

// snippet returns the text around the first match of query, ignoring ASCII case
func snippet(content, query string, radius int) string {
	content = strings.Join(strings.Fields(content), " ")
	idx := strings.Index(asciiLower(content), asciiLower(query))
	if idx < 0 {
		return truncate(content, radius*2)
	}

	start := max(0, idx-radius)
	end := min(len(content), idx+len(query)+radius)
	for start > 0 && !isRuneStart(content[start]) {
		start--
	}
	for end < len(content) && !isRuneStart(content[end]) {
		end++
	}

	prefix, suffix := "", ""
	if start > 0 {
		prefix = "…"
	}
	if end < len(content) {
		suffix = "…"
	}
	match := content[idx : idx+len(query)]
	return prefix + content[start:idx] + matchStyle.Render(match) + content[idx+len(query):end] + suffix
}

// asciiLower lowercases ASCII letters only, so byte offsets are preserved
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 50, "Maximum number of matches")
}
