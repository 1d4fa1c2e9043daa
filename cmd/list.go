package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/session-viewer/internal"
	"github.com/spf13/cobra"
)

var (
	listClearCache bool
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	workspaceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List session files",
	Long: `List session documents (.json) and transcripts (.jsonl) found under a
directory, newest first. Defaults to ~/.claude/projects.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.ProjectsDir
		if len(args) > 0 {
			dir = args[0]
		}

		cm := cacheManager()
		if listClearCache && cm != nil {
			if err := cm.ClearCache(); err != nil {
				internal.LogWarn("Failed to clear cache: %v", err)
			} else {
				internal.LogInfo("Cache cleared")
			}
		}

		files, err := collectSessionFiles(dir)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", dir, err)
		}

		var entries []internal.SessionIndexEntry
		err = internal.ShowProgress(cmd.Context(), fmt.Sprintf("Reading %d session file(s)", len(files)), func() error {
			entries = summarizeFiles(cmd.Context(), cm, files)
			return nil
		})
		if err != nil {
			return err
		}

		displaySessions(cmd.OutOrStdout(), entries, time.Now())
		return nil
	},
}

// collectSessionFiles walks dir for .json and .jsonl files
func collectSessionFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			internal.LogDebug("Skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".jsonl":
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// summarizeFiles builds index entries from the cache where possible and by
// loading the file otherwise. Unreadable files are logged and left out.
func summarizeFiles(ctx context.Context, cm *internal.CacheManager, files []string) []internal.SessionIndexEntry {
	entries := make([]internal.SessionIndexEntry, 0, len(files))
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		if cm != nil {
			if entry, ok := cm.LookupEntry(path); ok {
				entries = append(entries, entry)
				continue
			}
		}
		session, err := internal.LoadSessionCached(cm, path)
		if err != nil {
			internal.LogWarn("Skipping %s: %v", path, err)
			continue
		}
		entries = append(entries, internal.SessionIndexEntry{
			ID:             session.ID,
			Source:         path,
			MessageCount:   session.Metadata.MessageCount,
			SidechainCount: session.Metadata.SidechainCount,
			FirstTimestamp: session.Metadata.FirstTimestamp,
			LastTimestamp:  session.Metadata.LastTimestamp,
			CWD:            session.Metadata.CWD,
			GitBranch:      session.Metadata.GitBranch,
			Hash:           session.Metadata.Hash,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastTimestamp > entries[j].LastTimestamp
	})
	return entries
}

func displaySessions(out io.Writer, entries []internal.SessionIndexEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No sessions found"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d session(s)", len(entries))))
	fmt.Fprintln(out)

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Updated")+"\t"+titleStyle.Render("Directory")+"\t"+titleStyle.Render("File")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, entry := range entries {
		// Show short ID (first 8 chars) for readability
		shortID := entry.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		updated := dateStyle.Render("—")
		if entry.LastTimestamp != "" {
			updated = dateStyle.Render(internal.FormatTimestamp(entry.LastTimestamp, now))
		}

		directory := dateStyle.Render("—")
		if entry.CWD != "" {
			directory = workspaceStyle.Render(truncate(filepath.Base(entry.CWD), 25))
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(shortID),
			countStyle.Render(strconv.Itoa(entry.MessageCount)),
			updated,
			directory,
			truncate(entry.Source, 60),
		)
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: render one with `session-viewer show "+entries[0].Source+"`"))
}

// truncate shortens s to at most n runes, keeping the tail
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "…" + string(r[len(r)-n+1:])
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listClearCache, "clear-cache", false, "Clear the cache before running")
}
