package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iksnae/session-viewer/internal"
	"github.com/spf13/cobra"
)

var watchTail int

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render a session whenever its file changes",
	Long: `Render a local session file and render it again each time it is written,
which is useful for following a transcript while a session is running.
Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if internal.IsRemoteSource(path) {
			return fmt.Errorf("watch needs a local file, got %s", path)
		}
		if _, err := os.Stat(path); err != nil {
			return &internal.LoadError{Path: path, Op: "stat", Err: err}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		registry := newTerminalRegistry(plain, false)
		redraw := func() {
			doc, err := internal.LoadSessionFile(path)
			if err != nil {
				internal.LogWarn("Failed to reload %s: %v", path, err)
				return
			}
			session, err := internal.NewNormalizer().NormalizeDocument(doc)
			if err != nil {
				internal.LogWarn("Failed to normalize %s: %v", path, err)
				return
			}
			if internal.IsTerminal(out) {
				fmt.Fprint(out, "\033[H\033[2J")
			}

			if err := renderSession(out, doc, session, recordFilter{tail: watchTail}, registry); err != nil {
				internal.LogWarn("Failed to render %s: %v", path, err)
			}
		}

		redraw()
		internal.LogInfo("Watching %s", path)
		return internal.WatchFile(ctx, path, internal.DefaultDebounce, redraw)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().IntVar(&watchTail, "tail", 20, "Only render the last N messages (0 for all)")
	watchCmd.Flags().BoolVar(&plain, "plain", false, "Disable markdown rendering")
}
