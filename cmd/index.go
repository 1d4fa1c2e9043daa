package cmd

import (
	"fmt"

	"github.com/iksnae/session-viewer/internal"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <file|url>...",
	Short: "Add sessions to the search index",
	Long: `Load sessions and store their parsed messages in the SQLite index database.
Indexing a session again replaces its previous copy. Sessions are keyed by
id, so indexing two files that share a session id keeps only the last one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := internal.OpenStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		indexed := 0
		err = internal.ShowProgress(cmd.Context(), fmt.Sprintf("Indexing %d session(s)", len(args)), func() error {
			for _, source := range args {
				session, err := loadSession(cmd.Context(), source)
				if err != nil {
					internal.LogWarn("Skipping %s: %v", source, err)
					continue
				}
				if err := store.SaveSession(session); err != nil {
					return fmt.Errorf("failed to index %s: %w", source, err)
				}
				indexed++
			}
			return nil
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Indexed %d session(s) into %s", indexed, cfg.DBPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
