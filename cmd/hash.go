package cmd

import (
	"fmt"

	"github.com/iksnae/session-viewer/internal"
	"github.com/spf13/cobra"
)

var hashCmd = &cobra.Command{
	Use:   "hash <file|url>",
	Short: "Print record fingerprints",
	Long: `Print the document fingerprint followed by one line per record:
its fingerprint, index, type and uuid. Fingerprints are short checksums for
telling records apart at a glance, not cryptographic hashes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		session, err := internal.NewNormalizer().NormalizeDocument(doc)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s\n", session.Metadata.Hash, session.ID)
		for i := range doc.Messages {
			msg := &doc.Messages[i]
			fmt.Fprintf(out, "%s  %d  %s  %s\n", msg.Fingerprint(), i, msg.Type, msg.UUID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
}
