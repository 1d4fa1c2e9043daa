package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/iksnae/session-viewer/internal"
	"github.com/spf13/cobra"
)

var classifyJSON bool

// classifiedRecord is one line of classify output
type classifiedRecord struct {
	Index       int              `json:"index"`
	UUID        string           `json:"uuid,omitempty"`
	BaseType    string           `json:"baseType"`
	SubType     internal.SubType `json:"subType"`
	Flags       []internal.Flag  `json:"flags"`
	Kind        string           `json:"kind"`
	MatchedType string           `json:"matchedType"`
	Priority    int              `json:"priority"`
	Fallback    bool             `json:"fallback,omitempty"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify <file|url>",
	Short: "Show how each record is classified and dispatched",
	Long: `Print the classification of every record in document order together with
the component the registry picks for it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		records := classifyRecords(doc, newTerminalRegistry(true, false))
		if classifyJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}
		displayClassifications(cmd.OutOrStdout(), records)
		return nil
	},
}

func classifyRecords(doc *internal.SessionDocument, registry *internal.Registry) []classifiedRecord {
	records := make([]classifiedRecord, 0, len(doc.Messages))
	for i := range doc.Messages {
		msg := &doc.Messages[i]
		class := internal.Classify(msg)
		match := registry.FindMatch(msg)
		records = append(records, classifiedRecord{
			Index:       i,
			UUID:        msg.UUID,
			BaseType:    class.BaseType,
			SubType:     class.SubType,
			Flags:       class.Flags,
			Kind:        internal.Kind(msg),
			MatchedType: match.MatchedType,
			Priority:    match.Priority,
			Fallback:    !match.Success,
		})
	}
	return records
}

func displayClassifications(out io.Writer, records []classifiedRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tTYPE\tSUBTYPE\tFLAGS\tCOMPONENT\tPRIORITY")
	for _, r := range records {
		flags := make([]string, len(r.Flags))
		for i, f := range r.Flags {
			flags[i] = string(f)
		}
		flagText := strings.Join(flags, ",")
		if flagText == "" {
			flagText = "-"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n", r.Index, r.BaseType, r.SubType, flagText, r.MatchedType, r.Priority)
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print JSON instead of a table")
}
