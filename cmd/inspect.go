package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/iksnae/session-viewer/internal"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var (
	inspectPath       string
	inspectDB         bool
	inspectSampleRows int
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [file|url]",
	Short: "Query raw session JSON or the index database",
	Long: `Inspect the raw structure of a session document.

With --path the document is queried with a gjson path and the result printed.
Transcripts (.jsonl) use gjson's JSON Lines syntax: prefix the path with "..".
Without --path a summary of record types is printed.

With --db the schema, row counts and sample rows of the index database are
shown instead.

Examples:
  session-viewer inspect session.json --path 'messages.#'
  session-viewer inspect session.json --path 'messages.#(type=="assistant")#.message.model'
  session-viewer inspect transcript.jsonl --path '..#.type'
  session-viewer inspect --db --sample 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if inspectDB {
			return inspectDatabase(out, cfg.DBPath)
		}
		if len(args) == 0 {
			return fmt.Errorf("a session file or URL is required unless --db is set")
		}

		data, err := readRaw(args[0])
		if err != nil {
			return err
		}

		if inspectPath != "" {
			result := gjson.GetBytes(data, inspectPath)
			if !result.Exists() {
				return fmt.Errorf("path %q matched nothing", inspectPath)
			}
			fmt.Fprintln(out, result.String())
			return nil
		}

		summarizeRaw(out, data, internal.IsTranscriptPath(args[0]))
		return nil
	},
}

func readRaw(source string) ([]byte, error) {
	if !internal.IsRemoteSource(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, &internal.LoadError{Path: source, Op: "read", Err: err}
		}
		return data, nil
	}

	resp, err := http.Get(source)
	if err != nil {
		return nil, &internal.FetchError{URL: source, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &internal.FetchError{URL: source, Status: resp.StatusCode, Err: fmt.Errorf("%s", http.StatusText(resp.StatusCode))}
	}
	return io.ReadAll(resp.Body)
}

// summarizeRaw prints the record count and a histogram of record types
func summarizeRaw(out io.Writer, data []byte, transcript bool) {
	typesPath := "messages.#.type"
	if transcript {
		typesPath = "..#.type"
	} else {
		fmt.Fprintf(out, "session_id: %s\n", gjson.GetBytes(data, "session_id").String())
		if t := gjson.GetBytes(data, "extraction_time"); t.Exists() {
			fmt.Fprintf(out, "extraction_time: %s\n", t.String())
		}
	}

	counts := make(map[string]int)
	total := 0
	for _, t := range gjson.GetBytes(data, typesPath).Array() {
		name := t.String()
		if name == "" {
			name = "(none)"
		}
		counts[name]++
		total++
	}

	fmt.Fprintf(out, "records: %d\n", total)
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-24s %d\n", name, counts[name])
	}
}

func inspectDatabase(out io.Writer, dbPath string) error {
	db, err := internal.OpenDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Get all tables
	tables, err := getTables(db)
	if err != nil {
		return fmt.Errorf("failed to get tables: %w", err)
	}

	if len(tables) == 0 {
		fmt.Fprintln(out, "⚠️  No tables found in database")
		return nil
	}

	fmt.Fprintf(out, "📋 Database: %s\n", dbPath)
	fmt.Fprintf(out, "📊 Found %d table(s)\n\n", len(tables))

	for _, tableName := range tables {
		if err := inspectTable(out, db, tableName); err != nil {
			fmt.Fprintf(out, "⚠️  Error inspecting table %s: %v\n", tableName, err)
			continue
		}
		fmt.Fprintln(out)
	}

	return nil
}

func getTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func inspectTable(out io.Writer, db *sql.DB, tableName string) error {
	fmt.Fprintf(out, "📦 Table: %s\n", tableName)

	// Get row count
	var rowCount int
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", tableName)).Scan(&rowCount); err != nil {
		return fmt.Errorf("failed to get row count: %w", err)
	}
	fmt.Fprintf(out, "📊 Rows: %d\n", rowCount)

	columns, err := getTableSchema(db, tableName)
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}

	fmt.Fprintln(out, "📐 Schema:")
	for _, col := range columns {
		pk := ""
		if col.PrimaryKey {
			pk = " [PRIMARY KEY]"
		}
		notNull := ""
		if col.NotNull {
			notNull = " NOT NULL"
		}
		fmt.Fprintf(out, "  • %s: %s%s%s\n", col.Name, col.Type, notNull, pk)
	}

	if rowCount > 0 && inspectSampleRows > 0 {
		if err := showSampleData(out, db, tableName, columns, inspectSampleRows); err != nil {
			fmt.Fprintf(out, "⚠️  Error showing sample data: %v\n", err)
		}
	}

	return nil
}

// ColumnInfo describes one column of a table
type ColumnInfo struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

func getTableSchema(db *sql.DB, tableName string) ([]ColumnInfo, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", tableName))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var cid int
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			continue
		}
		col.NotNull = notNull == 1
		col.PrimaryKey = pk > 0
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func showSampleData(out io.Writer, db *sql.DB, tableName string, columns []ColumnInfo, limit int) error {
	if len(columns) == 0 {
		return nil
	}

	colNames := make([]string, len(columns))
	for i, col := range columns {
		colNames[i] = fmt.Sprintf("%q", col.Name)
	}

	query := fmt.Sprintf("SELECT %s FROM %q LIMIT %d", strings.Join(colNames, ", "), tableName, limit)
	rows, err := db.Query(query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	fmt.Fprintf(out, "📄 Sample Data (first %d rows):\n", limit)
	rowNum := 0
	for rows.Next() {
		rowNum++
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			fmt.Fprintf(out, "  ⚠️  Row %d: error scanning: %v\n", rowNum, err)
			continue
		}

		fmt.Fprintf(out, "  Row %d:\n", rowNum)
		for i, col := range columns {
			valStr := "<NULL>"
			if values[i] != nil {
				valStr = fmt.Sprintf("%v", values[i])
				if b, ok := values[i].([]byte); ok {
					valStr = string(b)
				}
				// Show first line only, truncated
				valStr, _, _ = strings.Cut(valStr, "\n")
				if len(valStr) > 120 {
					valStr = valStr[:120] + "..."
				}
			}
			fmt.Fprintf(out, "    %s: %s\n", col.Name, valStr)
		}
	}

	return rows.Err()
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectPath, "path", "", "gjson path to query")
	inspectCmd.Flags().BoolVar(&inspectDB, "db", false, "Inspect the index database instead of a file")
	inspectCmd.Flags().IntVar(&inspectSampleRows, "sample", 3, "Number of sample rows to show with --db")
}
