package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/session-viewer/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthReport collects the outcome of each healthcheck step
type healthReport struct {
	sessionFiles int
	indexed      int
	failures     []string
}

func (r *healthReport) fail(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that session-viewer can find sessions and write its cache",
	Long: `Check the health of session-viewer by verifying:
  • Config file resolution
  • Projects directory and session file count
  • Cache directory writability
  • Index database access

Pass --verbose to print the paths each step looked at.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHealthcheck(cmd.OutOrStdout(), cfg, verbose)
	},
}

func runHealthcheck(out io.Writer, conf internal.Config, detailed bool) error {
	report := &healthReport{}

	fmt.Fprintln(out, sectionStyle.Render("🔍 Session Viewer Health Check"))
	fmt.Fprintln(out)

	// Step 1: Config
	fmt.Fprintln(out, infoStyle.Render("Step 1: Resolving config..."))
	path := configPath
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintln(out, successStyle.Render("✅ Config file loaded"))
	} else {
		fmt.Fprintln(out, warningStyle.Render("⚠️  No config file, using defaults"))
	}
	if detailed {
		fmt.Fprintf(out, "   Config: %s\n", path)
		fmt.Fprintf(out, "   Style: %s, width: %d\n", conf.Style, conf.Width)
	}
	fmt.Fprintln(out)

	// Step 2: Projects directory
	fmt.Fprintln(out, infoStyle.Render("Step 2: Checking projects directory..."))
	checkProjectsDir(out, conf.ProjectsDir, detailed, report)
	fmt.Fprintln(out)

	// Step 3: Cache directory
	fmt.Fprintln(out, infoStyle.Render("Step 3: Checking cache directory..."))
	if err := checkWritable(conf.CacheDir); err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Cache directory is not writable:"), err)
		report.fail("cache directory %s is not writable", conf.CacheDir)
	} else {
		fmt.Fprintln(out, successStyle.Render("✅ Cache directory is writable"))
	}
	if detailed {
		fmt.Fprintf(out, "   Directory: %s\n", conf.CacheDir)
	}
	fmt.Fprintln(out)

	// Step 4: Index database
	fmt.Fprintln(out, infoStyle.Render("Step 4: Opening index database..."))
	checkIndex(out, conf.DBPath, report)
	if detailed {
		fmt.Fprintf(out, "   Database: %s\n", conf.DBPath)
	}
	fmt.Fprintln(out)

	// Summary
	fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
	fmt.Fprintln(out)

	if len(report.failures) > 0 {
		fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
		for _, f := range report.failures {
			fmt.Fprintf(out, "   • %s\n", f)
		}
		return fmt.Errorf("health check failed: %d problem(s)", len(report.failures))
	}

	fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Session files: %d found", report.sessionFiles)))
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Indexed sessions: %d", report.indexed)))
	return nil
}

func checkProjectsDir(out io.Writer, dir string, detailed bool, report *healthReport) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		// A missing projects dir only means list has nothing to show
		fmt.Fprintln(out, warningStyle.Render("⚠️  Projects directory not found"))
		if detailed {
			fmt.Fprintf(out, "   Expected: %s\n", dir)
		}
		return
	}

	files, err := collectSessionFiles(dir)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Failed to scan projects directory:"), err)
		report.fail("cannot scan %s", dir)
		return
	}
	report.sessionFiles = len(files)

	if len(files) == 0 {
		fmt.Fprintln(out, warningStyle.Render("⚠️  Projects directory has no session files"))
	} else {
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d session file(s)", len(files))))
	}
	if detailed {
		fmt.Fprintf(out, "   Directory: %s\n", dir)
		for i, f := range files {
			if i == 5 {
				fmt.Fprintf(out, "   ... and %d more\n", len(files)-5)
				break
			}
			fmt.Fprintf(out, "   [%d] %s\n", i+1, f)
		}
	}
}

// checkWritable creates dir if needed and writes a probe file into it
func checkWritable(dir string) error {
	if dir == "" {
		return fmt.Errorf("no cache directory configured")
	}
	if err := internal.NewCacheManager(dir).EnsureCacheDir(); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".healthcheck-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(filepath.Clean(name))
}

func checkIndex(out io.Writer, dbPath string, report *healthReport) {
	store, err := internal.OpenStore(dbPath)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Failed to open index database:"), err)
		report.fail("index database %s is unavailable", dbPath)
		return
	}
	defer func() { _ = store.Close() }()

	entries, err := store.ListSessions()
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Failed to read index database:"), err)
		report.fail("index database %s is unreadable", dbPath)
		return
	}
	report.indexed = len(entries)
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Index database holds %d session(s)", len(entries))))
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
