package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [report-dir] [file]",
	Short: "Print a crash report",
	Long: `Print the contents of a crash report. Without a file argument an
interactive picker lists the reports in the directory, newest first.`,
	Example: `# Pick a report interactively
crashtrace show /tmp/reports

# Print a specific report
crashtrace show /tmp/reports TestApp_20260824_120000_1234_deadbeef.crash`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(app *cobra.Command, args []string) error {
		dir, err := resolveReportDir(args)
		if err != nil {
			return err
		}

		var path string
		if len(args) > 1 {
			path = args[1]
			if !filepath.IsAbs(path) {
				path = filepath.Join(dir, path)
			}
		} else {
			reports, err := listReports(dir)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				return fmt.Errorf("no crash reports in %s", dir)
			}
			path, err = RunReportSelector(reports)
			if err != nil {
				return err
			}
		}

		contents, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read crash report %s: %w", path, err)
		}
		fmt.Print(string(contents))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
