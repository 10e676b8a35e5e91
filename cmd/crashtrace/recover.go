package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crashtrace/crashtrace/reporter"
)

var recoverCmd = &cobra.Command{
	Use:   "recover [report-dir]",
	Short: "Recover a pending raw crash log",
	Long: `Check a report directory for a raw crash log left behind by a previous
run that died in its signal handler, and turn it into a full crash report.`,
	Example: `# Recover whatever "crashtrace crash segfault /tmp/reports" left behind
crashtrace recover /tmp/reports`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(app *cobra.Command, args []string) error {
		dir, err := resolveReportDir(args)
		if err != nil {
			return err
		}

		r, err := reporter.Configure("CrashTester", "1.0.0", reporter.WithReportDir(dir))
		if err != nil {
			return err
		}

		path, ok := r.ProcessPendingRawCrashReport()
		if !ok {
			fmt.Printf("No pending raw crash log in %s\n", dir)
			return nil
		}
		fmt.Printf("Recovered pending crash report: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recoverCmd)
}
