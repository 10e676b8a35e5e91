package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [report-dir]",
	Short: "List crash reports",
	Long:  `List the crash reports in a report directory, newest first.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(app *cobra.Command, args []string) error {
		dir, err := resolveReportDir(args)
		if err != nil {
			return err
		}
		reports, err := listReports(dir)
		if err != nil {
			return err
		}
		if len(reports) == 0 {
			fmt.Printf("No crash reports in %s\n", dir)
			return nil
		}

		nameStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)
		metaStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

		for _, r := range reports {
			fmt.Printf("%s  %s\n", nameStyle.Render(r.Name),
				metaStyle.Render(fmt.Sprintf("%s, %s", humanize.Time(r.ModTime), humanize.Bytes(uint64(r.Size)))))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
