package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	watch "github.com/tiborvass/go-watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [report-dir]",
	Short: "Watch a report directory in real-time",
	Long: `Continuously display the crash reports in a directory as they arrive.
The listing refreshes every second. Press Ctrl+C to stop watching.`,
	Example: `# Watch the default report directory
crashtrace watch

# Watch a crashing process's report directory
crashtrace watch /tmp/reports`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(app *cobra.Command, args []string) error {
		dir, err := resolveReportDir(args)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}

		w := watch.Watcher{Interval: time.Second}
		w.Watch(app.Context(), "ls", "-lht", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
