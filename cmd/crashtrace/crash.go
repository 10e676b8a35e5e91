package main

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/crashtrace/crashtrace/reporter"
)

var crashCmd = &cobra.Command{
	Use:   "crash <type> [report-dir]",
	Short: "Deliberately crash the process",
	Long: `Install the crash handlers, then self-inflict the chosen crash.
The process dies by its own signal for every type except "manual" (writes a
report and exits) and "raw_report_segfault" (stages a pending raw log for
the next run and exits).

Crash types: segfault|sigsegv, abort|sigabrt, floating-point-exception|fpe|sigfpe,
illegal-instruction|sigill, bus-error|sigbus, manual, raw_report_segfault`,
	Example: `# Die of SIGSEGV, leaving a raw log in /tmp/reports
crashtrace crash segfault /tmp/reports

# Then turn the raw log into a full report
crashtrace recover /tmp/reports`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(app *cobra.Command, args []string) error {
		dir := scratchReportDir()
		if len(args) > 1 {
			dir = args[1]
		}

		r, err := reporter.Configure("CrashTester", "1.0.0", reporter.WithReportDir(dir))
		if err != nil {
			return err
		}

		if path, ok := r.ProcessPendingRawCrashReport(); ok {
			fmt.Printf("Recovered pending crash report: %s\n", path)
		}
		r.InstallHandlers()

		switch args[0] {
		case "manual":
			path, ok := r.WriteCrashReport("Manually triggered crash report")
			if !ok {
				return fmt.Errorf("failed to write crash report to %s", dir)
			}
			fmt.Printf("Crash report written: %s\n", path)
			return nil

		case "raw_report_segfault":
			if !r.SimulateRawCrash(int(syscall.SIGSEGV)) {
				return fmt.Errorf("failed to stage raw crash log in %s", dir)
			}
			fmt.Printf("Pending raw crash log staged in %s\n", dir)
			return nil

		default:
			sig, err := signalFor(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Raising signal %d in %s...\n", sig, dir)
			unix.Kill(os.Getpid(), sig)

			// The watcher persists the raw log and re-raises; death is
			// asynchronous from here.
			time.Sleep(5 * time.Second)
			return fmt.Errorf("signal %d did not terminate the process", sig)
		}
	},
}

func signalFor(keyword string) (syscall.Signal, error) {
	switch keyword {
	case "segfault", "sigsegv":
		return syscall.SIGSEGV, nil
	case "abort", "sigabrt":
		return syscall.SIGABRT, nil
	case "floating-point-exception", "fpe", "sigfpe":
		return syscall.SIGFPE, nil
	case "illegal-instruction", "sigill":
		return syscall.SIGILL, nil
	case "bus-error", "sigbus":
		return syscall.SIGBUS, nil
	default:
		return 0, fmt.Errorf("unknown crash type %q", keyword)
	}
}

// scratchReportDir names a throwaway report directory for runs that don't
// pass one explicitly.
func scratchReportDir() string {
	return filepath.Join(os.TempDir(), "crashtrace-"+petname.Generate(2, "-"))
}

func init() {
	rootCmd.AddCommand(crashCmd)
}
