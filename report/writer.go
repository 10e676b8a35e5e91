package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Extension is the suffix of final report files.
const Extension = ".crash"

const filenameTimeLayout = "20060102_150405"

// Writer persists formatted reports atomically: the content lands in a
// temp file first and is renamed into place, so readers never observe a
// half-written report.
type Writer struct {
	Dir string

	// MaxReports caps the .crash files kept in Dir after each successful
	// write; 0 disables pruning.
	MaxReports int
}

// NewWriter returns a writer for dir with pruning disabled.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Write stores formatted under a unique name derived from the report and
// returns the final path. On any failure the temp file is removed
// best-effort and ok is false.
func (w *Writer) Write(r *CrashReport, formatted string) (string, bool) {
	if w == nil || w.Dir == "" {
		return "", false
	}
	if err := os.MkdirAll(w.Dir, 0o700); err != nil {
		slog.Error("failed to create report directory", "dir", w.Dir, "error", err)
		return "", false
	}

	tempPath := filepath.Join(w.Dir, "temp_"+uuid.NewString()+Extension)
	if err := os.WriteFile(tempPath, []byte(formatted), 0o600); err != nil {
		slog.Error("failed to write report", "path", tempPath, "error", err)
		os.Remove(tempPath)
		return "", false
	}

	finalPath := filepath.Join(w.Dir, Filename(r.ApplicationInfo.Name, r.Timestamp))
	if err := os.Rename(tempPath, finalPath); err != nil {
		slog.Error("failed to finalize report", "path", finalPath, "error", err)
		os.Remove(tempPath)
		return "", false
	}

	w.prune()
	return finalPath, true
}

// Filename builds `<App_Name>_<yyyyMMdd_HHmmss>_<pid>_<8hex>.crash`.
// Spaces in the application name become underscores so the name stays a
// single shell token.
func Filename(appName string, ts time.Time) string {
	if appName == "" {
		appName = "Unknown"
	}
	appName = strings.ReplaceAll(appName, " ", "_")
	// The first UUID group is 8 hex digits, which is exactly the short
	// random component the filename needs.
	random := uuid.NewString()[:8]
	return fmt.Sprintf("%s_%s_%d_%s%s", appName, ts.Local().Format(filenameTimeLayout), os.Getpid(), random, Extension)
}

// prune removes the oldest .crash files beyond MaxReports. Failures are
// logged and ignored: pruning is housekeeping, not correctness.
func (w *Writer) prune() {
	if w.MaxReports <= 0 {
		return
	}
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var reports []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		if strings.HasPrefix(entry.Name(), "temp_") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		reports = append(reports, candidate{filepath.Join(w.Dir, entry.Name()), info.ModTime()})
	}
	if len(reports) <= w.MaxReports {
		return
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].mod.Before(reports[j].mod) })
	for _, old := range reports[:len(reports)-w.MaxReports] {
		if err := os.Remove(old.path); err != nil {
			slog.Warn("failed to prune old report", "path", old.path, "error", err)
		}
	}
}
