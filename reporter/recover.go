package reporter

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/crashtrace/crashtrace/rawlog"
)

// ProcessPendingRawCrashReport looks for a raw log left by a previous
// crash, upgrades it into a full report, and removes it. Returns the final
// report path, or ok=false when there was nothing to recover or the raw
// log was unusable. In every case where the raw log existed, it is gone
// when this returns.
func (r *Reporter) ProcessPendingRawCrashReport() (string, bool) {
	r.mu.Lock()
	dir := r.dir
	r.mu.Unlock()
	if dir == "" {
		return "", false
	}

	rawPath := filepath.Join(dir, rawlog.FileName)
	f, err := os.Open(rawPath)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to open raw log", "path", rawPath, "error", err)
		}
		return "", false
	}

	rec, err := rawlog.Parse(f)
	f.Close()
	if err != nil {
		if errors.Is(err, rawlog.ErrMissingSignal) {
			slog.Warn("discarding malformed raw log", "path", rawPath)
		} else {
			slog.Warn("failed to parse raw log", "path", rawPath, "error", err)
		}
		os.Remove(rawPath)
		return "", false
	}

	slog.Info("recovering crash report from raw log",
		"signal", rec.Signal, "timestamp", rec.Timestamp, "frames", len(rec.Frames))

	sig := int(rec.Signal)
	rep := r.generate(&sig, RecoveredReason, &rec.Timestamp, &rec.ThreadID, rec.Frames, 1)
	path, ok := r.persist(rep)

	if err := os.Remove(rawPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove raw log", "path", rawPath, "error", err)
	}
	return path, ok
}
