// Package reporter is the top-level facade: configuration, handler
// lifecycle, manual and simulated reports, and raw-log recovery.
//
// The intended startup sequence is Configure, then
// ProcessPendingRawCrashReport, then InstallHandlers. Recovery must run
// before install because installing re-opens and truncates the raw log.
package reporter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"syscall"
	"time"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/crashtrace/crashtrace/rawlog"
	"github.com/crashtrace/crashtrace/report"
	"github.com/crashtrace/crashtrace/sigtrap"
	"github.com/crashtrace/crashtrace/symbolicate"
	"github.com/crashtrace/crashtrace/sysinfo"
)

// DefaultReportDir is used when no report directory is configured.
const DefaultReportDir = "~/.config/crashtrace/reports"

// RecoveredReason marks reports rebuilt from a raw log.
const RecoveredReason = "Crash (recovered from raw log)"

// ReportWriter persists a formatted report and returns its final path.
// report.Writer is the default implementation.
type ReportWriter interface {
	Write(r *report.CrashReport, formatted string) (string, bool)
}

// Reporter is the process-wide crash reporting instance. Signal handlers
// are process-global, so there is one live Reporter at a time; Configure
// replaces it.
type Reporter struct {
	mu sync.Mutex

	app    report.ApplicationInfo
	dir    string
	cfg    report.Configuration
	writer ReportWriter

	store *rawlog.Store
	trap  *sigtrap.Trap
}

// Option tunes Configure.
type Option func(*Reporter)

// WithPath overrides the executable path recorded in reports.
func WithPath(path string) Option {
	return func(r *Reporter) { r.app.Path = path }
}

// WithReportDir sets the directory reports and the raw log live in.
// Supports ~ expansion.
func WithReportDir(dir string) Option {
	return func(r *Reporter) { r.dir = dir }
}

// WithConfiguration replaces the default configuration.
func WithConfiguration(cfg report.Configuration) Option {
	return func(r *Reporter) { r.cfg = cfg }
}

// WithWriter replaces the atomic report writer, e.g. for tests.
func WithWriter(w ReportWriter) Option {
	return func(r *Reporter) { r.writer = w }
}

var (
	defaultMu       sync.Mutex
	defaultReporter *Reporter
)

// Configure builds the process-wide Reporter and makes it the Default.
// A previously configured instance has its handlers and raw-log fd
// released first.
func Configure(name, version string, opts ...Option) (*Reporter, error) {
	r := &Reporter{cfg: report.DefaultConfiguration()}
	for _, opt := range opts {
		opt(r)
	}
	r.app = sysinfo.CollectApplication(name, version, r.app.Path)

	if r.dir == "" {
		r.dir = DefaultReportDir
	}
	dir, err := homedir.Expand(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand report directory %s: %w", r.dir, err)
	}
	r.dir = dir

	if r.writer == nil {
		r.writer = &report.Writer{Dir: r.dir, MaxReports: r.cfg.MaxReports}
	}

	defaultMu.Lock()
	if prev := defaultReporter; prev != nil {
		prev.UninstallHandlers()
		prev.closeStore()
	}
	defaultReporter = r
	defaultMu.Unlock()

	slog.Info("crash reporter configured", "app", r.app.Name, "version", r.app.Version, "dir", r.dir)
	return r, nil
}

// Default returns the currently configured Reporter, or nil before
// Configure has run.
func Default() *Reporter {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultReporter
}

// ReportDir returns the configured report directory.
func (r *Reporter) ReportDir() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dir
}

// Configuration returns a copy of the active configuration.
func (r *Reporter) Configuration() report.Configuration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// SetConfiguration swaps the reporting options. The pruning limit follows
// when the default writer is in place.
func (r *Reporter) SetConfiguration(cfg report.Configuration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	if w, ok := r.writer.(*report.Writer); ok {
		w.MaxReports = cfg.MaxReports
	}
}

// SetReportWriter swaps the persistence backend.
func (r *Reporter) SetReportWriter(w ReportWriter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writer = w
}

// InstallHandlers opens (and truncates) the raw log and starts the fatal
// signal watcher. Call ProcessPendingRawCrashReport first: installing
// destroys any pending record.
func (r *Reporter) InstallHandlers() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.store == nil {
		store, err := rawlog.Open(r.dir)
		if err != nil {
			// The store degrades to a no-op sink; crashing without a raw
			// log beats attempting recovery inside the handler.
			slog.Warn("raw log unavailable, signal capture disabled", "error", err)
		}
		r.store = store
	}
	if r.trap == nil {
		r.trap = sigtrap.New(r.store.FD())
	}
	r.trap.Install()
	slog.Info("crash handlers installed", "signals", len(sigtrap.FatalSignals), "rawlog", r.store.Path())
}

// UninstallHandlers stops the watcher and restores default dispositions.
func (r *Reporter) UninstallHandlers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.trap != nil {
		r.trap.Uninstall()
		slog.Info("crash handlers uninstalled")
	}
}

// HandlersInstalled reports whether the watcher is active.
func (r *Reporter) HandlersInstalled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trap != nil && r.trap.Installed()
}

func (r *Reporter) closeStore() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.store != nil {
		r.store.Close()
		r.store = nil
	}
}

// WriteCrashReport produces a manual report with a live backtrace.
func (r *Reporter) WriteCrashReport(reason string) (string, bool) {
	rep := r.generate(nil, reason, nil, nil, nil, 1)
	return r.persist(rep)
}

// SimulateSignal synthesizes a report as if sig had been caught. Nothing
// is raised; the process continues. Intended for testing.
func (r *Reporter) SimulateSignal(sig int) (string, bool) {
	rep := r.generate(&sig, "Simulated signal", nil, nil, nil, 1)
	return r.persist(rep)
}

// SimulateRawCrash stages a raw-log record for sig as if the signal phase
// had run, without terminating the process. The record is picked up by
// ProcessPendingRawCrashReport on the next start. Requires installed
// handlers (that is what opens the raw log).
func (r *Reporter) SimulateRawCrash(sig int) bool {
	r.mu.Lock()
	trap := r.trap
	store := r.store
	r.mu.Unlock()

	if trap == nil || store == nil || !store.Valid() {
		return false
	}
	trap.Record(syscall.Signal(sig))
	return true
}

// RecoverPanic is meant to be deferred near the top of main. It writes a
// crash report for a propagating panic, then re-panics so the process
// still dies loudly.
func (r *Reporter) RecoverPanic() {
	rec := recover()
	if rec == nil {
		return
	}
	r.WriteCrashReport(fmt.Sprintf("panic: %v", rec))
	panic(rec)
}

// generate hydrates a CrashReport. rawTimestamp and rawThreadID override
// the collected values during recovery; addrs switches symbolication from
// live capture to the recovered address list. skip counts caller frames
// hidden from live traces.
func (r *Reporter) generate(sig *int, reason string, rawTimestamp *int64, rawThreadID *uint64, addrs []uintptr, skip int) *report.CrashReport {
	r.mu.Lock()
	app := r.app
	includeSym := r.cfg.IncludeSymbolication
	r.mu.Unlock()

	ts := time.Now()
	if rawTimestamp != nil && *rawTimestamp > 0 {
		ts = time.Unix(*rawTimestamp, 0)
	}

	threads := sysinfo.CollectThreads()
	if rawThreadID != nil {
		threads.CurrentThreadID = *rawThreadID
	}

	sym := symbolicate.New(includeSym)
	var trace report.StackTrace
	if len(addrs) > 0 {
		trace = sym.FromAddresses(context.Background(), addrs)
	} else {
		trace = sym.Live(skip + 1)
	}

	return &report.CrashReport{
		Timestamp:       ts,
		Signal:          sig,
		Reason:          reason,
		StackTrace:      trace,
		ThreadInfo:      threads,
		SystemInfo:      sysinfo.CollectSystem(),
		ApplicationInfo: app,
	}
}

func (r *Reporter) persist(rep *report.CrashReport) (string, bool) {
	r.mu.Lock()
	writer := r.writer
	cfg := r.cfg
	r.mu.Unlock()

	formatted := rep.FormatWithDetail(cfg.Format, cfg.DetailLevel)
	path, ok := writer.Write(rep, formatted)
	if ok {
		slog.Info("crash report written", "path", path)
	} else {
		slog.Error("crash report write failed", "app", rep.ApplicationInfo.Name)
	}
	return path, ok
}
