package reporter

import (
	"os"
	"path/filepath"
	"regexp"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashtrace/crashtrace/rawlog"
	"github.com/crashtrace/crashtrace/report"
)

func newTestReporter(t *testing.T) (*Reporter, string) {
	t.Helper()
	dir := t.TempDir()
	r, err := Configure("TestApp", "1.0.0", WithReportDir(dir))
	require.NoError(t, err)
	t.Cleanup(r.UninstallHandlers)
	return r, dir
}

func TestWriteCrashReport(t *testing.T) {
	r, dir := newTestReporter(t)

	path, ok := r.WriteCrashReport("Test crash report")
	require.True(t, ok)
	require.FileExists(t, path)
	assert.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	for _, want := range []string{
		"CRASH REPORT",
		"Date:",
		"Reason: Test crash report",
		"Name: TestApp",
		"Version: 1.0.0",
		"CPU Architecture:",
		"OS Name:",
		"STACK TRACE",
	} {
		assert.Contains(t, content, want)
	}
}

func TestReportFilenameShape(t *testing.T) {
	r, _ := newTestReporter(t)

	path, ok := r.WriteCrashReport("shape check")
	require.True(t, ok)

	pattern := regexp.MustCompile(`^TestApp_\d{8}_\d{6}_\d+_[0-9a-f]{8}\.crash$`)
	assert.Regexp(t, pattern, filepath.Base(path))
}

func TestSimulateSignal(t *testing.T) {
	r, _ := newTestReporter(t)

	path, ok := r.SimulateSignal(11)
	require.True(t, ok)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Signal: 11 (SIGSEGV")
	assert.Contains(t, string(data), "Reason: Simulated signal")
}

func TestSimulateSignalFatalSet(t *testing.T) {
	r, _ := newTestReporter(t)

	for _, sig := range []int{int(syscall.SIGABRT), int(syscall.SIGILL), int(syscall.SIGSEGV),
		int(syscall.SIGFPE), int(syscall.SIGBUS), int(syscall.SIGPIPE)} {
		path, ok := r.SimulateSignal(sig)
		require.True(t, ok)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), report.SignalName(sig))
	}
}

func TestSetConfigurationFormat(t *testing.T) {
	r, _ := newTestReporter(t)

	cfg := r.Configuration()
	cfg.Format = report.FormatJSON
	r.SetConfiguration(cfg)

	path, ok := r.WriteCrashReport("json please")
	require.True(t, ok)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"reason": "json please"`)
}

type pathRecorder struct {
	reports []*report.CrashReport
}

func (p *pathRecorder) Write(r *report.CrashReport, formatted string) (string, bool) {
	p.reports = append(p.reports, r)
	return "/dev/null/fake.crash", true
}

func TestSetReportWriter(t *testing.T) {
	r, _ := newTestReporter(t)

	rec := &pathRecorder{}
	r.SetReportWriter(rec)

	path, ok := r.WriteCrashReport("custom writer")
	require.True(t, ok)
	assert.Equal(t, "/dev/null/fake.crash", path)
	require.Len(t, rec.reports, 1)
	assert.Equal(t, "custom writer", rec.reports[0].Reason)
	assert.NotEmpty(t, rec.reports[0].StackTrace)
}

func TestInstallUninstallHandlers(t *testing.T) {
	r, dir := newTestReporter(t)

	assert.False(t, r.HandlersInstalled())
	r.InstallHandlers()
	assert.True(t, r.HandlersInstalled())
	assert.FileExists(t, filepath.Join(dir, rawlog.FileName))

	r.UninstallHandlers()
	assert.False(t, r.HandlersInstalled())

	// With handlers gone, an asynchronous SIGPIPE follows the runtime
	// default (ignored off the stdout/stderr path) and must not produce a
	// report.
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGPIPE))
	time.Sleep(50 * time.Millisecond)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".crash")
	}
}

func TestSimulateRawCrash(t *testing.T) {
	r, dir := newTestReporter(t)

	// Requires installed handlers: that is what opens the raw log.
	assert.False(t, r.SimulateRawCrash(11))

	r.InstallHandlers()
	defer r.UninstallHandlers()
	require.True(t, r.SimulateRawCrash(11))

	f, err := os.Open(filepath.Join(dir, rawlog.FileName))
	require.NoError(t, err)
	defer f.Close()

	rec, err := rawlog.Parse(f)
	require.NoError(t, err)
	assert.Equal(t, int32(11), rec.Signal)
	assert.NotEmpty(t, rec.Frames)
}

func TestConfigureReplacesDefault(t *testing.T) {
	r1, _ := newTestReporter(t)
	assert.Same(t, r1, Default())

	r2, _ := newTestReporter(t)
	assert.Same(t, r2, Default())
	assert.NotSame(t, r1, r2)
}

func TestRecoverPanicWritesReport(t *testing.T) {
	r, dir := newTestReporter(t)

	func() {
		defer func() {
			// The re-panic from RecoverPanic lands here.
			assert.Equal(t, "boom", recover())
		}()
		defer r.RecoverPanic()
		panic("boom")
	}()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Reason: panic: boom")
}
