package sigtrap

import (
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashtrace/crashtrace/rawlog"
)

func TestInstallUninstallRoundTrip(t *testing.T) {
	trap := New(-1)
	assert.False(t, trap.Installed())

	trap.Install()
	assert.True(t, trap.Installed())

	// Double install is a no-op.
	trap.Install()
	assert.True(t, trap.Installed())

	trap.Uninstall()
	assert.False(t, trap.Installed())

	// Double uninstall is a no-op.
	trap.Uninstall()
	assert.False(t, trap.Installed())
}

func TestThreadIDNonZero(t *testing.T) {
	assert.NotZero(t, ThreadID())
}

func TestCaptureBounded(t *testing.T) {
	trap := New(-1)

	var deepCapture func(depth int) int
	deepCapture = func(depth int) int {
		if depth == 0 {
			return trap.capture()
		}
		return deepCapture(depth - 1)
	}

	n := deepCapture(200)
	assert.Positive(t, n)
	assert.LessOrEqual(t, n, MaxFrames)
}

func TestRecordWritesParsableRawLog(t *testing.T) {
	dir := t.TempDir()
	store, err := rawlog.Open(dir)
	require.NoError(t, err)
	defer store.Close()

	trap := New(store.FD())
	trap.Record(syscall.SIGSEGV)

	f, err := os.Open(store.Path())
	require.NoError(t, err)
	defer f.Close()

	rec, err := rawlog.Parse(f)
	require.NoError(t, err)
	assert.Equal(t, int32(syscall.SIGSEGV), rec.Signal)
	assert.NotZero(t, rec.Timestamp)
	assert.NotZero(t, rec.ThreadID)
	assert.NotEmpty(t, rec.Frames)
	assert.LessOrEqual(t, len(rec.Frames), MaxFrames)
}

func TestRecordInvalidFdIsSilent(t *testing.T) {
	trap := New(-1)
	assert.NotPanics(t, func() { trap.Record(syscall.SIGABRT) })
}

func TestFatalSignalSet(t *testing.T) {
	want := []os.Signal{
		syscall.SIGABRT, syscall.SIGILL, syscall.SIGSEGV,
		syscall.SIGFPE, syscall.SIGBUS, syscall.SIGPIPE,
	}
	assert.ElementsMatch(t, want, FatalSignals)
}
