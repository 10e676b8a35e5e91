// Package sigtrap installs the fatal-signal watcher and the pre-allocated
// capture path that persists a raw-log record before the process dies.
//
// The Go runtime delivers signals through os/signal on a dedicated
// goroutine rather than on the interrupted thread, so the handler here is
// an ordinary goroutine. The signal-phase discipline still applies: once a
// fatal signal arrives the process state is suspect, so the capture path
// touches only state allocated at install time and writes through the
// rawlog minimal writer before re-raising.
package sigtrap

import (
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/crashtrace/crashtrace/rawlog"
)

// MaxFrames caps the captured return-address stack. Deeper stacks are
// truncated without error.
const MaxFrames = 128

// FatalSignals is the handled set. SIGKILL and SIGSTOP cannot be caught;
// everything here has a terminating default disposition.
var FatalSignals = []os.Signal{
	syscall.SIGABRT,
	syscall.SIGILL,
	syscall.SIGSEGV,
	syscall.SIGFPE,
	syscall.SIGBUS,
	syscall.SIGPIPE,
}

// Trap owns the watcher goroutine and every buffer the capture path needs.
// All fields are allocated in Install so the handler itself allocates
// nothing.
type Trap struct {
	fd int

	mu        sync.Mutex
	installed bool
	sigCh     chan os.Signal
	done      chan struct{}

	// pcs is the fixed return-address buffer the capture fills.
	pcs [MaxFrames]uintptr
}

// New returns a trap that will write records to fd. A negative fd is
// accepted: capture becomes a silent no-op but re-raising still works.
func New(fd int) *Trap {
	return &Trap{fd: fd}
}

// Install registers the fatal set with os/signal and starts the watcher.
// Calling Install on an installed trap is a no-op.
func (t *Trap) Install() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.installed {
		return
	}

	t.sigCh = make(chan os.Signal, len(FatalSignals))
	t.done = make(chan struct{})
	signal.Notify(t.sigCh, FatalSignals...)
	go t.watch(t.sigCh, t.done)
	t.installed = true
}

// Uninstall stops signal delivery and shuts the watcher down. Previously
// installed dispositions come back via os/signal's Stop/Reset semantics.
func (t *Trap) Uninstall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.installed {
		return
	}

	signal.Stop(t.sigCh)
	close(t.done)
	t.installed = false
}

// Installed reports whether the watcher is active.
func (t *Trap) Installed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.installed
}

func (t *Trap) watch(sigCh <-chan os.Signal, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case sig := <-sigCh:
			s, ok := sig.(syscall.Signal)
			if !ok {
				continue
			}
			t.handle(s)
		}
	}
}

// handle is the signal-phase path: capture, persist, re-raise. It never
// returns control to user code.
func (t *Trap) handle(sig syscall.Signal) {
	t.Record(sig)
	t.reraise(sig)
}

// Record captures the return-address stack and persists one raw-log
// record without re-raising. The handler uses it on the way down; the
// test harness uses it to stage a pending raw log for the next run.
func (t *Trap) Record(sig syscall.Signal) {
	n := t.capture()
	rawlog.Emit(t.fd, int32(sig), time.Now().Unix(), ThreadID(), t.pcs[:n])
}

// capture fills the pre-allocated buffer with the current return-address
// stack. The skip hides runtime.Callers and the sigtrap internals so the
// record starts at the watcher's frame.
func (t *Trap) capture() int {
	return runtime.Callers(3, t.pcs[:])
}

// reraise restores the default disposition and delivers the signal again,
// so the process terminates the way the kernel would have terminated it
// (including core dumps where applicable).
func (t *Trap) reraise(sig syscall.Signal) {
	signal.Reset(sig)
	unix.Kill(os.Getpid(), sig)
}
