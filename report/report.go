// Package report defines the crash-report value type, its three on-disk
// encodings, and the atomic writer that persists formatted reports under
// unique names.
package report

import (
	"fmt"
	"syscall"
	"time"
)

// TimestampLayout is the rendering used by every formatter, in local time.
const TimestampLayout = "2006-01-02 15:04:05.000"

// StackFrame is one symbolicated (or best-effort) stack entry.
type StackFrame struct {
	Index      int    `json:"index"`
	Address    string `json:"address"`
	SymbolName string `json:"symbolName"`
	Offset     uint64 `json:"offset"`
	FileName   string `json:"fileName"`
	LineNumber int    `json:"lineNumber"`
}

// StackTrace is ordered innermost-first: the deepest caller is last,
// matching the capture order of the backtrace primitive.
type StackTrace []StackFrame

// SystemInfo describes the host at collection time.
type SystemInfo struct {
	CPUArchitecture string            `json:"cpuArchitecture"`
	OSName          string            `json:"osName"`
	OSVersion       string            `json:"osVersion"`
	KernelVersion   string            `json:"kernelVersion"`
	AdditionalInfo  map[string]string `json:"additionalInfo"`
}

// ThreadInfo describes the crashing (or current) thread and its peers.
type ThreadInfo struct {
	CurrentThreadID uint64 `json:"currentThreadID"`
	ThreadCount     int    `json:"threadCount"`
	Details         string `json:"details"`
}

// ApplicationInfo is set once at configure time.
type ApplicationInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Path    string `json:"path"`
}

// CrashReport is the fully hydrated report. All fields are captured at
// construction; Format is pure.
type CrashReport struct {
	Timestamp       time.Time
	Signal          *int
	Reason          string
	StackTrace      StackTrace
	ThreadInfo      ThreadInfo
	SystemInfo      SystemInfo
	ApplicationInfo ApplicationInfo
}

// SignalName maps the fatal set to its descriptive names; anything else
// renders as "Signal <n>".
func SignalName(sig int) string {
	switch syscall.Signal(sig) {
	case syscall.SIGABRT:
		return "SIGABRT (Abort)"
	case syscall.SIGILL:
		return "SIGILL (Illegal Instruction)"
	case syscall.SIGSEGV:
		return "SIGSEGV (Segmentation Violation)"
	case syscall.SIGFPE:
		return "SIGFPE (Floating Point Exception)"
	case syscall.SIGBUS:
		return "SIGBUS (Bus Error)"
	case syscall.SIGPIPE:
		return "SIGPIPE (Broken Pipe)"
	default:
		return fmt.Sprintf("Signal %d", sig)
	}
}
