//go:build darwin

package sysinfo

import (
	"runtime"
	"strings"

	"github.com/crashtrace/crashtrace/report"
	"github.com/crashtrace/crashtrace/sigtrap"
)

// collectThreads reports goroutine diagnostics. The mach task-ports API is
// not reachable from pure Go; the goroutine listing is the Go-native
// equivalent and is what operators actually debug against.
func collectThreads() report.ThreadInfo {
	info := report.ThreadInfo{
		CurrentThreadID: sigtrap.ThreadID(),
		ThreadCount:     runtime.NumGoroutine(),
	}

	buf := make([]byte, 1<<16)
	n := runtime.Stack(buf, true)

	// Keep only the "goroutine N [state]:" headers; full stacks belong in
	// the stack-trace section, not thread info.
	var b strings.Builder
	for _, line := range strings.Split(string(buf[:n]), "\n") {
		if strings.HasPrefix(line, "goroutine ") {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	info.Details = b.String()
	return info
}
