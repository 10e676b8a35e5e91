//go:build linux

package sysinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crashtrace/crashtrace/report"
	"github.com/crashtrace/crashtrace/sigtrap"
)

// collectThreads enumerates /proc/self/task, reading each thread's status
// file for its name and scheduler state.
func collectThreads() report.ThreadInfo {
	info := report.ThreadInfo{CurrentThreadID: sigtrap.ThreadID()}

	tasks, err := os.ReadDir("/proc/self/task")
	if err != nil {
		info.Details = fmt.Sprintf("thread enumeration failed: %v", err)
		return info
	}
	info.ThreadCount = len(tasks)

	var b strings.Builder
	for _, task := range tasks {
		name, state := parseTaskStatus(filepath.Join("/proc/self/task", task.Name(), "status"))
		fmt.Fprintf(&b, "Thread %s: %s (%s)\n", task.Name(), name, state)
	}
	info.Details = b.String()
	return info
}

func parseTaskStatus(path string) (name, state string) {
	name, state = Unknown, Unknown
	data, err := os.ReadFile(path)
	if err != nil {
		return name, state
	}
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "Name:"):
			name = strings.TrimSpace(line[len("Name:"):])
		case strings.HasPrefix(line, "State:"):
			state = strings.TrimSpace(line[len("State:"):])
		}
	}
	return name, state
}
