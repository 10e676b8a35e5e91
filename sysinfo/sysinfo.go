// Package sysinfo collects the system, thread and application context that
// recovery-phase reports carry. Collectors never fail: anything that cannot
// be read degrades to a placeholder so a crash report is produced even on a
// hostile host.
package sysinfo

import (
	"runtime"
	"strconv"

	"github.com/crashtrace/crashtrace/report"
)

// Unknown is the placeholder for facts that could not be collected.
const Unknown = "Unknown"

// CollectSystem gathers host facts. Platform specifics live in the
// per-GOOS collectSystem implementations; this wrapper adds the context
// that is always available to a Go process.
func CollectSystem() report.SystemInfo {
	info := collectSystem()
	if info.AdditionalInfo == nil {
		info.AdditionalInfo = map[string]string{}
	}
	info.AdditionalInfo["Go Version"] = runtime.Version()
	info.AdditionalInfo["Goroutines"] = strconv.Itoa(runtime.NumGoroutine())

	if info.CPUArchitecture == "" {
		info.CPUArchitecture = runtime.GOARCH
	}
	if info.OSName == "" {
		info.OSName = Unknown
	}
	if info.OSVersion == "" {
		info.OSVersion = Unknown
	}
	if info.KernelVersion == "" {
		info.KernelVersion = Unknown
	}
	return info
}

// CollectThreads gathers per-thread diagnostics for the current process.
func CollectThreads() report.ThreadInfo {
	return collectThreads()
}
