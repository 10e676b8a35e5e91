//go:build linux

package sysinfo

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/crashtrace/crashtrace/report"
)

func collectSystem() report.SystemInfo {
	info := report.SystemInfo{AdditionalInfo: map[string]string{}}

	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		info.CPUArchitecture = utsString(uts.Machine[:])
		info.KernelVersion = utsString(uts.Release[:])
	} else {
		info.AdditionalInfo["Uname Error"] = err.Error()
	}

	name, version := parseOSRelease("/etc/os-release")
	info.OSName = name
	info.OSVersion = version

	model, cores := parseCPUInfo("/proc/cpuinfo")
	if model != "" {
		info.AdditionalInfo["CPU Model"] = model
	}
	if cores > 0 {
		info.AdditionalInfo["CPU Cores"] = strconv.Itoa(cores)
	}

	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err == nil {
		totalBytes := uint64(si.Totalram) * uint64(si.Unit)
		info.AdditionalInfo["Physical Memory"] = fmt.Sprintf("%.2f GB", float64(totalBytes)/(1<<30))
	}

	return info
}

// parseOSRelease extracts NAME and VERSION_ID, stripping surrounding
// quotes. Missing file or fields degrade to empty strings.
func parseOSRelease(path string) (name, version string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "NAME="):
			name = strings.Trim(line[len("NAME="):], `"`)
		case strings.HasPrefix(line, "VERSION_ID="):
			version = strings.Trim(line[len("VERSION_ID="):], `"`)
		}
	}
	return name, version
}

func parseCPUInfo(path string) (model string, cores int) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "processor") {
			cores++
		}
		if model == "" && strings.HasPrefix(line, "model name") {
			if _, value, found := strings.Cut(line, ":"); found {
				model = strings.TrimSpace(value)
			}
		}
	}
	return model, cores
}

func utsString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
