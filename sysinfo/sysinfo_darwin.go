//go:build darwin

package sysinfo

import (
	"fmt"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/crashtrace/crashtrace/report"
)

func collectSystem() report.SystemInfo {
	info := report.SystemInfo{
		OSName:         "macOS",
		AdditionalInfo: map[string]string{},
	}

	if arch, err := unix.Sysctl("hw.machine"); err == nil {
		info.CPUArchitecture = arch
	}
	if version, err := unix.Sysctl("kern.osproductversion"); err == nil {
		info.OSVersion = version
	}
	if kernel, err := unix.Sysctl("kern.osrelease"); err == nil {
		info.KernelVersion = kernel
	}
	if model, err := unix.Sysctl("hw.model"); err == nil {
		info.AdditionalInfo["CPU Model"] = model
	}
	if cores, err := unix.SysctlUint32("hw.logicalcpu"); err == nil {
		info.AdditionalInfo["CPU Cores"] = strconv.Itoa(int(cores))
	}
	if mem, err := unix.SysctlUint64("hw.memsize"); err == nil {
		info.AdditionalInfo["Physical Memory"] = fmt.Sprintf("%.2f GB", float64(mem)/(1<<30))
	}

	return info
}
