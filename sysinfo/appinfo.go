package sysinfo

import (
	"os"
	"path/filepath"

	"github.com/crashtrace/crashtrace/report"
)

// CollectApplication fills the unset application fields with sensible
// process-derived defaults: executable base name, "Unknown" version,
// argv[0] path.
func CollectApplication(name, version, path string) report.ApplicationInfo {
	if path == "" {
		if exe, err := os.Executable(); err == nil {
			path = exe
		} else if len(os.Args) > 0 {
			path = os.Args[0]
		}
	}
	if name == "" {
		if path != "" {
			name = filepath.Base(path)
		} else {
			name = Unknown
		}
	}
	if version == "" {
		version = Unknown
	}
	return report.ApplicationInfo{Name: name, Version: version, Path: path}
}
