package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/crashtrace/crashtrace/report"
	"github.com/crashtrace/crashtrace/reporter"
)

type reportFile struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

func resolveReportDir(args []string) (string, error) {
	dir := reporter.DefaultReportDir
	if len(args) > 0 {
		dir = args[0]
	}
	return homedir.Expand(dir)
}

// listReports returns the .crash files in dir, newest first.
func listReports(dir string) ([]reportFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read report directory %s: %w", dir, err)
	}

	var reports []reportFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), report.Extension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		reports = append(reports, reportFile{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].ModTime.After(reports[j].ModTime) })
	return reports, nil
}
