package report

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
)

// Format renders the report with the standard detail level.
func (r *CrashReport) Format(variant Format) string {
	return r.FormatWithDetail(variant, DetailStandard)
}

// FormatWithDetail renders the report in the requested encoding. The detail
// level gates plain-text content only; JSON and XML always carry the full
// structure so downstream tooling sees a stable shape.
func (r *CrashReport) FormatWithDetail(variant Format, level DetailLevel) string {
	switch variant {
	case FormatJSON:
		return r.formatJSON()
	case FormatXML:
		return r.formatXML()
	default:
		return r.formatPlainText(level)
	}
}

func (r *CrashReport) formatPlainText(level DetailLevel) string {
	var b strings.Builder

	b.WriteString("CRASH REPORT\n")
	b.WriteString("============\n\n")
	fmt.Fprintf(&b, "Date: %s\n", r.Timestamp.Local().Format(TimestampLayout))
	if r.Signal != nil {
		fmt.Fprintf(&b, "Signal: %d (%s)\n", *r.Signal, SignalName(*r.Signal))
	}
	if r.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", r.Reason)
	}

	b.WriteString("\nAPPLICATION INFORMATION\n")
	b.WriteString("-----------------------\n")
	fmt.Fprintf(&b, "Name: %s\n", r.ApplicationInfo.Name)
	fmt.Fprintf(&b, "Version: %s\n", r.ApplicationInfo.Version)
	fmt.Fprintf(&b, "Path: %s\n", r.ApplicationInfo.Path)

	b.WriteString("\nSYSTEM INFORMATION\n")
	b.WriteString("------------------\n")
	fmt.Fprintf(&b, "CPU Architecture: %s\n", r.SystemInfo.CPUArchitecture)
	fmt.Fprintf(&b, "OS Name: %s\n", r.SystemInfo.OSName)
	fmt.Fprintf(&b, "OS Version: %s\n", r.SystemInfo.OSVersion)
	fmt.Fprintf(&b, "Kernel Version: %s\n", r.SystemInfo.KernelVersion)
	if level != DetailMinimal {
		keys := make([]string, 0, len(r.SystemInfo.AdditionalInfo))
		for k := range r.SystemInfo.AdditionalInfo {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\n", k, r.SystemInfo.AdditionalInfo[k])
		}
	}

	b.WriteString("\nTHREAD INFORMATION\n")
	b.WriteString("------------------\n")
	fmt.Fprintf(&b, "Current Thread ID: %d\n", r.ThreadInfo.CurrentThreadID)
	fmt.Fprintf(&b, "Thread Count: %d\n", r.ThreadInfo.ThreadCount)
	if level != DetailMinimal && r.ThreadInfo.Details != "" {
		b.WriteString(r.ThreadInfo.Details)
		if !strings.HasSuffix(r.ThreadInfo.Details, "\n") {
			b.WriteByte('\n')
		}
	}

	if level == DetailExtended {
		b.WriteString("\nPROCESS INFORMATION\n")
		b.WriteString("-------------------\n")
		fmt.Fprintf(&b, "Process ID: %d\n", os.Getpid())
		fmt.Fprintf(&b, "Go Version: %s\n", runtime.Version())
	}

	b.WriteString("\nSTACK TRACE\n")
	b.WriteString("-----------\n")
	for i, frame := range r.StackTrace {
		symbol := frame.SymbolName
		if symbol == "" {
			symbol = "<unknown symbol>"
		}
		fmt.Fprintf(&b, "[%d] %s - %s\n", i, symbol, frame.Address)
	}

	return b.String()
}

type jsonReport struct {
	Timestamp       string          `json:"timestamp"`
	Signal          *int            `json:"signal"`
	SignalName      *string         `json:"signalName"`
	Reason          *string         `json:"reason"`
	ApplicationInfo ApplicationInfo `json:"applicationInfo"`
	SystemInfo      SystemInfo      `json:"systemInfo"`
	ThreadInfo      ThreadInfo      `json:"threadInfo"`
	StackTrace      []StackFrame    `json:"stackTrace"`
}

func (r *CrashReport) formatJSON() string {
	out := jsonReport{
		Timestamp:       r.Timestamp.Local().Format(TimestampLayout),
		Signal:          r.Signal,
		ApplicationInfo: r.ApplicationInfo,
		SystemInfo:      r.SystemInfo,
		ThreadInfo:      r.ThreadInfo,
		StackTrace:      r.framesWithIndexes(),
	}
	if r.Signal != nil {
		name := SignalName(*r.Signal)
		out.SignalName = &name
	}
	if r.Reason != "" {
		reason := r.Reason
		out.Reason = &reason
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		// The structure contains only marshalable types; this is unreachable
		// short of memory corruption, which is exactly when a degraded
		// report is better than none.
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data) + "\n"
}

type xmlCDATA struct {
	Text string `xml:",cdata"`
}

type xmlFrame struct {
	Index      int    `xml:"index"`
	Address    string `xml:"address"`
	SymbolName string `xml:"symbolName"`
	Offset     uint64 `xml:"offset"`
	FileName   string `xml:"fileName"`
	LineNumber int    `xml:"lineNumber"`
}

type xmlSystemInfo struct {
	CPUArchitecture string   `xml:"cpuArchitecture"`
	OSName          string   `xml:"osName"`
	OSVersion       string   `xml:"osVersion"`
	KernelVersion   string   `xml:"kernelVersion"`
	AdditionalInfo  xmlCDATA `xml:"additionalInfo"`
}

type xmlThreadInfo struct {
	CurrentThreadID uint64   `xml:"currentThreadID"`
	ThreadCount     int      `xml:"threadCount"`
	Details         xmlCDATA `xml:"details"`
}

type xmlApplicationInfo struct {
	Name    string `xml:"name"`
	Version string `xml:"version"`
	Path    string `xml:"path"`
}

type xmlReport struct {
	XMLName         xml.Name           `xml:"crashReport"`
	Timestamp       string             `xml:"timestamp"`
	Signal          int                `xml:"signal"`
	SignalName      string             `xml:"signalName"`
	Reason          string             `xml:"reason"`
	ApplicationInfo xmlApplicationInfo `xml:"applicationInfo"`
	SystemInfo      xmlSystemInfo      `xml:"systemInfo"`
	ThreadInfo      xmlThreadInfo      `xml:"threadInfo"`
	StackTrace      []xmlFrame         `xml:"stackTrace>frame"`
}

func (r *CrashReport) formatXML() string {
	out := xmlReport{
		Timestamp: r.Timestamp.Local().Format(TimestampLayout),
		Reason:    r.Reason,
		ApplicationInfo: xmlApplicationInfo{
			Name:    r.ApplicationInfo.Name,
			Version: r.ApplicationInfo.Version,
			Path:    r.ApplicationInfo.Path,
		},
		SystemInfo: xmlSystemInfo{
			CPUArchitecture: r.SystemInfo.CPUArchitecture,
			OSName:          r.SystemInfo.OSName,
			OSVersion:       r.SystemInfo.OSVersion,
			KernelVersion:   r.SystemInfo.KernelVersion,
			AdditionalInfo:  xmlCDATA{Text: flattenAdditionalInfo(r.SystemInfo.AdditionalInfo)},
		},
		ThreadInfo: xmlThreadInfo{
			CurrentThreadID: r.ThreadInfo.CurrentThreadID,
			ThreadCount:     r.ThreadInfo.ThreadCount,
			Details:         xmlCDATA{Text: r.ThreadInfo.Details},
		},
	}
	if r.Signal != nil {
		out.Signal = *r.Signal
		out.SignalName = SignalName(*r.Signal)
	}
	for _, frame := range r.framesWithIndexes() {
		out.StackTrace = append(out.StackTrace, xmlFrame(frame))
	}

	data, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return xml.Header + "<crashReport/>\n"
	}
	return xml.Header + string(data) + "\n"
}

// framesWithIndexes re-numbers the frames so the serialized index always
// matches the innermost-first position, whatever the collector set.
func (r *CrashReport) framesWithIndexes() []StackFrame {
	frames := make([]StackFrame, len(r.StackTrace))
	for i, frame := range r.StackTrace {
		frame.Index = i
		frames[i] = frame
	}
	return frames
}

func flattenAdditionalInfo(info map[string]string) string {
	if len(info) == 0 {
		return ""
	}
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, info[k])
	}
	return b.String()
}
