package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *CrashReport {
	sig := 11
	return &CrashReport{
		Timestamp: time.Date(2023, 11, 14, 22, 13, 20, 0, time.Local),
		Signal:    &sig,
		Reason:    "Test reason",
		StackTrace: StackTrace{
			{Address: "0x1000", SymbolName: "testFunction", Offset: 10, FileName: "test.swift", LineNumber: 42},
		},
		ThreadInfo: ThreadInfo{CurrentThreadID: 1234, ThreadCount: 5, Details: "thread 1: running\n"},
		SystemInfo: SystemInfo{
			CPUArchitecture: "x86_64",
			OSName:          "Linux",
			OSVersion:       "24.04",
			KernelVersion:   "6.8.0",
			AdditionalInfo:  map[string]string{"CPU Model": "TestCPU", "Physical Memory": "16.00 GB"},
		},
		ApplicationInfo: ApplicationInfo{Name: "TestApp", Version: "1.0.0", Path: "/usr/bin/testapp"},
	}
}

func TestFormatPlainText(t *testing.T) {
	out := sampleReport().Format(FormatPlainText)

	for _, want := range []string{
		"CRASH REPORT",
		"Date: 2023-11-14 22:13:20.000",
		"Signal: 11 (SIGSEGV (Segmentation Violation))",
		"Reason: Test reason",
		"APPLICATION INFORMATION",
		"Name: TestApp",
		"Version: 1.0.0",
		"SYSTEM INFORMATION",
		"CPU Architecture: x86_64",
		"OS Name: Linux",
		"THREAD INFORMATION",
		"Current Thread ID: 1234",
		"STACK TRACE",
		"[0] testFunction - 0x1000",
	} {
		assert.Contains(t, out, want)
	}
}

func TestFormatPlainTextOptionalFields(t *testing.T) {
	r := sampleReport()
	r.Signal = nil
	r.Reason = ""
	out := r.Format(FormatPlainText)

	assert.NotContains(t, out, "Signal:")
	assert.NotContains(t, out, "Reason:")
	assert.Contains(t, out, "Date:")
}

func TestFormatPlainTextEmptyTrace(t *testing.T) {
	r := sampleReport()
	r.StackTrace = nil
	out := r.Format(FormatPlainText)

	assert.Contains(t, out, "STACK TRACE")
	assert.NotContains(t, out, "[0]")
}

func TestFormatPlainTextUnknownSymbol(t *testing.T) {
	r := sampleReport()
	r.StackTrace = StackTrace{{Address: "0x2000"}}
	out := r.Format(FormatPlainText)

	assert.Contains(t, out, "[0] <unknown symbol> - 0x2000")
}

func TestFormatDetailLevels(t *testing.T) {
	r := sampleReport()

	minimal := r.FormatWithDetail(FormatPlainText, DetailMinimal)
	assert.NotContains(t, minimal, "CPU Model")
	assert.NotContains(t, minimal, "thread 1: running")

	standard := r.FormatWithDetail(FormatPlainText, DetailStandard)
	assert.Contains(t, standard, "CPU Model: TestCPU")
	assert.Contains(t, standard, "thread 1: running")
	assert.NotContains(t, standard, "Process ID:")

	extended := r.FormatWithDetail(FormatPlainText, DetailExtended)
	assert.Contains(t, extended, "Process ID:")
	assert.Contains(t, extended, "Go Version:")
}

func TestFormatJSON(t *testing.T) {
	out := sampleReport().Format(FormatJSON)

	assert.Contains(t, out, `"signal": 11`)
	assert.Contains(t, out, `"signalName": "SIGSEGV (Segmentation Violation)"`)
	assert.Contains(t, out, `"symbolName": "testFunction"`)
	assert.Contains(t, out, `"currentThreadID": 1234`)
	assert.Contains(t, out, `"reason": "Test reason"`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "x86_64", decoded["systemInfo"].(map[string]any)["cpuArchitecture"])
}

func TestFormatJSONNullOptionals(t *testing.T) {
	r := sampleReport()
	r.Signal = nil
	r.Reason = ""
	out := r.Format(FormatJSON)

	assert.Contains(t, out, `"signal": null`)
	assert.Contains(t, out, `"signalName": null`)
	assert.Contains(t, out, `"reason": null`)
}

func TestFormatJSONEscaping(t *testing.T) {
	r := sampleReport()
	r.Reason = `quote " and backslash \`
	out := r.Format(FormatJSON)

	var decoded struct {
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, r.Reason, decoded.Reason)
}

func TestFormatXML(t *testing.T) {
	out := sampleReport().Format(FormatXML)

	assert.True(t, strings.Contains(out, "<crashReport>"))
	assert.Contains(t, out, "<signal>11</signal>")
	assert.Contains(t, out, "<symbolName>testFunction</symbolName>")
	assert.Contains(t, out, "<cpuArchitecture>x86_64</cpuArchitecture>")
	assert.Contains(t, out, "<![CDATA[")
	assert.Contains(t, out, "CPU Model: TestCPU")
}

func TestFormatXMLAbsentOptionals(t *testing.T) {
	r := sampleReport()
	r.Signal = nil
	r.Reason = ""
	out := r.Format(FormatXML)

	assert.Contains(t, out, "<signal>0</signal>")
	assert.Contains(t, out, "<reason></reason>")
}

func TestSignalName(t *testing.T) {
	cases := []struct {
		sig  int
		want string
	}{
		{6, "SIGABRT (Abort)"},
		{4, "SIGILL (Illegal Instruction)"},
		{11, "SIGSEGV (Segmentation Violation)"},
		{8, "SIGFPE (Floating Point Exception)"},
		{13, "SIGPIPE (Broken Pipe)"},
		{99, "Signal 99"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SignalName(tc.sig))
	}
}

func TestFramesReindexed(t *testing.T) {
	r := sampleReport()
	r.StackTrace = StackTrace{
		{Index: 9, Address: "0x1"},
		{Index: 3, Address: "0x2"},
	}
	out := r.Format(FormatJSON)
	assert.Contains(t, out, `"index": 0`)
	assert.Contains(t, out, `"index": 1`)
	assert.NotContains(t, out, `"index": 9`)
}
