// Package symbolicate converts raw return addresses into stack frames with
// symbol names, offsets and best-effort source locations. Everything here
// runs in the recovery phase; the final report always carries at least the
// hex addresses.
package symbolicate

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/crashtrace/crashtrace/report"
)

// Placeholder frames for the two failure shapes of address resolution.
const (
	nilAddress       = "0x0 (nil address)"
	nilSymbol        = "<nil address pointer>"
	unresolvedSymbol = "<symbol not found>"
)

// Symbolicator resolves addresses against the running process image. Two
// modes share it: FromAddresses for raw-log recovery and Live for manual
// reports.
type Symbolicator struct {
	// IncludeSymbolication gates the external addr2line enrichment for
	// frames whose source location the runtime table could not provide.
	IncludeSymbolication bool

	// ModulePath is the binary addr2line is pointed at. Defaults to the
	// current executable.
	ModulePath string

	// Demangle rewrites symbol names before they land in a frame. Go
	// symbols are not mangled, so the default is a pass-through; callers
	// symbolicating foreign-language frames can plug a real demangler in.
	Demangle func(string) string

	// Addr2lineTimeout bounds each external lookup. Defaults to 2s.
	Addr2lineTimeout time.Duration
}

// New returns a symbolicator for the current executable.
func New(includeSymbolication bool) *Symbolicator {
	exe, _ := os.Executable()
	return &Symbolicator{
		IncludeSymbolication: includeSymbolication,
		ModulePath:           exe,
	}
}

// FromAddresses resolves a recovered address list, innermost-first.
// Addresses from a previous run of the same binary resolve exactly when
// the text segment is loaded at the same base; otherwise frames degrade to
// hex addresses, which is the documented best-effort contract.
func (s *Symbolicator) FromAddresses(ctx context.Context, addrs []uintptr) report.StackTrace {
	trace := make(report.StackTrace, 0, len(addrs))
	for i, addr := range addrs {
		frame := s.resolve(ctx, addr)
		frame.Index = i
		trace = append(trace, frame)
	}
	return trace
}

// Live captures and resolves the current goroutine's stack. skip counts
// frames to drop above the caller, excluding Live itself.
func (s *Symbolicator) Live(skip int) report.StackTrace {
	pcs := make([]uintptr, 128)
	n := runtime.Callers(skip+2, pcs)

	trace := make(report.StackTrace, 0, n)
	frames := runtime.CallersFrames(pcs[:n])
	for i := 0; ; i++ {
		frame, more := frames.Next()

		sf := report.StackFrame{
			Index:      i,
			Address:    fmt.Sprintf("0x%x", uintptr(frame.PC)),
			SymbolName: s.demangle(frame.Function),
			FileName:   frame.File,
			LineNumber: frame.Line,
		}
		if frame.Entry != 0 && frame.PC >= frame.Entry {
			sf.Offset = uint64(frame.PC - frame.Entry)
		}
		trace = append(trace, sf)

		if !more {
			break
		}
	}
	return trace
}

// resolve maps one raw address to a frame via the runtime symbol table,
// then optionally enriches the source location through addr2line.
func (s *Symbolicator) resolve(ctx context.Context, addr uintptr) report.StackFrame {
	if addr == 0 {
		return report.StackFrame{Address: nilAddress, SymbolName: nilSymbol}
	}

	frame := report.StackFrame{Address: fmt.Sprintf("0x%x", addr)}

	fn := runtime.FuncForPC(addr)
	if fn == nil {
		frame.SymbolName = unresolvedSymbol
		return frame
	}

	frame.SymbolName = s.demangle(fn.Name())
	if entry := fn.Entry(); addr >= entry {
		frame.Offset = uint64(addr - entry)
	}
	if file, line := fn.FileLine(addr); file != "" {
		frame.FileName = file
		frame.LineNumber = line
	} else {
		frame.FileName = s.ModulePath
	}

	if s.IncludeSymbolication && frame.LineNumber == 0 && s.ModulePath != "" {
		if file, line, ok := s.sourceLine(ctx, addr); ok {
			frame.FileName = file
			frame.LineNumber = line
		}
	}
	return frame
}

func (s *Symbolicator) demangle(name string) string {
	if s.Demangle != nil {
		return s.Demangle(name)
	}
	return name
}
