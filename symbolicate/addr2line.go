package symbolicate

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const (
	addr2linePath  = "/usr/bin/addr2line"
	defaultTimeout = 2 * time.Second
)

// sourceLine asks the external addr2line helper for a file:line. Every
// failure mode (missing binary, timeout, unparsable or "??" output) is
// swallowed: the caller keeps whatever it already had.
func (s *Symbolicator) sourceLine(ctx context.Context, addr uintptr) (string, int, bool) {
	timeout := s.Addr2lineTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, addr2linePath, "-e", s.ModulePath, fmt.Sprintf("0x%x", addr)).Output()
	if err != nil {
		return "", 0, false
	}
	return parseAddr2line(strings.TrimSpace(string(out)))
}

// parseAddr2line splits the single-line "file:line" output. addr2line
// reports unknown locations as "??:0" or "??:?".
func parseAddr2line(out string) (string, int, bool) {
	i := strings.LastIndexByte(out, ':')
	if i <= 0 {
		return "", 0, false
	}
	file := out[:i]
	if file == "??" {
		return "", 0, false
	}
	// Some addr2line builds append " (discriminator N)".
	lineTok, _, _ := strings.Cut(out[i+1:], " ")
	line, err := strconv.Atoi(lineTok)
	if err != nil || line <= 0 {
		return "", 0, false
	}
	return file, line, true
}
