package rawlog

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Record is the on-disk signal-phase artifact: the bare facts a handler can
// safely persist. A zero frame address marks an unknown slot.
type Record struct {
	Signal    int32
	Timestamp int64
	ThreadID  uint64
	Frames    []uintptr
}

// Raw-log dialect markers. The canonical emitter below produces the
// C-helper dialect; the parser accepts both.
const (
	terminatorCanonical = "--- C Minimal Report End ---"
	terminatorAlternate = "--- End of Raw Report ---"
	framesCanonical     = "Frames (raw addresses):"
	framesAlternate     = "Frames:"
	nilFrameLine        = "  0x0 (nil)"
)

// emitBudget caps the bytes written per record so a frame loop cannot run
// away when writes partially fail.
const emitBudget = 4000

// ErrMissingSignal marks a raw log without the one required field.
var ErrMissingSignal = errors.New("raw log record has no Signal field")

// Emit writes one record in the canonical dialect to fd and fsyncs it.
// Safe to call from the signal phase: every token goes through the minimal
// writer and the only syscalls used are write(2) and fsync(2). Returns the
// byte count written, or -1 for an invalid fd.
func Emit(fd int, signal int32, timestamp int64, threadID uint64, frames []uintptr) int {
	if fd < 0 {
		return -1
	}
	total := 0
	add := func(n int) {
		if n > 0 {
			total += n
		}
	}

	add(WriteLiteral(fd, []byte("Signal: ")))
	add(WriteInt32(fd, signal))
	add(WriteLiteral(fd, []byte("\nTimestamp: ")))
	if timestamp >= 0 {
		add(WriteUint64(fd, uint64(timestamp)))
	} else {
		// Pre-epoch clocks only happen on badly skewed hosts; a clamped
		// zero still yields a parseable record.
		add(WriteInt32(fd, 0))
	}
	add(WriteLiteral(fd, []byte("\nThreadID: ")))
	add(WriteUint64(fd, threadID))
	add(WriteLiteral(fd, []byte("\nFrames_count: ")))
	add(WriteInt32(fd, int32(len(frames))))
	add(WriteLiteral(fd, []byte("\n"+framesCanonical+"\n")))

	for _, addr := range frames {
		if addr != 0 {
			add(WriteLiteral(fd, []byte("  ")))
			add(WritePtr(fd, addr))
			add(WriteLiteral(fd, []byte("\n")))
		} else {
			add(WriteLiteral(fd, []byte(nilFrameLine+"\n")))
		}
		if total > emitBudget {
			break
		}
	}

	add(WriteLiteral(fd, []byte(terminatorCanonical+"\n")))
	unix.Fsync(fd)

	if total == 0 {
		return -1
	}
	return total
}

// Parse reads one record, tolerating field reordering, unknown lines and
// either dialect. Only Signal is required; everything else keeps its zero
// value when absent.
func Parse(r io.Reader) (*Record, error) {
	rec := &Record{}
	haveSignal := false
	inFrames := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, terminatorCanonical) || strings.HasPrefix(line, terminatorAlternate) {
			break
		}

		switch {
		case strings.HasPrefix(line, "Signal: "):
			v, err := strconv.ParseInt(strings.TrimSpace(line[len("Signal: "):]), 10, 32)
			if err == nil {
				rec.Signal = int32(v)
				haveSignal = true
			}
			inFrames = false
		case strings.HasPrefix(line, "Timestamp: "):
			v, err := strconv.ParseInt(strings.TrimSpace(line[len("Timestamp: "):]), 10, 64)
			if err == nil {
				rec.Timestamp = v
			}
			inFrames = false
		case strings.HasPrefix(line, "ThreadID: "):
			v, err := strconv.ParseUint(strings.TrimSpace(line[len("ThreadID: "):]), 10, 64)
			if err == nil {
				rec.ThreadID = v
			}
			inFrames = false
		case strings.HasPrefix(line, "Frames_count: "):
			// Advisory; the frame list itself is authoritative.
			inFrames = false
		case line == framesCanonical || line == framesAlternate:
			inFrames = true
		case inFrames && strings.HasPrefix(strings.TrimSpace(line), "0x"):
			rec.Frames = append(rec.Frames, parseFrame(strings.TrimSpace(line)))
		default:
			// Unknown lines are ignored.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !haveSignal {
		return nil, ErrMissingSignal
	}
	return rec, nil
}

func parseFrame(tok string) uintptr {
	// "0x0 (nil)" and any trailing annotation parse as the address token only.
	if i := strings.IndexByte(tok, ' '); i >= 0 {
		tok = tok[:i]
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(tok, "0x"), 16, 64)
	if err != nil {
		return 0
	}
	return uintptr(v)
}
