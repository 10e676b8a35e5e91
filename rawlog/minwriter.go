// Package rawlog implements the signal-phase side of crash capture: a
// minimal formatter that can run while the process is in an arbitrarily
// corrupt state, and the fixed-name raw-log file it writes to.
//
// Nothing in this package allocates on the write path. All formatting goes
// through fixed-size stack buffers and raw write(2)/fsync(2) on a
// pre-opened file descriptor; fmt, strconv and the logging stack are
// deliberately not imported here.
package rawlog

import (
	"golang.org/x/sys/unix"
)

const (
	// int32Width fits "-2147483648" plus a terminator.
	int32Width = 12
	// uint64Width fits "18446744073709551615" plus a terminator.
	uint64Width = 21
	// ptrWidth fits "0x" plus 16 hex digits.
	ptrWidth = 18
)

const hexDigits = "0123456789abcdef"

// WriteLiteral writes b to fd in a single write(2) call. Partial writes are
// accepted as best effort; the caller must not rely on retries because a
// retry loop inside a signal handler can spin forever on a wedged fd.
func WriteLiteral(fd int, b []byte) int {
	if fd < 0 {
		return -1
	}
	n, err := unix.Write(fd, b)
	if err != nil {
		return -1
	}
	return n
}

// WriteInt32 formats v in decimal into a stack buffer and writes it.
// math.MinInt32 cannot be negated in 32 bits; it is clamped to MinInt32+1,
// which is lossy but unreachable for signal numbers and epoch timestamps.
func WriteInt32(fd int, v int32) int {
	var buf [int32Width]byte
	p := len(buf)

	neg := v < 0
	if neg {
		if v == -2147483648 {
			v = -2147483647
		}
		v = -v
	}
	if v == 0 {
		p--
		buf[p] = '0'
	}
	for v > 0 {
		p--
		buf[p] = byte(v%10) + '0'
		v /= 10
	}
	if neg {
		p--
		buf[p] = '-'
	}
	return WriteLiteral(fd, buf[p:])
}

// WriteUint64 formats v in decimal into a stack buffer and writes it.
func WriteUint64(fd int, v uint64) int {
	var buf [uint64Width]byte
	p := len(buf)

	if v == 0 {
		p--
		buf[p] = '0'
	}
	for v > 0 {
		p--
		buf[p] = byte(v%10) + '0'
		v /= 10
	}
	return WriteLiteral(fd, buf[p:])
}

// WritePtr writes p as lowercase hex with a 0x prefix and no leading
// zeros. A nil pointer renders as "0x0".
func WritePtr(fd int, p uintptr) int {
	var buf [ptrWidth]byte
	i := len(buf)

	if p == 0 {
		i--
		buf[i] = '0'
	}
	for p > 0 {
		i--
		buf[i] = hexDigits[p&0xf]
		p >>= 4
	}
	i--
	buf[i] = 'x'
	i--
	buf[i] = '0'
	return WriteLiteral(fd, buf[i:])
}
