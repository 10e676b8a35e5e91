//go:build !linux

package sigtrap

import "runtime"

// ThreadID returns the current goroutine id on platforms without a gettid
// syscall wrapper. The id is opaque but unique within the process, which
// is all the raw-log record needs. Parsed from the fixed-format first line
// of runtime.Stack ("goroutine 123 [running]:") using a stack buffer, so
// the capture path stays allocation-free.
func ThreadID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	const prefix = "goroutine "
	if n <= len(prefix) {
		return 0
	}
	var id uint64
	for _, c := range buf[len(prefix):n] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
