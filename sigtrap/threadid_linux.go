//go:build linux

package sigtrap

import "golang.org/x/sys/unix"

// ThreadID returns the kernel task id of the calling thread. gettid(2) is
// a plain syscall, safe on the capture path.
func ThreadID() uint64 {
	return uint64(unix.Gettid())
}
