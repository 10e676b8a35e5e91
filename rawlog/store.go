package rawlog

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// FileName is the fixed name of the pending raw log inside the report
// directory. At most one record exists at a time.
const FileName = "pending_crash.txt"

// Store owns the raw-log file descriptor. The fd is opened at configure
// time, held for the process lifetime, and written only from the
// signal-phase path. A Store whose open failed is valid and swallows
// writes: recovering inside a signal handler is worse than losing the
// record.
type Store struct {
	path string
	fd   int
}

// Open creates (or truncates) <dir>/pending_crash.txt and caches the fd.
// On failure the returned Store is still usable as a no-op sink, and the
// error is reported so the facade can log it outside the signal path.
func Open(dir string) (*Store, error) {
	s := &Store{path: filepath.Join(dir, FileName), fd: -1}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return s, fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}
	fd, err := unix.Open(s.path, unix.O_CREAT|unix.O_RDWR|unix.O_TRUNC, 0o700)
	if err != nil {
		return s, fmt.Errorf("failed to open raw log %s: %w", s.path, err)
	}
	s.fd = fd
	return s, nil
}

// FD returns the cached descriptor, or -1 when the open failed.
func (s *Store) FD() int {
	if s == nil {
		return -1
	}
	return s.fd
}

// Path returns the raw-log path this store was opened on.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Valid reports whether signal-phase writes will reach disk.
func (s *Store) Valid() bool {
	return s != nil && s.fd >= 0
}

// Close releases the descriptor. Only called on re-configuration; a crash
// leaves the fd to be closed by process exit.
func (s *Store) Close() error {
	if s == nil || s.fd < 0 {
		return nil
	}
	fd := s.fd
	s.fd = -1
	return unix.Close(fd)
}
