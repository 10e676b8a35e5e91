package rawlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scratchFd opens a temp file and returns its raw descriptor plus a reader
// for the bytes written through the minimal writer.
func scratchFd(t *testing.T) (int, func() string) {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "minwriter-*")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	return int(f.Fd()), func() string {
		data, err := os.ReadFile(f.Name())
		require.NoError(t, err)
		return string(data)
	}
}

func TestWriteInt32(t *testing.T) {
	cases := []struct {
		name string
		in   int32
		want string
	}{
		{"zero", 0, "0"},
		{"signal_number", 11, "11"},
		{"negative", -5, "-5"},
		{"max", 2147483647, "2147483647"},
		{"min_clamped", -2147483648, "-2147483647"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fd, read := scratchFd(t)
			n := WriteInt32(fd, tc.in)
			assert.Equal(t, len(tc.want), n)
			assert.Equal(t, tc.want, read())
		})
	}
}

func TestWriteUint64(t *testing.T) {
	cases := []struct {
		name string
		in   uint64
		want string
	}{
		{"zero", 0, "0"},
		{"thread_id", 140735123456789, "140735123456789"},
		{"max", 18446744073709551615, "18446744073709551615"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fd, read := scratchFd(t)
			n := WriteUint64(fd, tc.in)
			assert.Equal(t, len(tc.want), n)
			assert.Equal(t, tc.want, read())
		})
	}
}

func TestWritePtr(t *testing.T) {
	cases := []struct {
		name string
		in   uintptr
		want string
	}{
		{"nil", 0, "0x0"},
		{"code_address", 0x4005a0, "0x4005a0"},
		{"no_leading_zeros", 0xff, "0xff"},
		{"high_bits", 0x7fff5fbff8c0, "0x7fff5fbff8c0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fd, read := scratchFd(t)
			n := WritePtr(fd, tc.in)
			assert.Equal(t, len(tc.want), n)
			assert.Equal(t, tc.want, read())
		})
	}
}

func TestWriteLiteralInvalidFd(t *testing.T) {
	assert.Equal(t, -1, WriteLiteral(-1, []byte("anything")))
	assert.Equal(t, -1, WriteInt32(-1, 11))
	assert.Equal(t, -1, WriteUint64(-1, 11))
	assert.Equal(t, -1, WritePtr(-1, 0x1000))
}

func TestWriteLiteralClosedFd(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "closed"))
	require.NoError(t, err)
	fd := int(f.Fd())
	require.NoError(t, f.Close())

	assert.Equal(t, -1, WriteLiteral(fd, []byte("dropped")))
}
