//go:build unix

// Package mmap provides platform-specific helpers for ingesting large
// HEDL source files without a full user-space copy, continuing §4.3's
// "zero-copy line borrowing" down to the OS page cache.
//
// Grounded on the teacher's internal/mmfile.Map (unix mmap vs. portable
// os.ReadFile fallback, selected by build tags), reusing
// golang.org/x/sys/unix in place of the teacher's raw syscall package —
// the same syscalls, the teacher's own dependency (already used for
// Msync in hive/dirty/flush_unix.go).
package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Map maps the file at path into memory and returns its contents along
// with a cleanup function that unmaps it. The returned slice must not be
// retained past cleanup being called.
func Map(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() // safe before return; the mapping keeps pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	if size > int64(^uint(0)>>1) {
		return nil, nil, fmt.Errorf("mmap: file too large to map (%d bytes)", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		return unix.Munmap(data)
	}
	return data, cleanup, nil
}
