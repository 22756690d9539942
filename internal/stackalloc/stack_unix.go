//go:build !windows

package stackalloc

import (
	"golang.org/x/sys/unix"
)

// minWords is the platform floor on stack size: one page worth of words,
// well above what any real generator body needs but small enough that
// clamping up (rather than rejecting) a too-small request is harmless.
const minWords = uintptr(4096) / 8

var pageSize = uintptr(unix.Getpagesize())

// mapGuarded maps usable+pageSize bytes of private, anonymous, read-write
// memory and downgrades the lowest page to PROT_NONE, turning it into the
// guard page. The returned slice covers the whole mapping (guard included);
// Release must unmap exactly this slice.
func mapGuarded(usable uintptr) ([]byte, error) {
	region, err := unix.Mmap(-1, 0, int(usable+pageSize),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	if err := unix.Mprotect(region[:pageSize], unix.PROT_NONE); err != nil {
		_ = unix.Munmap(region)
		return nil, err
	}
	return region, nil
}

// Release unmaps the full allocation (guard page included) in one call.
func (s *Stack) Release() error {
	if s.alloc == nil {
		return nil
	}
	err := unix.Munmap(s.alloc)
	s.alloc = nil
	return err
}
