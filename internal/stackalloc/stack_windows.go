//go:build windows

package stackalloc

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// Windows requires a larger floor than a single page for a thread/fiber-like
// stack to be useful (roughly 1.2KB of hard minimum bookkeeping); round up
// generously to keep the allocator simple.
const minWords = uintptr(8192) / 8

var pageSize = func() uintptr {
	var si windows.SystemInfo
	windows.GetSystemInfo(&si)
	return uintptr(si.PageSize)
}()

// mapGuarded reserves and commits usable+pageSize bytes with VirtualAlloc,
// then downgrades the lowest page to PAGE_NOACCESS with VirtualProtect to
// serve as the guard page.
func mapGuarded(usable uintptr) ([]byte, error) {
	total := usable + pageSize
	addr, err := windows.VirtualAlloc(0, total, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	region := unsafe.Slice((*byte)(unsafe.Pointer(addr)), total)

	var old uint32
	if err := windows.VirtualProtect(addr, pageSize, windows.PAGE_NOACCESS, &old); err != nil {
		_ = windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
		return nil, err
	}
	return region, nil
}

// Release frees the full allocation (guard page included) in one call.
func (s *Stack) Release() error {
	if s.alloc == nil {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&s.alloc[0]))
	s.alloc = nil
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}
