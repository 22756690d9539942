//go:build windows

package fault

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/joeycumines/generator/internal/corectx"
)

const (
	// exceptionStackOverflow is STATUS_STACK_OVERFLOW, the NTSTATUS a
	// vectored exception handler sees when a guard page traps a write
	// that exhausts the reserved guard region — the same code
	// original_source/src/stack/overflow_windows.rs tests for.
	exceptionStackOverflow = 0xC00000FD

	// winnt.h's vectored-handler disposition for "not handled here".
	exceptionContinueSearch = 0
)

// exceptionRecord/exceptionPointers mirror the Win32 EXCEPTION_RECORD and
// EXCEPTION_POINTERS layouts. golang.org/x/sys/windows doesn't define these
// (they belong to the SEH/VEH surface, not the syscall wrappers it
// otherwise provides), so this repo declares the fields it needs directly,
// matching winnt.h.
type exceptionRecord struct {
	ExceptionCode        uint32
	ExceptionFlags       uint32
	ExceptionRecord      uintptr
	ExceptionAddress     uintptr
	NumberParameters     uint32
	_                    uint32 // padding to align ExceptionInformation on amd64
	ExceptionInformation [15]uintptr
}

type exceptionPointers struct {
	ExceptionRecord uintptr
	ContextRecord   uintptr
}

var (
	rangesMu sync.RWMutex
	ranges   []windowsRange

	modkernel32                     = windows.NewLazySystemDLL("kernel32.dll")
	procAddVectoredExceptionHandler = modkernel32.NewProc("AddVectoredExceptionHandler")
)

type windowsRange struct {
	low, high uintptr
}

func install() {
	cb := windows.NewCallback(vectoredHandler)
	procAddVectoredExceptionHandler.Call(1, cb)
}

func track(ctx *corectx.Context) {
	rangesMu.Lock()
	ranges = append(ranges, windowsRange{low: ctx.GuardLow, high: ctx.GuardHigh})
	rangesMu.Unlock()
}

func untrack(ctx *corectx.Context) {
	rangesMu.Lock()
	defer rangesMu.Unlock()
	for i, r := range ranges {
		if r.low == ctx.GuardLow && r.high == ctx.GuardHigh {
			ranges = append(ranges[:i], ranges[i+1:]...)
			return
		}
	}
}

// resume is a plain swap on Windows: per spec §4.H, a guard-page hit here
// is fatal rather than recovered, so there is no guarded variant of the
// swap itself — protection is entirely the vectored handler below plus
// the belated used-size check at Close.
func resume(ctx *corectx.Context) {
	corectx.SwapIn(ctx)
}

// vectoredHandler runs as an ordinary function call (not an async-signal
// context), so unlike the POSIX handler it may safely do normal Go work —
// but it still never attempts to unwind back into Go control flow on a
// match, per spec §4.H.
func vectoredHandler(exceptionInfo *exceptionPointers) uintptr {
	if exceptionInfo == nil || exceptionInfo.ExceptionRecord == 0 {
		return exceptionContinueSearch
	}
	rec := (*exceptionRecord)(unsafe.Pointer(exceptionInfo.ExceptionRecord))
	if rec.ExceptionCode != exceptionStackOverflow {
		return exceptionContinueSearch
	}

	rangesMu.RLock()
	hit := false
	for _, r := range ranges {
		if rec.ExceptionAddress >= r.low && rec.ExceptionAddress < r.high {
			hit = true
			break
		}
	}
	rangesMu.RUnlock()

	if !hit {
		return exceptionContinueSearch
	}

	fmt.Fprintf(os.Stderr, "generator: stack overflow (guard page hit at %#x); aborting\n", rec.ExceptionAddress)
	os.Exit(2)
	return exceptionContinueSearch // unreachable
}
