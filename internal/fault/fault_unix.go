//go:build !windows

package fault

/*
#include <stdint.h>
#include "guard_unix.h"
*/
import "C"

import (
	"unsafe"

	"github.com/joeycumines/generator/internal/corectx"
	"github.com/joeycumines/generator/internal/regs"
)

func install() {
	C.generator_fault_install()
}

// track registers ctx's guard range in the C-side ranges table, keyed by
// ctx's own address reinterpreted as an id. That address is the only
// identifier generatorFaultMark needs: it is handed straight back by the
// signal handler (as r->id, looked up from the very table track just
// populated) and cast directly back to *corectx.Context, so there is no
// second, Go-side index to keep in sync — and nothing in the fault path
// ever needs to acquire a lock to resolve "which context faulted".
func track(ctx *corectx.Context) {
	id := contextID(ctx)
	low, high := ctx.GuardLow, ctx.GuardHigh
	C.generator_fault_track(C.uintptr_t(low), C.uintptr_t(high), C.uintptr_t(id))
}

func untrack(ctx *corectx.Context) {
	C.generator_fault_untrack(C.uintptr_t(contextID(ctx)))
}

func contextID(ctx *corectx.Context) uintptr {
	return uintptr(unsafe.Pointer(ctx))
}

// resume performs the resumer-to-generator half of a resume under fault
// protection: if the generator's body writes past its guard page during
// this call, control returns here (instead of crashing the process) with
// ctx already marked finished+Faulted by generatorFaultMark.
func resume(ctx *corectx.Context) {
	ctx.EnterGuardedBounds()
	C.generator_fault_install_thread()
	C.generator_guarded_swap(unsafe.Pointer(&ctx.Parent.Regs), unsafe.Pointer(&ctx.Regs))
	ctx.LeaveGuardedBounds()
}

//export goPerformSwap
func goPerformSwap(from, to unsafe.Pointer) {
	regs.Swap((*regs.Context)(from), (*regs.Context)(to))
}

// generatorFaultMark runs on the signal handler's alternate stack, in a
// restricted async-signal-safe context: it may not allocate, acquire a Go
// mutex, or otherwise touch anything that could block or call into the
// scheduler. id is exactly the address track() handed to the C side, so
// recovering ctx is a pointer cast, and MarkFaulted only performs plain
// field stores plus one atomic.Uint32 store (State.Store) — all of which
// lower to a handful of machine instructions with no allocation, locking,
// or parking, and are therefore safe to execute here.
//
//export generatorFaultMark
func generatorFaultMark(id C.uintptr_t) {
	ctx := (*corectx.Context)(unsafe.Pointer(uintptr(id)))
	ctx.MarkFaulted()
}
