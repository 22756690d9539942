// Package regs wraps the architecture-specific register image used to
// context-switch between a host goroutine and a generator's private stack.
//
// A Context is an opaque, fixed-size save area holding the callee-saved
// general-purpose registers, the stack pointer, and (where the ABI requires
// it) callee-saved floating-point/vector registers for the current
// architecture. Callers never read or write its fields directly; all access
// goes through InitWith, Swap and Prefetch, which are implemented in
// hand-written Plan9 assembly per GOARCH (asm_amd64.s, asm_arm64.s) plus a
// Windows-specific variant of the amd64 swap that additionally preserves the
// TIB's StackBase and StackLimit fields (DeallocationStack is not swapped).
//
// The design deliberately saves only callee-saved state: caller-saved
// registers are the Go compiler's responsibility at the call site that
// invokes Swap, exactly as for any ordinary function call.
package regs

import "unsafe"

//go:noescape
func initializeCallFrame(c *Context, entry uintptr, stackTop uintptr, self unsafe.Pointer)

//go:noescape
func swap(from, to *Context)

//go:noescape
func prefetch(c *Context)

//go:noescape
func trampolineAddr() uintptr

// TrampolineAddr returns the address of the fixed assembly entry point that
// InitWith should be pointed at. It is a process-wide constant; callers
// resolve it once and reuse it for every Context they initialize.
func TrampolineAddr() uintptr { return trampolineAddr() }

// InitWith prepares c so that the first Swap that lands on it begins
// executing at entry, on top of the memory region ending at stackTop, with
// self delivered to the entry point as its sole argument. self is the
// mechanism by which a caller-supplied payload survives the jump onto a
// stack the Go compiler never otherwise sees — it is handed unchanged to
// EntryPoint (trampoline.go), so it must point to whatever EntryPoint's
// installer expects.
func (c *Context) InitWith(entry uintptr, stackTop uintptr, self unsafe.Pointer) {
	initializeCallFrame(c, entry, stackTop, self)
}

// Swap saves the caller's callee-saved register state into from, then loads
// it from to. The calling frame's view is that Swap returns once some peer
// context performs the reverse Swap(to, from); there is no other way back.
func Swap(from, to *Context) {
	swap(from, to)
}

// Prefetch hints the CPU to warm c's cache lines and the word it names as a
// stack pointer. It is always a legal no-op.
func Prefetch(c *Context) {
	prefetch(c)
}

// SP returns the context's saved stack pointer. Zero means the context has
// either never been initialized or has been marked finished.
func (c *Context) SP() uintptr { return c.sp }

// SetSP overwrites the saved stack pointer directly. Used to mark a context
// finished (SetSP(0)) once its entry function has returned control for the
// last time.
func (c *Context) SetSP(sp uintptr) { c.sp = sp }
