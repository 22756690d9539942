// Package gls gives the corectx package a stable identity for "the current
// OS thread", which spec component 4.E models as owning a context chain,
// and gives internal/corectx a way to describe a generator's foreign stack
// to the Go runtime itself, so the stack-growth and GC-scanning machinery
// every compiled Go function's prologue relies on doesn't silently operate
// on stale data the instant SP is redirected onto it.
//
// Go goroutines are multiplexed onto OS threads by the scheduler, and the
// language exposes no thread-local storage to user code. corectx pins a
// goroutine to its OS thread with runtime.LockOSThread the first time it
// touches its context chain, typically by resuming a generator (see Pin).
// The pin is never released, so from that point on "this goroutine" and
// "this OS thread" coincide, which is what the fault handler
// (internal/fault) and the chain (4.E) both assume.
//
// Goroutines have no public numeric ID either, so ID derives one the same
// way petermattis/goid's fast path does: getg, a three-instruction
// assembly stub (asm_amd64.s, asm_arm64.s) reading the calling goroutine's
// g pointer directly, the same technique internal/regs's own context-
// switch assembly already relies on for the analogous "recover a register
// across a jump" problem.
package gls

import (
	"runtime"
	"unsafe"
)

// Pin locks the calling goroutine to its current OS thread. Safe to call
// repeatedly (runtime.LockOSThread nests via an internal counter) — callers
// should call it once, the first time they establish per-thread state for
// the calling goroutine, not on every lookup.
func Pin() {
	runtime.LockOSThread()
}

// getg returns the calling goroutine's runtime g pointer. Implemented in
// assembly per architecture.
func getg() uintptr

// ID returns a process-wide-unique identifier for the calling goroutine,
// stable only while the goroutine runs (it is not persisted or comparable
// across a goroutine exiting and a new one being scheduled). Intended for
// use as a map key identifying "the calling goroutine's chain", not as a
// general-purpose goroutine identifier.
func ID() int64 {
	return int64(getg())
}

// gStackPrefix mirrors the leading fields of runtime's unexported g
// struct: the stack region morestack/copystack trust, and the two
// stack-growth guard words every compiled function's prologue compares the
// live SP against. This prefix has been stable since Go's stack-copying GC
// landed — hand-written runtime assembly still references g_stackguard0
// and g_stackguard1 by these exact offsets via go_asm.h — which is what
// makes it the one part of g's much larger, far more volatile layout safe
// to mirror from outside package runtime.
type gStackPrefix struct {
	stackLo     uintptr
	stackHi     uintptr
	stackguard0 uintptr
	stackguard1 uintptr
}

// stackGuardMargin approximates runtime's own _StackGuard headroom, the gap
// below stackguard0 every prologue assumes is safely writable before the
// real check trips. Using a margin at least as large as runtime's own only
// makes morestack's check trigger sooner, never later, so erring high here
// is the safe direction — the guard page backs the actual safety net
// regardless.
const stackGuardMargin = 1024

// Bounds is an opaque snapshot of the stack-bounds/guard words installed on
// a goroutine's g at some point in time.
type Bounds struct {
	lo, hi, guard0, guard1 uintptr
}

// NewBounds builds the Bounds describing [lo, hi) as a fresh stack region,
// with a newly computed guard margin above lo.
func NewBounds(lo, hi uintptr) Bounds {
	return Bounds{lo: lo, hi: hi, guard0: lo + stackGuardMargin, guard1: lo + stackGuardMargin}
}

func current() *gStackPrefix {
	return (*gStackPrefix)(unsafe.Pointer(getg()))
}

// Current reads the bounds presently installed on the calling goroutine's
// g, without modifying them.
func Current() Bounds {
	g := current()
	return Bounds{lo: g.stackLo, hi: g.stackHi, guard0: g.stackguard0, guard1: g.stackguard1}
}

// Install overwrites the calling goroutine's stack bounds with b, exactly
// as given. This is the primitive internal/corectx uses to describe a
// generator's stack to the Go runtime for as long as that generator is the
// one physically executing on this OS thread, and to restore the caller's
// own bounds the instant it suspends or finishes — every non-leaf
// function's stack-growth prologue, runtime.morestack, and GC/async-
// preemption stack scanning all trust these fields to describe the memory
// the live SP actually points into.
func Install(b Bounds) {
	g := current()
	g.stackLo, g.stackHi, g.stackguard0, g.stackguard1 = b.lo, b.hi, b.guard0, b.guard1
}
