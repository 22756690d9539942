// Package generator implements stackful, single-shot-initialized,
// bidirectional generators: ordinary functions turned into resumable
// computations that suspend (yield a value to their caller), are later
// resumed with a new input value, and eventually terminate with a final
// return value.
//
// # Architecture
//
// Each Generator owns a private execution stack, allocated with a guard
// page by internal/stackalloc, and switches onto it using hand-written
// assembly (internal/regs) rather than any source-level transformation —
// arbitrary blocking-style Go code, including recursion and third-party
// libraries, may run inside a generator's body. internal/corectx tracks the
// caller/callee relationship between a host goroutine and its active
// generators as a per-goroutine chain, and internal/fault converts a write
// to a generator's guard page into a typed StackOverflowError delivered to
// whichever Resume call triggered the fault (on POSIX; on Windows a
// guard-page hit terminates the process).
//
// # Construction
//
// New builds a generator whose body takes no arguments and simply returns a
// value — a generator that never suspends is exactly a function.
// NewScoped builds one whose body receives a *Yielder, through which it may
// suspend (Yield, YieldWith), inspect a pending input without suspending
// (GetYield), delegate to a nested generator (YieldFrom), or terminate
// early with no further value (Done).
//
// # Platform support
//
// Context switching is implemented for amd64 and arm64; Windows is
// supported only on amd64, where swap additionally preserves the TIB's
// StackBase and StackLimit fields the OS uses to track the current stack's
// bounds. The third TIB stack field, DeallocationStack, is not swapped.
//
// # Thread safety
//
// A Generator may only be resumed by the goroutine that last resumed it —
// there is no internal lock. The first Resume call (or other use of the
// context chain, such as IsGenerator) from a given goroutine pins it to its
// OS thread (see internal/gls); the pin is never released.
package generator
