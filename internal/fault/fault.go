// Package fault implements spec component 4.H: turning a write to a
// generator's guard page into a recoverable event rather than a silent
// memory corruption or an unattributed process crash.
//
// The two platforms this repo supports diverge sharply here, for reasons
// inherent to their exception-delivery mechanisms rather than by choice:
//
//   - On POSIX, a SIGSEGV/SIGBUS handler runs in a restricted
//     async-signal-safe context — it may not safely allocate, touch the Go
//     heap, or invoke the scheduler. The registry of live guard ranges is
//     therefore kept in C memory (guard_unix.c) and consulted entirely in
//     C; a match performs a sigsetjmp/siglongjmp back to a recovery point
//     captured immediately before the swap into the generator; the context
//     is left marked Faulted and finished, and Resume then panics with a
//     *generator.StackOverflowError in the caller.
//   - On Windows, a vectored exception handler is an ordinary function
//     call (kernel32's AddVectoredExceptionHandler, called with a Go
//     callback built by golang.org/x/sys/windows.NewCallback), so the
//     registry can live in Go. But per spec
//     §4.H, recovery is not attempted: unwinding a Windows stack mid-fault
//     through a foreign frame is considered too fragile, so a match prints
//     a diagnostic and aborts the process. The guard page still does its
//     job — a corruption becomes a clean crash with a clear cause instead
//     of silent heap damage.
package fault

import (
	"sync"

	"github.com/joeycumines/generator/internal/corectx"
)

var installOnce sync.Once

// EnsureInstalled installs the process-wide fault handler the first time
// it is called; subsequent calls are no-ops. Safe to call from concurrent
// goroutines.
func EnsureInstalled() {
	installOnce.Do(install)
}

// Track registers ctx's guard range so a fault landing inside it can be
// attributed back to ctx. Call once, after the context's Stack is known
// and before the first Resume.
func Track(ctx *corectx.Context) {
	EnsureInstalled()
	track(ctx)
}

// Untrack removes ctx's guard range once its stack has been released.
func Untrack(ctx *corectx.Context) {
	untrack(ctx)
}

// Resume transfers control from ctx's parent into ctx, returning once ctx
// next suspends, finishes normally, or — on POSIX only — a guard-page
// fault is caught and recovered. A caught fault leaves ctx already marked
// Faulted and finished; callers should check ctx.Faulted immediately after
// Resume returns, before inspecting Ret or Err.
func Resume(ctx *corectx.Context) {
	resume(ctx)
}
