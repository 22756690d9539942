// Package corectx implements spec components 4.D (Context record) and 4.E
// (per-thread context chain): the runtime state bound to one generator's
// execution stack, and the structure tracking which context is currently
// executing on each OS thread.
package corectx

import (
	"reflect"
	"unsafe"

	"github.com/joeycumines/generator/internal/gls"
	"github.com/joeycumines/generator/internal/regs"
	"github.com/joeycumines/generator/internal/stackalloc"
)

func init() {
	// Wire the fixed assembly trampoline to this package's dispatch, so
	// internal/regs never needs to know what a Context or a Generator is.
	regs.EntryPoint = func(self unsafe.Pointer) {
		(*Context)(self).runEntry()
	}
}

// Context is spec §3/§4.D's per-generator runtime record.
type Context struct {
	Regs  regs.Context
	Stack *stackalloc.Stack

	Parent *Context
	Child  *Context

	State State

	// Para/Ret are the typed payload slots; ParaType/RetType record the
	// declared In/Out types at Init. The checks themselves are type
	// assertions in the generator package, which turn a mismatched input
	// into a *TypeError rather than a silent corruption.
	Para     any
	Ret      any
	ParaType reflect.Type
	RetType  reflect.Type

	// Err carries a captured panic (never the cancellation sentinel, which
	// the barrier discards) from the trampoline's catch barrier back to whichever Swap returns it to the
	// resumer, per spec §7's "transported through the parent context's err
	// slot" policy.
	Err any

	LocalData any

	// Panic retains the last captured panic value even after Err has been
	// consumed (and re-raised) by a resumer, so PanicData can answer
	// "what, if anything, did this generator panic with" independent of
	// the one-shot re-raise at Resume — spec §6's get_panic_data.
	Panic any

	GuardLow, GuardHigh uintptr

	// Faulted is set by internal/fault when a guard-page write is
	// attributed to this context, in place of the normal Err/Panic
	// capture (the context's own stack is no longer in a usable state to
	// have run its own recover-wrapped trampoline logic).
	Faulted bool

	// Run is the type-erased entry closure, boxed onto the heap by the
	// generator package so its address survives the Generator moving before
	// the first Swap (see spec §9, "Closure delivery across stacks").
	Run func()

	// parentBounds is the snapshot of whichever stack-bounds were installed
	// on the calling goroutine's g immediately before it last swapped into
	// c's own stack — restored by SwapToParent (and runEntry's final swap)
	// when control leaves c, and re-saved by every SwapIn. See
	// internal/gls: the Go runtime's stack-growth and GC-scanning machinery
	// trusts these fields to describe the memory the live SP points into,
	// so they must track whichever stack is physically in use, generator or
	// host, at every instant.
	parentBounds gls.Bounds

	started  bool
	finished bool
}

// enterBounds installs target as the calling goroutine's stack bounds,
// returning whatever was installed before so the caller can restore it
// once the targeted stack stops being the one physically in use.
func enterBounds(target gls.Bounds) gls.Bounds {
	prev := gls.Current()
	gls.Install(target)
	return prev
}

// EnterGuardedBounds and LeaveGuardedBounds let internal/fault bracket its
// own lower-level guarded swap (cgo-based sigsetjmp/siglongjmp recovery on
// POSIX) with the exact same stack-bounds discipline SwapIn applies,
// without going through regs.Swap directly.
func (c *Context) EnterGuardedBounds() {
	c.parentBounds = enterBounds(gls.NewBounds(c.Stack.Bottom(), c.Stack.Top()))
}

// LeaveGuardedBounds restores the bounds EnterGuardedBounds saved.
func (c *Context) LeaveGuardedBounds() {
	gls.Install(c.parentBounds)
}

// NewRoot constructs the context representing an OS thread's own stack. It
// is never pushed or popped itself — it is the chain's anchor.
func NewRoot() *Context {
	c := &Context{}
	c.State.Store(Running)
	return c
}

// Init prepares c to run on its own stack, entering via the shared assembly
// trampoline. Call once, before the first Resume.
func (c *Context) Init(stack *stackalloc.Stack, run func(), paraType, retType reflect.Type) {
	c.Stack = stack
	c.Run = run
	c.ParaType = paraType
	c.RetType = retType
	c.GuardLow, c.GuardHigh = stack.GuardRange()
	c.Regs.InitWith(regs.TrampolineAddr(), stack.Top(), unsafe.Pointer(c))
}

// runEntry is invoked exactly once per Context, the first time it is
// resumed, via internal/regs' assembly trampoline. It corresponds to spec
// §4.F's "Key algorithm: the trampoline and first resume".
func (c *Context) runEntry() {
	c.started = true

	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(cancelSignal); ok {
					// cancellation consumed silently at the trampoline
				} else {
					c.Err = r
					c.Panic = r
				}
			}
		}()
		c.Run()
	}()

	c.finished = true
	if c.State.Load() != Done {
		c.State.Store(Done)
	}
	c.Regs.SetSP(0)
	gls.Install(c.parentBounds)
	regs.Swap(&c.Regs, &c.Parent.Regs)
}

// cancelSignal is the distinguished unwind payload raised by Cancel() and
// consumed silently at the trampoline's catch barrier (spec §7, "Cancel").
type cancelSignal struct{}

// CancelSignal is the concrete panic value yield primitives and Cancel use
// to request/observe cancellation.
var CancelSignal = cancelSignal{}

// IsCancelSignal reports whether v is the distinguished cancellation panic
// value.
func IsCancelSignal(v any) bool {
	_, ok := v.(cancelSignal)
	return ok
}

// SwapToParent suspends the calling context c, transferring control back to
// its parent (the context that resumed it), until c is resumed again. Used
// by the yield primitives (spec §4.G); the opposite direction, from a
// resumer into a generator, is SwapIn (or internal/fault's guarded swap).
//
// The bounds gymnastics around the physical swap are what let ordinary,
// non-assembly Go code keep running correctly on c's foreign stack and the
// parent's own stack in turn: see internal/gls's doc comment for why every
// compiled function's prologue, and the GC, depend on this.
func SwapToParent(c *Context) {
	own := enterBounds(c.parentBounds)
	regs.Swap(&c.Regs, &c.Parent.Regs)
	gls.Install(own)
}

// SwapIn transfers control from the calling context (c's parent, which must
// be the chain's current top) into c, returning once c next suspends or
// finishes.
func SwapIn(c *Context) {
	c.parentBounds = enterBounds(gls.NewBounds(c.Stack.Bottom(), c.Stack.Top()))
	regs.Swap(&c.Parent.Regs, &c.Regs)
	gls.Install(c.parentBounds)
}

// MarkFaulted records that a guard-page fault was attributed to c and
// forces it into the finished state — c's stack can never be resumed
// again once this is called.
func (c *Context) MarkFaulted() {
	c.Faulted = true
	c.finished = true
	c.State.Store(Done)
}

// Finished reports whether the entry closure has returned control for the
// last time (normal return, done(), panic, or cancel).
func (c *Context) Finished() bool { return c.finished }

// Started reports whether this context's entry closure has begun running.
func (c *Context) Started() bool { return c.started }
