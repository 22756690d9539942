package generator

import (
	"reflect"
	"runtime"

	"github.com/joeycumines/generator/internal/corectx"
	"github.com/joeycumines/generator/internal/fault"
	"github.com/joeycumines/generator/internal/stackalloc"
)

// Generator is a stackful, single-shot-initialized, bidirectional
// coroutine: a function whose body runs on its own private stack and may
// suspend itself, handing a value of type Out to whichever call resumed it,
// and later resume with a value of type In sent back in. Spec §4.F.
//
// A Generator may only be driven by one goroutine at a time, and that
// goroutine is pinned to its OS thread the first time it uses the context
// chain (internal/gls); the pin is never released. There is no lock: the
// caller's own single-ownership discipline is the only serialization.
type Generator[In, Out any] struct {
	ctx *corectx.Context
	cfg *config
}

// New builds a Generator whose body takes no input and simply computes a
// value — a generator that never suspends is exactly a function, per spec
// §4.F's closure-only constructor.
func New[Out any](stackWords uint, fn func() Out, opts ...Option) *Generator[struct{}, Out] {
	return NewScoped[struct{}, Out](stackWords, func(*Yielder[struct{}, Out]) Out {
		return fn()
	}, opts...)
}

// NewScoped builds a Generator whose body is handed a *Yielder, through
// which it may suspend, inspect a pending input, delegate to a nested
// generator, or terminate early with no further value.
func NewScoped[In, Out any](stackWords uint, fn func(y *Yielder[In, Out]) Out, opts ...Option) *Generator[In, Out] {
	cfg, err := resolveOptions(opts)
	if err != nil {
		panic(err)
	}

	exact := cfg.exactStackAccounting || stackWords&1 != 0
	stack := stackalloc.New(stackWords&^1, exact)

	ctx := &corectx.Context{}
	g := &Generator[In, Out]{ctx: ctx, cfg: cfg}
	y := &Yielder[In, Out]{ctx: ctx}

	run := func() {
		out := fn(y)
		ctx.Ret = out
	}

	var inType, outType reflect.Type
	if t := reflect.TypeOf((*In)(nil)).Elem(); t != nil {
		inType = t
	}
	if t := reflect.TypeOf((*Out)(nil)).Elem(); t != nil {
		outType = t
	}
	ctx.Init(stack, run, inType, outType)

	fault.Track(ctx)
	runtime.SetFinalizer(g, (*Generator[In, Out]).closeFromFinalizer)
	return g
}

// Resume drives the generator forward to its next yield, or to completion.
// If the call makes the closure return a value, that value comes back here
// with ok true, exactly as a suspending call would — the caller cannot tell
// from the return alone whether the generator is now finished; use IsDone.
// ok is false only if the generator had already finished before this call,
// or finished via done()/cancellation with no value to report. A panic
// captured inside the generator body is re-raised here, wrapped in
// *PanicError.
func (g *Generator[In, Out]) Resume() (out Out, ok bool) {
	if g.ctx.Finished() {
		return out, false
	}

	g.ctx.State.Store(corectx.Running)
	corectx.Push(g.ctx)
	fault.Resume(g.ctx)
	corectx.Pop(g.ctx)

	if g.ctx.Faulted {
		fault.Untrack(g.ctx)
		panic(&StackOverflowError{Words: g.ctx.Stack.Words()})
	}

	if g.ctx.Finished() {
		fault.Untrack(g.ctx)
	}

	if g.ctx.Err != nil {
		err := g.ctx.Err
		g.ctx.Err = nil
		if corectx.IsCancelSignal(err) {
			return out, false
		}
		panic(&PanicError{Value: err})
	}

	// A completing call still delivers whatever the closure returned, same
	// as a suspending one delivers whatever it yielded — the two are
	// indistinguishable from here. Only a call made after the generator was
	// already finished (handled above) or one that finished via done()/
	// cancellation (Ret left unset) reports ok=false.
	v, valid := g.ctx.Ret.(Out)
	g.ctx.Ret = nil
	if !valid {
		return out, false
	}
	return v, true
}

// Send stages in as the next input and resumes the generator, returning the
// value it yields. It fails with ErrFinished if the generator completed on
// this step instead of yielding — even though Resume itself would have
// reported that final value with ok true, Send's contract is narrower: it
// promises a yielded value, not a completion value — spec §4.F's "send".
func (g *Generator[In, Out]) Send(in In) (Out, error) {
	g.SetPara(in)
	out, ok := g.Resume()
	if g.ctx.Finished() {
		if ok {
			var zero Out
			return zero, ErrFinished
		}
		return out, ErrFinished
	}
	return out, nil
}

// SetPara pre-stages an input value without resuming, for a subsequent bare
// Resume (rather than Send) to deliver.
func (g *Generator[In, Out]) SetPara(in In) {
	g.ctx.Para = in
}

// Cancel unwinds a not-yet-finished generator through its ordinary
// destructors (deferred functions), discarding the cancellation unwind
// silently once it reaches the trampoline. A no-op if the generator has
// already finished. After Cancel returns, IsDone is always true.
func (g *Generator[In, Out]) Cancel() {
	if g.ctx.Finished() {
		return
	}

	g.ctx.State.Store(corectx.Cancel)
	corectx.Push(g.ctx)
	fault.Resume(g.ctx)
	corectx.Pop(g.ctx)
	fault.Untrack(g.ctx)

	if g.ctx.Faulted {
		return
	}
	if g.ctx.Err != nil && !corectx.IsCancelSignal(g.ctx.Err) {
		err := g.ctx.Err
		g.ctx.Err = nil
		panic(&PanicError{Value: err})
	}
}

// IsDone reports whether the generator has finished, by normal return,
// done(), cancellation, panic, or stack overflow.
func (g *Generator[In, Out]) IsDone() bool {
	return g.ctx.Finished()
}

// StackUsage reports the generator's stack capacity and estimated
// high-water mark, both in machine words.
func (g *Generator[In, Out]) StackUsage() (total, used uintptr) {
	return g.ctx.Stack.Words(), g.ctx.Stack.UsedWords()
}

// LocalData returns the value last set by SetLocalData, or nil.
func (g *Generator[In, Out]) LocalData() any {
	return g.ctx.LocalData
}

// SetLocalData attaches an arbitrary value to the generator's context,
// retrievable from inside its body via the package-level GetLocalData, or
// from outside via LocalData.
func (g *Generator[In, Out]) SetLocalData(v any) {
	g.ctx.LocalData = v
}

// PanicData returns the value the generator last panicked with, if any,
// independent of whether that panic has already been re-raised (and
// recovered) by a previous Resume/Cancel/Close call.
func (g *Generator[In, Out]) PanicData() any {
	return g.ctx.Panic
}

// Close releases the generator's stack, matching spec §4.F's Drop
// semantics: if the generator never started, the stack is released
// eagerly; otherwise, if it isn't finished, it is cancelled first. If the
// measured used size is at or beyond capacity when the stack is released,
// Close returns a *StackOverflowError — a belated detection for overflows
// that didn't trip the guard page on their own (e.g. a large single write
// that lands past it entirely). Close is idempotent; calling it more than
// once is a no-op returning nil.
func (g *Generator[In, Out]) Close() error {
	if g.ctx.Stack == nil {
		return nil
	}

	if !g.ctx.Started() {
		return g.release()
	}
	if !g.ctx.Finished() {
		g.Cancel()
	}
	return g.release()
}

func (g *Generator[In, Out]) release() error {
	stack := g.ctx.Stack
	if stack == nil {
		return nil
	}
	total, used := stack.Words(), stack.UsedWords()
	fault.Untrack(g.ctx)
	stack.Release()
	g.ctx.Stack = nil
	if used >= total {
		return &StackOverflowError{Words: total}
	}
	return nil
}

// closeFromFinalizer is installed via runtime.SetFinalizer so a Generator
// that's dropped without an explicit Close still releases its stack; any
// error Close would have returned is only logged here, since a finalizer
// has no caller to report it to.
func (g *Generator[In, Out]) closeFromFinalizer() {
	defer func() {
		_ = recover()
	}()
	if err := g.Close(); err != nil {
		g.cfg.logger.Warning().Err(err).Log("generator: finalized with outstanding error")
	}
}
