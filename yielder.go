package generator

import (
	"fmt"
	"reflect"

	"github.com/joeycumines/generator/internal/corectx"
)

// Yielder is the handle a scoped generator's closure uses to suspend itself,
// inspect a pending input, delegate to a nested generator, or terminate
// early. It is valid only for the lifetime of a single call to that
// closure and only on the goroutine currently running it — spec §4.G.
type Yielder[In, Out any] struct {
	ctx *corectx.Context
}

// Yield suspends the generator, delivering v to whichever Resume/Send call
// is waiting, and returns the value the caller eventually sends back. The
// returned bool is false if the generator was resumed with no value staged
// (a bare Resume rather than a Send) — spec §4.G's "yield_(v) -> Option<In>".
func (y *Yielder[In, Out]) Yield(v Out) (In, bool) {
	y.deliver(v)
	return y.take()
}

// YieldWith suspends, delivering v, and discards whatever is sent back.
func (y *Yielder[In, Out]) YieldWith(v Out) {
	y.deliver(v)
	y.swapOut()
}

// GetYield reads the pending input slot without suspending. The bool is
// false if nothing has been staged (SetPara was never called for this
// step).
func (y *Yielder[In, Out]) GetYield() (In, bool) {
	if !y.ctx.IsCurrentTop() {
		panic(ErrNotInGenerator)
	}
	if y.ctx.Para == nil {
		var zero In
		return zero, false
	}
	in, ok := y.ctx.Para.(In)
	if !ok {
		panic(&TypeError{Want: typeName[In](), Got: fmt.Sprintf("%T", y.ctx.Para)})
	}
	return in, true
}

// YieldFrom repeatedly drives inner, forwarding each of its yielded values
// out through y and each value y receives back in, until inner finishes.
// inner's own return value is consumed and discarded here, never forwarded
// as an extra yield — a completing Resume/Send reports ok true exactly like
// a suspending one does, so IsDone is what distinguishes the two.
func (y *Yielder[In, Out]) YieldFrom(inner *Generator[In, Out]) {
	out, ok := inner.Resume()
	for ok {
		if inner.IsDone() {
			return
		}
		in, sent := y.Yield(out)
		if !sent {
			out, ok = inner.Resume()
			continue
		}
		var err error
		out, err = inner.Send(in)
		ok = err == nil
	}
}

// Done marks the generator as completed with no further value, exactly as
// if its closure had returned early with no meaningful Out — spec §4.G's
// "done()": "behaves like a non-returning return".
func (y *Yielder[In, Out]) Done() {
	if !y.ctx.IsCurrentTop() {
		panic(ErrNotInGenerator)
	}
	panic(corectx.CancelSignal)
}

func (y *Yielder[In, Out]) deliver(v Out) {
	if !y.ctx.IsCurrentTop() {
		panic(ErrNotInGenerator)
	}
	y.ctx.Ret = v
}

// swapOut performs the suspend-and-resume dance shared by Yield/YieldWith:
// hand control back to the parent context, then (once resumed) check
// whether the resumer requested cancellation. The check also runs before
// suspending, so a cancel requested before this generator has reached its
// first yield point is observed immediately rather than being silently
// overwritten by the Ready state below — spec §4.G: "cancellation is
// detected by observing the reference counter post-resume", generalized
// to the case where there was no prior suspend to resume from.
func (y *Yielder[In, Out]) swapOut() {
	if y.ctx.State.Load() == corectx.Cancel {
		panic(corectx.CancelSignal)
	}
	y.ctx.State.Store(corectx.Ready)
	corectx.SwapToParent(y.ctx)
	if y.ctx.State.Load() == corectx.Cancel {
		panic(corectx.CancelSignal)
	}
}

func (y *Yielder[In, Out]) take() (In, bool) {
	y.swapOut()
	if y.ctx.Para == nil {
		var zero In
		return zero, false
	}
	para := y.ctx.Para
	y.ctx.Para = nil
	in, ok := para.(In)
	if !ok {
		panic(&TypeError{Want: typeName[In](), Got: fmt.Sprintf("%T", para)})
	}
	return in, true
}

func typeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return "any"
	}
	return t.String()
}
