package corectx

import (
	"sync"

	"github.com/joeycumines/generator/internal/gls"
)

// roots maps a goroutine's identity (see internal/gls) to the root Context
// of its chain. Entries are created lazily on first use and never removed —
// the root's lifetime is the goroutine's, which this package cannot observe
// ending, so roots accumulate for the process lifetime. This mirrors the
// spec's own "root context is heap-allocated once per thread ... and
// intentionally leaked" note in §4.E.
var roots sync.Map // int64 -> *Context

// threadRoot returns (creating if necessary) the calling goroutine's root
// context, pinning the goroutine to its OS thread the first time.
func threadRoot() *Context {
	id := gls.ID()
	if v, ok := roots.Load(id); ok {
		return v.(*Context)
	}
	gls.Pin()
	root := NewRoot()
	actual, _ := roots.LoadOrStore(id, root)
	return actual.(*Context)
}

// Current returns the innermost context currently executing on the calling
// goroutine: either a generator's Context, or the thread root if no
// generator is active.
func Current() *Context {
	root := threadRoot()
	if root.Child != nil {
		return innermost(root)
	}
	return root
}

func innermost(root *Context) *Context {
	c := root
	for c.Child != nil {
		c = c.Child
	}
	return c
}

// IsRoot reports whether c is a thread root rather than a generator context.
func (c *Context) IsRoot() bool { return c.Stack == nil }

// IsCurrentTop reports whether c is the innermost context on the calling
// goroutine's chain right now — the check spec §4.G's yield algorithm
// describes as "the current top of the context chain is in fact a
// generator context", specialized here to also catch a Yielder escaping to
// a different goroutine than the one executing its generator body.
func (c *Context) IsCurrentTop() bool {
	return Current() == c
}

// Push links c as the new innermost context of the calling goroutine's
// chain, with parent set to the previous innermost context (spec §4.D:
// "P.child <- C; C.parent <- P; root.parent <- C", generalized here from a
// two-slot root-only model to the full chain since root.Child always points
// at the innermost entry transitively via the Child links).
func Push(c *Context) (root *Context) {
	root = threadRoot()
	top := innermost(root)
	top.Child = c
	c.Parent = top
	return root
}

// Pop removes c from the calling goroutine's chain. c must be the current
// innermost context.
func Pop(c *Context) {
	if c.Parent != nil {
		c.Parent.Child = nil
	}
}

// IsGenerator reports whether the calling goroutine is currently executing
// inside some generator (i.e. its innermost context is not a thread root).
func IsGenerator() bool {
	return !Current().IsRoot()
}

// LocalData returns the innermost generator context's LocalData pointer, or
// nil if the calling goroutine isn't inside a generator. This is an
// O(chain-depth) walk from root, per spec §4.D, since intermediate contexts
// may not have LocalData set (it's used by embedding coroutine runtimes to
// mark their own richer contexts).
func LocalData() any {
	c := Current()
	for c != nil && c.IsRoot() {
		return nil
	}
	for c != nil {
		if c.LocalData != nil {
			return c.LocalData
		}
		c = c.Parent
		if c != nil && c.IsRoot() {
			break
		}
	}
	return nil
}
