package regs

import "unsafe"

// EntryPoint is invoked by the assembly trampoline the first (and only)
// time a Context initialized via InitWith is swapped into. It is set once,
// at process startup, by the corectx package — regs has no knowledge of
// Context/Generator shapes, only of how to get from a cold stack to a Go
// call with one argument.
var EntryPoint func(self unsafe.Pointer)

// callEntryPoint is the landing pad the assembly trampoline CALLs into. It
// exists so the assembly never has to know how to call a Go func value
// directly (those are two-word closures, not bare code pointers).
func callEntryPoint(self unsafe.Pointer) {
	EntryPoint(self)
}

// trampolineReturnedUnexpectedly is called by the assembly trampoline
// immediately after its call to callEntryPoint. Reaching it means
// callEntryPoint returned normally, which must never happen (the
// entry point always leaves its stack via Swap, never via plain return) —
// it indicates stack/context-chain corruption, so this halts the process
// rather than jump through whatever garbage happens to be at the real
// caller's return address.
func trampolineReturnedUnexpectedly() {
	panic("generator: trampoline returned; context chain is corrupt")
}
