package generator

import "github.com/joeycumines/generator/internal/corectx"

// IsGenerator reports whether the calling goroutine is currently executing
// inside some generator's body (possibly nested several levels deep via
// YieldFrom).
func IsGenerator() bool {
	return corectx.IsGenerator()
}

// GetLocalData returns the innermost currently-executing generator's local
// data, or nil if the calling goroutine isn't inside one. Equivalent to
// calling LocalData on whichever *Generator is currently running, without
// needing a reference to it.
func GetLocalData() any {
	return corectx.LocalData()
}
