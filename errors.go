package generator

import (
	"errors"
	"fmt"
)

// TypeError is raised inside a generator when the input value staged for it
// doesn't match its declared In type; it reaches the resumer wrapped in a
// *PanicError. The check guards the interface{}-erased input slot (spec §9,
// "Typed payload slots"), so a mismatch never arises through the typed Go
// API of this package, only from a value placed in that slot by other
// means. An output value that doesn't match Out is not reported this way:
// Resume returns ok false for it.
type TypeError struct {
	Want, Got string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("generator: type mismatch: want %s, got %s", e.Want, e.Got)
}

// StackOverflowError is raised when a generator's stack usage is detected to
// have reached its guard page, either synchronously (internal/fault's POSIX
// signal handler, after which Resume panics with it) or belatedly (the
// used-size check in Close, which returns it). On Windows a guard-page hit
// terminates the process instead, so only the Close check produces it there.
type StackOverflowError struct {
	// Words is the stack's total capacity, in machine words, at the time of
	// detection.
	Words uintptr
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("generator: stack overflow (capacity %d words)", e.Words)
}

// PanicError wraps an arbitrary panic value captured inside a generator and
// re-raised at the resumer, per spec §7 ("User panic ... Captured, re-raised
// at caller's resume"). Value is whatever the generator body panicked with.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return "generator: panic: " + err.Error()
	}
	return fmt.Sprintf("generator: panic: %v", e.Value)
}

// Unwrap returns the underlying error if Value is itself an error, so
// errors.Is and errors.As can see through a captured-and-re-raised panic to
// its original cause.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ErrFinished is returned by Send when the generator completed on the step
// that was meant to produce a value (spec §4.F: "Fails (none-return) if the
// generator completed on this step").
var ErrFinished = errors.New("generator: already finished")

// ErrNotInGenerator is the diagnostic panic raised by yield primitives
// called outside of a generator context (spec §4.G).
var ErrNotInGenerator = errors.New("generator: yield primitive called outside a generator")

// WrapError wraps an error with a message, preserving the cause chain for
// errors.Is/errors.As.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
