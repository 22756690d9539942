package corectx

import "sync/atomic"

// State is the single-word reference-counter encoding from spec §3: one
// integer carries new/suspended/running/done/cancel-in-flight. The spec
// leaves the exact bit layout as an implementation choice (multiple historic
// variants disagree); this repo picks the following, modeled on the
// teacher's lock-free LoopState/FastState pair (an atomic word, no mutex, a
// String method for diagnostics):
//
//	0x0 Ready    generator has never run, or is suspended waiting for resume
//	0x1 Running  a resume is currently executing on this context
//	0x2 Cancel   cancellation has been requested; observed by the next yield
//	0xF Done     finished, either by normal return or the done() primitive
//
// This differs from spec §3's literal "0 running-or-ready, 1 suspended"
// pairing (which conflates two distinct states into one value) by giving
// Ready and Running separate codes, so IsDone never needs additional bits.
type State struct {
	v atomic.Uint32
}

const (
	Ready   uint32 = 0x0
	Running uint32 = 0x1
	Cancel  uint32 = 0x2
	Done    uint32 = 0xF
)

func stateName(s uint32) string {
	switch s {
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Cancel:
		return "Cancel"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// Load returns the current state atomically.
func (s *State) Load() uint32 { return s.v.Load() }

// Store atomically stores a new state, bypassing transition validation. Every
// transition in this repository is made with Store.
func (s *State) Store(v uint32) { s.v.Store(v) }

// TryTransition attempts to atomically move from "from" to "to".
func (s *State) TryTransition(from, to uint32) bool {
	return s.v.CompareAndSwap(from, to)
}

// IsDone reports whether the encoded state is terminal.
func (s *State) IsDone() bool { return s.Load() == Done }

func (s *State) String() string { return stateName(s.Load()) }
