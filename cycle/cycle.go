// Package cycle tracks the running T-cycle counter and the deadlines that
// force a compiled block to return to the runtime: a hard limit (scanline
// draw, frame end, user input) and an interrupt limit (only relevant while
// IME is enabled), combined into a single value the JIT's deadline check
// compares against.
package cycle

import "math"

// State holds the cycle counter and both limits. The fields are plain
// uint64s rather than atomics: the core is single-threaded cooperative (see
// the event package), so nothing else observes State concurrently. RawState
// exposes pointers to the three values compiled code actually reads/writes
// across the block entry ABI.
type State struct {
	cycle          uint64
	hardLimit      uint64
	interruptLimit uint64
	combinedLimit  uint64
}

// RawState is the pointer triple passed to a compiled block's entry point:
// (cycle_ptr, hard_limit_ptr, combined_limit_ptr), matching the block entry
// ABI's RawCycleState.
type RawState struct {
	Cycle         *uint64
	HardLimit     *uint64
	CombinedLimit *uint64
}

// New returns a State with both limits set to "never" (math.MaxUint64).
func New() *State {
	s := &State{}
	s.SetHardLimit(math.MaxUint64)
	s.SetInterruptLimit(math.MaxUint64)
	return s
}

func (s *State) update() {
	if s.hardLimit < s.interruptLimit {
		s.combinedLimit = s.hardLimit
	} else {
		s.combinedLimit = s.interruptLimit
	}
}

// Advance bumps the cycle counter, as a block does after every instruction.
func (s *State) Advance(count uint64) { s.cycle += count }

// Cycle returns the current cycle count.
func (s *State) Cycle() uint64 { return s.cycle }

// SetHardLimit sets the next hard-deadline cycle count.
func (s *State) SetHardLimit(val uint64) {
	s.hardLimit = val
	s.update()
}

// ForceStop makes the combined limit fire immediately, used by
// self-modification detection to abort the currently executing block at
// its next deadline check.
func (s *State) ForceStop() {
	s.hardLimit = 0
	s.update()
}

// UpperBoundHardLimit lowers the hard limit to min(current, val); used when
// scheduling an event sooner than the existing deadline.
func (s *State) UpperBoundHardLimit(val uint64) {
	if val < s.hardLimit {
		s.SetHardLimit(val)
	}
}

// SetInterruptLimit sets the cycle count at which a pending, enabled
// interrupt must be serviced.
func (s *State) SetInterruptLimit(val uint64) {
	s.interruptLimit = val
	s.update()
}

// Raw returns the pointer triple for the block entry ABI.
func (s *State) Raw() RawState {
	return RawState{Cycle: &s.cycle, HardLimit: &s.hardLimit, CombinedLimit: &s.combinedLimit}
}
