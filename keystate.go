package lollipop

import "time"

// stateKind discriminates the three cases of KeyState. KeyState is a tagged
// variant, not a class hierarchy: stateLatched is the only case carrying a
// payload (the press timestamp), the other two are nullary.
type stateKind uint8

const (
	stateNone stateKind = iota
	stateLatched
	stateLocked
)

// KeyState is a modifier's three-state latch automaton (spec §4.1): a key is
// either inactive, virtually held for exactly one following non-modifier key
// (Latched), or held indefinitely until explicitly cleared (Locked).
type KeyState struct {
	kind      stateKind
	latchedAt time.Time
}

// Transition applies a press of the owning modifier at t, given the
// latch->lock timeout. Must only be called for PressValue == 1; releases and
// autorepeats never reach here (the ModifierTable is authoritative for
// whether the virtual modifier is down, not the physical key).
func (s *KeyState) Transition(t time.Time, timeout time.Duration) {
	switch s.kind {
	case stateNone:
		s.kind = stateLatched
		s.latchedAt = t
	case stateLatched:
		elapsed := t.Sub(s.latchedAt)
		if elapsed >= 0 && elapsed < timeout {
			s.kind = stateLocked
		} else {
			// Timeout elapsed, or t is before latchedAt (clock went
			// backwards): clear rather than re-latch in the same step.
			s.kind = stateNone
		}
		s.latchedAt = time.Time{}
	case stateLocked:
		s.kind = stateNone
	}
}

// Pressed reports the observable pressed-state used when synthesizing the
// outgoing event: Latched and Locked both read as held.
func (s KeyState) Pressed() PressValue {
	if s.kind == stateLatched || s.kind == stateLocked {
		return Press
	}
	return Release
}

func (s KeyState) IsLatched() bool { return s.kind == stateLatched }
func (s KeyState) IsLocked() bool  { return s.kind == stateLocked }
func (s KeyState) IsNone() bool    { return s.kind == stateNone }

func (s KeyState) String() string {
	switch s.kind {
	case stateLatched:
		return "Latched"
	case stateLocked:
		return "Locked"
	default:
		return "None"
	}
}
