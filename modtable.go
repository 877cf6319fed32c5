package lollipop

import "time"

// KeyEvent is a synthetic (code, pressed) pair produced by the engine for the
// virtual device. It intentionally carries no timestamp: outgoing events are
// stamped by the transport at emission time.
type KeyEvent struct {
	Code    KeyCode
	Pressed PressValue
}

// entry pairs a configured modifier with its current automaton state, kept in
// a slice rather than a map so iteration order is the deterministic
// configuration order the spec requires (Go maps do not preserve insertion
// order; original_source used a BTreeMap for the same determinism).
type entry struct {
	key   KeyCode
	state KeyState
}

// ModifierTable is the ordered KeyCode -> KeyState mapping for every
// configured modifier (spec §4.2). Its key set is fixed at construction.
type ModifierTable struct {
	entries []entry
	index   map[KeyCode]int
	timeout time.Duration
}

// NewModifierTable builds a table with every key in modifiers mapped to
// None, preserving the given order. Duplicate keys are collapsed to their
// first occurrence.
func NewModifierTable(modifiers []KeyCode, timeout time.Duration) *ModifierTable {
	t := &ModifierTable{
		index:   make(map[KeyCode]int, len(modifiers)),
		timeout: timeout,
	}
	for _, k := range modifiers {
		if _, dup := t.index[k]; dup {
			continue
		}
		t.index[k] = len(t.entries)
		t.entries = append(t.entries, entry{key: k})
	}
	return t
}

// IsModifier reports whether k is one of the configured modifiers.
func (t *ModifierTable) IsModifier(k KeyCode) bool {
	_, ok := t.index[k]
	return ok
}

// TransitionOnPress applies the §4.1 transition to k's entry. Callers must
// only invoke this for a press (PressValue == 1) of a configured modifier.
func (t *ModifierTable) TransitionOnPress(k KeyCode, at time.Time) {
	i, ok := t.index[k]
	if !ok {
		return
	}
	t.entries[i].state.Transition(at, t.timeout)
}

// CurrentPressedState returns the observable pressed-state (0 or 1) for k.
func (t *ModifierTable) CurrentPressedState(k KeyCode) PressValue {
	i, ok := t.index[k]
	if !ok {
		return Release
	}
	return t.entries[i].state.Pressed()
}

// ReleaseAllLatched clears every entry currently Latched back to None and
// returns a synthetic release for each, in table order. Locked entries are
// untouched. A table with no Latched entries returns nil (zero events).
func (t *ModifierTable) ReleaseAllLatched() []KeyEvent {
	var events []KeyEvent
	for i := range t.entries {
		if t.entries[i].state.IsLatched() {
			t.entries[i].state = KeyState{}
			events = append(events, KeyEvent{Code: t.entries[i].key, Pressed: Release})
		}
	}
	return events
}

// ClearAll clears every non-None entry back to None and returns a synthetic
// release for each, in table order. Idempotent: a second call on an
// already-cleared table returns nil.
func (t *ModifierTable) ClearAll() []KeyEvent {
	var events []KeyEvent
	for i := range t.entries {
		if !t.entries[i].state.IsNone() {
			t.entries[i].state = KeyState{}
			events = append(events, KeyEvent{Code: t.entries[i].key, Pressed: Release})
		}
	}
	return events
}

// AnyPressed reports whether at least one entry is Latched or Locked.
func (t *ModifierTable) AnyPressed() bool {
	for i := range t.entries {
		if !t.entries[i].state.IsNone() {
			return true
		}
	}
	return false
}

// Snapshot returns a point-in-time, order-preserving copy of the table's
// states, keyed by code. Used only by the optional debug sink (debugsink.go);
// never consulted by transformation logic.
func (t *ModifierTable) Snapshot() []ModifierSnapshot {
	out := make([]ModifierSnapshot, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, ModifierSnapshot{Code: e.key, State: e.state.String()})
	}
	return out
}

// ModifierSnapshot is the serializable view of one modifier's state.
type ModifierSnapshot struct {
	Code  KeyCode `yaml:"code"`
	State string  `yaml:"state"`
}
