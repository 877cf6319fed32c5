package lollipop

import (
	"math"
	"time"
)

// TransformEngine is the single-threaded reactive core described in spec §4.4.
// It owns the ModifierTable and TouchpadTracker and is not safe for concurrent
// use from more than one goroutine at a time; the EventLoop is its only caller.
type TransformEngine struct {
	modifiers *ModifierTable
	touchpad  *TouchpadTracker

	clearAllWithEscape bool
	touchpadEnabled    bool
	touchpadDebounce   time.Duration
}

// NewTransformEngine builds an engine from a resolved Config.
func NewTransformEngine(cfg *Config) *TransformEngine {
	return &TransformEngine{
		modifiers:          NewModifierTable(cfg.Modifiers, cfg.Timeout),
		touchpad:           NewTouchpadTracker(cfg.TouchpadFuzz),
		clearAllWithEscape: cfg.ClearAllWithEscape,
		touchpadEnabled:    cfg.TouchpadEnabled,
		touchpadDebounce:   cfg.TouchpadDebounce,
	}
}

// OnKeyEvent processes one physical key event and returns the batch of
// synthetic events to emit, per spec §4.4.
func (e *TransformEngine) OnKeyEvent(k KeyCode, pressed PressValue, at time.Time) []KeyEvent {
	if e.clearAllWithEscape && k == KeyEsc {
		if pressed == Press {
			return e.modifiers.ClearAll()
		}
		// The matching press was swallowed above, not forwarded; swallow the
		// release too so no key-up without a key-down reaches consumers.
		return nil
	}

	if e.modifiers.IsModifier(k) {
		if pressed == Press {
			e.modifiers.TransitionOnPress(k, at)
		}
		return []KeyEvent{{Code: k, Pressed: e.modifiers.CurrentPressedState(k)}}
	}

	events := []KeyEvent{{Code: k, Pressed: pressed}}
	events = append(events, e.modifiers.ReleaseAllLatched()...)
	return events
}

// OnTouchpadButton handles a BTN_LEFT/BTN_RIGHT/BTN_TOUCH event. No-op if
// touchpad coupling is disabled.
func (e *TransformEngine) OnTouchpadButton(pressed PressValue, at time.Time) {
	if !e.touchpadEnabled {
		return
	}
	e.touchpad.OnButton(pressed, at, e.modifiers.ReleaseAllLatched)
}

// OnTouchpadMotion handles an ABS_X/ABS_Y event. No-op if touchpad coupling
// is disabled.
func (e *TransformEngine) OnTouchpadMotion(axis AbsAxis, value int32) {
	if !e.touchpadEnabled {
		return
	}
	e.touchpad.OnMotion(axis, value)
}

// PollDeferred returns any touchpad-tap release batch whose debounce window
// has elapsed. No-op (returns nil) if touchpad coupling is disabled.
func (e *TransformEngine) PollDeferred(now time.Time) []KeyEvent {
	if !e.touchpadEnabled {
		return nil
	}
	return e.touchpad.PollDeferred(now, e.touchpadDebounce)
}

// HasPendingDeferred reports whether the EventLoop needs a wakeup deadline
// for a staged touchpad-tap release.
func (e *TransformEngine) HasPendingDeferred() bool {
	return e.touchpadEnabled && e.touchpad.HasPending()
}

// NextDeferredDeadline returns the instant the pending release should fire.
// Only meaningful when HasPendingDeferred is true.
func (e *TransformEngine) NextDeferredDeadline() time.Time {
	return e.touchpad.NextDeadline(e.touchpadDebounce)
}

// LedState returns the value to push to the physical Caps-Lock LED: nonzero
// (math.MaxInt32, a don't-care for the kernel) iff any modifier is held.
func (e *TransformEngine) LedState() int32 {
	if e.modifiers.AnyPressed() {
		return math.MaxInt32
	}
	return 0
}

// Snapshot returns the debug-sink view of current engine state. Never
// consulted by transformation logic.
func (e *TransformEngine) Snapshot() Snapshot {
	return Snapshot{
		Modifiers: e.modifiers.Snapshot(),
		LedState:  e.LedState(),
		Dragging:  e.touchpad.dragging,
		Pending:   e.touchpad.HasPending(),
	}
}
