package lollipop

import "time"

const absUnset = int32(-1 << 31)

// TouchpadTracker classifies a touchpad interaction as a tap (releases
// latched modifiers, after a debounce window to rule out a drag) or a drag
// (does nothing), per spec §4.3.
type TouchpadTracker struct {
	fuzz int32

	dragging bool
	originX  int32
	originY  int32

	pendingReleases  []KeyEvent
	lastReleaseTime  time.Time
	hasLastRelease   bool
}

// NewTouchpadTracker builds a tracker with the given motion fuzz threshold.
func NewTouchpadTracker(fuzz int) *TouchpadTracker {
	return &TouchpadTracker{
		fuzz:    int32(fuzz),
		originX: absUnset,
		originY: absUnset,
	}
}

// OnButton handles a BTN_LEFT/BTN_RIGHT/BTN_TOUCH event. releaseAllLatched
// (normally ModifierTable.ReleaseAllLatched) is called only when this
// button-up ends a non-drag touch, and the events it returns are staged as
// the pending release batch.
func (tt *TouchpadTracker) OnButton(pressed PressValue, now time.Time, releaseAllLatched func() []KeyEvent) {
	switch pressed {
	case Press:
		tt.dragging = false
		tt.hasLastRelease = false
		tt.pendingReleases = nil
		tt.originX = absUnset
		tt.originY = absUnset
	case Release:
		if tt.dragging {
			tt.dragging = false
			return
		}
		tt.pendingReleases = releaseAllLatched()
		tt.lastReleaseTime = now
		tt.hasLastRelease = true
	}
}

// OnMotion handles an ABS_X/ABS_Y event while a touch is in progress. Once
// dragging, further motion until the next touch-begin is ignored.
func (tt *TouchpadTracker) OnMotion(axis AbsAxis, value int32) {
	if tt.dragging {
		return
	}
	switch axis {
	case AbsX:
		if tt.originX == absUnset {
			tt.originX = value
			return
		}
		if abs32(tt.originX-value) > tt.fuzz {
			tt.dragging = true
			tt.originX = absUnset
			tt.originY = absUnset
		}
	case AbsY:
		if tt.originY == absUnset {
			tt.originY = value
			return
		}
		if abs32(tt.originY-value) > tt.fuzz {
			tt.dragging = true
			tt.originX = absUnset
			tt.originY = absUnset
		}
	}
}

// PollDeferred returns the staged release batch once the debounce window has
// elapsed since the triggering release, clearing the pending state. Returns
// nil if nothing is pending or the debounce hasn't elapsed yet.
func (tt *TouchpadTracker) PollDeferred(now time.Time, debounce time.Duration) []KeyEvent {
	if !tt.hasLastRelease {
		return nil
	}
	if now.Sub(tt.lastReleaseTime) <= debounce {
		return nil
	}
	events := tt.pendingReleases
	tt.pendingReleases = nil
	tt.hasLastRelease = false
	return events
}

// HasPending reports whether a deferred release is staged, so the EventLoop
// knows whether it needs a wakeup deadline at all.
func (tt *TouchpadTracker) HasPending() bool { return tt.hasLastRelease }

// NextDeadline returns the instant at which the staged release should fire.
// Only meaningful when HasPending is true.
func (tt *TouchpadTracker) NextDeadline(debounce time.Duration) time.Time {
	return tt.lastReleaseTime.Add(debounce)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
