package lollipop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testEngine() *TransformEngine {
	cfg := DefaultConfig()
	cfg.TouchpadEnabled = true
	return NewTransformEngine(cfg)
}

func TestEngine_SingleLatchAppliesToNextKey(t *testing.T) {
	e := testEngine()
	now := time.Now()

	events := e.OnKeyEvent(KeyLeftShift, Press, now)
	assert.Equal(t, []KeyEvent{{Code: KeyLeftShift, Pressed: Press}}, events)

	events = e.OnKeyEvent(KeyA, Press, now.Add(10*time.Millisecond))
	assert.Equal(t, []KeyEvent{
		{Code: KeyA, Pressed: Press},
		{Code: KeyLeftShift, Pressed: Release},
	}, events)
}

func TestEngine_DoubleTapLocks(t *testing.T) {
	e := testEngine()
	now := time.Now()

	e.OnKeyEvent(KeyLeftCtrl, Press, now)
	e.OnKeyEvent(KeyLeftCtrl, Press, now.Add(50*time.Millisecond))

	events := e.OnKeyEvent(KeyC, Press, now.Add(100*time.Millisecond))
	assert.Equal(t, []KeyEvent{{Code: KeyC, Pressed: Press}}, events,
		"a locked modifier must not be released by a following ordinary key")
}

func TestEngine_SlowSecondTapClearsInsteadOfLocking(t *testing.T) {
	e := testEngine()
	now := time.Now()

	e.OnKeyEvent(KeyLeftCtrl, Press, now)
	e.OnKeyEvent(KeyLeftCtrl, Press, now.Add(600*time.Millisecond))

	assert.Equal(t, Release, e.modifiers.CurrentPressedState(KeyLeftCtrl))
}

func TestEngine_EscapeClearsAllRegardlessOfState(t *testing.T) {
	e := testEngine()
	now := time.Now()

	e.OnKeyEvent(KeyLeftShift, Press, now)
	e.OnKeyEvent(KeyLeftMeta, Press, now)
	e.OnKeyEvent(KeyLeftMeta, Press, now.Add(10*time.Millisecond)) // locks

	events := e.OnKeyEvent(KeyEsc, Press, now.Add(20*time.Millisecond))
	assert.ElementsMatch(t, []KeyEvent{
		{Code: KeyLeftShift, Pressed: Release},
		{Code: KeyLeftMeta, Pressed: Release},
	}, events)
	assert.False(t, e.modifiers.AnyPressed())
}

func TestEngine_EscapeReleaseIsSwallowedAlongsidePress(t *testing.T) {
	e := testEngine()
	now := time.Now()

	pressEvents := e.OnKeyEvent(KeyEsc, Press, now)
	assert.Nil(t, pressEvents, "with nothing held, an escape press clears nothing and is itself swallowed")

	releaseEvents := e.OnKeyEvent(KeyEsc, Release, now.Add(10*time.Millisecond))
	assert.Nil(t, releaseEvents, "an escape release must not reach consumers without a matching forwarded press")
}

func TestEngine_TouchpadDragDoesNothing(t *testing.T) {
	e := testEngine()
	now := time.Now()

	e.OnKeyEvent(KeyLeftShift, Press, now)
	e.OnTouchpadButton(Press, now.Add(5*time.Millisecond))
	e.OnTouchpadMotion(AbsX, 0)
	e.OnTouchpadMotion(AbsX, 5000)
	e.OnTouchpadButton(Release, now.Add(20*time.Millisecond))

	assert.False(t, e.HasPendingDeferred())
	assert.Equal(t, Press, e.modifiers.CurrentPressedState(KeyLeftShift))
}

func TestEngine_TouchpadTapReleasesAfterDebounce(t *testing.T) {
	e := testEngine()
	now := time.Now()

	e.OnKeyEvent(KeyLeftShift, Press, now)
	e.OnTouchpadButton(Press, now.Add(5*time.Millisecond))
	e.OnTouchpadButton(Release, now.Add(15*time.Millisecond))

	assert.True(t, e.HasPendingDeferred())
	assert.Nil(t, e.PollDeferred(now.Add(50*time.Millisecond)))

	events := e.PollDeferred(now.Add(15*time.Millisecond + e.touchpadDebounce + time.Millisecond))
	assert.Equal(t, []KeyEvent{{Code: KeyLeftShift, Pressed: Release}}, events)
}

func TestEngine_LedStateReflectsAnyPressed(t *testing.T) {
	e := testEngine()
	assert.Equal(t, int32(0), e.LedState())
	e.OnKeyEvent(KeyLeftShift, Press, time.Now())
	assert.NotEqual(t, int32(0), e.LedState())
}

func TestEngine_SnapshotReflectsState(t *testing.T) {
	e := testEngine()
	e.OnKeyEvent(KeyLeftShift, Press, time.Now())
	snap := e.Snapshot()
	assert.Len(t, snap.Modifiers, len(DefaultConfig().Modifiers))
	assert.NotEqual(t, int32(0), snap.LedState)
}
