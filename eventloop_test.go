package lollipop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testEventLoop() *EventLoop {
	cfg := DefaultConfig()
	cfg.TouchpadEnabled = true
	return &EventLoop{engine: NewTransformEngine(cfg)}
}

func TestEventLoop_ConsumeKeyEventsIgnoresNonKeyKinds(t *testing.T) {
	el := testEventLoop()
	now := time.Now()

	out := el.consumeKeyEvents([]TransportEvent{
		{Kind: EventKindSync, Code: 0, Value: 0, Time: now},
		{Kind: EventKindKey, Code: uint16(KeyLeftShift), Value: int32(Press), Time: now},
	})

	assert.Equal(t, []KeyEvent{{Code: KeyLeftShift, Pressed: Press}}, out)
}

func TestEventLoop_ConsumeKeyEventsBatchesFollowingKeyRelease(t *testing.T) {
	el := testEventLoop()
	now := time.Now()

	el.consumeKeyEvents([]TransportEvent{
		{Kind: EventKindKey, Code: uint16(KeyLeftShift), Value: int32(Press), Time: now},
	})

	out := el.consumeKeyEvents([]TransportEvent{
		{Kind: EventKindKey, Code: uint16(KeyA), Value: int32(Press), Time: now.Add(time.Millisecond)},
	})

	assert.Equal(t, []KeyEvent{
		{Code: KeyA, Pressed: Press},
		{Code: KeyLeftShift, Pressed: Release},
	}, out)
}

func TestEventLoop_ConsumeKeyEventsUsesEachEventsOwnTimestamp(t *testing.T) {
	el := testEventLoop()
	t0 := time.Unix(1000, 0)

	el.consumeKeyEvents([]TransportEvent{
		{Kind: EventKindKey, Code: uint16(KeyLeftCtrl), Value: int32(Press), Time: t0},
	})
	// A second press carrying a timestamp far enough in the past (relative to
	// the first) must clear rather than lock, exactly like the backwards-clock
	// case in keystate_test.go - this only works if the event's own Time is
	// threaded through, not the wall-clock time the batch was polled at.
	el.consumeKeyEvents([]TransportEvent{
		{Kind: EventKindKey, Code: uint16(KeyLeftCtrl), Value: int32(Press), Time: t0.Add(-time.Second)},
	})

	assert.Equal(t, Release, el.engine.modifiers.CurrentPressedState(KeyLeftCtrl))
}

func TestEventLoop_ConsumeTouchpadEventsRoutesButtonsAndMotion(t *testing.T) {
	el := testEventLoop()
	now := time.Now()

	el.consumeKeyEvents([]TransportEvent{
		{Kind: EventKindKey, Code: uint16(KeyLeftMeta), Value: int32(Press), Time: now},
	})

	el.consumeTouchpadEvents([]TransportEvent{
		{Kind: EventKindKey, Code: uint16(BtnLeft), Value: int32(Press), Time: now},
		{Kind: EventKindAbs, Code: uint16(AbsX), Value: 0, Time: now},
		{Kind: EventKindAbs, Code: uint16(AbsX), Value: 5000, Time: now},
		{Kind: EventKindKey, Code: uint16(BtnLeft), Value: int32(Release), Time: now.Add(5 * time.Millisecond)},
	})

	assert.False(t, el.engine.HasPendingDeferred(), "a drag must not stage a deferred release")
	assert.Equal(t, Press, el.engine.modifiers.CurrentPressedState(KeyLeftMeta))
}

func TestEventLoop_ConsumeTouchpadEventsIgnoresUnrelatedKeyCodes(t *testing.T) {
	el := testEventLoop()
	now := time.Now()

	el.consumeTouchpadEvents([]TransportEvent{
		{Kind: EventKindKey, Code: uint16(KeyA), Value: int32(Press), Time: now},
	})

	assert.False(t, el.engine.HasPendingDeferred())
}
