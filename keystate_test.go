package lollipop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyStateTransition_NoneToLatched(t *testing.T) {
	var s KeyState
	s.Transition(time.Unix(0, 0), 500*time.Millisecond)
	assert.True(t, s.IsLatched())
	assert.Equal(t, Press, s.Pressed())
}

func TestKeyStateTransition_LatchedToLockedWithinTimeout(t *testing.T) {
	var s KeyState
	t0 := time.Unix(0, 0)
	s.Transition(t0, 500*time.Millisecond)
	s.Transition(t0.Add(100*time.Millisecond), 500*time.Millisecond)
	assert.True(t, s.IsLocked())
	assert.Equal(t, Press, s.Pressed())
}

func TestKeyStateTransition_LatchedClearsAfterTimeout(t *testing.T) {
	var s KeyState
	t0 := time.Unix(0, 0)
	s.Transition(t0, 500*time.Millisecond)
	s.Transition(t0.Add(501*time.Millisecond), 500*time.Millisecond)
	assert.True(t, s.IsNone())
	assert.Equal(t, Release, s.Pressed())
}

func TestKeyStateTransition_LockedToNone(t *testing.T) {
	var s KeyState
	t0 := time.Unix(0, 0)
	s.Transition(t0, 500*time.Millisecond)
	s.Transition(t0.Add(100*time.Millisecond), 500*time.Millisecond)
	s.Transition(t0.Add(200*time.Millisecond), 500*time.Millisecond)
	assert.True(t, s.IsNone())
}

func TestKeyStateTransition_ExactlyAtTimeoutBoundaryClears(t *testing.T) {
	var s KeyState
	t0 := time.Unix(0, 0)
	s.Transition(t0, 500*time.Millisecond)
	s.Transition(t0.Add(500*time.Millisecond), 500*time.Millisecond)
	assert.True(t, s.IsNone(), "elapsed == timeout must not lock")
}

func TestKeyStateTransition_BackwardsClockClears(t *testing.T) {
	var s KeyState
	t0 := time.Unix(100, 0)
	s.Transition(t0, 500*time.Millisecond)
	s.Transition(t0.Add(-time.Second), 500*time.Millisecond)
	assert.True(t, s.IsNone())
}
