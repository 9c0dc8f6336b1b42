package tween

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestLinearProgress(t *testing.T) {
	clk := NewFakeClock(epoch)
	s := NewScheduler(clk)
	var got []float64
	completed := 0
	h := s.Add(Tween{
		From: 0, To: 1, Duration: 3 * time.Second,
		OnUpdate:   func(v float64) { got = append(got, v) },
		OnComplete: func(*Handle) { completed++ },
	})
	require.True(t, h.Active())

	s.Update(clk.Advance(time.Second))
	s.Update(clk.Advance(500 * time.Millisecond))
	s.Update(clk.Advance(5 * time.Second))
	s.Update(clk.Advance(time.Second))

	require.Len(t, got, 3)
	assert.InDelta(t, 1.0/3, got[0], 1e-9)
	assert.InDelta(t, 0.5, got[1], 1e-9)
	assert.Equal(t, 1.0, got[2])
	assert.Equal(t, 1, completed)
	assert.False(t, h.Active())
	assert.Zero(t, s.Len())
}

func TestRestartLoops(t *testing.T) {
	clk := NewFakeClock(epoch)
	s := NewScheduler(clk)
	var value float64
	loops := 0
	h := s.Add(Tween{
		From: 0, To: 1, Duration: 3 * time.Second,
		OnUpdate: func(v float64) { value = v },
		OnComplete: func(h *Handle) {
			loops++
			value = 0
			h.Restart()
		},
	})

	s.Update(clk.Advance(3 * time.Second))
	assert.Equal(t, 1, loops)
	assert.Equal(t, 0.0, value, "completion resets to the start")
	assert.True(t, h.Active())
	assert.Equal(t, 1, s.Len())

	s.Update(clk.Advance(1500 * time.Millisecond))
	assert.InDelta(t, 0.5, value, 1e-9)

	s.Update(clk.Advance(1500 * time.Millisecond))
	assert.Equal(t, 2, loops)
}

func TestCancelStopsLooping(t *testing.T) {
	clk := NewFakeClock(epoch)
	s := NewScheduler(clk)
	updates := 0
	h := s.Add(Tween{
		From: 0, To: 1, Duration: time.Second,
		OnUpdate:   func(float64) { updates++ },
		OnComplete: func(h *Handle) { h.Restart() },
	})
	s.Update(clk.Advance(500 * time.Millisecond))
	h.Cancel()
	assert.True(t, h.Cancelled())
	assert.False(t, h.Active())
	assert.Zero(t, s.Len())

	s.Update(clk.Advance(time.Second))
	assert.Equal(t, 1, updates)

	h.Restart()
	assert.Zero(t, s.Len(), "restart after cancel is a no-op")
	h.Cancel()
}

func TestCancelInsideComplete(t *testing.T) {
	clk := NewFakeClock(epoch)
	s := NewScheduler(clk)
	s.Add(Tween{
		From: 0, To: 1, Duration: time.Second,
		OnComplete: func(h *Handle) {
			h.Cancel()
			h.Restart()
		},
	})
	s.Update(clk.Advance(2 * time.Second))
	assert.Zero(t, s.Len())
}

func TestAddFromCallback(t *testing.T) {
	clk := NewFakeClock(epoch)
	s := NewScheduler(clk)
	var second *Handle
	s.Add(Tween{
		From: 0, To: 1, Duration: time.Second,
		OnComplete: func(*Handle) {
			second = s.Add(Tween{From: 10, To: 20, Duration: time.Second})
		},
	})
	s.Update(clk.Advance(time.Second))
	require.NotNil(t, second)
	assert.Equal(t, 1, s.Len())
	s.Update(clk.Advance(500 * time.Millisecond))
	assert.InDelta(t, 15.0, second.Value(), 1e-9)
}

func TestEasing(t *testing.T) {
	assert.Equal(t, 0.25, Linear(0.25))
	assert.Equal(t, 0.0, QuadInOut(0))
	assert.Equal(t, 0.5, QuadInOut(0.5))
	assert.Equal(t, 1.0, QuadInOut(1))
	assert.Less(t, QuadInOut(0.25), 0.25)
}

func TestZeroDurationCompletesImmediately(t *testing.T) {
	s := NewScheduler(NewFakeClock(epoch))
	done := false
	s.Add(Tween{From: 1, To: 2, OnComplete: func(*Handle) { done = true }})
	s.Tick()
	assert.True(t, done)
}

func TestRestartWhileRunningRewinds(t *testing.T) {
	clk := NewFakeClock(epoch)
	s := NewScheduler(clk)
	updates := 0
	h := s.Add(Tween{
		From: 0, To: 1, Duration: 3 * time.Second,
		OnUpdate: func(float64) { updates++ },
	})
	s.Update(clk.Advance(2 * time.Second))
	h.Restart()
	assert.Equal(t, 0.0, h.Value())
	assert.Equal(t, 1, s.Len(), "a running tween is not scheduled twice")

	s.Update(clk.Advance(time.Second))
	assert.Equal(t, 2, updates, "one update per frame")
	assert.InDelta(t, 1.0/3, h.Value(), 1e-9)
}

func TestRestartKeepsLoopPhase(t *testing.T) {
	clk := NewFakeClock(epoch)
	s := NewScheduler(clk)
	h := s.Add(Tween{
		From: 0, To: 1, Duration: time.Second,
		OnComplete: func(h *Handle) { h.Restart() },
	})

	s.Update(clk.Advance(1200 * time.Millisecond))
	s.Update(clk.Advance(500 * time.Millisecond))
	assert.InDelta(t, 0.7, h.Value(), 1e-9, "the overshoot carries into the next loop")

	// more than a whole loop behind: restart at the update time
	s.Update(clk.Advance(2800 * time.Millisecond))
	s.Update(clk.Advance(500 * time.Millisecond))
	assert.InDelta(t, 0.5, h.Value(), 1e-9)
}
