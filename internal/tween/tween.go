// Package tween interpolates scalar values over time. A Scheduler owns the
// running tweens and is advanced explicitly by its owner, usually once per
// rendered frame.
package tween

import (
	"sync"
	"sync/atomic"
	"time"
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(float64) float64

// Linear is the identity easing.
func Linear(p float64) float64 { return p }

// QuadInOut accelerates then decelerates.
func QuadInOut(p float64) float64 {
	if p < 0.5 {
		return 2 * p * p
	}
	return 1 - 2*(1-p)*(1-p)
}

// Tween animates a value from From to To over Duration.
type Tween struct {
	From, To   float64
	Duration   time.Duration
	Easing     Easing
	OnUpdate   func(v float64)
	OnComplete func(h *Handle)
}

// Handle controls one scheduled tween.
type Handle struct {
	s     *Scheduler
	tw    Tween
	start time.Time
	value float64

	done      bool
	cancelled atomic.Bool
}

// Cancel stops the tween; it receives no further callbacks and Restart
// becomes a no-op.
func (h *Handle) Cancel() {
	if h.cancelled.Swap(true) {
		return
	}
	h.s.remove(h)
}

// Cancelled reports whether Cancel was called.
func (h *Handle) Cancelled() bool { return h.cancelled.Load() }

// Active reports whether the tween is still scheduled.
func (h *Handle) Active() bool { return !h.cancelled.Load() && !h.done }

// Value returns the last value passed to OnUpdate.
func (h *Handle) Value() float64 { return h.value }

// Restart schedules the tween again from From. Called from OnComplete the
// next run starts where the finished one ended; a run that is more than a
// whole Duration behind starts at the latest update instead. On a tween
// that is still running it only rewinds.
func (h *Handle) Restart() {
	if h.cancelled.Load() {
		return
	}
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	h.value = h.tw.From
	if !h.done {
		h.start = h.s.now
		return
	}
	h.done = false
	next := h.start.Add(h.tw.Duration)
	if h.tw.Duration <= 0 || h.s.now.Sub(next) >= h.tw.Duration {
		next = h.s.now
	}
	h.start = next
	h.s.active = append(h.s.active, h)
}

// step advances h to now and reports whether it is still running.
func (h *Handle) step(now time.Time) bool {
	if now.Before(h.start) {
		return true
	}
	p := 1.0
	if h.tw.Duration > 0 {
		p = float64(now.Sub(h.start)) / float64(h.tw.Duration)
	}
	if p > 1 {
		p = 1
	}
	ease := h.tw.Easing
	if ease == nil {
		ease = Linear
	}
	h.value = h.tw.From + (h.tw.To-h.tw.From)*ease(p)
	if h.tw.OnUpdate != nil {
		h.tw.OnUpdate(h.value)
	}
	if p < 1 {
		return true
	}
	h.done = true
	if h.tw.OnComplete != nil && !h.cancelled.Load() {
		h.tw.OnComplete(h)
	}
	return false
}

// Scheduler runs tweens. Update is expected from a single goroutine; Add,
// Restart and Cancel may be called from callbacks or other goroutines.
type Scheduler struct {
	Clock Clock

	mu     sync.Mutex
	now    time.Time
	active []*Handle
}

// NewScheduler returns a scheduler reading c; nil means the system clock.
func NewScheduler(c Clock) *Scheduler {
	if c == nil {
		c = SystemClock{}
	}
	return &Scheduler{Clock: c, now: c.Now()}
}

// Add schedules t starting now.
func (s *Scheduler) Add(t Tween) *Handle {
	h := &Handle{s: s, tw: t, start: s.Clock.Now(), value: t.From}
	s.mu.Lock()
	s.active = append(s.active, h)
	s.mu.Unlock()
	return h
}

// Len returns the number of running tweens.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Tick updates with the scheduler clock.
func (s *Scheduler) Tick() { s.Update(s.Clock.Now()) }

// Update advances every running tween to now. Tweens that finish call
// OnComplete once and are dropped unless they restart.
func (s *Scheduler) Update(now time.Time) {
	s.mu.Lock()
	s.now = now
	batch := s.active
	s.active = nil
	s.mu.Unlock()

	keep := make([]*Handle, 0, len(batch))
	for _, h := range batch {
		if h.cancelled.Load() {
			continue
		}
		if h.step(now) && !h.cancelled.Load() {
			keep = append(keep, h)
		}
	}

	s.mu.Lock()
	s.active = append(keep, s.active...)
	s.mu.Unlock()
}

func (s *Scheduler) remove(h *Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.active {
		if a == h {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return
		}
	}
}
