package playerwidget

import (
	"sync"
	"time"
)

// Timer is a cancellable scheduled callback. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func()) Timer

func (s SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer { return s(d, f) }

// RealTime schedules with time.AfterFunc. Callbacks run on the timer's
// own goroutine.
var RealTime Scheduler = SchedulerFunc(func(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
})

type clickState int

const (
	clickIdle clickState = iota
	clickArmed
)

func (s clickState) String() string {
	if s == clickArmed {
		return "armed"
	}
	return "idle"
}

// clickTracker tells single clicks from double clicks: a single click
// arms a deferred action, a second click within the window disarms it.
type clickTracker struct {
	mu      sync.Mutex
	state   clickState
	pending Timer
	gen     uint64
	window  time.Duration
	sched   Scheduler
}

func newClickTracker(window time.Duration, sched Scheduler) *clickTracker {
	return &clickTracker{window: window, sched: sched}
}

// arm schedules f after the window. A timer that is still pending is
// stopped first, so at most one is ever outstanding.
func (c *clickTracker) arm(f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		c.pending.Stop()
	}
	c.gen++
	gen := c.gen
	c.state = clickArmed
	c.pending = c.sched.AfterFunc(c.window, func() {
		c.mu.Lock()
		if c.gen != gen || c.state != clickArmed {
			// superseded or disarmed after the timer already fired
			c.mu.Unlock()
			return
		}
		c.state = clickIdle
		c.pending = nil
		c.mu.Unlock()
		f()
	})
}

// disarm cancels the pending action and reports whether one was armed.
func (c *clickTracker) disarm() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != clickArmed {
		return false
	}
	c.pending.Stop()
	c.pending = nil
	c.state = clickIdle
	c.gen++
	return true
}

func (c *clickTracker) current() clickState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
