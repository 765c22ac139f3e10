package clock

import (
	"container/heap"
	"time"

	"github.com/go-drift/motion/pkg/errors"
)

type timer struct {
	id       TimerID
	deadline time.Duration
	seq      uint64
	fn       func()
	index    int
}

// timerHeap orders timers by deadline, then by registration order.
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline != h[j].deadline {
		return h[i].deadline < h[j].deadline
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

type animator struct {
	id TimerID
	fn func()
}

// Virtual is a host-driven clock. It is not safe for concurrent use; the
// runtime is single-threaded and the owner serializes access.
type Virtual struct {
	now       time.Duration
	nextID    TimerID
	seq       uint64
	timers    timerHeap
	byID      map[TimerID]*timer
	animators []animator
}

// NewVirtual returns a clock starting at time zero.
func NewVirtual() *Virtual {
	return &Virtual{byID: make(map[TimerID]*timer)}
}

// Now returns the current virtual time.
func (c *Virtual) Now() time.Duration {
	return c.now
}

// SetTimeout schedules fn to run once the clock reaches Now()+delay.
// A non-positive delay fires on the next advance.
func (c *Virtual) SetTimeout(fn func(), delay time.Duration) TimerID {
	if delay < 0 {
		delay = 0
	}
	c.nextID++
	c.seq++
	t := &timer{id: c.nextID, deadline: c.now + delay, seq: c.seq, fn: fn}
	heap.Push(&c.timers, t)
	c.byID[t.id] = t
	return t.id
}

// SetAnimator registers fn to run at the end of every advance.
func (c *Virtual) SetAnimator(fn func()) TimerID {
	c.nextID++
	c.animators = append(c.animators, animator{id: c.nextID, fn: fn})
	return c.nextID
}

// ClearTimeout cancels a pending timeout or animator.
func (c *Virtual) ClearTimeout(id TimerID) bool {
	if t, ok := c.byID[id]; ok {
		delete(c.byID, id)
		if t.index >= 0 {
			heap.Remove(&c.timers, t.index)
		}
		return true
	}
	for i, a := range c.animators {
		if a.id == id {
			c.animators = append(c.animators[:i:i], c.animators[i+1:]...)
			return true
		}
	}
	return false
}

// AdvanceBy moves the clock forward by d.
func (c *Virtual) AdvanceBy(d time.Duration) {
	c.AdvanceTo(c.now + d)
}

// AdvanceTo moves the clock to t. Every timeout due at or before t fires in
// (deadline, registration) order with Now() equal to its deadline, so
// callbacks scheduled by an earlier timeout run before later ones. Animators
// then fire once at t. Moving backwards is a no-op.
func (c *Virtual) AdvanceTo(t time.Duration) {
	if t < c.now {
		return
	}
	for len(c.timers) > 0 && c.timers[0].deadline <= t {
		next := heap.Pop(&c.timers).(*timer)
		delete(c.byID, next.id)
		c.now = next.deadline
		c.fire(next.fn)
	}
	c.now = t

	// Animators registered by the timeouts above run now; ones registered by
	// another animator wait for the next advance.
	snapshot := append([]animator(nil), c.animators...)
	for _, a := range snapshot {
		if c.animatorLive(a.id) {
			c.fire(a.fn)
		}
	}
}

func (c *Virtual) animatorLive(id TimerID) bool {
	for _, a := range c.animators {
		if a.id == id {
			return true
		}
	}
	return false
}

func (c *Virtual) fire(fn func()) {
	if fn == nil {
		return
	}
	defer errors.Recover("clock.tick")
	fn()
}

// PendingTimers returns the number of scheduled timeouts.
func (c *Virtual) PendingTimers() int {
	return len(c.timers)
}

// Animators returns the number of registered animators.
func (c *Virtual) Animators() int {
	return len(c.animators)
}

// NextDeadline returns the earliest pending deadline.
func (c *Virtual) NextDeadline() (time.Duration, bool) {
	if len(c.timers) == 0 {
		return 0, false
	}
	return c.timers[0].deadline, true
}

// Reset drops every timeout and animator. The current time is kept.
func (c *Virtual) Reset() {
	c.timers = nil
	c.byID = make(map[TimerID]*timer)
	c.animators = nil
}
