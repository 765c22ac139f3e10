package root

import (
	"github.com/go-drift/motion/pkg/action"
	"github.com/go-drift/motion/pkg/command"
)

// ScrollEvent is a scroll the host has been asked to perform. The host
// resolves Action when the scroll finishes; a terminated Action means the
// command was cancelled and the host should stop.
type ScrollEvent struct {
	Request command.ScrollRequest
	Action  *action.Action
}

// EventQueue is a command.ViewHost that queues requests for the host to
// drain once per frame.
type EventQueue struct {
	items   []ScrollEvent
	metrics *action.Metrics
}

// NewEventQueue returns an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// RequestScroll queues req.
func (q *EventQueue) RequestScroll(req command.ScrollRequest) *action.Action {
	a := action.New(q.metrics)
	q.items = append(q.items, ScrollEvent{Request: req, Action: a})
	return a
}

// Drain returns all queued events and clears the queue.
func (q *EventQueue) Drain() []ScrollEvent {
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	return len(q.items)
}
