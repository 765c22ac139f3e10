// Package action provides the cancellable unit of time-driven work and the
// arbiter that gives each action exclusive ownership of what it mutates.
//
// # Lifecycle
//
// An [Action] starts Pending and ends either Resolved or Terminated:
//
//	          Resolve()
//	Pending ─────────────► Resolved
//	   │
//	   │      Terminate()
//	   └─────────────────► Terminated
//
// Both terminal states are absorbing. Continuations registered with
// [Action.Then] fire once on resolution; callbacks registered with
// [Action.OnTerminate] fire once on termination and are expected to leave
// the target in its final visible state.
//
// # Resource arbitration
//
// An [Arbiter] maps a [ResourceKey] to the action holding it. Claiming a key
// terminates the previous live holder before the new one is installed, so a
// later command always supersedes an earlier one on the same property.
package action

import (
	"fmt"

	"github.com/google/uuid"
)

// State is the lifecycle state of an Action.
type State int

const (
	// Pending means the action is still running.
	Pending State = iota
	// Resolved means the action completed naturally.
	Resolved
	// Terminated means the action was cancelled, preempted or lost its target.
	Terminated
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Action is a resolvable, terminable unit of work.
//
// Actions are not safe for concurrent use. All calls happen on the runtime's
// loop, usually from inside a clock callback.
type Action struct {
	id          string
	state       State
	thens       []func(*Action)
	terminators []func()
	metrics     *Metrics
}

// New returns a pending action. A nil metrics disables instrumentation.
func New(m *Metrics) *Action {
	a := &Action{metrics: m}
	a.metrics.started()
	return a
}

// MakeResolved returns an action that has already resolved.
func MakeResolved(m *Metrics) *Action {
	a := New(m)
	a.Resolve()
	return a
}

// ID returns the unique id of the action. It is assigned on first use.
func (a *Action) ID() string {
	if a.id == "" {
		a.id = uuid.NewString()
	}
	return a.id
}

// State returns the lifecycle state.
func (a *Action) State() State { return a.state }

// IsPending reports whether the action has not finished.
func (a *Action) IsPending() bool { return a.state == Pending }

// IsResolved reports whether the action completed naturally.
func (a *Action) IsResolved() bool { return a.state == Resolved }

// IsTerminated reports whether the action was terminated. Deferred callbacks
// must check this before touching their target.
func (a *Action) IsTerminated() bool { return a.state == Terminated }

// Then registers fn to run when the action resolves. Continuations run in
// registration order. If the action already resolved, fn runs immediately;
// if it was terminated, fn never runs.
func (a *Action) Then(fn func(*Action)) *Action {
	if fn == nil {
		return a
	}
	switch a.state {
	case Pending:
		a.thens = append(a.thens, fn)
	case Resolved:
		fn(a)
	}
	return a
}

// OnTerminate registers fn to run when the action is terminated. If the
// action was already terminated, fn runs immediately; if it resolved, fn
// never runs.
func (a *Action) OnTerminate(fn func()) *Action {
	if fn == nil {
		return a
	}
	switch a.state {
	case Pending:
		a.terminators = append(a.terminators, fn)
	case Terminated:
		fn()
	}
	return a
}

// Resolve moves a pending action to Resolved and fires its continuations.
// It is a no-op once the action is terminal.
func (a *Action) Resolve() {
	if a.state != Pending {
		return
	}
	a.state = Resolved
	thens := a.thens
	a.thens = nil
	a.terminators = nil
	a.metrics.resolvedAction()
	for _, fn := range thens {
		fn(a)
	}
}

// Terminate moves a pending action to Terminated and fires its terminate
// callbacks. It is a no-op once the action is terminal.
func (a *Action) Terminate() {
	if a.state != Pending {
		return
	}
	a.state = Terminated
	terminators := a.terminators
	a.terminators = nil
	a.thens = nil
	a.metrics.terminatedAction()
	for _, fn := range terminators {
		fn()
	}
}

// Settled registers fn to run when the action reaches either terminal state.
func (a *Action) Settled(fn func()) *Action {
	a.Then(func(*Action) { fn() })
	a.OnTerminate(fn)
	return a
}
