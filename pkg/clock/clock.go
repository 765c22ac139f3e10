// Package clock provides the virtual time source that drives every action.
//
// Time never advances on its own. The host calls [Virtual.AdvanceTo] (or
// [Virtual.AdvanceBy]) and the clock fires, in chronological order, every
// timeout that became due, then fires the registered animators once at the
// new time. Tests use the same type to control timing deterministically.
package clock

import "time"

// TimerID identifies a scheduled timeout or animator. Zero is never issued.
type TimerID uint64

// Clock is the narrow view of the virtual clock that actions depend on.
type Clock interface {
	// Now returns the current virtual time.
	Now() time.Duration

	// SetTimeout schedules fn to run once Now() >= Now()+delay.
	SetTimeout(fn func(), delay time.Duration) TimerID

	// SetAnimator registers fn to run at the end of every clock advance
	// until it is cleared.
	SetAnimator(fn func()) TimerID

	// ClearTimeout cancels a timeout or animator. It reports whether
	// anything was pending.
	ClearTimeout(id TimerID) bool
}
