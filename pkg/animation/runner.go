// Package animation provides the time-driven building blocks of the
// scheduler: easing curves, interpolation, and the animation runner.
//
// # Runner
//
// [MakeAnimation] turns a duration and a tick callback into an
// [action.Action]. The callback receives the raw elapsed time of the pass,
// never a normalized alpha, so each scheduler applies its own easing:
//
//	a := animation.MakeAnimation(clk, time.Second, nil, func(offset time.Duration) {
//	    alpha := curve(float64(offset) / float64(time.Second))
//	    target.Set(component.PropOpacity, animation.LerpFloat64(from, to, alpha))
//	})
//	a.Then(func(*action.Action) { /* pass finished */ })
//
// A runner with a non-positive duration is never created; callers take the
// fast path and resolve immediately.
package animation

import (
	"time"

	"github.com/go-drift/motion/pkg/action"
	"github.com/go-drift/motion/pkg/clock"
)

// MakeAnimation starts a single pass of length duration on clk.
//
// On every clock advance that ends inside the pass, onTick runs with the
// elapsed offset. When the clock reaches the end of the pass, onTick runs
// once more with exactly duration and the action resolves, so the last
// value written is the pass's terminal value. Terminating the action stops
// all further ticks.
func MakeAnimation(clk clock.Clock, duration time.Duration, m *action.Metrics, onTick func(offset time.Duration)) *action.Action {
	a := action.New(m)
	start := clk.Now()

	animatorID := clk.SetAnimator(func() {
		if !a.IsPending() {
			return
		}
		if offset := clk.Now() - start; offset < duration {
			onTick(offset)
		}
	})
	endID := clk.SetTimeout(func() {
		clk.ClearTimeout(animatorID)
		if !a.IsPending() {
			return
		}
		onTick(duration)
		// onTick may have found its target gone and terminated the action.
		a.Resolve()
	}, duration)

	a.OnTerminate(func() {
		clk.ClearTimeout(animatorID)
		clk.ClearTimeout(endID)
	})
	return a
}
