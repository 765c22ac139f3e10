// Package command turns declarative commands into running actions.
//
// [Make] is the single entry point. It validates the command, resolves its
// target and returns an [action.Action] that is already claiming whatever it
// mutates. Invalid input is rejected before any action exists; problems with
// individual entries of an otherwise valid command are reported as
// diagnostics and the entry is dropped.
//
// The two time-driven schedulers live here: AnimateItem interpolates
// animatable properties through repeated, optionally reversed passes, and
// the scroll commands drive a scroll offset toward a destination.
package command

import (
	"fmt"
	"math"
	"time"

	"github.com/go-drift/motion/pkg/action"
	"github.com/go-drift/motion/pkg/clock"
	"github.com/go-drift/motion/pkg/component"
	"github.com/go-drift/motion/pkg/errors"
)

// Type names a command.
type Type string

// Supported commands.
const (
	TypeAnimateItem   Type = "AnimateItem"
	TypeScroll        Type = "Scroll"
	TypeScrollToIndex Type = "ScrollToIndex"
	TypeSetValue      Type = "SetValue"
	TypeIdle          Type = "Idle"
	TypeSequential    Type = "Sequential"
	TypeParallel      Type = "Parallel"
)

// RepeatMode controls how AnimateItem repeats.
type RepeatMode string

const (
	// RepeatRestart runs every pass from the start value to the end value.
	RepeatRestart RepeatMode = "restart"
	// RepeatReverse runs odd passes from the end value back to the start.
	RepeatReverse RepeatMode = "reverse"
)

// Align positions a child when scrolling to it.
type Align string

const (
	// AlignFirst puts the child at the start of the viewport.
	AlignFirst Align = "first"
	// AlignCenter centers the child in the viewport.
	AlignCenter Align = "center"
	// AlignLast puts the child at the end of the viewport.
	AlignLast Align = "last"
	// AlignVisible scrolls as little as needed to show the child.
	AlignVisible Align = "visible"
)

// DefaultAnimateDuration applies when an AnimateItem omits its duration.
const DefaultAnimateDuration = time.Second

// AnimatedValue is one (property, from, to) entry of AnimateItem.
// From and To hold a number for numeric properties or a transform list.
type AnimatedValue struct {
	Property string `yaml:"property"`
	From     any    `yaml:"from,omitempty"`
	To       any    `yaml:"to,omitempty"`
}

// Command is the decoded configuration of a command. Only the fields
// relevant to Type are read.
type Command struct {
	Type        Type   `yaml:"type"`
	ComponentID string `yaml:"componentId,omitempty"`
	// Delay in milliseconds before the command starts. Ignored in fast mode.
	Delay int `yaml:"delay,omitempty"`
	// Duration in milliseconds. Nil means the command's default.
	Duration    *int       `yaml:"duration,omitempty"`
	Easing      string     `yaml:"easing,omitempty"`
	RepeatCount int        `yaml:"repeatCount,omitempty"`
	RepeatMode  RepeatMode `yaml:"repeatMode,omitempty"`
	// Value is the AnimatedValue list of AnimateItem or the new value of
	// SetValue.
	Value    any       `yaml:"value,omitempty"`
	Property string    `yaml:"property,omitempty"`
	Distance float64   `yaml:"distance,omitempty"`
	Index    int       `yaml:"index,omitempty"`
	Align    Align     `yaml:"align,omitempty"`
	Commands []Command `yaml:"commands,omitempty"`
}

// DurationOr returns the configured duration or def when unset.
func (c *Command) DurationOr(def time.Duration) time.Duration {
	if c.Duration == nil {
		return def
	}
	return Millis(*c.Duration)
}

// maxMillis is the longest millisecond count a time.Duration can hold.
const maxMillis = math.MaxInt64 / int64(time.Millisecond)

// Millis converts a document millisecond count, clamping it to
// [0, maxMillis].
func Millis(ms int) time.Duration {
	switch {
	case ms <= 0:
		return 0
	case int64(ms) >= maxMillis:
		return time.Duration(maxMillis) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

// Quality selects how much animation the runtime performs.
type Quality string

const (
	// QualityNone disables animation: AnimateItem jumps to its final value.
	QualityNone Quality = "none"
	// QualitySlow is accepted for hosts on slow devices; it animates like
	// QualityNormal.
	QualitySlow Quality = "slow"
	// QualityNormal runs every animation.
	QualityNormal Quality = "normal"
)

// Settings are the runtime options the factories consult.
type Settings struct {
	AnimationQuality Quality
	// ScrollCommandsInCore makes scroll commands animate the scroll position
	// here instead of delegating to the view host.
	ScrollCommandsInCore bool
	ScrollDuration       time.Duration
	ScrollEasing         func(float64) float64
}

// ScrollRequest asks the view host to scroll a component.
type ScrollRequest struct {
	Target      component.Handle
	ComponentID string
	From        float64
	To          float64
}

// ViewHost performs work the core delegates to the platform.
type ViewHost interface {
	// RequestScroll starts a host-driven scroll. The returned action resolves
	// when the host finishes.
	RequestScroll(req ScrollRequest) *action.Action
}

// Context is what a factory needs from the runtime.
type Context interface {
	Clock() clock.Clock
	Arbiter() *action.Arbiter
	Components() *component.Registry
	Settings() Settings
	ViewHost() ViewHost
	Metrics() *action.Metrics
}

type factory struct {
	needsTarget bool
	make        func(ctx Context, cmd *Command, target *component.Component, fastMode bool) (*action.Action, error)
}

var factories map[Type]factory

func init() {
	factories = map[Type]factory{
		TypeAnimateItem:   {needsTarget: true, make: makeAnimateItem},
		TypeScroll:        {needsTarget: true, make: makeScroll},
		TypeScrollToIndex: {needsTarget: true, make: makeScrollToIndex},
		TypeSetValue:      {needsTarget: true, make: makeSetValue},
		TypeIdle:          {make: makeIdle},
		TypeSequential:    {make: makeSequential},
		TypeParallel:      {make: makeParallel},
	}
}

// Make builds and starts the action for cmd. fastMode skips every
// animation and delay and jumps straight to final state.
func Make(ctx Context, cmd *Command, fastMode bool) (*action.Action, error) {
	f, ok := factories[cmd.Type]
	if !ok {
		return nil, errors.New("command.Make", errors.KindCommand, fmt.Errorf("%w: %q", errors.ErrUnknownCommand, cmd.Type))
	}
	var target *component.Component
	if f.needsTarget {
		c, ok := ctx.Components().Find(cmd.ComponentID)
		if !ok {
			return nil, &errors.Error{
				Op:        "command.Make",
				Kind:      errors.KindCommand,
				Err:       fmt.Errorf("%s: %w", cmd.Type, errors.ErrNoTarget),
				Component: cmd.ComponentID,
			}
		}
		target = c
	}

	if cmd.Delay <= 0 || fastMode {
		return f.make(ctx, cmd, target, fastMode)
	}

	// The target may be destroyed while waiting, so it is resolved again once
	// the delay expires.
	handle := component.Handle{}
	if target != nil {
		handle = target.Handle()
	}
	delay := Millis(cmd.Delay)
	var seq *action.Action
	seq = action.MakeSequence(ctx.Metrics(),
		func() *action.Action { return wait(ctx, delay) },
		func() *action.Action {
			var t *component.Component
			if f.needsTarget {
				c, ok := ctx.Components().Get(handle)
				if !ok {
					return nil
				}
				t = c
			}
			a, err := f.make(ctx, cmd, t, false)
			if err != nil {
				report(err, seq)
				return nil
			}
			return a
		},
	)
	return seq, nil
}

// report sends a construction error to the handler. parent is the action
// the failed command was started from, if any.
func report(err error, parent *action.Action) {
	e, ok := err.(*errors.Error)
	if !ok {
		e = errors.New("command.Make", errors.KindCommand, err)
	}
	if parent != nil && e.Action == "" {
		e.Action = parent.ID()
	}
	errors.Report(e)
}

func diagnose(cmd *Command, a *action.Action, property, format string, args ...any) {
	errors.ReportDiagnostic(&errors.Diagnostic{
		Op:        "command.Make",
		Command:   string(cmd.Type),
		Component: cmd.ComponentID,
		Property:  property,
		Action:    a.ID(),
		Message:   fmt.Sprintf(format, args...),
	})
}

// wait returns an action that resolves after d.
func wait(ctx Context, d time.Duration) *action.Action {
	a := action.New(ctx.Metrics())
	if d <= 0 {
		a.Resolve()
		return a
	}
	clk := ctx.Clock()
	id := clk.SetTimeout(a.Resolve, d)
	a.OnTerminate(func() { clk.ClearTimeout(id) })
	return a
}

// watchTarget terminates a when the target component is destroyed.
func watchTarget(ctx Context, target component.Handle, a *action.Action) {
	remove := ctx.Components().OnDestroy(target, a.Terminate)
	a.Settled(remove)
}
