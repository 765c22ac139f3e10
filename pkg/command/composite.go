package command

import (
	"github.com/go-drift/motion/pkg/action"
	"github.com/go-drift/motion/pkg/component"
)

func makeIdle(ctx Context, cmd *Command, _ *component.Component, fastMode bool) (*action.Action, error) {
	if fastMode {
		return action.MakeResolved(ctx.Metrics()), nil
	}
	return wait(ctx, cmd.DurationOr(0)), nil
}

// makeSequential runs the child commands in order, RepeatCount+1 times.
// Children are built lazily so each sees the state its predecessors left.
// A round in which every child finished at once ends the repeats: the
// next round would finish at once too and leave the same state.
func makeSequential(ctx Context, cmd *Command, _ *component.Component, fastMode bool) (*action.Action, error) {
	repeats := max(cmd.RepeatCount, 0)
	round, index := 0, 0
	waited, done := false, len(cmd.Commands) == 0
	var seq *action.Action
	seq = action.MakeSequenceFunc(ctx.Metrics(), func() (*action.Action, bool) {
		if done {
			return nil, false
		}
		a := makeChild(ctx, &cmd.Commands[index], fastMode, seq)
		if a != nil && a.IsPending() {
			waited = true
		}
		if index++; index == len(cmd.Commands) {
			done = round == repeats || !waited
			index, waited = 0, false
			round++
		}
		return a, true
	})
	return seq, nil
}

// makeParallel starts every child at once and resolves when all settle.
func makeParallel(ctx Context, cmd *Command, _ *component.Component, fastMode bool) (*action.Action, error) {
	children := make([]*action.Action, 0, len(cmd.Commands))
	for i := range cmd.Commands {
		if a := makeChild(ctx, &cmd.Commands[i], fastMode, nil); a != nil {
			children = append(children, a)
		}
	}
	return action.MakeAll(ctx.Metrics(), children...), nil
}

// makeChild builds a nested command. A child that cannot be built is
// reported and skipped; it does not abort its parent.
func makeChild(ctx Context, cmd *Command, fastMode bool, parent *action.Action) *action.Action {
	a, err := Make(ctx, cmd, fastMode)
	if err != nil {
		report(err, parent)
		return nil
	}
	return a
}
