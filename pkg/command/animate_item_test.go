package command

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/motion/pkg/action"
	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/component"
	"github.com/go-drift/motion/pkg/errors"
)

func TestAnimateItemLinearPass(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")

	a := ctx.run(t, opacityAnim("box", 1000, 0, 1), false)
	assert.Equal(t, 0.0, box.Float(component.PropOpacity), "pass starts at from")

	ctx.clk.AdvanceTo(500 * time.Millisecond)
	assert.InDelta(t, 0.5, box.Float(component.PropOpacity), 1e-9)
	assert.True(t, a.IsPending())

	ctx.clk.AdvanceTo(1000 * time.Millisecond)
	assert.Equal(t, 1.0, box.Float(component.PropOpacity))
	assert.True(t, a.IsResolved())
	assert.Zero(t, ctx.clk.Animators())
	assert.Zero(t, ctx.clk.PendingTimers())
	assert.Zero(t, ctx.arb.Len(), "claims released on resolve")
}

func TestAnimateItemOvershootLandsOnFinal(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")

	a := ctx.run(t, opacityAnim("box", 300, 1, 0.25), false)
	ctx.clk.AdvanceTo(10 * time.Second)
	assert.Equal(t, 0.25, box.Float(component.PropOpacity))
	assert.True(t, a.IsResolved())
}

func TestAnimateItemReverseRepeatTerminatedSnapsToStart(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")

	cmd := opacityAnim("box", 1000, 0, 1)
	cmd.RepeatCount = 1
	cmd.RepeatMode = RepeatReverse
	a := ctx.run(t, cmd, false)

	ctx.clk.AdvanceTo(1500 * time.Millisecond)
	assert.InDelta(t, 0.5, box.Float(component.PropOpacity), 1e-9, "halfway back on the reversed pass")

	a.Terminate()
	assert.True(t, a.IsTerminated())
	assert.Equal(t, 0.0, box.Float(component.PropOpacity))
	assert.Zero(t, ctx.clk.Animators())
	assert.Zero(t, ctx.clk.PendingTimers())
}

func TestAnimateItemReversePasses(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")

	cmd := opacityAnim("box", 1000, 0, 1)
	cmd.RepeatCount = 2
	cmd.RepeatMode = RepeatReverse
	a := ctx.run(t, cmd, false)

	steps := []struct {
		at   time.Duration
		want float64
	}{
		{250 * time.Millisecond, 0.25},
		{1000 * time.Millisecond, 1},
		{1250 * time.Millisecond, 0.75},
		{2000 * time.Millisecond, 0},
		{2750 * time.Millisecond, 0.75},
		{3000 * time.Millisecond, 1},
	}
	for _, s := range steps {
		ctx.clk.AdvanceTo(s.at)
		assert.InDelta(t, s.want, box.Float(component.PropOpacity), 1e-9, "at %v", s.at)
	}
	assert.True(t, a.IsResolved())
}

// Interrupting at any point must leave the same value as running to
// completion.
func TestAnimateItemCancellationIsDeterministic(t *testing.T) {
	interrupts := []time.Duration{
		0, 1, 250 * time.Millisecond, 999 * time.Millisecond, 1000 * time.Millisecond,
		1001 * time.Millisecond, 1700 * time.Millisecond, 2500 * time.Millisecond, 3999 * time.Millisecond,
	}
	for _, mode := range []RepeatMode{RepeatRestart, RepeatReverse} {
		for repeat := 0; repeat <= 3; repeat++ {
			t.Run(fmt.Sprintf("%s/%d", mode, repeat), func(t *testing.T) {
				build := func(ctx *testContext) *Command {
					cmd := opacityAnim("box", 1000, 0.2, 0.8)
					cmd.RepeatCount = repeat
					cmd.RepeatMode = mode
					cmd.Easing = "ease-in-out"
					return cmd
				}

				ref := newTestContext(t)
				refBox := ref.box("box")
				done := ref.run(t, build(ref), false)
				ref.clk.AdvanceTo(time.Hour)
				require.True(t, done.IsResolved())
				want := refBox.Float(component.PropOpacity)

				for _, at := range interrupts {
					ctx := newTestContext(t)
					box := ctx.box("box")
					a := ctx.run(t, build(ctx), false)
					ctx.clk.AdvanceTo(at)
					a.Terminate()
					assert.Equal(t, want, box.Float(component.PropOpacity), "interrupted at %v", at)
				}
			})
		}
	}
}

func TestAnimateItemFastPathsSkipTicks(t *testing.T) {
	cases := []struct {
		name    string
		fast    bool
		dur     int
		quality Quality
	}{
		{"fast mode", true, 1000, QualityNormal},
		{"zero duration", false, 0, QualityNormal},
		{"negative duration", false, -5, QualityNormal},
		{"quality none", false, 1000, QualityNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newTestContext(t)
			ctx.settings.AnimationQuality = tc.quality
			box := ctx.box("box")

			cmd := opacityAnim("box", tc.dur, 0, 0.4)
			cmd.RepeatCount = 3
			cmd.RepeatMode = RepeatReverse
			a := ctx.run(t, cmd, tc.fast)

			assert.True(t, a.IsResolved())
			assert.Equal(t, 0.0, box.Float(component.PropOpacity), "odd reverse repeats end on from")
			assert.Zero(t, ctx.clk.Animators())
			assert.Zero(t, ctx.clk.PendingTimers())
		})
	}
}

func TestAnimateItemRepeatBoundaryResetsToStart(t *testing.T) {
	for _, mode := range []RepeatMode{RepeatRestart, RepeatReverse} {
		t.Run(string(mode), func(t *testing.T) {
			ctx := newTestContext(t)
			box := ctx.box("box")

			cmd := opacityAnim("box", 1000, 0, 1)
			cmd.RepeatCount = 1
			cmd.RepeatMode = mode
			ctx.run(t, cmd, false)

			ctx.clk.AdvanceTo(400 * time.Millisecond)
			// An unarbitrated write leaves the property somewhere else.
			box.Set(component.PropOpacity, 0.9)
			ctx.clk.AdvanceTo(1000 * time.Millisecond)

			want := 0.0
			if mode == RepeatReverse {
				want = 1
			}
			assert.Equal(t, want, box.Float(component.PropOpacity))
		})
	}
}

func TestAnimateItemDropsBadEntries(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")

	cmd := &Command{
		Type:        TypeAnimateItem,
		ComponentID: "box",
		Duration:    ms(100),
		Value: []any{
			map[string]any{"property": "opacity", "from": 0, "to": 1},
			map[string]any{"property": "color", "to": "red"},
			map[string]any{"property": "transform", "from": []any{map[string]any{"scale": 1}}, "to": []any{map[string]any{"rotate": 90}}},
			map[string]any{"property": "opacity"},
		},
	}
	a := ctx.run(t, cmd, false)

	diags := ctx.rec.Diagnostics()
	require.Len(t, diags, 3)
	assert.Equal(t, "color", diags[0].Property)
	assert.Equal(t, "transform", diags[1].Property)
	assert.Contains(t, diags[1].Message, animation.ErrTransformMismatch.Error())
	assert.Equal(t, "opacity", diags[2].Property)
	for _, d := range diags {
		assert.Equal(t, a.ID(), d.Action)
	}

	ctx.clk.AdvanceTo(100 * time.Millisecond)
	assert.True(t, a.IsResolved())
	assert.Equal(t, 1.0, box.Float(component.PropOpacity))
	assert.False(t, box.Has(component.PropTransform))
}

func TestAnimateItemNoValidEntriesResolvesImmediately(t *testing.T) {
	ctx := newTestContext(t)
	ctx.box("box")

	cmd := &Command{Type: TypeAnimateItem, ComponentID: "box", Duration: ms(500), Value: "nonsense"}
	a := ctx.run(t, cmd, false)
	assert.True(t, a.IsResolved())
	assert.Len(t, ctx.rec.Diagnostics(), 1)
}

func TestAnimateItemFromDefaultsToCurrentValue(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")
	box.Set(component.PropOpacity, 0.6)

	cmd := &Command{
		Type:        TypeAnimateItem,
		ComponentID: "box",
		Duration:    ms(1000),
		Value:       []AnimatedValue{{Property: "opacity", To: 0.0}},
	}
	ctx.run(t, cmd, false)
	ctx.clk.AdvanceTo(500 * time.Millisecond)
	assert.InDelta(t, 0.3, box.Float(component.PropOpacity), 1e-9)
}

func TestAnimateItemEasing(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")

	cmd := opacityAnim("box", 1000, 0, 1)
	cmd.Easing = "ease-in"
	ctx.run(t, cmd, false)
	ctx.clk.AdvanceTo(500 * time.Millisecond)
	assert.InDelta(t, animation.EaseIn(0.5), box.Float(component.PropOpacity), 1e-9)
}

func TestAnimateItemBadEasingFallsBackToLinear(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")

	cmd := opacityAnim("box", 1000, 0, 1)
	cmd.Easing = "wobble"
	ctx.run(t, cmd, false)
	ctx.clk.AdvanceTo(500 * time.Millisecond)
	assert.InDelta(t, 0.5, box.Float(component.PropOpacity), 1e-9)
	require.Len(t, ctx.rec.Diagnostics(), 1)
}

func TestAnimateItemTransform(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")

	cmd := &Command{
		Type:        TypeAnimateItem,
		ComponentID: "box",
		Duration:    ms(1000),
		Easing:      "linear",
		Value: []any{map[string]any{
			"property": "transform",
			"to":       []any{map[string]any{"translateX": 100}, map[string]any{"scale": 3}},
		}},
	}
	a := ctx.run(t, cmd, false)

	ctx.clk.AdvanceTo(500 * time.Millisecond)
	mid, ok := box.Get(component.PropTransform).(animation.Transform)
	require.True(t, ok)
	require.Len(t, mid, 2)
	assert.InDelta(t, 50, mid[0].Value, 1e-9)
	assert.InDelta(t, 2, mid[1].Value, 1e-9, "scale starts from its neutral 1")

	ctx.clk.AdvanceTo(time.Second)
	end := box.Get(component.PropTransform).(animation.Transform)
	assert.Equal(t, 100.0, end[0].Value)
	assert.Equal(t, 3.0, end[1].Value)
	assert.True(t, a.IsResolved())
}

func TestAnimateItemPreemptedBySetValue(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")

	anim := ctx.run(t, opacityAnim("box", 1000, 0, 1), false)
	ctx.clk.AdvanceTo(300 * time.Millisecond)

	set := ctx.run(t, &Command{Type: TypeSetValue, ComponentID: "box", Property: "opacity", Value: 0.25}, false)
	assert.True(t, anim.IsTerminated())
	assert.True(t, set.IsResolved())
	assert.Equal(t, 0.25, box.Float(component.PropOpacity))

	ctx.clk.AdvanceTo(2 * time.Second)
	assert.Equal(t, 0.25, box.Float(component.PropOpacity), "no ticks after preemption")
}

func TestAnimateItemPreemptedBySecondAnimation(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")

	first := ctx.run(t, opacityAnim("box", 1000, 0, 1), false)
	ctx.clk.AdvanceTo(500 * time.Millisecond)

	second := ctx.run(t, opacityAnim("box", 1000, 1, 0.5), false)
	assert.True(t, first.IsTerminated())
	holder, ok := ctx.arb.Holder(action.KeyFor(box.Handle(), component.PropOpacity))
	require.True(t, ok)
	assert.Same(t, second, holder)

	ctx.clk.AdvanceTo(1500 * time.Millisecond)
	assert.Equal(t, 0.5, box.Float(component.PropOpacity))
	assert.True(t, second.IsResolved())
}

func TestAnimateItemTargetDestroyed(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")

	a := ctx.run(t, opacityAnim("box", 1000, 0, 1), false)
	ctx.clk.AdvanceTo(200 * time.Millisecond)
	require.True(t, ctx.reg.Destroy(box.Handle()))

	assert.True(t, a.IsTerminated())
	assert.NotPanics(t, func() { ctx.clk.AdvanceTo(2 * time.Second) })
	assert.Empty(t, ctx.rec.Panics())
}

func TestMakeRejectsBadCommands(t *testing.T) {
	ctx := newTestContext(t)

	_, err := Make(ctx, &Command{Type: "Explode"}, false)
	require.ErrorIs(t, err, errors.ErrUnknownCommand)

	_, err = Make(ctx, opacityAnim("missing", 100, 0, 1), false)
	require.ErrorIs(t, err, errors.ErrNoTarget)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "missing", e.Component)
	assert.Equal(t, errors.KindCommand, e.Kind)
}

func TestMakeDelay(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")
	box.Set(component.PropOpacity, 0.7)

	cmd := opacityAnim("box", 1000, 0, 1)
	cmd.Delay = 500
	a := ctx.run(t, cmd, false)

	ctx.clk.AdvanceTo(400 * time.Millisecond)
	assert.Equal(t, 0.7, box.Float(component.PropOpacity), "untouched during the delay")
	assert.Zero(t, ctx.arb.Len(), "nothing claimed during the delay")

	ctx.clk.AdvanceTo(1000 * time.Millisecond)
	assert.InDelta(t, 0.5, box.Float(component.PropOpacity), 1e-9)
	ctx.clk.AdvanceTo(1500 * time.Millisecond)
	assert.True(t, a.IsResolved())
}

func TestMakeDelayTargetGone(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")

	cmd := opacityAnim("box", 1000, 0, 1)
	cmd.Delay = 500
	a := ctx.run(t, cmd, false)
	ctx.reg.Destroy(box.Handle())
	ctx.clk.AdvanceTo(time.Second)
	assert.True(t, a.IsResolved(), "a vanished target skips the command")
}

func TestMakeDelayIgnoredInFastMode(t *testing.T) {
	ctx := newTestContext(t)
	box := ctx.box("box")

	cmd := opacityAnim("box", 1000, 0, 1)
	cmd.Delay = 500
	a := ctx.run(t, cmd, true)
	assert.True(t, a.IsResolved())
	assert.Equal(t, 1.0, box.Float(component.PropOpacity))
}
