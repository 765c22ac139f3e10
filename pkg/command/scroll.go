package command

import (
	"fmt"
	"time"

	"github.com/go-drift/motion/pkg/action"
	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/component"
)

// DefaultScrollDuration applies when Settings.ScrollDuration is unset.
const DefaultScrollDuration = time.Second

func makeScroll(ctx Context, cmd *Command, target *component.Component, fastMode bool) (*action.Action, error) {
	if !target.Scrollable() {
		return nil, fmt.Errorf("%s: component %q is not scrollable", cmd.Type, cmd.ComponentID)
	}
	return scrollTo(ctx, target, func() float64 {
		return target.ScrollPosition() + cmd.Distance*target.Float(component.PropViewport)
	}, fastMode), nil
}

func makeScrollToIndex(ctx Context, cmd *Command, target *component.Component, fastMode bool) (*action.Action, error) {
	if !target.Scrollable() {
		return nil, fmt.Errorf("%s: component %q is not scrollable", cmd.Type, cmd.ComponentID)
	}
	children := target.Children()
	index := cmd.Index
	if index < 0 {
		index += len(children)
	}
	if index < 0 || index >= len(children) {
		return nil, fmt.Errorf("%s: index %d out of range [0, %d)", cmd.Type, cmd.Index, len(children))
	}
	child, ok := ctx.Components().Get(children[index])
	if !ok {
		return nil, fmt.Errorf("%s: child %d is gone", cmd.Type, cmd.Index)
	}

	align := cmd.Align
	if align == "" {
		align = AlignVisible
	}
	if _, err := alignedOffset(target, child.Bounds(), align); err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Type, err)
	}
	return scrollTo(ctx, target, func() float64 {
		to, _ := alignedOffset(target, child.Bounds(), align)
		return to
	}, fastMode), nil
}

// alignedOffset returns the scroll offset that places bounds at align within
// the viewport of scroller.
func alignedOffset(scroller *component.Component, bounds component.Rect, align Align) (float64, error) {
	viewport := scroller.Float(component.PropViewport)
	current := scroller.ScrollPosition()
	first := bounds.Y
	last := bounds.Y + bounds.Height - viewport
	switch align {
	case AlignFirst:
		return first, nil
	case AlignLast:
		return last, nil
	case AlignCenter:
		return bounds.Y + bounds.Height/2 - viewport/2, nil
	case AlignVisible:
		switch {
		case bounds.Y < current:
			return first, nil
		case bounds.Y+bounds.Height > current+viewport:
			// A child taller than the viewport shows its top.
			if bounds.Height > viewport {
				return first, nil
			}
			return last, nil
		default:
			return current, nil
		}
	default:
		return 0, fmt.Errorf("unknown align %q", align)
	}
}

// scrollTo moves target's scroll position to the clamped destination.
// destination is evaluated after the scroll resource is claimed, so a
// preempted scroll has already snapped to its own end.
func scrollTo(ctx Context, target *component.Component, destination func() float64, fastMode bool) *action.Action {
	handle := target.Handle()
	key := action.KeyFor(handle, component.PropScrollPosition)
	settings := ctx.Settings()
	m := ctx.Metrics()
	self := action.New(m)

	if fastMode {
		ctx.Arbiter().Claim(key, self)
		target.Set(component.PropScrollPosition, target.ClampScroll(destination()))
		self.Resolve()
		return self
	}

	if !settings.ScrollCommandsInCore {
		from := target.ScrollPosition()
		to := target.ClampScroll(destination())
		host := ctx.ViewHost()
		if host == nil {
			self.Resolve()
			return self
		}
		external := host.RequestScroll(ScrollRequest{Target: handle, ComponentID: target.ID(), From: from, To: to})
		if external == nil {
			self.Resolve()
			return self
		}
		external.Then(func(*action.Action) { self.Resolve() })
		external.OnTerminate(self.Terminate)
		self.OnTerminate(external.Terminate)
		return self
	}

	ctx.Arbiter().Claim(key, self)
	from := target.ScrollPosition()
	to := target.ClampScroll(destination())

	duration := settings.ScrollDuration
	if duration <= 0 {
		duration = DefaultScrollDuration
	}
	curve := settings.ScrollEasing
	if curve == nil {
		curve = animation.EaseInOut
	}

	pass := animation.MakeAnimation(ctx.Clock(), duration, m, func(offset time.Duration) {
		if !self.IsPending() {
			return
		}
		c, ok := ctx.Components().Get(handle)
		if !ok {
			self.Terminate()
			return
		}
		alpha := curve(float64(offset) / float64(duration))
		c.Set(component.PropScrollPosition, from*(1-alpha)+to*alpha)
	})
	pass.Then(func(*action.Action) { self.Resolve() })
	self.OnTerminate(func() {
		pass.Terminate()
		if c, ok := ctx.Components().Get(handle); ok {
			c.Set(component.PropScrollPosition, to)
		}
	})
	watchTarget(ctx, handle, self)
	return self
}
