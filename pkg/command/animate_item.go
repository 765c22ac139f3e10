package command

import (
	"fmt"
	"time"

	"github.com/go-drift/motion/pkg/action"
	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/component"
)

// animatedProperty is a replayable interpolation target. Update must be
// idempotent for a given alpha and accept the boundaries 0 and 1.
type animatedProperty interface {
	Key() component.PropertyKey
	Update(c *component.Component, alpha float64)
}

type numericProperty struct {
	key   component.PropertyKey
	tween *animation.Tween[float64]
}

func (p *numericProperty) Key() component.PropertyKey { return p.key }

func (p *numericProperty) Update(c *component.Component, alpha float64) {
	c.Set(p.key, p.tween.Evaluate(alpha))
}

type transformProperty struct {
	tween *animation.Tween[animation.Transform]
}

func (p *transformProperty) Key() component.PropertyKey { return component.PropTransform }

func (p *transformProperty) Update(c *component.Component, alpha float64) {
	c.Set(component.PropTransform, p.tween.Evaluate(alpha))
}

func newAnimatedProperty(target *component.Component, v AnimatedValue) (animatedProperty, error) {
	if v.To == nil {
		return nil, fmt.Errorf("missing \"to\"")
	}
	switch key := component.PropertyKey(v.Property); key {
	case component.PropOpacity:
		to, ok := toFloat(v.To)
		if !ok {
			return nil, fmt.Errorf("\"to\" must be a number, got %T", v.To)
		}
		from := target.Float(key)
		if v.From != nil {
			if from, ok = toFloat(v.From); !ok {
				return nil, fmt.Errorf("\"from\" must be a number, got %T", v.From)
			}
		}
		return &numericProperty{key: key, tween: animation.TweenFloat64(from, to)}, nil

	case component.PropTransform:
		to, err := animation.ParseTransform(v.To)
		if err != nil {
			return nil, fmt.Errorf("\"to\": %w", err)
		}
		from := to.Neutral()
		if v.From != nil {
			if from, err = animation.ParseTransform(v.From); err != nil {
				return nil, fmt.Errorf("\"from\": %w", err)
			}
		}
		if !from.SameShape(to) {
			return nil, fmt.Errorf("%w: %s vs %s", animation.ErrTransformMismatch, from, to)
		}
		return &transformProperty{tween: animation.TweenTransform(from, to)}, nil

	case "":
		return nil, fmt.Errorf("missing \"property\"")
	default:
		return nil, fmt.Errorf("property is not animatable")
	}
}

// animateItem drives one AnimateItem command.
//
//	Starting ──► Running(pass i) ──► Running(pass i+1) ... ──► Resolved
//	    └──────────────┴─────────────► Terminated (final-state snap)
type animateItem struct {
	ctx         Context
	self        *action.Action
	target      component.Handle
	props       []animatedProperty
	duration    time.Duration
	repeatCount int
	repeatMode  RepeatMode
	curve       func(float64) float64

	repeatCounter int
	current       *action.Action
}

func makeAnimateItem(ctx Context, cmd *Command, target *component.Component, fastMode bool) (*action.Action, error) {
	s := &animateItem{
		ctx:         ctx,
		self:        action.New(ctx.Metrics()),
		target:      target.Handle(),
		duration:    cmd.DurationOr(DefaultAnimateDuration),
		repeatCount: max(cmd.RepeatCount, 0),
		repeatMode:  cmd.RepeatMode,
		curve:       animation.LinearCurve,
	}
	if s.repeatMode == "" {
		s.repeatMode = RepeatRestart
	} else if s.repeatMode != RepeatRestart && s.repeatMode != RepeatReverse {
		diagnose(cmd, s.self, "", "unknown repeatMode %q, using restart", cmd.RepeatMode)
		s.repeatMode = RepeatRestart
	}
	if cmd.Easing != "" {
		curve, err := animation.ParseEasing(cmd.Easing)
		if err != nil {
			diagnose(cmd, s.self, "", "%v, using linear", err)
		} else {
			s.curve = curve
		}
	}

	values, err := animatedValues(cmd.Value)
	if err != nil {
		diagnose(cmd, s.self, "", "%v", err)
	}
	for _, v := range values {
		p, err := newAnimatedProperty(target, v)
		if err != nil {
			diagnose(cmd, s.self, v.Property, "%v", err)
			continue
		}
		s.props = append(s.props, p)
	}

	for _, p := range s.props {
		ctx.Arbiter().Claim(action.KeyFor(s.target, p.Key()), s.self)
	}

	if s.duration <= 0 || fastMode || len(s.props) == 0 || ctx.Settings().AnimationQuality == QualityNone {
		s.snapToFinal()
		s.self.Resolve()
		return s.self, nil
	}

	s.self.OnTerminate(func() {
		if s.current != nil {
			s.current.Terminate()
			s.current = nil
		}
		s.snapToFinal()
	})
	watchTarget(ctx, s.target, s.self)
	s.advance()
	return s.self, nil
}

// finalAlpha is the alpha a fully completed animation ends on. Only a
// reversing animation with an odd number of repeats ends where it started.
func (s *animateItem) finalAlpha() float64 {
	if s.repeatMode == RepeatReverse && s.repeatCount%2 == 1 {
		return 0
	}
	return 1
}

func (s *animateItem) snapToFinal() {
	c, ok := s.ctx.Components().Get(s.target)
	if !ok {
		return
	}
	alpha := s.finalAlpha()
	for _, p := range s.props {
		p.Update(c, alpha)
	}
}

// advance starts the next pass, or resolves once every pass has run. It is
// re-entered from the previous pass's continuation, which runs inside a
// clock callback, so repeats never grow the stack.
func (s *animateItem) advance() {
	if !s.self.IsPending() {
		return
	}
	if s.repeatCounter > s.repeatCount {
		s.self.Resolve()
		return
	}
	c, ok := s.ctx.Components().Get(s.target)
	if !ok {
		s.self.Terminate()
		return
	}

	reversed := s.repeatMode == RepeatReverse && s.repeatCounter%2 == 1
	start := 0.0
	if reversed {
		start = 1
	}
	for _, p := range s.props {
		p.Update(c, start)
	}

	duration := s.duration
	s.current = animation.MakeAnimation(s.ctx.Clock(), duration, s.ctx.Metrics(), func(offset time.Duration) {
		if !s.self.IsPending() {
			return
		}
		c, ok := s.ctx.Components().Get(s.target)
		if !ok {
			s.self.Terminate()
			return
		}
		alpha := float64(offset) / float64(duration)
		if reversed {
			alpha = 1 - alpha
		}
		alpha = s.curve(alpha)
		for _, p := range s.props {
			p.Update(c, alpha)
		}
	})
	s.current.Then(func(*action.Action) {
		s.current = nil
		s.repeatCounter++
		s.advance()
	})
}
