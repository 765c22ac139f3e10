package command

import (
	"fmt"

	"github.com/go-drift/motion/pkg/action"
	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/component"
)

// makeSetValue claims the property's resource, which stops any animation or
// scroll writing it, and then writes the value.
func makeSetValue(ctx Context, cmd *Command, target *component.Component, _ bool) (*action.Action, error) {
	if cmd.Property == "" {
		return nil, fmt.Errorf("%s: missing property", cmd.Type)
	}
	key := component.PropertyKey(cmd.Property)
	value := cmd.Value

	switch key {
	case component.PropOpacity:
		f, ok := toFloat(value)
		if !ok {
			return nil, fmt.Errorf("%s: opacity must be a number, got %T", cmd.Type, value)
		}
		value = f
	case component.PropScrollPosition:
		f, ok := toFloat(value)
		if !ok {
			return nil, fmt.Errorf("%s: scrollPosition must be a number, got %T", cmd.Type, value)
		}
		value = target.ClampScroll(f)
	case component.PropTransform:
		t, err := animation.ParseTransform(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Type, err)
		}
		value = t
	}

	self := action.New(ctx.Metrics())
	ctx.Arbiter().Claim(action.KeyFor(target.Handle(), key), self)
	target.Set(key, value)
	self.Resolve()
	return self, nil
}
