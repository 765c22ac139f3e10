package document

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/component"
	"github.com/go-drift/motion/pkg/errors"
)

// Build inflates the main template into reg and returns its root. Children
// are laid out top to bottom; a child without a width takes its parent's.
func (d *Document) Build(reg *component.Registry) (*component.Component, error) {
	n := &d.MainTemplate
	bounds := component.Rect{Width: n.Width, Height: n.Height}
	root, err := d.build(reg, d.Evaluator(nil), n, component.Handle{}, bounds)
	if err != nil {
		return nil, errors.New("document.Build", errors.KindDocument, err)
	}
	return root, nil
}

func (d *Document) build(reg *component.Registry, ev *Evaluator, n *Node, parent component.Handle, bounds component.Rect) (*component.Component, error) {
	c := reg.Create(n.ID, n.Type, parent)
	c.Set(component.PropBounds, bounds)
	if n.Opacity != nil {
		c.Set(component.PropOpacity, *n.Opacity)
	}
	if len(n.Transform) > 0 {
		t, err := animation.ParseTransform(n.Transform)
		if err != nil {
			return nil, fmt.Errorf("component %q: transform: %w", n.ID, err)
		}
		c.Set(component.PropTransform, t)
	}
	for _, k := range slices.Sorted(maps.Keys(n.Properties)) {
		v, err := ev.Bind(n.Properties[k])
		if err != nil {
			return nil, fmt.Errorf("component %q: %s: %w", n.ID, k, err)
		}
		c.Set(component.PropertyKey(k), v)
	}

	y := 0.0
	for i := range n.Children {
		child := &n.Children[i]
		width := child.Width
		if width == 0 {
			width = bounds.Width
		}
		cb := component.Rect{Y: y, Width: width, Height: child.Height}
		if _, err := d.build(reg, ev, child, c.Handle(), cb); err != nil {
			return nil, err
		}
		y += child.Height
	}

	if s := n.Scroll; s != nil {
		extent := s.Extent
		if extent == 0 {
			extent = y
		}
		viewport := s.Viewport
		if viewport == 0 {
			viewport = bounds.Height
		}
		c.Set(component.PropScrollExtent, extent)
		c.Set(component.PropViewport, viewport)
		c.Set(component.PropScrollPosition, c.ClampScroll(s.Position))
	}
	return c, nil
}
