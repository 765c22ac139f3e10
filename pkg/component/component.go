package component

import "math"

// PropertyKey names a component property.
type PropertyKey string

// Properties understood by the scheduler. Any other key is stored verbatim.
const (
	PropOpacity        PropertyKey = "opacity"
	PropTransform      PropertyKey = "transform"
	PropScrollPosition PropertyKey = "scrollPosition"
	// PropScrollExtent is the length of the scrollable content.
	PropScrollExtent PropertyKey = "scrollExtent"
	// PropViewport is the visible length along the scroll axis.
	PropViewport PropertyKey = "viewport"
	// PropBounds is the component's Rect relative to its parent's content.
	PropBounds PropertyKey = "bounds"
)

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, Width, Height float64
}

// Component is a node of the component hierarchy.
type Component struct {
	id       string
	typ      string
	handle   Handle
	parent   Handle
	children []Handle
	props    map[PropertyKey]any
	registry *Registry
}

// ID returns the document id of the component.
func (c *Component) ID() string { return c.id }

// Type returns the component type, e.g. "Frame" or "ScrollView".
func (c *Component) Type() string { return c.typ }

// Handle returns the component's handle.
func (c *Component) Handle() Handle { return c.handle }

// Parent returns the parent handle, or the zero Handle for the root.
func (c *Component) Parent() Handle { return c.parent }

// Children returns the handles of the component's children.
func (c *Component) Children() []Handle {
	return append([]Handle(nil), c.children...)
}

// Get returns the raw value of key, or nil.
func (c *Component) Get(key PropertyKey) any {
	return c.props[key]
}

// Has reports whether key has a value.
func (c *Component) Has(key PropertyKey) bool {
	_, ok := c.props[key]
	return ok
}

// Float returns key as a float64. Missing or non-numeric values yield the
// property's default (1 for opacity, 0 otherwise).
func (c *Component) Float(key PropertyKey) float64 {
	if f, ok := toFloat(c.props[key]); ok {
		return f
	}
	if key == PropOpacity {
		return 1
	}
	return 0
}

// Set writes key and records the change for layout/redraw bookkeeping.
// Opacity is clamped to [0, 1]. Writing an equal float is not recorded.
func (c *Component) Set(key PropertyKey, value any) {
	if f, ok := toFloat(value); ok {
		if key == PropOpacity {
			f = math.Max(0, math.Min(1, f))
		}
		if old, ok := toFloat(c.props[key]); ok && old == f {
			return
		}
		value = f
	}
	c.props[key] = value
	if c.registry != nil {
		c.registry.markDirty(c.handle, key)
	}
}

// Bounds returns the component's bounds.
func (c *Component) Bounds() Rect {
	r, _ := c.props[PropBounds].(Rect)
	return r
}

// Scrollable reports whether the component has scroll geometry.
func (c *Component) Scrollable() bool {
	return c.Has(PropScrollExtent) && c.Has(PropViewport)
}

// ScrollPosition returns the current scroll offset.
func (c *Component) ScrollPosition() float64 {
	return c.Float(PropScrollPosition)
}

// MaxScroll returns the largest valid scroll offset.
func (c *Component) MaxScroll() float64 {
	return math.Max(0, c.Float(PropScrollExtent)-c.Float(PropViewport))
}

// ClampScroll limits offset to [0, MaxScroll()].
func (c *Component) ClampScroll(offset float64) float64 {
	return math.Max(0, math.Min(c.MaxScroll(), offset))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
