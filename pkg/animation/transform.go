package animation

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/image/math/f64"
)

// ErrTransformMismatch is returned when two transforms cannot be
// interpolated because their operation lists differ.
var ErrTransformMismatch = errors.New("transforms have different shapes")

// TransformKind names a single 2D transform operation.
type TransformKind string

// Supported transform operations. Angles are in degrees.
const (
	TranslateX TransformKind = "translateX"
	TranslateY TransformKind = "translateY"
	Scale      TransformKind = "scale"
	ScaleX     TransformKind = "scaleX"
	ScaleY     TransformKind = "scaleY"
	Rotate     TransformKind = "rotate"
	SkewX      TransformKind = "skewX"
	SkewY      TransformKind = "skewY"
)

// ParseTransformKind validates a transform operation name.
func ParseTransformKind(s string) (TransformKind, bool) {
	switch k := TransformKind(s); k {
	case TranslateX, TranslateY, Scale, ScaleX, ScaleY, Rotate, SkewX, SkewY:
		return k, true
	}
	return "", false
}

// ParseTransform accepts a Transform or its document form: a list of
// single-key maps such as [{translateX: 10}, {rotate: 45}].
func ParseTransform(v any) (Transform, error) {
	switch t := v.(type) {
	case Transform:
		return t, nil
	case []TransformOp:
		return Transform(t), nil
	case []any:
		out := make(Transform, 0, len(t))
		for i, item := range t {
			m, ok := item.(map[string]any)
			if !ok || len(m) != 1 {
				return nil, fmt.Errorf("transform item %d must be a single-key map", i)
			}
			for k, raw := range m {
				kind, ok := ParseTransformKind(k)
				if !ok {
					return nil, fmt.Errorf("transform item %d: unknown operation %q", i, k)
				}
				f, ok := number(raw)
				if !ok {
					return nil, fmt.Errorf("transform item %d: %s needs a number", i, k)
				}
				out = append(out, TransformOp{Kind: kind, Value: f})
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a transform list, got %T", v)
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// TransformOp is one operation of a transform list.
type TransformOp struct {
	Kind  TransformKind
	Value float64
}

// Transform is an ordered list of operations. The first operation is the
// outermost, as in CSS.
type Transform []TransformOp

// Identity is the identity matrix.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Matrix composes the operations into one affine matrix.
func (t Transform) Matrix() f64.Aff3 {
	m := Identity
	for _, op := range t {
		m = mul(m, op.matrix())
	}
	return m
}

// SameShape reports whether t and other list the same operations in the
// same order.
func (t Transform) SameShape(other Transform) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i].Kind != other[i].Kind {
			return false
		}
	}
	return true
}

// Neutral returns a transform of the same shape whose operations have no
// effect. It is the implicit start value of a transform animation.
func (t Transform) Neutral() Transform {
	out := make(Transform, len(t))
	for i, op := range t {
		out[i] = TransformOp{Kind: op.Kind}
		switch op.Kind {
		case Scale, ScaleX, ScaleY:
			out[i].Value = 1
		}
	}
	return out
}

// String lists the operations, e.g. "[scale(2) rotate(45)]".
func (t Transform) String() string {
	s := "["
	for i, op := range t {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s(%g)", op.Kind, op.Value)
	}
	return s + "]"
}

// LerpTransform interpolates two transforms operation by operation. Shapes
// must match; when they do not, b is returned.
func LerpTransform(a, b Transform, t float64) Transform {
	if !a.SameShape(b) {
		return b
	}
	out := make(Transform, len(a))
	for i := range a {
		out[i] = TransformOp{Kind: a[i].Kind, Value: LerpFloat64(a[i].Value, b[i].Value, t)}
	}
	return out
}

// InterpolateTransform is LerpTransform with shape checking.
func InterpolateTransform(from, to Transform, alpha float64) (Transform, error) {
	if !from.SameShape(to) {
		return nil, fmt.Errorf("%w: %s vs %s", ErrTransformMismatch, from, to)
	}
	return LerpTransform(from, to, alpha), nil
}

func (op TransformOp) matrix() f64.Aff3 {
	switch op.Kind {
	case TranslateX:
		return f64.Aff3{1, 0, op.Value, 0, 1, 0}
	case TranslateY:
		return f64.Aff3{1, 0, 0, 0, 1, op.Value}
	case Scale:
		return f64.Aff3{op.Value, 0, 0, 0, op.Value, 0}
	case ScaleX:
		return f64.Aff3{op.Value, 0, 0, 0, 1, 0}
	case ScaleY:
		return f64.Aff3{1, 0, 0, 0, op.Value, 0}
	case Rotate:
		s, c := math.Sincos(op.Value * math.Pi / 180)
		return f64.Aff3{c, -s, 0, s, c, 0}
	case SkewX:
		return f64.Aff3{1, math.Tan(op.Value * math.Pi / 180), 0, 0, 1, 0}
	case SkewY:
		return f64.Aff3{1, 0, 0, math.Tan(op.Value * math.Pi / 180), 1, 0}
	default:
		return Identity
	}
}

// mul returns a·b.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// FormatMatrix prints m row by row, e.g. "[2 0 10; 0 2 0]".
func FormatMatrix(m f64.Aff3) string {
	g := func(v float64) string {
		if v == 0 {
			v = 0 // drop negative zero
		}
		return strconv.FormatFloat(v, 'g', 6, 64)
	}
	return "[" + g(m[0]) + " " + g(m[1]) + " " + g(m[2]) + "; " +
		g(m[3]) + " " + g(m[4]) + " " + g(m[5]) + "]"
}

// Apply maps the point (x, y) through m.
func Apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}
