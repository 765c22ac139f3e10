package animation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadEasing is returned by ParseEasing for strings it cannot interpret.
var ErrBadEasing = errors.New("unrecognized easing")

// End jumps to the final value only when the animation completes.
func End(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 0
}

// Path returns a piecewise-linear curve through (0,0), the given (x, y)
// points and (1,1). Points must have strictly increasing x in (0, 1).
func Path(points ...float64) (func(float64) float64, error) {
	if len(points)%2 != 0 {
		return nil, fmt.Errorf("%w: path needs x,y pairs", ErrBadEasing)
	}
	xs := []float64{0}
	ys := []float64{0}
	for i := 0; i < len(points); i += 2 {
		x, y := points[i], points[i+1]
		if x <= xs[len(xs)-1] || x >= 1 {
			return nil, fmt.Errorf("%w: path x values must increase within (0, 1)", ErrBadEasing)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	xs = append(xs, 1)
	ys = append(ys, 1)

	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		for i := 1; i < len(xs); i++ {
			if t <= xs[i] {
				f := (t - xs[i-1]) / (xs[i] - xs[i-1])
				return LerpFloat64(ys[i-1], ys[i], f)
			}
		}
		return 1
	}, nil
}

var namedCurves = map[string]func(float64) float64{
	"linear":      LinearCurve,
	"ease":        Ease,
	"ease-in":     EaseIn,
	"ease-out":    EaseOut,
	"ease-in-out": EaseInOut,
	"end":         End,
}

// ParseEasing builds a curve from its document form: one of "linear",
// "ease", "ease-in", "ease-out", "ease-in-out", "end",
// "cubic-bezier(x1, y1, x2, y2)" or "path(x1, y1, ...)". The empty string
// is linear.
func ParseEasing(s string) (func(float64) float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LinearCurve, nil
	}
	if curve, ok := namedCurves[s]; ok {
		return curve, nil
	}

	name, args, err := splitCall(s)
	if err != nil {
		return nil, err
	}
	switch name {
	case "cubic-bezier":
		if len(args) != 4 {
			return nil, fmt.Errorf("%w: cubic-bezier takes 4 arguments, got %d", ErrBadEasing, len(args))
		}
		return CubicBezier(args[0], args[1], args[2], args[3]), nil
	case "path":
		return Path(args...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadEasing, s)
	}
}

func splitCall(s string) (string, []float64, error) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", nil, fmt.Errorf("%w: %q", ErrBadEasing, s)
	}
	name := strings.TrimSpace(s[:open])
	body := strings.TrimSpace(s[open+1 : len(s)-1])
	if body == "" {
		return name, nil, nil
	}
	fields := strings.FieldsFunc(body, func(r rune) bool { return r == ',' || r == ' ' })
	args := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return "", nil, fmt.Errorf("%w: bad number %q in %q", ErrBadEasing, f, s)
		}
		args = append(args, v)
	}
	return name, args, nil
}
