package animation

import "math"

// A curve maps normalized progress t in [0, 1] to eased progress. Curves
// return exactly 0 at t <= 0 and exactly 1 at t >= 1, so a pass always
// starts and ends on its endpoint values.
//
// Named curves use the CSS keyword control points: [LinearCurve], [Ease],
// [EaseIn], [EaseOut], [EaseInOut]. Use [CubicBezier] for
// cubic-bezier(x1, y1, x2, y2), or [ParseEasing] to build a curve from a
// document string.

// LinearCurve returns linear progress (no easing).
func LinearCurve(t float64) float64 {
	return t
}

// Ease is CSS ease.
var Ease = CubicBezier(0.25, 0.1, 0.25, 1.0)

// EaseIn is CSS ease-in: slow start.
var EaseIn = CubicBezier(0.42, 0.0, 1.0, 1.0)

// EaseOut is CSS ease-out: slow end.
var EaseOut = CubicBezier(0.0, 0.0, 0.58, 1.0)

// EaseInOut is CSS ease-in-out. Scroll commands use it by default.
var EaseInOut = CubicBezier(0.42, 0.0, 0.58, 1.0)

const bezierEpsilon = 1e-7

// bezier is a unit cubic bezier from (0,0) to (1,1), stored as polynomial
// coefficients for x(u) and y(u).
type bezier struct {
	ax, bx, cx float64
	ay, by, cy float64
}

func newBezier(x1, y1, x2, y2 float64) bezier {
	var b bezier
	b.cx = 3 * x1
	b.bx = 3*(x2-x1) - b.cx
	b.ax = 1 - b.cx - b.bx
	b.cy = 3 * y1
	b.by = 3*(y2-y1) - b.cy
	b.ay = 1 - b.cy - b.by
	return b
}

func (b bezier) x(u float64) float64 { return ((b.ax*u+b.bx)*u + b.cx) * u }
func (b bezier) y(u float64) float64 { return ((b.ay*u+b.by)*u + b.cy) * u }
func (b bezier) dx(u float64) float64 {
	return (3*b.ax*u+2*b.bx)*u + b.cx
}

// solve finds u with x(u) == x: Newton's method first, bisection when the
// slope is too flat for Newton to make progress.
func (b bezier) solve(x float64) float64 {
	u := x
	for range 8 {
		err := b.x(u) - x
		if math.Abs(err) < bezierEpsilon {
			return u
		}
		d := b.dx(u)
		if math.Abs(d) < bezierEpsilon {
			break
		}
		u -= err / d
	}

	lo, hi := 0.0, 1.0
	u = math.Min(math.Max(u, lo), hi)
	for lo < hi {
		err := b.x(u) - x
		if math.Abs(err) < bezierEpsilon {
			break
		}
		if err > 0 {
			hi = u
		} else {
			lo = u
		}
		next := (lo + hi) / 2
		if next == u {
			break
		}
		u = next
	}
	return u
}

// CubicBezier returns the curve of CSS cubic-bezier(x1, y1, x2, y2). The
// x coordinates should lie in [0, 1]; y may overshoot.
func CubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	b := newBezier(x1, y1, x2, y2)
	return func(t float64) float64 {
		switch {
		case t <= 0:
			return 0
		case t >= 1:
			return 1
		}
		return b.y(b.solve(t))
	}
}
