package photokit

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector used for dimensions, positions and normalized
// coordinates throughout the pipeline.
//
// Vec2 is a value type: every method returns a new value and never mutates
// the receiver, so vectors can be shared freely between operations without
// copying.
type Vec2 struct {
	X, Y float64
}

// V2 is a convenience function to create a Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the component-wise sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the component-wise difference of two vectors.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the component-wise product of two vectors.
func (v Vec2) Mul(w Vec2) Vec2 {
	return Vec2{X: v.X * w.X, Y: v.Y * w.Y}
}

// Div returns the component-wise quotient of two vectors.
// Division by a zero component follows IEEE 754 and yields ±Inf or NaN;
// guarding against zero divisors is the caller's responsibility.
func (v Vec2) Div(w Vec2) Vec2 {
	return Vec2{X: v.X / w.X, Y: v.Y / w.Y}
}

// Scale returns the vector scaled by a scalar.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Abs returns the vector with both components made non-negative.
func (v Vec2) Abs() Vec2 {
	return Vec2{X: math.Abs(v.X), Y: math.Abs(v.Y)}
}

// Floor returns the vector with both components rounded down.
func (v Vec2) Floor() Vec2 {
	return Vec2{X: math.Floor(v.X), Y: math.Floor(v.Y)}
}

// Round returns the vector with both components rounded to the nearest
// integer, halves away from zero.
func (v Vec2) Round() Vec2 {
	return Vec2{X: math.Round(v.X), Y: math.Round(v.Y)}
}

// Swap returns the vector with its axes exchanged.
// A 90° or 270° rotation maps dimensions through Swap.
func (v Vec2) Swap() Vec2 {
	return Vec2{X: v.Y, Y: v.X}
}

// Lerp performs linear interpolation between two vectors.
// t=0 returns v, t=1 returns w, intermediate values interpolate.
func (v Vec2) Lerp(w Vec2, t float64) Vec2 {
	return Vec2{
		X: v.X + (w.X-v.X)*t,
		Y: v.Y + (w.Y-v.Y)*t,
	}
}

// Clamp bounds each component independently. A nil bound means no
// constraint on that side: Clamp(nil, &max) only bounds from above,
// Clamp(&min, nil) only from below.
//
// The upper bound is applied before the lower bound, so when the bounds
// cross (min.X > max.X) the lower bound wins and the result is min.X.
func (v Vec2) Clamp(min, max *Vec2) Vec2 {
	out := v
	if max != nil {
		out.X = math.Min(out.X, max.X)
		out.Y = math.Min(out.Y, max.Y)
	}
	if min != nil {
		out.X = math.Max(out.X, min.X)
		out.Y = math.Max(out.Y, min.Y)
	}
	return out
}

// Clamp01 bounds each component to the normalized [0,1] range.
func (v Vec2) Clamp01() Vec2 {
	lo, hi := Vec2{}, Vec2{X: 1, Y: 1}
	return v.Clamp(&lo, &hi)
}

// Equals reports whether two vectors are exactly equal.
func (v Vec2) Equals(w Vec2) bool {
	return v.X == w.X && v.Y == w.Y
}

// Approx reports whether two vectors are approximately equal within epsilon.
func (v Vec2) Approx(w Vec2, epsilon float64) bool {
	return math.Abs(v.X-w.X) < epsilon && math.Abs(v.Y-w.Y) < epsilon
}

// IsZero reports whether the vector is the zero vector.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// InUnitRange reports whether both components lie within [0,1].
// Normalized crop and overlay coordinates are validated with this.
func (v Vec2) InUnitRange() bool {
	return v.X >= 0 && v.X <= 1 && v.Y >= 0 && v.Y <= 1
}

// String formats the vector for logs and error messages.
func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
