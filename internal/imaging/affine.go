package imaging

import "math"

// Affine represents a 2D affine transformation matrix.
//
// The transformation is represented as a 3x3 matrix:
//
//	| a  b  c |
//	| d  e  f |
//	| 0  0  1 |
//
// This allows for translation, rotation, scaling, and shearing operations.
type Affine struct {
	a, b, c float64 // First row: x' = ax + by + c
	d, e, f float64 // Second row: y' = dx + ey + f
}

// Identity returns the identity transformation (no change).
func Identity() Affine {
	return Affine{
		a: 1, b: 0, c: 0,
		d: 0, e: 1, f: 0,
	}
}

// Translate returns a translation transformation that shifts points by (tx, ty).
func Translate(tx, ty float64) Affine {
	return Affine{
		a: 1, b: 0, c: tx,
		d: 0, e: 1, f: ty,
	}
}

// Scale returns a scaling transformation that scales by (sx, sy) around the origin.
// Use negative values to flip the image.
func Scale(sx, sy float64) Affine {
	return Affine{
		a: sx, b: 0, c: 0,
		d: 0, e: sy, f: 0,
	}
}

// Rotate returns a rotation transformation that rotates by angle (in radians)
// around the origin. The matrix is the standard 2D rotation
// [[cos,-sin],[sin,cos]] embedded in the homogeneous form.
func Rotate(angle float64) Affine {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Affine{
		a: cos, b: -sin, c: 0,
		d: sin, e: cos, f: 0,
	}
}

// Multiply returns the result of multiplying this affine transform by another.
// The result applies 'other' first, then 'this'.
func (t Affine) Multiply(other Affine) Affine {
	return Affine{
		a: t.a*other.a + t.b*other.d,
		b: t.a*other.b + t.b*other.e,
		c: t.a*other.c + t.b*other.f + t.c,
		d: t.d*other.a + t.e*other.d,
		e: t.d*other.b + t.e*other.e,
		f: t.d*other.c + t.e*other.f + t.f,
	}
}

// Invert returns the inverse transformation.
// Returns false if the matrix is singular (non-invertible).
func (t Affine) Invert() (Affine, bool) {
	det := t.a*t.e - t.b*t.d
	if math.Abs(det) < 1e-10 {
		return Affine{}, false
	}

	invDet := 1.0 / det

	return Affine{
		a: t.e * invDet,
		b: -t.b * invDet,
		c: (t.b*t.f - t.c*t.e) * invDet,
		d: -t.d * invDet,
		e: t.a * invDet,
		f: (t.c*t.d - t.a*t.f) * invDet,
	}, true
}

// TransformPoint applies the affine transformation to point (x, y).
func (t Affine) TransformPoint(x, y float64) (float64, float64) {
	return t.a*x + t.b*y + t.c, t.d*x + t.e*y + t.f
}

// RotateAt returns a rotation transformation that rotates by angle (in
// radians) around the point (cx, cy).
func RotateAt(angle, cx, cy float64) Affine {
	// Translate to origin, rotate, translate back
	return Translate(cx, cy).Multiply(Rotate(angle)).Multiply(Translate(-cx, -cy))
}

// ScaleAt returns a scaling transformation that scales by (sx, sy)
// around the point (cx, cy).
func ScaleAt(sx, sy, cx, cy float64) Affine {
	return Translate(cx, cy).Multiply(Scale(sx, sy)).Multiply(Translate(-cx, -cy))
}

// Mat3Uniforms packs the matrix for a WGSL mat3x3<f32> uniform.
// Uniform mat3x3 columns are vec4-aligned, so each column takes four
// floats with a zero pad.
func (t Affine) Mat3Uniforms() []float32 {
	return []float32{
		float32(t.a), float32(t.d), 0, 0, // column 0
		float32(t.b), float32(t.e), 0, 0, // column 1
		float32(t.c), float32(t.f), 1, 0, // column 2
	}
}
