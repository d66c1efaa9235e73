package photokit

import (
	"errors"
	"math"

	"github.com/gogpu/photokit/internal/imaging"
)

// OpRotation is the registry identifier of the rotation operation.
const OpRotation = "rotation"

// RotationOp rotates the image by a whole multiple of 90 degrees. Positive
// angles rotate clockwise; negative and out-of-turn angles are normalized
// into [0, 360) before rendering.
type RotationOp struct {
	opts *OptionSet
}

func rotationSchema() Schema {
	return Schema{
		"degrees": {
			Kind:    KindFloat,
			Default: 0.0,
			Validate: func(v any) error {
				d := v.(float64)
				if math.IsNaN(d) || math.IsInf(d, 0) || math.Mod(d, 90) != 0 {
					return errors.New("must be a multiple of 90")
				}
				return nil
			},
		},
	}
}

// NewRotation builds a rotation operation. degrees must be a whole multiple
// of 90.
func NewRotation(degrees float64) (*RotationOp, error) {
	return newRotation(Options{"degrees": degrees})
}

func newRotation(opts Options) (*RotationOp, error) {
	set, err := newOptionSet(OpRotation, rotationSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &RotationOp{opts: set}, nil
}

func init() {
	RegisterOperation(OpRotation, func(opts Options) (Operation, error) {
		return newRotation(opts)
	})
}

// Identifier implements Operation.
func (o *RotationOp) Identifier() string { return OpRotation }

// Options implements Operation.
func (o *RotationOp) Options() *OptionSet { return o.opts }

// Set implements Operation.
func (o *RotationOp) Set(opts Options) error { return o.opts.Set(opts) }

// effectiveDegrees normalizes the configured angle into [0, 360).
func (o *RotationOp) effectiveDegrees() float64 {
	d := math.Mod(o.opts.Float("degrees"), 360)
	if d < 0 {
		d += 360
	}
	return d
}

// NewDimensions swaps width and height when the effective angle is an odd
// multiple of 90.
func (o *RotationOp) NewDimensions(dims Vec2) Vec2 {
	if math.Mod(o.effectiveDegrees(), 180) != 0 {
		return dims.Swap()
	}
	return dims
}

// Render implements Operation.
func (o *RotationOp) Render(r Renderer) error {
	return dispatch(OpRotation, r, o.renderAccelerated, o.renderSoftware)
}

// renderSoftware rotates by exact pixel transposition. Right-angle turns
// never resample, so every pixel survives byte for byte.
func (o *RotationOp) renderSoftware(t SoftwareTarget) error {
	deg := o.effectiveDegrees()
	if deg == 0 {
		return nil
	}

	src := t.Pixmap()
	if src == nil {
		return renderFailf(OpRotation, "surface not initialized")
	}
	w, h := src.Width(), src.Height()

	switch deg {
	case 90:
		t.SetPixmap(NewPixmapFromData(h, w, imaging.Rotate90(src.Data(), w, h)))
	case 180:
		t.SetPixmap(NewPixmapFromData(w, h, imaging.Rotate180(src.Data(), w, h)))
	case 270:
		t.SetPixmap(NewPixmapFromData(h, w, imaging.Rotate270(src.Data(), w, h)))
	default:
		return renderFailf(OpRotation, "unsupported angle %v", deg)
	}
	return nil
}

// renderAccelerated redraws the surface through the transform shader. The
// shader maps destination pixels back to source pixels, so the uploaded
// matrix is the inverse of the forward rotation about the image center.
func (o *RotationOp) renderAccelerated(t AcceleratedTarget) error {
	deg := o.effectiveDegrees()
	if deg == 0 {
		return nil
	}

	src := t.Dimensions()
	dst := o.NewDimensions(src)

	theta := deg * math.Pi / 180
	forward := imaging.Translate(dst.X/2, dst.Y/2).
		Multiply(imaging.Rotate(theta)).
		Multiply(imaging.Translate(-src.X/2, -src.Y/2))
	inverse, ok := forward.Invert()
	if !ok {
		return renderFailf(OpRotation, "transform is not invertible")
	}

	uniforms := append(inverse.Mat3Uniforms(),
		float32(src.X), float32(src.Y), float32(dst.X), float32(dst.Y))

	return t.RunPass(&ShaderPass{
		Label:    passTransform,
		WGSL:     transformShaderSource,
		Uniforms: uniforms,
		Target:   dst,
	})
}
