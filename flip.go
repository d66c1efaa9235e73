package photokit

import (
	"image"

	"github.com/anthonynsimon/bild/transform"

	"github.com/gogpu/photokit/internal/imaging"
)

// OpFlip is the registry identifier of the flip operation.
const OpFlip = "flip"

// FlipOp mirrors the image across its vertical axis, horizontal axis, or
// both. Dimensions never change.
type FlipOp struct {
	opts *OptionSet
}

func flipSchema() Schema {
	return Schema{
		"horizontal": {Kind: KindBool, Default: false},
		"vertical":   {Kind: KindBool, Default: false},
	}
}

// NewFlip builds a flip operation.
func NewFlip(horizontal, vertical bool) (*FlipOp, error) {
	return newFlip(Options{"horizontal": horizontal, "vertical": vertical})
}

func newFlip(opts Options) (*FlipOp, error) {
	set, err := newOptionSet(OpFlip, flipSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &FlipOp{opts: set}, nil
}

func init() {
	RegisterOperation(OpFlip, func(opts Options) (Operation, error) {
		return newFlip(opts)
	})
}

// Identifier implements Operation.
func (o *FlipOp) Identifier() string { return OpFlip }

// Options implements Operation.
func (o *FlipOp) Options() *OptionSet { return o.opts }

// Set implements Operation.
func (o *FlipOp) Set(opts Options) error { return o.opts.Set(opts) }

// NewDimensions is neutral; a mirror never changes the surface size.
func (o *FlipOp) NewDimensions(dims Vec2) Vec2 { return dims }

// Render implements Operation.
func (o *FlipOp) Render(r Renderer) error {
	return dispatch(OpFlip, r, o.renderAccelerated, o.renderSoftware)
}

func (o *FlipOp) renderSoftware(t SoftwareTarget) error {
	horizontal := o.opts.Bool("horizontal")
	vertical := o.opts.Bool("vertical")
	if !horizontal && !vertical {
		return nil
	}

	src := t.Pixmap()
	if src == nil {
		return renderFailf(OpFlip, "surface not initialized")
	}

	var img image.Image = src.ToImage()
	if horizontal {
		img = transform.FlipH(img)
	}
	if vertical {
		img = transform.FlipV(img)
	}
	t.SetPixmap(FromImage(img))
	return nil
}

// renderAccelerated mirrors through the transform shader with a negative
// scale about the image center.
func (o *FlipOp) renderAccelerated(t AcceleratedTarget) error {
	horizontal := o.opts.Bool("horizontal")
	vertical := o.opts.Bool("vertical")
	if !horizontal && !vertical {
		return nil
	}

	dims := t.Dimensions()
	sx, sy := 1.0, 1.0
	if horizontal {
		sx = -1
	}
	if vertical {
		sy = -1
	}

	forward := imaging.ScaleAt(sx, sy, dims.X/2, dims.Y/2)
	inverse, ok := forward.Invert()
	if !ok {
		return renderFailf(OpFlip, "transform is not invertible")
	}

	uniforms := append(inverse.Mat3Uniforms(),
		float32(dims.X), float32(dims.Y), float32(dims.X), float32(dims.Y))

	return t.RunPass(&ShaderPass{
		Label:    passTransform,
		WGSL:     transformShaderSource,
		Uniforms: uniforms,
		Target:   dims,
	})
}
