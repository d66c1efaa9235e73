package photokit

import (
	"math"

	"github.com/gogpu/photokit/internal/imaging"
)

// OpFrame is the registry identifier of the frame operation.
const OpFrame = "frame"

// FrameOp draws a solid border inset inside the surface edges. thickness is
// a fraction of the shorter side, so the border weight reads the same on
// portrait and landscape images.
type FrameOp struct {
	opts *OptionSet
}

func frameSchema() Schema {
	return Schema{
		"color":     {Kind: KindColor, Default: Black},
		"thickness": {Kind: KindFloat, Default: 0.02, Validate: openRangeValidator(0, 0.5)},
	}
}

// NewFrame builds a frame operation.
func NewFrame(color Color, thickness float64) (*FrameOp, error) {
	return newFrame(Options{"color": color, "thickness": thickness})
}

func newFrame(opts Options) (*FrameOp, error) {
	set, err := newOptionSet(OpFrame, frameSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &FrameOp{opts: set}, nil
}

func init() {
	RegisterOperation(OpFrame, func(opts Options) (Operation, error) {
		return newFrame(opts)
	})
}

// Identifier implements Operation.
func (o *FrameOp) Identifier() string { return OpFrame }

// Options implements Operation.
func (o *FrameOp) Options() *OptionSet { return o.opts }

// Set implements Operation.
func (o *FrameOp) Set(opts Options) error { return o.opts.Set(opts) }

// NewDimensions is neutral; the frame draws inside the surface.
func (o *FrameOp) NewDimensions(dims Vec2) Vec2 { return dims }

// thicknessPx resolves the border thickness in pixels for a w x h surface.
func (o *FrameOp) thicknessPx(w, h int) int {
	shorter := w
	if h < w {
		shorter = h
	}
	t := int(math.Round(o.opts.Float("thickness") * float64(shorter)))
	if t < 1 {
		t = 1
	}
	return t
}

// Render implements Operation.
func (o *FrameOp) Render(r Renderer) error {
	return dispatch(OpFrame, r, o.renderAccelerated, o.renderSoftware)
}

// renderSoftware fills four non-overlapping bars so a translucent frame
// color never blends twice in the corners.
func (o *FrameOp) renderSoftware(t SoftwareTarget) error {
	p := t.Pixmap()
	if p == nil {
		return renderFailf(OpFrame, "surface not initialized")
	}
	w, h := p.Width(), p.Height()
	tpx := o.thicknessPx(w, h)
	c := o.opts.Color("color").NRGBA()

	data := p.Data()
	imaging.FillRect(data, w, h, 0, 0, w, tpx, c.R, c.G, c.B, c.A)
	imaging.FillRect(data, w, h, 0, h-tpx, w, h, c.R, c.G, c.B, c.A)
	imaging.FillRect(data, w, h, 0, tpx, tpx, h-tpx, c.R, c.G, c.B, c.A)
	imaging.FillRect(data, w, h, w-tpx, tpx, w, h-tpx, c.R, c.G, c.B, c.A)
	return nil
}

func (o *FrameOp) renderAccelerated(t AcceleratedTarget) error {
	dims := t.Dimensions()
	tpx := o.thicknessPx(int(dims.X), int(dims.Y))
	c := o.opts.Color("color")

	uniforms := []float32{
		float32(c.R), float32(c.G), float32(c.B), float32(c.A),
		float32(tpx) / float32(dims.X), float32(tpx) / float32(dims.Y), 0, 0,
	}

	return t.RunPass(&ShaderPass{
		Label:    passFrame,
		WGSL:     frameShaderSource,
		Uniforms: uniforms,
		Target:   dims,
	})
}
