package photokit

import (
	"math"
)

// OpCrop is the registry identifier of the crop operation.
const OpCrop = "crop"

// CropOp cuts the surface down to a sub-rectangle given by two normalized
// corner vectors. Coordinates are relative to the current surface size, so
// the same crop composes correctly after a rotation or another crop.
type CropOp struct {
	opts *OptionSet
}

func cropSchema() Schema {
	return Schema{
		"start": {Kind: KindVec2, Default: V2(0, 0), Validate: unitVecValidator},
		"end":   {Kind: KindVec2, Default: V2(1, 1), Validate: unitVecValidator},
	}
}

// NewCrop builds a crop operation. start and end are the top-left and
// bottom-right corners in normalized [0,1] coordinates; start must lie
// above and left of end for the region to be renderable.
func NewCrop(start, end Vec2) (*CropOp, error) {
	return newCrop(Options{"start": start, "end": end})
}

func newCrop(opts Options) (*CropOp, error) {
	set, err := newOptionSet(OpCrop, cropSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &CropOp{opts: set}, nil
}

func init() {
	RegisterOperation(OpCrop, func(opts Options) (Operation, error) {
		return newCrop(opts)
	})
}

// Identifier implements Operation.
func (o *CropOp) Identifier() string { return OpCrop }

// Options implements Operation.
func (o *CropOp) Options() *OptionSet { return o.opts }

// Set implements Operation.
func (o *CropOp) Set(opts Options) error { return o.opts.Set(opts) }

// NewDimensions scales the input by the normalized crop size, floored, with
// a one-pixel minimum per axis.
func (o *CropOp) NewDimensions(dims Vec2) Vec2 {
	size := o.opts.Vec2("end").Sub(o.opts.Vec2("start"))
	out := dims.Mul(size).Floor()
	if out.X < 1 {
		out.X = 1
	}
	if out.Y < 1 {
		out.Y = 1
	}
	return out
}

// region resolves the crop rectangle in pixels for a w x h surface. The
// returned width and height match NewDimensions for any non-degenerate
// region.
func (o *CropOp) region(w, h int) (x0, y0, cw, ch int, ok bool) {
	start := o.opts.Vec2("start")
	end := o.opts.Vec2("end")
	size := end.Sub(start)
	if size.X <= 0 || size.Y <= 0 {
		return 0, 0, 0, 0, false
	}

	x0 = int(math.Floor(start.X * float64(w)))
	y0 = int(math.Floor(start.Y * float64(h)))
	cw = int(math.Floor(size.X * float64(w)))
	ch = int(math.Floor(size.Y * float64(h)))
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	if x0+cw > w {
		x0 = w - cw
	}
	if y0+ch > h {
		y0 = h - ch
	}
	if x0 < 0 || y0 < 0 {
		return 0, 0, 0, 0, false
	}
	return x0, y0, cw, ch, true
}

// Render implements Operation.
func (o *CropOp) Render(r Renderer) error {
	return dispatch(OpCrop, r, o.renderAccelerated, o.renderSoftware)
}

// renderSoftware copies the crop region row by row into a fresh pixmap.
// A crop is a sub-rectangle view, so pixel values pass through untouched.
func (o *CropOp) renderSoftware(t SoftwareTarget) error {
	src := t.Pixmap()
	if src == nil {
		return renderFailf(OpCrop, "surface not initialized")
	}
	w, h := src.Width(), src.Height()

	x0, y0, cw, ch, ok := o.region(w, h)
	if !ok {
		return renderFailf(OpCrop, "empty crop region")
	}

	out := NewPixmap(cw, ch)
	srcData, dstData := src.Data(), out.Data()
	for y := 0; y < ch; y++ {
		si := ((y0+y)*w + x0) * 4
		di := y * cw * 4
		copy(dstData[di:di+cw*4], srcData[si:si+cw*4])
	}
	t.SetPixmap(out)
	return nil
}

// renderAccelerated samples the crop region into a smaller surface. Origin
// and size are derived from the same pixel rectangle as the software path,
// so both backends read identical texels.
func (o *CropOp) renderAccelerated(t AcceleratedTarget) error {
	dims := t.Dimensions()
	w, h := int(dims.X), int(dims.Y)

	x0, y0, cw, ch, ok := o.region(w, h)
	if !ok {
		return renderFailf(OpCrop, "empty crop region")
	}

	uniforms := []float32{
		float32(x0) / float32(w), float32(y0) / float32(h),
		float32(cw) / float32(w), float32(ch) / float32(h),
	}

	return t.RunPass(&ShaderPass{
		Label:    passCrop,
		WGSL:     cropShaderSource,
		Uniforms: uniforms,
		Target:   V2(float64(cw), float64(ch)),
	})
}
