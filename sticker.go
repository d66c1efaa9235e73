package photokit

import (
	"errors"
	"image"
	"math"

	"github.com/gogpu/photokit/internal/imaging"
)

// OpSticker is the registry identifier of the sticker operation.
const OpSticker = "sticker"

// StickerOp composites an overlay image onto the surface. position places
// the overlay's top-left corner in normalized surface coordinates; scale
// multiplies the overlay's natural pixel size per axis.
type StickerOp struct {
	opts *OptionSet
}

func stickerSchema() Schema {
	return Schema{
		"image": {
			Kind:    KindImage,
			Default: nil,
			Validate: func(v any) error {
				if v == nil {
					return errors.New("must not be nil")
				}
				return nil
			},
		},
		"position": {Kind: KindVec2, Default: V2(0, 0), Validate: unitVecValidator},
		"scale":    {Kind: KindVec2, Default: V2(1, 1), Validate: positiveVecValidator},
	}
}

// NewSticker builds a sticker operation placing img at the top-left corner
// at natural size. Use the registry form with an Options bag to position
// and scale it.
func NewSticker(img image.Image) (*StickerOp, error) {
	return newSticker(Options{"image": img})
}

func newSticker(opts Options) (*StickerOp, error) {
	set, err := newOptionSet(OpSticker, stickerSchema(), opts)
	if err != nil {
		return nil, err
	}
	if set.Image("image") == nil {
		return nil, &ValidationError{Op: OpSticker, Option: "image", Reason: "required"}
	}
	return &StickerOp{opts: set}, nil
}

func init() {
	RegisterOperation(OpSticker, func(opts Options) (Operation, error) {
		return newSticker(opts)
	})
}

// Identifier implements Operation.
func (o *StickerOp) Identifier() string { return OpSticker }

// Options implements Operation.
func (o *StickerOp) Options() *OptionSet { return o.opts }

// Set implements Operation.
func (o *StickerOp) Set(opts Options) error { return o.opts.Set(opts) }

// NewDimensions is neutral; a sticker draws over the existing surface.
func (o *StickerOp) NewDimensions(dims Vec2) Vec2 { return dims }

// Render implements Operation.
func (o *StickerOp) Render(r Renderer) error {
	return dispatch(OpSticker, r, o.renderAccelerated, o.renderSoftware)
}

// placement resolves the overlay pixmap at natural size plus its scaled
// target size and top-left pixel offset on a surface of the given size.
func (o *StickerOp) placement(dims Vec2) (overlay *Pixmap, tw, th, ox, oy int) {
	overlay = FromImage(o.opts.Image("image"))
	scale := o.opts.Vec2("scale")

	tw = int(math.Round(float64(overlay.Width()) * scale.X))
	th = int(math.Round(float64(overlay.Height()) * scale.Y))
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	pos := o.opts.Vec2("position")
	ox = int(math.Round(pos.X * dims.X))
	oy = int(math.Round(pos.Y * dims.Y))
	return overlay, tw, th, ox, oy
}

func (o *StickerOp) renderSoftware(t SoftwareTarget) error {
	surface := t.Pixmap()
	if surface == nil {
		return renderFailf(OpSticker, "surface not initialized")
	}

	overlay, tw, th, ox, oy := o.placement(surface.Dimensions())
	if tw != overlay.Width() || th != overlay.Height() {
		overlay = FromImage(imaging.Resize(overlay.ToImage(), tw, th))
	}

	imaging.BlendOver(
		surface.Data(), surface.Width(), surface.Height(),
		overlay.Data(), overlay.Width(), overlay.Height(),
		ox, oy, 1,
	)
	return nil
}

// renderAccelerated uploads the overlay at natural size and lets the
// sampler handle scaling through the placement rectangle.
func (o *StickerOp) renderAccelerated(t AcceleratedTarget) error {
	dims := t.Dimensions()
	overlay, tw, th, ox, oy := o.placement(dims)

	uniforms := []float32{
		float32(ox) / float32(dims.X), float32(oy) / float32(dims.Y),
		float32(tw) / float32(dims.X), float32(th) / float32(dims.Y),
		1, 0, 0, 0,
	}

	return t.RunPass(&ShaderPass{
		Label:    passOverlay,
		WGSL:     overlayShaderSource,
		Uniforms: uniforms,
		Overlay:  overlay,
		Target:   dims,
	})
}
