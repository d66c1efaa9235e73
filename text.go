package photokit

import (
	"errors"
	"math"

	"github.com/gogpu/photokit/internal/imaging"
	"github.com/gogpu/photokit/internal/textrender"
)

// OpText is the registry identifier of the text operation.
const OpText = "text"

// TextOp draws a single line of text over the surface. The line is shaped
// and rasterized into an overlay at a pixel size proportional to the
// surface height, then composited at the anchored position.
type TextOp struct {
	opts *OptionSet
}

func textSchema() Schema {
	return Schema{
		"text": {
			Kind:    KindString,
			Default: "",
			Validate: func(v any) error {
				if v.(string) == "" {
					return errors.New("must not be empty")
				}
				return nil
			},
		},
		"position": {Kind: KindVec2, Default: V2(0, 0), Validate: unitVecValidator},
		"size":     {Kind: KindFloat, Default: 0.05, Validate: openRangeValidator(0, 1)},
		"color":    {Kind: KindColor, Default: White},
		"font":     {Kind: KindBytes, Default: []byte(nil)},
		"anchor":   {Kind: KindString, Default: "left", Validate: oneOfValidator("left", "center", "right")},
	}
}

// NewText builds a text operation with defaults for everything but the
// string itself. Use the registry form with an Options bag for full control
// over position, size, color, font and anchor.
func NewText(text string) (*TextOp, error) {
	return newText(Options{"text": text})
}

func newText(opts Options) (*TextOp, error) {
	set, err := newOptionSet(OpText, textSchema(), opts)
	if err != nil {
		return nil, err
	}
	if set.String("text") == "" {
		return nil, &ValidationError{Op: OpText, Option: "text", Reason: "required"}
	}
	return &TextOp{opts: set}, nil
}

func init() {
	RegisterOperation(OpText, func(opts Options) (Operation, error) {
		return newText(opts)
	})
}

// Identifier implements Operation.
func (o *TextOp) Identifier() string { return OpText }

// Options implements Operation.
func (o *TextOp) Options() *OptionSet { return o.opts }

// Set implements Operation.
func (o *TextOp) Set(opts Options) error { return o.opts.Set(opts) }

// NewDimensions is neutral; text draws over the existing surface.
func (o *TextOp) NewDimensions(dims Vec2) Vec2 { return dims }

// Render implements Operation.
func (o *TextOp) Render(r Renderer) error {
	return dispatch(OpText, r, o.renderAccelerated, o.renderSoftware)
}

// layoutLine rasterizes the configured line for a surface of the given size
// and returns it with the pixel offset at which its image is composited.
// The anchor point is the top-left of the line box; center and right
// anchors shift it by the shaped width.
func (o *TextOp) layoutLine(dims Vec2) (*textrender.Line, int, int, error) {
	px := o.opts.Float("size") * dims.Y
	line, err := textrender.Render(
		o.opts.String("text"),
		o.opts.Bytes("font"),
		px,
		o.opts.Color("color").NRGBA(),
	)
	if err != nil {
		return nil, 0, 0, err
	}

	pos := o.opts.Vec2("position")
	anchorX := pos.X * dims.X
	switch o.opts.String("anchor") {
	case "center":
		anchorX -= line.Width / 2
	case "right":
		anchorX -= line.Width
	}

	// The pen origin sits Ascent below the top of the line box.
	ox := int(math.Round(anchorX)) - line.Origin.X
	oy := int(math.Round(pos.Y*dims.Y+line.Ascent)) - line.Origin.Y
	return line, ox, oy, nil
}

func (o *TextOp) renderSoftware(t SoftwareTarget) error {
	surface := t.Pixmap()
	if surface == nil {
		return renderFailf(OpText, "surface not initialized")
	}

	line, ox, oy, err := o.layoutLine(surface.Dimensions())
	if err != nil {
		return err
	}

	bounds := line.Image.Bounds()
	imaging.BlendOver(
		surface.Data(), surface.Width(), surface.Height(),
		line.Image.Pix, bounds.Dx(), bounds.Dy(),
		ox, oy, 1,
	)
	return nil
}

func (o *TextOp) renderAccelerated(t AcceleratedTarget) error {
	dims := t.Dimensions()
	line, ox, oy, err := o.layoutLine(dims)
	if err != nil {
		return err
	}

	overlay := FromImage(line.Image)
	uniforms := []float32{
		float32(ox) / float32(dims.X), float32(oy) / float32(dims.Y),
		float32(overlay.Width()) / float32(dims.X), float32(overlay.Height()) / float32(dims.Y),
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
