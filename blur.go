package photokit

import (
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// OpBlur is the registry identifier of the blur operation.
const OpBlur = "blur"

// maxBlurTaps bounds the separable kernel so its weights fit the fixed-size
// uniform array of the blur shader. 51 taps covers the maximum radius of 25.
const maxBlurTaps = 51

// BlurOp applies a Gaussian blur. The software strategy delegates to bild;
// the accelerated strategy runs a separable two-pass convolution with the
// kernel weights in the uniform buffer.
type BlurOp struct {
	opts *OptionSet
}

func blurSchema() Schema {
	return Schema{
		"radius": {Kind: KindFloat, Default: 2.0, Validate: openRangeValidator(0, 25)},
	}
}

// NewBlur builds a blur operation with the given radius in pixels,
// in (0, 25].
func NewBlur(radius float64) (*BlurOp, error) {
	return newBlur(Options{"radius": radius})
}

func newBlur(opts Options) (*BlurOp, error) {
	set, err := newOptionSet(OpBlur, blurSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &BlurOp{opts: set}, nil
}

func init() {
	RegisterOperation(OpBlur, func(opts Options) (Operation, error) {
		return newBlur(opts)
	})
}

// Identifier implements Operation.
func (o *BlurOp) Identifier() string { return OpBlur }

// Options implements Operation.
func (o *BlurOp) Options() *OptionSet { return o.opts }

// Set implements Operation.
func (o *BlurOp) Set(opts Options) error { return o.opts.Set(opts) }

// NewDimensions is neutral.
func (o *BlurOp) NewDimensions(dims Vec2) Vec2 { return dims }

// Render implements Operation.
func (o *BlurOp) Render(r Renderer) error {
	return dispatch(OpBlur, r, o.renderAccelerated, o.renderSoftware)
}

func (o *BlurOp) renderSoftware(t SoftwareTarget) error {
	src := t.Pixmap()
	if src == nil {
		return renderFailf(OpBlur, "surface not initialized")
	}
	out := blur.Gaussian(src.ToImage(), o.opts.Float("radius"))
	t.SetPixmap(FromImage(out))
	return nil
}

func (o *BlurOp) renderAccelerated(t AcceleratedTarget) error {
	dims := t.Dimensions()
	weights, taps := gaussianKernel(o.opts.Float("radius"))

	horizontal := blurUniforms(1, 0, dims, taps, weights)
	if err := t.RunPass(&ShaderPass{
		Label:    passBlur,
		WGSL:     blurShaderSource,
		Uniforms: horizontal,
		Target:   dims,
	}); err != nil {
		return err
	}

	vertical := blurUniforms(0, 1, dims, taps, weights)
	return t.RunPass(&ShaderPass{
		Label:    passBlur,
		WGSL:     blurShaderSource,
		Uniforms: vertical,
		Target:   dims,
	})
}

// gaussianKernel returns normalized weights for a centered 1D kernel,
// padded to the shader's fixed uniform array size, plus the tap count.
func gaussianKernel(radius float64) ([]float32, int) {
	taps := 2*int(math.Ceil(radius)) + 1
	if taps > maxBlurTaps {
		taps = maxBlurTaps
	}

	sigma := radius / 2
	if sigma < 0.5 {
		sigma = 0.5
	}

	mid := float64(taps-1) / 2
	raw := make([]float64, taps)
	var sum float64
	for i := range raw {
		d := float64(i) - mid
		raw[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += raw[i]
	}

	// 64 floats fill the array<vec4<f32>, 16> uniform exactly.
	weights := make([]float32, 64)
	for i, w := range raw {
		weights[i] = float32(w / sum)
	}
	return weights, taps
}

// blurUniforms packs one pass of the separable blur: direction, texel size,
// tap count, then the padded weight array.
func blurUniforms(dx, dy float32, dims Vec2, taps int, weights []float32) []float32 {
	u := make([]float32, 0, 8+len(weights))
	u = append(u, dx, dy, float32(1/dims.X), float32(1/dims.Y), float32(taps), 0, 0, 0)
	return append(u, weights...)
}
