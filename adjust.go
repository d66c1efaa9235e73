package photokit

// Registry identifiers of the color adjustment operations.
const (
	OpBrightness = "brightness"
	OpContrast   = "contrast"
	OpSaturation = "saturation"
)

// matrixOp is the shared base of every operation whose render is one color
// matrix application. The concrete operation supplies the function deriving
// its ColorMatrix from the validated options; both strategies then run the
// identical coefficients.
type matrixOp struct {
	id     string
	opts   *OptionSet
	matrix func(*OptionSet) ColorMatrix
}

// Identifier implements Operation.
func (o *matrixOp) Identifier() string { return o.id }

// Options implements Operation.
func (o *matrixOp) Options() *OptionSet { return o.opts }

// Set implements Operation.
func (o *matrixOp) Set(opts Options) error { return o.opts.Set(opts) }

// NewDimensions is neutral; color adjustments never resize.
func (o *matrixOp) NewDimensions(dims Vec2) Vec2 { return dims }

// Render implements Operation.
func (o *matrixOp) Render(r Renderer) error {
	return dispatch(o.id, r, o.renderAccelerated, o.renderSoftware)
}

func (o *matrixOp) renderSoftware(t SoftwareTarget) error {
	p := t.Pixmap()
	if p == nil {
		return renderFailf(o.id, "surface not initialized")
	}
	m := o.matrix(o.opts)
	if m == IdentityMatrix() {
		return nil
	}
	m.Apply(p)
	return nil
}

func (o *matrixOp) renderAccelerated(t AcceleratedTarget) error {
	m := o.matrix(o.opts)
	if m == IdentityMatrix() {
		return nil
	}
	return t.RunPass(&ShaderPass{
		Label:    passColorMatrix,
		WGSL:     colorMatrixShaderSource,
		Uniforms: m.Uniforms(),
		Target:   t.Dimensions(),
	})
}

func brightnessSchema() Schema {
	return Schema{
		"brightness": {Kind: KindFloat, Default: 0.0, Validate: rangeValidator(-1, 1)},
	}
}

// NewBrightness builds a brightness operation. value shifts every channel
// additively: -1 is black, 0 is unchanged, 1 is white.
func NewBrightness(value float64) (Operation, error) {
	return newBrightness(Options{"brightness": value})
}

func newBrightness(opts Options) (Operation, error) {
	set, err := newOptionSet(OpBrightness, brightnessSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &matrixOp{
		id:   OpBrightness,
		opts: set,
		matrix: func(s *OptionSet) ColorMatrix {
			return BrightnessMatrix(float32(s.Float("brightness")))
		},
	}, nil
}

func contrastSchema() Schema {
	return Schema{
		"contrast": {Kind: KindFloat, Default: 1.0, Validate: rangeValidator(0, 4)},
	}
}

// NewContrast builds a contrast operation. factor scales contrast around
// mid-gray: 0 is flat gray, 1 is unchanged.
func NewContrast(factor float64) (Operation, error) {
	return newContrast(Options{"contrast": factor})
}

func newContrast(opts Options) (Operation, error) {
	set, err := newOptionSet(OpContrast, contrastSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &matrixOp{
		id:   OpContrast,
		opts: set,
		matrix: func(s *OptionSet) ColorMatrix {
			return ContrastMatrix(float32(s.Float("contrast")))
		},
	}, nil
}

func saturationSchema() Schema {
	return Schema{
		"saturation": {Kind: KindFloat, Default: 1.0, Validate: rangeValidator(0, 4)},
	}
}

// NewSaturation builds a saturation operation. factor blends between
// grayscale (0) and oversaturated (>1); 1 is unchanged.
func NewSaturation(factor float64) (Operation, error) {
	return newSaturation(Options{"saturation": factor})
}

func newSaturation(opts Options) (Operation, error) {
	set, err := newOptionSet(OpSaturation, saturationSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &matrixOp{
		id:   OpSaturation,
		opts: set,
		matrix: func(s *OptionSet) ColorMatrix {
			return SaturationMatrix(float32(s.Float("saturation")))
		},
	}, nil
}

func init() {
	RegisterOperation(OpBrightness, newBrightness)
	RegisterOperation(OpContrast, newContrast)
	RegisterOperation(OpSaturation, newSaturation)
}
