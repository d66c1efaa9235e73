package photokit

import (
	"fmt"
	"sort"
	"sync"
)

// OpFilter is the registry identifier of the filter operation.
const OpFilter = "filter"

var (
	filterMu      sync.RWMutex
	filterPresets = map[string]ColorMatrix{}
)

func init() {
	RegisterFilterPreset("none", IdentityMatrix())
	RegisterFilterPreset("grayscale", GrayscaleMatrix())
	RegisterFilterPreset("sepia", SepiaMatrix())

	// moonlight: desaturated, slightly lifted, pulled toward blue.
	RegisterFilterPreset("moonlight",
		BrightnessMatrix(0.06).
			Multiply(TintMatrix(NewColor(0.55, 0.65, 1, 0.12))).
			Multiply(SaturationMatrix(0.55)))

	// lomo: punchy contrast, oversaturated, warm cast.
	RegisterFilterPreset("lomo",
		TintMatrix(NewColor(1, 0.85, 0.6, 0.08)).
			Multiply(SaturationMatrix(1.35)).
			Multiply(ContrastMatrix(1.25)))
}

// RegisterFilterPreset adds or replaces a named filter preset. Presets are
// pre-composed color matrices looked up by the filter operation at render
// time.
func RegisterFilterPreset(name string, m ColorMatrix) {
	filterMu.Lock()
	defer filterMu.Unlock()
	filterPresets[name] = m
}

// FilterPreset returns the matrix registered under name.
func FilterPreset(name string) (ColorMatrix, bool) {
	filterMu.RLock()
	defer filterMu.RUnlock()
	m, ok := filterPresets[name]
	return m, ok
}

// FilterPresets returns the registered preset names, sorted.
func FilterPresets() []string {
	filterMu.RLock()
	defer filterMu.RUnlock()
	names := make([]string, 0, len(filterPresets))
	for name := range filterPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FilterOp applies a named preset: a pre-composed color matrix from the
// preset registry.
type FilterOp struct {
	opts *OptionSet
}

func filterSchema() Schema {
	return Schema{
		"name": {
			Kind:    KindString,
			Default: "none",
			Validate: func(v any) error {
				name := v.(string)
				if _, ok := FilterPreset(name); !ok {
					return fmt.Errorf("unknown preset %q", name)
				}
				return nil
			},
		},
	}
}

// NewFilter builds a filter operation for a registered preset name.
func NewFilter(name string) (*FilterOp, error) {
	return newFilter(Options{"name": name})
}

func newFilter(opts Options) (*FilterOp, error) {
	set, err := newOptionSet(OpFilter, filterSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &FilterOp{opts: set}, nil
}

func init() {
	RegisterOperation(OpFilter, func(opts Options) (Operation, error) {
		return newFilter(opts)
	})
}

// Identifier implements Operation.
func (o *FilterOp) Identifier() string { return OpFilter }

// Options implements Operation.
func (o *FilterOp) Options() *OptionSet { return o.opts }

// Set implements Operation.
func (o *FilterOp) Set(opts Options) error { return o.opts.Set(opts) }

// NewDimensions is neutral.
func (o *FilterOp) NewDimensions(dims Vec2) Vec2 { return dims }

// Render implements Operation.
func (o *FilterOp) Render(r Renderer) error {
	return dispatch(OpFilter, r, o.renderAccelerated, o.renderSoftware)
}

// preset resolves the configured matrix. The name was validated when set,
// but the preset may have been deregistered since.
func (o *FilterOp) preset() (ColorMatrix, error) {
	name := o.opts.String("name")
	m, ok := FilterPreset(name)
	if !ok {
		return ColorMatrix{}, renderFailf(OpFilter, "preset %q is no longer registered", name)
	}
	return m, nil
}

func (o *FilterOp) renderSoftware(t SoftwareTarget) error {
	p := t.Pixmap()
	if p == nil {
		return renderFailf(OpFilter, "surface not initialized")
	}
	m, err := o.preset()
	if err != nil {
		return err
	}
	if m == IdentityMatrix() {
		return nil
	}
	m.Apply(p)
	return nil
}

func (o *FilterOp) renderAccelerated(t AcceleratedTarget) error {
	m, err := o.preset()
	if err != nil {
		return err
	}
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
