package photokit

import (
	"context"
	"sort"
	"sync"
)

// RendererKind names a rendering backend capability.
type RendererKind string

const (
	// KindAccelerated is the GPU shader backend. Available after importing
	// the photokit/gpu package on a machine with a usable adapter.
	KindAccelerated RendererKind = "accelerated"

	// KindSoftware is the CPU pixel backend. Always available.
	KindSoftware RendererKind = "software"
)

// Renderer owns the render surface for the duration of one render pass.
//
// The pipeline creates a renderer, initializes it from the source image,
// hands it to each operation in stack order, reads the result back and
// closes it. Operations receive the renderer only for the duration of
// their own Render call and must not retain it.
type Renderer interface {
	// Kind reports the backend capability of this renderer.
	Kind() RendererKind

	// Init creates the render surface from the source pixmap.
	Init(src *Pixmap) error

	// Dimensions returns the current surface size in pixels.
	Dimensions() Vec2

	// Result reads the final surface back into a pixmap.
	Result(ctx context.Context) (*Pixmap, error)

	// Close releases the surface and any backend resources.
	// The renderer is unusable afterwards.
	Close() error
}

// SoftwareTarget is the capability interface of the software backend.
// Fallback render strategies mutate the surface pixmap directly and may
// replace it wholesale for operations that change dimensions.
type SoftwareTarget interface {
	Renderer

	// Pixmap returns the current surface.
	Pixmap() *Pixmap

	// SetPixmap replaces the current surface, e.g. after a rotation
	// produced a new buffer with swapped dimensions.
	SetPixmap(p *Pixmap)
}

// ShaderPass describes one fragment-shader application over the current
// surface: the accelerated render strategy of a single operation.
//
// The binding layout is fixed across all passes:
//
//	@group(0) @binding(0)  sampler
//	@group(0) @binding(1)  current surface texture
//	@group(0) @binding(2)  uniform buffer (Uniforms, vec4-aligned)
//	@group(0) @binding(3)  overlay texture (1x1 white when Overlay is nil)
//
// The vertex stage is a shared fullscreen quad; fragment entry point is
// fs_main. Pipelines are compiled once per Label and cached.
type ShaderPass struct {
	// Label identifies the pass for pipeline caching and debug output.
	// Operations use their identifier; passes that share one shader
	// source share one label.
	Label string

	// WGSL is the complete shader module source.
	WGSL string

	// Uniforms is the packed uniform buffer content. Length must match
	// the shader's uniform block, padded to 16-byte alignment.
	Uniforms []float32

	// Overlay optionally supplies a second texture (sticker, text).
	Overlay *Pixmap

	// Target is the output size of this pass. When it differs from the
	// current surface size the backend resizes its surfaces before
	// drawing.
	Target Vec2
}

// AcceleratedTarget is the capability interface of the GPU backend.
// Accelerated render strategies describe their work as shader passes.
type AcceleratedTarget interface {
	Renderer

	// RunPass executes one shader pass and makes its output the current
	// surface.
	RunPass(p *ShaderPass) error

	// ResizeSurfaces resizes the backend's surfaces to dims, carrying
	// the current content across. Every auxiliary surface is resized
	// first; the surface currently holding the image content is resized
	// last, after its pixels have been carried over.
	ResizeSurfaces(dims Vec2) error
}

// RendererFactory creates a renderer instance for one render pass.
// Factories must be cheap; expensive backend setup (device creation)
// belongs in the backend package and is shared across instances.
type RendererFactory func() (Renderer, error)

var (
	rendererMu        sync.RWMutex
	rendererFactories = map[RendererKind]RendererFactory{}
)

// RegisterRendererFactory registers a renderer factory for a backend kind.
// Backend packages call this from init; registering the same kind again
// replaces the previous factory.
func RegisterRendererFactory(kind RendererKind, f RendererFactory) {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if f == nil {
		delete(rendererFactories, kind)
		return
	}
	rendererFactories[kind] = f
}

// RegisteredRenderers returns the registered backend kinds, sorted.
func RegisteredRenderers() []RendererKind {
	rendererMu.RLock()
	defer rendererMu.RUnlock()
	kinds := make([]RendererKind, 0, len(rendererFactories))
	for k := range rendererFactories {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// newRenderer creates a renderer of the given kind.
func newRenderer(kind RendererKind) (Renderer, error) {
	rendererMu.RLock()
	f, ok := rendererFactories[kind]
	rendererMu.RUnlock()
	if !ok {
		return nil, ErrBackendUnavailable
	}
	return f()
}

func init() {
	RegisterRendererFactory(KindSoftware, func() (Renderer, error) {
		return NewSoftwareRenderer(), nil
	})
}
