package photokit

import (
	"context"
	"image"
	"io"

	"github.com/gogpu/photokit/internal/imaging"
)

// Editor applies an ordered operation stack to one source image.
//
// Stack edits and renders are decoupled: the stack may be rearranged freely
// between passes, and each Render sees a consistent snapshot of it. One
// editor runs at most one render or export pass at a time; concurrent
// passes on the same editor are the caller's bug. Separate editors are
// fully independent.
type Editor struct {
	source *Pixmap
	stack  *OperationStack
	opts   editorOptions
}

// New creates an editor for the given source pixmap.
func New(source *Pixmap, opts ...EditorOption) (*Editor, error) {
	if source == nil || source.Width() < 1 || source.Height() < 1 {
		return nil, ErrMissingSource
	}
	eo := defaultEditorOptions()
	for _, opt := range opts {
		opt(&eo)
	}
	return &Editor{
		source: source,
		stack:  NewOperationStack(),
		opts:   eo,
	}, nil
}

// NewFromImage creates an editor from a standard library image.
func NewFromImage(img image.Image, opts ...EditorOption) (*Editor, error) {
	if img == nil {
		return nil, ErrMissingSource
	}
	return New(FromImage(img), opts...)
}

// Open creates an editor from an image file (PNG or JPEG).
func Open(path string, opts ...EditorOption) (*Editor, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}
	return NewFromImage(img, opts...)
}

// NewFromReader creates an editor from an encoded image stream.
func NewFromReader(r io.Reader, opts ...EditorOption) (*Editor, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, err
	}
	return NewFromImage(img, opts...)
}

// Source returns the source pixmap. The editor never mutates it; every
// render pass works on a copy.
func (e *Editor) Source() *Pixmap {
	return e.source
}

// Stack returns the editor's operation stack.
func (e *Editor) Stack() *OperationStack {
	return e.stack
}

// Apply constructs a registered operation from an option bag and pushes it
// onto the stack. Validation failures surface before the stack changes.
func (e *Editor) Apply(identifier string, opts Options) (Operation, error) {
	op, err := NewOperation(identifier, opts)
	if err != nil {
		return nil, err
	}
	e.stack.Push(op)
	return op, nil
}

// PlannedDimensions returns the output size the current stack would
// produce, without rendering.
func (e *Editor) PlannedDimensions() Vec2 {
	start := e.source.Dimensions()
	if e.opts.target != nil {
		start = *e.opts.target
	}
	return planDimensions(e.stack.snapshot(), start)
}

// RenderOptions adjusts a single render pass.
type RenderOptions struct {
	// TargetDimensions overrides the editor-level target size for this
	// pass. Nil keeps the editor configuration.
	TargetDimensions *Vec2
}

// RenderResult is the outcome of one render pass.
type RenderResult struct {
	// Pixmap holds the rendered pixels. Ownership transfers to the caller.
	Pixmap *Pixmap

	// Dimensions is the rendered size in pixels.
	Dimensions Vec2

	// Renderer is the backend kind that produced the result.
	Renderer RendererKind
}

// Render runs the operation stack over the source and returns the final
// surface. The context cancels between operations; a render never partially
// commits.
func (e *Editor) Render(ctx context.Context, opts RenderOptions) (*RenderResult, error) {
	eo := e.opts
	if opts.TargetDimensions != nil {
		d := *opts.TargetDimensions
		eo.target = &d
	}

	out, kind, err := renderPass(ctx, e.source, e.stack.snapshot(), eo)
	if err != nil {
		return nil, err
	}
	return &RenderResult{
		Pixmap:     out,
		Dimensions: out.Dimensions(),
		Renderer:   kind,
	}, nil
}
