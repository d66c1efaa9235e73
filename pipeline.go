package photokit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/photokit/internal/imaging"
)

// EnvRenderer selects the render backend when no editor-level override is
// given. Valid values are "accelerated" and "software"; anything else is
// ignored with a warning.
const EnvRenderer = "PHOTOKIT_RENDERER"

// resolveKind picks the backend kind for one render pass: explicit editor
// preference first, then the environment, then accelerated when a backend
// has registered it, software otherwise.
func resolveKind(preferred RendererKind) RendererKind {
	if preferred != "" {
		return preferred
	}

	if env := os.Getenv(EnvRenderer); env != "" {
		switch RendererKind(env) {
		case KindAccelerated, KindSoftware:
			return RendererKind(env)
		default:
			Logger().Warn("ignoring unknown renderer kind",
				"env", EnvRenderer, "value", env)
		}
	}

	for _, k := range RegisteredRenderers() {
		if k == KindAccelerated {
			return KindAccelerated
		}
	}
	return KindSoftware
}

// acquireRenderer creates a renderer of the resolved kind. A failing
// accelerated setup falls back to software before any operation runs; the
// backend choice never changes mid-pass.
func acquireRenderer(kind RendererKind, log logHandle) (Renderer, error) {
	r, err := newRenderer(kind)
	if err == nil {
		return r, nil
	}
	if kind == KindAccelerated {
		log.Warn("accelerated renderer unavailable, falling back to software",
			"error", err)
		return newRenderer(KindSoftware)
	}
	return nil, fmt.Errorf("photokit: create %s renderer: %w", kind, err)
}

// planDimensions folds every operation's NewDimensions over the starting
// size in stack order. It touches no surface state.
func planDimensions(ops []Operation, start Vec2) Vec2 {
	dims := start
	for _, op := range ops {
		dims = op.NewDimensions(dims)
	}
	return dims
}

// renderPass runs one full pipeline pass: resolve the backend, initialize
// the surface from the source, optionally pre-scale to the target size,
// execute the operations strictly in order, and read the result back.
//
// Any operation failure aborts the pass with a *RenderError; there is no
// partial output and no retry.
func renderPass(ctx context.Context, source *Pixmap, ops []Operation, eo editorOptions) (*Pixmap, RendererKind, error) {
	if source == nil || source.Width() < 1 || source.Height() < 1 {
		return nil, "", ErrEmptySurface
	}
	log := logHandle{eo.logger}

	var (
		r     Renderer
		owned = true
		err   error
	)
	if eo.renderer != nil {
		r, owned = eo.renderer, false
	} else {
		r, err = acquireRenderer(resolveKind(eo.kind), log)
		if err != nil {
			return nil, "", err
		}
	}
	if owned {
		defer func() { _ = r.Close() }()
	}

	start := source.Dimensions()
	if eo.target != nil {
		start = *eo.target
	}
	planned := planDimensions(ops, start)

	if err := r.Init(source); err != nil {
		return nil, "", fmt.Errorf("photokit: init surface: %w", err)
	}

	if eo.target != nil && !eo.target.Equals(source.Dimensions()) {
		if err := prescale(r, *eo.target); err != nil {
			return nil, "", fmt.Errorf("photokit: scale to target dimensions: %w", err)
		}
	}

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		log.Debug("render operation", "op", op.Identifier(), "dims", r.Dimensions())
		if err := op.Render(r); err != nil {
			return nil, "", asRenderError(op.Identifier(), err)
		}
	}

	if actual := r.Dimensions(); !actual.Equals(planned) {
		log.Warn("rendered dimensions differ from plan",
			"planned", planned, "actual", actual)
	}

	out, err := r.Result(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("photokit: read result: %w", err)
	}
	return out, r.Kind(), nil
}

// prescale resizes the current surface to dims without applying any
// operation semantics.
func prescale(r Renderer, dims Vec2) error {
	w, h := int(dims.X), int(dims.Y)
	if w < 1 || h < 1 {
		return fmt.Errorf("invalid dimensions %dx%d", w, h)
	}
	if r.Dimensions().Equals(dims) {
		return nil
	}

	switch t := r.(type) {
	case AcceleratedTarget:
		return t.ResizeSurfaces(dims)
	case SoftwareTarget:
		t.SetPixmap(FromImage(imaging.Resize(t.Pixmap().ToImage(), w, h)))
		return nil
	default:
		return ErrUnsupportedRenderer
	}
}

// asRenderError wraps an operation failure in a *RenderError unless the
// strategy already produced one.
func asRenderError(op string, err error) error {
	var re *RenderError
	if errors.As(err, &re) {
		return err
	}
	return &RenderError{Op: op, Err: err}
}

// logHandle resolves the editor logger lazily so WithLogger and the
// package default stay interchangeable.
type logHandle struct {
	l *slog.Logger
}

func (h logHandle) Debug(msg string, args ...any) {
	if h.l != nil {
		h.l.Debug(msg, args...)
		return
	}
	Logger().Debug(msg, args...)
}

func (h logHandle) Warn(msg string, args ...any) {
	if h.l != nil {
		h.l.Warn(msg, args...)
		return
	}
	Logger().Warn(msg, args...)
}
