package photokit

import "log/slog"

// EditorOption configures an Editor during creation.
// Use functional options to customize Editor behavior.
//
// Example:
//
//	// Automatic backend selection
//	ed, err := photokit.New(source)
//
//	// Pin the software backend (deterministic, no GPU required)
//	ed, err := photokit.New(source, photokit.WithRendererKind(photokit.KindSoftware))
type EditorOption func(*editorOptions)

// editorOptions holds optional configuration for Editor creation.
type editorOptions struct {
	renderer Renderer     // injected instance; used as-is and never closed
	kind     RendererKind // preferred backend kind, "" selects automatically
	logger   *slog.Logger
	target   *Vec2
}

// defaultEditorOptions returns the default editor options.
func defaultEditorOptions() editorOptions {
	return editorOptions{}
}

// WithRenderer injects a concrete renderer instance for every render pass
// of this editor. The editor does not close an injected renderer; its
// lifetime stays with the caller. This takes precedence over
// WithRendererKind and the environment selection.
func WithRenderer(r Renderer) EditorOption {
	return func(o *editorOptions) {
		o.renderer = r
	}
}

// WithRendererKind pins the backend kind for this editor, bypassing the
// environment variable and the automatic preference for the accelerated
// backend.
func WithRendererKind(kind RendererKind) EditorOption {
	return func(o *editorOptions) {
		o.kind = kind
	}
}

// WithLogger routes this editor's log output through l instead of the
// package logger.
func WithLogger(l *slog.Logger) EditorOption {
	return func(o *editorOptions) {
		o.logger = l
	}
}

// WithTargetDimensions renders at the given output size instead of the
// source's native size. The surface is scaled to the target before the
// first operation runs.
func WithTargetDimensions(dims Vec2) EditorOption {
	return func(o *editorOptions) {
		d := dims
		o.target = &d
	}
}
