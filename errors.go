package photokit

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the pipeline and renderers.
// Wrap checks should use errors.Is.
var (
	// ErrUnsupportedRenderer is returned when an operation is dispatched
	// against a renderer that is neither a software nor an accelerated
	// target.
	ErrUnsupportedRenderer = errors.New("photokit: unsupported renderer")

	// ErrBackendUnavailable is returned when the requested renderer kind
	// has no registered factory or its backend failed to initialize.
	ErrBackendUnavailable = errors.New("photokit: render backend not available")

	// ErrSurfaceClosed is returned when a renderer is used after Close.
	ErrSurfaceClosed = errors.New("photokit: render surface closed")

	// ErrEmptySurface is returned when a render pass would produce a
	// surface with no pixels, e.g. a degenerate crop region.
	ErrEmptySurface = errors.New("photokit: empty render surface")

	// ErrMissingSource is returned when an editor is constructed without
	// a source image.
	ErrMissingSource = errors.New("photokit: missing source image")

	// ErrUnknownOperation is returned when the operation registry has no
	// constructor for the requested identifier.
	ErrUnknownOperation = errors.New("photokit: unknown operation")
)

// ValidationError reports an option value that failed its declared
// validator, or a structurally invalid option. It is returned synchronously
// from operation constructors and Set calls, never from a render pass.
type ValidationError struct {
	// Op is the identifier of the operation the option belongs to.
	Op string

	// Option is the option name, empty when the whole option set is at
	// fault.
	Option string

	// Reason describes the constraint that was violated.
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("photokit: %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("photokit: %s: option %q: %s", e.Op, e.Option, e.Reason)
}

// UnsupportedCombinationError reports an export request whose format and
// delivery mode pair is outside the supported set. It is returned before
// any encoding work begins.
type UnsupportedCombinationError struct {
	Format ExportFormat
	Mode   DeliveryMode
}

func (e *UnsupportedCombinationError) Error() string {
	return fmt.Sprintf("photokit: export format %q cannot be delivered as %q", e.Format, e.Mode)
}

// RenderError reports an unrecoverable failure inside a render pass. The
// pass that produced it is aborted; no partial output is valid.
type RenderError struct {
	// Op is the identifier of the operation that failed, or "pipeline"
	// for failures outside any operation's render step.
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("photokit: render %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// renderFailf wraps err into a RenderError for operation op.
func renderFailf(op string, format string, args ...any) *RenderError {
	return &RenderError{Op: op, Err: fmt.Errorf(format, args...)}
}
