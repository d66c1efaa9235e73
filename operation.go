package photokit

import (
	"fmt"
	"sort"
	"sync"
)

// Operation is a single configured image transform.
//
// An operation is constructed with an option bag merged over its declared
// defaults and validated eagerly: a value that fails its validator aborts
// construction, strictly before any rendering. After construction the
// option state changes only through Set, which validates atomically.
//
// Operations are reusable across render passes. One instance must not be
// rendered from multiple passes concurrently, because Set could mutate
// option state mid-pass; callers serialize access per instance.
type Operation interface {
	// Identifier returns the stable string key of the operation kind,
	// e.g. "rotation". External callers use it to look up an operation
	// in a stack.
	Identifier() string

	// Options returns the validated option state.
	Options() *OptionSet

	// Set re-validates and merges partial options into the current
	// state. It fails atomically: when any supplied value is rejected,
	// nothing changes.
	Set(opts Options) error

	// NewDimensions returns the dimensions this operation produces from
	// the given input dimensions, without touching any surface state.
	// It is pure: the pipeline calls it freely for planning.
	NewDimensions(dims Vec2) Vec2

	// Render executes the operation against the renderer's surface,
	// dispatching to the strategy matching the renderer capability.
	// It mutates only the surface, never its own option state.
	Render(r Renderer) error
}

// dispatch routes Render to the strategy matching the renderer capability.
// Renderers outside the two known capabilities fail the pass.
func dispatch(id string, r Renderer, accelerated func(AcceleratedTarget) error, software func(SoftwareTarget) error) error {
	switch t := r.(type) {
	case AcceleratedTarget:
		return accelerated(t)
	case SoftwareTarget:
		return software(t)
	default:
		return &RenderError{Op: id, Err: ErrUnsupportedRenderer}
	}
}

// OperationFactory constructs an operation of one kind from an option bag.
type OperationFactory func(opts Options) (Operation, error)

var (
	opMu        sync.RWMutex
	opFactories = map[string]OperationFactory{}
)

// RegisterOperation registers an operation constructor under its
// identifier. The built-in operations register themselves; external
// packages may add more. Registering an existing identifier replaces it.
func RegisterOperation(identifier string, f OperationFactory) {
	opMu.Lock()
	defer opMu.Unlock()
	if f == nil {
		delete(opFactories, identifier)
		return
	}
	opFactories[identifier] = f
}

// Operations returns the identifiers of all registered operations, sorted.
// UI layers use this to enumerate what the pipeline can do.
func Operations() []string {
	opMu.RLock()
	defer opMu.RUnlock()
	ids := make([]string, 0, len(opFactories))
	for id := range opFactories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NewOperation constructs a registered operation by identifier.
func NewOperation(identifier string, opts Options) (Operation, error) {
	opMu.RLock()
	f, ok := opFactories[identifier]
	opMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, identifier)
	}
	return f(opts)
}
