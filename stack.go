package photokit

import (
	"fmt"
	"sync"
)

// OperationStack is the ordered list of operations applied by a render
// pass. Order is significant: a crop before a rotation cuts a different
// region than a crop after it.
//
// The stack guards its own consistency with a mutex, so stack edits from
// a UI goroutine are safe while no render is running. Mutating the stack
// during a render pass races with the pass and is the caller's bug.
type OperationStack struct {
	mu  sync.RWMutex
	ops []Operation
}

// NewOperationStack creates an empty stack.
func NewOperationStack() *OperationStack {
	return &OperationStack{}
}

// Push appends an operation to the end of the stack.
func (s *OperationStack) Push(op Operation) {
	if op == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, op)
}

// Insert places an operation at index i, shifting later operations down.
func (s *OperationStack) Insert(i int, op Operation) error {
	if op == nil {
		return fmt.Errorf("photokit: insert nil operation")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i > len(s.ops) {
		return fmt.Errorf("photokit: stack index %d out of range [0, %d]", i, len(s.ops))
	}
	s.ops = append(s.ops, nil)
	copy(s.ops[i+1:], s.ops[i:])
	s.ops[i] = op
	return nil
}

// RemoveAt deletes the operation at index i.
func (s *OperationStack) RemoveAt(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.ops) {
		return fmt.Errorf("photokit: stack index %d out of range [0, %d)", i, len(s.ops))
	}
	s.ops = append(s.ops[:i], s.ops[i+1:]...)
	return nil
}

// At returns the operation at index i, or nil when out of range.
func (s *OperationStack) At(i int) Operation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.ops) {
		return nil
	}
	return s.ops[i]
}

// Operation returns the first operation with the given identifier, or nil.
func (s *OperationStack) Operation(identifier string) Operation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, op := range s.ops {
		if op.Identifier() == identifier {
			return op
		}
	}
	return nil
}

// Len returns the number of operations.
func (s *OperationStack) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ops)
}

// Clear removes every operation.
func (s *OperationStack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = nil
}

// snapshot returns a copy of the operation order for one render pass.
func (s *OperationStack) snapshot() []Operation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Operation, len(s.ops))
	copy(out, s.ops)
	return out
}
