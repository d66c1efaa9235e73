package photokit

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// OptionKind identifies the value type of a declared operation option.
type OptionKind int

const (
	// KindFloat is a float64 option. Integer values are accepted and
	// converted.
	KindFloat OptionKind = iota

	// KindBool is a boolean option.
	KindBool

	// KindString is a string option.
	KindString

	// KindVec2 is a Vec2 option.
	KindVec2

	// KindColor is a Color option.
	KindColor

	// KindImage is an image.Image option.
	KindImage

	// KindBytes is a raw []byte option (e.g. font data).
	KindBytes
)

// String returns the kind name for error messages.
func (k OptionKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindVec2:
		return "vec2"
	case KindColor:
		return "color"
	case KindImage:
		return "image"
	case KindBytes:
		return "bytes"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// OptionSpec declares a single operation option: its value kind, the
// default substituted when the caller omits it, and an optional validator
// that must pass before the value is accepted.
type OptionSpec struct {
	Kind    OptionKind
	Default any

	// Validate checks the (kind-coerced) value. A nil Validate accepts
	// any value of the right kind. The returned error text becomes the
	// Reason of the ValidationError.
	Validate func(v any) error
}

// Schema declares all options an operation recognizes, keyed by name.
type Schema map[string]OptionSpec

// Options is the raw option bag passed to operation constructors and Set.
// Names not declared in the operation's schema are ignored.
type Options map[string]any

// OptionSet holds an operation's validated option state.
//
// An OptionSet is created by merging caller options over the schema
// defaults with every supplied value validated eagerly, so a render pass
// never re-validates. Set applies further changes atomically: all supplied
// values are validated first and either all are stored or none.
type OptionSet struct {
	op     string
	schema Schema
	values map[string]any
}

// newOptionSet builds the validated option state for operation op.
// Defaults fill in first; supplied values are then coerced and validated.
func newOptionSet(op string, schema Schema, supplied Options) (*OptionSet, error) {
	s := &OptionSet{
		op:     op,
		schema: schema,
		values: make(map[string]any, len(schema)),
	}
	for name, spec := range schema {
		s.values[name] = spec.Default
	}
	if err := s.Set(supplied); err != nil {
		return nil, err
	}
	return s, nil
}

// Set validates and merges the supplied values into the current state.
// Unknown names are ignored. If any value fails kind coercion or its
// validator, nothing is stored and the first failure is returned.
func (s *OptionSet) Set(supplied Options) error {
	if len(supplied) == 0 {
		return nil
	}

	staged := make(map[string]any, len(supplied))
	for name, raw := range supplied {
		spec, ok := s.schema[name]
		if !ok {
			continue
		}
		v, err := coerceOption(spec.Kind, raw)
		if err != nil {
			return &ValidationError{Op: s.op, Option: name, Reason: err.Error()}
		}
		if spec.Validate != nil {
			if err := spec.Validate(v); err != nil {
				return &ValidationError{Op: s.op, Option: name, Reason: err.Error()}
			}
		}
		staged[name] = v
	}

	for name, v := range staged {
		s.values[name] = v
	}
	return nil
}

// coerceOption converts a raw caller value to the declared kind.
func coerceOption(kind OptionKind, raw any) (any, error) {
	switch kind {
	case KindFloat:
		switch n := raw.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		}
	case KindBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case KindString:
		if str, ok := raw.(string); ok {
			return str, nil
		}
	case KindVec2:
		if v, ok := raw.(Vec2); ok {
			return v, nil
		}
	case KindColor:
		if c, ok := raw.(Color); ok {
			return c, nil
		}
	case KindImage:
		if raw == nil {
			return (image.Image)(nil), nil
		}
		if img, ok := raw.(image.Image); ok {
			return img, nil
		}
	case KindBytes:
		if raw == nil {
			return []byte(nil), nil
		}
		if b, ok := raw.([]byte); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", kind, raw)
}

// rangeValidator returns a float validator for the closed interval [lo, hi].
func rangeValidator(lo, hi float64) func(any) error {
	return func(v any) error {
		f := v.(float64)
		if math.IsNaN(f) || f < lo || f > hi {
			return fmt.Errorf("must be in [%g, %g]", lo, hi)
		}
		return nil
	}
}

// openRangeValidator returns a float validator for the interval (lo, hi].
func openRangeValidator(lo, hi float64) func(any) error {
	return func(v any) error {
		f := v.(float64)
		if math.IsNaN(f) || f <= lo || f > hi {
			return fmt.Errorf("must be in (%g, %g]", lo, hi)
		}
		return nil
	}
}

// unitVecValidator checks that every vector component lies in [0, 1].
func unitVecValidator(v any) error {
	if !v.(Vec2).InUnitRange() {
		return errors.New("components must be in [0, 1]")
	}
	return nil
}

// positiveVecValidator checks that every vector component is positive.
func positiveVecValidator(v any) error {
	vec := v.(Vec2)
	if !(vec.X > 0 && vec.Y > 0) {
		return errors.New("components must be positive")
	}
	return nil
}

// oneOfValidator returns a string validator accepting only the listed values.
func oneOfValidator(allowed ...string) func(any) error {
	return func(v any) error {
		s := v.(string)
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return fmt.Errorf("must be one of %v", allowed)
	}
}

// Float returns the float option value.
func (s *OptionSet) Float(name string) float64 {
	v, _ := s.values[name].(float64)
	return v
}

// Bool returns the bool option value.
func (s *OptionSet) Bool(name string) bool {
	v, _ := s.values[name].(bool)
	return v
}

// String returns the string option value.
func (s *OptionSet) String(name string) string {
	v, _ := s.values[name].(string)
	return v
}

// Vec2 returns the vector option value.
func (s *OptionSet) Vec2(name string) Vec2 {
	v, _ := s.values[name].(Vec2)
	return v
}

// Color returns the color option value.
func (s *OptionSet) Color(name string) Color {
	v, _ := s.values[name].(Color)
	return v
}

// Image returns the image option value, or nil when unset.
func (s *OptionSet) Image(name string) image.Image {
	v, _ := s.values[name].(image.Image)
	return v
}

// Bytes returns the raw bytes option value, or nil when unset.
func (s *OptionSet) Bytes(name string) []byte {
	v, _ := s.values[name].([]byte)
	return v
}
