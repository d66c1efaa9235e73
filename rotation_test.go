package photokit

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

// renderOp runs a single operation through the software renderer and
// returns the resulting pixmap.
func renderOp(t *testing.T, op Operation, src *Pixmap) *Pixmap {
	t.Helper()
	r := NewSoftwareRenderer()
	if err := r.Init(src); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()
	if err := op.Render(r); err != nil {
		t.Fatalf("Render %s: %v", op.Identifier(), err)
	}
	out, err := r.Result(context.Background())
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	return out
}

// quad builds a 2x2 pixmap with four distinct opaque pixels:
//
//	P1 P2
//	P3 P4
func quad() *Pixmap {
	return NewPixmapFromData(2, 2, []byte{
		10, 11, 12, 255, 20, 21, 22, 255,
		30, 31, 32, 255, 40, 41, 42, 255,
	})
}

// TestRotationValidation tests that only whole multiples of 90 pass.
func TestRotationValidation(t *testing.T) {
	for _, deg := range []float64{0, 90, -90, 180, 270, 360, 450, -720} {
		if _, err := NewRotation(deg); err != nil {
			t.Errorf("NewRotation(%v): %v", deg, err)
		}
	}

	for _, deg := range []float64{45, -30, 91, math.NaN(), math.Inf(1)} {
		_, err := NewRotation(deg)
		if err == nil {
			t.Errorf("NewRotation(%v) did not fail", deg)
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("NewRotation(%v) error = %T, want *ValidationError", deg, err)
			continue
		}
		if verr.Op != OpRotation || verr.Option != "degrees" {
			t.Errorf("error fields = %q/%q, want rotation/degrees", verr.Op, verr.Option)
		}
		if !strings.Contains(verr.Reason, "multiple of 90") {
			t.Errorf("reason = %q, want mention of multiple of 90", verr.Reason)
		}
	}
}

// TestRotationNewDimensions tests that dimensions swap exactly for odd
// quarter turns.
func TestRotationNewDimensions(t *testing.T) {
	dims := V2(100, 50)
	tests := []struct {
		degrees float64
		want    Vec2
	}{
		{0, V2(100, 50)},
		{90, V2(50, 100)},
		{180, V2(100, 50)},
		{270, V2(50, 100)},
		{360, V2(100, 50)},
		{450, V2(50, 100)},
		{-90, V2(50, 100)},
		{-180, V2(100, 50)},
	}
	for _, tt := range tests {
		op, err := NewRotation(tt.degrees)
		if err != nil {
			t.Fatalf("NewRotation(%v): %v", tt.degrees, err)
		}
		if got := op.NewDimensions(dims); got != tt.want {
			t.Errorf("NewDimensions(%v deg) = %v, want %v", tt.degrees, got, tt.want)
		}
	}
}

// TestRotationSoftware tests the three quarter turns pixel by pixel.
// Right-angle rotation transposes bytes without resampling, so every
// output pixel must match the source exactly.
func TestRotationSoftware(t *testing.T) {
	p1 := []byte{10, 11, 12, 255}
	p2 := []byte{20, 21, 22, 255}
	p3 := []byte{30, 31, 32, 255}
	p4 := []byte{40, 41, 42, 255}
	row := func(a, b []byte) []byte { return append(append([]byte{}, a...), b...) }

	tests := []struct {
		degrees float64
		want    []byte
	}{
		// 90 degrees clockwise:
		//
		//	P1 P2      P3 P1
		//	P3 P4  ->  P4 P2
		{90, append(row(p3, p1), row(p4, p2)...)},
		{180, append(row(p4, p3), row(p2, p1)...)},
		{270, append(row(p2, p4), row(p1, p3)...)},
	}

	for _, tt := range tests {
		op, err := NewRotation(tt.degrees)
		if err != nil {
			t.Fatalf("NewRotation(%v): %v", tt.degrees, err)
		}
		out := renderOp(t, op, quad())
		if out.Width() != 2 || out.Height() != 2 {
			t.Fatalf("%v deg: output %dx%d, want 2x2", tt.degrees, out.Width(), out.Height())
		}
		if !bytes.Equal(out.Data(), tt.want) {
			t.Errorf("%v deg:\n got %v\nwant %v", tt.degrees, out.Data(), tt.want)
		}
	}
}

// TestRotationSwapsSurface tests that a quarter turn swaps the surface
// dimensions of a non-square image.
func TestRotationSwapsSurface(t *testing.T) {
	src := NewPixmap(4, 2)
	src.Fill(White)

	op, err := NewRotation(90)
	if err != nil {
		t.Fatalf("NewRotation: %v", err)
	}
	out := renderOp(t, op, src)
	if out.Width() != 2 || out.Height() != 4 {
		t.Errorf("output %dx%d, want 2x4", out.Width(), out.Height())
	}
}

// TestRotationZeroIsNoop tests that a zero angle leaves the surface alone.
func TestRotationZeroIsNoop(t *testing.T) {
	src := quad()
	op, err := NewRotation(0)
	if err != nil {
		t.Fatalf("NewRotation: %v", err)
	}
	out := renderOp(t, op, src)
	if !bytes.Equal(out.Data(), src.Data()) {
		t.Error("zero rotation altered pixels")
	}
}

// TestRotationNormalizesAngle tests that angles outside [0, 360) reduce
// to their in-range turn: -90 renders identically to 270.
func TestRotationNormalizesAngle(t *testing.T) {
	neg, err := NewRotation(-90)
	if err != nil {
		t.Fatalf("NewRotation(-90): %v", err)
	}
	pos, err := NewRotation(270)
	if err != nil {
		t.Fatalf("NewRotation(270): %v", err)
	}

	a := renderOp(t, neg, quad())
	b := renderOp(t, pos, quad())
	if !bytes.Equal(a.Data(), b.Data()) {
		t.Error("-90 and 270 degree renders differ")
	}

	full, err := NewRotation(720)
	if err != nil {
		t.Fatalf("NewRotation(720): %v", err)
	}
	src := quad()
	if out := renderOp(t, full, src); !bytes.Equal(out.Data(), src.Data()) {
		t.Error("720 degree rotation altered pixels")
	}
}
