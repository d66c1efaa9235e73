package photokit

import "testing"

// TestFrameValidation tests the thickness range.
func TestFrameValidation(t *testing.T) {
	for _, v := range []float64{0.001, 0.02, 0.25, 0.5} {
		if _, err := NewFrame(Black, v); err != nil {
			t.Errorf("NewFrame(%v): %v", v, err)
		}
	}
	for _, v := range []float64{0, -0.1, 0.51, 1} {
		if _, err := NewFrame(Black, v); err == nil {
			t.Errorf("NewFrame(%v) did not fail", v)
		}
	}
}

// TestFrameThicknessPx tests the pixel resolution of the normalized
// thickness against the shorter side.
func TestFrameThicknessPx(t *testing.T) {
	tests := []struct {
		thickness float64
		w, h      int
		want      int
	}{
		{0.1, 100, 50, 5},
		{0.1, 50, 100, 5},
		{0.02, 200, 100, 2},
		{0.25, 10, 8, 2},
		{0.001, 100, 100, 1}, // rounds to zero, clamped up
	}
	for _, tt := range tests {
		op, err := NewFrame(Black, tt.thickness)
		if err != nil {
			t.Fatalf("NewFrame(%v): %v", tt.thickness, err)
		}
		if got := op.thicknessPx(tt.w, tt.h); got != tt.want {
			t.Errorf("thicknessPx(%v, %dx%d) = %d, want %d", tt.thickness, tt.w, tt.h, got, tt.want)
		}
	}
}

// TestFrameSoftwareOpaque tests that an opaque frame covers exactly the
// border ring and leaves the interior alone.
func TestFrameSoftwareOpaque(t *testing.T) {
	src := NewPixmap(10, 8)
	src.Fill(White)

	op, err := NewFrame(Black, 0.25) // shorter side 8 -> 2 px
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	out := renderOp(t, op, src)

	at := func(x, y int) byte { return out.Data()[(y*10+x)*4] }
	for y := 0; y < 8; y++ {
		for x := 0; x < 10; x++ {
			onBorder := x < 2 || x >= 8 || y < 2 || y >= 6
			got := at(x, y)
			if onBorder && got != 0 {
				t.Errorf("border pixel (%d,%d) = %d, want 0", x, y, got)
			}
			if !onBorder && got != 255 {
				t.Errorf("interior pixel (%d,%d) = %d, want 255", x, y, got)
			}
		}
	}
}

// TestFrameTranslucentCorners tests that a translucent frame blends each
// corner pixel once. The four bars tile without overlap, so corner and
// edge pixels must come out identical.
func TestFrameTranslucentCorners(t *testing.T) {
	src := NewPixmap(10, 10)
	src.Fill(White)

	op, err := NewFrame(NewColor(0, 0, 0, 0.5), 0.2) // 2 px ring, alpha 128
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	out := renderOp(t, op, src)

	at := func(x, y int) byte { return out.Data()[(y*10+x)*4] }
	corner := at(0, 0)
	edge := at(5, 0)

	// (0*128 + 255*127) / 255 = 127 for a single blend.
	if corner != 127 {
		t.Errorf("corner = %d, want single-blended 127", corner)
	}
	if corner != edge {
		t.Errorf("corner %d differs from edge %d, corner blended twice", corner, edge)
	}
	if got := at(5, 5); got != 255 {
		t.Errorf("interior = %d, want untouched 255", got)
	}
}

// TestFrameMinimumOnePixel tests that even a vanishing thickness draws a
// one-pixel ring.
func TestFrameMinimumOnePixel(t *testing.T) {
	src := NewPixmap(10, 10)
	src.Fill(White)

	op, err := NewFrame(Black, 0.001)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	out := renderOp(t, op, src)

	at := func(x, y int) byte { return out.Data()[(y*10+x)*4] }
	if got := at(0, 0); got != 0 {
		t.Errorf("ring pixel = %d, want 0", got)
	}
	if got := at(1, 1); got != 255 {
		t.Errorf("pixel inside ring = %d, want 255", got)
	}
}

// TestFrameDimensionsNeutral tests that the frame draws inside the
// surface instead of growing it.
func TestFrameDimensionsNeutral(t *testing.T) {
	op, err := NewFrame(White, 0.1)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	dims := V2(80, 60)
	if got := op.NewDimensions(dims); got != dims {
		t.Errorf("NewDimensions(%v) = %v, want unchanged", dims, got)
	}
}
