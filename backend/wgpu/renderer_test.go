// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/photokit"
)

// newTestRenderer skips when no usable GPU is present.
func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Skipf("Skipping: no GPU available: %v", err)
	}
	return r
}

// checkerPixmap builds a pixmap with a distinct color per quadrant.
func checkerPixmap(w, h int) *photokit.Pixmap {
	pm := photokit.NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := photokit.Color{R: 1, A: 1}
			switch {
			case x >= w/2 && y < h/2:
				c = photokit.Color{G: 1, A: 1}
			case x < w/2 && y >= h/2:
				c = photokit.Color{B: 1, A: 1}
			case x >= w/2 && y >= h/2:
				c = photokit.Color{R: 1, G: 1, A: 1}
			}
			pm.SetPixel(x, y, c)
		}
	}
	return pm
}

func TestRendererUploadReadbackRoundTrip(t *testing.T) {
	r := newTestRenderer(t)
	defer r.Close()

	src := checkerPixmap(16, 16)
	if err := r.Init(src); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := r.Dimensions(); got.X != 16 || got.Y != 16 {
		t.Fatalf("Dimensions() = %v, want 16x16", got)
	}

	out, err := r.Result(context.Background())
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if out.Width() != 16 || out.Height() != 16 {
		t.Fatalf("result is %dx%d, want 16x16", out.Width(), out.Height())
	}
	srcData, outData := src.Data(), out.Data()
	for i := range srcData {
		if srcData[i] != outData[i] {
			t.Fatalf("pixel byte %d = %d, want %d", i, outData[i], srcData[i])
		}
	}
}

func TestRendererBlitPassPreservesPixels(t *testing.T) {
	r := newTestRenderer(t)
	defer r.Close()

	src := checkerPixmap(8, 8)
	if err := r.Init(src); err != nil {
		t.Fatalf("Init: %v", err)
	}

	pass := &photokit.ShaderPass{
		Label:  "blit",
		WGSL:   photokit.BlitShaderSource(),
		Target: photokit.Vec2{X: 8, Y: 8},
	}
	if err := r.RunPass(pass); err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	out, err := r.Result(context.Background())
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	// A same-size blit samples every pixel at its center, so the copy
	// is exact.
	srcData, outData := src.Data(), out.Data()
	for i := range srcData {
		if srcData[i] != outData[i] {
			t.Fatalf("pixel byte %d = %d, want %d", i, outData[i], srcData[i])
		}
	}
}

func TestRendererResizeSurfaces(t *testing.T) {
	r := newTestRenderer(t)
	defer r.Close()

	src := photokit.NewPixmap(4, 4)
	src.Fill(photokit.Color{R: 0.5, G: 0.25, B: 1, A: 1})
	if err := r.Init(src); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := r.ResizeSurfaces(photokit.Vec2{X: 8, Y: 2}); err != nil {
		t.Fatalf("ResizeSurfaces: %v", err)
	}
	if got := r.Dimensions(); got.X != 8 || got.Y != 2 {
		t.Fatalf("Dimensions() = %v, want 8x2", got)
	}

	out, err := r.Result(context.Background())
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if out.Width() != 8 || out.Height() != 2 {
		t.Fatalf("result is %dx%d, want 8x2", out.Width(), out.Height())
	}
	// A uniform source stays uniform across a resample.
	want := src.GetPixel(0, 0)
	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			if got := out.GetPixel(x, y); !colorsClose(got, want) {
				t.Fatalf("pixel (%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestRendererLifecycleGuards(t *testing.T) {
	r := newTestRenderer(t)

	if err := r.Init(nil); !errors.Is(err, photokit.ErrEmptySurface) {
		t.Errorf("Init(nil) = %v, want ErrEmptySurface", err)
	}
	if _, err := r.Result(context.Background()); !errors.Is(err, photokit.ErrEmptySurface) {
		t.Errorf("Result before Init = %v, want ErrEmptySurface", err)
	}
	pass := &photokit.ShaderPass{
		Label:  "blit",
		WGSL:   photokit.BlitShaderSource(),
		Target: photokit.Vec2{X: 1, Y: 1},
	}
	if err := r.RunPass(pass); !errors.Is(err, photokit.ErrEmptySurface) {
		t.Errorf("RunPass before Init = %v, want ErrEmptySurface", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if err := r.Init(photokit.NewPixmap(2, 2)); !errors.Is(err, photokit.ErrSurfaceClosed) {
		t.Errorf("Init after Close = %v, want ErrSurfaceClosed", err)
	}
	if _, err := r.Result(context.Background()); !errors.Is(err, photokit.ErrSurfaceClosed) {
		t.Errorf("Result after Close = %v, want ErrSurfaceClosed", err)
	}
}

func TestRendererResultHonorsContext(t *testing.T) {
	r := newTestRenderer(t)
	defer r.Close()

	if err := r.Init(checkerPixmap(4, 4)); err != nil {
		t.Fatalf("Init: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Result(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Result with canceled context = %v, want context.Canceled", err)
	}
}

func colorsClose(a, b photokit.Color) bool {
	const tol = 2.0 / 255
	return abs(a.R-b.R) <= tol && abs(a.G-b.G) <= tol &&
		abs(a.B-b.B) <= tol && abs(a.A-b.A) <= tol
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
