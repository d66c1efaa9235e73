package photokit

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"
)

// TestNewEditorErrors tests source validation at construction.
func TestNewEditorErrors(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrMissingSource) {
		t.Errorf("New(nil) error = %v, want ErrMissingSource", err)
	}
	if _, err := New(NewPixmap(0, 10)); !errors.Is(err, ErrMissingSource) {
		t.Errorf("New(empty) error = %v, want ErrMissingSource", err)
	}
	if _, err := NewFromImage(nil); !errors.Is(err, ErrMissingSource) {
		t.Errorf("NewFromImage(nil) error = %v, want ErrMissingSource", err)
	}

	ed, err := New(quad())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ed.Source() == nil || ed.Stack() == nil {
		t.Error("editor missing source or stack")
	}
}

// TestNewFromImage tests construction from a standard library image.
func TestNewFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	ed, err := NewFromImage(img)
	if err != nil {
		t.Fatalf("NewFromImage: %v", err)
	}
	if dims := ed.Source().Dimensions(); dims != V2(3, 2) {
		t.Errorf("source dimensions = %v, want (3, 2)", dims)
	}
}

// TestEditorApply tests that Apply validates before touching the stack.
func TestEditorApply(t *testing.T) {
	ed, err := New(quad())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	op, err := ed.Apply(OpBrightness, Options{"brightness": 0.5})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if op == nil || ed.Stack().Len() != 1 {
		t.Fatalf("Apply did not push, Len() = %d", ed.Stack().Len())
	}

	if _, err := ed.Apply("warp", nil); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("Apply(warp) error = %v, want ErrUnknownOperation", err)
	}
	if _, err := ed.Apply(OpBlur, Options{"radius": -1.0}); err == nil {
		t.Error("Apply with invalid options did not fail")
	}
	if ed.Stack().Len() != 1 {
		t.Errorf("failed Apply changed the stack, Len() = %d", ed.Stack().Len())
	}
}

// TestEditorPlannedDimensions tests the dimension fold over the stack.
func TestEditorPlannedDimensions(t *testing.T) {
	ed, err := New(NewPixmap(100, 50))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := ed.PlannedDimensions(); got != V2(100, 50) {
		t.Fatalf("empty stack planned = %v, want source size", got)
	}

	if _, err := ed.Apply(OpRotation, Options{"degrees": 90.0}); err != nil {
		t.Fatalf("Apply rotation: %v", err)
	}
	if got := ed.PlannedDimensions(); got != V2(50, 100) {
		t.Errorf("after rotation planned = %v, want (50, 100)", got)
	}

	if _, err := ed.Apply(OpCrop, Options{"start": V2(0, 0), "end": V2(0.5, 1)}); err != nil {
		t.Fatalf("Apply crop: %v", err)
	}
	if got := ed.PlannedDimensions(); got != V2(25, 100) {
		t.Errorf("after crop planned = %v, want (25, 100)", got)
	}
}

// TestEditorPlannedDimensionsWithTarget tests that the fold starts from
// the configured target size.
func TestEditorPlannedDimensionsWithTarget(t *testing.T) {
	ed, err := New(NewPixmap(100, 50), WithTargetDimensions(V2(200, 100)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ed.Apply(OpRotation, Options{"degrees": 90.0}); err != nil {
		t.Fatalf("Apply rotation: %v", err)
	}
	if _, err := ed.Apply(OpCrop, Options{"start": V2(0, 0), "end": V2(0.5, 1)}); err != nil {
		t.Fatalf("Apply crop: %v", err)
	}
	if got := ed.PlannedDimensions(); got != V2(50, 200) {
		t.Errorf("planned = %v, want (50, 200)", got)
	}
}

// TestEditorRenderEmptyStack tests that rendering nothing reproduces the
// source on a fresh surface.
func TestEditorRenderEmptyStack(t *testing.T) {
	src := quad()
	ed, err := New(src, WithRendererKind(KindSoftware))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := ed.Render(context.Background(), RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Renderer != KindSoftware {
		t.Errorf("result renderer = %q, want software", res.Renderer)
	}
	if res.Dimensions != V2(2, 2) {
		t.Errorf("result dimensions = %v, want (2, 2)", res.Dimensions)
	}
	if !bytes.Equal(res.Pixmap.Data(), src.Data()) {
		t.Error("empty-stack render differs from source")
	}
	if res.Pixmap == src {
		t.Error("render returned the source pixmap itself")
	}
}

// TestEditorRenderDeterministic tests that the same stack renders to
// identical bytes on every pass.
func TestEditorRenderDeterministic(t *testing.T) {
	ed, err := New(gradient(16, 16), WithRendererKind(KindSoftware))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ed.Apply(OpBlur, Options{"radius": 2.0}); err != nil {
		t.Fatalf("Apply blur: %v", err)
	}
	if _, err := ed.Apply(OpSaturation, Options{"saturation": 1.5}); err != nil {
		t.Fatalf("Apply saturation: %v", err)
	}

	a, err := ed.Render(context.Background(), RenderOptions{})
	if err != nil {
		t.Fatalf("first Render: %v", err)
	}
	b, err := ed.Render(context.Background(), RenderOptions{})
	if err != nil {
		t.Fatalf("second Render: %v", err)
	}
	if !bytes.Equal(a.Pixmap.Data(), b.Pixmap.Data()) {
		t.Error("two renders of the same stack differ")
	}
}

// TestEditorRenderKeepsSource tests that a render never mutates the
// source pixmap.
func TestEditorRenderKeepsSource(t *testing.T) {
	src := quad()
	before := append([]byte(nil), src.Data()...)

	ed, err := New(src, WithRendererKind(KindSoftware))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ed.Apply(OpBrightness, Options{"brightness": 1.0}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := ed.Render(context.Background(), RenderOptions{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(src.Data(), before) {
		t.Error("render mutated the source pixmap")
	}
}

// TestEditorRenderCancelled tests that a cancelled context aborts the
// pass before the next operation.
func TestEditorRenderCancelled(t *testing.T) {
	ed, err := New(quad(), WithRendererKind(KindSoftware))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ed.Apply(OpBrightness, Options{"brightness": 0.5}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ed.Render(ctx, RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Render error = %v, want context.Canceled", err)
	}
}

// TestEditorRenderTargetOverride tests the per-pass target size and that
// it does not stick to the editor.
func TestEditorRenderTargetOverride(t *testing.T) {
	ed, err := New(solidPix(10, 10, 40, 80, 120, 255), WithRendererKind(KindSoftware))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	target := V2(5, 5)
	res, err := ed.Render(context.Background(), RenderOptions{TargetDimensions: &target})
	if err != nil {
		t.Fatalf("Render with target: %v", err)
	}
	if res.Dimensions != V2(5, 5) {
		t.Errorf("target render dimensions = %v, want (5, 5)", res.Dimensions)
	}

	res, err = ed.Render(context.Background(), RenderOptions{})
	if err != nil {
		t.Fatalf("plain Render: %v", err)
	}
	if res.Dimensions != V2(10, 10) {
		t.Errorf("plain render dimensions = %v, want source (10, 10)", res.Dimensions)
	}
}

// TestEditorRenderMatchesPlan tests that resizing operations land on the
// planned output size.
func TestEditorRenderMatchesPlan(t *testing.T) {
	ed, err := New(gradient(8, 4), WithRendererKind(KindSoftware))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ed.Apply(OpRotation, Options{"degrees": 90.0}); err != nil {
		t.Fatalf("Apply rotation: %v", err)
	}
	if _, err := ed.Apply(OpCrop, Options{"start": V2(0, 0), "end": V2(0.5, 0.5)}); err != nil {
		t.Fatalf("Apply crop: %v", err)
	}

	planned := ed.PlannedDimensions()
	res, err := ed.Render(context.Background(), RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Dimensions != planned {
		t.Errorf("rendered %v, planned %v", res.Dimensions, planned)
	}
}

// TestEditorStackOrderMatters tests that operation order changes the
// output dimensions on a non-square source.
func TestEditorStackOrderMatters(t *testing.T) {
	crop := Options{"start": V2(0, 0), "end": V2(0.5, 1)}

	rotateFirst, err := New(gradient(100, 200), WithRendererKind(KindSoftware))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := rotateFirst.Apply(OpRotation, Options{"degrees": 90.0}); err != nil {
		t.Fatalf("Apply rotation: %v", err)
	}
	if got := rotateFirst.PlannedDimensions(); got != V2(200, 100) {
		t.Fatalf("rotated plan = %v, want (200, 100)", got)
	}
	if _, err := rotateFirst.Apply(OpCrop, crop); err != nil {
		t.Fatalf("Apply crop: %v", err)
	}

	cropFirst, err := New(gradient(100, 200), WithRendererKind(KindSoftware))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := cropFirst.Apply(OpCrop, crop); err != nil {
		t.Fatalf("Apply crop: %v", err)
	}
	if _, err := cropFirst.Apply(OpRotation, Options{"degrees": 90.0}); err != nil {
		t.Fatalf("Apply rotation: %v", err)
	}

	a, err := rotateFirst.Render(context.Background(), RenderOptions{})
	if err != nil {
		t.Fatalf("rotate-first Render: %v", err)
	}
	b, err := cropFirst.Render(context.Background(), RenderOptions{})
	if err != nil {
		t.Fatalf("crop-first Render: %v", err)
	}

	if a.Dimensions != V2(100, 100) {
		t.Errorf("rotate-then-crop dimensions = %v, want (100, 100)", a.Dimensions)
	}
	if b.Dimensions != V2(200, 50) {
		t.Errorf("crop-then-rotate dimensions = %v, want (200, 50)", b.Dimensions)
	}
}

// TestEditorInjectedRenderer tests that an injected renderer is used and
// stays open after the pass.
func TestEditorInjectedRenderer(t *testing.T) {
	r := NewSoftwareRenderer()
	ed, err := New(quad(), WithRenderer(r))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := ed.Render(context.Background(), RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Renderer != KindSoftware {
		t.Errorf("result renderer = %q, want software", res.Renderer)
	}

	// A closed renderer would reject Init.
	if err := r.Init(quad()); err != nil {
		t.Errorf("injected renderer unusable after pass: %v", err)
	}
}

// TestResolveKind tests backend selection precedence.
func TestResolveKind(t *testing.T) {
	if got := resolveKind(KindSoftware); got != KindSoftware {
		t.Errorf("explicit kind = %q, want software", got)
	}

	t.Setenv(EnvRenderer, "software")
	if got := resolveKind(""); got != KindSoftware {
		t.Errorf("env software = %q, want software", got)
	}

	t.Setenv(EnvRenderer, "accelerated")
	if got := resolveKind(""); got != KindAccelerated {
		t.Errorf("env accelerated = %q, want accelerated", got)
	}

	// Unknown values fall through to the automatic choice; with no
	// accelerated backend registered that is software.
	t.Setenv(EnvRenderer, "warp-drive")
	if got := resolveKind(""); got != KindSoftware {
		t.Errorf("unknown env = %q, want software", got)
	}

	t.Setenv(EnvRenderer, "")
	if got := resolveKind(""); got != KindSoftware {
		t.Errorf("automatic choice = %q, want software", got)
	}
}

// TestAcquireRendererFallback tests the accelerated-to-software fallback
// when no accelerated factory is registered.
func TestAcquireRendererFallback(t *testing.T) {
	r, err := acquireRenderer(KindAccelerated, logHandle{})
	if err != nil {
		t.Fatalf("acquireRenderer: %v", err)
	}
	defer r.Close()
	if r.Kind() != KindSoftware {
		t.Errorf("fallback renderer kind = %q, want software", r.Kind())
	}
}
