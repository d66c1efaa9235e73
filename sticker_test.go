package photokit

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// overlayImg builds a solid w x h NRGBA image for sticker tests.
func overlayImg(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// TestStickerRequiresImage tests that construction fails without an
// overlay image.
func TestStickerRequiresImage(t *testing.T) {
	_, err := NewOperation(OpSticker, nil)
	if err == nil {
		t.Fatal("sticker without image did not fail")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}
	if verr.Option != "image" || verr.Reason != "required" {
		t.Errorf("error = %q/%q, want image/required", verr.Option, verr.Reason)
	}

	if _, err := NewOperation(OpSticker, Options{"image": nil}); err == nil {
		t.Error("sticker with explicit nil image did not fail")
	}
}

// TestStickerPlacement tests the resolved target size and pixel offset.
func TestStickerPlacement(t *testing.T) {
	op, err := newSticker(Options{
		"image":    overlayImg(4, 2, color.NRGBA{255, 255, 255, 255}),
		"position": V2(0.5, 0.25),
		"scale":    V2(0.5, 3),
	})
	if err != nil {
		t.Fatalf("newSticker: %v", err)
	}

	overlay, tw, th, ox, oy := op.placement(V2(10, 8))
	if overlay.Width() != 4 || overlay.Height() != 2 {
		t.Errorf("overlay %dx%d, want natural 4x2", overlay.Width(), overlay.Height())
	}
	if tw != 2 || th != 6 {
		t.Errorf("target size %dx%d, want 2x6", tw, th)
	}
	if ox != 5 || oy != 2 {
		t.Errorf("offset (%d,%d), want (5,2)", ox, oy)
	}
}

// TestStickerPlacementMinimumSize tests that a vanishing scale still
// draws at least one pixel per axis.
func TestStickerPlacementMinimumSize(t *testing.T) {
	op, err := newSticker(Options{
		"image": overlayImg(4, 2, color.NRGBA{255, 255, 255, 255}),
		"scale": V2(0.01, 0.01),
	})
	if err != nil {
		t.Fatalf("newSticker: %v", err)
	}
	_, tw, th, _, _ := op.placement(V2(100, 100))
	if tw != 1 || th != 1 {
		t.Errorf("target size %dx%d, want 1x1", tw, th)
	}
}

// TestStickerSoftwareOpaque tests compositing an opaque overlay at a
// normalized position.
func TestStickerSoftwareOpaque(t *testing.T) {
	src := NewPixmap(6, 6)
	src.Fill(Black)

	op, err := newSticker(Options{
		"image":    overlayImg(2, 2, color.NRGBA{255, 255, 255, 255}),
		"position": V2(0.5, 0.5),
	})
	if err != nil {
		t.Fatalf("newSticker: %v", err)
	}
	out := renderOp(t, op, src)

	at := func(x, y int) byte { return out.Data()[(y*6+x)*4] }
	for _, p := range [][2]int{{3, 3}, {4, 3}, {3, 4}, {4, 4}} {
		if got := at(p[0], p[1]); got != 255 {
			t.Errorf("overlay pixel (%d,%d) = %d, want 255", p[0], p[1], got)
		}
	}
	for _, p := range [][2]int{{2, 2}, {5, 3}, {3, 5}, {0, 0}} {
		if got := at(p[0], p[1]); got != 0 {
			t.Errorf("surface pixel (%d,%d) = %d, want untouched 0", p[0], p[1], got)
		}
	}
}

// TestStickerSoftwareBlends tests straight-alpha compositing of a
// translucent overlay.
func TestStickerSoftwareBlends(t *testing.T) {
	src := NewPixmap(3, 3)
	src.Fill(Black)

	op, err := newSticker(Options{
		"image": overlayImg(1, 1, color.NRGBA{255, 255, 255, 128}),
	})
	if err != nil {
		t.Fatalf("newSticker: %v", err)
	}
	out := renderOp(t, op, src)

	px := out.Data()[:4]
	if px[0] != 128 || px[1] != 128 || px[2] != 128 {
		t.Errorf("blended pixel = %v, want 128 per channel", px[:3])
	}
	if px[3] != 255 {
		t.Errorf("blended alpha = %d, want 255 over opaque surface", px[3])
	}
}

// TestStickerScalesOverlay tests that scale resizes the overlay before
// compositing. A solid overlay stays solid through resampling.
func TestStickerScalesOverlay(t *testing.T) {
	src := NewPixmap(8, 8)
	src.Fill(Black)

	op, err := newSticker(Options{
		"image": overlayImg(2, 2, color.NRGBA{255, 0, 0, 255}),
		"scale": V2(2, 2),
	})
	if err != nil {
		t.Fatalf("newSticker: %v", err)
	}
	out := renderOp(t, op, src)

	at := func(x, y int) byte { return out.Data()[(y*8+x)*4] }
	if got := at(3, 3); got != 255 {
		t.Errorf("scaled overlay pixel (3,3) red = %d, want 255", got)
	}
	if got := at(4, 4); got != 0 {
		t.Errorf("pixel past scaled overlay (4,4) red = %d, want 0", got)
	}
}

// TestStickerClipsAtEdge tests that an overlay pushed fully off the
// surface renders without error and without touching pixels.
func TestStickerClipsAtEdge(t *testing.T) {
	src := NewPixmap(6, 6)
	src.Fill(Black)

	op, err := newSticker(Options{
		"image":    overlayImg(2, 2, color.NRGBA{255, 255, 255, 255}),
		"position": V2(1, 1),
	})
	if err != nil {
		t.Fatalf("newSticker: %v", err)
	}
	out := renderOp(t, op, src)

	for i, b := range out.Data() {
		if i%4 == 3 {
			continue
		}
		if b != 0 {
			t.Fatalf("byte %d = %d, want surface untouched", i, b)
		}
	}
}

// TestStickerValidation tests the position and scale constraints.
func TestStickerValidation(t *testing.T) {
	img := overlayImg(1, 1, color.NRGBA{0, 0, 0, 255})

	if _, err := newSticker(Options{"image": img, "position": V2(1.5, 0)}); err == nil {
		t.Error("out-of-range position did not fail")
	}
	if _, err := newSticker(Options{"image": img, "scale": V2(0, 1)}); err == nil {
		t.Error("zero scale did not fail")
	}
	if _, err := newSticker(Options{"image": img, "scale": V2(-1, 1)}); err == nil {
		t.Error("negative scale did not fail")
	}
}
