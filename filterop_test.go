package photokit

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"testing"
)

// removePreset deletes a preset directly from the registry. There is no
// public removal API; tests reach into the map to exercise the render-time
// lookup failure and to clean up after themselves.
func removePreset(name string) {
	filterMu.Lock()
	defer filterMu.Unlock()
	delete(filterPresets, name)
}

// TestFilterPresetsRegistry tests that the built-in presets are present
// and the listing is sorted.
func TestFilterPresetsRegistry(t *testing.T) {
	names := FilterPresets()
	if !sort.StringsAreSorted(names) {
		t.Errorf("FilterPresets() not sorted: %v", names)
	}
	for _, want := range []string{"none", "grayscale", "sepia", "moonlight", "lomo"} {
		if _, ok := FilterPreset(want); !ok {
			t.Errorf("built-in preset %q not registered", want)
		}
	}
}

// TestFilterUnknownPreset tests that an unregistered name fails at
// construction time.
func TestFilterUnknownPreset(t *testing.T) {
	_, err := NewFilter("vortex")
	if err == nil {
		t.Fatal("NewFilter with unknown preset did not fail")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}
	if verr.Op != OpFilter || verr.Option != "name" {
		t.Errorf("error fields = %q/%q, want filter/name", verr.Op, verr.Option)
	}
	if !strings.Contains(verr.Reason, `unknown preset "vortex"`) {
		t.Errorf("reason = %q, want unknown preset mention", verr.Reason)
	}
}

// TestFilterNoneIsNoop tests the default preset.
func TestFilterNoneIsNoop(t *testing.T) {
	src := solidPix(2, 2, 120, 60, 200, 255)

	op, err := NewOperation(OpFilter, nil)
	if err != nil {
		t.Fatalf("NewOperation: %v", err)
	}
	if got := op.Options().String("name"); got != "none" {
		t.Fatalf("default preset = %q, want none", got)
	}
	out := renderOp(t, op, src)
	if !bytes.Equal(out.Data(), src.Data()) {
		t.Error("none preset altered pixels")
	}
}

// TestFilterGrayscale tests that the grayscale preset equalizes the color
// channels and preserves alpha.
func TestFilterGrayscale(t *testing.T) {
	op, err := NewFilter("grayscale")
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	out := renderOp(t, op, solidPix(2, 1, 220, 40, 90, 200))

	data := out.Data()
	for i := 0; i < len(data); i += 4 {
		r, g, b, a := data[i], data[i+1], data[i+2], data[i+3]
		if r != g || g != b {
			t.Errorf("pixel %d = %d/%d/%d, want equal channels", i/4, r, g, b)
		}
		if a != 200 {
			t.Errorf("pixel %d alpha = %d, want 200", i/4, a)
		}
	}
}

// TestFilterSepia tests the warm channel ordering the sepia weights
// produce on mid-gray input.
func TestFilterSepia(t *testing.T) {
	op, err := NewFilter("sepia")
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	out := renderOp(t, op, solidPix(1, 1, 128, 128, 128, 255))

	px := out.Data()[:4]
	if !(px[0] > px[1] && px[1] > px[2]) {
		t.Errorf("sepia on gray = %v, want r > g > b", px[:3])
	}
}

// TestRegisterFilterPreset tests registering a custom preset and rendering
// through it.
func TestRegisterFilterPreset(t *testing.T) {
	RegisterFilterPreset("test-invert", InvertMatrix())
	t.Cleanup(func() { removePreset("test-invert") })

	op, err := NewFilter("test-invert")
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	out := renderOp(t, op, solidPix(1, 1, 0, 255, 100, 255))

	px := out.Data()[:4]
	want := []byte{255, 0, 155, 255}
	if !bytes.Equal(px, want) {
		t.Errorf("inverted pixel = %v, want %v", px, want)
	}
}

// TestFilterPresetRemovedBeforeRender tests the render-time lookup
// failure when a preset disappears between configuration and render.
func TestFilterPresetRemovedBeforeRender(t *testing.T) {
	RegisterFilterPreset("test-ephemeral", BrightnessMatrix(0.5))
	op, err := NewFilter("test-ephemeral")
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	removePreset("test-ephemeral")

	r := NewSoftwareRenderer()
	if err := r.Init(solidPix(1, 1, 10, 10, 10, 255)); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()

	err = op.Render(r)
	if err == nil {
		t.Fatal("render with removed preset did not fail")
	}
	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("error = %T, want *RenderError", err)
	}
	if !strings.Contains(err.Error(), "no longer registered") {
		t.Errorf("error = %q, want no-longer-registered mention", err)
	}
}

// TestFilterReplacePreset tests that re-registering a name replaces the
// matrix used by subsequent renders.
func TestFilterReplacePreset(t *testing.T) {
	RegisterFilterPreset("test-swap", IdentityMatrix())
	t.Cleanup(func() { removePreset("test-swap") })

	op, err := NewFilter("test-swap")
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	src := solidPix(1, 1, 100, 100, 100, 255)

	if out := renderOp(t, op, src); !bytes.Equal(out.Data(), src.Data()) {
		t.Error("identity preset altered pixels")
	}

	RegisterFilterPreset("test-swap", InvertMatrix())
	out := renderOp(t, op, src)
	if out.Data()[0] != 155 {
		t.Errorf("replaced preset channel = %d, want 155", out.Data()[0])
	}
}
