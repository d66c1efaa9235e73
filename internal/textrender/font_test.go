package textrender

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestParseFont(t *testing.T) {
	f, err := ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFont() error: %v", err)
	}
	if f.shape == nil || f.outline == nil {
		t.Error("ParseFont() left a parsed form nil")
	}
}

func TestParseFontInvalid(t *testing.T) {
	if _, err := ParseFont([]byte{0, 1, 2, 3}); err == nil {
		t.Error("ParseFont() of garbage should fail")
	}
}

func TestParseFontAssignsDistinctIDs(t *testing.T) {
	f1, err := ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFont() error: %v", err)
	}
	f2, err := ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFont() error: %v", err)
	}
	if f1.id == 0 || f2.id == 0 {
		t.Error("parsed fonts should carry a non-zero id")
	}
	if f1.id == f2.id {
		t.Error("separate parses must get distinct ids")
	}
}

func TestDefaultFont(t *testing.T) {
	f1, err := DefaultFont()
	if err != nil {
		t.Fatalf("DefaultFont() error: %v", err)
	}
	f2, err := DefaultFont()
	if err != nil {
		t.Fatalf("DefaultFont() second call error: %v", err)
	}
	if f1 != f2 {
		t.Error("DefaultFont() should return the same parsed instance")
	}
}

func TestLoadFontCaches(t *testing.T) {
	data := append([]byte(nil), goregular.TTF...)

	f1, err := loadFont(data)
	if err != nil {
		t.Fatalf("loadFont() error: %v", err)
	}
	f2, err := loadFont(data)
	if err != nil {
		t.Fatalf("loadFont() second call error: %v", err)
	}
	if f1 != f2 {
		t.Error("loadFont() should cache by slice identity")
	}

	// Empty data selects the default face.
	def, err := loadFont(nil)
	if err != nil {
		t.Fatalf("loadFont(nil) error: %v", err)
	}
	want, _ := DefaultFont()
	if def != want {
		t.Error("loadFont(nil) should return the default font")
	}
}
