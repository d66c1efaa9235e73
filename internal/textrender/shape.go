package textrender

import (
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// shapedGlyph is one positioned glyph of a shaped line. Coordinates are in
// pixels relative to the pen origin on the baseline, y growing down.
type shapedGlyph struct {
	gid  uint16
	x, y float64
}

// shaperPool pools HarfbuzzShaper instances. The shaper keeps an internal
// buffer and is not safe for concurrent use, but reusing one across
// sequential calls avoids reallocating it.
var shaperPool = sync.Pool{
	New: func() any { return &shaping.HarfbuzzShaper{} },
}

// shapeLine shapes a single line of text at the given pixel size and returns
// the positioned glyphs plus the total advance width in pixels.
func shapeLine(f *Font, text string, size float64) ([]shapedGlyph, float64) {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil, 0
	}

	// font.Face is not safe for concurrent use; each call gets a fresh
	// lightweight Face around the shared *Font.
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f.shape),
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	shaper := shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := shaper.Shape(input)
	shaperPool.Put(shaper)

	glyphs := make([]shapedGlyph, 0, len(output.Glyphs))
	var pen float64
	for _, g := range output.Glyphs {
		// XOffset and YOffset are fine-grained adjustments on top of the
		// pen position; YOffset is positive-up and image space is y-down.
		glyphs = append(glyphs, shapedGlyph{
			gid: uint16(g.GlyphID),
			x:   pen + fixedToFloat(g.XOffset),
			y:   -fixedToFloat(g.YOffset),
		})
		pen += fixedToFloat(g.Advance)
	}
	return glyphs, pen
}

// detectScript returns the script of the first non-space rune. Mixed-script
// text should be split into runs before shaping; a single caption line is
// treated as one run.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
