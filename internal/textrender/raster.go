package textrender

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// ErrNoVisibleText is returned when the input contains no renderable glyphs.
var ErrNoVisibleText = errors.New("textrender: no visible text")

// Line is one rasterized line of text. Lines may be served from a shared
// cache; callers must treat every field as read-only.
type Line struct {
	// Image holds the rendered line with straight alpha.
	Image *image.NRGBA

	// Origin is the pen origin (baseline start) within Image. Callers
	// position the line by deciding where the pen origin should land.
	Origin image.Point

	// Width is the shaped advance width in pixels.
	Width float64

	// Ascent and Descent are the font's vertical extents in pixels, both
	// positive, measured from the baseline.
	Ascent, Descent float64
}

// rasterizeLine fills the glyph outlines into an alpha mask and colors it.
func rasterizeLine(f *Font, glyphs []shapedGlyph, width, size float64, col color.NRGBA) (*Line, error) {
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(size * 64)

	metrics, err := f.outline.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("textrender: font metrics: %w", err)
	}
	ascent := math.Ceil(fixedToFloat(metrics.Ascent))
	descent := math.Ceil(fixedToFloat(metrics.Descent))

	// Glyph ink can overhang the advance width on either side (italics,
	// swashes), so the mask carries a margin around the line box.
	margin := int(size/4) + 2

	w := 2*margin + int(math.Ceil(width))
	h := 2*margin + int(ascent+descent)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	origin := image.Pt(margin, margin+int(ascent))

	z := vector.NewRasterizer(w, h)
	drew := false
	for _, g := range glyphs {
		segments, err := f.outline.LoadGlyph(&buf, sfnt.GlyphIndex(g.gid), ppem, nil)
		if err != nil {
			// Missing or color glyphs leave a gap; the pen position
			// already accounts for their advance.
			continue
		}
		if len(segments) == 0 {
			continue
		}
		drew = true

		ox := float32(float64(origin.X) + g.x)
		oy := float32(float64(origin.Y) + g.y)
		started := false
		for _, seg := range segments {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if started {
					z.ClosePath()
				}
				z.MoveTo(ox+fixedToFloat32(seg.Args[0].X), oy+fixedToFloat32(seg.Args[0].Y))
				started = true
			case sfnt.SegmentOpLineTo:
				z.LineTo(ox+fixedToFloat32(seg.Args[0].X), oy+fixedToFloat32(seg.Args[0].Y))
			case sfnt.SegmentOpQuadTo:
				z.QuadTo(
					ox+fixedToFloat32(seg.Args[0].X), oy+fixedToFloat32(seg.Args[0].Y),
					ox+fixedToFloat32(seg.Args[1].X), oy+fixedToFloat32(seg.Args[1].Y),
				)
			case sfnt.SegmentOpCubeTo:
				z.CubeTo(
					ox+fixedToFloat32(seg.Args[0].X), oy+fixedToFloat32(seg.Args[0].Y),
					ox+fixedToFloat32(seg.Args[1].X), oy+fixedToFloat32(seg.Args[1].Y),
					ox+fixedToFloat32(seg.Args[2].X), oy+fixedToFloat32(seg.Args[2].Y),
				)
			}
		}
		if started {
			z.ClosePath()
		}
	}
	if !drew {
		return nil, ErrNoVisibleText
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, a := range mask.Pix {
		if a == 0 {
			continue
		}
		j := i * 4
		out.Pix[j+0] = col.R
		out.Pix[j+1] = col.G
		out.Pix[j+2] = col.B
		out.Pix[j+3] = uint8((int(a)*int(col.A) + 127) / 255)
	}

	return &Line{
		Image:   out,
		Origin:  origin,
		Width:   width,
		Ascent:  ascent,
		Descent: descent,
	}, nil
}

// fixedToFloat32 converts a fixed.Int26_6 value to float32.
func fixedToFloat32(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
