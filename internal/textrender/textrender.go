// Package textrender rasterizes single lines of styled text into
// straight-alpha images for compositing onto a render surface.
//
// Shaping goes through go-text/typesetting (the HarfBuzz port), so kerning,
// ligatures and complex scripts are honored. Glyph outlines are loaded with
// x/image sfnt and filled with the x/image vector rasterizer.
package textrender

import (
	"encoding/binary"
	"hash/fnv"
	"image/color"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/photokit/internal/cache"
)

// lineKey identifies one rasterized line. Rasterization is deterministic in
// these inputs, so equal keys always mean byte-identical output.
type lineKey struct {
	font uint64
	text string
	size float64
	col  color.NRGBA
}

// hashLineKey mixes all key fields FNV-1a style for shard selection.
func hashLineKey(k lineKey) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], k.font)
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(k.size))
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte{k.col.R, k.col.G, k.col.B, k.col.A})
	_, _ = h.Write([]byte(k.text))
	return h.Sum64()
}

// lineCache memoizes shaped and rasterized lines. Interactive editors
// re-render the same caption on every pass, so hits skip both shaping and
// fill. Capacity is kept small: entries are whole line bitmaps.
var lineCache = cache.NewSharded[lineKey, *Line](8, hashLineKey)

// Render shapes and rasterizes one line of text at pixelSize pixels per em.
// A nil or empty fontData selects the bundled Go Regular face. The text is
// normalized to NFC before shaping so composed and decomposed inputs render
// identically. Empty or whitespace-only text returns ErrNoVisibleText.
//
// The returned Line is shared between callers and must not be modified.
func Render(text string, fontData []byte, pixelSize float64, col color.NRGBA) (*Line, error) {
	text = norm.NFC.String(text)
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoVisibleText
	}
	if pixelSize < 1 {
		pixelSize = 1
	}

	f, err := loadFont(fontData)
	if err != nil {
		return nil, err
	}

	key := lineKey{font: f.id, text: text, size: pixelSize, col: col}
	if line, ok := lineCache.Get(key); ok {
		return line, nil
	}

	glyphs, width := shapeLine(f, text, pixelSize)
	if len(glyphs) == 0 {
		return nil, ErrNoVisibleText
	}
	line, err := rasterizeLine(f, glyphs, width, pixelSize, col)
	if err != nil {
		return nil, err
	}
	lineCache.Set(key, line)
	return line, nil
}
