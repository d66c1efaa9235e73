package textrender

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/photokit/internal/cache"
)

// maxParsedFonts bounds the parsed-font cache. Parsed font tables are a few
// megabytes each; an editing session rarely touches more than a handful.
const maxParsedFonts = 16

// fontID tags each parsed Font so cache keys can name a font without
// holding a pointer.
var fontID atomic.Uint64

// Font bundles the two parsed forms of one font file: the go-text Font used
// for shaping and the sfnt Font used for outline extraction and metrics.
// Both are read-only after parsing and safe for concurrent use.
type Font struct {
	id      uint64
	shape   *font.Font
	outline *sfnt.Font
}

// ParseFont parses TTF or OTF font data.
func ParseFont(data []byte) (*Font, error) {
	// ParseTTF returns a *Face which embeds the thread-safe *Font.
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("textrender: parse font: %w", err)
	}
	outline, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("textrender: parse font: %w", err)
	}
	return &Font{id: fontID.Add(1), shape: face.Font, outline: outline}, nil
}

var (
	defaultOnce sync.Once
	defaultFont *Font
	defaultErr  error
)

// DefaultFont returns the bundled fallback face (Go Regular).
func DefaultFont() (*Font, error) {
	defaultOnce.Do(func() {
		defaultFont, defaultErr = ParseFont(goregular.TTF)
	})
	return defaultFont, defaultErr
}

// fontCache memoizes parsed fonts by the identity of the data slice.
var fontCache = cache.New[*byte, *Font](maxParsedFonts)

// loadFont resolves raw font data to a parsed Font, caching by the identity
// of the byte slice. Font data must not be mutated after being handed over.
func loadFont(data []byte) (*Font, error) {
	if len(data) == 0 {
		return DefaultFont()
	}

	key := &data[0]
	if f, ok := fontCache.Get(key); ok {
		return f, nil
	}

	f, err := ParseFont(data)
	if err != nil {
		return nil, err
	}
	fontCache.Set(key, f)
	return f, nil
}
