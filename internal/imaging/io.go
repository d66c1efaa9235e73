// Package imaging provides image decode/encode, resampling and raw-buffer
// transforms shared by the photokit render backends.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the image format is not supported.
	ErrUnsupportedFormat = errors.New("imaging: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("imaging: empty data")
)

// Decode decodes an image from the given reader, auto-detecting the format.
// Supported formats: PNG, JPEG.
func Decode(r io.Reader) (*image.NRGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}
	return ToNRGBA(img), nil
}

// DecodeBytes decodes an image from a byte slice, auto-detecting the format.
func DecodeBytes(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Load loads an image from the given file path, auto-detecting the format.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imaging: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// EncodePNG encodes the image as PNG to the given writer.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("imaging: encode PNG: %w", err)
	}
	return nil
}

// EncodeJPEG encodes the image as JPEG to the given writer with the given
// quality, clamped to [1, 100].
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: ClampQuality(quality)}); err != nil {
		return fmt.Errorf("imaging: encode JPEG: %w", err)
	}
	return nil
}

// ClampQuality bounds a JPEG quality value to [1, 100].
func ClampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// ToNRGBA converts a standard library image to *image.NRGBA with a zero
// origin. *image.NRGBA input with a zero origin is returned as-is.
func ToNRGBA(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if nrgba, ok := img.(*image.NRGBA); ok && bounds.Min == image.ZP {
		return nrgba
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))

	// Fast path for NRGBA with an offset origin: row copies.
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < height; y++ {
			srcStart := (y+bounds.Min.Y-nrgba.Rect.Min.Y)*nrgba.Stride + (bounds.Min.X-nrgba.Rect.Min.X)*4
			copy(out.Pix[y*out.Stride:y*out.Stride+width*4], nrgba.Pix[srcStart:srcStart+width*4])
		}
		return out
	}

	// Generic path; draw.Draw handles premultiplied-to-straight conversion.
	draw.Draw(out, out.Rect, img, bounds.Min, draw.Src)
	return out
}

// Wrap builds an *image.NRGBA header around an existing straight-alpha
// RGBA buffer without copying.
func Wrap(data []uint8, width, height int) *image.NRGBA {
	return &image.NRGBA{
		Pix:    data,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// Resize scales src to width x height using Catmull-Rom resampling.
func Resize(src *image.NRGBA, width, height int) *image.NRGBA {
	if src.Rect.Dx() == width && src.Rect.Dy() == height {
		return src
	}
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Rect, src, src.Rect, draw.Src, nil)
	return out
}
