package photokit

import (
	"image"
	"image/color"
)

// Pixmap represents a rectangular pixel buffer.
//
// Data is straight (unassociated) alpha RGBA, 4 bytes per pixel, matching
// what image decoders produce and what the accelerated backend uploads as
// RGBA8 textures. The Pixmap is the render surface of the software backend
// and the interchange type at the pipeline boundaries (source image in,
// rendered result out).
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a new transparent pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// NewPixmapFromData wraps an existing straight-alpha RGBA buffer. The
// buffer is adopted, not copied; it must hold exactly width*height*4 bytes.
func NewPixmapFromData(width, height int, data []uint8) *Pixmap {
	if len(data) != width*height*4 {
		return NewPixmap(width, height)
	}
	return &Pixmap{width: width, height: height, data: data}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Dimensions returns the pixmap size as a vector.
func (p *Pixmap) Dimensions() Vec2 {
	return Vec2{X: float64(p.width), Y: float64(p.height)}
}

// Data returns the raw pixel data (straight-alpha RGBA).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel sets the color of a single pixel.
func (p *Pixmap) SetPixel(x, y int, c Color) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = clampUint8(float32(c.R * 255))
	p.data[i+1] = clampUint8(float32(c.G * 255))
	p.data[i+2] = clampUint8(float32(c.B * 255))
	p.data[i+3] = clampUint8(float32(c.A * 255))
}

// GetPixel returns the color of a single pixel.
func (p *Pixmap) GetPixel(x, y int) Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return Color{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// Fill fills the entire pixmap with a color.
func (p *Pixmap) Fill(c Color) {
	r := clampUint8(float32(c.R * 255))
	g := clampUint8(float32(c.G * 255))
	b := clampUint8(float32(c.B * 255))
	a := clampUint8(float32(c.A * 255))

	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	out := NewPixmap(p.width, p.height)
	copy(out.data, p.data)
	return out
}

// ToImage converts the pixmap to an image.NRGBA sharing no memory with p.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from an image.
// *image.NRGBA and *image.RGBA sources use fast paths; other image types
// go through the generic color interface.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pm := NewPixmap(width, height)

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			off := (y+bounds.Min.Y-src.Rect.Min.Y)*src.Stride + (bounds.Min.X-src.Rect.Min.X)*4
			copy(pm.data[y*width*4:(y+1)*width*4], src.Pix[off:off+width*4])
		}
	case *image.RGBA:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := src.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
				if c.A == 0 {
					continue
				}
				i := (y*width + x) * 4
				// Un-premultiply to straight alpha.
				pm.data[i+0] = uint8(uint32(c.R) * 255 / uint32(c.A))
				pm.data[i+1] = uint8(uint32(c.G) * 255 / uint32(c.A))
				pm.data[i+2] = uint8(uint32(c.B) * 255 / uint32(c.A))
				pm.data[i+3] = c.A
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				i := (y*width + x) * 4
				pm.data[i+0] = c.R
				pm.data[i+1] = c.G
				pm.data[i+2] = c.B
				pm.data[i+3] = c.A
			}
		}
	}

	return pm
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.NRGBA{}
	}
	i := (y*p.width + x) * 4
	return color.NRGBA{
		R: p.data[i+0],
		G: p.data[i+1],
		B: p.data[i+2],
		A: p.data[i+3],
	}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
