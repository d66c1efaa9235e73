package photokit

import "github.com/gogpu/photokit/internal/parallel"

// ColorMatrix is a 4x5 color transformation matrix in row-major order.
// The transformation is:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// The fifth column provides bias/offset values in the [0, 255] range.
// Both render strategies of the color operations run through the same
// matrix: the software renderer applies it to pixel bytes, the accelerated
// renderer uploads it as shader uniforms. Keeping one source of truth for
// the coefficients is what guarantees backend parity.
type ColorMatrix [20]float32

// IdentityMatrix returns the matrix that passes colors through unchanged.
func IdentityMatrix() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0, // R
		0, 1, 0, 0, 0, // G
		0, 0, 1, 0, 0, // B
		0, 0, 0, 1, 0, // A
	}
}

// BrightnessMatrix returns a matrix that shifts brightness additively.
// value: -1.0 = black, 0.0 = unchanged, 1.0 = white.
func BrightnessMatrix(value float32) ColorMatrix {
	offset := value * 255
	return ColorMatrix{
		1, 0, 0, 0, offset,
		0, 1, 0, 0, offset,
		0, 0, 1, 0, offset,
		0, 0, 0, 1, 0,
	}
}

// ContrastMatrix returns a matrix that scales contrast around mid-gray.
// factor: 0.0 = flat gray, 1.0 = unchanged, >1 = higher contrast.
func ContrastMatrix(factor float32) ColorMatrix {
	// (color - 0.5) * factor + 0.5, expressed in the 0-255 range.
	offset := 127.5 * (1 - factor)
	return ColorMatrix{
		factor, 0, 0, 0, offset,
		0, factor, 0, 0, offset,
		0, 0, factor, 0, offset,
		0, 0, 0, 1, 0,
	}
}

// SaturationMatrix returns a matrix that blends between luminance and the
// original color.
// factor: 0.0 = grayscale, 1.0 = unchanged, 2.0 = oversaturated.
func SaturationMatrix(factor float32) ColorMatrix {
	// Luminance weights (Rec. 709)
	const (
		lumR = 0.2126
		lumG = 0.7152
		lumB = 0.0722
	)

	inv := 1 - factor

	return ColorMatrix{
		lumR*inv + factor, lumG * inv, lumB * inv, 0, 0,
		lumR * inv, lumG*inv + factor, lumB * inv, 0, 0,
		lumR * inv, lumG * inv, lumB*inv + factor, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// GrayscaleMatrix returns a matrix that converts to grayscale using
// Rec. 709 luminance weights.
func GrayscaleMatrix() ColorMatrix {
	return SaturationMatrix(0)
}

// SepiaMatrix returns a matrix that applies a sepia tone.
func SepiaMatrix() ColorMatrix {
	return ColorMatrix{
		0.393, 0.769, 0.189, 0, 0,
		0.349, 0.686, 0.168, 0, 0,
		0.272, 0.534, 0.131, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// InvertMatrix returns a matrix that inverts colors.
func InvertMatrix() ColorMatrix {
	return ColorMatrix{
		-1, 0, 0, 0, 255,
		0, -1, 0, 0, 255,
		0, 0, -1, 0, 255,
		0, 0, 0, 1, 0,
	}
}

// TintMatrix returns a matrix that blends the image toward a color.
// The blend factor comes from the color's alpha.
func TintMatrix(tint Color) ColorMatrix {
	f := float32(tint.A)
	inv := 1 - f

	tR := float32(tint.R) * 255
	tG := float32(tint.G) * 255
	tB := float32(tint.B) * 255

	return ColorMatrix{
		inv, 0, 0, 0, tR * f,
		0, inv, 0, 0, tG * f,
		0, 0, inv, 0, tB * f,
		0, 0, 0, 1, 0,
	}
}

// Multiply returns the matrix product m * other.
// The result applies other first, then m.
func (m ColorMatrix) Multiply(other ColorMatrix) ColorMatrix {
	var r ColorMatrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += m[row*5+k] * other[k*5+col]
			}
			r[row*5+col] = sum
		}
		// Offset column (5th)
		r[row*5+4] = m[row*5+0]*other[4] + m[row*5+1]*other[9] +
			m[row*5+2]*other[14] + m[row*5+3]*other[19] + m[row*5+4]
	}
	return r
}

// Apply transforms every pixel of the pixmap in place.
// Pixmap data is straight (unassociated) alpha, so the matrix applies to
// the stored bytes directly. Large pixmaps are split across the shared
// worker pool; each chunk works on disjoint bytes.
func (m ColorMatrix) Apply(p *Pixmap) {
	if p == nil {
		return
	}

	data := p.Data()
	parallel.Chunks(len(data)/4, 1<<15, func(start, end int) {
		m.apply(data[start*4 : end*4])
	})
}

// apply runs the matrix over a span of RGBA bytes.
func (m ColorMatrix) apply(data []uint8) {
	for i := 0; i+3 < len(data); i += 4 {
		r := float32(data[i+0])
		g := float32(data[i+1])
		b := float32(data[i+2])
		a := float32(data[i+3])

		newR := m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4]
		newG := m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9]
		newB := m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14]
		newA := m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19]

		data[i+0] = clampUint8(newR)
		data[i+1] = clampUint8(newG)
		data[i+2] = clampUint8(newB)
		data[i+3] = clampUint8(newA)
	}
}

// Uniforms packs the matrix for the shader side: a column-major 4x4 matrix
// followed by the offset column normalized to the [0,1] color range. The
// layout matches the color_matrix.wgsl uniform block.
func (m ColorMatrix) Uniforms() []float32 {
	u := make([]float32, 20)
	// mat4x4<f32> is column-major in WGSL uniform memory.
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			u[col*4+row] = m[row*5+col]
		}
	}
	for row := 0; row < 4; row++ {
		u[16+row] = m[row*5+4] / 255
	}
	return u
}

// clampUint8 converts a float to uint8 with clamping and rounding.
func clampUint8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
