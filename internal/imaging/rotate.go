package imaging

import "github.com/gogpu/photokit/internal/parallel"

// Exact right-angle rotations on raw straight-alpha RGBA buffers.
// These are index remappings, not resampling, so repeated application
// is lossless. Source rows are independent, so large images split their
// row range across the shared worker pool.

// rotateRowGrain is the minimum number of source rows per parallel chunk.
const rotateRowGrain = 64

// Rotate90 returns src rotated 90° clockwise.
// The output buffer has dimensions (h, w).
func Rotate90(src []uint8, w, h int) []uint8 {
	dst := make([]uint8, len(src))
	dstW := h
	parallel.Chunks(h, rotateRowGrain, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				si := (y*w + x) * 4
				di := (x*dstW + (h - 1 - y)) * 4
				copy(dst[di:di+4], src[si:si+4])
			}
		}
	})
	return dst
}

// Rotate180 returns src rotated 180°. Dimensions are unchanged.
func Rotate180(src []uint8, w, h int) []uint8 {
	dst := make([]uint8, len(src))
	parallel.Chunks(h, rotateRowGrain, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				si := (y*w + x) * 4
				di := ((h-1-y)*w + (w - 1 - x)) * 4
				copy(dst[di:di+4], src[si:si+4])
			}
		}
	})
	return dst
}

// Rotate270 returns src rotated 270° clockwise (90° counter-clockwise).
// The output buffer has dimensions (h, w).
func Rotate270(src []uint8, w, h int) []uint8 {
	dst := make([]uint8, len(src))
	dstW := h
	parallel.Chunks(h, rotateRowGrain, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				si := (y*w + x) * 4
				di := ((w-1-x)*dstW + y) * 4
				copy(dst[di:di+4], src[si:si+4])
			}
		}
	})
	return dst
}
