package imaging

// BlendOver composites src over dst at offset (ox, oy) using straight-alpha
// source-over blending. opacity in [0,1] scales the source alpha. Regions
// of src outside dst are clipped.
func BlendOver(dst []uint8, dw, dh int, src []uint8, sw, sh int, ox, oy int, opacity float64) {
	if opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}

	for sy := 0; sy < sh; sy++ {
		dy := oy + sy
		if dy < 0 || dy >= dh {
			continue
		}
		for sx := 0; sx < sw; sx++ {
			dx := ox + sx
			if dx < 0 || dx >= dw {
				continue
			}

			si := (sy*sw + sx) * 4
			sa := float64(src[si+3]) / 255 * opacity
			if sa <= 0 {
				continue
			}

			di := (dy*dw + dx) * 4
			da := float64(dst[di+3]) / 255
			outA := sa + da*(1-sa)
			if outA <= 0 {
				dst[di+0], dst[di+1], dst[di+2], dst[di+3] = 0, 0, 0, 0
				continue
			}

			for c := 0; c < 3; c++ {
				sc := float64(src[si+c])
				dc := float64(dst[di+c])
				dst[di+c] = roundByte((sc*sa + dc*da*(1-sa)) / outA)
			}
			dst[di+3] = roundByte(outA * 255)
		}
	}
}

// FillRect blends a solid color over the rectangle [x0,x1) x [y0,y1) of dst.
// The color is straight-alpha RGBA bytes.
func FillRect(dst []uint8, dw, dh int, x0, y0, x1, y1 int, r, g, b, a uint8) {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > dw {
		x1 = dw
	}
	if y1 > dh {
		y1 = dh
	}
	if x0 >= x1 || y0 >= y1 || a == 0 {
		return
	}

	sa := float64(a) / 255
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			di := (y*dw + x) * 4
			if a == 255 {
				dst[di+0], dst[di+1], dst[di+2], dst[di+3] = r, g, b, 255
				continue
			}
			da := float64(dst[di+3]) / 255
			outA := sa + da*(1-sa)
			if outA <= 0 {
				continue
			}
			dst[di+0] = roundByte((float64(r)*sa + float64(dst[di+0])*da*(1-sa)) / outA)
			dst[di+1] = roundByte((float64(g)*sa + float64(dst[di+1])*da*(1-sa)) / outA)
			dst[di+2] = roundByte((float64(b)*sa + float64(dst[di+2])*da*(1-sa)) / outA)
			dst[di+3] = roundByte(outA * 255)
		}
	}
}

// roundByte converts a float in [0,255] to uint8 with rounding.
func roundByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
