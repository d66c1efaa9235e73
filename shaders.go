package photokit

import (
	_ "embed"
)

// Embedded WGSL sources for the accelerated render passes. Each operation
// hands one of these to the backend inside a ShaderPass; the backend
// compiles and caches the pipeline under the pass label.

//go:embed shaders/color_matrix.wgsl
var colorMatrixShaderSource string

//go:embed shaders/transform.wgsl
var transformShaderSource string

//go:embed shaders/crop.wgsl
var cropShaderSource string

//go:embed shaders/blur.wgsl
var blurShaderSource string

//go:embed shaders/overlay.wgsl
var overlayShaderSource string

//go:embed shaders/frame.wgsl
var frameShaderSource string

//go:embed shaders/blit.wgsl
var blitShaderSource string

// Pass labels. The accelerated backend keys its pipeline cache on these,
// so every pass built from the same source must reuse the same label.
const (
	passColorMatrix = "color_matrix"
	passTransform   = "transform"
	passCrop        = "crop"
	passBlur        = "blur"
	passOverlay     = "overlay"
	passFrame       = "frame"
)

// ShaderSources returns the embedded WGSL source for every render pass,
// keyed by pass label. Exposed so backends and tests can validate the
// full set without running a render.
func ShaderSources() map[string]string {
	return map[string]string{
		passColorMatrix: colorMatrixShaderSource,
		passTransform:   transformShaderSource,
		passCrop:        cropShaderSource,
		passBlur:        blurShaderSource,
		passOverlay:     overlayShaderSource,
		passFrame:       frameShaderSource,
		"blit":          blitShaderSource,
	}
}

// BlitShaderSource returns the pass-through copy shader. The accelerated
// backend compiles it to carry surface content across resizes.
func BlitShaderSource() string {
	return blitShaderSource
}
