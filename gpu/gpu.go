//go:build !nogpu

// Package gpu registers the GPU-accelerated render backend.
//
// Import this package to let the edit pipeline run its shader passes on
// the GPU. The backend uses wgpu/hal render pipelines compiled from the
// same WGSL sources the software renderer mirrors.
//
// If GPU initialization fails (no Vulkan available), renderer creation
// reports the error and the pipeline falls back to software rendering.
//
// Usage:
//
//	import _ "github.com/gogpu/photokit/gpu" // enable GPU acceleration
//
// Build with the nogpu tag to compile without the GPU backend.
package gpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/photokit"
	"github.com/gogpu/photokit/backend/wgpu"
)

// DeviceHandle provides GPU device access from a host application.
//
// Host frameworks like gogpu implement gpucontext.DeviceProvider and
// hand their device over, so the edit pipeline runs on the shared GPU
// instead of opening its own. DeviceHandle is an alias for
// gpucontext.DeviceProvider, giving the interface a photokit-specific
// name while staying compatible with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

func init() {
	photokit.RegisterRendererFactory(photokit.KindAccelerated, func() (photokit.Renderer, error) {
		r, err := wgpu.New()
		if err != nil {
			photokit.Logger().Warn("GPU renderer not available", "err", err)
			return nil, err
		}
		return r, nil
	})
}

// SetDeviceProvider configures the backend to use a shared GPU device
// from an external provider (e.g., gogpu). This avoids creating a
// separate GPU instance and enables efficient device sharing.
//
// The provider should also implement gpucontext.HalProvider for direct
// HAL access. Call this before the first render.
func SetDeviceProvider(provider DeviceHandle) error {
	return wgpu.SetDeviceProvider(provider)
}

// Shutdown tears down the shared GPU context. Call once at process exit
// after all editors have finished; a device adopted through
// SetDeviceProvider is released but not destroyed.
func Shutdown() {
	wgpu.Shutdown()
}
