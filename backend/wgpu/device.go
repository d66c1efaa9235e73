// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/photokit"
	"github.com/gogpu/wgpu/hal"

	// Register the Vulkan HAL backend.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// deviceContext owns the HAL instance, device and queue plus the GPU
// objects every renderer shares: the sampler, the bind group layout, the
// fullscreen quad and the per-label pipeline cache.
//
// One context serves the whole process. It is opened by the first
// renderer and torn down by Shutdown. Pass encoding and submission are
// serialized through mu because renderers share the single queue.
type deviceContext struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	externalDevice bool // true when using shared device (don't destroy on Shutdown)

	sampler    hal.Sampler
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	quadBuf    hal.Buffer
	whiteTex   hal.Texture
	whiteView  hal.TextureView

	pipelines map[string]*passPipeline
}

var (
	ctxMu     sync.Mutex
	sharedCtx *deviceContext
)

// acquireContext returns the shared device context, opening the GPU on
// first use. Callers that get an error fall back to software rendering.
func acquireContext() (*deviceContext, error) {
	ctxMu.Lock()
	defer ctxMu.Unlock()
	if sharedCtx != nil {
		return sharedCtx, nil
	}
	dc := &deviceContext{pipelines: make(map[string]*passPipeline)}
	if err := dc.initGPU(); err != nil {
		dc.release()
		return nil, err
	}
	sharedCtx = dc
	return sharedCtx, nil
}

func (dc *deviceContext) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	dc.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	dc.device = openDev.Device
	dc.queue = openDev.Queue
	if err := dc.createShared(); err != nil {
		dc.device.Destroy()
		dc.device = nil
		dc.queue = nil
		return fmt.Errorf("create shared objects: %w", err)
	}
	photokit.Logger().Info("GPU renderer initialized", "adapter", selected.Info.Name)
	return nil
}

// SetDeviceProvider switches the backend to a shared GPU device from an
// external provider (e.g., gogpu). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
//
// Renderers created before the switch must be closed first; the previous
// context is torn down before the shared device is adopted.
func SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}

	ctxMu.Lock()
	defer ctxMu.Unlock()

	if sharedCtx != nil {
		sharedCtx.release()
		sharedCtx = nil
	}

	dc := &deviceContext{
		device:         device,
		queue:          queue,
		externalDevice: true,
		pipelines:      make(map[string]*passPipeline),
	}
	if err := dc.createShared(); err != nil {
		dc.release()
		return fmt.Errorf("wgpu: create shared objects with shared device: %w", err)
	}
	sharedCtx = dc
	photokit.Logger().Info("adopted shared GPU device")
	return nil
}

// Shutdown destroys the shared GPU context. Open renderers must be
// closed first. Safe to call multiple times. A device adopted through
// SetDeviceProvider is not destroyed, only released.
func Shutdown() {
	ctxMu.Lock()
	defer ctxMu.Unlock()
	if sharedCtx != nil {
		sharedCtx.release()
		sharedCtx = nil
	}
}

func (dc *deviceContext) release() {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.destroyShared()
	if !dc.externalDevice && dc.device != nil {
		dc.device.Destroy()
	}
	dc.device = nil
	dc.queue = nil
	if dc.instance != nil {
		dc.instance.Destroy()
		dc.instance = nil
	}
	dc.externalDevice = false
}
