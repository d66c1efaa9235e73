// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package wgpu provides the GPU-accelerated render backend using
// gogpu/wgpu.
//
// The backend executes photokit shader passes through the wgpu HAL. It
// uses the Pure Go WebGPU implementation, which supports Vulkan, Metal,
// and DX12 depending on the platform.
//
// # Architecture
//
// Each renderer owns a pair of RGBA surfaces. A shader pass samples the
// read surface, draws one fullscreen quad into the write surface, then
// the pair swaps:
//
//	Pixmap -> upload -> [read] --pass--> [write] -> swap -> ... -> readback -> Pixmap
//
// Every pass shares one bind group layout:
//
//	binding 0: bilinear sampler
//	binding 1: source surface
//	binding 2: pass uniforms
//	binding 3: overlay texture (1x1 white when the pass has none)
//
// Pipelines are compiled from WGSL on first use and cached by pass
// label for the life of the device context.
//
// # Registration and Selection
//
// The backend registers itself through the photokit/gpu package:
//
//	import _ "github.com/gogpu/photokit/gpu"
//
// When GPU initialization fails, renderer construction reports the
// error and the pipeline falls back to software rendering.
//
// # Device Sharing
//
// The process holds one GPU device context shared by all renderers.
// Host applications that already own a wgpu device can hand it over
// with SetDeviceProvider; Shutdown then releases the context without
// destroying the shared device.
//
// # Requirements
//
//   - gogpu/wgpu module (github.com/gogpu/wgpu)
//   - A GPU with Vulkan support
//
// Build with the nogpu tag to compile the module without this backend.
package wgpu
