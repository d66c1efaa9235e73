// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// surfaceUsage covers everything a ping-pong surface does over its life:
// render target, sampled source, readback source and upload destination.
const surfaceUsage = gputypes.TextureUsageRenderAttachment |
	gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageCopySrc |
	gputypes.TextureUsageCopyDst

// surface is one side of a renderer's ping-pong pair: an RGBA texture a
// pass samples from or draws into.
type surface struct {
	tex  hal.Texture
	view hal.TextureView
	w, h int

	// usage is the layout the texture currently sits in. Vulkan needs
	// explicit barriers between render, sample and copy states.
	usage gputypes.TextureUsage
}

func (dc *deviceContext) createSurface(label string, w, h int) (*surface, error) {
	tex, view, err := dc.createTexture(label, w, h, surfaceUsage)
	if err != nil {
		return nil, err
	}
	return &surface{
		tex:   tex,
		view:  view,
		w:     w,
		h:     h,
		usage: gputypes.TextureUsageTextureBinding,
	}, nil
}

func (s *surface) destroy(device hal.Device) {
	if s.view != nil {
		device.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.tex != nil {
		device.DestroyTexture(s.tex)
		s.tex = nil
	}
}

// transitionTo records a layout barrier moving surf to usage. No-op when
// the surface is already there. Vulkan consumes the barrier; other HAL
// backends ignore it.
func transitionTo(encoder hal.CommandEncoder, surf *surface, usage gputypes.TextureUsage) {
	if surf.usage == usage {
		return
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: surf.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: surf.usage,
			NewUsage: usage,
		},
	}})
	surf.usage = usage
}

func (dc *deviceContext) createTexture(label string, w, h int, usage gputypes.TextureUsage) (hal.Texture, hal.TextureView, error) {
	tex, err := dc.device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s texture: %w", label, err)
	}
	view, err := dc.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		dc.device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("create %s view: %w", label, err)
	}
	return tex, view, nil
}

// uploadPixels copies straight-alpha RGBA rows into a texture. The HAL
// write leaves the texture ready for sampling.
func (dc *deviceContext) uploadPixels(tex hal.Texture, w, h int, data []byte) {
	dc.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w * 4),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
}

func (dc *deviceContext) uploadSurface(surf *surface, data []byte) {
	dc.uploadPixels(surf.tex, surf.w, surf.h, data)
	surf.usage = gputypes.TextureUsageTextureBinding
}
