// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// readSurface copies a surface into CPU memory and returns tightly
// packed RGBA rows. Callers hold dc.mu.
func (dc *deviceContext) readSurface(surf *surface) ([]byte, error) {
	w, h := surf.w, surf.h

	// WebGPU (and DX12) requires BytesPerRow aligned to 256 bytes.
	bytesPerRow := w * 4
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingBufSize := uint64(alignedBytesPerRow) * uint64(h)

	encoder, err := dc.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "surface_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create readback encoder: %w", err)
	}
	if err := encoder.BeginEncoding("surface_readback"); err != nil {
		return nil, fmt.Errorf("begin readback encoding: %w", err)
	}

	stagingBuf, err := dc.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "surface_staging",
		Size:  stagingBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer dc.device.DestroyBuffer(stagingBuf)

	// CopyTextureToBuffer requires the transfer source layout; move the
	// surface there and back so later passes can keep sampling it.
	transitionTo(encoder, surf, gputypes.TextureUsageCopySrc)
	encoder.CopyTextureToBuffer(surf.tex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(alignedBytesPerRow),
			RowsPerImage: uint32(h),
		},
		TextureBase: hal.ImageCopyTexture{Texture: surf.tex, MipLevel: 0},
		Size:        hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	}})
	transitionTo(encoder, surf, gputypes.TextureUsageTextureBinding)

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end readback encoding: %w", err)
	}
	defer dc.device.FreeCommandBuffer(cmdBuf)

	fence, err := dc.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer dc.device.DestroyFence(fence)

	if err := dc.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit readback: %w", err)
	}
	fenceOK, err := dc.device.Wait(fence, 1, passTimeout)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("wait for readback: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, stagingBufSize)
	if err := dc.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("read staging buffer: %w", err)
	}

	if alignedBytesPerRow == bytesPerRow {
		return readback[:bytesPerRow*h], nil
	}

	// Strip the per-row padding the alignment added.
	pixels := make([]byte, bytesPerRow*h)
	for row := 0; row < h; row++ {
		srcOff := row * alignedBytesPerRow
		dstOff := row * bytesPerRow
		copy(pixels[dstOff:dstOff+bytesPerRow], readback[srcOff:srcOff+bytesPerRow])
	}
	return pixels, nil
}
