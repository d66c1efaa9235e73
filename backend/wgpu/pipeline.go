// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// passPipeline is one compiled shader pass, cached by pass label.
type passPipeline struct {
	shader   hal.ShaderModule
	pipeline hal.RenderPipeline
}

// quadVertexStride is the size of one quad vertex: two floats position,
// two floats texture coordinate.
const quadVertexStride = 16

// quadVertices is a fullscreen quad as two triangles in clip space.
// Texture coordinates flip the y axis so uv (0,0) samples the top-left
// pixel of the surface.
func quadVertices() []float32 {
	return []float32{
		// x, y, u, v
		-1, -1, 0, 1,
		1, -1, 1, 1,
		1, 1, 1, 0,

		-1, -1, 0, 1,
		1, 1, 1, 0,
		-1, 1, 0, 0,
	}
}

func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // uv
			},
		},
	}
}

// createShared creates the objects every pass reuses: the bilinear
// sampler, the common bind group layout, the fullscreen quad vertex
// buffer and the 1x1 white texture bound when a pass has no overlay.
//
// All passes share one bind group layout:
//
//	binding 0: sampler
//	binding 1: source surface texture
//	binding 2: pass uniforms
//	binding 3: overlay texture
func (dc *deviceContext) createShared() error {
	sampler, err := dc.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "pass_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create pass sampler: %w", err)
	}
	dc.sampler = sampler

	bindLayout, err := dc.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "pass_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageFragment, Sampler: &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}},
			{Binding: 1, Visibility: gputypes.ShaderStageFragment, Texture: &gputypes.TextureBindingLayout{SampleType: gputypes.TextureSampleTypeFloat, ViewDimension: gputypes.TextureViewDimension2D}},
			{Binding: 2, Visibility: gputypes.ShaderStageFragment, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 3, Visibility: gputypes.ShaderStageFragment, Texture: &gputypes.TextureBindingLayout{SampleType: gputypes.TextureSampleTypeFloat, ViewDimension: gputypes.TextureViewDimension2D}},
		},
	})
	if err != nil {
		return fmt.Errorf("create pass bind group layout: %w", err)
	}
	dc.bindLayout = bindLayout

	pipeLayout, err := dc.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "pass_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{dc.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pass pipeline layout: %w", err)
	}
	dc.pipeLayout = pipeLayout

	quadBuf, err := dc.createAndUploadBuffer("pass_quad_verts", packFloats(quadVertices()),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	dc.quadBuf = quadBuf

	whiteTex, whiteView, err := dc.createTexture("pass_white", 1, 1,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		return err
	}
	dc.whiteTex = whiteTex
	dc.whiteView = whiteView
	dc.uploadPixels(whiteTex, 1, 1, []byte{0xFF, 0xFF, 0xFF, 0xFF})
	return nil
}

func (dc *deviceContext) destroyShared() {
	if dc.device == nil {
		return
	}
	for _, p := range dc.pipelines {
		if p.pipeline != nil {
			dc.device.DestroyRenderPipeline(p.pipeline)
		}
		if p.shader != nil {
			dc.device.DestroyShaderModule(p.shader)
		}
	}
	dc.pipelines = make(map[string]*passPipeline)
	if dc.whiteView != nil {
		dc.device.DestroyTextureView(dc.whiteView)
		dc.whiteView = nil
	}
	if dc.whiteTex != nil {
		dc.device.DestroyTexture(dc.whiteTex)
		dc.whiteTex = nil
	}
	if dc.quadBuf != nil {
		dc.device.DestroyBuffer(dc.quadBuf)
		dc.quadBuf = nil
	}
	if dc.pipeLayout != nil {
		dc.device.DestroyPipelineLayout(dc.pipeLayout)
		dc.pipeLayout = nil
	}
	if dc.bindLayout != nil {
		dc.device.DestroyBindGroupLayout(dc.bindLayout)
		dc.bindLayout = nil
	}
	if dc.sampler != nil {
		dc.device.DestroySampler(dc.sampler)
		dc.sampler = nil
	}
}

// ensurePipeline returns the compiled pipeline for a pass label,
// compiling the WGSL source on first use. Callers hold dc.mu.
//
// Passes overwrite every pixel of their target, so the color target
// carries no blend state.
func (dc *deviceContext) ensurePipeline(label, wgsl string) (*passPipeline, error) {
	if p, ok := dc.pipelines[label]; ok {
		return p, nil
	}
	shader, err := dc.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{WGSL: wgsl},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", label, err)
	}
	pipeline, err := dc.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label + "_pipeline",
		Layout: dc.pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatRGBA8Unorm,
					Blend:     nil,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		dc.device.DestroyShaderModule(shader)
		return nil, fmt.Errorf("create %s pipeline: %w", label, err)
	}
	p := &passPipeline{shader: shader, pipeline: pipeline}
	dc.pipelines[label] = p
	return p, nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (dc *deviceContext) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := dc.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	dc.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// packFloats serializes float32 values little-endian for upload.
func packFloats(values []float32) []byte {
	data := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return data
}

// packUniforms serializes pass uniforms padded to the 16-byte block
// alignment WGSL requires. A pass with no uniforms still binds a
// 16-byte zero block.
func packUniforms(values []float32) []byte {
	size := len(values) * 4
	if rem := size % 16; rem != 0 {
		size += 16 - rem
	}
	if size == 0 {
		size = 16
	}
	data := make([]byte, size)
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return data
}
