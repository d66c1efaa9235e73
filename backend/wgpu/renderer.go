// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/photokit"
	"github.com/gogpu/wgpu/hal"
)

// passTimeout bounds the fence wait after each submitted pass.
const passTimeout = 5 * time.Second

// Renderer executes shader passes on the GPU. It holds a read/write pair
// of RGBA surfaces: each pass samples the read surface, draws a
// fullscreen quad into the write surface and swaps the pair.
//
// Renderers share the process-wide device context; passes from different
// renderers are serialized on the shared queue.
type Renderer struct {
	dc *deviceContext

	read  *surface
	write *surface
	dims  photokit.Vec2

	closed bool
}

var (
	_ photokit.Renderer          = (*Renderer)(nil)
	_ photokit.AcceleratedTarget = (*Renderer)(nil)
)

// New creates a renderer on the shared GPU device, opening the device on
// first use. Returns an error when no usable GPU is present; callers
// fall back to the software renderer.
func New() (*Renderer, error) {
	dc, err := acquireContext()
	if err != nil {
		return nil, fmt.Errorf("wgpu: %w", err)
	}
	return &Renderer{dc: dc}, nil
}

func (r *Renderer) Kind() photokit.RendererKind {
	return photokit.KindAccelerated
}

// Init uploads the source pixmap into a fresh surface pair. The source
// is copied to the GPU; caller-owned pixels are never mutated.
func (r *Renderer) Init(src *photokit.Pixmap) error {
	if r.closed {
		return photokit.ErrSurfaceClosed
	}
	if src == nil || src.Width() <= 0 || src.Height() <= 0 {
		return photokit.ErrEmptySurface
	}
	w, h := src.Width(), src.Height()

	r.dc.mu.Lock()
	defer r.dc.mu.Unlock()

	r.destroySurfaces()

	read, err := r.dc.createSurface("surface_read", w, h)
	if err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	write, err := r.dc.createSurface("surface_write", w, h)
	if err != nil {
		read.destroy(r.dc.device)
		return fmt.Errorf("wgpu: %w", err)
	}
	r.dc.uploadSurface(read, src.Data())

	r.read = read
	r.write = write
	r.dims = src.Dimensions()
	return nil
}

// Dimensions returns the current surface size.
func (r *Renderer) Dimensions() photokit.Vec2 {
	if r.read == nil {
		return photokit.Vec2{}
	}
	return r.dims
}

// RunPass compiles the pass shader on first use, draws one fullscreen
// quad into the write surface at the pass target size and swaps the
// surface pair. The write surface is resized to the target before the
// draw; the surface holding the previous content follows after the swap,
// once its pixels are no longer needed.
func (r *Renderer) RunPass(pass *photokit.ShaderPass) error {
	if r.closed {
		return photokit.ErrSurfaceClosed
	}
	if r.read == nil {
		return photokit.ErrEmptySurface
	}
	if pass == nil {
		return fmt.Errorf("wgpu: nil shader pass")
	}
	targetW, targetH := int(pass.Target.X), int(pass.Target.Y)
	if targetW <= 0 || targetH <= 0 {
		return fmt.Errorf("wgpu: %s pass has invalid target %dx%d", pass.Label, targetW, targetH)
	}

	r.dc.mu.Lock()
	defer r.dc.mu.Unlock()

	p, err := r.dc.ensurePipeline(pass.Label, pass.WGSL)
	if err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}

	if r.write.w != targetW || r.write.h != targetH {
		r.write.destroy(r.dc.device)
		write, err := r.dc.createSurface("surface_write", targetW, targetH)
		if err != nil {
			r.write = nil
			return fmt.Errorf("wgpu: %w", err)
		}
		r.write = write
	}

	uniformData := packUniforms(pass.Uniforms)
	uniformBuf, err := r.dc.createAndUploadBuffer(pass.Label+"_uniforms", uniformData,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	defer r.dc.device.DestroyBuffer(uniformBuf)

	// Passes without an overlay sample the shared 1x1 white texture.
	overlayView := r.dc.whiteView
	if pass.Overlay != nil && pass.Overlay.Width() > 0 && pass.Overlay.Height() > 0 {
		ow, oh := pass.Overlay.Width(), pass.Overlay.Height()
		overlayTex, view, err := r.dc.createTexture(pass.Label+"_overlay", ow, oh,
			gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
		if err != nil {
			return fmt.Errorf("wgpu: %w", err)
		}
		defer r.dc.device.DestroyTexture(overlayTex)
		defer r.dc.device.DestroyTextureView(view)
		r.dc.uploadPixels(overlayTex, ow, oh, pass.Overlay.Data())
		overlayView = view
	}

	bindGroup, err := r.dc.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  pass.Label + "_bind",
		Layout: r.dc.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.SamplerBinding{
				Sampler: r.dc.sampler.NativeHandle(),
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: r.read.view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: uint64(len(uniformData)),
			}},
			{Binding: 3, Resource: gputypes.TextureViewBinding{
				TextureView: overlayView.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create %s bind group: %w", pass.Label, err)
	}
	defer r.dc.device.DestroyBindGroup(bindGroup)

	encoder, err := r.dc.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: pass.Label + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(pass.Label); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	// The render pass transitions the attachment into render layout on
	// its own; only the way back to sampling needs an explicit barrier.
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: pass.Label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       r.write.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.SetVertexBuffer(0, r.dc.quadBuf, 0)
	rp.Draw(6, 1, 0, 0)
	rp.End()
	r.write.usage = gputypes.TextureUsageRenderAttachment

	transitionTo(encoder, r.write, gputypes.TextureUsageTextureBinding)

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer r.dc.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.dc.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer r.dc.device.DestroyFence(fence)

	if err := r.dc.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit %s pass: %w", pass.Label, err)
	}
	fenceOK, err := r.dc.device.Wait(fence, 1, passTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wgpu: wait for %s pass: ok=%v err=%w", pass.Label, fenceOK, err)
	}

	r.read, r.write = r.write, r.read
	r.dims = pass.Target

	// The old read surface sat out the draw so its pixels stayed
	// samplable; now that the result lives on the other side it can
	// follow the target size.
	if r.write.w != targetW || r.write.h != targetH {
		r.write.destroy(r.dc.device)
		write, err := r.dc.createSurface("surface_write", targetW, targetH)
		if err != nil {
			r.write = nil
			return fmt.Errorf("wgpu: %w", err)
		}
		r.write = write
	}
	return nil
}

// ResizeSurfaces carries the surface content across to dims with a
// pass-through draw, resampling bilinearly. Both surfaces end up at the
// new size.
func (r *Renderer) ResizeSurfaces(dims photokit.Vec2) error {
	return r.RunPass(&photokit.ShaderPass{
		Label:  "blit",
		WGSL:   photokit.BlitShaderSource(),
		Target: dims,
	})
}

// Result downloads the read surface into a pixmap.
func (r *Renderer) Result(ctx context.Context) (*photokit.Pixmap, error) {
	if r.closed {
		return nil, photokit.ErrSurfaceClosed
	}
	if r.read == nil {
		return nil, photokit.ErrEmptySurface
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.dc.mu.Lock()
	defer r.dc.mu.Unlock()

	pixels, err := r.dc.readSurface(r.read)
	if err != nil {
		return nil, fmt.Errorf("wgpu: %w", err)
	}
	return photokit.NewPixmapFromData(r.read.w, r.read.h, pixels), nil
}

// Close destroys the renderer's surfaces. The shared device context
// stays alive for other renderers; Shutdown tears it down.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.dc.mu.Lock()
	r.destroySurfaces()
	r.dc.mu.Unlock()
	r.closed = true
	return nil
}

// destroySurfaces releases the surface pair. Callers hold dc.mu.
func (r *Renderer) destroySurfaces() {
	if r.read != nil {
		r.read.destroy(r.dc.device)
		r.read = nil
	}
	if r.write != nil {
		r.write.destroy(r.dc.device)
		r.write = nil
	}
	r.dims = photokit.Vec2{}
}
