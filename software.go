package photokit

import "context"

// SoftwareRenderer is the CPU rendering backend.
//
// The surface is a straight-alpha Pixmap. Software render strategies
// mutate it in place or replace it through SetPixmap when an operation
// changes dimensions. SoftwareRenderer is always available and is the
// fallback when the accelerated backend cannot initialize.
type SoftwareRenderer struct {
	pixmap *Pixmap
	closed bool
}

// NewSoftwareRenderer creates a software renderer with no surface.
// Init attaches the surface from the source image.
func NewSoftwareRenderer() *SoftwareRenderer {
	return &SoftwareRenderer{}
}

// Kind reports the software capability.
func (r *SoftwareRenderer) Kind() RendererKind {
	return KindSoftware
}

// Init creates the render surface as a copy of the source pixmap, so the
// pass never mutates caller-owned pixels.
func (r *SoftwareRenderer) Init(src *Pixmap) error {
	if r.closed {
		return ErrSurfaceClosed
	}
	if src == nil || src.Width() <= 0 || src.Height() <= 0 {
		return ErrEmptySurface
	}
	r.pixmap = src.Clone()
	return nil
}

// Dimensions returns the current surface size.
func (r *SoftwareRenderer) Dimensions() Vec2 {
	if r.pixmap == nil {
		return Vec2{}
	}
	return r.pixmap.Dimensions()
}

// Pixmap returns the current surface.
func (r *SoftwareRenderer) Pixmap() *Pixmap {
	return r.pixmap
}

// SetPixmap replaces the current surface.
func (r *SoftwareRenderer) SetPixmap(p *Pixmap) {
	r.pixmap = p
}

// Result hands back the rendered surface. Ownership transfers to the
// caller; the renderer keeps no reference after Close.
func (r *SoftwareRenderer) Result(_ context.Context) (*Pixmap, error) {
	if r.closed {
		return nil, ErrSurfaceClosed
	}
	if r.pixmap == nil {
		return nil, ErrEmptySurface
	}
	return r.pixmap, nil
}

// Close releases the surface reference. The renderer is unusable afterwards.
func (r *SoftwareRenderer) Close() error {
	r.pixmap = nil
	r.closed = true
	return nil
}
