// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/ui/renderer"
)

// ImageSurface is an offscreen, double-buffered presentation target.
//
// Acquire hands out the back buffer; Present swaps it to the front.
// Front returns the last presented frame, which is what tests and the
// demo inspect or encode to disk. The zero value is not usable; create
// instances with NewImageSurface.
type ImageSurface struct {
	format        renderer.SurfaceFormat
	scale         float64
	width, height int

	back, front *image.RGBA
	acquired    bool
	presented   int
	closed      bool
}

var (
	_ Resizable = (*ImageSurface)(nil)
	_ Scaled    = (*ImageSurface)(nil)
)

// NewImageSurface creates an sRGB offscreen surface at scale 1.
func NewImageSurface(width, height int) (*ImageSurface, error) {
	return NewImageSurfaceWithFormat(width, height, renderer.FormatSRGB)
}

// NewImageSurfaceWithFormat creates an offscreen surface with an
// explicit pixel format.
func NewImageSurfaceWithFormat(width, height int, format renderer.SurfaceFormat) (*ImageSurface, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("surface: invalid size %dx%d", width, height)
	}
	return &ImageSurface{
		format: format,
		scale:  1,
		width:  width,
		height: height,
		back:   image.NewRGBA(image.Rect(0, 0, width, height)),
		front:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// Size returns the surface extent in device pixels.
func (s *ImageSurface) Size() (int, int) { return s.width, s.height }

// Format reports how presented pixel values are interpreted.
func (s *ImageSurface) Format() renderer.SurfaceFormat { return s.format }

// Scale returns the display scale factor.
func (s *ImageSurface) Scale() float64 { return s.scale }

// SetScale overrides the reported display scale factor. Tests use this
// to simulate high-DPI hosts.
func (s *ImageSurface) SetScale(scale float64) {
	if scale > 0 {
		s.scale = scale
	}
}

// Acquire returns the back buffer for the next frame.
func (s *ImageSurface) Acquire() (*image.RGBA, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	s.acquired = true
	return s.back, nil
}

// Present swaps the acquired back buffer to the front.
func (s *ImageSurface) Present() error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if !s.acquired {
		return ErrNotAcquired
	}
	s.back, s.front = s.front, s.back
	s.acquired = false
	s.presented++
	return nil
}

// Front returns the last presented frame. The returned image is owned
// by the surface; it stays valid until the frame after next is
// presented. Before the first Present it is fully transparent.
func (s *ImageSurface) Front() *image.RGBA { return s.front }

// Presented returns the number of frames presented so far.
func (s *ImageSurface) Presented() int { return s.presented }

// Resize reallocates both buffers. Content and any unpresented frame
// are discarded.
func (s *ImageSurface) Resize(width, height int) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if width < 1 || height < 1 {
		return fmt.Errorf("surface: invalid size %dx%d", width, height)
	}
	s.width, s.height = width, height
	s.back = image.NewRGBA(image.Rect(0, 0, width, height))
	s.front = image.NewRGBA(image.Rect(0, 0, width, height))
	s.acquired = false
	return nil
}

// Close releases the buffers. Close is idempotent.
func (s *ImageSurface) Close() error {
	s.closed = true
	s.back = nil
	s.front = nil
	return nil
}

// PresentFrame copies a rendered frame into the surface and presents it
// in one step. Only the overlapping region is copied.
func PresentFrame(s Surface, frame *image.RGBA) error {
	buf, err := s.Acquire()
	if err != nil {
		return err
	}
	draw.Draw(buf, buf.Bounds(), frame, frame.Bounds().Min, draw.Src)
	return s.Present()
}
