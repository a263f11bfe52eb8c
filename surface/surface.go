// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"

	"github.com/gogpu/ui/renderer"
)

var (
	// ErrSurfaceClosed is returned by operations on a closed surface.
	ErrSurfaceClosed = errors.New("surface: closed")

	// ErrSurfaceLost means the underlying target is gone (the window was
	// destroyed or the swapchain invalidated) and the surface must be
	// recreated by the host.
	ErrSurfaceLost = errors.New("surface: lost")

	// ErrNotAcquired is returned by Present when no frame buffer is
	// currently acquired.
	ErrNotAcquired = errors.New("surface: present without acquire")
)

// Surface is a presentation target for rendered frames.
//
// The frame protocol is acquire, draw, present: Acquire returns the
// buffer for the next frame, the caller fills it (typically by copying a
// renderer snapshot), and Present publishes it. Acquiring again without
// presenting abandons the previous buffer.
type Surface interface {
	// Size returns the surface extent in device pixels.
	Size() (width, height int)

	// Format reports how presented pixel values are interpreted.
	Format() renderer.SurfaceFormat

	// Acquire returns the buffer for the next frame. The buffer is owned
	// by the surface and is valid until the matching Present.
	Acquire() (*image.RGBA, error)

	// Present publishes the acquired buffer.
	Present() error

	// Close releases the surface. Close is idempotent.
	Close() error
}

// Resizable is an optional interface for surfaces whose extent can
// change after creation. Resizing discards any unpresented frame.
type Resizable interface {
	Surface

	Resize(width, height int) error
}

// DeviceSurface is an optional interface for surfaces backed by a GPU
// device. The returned value is passed through renderer.Options.Device
// so a GPU backend renders on the host's device instead of opening its
// own.
type DeviceSurface interface {
	Surface

	Device() any
}

// Scaled is an optional interface for surfaces that know their display
// scale factor. Hosts on high-DPI displays report values above 1.
type Scaled interface {
	Surface

	Scale() float64
}
