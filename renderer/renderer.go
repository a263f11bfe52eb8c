// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package renderer defines the backend contract for turning a built scene
// into presented pixels.
//
// Backends are registered with a priority and selected at startup; the
// scene is backend-agnostic, so a GPU backend and the software rasterizer
// consume the same primitive stream. Color handling is part of the
// contract: every backend must apply the same content-type and
// surface-format dependent conversions (see convert.go), otherwise
// output gamma is visibly wrong.
package renderer

import (
	"context"
	"fmt"
	"image"

	"github.com/gogpu/ui/scene"
	"github.com/gogpu/ui/text"
)

// SurfaceFormat describes how the output surface interprets written color
// values.
type SurfaceFormat uint8

const (
	// FormatSRGB means the surface performs linear->sRGB encoding on
	// write, so fragments must output linear values.
	FormatSRGB SurfaceFormat = iota

	// FormatLinear means the surface stores values as written.
	FormatLinear
)

// String returns the format name.
func (f SurfaceFormat) String() string {
	switch f {
	case FormatSRGB:
		return "srgb"
	case FormatLinear:
		return "linear"
	default:
		return fmt.Sprintf("SurfaceFormat(%d)", uint8(f))
	}
}

// ContentType tags a textured fragment so the fragment stage knows how to
// interpret the sampled texel. The numeric values are part of the shader
// ABI; they are written into vertex data as-is.
type ContentType uint32

const (
	// ContentMask is an alpha-only glyph: the vertex color is used with
	// its alpha multiplied by the sampled mask alpha.
	ContentMask ContentType = 0

	// ContentColorBitmap is a color glyph (emoji): the sampled texel is
	// used directly.
	ContentColorBitmap ContentType = 1

	// ContentSolid is an untextured quad (caret, selection highlight):
	// the vertex color is used directly.
	ContentSolid ContentType = 2
)

// String returns the content type name.
func (c ContentType) String() string {
	switch c {
	case ContentMask:
		return "mask"
	case ContentColorBitmap:
		return "color-bitmap"
	case ContentSolid:
		return "solid"
	default:
		return fmt.Sprintf("ContentType(%d)", uint32(c))
	}
}

// ImageSource resolves resource identifiers referenced by image primitives
// to decoded pixels. A missing entry means the resource is still loading
// or failed; backends draw a placeholder in that case.
type ImageSource interface {
	Image(id string) (image.Image, bool)
}

// Options configures backend construction.
type Options struct {
	// Width and Height are the output size in device pixels.
	Width, Height int

	// Format is the output surface format. The software backend always
	// produces sRGB and ignores a linear request.
	Format SurfaceFormat

	// Fonts supplies registered font sources for glyph rasterization.
	Fonts *text.Library

	// Images resolves image primitive resources. May be nil; image
	// primitives then render as placeholders.
	Images ImageSource

	// Device optionally supplies a shared GPU device from the host.
	// GPU backends accept a provider exposing HAL device and queue;
	// the software backend ignores it.
	Device any
}

// Backend renders scenes into an output target it owns.
//
// A backend is bound to one logical surface; Resize reallocates the
// target. Backends are not safe for concurrent use: the UI thread owns
// rendering.
type Backend interface {
	// Name returns the registry identifier.
	Name() string

	// Render draws one frame. A returned error wrapping ErrDeviceLost
	// means the backend's GPU context is gone and the host must tear
	// the backend down and create a new one; other errors are
	// frame-local.
	Render(ctx context.Context, sc *scene.Scene) error

	// Resize changes the output size in device pixels.
	Resize(width, height int) error

	// Destroy releases all resources. The backend must not be used
	// afterwards. Destroy is idempotent.
	Destroy()
}

// Snapshotter is an optional interface for backends that can read their
// output back into CPU memory.
type Snapshotter interface {
	// Snapshot returns a copy of the last rendered frame.
	Snapshot() *image.RGBA
}
