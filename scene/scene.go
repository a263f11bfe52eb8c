// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene converts a positioned element tree into an ordered list of
// backend-agnostic draw primitives.
//
// The builder walks the tree in paint order (parents before children, back
// to front), resolves each node's absolute rectangle from the layout
// engine, applies ancestor clips and scroll offsets, and emits primitives.
// Primitives are transient: the scene is rebuilt per frame and never
// mutated in place.
package scene

import (
	"github.com/gogpu/ui"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/text"
)

// Kind discriminates primitive payloads. The set is closed; renderers
// switch exhaustively over it.
type Kind uint8

const (
	// KindRect is a filled rounded rectangle with optional per-side
	// borders.
	KindRect Kind = iota
	// KindGlyphRun is a run of positioned glyphs on one baseline.
	KindGlyphRun
	// KindSolid is an untextured quad drawn through the text pipeline
	// (selection highlights, carets).
	KindSolid
	// KindImage is a textured quad referencing a resource handle.
	KindImage
	// KindPath is a filled vector path.
	KindPath
)

// Primitive is one draw command. Geometry is in scene coordinates
// (layout pixels, origin top-left). Colors are non-premultiplied sRGB.
type Primitive struct {
	Kind Kind

	// Clip is the effective clip rectangle, the intersection of every
	// ancestor clip. Valid only when HasClip is set.
	Clip    ui.Rect
	HasClip bool

	// Rect positions rects, solids and images. For glyph runs it is the
	// ink extent used for culling.
	Rect  ui.Rect
	Color ui.Color

	// Rounded rectangle payload.
	Radii        ui.CornerRadii
	BorderWidths ui.Insets
	BorderColors style.BorderColors

	// Glyph run payload. Origin is the baseline origin; glyph positions
	// are relative to it.
	Origin     ui.Point
	Glyphs     []text.Glyph
	FontSource *text.Source
	FontSize   float32

	// Image payload: the resource handle to sample.
	Resource string

	// Path payload.
	Path *ui.Path
}

// Scene is the draw-command list for one frame.
type Scene struct {
	Primitives []Primitive

	// Viewport is the root size the scene was built for, in layout
	// pixels.
	Viewport ui.Size

	// Scale is the device pixel ratio used for snapping.
	Scale float32
}

// append adds a primitive with the current clip applied.
func (s *Scene) append(p Primitive, clip ui.Rect, hasClip bool) {
	p.Clip = clip
	p.HasClip = hasClip
	s.Primitives = append(s.Primitives, p)
}
