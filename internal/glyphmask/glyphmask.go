// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package glyphmask rasterizes glyph outlines to alpha coverage bitmaps.
//
// Both renderer backends consume these masks: the software rasterizer
// blends them directly, the GPU backend uploads them into its glyph
// atlas. Fonts are re-parsed with x/image/font/sfnt from the source's
// raw bytes because outline loading wants that parser.
package glyphmask

import (
	"image"
	"sync"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/ui/text"
)

// cacheLimit bounds cached masks; the cache is dropped wholesale when
// exceeded. Glyph sets in UI text are small enough that churn past the
// limit means sizes changed, not a hot working set.
const cacheLimit = 4096

type key struct {
	source uint64
	gid    uint32
	ppem   fixed.Int26_6
}

// Mask is a rasterized alpha coverage bitmap for one glyph at one size.
// Offset positions the bitmap relative to the glyph dot; a nil Alpha
// marks a glyph with no outline (space, load failure).
type Mask struct {
	Alpha  *image.Alpha
	Offset image.Point
}

// Cache rasterizes glyph outlines to alpha masks on demand. Safe for
// concurrent use; the mutex also covers the shared sfnt buffer.
type Cache struct {
	mu    sync.Mutex
	fonts map[uint64]*sfnt.Font
	masks map[key]*Mask
	buf   sfnt.Buffer
}

// NewCache creates an empty mask cache.
func NewCache() *Cache {
	return &Cache{
		fonts: make(map[uint64]*sfnt.Font),
		masks: make(map[key]*Mask),
	}
}

// Mask returns the coverage bitmap for a glyph at the given size in
// device pixels. ok is false when the glyph cannot be rasterized.
func (c *Cache) Mask(src *text.Source, gid uint32, size float32) (*Mask, bool) {
	if size <= 0 {
		return nil, false
	}
	ppem := fixed.Int26_6(size * 64)
	k := key{source: src.ID(), gid: gid, ppem: ppem}

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.masks[k]; ok {
		return m, true
	}

	f, ok := c.fonts[src.ID()]
	if !ok {
		parsed, err := sfnt.Parse(src.Data())
		if err != nil {
			c.fonts[src.ID()] = nil
			return nil, false
		}
		f = parsed
		c.fonts[src.ID()] = f
	}
	if f == nil {
		return nil, false
	}

	if len(c.masks) > cacheLimit {
		c.masks = make(map[key]*Mask)
	}

	m := c.rasterize(f, gid, ppem)
	c.masks[k] = m
	return m, true
}

func (c *Cache) rasterize(f *sfnt.Font, gid uint32, ppem fixed.Int26_6) *Mask {
	segs, err := f.LoadGlyph(&c.buf, sfnt.GlyphIndex(gid), ppem, nil)
	if err != nil || len(segs) == 0 {
		return &Mask{}
	}

	// Bounding box over all control points, grown one pixel for AA.
	minX, minY := float32(1e9), float32(1e9)
	maxX, maxY := float32(-1e9), float32(-1e9)
	for _, seg := range segs {
		for i := 0; i < segPoints(seg.Op); i++ {
			x := fixedToF32(seg.Args[i].X)
			y := fixedToF32(seg.Args[i].Y)
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	ox := floorInt(minX) - 1
	oy := floorInt(minY) - 1
	w := ceilInt(maxX) + 1 - ox
	h := ceilInt(maxY) + 1 - oy
	if w <= 0 || h <= 0 {
		return &Mask{}
	}

	z := vector.NewRasterizer(w, h)
	fx := float32(ox)
	fy := float32(oy)
	started := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				z.ClosePath()
			}
			z.MoveTo(fixedToF32(seg.Args[0].X)-fx, fixedToF32(seg.Args[0].Y)-fy)
			started = true
		case sfnt.SegmentOpLineTo:
			z.LineTo(fixedToF32(seg.Args[0].X)-fx, fixedToF32(seg.Args[0].Y)-fy)
		case sfnt.SegmentOpQuadTo:
			z.QuadTo(
				fixedToF32(seg.Args[0].X)-fx, fixedToF32(seg.Args[0].Y)-fy,
				fixedToF32(seg.Args[1].X)-fx, fixedToF32(seg.Args[1].Y)-fy,
			)
		case sfnt.SegmentOpCubeTo:
			z.CubeTo(
				fixedToF32(seg.Args[0].X)-fx, fixedToF32(seg.Args[0].Y)-fy,
				fixedToF32(seg.Args[1].X)-fx, fixedToF32(seg.Args[1].Y)-fy,
				fixedToF32(seg.Args[2].X)-fx, fixedToF32(seg.Args[2].Y)-fy,
			)
		}
	}
	if started {
		z.ClosePath()
	}

	alpha := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(alpha, alpha.Bounds(), image.Opaque, image.Point{})
	return &Mask{Alpha: alpha, Offset: image.Point{X: ox, Y: oy}}
}

func segPoints(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	default:
		return 1
	}
}

func fixedToF32(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

func floorInt(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}

func ceilInt(v float32) int {
	i := int(v)
	if v > 0 && float32(i) != v {
		i++
	}
	return i
}
