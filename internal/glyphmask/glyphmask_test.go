// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glyphmask

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/text"
)

func testSource(t *testing.T) *text.Source {
	t.Helper()
	lib := text.NewLibrary()
	src, err := lib.Register("Go", 400, style.FontStyleNormal, goregular.TTF)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return src
}

func shapeOne(t *testing.T, src *text.Source, s string) uint32 {
	t.Helper()
	run, err := text.NewHarfBuzzShaper().Shape(s, src, 16, text.DirectionLTR)
	if err != nil {
		t.Fatalf("Shape(%q): %v", s, err)
	}
	if len(run.Glyphs) != 1 {
		t.Fatalf("Shape(%q) produced %d glyphs, want 1", s, len(run.Glyphs))
	}
	return run.Glyphs[0].ID
}

func TestMaskHasInk(t *testing.T) {
	src := testSource(t)
	gid := shapeOne(t, src, "A")

	c := NewCache()
	m, ok := c.Mask(src, gid, 24)
	if !ok {
		t.Fatal("Mask failed")
	}
	if m.Alpha == nil {
		t.Fatal("no bitmap for A")
	}

	var ink int
	b := m.Alpha.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if m.Alpha.AlphaAt(x, y).A > 128 {
				ink++
			}
		}
	}
	if ink == 0 {
		t.Error("mask is fully transparent")
	}

	// A 24px glyph sits above the baseline: the bitmap top is negative.
	if m.Offset.Y >= 0 {
		t.Errorf("offset.Y = %d, want negative (above baseline)", m.Offset.Y)
	}
}

func TestSpaceHasNoBitmap(t *testing.T) {
	src := testSource(t)
	gid := shapeOne(t, src, " ")

	c := NewCache()
	m, ok := c.Mask(src, gid, 24)
	if !ok {
		t.Fatal("Mask failed")
	}
	if m.Alpha != nil {
		t.Error("space glyph has a bitmap")
	}
}

func TestMaskIsCached(t *testing.T) {
	src := testSource(t)
	gid := shapeOne(t, src, "A")

	c := NewCache()
	m1, _ := c.Mask(src, gid, 24)
	m2, _ := c.Mask(src, gid, 24)
	if m1 != m2 {
		t.Error("same key returned distinct masks")
	}

	m3, _ := c.Mask(src, gid, 25)
	if m3 == m1 {
		t.Error("different size returned the cached mask")
	}
}

func TestZeroSizeRejected(t *testing.T) {
	src := testSource(t)
	c := NewCache()
	if _, ok := c.Mask(src, 1, 0); ok {
		t.Error("zero size should not rasterize")
	}
}
