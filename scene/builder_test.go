// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"testing"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/element"
	"github.com/gogpu/ui/layout"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/text"
	"github.com/gogpu/ui/text/cache"
)

// stubShaper shapes every rune to a 10px advance without touching fonts.
type stubShaper struct{}

func (stubShaper) Shape(s string, src *text.Source, size float32, dir text.Direction) (text.ShapedRun, error) {
	runes := []rune(s)
	run := text.ShapedRun{
		Glyphs:  make([]text.Glyph, len(runes)),
		Ascent:  size * 0.8,
		Descent: size * 0.2,
		Size:    size,
		Dir:     dir,
	}
	for i := range runes {
		run.Glyphs[i] = text.Glyph{ID: uint32(runes[i]), Cluster: i, X: float32(i) * 10, Advance: 10}
	}
	run.Advance = 10 * float32(len(runes))
	return run, nil
}

type env struct {
	tree    *element.Tree
	layout  *layout.Engine
	cache   *cache.LayoutCache
	builder *Builder
}

func newEnv(tree *element.Tree) *env {
	le := layout.NewEngine(tree)
	te := text.NewEngine(nil, stubShaper{})
	lc := cache.NewLayoutCache(0)
	return &env{
		tree:    tree,
		layout:  le,
		cache:   lc,
		builder: NewBuilder(tree, le, te, lc),
	}
}

func (e *env) build(root element.NodeID, w, h float32) *Scene {
	e.tree.ResolveStyles(root)
	e.layout.Layout(root, ui.Size{Width: w, Height: h})
	return e.builder.Build(root, ui.Size{Width: w, Height: h}, 1)
}

func kinds(s *Scene) []Kind {
	out := make([]Kind, len(s.Primitives))
	for i, p := range s.Primitives {
		out[i] = p.Kind
	}
	return out
}

func TestPaintOrderParentFirst(t *testing.T) {
	tree := element.NewTree()
	root := tree.NewNode(element.KindContainer)
	tree.SetStyle(root, (&style.Style{}).
		SetBackground(ui.RGB(1, 1, 1)).
		SetWidth(style.Px(100)).SetHeight(style.Px(100)))
	child := tree.NewNode(element.KindContainer)
	tree.SetStyle(child, (&style.Style{}).
		SetBackground(ui.RGB(1, 0, 0)).
		SetWidth(style.Px(50)).SetHeight(style.Px(50)))
	tree.AppendChild(root, child)

	s := newEnv(tree).build(root, 100, 100)

	if len(s.Primitives) != 2 {
		t.Fatalf("got %d primitives, want 2: %v", len(s.Primitives), kinds(s))
	}
	if s.Primitives[0].Color != ui.RGB(1, 1, 1) {
		t.Error("parent background not painted first")
	}
	if s.Primitives[1].Color != ui.RGB(1, 0, 0) {
		t.Error("child background not painted after parent")
	}
}

func TestTransparentNodesEmitNothing(t *testing.T) {
	tree := element.NewTree()
	root := tree.NewNode(element.KindContainer)
	tree.SetStyle(root, (&style.Style{}).
		SetWidth(style.Px(100)).SetHeight(style.Px(100)))

	s := newEnv(tree).build(root, 100, 100)
	if len(s.Primitives) != 0 {
		t.Errorf("styleless container emitted %d primitives", len(s.Primitives))
	}
}

func TestBorderOnlyNodeEmitsRect(t *testing.T) {
	tree := element.NewTree()
	root := tree.NewNode(element.KindContainer)
	tree.SetStyle(root, (&style.Style{}).
		SetWidth(style.Px(100)).SetHeight(style.Px(100)).
		SetBorderWidths(ui.UniformInsets(2)))

	s := newEnv(tree).build(root, 100, 100)
	if len(s.Primitives) != 1 || s.Primitives[0].Kind != KindRect {
		t.Fatalf("got %v, want one rect", kinds(s))
	}
	if s.Primitives[0].BorderWidths != ui.UniformInsets(2) {
		t.Error("border widths not carried onto the primitive")
	}
}

func TestClipPropagation(t *testing.T) {
	tree := element.NewTree()
	root := tree.NewNode(element.KindContainer)
	tree.SetStyle(root, (&style.Style{}).
		SetWidth(style.Px(100)).SetHeight(style.Px(100)).
		SetOverflow(style.OverflowClip))
	child := tree.NewNode(element.KindContainer)
	tree.SetStyle(child, (&style.Style{}).
		SetBackground(ui.RGB(0, 0, 1)).
		SetWidth(style.Px(200)).SetHeight(style.Px(20)))
	tree.AppendChild(root, child)
	inner := tree.NewNode(element.KindContainer)
	tree.SetStyle(inner, (&style.Style{}).
		SetBackground(ui.RGB(0, 1, 0)).
		SetWidth(style.Px(300)).SetHeight(style.Px(10)))
	tree.AppendChild(child, inner)

	s := newEnv(tree).build(root, 100, 100)

	var clipped int
	for _, p := range s.Primitives {
		if !p.HasClip {
			continue
		}
		clipped++
		want := ui.RectFromXYWH(0, 0, 100, 100)
		if p.Clip != want {
			t.Errorf("clip = %+v, want the clipping ancestor's box %+v", p.Clip, want)
		}
	}
	if clipped != 2 {
		t.Errorf("%d primitives clipped, want both descendants", clipped)
	}
}

func TestNestedClipsIntersect(t *testing.T) {
	tree := element.NewTree()
	root := tree.NewNode(element.KindContainer)
	tree.SetStyle(root, (&style.Style{}).
		SetWidth(style.Px(100)).SetHeight(style.Px(100)).
		SetOverflow(style.OverflowClip))
	mid := tree.NewNode(element.KindContainer)
	tree.SetStyle(mid, (&style.Style{}).
		SetWidth(style.Px(60)).SetHeight(style.Px(60)).
		SetOverflow(style.OverflowClip))
	tree.AppendChild(root, mid)
	leaf := tree.NewNode(element.KindContainer)
	tree.SetStyle(leaf, (&style.Style{}).
		SetBackground(ui.RGB(1, 0, 0)).
		SetWidth(style.Px(500)).SetHeight(style.Px(500)))
	tree.AppendChild(mid, leaf)

	s := newEnv(tree).build(root, 100, 100)

	var found bool
	for _, p := range s.Primitives {
		if p.Color == ui.RGB(1, 0, 0) {
			found = true
			if !p.HasClip {
				t.Fatal("leaf primitive not clipped")
			}
			want := ui.RectFromXYWH(0, 0, 60, 60)
			if p.Clip != want {
				t.Errorf("leaf clip = %+v, want inner intersection %+v", p.Clip, want)
			}
		}
	}
	if !found {
		t.Fatal("leaf primitive missing")
	}
}

func TestScrollOffsetShiftsChildren(t *testing.T) {
	tree := element.NewTree()
	root := tree.NewNode(element.KindContainer)
	tree.SetStyle(root, (&style.Style{}).
		SetWidth(style.Px(100)).SetHeight(style.Px(100)).
		SetOverflow(style.OverflowScroll))
	child := tree.NewNode(element.KindContainer)
	tree.SetStyle(child, (&style.Style{}).
		SetBackground(ui.RGB(0, 0, 1)).
		SetWidth(style.Px(50)).SetHeight(style.Px(400)))
	tree.AppendChild(root, child)
	tree.SetScroll(root, ui.Point{Y: 30})

	s := newEnv(tree).build(root, 100, 100)

	var childRect ui.Rect
	for _, p := range s.Primitives {
		if p.Color == ui.RGB(0, 0, 1) {
			childRect = p.Rect
		}
	}
	if childRect.MinY != -30 {
		t.Errorf("scrolled child MinY = %v, want -30", childRect.MinY)
	}
}

func TestTextNodeEmitsGlyphRun(t *testing.T) {
	tree := element.NewTree()
	root := tree.NewNode(element.KindText)
	tree.SetStyle(root, (&style.Style{}).
		SetWidth(style.Px(200)).SetHeight(style.Px(50)).
		SetTextColor(ui.RGB(0, 0, 0)))
	tree.SetText(root, "hi", nil)

	s := newEnv(tree).build(root, 200, 50)

	if len(s.Primitives) != 1 || s.Primitives[0].Kind != KindGlyphRun {
		t.Fatalf("got %v, want one glyph run", kinds(s))
	}
	run := s.Primitives[0]
	if len(run.Glyphs) != 2 {
		t.Errorf("glyph run has %d glyphs, want 2", len(run.Glyphs))
	}
	if run.Color != ui.RGB(0, 0, 0) {
		t.Error("glyph run lost the resolved text color")
	}
	if run.Origin.Y <= 0 {
		t.Errorf("baseline origin %v not below the block top", run.Origin.Y)
	}
}

func TestTextLayoutCacheHitAcrossFrames(t *testing.T) {
	tree := element.NewTree()
	root := tree.NewNode(element.KindText)
	tree.SetStyle(root, (&style.Style{}).
		SetWidth(style.Px(200)).SetHeight(style.Px(50)))
	tree.SetText(root, "Count: 0", nil)

	e := newEnv(tree)
	e.build(root, 200, 50)
	e.build(root, 200, 50)

	st := e.cache.Stats()
	if st.Hits == 0 {
		t.Error("second frame did not hit the text layout cache")
	}

	// Changing content misses, and both entries coexist.
	tree.SetText(root, "Count: 1", nil)
	e.build(root, 200, 50)
	if e.cache.Len() != 2 {
		t.Errorf("cache holds %d entries, want 2 distinct contents", e.cache.Len())
	}
}

func TestSelectionEmitsSolidQuads(t *testing.T) {
	tree := element.NewTree()
	root := tree.NewNode(element.KindText)
	tree.SetStyle(root, (&style.Style{}).
		SetWidth(style.Px(200)).SetHeight(style.Px(50)))
	tree.SetText(root, "hello", nil)

	e := newEnv(tree)
	e.builder.SetSelection(root, Selection{Start: 1, End: 3, Caret: 4})
	s := e.build(root, 200, 50)

	var solids, runs int
	var solidIdx, runIdx int
	for i, p := range s.Primitives {
		switch p.Kind {
		case KindSolid:
			solids++
			if solids == 1 {
				solidIdx = i
			}
		case KindGlyphRun:
			runs++
			runIdx = i
		}
	}
	if solids != 2 {
		t.Fatalf("got %d solid quads, want highlight plus caret", solids)
	}
	if runs != 1 {
		t.Fatalf("got %d glyph runs, want 1", runs)
	}
	if solidIdx > runIdx {
		t.Error("selection highlight painted over the glyphs")
	}
}

func TestImageNodeEmitsQuad(t *testing.T) {
	tree := element.NewTree()
	root := tree.NewNode(element.KindImage)
	tree.SetStyle(root, (&style.Style{}).
		SetWidth(style.Px(64)).SetHeight(style.Px(64)))
	tree.SetImage(root, "images/logo.png")

	s := newEnv(tree).build(root, 64, 64)
	if len(s.Primitives) != 1 || s.Primitives[0].Kind != KindImage {
		t.Fatalf("got %v, want one image quad", kinds(s))
	}
	if s.Primitives[0].Resource != "images/logo.png" {
		t.Errorf("resource = %q", s.Primitives[0].Resource)
	}
}

func TestInlineSegmentEmitsImage(t *testing.T) {
	tree := element.NewTree()
	root := tree.NewNode(element.KindText)
	tree.SetStyle(root, (&style.Style{}).
		SetWidth(style.Px(300)).SetHeight(style.Px(60)))
	tree.SetText(root, "", []element.Segment{
		{Kind: element.SegmentText, Text: "pre "},
		{Kind: element.SegmentInline, Resource: "icon.png", Size: ui.Size{Width: 16, Height: 16}},
		{Kind: element.SegmentText, Text: "post"},
	})

	s := newEnv(tree).build(root, 300, 60)

	var images, glyphRuns int
	for _, p := range s.Primitives {
		switch p.Kind {
		case KindImage:
			images++
			if p.Resource != "icon.png" {
				t.Errorf("inline image resource = %q", p.Resource)
			}
		case KindGlyphRun:
			glyphRuns++
		}
	}
	if images != 1 {
		t.Errorf("got %d inline images, want 1", images)
	}
	if glyphRuns != 2 {
		t.Errorf("got %d glyph runs, want 2", glyphRuns)
	}
}

func TestDevicePixelSnapping(t *testing.T) {
	tree := element.NewTree()
	root := tree.NewNode(element.KindContainer)
	tree.SetStyle(root, (&style.Style{}).
		SetWidth(style.Px(100)).SetHeight(style.Px(100)))
	child := tree.NewNode(element.KindContainer)
	tree.SetStyle(child, (&style.Style{}).
		SetBackground(ui.RGB(1, 0, 0)).
		SetWidth(style.Px(10.3)).SetHeight(style.Px(10)).
		SetMargin(ui.Insets{Left: 5.3}))
	tree.AppendChild(root, child)

	tree.ResolveStyles(root)
	e := newEnv(tree)
	e.tree.ResolveStyles(root)
	e.layout.Layout(root, ui.Size{Width: 100, Height: 100})
	s := e.builder.Build(root, ui.Size{Width: 100, Height: 100}, 2)

	r := s.Primitives[0].Rect
	for _, edge := range []float32{r.MinX, r.MinY, r.MaxX, r.MaxY} {
		snapped := float32(int(edge*2+0.5)) / 2
		if edge != snapped {
			t.Errorf("edge %v not on a half-pixel boundary at scale 2", edge)
		}
	}
}
