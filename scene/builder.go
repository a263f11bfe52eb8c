// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"math"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/element"
	"github.com/gogpu/ui/layout"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/text"
	"github.com/gogpu/ui/text/cache"
)

// Selection is an optional per-node text selection: a half-open rune range
// plus a caret position. Negative values disable the respective part.
type Selection struct {
	Start, End int
	Caret      int
}

// Builder walks a styled, positioned element tree and produces a Scene.
// It owns no GPU state; the same builder serves any backend.
type Builder struct {
	tree   *element.Tree
	layout *layout.Engine
	text   *text.Engine
	cache  *cache.LayoutCache

	selections map[element.NodeID]Selection
}

// NewBuilder creates a scene builder. The layout cache may be nil to
// disable text layout caching.
func NewBuilder(tree *element.Tree, le *layout.Engine, te *text.Engine, lc *cache.LayoutCache) *Builder {
	return &Builder{
		tree:       tree,
		layout:     le,
		text:       te,
		cache:      lc,
		selections: make(map[element.NodeID]Selection),
	}
}

// MeasureFunc returns a layout measure function for a text node, backed
// by the builder's text engine. The layout engine calls it to size text
// content against available space.
func (b *Builder) MeasureFunc(id element.NodeID) layout.MeasureFunc {
	return func(maxWidth, maxHeight float32) ui.Size {
		st := b.tree.Resolved(id)
		if st == nil {
			return ui.Size{}
		}
		spans, _ := b.spansFor(id, st)
		if len(spans) == 0 {
			return ui.Size{}
		}
		return b.text.Measure(spans, maxWidth, maxHeight)
	}
}

// SetSelection attaches selection/caret state to a text node. The builder
// emits solid quads for the selected range and the caret.
func (b *Builder) SetSelection(id element.NodeID, sel Selection) {
	b.selections[id] = sel
}

// ClearSelection removes selection state from a node.
func (b *Builder) ClearSelection(id element.NodeID) {
	delete(b.selections, id)
}

// Build produces the draw-command list for one frame. scale is the device
// pixel ratio used for edge snapping; values <= 0 default to 1.
func (b *Builder) Build(root element.NodeID, viewport ui.Size, scale float32) *Scene {
	if scale <= 0 {
		scale = 1
	}
	s := &Scene{Viewport: viewport, Scale: scale}
	b.walk(s, root, ui.Point{}, ui.Rect{}, false, scale)
	return s
}

// walk emits a node's primitives and recurses into its children.
// offset is the accumulated absolute position of the parent's content
// origin, already adjusted for scroll.
func (b *Builder) walk(s *Scene, id element.NodeID, offset ui.Point, clip ui.Rect, hasClip bool, scale float32) {
	if !b.tree.Alive(id) {
		return
	}
	st := b.tree.Resolved(id)
	if st == nil {
		return
	}
	box := b.layout.Box(id)
	rect := snapRect(ui.RectFromXYWH(offset.X+box.X, offset.Y+box.Y, box.Width, box.Height), scale)

	fullyClipped := hasClip && rect.Intersect(clip).IsEmpty()
	if fullyClipped && st.ClipsChildren() {
		// Nothing in this subtree can escape the node's own clip.
		return
	}

	if !fullyClipped && (st.Background.A > 0 || st.HasBorder()) {
		s.append(Primitive{
			Kind:         KindRect,
			Rect:         rect,
			Color:        st.Background,
			Radii:        st.BorderRadii,
			BorderWidths: st.BorderWidths,
			BorderColors: st.BorderColors,
		}, clip, hasClip)
	}

	contentOrigin := ui.Point{
		X: rect.MinX + st.BorderWidths.Left + st.Padding.Left,
		Y: rect.MinY + st.BorderWidths.Top + st.Padding.Top,
	}

	switch k := b.tree.Kind(id); {
	case fullyClipped:
	case k == element.KindText:
		b.emitText(s, id, st, contentOrigin, rect, clip, hasClip, scale)
	case k == element.KindImage:
		if res := b.tree.Image(id); res != "" {
			s.append(Primitive{Kind: KindImage, Rect: rect, Resource: res, Color: ui.White}, clip, hasClip)
		}
	case k == element.KindPath:
		if p := b.tree.Path(id); p != nil {
			s.append(Primitive{
				Kind:  KindPath,
				Rect:  p.Bounds().Translate(contentOrigin.X, contentOrigin.Y),
				Color: st.TextColor,
				Path:  p.Transform(ui.TranslateAffine(contentOrigin.X, contentOrigin.Y)),
			}, clip, hasClip)
		}
	}

	childClip, childHasClip := clip, hasClip
	if st.ClipsChildren() {
		pad := ui.Rect{
			MinX: rect.MinX + st.BorderWidths.Left,
			MinY: rect.MinY + st.BorderWidths.Top,
			MaxX: rect.MaxX - st.BorderWidths.Right,
			MaxY: rect.MaxY - st.BorderWidths.Bottom,
		}
		if childHasClip {
			childClip = childClip.Intersect(pad)
		} else {
			childClip, childHasClip = pad, true
		}
	}

	childOffset := ui.Point{X: rect.MinX, Y: rect.MinY}
	if scroll := b.tree.Scroll(id); scroll != (ui.Point{}) {
		childOffset.X -= scroll.X
		childOffset.Y -= scroll.Y
	}
	for _, c := range b.tree.Children(id) {
		b.walk(s, c, childOffset, childClip, childHasClip, scale)
	}
}

// emitText lays out a text node's spans (through the layout cache) and
// emits selection quads, glyph runs, inline images and the caret.
func (b *Builder) emitText(s *Scene, id element.NodeID, st *style.Resolved, origin ui.Point, rect ui.Rect, clip ui.Rect, hasClip bool, scale float32) {
	spans, resources := b.spansFor(id, st)
	if len(spans) == 0 {
		return
	}
	maxWidth := rect.MaxX - origin.X - st.Padding.Right - st.BorderWidths.Right

	var tl *text.Layout
	if b.cache != nil {
		key := cache.NewKey(spans, maxWidth)
		tl = b.cache.GetOrCreate(key, func() *text.Layout {
			return b.text.Layout(spans, maxWidth)
		})
	} else {
		tl = b.text.Layout(spans, maxWidth)
	}
	if tl == nil {
		return
	}

	sel, hasSel := b.selections[id]

	for _, ln := range tl.Lines {
		baseline := origin.Y + ln.Baseline
		for _, frag := range ln.Fragments {
			fx := origin.X + frag.X
			switch frag.Kind {
			case text.FragmentBox:
				res := ""
				if frag.Span < len(resources) {
					res = resources[frag.Span]
				}
				r := ui.RectFromXYWH(fx, baseline-frag.Box.Height, frag.Box.Width, frag.Box.Height)
				s.append(Primitive{Kind: KindImage, Rect: snapRect(r, scale), Resource: res, Color: ui.White}, clip, hasClip)
			case text.FragmentText:
				if hasSel && sel.End > sel.Start {
					b.emitSelectionQuads(s, frag, fx, baseline, ln, sel, st, clip, hasClip)
				}
				ink := ui.RectFromXYWH(fx, baseline-ln.Ascent, frag.Run.Advance, ln.Ascent+ln.Descent)
				s.append(Primitive{
					Kind:       KindGlyphRun,
					Rect:       ink,
					Origin:     ui.Point{X: fx, Y: snap(baseline, scale)},
					Glyphs:     frag.Run.Glyphs,
					FontSource: frag.Run.Source,
					FontSize:   frag.Run.Size,
					Color:      frag.Color,
				}, clip, hasClip)
				if hasSel && sel.Caret >= 0 {
					b.emitCaret(s, frag, fx, baseline, ln, sel.Caret, st, clip, hasClip)
				}
			}
		}
	}
}

// emitSelectionQuads draws the highlight behind the selected rune range of
// one fragment as a solid quad.
func (b *Builder) emitSelectionQuads(s *Scene, frag text.Fragment, fx, baseline float32, ln text.Line, sel Selection, st *style.Resolved, clip ui.Rect, hasClip bool) {
	x0, x1, any := clusterSpanExtent(frag.Run.Glyphs, sel.Start, sel.End)
	if !any {
		return
	}
	quad := ui.RectFromXYWH(fx+x0, baseline-ln.Ascent, x1-x0, ln.Ascent+ln.Descent)
	highlight := st.TextColor.WithAlpha(0.25)
	s.append(Primitive{Kind: KindSolid, Rect: quad, Color: highlight}, clip, hasClip)
}

// emitCaret draws the text cursor as a 1px solid quad when the caret
// cluster falls inside this fragment.
func (b *Builder) emitCaret(s *Scene, frag text.Fragment, fx, baseline float32, ln text.Line, caret int, st *style.Resolved, clip ui.Rect, hasClip bool) {
	for _, g := range frag.Run.Glyphs {
		if g.Cluster != caret {
			continue
		}
		quad := ui.RectFromXYWH(fx+g.X, baseline-ln.Ascent, 1, ln.Ascent+ln.Descent)
		s.append(Primitive{Kind: KindSolid, Rect: quad, Color: st.TextColor}, clip, hasClip)
		return
	}
}

// clusterSpanExtent returns the x extent covered by glyphs whose clusters
// fall in the half-open range [start, end).
func clusterSpanExtent(glyphs []text.Glyph, start, end int) (x0, x1 float32, any bool) {
	x0 = float32(math.Inf(1))
	x1 = float32(math.Inf(-1))
	for _, g := range glyphs {
		if g.Cluster < start || g.Cluster >= end {
			continue
		}
		if g.X < x0 {
			x0 = g.X
		}
		if g.X+g.Advance > x1 {
			x1 = g.X + g.Advance
		}
		any = true
	}
	return x0, x1, any
}

// spansFor builds the text spans of a node. Segment styles resolve against
// the node's resolved style so inline spans inherit its font and color.
func (b *Builder) spansFor(id element.NodeID, st *style.Resolved) ([]text.Span, []string) {
	content, segments := b.tree.Text(id)
	if len(segments) == 0 {
		if content == "" {
			return nil, nil
		}
		return []text.Span{{Text: content, Font: st.Font(), Color: st.TextColor}}, []string{""}
	}

	spans := make([]text.Span, 0, len(segments))
	resources := make([]string, 0, len(segments))
	for _, seg := range segments {
		rs := style.Resolve(seg.Style, st)
		switch seg.Kind {
		case element.SegmentInline:
			spans = append(spans, text.Span{
				Box: &text.InlineBox{Width: seg.Size.Width, Height: seg.Size.Height},
			})
			resources = append(resources, seg.Resource)
		default:
			spans = append(spans, text.Span{Text: seg.Text, Font: rs.Font(), Color: rs.TextColor})
			resources = append(resources, "")
		}
	}
	return spans, resources
}

// snap rounds a coordinate to the nearest device pixel.
func snap(v, scale float32) float32 {
	return float32(math.Round(float64(v*scale))) / scale
}

// snapRect snaps all four edges of a rectangle independently, so adjacent
// rectangles sharing an edge stay seamless after snapping.
func snapRect(r ui.Rect, scale float32) ui.Rect {
	return ui.Rect{
		MinX: snap(r.MinX, scale),
		MinY: snap(r.MinY, scale),
		MaxX: snap(r.MaxX, scale),
		MaxY: snap(r.MaxY, scale),
	}
}
