// Package text shapes and lays out styled text.
//
// Shaping converts runs of styled characters into positioned glyphs using
// HarfBuzz via go-text/typesetting. Layout breaks shaped content into lines
// under a width constraint, preferring word boundaries and falling back to
// character boundaries for words wider than the available space. Inline
// boxes (replaced content such as images flowing with text) participate in
// line breaking as atomic items.
//
// Shaping and layout are deterministic for a given input, which makes the
// results cacheable; see the cache subpackage.
package text

import (
	"github.com/gogpu/ui"
	"github.com/gogpu/ui/style"
)

// Direction is the horizontal text progression of a run.
type Direction uint8

const (
	DirectionLTR Direction = iota
	DirectionRTL
)

// Span is one styled piece of inline content. Either Text is non-empty or
// Box is set, never both.
type Span struct {
	Text  string
	Font  style.FontConfig
	Color ui.Color

	// Box is inline replaced content that flows with the text.
	Box *InlineBox
}

// InlineBox is an atomic inline item with a fixed size. Its bottom edge
// sits on the baseline.
type InlineBox struct {
	Width, Height float32
}

// Glyph is one positioned glyph within a shaped run. Positions are offsets
// from the run origin on the baseline, in pixels.
type Glyph struct {
	ID      uint32
	Cluster int // rune index into the source text
	X, Y    float32
	Advance float32
}

// ShapedRun is the shaper output for one uniformly styled run.
type ShapedRun struct {
	Glyphs  []Glyph
	Advance float32
	Ascent  float32
	Descent float32

	Source *Source
	Size   float32
	Dir    Direction
}

// FragmentKind discriminates line fragment payloads.
type FragmentKind uint8

const (
	FragmentText FragmentKind = iota
	FragmentBox
)

// Fragment is one placed item on a line: a shaped run or an inline box.
// X, Y is the baseline origin relative to the block's top-left corner.
type Fragment struct {
	Kind  FragmentKind
	Run   ShapedRun
	Box   *InlineBox
	X, Y  float32
	Color ui.Color
	Span  int // index of the source span
}

// Line is one laid-out line of fragments.
type Line struct {
	Fragments []Fragment
	Width     float32
	Ascent    float32
	Descent   float32
	// Baseline is the distance from the block top to this line's baseline.
	Baseline float32
}

// Layout is the result of breaking spans into lines.
type Layout struct {
	Lines []Line
	Size  ui.Size
}
