package text

import (
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Shaper converts a uniformly styled run into positioned glyphs.
// Implementations must be safe for concurrent use.
type Shaper interface {
	Shape(text string, src *Source, size float32, dir Direction) (ShapedRun, error)
}

// HarfBuzzShaper shapes text with go-text/typesetting's HarfBuzz port.
// It applies kerning, ligatures and complex-script shaping.
//
// HarfbuzzShaper instances carry mutable buffers and are not safe for
// concurrent use, so they are pooled. font.Face is likewise per-call;
// font.NewFace is cheap and wraps the shared read-only *font.Font.
type HarfBuzzShaper struct {
	pool sync.Pool
}

// NewHarfBuzzShaper creates a pooled HarfBuzz shaper.
func NewHarfBuzzShaper() *HarfBuzzShaper {
	return &HarfBuzzShaper{
		pool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}
}

// Shape implements Shaper.
func (s *HarfBuzzShaper) Shape(textStr string, src *Source, size float32, dir Direction) (ShapedRun, error) {
	if src == nil || src.font == nil {
		return ShapedRun{}, fmt.Errorf("%w: nil font source", ErrShaping)
	}
	runes := []rune(textStr)
	if len(runes) == 0 {
		return ShapedRun{Source: src, Size: size, Dir: dir}, nil
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: mapDirection(dir),
		Face:      font.NewFace(src.font),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.pool.Put(hb)

	run := ShapedRun{
		Glyphs:  make([]Glyph, len(out.Glyphs)),
		Ascent:  fixedToFloat(out.LineBounds.Ascent),
		Descent: fixedToFloat(out.LineBounds.Descent),
		Source:  src,
		Size:    size,
		Dir:     dir,
	}
	if run.Ascent < 0 {
		run.Ascent = -run.Ascent
	}
	if run.Descent < 0 {
		run.Descent = -run.Descent
	}

	var x float32
	for i, g := range out.Glyphs {
		adv := fixedToFloat(g.Advance)
		run.Glyphs[i] = Glyph{
			ID:      uint32(g.GlyphID),
			Cluster: g.TextIndex(),
			X:       x + fixedToFloat(g.XOffset),
			Y:       -fixedToFloat(g.YOffset),
			Advance: adv,
		}
		x += adv
	}
	run.Advance = x
	return run, nil
}

func mapDirection(d Direction) di.Direction {
	if d == DirectionRTL {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first non-space rune. Mixed-script
// runs are split by the caller before shaping.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
