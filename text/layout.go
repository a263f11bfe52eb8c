package text

import (
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/style"
)

// Engine shapes spans and breaks them into lines. It is safe for
// concurrent use when its Shaper is.
type Engine struct {
	lib    *Library
	shaper Shaper
}

// NewEngine creates a layout engine over a font library. A nil shaper
// defaults to the HarfBuzz shaper.
func NewEngine(lib *Library, shaper Shaper) *Engine {
	if shaper == nil {
		shaper = NewHarfBuzzShaper()
	}
	return &Engine{lib: lib, shaper: shaper}
}

// Measure returns the block size of spans laid out under a width
// constraint. Negative constraints mean unconstrained.
func (e *Engine) Measure(spans []Span, maxWidth, maxHeight float32) ui.Size {
	l := e.Layout(spans, maxWidth)
	sz := l.Size
	if maxHeight >= 0 && sz.Height > maxHeight {
		sz.Height = maxHeight
	}
	return sz
}

// lineItem is one unbreakable item during line filling.
type lineItem struct {
	frag  Fragment
	width float32
	// breakAfter forces a line break after this item (explicit newline).
	breakAfter bool
}

// Layout breaks spans into lines no wider than maxWidth (when maxWidth is
// non-negative). Breaks land on word boundaries; a word wider than the
// whole line falls back to character boundaries. Shaping failures degrade
// to placeholder advances so a bad font never blanks the interface.
func (e *Engine) Layout(spans []Span, maxWidth float32) *Layout {
	dir := baseDirection(spans)
	items := e.collectItems(spans, dir, maxWidth)

	out := &Layout{}
	var cur []lineItem
	var curWidth float32
	flush := func() {
		if len(cur) == 0 {
			return
		}
		out.Lines = append(out.Lines, buildLine(cur, curWidth, dir, spans, blockBottom(out)))
		cur, curWidth = nil, 0
	}

	for _, it := range items {
		if maxWidth >= 0 && len(cur) > 0 && curWidth+it.width > maxWidth {
			flush()
		}
		cur = append(cur, it)
		curWidth += it.width
		if it.breakAfter {
			flush()
		}
	}
	flush()

	var w float32
	for _, ln := range out.Lines {
		if ln.Width > w {
			w = ln.Width
		}
	}
	out.Size = ui.Size{Width: w, Height: blockBottom(out)}.Clamp()
	return out
}

// blockBottom returns the running height of the block so far.
func blockBottom(l *Layout) float32 {
	if len(l.Lines) == 0 {
		return 0
	}
	last := l.Lines[len(l.Lines)-1]
	return last.Baseline + last.Descent
}

// buildLine positions the pending items on one line and computes its
// metrics. RTL paragraphs fill from the right edge.
func buildLine(items []lineItem, width float32, dir Direction, spans []Span, top float32) Line {
	ln := Line{Width: width}
	for _, it := range items {
		a, d := itemMetrics(it.frag, spans)
		if a > ln.Ascent {
			ln.Ascent = a
		}
		if d > ln.Descent {
			ln.Descent = d
		}
	}
	// Line advance honors the style line-height when it exceeds the font
	// extents.
	for _, it := range items {
		if it.frag.Kind != FragmentText {
			continue
		}
		f := spans[it.frag.Span].Font
		if lh := f.LineHeight * f.Size; lh > ln.Ascent+ln.Descent {
			ln.Descent = lh - ln.Ascent
		}
	}
	ln.Baseline = top + ln.Ascent

	var x float32
	for _, it := range items {
		f := it.frag
		if dir == DirectionRTL {
			f.X = width - x - it.width
		} else {
			f.X = x
		}
		f.Y = ln.Baseline
		ln.Fragments = append(ln.Fragments, f)
		x += it.width
	}
	return ln
}

func itemMetrics(f Fragment, spans []Span) (ascent, descent float32) {
	if f.Kind == FragmentBox {
		return f.Box.Height, 0
	}
	return f.Run.Ascent, f.Run.Descent
}

// collectItems tokenizes and shapes every span into unbreakable items.
func (e *Engine) collectItems(spans []Span, dir Direction, maxWidth float32) []lineItem {
	var items []lineItem
	warned := false
	for si := range spans {
		sp := &spans[si]
		if sp.Box != nil {
			items = append(items, lineItem{
				frag:  Fragment{Kind: FragmentBox, Box: sp.Box, Span: si},
				width: sp.Box.Width,
			})
			continue
		}
		for _, tok := range splitTokens(sp.Text) {
			if tok.newline {
				if n := len(items); n > 0 {
					items[n-1].breakAfter = true
				} else {
					items = append(items, lineItem{
						frag:       Fragment{Kind: FragmentText, Span: si},
						breakAfter: true,
					})
				}
				continue
			}
			run := e.shapeToken(tok.text, sp, dir, &warned)
			if maxWidth >= 0 && run.Advance > maxWidth {
				items = append(items, e.splitWideToken(tok.text, sp, dir, maxWidth, si, &warned)...)
				continue
			}
			items = append(items, lineItem{
				frag:  Fragment{Kind: FragmentText, Run: run, Color: sp.Color, Span: si},
				width: run.Advance,
			})
		}
	}
	return items
}

// splitWideToken breaks one over-wide word at character boundaries. Each
// piece takes at least one rune so the loop always makes progress.
func (e *Engine) splitWideToken(word string, sp *Span, dir Direction, maxWidth float32, si int, warned *bool) []lineItem {
	var items []lineItem
	runes := []rune(word)
	for len(runes) > 0 {
		n := len(runes)
		for n > 1 && e.shapeToken(string(runes[:n]), sp, dir, warned).Advance > maxWidth {
			n--
		}
		run := e.shapeToken(string(runes[:n]), sp, dir, warned)
		items = append(items, lineItem{
			frag:  Fragment{Kind: FragmentText, Run: run, Color: sp.Color, Span: si},
			width: run.Advance,
		})
		runes = runes[n:]
	}
	return items
}

// shapeToken shapes one token, degrading to placeholder advances when the
// font is missing or the shaper fails.
func (e *Engine) shapeToken(tok string, sp *Span, dir Direction, warned *bool) ShapedRun {
	var src *Source
	var err error
	if e.lib != nil {
		src, err = e.lib.Match(sp.Font)
	}
	if err == nil {
		var run ShapedRun
		run, err = e.shaper.Shape(tok, src, sp.Font.Size, dir)
		if err == nil {
			return run
		}
	}
	if !*warned {
		*warned = true
		ui.Logger().Warn("text: shaping degraded to placeholder metrics",
			"family", sp.Font.Family, "error", err)
	}
	return placeholderRun(tok, sp.Font, dir)
}

// placeholderRun estimates metrics for text that could not be shaped:
// half an em per rune, typical ascent/descent ratios.
func placeholderRun(tok string, f style.FontConfig, dir Direction) ShapedRun {
	runes := []rune(tok)
	adv := f.Size * 0.5
	run := ShapedRun{
		Glyphs:  make([]Glyph, len(runes)),
		Advance: adv * float32(len(runes)),
		Ascent:  f.Size * 0.8,
		Descent: f.Size * 0.2,
		Size:    f.Size,
		Dir:     dir,
	}
	for i := range runes {
		run.Glyphs[i] = Glyph{Cluster: i, X: float32(i) * adv, Advance: adv}
	}
	return run
}

type token struct {
	text    string
	newline bool
}

// splitTokens splits text into words with trailing spaces attached, plus
// explicit newline tokens.
func splitTokens(s string) []token {
	var toks []token
	start := 0
	inSpace := false
	for i, r := range s {
		switch {
		case r == '\n':
			if start < i {
				toks = append(toks, token{text: s[start:i]})
			}
			toks = append(toks, token{newline: true})
			start = i + 1
			inSpace = false
		case r == ' ':
			inSpace = true
		default:
			if inSpace && start < i {
				toks = append(toks, token{text: s[start:i]})
				start = i
			}
			inSpace = false
		}
	}
	if start < len(s) {
		toks = append(toks, token{text: s[start:]})
	}
	return toks
}

// baseDirection resolves the paragraph direction from the first span with
// strong directional characters.
func baseDirection(spans []Span) Direction {
	for _, sp := range spans {
		if sp.Text == "" {
			continue
		}
		var p bidi.Paragraph
		p.SetString(sp.Text)
		if _, err := p.Order(); err != nil {
			continue
		}
		if !p.IsLeftToRight() {
			return DirectionRTL
		}
		return DirectionLTR
	}
	return DirectionLTR
}
