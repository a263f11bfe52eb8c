package style

import "github.com/gogpu/ui"

// Resolved is a fully determined style: every property has a concrete value
// and no inheritance sentinel survives. Layout and paint read only Resolved
// styles.
type Resolved struct {
	Background ui.Color
	TextColor  ui.Color

	FontFamily string
	FontSize   float32
	FontWeight uint16
	FontStyle  FontStyle
	LineHeight float32

	Direction      Direction
	Wrap           bool
	JustifyContent Justify
	AlignItems     Align
	FlexGrow       float32
	FlexShrink     float32
	FlexBasis      Dimension

	Width     Dimension
	Height    Dimension
	MinWidth  Dimension
	MinHeight Dimension
	MaxWidth  Dimension
	MaxHeight Dimension

	Padding      ui.Insets
	Margin       ui.Insets
	BorderWidths ui.Insets
	BorderColors BorderColors
	BorderRadii  ui.CornerRadii
	Gap          float32

	Overflow Overflow
	Position Position
}

// Default font configuration used when nothing is declared anywhere up the
// cascade.
const (
	DefaultFontFamily = "sans-serif"
	DefaultFontSize   = 16
	DefaultFontWeight = 400
	DefaultLineHeight = 1.2
)

// DefaultResolved returns the resolved style of a root element with no
// declared style and no parent.
func DefaultResolved() Resolved {
	return Resolved{
		Background: ui.Transparent,
		TextColor:  ui.Black,
		FontFamily: DefaultFontFamily,
		FontSize:   DefaultFontSize,
		FontWeight: DefaultFontWeight,
		LineHeight: DefaultLineHeight,
		FlexShrink: 1,
		FlexBasis:  Auto(),
		Width:      Auto(),
		Height:     Auto(),
		MinWidth:   Auto(),
		MinHeight:  Auto(),
		MaxWidth:   Auto(),
		MaxHeight:  Auto(),
		BorderColors: BorderColors{
			Top: ui.Black, Right: ui.Black, Bottom: ui.Black, Left: ui.Black,
		},
	}
}

// Resolve merges a declared style with the parent's resolved style.
//
// Resolve is a pure function: it reads only its arguments and is
// deterministic for a given (declared, parent) pair, so callers may memoize
// results by input identity. A nil declared style resolves to the pure
// cascade (inherited properties from parent, defaults for the rest).
//
// Inheritable properties (text color, font family/size/weight/style, line
// height) fall back to the parent's resolved value when undeclared.
// Non-inheritable properties fall back to the fixed defaults of
// DefaultResolved.
func Resolve(declared *Style, parent *Resolved) Resolved {
	out := DefaultResolved()
	if parent != nil {
		out.TextColor = parent.TextColor
		out.FontFamily = parent.FontFamily
		out.FontSize = parent.FontSize
		out.FontWeight = parent.FontWeight
		out.FontStyle = parent.FontStyle
		out.LineHeight = parent.LineHeight
	}
	if declared == nil {
		return out
	}

	if declared.Has(FlagBackground) {
		out.Background = declared.Background
	}
	if declared.Has(FlagTextColor) {
		out.TextColor = declared.TextColor
	}
	if declared.Has(FlagFontFamily) {
		out.FontFamily = declared.FontFamily
	}
	if declared.Has(FlagFontSize) {
		out.FontSize = declared.FontSize
	}
	if declared.Has(FlagFontWeight) {
		out.FontWeight = declared.FontWeight
	}
	if declared.Has(FlagFontStyle) {
		out.FontStyle = declared.FontStyle
	}
	if declared.Has(FlagLineHeight) {
		out.LineHeight = declared.LineHeight
	}
	if declared.Has(FlagDirection) {
		out.Direction = declared.Direction
	}
	if declared.Has(FlagWrap) {
		out.Wrap = declared.Wrap
	}
	if declared.Has(FlagJustifyContent) {
		out.JustifyContent = declared.JustifyContent
	}
	if declared.Has(FlagAlignItems) {
		out.AlignItems = declared.AlignItems
	}
	if declared.Has(FlagFlexGrow) {
		out.FlexGrow = declared.FlexGrow
	}
	if declared.Has(FlagFlexShrink) {
		out.FlexShrink = declared.FlexShrink
	}
	if declared.Has(FlagFlexBasis) {
		out.FlexBasis = declared.FlexBasis
	}
	if declared.Has(FlagWidth) {
		out.Width = declared.Width
	}
	if declared.Has(FlagHeight) {
		out.Height = declared.Height
	}
	if declared.Has(FlagMinWidth) {
		out.MinWidth = declared.MinWidth
	}
	if declared.Has(FlagMinHeight) {
		out.MinHeight = declared.MinHeight
	}
	if declared.Has(FlagMaxWidth) {
		out.MaxWidth = declared.MaxWidth
	}
	if declared.Has(FlagMaxHeight) {
		out.MaxHeight = declared.MaxHeight
	}
	if declared.Has(FlagPadding) {
		out.Padding = declared.Padding
	}
	if declared.Has(FlagMargin) {
		out.Margin = declared.Margin
	}
	if declared.Has(FlagBorderWidths) {
		out.BorderWidths = declared.BorderWidths
	}
	if declared.Has(FlagBorderColors) {
		out.BorderColors = declared.BorderColors
	}
	if declared.Has(FlagBorderRadii) {
		out.BorderRadii = declared.BorderRadii
	}
	if declared.Has(FlagGap) {
		out.Gap = declared.Gap
	}
	if declared.Has(FlagOverflow) {
		out.Overflow = declared.Overflow
	}
	if declared.Has(FlagPosition) {
		out.Position = declared.Position
	}
	return out
}

// FontConfig is the subset of a resolved style that selects and sizes a
// face. It is comparable and used as part of text layout cache keys.
type FontConfig struct {
	Family     string
	Size       float32
	Weight     uint16
	Style      FontStyle
	LineHeight float32
}

// Font extracts the font configuration of a resolved style.
func (r *Resolved) Font() FontConfig {
	return FontConfig{
		Family:     r.FontFamily,
		Size:       r.FontSize,
		Weight:     r.FontWeight,
		Style:      r.FontStyle,
		LineHeight: r.LineHeight,
	}
}

// HasBorder returns true if any side has a positive border width.
func (r *Resolved) HasBorder() bool {
	w := r.BorderWidths
	return w.Top > 0 || w.Right > 0 || w.Bottom > 0 || w.Left > 0
}

// ClipsChildren returns true for overflow modes that establish a clip.
func (r *Resolved) ClipsChildren() bool {
	return r.Overflow == OverflowClip || r.Overflow == OverflowScroll
}
