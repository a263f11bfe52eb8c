// Package style implements cascading style resolution for the element tree.
//
// A declared style is partial: any property may be unset, tracked by a
// per-property flag bitset. Resolution merges a declared style with the
// parent's resolved style into a Resolved value with no unset properties
// remaining. Inheritable properties (font, text color, line height) fall
// back to the parent's resolved value; everything else falls back to a
// fixed default.
package style

import "github.com/gogpu/ui"

// Flag identifies one declared property in the set bitset.
type Flag uint64

const (
	FlagBackground Flag = 1 << iota
	FlagTextColor
	FlagFontFamily
	FlagFontSize
	FlagFontWeight
	FlagFontStyle
	FlagLineHeight
	FlagDirection
	FlagWrap
	FlagJustifyContent
	FlagAlignItems
	FlagFlexGrow
	FlagFlexShrink
	FlagFlexBasis
	FlagWidth
	FlagHeight
	FlagMinWidth
	FlagMinHeight
	FlagMaxWidth
	FlagMaxHeight
	FlagPadding
	FlagMargin
	FlagBorderWidths
	FlagBorderColors
	FlagBorderRadii
	FlagGap
	FlagOverflow
	FlagPosition

	// flagInherited is the set of properties that cascade from the parent
	// when undeclared.
	flagInherited = FlagTextColor | FlagFontFamily | FlagFontSize |
		FlagFontWeight | FlagFontStyle | FlagLineHeight
)

// Direction is the flex main-axis direction.
type Direction uint8

const (
	Row Direction = iota
	Column
	RowReverse
	ColumnReverse
)

// IsRow returns true for row and row-reverse directions.
func (d Direction) IsRow() bool { return d == Row || d == RowReverse }

// IsReverse returns true for the reversed directions.
func (d Direction) IsReverse() bool { return d == RowReverse || d == ColumnReverse }

// Justify distributes free space along the main axis.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
	JustifySpaceAround
)

// Align positions items along the cross axis.
type Align uint8

const (
	AlignStretch Align = iota
	AlignStart
	AlignCenter
	AlignEnd
)

// Overflow controls whether children may paint outside the content box.
type Overflow uint8

const (
	// OverflowVisible lets children paint outside the parent box.
	OverflowVisible Overflow = iota
	// OverflowClip clips children to the parent's padding box.
	OverflowClip
	// OverflowScroll clips and allows a scroll offset.
	OverflowScroll
)

// Position controls participation in flex layout.
type Position uint8

const (
	// PositionRelative participates in normal flex flow.
	PositionRelative Position = iota
	// PositionAbsolute is taken out of flow and positioned against the
	// parent's border box.
	PositionAbsolute
)

// FontStyle selects the face slant.
type FontStyle uint8

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
)

// Dimension is a size demand on one axis.
type Dimension struct {
	Kind  DimensionKind
	Value float32 // pixels for DimFixed, 0..100 for DimPercent
}

// DimensionKind discriminates Dimension.
type DimensionKind uint8

const (
	// DimAuto sizes from content.
	DimAuto DimensionKind = iota
	// DimFixed is an exact pixel value.
	DimFixed
	// DimPercent is a fraction of the parent's corresponding axis.
	DimPercent
)

// Auto returns the content-sized dimension.
func Auto() Dimension { return Dimension{Kind: DimAuto} }

// Px returns a fixed pixel dimension.
func Px(v float32) Dimension { return Dimension{Kind: DimFixed, Value: v} }

// Percent returns a percentage dimension (0..100).
func Percent(v float32) Dimension { return Dimension{Kind: DimPercent, Value: v} }

// BorderColors holds per-side border colors in top/right/bottom/left order.
type BorderColors struct {
	Top, Right, Bottom, Left ui.Color
}

// Uniform returns true when all four sides share one color.
func (b BorderColors) Uniform() bool {
	return b.Top == b.Right && b.Right == b.Bottom && b.Bottom == b.Left
}

// Style is a declared, possibly partial style. Properties whose flag is not
// set in Set are unset and resolve through the cascade. The zero value
// declares nothing.
type Style struct {
	Set Flag

	Background ui.Color
	TextColor  ui.Color

	FontFamily string
	FontSize   float32
	FontWeight uint16
	FontStyle  FontStyle
	LineHeight float32 // multiplier of font size

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

// Has returns true if the property flag is declared.
func (s *Style) Has(f Flag) bool { return s.Set&f != 0 }

// Declared-property setters. Each records the flag so resolution knows the
// property was provided. They return the style for chaining when building
// trees by hand.

func (s *Style) SetBackground(c ui.Color) *Style {
	s.Background, s.Set = c, s.Set|FlagBackground
	return s
}

func (s *Style) SetTextColor(c ui.Color) *Style {
	s.TextColor, s.Set = c, s.Set|FlagTextColor
	return s
}

func (s *Style) SetFontFamily(f string) *Style {
	s.FontFamily, s.Set = f, s.Set|FlagFontFamily
	return s
}

func (s *Style) SetFontSize(v float32) *Style {
	s.FontSize, s.Set = v, s.Set|FlagFontSize
	return s
}

func (s *Style) SetFontWeight(w uint16) *Style {
	s.FontWeight, s.Set = w, s.Set|FlagFontWeight
	return s
}

func (s *Style) SetFontStyle(fs FontStyle) *Style {
	s.FontStyle, s.Set = fs, s.Set|FlagFontStyle
	return s
}

func (s *Style) SetLineHeight(v float32) *Style {
	s.LineHeight, s.Set = v, s.Set|FlagLineHeight
	return s
}

func (s *Style) SetDirection(d Direction) *Style {
	s.Direction, s.Set = d, s.Set|FlagDirection
	return s
}

func (s *Style) SetWrap(w bool) *Style {
	s.Wrap, s.Set = w, s.Set|FlagWrap
	return s
}

func (s *Style) SetJustifyContent(j Justify) *Style {
	s.JustifyContent, s.Set = j, s.Set|FlagJustifyContent
	return s
}

func (s *Style) SetAlignItems(a Align) *Style {
	s.AlignItems, s.Set = a, s.Set|FlagAlignItems
	return s
}

func (s *Style) SetFlexGrow(v float32) *Style {
	s.FlexGrow, s.Set = v, s.Set|FlagFlexGrow
	return s
}

func (s *Style) SetFlexShrink(v float32) *Style {
	s.FlexShrink, s.Set = v, s.Set|FlagFlexShrink
	return s
}

func (s *Style) SetFlexBasis(d Dimension) *Style {
	s.FlexBasis, s.Set = d, s.Set|FlagFlexBasis
	return s
}

func (s *Style) SetWidth(d Dimension) *Style {
	s.Width, s.Set = d, s.Set|FlagWidth
	return s
}

func (s *Style) SetHeight(d Dimension) *Style {
	s.Height, s.Set = d, s.Set|FlagHeight
	return s
}

func (s *Style) SetMinWidth(d Dimension) *Style {
	s.MinWidth, s.Set = d, s.Set|FlagMinWidth
	return s
}

func (s *Style) SetMinHeight(d Dimension) *Style {
	s.MinHeight, s.Set = d, s.Set|FlagMinHeight
	return s
}

func (s *Style) SetMaxWidth(d Dimension) *Style {
	s.MaxWidth, s.Set = d, s.Set|FlagMaxWidth
	return s
}

func (s *Style) SetMaxHeight(d Dimension) *Style {
	s.MaxHeight, s.Set = d, s.Set|FlagMaxHeight
	return s
}

func (s *Style) SetPadding(in ui.Insets) *Style {
	s.Padding, s.Set = in, s.Set|FlagPadding
	return s
}

func (s *Style) SetMargin(in ui.Insets) *Style {
	s.Margin, s.Set = in, s.Set|FlagMargin
	return s
}

func (s *Style) SetBorderWidths(in ui.Insets) *Style {
	s.BorderWidths, s.Set = in, s.Set|FlagBorderWidths
	return s
}

func (s *Style) SetBorderColors(c BorderColors) *Style {
	s.BorderColors, s.Set = c, s.Set|FlagBorderColors
	return s
}

func (s *Style) SetBorderRadii(r ui.CornerRadii) *Style {
	s.BorderRadii, s.Set = r, s.Set|FlagBorderRadii
	return s
}

func (s *Style) SetGap(v float32) *Style {
	s.Gap, s.Set = v, s.Set|FlagGap
	return s
}

func (s *Style) SetOverflow(o Overflow) *Style {
	s.Overflow, s.Set = o, s.Set|FlagOverflow
	return s
}

func (s *Style) SetPosition(p Position) *Style {
	s.Position, s.Set = p, s.Set|FlagPosition
	return s
}
