package ui

import "math"

// Point is a position in the shared scene coordinate space.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point { return Point{X: x, Y: y} }

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Size is a width/height pair. Negative dimensions are never valid; use
// Size.Clamp at trust boundaries.
type Size struct {
	Width, Height float32
}

// Clamp replaces negative or NaN dimensions with zero. Layout output is
// clamped through this so geometry never leaves the engine as NaN/negative.
func (s Size) Clamp() Size {
	return Size{Width: clampDim(s.Width), Height: clampDim(s.Height)}
}

// IsEmpty returns true if either dimension is zero or smaller.
func (s Size) IsEmpty() bool { return s.Width <= 0 || s.Height <= 0 }

func clampDim(v float32) float32 {
	if math.IsNaN(float64(v)) || v < 0 {
		return 0
	}
	return v
}

// Rect is an axis-aligned rectangle, min-corner inclusive.
type Rect struct {
	MinX, MinY, MaxX, MaxY float32
}

// RectFromXYWH creates a Rect from a top-left corner and a size.
func RectFromXYWH(x, y, w, h float32) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// EmptyRect returns an inverted rectangle that unions as the identity.
func EmptyRect() Rect {
	return Rect{
		MinX: math.MaxFloat32,
		MinY: math.MaxFloat32,
		MaxX: -math.MaxFloat32,
		MaxY: -math.MaxFloat32,
	}
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.MinX >= r.MaxX || r.MinY >= r.MaxY }

// Width returns the rectangle width, or 0 for empty rectangles.
func (r Rect) Width() float32 {
	if r.IsEmpty() {
		return 0
	}
	return r.MaxX - r.MinX
}

// Height returns the rectangle height, or 0 for empty rectangles.
func (r Rect) Height() float32 {
	if r.IsEmpty() {
		return 0
	}
	return r.MaxY - r.MinY
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rect{
		MinX: min32(r.MinX, other.MinX),
		MinY: min32(r.MinY, other.MinY),
		MaxX: max32(r.MaxX, other.MaxX),
		MaxY: max32(r.MaxY, other.MaxY),
	}
}

// Intersect returns the overlap of r and other. The result may be empty.
func (r Rect) Intersect(other Rect) Rect {
	out := Rect{
		MinX: max32(r.MinX, other.MinX),
		MinY: max32(r.MinY, other.MinY),
		MaxX: min32(r.MaxX, other.MaxX),
		MaxY: min32(r.MaxY, other.MaxY),
	}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// Contains returns true if the point lies inside r (max edges exclusive).
func (r Rect) Contains(x, y float32) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}

// ContainsRect returns true if other lies fully within r.
func (r Rect) ContainsRect(other Rect) bool {
	if other.IsEmpty() {
		return true
	}
	return other.MinX >= r.MinX && other.MinY >= r.MinY &&
		other.MaxX <= r.MaxX && other.MaxY <= r.MaxY
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float32) Rect {
	return Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// Inset returns r shrunk by the given edge insets. Collapses to a zero-area
// rectangle rather than inverting.
func (r Rect) Inset(in Insets) Rect {
	out := Rect{
		MinX: r.MinX + in.Left,
		MinY: r.MinY + in.Top,
		MaxX: r.MaxX - in.Right,
		MaxY: r.MaxY - in.Bottom,
	}
	if out.MinX > out.MaxX {
		out.MaxX = out.MinX
	}
	if out.MinY > out.MaxY {
		out.MaxY = out.MinY
	}
	return out
}

// Size returns the rectangle dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width(), Height: r.Height()} }

// Insets holds per-side values in top/right/bottom/left order, matching the
// declaration order used throughout the style system.
type Insets struct {
	Top, Right, Bottom, Left float32
}

// UniformInsets returns Insets with the same value on every side.
func UniformInsets(v float32) Insets {
	return Insets{Top: v, Right: v, Bottom: v, Left: v}
}

// Horizontal returns left + right.
func (in Insets) Horizontal() float32 { return in.Left + in.Right }

// Vertical returns top + bottom.
func (in Insets) Vertical() float32 { return in.Top + in.Bottom }

// IsZero returns true if every side is zero.
func (in Insets) IsZero() bool {
	return in.Top == 0 && in.Right == 0 && in.Bottom == 0 && in.Left == 0
}

// CornerRadii holds per-corner radii in clockwise order from top-left.
type CornerRadii struct {
	TopLeft, TopRight, BottomRight, BottomLeft float32
}

// UniformRadii returns CornerRadii with the same radius on every corner.
func UniformRadii(r float32) CornerRadii {
	return CornerRadii{TopLeft: r, TopRight: r, BottomRight: r, BottomLeft: r}
}

// IsZero returns true if every corner radius is zero.
func (c CornerRadii) IsZero() bool {
	return c.TopLeft == 0 && c.TopRight == 0 && c.BottomRight == 0 && c.BottomLeft == 0
}

// Max returns the largest corner radius.
func (c CornerRadii) Max() float32 {
	return max32(max32(c.TopLeft, c.TopRight), max32(c.BottomRight, c.BottomLeft))
}

// Affine is a 2D affine transform:
//
//	| A B C |   | x |
//	| D E F | * | y |
//	            | 1 |
type Affine struct {
	A, B, C, D, E, F float32
}

// IdentityAffine returns the identity transform.
func IdentityAffine() Affine {
	return Affine{A: 1, E: 1}
}

// TranslateAffine returns a translation transform.
func TranslateAffine(x, y float32) Affine {
	return Affine{A: 1, C: x, E: 1, F: y}
}

// ScaleAffine returns a scale transform.
func ScaleAffine(x, y float32) Affine {
	return Affine{A: x, E: y}
}

// Multiply returns a * b (b applied first).
func (a Affine) Multiply(b Affine) Affine {
	return Affine{
		A: a.A*b.A + a.B*b.D,
		B: a.A*b.B + a.B*b.E,
		C: a.A*b.C + a.B*b.F + a.C,
		D: a.D*b.A + a.E*b.D,
		E: a.D*b.B + a.E*b.E,
		F: a.D*b.C + a.E*b.F + a.F,
	}
}

// TransformPoint applies the transform to a point.
func (a Affine) TransformPoint(x, y float32) (float32, float32) {
	return a.A*x + a.B*y + a.C, a.D*x + a.E*y + a.F
}

// TransformRect returns the axis-aligned bounds of the transformed rectangle.
func (a Affine) TransformRect(r Rect) Rect {
	if r.IsEmpty() {
		return r
	}
	out := EmptyRect()
	for _, c := range [4][2]float32{
		{r.MinX, r.MinY}, {r.MaxX, r.MinY}, {r.MaxX, r.MaxY}, {r.MinX, r.MaxY},
	} {
		x, y := a.TransformPoint(c[0], c[1])
		out = out.UnionPoint(x, y)
	}
	return out
}

// IsIdentity returns true if the transform is the identity.
func (a Affine) IsIdentity() bool {
	return a == Affine{A: 1, E: 1}
}

// UnionPoint extends r to contain the point (x, y).
func (r Rect) UnionPoint(x, y float32) Rect {
	return Rect{
		MinX: min32(r.MinX, x),
		MinY: min32(r.MinY, y),
		MaxX: max32(r.MaxX, x),
		MaxY: max32(r.MaxY, y),
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
