package ui

// PathVerb identifies one path segment command.
type PathVerb uint8

const (
	VerbMoveTo PathVerb = iota
	VerbLineTo
	VerbQuadTo
	VerbCubicTo
	VerbClose
)

// pointsPerVerb maps a verb to the number of coordinate pairs it consumes.
var pointsPerVerb = [...]int{
	VerbMoveTo:  1,
	VerbLineTo:  1,
	VerbQuadTo:  2,
	VerbCubicTo: 3,
	VerbClose:   0,
}

// Path is a vector path: a verb list with a flat coordinate array.
// Paths are built once and treated as immutable afterward; the scene builder
// and backends read but never mutate them.
type Path struct {
	verbs  []PathVerb
	points []float32
	bounds Rect
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{bounds: EmptyRect()}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float32) *Path {
	p.verbs = append(p.verbs, VerbMoveTo)
	p.points = append(p.points, x, y)
	p.bounds = p.bounds.UnionPoint(x, y)
	return p
}

// LineTo adds a line segment to (x, y).
func (p *Path) LineTo(x, y float32) *Path {
	p.verbs = append(p.verbs, VerbLineTo)
	p.points = append(p.points, x, y)
	p.bounds = p.bounds.UnionPoint(x, y)
	return p
}

// QuadTo adds a quadratic Bezier with control (cx, cy) ending at (x, y).
func (p *Path) QuadTo(cx, cy, x, y float32) *Path {
	p.verbs = append(p.verbs, VerbQuadTo)
	p.points = append(p.points, cx, cy, x, y)
	p.bounds = p.bounds.UnionPoint(cx, cy)
	p.bounds = p.bounds.UnionPoint(x, y)
	return p
}

// CubicTo adds a cubic Bezier with controls (c1x, c1y), (c2x, c2y) ending
// at (x, y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float32) *Path {
	p.verbs = append(p.verbs, VerbCubicTo)
	p.points = append(p.points, c1x, c1y, c2x, c2y, x, y)
	p.bounds = p.bounds.UnionPoint(c1x, c1y)
	p.bounds = p.bounds.UnionPoint(c2x, c2y)
	p.bounds = p.bounds.UnionPoint(x, y)
	return p
}

// Close closes the current subpath.
func (p *Path) Close() *Path {
	p.verbs = append(p.verbs, VerbClose)
	return p
}

// Rectangle appends a closed rectangle subpath.
func (p *Path) Rectangle(x, y, w, h float32) *Path {
	return p.MoveTo(x, y).LineTo(x+w, y).LineTo(x+w, y+h).LineTo(x, y+h).Close()
}

// IsEmpty returns true if the path has no verbs.
func (p *Path) IsEmpty() bool { return p == nil || len(p.verbs) == 0 }

// Bounds returns the control-point bounding box of the path.
func (p *Path) Bounds() Rect {
	if p.IsEmpty() {
		return Rect{}
	}
	return p.bounds
}

// Verbs returns the verb list. Callers must not modify it.
func (p *Path) Verbs() []PathVerb { return p.verbs }

// Points returns the flat coordinate array. Callers must not modify it.
func (p *Path) Points() []float32 { return p.points }

// Walk invokes fn for every segment with the verb and its coordinates.
// pts holds pointsPerVerb[verb]*2 values.
func (p *Path) Walk(fn func(verb PathVerb, pts []float32)) {
	idx := 0
	for _, v := range p.verbs {
		n := pointsPerVerb[v] * 2
		fn(v, p.points[idx:idx+n])
		idx += n
	}
}

// Transform returns a copy of the path with every point transformed.
func (p *Path) Transform(a Affine) *Path {
	if p.IsEmpty() || a.IsIdentity() {
		return p
	}
	out := &Path{
		verbs:  append([]PathVerb(nil), p.verbs...),
		points: make([]float32, len(p.points)),
		bounds: EmptyRect(),
	}
	for i := 0; i < len(p.points); i += 2 {
		x, y := a.TransformPoint(p.points[i], p.points[i+1])
		out.points[i], out.points[i+1] = x, y
		out.bounds = out.bounds.UnionPoint(x, y)
	}
	return out
}
