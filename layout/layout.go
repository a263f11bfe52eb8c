// Package layout computes box geometry for the element tree.
//
// The engine runs a flexbox-style layout: row or column main axis,
// grow/shrink distribution, fixed/percentage/content sizing, and
// padding/margin/border box contributions. Leaf nodes (text, images)
// report intrinsic sizes through measure callbacks.
//
// Layout is two-phase: a measuring phase resolves every node's border-box
// size under the given constraints (memoized per node and constraint), and
// a placement phase assigns final parent-relative rectangles. Running
// layout twice on an unchanged tree yields identical geometry.
package layout

import (
	"errors"
	"math"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/element"
	"github.com/gogpu/ui/style"
)

// ErrConstraintUnsatisfiable reports a size constraint system with no
// solution, typically a cyclic dependency between a parent's content size
// and a child's percentage size. Layout falls back to minimum sizes
// instead of failing.
var ErrConstraintUnsatisfiable = errors.New("layout: unsatisfiable size constraints")

// maxSizeIterations caps re-entrant sizing of a single node. A cyclic size
// dependency (child depends on parent's final size which depends on the
// child's intrinsic size) hits this cap and falls back to the node's
// minimum size rather than looping forever.
const maxSizeIterations = 8

// MeasureFunc reports a leaf's intrinsic content size given available
// content-box constraints. A negative constraint means unconstrained.
type MeasureFunc func(maxWidth, maxHeight float32) ui.Size

// Box is the computed geometry of one node after a layout pass:
// the border box in parent-relative coordinates.
type Box struct {
	X, Y          float32
	Width, Height float32
}

// Rect returns the box as a parent-relative rectangle.
func (b Box) Rect() ui.Rect {
	return ui.RectFromXYWH(b.X, b.Y, b.Width, b.Height)
}

// sizeKey identifies one measuring constraint for the per-node cache.
// Float bit patterns keep lookups exact.
type sizeKey struct {
	availW, availH uint32
	defW, defH     bool
}

func makeSizeKey(availW, availH float32, defW, defH bool) sizeKey {
	return sizeKey{
		availW: math.Float32bits(availW),
		availH: math.Float32bits(availH),
		defW:   defW,
		defH:   defH,
	}
}

// Engine owns layout state for one element tree. It is used only from the
// UI goroutine; boxes are read-only between passes.
type Engine struct {
	tree *element.Tree

	boxes    map[element.NodeID]Box
	measures map[element.NodeID]MeasureFunc

	// sizeCache memoizes measured sizes per node and constraint. Entries
	// are dropped by MarkDirty.
	sizeCache map[element.NodeID]map[sizeKey]ui.Size

	// inFlight guards against cyclic size dependencies.
	inFlight map[element.NodeID]int

	// stats for tests and diagnostics.
	measureCalls int
}

// NewEngine creates a layout engine over a tree.
func NewEngine(tree *element.Tree) *Engine {
	return &Engine{
		tree:      tree,
		boxes:     make(map[element.NodeID]Box),
		measures:  make(map[element.NodeID]MeasureFunc),
		sizeCache: make(map[element.NodeID]map[sizeKey]ui.Size),
		inFlight:  make(map[element.NodeID]int),
	}
}

// SetMeasure registers the intrinsic-size callback for a leaf node and
// invalidates cached sizes up the tree.
func (e *Engine) SetMeasure(id element.NodeID, fn MeasureFunc) {
	e.measures[id] = fn
	e.MarkDirty(id)
}

// MarkDirty invalidates cached sizes for id and its ancestors up to (and
// including) the nearest ancestor whose both axes are fixed; a fixed-size
// ancestor absorbs intrinsic-size changes below it.
func (e *Engine) MarkDirty(id element.NodeID) {
	for !id.IsNil() {
		delete(e.sizeCache, id)
		st := e.tree.Resolved(id)
		if st != nil && st.Width.Kind == style.DimFixed && st.Height.Kind == style.DimFixed {
			return
		}
		id = e.tree.Parent(id)
	}
}

// InvalidateAll drops every cached size. Used on available-size changes
// (window resize) where all constraints shift.
func (e *Engine) InvalidateAll() {
	e.sizeCache = make(map[element.NodeID]map[sizeKey]ui.Size)
}

// Prune drops state held for nodes no longer in the tree. Called after
// structure-changing reconciliations so removed subtrees do not pin
// measure callbacks and cached geometry.
func (e *Engine) Prune() {
	for id := range e.measures {
		if !e.tree.Alive(id) {
			delete(e.measures, id)
		}
	}
	for id := range e.boxes {
		if !e.tree.Alive(id) {
			delete(e.boxes, id)
		}
	}
	for id := range e.sizeCache {
		if !e.tree.Alive(id) {
			delete(e.sizeCache, id)
		}
	}
}

// Box returns the computed geometry of a node. Valid after Layout.
func (e *Engine) Box(id element.NodeID) Box {
	return e.boxes[id]
}

// AbsoluteRect returns a node's border box in root coordinates by summing
// parent offsets.
func (e *Engine) AbsoluteRect(id element.NodeID) ui.Rect {
	b := e.boxes[id]
	x, y := b.X, b.Y
	for p := e.tree.Parent(id); !p.IsNil(); p = e.tree.Parent(p) {
		pb := e.boxes[p]
		x += pb.X
		y += pb.Y
	}
	return ui.RectFromXYWH(x, y, b.Width, b.Height)
}

// Layout runs a full pass: the root is laid out into the given available
// size and every reachable node receives a Box.
func (e *Engine) Layout(root element.NodeID, avail ui.Size) {
	avail = avail.Clamp()
	e.boxes = make(map[element.NodeID]Box)

	size := e.measureNode(root, avail.Width, avail.Height, true, true)
	e.placeNode(root, 0, 0, size.Width, size.Height)
}

// ---- dimension resolution ----

// resolveDim resolves a styled dimension against an available extent.
// ok is false when the dimension cannot be determined (auto, or percent of
// an indefinite extent).
func resolveDim(d style.Dimension, avail float32, definite bool) (float32, bool) {
	switch d.Kind {
	case style.DimFixed:
		return clampNonNeg(d.Value), true
	case style.DimPercent:
		if !definite {
			return 0, false
		}
		return clampNonNeg(avail * d.Value / 100), true
	default:
		return 0, false
	}
}

// clampMinMax applies min/max constraints resolved against avail.
func clampMinMax(v float32, minD, maxD style.Dimension, avail float32, definite bool) float32 {
	if maxV, ok := resolveDim(maxD, avail, definite); ok && v > maxV {
		v = maxV
	}
	if minV, ok := resolveDim(minD, avail, definite); ok && v < minV {
		v = minV
	}
	return clampNonNeg(v)
}

func clampNonNeg(v float32) float32 {
	if math.IsNaN(float64(v)) || v < 0 {
		return 0
	}
	return v
}
