package layout

import (
	"math"
	"testing"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/element"
	"github.com/gogpu/ui/style"
)

const tolerance = 1e-3

func approx(a, b float32) bool {
	return float32(math.Abs(float64(a-b))) <= tolerance
}

func checkBox(t *testing.T, e *Engine, id element.NodeID, x, y, w, h float32) {
	t.Helper()
	b := e.Box(id)
	if !approx(b.X, x) || !approx(b.Y, y) || !approx(b.Width, w) || !approx(b.Height, h) {
		t.Errorf("box = (%v, %v, %v, %v), want (%v, %v, %v, %v)",
			b.X, b.Y, b.Width, b.Height, x, y, w, h)
	}
}

func container(tree *element.Tree, s *style.Style) element.NodeID {
	id := tree.NewNode(element.KindContainer)
	if s != nil {
		tree.SetStyle(id, s)
	}
	return id
}

func child(tree *element.Tree, parent element.NodeID, s *style.Style) element.NodeID {
	id := container(tree, s)
	tree.AppendChild(parent, id)
	return id
}

func TestFixedSizeRow(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(200)).SetHeight(style.Px(100)))
	a := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(50)).SetHeight(style.Px(40)))
	b := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(70)).SetHeight(style.Px(40)))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 300, Height: 300})

	checkBox(t, e, root, 0, 0, 200, 100)
	checkBox(t, e, a, 0, 0, 50, 40)
	checkBox(t, e, b, 50, 0, 70, 40)
}

func TestColumnDirection(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetDirection(style.Column).
		SetWidth(style.Px(100)).SetHeight(style.Px(200)))
	a := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(100)).SetHeight(style.Px(30)))
	b := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(100)).SetHeight(style.Px(50)))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 100, Height: 200})

	checkBox(t, e, a, 0, 0, 100, 30)
	checkBox(t, e, b, 0, 30, 100, 50)
}

// Two children overflow the container and shrink in proportion to
// flex-shrink weighted by their hypothetical sizes; the final widths sum to
// the container width exactly.
func TestFlexShrinkExactFit(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(100)).SetHeight(style.Px(40)))
	a := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(80)).SetHeight(style.Px(20)))
	b := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(40)).SetHeight(style.Px(20)))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 100, Height: 40})

	ba, bb := e.Box(a), e.Box(b)
	// 80 - 20*80/120 and 40 - 20*40/120.
	if !approx(ba.Width, 66.6667) {
		t.Errorf("first child width = %v, want 66.667", ba.Width)
	}
	if !approx(bb.Width, 33.3333) {
		t.Errorf("second child width = %v, want 33.333", bb.Width)
	}
	if !approx(ba.Width+bb.Width, 100) {
		t.Errorf("children sum to %v, want exactly the container width", ba.Width+bb.Width)
	}
	if !approx(bb.X, ba.Width) {
		t.Errorf("second child starts at %v, want %v", bb.X, ba.Width)
	}
}

func TestFlexGrowDistribution(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(300)).SetHeight(style.Px(40)))
	a := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(50)).SetHeight(style.Px(20)).SetFlexGrow(1))
	b := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(50)).SetHeight(style.Px(20)).SetFlexGrow(2))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 300, Height: 40})

	if got := e.Box(a).Width; !approx(got, 116.6667) {
		t.Errorf("grow 1 child width = %v, want 116.667", got)
	}
	if got := e.Box(b).Width; !approx(got, 183.3333) {
		t.Errorf("grow 2 child width = %v, want 183.333", got)
	}
}

func TestPercentSizing(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(200)).SetHeight(style.Px(100)))
	a := child(tree, root, (&style.Style{}).
		SetWidth(style.Percent(50)).SetHeight(style.Percent(25)))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 200, Height: 100})

	checkBox(t, e, a, 0, 0, 100, 25)
}

func TestContentBasedContainerSize(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetDirection(style.Column).
		SetPadding(ui.Insets{Top: 5, Right: 5, Bottom: 5, Left: 5}))
	child(tree, root, (&style.Style{}).
		SetWidth(style.Px(80)).SetHeight(style.Px(30)))
	child(tree, root, (&style.Style{}).
		SetWidth(style.Px(60)).SetHeight(style.Px(20)))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 500, Height: 500})

	b := e.Box(root)
	if !approx(b.Width, 90) || !approx(b.Height, 60) {
		t.Errorf("container sized %vx%v, want 90x60 (content plus padding)", b.Width, b.Height)
	}
}

func TestPaddingAndBorderOffsetChildren(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(100)).SetHeight(style.Px(100)).
		SetPadding(ui.Insets{Top: 10, Right: 10, Bottom: 10, Left: 10}).
		SetBorderWidths(ui.Insets{Top: 2, Right: 2, Bottom: 2, Left: 2}))
	a := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(20)).SetHeight(style.Px(20)))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 100, Height: 100})

	checkBox(t, e, a, 12, 12, 20, 20)
}

func TestMarginSpacing(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(200)).SetHeight(style.Px(50)))
	a := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(30)).SetHeight(style.Px(30)).
		SetMargin(ui.Insets{Left: 5, Right: 5}))
	b := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(30)).SetHeight(style.Px(30)).
		SetMargin(ui.Insets{Left: 10}))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 200, Height: 50})

	checkBox(t, e, a, 5, 0, 30, 30)
	checkBox(t, e, b, 50, 0, 30, 30)
}

func TestJustifyContent(t *testing.T) {
	cases := []struct {
		name    string
		justify style.Justify
		xa, xb  float32
	}{
		{"center", style.JustifyCenter, 50, 100},
		{"end", style.JustifyEnd, 100, 150},
		{"space_between", style.JustifySpaceBetween, 0, 150},
		{"space_around", style.JustifySpaceAround, 25, 125},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree := element.NewTree()
			root := container(tree, (&style.Style{}).
				SetWidth(style.Px(200)).SetHeight(style.Px(50)).
				SetJustifyContent(tc.justify))
			a := child(tree, root, (&style.Style{}).
				SetWidth(style.Px(50)).SetHeight(style.Px(20)))
			b := child(tree, root, (&style.Style{}).
				SetWidth(style.Px(50)).SetHeight(style.Px(20)))
			tree.ResolveStyles(root)

			e := NewEngine(tree)
			e.Layout(root, ui.Size{Width: 200, Height: 50})

			if got := e.Box(a).X; !approx(got, tc.xa) {
				t.Errorf("first child x = %v, want %v", got, tc.xa)
			}
			if got := e.Box(b).X; !approx(got, tc.xb) {
				t.Errorf("second child x = %v, want %v", got, tc.xb)
			}
		})
	}
}

func TestAlignItems(t *testing.T) {
	cases := []struct {
		name  string
		align style.Align
		y     float32
		h     float32
	}{
		{"stretch", style.AlignStretch, 0, 100},
		{"start", style.AlignStart, 0, 20},
		{"center", style.AlignCenter, 40, 20},
		{"end", style.AlignEnd, 80, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree := element.NewTree()
			root := container(tree, (&style.Style{}).
				SetWidth(style.Px(200)).SetHeight(style.Px(100)).
				SetAlignItems(tc.align))
			cs := (&style.Style{}).SetWidth(style.Px(50))
			if tc.align != style.AlignStretch {
				cs.SetHeight(style.Px(20))
			}
			a := child(tree, root, cs)
			tree.ResolveStyles(root)

			e := NewEngine(tree)
			e.Layout(root, ui.Size{Width: 200, Height: 100})

			b := e.Box(a)
			if !approx(b.Y, tc.y) || !approx(b.Height, tc.h) {
				t.Errorf("child at y=%v h=%v, want y=%v h=%v", b.Y, b.Height, tc.y, tc.h)
			}
		})
	}
}

func TestGapBetweenItems(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(200)).SetHeight(style.Px(50)).SetGap(10))
	a := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(40)).SetHeight(style.Px(20)))
	b := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(40)).SetHeight(style.Px(20)))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 200, Height: 50})

	checkBox(t, e, a, 0, 0, 40, 20)
	checkBox(t, e, b, 50, 0, 40, 20)
}

func TestWrapBreaksLines(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(100)).SetHeight(style.Px(60)).
		SetWrap(true))
	a := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(40)).SetHeight(style.Px(20)))
	b := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(40)).SetHeight(style.Px(20)))
	c := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(40)).SetHeight(style.Px(20)))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 100, Height: 60})

	checkBox(t, e, a, 0, 0, 40, 20)
	checkBox(t, e, b, 40, 0, 40, 20)
	checkBox(t, e, c, 0, 20, 40, 20)
}

func TestRowReverseOrder(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetDirection(style.RowReverse).
		SetWidth(style.Px(100)).SetHeight(style.Px(20)))
	a := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(30)).SetHeight(style.Px(20)))
	b := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(30)).SetHeight(style.Px(20)))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 100, Height: 20})

	// The second document child is placed first.
	if e.Box(b).X >= e.Box(a).X {
		t.Errorf("reverse row: b.X=%v should precede a.X=%v", e.Box(b).X, e.Box(a).X)
	}
}

func TestAbsoluteChildOutOfFlow(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(200)).SetHeight(style.Px(100)))
	flow := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(50)).SetHeight(style.Px(50)))
	abs := child(tree, root, (&style.Style{}).
		SetPosition(style.PositionAbsolute).
		SetWidth(style.Px(30)).SetHeight(style.Px(30)).
		SetMargin(ui.Insets{Top: 10, Left: 20}))
	other := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(50)).SetHeight(style.Px(50)))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 200, Height: 100})

	// Flow children pack as if the absolute child were not there.
	checkBox(t, e, flow, 0, 0, 50, 50)
	checkBox(t, e, other, 50, 0, 50, 50)
	checkBox(t, e, abs, 20, 10, 30, 30)
}

func TestMeasureCallback(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetDirection(style.Column).
		SetWidth(style.Px(100)))
	txt := tree.NewNode(element.KindText)
	tree.AppendChild(root, txt)
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.SetMeasure(txt, func(maxWidth, maxHeight float32) ui.Size {
		// Wraps onto two lines when narrower than its natural 150px.
		if maxWidth >= 0 && maxWidth < 150 {
			return ui.Size{Width: maxWidth, Height: 40}
		}
		return ui.Size{Width: 150, Height: 20}
	})
	e.Layout(root, ui.Size{Width: 100, Height: 500})

	b := e.Box(txt)
	if !approx(b.Width, 100) || !approx(b.Height, 40) {
		t.Errorf("measured leaf sized %vx%v, want 100x40", b.Width, b.Height)
	}
	if rb := e.Box(root); !approx(rb.Height, 40) {
		t.Errorf("container height = %v, want 40 from content", rb.Height)
	}
}

func TestLayoutIdempotent(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(300)).SetHeight(style.Px(200)).
		SetPadding(ui.Insets{Top: 8, Right: 8, Bottom: 8, Left: 8}))
	a := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(120)).SetHeight(style.Px(50)).SetFlexGrow(1))
	b := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(250)).SetHeight(style.Px(50)))
	inner := child(tree, a, (&style.Style{}).
		SetWidth(style.Percent(50)).SetHeight(style.Px(10)))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 300, Height: 200})
	first := map[element.NodeID]Box{}
	for _, id := range []element.NodeID{root, a, b, inner} {
		first[id] = e.Box(id)
	}

	e.Layout(root, ui.Size{Width: 300, Height: 200})
	for id, want := range first {
		if got := e.Box(id); got != want {
			t.Errorf("second pass box %+v != first pass %+v", got, want)
		}
	}
}

func TestMeasureCacheReuse(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).SetDirection(style.Column))
	txt := tree.NewNode(element.KindText)
	tree.AppendChild(root, txt)
	tree.ResolveStyles(root)

	calls := 0
	e := NewEngine(tree)
	e.SetMeasure(txt, func(maxWidth, maxHeight float32) ui.Size {
		calls++
		return ui.Size{Width: 80, Height: 20}
	})

	e.Layout(root, ui.Size{Width: 200, Height: 200})
	after := calls
	if after == 0 {
		t.Fatal("measure callback never invoked")
	}

	e.Layout(root, ui.Size{Width: 200, Height: 200})
	if calls != after {
		t.Errorf("unchanged relayout invoked measure %d more times", calls-after)
	}

	e.MarkDirty(txt)
	e.Layout(root, ui.Size{Width: 200, Height: 200})
	if calls == after {
		t.Error("MarkDirty did not invalidate the cached measurement")
	}
}

func TestChildrenContainedInParent(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(120)).SetHeight(style.Px(80)).
		SetPadding(ui.Insets{Top: 4, Right: 4, Bottom: 4, Left: 4}))
	child(tree, root, (&style.Style{}).
		SetWidth(style.Px(90)).SetHeight(style.Px(30)))
	child(tree, root, (&style.Style{}).
		SetWidth(style.Px(90)).SetHeight(style.Px(30)))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 120, Height: 80})

	parent := e.AbsoluteRect(root)
	for _, c := range tree.Children(root) {
		r := e.AbsoluteRect(c)
		if r.MinX < parent.MinX-tolerance || r.MaxX > parent.MaxX+tolerance ||
			r.MinY < parent.MinY-tolerance || r.MaxY > parent.MaxY+tolerance {
			t.Errorf("child rect %+v escapes parent %+v", r, parent)
		}
	}
}

func TestNegativeAndNaNSizesClampToZero(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(-50)).
		SetHeight(style.Px(float32(math.NaN()))))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 100, Height: 100})

	b := e.Box(root)
	if b.Width != 0 || b.Height != 0 {
		t.Errorf("invalid dimensions produced %vx%v, want 0x0", b.Width, b.Height)
	}
}

func TestMinMaxConstraints(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(200)).SetHeight(style.Px(100)))
	a := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(10)).SetHeight(style.Px(10)).
		SetMinWidth(style.Px(40)))
	b := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(500)).SetHeight(style.Px(10)).
		SetMaxWidth(style.Px(60)))
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.Layout(root, ui.Size{Width: 200, Height: 100})

	if got := e.Box(a).Width; !approx(got, 40) {
		t.Errorf("min-width clamped to %v, want 40", got)
	}
	if got := e.Box(b).Width; !approx(got, 60) {
		t.Errorf("max-width clamped to %v, want 60", got)
	}
}

func TestPruneDropsRemovedNodeState(t *testing.T) {
	tree := element.NewTree()
	root := container(tree, (&style.Style{}).
		SetWidth(style.Px(200)).SetHeight(style.Px(100)))
	kept := child(tree, root, (&style.Style{}).
		SetWidth(style.Px(50)).SetHeight(style.Px(40)))
	gone := tree.NewNode(element.KindText)
	tree.AppendChild(root, gone)
	tree.ResolveStyles(root)

	e := NewEngine(tree)
	e.SetMeasure(gone, func(maxWidth, maxHeight float32) ui.Size {
		return ui.Size{Width: 30, Height: 16}
	})
	e.Layout(root, ui.Size{Width: 300, Height: 300})

	tree.Remove(gone)
	e.Prune()

	if _, ok := e.measures[gone]; ok {
		t.Error("measure callback survives node removal")
	}
	if _, ok := e.boxes[gone]; ok {
		t.Error("box survives node removal")
	}
	if _, ok := e.sizeCache[gone]; ok {
		t.Error("cached sizes survive node removal")
	}
	if _, ok := e.boxes[kept]; !ok {
		t.Error("live node's box pruned")
	}
}
