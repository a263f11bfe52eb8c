package layout

import (
	"github.com/gogpu/ui"
	"github.com/gogpu/ui/element"
	"github.com/gogpu/ui/style"
)

// measureNode resolves a node's border-box size under the given available
// extents. defW/defH report whether the extents are definite. Results are
// memoized; re-entrant calls past maxSizeIterations indicate a cyclic size
// dependency and resolve to the node's minimum size.
func (e *Engine) measureNode(id element.NodeID, availW, availH float32, defW, defH bool) ui.Size {
	key := makeSizeKey(availW, availH, defW, defH)
	if m, ok := e.sizeCache[id]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}

	st := e.tree.Resolved(id)
	if st == nil {
		return ui.Size{}
	}
	if e.inFlight[id] >= maxSizeIterations {
		ui.Logger().Warn("layout: falling back to minimum size",
			"kind", e.tree.Kind(id).String(), "error", ErrConstraintUnsatisfiable)
		minW, _ := resolveDim(st.MinWidth, availW, defW)
		minH, _ := resolveDim(st.MinHeight, availH, defH)
		return ui.Size{Width: minW, Height: minH}
	}
	e.inFlight[id]++
	size := e.computeSize(id, st, availW, availH, defW, defH).Clamp()
	e.inFlight[id]--

	m, ok := e.sizeCache[id]
	if !ok {
		m = make(map[sizeKey]ui.Size)
		e.sizeCache[id] = m
	}
	m[key] = size
	e.measureCalls++
	return size
}

// MeasureCalls reports how many uncached size computations have run.
func (e *Engine) MeasureCalls() int { return e.measureCalls }

func (e *Engine) computeSize(id element.NodeID, st *style.Resolved, availW, availH float32, defW, defH bool) ui.Size {
	w, wOK := resolveDim(st.Width, availW, defW)
	h, hOK := resolveDim(st.Height, availH, defH)
	if wOK && hOK {
		return ui.Size{
			Width:  clampMinMax(w, st.MinWidth, st.MaxWidth, availW, defW),
			Height: clampMinMax(h, st.MinHeight, st.MaxHeight, availH, defH),
		}
	}

	pbW := st.Padding.Horizontal() + st.BorderWidths.Horizontal()
	pbH := st.Padding.Vertical() + st.BorderWidths.Vertical()

	innerW, innerDefW := availW-pbW, defW
	if wOK {
		innerW, innerDefW = w-pbW, true
	}
	innerH, innerDefH := availH-pbH, defH
	if hOK {
		innerH, innerDefH = h-pbH, true
	}
	innerW, innerH = clampNonNeg(innerW), clampNonNeg(innerH)

	var content ui.Size
	if fn, ok := e.measures[id]; ok {
		mw, mh := float32(-1), float32(-1)
		if innerDefW {
			mw = innerW
		}
		if innerDefH {
			mh = innerH
		}
		content = fn(mw, mh).Clamp()
	} else if len(e.tree.Children(id)) > 0 {
		content = e.measureFlexContent(id, st, innerW, innerH, innerDefW, innerDefH)
	}

	if !wOK {
		w = content.Width + pbW
	}
	if !hOK {
		h = content.Height + pbH
	}
	return ui.Size{
		Width:  clampMinMax(w, st.MinWidth, st.MaxWidth, availW, defW),
		Height: clampMinMax(h, st.MinHeight, st.MaxHeight, availH, defH),
	}
}

// flexItem is one in-flow child during a flex pass. Sizes are border-box
// sizes along the container's axes.
type flexItem struct {
	id element.NodeID
	st *style.Resolved

	base   float32 // hypothetical main size
	target float32 // main size after grow/shrink
	cross  float32

	marginMainStart, marginMainEnd   float32
	marginCrossStart, marginCrossEnd float32
}

func (it *flexItem) marginMain() float32  { return it.marginMainStart + it.marginMainEnd }
func (it *flexItem) marginCross() float32 { return it.marginCrossStart + it.marginCrossEnd }

// collectItems gathers in-flow children with their hypothetical main sizes.
func (e *Engine) collectItems(id element.NodeID, row bool, innerMain, innerCross float32, defMain, defCross bool) []flexItem {
	children := e.tree.Children(id)
	items := make([]flexItem, 0, len(children))
	for _, c := range children {
		cst := e.tree.Resolved(c)
		if cst == nil || cst.Position == style.PositionAbsolute {
			continue
		}
		it := flexItem{id: c, st: cst}
		if row {
			it.marginMainStart, it.marginMainEnd = cst.Margin.Left, cst.Margin.Right
			it.marginCrossStart, it.marginCrossEnd = cst.Margin.Top, cst.Margin.Bottom
		} else {
			it.marginMainStart, it.marginMainEnd = cst.Margin.Top, cst.Margin.Bottom
			it.marginCrossStart, it.marginCrossEnd = cst.Margin.Left, cst.Margin.Right
		}
		it.base = e.itemBaseSize(c, cst, row, innerMain, innerCross, defMain, defCross)
		it.target = it.base
		items = append(items, it)
	}
	return items
}

// itemBaseSize computes the hypothetical main size of one item: flex-basis
// if set, else the main-axis dimension, else the intrinsic size.
func (e *Engine) itemBaseSize(id element.NodeID, st *style.Resolved, row bool, innerMain, innerCross float32, defMain, defCross bool) float32 {
	mainDim := st.Height
	minD, maxD := st.MinHeight, st.MaxHeight
	if row {
		mainDim = st.Width
		minD, maxD = st.MinWidth, st.MaxWidth
	}

	if v, ok := resolveDim(st.FlexBasis, innerMain, defMain); ok {
		return clampMinMax(v, minD, maxD, innerMain, defMain)
	}
	if v, ok := resolveDim(mainDim, innerMain, defMain); ok {
		return clampMinMax(v, minD, maxD, innerMain, defMain)
	}

	// Content-based: measure with an indefinite main axis so the item
	// reports its natural extent.
	var sz ui.Size
	if row {
		sz = e.measureNode(id, innerMain, innerCross-st.Margin.Vertical(), false, defCross)
		return clampMinMax(sz.Width, minD, maxD, innerMain, defMain)
	}
	sz = e.measureNode(id, innerCross-st.Margin.Horizontal(), innerMain, defCross, false)
	return clampMinMax(sz.Height, minD, maxD, innerMain, defMain)
}

// splitLines partitions items into flex lines. Without wrap (or without a
// definite main extent) everything goes on one line.
func splitLines(items []flexItem, wrap bool, innerMain float32, defMain bool, gap float32) [][]flexItem {
	if !wrap || !defMain || len(items) == 0 {
		if len(items) == 0 {
			return nil
		}
		return [][]flexItem{items}
	}
	var lines [][]flexItem
	start := 0
	used := float32(0)
	for i := range items {
		need := items[i].base + items[i].marginMain()
		if i > start {
			need += gap
		}
		if i > start && used+need > innerMain {
			lines = append(lines, items[start:i])
			start = i
			used = items[i].base + items[i].marginMain()
			continue
		}
		used += need
	}
	lines = append(lines, items[start:])
	return lines
}

// resolveFlexibleLengths distributes free main-axis space over one line.
// Positive free space goes to items proportionally to flex-grow. Negative
// free space is absorbed proportionally to flex-shrink weighted by each
// item's hypothetical size, so larger items give up more.
func resolveFlexibleLengths(line []flexItem, innerMain float32, gap float32) {
	used := gap * float32(len(line)-1)
	for i := range line {
		used += line[i].base + line[i].marginMain()
	}
	free := innerMain - used

	switch {
	case free > 0:
		var totalGrow float32
		for i := range line {
			totalGrow += line[i].st.FlexGrow
		}
		if totalGrow <= 0 {
			return
		}
		for i := range line {
			line[i].target = line[i].base + free*line[i].st.FlexGrow/totalGrow
		}
	case free < 0:
		var totalScaled float32
		for i := range line {
			totalScaled += line[i].st.FlexShrink * line[i].base
		}
		if totalScaled <= 0 {
			return
		}
		for i := range line {
			line[i].target = clampNonNeg(line[i].base + free*line[i].st.FlexShrink*line[i].base/totalScaled)
		}
	}
}

// measureFlexContent computes the content size of a container from its
// children's hypothetical sizes, without distributing flexible lengths.
func (e *Engine) measureFlexContent(id element.NodeID, st *style.Resolved, innerW, innerH float32, defW, defH bool) ui.Size {
	row := st.Direction.IsRow()
	innerMain, innerCross := innerH, innerW
	defMain, defCross := defH, defW
	if row {
		innerMain, innerCross = innerW, innerH
		defMain, defCross = defW, defH
	}

	items := e.collectItems(id, row, innerMain, innerCross, defMain, defCross)
	lines := splitLines(items, st.Wrap, innerMain, defMain, st.Gap)

	var mainExtent, crossExtent float32
	for li, line := range lines {
		var lineMain, lineCross float32
		for i := range line {
			it := &line[i]
			lineMain += it.base + it.marginMain()
			if i > 0 {
				lineMain += st.Gap
			}
			c := e.itemCrossSize(it, row, it.base, innerCross, defCross, false, 0)
			if c+it.marginCross() > lineCross {
				lineCross = c + it.marginCross()
			}
		}
		if lineMain > mainExtent {
			mainExtent = lineMain
		}
		if li > 0 {
			crossExtent += st.Gap
		}
		crossExtent += lineCross
	}

	if row {
		return ui.Size{Width: mainExtent, Height: crossExtent}
	}
	return ui.Size{Width: crossExtent, Height: mainExtent}
}

// itemCrossSize measures an item's cross-axis size given its final main
// size. When stretch applies the cross size fills the line.
func (e *Engine) itemCrossSize(it *flexItem, row bool, mainSize, innerCross float32, defCross, stretch bool, lineCross float32) float32 {
	crossDim := it.st.Width
	if row {
		crossDim = it.st.Height
	}
	if stretch && crossDim.Kind == style.DimAuto && it.st.Position != style.PositionAbsolute {
		return clampNonNeg(lineCross - it.marginCross())
	}
	var sz ui.Size
	if row {
		sz = e.measureNode(it.id, mainSize, innerCross-it.marginCross(), true, defCross)
		return sz.Height
	}
	sz = e.measureNode(it.id, innerCross-it.marginCross(), mainSize, defCross, true)
	return sz.Width
}

// placeNode assigns the node's box and lays out its children within it.
func (e *Engine) placeNode(id element.NodeID, x, y, w, h float32) {
	e.boxes[id] = Box{X: x, Y: y, Width: w, Height: h}

	st := e.tree.Resolved(id)
	if st == nil {
		return
	}
	children := e.tree.Children(id)
	if len(children) == 0 {
		return
	}

	contentX := st.BorderWidths.Left + st.Padding.Left
	contentY := st.BorderWidths.Top + st.Padding.Top
	innerW := clampNonNeg(w - st.Padding.Horizontal() - st.BorderWidths.Horizontal())
	innerH := clampNonNeg(h - st.Padding.Vertical() - st.BorderWidths.Vertical())

	row := st.Direction.IsRow()
	innerMain, innerCross := innerH, innerW
	if row {
		innerMain, innerCross = innerW, innerH
	}

	items := e.collectItems(id, row, innerMain, innerCross, true, true)
	lines := splitLines(items, st.Wrap, innerMain, true, st.Gap)

	// Line cross sizes. A single line in a definite container fills it.
	lineCrosses := make([]float32, len(lines))
	for li, line := range lines {
		resolveFlexibleLengths(line, innerMain, st.Gap)
		var lc float32
		for i := range line {
			c := e.itemCrossSize(&line[i], row, line[i].target, innerCross, true, false, 0)
			line[i].cross = c
			if c+line[i].marginCross() > lc {
				lc = c + line[i].marginCross()
			}
		}
		lineCrosses[li] = lc
	}
	if len(lines) == 1 {
		lineCrosses[0] = innerCross
	}

	crossPos := float32(0)
	for li, line := range lines {
		lineCross := lineCrosses[li]

		// Stretch resolves against the final line cross size.
		for i := range line {
			it := &line[i]
			crossDim := it.st.Width
			if row {
				crossDim = it.st.Height
			}
			if st.AlignItems == style.AlignStretch && crossDim.Kind == style.DimAuto {
				it.cross = clampNonNeg(lineCross - it.marginCross())
			}
		}

		if st.Direction.IsReverse() {
			reverseItems(line)
		}

		mainPos, between := justifyOffsets(st.JustifyContent, innerMain, usedMain(line, st.Gap), len(line), st.Gap)
		for i := range line {
			it := &line[i]
			if i > 0 {
				mainPos += st.Gap + between
			}
			mainPos += it.marginMainStart

			crossOff := alignOffset(st.AlignItems, lineCross, it.cross+it.marginCross()) + it.marginCrossStart

			var cx, cy, cw, ch float32
			if row {
				cx, cy = contentX+mainPos, contentY+crossPos+crossOff
				cw, ch = it.target, it.cross
			} else {
				cx, cy = contentX+crossPos+crossOff, contentY+mainPos
				cw, ch = it.cross, it.target
			}
			e.placeNode(it.id, cx, cy, cw, ch)
			mainPos += it.target + it.marginMainEnd
		}
		crossPos += lineCross + st.Gap
	}

	// Absolutely positioned children resolve against the padding box and
	// are offset by their margins.
	padX := st.BorderWidths.Left
	padY := st.BorderWidths.Top
	padW := clampNonNeg(w - st.BorderWidths.Horizontal())
	padH := clampNonNeg(h - st.BorderWidths.Vertical())
	for _, c := range children {
		cst := e.tree.Resolved(c)
		if cst == nil || cst.Position != style.PositionAbsolute {
			continue
		}
		sz := e.measureNode(c, padW, padH, true, true)
		e.placeNode(c, padX+cst.Margin.Left, padY+cst.Margin.Top, sz.Width, sz.Height)
	}
}

func usedMain(line []flexItem, gap float32) float32 {
	used := gap * float32(len(line)-1)
	for i := range line {
		used += line[i].target + line[i].marginMain()
	}
	return used
}

// justifyOffsets returns the starting main offset and the extra spacing
// inserted between adjacent items (on top of the gap already included in
// used).
func justifyOffsets(j style.Justify, innerMain, used float32, count int, gap float32) (start, between float32) {
	free := innerMain - used
	if free < 0 {
		free = 0
	}
	switch j {
	case style.JustifyCenter:
		return free / 2, 0
	case style.JustifyEnd:
		return free, 0
	case style.JustifySpaceBetween:
		if count > 1 {
			return 0, free / float32(count-1)
		}
		return 0, 0
	case style.JustifySpaceAround:
		if count > 0 {
			slice := free / float32(count)
			return slice / 2, slice
		}
		return 0, 0
	default:
		return 0, 0
	}
}

func alignOffset(a style.Align, lineCross, itemCross float32) float32 {
	free := lineCross - itemCross
	if free < 0 {
		free = 0
	}
	switch a {
	case style.AlignCenter:
		return free / 2
	case style.AlignEnd:
		return free
	default:
		return 0
	}
}

func reverseItems(line []flexItem) {
	for i, j := 0, len(line)-1; i < j; i, j = i+1, j-1 {
		line[i], line[j] = line[j], line[i]
	}
}
