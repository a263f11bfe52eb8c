// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package reactive

import (
	"testing"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/element"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/text"
)

// stubShaper shapes every rune to a 10px advance without touching fonts.
type stubShaper struct{}

func (stubShaper) Shape(s string, src *text.Source, size float32, dir text.Direction) (text.ShapedRun, error) {
	runes := []rune(s)
	run := text.ShapedRun{Glyphs: make([]text.Glyph, len(runes))}
	for i := range runes {
		run.Glyphs[i] = text.Glyph{ID: uint32(runes[i]), Cluster: i, X: float32(i) * 10, Advance: 10}
	}
	run.Advance = 10 * float32(len(runes))
	return run, nil
}

// boxApp is a root component with a fixed-size colored child. Messages
// mutate the color (paint-only) or the size (layout).
type boxApp struct {
	color   ui.Color
	size    float32
	updates []Message
	views   int
}

type setColor struct{ c ui.Color }
type setSize struct{ px float32 }
type noop struct{}

func (a *boxApp) Update(msg Message) DirtyLevel {
	a.updates = append(a.updates, msg)
	switch m := msg.(type) {
	case setColor:
		a.color = m.c
		return DirtyPaint
	case setSize:
		a.size = m.px
		return DirtyLayout
	case noop:
		return Idle
	}
	return Idle
}

func (a *boxApp) View() element.Spec {
	a.views++
	return element.Container(
		(&style.Style{}).SetBackground(ui.RGB(1, 1, 1)).
			SetWidth(style.Px(100)).SetHeight(style.Px(100)),
		element.Container((&style.Style{}).
			SetBackground(a.color).
			SetWidth(style.Px(a.size)).SetHeight(style.Px(a.size))),
	)
}

func newBoxLoop() (*Loop, *boxApp) {
	app := &boxApp{color: ui.RGB(1, 0, 0), size: 50}
	l := NewLoop(app, nil, stubShaper{})
	l.Resize(ui.Size{Width: 100, Height: 100}, 1)
	return l, app
}

func TestFirstTickBuildsFrame(t *testing.T) {
	l, app := newBoxLoop()

	if l.Level() != DirtyStyle {
		t.Fatalf("initial level = %v, want style", l.Level())
	}
	sc := l.Tick()
	if sc == nil {
		t.Fatal("first Tick produced no frame")
	}
	if len(sc.Primitives) != 2 {
		t.Fatalf("got %d primitives, want 2", len(sc.Primitives))
	}
	if l.Level() != Idle {
		t.Errorf("level after frame = %v, want idle", l.Level())
	}
	if app.views != 1 {
		t.Errorf("View called %d times, want 1", app.views)
	}
	if l.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", l.Frames())
	}
}

func TestIdleTickProducesNoFrame(t *testing.T) {
	l, app := newBoxLoop()
	l.Tick()

	if l.NeedsFrame() {
		t.Error("NeedsFrame() = true on idle loop")
	}
	if sc := l.Tick(); sc != nil {
		t.Error("idle Tick produced a frame")
	}
	if app.views != 1 {
		t.Errorf("View called %d times on idle tick, want 1", app.views)
	}
}

func TestIdleMessagesProduceNoFrame(t *testing.T) {
	l, app := newBoxLoop()
	l.Tick()

	l.Send(app, noop{})
	l.Send(app, noop{})
	if sc := l.Tick(); sc != nil {
		t.Error("no-op messages produced a frame")
	}
	if len(app.updates) != 2 {
		t.Errorf("Update called %d times, want 2", len(app.updates))
	}
}

func TestBatchingSingleRecompute(t *testing.T) {
	l, app := newBoxLoop()
	l.Tick()

	// Several messages queued in one tick: every message is applied,
	// but the view and layout run once.
	l.Send(app, setSize{px: 60})
	l.Send(app, setColor{c: ui.RGB(0, 1, 0)})
	l.Send(app, setSize{px: 70})

	sc := l.Tick()
	if sc == nil {
		t.Fatal("Tick produced no frame")
	}
	if len(app.updates) != 3 {
		t.Errorf("Update called %d times, want 3", len(app.updates))
	}
	if app.views != 2 {
		t.Errorf("View called %d times, want 2", app.views)
	}
	if l.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", l.Frames())
	}
	// Last write wins: the child is 70px and green.
	child := sc.Primitives[1]
	if child.Rect.MaxX-child.Rect.MinX != 70 {
		t.Errorf("child width = %v, want 70", child.Rect.MaxX-child.Rect.MinX)
	}
	if child.Color != ui.RGB(0, 1, 0) {
		t.Errorf("child color = %v, want green", child.Color)
	}
}

func TestPaintOnlyChangeSkipsLayout(t *testing.T) {
	l, app := newBoxLoop()
	l.Tick()

	before := l.Engine().MeasureCalls()
	childBox := l.Engine().Box(l.Tree().Children(l.Root())[0])

	l.Send(app, setColor{c: ui.RGB(0, 0, 1)})
	sc := l.Tick()
	if sc == nil {
		t.Fatal("paint-only tick produced no frame")
	}
	if got := l.Engine().MeasureCalls(); got != before {
		t.Errorf("paint-only cycle recomputed layout: %d measure calls, had %d", got, before)
	}
	after := l.Engine().Box(l.Tree().Children(l.Root())[0])
	if childBox != after {
		t.Errorf("geometry changed in paint-only cycle: %+v -> %+v", childBox, after)
	}
	if sc.Primitives[1].Color != ui.RGB(0, 0, 1) {
		t.Error("new color not painted")
	}
}

func TestLayoutChangeRecomputes(t *testing.T) {
	l, app := newBoxLoop()
	l.Tick()

	before := l.Engine().MeasureCalls()
	l.Send(app, setSize{px: 80})
	sc := l.Tick()
	if sc == nil {
		t.Fatal("layout tick produced no frame")
	}
	if got := l.Engine().MeasureCalls(); got == before {
		t.Error("layout-dirty cycle did not recompute any size")
	}
	child := sc.Primitives[1]
	if child.Rect.MaxX-child.Rect.MinX != 80 {
		t.Errorf("child width = %v, want 80", child.Rect.MaxX-child.Rect.MinX)
	}
}

func TestResizeForcesLayout(t *testing.T) {
	l, _ := newBoxLoop()
	l.Tick()

	l.Resize(ui.Size{Width: 200, Height: 150}, 1)
	if l.Level() != DirtyLayout {
		t.Fatalf("level after resize = %v, want layout", l.Level())
	}
	sc := l.Tick()
	if sc == nil {
		t.Fatal("resize tick produced no frame")
	}
	if sc.Viewport != (ui.Size{Width: 200, Height: 150}) {
		t.Errorf("scene viewport = %v", sc.Viewport)
	}

	// Same size again is a no-op.
	l.Resize(ui.Size{Width: 200, Height: 150}, 1)
	if l.NeedsFrame() {
		t.Error("identical resize marked the loop dirty")
	}
}

// orderApp records the payload order of its messages.
type orderApp struct {
	boxApp
	seen []int
}

type seq struct{ n int }

func (a *orderApp) Update(msg Message) DirtyLevel {
	if m, ok := msg.(seq); ok {
		a.seen = append(a.seen, m.n)
		return DirtyPaint
	}
	return a.boxApp.Update(msg)
}

func TestMessagesAppliedInDeliveryOrder(t *testing.T) {
	app := &orderApp{boxApp: boxApp{color: ui.RGB(1, 0, 0), size: 10}}
	l := NewLoop(app, nil, stubShaper{})
	l.Resize(ui.Size{Width: 50, Height: 50}, 1)
	l.Tick()

	for i := 0; i < 5; i++ {
		l.Send(app, seq{n: i})
	}
	l.Tick()
	if len(app.seen) != 5 {
		t.Fatalf("got %d messages, want 5", len(app.seen))
	}
	for i, n := range app.seen {
		if n != i {
			t.Fatalf("message %d applied out of order: got payload %d", i, n)
		}
	}
}

// textApp renders a text leaf whose content a message replaces.
type textApp struct {
	content string
}

type setText struct{ s string }

func (a *textApp) Update(msg Message) DirtyLevel {
	if m, ok := msg.(setText); ok {
		a.content = m.s
		return DirtyLayout
	}
	return Idle
}

func (a *textApp) View() element.Spec {
	return element.Container(
		(&style.Style{}).SetWidth(style.Px(200)).SetHeight(style.Px(50)),
		element.Text((&style.Style{}).SetTextColor(ui.RGB(0, 0, 0)), a.content),
	)
}

func TestTextNodesAreMeasured(t *testing.T) {
	app := &textApp{content: "hi"}
	l := NewLoop(app, nil, stubShaper{})
	l.Resize(ui.Size{Width: 200, Height: 50}, 1)

	sc := l.Tick()
	if sc == nil {
		t.Fatal("no frame")
	}
	txt := l.Tree().Children(l.Root())[0]
	box := l.Engine().Box(txt)
	if box.Width != 20 {
		t.Errorf("text width = %v, want 20 (2 runes at 10px)", box.Width)
	}

	l.Send(app, setText{s: "wider"})
	l.Tick()
	box = l.Engine().Box(txt)
	if box.Width != 50 {
		t.Errorf("text width after change = %v, want 50", box.Width)
	}
}

// listApp renders a variable number of text children so structure
// changes add and remove measured nodes.
type listApp struct {
	items []string
}

type setItems struct{ items []string }

func (a *listApp) Update(msg Message) DirtyLevel {
	if m, ok := msg.(setItems); ok {
		a.items = m.items
		return DirtyLayout
	}
	return Idle
}

func (a *listApp) View() element.Spec {
	children := make([]element.Spec, len(a.items))
	for i, s := range a.items {
		children[i] = element.Text((&style.Style{}).SetTextColor(ui.RGB(0, 0, 0)), s)
	}
	return element.Container(
		(&style.Style{}).SetWidth(style.Px(200)).SetHeight(style.Px(100)),
		children...,
	)
}

func TestRemovedNodesReleaseMeasureState(t *testing.T) {
	app := &listApp{items: []string{"one", "two", "three"}}
	l := NewLoop(app, nil, stubShaper{})
	l.Resize(ui.Size{Width: 200, Height: 100}, 1)
	if l.Tick() == nil {
		t.Fatal("no frame")
	}
	if len(l.measured) != 3 {
		t.Fatalf("measured %d nodes, want 3", len(l.measured))
	}

	l.Send(app, setItems{items: []string{"one"}})
	if l.Tick() == nil {
		t.Fatal("no frame after shrink")
	}
	if len(l.measured) != 1 {
		t.Errorf("measured set holds %d entries after removal, want 1", len(l.measured))
	}
	for id := range l.measured {
		if !l.tree.Alive(id) {
			t.Error("measured set retains a dead node")
		}
	}
}
