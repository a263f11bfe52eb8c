// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package reactive

import (
	"github.com/gogpu/ui"
	"github.com/gogpu/ui/element"
	"github.com/gogpu/ui/layout"
	"github.com/gogpu/ui/scene"
	"github.com/gogpu/ui/text"
	"github.com/gogpu/ui/text/cache"
)

// Loop is the reactive update cycle for one window. It owns the element
// tree, the layout engine, and the scene builder; all of them must be
// touched only from the goroutine that calls Tick.
type Loop struct {
	tree     *element.Tree
	engine   *layout.Engine
	builder  *scene.Builder
	dispatch Dispatcher

	root     Component
	rootID   element.NodeID
	measured map[element.NodeID]struct{}

	viewport ui.Size
	scale    float32
	level    DirtyLevel
	frames   uint64
}

// NewLoop creates a loop around a root component. The first Tick builds
// the whole tree, so the loop starts at DirtyStyle. Call Resize before
// the first Tick to give the loop a viewport.
func NewLoop(root Component, fonts *text.Library, shaper text.Shaper) *Loop {
	tree := element.NewTree()
	le := layout.NewEngine(tree)
	te := text.NewEngine(fonts, shaper)
	lc := cache.NewLayoutCache(0)
	return &Loop{
		tree:     tree,
		engine:   le,
		builder:  scene.NewBuilder(tree, le, te, lc),
		root:     root,
		measured: make(map[element.NodeID]struct{}),
		scale:    1,
		level:    DirtyStyle,
	}
}

// Send enqueues a message for delivery on the next Tick.
func (l *Loop) Send(target Component, msg Message) {
	l.dispatch.Send(target, msg)
}

// Dispatcher returns the loop's message queue, for code that forwards
// messages without holding the loop (async workers, event translation).
func (l *Loop) Dispatcher() *Dispatcher { return &l.dispatch }

// Resize records a new viewport. Available-size changes shift every
// constraint, so all cached sizes are dropped and the next Tick runs a
// full layout.
func (l *Loop) Resize(viewport ui.Size, scale float32) {
	if viewport == l.viewport && (scale == l.scale || scale <= 0) {
		return
	}
	l.viewport = viewport
	if scale > 0 {
		l.scale = scale
	}
	l.engine.InvalidateAll()
	l.level = Escalate(l.level, DirtyLayout)
}

// Level returns the pending dirty level. A host can skip scheduling a
// frame callback while this is Idle and nothing is queued.
func (l *Loop) Level() DirtyLevel { return l.level }

// NeedsFrame reports whether a Tick would produce a frame.
func (l *Loop) NeedsFrame() bool {
	return l.level != Idle || l.dispatch.Pending() > 0
}

// Tree exposes the element tree for inspection (accessibility, tests).
func (l *Loop) Tree() *element.Tree { return l.tree }

// Engine exposes the layout engine for geometry queries (hit testing).
func (l *Loop) Engine() *layout.Engine { return l.engine }

// Builder exposes the scene builder (selection and caret state).
func (l *Loop) Builder() *scene.Builder { return l.builder }

// Root returns the current root node. Nil before the first Tick.
func (l *Loop) Root() element.NodeID { return l.rootID }

// Frames returns the number of frames produced so far.
func (l *Loop) Frames() uint64 { return l.frames }

// Tick runs one update cycle: drain all pending messages, apply them in
// delivery order, reconcile the view, and run the minimum of style
// resolution, layout, and scene build the cycle's dirty level requires.
// It returns the new scene when a repaint is needed, or nil when the
// tree is idle. After a frame the tree is back at Idle.
func (l *Loop) Tick() *scene.Scene {
	for _, env := range l.dispatch.drain() {
		l.level = Escalate(l.level, env.target.Update(env.msg))
	}
	if l.level == Idle {
		return nil
	}

	// Rebuild the element tree from current component state. The
	// reported level is a floor: reconciliation can escalate (a message
	// claimed paint-only but the new spec moved geometry) but never
	// de-escalates.
	id, cs := l.tree.Reconcile(l.rootID, l.root.View())
	l.rootID = id
	for _, dirty := range cs.Layout {
		l.engine.MarkDirty(dirty)
	}
	if cs.Structure || len(cs.Layout) > 0 {
		l.level = Escalate(l.level, DirtyLayout)
	}
	if cs.Structure {
		l.pruneDead()
	}

	l.tree.ResolveStyles(l.rootID)
	if l.level >= DirtyLayout {
		l.syncMeasures()
		l.engine.Layout(l.rootID, l.viewport)
	}

	sc := l.builder.Build(l.rootID, l.viewport, l.scale)
	l.level = Idle
	l.frames++
	return sc
}

// pruneDead drops bookkeeping for nodes a structure-changing
// reconciliation removed, so the measured set and the layout engine's
// per-node state do not grow across frames.
func (l *Loop) pruneDead() {
	for id := range l.measured {
		if !l.tree.Alive(id) {
			delete(l.measured, id)
		}
	}
	l.engine.Prune()
}

// syncMeasures wires text nodes to the text engine so layout can size
// their content. Reconciliation may have created new text nodes since
// the last pass; already-wired nodes are left alone because SetMeasure
// dirties the node.
func (l *Loop) syncMeasures() {
	if l.rootID.IsNil() {
		return
	}
	l.tree.PreOrder(l.rootID, func(id element.NodeID) bool {
		if l.tree.Kind(id) == element.KindText {
			if _, ok := l.measured[id]; !ok {
				l.engine.SetMeasure(id, l.builder.MeasureFunc(id))
				l.measured[id] = struct{}{}
			}
		}
		return true
	})
}
