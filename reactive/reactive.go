// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package reactive drives the update cycle that turns component state
// changes into the minimum of style resolution, layout, and repaint.
//
// The model is message passing: a component mutates its state only by
// handling a typed message, and each mutation reports the dirty level it
// requires. Dirty state escalates monotonically within a cycle (Idle <
// DirtyPaint < DirtyLayout < DirtyStyle); one tick drains every pending
// message before a single recompute, so a burst of messages costs at
// most one layout and paint pass. A completed frame returns the tree to
// Idle. Cycles are never cancelled: the current one always completes
// before the next is considered.
//
// The Loop owns the element tree, layout engine, and scene builder on a
// single logical UI goroutine. Messages may be sent from any goroutine;
// they are applied only inside Tick, in delivery order per component.
// Cross-component ordering is not guaranteed.
package reactive

import (
	"fmt"
	"sync"

	"github.com/gogpu/ui/element"
)

// DirtyLevel is the recomputation a state change requires. Levels are
// ordered: a higher level implies everything below it (a style change
// forces relayout, which forces repaint).
type DirtyLevel uint8

const (
	// Idle means nothing changed; no frame is needed.
	Idle DirtyLevel = iota

	// DirtyPaint means geometry is intact and only drawing must rerun.
	DirtyPaint

	// DirtyLayout means geometry changed; layout and paint must rerun.
	DirtyLayout

	// DirtyStyle means declared styles changed; resolution, layout, and
	// paint must rerun.
	DirtyStyle
)

// String returns the level name.
func (d DirtyLevel) String() string {
	switch d {
	case Idle:
		return "idle"
	case DirtyPaint:
		return "paint"
	case DirtyLayout:
		return "layout"
	case DirtyStyle:
		return "style"
	default:
		return fmt.Sprintf("DirtyLevel(%d)", uint8(d))
	}
}

// Escalate returns the higher of two dirty levels. Within one cycle
// dirty state only ever moves up.
func Escalate(a, b DirtyLevel) DirtyLevel {
	if b > a {
		return b
	}
	return a
}

// Message describes an intended state change for one component.
// Concrete message types are application-defined; the dispatcher treats
// them as opaque values and only routes them.
type Message any

// Component is a unit of reactive state plus view logic.
type Component interface {
	// Update applies one message to the component's state and returns
	// the dirty level the mutation requires. Returning Idle means the
	// message changed nothing observable.
	Update(msg Message) DirtyLevel

	// View produces the element specification for the current state.
	View() element.Spec
}

type envelope struct {
	target Component
	msg    Message
}

// Dispatcher queues messages between ticks. Send is safe from any
// goroutine; the queue is a single FIFO, which preserves delivery order
// per component. Messages are applied only when the loop drains the
// dispatcher inside Tick.
type Dispatcher struct {
	mu    sync.Mutex
	queue []envelope
}

// Send enqueues a message for a component. Nil targets are dropped.
func (d *Dispatcher) Send(target Component, msg Message) {
	if target == nil {
		return
	}
	d.mu.Lock()
	d.queue = append(d.queue, envelope{target: target, msg: msg})
	d.mu.Unlock()
}

// Pending returns the number of undelivered messages.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// drain takes the whole queue. Messages sent during the drain land in
// the next cycle.
func (d *Dispatcher) drain() []envelope {
	d.mu.Lock()
	q := d.queue
	d.queue = nil
	d.mu.Unlock()
	return q
}
