// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/ui"
)

type entry struct {
	state  State
	img    image.Image
	err    error
	queued bool
}

type result struct {
	id  string
	img image.Image
	err error
}

// Manager tracks resource state and owns the worker pool. Get, Image,
// Forget, and Drain are called from the UI thread; workers only touch
// the loader and the results channel.
type Manager struct {
	loader  Loader
	jobs    chan string
	results chan result
	cancel  context.CancelFunc
	ctx     context.Context
	wg      sync.WaitGroup
	closed  atomic.Bool

	mu      sync.Mutex
	entries map[string]*entry
}

// NewManager creates a manager with the given number of workers.
// Zero or negative means GOMAXPROCS.
func NewManager(loader Loader, workers int) *Manager {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		loader:  loader,
		jobs:    make(chan string, queueSize),
		results: make(chan result, queueSize),
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]*entry),
	}
	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker()
	}
	return m
}

func (m *Manager) worker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.ctx.Done():
			return
		case id := <-m.jobs:
			img, err := m.loader.Load(m.ctx, id)
			select {
			case m.results <- result{id: id, img: img, err: err}:
			case <-m.ctx.Done():
				return
			}
		}
	}
}

// Get returns the resource's pixels and state, requesting a load on
// first sight of an identifier. A Pending return with nil pixels means
// a placeholder should be drawn and the caller re-queries on a later
// tick.
func (m *Manager) Get(id string) (image.Image, State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		e = &entry{state: StatePending}
		m.entries[id] = e
	}
	if e.state == StatePending && !e.queued && !m.closed.Load() {
		// A full queue leaves the entry unqueued; the next Get retries.
		select {
		case m.jobs <- id:
			e.queued = true
		default:
		}
	}
	return e.img, e.state
}

// Err returns the failure for a Failed resource, nil otherwise.
func (m *Manager) Err(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		return e.err
	}
	return nil
}

// Image implements renderer.ImageSource: it reports pixels only for
// Ready resources, so backends fall back to their placeholder for
// anything Pending or Failed. It never triggers a load.
func (m *Manager) Image(id string) (image.Image, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok && e.state == StateReady {
		return e.img, true
	}
	return nil, false
}

// Forget drops a resource whose owner left the tree. An in-flight load
// keeps running but its result is discarded on arrival.
func (m *Manager) Forget(id string) {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
}

// Drain consumes all completed loads and returns their events. Call it
// from the UI thread at a tick boundary only; this is the single point
// where worker results become visible. Results for forgotten resources
// are dropped and produce no event.
func (m *Manager) Drain() []Event {
	var events []Event
	for {
		select {
		case res := <-m.results:
			if ev, ok := m.apply(res); ok {
				events = append(events, ev)
			}
		default:
			return events
		}
	}
}

func (m *Manager) apply(res result) (Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[res.id]
	if !ok {
		// Owner removed while the load was in flight.
		ui.Logger().Debug("resource: discarding stale result", "id", res.id)
		return Event{}, false
	}
	if res.err != nil {
		e.state = StateFailed
		e.err = fmt.Errorf("%w: %s: %v", ErrUnavailable, res.id, res.err)
		return Event{ID: res.id, Err: e.err}, true
	}
	e.state = StateReady
	e.img = res.img
	return Event{ID: res.id}, true
}

// Pending reports whether any resource is still waiting on a load.
func (m *Manager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.state == StatePending {
			return true
		}
	}
	return false
}

// Close stops the workers and cancels in-flight loads. Close is
// idempotent.
func (m *Manager) Close() {
	if m.closed.Swap(true) {
		return
	}
	m.cancel()
	m.wg.Wait()
}
