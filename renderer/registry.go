// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a backend instance from options.
type Factory func(opts Options) (Backend, error)

// RegistryEntry describes one registered backend.
type RegistryEntry struct {
	// Name is the unique backend identifier.
	Name string

	// Priority determines selection order (higher = preferred).
	// Conventions: 100 for GPU backends, 10 for pure software.
	Priority int

	// Factory creates backend instances.
	Factory Factory

	// Available reports whether the backend can run on this system.
	Available func() bool
}

var globalRegistry = &Registry{}

// Registry manages backend registration and startup selection. Backend
// packages register themselves from init, so importing a backend package
// is what makes it selectable:
//
//	import _ "github.com/gogpu/ui/renderer/software"
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// Register adds a backend to the global registry. A nil available
// function means always available. Re-registering a name replaces the
// previous entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// New creates a backend using the highest-priority available entry in
// the global registry, falling through to lower priorities on factory
// errors.
func New(opts Options) (Backend, error) {
	return globalRegistry.New(opts)
}

// NewByName creates a specific backend from the global registry.
func NewByName(name string, opts Options) (Backend, error) {
	return globalRegistry.NewByName(name, opts)
}

// List returns all registered backend names in priority order.
func List() []string {
	return globalRegistry.List()
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// New creates a backend using the best available entry.
func (r *Registry) New(opts Options) (Backend, error) {
	r.mu.RLock()
	names := r.sortedNames(true)
	r.mu.RUnlock()

	var lastErr error
	for _, name := range names {
		b, err := r.NewByName(name, opts)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoBackendAvailable
}

// NewByName creates a backend from a specific entry.
func (r *Registry) NewByName(name string, opts Options) (Backend, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotFound, name)
	}
	if !entry.Available() {
		return nil, fmt.Errorf("%w: %q", ErrBackendUnavailable, name)
	}
	return entry.Factory(opts)
}

// List returns all registered names in priority order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(false)
}

// sortedNames returns registered names sorted by priority (highest
// first), ties broken by name. If onlyAvailable is true, filters to
// available backends only. Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
