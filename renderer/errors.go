// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import "errors"

var (
	// ErrDeviceLost reports that the GPU context backing a backend has
	// been invalidated. It is not recoverable inside the renderer; the
	// host must recreate the backend and all of its resources.
	ErrDeviceLost = errors.New("renderer: device lost")

	// ErrNoBackendAvailable is returned by New when no registered
	// backend reports itself available.
	ErrNoBackendAvailable = errors.New("renderer: no backend available")

	// ErrBackendNotFound is returned by NewByName for an unregistered
	// name.
	ErrBackendNotFound = errors.New("renderer: backend not found")

	// ErrBackendUnavailable is returned by NewByName when the named
	// backend exists but is not usable on this system.
	ErrBackendUnavailable = errors.New("renderer: backend unavailable")
)
