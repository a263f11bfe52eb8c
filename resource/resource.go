// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package resource loads and decodes images off the UI thread.
//
// The Manager hands fetch/decode work to a small worker pool and
// publishes completions over an internal channel. The UI thread consumes
// that channel only at tick boundaries via Drain, so it never observes
// partial state: a resource is Pending until the tick after its load
// finished, then Ready or Failed. Renderers draw a placeholder while a
// resource is Pending or Failed; Manager satisfies renderer.ImageSource
// for exactly that purpose.
//
// A load whose owner was removed before completion is discarded on
// arrival (stale-result discard); in-flight work is not interrupted.
package resource

import (
	"context"
	"errors"
	"fmt"
	"image"

	// Decoders for FS loader resources.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnavailable wraps every load failure: the resource could not be
// fetched or decoded. Callers match it with errors.Is.
var ErrUnavailable = errors.New("resource: unavailable")

// State is the lifecycle stage of one resource.
type State uint8

const (
	// StatePending means the load has been requested but not observed
	// complete. Draw a placeholder.
	StatePending State = iota

	// StateReady means decoded pixels are available.
	StateReady

	// StateFailed means the load failed; the error wraps ErrUnavailable.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Loader fetches and decodes one resource. Loads run on pool workers
// and must not touch UI state. The context is cancelled when the
// manager closes.
type Loader interface {
	Load(ctx context.Context, id string) (image.Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, id string) (image.Image, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, id string) (image.Image, error) {
	return f(ctx, id)
}

// FS returns a Loader that reads resources from a filesystem and
// decodes them with the registered image formats (PNG, JPEG, GIF, BMP,
// TIFF, WebP).
func FS(fsys fs.FS) Loader {
	return LoaderFunc(func(ctx context.Context, id string) (image.Image, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := fsys.Open(id)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		return img, err
	})
}

// Event reports one completed load, delivered by Drain at a tick
// boundary. Err is nil for a successful load and wraps ErrUnavailable
// otherwise. Hosts typically forward events as reactive messages to the
// owning component, which marks itself paint-dirty.
type Event struct {
	ID  string
	Err error
}
