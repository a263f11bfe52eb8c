// Package ui is the layout and rendering core of a cross-platform
// declarative GUI toolkit.
//
// # Overview
//
// ui turns a tree of element specifications into pixels. The pipeline is:
//
//	element tree → style resolution → flexbox layout → scene build → backend → frame
//
// Events flow the other way: an input event becomes a component message,
// the message mutates component state, the affected subtree is marked
// dirty, and the next tick recomputes only what the dirty level requires.
//
// # Packages
//
//   - style: cascading style resolution (partial declared → fully resolved)
//   - element: arena-indexed element tree with keyed reconciliation
//   - layout: flexbox layout with intrinsic text measurement
//   - text: shaped, line-broken text layout (go-text/typesetting)
//   - scene: backend-agnostic draw primitive list
//   - renderer: backend contract plus wgpu (GPU) and software (CPU) backends
//   - reactive: message dispatch, dirty tracking, frame batching
//   - resource: async image/font loading off the UI goroutine
//   - surface: output surface contract (format, acquire, present)
//
// # Threading
//
// A single goroutine owns the element tree, layout tree, and scene.
// Asynchronous work (resource fetch, decode) runs on worker goroutines and
// communicates back through channels that the owning goroutine drains only
// at tick boundaries, so the trees are never observed mid-mutation.
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
package ui

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
