// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface defines the presentation contract between the UI core
// and the host windowing layer.
//
// A Surface is where finished frames go. The host creates one per window
// and hands it to the application loop; the loop renders a frame with a
// renderer backend, acquires the surface's next frame buffer, and
// presents it. The surface reports its pixel format so the renderer can
// apply the matching color conversion (see renderer.SurfaceFormat).
//
// The package ships one implementation, ImageSurface: an offscreen,
// double-buffered target used by tests and by the demo to write frames
// to disk. Real window surfaces live in host integration layers and only
// need to satisfy the Surface interface. A host whose surface wraps a
// GPU swapchain additionally implements DeviceSurface so the renderer
// can share the host's device instead of creating its own.
//
// Surfaces are not thread-safe; the UI thread owns presentation.
package surface
