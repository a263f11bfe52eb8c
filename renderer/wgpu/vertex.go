// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/style"
)

// rectVertexStride is the byte stride per vertex in the rect pipeline.
// Layout per vertex (matches RectInput in shaders/ui.wgsl):
//
//	position      (vec2<f32>) =  8 bytes  (location 0)
//	rect          (vec4<f32>) = 16 bytes  (location 1)
//	radii         (vec4<f32>) = 16 bytes  (location 2)
//	borders       (vec4<f32>) = 16 bytes  (location 3)
//	clip          (vec4<f32>) = 16 bytes  (location 4)
//	fill          (vec4<f32>) = 16 bytes  (location 5)
//	top_color     (vec4<f32>) = 16 bytes  (location 6)
//	right_color   (vec4<f32>) = 16 bytes  (location 7)
//	bottom_color  (vec4<f32>) = 16 bytes  (location 8)
//	left_color    (vec4<f32>) = 16 bytes  (location 9)
//
// Total = 152 bytes per vertex.
const rectVertexStride = 152

// texVertexStride is the byte stride per vertex in the tex pipeline.
// Layout per vertex (matches TexInput in shaders/ui.wgsl):
//
//	position (vec2<f32>) =  8 bytes  (location 0)
//	uv       (vec2<f32>) =  8 bytes  (location 1)
//	color    (vec4<f32>) = 16 bytes  (location 2)
//	mode     (f32)       =  4 bytes  (location 3)
//	clip     (vec4<f32>) = 16 bytes  (location 4)
//
// Total = 52 bytes per vertex.
const texVertexStride = 52

// Fragment modes for the tex pipeline. Must match fs_tex in
// shaders/ui.wgsl.
const (
	texModeFill     float32 = 0
	texModeMask     float32 = 1
	texModeBitmap   float32 = 2
	texModeImage    float32 = 3
	texModeCoverage float32 = 4
	texModeSolid    float32 = 5
)

// rectAAMargin grows the rect quad so the SDF anti-aliasing band is
// covered by fragments.
const rectAAMargin = 1.0

// noClip is the clip rectangle used for unclipped primitives. Wide
// enough that no surface coordinate falls outside it.
var noClip = ui.Rect{MinX: -1e9, MinY: -1e9, MaxX: 1e9, MaxY: 1e9}

// vertexWriter appends little-endian float32 vertex data.
type vertexWriter struct {
	buf []byte
}

func (w *vertexWriter) f32(v float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *vertexWriter) vec2(x, y float32) {
	w.f32(x)
	w.f32(y)
}

func (w *vertexWriter) rect(r ui.Rect) {
	w.f32(r.MinX)
	w.f32(r.MinY)
	w.f32(r.MaxX)
	w.f32(r.MaxY)
}

func (w *vertexWriter) color(c ui.Color) {
	w.f32(c.R)
	w.f32(c.G)
	w.f32(c.B)
	w.f32(c.A)
}

// appendRectQuad emits 6 vertices (two triangles) covering the rect
// grown by the AA margin. All geometry is in device pixels.
func appendRectQuad(w *vertexWriter, rect ui.Rect, radii ui.CornerRadii,
	borders ui.Insets, clip ui.Rect, fill ui.Color, bc style.BorderColors) {

	x0 := rect.MinX - rectAAMargin
	y0 := rect.MinY - rectAAMargin
	x1 := rect.MaxX + rectAAMargin
	y1 := rect.MaxY + rectAAMargin

	emit := func(x, y float32) {
		w.vec2(x, y)
		w.rect(rect)
		w.f32(radii.TopLeft)
		w.f32(radii.TopRight)
		w.f32(radii.BottomRight)
		w.f32(radii.BottomLeft)
		w.f32(borders.Top)
		w.f32(borders.Right)
		w.f32(borders.Bottom)
		w.f32(borders.Left)
		w.rect(clip)
		w.color(fill)
		w.color(bc.Top)
		w.color(bc.Right)
		w.color(bc.Bottom)
		w.color(bc.Left)
	}

	emit(x0, y0)
	emit(x1, y0)
	emit(x1, y1)
	emit(x0, y0)
	emit(x1, y1)
	emit(x0, y1)
}

// appendTexQuad emits 6 vertices for a textured quad. uv holds the
// texture coordinates for the quad corners in [0, 1].
func appendTexQuad(w *vertexWriter, quad, uv ui.Rect, color ui.Color, mode float32, clip ui.Rect) {
	emit := func(x, y, u, v float32) {
		w.vec2(x, y)
		w.vec2(u, v)
		w.color(color)
		w.f32(mode)
		w.rect(clip)
	}

	emit(quad.MinX, quad.MinY, uv.MinX, uv.MinY)
	emit(quad.MaxX, quad.MinY, uv.MaxX, uv.MinY)
	emit(quad.MaxX, quad.MaxY, uv.MaxX, uv.MaxY)
	emit(quad.MinX, quad.MinY, uv.MinX, uv.MinY)
	emit(quad.MaxX, quad.MaxY, uv.MaxX, uv.MaxY)
	emit(quad.MinX, quad.MaxY, uv.MinX, uv.MaxY)
}
