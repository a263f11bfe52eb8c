// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/ui"
)

// GlobalUniformSize is the byte size of the per-frame uniform buffer.
// Layout: view_proj (mat4x4<f32>) = 64 bytes + is_surface_srgb (u32) =
// 4 bytes + 12 bytes padding to a 16-byte boundary = 80 bytes.
const GlobalUniformSize = 80

// GlobalUniform is the per-frame state shared read-only by every draw
// call: the projection from scene coordinates to clip space and the
// surface format flag the fragment stage needs for color conversion.
// Matches the Globals struct in shaders/ui.wgsl.
type GlobalUniform struct {
	// ViewProj maps scene coordinates to clip space (row-major).
	ViewProj [16]float32

	// IsSurfaceSRGB is 1 when the surface encodes sRGB on write.
	IsSurfaceSRGB uint32
}

// NewGlobalUniform builds the uniform for a frame rendered at the given
// viewport (logical pixels) and scale factor.
func NewGlobalUniform(viewport ui.Size, scale float32, format SurfaceFormat) GlobalUniform {
	u := GlobalUniform{ViewProj: OrthoProjection(viewport.Width*scale, viewport.Height*scale)}
	if format == FormatSRGB {
		u.IsSurfaceSRGB = 1
	}
	return u
}

// Bytes packs the uniform into its GPU buffer layout.
func (u *GlobalUniform) Bytes() []byte {
	buf := make([]byte, GlobalUniformSize)
	for i, v := range u.ViewProj {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(buf[64:], u.IsSurfaceSRGB)
	return buf
}

// OrthoProjection returns a row-major orthographic projection mapping
// (0,0)..(width,height) with y down to clip space (-1,-1)..(1,1) with y
// up, the usual surface orientation.
func OrthoProjection(width, height float32) [16]float32 {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return [16]float32{
		2 / width, 0, 0, -1,
		0, -2 / height, 0, 1,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// ProjectPoint applies a row-major projection matrix to (x, y, 0, 1).
// Used by tests and the software backend to stay consistent with the
// GPU vertex stage.
func ProjectPoint(m [16]float32, x, y float32) (float32, float32) {
	px := m[0]*x + m[1]*y + m[3]
	py := m[4]*x + m[5]*y + m[7]
	return px, py
}
