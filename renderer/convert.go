// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import "github.com/gogpu/ui"

// This file is the reference implementation of the fragment color
// contract. GPU shaders must produce the same values; the software
// backend calls these functions directly.
//
// Scene colors are authored in sRGB. An sRGB surface encodes on write,
// so fragments targeting it output linear values; a linear surface
// stores what it is given.

// ConvertRect returns the output color for a rectangle or border
// fragment. The vertex color is sRGB: an sRGB surface needs it
// linearized before write, a linear surface takes it unchanged.
func ConvertRect(vertex ui.Color, format SurfaceFormat) ui.Color {
	if format == FormatSRGB {
		return vertex.ToLinear()
	}
	return vertex
}

// ConvertText returns the output color for a glyph-stage fragment.
//
//   - ContentMask: vertex color with alpha multiplied by the sampled
//     mask alpha.
//   - ContentColorBitmap: the sampled texel, linearized only when the
//     surface is sRGB.
//   - ContentSolid: the vertex color, used directly.
//
// Any other tag yields fully transparent output rather than an
// undefined color.
func ConvertText(vertex, sampled ui.Color, content ContentType, format SurfaceFormat) ui.Color {
	switch content {
	case ContentMask:
		out := vertex
		out.A = vertex.A * sampled.A
		return out
	case ContentColorBitmap:
		if format == FormatSRGB {
			return sampled.ToLinear()
		}
		return sampled
	case ContentSolid:
		return vertex
	default:
		return ui.Color{}
	}
}

// ConvertImage returns the output color for an image fragment. Image
// texels are stored linear; only a linear surface needs the sRGB
// encoding done in the shader, an sRGB surface performs it on write.
func ConvertImage(sampled ui.Color, format SurfaceFormat) ui.Color {
	if format == FormatLinear {
		return sampled.ToSRGB()
	}
	return sampled
}
