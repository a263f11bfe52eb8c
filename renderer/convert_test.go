// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"testing"

	"github.com/gogpu/ui"
)

func colorNear(t *testing.T, got, want ui.Color, tol float32) {
	t.Helper()
	diff := func(a, b float32) float32 {
		if a > b {
			return a - b
		}
		return b - a
	}
	if diff(got.R, want.R) > tol || diff(got.G, want.G) > tol ||
		diff(got.B, want.B) > tol || diff(got.A, want.A) > tol {
		t.Errorf("color = %+v, want %+v (tol %v)", got, want, tol)
	}
}

func TestConvertRect(t *testing.T) {
	vertex := ui.RGBA(0.5, 0.5, 0.5, 1)

	// sRGB surface: linearize. srgbToLinear(0.5) ~= 0.2140.
	got := ConvertRect(vertex, FormatSRGB)
	colorNear(t, got, ui.RGBA(0.214, 0.214, 0.214, 1), 1e-3)

	// Linear surface: unchanged.
	got = ConvertRect(vertex, FormatLinear)
	colorNear(t, got, vertex, 0)
}

func TestConvertTextMatrix(t *testing.T) {
	vertex := ui.RGBA(0.5, 0.25, 1, 0.8)
	sampled := ui.RGBA(0.5, 0.5, 0.5, 0.5)

	tests := []struct {
		name    string
		content ContentType
		format  SurfaceFormat
		want    ui.Color
	}{
		{
			// Vertex color carried through, alpha scaled by the mask.
			name:    "mask_srgb",
			content: ContentMask,
			format:  FormatSRGB,
			want:    ui.RGBA(0.5, 0.25, 1, 0.4),
		},
		{
			name:    "mask_linear",
			content: ContentMask,
			format:  FormatLinear,
			want:    ui.RGBA(0.5, 0.25, 1, 0.4),
		},
		{
			// Emoji texel linearized for an sRGB surface.
			name:    "color_bitmap_srgb",
			content: ContentColorBitmap,
			format:  FormatSRGB,
			want:    ui.RGBA(0.214, 0.214, 0.214, 0.5),
		},
		{
			name:    "color_bitmap_linear",
			content: ContentColorBitmap,
			format:  FormatLinear,
			want:    sampled,
		},
		{
			// Solid quads ignore the texture entirely.
			name:    "solid_srgb",
			content: ContentSolid,
			format:  FormatSRGB,
			want:    vertex,
		},
		{
			name:    "solid_linear",
			content: ContentSolid,
			format:  FormatLinear,
			want:    vertex,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertText(vertex, sampled, tt.content, tt.format)
			colorNear(t, got, tt.want, 1e-3)
		})
	}
}

func TestConvertTextUnknownContentIsTransparent(t *testing.T) {
	vertex := ui.RGBA(1, 0, 0, 1)
	sampled := ui.RGBA(1, 1, 1, 1)
	for _, format := range []SurfaceFormat{FormatSRGB, FormatLinear} {
		got := ConvertText(vertex, sampled, ContentType(7), format)
		if got != (ui.Color{}) {
			t.Errorf("format %v: unknown content = %+v, want transparent", format, got)
		}
	}
}

func TestConvertImage(t *testing.T) {
	sampled := ui.RGBA(0.5, 0.5, 0.5, 1)

	// sRGB surface encodes on write; pass the linear texel through.
	got := ConvertImage(sampled, FormatSRGB)
	colorNear(t, got, sampled, 0)

	// Linear surface does no encoding; linearToSRGB(0.5) ~= 0.7354.
	got = ConvertImage(sampled, FormatLinear)
	colorNear(t, got, ui.RGBA(0.7354, 0.7354, 0.7354, 1), 1e-3)
}
