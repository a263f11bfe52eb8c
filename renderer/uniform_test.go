// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/ui"
)

func TestOrthoProjectionCorners(t *testing.T) {
	m := OrthoProjection(800, 600)

	tests := []struct {
		name         string
		x, y         float32
		wantX, wantY float32
	}{
		{"origin", 0, 0, -1, 1},
		{"bottom_right", 800, 600, 1, -1},
		{"center", 400, 300, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gx, gy := ProjectPoint(m, tt.x, tt.y)
			if math.Abs(float64(gx-tt.wantX)) > 1e-6 || math.Abs(float64(gy-tt.wantY)) > 1e-6 {
				t.Errorf("project(%v, %v) = (%v, %v), want (%v, %v)",
					tt.x, tt.y, gx, gy, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestGlobalUniformBytes(t *testing.T) {
	u := NewGlobalUniform(ui.Size{Width: 400, Height: 300}, 2, FormatSRGB)
	buf := u.Bytes()

	if len(buf) != GlobalUniformSize {
		t.Fatalf("len = %d, want %d", len(buf), GlobalUniformSize)
	}

	// The matrix is built at device pixels: 400x2 wide.
	m00 := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4]))
	if math.Abs(float64(m00-2.0/800.0)) > 1e-9 {
		t.Errorf("m00 = %v, want %v", m00, 2.0/800.0)
	}

	if flag := binary.LittleEndian.Uint32(buf[64:68]); flag != 1 {
		t.Errorf("is_surface_srgb = %d, want 1", flag)
	}

	u = NewGlobalUniform(ui.Size{Width: 400, Height: 300}, 2, FormatLinear)
	buf = u.Bytes()
	if flag := binary.LittleEndian.Uint32(buf[64:68]); flag != 0 {
		t.Errorf("is_surface_srgb = %d, want 0", flag)
	}
}

func TestOrthoProjectionDegenerateSize(t *testing.T) {
	m := OrthoProjection(0, -5)
	for i, v := range m {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("m[%d] = %v", i, v)
		}
	}
}
