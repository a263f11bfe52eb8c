package ui

import (
	"math"
	"testing"
)

const colorTol = 1e-5

func colorsClose(a, b Color) bool {
	return math.Abs(float64(a.R-b.R)) < colorTol &&
		math.Abs(float64(a.G-b.G)) < colorTol &&
		math.Abs(float64(a.B-b.B)) < colorTol &&
		math.Abs(float64(a.A-b.A)) < colorTol
}

func TestHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Color
	}{
		{"short rgb", "#f00", RGB(1, 0, 0)},
		{"full rgb", "#00ff00", RGB(0, 1, 0)},
		{"with alpha", "#0000ff80", RGBA(0, 0, 1, float32(0x80)/255)},
		{"no hash", "ffffff", White},
		{"invalid", "zz", Black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hex(tt.in); !colorsClose(got, tt.want) {
				t.Errorf("Hex(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSRGBLinearRoundTrip(t *testing.T) {
	for _, v := range []float32{0, 0.001, 0.04045, 0.25, 0.5, 0.735, 1} {
		c := Color{R: v, G: v, B: v, A: 1}
		back := c.ToLinear().ToSRGB()
		if !colorsClose(c, back) {
			t.Errorf("round trip of %f gave %+v", v, back)
		}
	}
}

func TestSRGBToLinearKnownValues(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float64
	}{
		{"black", 0, 0},
		{"white", 1, 1},
		{"mid gray", 0.5, 0.21404114},
		{"linear segment", 0.04, 0.04 / 12.92},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := srgbToLinear(tt.in)
			if math.Abs(float64(got)-tt.want) > 1e-6 {
				t.Errorf("srgbToLinear(%f) = %f, want %f", tt.in, got, tt.want)
			}
		})
	}
}

func TestToLinearPreservesAlpha(t *testing.T) {
	c := RGBA(0.5, 0.5, 0.5, 0.3)
	if got := c.ToLinear().A; got != 0.3 {
		t.Errorf("alpha changed by ToLinear: %f", got)
	}
	if got := c.ToSRGB().A; got != 0.3 {
		t.Errorf("alpha changed by ToSRGB: %f", got)
	}
}

func TestPremultiply(t *testing.T) {
	c := RGBA(1, 0.5, 0, 0.5)
	p := c.Premultiply()
	want := Color{R: 0.5, G: 0.25, B: 0, A: 0.5}
	if !colorsClose(p, want) {
		t.Errorf("Premultiply() = %+v, want %+v", p, want)
	}
	if !colorsClose(p.Unpremultiply(), c) {
		t.Errorf("Unpremultiply did not invert Premultiply")
	}
}

func TestUnpremultiplyZeroAlpha(t *testing.T) {
	if got := (Color{R: 1, G: 1, B: 1, A: 0}).Unpremultiply(); got != (Color{}) {
		t.Errorf("zero-alpha unpremultiply should return zero color, got %+v", got)
	}
}
