package ui

import (
	"image/color"
	"math"
)

// Color represents a color with red, green, blue, and alpha components in
// the range [0, 1]. Unless stated otherwise, components are non-premultiplied
// sRGB — the space all style properties and draw primitives carry. Backends
// convert to linear at the last responsible moment; see ToLinear.
type Color struct {
	R, G, B, A float32
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1.0}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromColor converts a standard color.Color to Color.
func FromColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	return Color{
		R: float32(r) / 65535,
		G: float32(g) / 65535,
		B: float32(b) / 65535,
		A: float32(a) / 65535,
	}
}

// Color converts to the standard color.Color interface.
func (c Color) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA".
func Hex(hex string) Color {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3: // RGB
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4: // RGBA
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // RRGGBB
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
	case 8: // RRGGBBAA
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
		parseHex(hex[6:8], &a)
	default:
		return Color{R: 0, G: 0, B: 0, A: 1}
	}

	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

// parseHex is a helper for hex parsing
func parseHex(s string, val *uint32) {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return
		}
	}
}

// Premultiply returns a premultiplied color.
func (c Color) Premultiply() Color {
	return Color{
		R: c.R * c.A,
		G: c.G * c.A,
		B: c.B * c.A,
		A: c.A,
	}
}

// Unpremultiply returns an unpremultiplied color.
func (c Color) Unpremultiply() Color {
	if c.A == 0 {
		return Color{}
	}
	return Color{
		R: c.R / c.A,
		G: c.G / c.A,
		B: c.B / c.A,
		A: c.A,
	}
}

// Lerp performs linear interpolation between two colors.
func (c Color) Lerp(other Color, t float32) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// WithAlpha returns the color with its alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// ToLinear converts an sRGB-encoded color to linear light using the exact
// IEC 61966-2-1 transfer function. Alpha is coverage, not light, and is
// left untouched.
func (c Color) ToLinear() Color {
	return Color{
		R: srgbToLinear(c.R),
		G: srgbToLinear(c.G),
		B: srgbToLinear(c.B),
		A: c.A,
	}
}

// ToSRGB converts a linear-light color to sRGB encoding. Alpha is left
// untouched.
func (c Color) ToSRGB() Color {
	return Color{
		R: linearToSRGB(c.R),
		G: linearToSRGB(c.G),
		B: linearToSRGB(c.B),
		A: c.A,
	}
}

// srgbToLinear decodes one sRGB channel to linear light.
func srgbToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return float32(math.Pow((float64(v)+0.055)/1.055, 2.4))
}

// linearToSRGB encodes one linear-light channel as sRGB.
func linearToSRGB(v float32) float32 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return float32(1.055*math.Pow(float64(v), 1.0/2.4) - 0.055)
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Transparent = RGBA(0, 0, 0, 0)
)
