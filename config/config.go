// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads application options and theme values from TOML.
//
// Loading starts from defaults and overlays the file, so a partial file
// is fine and an absent file is not an error. Theme colors are written
// as hex strings (#rgb, #rrggbb, #rrggbbaa) and parsed into ui.Color.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/renderer"
)

// Config is the root of a ui.toml file.
type Config struct {
	Window   Window   `toml:"window"`
	Renderer Renderer `toml:"renderer"`
	Theme    Theme    `toml:"theme"`
}

// Window configures the initial window.
type Window struct {
	Title  string  `toml:"title"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Scale  float64 `toml:"scale"`
}

// Renderer selects and configures the rendering backend.
type Renderer struct {
	// Backend is a registry name ("wgpu", "software"). Empty picks the
	// highest-priority available backend.
	Backend string `toml:"backend"`

	// Format is "srgb" or "linear".
	Format string `toml:"format"`
}

// SurfaceFormat parses the configured format. Empty means sRGB.
func (r Renderer) SurfaceFormat() (renderer.SurfaceFormat, error) {
	switch r.Format {
	case "", "srgb":
		return renderer.FormatSRGB, nil
	case "linear":
		return renderer.FormatLinear, nil
	default:
		return renderer.FormatSRGB, fmt.Errorf("config: unknown surface format %q", r.Format)
	}
}

// New creates the configured backend. An empty backend name falls back
// to registry priority order.
func (r Renderer) New(opts renderer.Options) (renderer.Backend, error) {
	if r.Backend == "" {
		return renderer.New(opts)
	}
	return renderer.NewByName(r.Backend, opts)
}

// Theme holds the application-wide style values.
type Theme struct {
	Background string  `toml:"background"`
	Surface    string  `toml:"surface"`
	Text       string  `toml:"text"`
	Accent     string  `toml:"accent"`
	FontFamily string  `toml:"font_family"`
	FontSize   float64 `toml:"font_size"`
	Spacing    float64 `toml:"spacing"`
	Radius     float64 `toml:"radius"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{
			Title:  "ui",
			Width:  800,
			Height: 600,
			Scale:  1,
		},
		Renderer: Renderer{
			Format: "srgb",
		},
		Theme: Theme{
			Background: "#1e1e2e",
			Surface:    "#313244",
			Text:       "#cdd6f4",
			Accent:     "#89b4fa",
			FontFamily: "sans-serif",
			FontSize:   14,
			Spacing:    8,
			Radius:     6,
		},
	}
}

// Load reads a config file over the defaults. A missing file returns
// the defaults without error; a malformed one returns the error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as TOML.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ParseColor parses a #rgb, #rrggbb, or #rrggbbaa hex color.
func ParseColor(s string) (ui.Color, error) {
	if len(s) == 0 || s[0] != '#' {
		return ui.Color{}, fmt.Errorf("config: color %q must start with #", s)
	}
	hex := s[1:]
	var r, g, b, a uint8
	a = 0xff
	switch len(hex) {
	case 3:
		rn, err := nibble(hex[0])
		if err != nil {
			return ui.Color{}, badColor(s)
		}
		gn, err := nibble(hex[1])
		if err != nil {
			return ui.Color{}, badColor(s)
		}
		bn, err := nibble(hex[2])
		if err != nil {
			return ui.Color{}, badColor(s)
		}
		r, g, b = rn*17, gn*17, bn*17
	case 6, 8:
		for i := 0; i < len(hex); i += 2 {
			hi, err := nibble(hex[i])
			if err != nil {
				return ui.Color{}, badColor(s)
			}
			lo, err := nibble(hex[i+1])
			if err != nil {
				return ui.Color{}, badColor(s)
			}
			v := hi<<4 | lo
			switch i {
			case 0:
				r = v
			case 2:
				g = v
			case 4:
				b = v
			case 6:
				a = v
			}
		}
	default:
		return ui.Color{}, badColor(s)
	}
	return ui.RGBA(
		float32(r)/255,
		float32(g)/255,
		float32(b)/255,
		float32(a)/255,
	), nil
}

// Color parses a hex color, logging and returning the fallback on a
// malformed value. Theme lookups use it so a bad file degrades instead
// of failing.
func Color(s string, fallback ui.Color) ui.Color {
	c, err := ParseColor(s)
	if err != nil {
		ui.Logger().Warn("config: invalid color", "value", s, "error", err)
		return fallback
	}
	return c
}

func nibble(c byte) (uint8, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	}
	return 0, errors.New("bad hex digit")
}

func badColor(s string) error {
	return fmt.Errorf("config: malformed color %q", s)
}
