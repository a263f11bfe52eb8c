// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software implements a CPU rasterizer backend.
//
// It renders the same primitive stream as the GPU backend, using the
// shared color conversion contract from the renderer package. The
// framebuffer is kept in linear space as straight-alpha float32 and
// encoded to 8-bit sRGB when the frame completes, which is the CPU
// equivalent of an sRGB surface encoding on write.
//
// Importing the package registers the backend:
//
//	import _ "github.com/gogpu/ui/renderer/software"
package software

import (
	"context"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/internal/glyphmask"
	"github.com/gogpu/ui/renderer"
	"github.com/gogpu/ui/scene"
)

// BackendName is the registry identifier.
const BackendName = "software"

// sdfAAWidth is the anti-aliasing half-width in device pixels for SDF
// edge coverage.
const sdfAAWidth = 0.7

func init() {
	renderer.Register(BackendName, 10, func(opts renderer.Options) (renderer.Backend, error) {
		return New(opts)
	}, nil)
}

// Renderer rasterizes scenes on the CPU. The output surface format is
// always sRGB.
type Renderer struct {
	width, height int

	// buf is the working framebuffer: linear-space straight-alpha RGBA,
	// 4 floats per pixel.
	buf []float32

	img    *image.RGBA
	images renderer.ImageSource
	glyphs *glyphmask.Cache
}

// New creates a software backend sized in device pixels.
func New(opts renderer.Options) (*Renderer, error) {
	r := &Renderer{
		images: opts.Images,
		glyphs: glyphmask.NewCache(),
	}
	if err := r.Resize(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	return r, nil
}

// Name returns the registry identifier.
func (r *Renderer) Name() string { return BackendName }

// Resize reallocates the framebuffer.
func (r *Renderer) Resize(width, height int) error {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	r.width, r.height = width, height
	r.buf = make([]float32, width*height*4)
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Destroy releases the framebuffer.
func (r *Renderer) Destroy() {
	r.buf = nil
	r.img = nil
}

// Image returns the last rendered frame. The returned image is owned by
// the renderer and valid until the next Render or Resize.
func (r *Renderer) Image() *image.RGBA { return r.img }

// Snapshot returns a copy of the last rendered frame.
func (r *Renderer) Snapshot() *image.RGBA {
	out := image.NewRGBA(r.img.Rect)
	copy(out.Pix, r.img.Pix)
	return out
}

// Render rasterizes one frame. The context is checked between
// primitives so a cancelled frame stops early.
func (r *Renderer) Render(ctx context.Context, sc *scene.Scene) error {
	if r.buf == nil {
		return renderer.ErrDeviceLost
	}
	for i := range r.buf {
		r.buf[i] = 0
	}

	scale := sc.Scale
	if scale <= 0 {
		scale = 1
	}

	full := image.Rect(0, 0, r.width, r.height)
	for i := range sc.Primitives {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := &sc.Primitives[i]
		clip := full
		if p.HasClip {
			clip = clip.Intersect(deviceRect(p.Clip, scale))
			if clip.Empty() {
				continue
			}
		}
		switch p.Kind {
		case scene.KindRect:
			r.drawRect(p, scale, clip)
		case scene.KindSolid:
			r.drawSolid(p, scale, clip)
		case scene.KindGlyphRun:
			r.drawGlyphs(p, scale, clip)
		case scene.KindImage:
			r.drawImage(p, scale, clip)
		case scene.KindPath:
			r.drawPath(p, scale, clip)
		}
	}

	r.encode()
	return nil
}

// drawRect rasterizes a rounded rectangle with per-side borders. Each
// pixel near the shape is classified into exactly one region; coverage
// at the outer edge comes from the SDF.
func (r *Renderer) drawRect(p *scene.Primitive, scale float32, clip image.Rectangle) {
	bounds := deviceRectOut(p.Rect, scale, 1).Intersect(clip)
	if bounds.Empty() {
		return
	}

	hasFill := p.Color.A > 0
	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			// Sample at the pixel center in scene coordinates.
			sx := (float32(px) + 0.5) / scale
			sy := (float32(py) + 0.5) / scale

			d := scene.RoundedRectSDF(sx, sy, p.Rect, p.Radii)
			cov := coverage(d * scale)
			if cov <= 0 {
				continue
			}

			// Edge pixels whose center lies outside classify as
			// exterior; clamp the classification point just inside
			// so the covered fraction takes the boundary color.
			cx, cy := sx, sy
			if d > 0 {
				cx = clampf(cx, p.Rect.MinX+0.01, p.Rect.MaxX-0.01)
				cy = clampf(cy, p.Rect.MinY+0.01, p.Rect.MaxY-0.01)
			}

			var c ui.Color
			switch scene.ClassifyPoint(cx, cy, p.Rect, p.Radii, p.BorderWidths) {
			case scene.RegionInterior:
				if !hasFill {
					continue
				}
				c = p.Color
			case scene.RegionTop:
				c = p.BorderColors.Top
			case scene.RegionBottom:
				c = p.BorderColors.Bottom
			case scene.RegionLeft:
				c = p.BorderColors.Left
			case scene.RegionRight:
				c = p.BorderColors.Right
			default:
				continue
			}
			if c.A <= 0 {
				continue
			}

			out := renderer.ConvertRect(c, renderer.FormatSRGB)
			out.A *= cov
			r.blend(px, py, out)
		}
	}
}

// drawSolid fills an axis-aligned quad with fractional edge coverage.
func (r *Renderer) drawSolid(p *scene.Primitive, scale float32, clip image.Rectangle) {
	c := renderer.ConvertText(p.Color, ui.White, renderer.ContentSolid, renderer.FormatSRGB)
	r.fillQuad(p.Rect, c, scale, clip)
}

func (r *Renderer) fillQuad(rect ui.Rect, c ui.Color, scale float32, clip image.Rectangle) {
	if c.A <= 0 {
		return
	}
	minX, minY := rect.MinX*scale, rect.MinY*scale
	maxX, maxY := rect.MaxX*scale, rect.MaxY*scale
	bounds := image.Rect(floorInt(minX), floorInt(minY), ceilInt(maxX), ceilInt(maxY)).Intersect(clip)
	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		covY := spanCoverage(float32(py), minY, maxY)
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			cov := covY * spanCoverage(float32(px), minX, maxX)
			if cov <= 0 {
				continue
			}
			out := c
			out.A *= cov
			r.blend(px, py, out)
		}
	}
}

// drawGlyphs rasterizes each glyph outline to an alpha mask and blends
// it through the mask content-type conversion.
func (r *Renderer) drawGlyphs(p *scene.Primitive, scale float32, clip image.Rectangle) {
	if p.FontSource == nil || p.Color.A <= 0 {
		return
	}
	for _, g := range p.Glyphs {
		mask, ok := r.glyphs.Mask(p.FontSource, g.ID, p.FontSize*scale)
		if !ok || mask.Alpha == nil {
			continue
		}
		// Device position of the glyph dot.
		dx := roundInt((p.Origin.X + g.X) * scale)
		dy := roundInt((p.Origin.Y + g.Y) * scale)

		mb := mask.Alpha.Bounds()
		for my := mb.Min.Y; my < mb.Max.Y; my++ {
			py := dy + mask.Offset.Y + my
			for mx := mb.Min.X; mx < mb.Max.X; mx++ {
				px := dx + mask.Offset.X + mx
				if !inRect(px, py, clip) {
					continue
				}
				a := mask.Alpha.AlphaAt(mx, my).A
				if a == 0 {
					continue
				}
				sampled := ui.Color{A: float32(a) / 255}
				out := renderer.ConvertText(p.Color, sampled, renderer.ContentMask, renderer.FormatSRGB)
				r.blend(px, py, out)
			}
		}
	}
}

// drawImage samples a decoded resource, scaling it to the primitive
// rectangle. Missing resources render as a placeholder fill.
func (r *Renderer) drawImage(p *scene.Primitive, scale float32, clip image.Rectangle) {
	var src image.Image
	if r.images != nil {
		src, _ = r.images.Image(p.Resource)
	}
	if src == nil {
		r.fillQuad(p.Rect, renderer.ConvertRect(placeholderColor, renderer.FormatSRGB), scale, clip)
		return
	}

	dst := deviceRect(p.Rect, scale)
	bounds := dst.Intersect(clip)
	if bounds.Empty() {
		return
	}

	// Scale to the destination size first, then blend with the image
	// conversion contract applied per texel.
	scaled := image.NewRGBA(image.Rect(0, 0, dst.Dx(), dst.Dy()))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			texel := ui.FromColor(scaled.RGBAAt(px-dst.Min.X, py-dst.Min.Y))
			if texel.A <= 0 {
				continue
			}
			out := renderer.ConvertImage(texel.ToLinear(), renderer.FormatSRGB)
			r.blend(px, py, out)
		}
	}
}

// drawPath fills a vector path through the coverage rasterizer.
func (r *Renderer) drawPath(p *scene.Primitive, scale float32, clip image.Rectangle) {
	if p.Path.IsEmpty() || p.Color.A <= 0 {
		return
	}
	c := renderer.ConvertRect(p.Color, renderer.FormatSRGB)
	fillPath(p.Path, scale, clip, func(px, py int, cov float32) {
		out := c
		out.A *= cov
		r.blend(px, py, out)
	})
}

// blend composites a linear straight-alpha color source-over into the
// framebuffer.
func (r *Renderer) blend(x, y int, c ui.Color) {
	if c.A <= 0 {
		return
	}
	if c.A > 1 {
		c.A = 1
	}
	i := (y*r.width + x) * 4
	inv := 1 - c.A
	r.buf[i+0] = c.R*c.A + r.buf[i+0]*inv
	r.buf[i+1] = c.G*c.A + r.buf[i+1]*inv
	r.buf[i+2] = c.B*c.A + r.buf[i+2]*inv
	r.buf[i+3] = c.A + r.buf[i+3]*inv
}

// encode converts the linear working buffer to premultiplied 8-bit sRGB.
func (r *Renderer) encode() {
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			i := (y*r.width + x) * 4
			a := r.buf[i+3]
			if a <= 0 {
				r.img.SetRGBA(x, y, color.RGBA{})
				continue
			}
			// The buffer holds alpha-weighted contributions; recover
			// the straight color before encoding.
			c := ui.Color{R: r.buf[i] / a, G: r.buf[i+1] / a, B: r.buf[i+2] / a, A: a}
			s := c.ToSRGB()
			r.img.SetRGBA(x, y, color.RGBA{
				R: uint8(s.R*a*255 + 0.5),
				G: uint8(s.G*a*255 + 0.5),
				B: uint8(s.B*a*255 + 0.5),
				A: uint8(a*255 + 0.5),
			})
		}
	}
}

var placeholderColor = ui.RGBA(0.8, 0.8, 0.8, 1)

// coverage maps a signed distance in device pixels to [0, 1] with a
// smoothstep falloff across the AA band.
func coverage(d float32) float32 {
	t := (d + sdfAAWidth) / (2 * sdfAAWidth)
	if t <= 0 {
		return 1
	}
	if t >= 1 {
		return 0
	}
	s := t * t * (3 - 2*t)
	return 1 - s
}

// spanCoverage returns how much of the unit pixel [p, p+1] lies inside
// [min, max].
func spanCoverage(p, min, max float32) float32 {
	lo := p
	if min > lo {
		lo = min
	}
	hi := p + 1
	if max < hi {
		hi = max
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func deviceRect(r ui.Rect, scale float32) image.Rectangle {
	return image.Rect(
		roundInt(r.MinX*scale), roundInt(r.MinY*scale),
		roundInt(r.MaxX*scale), roundInt(r.MaxY*scale),
	)
}

// deviceRectOut returns the device bounds grown by margin pixels.
func deviceRectOut(r ui.Rect, scale float32, margin int) image.Rectangle {
	return image.Rect(
		floorInt(r.MinX*scale)-margin, floorInt(r.MinY*scale)-margin,
		ceilInt(r.MaxX*scale)+margin, ceilInt(r.MaxY*scale)+margin,
	)
}

func inRect(x, y int, r image.Rectangle) bool {
	return x >= r.Min.X && x < r.Max.X && y >= r.Min.Y && y < r.Max.Y
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floorInt(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}

func ceilInt(v float32) int {
	i := int(v)
	if v > 0 && float32(i) != v {
		i++
	}
	return i
}

func roundInt(v float32) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}
