// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"image"

	"golang.org/x/image/vector"

	"github.com/gogpu/ui"
)

// pathMask rasterizes a filled path to an 8-bit coverage mask with
// non-zero winding. The returned point is the mask's top-left corner in
// device pixels.
func pathMask(p *ui.Path, scale float32) (*image.Alpha, image.Point, bool) {
	b := p.Bounds()
	dev := image.Rect(
		floorInt(b.MinX*scale)-1, floorInt(b.MinY*scale)-1,
		ceilInt(b.MaxX*scale)+1, ceilInt(b.MaxY*scale)+1,
	)
	if dev.Empty() {
		return nil, image.Point{}, false
	}

	w, h := dev.Dx(), dev.Dy()
	z := vector.NewRasterizer(w, h)
	ox := float32(dev.Min.X)
	oy := float32(dev.Min.Y)
	started := false
	p.Walk(func(verb ui.PathVerb, pts []float32) {
		switch verb {
		case ui.VerbMoveTo:
			if started {
				z.ClosePath()
			}
			z.MoveTo(pts[0]*scale-ox, pts[1]*scale-oy)
			started = true
		case ui.VerbLineTo:
			z.LineTo(pts[0]*scale-ox, pts[1]*scale-oy)
		case ui.VerbQuadTo:
			z.QuadTo(pts[0]*scale-ox, pts[1]*scale-oy, pts[2]*scale-ox, pts[3]*scale-oy)
		case ui.VerbCubicTo:
			z.CubeTo(
				pts[0]*scale-ox, pts[1]*scale-oy,
				pts[2]*scale-ox, pts[3]*scale-oy,
				pts[4]*scale-ox, pts[5]*scale-oy,
			)
		case ui.VerbClose:
			if started {
				z.ClosePath()
			}
		}
	})
	if started {
		z.ClosePath()
	}

	alpha := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(alpha, alpha.Bounds(), image.Opaque, image.Point{})
	return alpha, dev.Min, true
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
