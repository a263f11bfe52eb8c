// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"image"

	"golang.org/x/image/vector"

	"github.com/gogpu/ui"
)

// fillPath rasterizes a path with non-zero winding coverage and emits
// per-pixel coverage in device coordinates.
func fillPath(p *ui.Path, scale float32, clip image.Rectangle, emit func(x, y int, cov float32)) {
	b := p.Bounds()
	dev := image.Rect(
		floorInt(b.MinX*scale)-1, floorInt(b.MinY*scale)-1,
		ceilInt(b.MaxX*scale)+1, ceilInt(b.MaxY*scale)+1,
	).Intersect(clip)
	if dev.Empty() {
		return
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
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := alpha.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			emit(dev.Min.X+x, dev.Min.Y+y, float32(a)/255)
		}
	}
}
