// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"math"

	"github.com/gogpu/ui"
)

// Region is the classification of a point against a bordered rounded
// rectangle. Classification is a partition: every point maps to exactly
// one region.
type Region uint8

const (
	RegionExterior Region = iota
	RegionInterior
	RegionTop
	RegionBottom
	RegionLeft
	RegionRight
)

func (r Region) String() string {
	switch r {
	case RegionExterior:
		return "exterior"
	case RegionInterior:
		return "interior"
	case RegionTop:
		return "top"
	case RegionBottom:
		return "bottom"
	case RegionLeft:
		return "left"
	case RegionRight:
		return "right"
	}
	return "unknown"
}

// RoundedRectSDF returns the signed distance from a point to the boundary
// of a rounded rectangle with per-corner radii. Negative inside, positive
// outside. The corner radius is selected by the point's quadrant.
func RoundedRectSDF(px, py float32, r ui.Rect, radii ui.CornerRadii) float32 {
	cx := (r.MinX + r.MaxX) / 2
	cy := (r.MinY + r.MaxY) / 2
	halfW := (r.MaxX - r.MinX) / 2
	halfH := (r.MaxY - r.MinY) / 2

	var rad float32
	if px < cx {
		if py < cy {
			rad = radii.TopLeft
		} else {
			rad = radii.BottomLeft
		}
	} else {
		if py < cy {
			rad = radii.TopRight
		} else {
			rad = radii.BottomRight
		}
	}
	if m := min32(halfW, halfH); rad > m {
		rad = m
	}

	qx := abs32(px-cx) - (halfW - rad)
	qy := abs32(py-cy) - (halfH - rad)
	outside := float32(math.Hypot(float64(max32(qx, 0)), float64(max32(qy, 0))))
	inside := min32(max32(qx, qy), 0)
	return outside + inside - rad
}

// ClassifyPoint assigns a point to exactly one region of a bordered
// rounded rectangle. Points outside the outer shape are exterior (and are
// discarded by renderers, never colored). Points inside the inner shape
// are interior. Points in the border band take a side: the vertical
// extent is tested before the horizontal one, top before bottom and left
// before right, so corner pixels resolve deterministically.
func ClassifyPoint(px, py float32, rect ui.Rect, radii ui.CornerRadii, borders ui.Insets) Region {
	if RoundedRectSDF(px, py, rect, radii) > 0 {
		return RegionExterior
	}

	inner := ui.Rect{
		MinX: rect.MinX + borders.Left,
		MinY: rect.MinY + borders.Top,
		MaxX: rect.MaxX - borders.Right,
		MaxY: rect.MaxY - borders.Bottom,
	}
	if inner.MinX < inner.MaxX && inner.MinY < inner.MaxY &&
		RoundedRectSDF(px, py, inner, innerRadii(radii, borders)) <= 0 {
		return RegionInterior
	}

	// Vertical border bands first.
	if borders.Top > 0 && py < rect.MinY+borders.Top {
		return RegionTop
	}
	if borders.Bottom > 0 && py > rect.MaxY-borders.Bottom {
		return RegionBottom
	}
	// Then horizontal bands.
	if borders.Left > 0 && px < rect.MinX+borders.Left {
		return RegionLeft
	}
	if borders.Right > 0 && px > rect.MaxX-borders.Right {
		return RegionRight
	}

	// Rounded-corner band between the straight bands: nearest edge wins,
	// same precedence order on ties.
	dTop := py - rect.MinY
	dBottom := rect.MaxY - py
	dLeft := px - rect.MinX
	dRight := rect.MaxX - px

	best, bestD := RegionTop, dTop
	if borders.Top <= 0 {
		bestD = float32(math.Inf(1))
	}
	if borders.Bottom > 0 && dBottom < bestD {
		best, bestD = RegionBottom, dBottom
	}
	if borders.Left > 0 && dLeft < bestD {
		best, bestD = RegionLeft, dLeft
	}
	if borders.Right > 0 && dRight < bestD {
		best, bestD = RegionRight, dRight
	}
	if math.IsInf(float64(bestD), 1) {
		return RegionInterior
	}
	return best
}

// innerRadii shrinks each corner radius by the adjacent border widths.
func innerRadii(radii ui.CornerRadii, b ui.Insets) ui.CornerRadii {
	return ui.CornerRadii{
		TopLeft:     max32(radii.TopLeft-max32(b.Top, b.Left), 0),
		TopRight:    max32(radii.TopRight-max32(b.Top, b.Right), 0),
		BottomRight: max32(radii.BottomRight-max32(b.Bottom, b.Right), 0),
		BottomLeft:  max32(radii.BottomLeft-max32(b.Bottom, b.Left), 0),
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
