package raster

import (
	"math"

	"github.com/gogpu/chartmark"
)

// strokeOutline converts a device-space path into a fillable outline of
// its stroke: each polyline segment becomes a quad of the stroke width,
// with round caps and joins built from circles. The input path must
// already be transformed into device space.
func strokeOutline(p *chartmark.Path, width float64, dash []float64) *chartmark.Path {
	if width <= 0 || math.IsNaN(width) {
		return chartmark.NewPath()
	}
	half := width / 2
	out := chartmark.NewPath()

	contours, closed := p.Flatten()
	for ci, contour := range contours {
		pts := contour
		if closed[ci] && len(pts) > 1 {
			pts = append(append([]chartmark.Point{}, pts...), pts[0])
		}
		for _, run := range dashSplit(pts, dash) {
			emitStrokeRun(out, run, half)
		}
	}
	return out
}

// emitStrokeRun appends the outline of one continuous polyline run.
func emitStrokeRun(out *chartmark.Path, pts []chartmark.Point, half float64) {
	if len(pts) == 0 {
		return
	}
	if len(pts) == 1 {
		out.Circle(pts[0].X, pts[0].Y, half)
		return
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx := b.X - a.X
		dy := b.Y - a.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// Unit normal.
		nx := -dy / length * half
		ny := dx / length * half

		out.MoveTo(a.X+nx, a.Y+ny)
		out.LineTo(b.X+nx, b.Y+ny)
		out.LineTo(b.X-nx, b.Y-ny)
		out.LineTo(a.X-nx, a.Y-ny)
		out.Close()
	}
	// Round caps and joins. The saturating coverage accumulation makes
	// the overlap with the quads harmless.
	for _, pt := range pts {
		out.Circle(pt.X, pt.Y, half)
	}
}

// dashSplit cuts a polyline into the visible runs of a dash pattern.
// An empty or degenerate pattern returns the polyline unchanged.
func dashSplit(pts []chartmark.Point, dash []float64) [][]chartmark.Point {
	if len(pts) < 2 || !dashUsable(dash) {
		return [][]chartmark.Point{pts}
	}
	pattern := dash
	if len(pattern)%2 == 1 {
		// Odd patterns repeat to even length, as in SVG.
		pattern = append(append([]float64{}, pattern...), pattern...)
	}

	var runs [][]chartmark.Point
	var current []chartmark.Point
	idx := 0
	remaining := pattern[0]
	on := true

	flush := func() {
		if on && len(current) > 1 {
			runs = append(runs, current)
		}
		current = nil
	}

	if on {
		current = append(current, pts[0])
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := math.Hypot(b.X-a.X, b.Y-a.Y)
		t := 0.0
		for segLen-t > remaining {
			t += remaining
			cut := chartmark.Pt(
				a.X+(b.X-a.X)*t/segLen,
				a.Y+(b.Y-a.Y)*t/segLen,
			)
			if on {
				current = append(current, cut)
			}
			flush()
			on = !on
			if on {
				current = append(current, cut)
			}
			idx = (idx + 1) % len(pattern)
			remaining = pattern[idx]
		}
		remaining -= segLen - t
		if on {
			current = append(current, b)
		}
	}
	flush()
	return runs
}

// dashUsable reports whether a dash pattern has a positive total length.
func dashUsable(dash []float64) bool {
	sum := 0.0
	for _, d := range dash {
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return false
		}
		sum += d
	}
	return sum > 0
}

// transformScale estimates the uniform scale factor of an affine
// transform, used to scale stroke widths drawn in device space.
func transformScale(m chartmark.Matrix) float64 {
	det := math.Abs(m.A*m.E - m.B*m.D)
	if det <= 0 {
		return 0
	}
	return math.Sqrt(det)
}
