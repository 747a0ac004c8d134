package chartmark

import (
	"errors"
	"math"
)

// ErrNoBounds is returned by BoundsOf when a mark's bounding box cannot
// be computed in closed form. Resources that depend on the box (gradients,
// object-bounding-box masks) fall back to a backend-supplied default.
var ErrNoBounds = errors.New("chartmark: mark bounds unavailable")

// BoundsOf computes the axis-aligned bounding box of a mark's geometry.
//
// Rects, circles, and lines have closed-form boxes. Path marks are
// supported only when their commands are exclusively move/line/close;
// a curve command makes bounds resolution fail. Text marks have no
// model-level metrics and always fail.
func BoundsOf(m Mark) (Rect, error) {
	switch v := m.(type) {
	case *RectMark:
		return normalizedRect(v.X, v.Y, v.W, v.H), nil
	case *CircleMark:
		r := math.Abs(v.R)
		return Rect{X: v.CX - r, Y: v.CY - r, W: 2 * r, H: 2 * r}, nil
	case *LineMark:
		return normalizedRect(
			math.Min(v.X1, v.X2),
			math.Min(v.Y1, v.Y2),
			math.Abs(v.X2-v.X1),
			math.Abs(v.Y2-v.Y1),
		), nil
	case *PathMark:
		p, err := ParsePath(v.D)
		if err != nil {
			return Rect{}, err
		}
		b, err := p.PolygonalBounds()
		if err != nil {
			return Rect{}, err
		}
		return b, nil
	default:
		return Rect{}, ErrNoBounds
	}
}

// normalizedRect flips negative extents so W and H are non-negative.
func normalizedRect(x, y, w, h float64) Rect {
	if w < 0 {
		x += w
		w = -w
	}
	if h < 0 {
		y += h
		h = -h
	}
	return Rect{X: x, Y: y, W: w, H: h}
}
