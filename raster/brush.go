package raster

import (
	"sort"

	"github.com/gogpu/chartmark"
)

// Brush determines the color of each filled pixel. Brushes are queried
// in device space at pixel centers.
//
// Brush is a sealed interface; the implementations in this package are
// the only ones.
type Brush interface {
	// ColorAt returns the brush color at a device-space position.
	ColorAt(x, y float64) chartmark.RGBA

	brushMarker()
}

// SolidBrush paints a single color everywhere.
type SolidBrush struct {
	Color chartmark.RGBA
}

// NewSolidBrush creates a solid color brush.
func NewSolidBrush(c chartmark.RGBA) *SolidBrush {
	return &SolidBrush{Color: c}
}

// ColorAt implements Brush.
func (b *SolidBrush) ColorAt(x, y float64) chartmark.RGBA {
	return b.Color
}

func (b *SolidBrush) brushMarker() {}

// gradientStop is a resolved gradient stop with effective color.
type gradientStop struct {
	offset float64
	color  chartmark.RGBA
}

// LinearGradientBrush interpolates colors along a device-space axis.
// Offsets outside the axis clamp to the nearest end stop.
type LinearGradientBrush struct {
	start chartmark.Point
	end   chartmark.Point
	stops []gradientStop

	// Precomputed axis for projection.
	dx, dy, lenSq float64
}

// NewLinearGradientBrush creates a gradient brush from resolved stops.
// Stops are sorted by offset; offsets are clamped to [0, 1]. With no
// stops the brush paints transparent; with one stop it is solid.
func NewLinearGradientBrush(start, end chartmark.Point, stops []chartmark.GradientStop) *LinearGradientBrush {
	resolved := make([]gradientStop, 0, len(stops))
	for _, s := range stops {
		off := s.Offset
		if off != off {
			off = 0
		}
		if off < 0 {
			off = 0
		}
		if off > 1 {
			off = 1
		}
		resolved = append(resolved, gradientStop{
			offset: off,
			color:  chartmark.Hex(s.Color).ScaleAlpha(chartmark.OpacityOf(s.Opacity)),
		})
	}
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].offset < resolved[j].offset
	})

	dx := end.X - start.X
	dy := end.Y - start.Y
	return &LinearGradientBrush{
		start: start,
		end:   end,
		stops: resolved,
		dx:    dx,
		dy:    dy,
		lenSq: dx*dx + dy*dy,
	}
}

// ColorAt implements Brush.
func (b *LinearGradientBrush) ColorAt(x, y float64) chartmark.RGBA {
	if len(b.stops) == 0 {
		return chartmark.Transparent
	}
	if len(b.stops) == 1 {
		return b.stops[0].color
	}

	var t float64
	if b.lenSq > 0 {
		t = ((x-b.start.X)*b.dx + (y-b.start.Y)*b.dy) / b.lenSq
	}
	return b.colorAtOffset(t)
}

func (b *LinearGradientBrush) colorAtOffset(t float64) chartmark.RGBA {
	if t <= b.stops[0].offset {
		return b.stops[0].color
	}
	last := len(b.stops) - 1
	if t >= b.stops[last].offset {
		return b.stops[last].color
	}
	for i := 0; i < last; i++ {
		s0, s1 := b.stops[i], b.stops[i+1]
		if t <= s1.offset {
			span := s1.offset - s0.offset
			if span <= 0 {
				return s1.color
			}
			return s0.color.Lerp(s1.color, (t-s0.offset)/span)
		}
	}
	return b.stops[last].color
}

func (b *LinearGradientBrush) brushMarker() {}

// TileBrush paints a repeating pixmap tile placed by an affine
// transform. Sample positions are mapped through the inverse transform
// into tile space and wrapped.
type TileBrush struct {
	tile *Pixmap
	inv  chartmark.Matrix
	ok   bool
}

// NewTileBrush creates a tile brush. transform maps tile space to
// device space; if it is singular the brush paints transparent.
func NewTileBrush(tile *Pixmap, transform chartmark.Matrix) *TileBrush {
	det := transform.A*transform.E - transform.B*transform.D
	ok := det > 1e-10 || det < -1e-10
	return &TileBrush{tile: tile, inv: transform.Invert(), ok: ok}
}

// ColorAt implements Brush.
func (b *TileBrush) ColorAt(x, y float64) chartmark.RGBA {
	if !b.ok || b.tile == nil || b.tile.Width() == 0 || b.tile.Height() == 0 {
		return chartmark.Transparent
	}
	p := b.inv.TransformPoint(chartmark.Pt(x, y))
	w := float64(b.tile.Width())
	h := float64(b.tile.Height())
	tx := p.X - floorf(p.X/w)*w
	ty := p.Y - floorf(p.Y/h)*h
	return b.tile.GetPixel(int(tx), int(ty))
}

func (b *TileBrush) brushMarker() {}
