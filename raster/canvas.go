package raster

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/chartmark"
)

// shadowState is the pending drop-shadow of subsequent fills.
type shadowState struct {
	active bool
	dx, dy float64
	sigma  float64
	color  chartmark.RGBA
}

// drawState is the saved drawing state of a canvas.
type drawState struct {
	transform   chartmark.Matrix
	fillBrush   Brush
	strokeBrush Brush
	lineWidth   float64
	dash        []float64
	alpha       float64
	clip        *Mask
	shadow      shadowState
	face        font.Face
}

// Canvas provides immediate-mode drawing onto a pixmap: brushes,
// stroke style, clipping, shadows, and a save/restore state stack.
// Paths are filled with anti-aliased coverage from
// golang.org/x/image/vector.
//
// Every drawing call appends a line to an operation log, which gives
// tests and debugging a cheap determinism handle. Canvas is not safe
// for concurrent use.
type Canvas struct {
	pixmap *Pixmap
	state  drawState
	stack  []drawState
	ops    []string
}

// NewCanvas creates a canvas drawing on the given pixmap.
func NewCanvas(pixmap *Pixmap) *Canvas {
	return &Canvas{
		pixmap: pixmap,
		state: drawState{
			transform:   chartmark.Identity(),
			fillBrush:   NewSolidBrush(chartmark.Black),
			strokeBrush: NewSolidBrush(chartmark.Black),
			lineWidth:   1,
			alpha:       1,
			face:        basicfont.Face7x13,
		},
	}
}

// Pixmap returns the target pixmap.
func (c *Canvas) Pixmap() *Pixmap {
	return c.pixmap
}

// Ops returns the operation log accumulated so far. The slice is live;
// callers must not modify it.
func (c *Canvas) Ops() []string {
	return c.ops
}

// Push saves the current drawing state.
func (c *Canvas) Push() {
	saved := c.state
	if c.state.dash != nil {
		saved.dash = append([]float64{}, c.state.dash...)
	}
	c.stack = append(c.stack, saved)
}

// Pop restores the most recently saved drawing state. Popping an empty
// stack resets to the initial state of a fresh canvas.
func (c *Canvas) Pop() {
	if n := len(c.stack); n > 0 {
		c.state = c.stack[n-1]
		c.stack = c.stack[:n-1]
		return
	}
	c.state = NewCanvas(c.pixmap).state
}

// SetFillBrush sets the brush used by fill operations.
func (c *Canvas) SetFillBrush(b Brush) {
	if b == nil {
		b = NewSolidBrush(chartmark.Transparent)
	}
	c.state.fillBrush = b
}

// SetStrokeBrush sets the brush used by stroke operations.
func (c *Canvas) SetStrokeBrush(b Brush) {
	if b == nil {
		b = NewSolidBrush(chartmark.Transparent)
	}
	c.state.strokeBrush = b
}

// SetFillColor sets a solid fill color.
func (c *Canvas) SetFillColor(col chartmark.RGBA) {
	c.state.fillBrush = NewSolidBrush(col)
}

// SetStrokeColor sets a solid stroke color.
func (c *Canvas) SetStrokeColor(col chartmark.RGBA) {
	c.state.strokeBrush = NewSolidBrush(col)
}

// SetLineWidth sets the stroke width in user space. Non-finite or
// negative widths are clamped to zero, which disables stroking.
func (c *Canvas) SetLineWidth(w float64) {
	if math.IsNaN(w) || w < 0 {
		w = 0
	}
	c.state.lineWidth = w
}

// SetDash sets the stroke dash pattern in user-space units. An empty
// pattern draws solid strokes.
func (c *Canvas) SetDash(pattern []float64) {
	if len(pattern) == 0 {
		c.state.dash = nil
		return
	}
	c.state.dash = append([]float64{}, pattern...)
}

// SetAlpha scales the opacity of subsequent drawing. The value is
// clamped to [0, 1] and multiplies into the current alpha, matching
// nested group opacity.
func (c *Canvas) SetAlpha(a float64) {
	if math.IsNaN(a) || a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	c.state.alpha *= a
}

// SetFontFace sets the face used by FillText.
func (c *Canvas) SetFontFace(face font.Face) {
	if face == nil {
		face = basicfont.Face7x13
	}
	c.state.face = face
}

// Transform concatenates a matrix onto the current transform.
func (c *Canvas) Transform(m chartmark.Matrix) {
	c.state.transform = c.state.transform.Multiply(m)
}

// CurrentTransform returns the active transform.
func (c *Canvas) CurrentTransform() chartmark.Matrix {
	return c.state.transform
}

// SetShadow arms a drop shadow for subsequent fill and stroke calls.
// Offsets are in user space; sigma is the blur standard deviation.
func (c *Canvas) SetShadow(dx, dy, sigma float64, col chartmark.RGBA) {
	if sigma < 0 || math.IsNaN(sigma) {
		sigma = 0
	}
	c.state.shadow = shadowState{active: true, dx: dx, dy: dy, sigma: sigma, color: col}
}

// ClearShadow disables the drop shadow.
func (c *Canvas) ClearShadow() {
	c.state.shadow = shadowState{}
}

// ClipPath intersects the clip region with a path. The clip applies to
// all subsequent drawing until the enclosing Pop.
func (c *Canvas) ClipPath(p *chartmark.Path) {
	cov := c.coverage(p)
	m := NewMask(c.pixmap.Width(), c.pixmap.Height())
	copy(m.Data(), cov)
	if c.state.clip != nil {
		m.Intersect(c.state.clip)
	}
	c.state.clip = m
	c.logOp("clip elems=%d", len(p.Elements()))
}

// ClipRect intersects the clip region with an axis-aligned, optionally
// rounded rectangle.
func (c *Canvas) ClipRect(x, y, w, h, rx, ry float64) {
	p := chartmark.NewPath()
	if rx > 0 || ry > 0 {
		p.RoundedRectangle(x, y, w, h, rx, ry)
	} else {
		p.Rectangle(x, y, w, h)
	}
	c.ClipPath(p)
}

// FillPath fills a path with the current fill brush.
func (c *Canvas) FillPath(p *chartmark.Path) {
	cov := c.coverage(p)
	c.paintShadow(cov)
	c.paintCoverage(cov, c.state.fillBrush)
	c.logOp("fill elems=%d brush=%s alpha=%g", len(p.Elements()), brushName(c.state.fillBrush), c.state.alpha)
}

// StrokePath strokes a path with the current stroke brush, width, and
// dash pattern.
func (c *Canvas) StrokePath(p *chartmark.Path) {
	scale := transformScale(c.state.transform)
	width := c.state.lineWidth * scale
	if width <= 0 {
		return
	}
	dash := c.state.dash
	if len(dash) > 0 && scale != 1 {
		dash = make([]float64, len(c.state.dash))
		for i, d := range c.state.dash {
			dash[i] = d * scale
		}
	}
	outline := strokeOutline(p.Transform(c.state.transform), width, dash)
	cov := c.coverageDevice(outline)
	c.paintShadow(cov)
	c.paintCoverage(cov, c.state.strokeBrush)
	c.logOp("stroke elems=%d width=%g dash=%d brush=%s", len(p.Elements()), c.state.lineWidth, len(c.state.dash), brushName(c.state.strokeBrush))
}

// FillText draws a text run with its baseline origin at (x, y) in user
// space, using the current fill brush. Glyphs are rasterized with the
// current font face; the transform positions the run but does not
// rotate or scale the glyphs.
func (c *Canvas) FillText(text string, x, y float64) {
	if text == "" {
		return
	}
	w, h := c.pixmap.Width(), c.pixmap.Height()
	origin := c.state.transform.TransformPoint(chartmark.Pt(x, y))

	alpha := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  alpha,
		Src:  image.Opaque,
		Face: c.state.face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(origin.X * 64),
			Y: fixed.Int26_6(origin.Y * 64),
		},
	}
	d.DrawString(text)
	c.paintShadow(alpha.Pix)
	c.paintCoverage(alpha.Pix, c.state.fillBrush)
	c.logOp("text len=%d x=%g y=%g", len(text), x, y)
}

// DrawPixmap composites a source pixmap onto the canvas with its top
// left corner at device pixel (x, y), honoring clip and alpha.
func (c *Canvas) DrawPixmap(src *Pixmap, x, y int) {
	for sy := 0; sy < src.Height(); sy++ {
		for sx := 0; sx < src.Width(); sx++ {
			col := src.GetPixel(sx, sy)
			if col.A <= 0 {
				continue
			}
			dx, dy := x+sx, y+sy
			a := c.pixelAlpha(dx, dy)
			if a <= 0 {
				continue
			}
			col.A *= a
			c.pixmap.BlendPixel(dx, dy, col)
		}
	}
	c.logOp("image w=%d h=%d x=%d y=%d", src.Width(), src.Height(), x, y)
}

// coverage rasterizes a user-space path through the current transform.
func (c *Canvas) coverage(p *chartmark.Path) []uint8 {
	return c.coverageDevice(p.Transform(c.state.transform))
}

// coverageDevice rasterizes an already device-space path into an 8-bit
// coverage buffer the size of the canvas.
func (c *Canvas) coverageDevice(p *chartmark.Path) []uint8 {
	w, h := c.pixmap.Width(), c.pixmap.Height()
	if w == 0 || h == 0 {
		return nil
	}
	r := vector.NewRasterizer(w, h)
	contours, _ := p.Flatten()
	for _, contour := range contours {
		if len(contour) < 2 {
			continue
		}
		r.MoveTo(float32(contour[0].X), float32(contour[0].Y))
		for _, pt := range contour[1:] {
			r.LineTo(float32(pt.X), float32(pt.Y))
		}
		r.ClosePath()
	}
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst.Pix
}

// paintCoverage blends brush colors through a coverage buffer, applying
// clip and global alpha.
func (c *Canvas) paintCoverage(cov []uint8, brush Brush) {
	if len(cov) == 0 || c.state.alpha <= 0 {
		return
	}
	w, h := c.pixmap.Width(), c.pixmap.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cv := cov[y*w+x]
			if cv == 0 {
				continue
			}
			a := float64(cv) / 255 * c.pixelAlpha(x, y)
			if a <= 0 {
				continue
			}
			col := brush.ColorAt(float64(x)+0.5, float64(y)+0.5)
			col.A *= a
			c.pixmap.BlendPixel(x, y, col)
		}
	}
}

// paintShadow composites the armed shadow beneath a coverage buffer.
func (c *Canvas) paintShadow(cov []uint8) {
	s := c.state.shadow
	if !s.active || s.color.A <= 0 || len(cov) == 0 {
		return
	}
	w, h := c.pixmap.Width(), c.pixmap.Height()
	scale := transformScale(c.state.transform)

	// Shift the silhouette by the device-space offset, then blur it.
	dx := int(math.Round(s.dx * scale))
	dy := int(math.Round(s.dy * scale))
	shifted := make([]uint8, len(cov))
	for y := 0; y < h; y++ {
		sy := y - dy
		if sy < 0 || sy >= h {
			continue
		}
		for x := 0; x < w; x++ {
			sx := x - dx
			if sx < 0 || sx >= w {
				continue
			}
			shifted[y*w+x] = cov[sy*w+sx]
		}
	}
	shifted = blurAlpha(shifted, w, h, s.sigma*scale)
	c.paintCoverage(shifted, NewSolidBrush(s.color))
}

// pixelAlpha returns the combined clip and global alpha at a pixel.
func (c *Canvas) pixelAlpha(x, y int) float64 {
	a := c.state.alpha
	if c.state.clip != nil {
		a *= float64(c.state.clip.At(x, y)) / 255
	}
	return a
}

// logOp appends a formatted line to the operation log.
func (c *Canvas) logOp(format string, args ...any) {
	c.ops = append(c.ops, fmt.Sprintf(format, args...))
}

// brushName returns a stable log name for a brush.
func brushName(b Brush) string {
	switch b.(type) {
	case *SolidBrush:
		return "solid"
	case *LinearGradientBrush:
		return "linearGradient"
	case *TileBrush:
		return "tile"
	default:
		return "unknown"
	}
}
