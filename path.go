package chartmark

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PathElement represents a single element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo moves to a point without drawing.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// Path represents a vector path.
type Path struct {
	elements []PathElement
	start    Point // Starting point of current subpath
	current  Point // Current point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		elements: make([]PathElement, 0, 16),
	}
}

// MoveTo moves to a point without drawing.
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
}

// LineTo draws a line to a point.
func (p *Path) LineTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
}

// QuadraticTo draws a quadratic Bezier curve.
func (p *Path) QuadraticTo(cx, cy, x, y float64) {
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: Pt(x, y)})
	p.current = Pt(x, y)
}

// CubicTo draws a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    Pt(x, y),
	})
	p.current = Pt(x, y)
}

// Close closes the current subpath by drawing a line to the start point.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
	p.current = p.start
}

// Elements returns the path elements.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// Transform returns a copy of the path with all points transformed by m.
func (p *Path) Transform(m Matrix) *Path {
	result := NewPath()
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			pt := m.TransformPoint(e.Point)
			result.MoveTo(pt.X, pt.Y)
		case LineTo:
			pt := m.TransformPoint(e.Point)
			result.LineTo(pt.X, pt.Y)
		case QuadTo:
			ctrl := m.TransformPoint(e.Control)
			pt := m.TransformPoint(e.Point)
			result.QuadraticTo(ctrl.X, ctrl.Y, pt.X, pt.Y)
		case CubicTo:
			ctrl1 := m.TransformPoint(e.Control1)
			ctrl2 := m.TransformPoint(e.Control2)
			pt := m.TransformPoint(e.Point)
			result.CubicTo(ctrl1.X, ctrl1.Y, ctrl2.X, ctrl2.Y, pt.X, pt.Y)
		case Close:
			result.Close()
		}
	}
	return result
}

// Append replays another path's elements onto this path.
func (p *Path) Append(other *Path) {
	for _, elem := range other.elements {
		switch e := elem.(type) {
		case MoveTo:
			p.MoveTo(e.Point.X, e.Point.Y)
		case LineTo:
			p.LineTo(e.Point.X, e.Point.Y)
		case QuadTo:
			p.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case CubicTo:
			p.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case Close:
			p.Close()
		}
	}
}

// Rectangle adds a rectangle to the path.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Circle adds a circle to the path using cubic Bezier curves.
func (p *Path) Circle(cx, cy, r float64) {
	// Magic constant for circle approximation with cubic Beziers
	const k = 0.5522847498307936 // 4/3 * (sqrt(2) - 1)
	offset := r * k

	p.MoveTo(cx+r, cy)
	p.CubicTo(cx+r, cy+offset, cx+offset, cy+r, cx, cy+r)
	p.CubicTo(cx-offset, cy+r, cx-r, cy+offset, cx-r, cy)
	p.CubicTo(cx-r, cy-offset, cx-offset, cy-r, cx, cy-r)
	p.CubicTo(cx+offset, cy-r, cx+r, cy-offset, cx+r, cy)
	p.Close()
}

// Arc adds a circular arc to the path.
// The arc is drawn from angle1 to angle2 (in radians) around center (cx, cy).
func (p *Path) Arc(cx, cy, r, angle1, angle2 float64) {
	const twoPi = 2 * math.Pi
	for angle2 < angle1 {
		angle2 += twoPi
	}

	// Split into multiple cubic Bezier curves, at most 90 degrees each.
	const maxAngle = math.Pi / 2
	numSegments := int(math.Ceil((angle2 - angle1) / maxAngle))
	if numSegments < 1 {
		numSegments = 1
	}
	angleStep := (angle2 - angle1) / float64(numSegments)

	for i := 0; i < numSegments; i++ {
		a1 := angle1 + float64(i)*angleStep
		a2 := a1 + angleStep
		p.arcSegment(cx, cy, r, a1, a2)
	}
}

// arcSegment adds a single arc segment (<=90 degrees).
func (p *Path) arcSegment(cx, cy, r, a1, a2 float64) {
	alpha := math.Sin(a2-a1) * (math.Sqrt(4+3*math.Tan((a2-a1)/2)*math.Tan((a2-a1)/2)) - 1) / 3

	cos1, sin1 := math.Cos(a1), math.Sin(a1)
	cos2, sin2 := math.Cos(a2), math.Sin(a2)

	x1 := cx + r*cos1
	y1 := cy + r*sin1
	x2 := cx + r*cos2
	y2 := cy + r*sin2

	c1x := x1 - alpha*r*sin1
	c1y := y1 + alpha*r*cos1
	c2x := x2 + alpha*r*sin2
	c2y := y2 - alpha*r*cos2

	if len(p.elements) == 0 {
		p.MoveTo(x1, y1)
	} else {
		p.LineTo(x1, y1)
	}
	p.CubicTo(c1x, c1y, c2x, c2y, x2, y2)
}

// RoundedRectangle adds a rectangle with per-axis corner radii.
// Radii are clamped to half the rectangle's width and height.
func (p *Path) RoundedRectangle(x, y, w, h, rx, ry float64) {
	rx = math.Min(math.Abs(rx), w/2)
	ry = math.Min(math.Abs(ry), h/2)
	if rx <= 0 && ry <= 0 {
		p.Rectangle(x, y, w, h)
		return
	}
	if rx <= 0 {
		rx = ry
	}
	if ry <= 0 {
		ry = rx
	}

	const k = 0.5522847498307936
	ox := rx * k
	oy := ry * k

	p.MoveTo(x+rx, y)
	p.LineTo(x+w-rx, y)
	p.CubicTo(x+w-rx+ox, y, x+w, y+ry-oy, x+w, y+ry)
	p.LineTo(x+w, y+h-ry)
	p.CubicTo(x+w, y+h-ry+oy, x+w-rx+ox, y+h, x+w-rx, y+h)
	p.LineTo(x+rx, y+h)
	p.CubicTo(x+rx-ox, y+h, x, y+h-ry+oy, x, y+h-ry)
	p.LineTo(x, y+ry)
	p.CubicTo(x, y+ry-oy, x+rx-ox, y, x+rx, y)
	p.Close()
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	result := NewPath()
	result.elements = make([]PathElement, len(p.elements))
	copy(result.elements, p.elements)
	result.start = p.start
	result.current = p.current
	return result
}

// HasCurves reports whether the path contains quadratic or cubic segments.
func (p *Path) HasCurves() bool {
	for _, elem := range p.elements {
		switch elem.(type) {
		case QuadTo, CubicTo:
			return true
		}
	}
	return false
}

// ErrCurvedBounds is returned by PolygonalBounds for paths with curve
// commands. Bounds of curved paths are not computed in closed form;
// dependent resources fall back to a caller-supplied default paint.
var ErrCurvedBounds = errors.New("chartmark: path has curve commands, polygonal bounds unavailable")

// PolygonalBounds computes the axis-aligned bounding box of a path whose
// commands are exclusively move/line/close.
func (p *Path) PolygonalBounds() (Rect, error) {
	if p.HasCurves() {
		return Rect{}, ErrCurvedBounds
	}

	first := true
	var minX, minY, maxX, maxY float64
	grow := func(pt Point) {
		if first {
			minX, maxX = pt.X, pt.X
			minY, maxY = pt.Y, pt.Y
			first = false
			return
		}
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}

	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			grow(e.Point)
		case LineTo:
			grow(e.Point)
		}
	}
	if first {
		return Rect{}, errors.New("chartmark: empty path has no bounds")
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, nil
}

// flattenSteps is the number of line segments a curve is flattened into.
// Chart geometry is small; fixed-step subdivision is accurate enough here
// and keeps flattening deterministic.
const flattenSteps = 16

// Flatten converts the path into polylines, one per subpath, with curves
// subdivided into line segments. The second return value reports, per
// polyline, whether the subpath was explicitly closed.
func (p *Path) Flatten() ([][]Point, []bool) {
	var polys [][]Point
	var closed []bool
	var cur []Point
	var start Point

	flush := func(isClosed bool) {
		if len(cur) > 1 {
			polys = append(polys, cur)
			closed = append(closed, isClosed)
		}
		cur = nil
	}

	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			flush(false)
			start = e.Point
			cur = []Point{e.Point}
		case LineTo:
			cur = append(cur, e.Point)
		case QuadTo:
			if len(cur) == 0 {
				cur = []Point{start}
			}
			p0 := cur[len(cur)-1]
			for i := 1; i <= flattenSteps; i++ {
				t := float64(i) / flattenSteps
				cur = append(cur, quadPoint(p0, e.Control, e.Point, t))
			}
		case CubicTo:
			if len(cur) == 0 {
				cur = []Point{start}
			}
			p0 := cur[len(cur)-1]
			for i := 1; i <= flattenSteps; i++ {
				t := float64(i) / flattenSteps
				cur = append(cur, cubicPoint(p0, e.Control1, e.Control2, e.Point, t))
			}
		case Close:
			if len(cur) > 0 {
				cur = append(cur, start)
				flush(true)
			}
		}
	}
	flush(false)
	return polys, closed
}

// quadPoint evaluates a quadratic Bezier at t.
func quadPoint(p0, c, p1 Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
	}
}

// cubicPoint evaluates a cubic Bezier at t.
func cubicPoint(p0, c1, c2, p1 Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*u*p0.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*p1.X,
		Y: u*u*u*p0.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*p1.Y,
	}
}

// ParsePath parses SVG-style path data ("M 0 0 L 10 0 ... Z") into a Path.
// Supported commands: M/m, L/l, H/h, V/v, C/c, Q/q, Z/z. Implicit lineto
// after moveto and repeated coordinate groups follow SVG semantics.
// Malformed data returns the portion parsed so far along with an error.
func ParsePath(d string) (*Path, error) {
	p := NewPath()
	s := &pathScanner{src: d}

	var cmd byte
	for {
		s.skipSeparators()
		if s.eof() {
			return p, nil
		}

		if c := s.peek(); isPathCommand(c) {
			cmd = c
			s.next()
		} else if cmd == 0 {
			return p, fmt.Errorf("path %q: expected command, got %q", d, string(c))
		} else if cmd == 'M' {
			// Repeated coordinates after moveto become lineto.
			cmd = 'L'
		} else if cmd == 'm' {
			cmd = 'l'
		}

		rel := cmd >= 'a'
		switch upper(cmd) {
		case 'M':
			x, y, err := s.coordPair()
			if err != nil {
				return p, fmt.Errorf("path %q: %w", d, err)
			}
			if rel {
				x += p.current.X
				y += p.current.Y
			}
			p.MoveTo(x, y)
		case 'L':
			x, y, err := s.coordPair()
			if err != nil {
				return p, fmt.Errorf("path %q: %w", d, err)
			}
			if rel {
				x += p.current.X
				y += p.current.Y
			}
			p.LineTo(x, y)
		case 'H':
			x, err := s.coord()
			if err != nil {
				return p, fmt.Errorf("path %q: %w", d, err)
			}
			if rel {
				x += p.current.X
			}
			p.LineTo(x, p.current.Y)
		case 'V':
			y, err := s.coord()
			if err != nil {
				return p, fmt.Errorf("path %q: %w", d, err)
			}
			if rel {
				y += p.current.Y
			}
			p.LineTo(p.current.X, y)
		case 'C':
			c1x, c1y, err := s.coordPair()
			if err != nil {
				return p, fmt.Errorf("path %q: %w", d, err)
			}
			c2x, c2y, err := s.coordPair()
			if err != nil {
				return p, fmt.Errorf("path %q: %w", d, err)
			}
			x, y, err := s.coordPair()
			if err != nil {
				return p, fmt.Errorf("path %q: %w", d, err)
			}
			if rel {
				c1x += p.current.X
				c1y += p.current.Y
				c2x += p.current.X
				c2y += p.current.Y
				x += p.current.X
				y += p.current.Y
			}
			p.CubicTo(c1x, c1y, c2x, c2y, x, y)
		case 'Q':
			cx, cy, err := s.coordPair()
			if err != nil {
				return p, fmt.Errorf("path %q: %w", d, err)
			}
			x, y, err := s.coordPair()
			if err != nil {
				return p, fmt.Errorf("path %q: %w", d, err)
			}
			if rel {
				cx += p.current.X
				cy += p.current.Y
				x += p.current.X
				y += p.current.Y
			}
			p.QuadraticTo(cx, cy, x, y)
		case 'Z':
			p.Close()
		default:
			return p, fmt.Errorf("path %q: unsupported command %q", d, string(cmd))
		}
	}
}

func isPathCommand(c byte) bool {
	switch upper(c) {
	case 'M', 'L', 'H', 'V', 'C', 'Q', 'Z':
		return true
	}
	return false
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// pathScanner tokenizes path data numbers.
type pathScanner struct {
	src string
	pos int
}

func (s *pathScanner) eof() bool  { return s.pos >= len(s.src) }
func (s *pathScanner) peek() byte { return s.src[s.pos] }
func (s *pathScanner) next() byte {
	c := s.src[s.pos]
	s.pos++
	return c
}

func (s *pathScanner) skipSeparators() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\n', '\r', ',':
			s.pos++
		default:
			return
		}
	}
}

// coord scans one number.
func (s *pathScanner) coord() (float64, error) {
	s.skipSeparators()
	start := s.pos
	if !s.eof() && (s.peek() == '-' || s.peek() == '+') {
		s.pos++
	}
	seenDot := false
	for !s.eof() {
		c := s.peek()
		if c >= '0' && c <= '9' {
			s.pos++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			s.pos++
			continue
		}
		break
	}
	if s.pos == start {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s.src[start:s.pos]), 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", s.src[start:s.pos])
	}
	return v, nil
}

// coordPair scans an x,y pair.
func (s *pathScanner) coordPair() (x, y float64, err error) {
	x, err = s.coord()
	if err != nil {
		return 0, 0, err
	}
	y, err = s.coord()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
