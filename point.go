package chartmark

// Point represents a 2D point.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Rect is an axis-aligned rectangle, used for mark bounding boxes.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}
