package chartmark

// Segment is the common input shape of the proportional-layout algorithms
// in the layout subpackage: a named share of a whole, with the color the
// chart will paint it in. Pct is a percentage (0-100); distributions do
// not have to sum to 100, shares are always normalized against the sum.
//
// Segment is an input to layout computation, not part of the drawing
// program itself.
type Segment struct {
	Name  string
	Pct   float64
	Color string
}
