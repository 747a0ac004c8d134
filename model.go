package chartmark

import "strings"

// MarkKind identifies a mark variant.
type MarkKind uint8

const (
	// MarkRect is an axis-aligned (optionally rounded) rectangle.
	MarkRect MarkKind = iota
	// MarkCircle is a circle given by center and radius.
	MarkCircle
	// MarkLine is a straight line segment.
	MarkLine
	// MarkPath is a free-form path described by SVG-style path data.
	MarkPath
	// MarkText is a text label anchored at a baseline point.
	MarkText
)

// markKindNames maps MarkKind values to their wire names.
var markKindNames = [...]string{
	MarkRect:   "rect",
	MarkCircle: "circle",
	MarkLine:   "line",
	MarkPath:   "path",
	MarkText:   "text",
}

// String returns the wire name of the mark kind ("rect", "circle", ...).
func (k MarkKind) String() string {
	if int(k) < len(markKindNames) {
		return markKindNames[k]
	}
	return "unknown"
}

// DefKind identifies a def variant.
type DefKind uint8

const (
	// DefLinearGradient is a linear gradient paint resource.
	DefLinearGradient DefKind = iota
	// DefClipRect is an axis-aligned rounded-rectangle clip shape.
	DefClipRect
	// DefPattern is a tiled pattern paint resource.
	DefPattern
	// DefMask is a shape-inclusion mask resource.
	DefMask
	// DefFilter is an ordered list of filter primitives.
	DefFilter
)

// defKindNames maps DefKind values to their wire names.
var defKindNames = [...]string{
	DefLinearGradient: "linearGradient",
	DefClipRect:       "clipRect",
	DefPattern:        "pattern",
	DefMask:           "mask",
	DefFilter:         "filter",
}

// String returns the wire name of the def kind ("linearGradient", ...).
func (k DefKind) String() string {
	if int(k) < len(defKindNames) {
		return defKindNames[k]
	}
	return "unknown"
}

// Units selects the coordinate space of a resource's geometry.
type Units uint8

const (
	// UserSpaceOnUse interprets coordinates in the same space as marks.
	UserSpaceOnUse Units = iota
	// ObjectBoundingBox interprets coordinates as fractions (0-1) of the
	// referencing mark's bounding box.
	ObjectBoundingBox
)

// String returns the wire name of the unit space.
func (u Units) String() string {
	if u == ObjectBoundingBox {
		return "objectBoundingBox"
	}
	return "userSpaceOnUse"
}

// Style holds the optional paint properties shared by every mark variant.
//
// Fill and Stroke are either a literal color ("#4e79a7"), "none", a
// "url(#id)" reference to a def, "currentColor", or a CSS variable
// reference; the last two resolve to a backend-supplied fallback paint.
// Opacity pointers distinguish "unset" (nil, treated as 1) from an
// explicit zero.
type Style struct {
	Opacity       *float64
	Fill          string
	FillOpacity   *float64
	Stroke        string
	StrokeOpacity *float64
	StrokeWidth   float64
	Dash          []float64

	// Clip, Mask, and Filter are "url(#id)" references into the model's
	// def table. A mark refers to a def by identity, it never owns one.
	Clip   string
	Mask   string
	Filter string
}

// Common returns the style block. Mark variants embed Style, so this
// satisfies part of the Mark interface for all of them.
func (s *Style) Common() *Style { return s }

func (s *Style) markVariant() {}

// Mark is one primitive drawing instruction. It is a sealed interface:
// the only implementations are RectMark, CircleMark, LineMark, PathMark,
// and TextMark.
type Mark interface {
	// markVariant seals the interface to this package.
	markVariant()

	// Kind returns the variant tag.
	Kind() MarkKind

	// MarkID returns the mark's identifier, unique within a model.
	MarkID() string

	// Common returns the shared paint properties.
	Common() *Style
}

// RectMark draws an axis-aligned rectangle, optionally with rounded corners.
type RectMark struct {
	ID         string
	X, Y, W, H float64
	RX, RY     float64
	Style
}

// Kind implements Mark.
func (*RectMark) Kind() MarkKind { return MarkRect }

// MarkID implements Mark.
func (m *RectMark) MarkID() string { return m.ID }

// CircleMark draws a circle centered at (CX, CY) with radius R.
type CircleMark struct {
	ID        string
	CX, CY, R float64
	Style
}

// Kind implements Mark.
func (*CircleMark) Kind() MarkKind { return MarkCircle }

// MarkID implements Mark.
func (m *CircleMark) MarkID() string { return m.ID }

// LineMark draws a straight segment from (X1, Y1) to (X2, Y2).
type LineMark struct {
	ID             string
	X1, Y1, X2, Y2 float64
	Style
}

// Kind implements Mark.
func (*LineMark) Kind() MarkKind { return MarkLine }

// MarkID implements Mark.
func (m *LineMark) MarkID() string { return m.ID }

// PathMark draws a path described by SVG-style path data.
type PathMark struct {
	ID string
	D  string
	Style
}

// Kind implements Mark.
func (*PathMark) Kind() MarkKind { return MarkPath }

// MarkID implements Mark.
func (m *PathMark) MarkID() string { return m.ID }

// TextMark draws a text label with its baseline origin at (X, Y).
type TextMark struct {
	ID   string
	X, Y float64
	Text string
	Size float64
	Style
}

// Kind implements Mark.
func (*TextMark) Kind() MarkKind { return MarkText }

// MarkID implements Mark.
func (m *TextMark) MarkID() string { return m.ID }

// GradientStop is one color stop of a linear gradient.
// Offset is in [0, 1]. A nil Opacity means fully opaque.
type GradientStop struct {
	Offset  float64
	Color   string
	Opacity *float64
}

// Def is a named, reusable paint or effect resource. It is a sealed
// interface: the only implementations are LinearGradientDef, ClipRectDef,
// PatternDef, MaskDef, and FilterDef.
type Def interface {
	// defVariant seals the interface to this package.
	defVariant()

	// Kind returns the variant tag.
	Kind() DefKind

	// DefID returns the def's identifier, unique within a model's defs.
	DefID() string
}

// LinearGradientDef is a linear gradient whose endpoints are fractions of
// the referencing mark's bounding box.
type LinearGradientDef struct {
	ID             string
	X1, Y1, X2, Y2 float64
	Stops          []GradientStop
}

func (*LinearGradientDef) defVariant() {}

// Kind implements Def.
func (*LinearGradientDef) Kind() DefKind { return DefLinearGradient }

// DefID implements Def.
func (d *LinearGradientDef) DefID() string { return d.ID }

// ClipRectDef is an axis-aligned rounded rectangle clip shape in the same
// coordinate space as marks. Radii are clamped to half the rectangle's
// width and height when realized.
type ClipRectDef struct {
	ID         string
	X, Y, W, H float64
	RX, RY     float64
}

func (*ClipRectDef) defVariant() {}

// Kind implements Def.
func (*ClipRectDef) Kind() DefKind { return DefClipRect }

// DefID implements Def.
func (d *ClipRectDef) DefID() string { return d.ID }

// PatternDef is a repeating tile whose content is the pattern's own
// sub-marks. Only UserSpaceOnUse patterns are resolvable by the raster
// backend; ObjectBoundingBox patterns are rejected.
type PatternDef struct {
	ID            string
	X, Y          float64
	Width, Height float64
	Units         Units

	// Transform is an affine-transform list in SVG syntax
	// (translate/scale/rotate/matrix), composed in declaration order.
	Transform string

	Marks []Mark
}

func (*PatternDef) defVariant() {}

// Kind implements Def.
func (*PatternDef) Kind() DefKind { return DefPattern }

// DefID implements Def.
func (d *PatternDef) DefID() string { return d.ID }

// MaskDef is a mask whose sub-marks' filled area determines inclusion.
// The raster backend approximates luminance masking with shape-inclusion
// clipping; see the raster package for the documented fidelity gap.
type MaskDef struct {
	ID            string
	Width, Height float64
	Units         Units
	ContentUnits  Units
	Marks         []Mark
}

func (*MaskDef) defVariant() {}

// Kind implements Def.
func (*MaskDef) Kind() DefKind { return DefMask }

// DefID implements Def.
func (d *MaskDef) DefID() string { return d.ID }

// FilterDef is an ordered list of filter primitives.
type FilterDef struct {
	ID         string
	Primitives []FilterPrimitive
}

func (*FilterDef) defVariant() {}

// Kind implements Def.
func (*FilterDef) Kind() DefKind { return DefFilter }

// DefID implements Def.
func (d *FilterDef) DefID() string { return d.ID }

// SeriesStats carries summary statistics of the chart's input data, for
// accessibility text and tooltips. Produced by the chart layout layer.
type SeriesStats struct {
	Min, Max, Mean float64
	Count          int
}

// RenderModel is the complete drawing program: ordered marks plus a table
// of defs, produced fresh by each chart compute call. Models are immutable
// values; no shared mutable state survives between calls.
//
// Invariant: mark IDs are unique within a model, def IDs are unique within
// a model's defs.
type RenderModel struct {
	Width, Height float64
	Marks         []Mark
	Defs          []Def

	// Summary is an optional accessibility summary of the chart.
	Summary string

	// Stats optionally carries input-series statistics.
	Stats *SeriesStats
}

// DefIndex builds the id → def lookup table for this model. Backends call
// it once per render and resolve every mark reference against the result.
// Later defs win on (invalid) duplicate IDs.
func (m *RenderModel) DefIndex() map[string]Def {
	idx := make(map[string]Def, len(m.Defs))
	for _, d := range m.Defs {
		idx[d.DefID()] = d
	}
	return idx
}

// RefID extracts the def identifier from a "url(#id)" reference.
// It reports false for anything that is not a reference.
func RefID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "url(#") || !strings.HasSuffix(s, ")") {
		return "", false
	}
	id := s[len("url(#") : len(s)-1]
	if id == "" {
		return "", false
	}
	return id, true
}

// IsNone reports whether a paint value explicitly disables painting.
func IsNone(s string) bool {
	return strings.TrimSpace(s) == "none"
}

// NeedsFallback reports whether a paint value can only resolve against a
// backend-supplied fallback paint: "currentColor" and CSS variable
// references have no meaning inside a drawing program.
func NeedsFallback(s string) bool {
	s = strings.TrimSpace(s)
	return s == "currentColor" || strings.HasPrefix(s, "var(")
}

// OpacityOf dereferences an optional opacity, treating nil as 1 and
// clamping non-finite or out-of-range values into [0, 1].
func OpacityOf(p *float64) float64 {
	if p == nil {
		return 1
	}
	return clamp01(*p)
}
