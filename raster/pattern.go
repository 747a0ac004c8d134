package raster

import (
	"encoding/json"
	"math"

	"github.com/gogpu/chartmark"
)

// patternKey derives a deterministic cache key from a pattern def's
// content. Patterns with identical geometry and content share one
// rendered tile, even across models.
func patternKey(def *chartmark.PatternDef) string {
	blob, err := json.Marshal(def)
	if err != nil {
		// Marks hold only plain structs; marshaling cannot fail in
		// practice. Fall back to the id so rendering still works,
		// trading cache precision.
		return "id:" + def.ID
	}
	return string(blob)
}

// patternUsable reports whether the def's tile rectangle is resolvable:
// userSpaceOnUse units and a finite positive extent.
func patternUsable(def *chartmark.PatternDef) bool {
	if def.Units == chartmark.ObjectBoundingBox {
		return false
	}
	if def.Width <= 0 || def.Height <= 0 {
		return false
	}
	if math.IsNaN(def.Width) || math.IsInf(def.Width, 0) ||
		math.IsNaN(def.Height) || math.IsInf(def.Height, 0) {
		return false
	}
	return true
}

// tileSize converts the user-space tile extent to whole pixels, rounded
// up so fractional extents keep their sub-pixel detail, at least one
// per axis.
func tileSize(def *chartmark.PatternDef) (int, int) {
	pw := int(math.Ceil(def.Width))
	ph := int(math.Ceil(def.Height))
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}
	return pw, ph
}

// patternBrushTransform composes the tile-space to device-space
// transform: the canvas transform, then the def's patternTransform,
// then the tile origin, then the correction from rounding the tile to
// whole pixels.
func patternBrushTransform(ctm, patTransform chartmark.Matrix, def *chartmark.PatternDef, pw, ph int) chartmark.Matrix {
	m := ctm.Multiply(patTransform)
	m = m.Multiply(chartmark.Translate(def.X, def.Y))
	m = m.Multiply(chartmark.Scale(def.Width/float64(pw), def.Height/float64(ph)))
	return m
}
