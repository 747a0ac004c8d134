// Package chartmark defines a backend-agnostic drawing program for charts.
//
// # Overview
//
// A chart layout produces a [RenderModel]: an ordered sequence of primitive
// drawing instructions (marks) plus a table of reusable paint resources
// (defs: gradients, patterns, clip shapes, masks, filters). Rendering
// backends consume the model; the raster backend lives in the raster
// subpackage, and the shared allocation algorithms every chart type is
// built from live in the layout subpackage.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/chartmark"
//	    "github.com/gogpu/chartmark/raster"
//	)
//
//	model := &chartmark.RenderModel{
//	    Width: 320, Height: 200,
//	    Marks: []chartmark.Mark{
//	        &chartmark.RectMark{ID: "bar-0", X: 10, Y: 20, W: 40, H: 160,
//	            Style: chartmark.Style{Fill: "#4e79a7"}},
//	    },
//	}
//
//	pm, err := raster.NewRenderer().Render(model, raster.Options{})
//	if err != nil {
//	    // the model had no pixel area
//	}
//	_ = pm.SavePNG("chart.png")
//
// # Marks and Defs
//
// Marks and defs are closed sets of variants discriminated by a kind tag.
// A mark never owns a def: clip, mask, filter, and paint references are
// plain "url(#id)" identifiers resolved against the model's def table,
// built once per render via [RenderModel.DefIndex].
//
// # Error Policy
//
// Nothing in this package raises an error during normal operation. Numeric
// input defects are clamped to documented defaults; unsupported paint or
// effect combinations are omitted by backends and discoverable up front
// through the diagnostics functions ([UnsupportedMarks], [UnsupportedDefs],
// [UnsupportedEffects]).
package chartmark

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
