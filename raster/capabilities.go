package raster

import (
	"sync"

	"github.com/gogpu/chartmark"
)

// Caps returns the capability set of this backend, for feeding the
// chartmark diagnostics functions. The CPU raster backend supports the
// full mark and def vocabulary, dashed strokes, clip paths, and
// per-pixel filters. Pattern tiles sized by the mark's bounding box
// (objectBoundingBox units) are not resolvable and get a fallback
// paint.
var Caps = sync.OnceValue(func() chartmark.Capabilities {
	return chartmark.Capabilities{
		Marks: map[chartmark.MarkKind]bool{
			chartmark.MarkRect:   true,
			chartmark.MarkCircle: true,
			chartmark.MarkLine:   true,
			chartmark.MarkPath:   true,
			chartmark.MarkText:   true,
		},
		Defs: map[chartmark.DefKind]bool{
			chartmark.DefLinearGradient: true,
			chartmark.DefClipRect:       true,
			chartmark.DefPattern:        true,
			chartmark.DefMask:           true,
			chartmark.DefFilter:         true,
		},
		ClipPaths:                 true,
		DashedStrokes:             true,
		PixelFilters:              true,
		ObjectBoundingBoxPatterns: false,
	}
})
