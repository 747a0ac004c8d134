package chartmark

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fullCaps mirrors a raster backend with every feature available.
func fullCaps() Capabilities {
	return Capabilities{
		Marks: map[MarkKind]bool{
			MarkRect: true, MarkCircle: true, MarkLine: true, MarkPath: true, MarkText: true,
		},
		Defs: map[DefKind]bool{
			DefLinearGradient: true, DefClipRect: true, DefPattern: true, DefMask: true, DefFilter: true,
		},
		ClipPaths:                 true,
		DashedStrokes:             true,
		PixelFilters:              true,
		ObjectBoundingBoxPatterns: true,
	}
}

func TestUnsupportedMarks(t *testing.T) {
	m := &RenderModel{Marks: []Mark{
		&TextMark{ID: "t1", Text: "a"},
		&TextMark{ID: "t2", Text: "b"},
		&RectMark{ID: "r"},
	}}
	caps := fullCaps()
	caps.Marks[MarkText] = false

	got := UnsupportedMarks(m, caps)
	if diff := cmp.Diff([]string{"text"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := UnsupportedMarks(m, fullCaps()); got != nil {
		t.Errorf("full caps: got %v, want nil", got)
	}
}

func TestUnsupportedDefsContentLevel(t *testing.T) {
	m := &RenderModel{Defs: []Def{
		&PatternDef{ID: "p1", Units: ObjectBoundingBox, Width: 0.5, Height: 0.5},
		&PatternDef{ID: "p2", Units: UserSpaceOnUse, Width: 4, Height: 4},
		&FilterDef{ID: "f1", Primitives: []FilterPrimitive{
			&Turbulence{Result: "n"},
		}},
		&LinearGradientDef{ID: "g"},
	}}
	caps := fullCaps()
	caps.ObjectBoundingBoxPatterns = false

	got := UnsupportedDefs(m, caps)
	if diff := cmp.Diff([]string{"filter", "pattern"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestUnsupportedDefsNoisePipelineNeedsPixels(t *testing.T) {
	m := &RenderModel{Defs: []Def{
		&FilterDef{ID: "f", Primitives: []FilterPrimitive{
			&Turbulence{Result: "n"},
			&DisplacementMap{In2: "n", Scale: 5},
		}},
	}}

	if got := UnsupportedDefs(m, fullCaps()); got != nil {
		t.Errorf("pixel-capable backend: got %v, want nil", got)
	}

	caps := fullCaps()
	caps.PixelFilters = false
	got := UnsupportedDefs(m, caps)
	if diff := cmp.Diff([]string{"filter"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestUnsupportedEffects(t *testing.T) {
	m := &RenderModel{
		Marks: []Mark{
			&RectMark{ID: "a", Style: Style{Clip: "url(#c)", Mask: "url(#m)"}},
			&RectMark{ID: "b", Style: Style{Filter: "url(#missing)"}},
			&LineMark{ID: "d", Style: Style{Stroke: "#000", Dash: []float64{2, 2}}},
		},
		Defs: []Def{
			&ClipRectDef{ID: "c", W: 10, H: 10},
			&MaskDef{ID: "m"},
		},
	}

	// Everything present and capable: only the dangling filter ref is
	// reported.
	got := UnsupportedEffects(m, fullCaps())
	if diff := cmp.Diff([]string{"filter"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	// No clip primitive: clip and mask both drop; no dash support:
	// dashed strokes drop.
	caps := fullCaps()
	caps.ClipPaths = false
	caps.DashedStrokes = false
	got = UnsupportedEffects(m, caps)
	want := []string{"clip", "dashed-stroke", "filter", "mask"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestUnsupportedEffectsLoneTurbulence(t *testing.T) {
	m := &RenderModel{
		Marks: []Mark{
			&RectMark{ID: "r", Style: Style{Filter: "url(#f)"}},
		},
		Defs: []Def{
			&FilterDef{ID: "f", Primitives: []FilterPrimitive{
				&Turbulence{Result: "n"},
			}},
		},
	}
	got := UnsupportedEffects(m, fullCaps())
	if diff := cmp.Diff([]string{EffectFilter}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestUnsupportedEffectsWrongDefKind(t *testing.T) {
	m := &RenderModel{
		Marks: []Mark{
			&RectMark{ID: "r", Style: Style{Clip: "url(#g)"}},
		},
		Defs: []Def{
			&LinearGradientDef{ID: "g"},
		},
	}
	got := UnsupportedEffects(m, fullCaps())
	if diff := cmp.Diff([]string{EffectClip}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
