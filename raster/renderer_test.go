package raster

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/chartmark"
)

func renderModel(t *testing.T, model *chartmark.RenderModel) *Pixmap {
	t.Helper()
	pm, err := NewRenderer().Render(model, Options{})
	if err != nil {
		t.Fatal(err)
	}
	return pm
}

func TestRenderSolidRect(t *testing.T) {
	model := &chartmark.RenderModel{
		Width: 20, Height: 20,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "r", X: 2, Y: 2, W: 16, H: 16,
				Style: chartmark.Style{Fill: "#ff0000"}},
		},
	}
	pm := renderModel(t, model)
	if got := pm.GetPixel(10, 10); !colorClose(got, chartmark.RGBA{R: 1, A: 1}, 0.01) {
		t.Errorf("center = %+v, want opaque red", got)
	}
}

func TestRenderInvalidSize(t *testing.T) {
	for _, model := range []*chartmark.RenderModel{
		{Width: 0, Height: 10},
		{Width: 10, Height: -3},
	} {
		if _, err := NewRenderer().Render(model, Options{}); err == nil {
			t.Errorf("size %gx%g: expected error", model.Width, model.Height)
		}
	}
}

func TestRenderGradientStops(t *testing.T) {
	zero := 0.0
	model := &chartmark.RenderModel{
		Width: 100, Height: 10,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "r", X: 0, Y: 0, W: 100, H: 10,
				Style: chartmark.Style{Fill: "url(#g)"}},
		},
		Defs: []chartmark.Def{
			&chartmark.LinearGradientDef{
				ID: "g", X1: 0, Y1: 0, X2: 1, Y2: 0,
				Stops: []chartmark.GradientStop{
					{Offset: 0, Color: "#ff0000"},
					{Offset: 0.45, Color: "#00ff00"},
					{Offset: 1, Color: "#0000ff", Opacity: &zero},
				},
			},
		},
	}
	pm := renderModel(t, model)

	// At 45% of the box the middle stop color holds.
	if got := pm.GetPixel(45, 5); got.G < 0.9 || got.R > 0.1 {
		t.Errorf("45%% = %+v, want green", got)
	}
	// The final stop fades to transparent, not to a solid color.
	if got := pm.GetPixel(99, 5); got.A > 0.05 {
		t.Errorf("right edge alpha = %v, want near 0", got.A)
	}
	// Start is solid red.
	if got := pm.GetPixel(0, 5); got.R < 0.9 || got.A < 0.9 {
		t.Errorf("left edge = %+v, want red", got)
	}
}

func TestRenderPaintFallbacks(t *testing.T) {
	model := &chartmark.RenderModel{
		Width: 10, Height: 10,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "cur", X: 0, Y: 0, W: 10, H: 4,
				Style: chartmark.Style{Fill: "currentColor"}},
			&chartmark.RectMark{ID: "dangling", X: 0, Y: 6, W: 10, H: 4,
				Style: chartmark.Style{Fill: "url(#missing)"}},
		},
	}
	pm := renderModel(t, model)

	// Both degrade to the opaque black fallback paint instead of
	// failing the render.
	if got := pm.GetPixel(5, 2); !colorClose(got, chartmark.Black, 0.01) {
		t.Errorf("currentColor = %+v, want black fallback", got)
	}
	if got := pm.GetPixel(5, 8); !colorClose(got, chartmark.Black, 0.01) {
		t.Errorf("dangling ref = %+v, want black fallback", got)
	}
}

func TestRenderFillNoneSkips(t *testing.T) {
	model := &chartmark.RenderModel{
		Width: 10, Height: 10,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "r", X: 0, Y: 0, W: 10, H: 10,
				Style: chartmark.Style{Fill: "none"}},
		},
	}
	pm := renderModel(t, model)
	if got := pm.GetPixel(5, 5); got.A != 0 {
		t.Errorf("fill none painted: %+v", got)
	}
}

func TestRenderMalformedPathSkipped(t *testing.T) {
	model := &chartmark.RenderModel{
		Width: 10, Height: 10,
		Marks: []chartmark.Mark{
			&chartmark.PathMark{ID: "bad", D: "M 0 0 L nonsense",
				Style: chartmark.Style{Fill: "#ffffff"}},
			&chartmark.RectMark{ID: "ok", X: 0, Y: 0, W: 10, H: 10,
				Style: chartmark.Style{Fill: "#ff0000"}},
		},
	}
	pm := renderModel(t, model)
	// The malformed mark is dropped; the rest of the model renders.
	if got := pm.GetPixel(5, 5); !colorClose(got, chartmark.RGBA{R: 1, A: 1}, 0.01) {
		t.Errorf("later mark = %+v, want red", got)
	}
}

func TestRenderClipRectDef(t *testing.T) {
	model := &chartmark.RenderModel{
		Width: 20, Height: 20,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "r", X: 0, Y: 0, W: 20, H: 20,
				Style: chartmark.Style{Fill: "#ffffff", Clip: "url(#c)"}},
		},
		Defs: []chartmark.Def{
			&chartmark.ClipRectDef{ID: "c", X: 0, Y: 0, W: 10, H: 20},
		},
	}
	pm := renderModel(t, model)
	if got := pm.GetPixel(5, 10); got.A == 0 {
		t.Error("inside clip not painted")
	}
	if got := pm.GetPixel(15, 10); got.A != 0 {
		t.Errorf("outside clip painted: %+v", got)
	}
}

func TestRenderMaskApproximatesByShape(t *testing.T) {
	model := &chartmark.RenderModel{
		Width: 20, Height: 20,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "r", X: 0, Y: 0, W: 20, H: 20,
				Style: chartmark.Style{Fill: "#ffffff", Mask: "url(#m)"}},
		},
		Defs: []chartmark.Def{
			&chartmark.MaskDef{ID: "m", Marks: []chartmark.Mark{
				&chartmark.CircleMark{ID: "mc", CX: 10, CY: 10, R: 6,
					Style: chartmark.Style{Fill: "#ffffff"}},
			}},
		},
	}
	pm := renderModel(t, model)
	if got := pm.GetPixel(10, 10); got.A == 0 {
		t.Error("mask shape interior not painted")
	}
	if got := pm.GetPixel(1, 1); got.A != 0 {
		t.Errorf("outside mask shape painted: %+v", got)
	}
}

func TestRenderMaskObjectBoundingBoxContent(t *testing.T) {
	maskedRect := func(maskMarks []chartmark.Mark) *chartmark.RenderModel {
		return &chartmark.RenderModel{
			Width: 40, Height: 40,
			Marks: []chartmark.Mark{
				&chartmark.RectMark{ID: "r", X: 10, Y: 10, W: 20, H: 20,
					Style: chartmark.Style{Fill: "#ff0000", Mask: "url(#m)"}},
			},
			Defs: []chartmark.Def{
				&chartmark.MaskDef{ID: "m",
					ContentUnits: chartmark.ObjectBoundingBox,
					Marks:        maskMarks},
			},
		}
	}

	// A full unit rect maps onto the mark's whole bounding box, so the
	// mask changes nothing.
	full := renderModel(t, maskedRect([]chartmark.Mark{
		&chartmark.RectMark{ID: "mr", X: 0, Y: 0, W: 1, H: 1,
			Style: chartmark.Style{Fill: "#ffffff"}},
	}))
	if got := full.GetPixel(20, 20); got.R < 0.9 || got.A < 0.9 {
		t.Errorf("center under full unit mask = %+v, want red", got)
	}

	// A half-unit rect spans the left half of the mark's box.
	half := renderModel(t, maskedRect([]chartmark.Mark{
		&chartmark.RectMark{ID: "mr", X: 0, Y: 0, W: 0.5, H: 1,
			Style: chartmark.Style{Fill: "#ffffff"}},
	}))
	if got := half.GetPixel(14, 20); got.R < 0.9 {
		t.Errorf("left half = %+v, want red", got)
	}
	if got := half.GetPixel(26, 20); got.A != 0 {
		t.Errorf("right half painted: %+v", got)
	}
}

func TestRenderMaskNonPaintedContentIgnored(t *testing.T) {
	zero := 0.0
	model := &chartmark.RenderModel{
		Width: 20, Height: 20,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "r", X: 0, Y: 0, W: 20, H: 20,
				Style: chartmark.Style{Fill: "#ff0000", Mask: "url(#m)"}},
		},
		Defs: []chartmark.Def{
			&chartmark.MaskDef{ID: "m", Marks: []chartmark.Mark{
				&chartmark.RectMark{ID: "unpainted", X: 0, Y: 0, W: 20, H: 20,
					Style: chartmark.Style{Fill: "none"}},
				&chartmark.RectMark{ID: "ghost", X: 0, Y: 0, W: 20, H: 20,
					Style: chartmark.Style{Fill: "#ffffff", FillOpacity: &zero}},
			}},
		},
	}
	pm := renderModel(t, model)

	// Neither sub-mark paints, so the mask contributes no area and the
	// reference is ignored rather than hiding the mark.
	if got := pm.GetPixel(10, 10); got.R < 0.9 || got.A < 0.9 {
		t.Errorf("masked mark = %+v, want unaffected red", got)
	}
}

func TestRenderPatternTiles(t *testing.T) {
	model := &chartmark.RenderModel{
		Width: 8, Height: 8,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "r", X: 0, Y: 0, W: 8, H: 8,
				Style: chartmark.Style{Fill: "url(#p)"}},
		},
		Defs: []chartmark.Def{
			&chartmark.PatternDef{ID: "p", Width: 4, Height: 4,
				Units: chartmark.UserSpaceOnUse,
				Marks: []chartmark.Mark{
					&chartmark.RectMark{ID: "pr", X: 0, Y: 0, W: 2, H: 4,
						Style: chartmark.Style{Fill: "#ff0000"}},
				},
			},
		},
	}
	pm := renderModel(t, model)

	// The red half-tile repeats with period 4.
	if got := pm.GetPixel(1, 1); got.R < 0.9 {
		t.Errorf("(1,1) = %+v, want red", got)
	}
	if got := pm.GetPixel(5, 1); got.R < 0.9 {
		t.Errorf("(5,1) = %+v, want red from repeated tile", got)
	}
	if got := pm.GetPixel(3, 1); got.A > 0.1 {
		t.Errorf("(3,1) = %+v, want empty tile half", got)
	}
}

func TestRenderObjectBoundingBoxPatternFallsBack(t *testing.T) {
	model := &chartmark.RenderModel{
		Width: 8, Height: 8,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "r", X: 0, Y: 0, W: 8, H: 8,
				Style: chartmark.Style{Fill: "url(#p)"}},
		},
		Defs: []chartmark.Def{
			&chartmark.PatternDef{ID: "p", Width: 0.5, Height: 0.5,
				Units: chartmark.ObjectBoundingBox,
				Marks: []chartmark.Mark{
					&chartmark.RectMark{ID: "pr", X: 0, Y: 0, W: 1, H: 1,
						Style: chartmark.Style{Fill: "#ff0000"}},
				},
			},
		},
	}
	pm := renderModel(t, model)
	if got := pm.GetPixel(4, 4); !colorClose(got, chartmark.Black, 0.01) {
		t.Errorf("oBB pattern = %+v, want black fallback", got)
	}
}

func TestRenderPatternCacheReused(t *testing.T) {
	r := NewRenderer()
	model := &chartmark.RenderModel{
		Width: 8, Height: 8,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "a", X: 0, Y: 0, W: 8, H: 4,
				Style: chartmark.Style{Fill: "url(#p)"}},
			&chartmark.RectMark{ID: "b", X: 0, Y: 4, W: 8, H: 4,
				Style: chartmark.Style{Fill: "url(#p)"}},
		},
		Defs: []chartmark.Def{
			&chartmark.PatternDef{ID: "p", Width: 2, Height: 2,
				Units: chartmark.UserSpaceOnUse,
				Marks: []chartmark.Mark{
					&chartmark.RectMark{ID: "pr", X: 0, Y: 0, W: 2, H: 2,
						Style: chartmark.Style{Fill: "#00ff00"}},
				},
			},
		},
	}
	if _, err := r.Render(model, Options{}); err != nil {
		t.Fatal(err)
	}
	if r.tiles.Len() != 1 {
		t.Errorf("tile cache holds %d entries, want 1 shared tile", r.tiles.Len())
	}
}

func TestRenderDeterministic(t *testing.T) {
	model := &chartmark.RenderModel{
		Width: 40, Height: 40,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "bg", X: 0, Y: 0, W: 40, H: 40,
				Style: chartmark.Style{Fill: "#222222"}},
			&chartmark.CircleMark{ID: "c", CX: 20, CY: 20, R: 12,
				Style: chartmark.Style{Fill: "url(#g)", Stroke: "#ffffff", StrokeWidth: 2,
					Filter: "url(#f)"}},
			&chartmark.TextMark{ID: "t", X: 4, Y: 36, Text: "chart",
				Style: chartmark.Style{Fill: "#ffffff"}},
		},
		Defs: []chartmark.Def{
			&chartmark.LinearGradientDef{ID: "g", X2: 1, Stops: []chartmark.GradientStop{
				{Offset: 0, Color: "#ff0000"},
				{Offset: 1, Color: "#0000ff"},
			}},
			&chartmark.FilterDef{ID: "f", Primitives: []chartmark.FilterPrimitive{
				&chartmark.Turbulence{BaseFrequency: 0.1, NumOctaves: 3, Seed: 11, Result: "n"},
				&chartmark.DisplacementMap{In: "SourceGraphic", In2: "n", Scale: 3,
					XChannel: chartmark.ChannelR, YChannel: chartmark.ChannelG},
			}},
		},
	}

	render := func() (*Pixmap, []string) {
		pm := NewPixmap(40, 40)
		c := NewCanvas(pm)
		NewRenderer().RenderInto(c, model)
		return pm, c.Ops()
	}
	pmA, opsA := render()
	pmB, opsB := render()

	if !bytes.Equal(pmA.Data(), pmB.Data()) {
		t.Error("two renders of one model differ at the pixel level")
	}
	if diff := cmp.Diff(opsA, opsB); diff != "" {
		t.Errorf("op logs differ:\n%s", diff)
	}
}

func TestRenderUnsupportedFilterOmitted(t *testing.T) {
	// A lone turbulence with no displacement consumer is not a
	// recognized pipeline: the filter is skipped, the mark still
	// paints.
	withFilter := &chartmark.RenderModel{
		Width: 10, Height: 10,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "r", X: 0, Y: 0, W: 10, H: 10,
				Style: chartmark.Style{Fill: "#ff0000", Filter: "url(#f)"}},
		},
		Defs: []chartmark.Def{
			&chartmark.FilterDef{ID: "f", Primitives: []chartmark.FilterPrimitive{
				&chartmark.Turbulence{BaseFrequency: 0.1, NumOctaves: 2, Seed: 1, Result: "n"},
			}},
		},
	}
	pm := renderModel(t, withFilter)
	if got := pm.GetPixel(5, 5); !colorClose(got, chartmark.RGBA{R: 1, A: 1}, 0.01) {
		t.Errorf("mark with skipped filter = %+v, want plain red", got)
	}

	// Diagnostics surface the same filter as unsupported up front.
	effects := chartmark.UnsupportedEffects(withFilter, Caps())
	if diff := cmp.Diff([]string{"filter"}, effects); diff != "" {
		t.Errorf("UnsupportedEffects mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderBasicFilterShadow(t *testing.T) {
	model := &chartmark.RenderModel{
		Width: 30, Height: 30,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "r", X: 4, Y: 4, W: 10, H: 10,
				Style: chartmark.Style{Fill: "#ff0000", Filter: "url(#f)"}},
		},
		Defs: []chartmark.Def{
			&chartmark.FilterDef{ID: "f", Primitives: []chartmark.FilterPrimitive{
				&chartmark.DropShadow{DX: 8, DY: 8, FloodColor: "#000000"},
			}},
		},
	}
	pm := renderModel(t, model)
	if got := pm.GetPixel(20, 20); got.A == 0 {
		t.Error("drop shadow missing")
	}
	if got := pm.GetPixel(8, 8); got.R < 0.9 {
		t.Errorf("shape = %+v, want red above shadow", got)
	}
}

func TestRenderGroupOpacity(t *testing.T) {
	half := 0.5
	model := &chartmark.RenderModel{
		Width: 10, Height: 10,
		Marks: []chartmark.Mark{
			&chartmark.RectMark{ID: "r", X: 0, Y: 0, W: 10, H: 10,
				Style: chartmark.Style{Fill: "#ffffff", Opacity: &half}},
		},
	}
	pm := renderModel(t, model)
	got := pm.GetPixel(5, 5)
	if got.A < 0.45 || got.A > 0.55 {
		t.Errorf("alpha = %v, want about 0.5", got.A)
	}
}
