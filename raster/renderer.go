package raster

import (
	"fmt"
	"math"

	"golang.org/x/image/font"

	"github.com/gogpu/chartmark"
	"github.com/gogpu/chartmark/internal/cache"
)

const (
	// patternCacheSize bounds the rendered-tile cache of a Renderer.
	patternCacheSize = 32

	// maxPatternDepth stops runaway recursion when pattern content
	// references further patterns.
	maxPatternDepth = 2
)

// Options configures a render call.
type Options struct {
	// Background is painted before any mark. The zero value leaves the
	// surface transparent.
	Background chartmark.RGBA

	// FontFace overrides the face used for text marks. Nil selects the
	// built-in 7x13 face.
	FontFace font.Face
}

// Renderer paints render models onto pixmaps. It resolves every def
// reference a mark carries into concrete canvas state and draws the
// marks in model order.
//
// Renderers follow the model's error policy: numeric defects are
// clamped, unresolvable or unsupported references degrade to fallback
// paints or are omitted with a log entry, and rendering itself never
// fails once the surface exists.
//
// A Renderer keeps a bounded cache of rendered pattern tiles keyed by
// pattern content, so repeated patterns across models render once.
// Renderer is not safe for concurrent use; create one per goroutine.
type Renderer struct {
	tiles *cache.Cache[*Pixmap]
	depth int
}

// NewRenderer creates a renderer with an empty pattern cache.
func NewRenderer() *Renderer {
	return &Renderer{
		tiles: cache.New[*Pixmap](patternCacheSize),
	}
}

// Render rasterizes a model onto a new pixmap sized by the model's
// dimensions, rounded up to whole pixels. It fails only when the model
// has no positive pixel area.
func (r *Renderer) Render(model *chartmark.RenderModel, opts Options) (*Pixmap, error) {
	w := int(math.Ceil(model.Width))
	h := int(math.Ceil(model.Height))
	if w <= 0 || h <= 0 ||
		math.IsNaN(model.Width) || math.IsNaN(model.Height) ||
		math.IsInf(model.Width, 0) || math.IsInf(model.Height, 0) {
		return nil, fmt.Errorf("raster: model size %gx%g has no pixel area", model.Width, model.Height)
	}

	pm := NewPixmap(w, h)
	if opts.Background.A > 0 {
		pm.Clear(opts.Background)
	}
	c := NewCanvas(pm)
	if opts.FontFace != nil {
		c.SetFontFace(opts.FontFace)
	}
	r.RenderInto(c, model)
	return pm, nil
}

// RenderInto paints a model onto an existing canvas, composing with
// whatever state the canvas already carries.
func (r *Renderer) RenderInto(c *Canvas, model *chartmark.RenderModel) {
	defs := model.DefIndex()
	for _, m := range model.Marks {
		r.paintMark(c, defs, m)
	}
}

// paintMark draws one mark with all of its resolved effects.
func (r *Renderer) paintMark(c *Canvas, defs map[string]chartmark.Def, m chartmark.Mark) {
	style := m.Common()

	fd := r.resolveFilter(defs, m, style.Filter)
	if fd != nil {
		if r.paintFiltered(c, defs, m, fd) {
			return
		}
		// Unsupported primitive combination: the filter is omitted
		// entirely, never approximated.
		chartmark.Logger().Warn("skipping unsupported filter",
			"mark", m.MarkID(), "filter", fd.ID)
	}

	r.withEffects(c, defs, m, func() {
		r.paintGeometry(c, defs, m)
	})
}

// withEffects runs fn inside a state scope carrying the mark's group
// opacity, clip, and mask.
func (r *Renderer) withEffects(c *Canvas, defs map[string]chartmark.Def, m chartmark.Mark, fn func()) {
	style := m.Common()
	c.Push()
	defer c.Pop()

	c.SetAlpha(chartmark.OpacityOf(style.Opacity))
	r.applyClip(c, defs, m, style.Clip)
	r.applyMask(c, defs, m, style.Mask)
	fn()
}

// resolveFilter looks up a mark's filter reference. An empty or "none"
// reference resolves to nil; dangling or mistyped references are logged
// and dropped.
func (r *Renderer) resolveFilter(defs map[string]chartmark.Def, m chartmark.Mark, ref string) *chartmark.FilterDef {
	if ref == "" || chartmark.IsNone(ref) {
		return nil
	}
	id, ok := chartmark.RefID(ref)
	if !ok {
		chartmark.Logger().Warn("malformed filter reference", "mark", m.MarkID(), "ref", ref)
		return nil
	}
	d, ok := defs[id]
	if !ok {
		chartmark.Logger().Warn("dangling filter reference", "mark", m.MarkID(), "id", id)
		return nil
	}
	fd, ok := d.(*chartmark.FilterDef)
	if !ok {
		chartmark.Logger().Warn("filter reference names a non-filter def",
			"mark", m.MarkID(), "id", id, "kind", d.Kind().String())
		return nil
	}
	return fd
}

// paintFiltered draws a mark through its filter def. It reports false
// when the primitive combination is unsupported, in which case the
// caller draws the mark unfiltered.
func (r *Renderer) paintFiltered(c *Canvas, defs map[string]chartmark.Def, m chartmark.Mark, fd *chartmark.FilterDef) bool {
	if fd.BasicOnly() {
		shadow, sigma := basicPrimitives(fd)
		if sigma <= 0 {
			// Shadow state maps directly onto the canvas; no layer
			// needed.
			r.withEffects(c, defs, m, func() {
				armShadow(c, shadow)
				r.paintGeometry(c, defs, m)
			})
			return true
		}
		layer := r.renderLayer(c, defs, m, shadow, sigma)
		r.withEffects(c, defs, m, func() {
			c.DrawPixmap(layer, 0, 0)
		})
		return true
	}

	pipe, ok := fd.NoisePipeline()
	if !ok {
		return false
	}
	var sigma float64
	if pipe.Blur != nil {
		sigma = pipe.Blur.StdDeviation
	}
	layer := r.renderLayer(c, defs, m, pipe.Shadow, sigma)
	layer = displaceNoise(layer, pipe.Turbulence, pipe.Displacement)
	r.withEffects(c, defs, m, func() {
		c.DrawPixmap(layer, 0, 0)
	})
	return true
}

// basicPrimitives extracts the shadow and the combined blur deviation
// of a basic-only filter. Stacked blurs compose by adding variances.
func basicPrimitives(fd *chartmark.FilterDef) (*chartmark.DropShadow, float64) {
	var shadow *chartmark.DropShadow
	variance := 0.0
	for _, prim := range fd.Primitives {
		switch p := prim.(type) {
		case *chartmark.DropShadow:
			if shadow == nil {
				shadow = p
			}
		case *chartmark.GaussianBlur:
			if s := p.StdDeviation; s > 0 && !math.IsNaN(s) && !math.IsInf(s, 0) {
				variance += s * s
			}
		}
	}
	return shadow, math.Sqrt(variance)
}

// renderLayer paints a mark's geometry onto a fresh offscreen layer the
// size of the canvas, with an optional shadow and layer blur. Group
// opacity, clip, and mask are deliberately excluded; they apply when
// the layer is composited back.
func (r *Renderer) renderLayer(c *Canvas, defs map[string]chartmark.Def, m chartmark.Mark, shadow *chartmark.DropShadow, sigma float64) *Pixmap {
	layer := NewPixmap(c.pixmap.Width(), c.pixmap.Height())
	lc := NewCanvas(layer)
	lc.Transform(c.CurrentTransform())
	lc.SetFontFace(c.state.face)
	armShadow(lc, shadow)
	r.paintGeometry(lc, defs, m)
	if sigma > 0 {
		layer = BlurPixmap(layer, sigma*transformScale(c.CurrentTransform()))
	}
	return layer
}

// armShadow translates a drop-shadow primitive into canvas state.
func armShadow(c *Canvas, sh *chartmark.DropShadow) {
	if sh == nil {
		return
	}
	col := chartmark.Hex(sh.FloodColor).ScaleAlpha(chartmark.OpacityOf(sh.FloodOpacity))
	c.SetShadow(sh.DX, sh.DY, sh.StdDeviation, col)
}

// applyClip intersects the canvas clip with a clip-rect def reference.
func (r *Renderer) applyClip(c *Canvas, defs map[string]chartmark.Def, m chartmark.Mark, ref string) {
	if ref == "" || chartmark.IsNone(ref) {
		return
	}
	id, ok := chartmark.RefID(ref)
	if !ok {
		chartmark.Logger().Warn("malformed clip reference", "mark", m.MarkID(), "ref", ref)
		return
	}
	d, ok := defs[id]
	if !ok {
		chartmark.Logger().Warn("dangling clip reference", "mark", m.MarkID(), "id", id)
		return
	}
	cd, ok := d.(*chartmark.ClipRectDef)
	if !ok {
		chartmark.Logger().Warn("clip reference names a non-clip def",
			"mark", m.MarkID(), "id", id, "kind", d.Kind().String())
		return
	}
	c.ClipRect(cd.X, cd.Y, cd.W, cd.H, cd.RX, cd.RY)
}

// applyMask approximates a mask def by shape-inclusion clipping: the
// union of the mask marks' painted geometry becomes a clip path.
// Luminance weighting is lost; fully-covered areas match, partially-lit
// ones clip hard. A sub-mark contributes only when its fill is painted
// and its effective opacity is positive; marks without area (lines,
// text) are ignored. With objectBoundingBox content units the combined
// path is mapped onto the referencing mark's bounding box. A mask with
// no contributing area is ignored.
func (r *Renderer) applyMask(c *Canvas, defs map[string]chartmark.Def, m chartmark.Mark, ref string) {
	if ref == "" || chartmark.IsNone(ref) {
		return
	}
	id, ok := chartmark.RefID(ref)
	if !ok {
		chartmark.Logger().Warn("malformed mask reference", "mark", m.MarkID(), "ref", ref)
		return
	}
	d, ok := defs[id]
	if !ok {
		chartmark.Logger().Warn("dangling mask reference", "mark", m.MarkID(), "id", id)
		return
	}
	md, ok := d.(*chartmark.MaskDef)
	if !ok {
		chartmark.Logger().Warn("mask reference names a non-mask def",
			"mark", m.MarkID(), "id", id, "kind", d.Kind().String())
		return
	}

	p := chartmark.NewPath()
	for _, sub := range md.Marks {
		if !maskContributes(sub) {
			continue
		}
		switch sm := sub.(type) {
		case *chartmark.RectMark:
			if sm.RX > 0 || sm.RY > 0 {
				p.RoundedRectangle(sm.X, sm.Y, sm.W, sm.H, sm.RX, sm.RY)
			} else {
				p.Rectangle(sm.X, sm.Y, sm.W, sm.H)
			}
		case *chartmark.CircleMark:
			p.Circle(sm.CX, sm.CY, sm.R)
		case *chartmark.PathMark:
			sp, err := chartmark.ParsePath(sm.D)
			if err != nil {
				chartmark.Logger().Warn("malformed path in mask", "mask", md.ID, "mark", sm.ID, "err", err)
				continue
			}
			p.Append(sp)
		default:
			chartmark.Logger().Debug("mask content mark has no area, ignored",
				"mask", md.ID, "kind", sub.Kind().String())
		}
	}
	if len(p.Elements()) == 0 {
		chartmark.Logger().Warn("mask has no contributing area, reference ignored",
			"mask", md.ID, "mark", m.MarkID())
		return
	}
	if md.ContentUnits == chartmark.ObjectBoundingBox {
		// Content coordinates are fractions of the referencing mark's
		// bounding box.
		bbox := r.markBounds(c, m)
		p = p.Transform(chartmark.Translate(bbox.X, bbox.Y).Multiply(chartmark.Scale(bbox.W, bbox.H)))
	}
	c.ClipPath(p)
}

// maskContributes reports whether a mask sub-mark adds inclusion area:
// its fill must be painted and its effective opacity positive.
func maskContributes(m chartmark.Mark) bool {
	st := m.Common()
	if chartmark.IsNone(st.Fill) {
		return false
	}
	return chartmark.OpacityOf(st.Opacity)*chartmark.OpacityOf(st.FillOpacity) > 0
}

// paintGeometry draws the mark's shape with its resolved fill and
// stroke, without group-level effects.
func (r *Renderer) paintGeometry(c *Canvas, defs map[string]chartmark.Def, m chartmark.Mark) {
	style := m.Common()

	switch mk := m.(type) {
	case *chartmark.RectMark:
		p := chartmark.NewPath()
		if mk.RX > 0 || mk.RY > 0 {
			p.RoundedRectangle(mk.X, mk.Y, mk.W, mk.H, mk.RX, mk.RY)
		} else {
			p.Rectangle(mk.X, mk.Y, mk.W, mk.H)
		}
		r.fillAndStroke(c, defs, m, p)

	case *chartmark.CircleMark:
		if mk.R <= 0 || math.IsNaN(mk.R) {
			return
		}
		p := chartmark.NewPath()
		p.Circle(mk.CX, mk.CY, mk.R)
		r.fillAndStroke(c, defs, m, p)

	case *chartmark.LineMark:
		p := chartmark.NewPath()
		p.MoveTo(mk.X1, mk.Y1)
		p.LineTo(mk.X2, mk.Y2)
		r.strokeOnly(c, defs, m, p)

	case *chartmark.PathMark:
		p, err := chartmark.ParsePath(mk.D)
		if err != nil {
			chartmark.Logger().Warn("malformed path data, mark skipped", "mark", mk.ID, "err", err)
			return
		}
		r.fillAndStroke(c, defs, m, p)

	case *chartmark.TextMark:
		brush := r.resolvePaint(c, defs, m, style.Fill, true)
		if brush == nil {
			return
		}
		c.Push()
		c.SetAlpha(chartmark.OpacityOf(style.FillOpacity))
		c.SetFillBrush(brush)
		c.FillText(mk.Text, mk.X, mk.Y)
		c.Pop()
	}
}

// fillAndStroke paints a shape path, fill first, then stroke, matching
// the source order of vector graphics.
func (r *Renderer) fillAndStroke(c *Canvas, defs map[string]chartmark.Def, m chartmark.Mark, p *chartmark.Path) {
	style := m.Common()

	if fill := r.resolvePaint(c, defs, m, style.Fill, true); fill != nil {
		c.Push()
		c.SetAlpha(chartmark.OpacityOf(style.FillOpacity))
		c.SetFillBrush(fill)
		c.FillPath(p)
		c.Pop()
	}
	r.strokeOnly(c, defs, m, p)
}

// strokeOnly paints just the stroke of a path.
func (r *Renderer) strokeOnly(c *Canvas, defs map[string]chartmark.Def, m chartmark.Mark, p *chartmark.Path) {
	style := m.Common()
	stroke := r.resolvePaint(c, defs, m, style.Stroke, false)
	if stroke == nil {
		return
	}
	width := style.StrokeWidth
	if width == 0 {
		width = 1
	}
	if width < 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		width = 0
	}
	if width <= 0 {
		return
	}
	c.Push()
	c.SetAlpha(chartmark.OpacityOf(style.StrokeOpacity))
	c.SetStrokeBrush(stroke)
	c.SetLineWidth(width)
	c.SetDash(style.Dash)
	c.StrokePath(p)
	c.Pop()
}

// resolvePaint turns a paint value into a brush, or nil when nothing
// should be painted. isFill selects the default for an unset value:
// fills default to opaque black, strokes to none.
func (r *Renderer) resolvePaint(c *Canvas, defs map[string]chartmark.Def, m chartmark.Mark, paint string, isFill bool) Brush {
	switch {
	case paint == "":
		if isFill {
			return NewSolidBrush(chartmark.Black)
		}
		return nil
	case chartmark.IsNone(paint):
		return nil
	case chartmark.NeedsFallback(paint):
		// currentColor and var() cannot resolve inside a drawing
		// program; the documented fallback paint is opaque black.
		chartmark.Logger().Debug("paint needs fallback", "mark", m.MarkID(), "paint", paint)
		return NewSolidBrush(chartmark.Black)
	}

	if id, ok := chartmark.RefID(paint); ok {
		d, found := defs[id]
		if !found {
			chartmark.Logger().Warn("dangling paint reference, using fallback",
				"mark", m.MarkID(), "id", id)
			return NewSolidBrush(chartmark.Black)
		}
		switch def := d.(type) {
		case *chartmark.LinearGradientDef:
			return r.gradientBrush(c, m, def)
		case *chartmark.PatternDef:
			return r.patternBrush(c, defs, m, def)
		default:
			chartmark.Logger().Warn("paint reference names an unusable def, using fallback",
				"mark", m.MarkID(), "id", id, "kind", d.Kind().String())
			return NewSolidBrush(chartmark.Black)
		}
	}

	// Hex yields opaque black for anything it cannot parse, which is
	// exactly the malformed-literal fallback.
	return NewSolidBrush(chartmark.Hex(paint))
}

// gradientBrush maps a gradient def onto the mark's bounding box and
// returns a device-space brush.
func (r *Renderer) gradientBrush(c *Canvas, m chartmark.Mark, def *chartmark.LinearGradientDef) Brush {
	bbox := r.markBounds(c, m)
	ctm := c.CurrentTransform()
	start := ctm.TransformPoint(chartmark.Pt(bbox.X+def.X1*bbox.W, bbox.Y+def.Y1*bbox.H))
	end := ctm.TransformPoint(chartmark.Pt(bbox.X+def.X2*bbox.W, bbox.Y+def.Y2*bbox.H))
	return NewLinearGradientBrush(start, end, def.Stops)
}

// markBounds returns the mark's user-space bounding box. Curved paths
// fall back to flattened extents; marks without computable bounds span
// the whole canvas, which keeps gradients deterministic.
func (r *Renderer) markBounds(c *Canvas, m chartmark.Mark) chartmark.Rect {
	bbox, err := chartmark.BoundsOf(m)
	if err == nil {
		return bbox
	}
	if pm, ok := m.(*chartmark.PathMark); ok {
		if p, perr := chartmark.ParsePath(pm.D); perr == nil {
			if b, ok := flattenedBounds(p); ok {
				return b
			}
		}
	}
	chartmark.Logger().Debug("mark bounds unavailable, using canvas extent",
		"mark", m.MarkID(), "err", err)
	return chartmark.Rect{W: float64(c.pixmap.Width()), H: float64(c.pixmap.Height())}
}

// flattenedBounds computes the extent of a path's flattened contours.
func flattenedBounds(p *chartmark.Path) (chartmark.Rect, bool) {
	contours, _ := p.Flatten()
	first := true
	var minX, minY, maxX, maxY float64
	for _, contour := range contours {
		for _, pt := range contour {
			if first {
				minX, maxX = pt.X, pt.X
				minY, maxY = pt.Y, pt.Y
				first = false
				continue
			}
			minX = math.Min(minX, pt.X)
			maxX = math.Max(maxX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxY = math.Max(maxY, pt.Y)
		}
	}
	if first {
		return chartmark.Rect{}, false
	}
	return chartmark.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// patternBrush renders the pattern def's content into a cached tile and
// wraps it as a transformed repeating brush.
func (r *Renderer) patternBrush(c *Canvas, defs map[string]chartmark.Def, m chartmark.Mark, def *chartmark.PatternDef) Brush {
	if !patternUsable(def) {
		chartmark.Logger().Warn("unresolvable pattern, using fallback",
			"mark", m.MarkID(), "pattern", def.ID, "units", def.Units.String())
		return NewSolidBrush(chartmark.Black)
	}
	if r.depth >= maxPatternDepth {
		chartmark.Logger().Warn("pattern nesting too deep, using fallback",
			"mark", m.MarkID(), "pattern", def.ID)
		return NewSolidBrush(chartmark.Black)
	}

	pw, ph := tileSize(def)
	tile, err := r.tiles.GetOrCreate(patternKey(def), func() (*Pixmap, error) {
		return r.renderTile(defs, def, pw, ph), nil
	})
	if err != nil {
		return NewSolidBrush(chartmark.Black)
	}

	patTransform, perr := chartmark.ParseTransform(def.Transform)
	if perr != nil {
		chartmark.Logger().Warn("malformed pattern transform, ignored",
			"pattern", def.ID, "err", perr)
		patTransform = chartmark.Identity()
	}
	return NewTileBrush(tile, patternBrushTransform(c.CurrentTransform(), patTransform, def, pw, ph))
}

// renderTile paints the pattern content into a fresh tile pixmap. Tile
// content coordinates span the def's width and height and are scaled to
// the rounded pixel tile.
func (r *Renderer) renderTile(defs map[string]chartmark.Def, def *chartmark.PatternDef, pw, ph int) *Pixmap {
	tile := NewPixmap(pw, ph)
	tc := NewCanvas(tile)
	tc.Transform(chartmark.Scale(float64(pw)/def.Width, float64(ph)/def.Height))

	r.depth++
	for _, sub := range def.Marks {
		r.paintMark(tc, defs, sub)
	}
	r.depth--
	return tile
}
