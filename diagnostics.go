package chartmark

import "sort"

// Capabilities declares what a rendering backend can faithfully draw.
// Backends publish one of these; the diagnostics functions compare it
// against an actual drawing program so callers can warn or pick another
// backend before any drawing work is attempted.
type Capabilities struct {
	// Marks holds the mark kinds the backend can draw at all.
	Marks map[MarkKind]bool

	// Defs holds the def kinds the backend can resolve in general.
	// Individual defs of a supported kind can still be unresolvable;
	// see UnsupportedDefs.
	Defs map[DefKind]bool

	// ClipPaths reports whether the backend has a complex-path clip
	// primitive. Without it both clip and mask references are dropped.
	ClipPaths bool

	// DashedStrokes reports whether dashed stroke patterns are honored.
	DashedStrokes bool

	// PixelFilters reports whether the backend can read and write raw
	// pixels on an offscreen surface, which the noise-displacement
	// pipeline requires.
	PixelFilters bool

	// ObjectBoundingBoxPatterns reports whether patterns with
	// objectBoundingBox units are resolvable.
	ObjectBoundingBoxPatterns bool
}

// Effect names reported by UnsupportedEffects.
const (
	EffectClip         = "clip"
	EffectMask         = "mask"
	EffectFilter       = "filter"
	EffectDashedStroke = "dashed-stroke"
)

// UnsupportedMarks returns the distinct mark kinds in the model that the
// backend cannot draw at all, sorted by name. The model is never mutated.
func UnsupportedMarks(m *RenderModel, caps Capabilities) []string {
	seen := map[string]bool{}
	for _, mark := range m.Marks {
		if !caps.Marks[mark.Kind()] {
			seen[mark.Kind().String()] = true
		}
	}
	return sortedKeys(seen)
}

// UnsupportedDefs returns the distinct def kinds in the model that the
// backend cannot resolve, sorted by name. A def of a generally supported
// kind is still reported when its particular content is unresolvable:
// an objectBoundingBox pattern on a backend without them, or a filter
// whose primitive combination is neither basic shadow/blur nor the
// recognized noise-displacement pipeline.
func UnsupportedDefs(m *RenderModel, caps Capabilities) []string {
	seen := map[string]bool{}
	for _, d := range m.Defs {
		if !defResolvable(d, caps) {
			seen[d.Kind().String()] = true
		}
	}
	return sortedKeys(seen)
}

// UnsupportedEffects returns the distinct per-mark effects that would be
// silently dropped when rendering the model on the backend, given the
// actual def graph, sorted by name. A reference to a missing def counts
// as a dropped effect.
func UnsupportedEffects(m *RenderModel, caps Capabilities) []string {
	idx := m.DefIndex()
	seen := map[string]bool{}

	for _, mark := range m.Marks {
		st := mark.Common()

		if id, ok := RefID(st.Clip); ok {
			if !refResolvable(idx, id, DefClipRect, caps) || !caps.ClipPaths {
				seen[EffectClip] = true
			}
		}
		if id, ok := RefID(st.Mask); ok {
			if !refResolvable(idx, id, DefMask, caps) || !caps.ClipPaths {
				seen[EffectMask] = true
			}
		}
		if id, ok := RefID(st.Filter); ok {
			if !refResolvable(idx, id, DefFilter, caps) {
				seen[EffectFilter] = true
			}
		}
		if len(st.Dash) > 0 && !IsNone(st.Stroke) && st.Stroke != "" && !caps.DashedStrokes {
			seen[EffectDashedStroke] = true
		}
	}
	return sortedKeys(seen)
}

// refResolvable reports whether a reference names an existing def of the
// expected kind that the backend can actually resolve.
func refResolvable(idx map[string]Def, id string, want DefKind, caps Capabilities) bool {
	d, ok := idx[id]
	if !ok || d.Kind() != want {
		return false
	}
	return defResolvable(d, caps)
}

// defResolvable applies both the kind-level capability and the content-
// level restrictions of a def.
func defResolvable(d Def, caps Capabilities) bool {
	if !caps.Defs[d.Kind()] {
		return false
	}
	switch v := d.(type) {
	case *PatternDef:
		if v.Units == ObjectBoundingBox && !caps.ObjectBoundingBoxPatterns {
			return false
		}
	case *FilterDef:
		if v.BasicOnly() {
			return true
		}
		if _, ok := v.NoisePipeline(); ok {
			return caps.PixelFilters
		}
		return false
	}
	return true
}

// sortedKeys returns the map's keys sorted ascending.
func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
