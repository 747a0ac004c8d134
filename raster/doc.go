// Package raster renders chartmark drawing programs onto a CPU pixel
// surface.
//
// The package has three layers. [Pixmap] is a plain RGBA8 pixel buffer.
// [Canvas] adds immediate-mode drawing state on top of it: brushes,
// stroke style, clipping, shadow state, and a save/restore stack, with
// anti-aliased path filling via golang.org/x/image/vector. [Renderer]
// walks a [chartmark.RenderModel], resolves every def reference a mark
// carries (gradients, patterns, clips, masks, filters) into concrete
// canvas state, and paints the marks in order.
//
// Vector-only semantics the surface has no native equivalent for are
// emulated: pattern defs are rendered once into an offscreen tile and
// wrapped as a transformed repeating brush; mask defs are approximated
// by shape-inclusion clipping; the turbulence + displacement-map filter
// pipeline is computed from scratch on an offscreen buffer. Effects the
// backend cannot reproduce faithfully are omitted, never approximated
// silently; [Caps] together with the chartmark diagnostics functions
// reports them up front.
//
// Everything here is synchronous and single-threaded. A Renderer's
// pattern cache is the only state that outlives a render call; Renderer
// instances must not be shared across goroutines.
package raster
