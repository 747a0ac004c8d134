package layout

import (
	"math"

	"github.com/gogpu/chartmark"
)

// Run is one horizontal span of a percentage-run layout.
type Run struct {
	X, W  float64
	Color string
}

// Runs lays segments out left to right across availableWidth with gap
// between consecutive visible runs. Each run's width is its normalized
// share of the width remaining after gaps. Floating-point drift is
// absorbed by the final visible run, whose right edge lands on
// availableWidth exactly rather than distributing rounding error.
//
// Zero-percentage segments produce zero-width runs: they are skipped in
// the visual sequence (no gap is spent on them) but retained in the
// result so indices stay stable against the input.
func Runs(segments []chartmark.Segment, availableWidth, gap float64) []Run {
	runs := make([]Run, len(segments))
	if len(segments) == 0 {
		return runs
	}

	if math.IsNaN(availableWidth) || math.IsInf(availableWidth, 0) || availableWidth < 0 {
		availableWidth = 0
	}
	if math.IsNaN(gap) || math.IsInf(gap, 0) || gap < 0 {
		gap = 0
	}

	weights := sanitizeWeights(segments)
	sum := 0.0
	visible := 0
	for _, w := range weights {
		sum += w
		if w > 0 {
			visible++
		}
	}

	totalGaps := gap * float64(visible-1)
	if totalGaps < 0 {
		totalGaps = 0
	}
	inner := availableWidth - totalGaps
	if inner < 0 {
		inner = 0
	}

	x := 0.0
	placed := 0
	lastVisible := -1
	for i, w := range weights {
		runs[i] = Run{X: x, Color: segments[i].Color}
		if w <= 0 || sum == 0 {
			continue
		}
		runs[i].W = w / sum * inner
		lastVisible = i
		placed++
		x += runs[i].W
		if placed < visible {
			x += gap
		}
	}

	// Pin the final visible run's right edge to availableWidth exactly.
	if lastVisible >= 0 {
		runs[lastVisible].W = availableWidth - runs[lastVisible].X
		if runs[lastVisible].W < 0 {
			runs[lastVisible].W = 0
		}
	}

	return runs
}
