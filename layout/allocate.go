package layout

import (
	"math"
	"sort"

	"github.com/gogpu/chartmark"
)

// Allocate distributes totalUnits discrete units across segments in
// proportion to their percentages using the largest-remainder method:
// every segment gets the floor of its exact proportional share, and the
// leftover units go one each to the segments with the largest fractional
// remainders (ties broken by input order).
//
// The result always sums to totalUnits exactly, for any totalUnits >= 0
// and any non-negative distribution. An all-zero distribution degrades
// to an even split; a single segment receives all units. Negative
// totalUnits is treated as zero.
func Allocate(segments []chartmark.Segment, totalUnits int) []int {
	counts := make([]int, len(segments))
	if len(segments) == 0 || totalUnits <= 0 {
		return counts
	}

	weights := sanitizeWeights(segments)
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		// Even split.
		for i := range weights {
			weights[i] = 1
		}
		sum = float64(len(weights))
	}

	type remainder struct {
		index int
		frac  float64
	}
	remainders := make([]remainder, len(weights))

	assigned := 0
	for i, w := range weights {
		raw := w / sum * float64(totalUnits)
		base := int(math.Floor(raw))
		counts[i] = base
		assigned += base
		remainders[i] = remainder{index: i, frac: raw - float64(base)}
	}

	// Award the deficit to the largest fractional remainders.
	// sort.SliceStable keeps input order on ties.
	deficit := totalUnits - assigned
	sort.SliceStable(remainders, func(i, j int) bool {
		return remainders[i].frac > remainders[j].frac
	})
	for i := 0; i < deficit && i < len(remainders); i++ {
		counts[remainders[i].index]++
	}

	return counts
}

// sanitizeWeights coerces non-finite or negative percentages to zero.
func sanitizeWeights(segments []chartmark.Segment) []float64 {
	weights := make([]float64, len(segments))
	for i, s := range segments {
		w := s.Pct
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			w = 0
		}
		weights[i] = w
	}
	return weights
}
