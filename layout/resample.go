package layout

import "math"

// Resample maps a series onto exactly targetCount values by deterministic
// nearest-bucket sampling: output index i reads source index
// round(i*(n-1)/(targetCount-1)). The first and last observed values are
// always preserved for targetCount >= 2.
//
// targetCount <= 0 or an empty series yields an empty slice;
// targetCount == 1 yields the first value.
func Resample(series []float64, targetCount int) []float64 {
	if targetCount <= 0 || len(series) == 0 {
		return []float64{}
	}
	if targetCount == 1 {
		return []float64{series[0]}
	}

	n := len(series)
	out := make([]float64, targetCount)
	for i := 0; i < targetCount; i++ {
		src := int(math.Round(float64(i) * float64(n-1) / float64(targetCount-1)))
		if src < 0 {
			src = 0
		}
		if src >= n {
			src = n - 1
		}
		out[i] = series[src]
	}
	return out
}
