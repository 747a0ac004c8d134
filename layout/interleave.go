package layout

// Interleave produces an ordering of segment indices of length sum(counts)
// in which each segment's occurrences are spread as evenly as possible
// instead of grouped into contiguous blocks.
//
// It runs a fractional-accumulator walk: every slot, each segment's
// accumulator grows by its count, and the segment whose accumulator is
// furthest past the emission threshold claims the slot and pays the total
// back. Ties go to the lower index, which makes the output deterministic.
//
// Negative counts are treated as zero.
func Interleave(counts []int) []int {
	total := 0
	weights := make([]int, len(counts))
	for i, c := range counts {
		if c > 0 {
			weights[i] = c
			total += c
		}
	}
	if total == 0 {
		return []int{}
	}

	seq := make([]int, 0, total)
	acc := make([]int, len(weights))
	for len(seq) < total {
		best := -1
		for k, w := range weights {
			if w == 0 {
				continue
			}
			acc[k] += w
			if best < 0 || acc[k] > acc[best] {
				best = k
			}
		}
		acc[best] -= total
		seq = append(seq, best)
	}
	return seq
}
