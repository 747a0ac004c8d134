// Package noise implements seeded multi-octave value noise for the
// turbulence filter primitive.
//
// The generator is fully deterministic: the same field parameters and
// sample coordinates produce the same value on every platform. No
// global state, no math/rand.
package noise

import "math"

const (
	minOctaves = 1
	maxOctaves = 8
)

// Field is a sampled noise field. The zero value is unusable; use
// NewField, which clamps parameters into their valid ranges.
type Field struct {
	freq       float64
	octaves    int
	seed       int64
	turbulence bool
}

// NewField creates a noise field.
//
// freq is the base spatial frequency in cycles per pixel; non-finite or
// negative values are treated as zero, which yields a constant field.
// octaves is clamped to [1, 8]. turbulence folds each octave's value
// through |2n-1| before accumulation, which produces the characteristic
// billowy look; otherwise the smooth fractal sum is returned directly.
func NewField(freq float64, octaves int, seed int64, turbulence bool) *Field {
	if math.IsNaN(freq) || math.IsInf(freq, 0) || freq < 0 {
		freq = 0
	}
	if octaves < minOctaves {
		octaves = minOctaves
	}
	if octaves > maxOctaves {
		octaves = maxOctaves
	}
	return &Field{freq: freq, octaves: octaves, seed: seed, turbulence: turbulence}
}

// At samples the field at pixel coordinates (x, y). The result is in
// [0, 1].
func (f *Field) At(x, y float64) float64 {
	freq := f.freq
	amp := 1.0
	sum := 0.0
	norm := 0.0
	for o := 0; o < f.octaves; o++ {
		n := f.lattice(x*freq, y*freq, int64(o))
		if f.turbulence {
			n = math.Abs(2*n - 1)
		}
		sum += amp * n
		norm += amp
		amp /= 2
		freq *= 2
	}
	n := sum / norm
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// lattice evaluates one octave of value noise: hash the four integer
// lattice corners around the point and blend with a quintic fade so the
// field has continuous first and second derivatives at cell borders.
func (f *Field) lattice(x, y float64, octave int64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	tx := fade(x - x0)
	ty := fade(y - y0)

	ix := int64(x0)
	iy := int64(y0)
	seed := f.seed + octave*0x9E3779B9

	v00 := hash01(ix, iy, seed)
	v10 := hash01(ix+1, iy, seed)
	v01 := hash01(ix, iy+1, seed)
	v11 := hash01(ix+1, iy+1, seed)

	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*ty
}

// fade is the quintic smoothstep t^3(t(6t-15)+10).
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// hash01 maps a lattice corner and seed to a uniform value in [0, 1).
// A 64-bit integer mix (splitmix64 finalizer) keeps the output stable
// across architectures.
func hash01(x, y, seed int64) float64 {
	h := uint64(x)*0x632BE59BD9B4E019 ^ uint64(y)*0x9E3779B97F4A7C15 ^ uint64(seed)
	h ^= h >> 30
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 27
	h *= 0x94D049BB133111EB
	h ^= h >> 31
	return float64(h>>11) / float64(1<<53)
}
