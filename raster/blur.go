package raster

import (
	"math"

	"github.com/gogpu/chartmark"
)

// gaussianKernel returns normalized 1D Gaussian weights for the given
// standard deviation. The radius is ceil(3*sigma), covering 99.7% of
// the distribution. A sigma of 0 or less returns a single-tap identity
// kernel.
func gaussianKernel(sigma float64) []float64 {
	if sigma <= 0 || math.IsNaN(sigma) {
		return []float64{1}
	}
	radius := int(math.Ceil(3 * sigma))
	size := 2*radius + 1
	kernel := make([]float64, size)

	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	for i := 0; i < size; i++ {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / twoSigmaSq)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// BlurPixmap applies a separable Gaussian blur and returns the result.
// The source is not modified. Sigma values of 0 or less return an
// unmodified copy.
func BlurPixmap(src *Pixmap, sigma float64) *Pixmap {
	if sigma <= 0 || math.IsNaN(sigma) {
		return src.Clone()
	}
	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2
	w, h := src.Width(), src.Height()

	// Horizontal pass into a temp buffer, vertical pass into the
	// result. Accumulate premultiplied so transparent pixels do not
	// pull the color toward black.
	tmp := NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tmp.SetPixel(x, y, blurTap(src, kernel, radius, x, y, true))
		}
	}
	out := NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetPixel(x, y, blurTap(tmp, kernel, radius, x, y, false))
		}
	}
	return out
}

// blurTap convolves one pixel along a single axis.
func blurTap(src *Pixmap, kernel []float64, radius, x, y int, horizontal bool) chartmark.RGBA {
	var r, g, b, a float64
	for i, k := range kernel {
		sx, sy := x, y
		if horizontal {
			sx = clampInt(x+i-radius, 0, src.Width()-1)
		} else {
			sy = clampInt(y+i-radius, 0, src.Height()-1)
		}
		c := src.GetPixel(sx, sy).Premultiply()
		r += c.R * k
		g += c.G * k
		b += c.B * k
		a += c.A * k
	}
	if a <= 0 {
		return chartmark.Transparent
	}
	return chartmark.RGBA{R: r / a, G: g / a, B: b / a, A: a}
}

// blurAlpha blurs an 8-bit coverage buffer in place and returns it.
// Used for shadow silhouettes, where only alpha matters.
func blurAlpha(cov []uint8, w, h int, sigma float64) []uint8 {
	if sigma <= 0 || math.IsNaN(sigma) {
		return cov
	}
	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for i, k := range kernel {
				sx := clampInt(x+i-radius, 0, w-1)
				sum += float64(cov[y*w+sx]) * k
			}
			tmp[y*w+x] = sum
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for i, k := range kernel {
				sy := clampInt(y+i-radius, 0, h-1)
				sum += tmp[sy*w+x] * k
			}
			cov[y*w+x] = clamp8(sum)
		}
	}
	return cov
}

// clampInt limits v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
