package raster

import (
	"math"

	"github.com/gogpu/chartmark"
	"github.com/gogpu/chartmark/internal/noise"
)

// channelSeedOffset decorrelates the per-channel noise fields of one
// turbulence primitive. SVG turbulence produces independent channels;
// offsetting the seed per channel reproduces that cheaply.
var channelSeedOffset = map[chartmark.Channel]int64{
	chartmark.ChannelR: 0,
	chartmark.ChannelG: 1,
	chartmark.ChannelB: 2,
}

// displaceNoise warps src by the turbulence field of the recognized
// noise pipeline. Each output pixel samples the source at a position
// offset by scale*(noise-0.5) in the selected channels, with bilinear
// filtering. Samples outside the source read transparent black. A zero
// or non-finite scale returns an unmodified copy.
func displaceNoise(src *Pixmap, turb *chartmark.Turbulence, disp *chartmark.DisplacementMap) *Pixmap {
	scale := disp.Scale
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return src.Clone()
	}

	fx := channelField(turb, disp.XChannel)
	fy := channelField(turb, disp.YChannel)

	w, h := src.Width(), src.Height()
	out := NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := float64(x)
			py := float64(y)
			sx := px + scale*(sampleChannel(fx, px, py)-0.5)
			sy := py + scale*(sampleChannel(fy, px, py)-0.5)
			out.SetPixel(x, y, src.BilinearSample(sx, sy))
		}
	}
	return out
}

// channelField builds the noise field of one displacement channel.
// The alpha channel has no field: its noise value is the constant 1.
func channelField(turb *chartmark.Turbulence, ch chartmark.Channel) *noise.Field {
	off, ok := channelSeedOffset[ch]
	if !ok {
		return nil
	}
	return noise.NewField(
		turb.BaseFrequency,
		turb.NumOctaves,
		turb.Seed+off,
		turb.Type == chartmark.NoiseTurbulence,
	)
}

// sampleChannel reads one noise channel, treating a nil field as the
// alpha channel's constant 1.
func sampleChannel(f *noise.Field, x, y float64) float64 {
	if f == nil {
		return 1
	}
	return f.At(x, y)
}
