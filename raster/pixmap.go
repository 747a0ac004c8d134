package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/gogpu/chartmark"
)

// Pixmap represents a rectangular pixel buffer in non-premultiplied
// RGBA format, 4 bytes per pixel.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a new pixmap with the given dimensions.
// Non-positive dimensions are clamped to zero.
func NewPixmap(width, height int) *Pixmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel sets the color of a single pixel, replacing its value.
func (p *Pixmap) SetPixel(x, y int, c chartmark.RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = clamp8(c.R * 255)
	p.data[i+1] = clamp8(c.G * 255)
	p.data[i+2] = clamp8(c.B * 255)
	p.data[i+3] = clamp8(c.A * 255)
}

// GetPixel returns the color of a single pixel.
// Pixels outside the buffer read as fully transparent black.
func (p *Pixmap) GetPixel(x, y int) chartmark.RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return chartmark.Transparent
	}
	i := (y*p.width + x) * 4
	return chartmark.RGBA{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// BlendPixel composites a color onto a pixel with source-over blending.
func (p *Pixmap) BlendPixel(x, y int, c chartmark.RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height || c.A <= 0 {
		return
	}
	if c.A >= 1 {
		p.SetPixel(x, y, c)
		return
	}
	i := (y*p.width + x) * 4
	dr := float64(p.data[i+0]) / 255
	dg := float64(p.data[i+1]) / 255
	db := float64(p.data[i+2]) / 255
	da := float64(p.data[i+3]) / 255

	// Source-over in premultiplied space, stored straight.
	outA := c.A + da*(1-c.A)
	if outA <= 0 {
		p.data[i+0], p.data[i+1], p.data[i+2], p.data[i+3] = 0, 0, 0, 0
		return
	}
	outR := (c.R*c.A + dr*da*(1-c.A)) / outA
	outG := (c.G*c.A + dg*da*(1-c.A)) / outA
	outB := (c.B*c.A + db*da*(1-c.A)) / outA

	p.data[i+0] = clamp8(outR * 255)
	p.data[i+1] = clamp8(outG * 255)
	p.data[i+2] = clamp8(outB * 255)
	p.data[i+3] = clamp8(outA * 255)
}

// BilinearSample estimates the color at a fractional coordinate by
// weighted averaging of the four surrounding pixels. Sample positions
// outside the buffer contribute fully transparent black.
func (p *Pixmap) BilinearSample(x, y float64) chartmark.RGBA {
	x0 := int(floorf(x))
	y0 := int(floorf(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	c00 := p.GetPixel(x0, y0)
	c10 := p.GetPixel(x0+1, y0)
	c01 := p.GetPixel(x0, y0+1)
	c11 := p.GetPixel(x0+1, y0+1)

	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }
	mix := func(a, b chartmark.RGBA, t float64) chartmark.RGBA {
		// Blend premultiplied so transparent neighbors do not bleed color.
		pa, pb := a.Premultiply(), b.Premultiply()
		out := chartmark.RGBA{
			R: lerp(pa.R, pb.R, t),
			G: lerp(pa.G, pb.G, t),
			B: lerp(pa.B, pb.B, t),
			A: lerp(pa.A, pb.A, t),
		}
		if out.A <= 0 {
			return chartmark.Transparent
		}
		return chartmark.RGBA{R: out.R / out.A, G: out.G / out.A, B: out.B / out.A, A: out.A}
	}

	top := mix(c00, c10, fx)
	bottom := mix(c01, c11, fx)
	return mix(top, bottom, fy)
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c chartmark.RGBA) {
	r := clamp8(c.R * 255)
	g := clamp8(c.G * 255)
	b := clamp8(c.B * 255)
	a := clamp8(c.A * 255)

	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// Clone creates a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	out := NewPixmap(p.width, p.height)
	copy(out.data, p.data)
	return out
}

// ToImage converts the pixmap to an image.NRGBA.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from an image.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	pm := NewPixmap(bounds.Dx(), bounds.Dy())
	for y := 0; y < pm.height; y++ {
		for x := 0; x < pm.width; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			pm.SetPixel(x, y, chartmark.FromColor(c))
		}
	}
	return pm
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return png.Encode(f, p.ToImage())
}

// EncodePNG writes the pixmap as PNG to the given writer.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.ToImage())
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).Color()
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}

// clamp8 converts a 0-255 float to uint8 with clamping.
func clamp8(v float64) uint8 {
	if v < 0 || v != v {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// floorf is math.Floor without the import noise in hot paths.
func floorf(x float64) float64 {
	i := float64(int(x))
	if x < i {
		return i - 1
	}
	return i
}
