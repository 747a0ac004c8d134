package chartmark

import (
	"math"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"#ff0000", RGBA{R: 1, A: 1}},
		{"00ff00", RGBA{G: 1, A: 1}},
		{"#00f", RGBA{B: 1, A: 1}},
		{"#0f0f", RGBA{G: 1, A: 1}},
		{"#ff000080", RGBA{R: 1, A: float64(0x80) / 255}},
		{"not-a-color", RGBA{A: 1}},
		{"", RGBA{A: 1}},
	}
	for _, tt := range tests {
		got := Hex(tt.in)
		if math.Abs(got.R-tt.want.R) > 1e-9 || math.Abs(got.G-tt.want.G) > 1e-9 ||
			math.Abs(got.B-tt.want.B) > 1e-9 || math.Abs(got.A-tt.want.A) > 1e-9 {
			t.Errorf("Hex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestScaleAlpha(t *testing.T) {
	c := RGBA{R: 0.2, G: 0.4, B: 0.6, A: 0.8}
	got := c.ScaleAlpha(0.5)
	if got.R != 0.2 || got.G != 0.4 || got.B != 0.6 {
		t.Errorf("ScaleAlpha changed RGB: %+v", got)
	}
	if math.Abs(got.A-0.4) > 1e-12 {
		t.Errorf("alpha = %v, want 0.4", got.A)
	}
	if got := c.ScaleAlpha(2); got.A != 0.8 {
		t.Errorf("factor clamps to 1, alpha = %v", got.A)
	}
	if got := c.ScaleAlpha(-1); got.A != 0 {
		t.Errorf("negative factor clamps to 0, alpha = %v", got.A)
	}
}

func TestColorRoundTrip(t *testing.T) {
	in := RGBA{R: 0.25, G: 0.5, B: 0.75, A: 1}
	out := FromColor(in.Color())
	if math.Abs(out.R-in.R) > 0.01 || math.Abs(out.G-in.G) > 0.01 ||
		math.Abs(out.B-in.B) > 0.01 || math.Abs(out.A-in.A) > 0.01 {
		t.Errorf("round trip %+v -> %+v", in, out)
	}
}

func TestLerp(t *testing.T) {
	a := RGBA{A: 1}
	b := RGBA{R: 1, G: 1, B: 1, A: 0}
	mid := a.Lerp(b, 0.5)
	if mid.R != 0.5 || mid.A != 0.5 {
		t.Errorf("midpoint = %+v", mid)
	}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("t=0 should return the receiver, got %+v", got)
	}
}
