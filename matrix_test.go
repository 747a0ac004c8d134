package chartmark

import (
	"math"
	"testing"
)

func matClose(a, b Matrix, eps float64) bool {
	return math.Abs(a.A-b.A) <= eps && math.Abs(a.B-b.B) <= eps &&
		math.Abs(a.C-b.C) <= eps && math.Abs(a.D-b.D) <= eps &&
		math.Abs(a.E-b.E) <= eps && math.Abs(a.F-b.F) <= eps
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// Translate then scale: the point (1,1) lands at (2*(1+10), 2*(1+20)).
	m := Scale(2, 2).Multiply(Translate(10, 20))
	got := m.TransformPoint(Pt(1, 1))
	if got.X != 22 || got.Y != 42 {
		t.Errorf("point = %+v, want (22, 42)", got)
	}
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Translate(3, -7).Multiply(Rotate(0.6)).Multiply(Scale(2, 0.5))
	p := Pt(13, 4)
	back := m.Invert().TransformPoint(m.TransformPoint(p))
	if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
		t.Errorf("round trip = %+v, want %+v", back, p)
	}
}

func TestMatrixInvertSingular(t *testing.T) {
	if got := Scale(0, 1).Invert(); !got.IsIdentity() {
		t.Errorf("singular inverse = %+v, want identity", got)
	}
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Matrix
	}{
		{"empty", "", Identity()},
		{"translate", "translate(10 20)", Translate(10, 20)},
		{"translate one arg", "translate(5)", Translate(5, 0)},
		{"scale uniform", "scale(2)", Scale(2, 2)},
		{"scale xy", "scale(2, 3)", Scale(2, 3)},
		{"matrix", "matrix(1 0 0 1 7 9)", Translate(7, 9)},
		{"composed", "translate(10 0) scale(2)", Translate(10, 0).Multiply(Scale(2, 2))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTransform(tt.in)
			if err != nil {
				t.Fatalf("ParseTransform(%q): %v", tt.in, err)
			}
			if !matClose(got, tt.want, 1e-12) {
				t.Errorf("ParseTransform(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTransformRotate45(t *testing.T) {
	m, err := ParseTransform("rotate(45)")
	if err != nil {
		t.Fatal(err)
	}
	a, b, c, d, _, _ := m.SVG()
	cos45 := math.Sqrt2 / 2
	if math.Abs(a-cos45) > 1e-12 || math.Abs(d-cos45) > 1e-12 {
		t.Errorf("diagonal = %v, %v, want both %v", a, d, cos45)
	}
	if math.Abs(b-cos45) > 1e-12 || math.Abs(c+cos45) > 1e-12 {
		t.Errorf("off-diagonal = %v, %v, want %v and %v", b, c, cos45, -cos45)
	}
}

func TestParseTransformRotateAboutCenter(t *testing.T) {
	m, err := ParseTransform("rotate(90, 10, 10)")
	if err != nil {
		t.Fatal(err)
	}
	// Rotating (20,10) a quarter turn about (10,10) gives (10,20).
	got := m.TransformPoint(Pt(20, 10))
	if math.Abs(got.X-10) > 1e-9 || math.Abs(got.Y-20) > 1e-9 {
		t.Errorf("rotated point = %+v, want (10, 20)", got)
	}
}

func TestParseTransformComposedLeftToRight(t *testing.T) {
	m, err := ParseTransform("translate(10 0) rotate(90)")
	if err != nil {
		t.Fatal(err)
	}
	// The point (1,0) rotates to (0,1), then the translation applies in
	// the outer frame: (10, 1).
	got := m.TransformPoint(Pt(1, 0))
	if math.Abs(got.X-10) > 1e-9 || math.Abs(got.Y-1) > 1e-9 {
		t.Errorf("point = %+v, want (10, 1)", got)
	}
}

func TestParseTransformMalformed(t *testing.T) {
	for _, in := range []string{
		"rotate(45",
		"frobnicate(1)",
		"scale()",
		"translate(1 2 3)",
		"matrix(1 2 3)",
		"scale(NaN)",
		"translate(Inf)",
	} {
		m, err := ParseTransform(in)
		if err == nil {
			t.Errorf("ParseTransform(%q): expected error", in)
		}
		if !m.IsIdentity() {
			t.Errorf("ParseTransform(%q) = %+v, want identity on error", in, m)
		}
	}
}
