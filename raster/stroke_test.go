package raster

import (
	"math"
	"testing"

	"github.com/gogpu/chartmark"
)

func TestDashSplitSolid(t *testing.T) {
	pts := []chartmark.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	runs := dashSplit(pts, nil)
	if len(runs) != 1 || len(runs[0]) != 2 {
		t.Fatalf("solid line split: %v", runs)
	}
}

func TestDashSplitAlternates(t *testing.T) {
	pts := []chartmark.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	runs := dashSplit(pts, []float64{2, 3})

	// Pattern 2-on 3-off over length 10: on [0,2] and [5,7].
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2: %v", len(runs), runs)
	}
	if runs[0][0].X != 0 || math.Abs(runs[0][len(runs[0])-1].X-2) > 1e-9 {
		t.Errorf("first dash = %v, want [0,2]", runs[0])
	}
	if math.Abs(runs[1][0].X-5) > 1e-9 || math.Abs(runs[1][len(runs[1])-1].X-7) > 1e-9 {
		t.Errorf("second dash = %v, want [5,7]", runs[1])
	}
}

func TestDashSplitOddPatternRepeats(t *testing.T) {
	pts := []chartmark.Point{{X: 0, Y: 0}, {X: 12, Y: 0}}
	// [2] doubles to [2,2]: dashes at [0,2], [4,6], [8,10].
	runs := dashSplit(pts, []float64{2})
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3: %v", len(runs), runs)
	}
}

func TestDashSplitRejectsDegenerate(t *testing.T) {
	pts := []chartmark.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	for _, dash := range [][]float64{{0, 0}, {-1, 2}, {math.NaN()}, {math.Inf(1)}} {
		runs := dashSplit(pts, dash)
		if len(runs) != 1 || len(runs[0]) != 2 {
			t.Errorf("dash %v: got %v, want passthrough", dash, runs)
		}
	}
}

func TestStrokeOutlineEmpty(t *testing.T) {
	p := chartmark.NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	if out := strokeOutline(p, 0, nil); len(out.Elements()) != 0 {
		t.Error("zero width produced outline geometry")
	}
	if out := strokeOutline(p, math.NaN(), nil); len(out.Elements()) != 0 {
		t.Error("NaN width produced outline geometry")
	}
}

func TestTransformScale(t *testing.T) {
	if got := transformScale(chartmark.Identity()); got != 1 {
		t.Errorf("identity scale = %v, want 1", got)
	}
	if got := transformScale(chartmark.Scale(2, 2)); math.Abs(got-2) > 1e-12 {
		t.Errorf("uniform scale = %v, want 2", got)
	}
	if got := transformScale(chartmark.Scale(0, 5)); got != 0 {
		t.Errorf("singular scale = %v, want 0", got)
	}
}
