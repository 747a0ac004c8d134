package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResample(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		target int
		want   []float64
	}{
		{"identity", []float64{1, 2, 3}, 3, []float64{1, 2, 3}},
		{"downsample", []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 4, []float64{0, 3, 6, 9}},
		{"upsample", []float64{10, 20}, 5, []float64{10, 10, 20, 20, 20}},
		{"single target", []float64{7, 8, 9}, 1, []float64{7}},
		{"zero target", []float64{1, 2}, 0, []float64{}},
		{"negative target", []float64{1, 2}, -4, []float64{}},
		{"empty series", []float64{}, 5, []float64{}},
		{"single source", []float64{42}, 3, []float64{42, 42, 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resample(tt.series, tt.target)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resample() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResampleEndpointsPreserved(t *testing.T) {
	series := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}
	for target := 2; target <= 40; target++ {
		got := Resample(series, target)
		if len(got) != target {
			t.Fatalf("Resample(len=%d, %d) has length %d", len(series), target, len(got))
		}
		if got[0] != series[0] {
			t.Errorf("target %d: first = %v, want %v", target, got[0], series[0])
		}
		if got[len(got)-1] != series[len(series)-1] {
			t.Errorf("target %d: last = %v, want %v", target, got[len(got)-1], series[len(series)-1])
		}
	}
}
