package raster

import (
	"testing"

	"github.com/gogpu/chartmark"
)

func TestTileSizeRoundsUp(t *testing.T) {
	tests := []struct {
		w, h   float64
		pw, ph int
	}{
		{4, 4, 4, 4},
		{4.4, 2.2, 5, 3},
		{0.3, 0.9, 1, 1},
	}
	for _, tt := range tests {
		def := &chartmark.PatternDef{Width: tt.w, Height: tt.h}
		pw, ph := tileSize(def)
		if pw != tt.pw || ph != tt.ph {
			t.Errorf("tileSize(%gx%g) = %dx%d, want %dx%d",
				tt.w, tt.h, pw, ph, tt.pw, tt.ph)
		}
	}
}

func TestPatternUsable(t *testing.T) {
	tests := []struct {
		name string
		def  chartmark.PatternDef
		want bool
	}{
		{"user space", chartmark.PatternDef{Width: 4, Height: 4}, true},
		{"bounding box units", chartmark.PatternDef{Width: 0.5, Height: 0.5,
			Units: chartmark.ObjectBoundingBox}, false},
		{"zero width", chartmark.PatternDef{Width: 0, Height: 4}, false},
		{"negative height", chartmark.PatternDef{Width: 4, Height: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := patternUsable(&tt.def); got != tt.want {
				t.Errorf("patternUsable = %v, want %v", got, tt.want)
			}
		})
	}
}
