// Package modelfile loads render models from TOML documents.
//
// The on-disk form mirrors the model types, with marks and defs as
// arrays of tables discriminated by a kind field:
//
//	width = 640
//	height = 480
//
//	[[marks]]
//	kind = "rect"
//	id = "bar0"
//	x = 10
//	y = 20
//	w = 40
//	h = 200
//	fill = "url(#grad)"
//
//	[[defs]]
//	kind = "linearGradient"
//	id = "grad"
//	x2 = 1
//	stops = [{ offset = 0.0, color = "#4e79a7" }]
package modelfile

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/chartmark"
)

type stopSpec struct {
	Offset  float64  `toml:"offset"`
	Color   string   `toml:"color"`
	Opacity *float64 `toml:"opacity"`
}

type primitiveSpec struct {
	Kind string `toml:"kind"`

	DX           float64  `toml:"dx"`
	DY           float64  `toml:"dy"`
	StdDeviation float64  `toml:"std_deviation"`
	FloodColor   string   `toml:"flood_color"`
	FloodOpacity *float64 `toml:"flood_opacity"`

	BaseFrequency float64 `toml:"base_frequency"`
	NumOctaves    int     `toml:"num_octaves"`
	Seed          int64   `toml:"seed"`
	Type          string  `toml:"type"`
	Result        string  `toml:"result"`

	In       string  `toml:"in"`
	In2      string  `toml:"in2"`
	Scale    float64 `toml:"scale"`
	XChannel string  `toml:"x_channel"`
	YChannel string  `toml:"y_channel"`
}

type markSpec struct {
	Kind string `toml:"kind"`
	ID   string `toml:"id"`

	X  float64 `toml:"x"`
	Y  float64 `toml:"y"`
	W  float64 `toml:"w"`
	H  float64 `toml:"h"`
	RX float64 `toml:"rx"`
	RY float64 `toml:"ry"`

	CX float64 `toml:"cx"`
	CY float64 `toml:"cy"`
	R  float64 `toml:"r"`

	X1 float64 `toml:"x1"`
	Y1 float64 `toml:"y1"`
	X2 float64 `toml:"x2"`
	Y2 float64 `toml:"y2"`

	D string `toml:"d"`

	Text string  `toml:"text"`
	Size float64 `toml:"size"`

	Opacity       *float64  `toml:"opacity"`
	Fill          string    `toml:"fill"`
	FillOpacity   *float64  `toml:"fill_opacity"`
	Stroke        string    `toml:"stroke"`
	StrokeOpacity *float64  `toml:"stroke_opacity"`
	StrokeWidth   float64   `toml:"stroke_width"`
	Dash          []float64 `toml:"dash"`
	Clip          string    `toml:"clip"`
	Mask          string    `toml:"mask"`
	Filter        string    `toml:"filter"`
}

type defSpec struct {
	Kind string `toml:"kind"`
	ID   string `toml:"id"`

	X  float64 `toml:"x"`
	Y  float64 `toml:"y"`
	W  float64 `toml:"w"`
	H  float64 `toml:"h"`
	RX float64 `toml:"rx"`
	RY float64 `toml:"ry"`
	X1 float64 `toml:"x1"`
	Y1 float64 `toml:"y1"`
	X2 float64 `toml:"x2"`
	Y2 float64 `toml:"y2"`

	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	Units        string  `toml:"units"`
	ContentUnits string  `toml:"content_units"`
	Transform    string  `toml:"transform"`

	Stops      []stopSpec      `toml:"stops"`
	Marks      []markSpec      `toml:"marks"`
	Primitives []primitiveSpec `toml:"primitives"`
}

type document struct {
	Width   float64    `toml:"width"`
	Height  float64    `toml:"height"`
	Summary string     `toml:"summary"`
	Marks   []markSpec `toml:"marks"`
	Defs    []defSpec  `toml:"defs"`
}

// Load reads and decodes a model from a TOML file.
func Load(path string) (*chartmark.RenderModel, error) {
	f, err := os.Open(path) //nolint:gosec // CLI input path
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode decodes a model from TOML text.
func Decode(r io.Reader) (*chartmark.RenderModel, error) {
	var doc document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	model := &chartmark.RenderModel{
		Width:   doc.Width,
		Height:  doc.Height,
		Summary: doc.Summary,
	}
	for i, ms := range doc.Marks {
		mark, err := buildMark(ms)
		if err != nil {
			return nil, fmt.Errorf("marks[%d]: %w", i, err)
		}
		model.Marks = append(model.Marks, mark)
	}
	for i, ds := range doc.Defs {
		def, err := buildDef(ds)
		if err != nil {
			return nil, fmt.Errorf("defs[%d]: %w", i, err)
		}
		model.Defs = append(model.Defs, def)
	}
	return model, nil
}

func buildStyle(ms markSpec) chartmark.Style {
	return chartmark.Style{
		Opacity:       ms.Opacity,
		Fill:          ms.Fill,
		FillOpacity:   ms.FillOpacity,
		Stroke:        ms.Stroke,
		StrokeOpacity: ms.StrokeOpacity,
		StrokeWidth:   ms.StrokeWidth,
		Dash:          ms.Dash,
		Clip:          ms.Clip,
		Mask:          ms.Mask,
		Filter:        ms.Filter,
	}
}

func buildMark(ms markSpec) (chartmark.Mark, error) {
	style := buildStyle(ms)
	switch ms.Kind {
	case "rect":
		return &chartmark.RectMark{ID: ms.ID, X: ms.X, Y: ms.Y, W: ms.W, H: ms.H,
			RX: ms.RX, RY: ms.RY, Style: style}, nil
	case "circle":
		return &chartmark.CircleMark{ID: ms.ID, CX: ms.CX, CY: ms.CY, R: ms.R, Style: style}, nil
	case "line":
		return &chartmark.LineMark{ID: ms.ID, X1: ms.X1, Y1: ms.Y1, X2: ms.X2, Y2: ms.Y2, Style: style}, nil
	case "path":
		return &chartmark.PathMark{ID: ms.ID, D: ms.D, Style: style}, nil
	case "text":
		return &chartmark.TextMark{ID: ms.ID, X: ms.X, Y: ms.Y, Text: ms.Text, Size: ms.Size, Style: style}, nil
	default:
		return nil, fmt.Errorf("unknown mark kind %q", ms.Kind)
	}
}

func buildDef(ds defSpec) (chartmark.Def, error) {
	switch ds.Kind {
	case "linearGradient":
		stops := make([]chartmark.GradientStop, len(ds.Stops))
		for i, s := range ds.Stops {
			stops[i] = chartmark.GradientStop{Offset: s.Offset, Color: s.Color, Opacity: s.Opacity}
		}
		return &chartmark.LinearGradientDef{ID: ds.ID,
			X1: ds.X1, Y1: ds.Y1, X2: ds.X2, Y2: ds.Y2, Stops: stops}, nil

	case "clipRect":
		return &chartmark.ClipRectDef{ID: ds.ID,
			X: ds.X, Y: ds.Y, W: ds.W, H: ds.H, RX: ds.RX, RY: ds.RY}, nil

	case "pattern":
		units, err := parseUnits(ds.Units)
		if err != nil {
			return nil, err
		}
		marks, err := buildSubMarks(ds.Marks)
		if err != nil {
			return nil, err
		}
		return &chartmark.PatternDef{ID: ds.ID, X: ds.X, Y: ds.Y,
			Width: ds.Width, Height: ds.Height, Units: units,
			Transform: ds.Transform, Marks: marks}, nil

	case "mask":
		units, err := parseUnits(ds.Units)
		if err != nil {
			return nil, err
		}
		contentUnits, err := parseUnits(ds.ContentUnits)
		if err != nil {
			return nil, err
		}
		marks, err := buildSubMarks(ds.Marks)
		if err != nil {
			return nil, err
		}
		return &chartmark.MaskDef{ID: ds.ID, Width: ds.Width, Height: ds.Height,
			Units: units, ContentUnits: contentUnits, Marks: marks}, nil

	case "filter":
		prims := make([]chartmark.FilterPrimitive, len(ds.Primitives))
		for i, ps := range ds.Primitives {
			prim, err := buildPrimitive(ps)
			if err != nil {
				return nil, fmt.Errorf("primitives[%d]: %w", i, err)
			}
			prims[i] = prim
		}
		return &chartmark.FilterDef{ID: ds.ID, Primitives: prims}, nil

	default:
		return nil, fmt.Errorf("unknown def kind %q", ds.Kind)
	}
}

func buildSubMarks(specs []markSpec) ([]chartmark.Mark, error) {
	marks := make([]chartmark.Mark, len(specs))
	for i, ms := range specs {
		m, err := buildMark(ms)
		if err != nil {
			return nil, fmt.Errorf("marks[%d]: %w", i, err)
		}
		marks[i] = m
	}
	return marks, nil
}

func buildPrimitive(ps primitiveSpec) (chartmark.FilterPrimitive, error) {
	switch ps.Kind {
	case "dropShadow":
		return &chartmark.DropShadow{DX: ps.DX, DY: ps.DY,
			StdDeviation: ps.StdDeviation,
			FloodColor:   ps.FloodColor, FloodOpacity: ps.FloodOpacity}, nil
	case "gaussianBlur":
		return &chartmark.GaussianBlur{StdDeviation: ps.StdDeviation}, nil
	case "turbulence":
		nt := chartmark.NoiseTurbulence
		switch ps.Type {
		case "", "turbulence":
		case "fractalNoise":
			nt = chartmark.NoiseFractal
		default:
			return nil, fmt.Errorf("unknown noise type %q", ps.Type)
		}
		return &chartmark.Turbulence{BaseFrequency: ps.BaseFrequency,
			NumOctaves: ps.NumOctaves, Seed: ps.Seed, Type: nt, Result: ps.Result}, nil
	case "displacementMap":
		xc, err := parseChannel(ps.XChannel)
		if err != nil {
			return nil, err
		}
		yc, err := parseChannel(ps.YChannel)
		if err != nil {
			return nil, err
		}
		return &chartmark.DisplacementMap{In: ps.In, In2: ps.In2,
			Scale: ps.Scale, XChannel: xc, YChannel: yc}, nil
	default:
		return nil, fmt.Errorf("unknown primitive kind %q", ps.Kind)
	}
}

func parseUnits(s string) (chartmark.Units, error) {
	switch s {
	case "", "userSpaceOnUse":
		return chartmark.UserSpaceOnUse, nil
	case "objectBoundingBox":
		return chartmark.ObjectBoundingBox, nil
	default:
		return 0, fmt.Errorf("unknown units %q", s)
	}
}

func parseChannel(s string) (chartmark.Channel, error) {
	switch s {
	case "R", "":
		return chartmark.ChannelR, nil
	case "G":
		return chartmark.ChannelG, nil
	case "B":
		return chartmark.ChannelB, nil
	case "A":
		return chartmark.ChannelA, nil
	default:
		return 0, fmt.Errorf("unknown channel %q", s)
	}
}
