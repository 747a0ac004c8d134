package chartmark

// PrimitiveKind identifies a filter primitive variant.
type PrimitiveKind uint8

const (
	// PrimitiveDropShadow offsets and blurs the mark's silhouette.
	PrimitiveDropShadow PrimitiveKind = iota
	// PrimitiveGaussianBlur blurs the mark.
	PrimitiveGaussianBlur
	// PrimitiveTurbulence generates a seeded noise field.
	PrimitiveTurbulence
	// PrimitiveDisplacementMap warps the mark by a noise field.
	PrimitiveDisplacementMap
)

// primitiveKindNames maps PrimitiveKind values to their wire names.
var primitiveKindNames = [...]string{
	PrimitiveDropShadow:      "dropShadow",
	PrimitiveGaussianBlur:    "gaussianBlur",
	PrimitiveTurbulence:      "turbulence",
	PrimitiveDisplacementMap: "displacementMap",
}

// String returns the wire name of the primitive kind.
func (k PrimitiveKind) String() string {
	if int(k) < len(primitiveKindNames) {
		return primitiveKindNames[k]
	}
	return "unknown"
}

// NoiseType selects the noise flavor of a turbulence primitive.
type NoiseType uint8

const (
	// NoiseTurbulence folds each octave's signed value through |2n-1|.
	NoiseTurbulence NoiseType = iota
	// NoiseFractal accumulates octaves without folding.
	NoiseFractal
)

// Channel selects a color channel of a noise field.
type Channel uint8

const (
	// ChannelR samples the red noise channel.
	ChannelR Channel = iota
	// ChannelG samples the green noise channel.
	ChannelG
	// ChannelB samples the blue noise channel.
	ChannelB
	// ChannelA is fixed at a noise value of 1.
	ChannelA
)

// FilterPrimitive is one step of a filter def. It is a sealed interface:
// the only implementations are DropShadow, GaussianBlur, Turbulence, and
// DisplacementMap.
type FilterPrimitive interface {
	// primitiveVariant seals the interface to this package.
	primitiveVariant()

	// Kind returns the variant tag.
	Kind() PrimitiveKind
}

// DropShadow offsets and blurs the mark's silhouette and paints it in the
// flood color beneath the mark.
type DropShadow struct {
	DX, DY       float64
	StdDeviation float64
	FloodColor   string
	FloodOpacity *float64
}

func (*DropShadow) primitiveVariant() {}

// Kind implements FilterPrimitive.
func (*DropShadow) Kind() PrimitiveKind { return PrimitiveDropShadow }

// GaussianBlur blurs the mark by StdDeviation pixels.
type GaussianBlur struct {
	StdDeviation float64
}

func (*GaussianBlur) primitiveVariant() {}

// Kind implements FilterPrimitive.
func (*GaussianBlur) Kind() PrimitiveKind { return PrimitiveGaussianBlur }

// Turbulence generates a seeded multi-octave noise field named by Result.
type Turbulence struct {
	BaseFrequency float64
	NumOctaves    int
	Seed          int64
	Type          NoiseType
	Result        string
}

func (*Turbulence) primitiveVariant() {}

// Kind implements FilterPrimitive.
func (*Turbulence) Kind() PrimitiveKind { return PrimitiveTurbulence }

// DisplacementMap warps the input named In by the noise field named In2,
// moving each pixel's sampling position by Scale times the selected
// channels' noise values.
type DisplacementMap struct {
	In, In2  string
	Scale    float64
	XChannel Channel
	YChannel Channel
}

func (*DisplacementMap) primitiveVariant() {}

// Kind implements FilterPrimitive.
func (*DisplacementMap) Kind() PrimitiveKind { return PrimitiveDisplacementMap }

// NoisePipeline is the recognized turbulence + displacement-map filter
// shape: exactly one turbulence feeding exactly one displacement map,
// optionally preceded by one blur or one drop shadow.
type NoisePipeline struct {
	Turbulence   *Turbulence
	Displacement *DisplacementMap
	Blur         *GaussianBlur
	Shadow       *DropShadow
}

// sourceGraphic is the implicit name of the unfiltered mark rendering.
const sourceGraphic = "SourceGraphic"

// NoisePipeline reports whether the filter's primitives reduce to the
// recognized noise-displacement pipeline. Any other combination that
// contains a turbulence or displacement-map primitive is unsupported;
// it must be skipped by backends, never approximated.
func (d *FilterDef) NoisePipeline() (NoisePipeline, bool) {
	var pipe NoisePipeline
	for _, prim := range d.Primitives {
		switch p := prim.(type) {
		case *Turbulence:
			if pipe.Turbulence != nil {
				return NoisePipeline{}, false
			}
			pipe.Turbulence = p
		case *DisplacementMap:
			if pipe.Displacement != nil {
				return NoisePipeline{}, false
			}
			pipe.Displacement = p
		case *GaussianBlur:
			if pipe.Blur != nil || pipe.Shadow != nil || pipe.Displacement != nil {
				return NoisePipeline{}, false
			}
			pipe.Blur = p
		case *DropShadow:
			if pipe.Blur != nil || pipe.Shadow != nil || pipe.Displacement != nil {
				return NoisePipeline{}, false
			}
			pipe.Shadow = p
		}
	}
	if pipe.Turbulence == nil || pipe.Displacement == nil {
		return NoisePipeline{}, false
	}
	// The displacement must read the unfiltered source and the
	// turbulence's named result.
	if in := pipe.Displacement.In; in != "" && in != sourceGraphic {
		return NoisePipeline{}, false
	}
	if pipe.Displacement.In2 != pipe.Turbulence.Result {
		return NoisePipeline{}, false
	}
	return pipe, true
}

// BasicOnly reports whether the filter consists solely of drop-shadow and
// gaussian-blur primitives, which map directly to native raster state.
func (d *FilterDef) BasicOnly() bool {
	for _, prim := range d.Primitives {
		switch prim.Kind() {
		case PrimitiveDropShadow, PrimitiveGaussianBlur:
		default:
			return false
		}
	}
	return true
}
