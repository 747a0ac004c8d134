package raster

// Mask is an 8-bit coverage buffer used for clipping. 255 means fully
// inside, 0 fully outside.
type Mask struct {
	width  int
	height int
	data   []uint8
}

// NewMask creates a mask with all pixels outside.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
	}
}

// NewOpaqueMask creates a mask with all pixels fully inside.
func NewOpaqueMask(width, height int) *Mask {
	m := NewMask(width, height)
	for i := range m.data {
		m.data[i] = 255
	}
	return m
}

// Width returns the mask width.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height.
func (m *Mask) Height() int { return m.height }

// Data returns the raw coverage bytes.
func (m *Mask) Data() []uint8 { return m.data }

// At returns the coverage at (x, y). Out-of-bounds reads are 0.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.data[y*m.width+x]
}

// Set stores coverage at (x, y). Out-of-bounds writes are dropped.
func (m *Mask) Set(x, y int, v uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.data[y*m.width+x] = v
}

// Intersect multiplies this mask by another in place. Nested clips
// compose by coverage product, which keeps anti-aliased edges smooth.
func (m *Mask) Intersect(other *Mask) {
	if other == nil {
		return
	}
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			i := y*m.width + x
			o := uint16(other.At(x, y))
			m.data[i] = uint8((uint16(m.data[i])*o + 127) / 255)
		}
	}
}

// Clone creates a deep copy.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.width, m.height)
	copy(out.data, m.data)
	return out
}
