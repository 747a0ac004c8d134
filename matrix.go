package chartmark

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
	}
}

// Multiply multiplies two matrices (m * other).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-10 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 &&
		m.D == 0 && m.E == 1 && m.F == 0
}

// SVG returns the matrix in SVG component order (a, b, c, d, e, f), where
// x' = a*x + c*y + e and y' = b*x + d*y + f.
func (m Matrix) SVG() (a, b, c, d, e, f float64) {
	return m.A, m.D, m.B, m.E, m.C, m.F
}

// ParseTransform parses an SVG-style transform list such as
//
//	"translate(10 20) rotate(45) scale(2)"
//
// and returns the product of its functions composed left to right in
// declaration order. Supported functions: translate(x[,y]), scale(x[,y]),
// rotate(deg[,cx,cy]), and matrix(a,b,c,d,e,f). Angles are degrees.
//
// An empty string parses to the identity. Malformed input returns the
// identity along with an error so callers can log and degrade rather
// than fail the mark.
func ParseTransform(s string) (Matrix, error) {
	m := Identity()
	s = strings.TrimSpace(s)
	if s == "" {
		return m, nil
	}

	rest := s
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			return Identity(), fmt.Errorf("transform %q: missing '('", s)
		}
		closeIdx := strings.IndexByte(rest, ')')
		if closeIdx < open {
			return Identity(), fmt.Errorf("transform %q: missing ')'", s)
		}

		name := strings.TrimSpace(rest[:open])
		args, err := parseTransformArgs(rest[open+1 : closeIdx])
		if err != nil {
			return Identity(), fmt.Errorf("transform %q: %w", s, err)
		}

		fn, err := transformFunc(name, args)
		if err != nil {
			return Identity(), fmt.Errorf("transform %q: %w", s, err)
		}
		m = m.Multiply(fn)

		rest = strings.TrimLeft(rest[closeIdx+1:], " \t\n,")
	}
	return m, nil
}

// transformFunc builds the matrix for one transform function.
func transformFunc(name string, args []float64) (Matrix, error) {
	switch name {
	case "translate":
		switch len(args) {
		case 1:
			return Translate(args[0], 0), nil
		case 2:
			return Translate(args[0], args[1]), nil
		}
	case "scale":
		switch len(args) {
		case 1:
			return Scale(args[0], args[0]), nil
		case 2:
			return Scale(args[0], args[1]), nil
		}
	case "rotate":
		rad := args2rad(args)
		switch len(args) {
		case 1:
			return Rotate(rad), nil
		case 3:
			// rotate about (cx, cy)
			m := Translate(args[1], args[2])
			m = m.Multiply(Rotate(rad))
			m = m.Multiply(Translate(-args[1], -args[2]))
			return m, nil
		}
	case "matrix":
		if len(args) == 6 {
			// SVG order: x' = a*x + c*y + e
			return Matrix{
				A: args[0], B: args[2], C: args[4],
				D: args[1], E: args[3], F: args[5],
			}, nil
		}
	default:
		return Identity(), fmt.Errorf("unsupported function %q", name)
	}
	return Identity(), fmt.Errorf("%s: wrong argument count %d", name, len(args))
}

// args2rad converts the leading angle argument from degrees to radians.
func args2rad(args []float64) float64 {
	if len(args) == 0 {
		return 0
	}
	return args[0] * math.Pi / 180
}

// parseTransformArgs splits a comma/whitespace separated number list.
func parseTransformArgs(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	args := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", f)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite number %q", f)
		}
		args = append(args, v)
	}
	return args, nil
}
