package transform

import (
	"math"

	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/spatial/r2"
)

// Matrix is a 2D affine transform stored as the top two rows of a 3x3
// matrix in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// A point (x, y) maps to (A*x + B*y + C, D*x + E*y + F). The layout matches
// f64.Aff3 so a Matrix can be handed to golang.org/x/image/draw directly.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// IdentityMatrix returns the identity transform.
func IdentityMatrix() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate returns a translation by (x, y).
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// TranslateVec returns a translation by v.
func TranslateVec(v r2.Vec) Matrix {
	return Translate(v.X, v.Y)
}

// Scale returns a scale by (x, y). Callers inside the similarity group
// always pass x == y.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// Rotate returns a rotation by angle radians. With y pointing down a
// positive angle turns clockwise on screen.
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// Shear returns a shear matrix. It exists to build transforms outside the
// similarity group, mostly in tests of Decompose.
func Shear(x, y float64) Matrix {
	return Matrix{A: 1, B: x, D: y, E: 1}
}

// Multiply returns m * other: other is applied first, then m.
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

// About conjugates m with a translation so that pivot is its fixed point:
// translate(pivot) * m * translate(-pivot).
func (m Matrix) About(pivot r2.Vec) Matrix {
	return TranslateVec(pivot).Multiply(m).Multiply(Translate(-pivot.X, -pivot.Y))
}

// TransformPoint applies m to a point.
func (m Matrix) TransformPoint(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// TransformVector applies m to a vector, ignoring translation.
func (m Matrix) TransformVector(v r2.Vec) r2.Vec {
	return r2.Vec{
		X: m.A*v.X + m.B*v.Y,
		Y: m.D*v.X + m.E*v.Y,
	}
}

// Determinant returns the determinant of the linear part.
func (m Matrix) Determinant() float64 {
	return m.A*m.E - m.B*m.D
}

// Invert returns the inverse of m and false when m is singular.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Matrix{}, false
	}
	inv := 1 / det
	return Matrix{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
	}, true
}

// Aff3 converts m for use with golang.org/x/image/draw.Transformer.
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
}
