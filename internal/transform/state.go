// Package transform holds the similarity transform state of a crop view:
// rotation, uniform scale and translation, and the matrix algebra to move
// between that state and a 2D affine matrix.
package transform

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// Tolerances used by Decompose. Matrices built by Compose land well inside
// them; anything outside was assembled by hand.
const (
	orthoTolerance = 1e-9
	scaleTolerance = 1e-9
)

// State is the transform applied to the content of a crop view. Translation
// is in view coordinates with the origin at the view centre.
//
// Rotation is not normalized to [0, 2π). Scale is expected to be positive
// but zero is tolerated everywhere.
type State struct {
	Rotation    float64
	Scale       float64
	Translation r2.Vec
}

// Identity is the untransformed state.
var Identity = State{Scale: 1}

// Equal reports exact component-wise equality. It is used to decide whether
// a normalizer accepted a proposal unchanged, so it has no tolerance.
func (s State) Equal(o State) bool {
	return s.Rotation == o.Rotation &&
		s.Scale == o.Scale &&
		s.Translation == o.Translation
}

// EqualWithin reports whether every component of s and o agrees within tol,
// absolute or relative.
func (s State) EqualWithin(o State, tol float64) bool {
	eq := func(a, b float64) bool { return scalar.EqualWithinAbsOrRel(a, b, tol, tol) }
	return eq(s.Rotation, o.Rotation) &&
		eq(s.Scale, o.Scale) &&
		eq(s.Translation.X, o.Translation.X) &&
		eq(s.Translation.Y, o.Translation.Y)
}

// Compose returns translate(T) * rotate(θ) * scale(s). Content is scaled
// first, then rotated, then translated; the order is fixed.
func (s State) Compose() Matrix {
	return TranslateVec(s.Translation).
		Multiply(Rotate(s.Rotation)).
		Multiply(Scale(s.Scale, s.Scale))
}

// Decompose recovers a State from a matrix in the similarity group.
// It returns *DistortedTransformError for shear or mirroring and
// *AnisotropicScaleError for non-uniform scale.
func Decompose(m Matrix) (State, error) {
	x := r2.Vec{X: m.A, Y: m.D}
	y := r2.Vec{X: m.B, Y: m.E}

	sx := r2.Norm(x)
	sy := r2.Norm(y)

	inner := r2.Dot(x, y)
	if math.Abs(inner) > orthoTolerance*math.Max(1, sx*sy) {
		return State{}, &DistortedTransformError{InnerProduct: inner, Determinant: m.Determinant()}
	}
	if !scalar.EqualWithinAbsOrRel(sx, sy, scaleTolerance, scaleTolerance) {
		return State{}, &AnisotropicScaleError{ScaleX: sx, ScaleY: sy}
	}
	if det := m.Determinant(); det < 0 && !scalar.EqualWithinAbs(det, 0, orthoTolerance) {
		return State{}, &DistortedTransformError{InnerProduct: inner, Determinant: det}
	}

	var rotation float64
	if sx != 0 {
		rotation = math.Atan2(x.Y, x.X)
	}
	return State{
		Rotation:    rotation,
		Scale:       sx,
		Translation: r2.Vec{X: m.C, Y: m.F},
	}, nil
}

// MustDecompose is like Decompose but panics on matrices outside the
// similarity group.
func MustDecompose(m Matrix) State {
	s, err := Decompose(m)
	if err != nil {
		panic(err)
	}
	return s
}

// Frame returns the axis-aligned bounds, in view coordinates with the origin
// at the view's top-left corner, of content drawn with s inside a view of
// the given size.
func (s State) Frame(content, view Size) Rect {
	hw, hh := content.W/2, content.H/2
	m := TranslateVec(r2.Add(s.Translation, view.Center())).Multiply(s.Compose().linear())
	corners := [4]r2.Vec{
		m.TransformPoint(r2.Vec{X: -hw, Y: -hh}),
		m.TransformPoint(r2.Vec{X: hw, Y: -hh}),
		m.TransformPoint(r2.Vec{X: hw, Y: hh}),
		m.TransformPoint(r2.Vec{X: -hw, Y: hh}),
	}
	return boundingRect(corners[:])
}

// DefaultFrame is the frame of content drawn with the identity state.
func DefaultFrame(content, view Size) Rect {
	return Identity.Frame(content, view)
}

func (m Matrix) linear() Matrix {
	m.C, m.F = 0, 0
	return m
}
