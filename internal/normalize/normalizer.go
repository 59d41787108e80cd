// Package normalize decides which proposed transform changes a crop view may
// commit. Policies are pure functions of the proposal and the current state.
package normalize

import (
	"github.com/example/pinchcrop/internal/transform"
	"gonum.org/v1/gonum/spatial/r2"
)

// Normalizer maps a proposed value to the closest admissible one.
//
// Implementations must be pure, idempotent (Normalize(Normalize(x)) ==
// Normalize(x)) and must not panic on degenerate input such as a zero scale.
type Normalizer interface {
	NormalizeScale(proposed float64, current transform.State) float64
	NormalizeTranslation(proposed r2.Vec, current transform.State) r2.Vec
	NormalizeRotation(proposed float64, current transform.State) float64
}

// Funcs adapts plain functions to a Normalizer. A nil field admits every
// proposal unchanged.
type Funcs struct {
	Scale       func(proposed float64, current transform.State) float64
	Translation func(proposed r2.Vec, current transform.State) r2.Vec
	Rotation    func(proposed float64, current transform.State) float64
}

// Identity admits everything.
var Identity Normalizer = Funcs{}

func (f Funcs) NormalizeScale(proposed float64, current transform.State) float64 {
	if f.Scale == nil {
		return proposed
	}
	return f.Scale(proposed, current)
}

func (f Funcs) NormalizeTranslation(proposed r2.Vec, current transform.State) r2.Vec {
	if f.Translation == nil {
		return proposed
	}
	return f.Translation(proposed, current)
}

func (f Funcs) NormalizeRotation(proposed float64, current transform.State) float64 {
	if f.Rotation == nil {
		return proposed
	}
	return f.Rotation(proposed, current)
}

// Override returns a Normalizer that uses the non-nil functions of f and
// falls back to base for the rest. A nil base falls back to Identity.
func Override(base Normalizer, f Funcs) Normalizer {
	if base == nil {
		base = Identity
	}
	if f.Scale == nil {
		f.Scale = base.NormalizeScale
	}
	if f.Translation == nil {
		f.Translation = base.NormalizeTranslation
	}
	if f.Rotation == nil {
		f.Rotation = base.NormalizeRotation
	}
	return f
}

// OrIdentity returns n, or Identity when n is nil.
func OrIdentity(n Normalizer) Normalizer {
	if n == nil {
		return Identity
	}
	return n
}
