package normalize

import (
	"math"

	"github.com/example/pinchcrop/internal/transform"
	"gonum.org/v1/gonum/spatial/r2"
)

// Defaults for Viewport.
const (
	DefaultFitInset       = 50
	DefaultEdgeMargin     = 5
	DefaultMinScaleFactor = 0.3
	DefaultMaxScaleFactor = 8.0
)

// Geometry reports the live viewport and content sizes a Viewport policy
// measures against.
type Geometry func() (viewport, content transform.Size)

// Viewport keeps content reachable inside a view.
//
// Scale is clamped to [nice*MinScaleFactor, max(1, nice*MaxScaleFactor)]
// where nice is the aspect-fit scale of the content into the viewport inset
// by FitInset on every side. Translation is clamped per axis so that at least
// EdgeMargin of the content's shorter edge stays on screen. Rotation is free
// unless SnapAngle is positive.
type Viewport struct {
	Geometry Geometry

	FitInset       float64
	EdgeMargin     float64
	MinScaleFactor float64
	MaxScaleFactor float64

	// SnapAngle, when positive, rounds rotations to its nearest multiple.
	SnapAngle float64
}

// NewViewport returns a Viewport with the default margins and factors.
func NewViewport(g Geometry) *Viewport {
	return &Viewport{
		Geometry:       g,
		FitInset:       DefaultFitInset,
		EdgeMargin:     DefaultEdgeMargin,
		MinScaleFactor: DefaultMinScaleFactor,
		MaxScaleFactor: DefaultMaxScaleFactor,
	}
}

// Fixed returns a Geometry for sizes that never change.
func Fixed(viewport, content transform.Size) Geometry {
	return func() (transform.Size, transform.Size) { return viewport, content }
}

func (v *Viewport) geometry() (transform.Size, transform.Size) {
	if v == nil || v.Geometry == nil {
		return transform.Size{}, transform.Size{}
	}
	return v.Geometry()
}

// NiceScale is the scale at which the content fits the inset viewport.
func (v *Viewport) NiceScale() float64 {
	viewport, content := v.geometry()
	return content.AspectFitScale(viewport.Inset(v.FitInset))
}

// ScaleRange returns the admissible scale interval.
func (v *Viewport) ScaleRange() (lo, hi float64) {
	nice := v.NiceScale()
	lo = nice * v.MinScaleFactor
	hi = math.Max(1, nice*v.MaxScaleFactor)
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// unset reports whether v has no geometry to measure against. An unset
// Viewport normalizes nothing.
func (v *Viewport) unset() bool { return v == nil || v.Geometry == nil }

func (v *Viewport) NormalizeScale(proposed float64, _ transform.State) float64 {
	if v.unset() {
		return proposed
	}
	lo, hi := v.ScaleRange()
	return clamp(proposed, lo, hi)
}

// MaxTranslation returns the per-axis translation bound at the given scale.
func (v *Viewport) MaxTranslation(scale float64) r2.Vec {
	viewport, content := v.geometry()
	edge := content.ShortestEdge() * math.Abs(scale)
	bound := func(side float64) float64 {
		m := side/2 + edge/2 - v.EdgeMargin
		if !(m > 0) {
			return 0
		}
		return m
	}
	return r2.Vec{X: bound(viewport.W), Y: bound(viewport.H)}
}

// NormalizeTranslation bounds the translation using the current scale, not
// the scale of any change proposed alongside it.
func (v *Viewport) NormalizeTranslation(proposed r2.Vec, current transform.State) r2.Vec {
	if v.unset() {
		return proposed
	}
	maxT := v.MaxTranslation(current.Scale)
	return r2.Vec{
		X: clamp(proposed.X, -maxT.X, maxT.X),
		Y: clamp(proposed.Y, -maxT.Y, maxT.Y),
	}
}

func (v *Viewport) NormalizeRotation(proposed float64, _ transform.State) float64 {
	if v == nil || !(v.SnapAngle > 0) {
		return proposed
	}
	if math.IsNaN(proposed) || math.IsInf(proposed, 0) {
		return 0
	}
	return math.Round(proposed/v.SnapAngle) * v.SnapAngle
}

// clamp bounds x to [lo, hi]. NaN maps to lo so the result is always finite
// for finite bounds.
func clamp(x, lo, hi float64) float64 {
	switch {
	case math.IsNaN(x):
		return lo
	case x < lo:
		return lo
	case x > hi:
		return hi
	}
	return x
}
