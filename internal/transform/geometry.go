package transform

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Size is a width and height in view units or pixels.
type Size struct {
	W, H float64
}

// SizeOf returns the pixel size of r.
func SizeOf(r image.Rectangle) Size {
	return Size{W: float64(r.Dx()), H: float64(r.Dy())}
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool { return !(s.W > 0 && s.H > 0) }

// Center returns the midpoint of a rectangle of this size at the origin.
func (s Size) Center() r2.Vec { return r2.Vec{X: s.W / 2, Y: s.H / 2} }

// Scaled multiplies both dimensions by k.
func (s Size) Scaled(k float64) Size { return Size{W: s.W * k, H: s.H * k} }

// ShortestEdge returns the smaller dimension.
func (s Size) ShortestEdge() float64 { return math.Min(s.W, s.H) }

// Inset shrinks the size by d on every side. The result never goes negative.
func (s Size) Inset(d float64) Size {
	return Size{W: math.Max(0, s.W-2*d), H: math.Max(0, s.H-2*d)}
}

// fitScales returns the per-axis factors that map s onto target. A zero
// dimension yields a zero factor instead of dividing by zero.
func (s Size) fitScales(target Size) (float64, float64) {
	var ws, hs float64
	if s.W != 0 {
		ws = target.W / s.W
	}
	if s.H != 0 {
		hs = target.H / s.H
	}
	return ws, hs
}

// AspectFitScale is the largest uniform scale at which s fits inside target.
func (s Size) AspectFitScale(target Size) float64 {
	ws, hs := s.fitScales(target)
	return math.Min(ws, hs)
}

// AspectFillScale is the smallest uniform scale at which s covers target.
func (s Size) AspectFillScale(target Size) float64 {
	ws, hs := s.fitScales(target)
	return math.Max(ws, hs)
}

// AspectFit returns s scaled to fit inside target.
func (s Size) AspectFit(target Size) Size { return s.Scaled(s.AspectFitScale(target)) }

// AspectFill returns s scaled to cover target.
func (s Size) AspectFill(target Size) Size { return s.Scaled(s.AspectFillScale(target)) }

// Rect is an axis-aligned rectangle with a float origin.
type Rect struct {
	X, Y, W, H float64
}

// RectFromImage converts an integer rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Center returns the midpoint.
func (r Rect) Center() r2.Vec { return r2.Vec{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Size().Empty() }

// Scaled multiplies origin and size by k.
func (r Rect) Scaled(k float64) Rect {
	return Rect{X: r.X * k, Y: r.Y * k, W: r.W * k, H: r.H * k}
}

// Offset moves the rectangle by v.
func (r Rect) Offset(v r2.Vec) Rect {
	r.X += v.X
	r.Y += v.Y
	return r
}

// Pixels rounds the edges of r to the nearest pixel boundary. Rounding each
// edge, not origin and size, keeps abutting rectangles abutting.
func (r Rect) Pixels() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)),
		int(math.Round(r.Y+r.H)),
	)
}

func boundingRect(pts []r2.Vec) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// BoundingRect returns the smallest Rect containing every point.
func BoundingRect(pts ...r2.Vec) Rect {
	return boundingRect(pts)
}
