package render

import (
	"image"

	"github.com/example/pinchcrop/internal/transform"
)

// Spec describes a crop region in view coordinates, origin at the view's
// top-left corner. When Path is set it takes precedence over Rect. Mask,
// when set, is stretched over the region's bounds.
type Spec struct {
	Rect transform.Rect
	Path *Path
	Mask *Mask
}

// RectSpec returns a rectangular crop region.
func RectSpec(r transform.Rect) Spec { return Spec{Rect: r} }

// PathSpec returns a crop region shaped by p.
func PathSpec(p *Path) Spec { return Spec{Path: p} }

// WithMask returns a copy of s using m.
func (s Spec) WithMask(m *Mask) Spec {
	s.Mask = m
	return s
}

// IsPath reports whether the region is path-shaped.
func (s Spec) IsPath() bool { return s.Path != nil }

// Bounds returns the axis-aligned bounds of the region.
func (s Spec) Bounds() transform.Rect {
	if s.IsPath() {
		return s.Path.Bounds()
	}
	return s.Rect
}

// Empty reports whether the region covers no area.
func (s Spec) Empty() bool {
	if s.IsPath() {
		return s.Path.Empty() || s.Path.Bounds().Empty()
	}
	return s.Rect.Empty()
}

// Scaled returns the region scaled about the view origin. The mask is
// shared.
func (s Spec) Scaled(k float64) Spec {
	out := Spec{Rect: s.Rect.Scaled(k), Mask: s.Mask}
	if s.IsPath() {
		out.Path = s.Path.Scaled(k)
	}
	return out
}

// Coverage returns the region's coverage over bounds: the anti-aliased path
// shape, or the rectangle snapped to whole pixels, multiplied by the mask.
func (s Spec) Coverage(bounds image.Rectangle) *image.Alpha {
	var cov *image.Alpha
	if s.IsPath() {
		cov = s.Path.Rasterize(bounds)
	} else {
		cov = image.NewAlpha(bounds)
		if in := s.Rect.Pixels().Intersect(bounds); !in.Empty() {
			fillAlpha(cov.SubImage(in).(*image.Alpha), 0xff)
		}
	}
	if s.Mask != nil {
		m := s.Mask.Coverage(s.Bounds().Pixels().Intersect(bounds))
		multiplyCoverage(cov, m)
	}
	return cov
}

// multiplyCoverage scales a by m where they overlap and clears a elsewhere.
func multiplyCoverage(a, m *image.Alpha) {
	b := a.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := a.PixOffset(x, y)
			if !(image.Point{X: x, Y: y}).In(m.Bounds()) {
				a.Pix[i] = 0
				continue
			}
			a.Pix[i] = uint8((uint32(a.Pix[i])*uint32(m.Pix[m.PixOffset(x, y)]) + 127) / 255)
		}
	}
}
