package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ShadowOptions configures the drop shadow placed behind an exported crop.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// ShadowResult captures the output of ApplyShadow.
type ShadowResult struct {
	Image *image.RGBA
	// Offset is where the crop's top-left corner ended up on the expanded
	// canvas.
	Offset image.Point
}

// DefaultShadowOptions returns a soft shadow that suits most crops.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  24,
		Offset:  image.Pt(16, 16),
		Opacity: 0.55,
	}
}

// ApplyShadow composites img over a blurred copy of its own coverage. Path
// and masked crops cast a shadow of their shape. The result has a zero
// origin.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	if img.Bounds().Empty() || opts.Opacity <= 0 {
		return ShadowResult{Image: img}
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	src := img.Bounds()
	padded := src.Inset(-radius)
	shadow := padded.Add(opts.Offset)
	union := src.Union(shadow)

	coverage := image.NewAlpha(padded)
	draw.Draw(coverage, src, img, src.Min, draw.Src)
	blurred := FeatherMask(coverage, radius)

	dst := image.NewRGBA(union.Sub(union.Min))
	if a := uint8(opacity*255 + 0.5); a > 0 {
		draw.DrawMask(dst, shadow.Sub(union.Min), image.NewUniform(color.RGBA{A: a}), image.Point{}, blurred, padded.Min, draw.Over)
	}
	draw.Draw(dst, src.Sub(union.Min), img, src.Min, draw.Over)
	return ShadowResult{Image: dst, Offset: src.Min.Sub(union.Min)}
}
