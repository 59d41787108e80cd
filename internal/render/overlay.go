package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// DimOverlay returns an image covering bounds filled with dim except for a
// transparent hole shaped like spec. Soft masks give soft hole edges.
func DimOverlay(bounds image.Rectangle, spec Spec, dim color.Color) *image.RGBA {
	img := image.NewRGBA(bounds)
	if bounds.Empty() {
		return img
	}
	draw.Draw(img, bounds, image.NewUniform(dim), image.Point{}, draw.Src)
	if spec.Empty() {
		return img
	}
	hole := spec.Coverage(bounds)
	InvertAlpha(hole)
	applyCoverage(img, hole)
	return img
}

// Outline draws a width-pixel border of c just inside the bounds of spec.
func Outline(dst draw.Image, spec Spec, c color.Color, width int) {
	if spec.Empty() || width <= 0 {
		return
	}
	r := spec.Bounds().Pixels()
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Over)
	}
}

// Grid draws n-1 evenly spaced horizontal and vertical lines inside r,
// splitting it into n by n cells.
func Grid(dst draw.Image, r image.Rectangle, c color.Color, n int) {
	if n < 2 || r.Empty() {
		return
	}
	src := image.NewUniform(c)
	for i := 1; i < n; i++ {
		x := r.Min.X + r.Dx()*i/n
		y := r.Min.Y + r.Dy()*i/n
		draw.Draw(dst, image.Rect(x, r.Min.Y, x+1, r.Max.Y).Intersect(dst.Bounds()), src, image.Point{}, draw.Over)
		draw.Draw(dst, image.Rect(r.Min.X, y, r.Max.X, y+1).Intersect(dst.Bounds()), src, image.Point{}, draw.Over)
	}
}
