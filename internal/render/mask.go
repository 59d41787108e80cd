package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/example/pinchcrop/internal/transform"
	"golang.org/x/image/draw"
)

// MaskMode selects which channel of a mask image marks the kept region.
type MaskMode int

const (
	// MaskLuminance keeps bright pixels: white is kept, black is removed.
	MaskLuminance MaskMode = iota
	// MaskAlpha keeps opaque pixels.
	MaskAlpha
)

func (m MaskMode) String() string {
	switch m {
	case MaskLuminance:
		return "luminance"
	case MaskAlpha:
		return "alpha"
	}
	return fmt.Sprintf("MaskMode(%d)", int(m))
}

// ParseMaskMode converts a mode name.
func ParseMaskMode(s string) (MaskMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "luminance", "luma":
		return MaskLuminance, nil
	case "alpha":
		return MaskAlpha, nil
	}
	return 0, fmt.Errorf("unknown mask mode %q", s)
}

// Mask is an image stretched over the crop region to soften or shape it.
type Mask struct {
	Image    image.Image
	Mode     MaskMode
	Inverted bool
	// Feather is a box blur radius in output pixels.
	Feather int
}

// Coverage converts the mask to per-pixel coverage over bounds.
func (m *Mask) Coverage(bounds image.Rectangle) *image.Alpha {
	out := image.NewAlpha(bounds)
	if m == nil || m.Image == nil || bounds.Empty() || m.Image.Bounds().Empty() {
		fillAlpha(out, 0xff)
		if m != nil && m.Inverted {
			InvertAlpha(out)
		}
		return out
	}

	scaled := image.NewRGBA(bounds)
	draw.BiLinear.Scale(scaled, bounds, m.Image, m.Image.Bounds(), draw.Src, nil)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := scaled.RGBAAt(x, y)
			var a uint8
			switch m.Mode {
			case MaskAlpha:
				a = c.A
			default:
				a = color.GrayModel.Convert(c).(color.Gray).Y
			}
			out.SetAlpha(x, y, color.Alpha{A: a})
		}
	}
	if m.Inverted {
		InvertAlpha(out)
	}
	if m.Feather > 0 {
		out = FeatherMask(out, m.Feather)
	}
	return out
}

// InvertAlpha flips coverage in place.
func InvertAlpha(a *image.Alpha) {
	b := a.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := a.PixOffset(b.Min.X, y)
		row := a.Pix[i : i+b.Dx()]
		for x, v := range row {
			row[x] = 0xff - v
		}
	}
}

func fillAlpha(a *image.Alpha, v uint8) {
	b := a.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := a.PixOffset(b.Min.X, y)
		row := a.Pix[i : i+b.Dx()]
		for x := range row {
			row[x] = v
		}
	}
}

// FeatherMask softens the edges of a with a separable box blur of the given
// radius. The result has the same bounds.
func FeatherMask(a *image.Alpha, radius int) *image.Alpha {
	b := a.Bounds()
	out := image.NewAlpha(b)
	w, h := b.Dx(), b.Dy()
	if radius <= 0 || w == 0 || h == 0 {
		draw.Draw(out, b, a, b.Min, draw.Src)
		return out
	}
	tmp := make([]uint8, w*h)

	prefix := make([]int, w+1)
	for y := 0; y < h; y++ {
		i := a.PixOffset(b.Min.X, b.Min.Y+y)
		row := a.Pix[i : i+w]
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(row[x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp[y*w+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}

	prefix = make([]int, h+1)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp[y*w+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			out.Pix[y*out.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return out
}

// applyCoverage scales every premultiplied channel of dst by the matching
// coverage value. Both images must share bounds.
func applyCoverage(dst *image.RGBA, a *image.Alpha) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		di := dst.PixOffset(b.Min.X, y)
		ai := a.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			k := uint32(a.Pix[ai+x])
			if k == 0xff {
				continue
			}
			px := dst.Pix[di+4*x : di+4*x+4 : di+4*x+4]
			for c := range px {
				px[c] = uint8((uint32(px[c])*k + 127) / 255)
			}
		}
	}
}

// Fill returns an opaque image of the given size filled with c.
func Fill(c color.Color, size image.Point) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// Circle returns an image of the given size with a filled ellipse of fg
// inscribed on a bg background. Useful as a round crop mask.
func Circle(size image.Point, fg, bg color.Color) *image.RGBA {
	img := Fill(bg, size)
	b := img.Bounds()
	cov := EllipsePath(transform.RectFromImage(b)).Rasterize(b)
	draw.DrawMask(img, b, image.NewUniform(fg), image.Point{}, cov, b.Min, draw.Over)
	return img
}
