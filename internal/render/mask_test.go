package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/pinchcrop/internal/transform"
	"golang.org/x/image/draw"
)

var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// halves returns a w x h image whose left half is left and right half right.
func halves(w, h int, left, right color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, image.Rect(0, 0, w/2, h), image.NewUniform(left), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(w/2, 0, w, h), image.NewUniform(right), image.Point{}, draw.Src)
	return img
}

func cropWithMask(t *testing.T, m *Mask) *image.RGBA {
	t.Helper()
	r := &Renderer{Image: Fill(white, image.Pt(100, 100)), Viewport: transform.Size{W: 100, H: 100}}
	out, err := r.Crop(transform.Identity, RectSpec(transform.Rect{W: 100, H: 100}).WithMask(m))
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	return out
}

func TestMaskModes(t *testing.T) {
	tests := []struct {
		name        string
		mask        *Mask
		left, right uint8
	}{
		{"luminance", &Mask{Image: halves(100, 100, color.White, color.Black)}, 0xff, 0},
		{"luminance inverted", &Mask{Image: halves(100, 100, color.White, color.Black), Inverted: true}, 0, 0xff},
		{"alpha", &Mask{Image: halves(100, 100, color.Transparent, color.Black), Mode: MaskAlpha}, 0, 0xff},
		{"alpha inverted", &Mask{Image: halves(100, 100, color.Transparent, color.Black), Mode: MaskAlpha, Inverted: true}, 0xff, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := cropWithMask(t, tt.mask)
			if got := out.RGBAAt(10, 50).A; got != tt.left {
				t.Errorf("left alpha = %d, want %d", got, tt.left)
			}
			if got := out.RGBAAt(90, 50).A; got != tt.right {
				t.Errorf("right alpha = %d, want %d", got, tt.right)
			}
		})
	}
}

func TestMaskIsStretchedOverRegion(t *testing.T) {
	// A 2x1 mask still splits a 100x100 crop into halves.
	out := cropWithMask(t, &Mask{Image: halves(2, 1, color.White, color.Black)})
	if got := out.RGBAAt(5, 50).A; got != 0xff {
		t.Errorf("left edge alpha = %d, want 255", got)
	}
	if got := out.RGBAAt(95, 50).A; got != 0 {
		t.Errorf("right edge alpha = %d, want 0", got)
	}
}

func TestFeatherSoftensEdge(t *testing.T) {
	out := cropWithMask(t, &Mask{Image: halves(100, 100, color.White, color.Black), Feather: 4})
	if got := out.RGBAAt(10, 50).A; got != 0xff {
		t.Errorf("far left alpha = %d, want 255", got)
	}
	if got := out.RGBAAt(50, 50).A; got == 0 || got == 0xff {
		t.Errorf("edge alpha = %d, want partial", got)
	}
}

func TestFeatherMaskKeepsBounds(t *testing.T) {
	a := image.NewAlpha(image.Rect(3, 3, 13, 13))
	a.SetAlpha(8, 8, color.Alpha{A: 0xff})
	out := FeatherMask(a, 2)
	if out.Bounds() != a.Bounds() {
		t.Fatalf("bounds = %v, want %v", out.Bounds(), a.Bounds())
	}
	if out.AlphaAt(8, 8).A == 0xff || out.AlphaAt(9, 9).A == 0 {
		t.Errorf("blur did not spread: centre %d, neighbour %d", out.AlphaAt(8, 8).A, out.AlphaAt(9, 9).A)
	}
	if out.AlphaAt(3, 3).A != 0 {
		t.Errorf("corner = %d, want 0", out.AlphaAt(3, 3).A)
	}
	same := FeatherMask(a, 0)
	if same.AlphaAt(8, 8).A != 0xff {
		t.Error("radius 0 changed the mask")
	}
}

func TestParseMaskMode(t *testing.T) {
	for in, want := range map[string]MaskMode{"": MaskLuminance, "luminance": MaskLuminance, "Alpha": MaskAlpha} {
		got, err := ParseMaskMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMaskMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMaskMode("hue"); err == nil {
		t.Error("expected error")
	}
}

func TestCircle(t *testing.T) {
	img := Circle(image.Pt(20, 20), color.White, color.Black)
	if got := img.RGBAAt(10, 10); got != white {
		t.Errorf("centre = %v, want white", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{A: 0xff}) {
		t.Errorf("corner = %v, want black", got)
	}
}
