package render

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/example/pinchcrop/internal/transform"
	"golang.org/x/image/draw"
)

// gradient encodes each pixel's position in its colour so samples can be
// traced back to their source.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 255 / (w - 1)), G: uint8(y * 255 / (h - 1)), B: 0x80, A: 0xff})
		}
	}
	return img
}

func near(a, b color.RGBA) bool {
	d := func(x, y uint8) bool { return math.Abs(float64(x)-float64(y)) <= 1 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestCropReproducesScreenAtFullResolution(t *testing.T) {
	src := gradient(400, 400)
	r := &Renderer{Image: src, Viewport: transform.Size{W: 300, H: 300}}
	fill := transform.SizeOf(src.Bounds()).AspectFillScale(r.Viewport)
	if fill != 0.75 {
		t.Fatalf("fill scale = %g, want 0.75", fill)
	}

	// A 75x75 view rect centred in the 300x300 view covers the middle
	// 100x100 source pixels.
	out, err := r.Crop(transform.State{Scale: fill}, RectSpec(transform.Rect{X: 112.5, Y: 112.5, W: 75, H: 75}))
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if got, want := out.Bounds(), image.Rect(0, 0, 100, 100); got != want {
		t.Fatalf("bounds = %v, want %v", got, want)
	}
	for _, p := range []image.Point{{0, 0}, {99, 0}, {0, 99}, {99, 99}, {50, 50}} {
		got := out.RGBAAt(p.X, p.Y)
		want := src.RGBAAt(p.X+150, p.Y+150)
		if !near(got, want) {
			t.Errorf("pixel %v = %v, want %v", p, got, want)
		}
	}
}

func TestCropFollowsTranslation(t *testing.T) {
	src := gradient(400, 400)
	r := &Renderer{Image: src, Viewport: transform.Size{W: 400, H: 400}}
	// Content moved 50 right on screen, so the view rect at the centre sees
	// source pixels 50 further left.
	s := transform.State{Scale: 1}
	s.Translation.X = 50
	out, err := r.Crop(s, RectSpec(transform.Rect{X: 190, Y: 190, W: 20, H: 20}))
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if got, want := out.RGBAAt(0, 0), src.RGBAAt(140, 190); !near(got, want) {
		t.Errorf("pixel (0,0) = %v, want %v", got, want)
	}
}

func TestCropErrors(t *testing.T) {
	src := gradient(10, 10)
	rect := RectSpec(transform.Rect{X: 0, Y: 0, W: 5, H: 5})
	tests := []struct {
		name  string
		r     *Renderer
		state transform.State
		spec  Spec
		want  error
	}{
		{"zero scale", &Renderer{Image: src, Viewport: transform.Size{W: 10, H: 10}}, transform.State{}, rect, ErrZeroScale},
		{"empty viewport", &Renderer{Image: src}, transform.Identity, rect, ErrEmptyViewport},
		{"empty spec", &Renderer{Image: src, Viewport: transform.Size{W: 10, H: 10}}, transform.Identity, Spec{}, ErrEmptyCrop},
		{"outside", &Renderer{Image: src, Viewport: transform.Size{W: 10, H: 10}}, transform.Identity,
			RectSpec(transform.Rect{X: 20, Y: 20, W: 5, H: 5}), ErrEmptyCrop},
		{"budget", &Renderer{Image: src, Viewport: transform.Size{W: 10, H: 10}, NewBuffer: NewBuffer(10)}, transform.Identity, rect, ErrBufferTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.r.Crop(tt.state, tt.spec)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if out != nil {
				t.Error("expected nil image on error")
			}
		})
	}
}

func TestCropReturnsAllocatorError(t *testing.T) {
	boom := errors.New("out of buffers")
	calls := 0
	r := &Renderer{
		Image:    gradient(10, 10),
		Viewport: transform.Size{W: 10, H: 10},
		NewBuffer: func(image.Rectangle) (*image.RGBA, error) {
			calls++
			return nil, boom
		},
	}
	if _, err := r.Crop(transform.Identity, RectSpec(transform.Rect{W: 4, H: 4})); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if calls != 1 {
		t.Errorf("allocator called %d times, want 1", calls)
	}
}

func TestRenderCentresImage(t *testing.T) {
	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	r := &Renderer{Image: Fill(red, image.Pt(4, 4)), Background: blue, Interpolator: draw.NearestNeighbor}
	out, err := r.Render(transform.Identity, image.Rect(0, 0, 8, 8), 1)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := out.RGBAAt(4, 4); got != red {
		t.Errorf("centre = %v, want red", got)
	}
	if got := out.RGBAAt(0, 0); got != blue {
		t.Errorf("corner = %v, want background", got)
	}
}

func TestRenderRotates(t *testing.T) {
	red := color.RGBA{R: 0xff, A: 0xff}
	green := color.RGBA{G: 0xff, A: 0xff}
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	draw.Draw(src, image.Rect(0, 0, 2, 2), image.NewUniform(red), image.Point{}, draw.Src)
	draw.Draw(src, image.Rect(2, 0, 4, 2), image.NewUniform(green), image.Point{}, draw.Src)

	r := &Renderer{Image: src, Interpolator: draw.NearestNeighbor}
	out, err := r.Render(transform.State{Rotation: math.Pi / 2, Scale: 1}, image.Rect(0, 0, 8, 8), 1)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// A quarter turn clockwise on screen puts the right half below the centre.
	if got := out.RGBAAt(4, 5); got != green {
		t.Errorf("below centre = %v, want green", got)
	}
	if got := out.RGBAAt(4, 2); got != red {
		t.Errorf("above centre = %v, want red", got)
	}
}

func TestRenderDrawScale(t *testing.T) {
	red := color.RGBA{R: 0xff, A: 0xff}
	r := &Renderer{Image: Fill(red, image.Pt(2, 2)), Interpolator: draw.NearestNeighbor}
	out, err := r.Render(transform.Identity, image.Rect(0, 0, 8, 8), 2)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// 2x2 image at draw scale 2 covers pixels 2..6.
	if got := out.RGBAAt(2, 2); got != red {
		t.Errorf("(2,2) = %v, want red", got)
	}
	if got := out.RGBAAt(1, 1); got.A != 0 {
		t.Errorf("(1,1) = %v, want transparent", got)
	}
}

func TestParseInterpolator(t *testing.T) {
	for _, name := range []string{"", "bilinear", "nearest", "approx-bilinear", "catmull-rom"} {
		if _, err := ParseInterpolator(name); err != nil {
			t.Errorf("ParseInterpolator(%q): %v", name, err)
		}
	}
	if _, err := ParseInterpolator("lanczos"); err == nil {
		t.Error("expected error for unknown interpolator")
	}
}
