// Package render draws transformed images and extracts crops at full image
// resolution.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"

	"github.com/example/pinchcrop/internal/logging"
	"github.com/example/pinchcrop/internal/transform"
	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrZeroScale is returned when a crop is requested at scale 0.
	ErrZeroScale = errors.New("render: zero scale")
	// ErrEmptyViewport is returned when the viewport has no area.
	ErrEmptyViewport = errors.New("render: empty viewport")
	// ErrEmptyCrop is returned when the crop region misses the drawable area.
	ErrEmptyCrop = errors.New("render: empty crop region")
	// ErrBufferTooLarge is returned by the default allocator when a buffer
	// would exceed its pixel budget.
	ErrBufferTooLarge = errors.New("render: buffer too large")
)

// DefaultMaxPixels is the pixel budget of the default allocator.
const DefaultMaxPixels = 1 << 27

// BufferFunc allocates an output buffer covering r.
type BufferFunc func(r image.Rectangle) (*image.RGBA, error)

// NewBuffer returns an allocator refusing buffers above maxPixels.
func NewBuffer(maxPixels int) BufferFunc {
	return func(r image.Rectangle) (*image.RGBA, error) {
		if r.Empty() {
			return nil, fmt.Errorf("allocate %v: %w", r, ErrEmptyCrop)
		}
		if n := r.Dx() * r.Dy(); n > maxPixels || n/r.Dx() != r.Dy() {
			return nil, fmt.Errorf("allocate %dx%d: %w", r.Dx(), r.Dy(), ErrBufferTooLarge)
		}
		return image.NewRGBA(r), nil
	}
}

// Renderer draws Image as seen through a transform state inside a viewport.
type Renderer struct {
	Image image.Image
	// Viewport is the on-screen size of the view in view units.
	Viewport transform.Size
	// Background fills everything the image does not cover. Nil leaves it
	// transparent.
	Background color.Color
	// Interpolator resamples the image. Nil means draw.BiLinear.
	Interpolator draw.Interpolator
	// NewBuffer allocates output buffers. Nil means NewBuffer(DefaultMaxPixels).
	NewBuffer BufferFunc
}

// Matrix maps source pixel coordinates to output coordinates for a view whose
// centre sits at center, drawn at drawScale output pixels per view unit.
func (r *Renderer) Matrix(s transform.State, center r2.Vec, drawScale float64) transform.Matrix {
	b := r.Image.Bounds()
	origin := r2.Vec{
		X: float64(b.Min.X) + float64(b.Dx())/2,
		Y: float64(b.Min.Y) + float64(b.Dy())/2,
	}
	return transform.TranslateVec(r2.Add(center, r2.Scale(drawScale, s.Translation))).
		Multiply(transform.Rotate(s.Rotation)).
		Multiply(transform.Scale(s.Scale*drawScale, s.Scale*drawScale)).
		Multiply(transform.TranslateVec(r2.Scale(-1, origin)))
}

// Render draws the view into a buffer covering out. The view centre maps to
// the centre of out and one view unit spans drawScale pixels.
func (r *Renderer) Render(s transform.State, out image.Rectangle, drawScale float64) (*image.RGBA, error) {
	center := r2.Vec{
		X: float64(out.Min.X+out.Max.X) / 2,
		Y: float64(out.Min.Y+out.Max.Y) / 2,
	}
	return r.draw(s, out, center, drawScale)
}

// Crop renders spec at full image resolution. Only the crop region is
// rasterized; the result's origin is (0,0).
func (r *Renderer) Crop(s transform.State, spec Spec) (*image.RGBA, error) {
	if s.Scale == 0 {
		return nil, ErrZeroScale
	}
	drawScale := 1 / s.Scale
	full := r.Viewport.Scaled(drawScale)
	if full.Empty() || r.Viewport.Empty() {
		return nil, ErrEmptyViewport
	}
	if spec.Empty() {
		return nil, ErrEmptyCrop
	}

	region := spec.Scaled(drawScale)
	canvas := transform.Rect{W: full.W, H: full.H}.Pixels()
	bounds := region.Bounds().Pixels().Intersect(canvas)
	if bounds.Empty() {
		return nil, ErrEmptyCrop
	}

	logging.Logger().Debug("crop",
		slog.Any("state", s),
		slog.Float64("draw_scale", drawScale),
		slog.String("bounds", bounds.String()))

	buf, err := r.draw(s, bounds, full.Center(), drawScale)
	if err != nil {
		return nil, err
	}
	if region.IsPath() || region.Mask != nil {
		applyCoverage(buf, region.Coverage(bounds))
	}
	buf.Rect = buf.Rect.Sub(buf.Rect.Min)
	return buf, nil
}

func (r *Renderer) draw(s transform.State, bounds image.Rectangle, center r2.Vec, drawScale float64) (*image.RGBA, error) {
	alloc := r.NewBuffer
	if alloc == nil {
		alloc = NewBuffer(DefaultMaxPixels)
	}
	buf, err := alloc(bounds)
	if err != nil {
		return nil, fmt.Errorf("render buffer: %w", err)
	}
	if r.Background != nil {
		draw.Draw(buf, bounds, image.NewUniform(r.Background), image.Point{}, draw.Src)
	}
	if r.Image == nil || r.Image.Bounds().Empty() || s.Scale == 0 || drawScale == 0 {
		return buf, nil
	}
	interp := r.Interpolator
	if interp == nil {
		interp = draw.BiLinear
	}
	m := r.Matrix(s, center, drawScale)
	interp.Transform(buf, m.Aff3(), r.Image, r.Image.Bounds(), draw.Over, nil)
	return buf, nil
}

// ParseInterpolator converts an interpolation name.
func ParseInterpolator(name string) (draw.Interpolator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bilinear":
		return draw.BiLinear, nil
	case "nearest", "nearest-neighbor":
		return draw.NearestNeighbor, nil
	case "approx-bilinear":
		return draw.ApproxBiLinear, nil
	case "catmull-rom", "catmullrom":
		return draw.CatmullRom, nil
	}
	return nil, fmt.Errorf("unknown interpolation %q", name)
}
