// Package cropview ties a gesture engine, a normalization policy and a
// renderer to one image shown in one view.
package cropview

import (
	"image"
	"image/color"

	"github.com/example/pinchcrop/internal/gesture"
	"github.com/example/pinchcrop/internal/normalize"
	"github.com/example/pinchcrop/internal/render"
	"github.com/example/pinchcrop/internal/transform"
	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/spatial/r2"
)

// View is an image inside a resizable viewport with a crop region on top.
// It is not safe for concurrent use; drive it from one event loop.
type View struct {
	img      image.Image
	size     transform.Size
	content  transform.Size
	viewport *normalize.Viewport
	engine   *gesture.Engine
	renderer *render.Renderer
	spec     render.Spec
	hasSpec  bool
}

// Option configures a View.
type Option func(*View)

// WithNormalizer replaces the default viewport policy.
func WithNormalizer(n normalize.Normalizer) Option {
	return func(v *View) { v.engine.SetNormalizer(n) }
}

// WithPolicy adjusts the default viewport policy.
func WithPolicy(fn func(*normalize.Viewport)) Option {
	return func(v *View) { fn(v.viewport) }
}

// WithState sets the initial transform state.
func WithState(s transform.State) Option {
	return func(v *View) { v.engine.SetState(s) }
}

// WithListener registers a state-change callback.
func WithListener(fn func(transform.State)) Option {
	return func(v *View) { v.engine.OnStateChanged(fn) }
}

// WithBackground sets the colour behind the image.
func WithBackground(c color.Color) Option {
	return func(v *View) { v.renderer.Background = c }
}

// WithInterpolator sets the resampling kernel.
func WithInterpolator(i draw.Interpolator) Option {
	return func(v *View) { v.renderer.Interpolator = i }
}

// WithBufferFunc sets the render buffer allocator.
func WithBufferFunc(fn render.BufferFunc) Option {
	return func(v *View) { v.renderer.NewBuffer = fn }
}

// WithCropSpec sets the initial crop region.
func WithCropSpec(s render.Spec) Option {
	return func(v *View) { v.SetCropSpec(s) }
}

// New creates a View showing img in a viewport of the given size. The image
// starts at scale 1, centred; the default crop region is the viewport inset by
// the policy's fit inset.
func New(img image.Image, size transform.Size, opts ...Option) *View {
	v := &View{
		img:      img,
		size:     size,
		content:  transform.SizeOf(img.Bounds()),
		renderer: &render.Renderer{Image: img, Viewport: size},
	}
	v.viewport = normalize.NewViewport(v.geometry)
	v.engine = gesture.New(gesture.WithNormalizer(v.viewport))
	for _, o := range opts {
		o(v)
	}
	return v
}

func (v *View) geometry() (viewport, content transform.Size) {
	return v.size, v.content
}

// Image returns the source image.
func (v *View) Image() image.Image { return v.img }

// Size returns the viewport size.
func (v *View) Size() transform.Size { return v.size }

// ContentSize returns the natural size of the image.
func (v *View) ContentSize() transform.Size { return v.content }

// Resize changes the viewport size. The normalization bounds follow and the
// current translation is clamped into the new bounds.
func (v *View) Resize(size transform.Size) {
	v.size = size
	v.renderer.Viewport = size
	v.engine.Pan(r2.Vec{})
}

// Policy returns the default viewport policy, which stays bound to this view
// even while another normalizer is installed.
func (v *View) Policy() *normalize.Viewport { return v.viewport }

// Normalizer returns the active policy.
func (v *View) Normalizer() normalize.Normalizer { return v.engine.Normalizer() }

// SetNormalizer replaces the active policy. Nil restores the default
// viewport policy.
func (v *View) SetNormalizer(n normalize.Normalizer) {
	if n == nil {
		n = v.viewport
	}
	v.engine.SetNormalizer(n)
}

// State returns the committed transform state.
func (v *View) State() transform.State { return v.engine.State() }

// SetState commits s without normalization and notifies listeners.
func (v *View) SetState(s transform.State) { v.engine.SetState(s) }

// Handle applies one gesture event and reports whether the state changed.
func (v *View) Handle(ev gesture.Event) bool { return v.engine.Handle(ev) }

// Replay runs ev as a complete gesture of its kind: began at its pivot,
// changed with its delta, then ended. It reports whether the change was
// committed.
func (v *View) Replay(ev gesture.Event) bool {
	began, ended := ev, ev
	began.Phase, ended.Phase = gesture.PhaseBegan, gesture.PhaseEnded
	ended.Rotation, ended.Scale, ended.Translation = 0, 1, r2.Vec{}
	ev.Phase = gesture.PhaseChanged
	v.engine.Handle(began)
	changed := v.engine.Handle(ev)
	v.engine.Handle(ended)
	return changed
}

// Engine exposes the gesture engine for direct steps.
func (v *View) Engine() *gesture.Engine { return v.engine }

// OnStateChanged registers fn to run after every committed change.
func (v *View) OnStateChanged(fn func(transform.State)) { v.engine.OnStateChanged(fn) }

// PivotAt converts a point in view coordinates (origin top-left) to a pivot
// relative to the view centre.
func (v *View) PivotAt(pt r2.Vec) r2.Vec { return r2.Sub(pt, v.size.Center()) }

// DefaultCropRect is the viewport inset by the policy's fit inset.
func (v *View) DefaultCropRect() transform.Rect {
	inner := v.size.Inset(v.viewport.FitInset)
	c := v.size.Center()
	return transform.Rect{X: c.X - inner.W/2, Y: c.Y - inner.H/2, W: inner.W, H: inner.H}
}

// SetCropSpec replaces the crop region.
func (v *View) SetCropSpec(s render.Spec) {
	v.spec = s
	v.hasSpec = true
}

// CropSpec returns the crop region, DefaultCropRect until one is set.
func (v *View) CropSpec() render.Spec {
	if !v.hasSpec {
		return render.RectSpec(v.DefaultCropRect())
	}
	return v.spec
}

// RequestCrop renders the crop region at full image resolution.
func (v *View) RequestCrop() (*image.RGBA, error) {
	return v.renderer.Crop(v.State(), v.CropSpec())
}

// TransformToFit centres the image on rect, unrotated, scaled to fit inside
// it.
func (v *View) TransformToFit(rect transform.Rect) {
	v.transformTo(rect, v.content.AspectFitScale(rect.Size()))
}

// TransformToFill centres the image on rect, unrotated, scaled to cover it.
func (v *View) TransformToFill(rect transform.Rect) {
	v.transformTo(rect, v.content.AspectFillScale(rect.Size()))
}

func (v *View) transformTo(rect transform.Rect, scale float64) {
	v.SetState(transform.State{
		Scale:       scale,
		Translation: v.PivotAt(rect.Center()),
	})
}

// FillCropRect scales the image so it covers the crop region's bounds.
func (v *View) FillCropRect() { v.TransformToFill(v.CropSpec().Bounds()) }

// FitCropRect scales the image so it fits inside the crop region's bounds.
func (v *View) FitCropRect() { v.TransformToFit(v.CropSpec().Bounds()) }

// ImageFrame is the on-screen bounds of the image under the current state.
func (v *View) ImageFrame() transform.Rect { return v.State().Frame(v.content, v.size) }

// DefaultImageFrame is the on-screen bounds of the image at the identity
// state.
func (v *View) DefaultImageFrame() transform.Rect { return transform.DefaultFrame(v.content, v.size) }

// Frame renders the view at one pixel per view unit.
func (v *View) Frame() (*image.RGBA, error) {
	return v.FrameAt(1)
}

// FrameAt renders the view at drawScale pixels per view unit.
func (v *View) FrameAt(drawScale float64) (*image.RGBA, error) {
	out := transform.Rect{W: v.size.W * drawScale, H: v.size.H * drawScale}.Pixels()
	return v.renderer.Render(v.State(), out, drawScale)
}

// Overlay renders the dim layer with a hole for the crop region.
func (v *View) Overlay(dim color.Color) *image.RGBA {
	return render.DimOverlay(transform.Rect{W: v.size.W, H: v.size.H}.Pixels(), v.CropSpec(), dim)
}
