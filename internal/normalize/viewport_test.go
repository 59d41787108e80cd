package normalize

import (
	"math"
	"testing"

	"github.com/example/pinchcrop/internal/transform"
	"gonum.org/v1/gonum/spatial/r2"
)

func testViewport() *Viewport {
	// nice = 400 fitted into (300-100)x(300-100) = 0.5
	return NewViewport(Fixed(transform.Size{W: 300, H: 300}, transform.Size{W: 400, H: 400}))
}

func TestViewportScaleRange(t *testing.T) {
	v := testViewport()
	if got := v.NiceScale(); got != 0.5 {
		t.Fatalf("NiceScale() = %g, want 0.5", got)
	}
	lo, hi := v.ScaleRange()
	if lo != 0.15 || hi != 4 {
		t.Fatalf("ScaleRange() = [%g, %g], want [0.15, 4]", lo, hi)
	}

	tests := []struct {
		name     string
		proposed float64
		want     float64
	}{
		{"inside", 1, 1},
		{"below", 0.01, 0.15},
		{"zero", 0, 0.15},
		{"negative", -2, 0.15},
		{"above", 10, 4},
		{"infinite", math.Inf(1), 4},
		{"nan", math.NaN(), 0.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.NormalizeScale(tt.proposed, transform.Identity); got != tt.want {
				t.Errorf("NormalizeScale(%g) = %g, want %g", tt.proposed, got, tt.want)
			}
		})
	}
}

func TestViewportScaleUpperBoundAtLeastOne(t *testing.T) {
	// nice = 0.05, so nice*8 stays below 1.
	v := NewViewport(Fixed(transform.Size{W: 300, H: 300}, transform.Size{W: 4000, H: 4000}))
	_, hi := v.ScaleRange()
	if hi != 1 {
		t.Errorf("upper bound = %g, want 1", hi)
	}
}

func TestViewportScaleIdempotent(t *testing.T) {
	v := testViewport()
	for _, x := range []float64{-5, 0, 0.1, 0.15, 0.3, 1, 4, 4.0001, 1e9, math.Inf(-1)} {
		once := v.NormalizeScale(x, transform.Identity)
		twice := v.NormalizeScale(once, transform.Identity)
		if once != twice {
			t.Errorf("NormalizeScale not idempotent for %g: %g then %g", x, once, twice)
		}
		if math.IsNaN(once) || math.IsInf(once, 0) {
			t.Errorf("NormalizeScale(%g) = %g, want finite", x, once)
		}
	}
}

func TestViewportTranslationBounds(t *testing.T) {
	v := testViewport()
	st := transform.State{Scale: 0.5}
	// 150 + 400*0.5/2 - 5 = 245
	if got := v.MaxTranslation(st.Scale); got != (r2.Vec{X: 245, Y: 245}) {
		t.Fatalf("MaxTranslation() = %v, want (245, 245)", got)
	}

	tests := []struct {
		name     string
		proposed r2.Vec
		want     r2.Vec
	}{
		{"inside", r2.Vec{X: 10, Y: -10}, r2.Vec{X: 10, Y: -10}},
		{"far right", r2.Vec{X: 1e4, Y: 0}, r2.Vec{X: 245, Y: 0}},
		{"far up left", r2.Vec{X: -1e4, Y: -1e4}, r2.Vec{X: -245, Y: -245}},
		{"per axis", r2.Vec{X: 300, Y: 20}, r2.Vec{X: 245, Y: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.NormalizeTranslation(tt.proposed, st); got != tt.want {
				t.Errorf("NormalizeTranslation(%v) = %v, want %v", tt.proposed, got, tt.want)
			}
		})
	}
}

func TestViewportTranslationUsesCurrentScale(t *testing.T) {
	v := testViewport()
	small := v.NormalizeTranslation(r2.Vec{X: 1e4}, transform.State{Scale: 0.2})
	large := v.NormalizeTranslation(r2.Vec{X: 1e4}, transform.State{Scale: 2})
	if !(large.X > small.X) {
		t.Errorf("bound at scale 2 (%g) should exceed bound at scale 0.2 (%g)", large.X, small.X)
	}
}

func TestViewportTranslationIdempotent(t *testing.T) {
	v := testViewport()
	for _, scale := range []float64{0, 0.15, 1, 4} {
		st := transform.State{Scale: scale}
		for _, p := range []r2.Vec{{}, {X: 1e6, Y: -1e6}, {X: 244, Y: 246}, {X: math.Inf(1), Y: math.NaN()}} {
			once := v.NormalizeTranslation(p, st)
			twice := v.NormalizeTranslation(once, st)
			if once != twice {
				t.Errorf("scale %g: NormalizeTranslation not idempotent for %v: %v then %v", scale, p, once, twice)
			}
		}
	}
}

func TestViewportDegenerateGeometry(t *testing.T) {
	v := NewViewport(Fixed(transform.Size{W: 4, H: 4}, transform.Size{}))
	if got := v.NormalizeTranslation(r2.Vec{X: 50, Y: -50}, transform.State{}); got != (r2.Vec{}) {
		t.Errorf("NormalizeTranslation() = %v, want zero vector", got)
	}
	lo, hi := v.ScaleRange()
	if lo != 0 || hi != 1 {
		t.Errorf("ScaleRange() = [%g, %g], want [0, 1]", lo, hi)
	}

}

func TestViewportWithoutGeometryIsIdentity(t *testing.T) {
	far := r2.Vec{X: 1e6, Y: -1e6}
	for _, v := range []*Viewport{nil, {}, {FitInset: 50, EdgeMargin: 5, MaxScaleFactor: 8}} {
		if got := v.NormalizeScale(3, transform.Identity); got != 3 {
			t.Errorf("%+v: NormalizeScale() = %g, want 3", v, got)
		}
		if got := v.NormalizeTranslation(far, transform.Identity); got != far {
			t.Errorf("%+v: NormalizeTranslation() = %v, want %v", v, got, far)
		}
		if got := v.NormalizeRotation(1, transform.Identity); got != 1 {
			t.Errorf("%+v: NormalizeRotation() = %g, want 1", v, got)
		}
	}
}

func TestViewportRotationSnap(t *testing.T) {
	v := testViewport()
	if got := v.NormalizeRotation(0.3, transform.Identity); got != 0.3 {
		t.Errorf("free rotation changed: %g", got)
	}
	v.SnapAngle = math.Pi / 2
	tests := []struct {
		in, want float64
	}{
		{0.3, 0},
		{1.2, math.Pi / 2},
		{-2, -math.Pi / 2},
		{7, 2 * math.Pi},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		got := v.NormalizeRotation(tt.in, transform.Identity)
		if got != tt.want {
			t.Errorf("NormalizeRotation(%g) = %g, want %g", tt.in, got, tt.want)
		}
		if again := v.NormalizeRotation(got, transform.Identity); again != got {
			t.Errorf("NormalizeRotation not idempotent at %g: %g", got, again)
		}
	}
}
