package gesture

import (
	"math"
	"testing"

	"github.com/example/pinchcrop/internal/normalize"
	"github.com/example/pinchcrop/internal/transform"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r2"
)

// approx compares floats and states within 1e-9. States need their own
// comparer because cmp prefers State.Equal, which is exact.
var approx = cmp.Options{
	cmpopts.EquateApprox(0, 1e-9),
	cmp.Comparer(func(a, b transform.State) bool { return a.EqualWithin(b, 1e-9) }),
}

func testViewport() *normalize.Viewport {
	// nice 0.5, scale range [0.15, 4], maxT 245 at scale 0.5
	return normalize.NewViewport(normalize.Fixed(
		transform.Size{W: 300, H: 300},
		transform.Size{W: 400, H: 400},
	))
}

// under returns the content point currently displayed at view point p.
func under(t *testing.T, s transform.State, p r2.Vec) r2.Vec {
	t.Helper()
	inv, ok := s.Compose().Invert()
	if !ok {
		t.Fatalf("state %+v is not invertible", s)
	}
	return inv.TransformPoint(p)
}

func TestRotateKeepsPivotFixed(t *testing.T) {
	starts := []transform.State{
		transform.Identity,
		{Rotation: 0.3, Scale: 2, Translation: r2.Vec{X: 10, Y: -4}},
		{Rotation: -1.2, Scale: 0.5, Translation: r2.Vec{X: -30, Y: 25}},
	}
	pivot := r2.Vec{X: 50, Y: 20}
	for _, start := range starts {
		for _, delta := range []float64{math.Pi / 2, -0.25, 3} {
			e := New(WithState(start))
			c := under(t, start, pivot)
			if !e.Rotate(delta, pivot) {
				t.Fatalf("Rotate(%g) from %+v rejected", delta, start)
			}
			got := e.State().Compose().TransformPoint(c)
			if !cmp.Equal(got, pivot, approx) {
				t.Errorf("from %+v rotate %g: pivot content at %v, want %v", start, delta, got, pivot)
			}
			if want := start.Rotation + delta; !cmp.Equal(e.State().Rotation, want, approx) {
				t.Errorf("rotation = %g, want %g", e.State().Rotation, want)
			}
		}
	}
}

func TestPinchKeepsPivotFixed(t *testing.T) {
	start := transform.State{Rotation: 0.7, Scale: 1.5, Translation: r2.Vec{X: 12, Y: 8}}
	pivot := r2.Vec{X: -40, Y: 60}
	for _, factor := range []float64{2, 0.5, 1.1} {
		e := New(WithState(start))
		c := under(t, start, pivot)
		if !e.Pinch(factor, pivot) {
			t.Fatalf("Pinch(%g) rejected", factor)
		}
		got := e.State().Compose().TransformPoint(c)
		if !cmp.Equal(got, pivot, approx) {
			t.Errorf("pinch %g: pivot content at %v, want %v", factor, got, pivot)
		}
		if want := start.Scale * factor; !cmp.Equal(e.State().Scale, want, approx) {
			t.Errorf("scale = %g, want %g", e.State().Scale, want)
		}
	}
}

func TestPinchUsesClampedFactor(t *testing.T) {
	e := New(WithNormalizer(testViewport()), WithState(transform.State{Scale: 2}))
	pivot := r2.Vec{X: 10, Y: 0}
	c := under(t, e.State(), pivot)
	if !e.Pinch(10, pivot) {
		t.Fatal("Pinch rejected")
	}
	if got := e.State().Scale; got != 4 {
		t.Fatalf("scale = %g, want clamped 4", got)
	}
	if got := e.State().Compose().TransformPoint(c); !cmp.Equal(got, pivot, approx) {
		t.Errorf("pivot content at %v, want %v", got, pivot)
	}
}

func TestRejectedStepsAreAtomic(t *testing.T) {
	start := transform.State{Scale: 0.5, Translation: r2.Vec{X: 240}}
	pivot := r2.Vec{X: -100}

	tests := []struct {
		name string
		ev   Event
	}{
		// T' = -100 - 340 = -440, beyond -245
		{"rotate", RotateEvent(PhaseChanged, math.Pi, pivot)},
		// T' = -100 + 2*340 = 580, beyond 245
		{"pinch", PinchEvent(PhaseChanged, 2, pivot)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			e := New(
				WithNormalizer(testViewport()),
				WithState(start),
				WithListener(func(transform.State) { calls++ }),
			)
			e.Handle(Event{Kind: tt.ev.Kind, Phase: PhaseBegan, Pivot: pivot})
			if e.Handle(tt.ev) {
				t.Fatal("Handle reported a commit for an inadmissible step")
			}
			if got := e.State(); !got.Equal(start) {
				t.Errorf("state = %+v, want unchanged %+v", got, start)
			}
			if calls != 0 {
				t.Errorf("listener called %d times, want 0", calls)
			}
		})
	}
}

func TestPanClampsToBound(t *testing.T) {
	calls := 0
	e := New(
		WithNormalizer(testViewport()),
		WithState(transform.State{Scale: 0.5}),
		WithListener(func(transform.State) { calls++ }),
	)
	e.Handle(PanEvent(PhaseBegan, r2.Vec{}))
	if !e.Handle(PanEvent(PhaseChanged, r2.Vec{X: 1000, Y: -1000})) {
		t.Fatal("first pan not committed")
	}
	want := r2.Vec{X: 245, Y: -245}
	if got := e.State().Translation; got != want {
		t.Fatalf("translation = %v, want %v", got, want)
	}
	if e.Handle(PanEvent(PhaseChanged, r2.Vec{X: 1000, Y: -1000})) {
		t.Error("second pan against the bound reported a commit")
	}
	if got := e.State().Translation; got != want {
		t.Errorf("translation after second pan = %v, want %v", got, want)
	}
	// Moving away responds immediately; nothing accumulated past the bound.
	e.Handle(PanEvent(PhaseChanged, r2.Vec{X: -5}))
	if got := e.State().Translation.X; got != 240 {
		t.Errorf("translation.X after backing off = %g, want 240", got)
	}
	if calls != 2 {
		t.Errorf("listener called %d times, want 2", calls)
	}
}

func TestIgnoredPhases(t *testing.T) {
	for _, phase := range []Phase{PhasePossible, PhaseCancelled, PhaseFailed, PhaseBegan} {
		for _, ev := range []Event{
			RotateEvent(phase, 1, r2.Vec{X: 3}),
			PinchEvent(phase, 2, r2.Vec{X: 3}),
			PanEvent(phase, r2.Vec{X: 7}),
		} {
			e := New()
			if e.Handle(ev) {
				t.Errorf("%v %v changed state", ev.Kind, phase)
			}
			if got := e.State(); !got.Equal(transform.Identity) {
				t.Errorf("%v %v: state = %+v", ev.Kind, phase, got)
			}
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	e := New()
	pivot := r2.Vec{X: 5, Y: 5}
	e.Handle(PinchEvent(PhaseBegan, 1, pivot))
	if _, ok := e.Session(KindPinch); !ok {
		t.Fatal("no pinch session after Began")
	}
	// Later pivots are ignored; the Began pivot holds for the session.
	e.Handle(PinchEvent(PhaseChanged, 2, r2.Vec{X: 100, Y: 100}))
	s, _ := e.Session(KindPinch)
	if s.Pivot != pivot || s.Scale != 2 || s.Steps != 1 || s.Commits != 1 {
		t.Errorf("session = %+v", s)
	}
	e.Handle(PinchEvent(PhaseEnded, 1, pivot))
	if _, ok := e.Session(KindPinch); ok {
		t.Error("pinch session survived Ended")
	}

	e.Handle(RotateEvent(PhaseBegan, 0, pivot))
	e.Handle(RotateEvent(PhaseFailed, 0, pivot))
	if e.Active() != 0 {
		t.Errorf("Active() = %d after Failed, want 0", e.Active())
	}
}

func TestChangedWithoutBeganOpensSession(t *testing.T) {
	e := New()
	pivot := r2.Vec{X: 10}
	if !e.Handle(RotateEvent(PhaseChanged, math.Pi, pivot)) {
		t.Fatal("rotate without Began not applied")
	}
	want := transform.State{Rotation: math.Pi, Scale: 1, Translation: r2.Vec{X: 20}}
	if got := e.State(); !cmp.Equal(got, want, approx) {
		t.Errorf("state = %+v, want %+v", got, want)
	}
	if s, ok := e.Session(KindRotate); !ok || s.Pivot != pivot {
		t.Errorf("session = %+v, %v", s, ok)
	}
}

func TestConcurrentPinchAndRotate(t *testing.T) {
	pinchPivot := r2.Vec{X: 20, Y: 10}
	rotatePivot := r2.Vec{X: -30, Y: 5}

	e := New()
	e.Handle(PinchEvent(PhaseBegan, 1, pinchPivot))
	e.Handle(RotateEvent(PhaseBegan, 0, rotatePivot))
	e.Handle(PinchEvent(PhaseChanged, 1.1, pinchPivot))
	e.Handle(RotateEvent(PhaseChanged, 0.2, rotatePivot))
	e.Handle(PinchEvent(PhaseChanged, 0.9, pinchPivot))
	e.Handle(RotateEvent(PhaseEnded, -0.1, rotatePivot))
	e.Handle(PinchEvent(PhaseEnded, 1, pinchPivot))

	want := New()
	want.Pinch(1.1, pinchPivot)
	want.Rotate(0.2, rotatePivot)
	want.Pinch(0.9, pinchPivot)
	want.Rotate(-0.1, rotatePivot)

	if diff := cmp.Diff(want.State(), e.State(), approx); diff != "" {
		t.Errorf("interleaved sessions diverge from sequential steps (-want +got):\n%s", diff)
	}
	if e.Active() != 0 {
		t.Errorf("Active() = %d, want 0", e.Active())
	}
}

func TestListenerFiresOnlyOnChange(t *testing.T) {
	var got []transform.State
	e := New(WithListener(func(s transform.State) { got = append(got, s) }))
	e.Pan(r2.Vec{})
	e.Pinch(1, r2.Vec{X: 4})
	e.Rotate(0, r2.Vec{X: 4})
	if len(got) != 0 {
		t.Fatalf("listener fired for no-op steps: %+v", got)
	}
	e.Pan(r2.Vec{X: 1})
	if len(got) != 1 || got[0].Translation.X != 1 {
		t.Fatalf("listener calls = %+v", got)
	}
	e.SetState(e.State())
	if len(got) != 2 {
		t.Errorf("SetState did not notify, calls = %d", len(got))
	}
}

func TestSetNormalizerNilRestoresIdentity(t *testing.T) {
	e := New(WithNormalizer(testViewport()), WithState(transform.State{Scale: 0.5}))
	e.SetNormalizer(nil)
	if !e.Pan(r2.Vec{X: 1e6}) {
		t.Fatal("pan rejected")
	}
	if got := e.State().Translation.X; got != 1e6 {
		t.Errorf("translation.X = %g, want 1e6", got)
	}
}

func TestSnappedRotationCarriesRemainder(t *testing.T) {
	v := testViewport()
	v.SnapAngle = math.Pi / 2
	e := New(WithNormalizer(v), WithState(transform.State{Scale: 1}))
	pivot := r2.Vec{}
	e.Handle(RotateEvent(PhaseBegan, 0, pivot))

	if e.Handle(RotateEvent(PhaseChanged, 0.3, pivot)) {
		t.Fatal("0.3 rad snapped away but reported a commit")
	}
	if e.Handle(RotateEvent(PhaseChanged, 0.3, pivot)) {
		t.Fatal("0.6 rad snapped away but reported a commit")
	}
	if !e.Handle(RotateEvent(PhaseChanged, 0.3, pivot)) {
		t.Fatal("0.9 rad did not reach the snap angle")
	}
	if got := e.State().Rotation; got != math.Pi/2 {
		t.Errorf("rotation = %g, want π/2", got)
	}
}

func TestOverrideTranslationRejectsRotation(t *testing.T) {
	frozen := normalize.Override(normalize.Identity, normalize.Funcs{
		Translation: func(_ r2.Vec, current transform.State) r2.Vec { return current.Translation },
	})
	e := New(WithNormalizer(frozen))
	if e.Rotate(1, r2.Vec{X: 10}) {
		t.Error("rotation off-centre committed although translation is frozen")
	}
	if !e.Rotate(1, r2.Vec{}) {
		t.Error("rotation about the origin rejected")
	}
}
