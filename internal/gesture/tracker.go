package gesture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Tracker turns raw pointer positions into gesture events.
//
// The centroid of the tracked pointers drives a pan stream. While two
// pointers are down they also drive a rotate and a pinch stream anchored at
// their midpoint. Only the first two pointers are tracked; further pointers
// are ignored until one of them lifts.
type Tracker struct {
	// Center is the view centre in the same coordinate space as the pointer
	// positions. Pivots are reported relative to it.
	Center r2.Vec

	ids []int
	pos map[int]r2.Vec

	panning  bool
	centroid r2.Vec

	pinching  bool
	prevDist  float64
	prevAngle float64
}

// NewTracker returns a Tracker for a view centred at center.
func NewTracker(center r2.Vec) *Tracker {
	return &Tracker{Center: center, pos: make(map[int]r2.Vec)}
}

// Pointers reports how many pointers are tracked.
func (t *Tracker) Pointers() int { return len(t.ids) }

// Down registers a new pointer.
func (t *Tracker) Down(id int, p r2.Vec) []Event {
	if t.pos == nil {
		t.pos = make(map[int]r2.Vec)
	}
	if _, ok := t.pos[id]; ok || len(t.ids) == 2 {
		return nil
	}
	t.ids = append(t.ids, id)
	t.pos[id] = p

	var evs []Event
	if !t.panning {
		t.panning = true
		evs = append(evs, PanEvent(PhaseBegan, r2.Vec{}))
	}
	t.centroid = t.currentCentroid()
	if len(t.ids) == 2 {
		evs = append(evs, t.beginPinch()...)
	}
	return evs
}

// Move updates a tracked pointer.
func (t *Tracker) Move(id int, p r2.Vec) []Event {
	if _, ok := t.pos[id]; !ok {
		return nil
	}
	t.pos[id] = p

	var evs []Event
	if t.pinching {
		dist, angle := t.span()
		pivot := r2.Sub(t.currentCentroid(), t.Center)
		factor := 1.0
		if t.prevDist > 0 && dist > 0 {
			factor = dist / t.prevDist
		}
		evs = append(evs,
			PinchEvent(PhaseChanged, factor, pivot),
			RotateEvent(PhaseChanged, wrapAngle(angle-t.prevAngle), pivot),
		)
		t.prevDist = dist
		t.prevAngle = angle
	}
	c := t.currentCentroid()
	if delta := r2.Sub(c, t.centroid); delta != (r2.Vec{}) {
		evs = append(evs, PanEvent(PhaseChanged, delta))
	}
	t.centroid = c
	return evs
}

// Up releases a tracked pointer.
func (t *Tracker) Up(id int, p r2.Vec) []Event {
	if _, ok := t.pos[id]; !ok {
		return nil
	}
	evs := t.Move(id, p)
	if t.pinching {
		evs = append(evs, t.endPinch(PhaseEnded)...)
	}
	t.remove(id)
	if len(t.ids) == 0 {
		t.panning = false
		return append(evs, PanEvent(PhaseEnded, r2.Vec{}))
	}
	t.centroid = t.currentCentroid()
	return evs
}

// Cancel drops every pointer and cancels the open streams.
func (t *Tracker) Cancel() []Event {
	var evs []Event
	if t.pinching {
		evs = append(evs, t.endPinch(PhaseCancelled)...)
	}
	if t.panning {
		t.panning = false
		evs = append(evs, PanEvent(PhaseCancelled, r2.Vec{}))
	}
	t.ids = t.ids[:0]
	for id := range t.pos {
		delete(t.pos, id)
	}
	return evs
}

func (t *Tracker) beginPinch() []Event {
	t.pinching = true
	t.prevDist, t.prevAngle = t.span()
	pivot := r2.Sub(t.currentCentroid(), t.Center)
	return []Event{
		PinchEvent(PhaseBegan, 1, pivot),
		RotateEvent(PhaseBegan, 0, pivot),
	}
}

func (t *Tracker) endPinch(phase Phase) []Event {
	t.pinching = false
	pivot := r2.Sub(t.currentCentroid(), t.Center)
	return []Event{
		PinchEvent(phase, 1, pivot),
		RotateEvent(phase, 0, pivot),
	}
}

func (t *Tracker) span() (dist, angle float64) {
	d := r2.Sub(t.pos[t.ids[1]], t.pos[t.ids[0]])
	return r2.Norm(d), math.Atan2(d.Y, d.X)
}

func (t *Tracker) currentCentroid() r2.Vec {
	var c r2.Vec
	if len(t.ids) == 0 {
		return c
	}
	for _, id := range t.ids {
		c = r2.Add(c, t.pos[id])
	}
	return r2.Scale(1/float64(len(t.ids)), c)
}

func (t *Tracker) remove(id int) {
	delete(t.pos, id)
	for i, v := range t.ids {
		if v == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			return
		}
	}
}

// wrapAngle maps a to (-π, π] so crossing the atan2 branch cut is a small
// step rather than a full turn.
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
