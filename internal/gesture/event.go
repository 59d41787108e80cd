// Package gesture turns streams of rotate, pinch and pan deltas into
// committed transform states.
package gesture

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kind identifies a gesture stream.
type Kind int

const (
	KindRotate Kind = iota
	KindPinch
	KindPan
)

func (k Kind) String() string {
	switch k {
	case KindRotate:
		return "rotate"
	case KindPinch:
		return "pinch"
	case KindPan:
		return "pan"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Phase is the recognizer phase attached to an event.
type Phase int

const (
	PhasePossible Phase = iota
	PhaseBegan
	PhaseChanged
	PhaseEnded
	PhaseCancelled
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePossible:
		return "possible"
	case PhaseBegan:
		return "began"
	case PhaseChanged:
		return "changed"
	case PhaseEnded:
		return "ended"
	case PhaseCancelled:
		return "cancelled"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Event is one step of a gesture. Deltas are incremental: each event carries
// only the change since the previous event of the same kind.
//
// Rotation is in radians (rotate), Scale is a ratio (pinch) and Translation
// is in view units (pan). Pivot is in view coordinates relative to the view
// centre; it is read from the Began event and fixed for the session.
type Event struct {
	Kind        Kind
	Phase       Phase
	Rotation    float64
	Scale       float64
	Translation r2.Vec
	Pivot       r2.Vec
}

// RotateEvent builds a rotate event.
func RotateEvent(phase Phase, delta float64, pivot r2.Vec) Event {
	return Event{Kind: KindRotate, Phase: phase, Rotation: delta, Scale: 1, Pivot: pivot}
}

// PinchEvent builds a pinch event.
func PinchEvent(phase Phase, factor float64, pivot r2.Vec) Event {
	return Event{Kind: KindPinch, Phase: phase, Scale: factor, Pivot: pivot}
}

// PanEvent builds a pan event.
func PanEvent(phase Phase, delta r2.Vec) Event {
	return Event{Kind: KindPan, Phase: phase, Scale: 1, Translation: delta}
}

// Session is the bookkeeping for one active gesture kind. The cumulative
// fields record raw input since Began; they are informational and never
// applied to the state.
type Session struct {
	Kind        Kind
	Pivot       r2.Vec
	Rotation    float64
	Scale       float64
	Translation r2.Vec
	Steps       int
	Commits     int

	residual float64
}

func newSession(ev Event) *Session {
	return &Session{Kind: ev.Kind, Pivot: ev.Pivot, Scale: 1}
}

func (s *Session) record(ev Event) {
	s.Steps++
	switch s.Kind {
	case KindRotate:
		s.Rotation += ev.Rotation
	case KindPinch:
		s.Scale *= ev.Scale
	case KindPan:
		s.Translation = r2.Add(s.Translation, ev.Translation)
	}
}
