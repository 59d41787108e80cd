package gesture

import (
	"log/slog"

	"github.com/example/pinchcrop/internal/logging"
	"github.com/example/pinchcrop/internal/normalize"
	"github.com/example/pinchcrop/internal/transform"
	"gonum.org/v1/gonum/spatial/r2"
)

// Engine owns the committed transform state of one view and applies gesture
// steps to it.
//
// Every step is applied to the current committed state, never to a snapshot
// taken when the gesture began, so simultaneous pinch and rotate sessions
// compose. Rotate and pinch move the translation so the pivot stays under the
// fingers; the angle or scale and the translation are committed together or
// not at all.
//
// Engine is not safe for concurrent use. Events are expected from a single
// event loop.
type Engine struct {
	state      transform.State
	normalizer normalize.Normalizer
	listeners  []func(transform.State)
	sessions   map[Kind]*Session
}

// Option configures an Engine.
type Option func(*Engine)

// WithState sets the initial state without notifying listeners.
func WithState(s transform.State) Option { return func(e *Engine) { e.state = s } }

// WithNormalizer sets the policy consulted before each commit.
func WithNormalizer(n normalize.Normalizer) Option {
	return func(e *Engine) { e.normalizer = n }
}

// WithListener registers a state-change callback.
func WithListener(fn func(transform.State)) Option {
	return func(e *Engine) { e.OnStateChanged(fn) }
}

// New creates an Engine at the identity state.
func New(opts ...Option) *Engine {
	e := &Engine{
		state:    transform.Identity,
		sessions: make(map[Kind]*Session),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// State returns the committed state.
func (e *Engine) State() transform.State { return e.state }

// SetState commits s directly, bypassing normalization, and notifies
// listeners.
func (e *Engine) SetState(s transform.State) {
	e.state = s
	e.notify()
}

// Normalizer returns the active policy, never nil.
func (e *Engine) Normalizer() normalize.Normalizer {
	return normalize.OrIdentity(e.normalizer)
}

// SetNormalizer replaces the policy. Nil restores Identity.
func (e *Engine) SetNormalizer(n normalize.Normalizer) { e.normalizer = n }

// OnStateChanged registers fn to run after every committed change.
func (e *Engine) OnStateChanged(fn func(transform.State)) {
	if fn != nil {
		e.listeners = append(e.listeners, fn)
	}
}

// Session returns a copy of the active session for kind.
func (e *Engine) Session(kind Kind) (Session, bool) {
	s, ok := e.sessions[kind]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Active reports how many gesture sessions are open.
func (e *Engine) Active() int { return len(e.sessions) }

// Handle feeds one event to the engine and reports whether it changed the
// committed state. Possible, Cancelled and Failed events never do; Began
// only opens a session.
func (e *Engine) Handle(ev Event) bool {
	switch ev.Phase {
	case PhaseBegan:
		e.sessions[ev.Kind] = newSession(ev)
		return false
	case PhaseChanged, PhaseEnded:
		s, ok := e.sessions[ev.Kind]
		if !ok {
			// A recognizer that skips Began anchors at this event's pivot.
			s = newSession(ev)
			e.sessions[ev.Kind] = s
		}
		s.record(ev)
		changed := e.step(s, ev)
		if changed {
			s.Commits++
		}
		if ev.Phase == PhaseEnded {
			delete(e.sessions, ev.Kind)
		}
		return changed
	case PhaseCancelled, PhaseFailed:
		delete(e.sessions, ev.Kind)
	}
	return false
}

func (e *Engine) step(s *Session, ev Event) bool {
	switch s.Kind {
	case KindRotate:
		// Rotation withheld by snapping carries into the next step so slow
		// turns still reach the next snap angle. Rejected steps carry nothing.
		delta := ev.Rotation + s.residual
		applied, ok := e.rotate(delta, s.Pivot)
		s.residual = 0
		if ok {
			s.residual = delta - applied
		}
		return ok && applied != 0
	case KindPinch:
		return e.Pinch(ev.Scale, s.Pivot)
	case KindPan:
		return e.Pan(ev.Translation)
	}
	return false
}

// Rotate turns the content by delta radians about pivot.
func (e *Engine) Rotate(delta float64, pivot r2.Vec) bool {
	applied, ok := e.rotate(delta, pivot)
	return ok && applied != 0
}

func (e *Engine) rotate(delta float64, pivot r2.Vec) (float64, bool) {
	cur := e.state
	n := e.Normalizer()

	rotation := n.NormalizeRotation(cur.Rotation+delta, cur)
	applied := rotation - cur.Rotation

	translation := cur.Translation
	if applied != 0 {
		translation = transform.Rotate(applied).About(pivot).TransformPoint(cur.Translation)
	}
	if admitted := n.NormalizeTranslation(translation, cur); admitted != translation {
		logging.Logger().Debug("rotate rejected",
			slog.Float64("delta", delta),
			slog.Float64("applied", applied),
			slog.Any("translation", translation))
		return 0, false
	}
	e.commit(transform.State{Rotation: rotation, Scale: cur.Scale, Translation: translation})
	return applied, true
}

// Pinch scales the content by factor about pivot.
func (e *Engine) Pinch(factor float64, pivot r2.Vec) bool {
	cur := e.state
	n := e.Normalizer()

	scale := n.NormalizeScale(cur.Scale*factor, cur)
	applied := factor
	if cur.Scale != 0 {
		applied = scale / cur.Scale
	}

	translation := cur.Translation
	if applied != 1 {
		translation = transform.Scale(applied, applied).About(pivot).TransformPoint(cur.Translation)
	}
	if admitted := n.NormalizeTranslation(translation, cur); admitted != translation {
		logging.Logger().Debug("pinch rejected",
			slog.Float64("factor", factor),
			slog.Float64("applied", applied),
			slog.Any("translation", translation))
		return false
	}
	return e.commit(transform.State{Rotation: cur.Rotation, Scale: scale, Translation: translation})
}

// Pan moves the content by delta. The normalized translation is committed,
// so pushing against a bound pins the content at the bound.
func (e *Engine) Pan(delta r2.Vec) bool {
	cur := e.state
	translation := e.Normalizer().NormalizeTranslation(r2.Add(cur.Translation, delta), cur)
	return e.commit(transform.State{Rotation: cur.Rotation, Scale: cur.Scale, Translation: translation})
}

func (e *Engine) commit(next transform.State) bool {
	if next.Equal(e.state) {
		return false
	}
	e.state = next
	e.notify()
	return true
}

func (e *Engine) notify() {
	for _, fn := range e.listeners {
		fn(e.state)
	}
}
