package cropview

import (
	"fmt"
	"image"
	"log"
	"math"
	"time"

	"github.com/example/pinchcrop/internal/gesture"
	"github.com/example/pinchcrop/internal/theme"
	"github.com/example/pinchcrop/internal/transform"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	wheelZoom   = 1.1
	wheelRotate = math.Pi / 36
	dragRotate  = 0.01 // radians per pixel of horizontal right-drag
	keyPan      = 10
	keyZoom     = 1.25

	mousePointer = 0
	messageTTL   = 2 * time.Second
)

// Actions are the side effects a controller can trigger outside the view.
type Actions struct {
	// Save persists a crop and returns where it went.
	Save func(img *image.RGBA) (string, error)
	// Copy publishes a crop, usually to the clipboard.
	Copy func(img *image.RGBA) error
	// Cropped runs after every successful crop.
	Cropped func(img *image.RGBA)
}

// controller maps window input onto a View. It holds no screen resources so
// it can run without a display.
type controller struct {
	view    *View
	actions Actions
	tracker *gesture.Tracker

	leftDown    bool
	rotating    bool
	rotateLast  r2.Vec
	rotatePivot r2.Vec

	palette *theme.Theme

	result       *image.RGBA
	message      string
	messageUntil time.Time
	now          func() time.Time
}

func newController(v *View, a Actions) *controller {
	c := &controller{
		view:    v,
		actions: a,
		tracker: gesture.NewTracker(v.Size().Center()),
		now:     time.Now,
	}
	// A crop is only reused until the image moves.
	v.OnStateChanged(func(transform.State) { c.result = nil })
	return c
}

func (c *controller) resize(size transform.Size) {
	c.view.Resize(size)
	c.result = nil
	c.tracker.Center = size.Center()
}

func (c *controller) feed(evs []gesture.Event) bool {
	changed := false
	for _, ev := range evs {
		if c.view.Handle(ev) {
			changed = true
		}
	}
	return changed
}

// mouse handles a pointer event and reports whether a repaint is needed.
func (c *controller) mouse(e mouse.Event) bool {
	p := r2.Vec{X: float64(e.X), Y: float64(e.Y)}
	switch {
	case e.Direction == mouse.DirStep && (e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown):
		pivot := c.view.PivotAt(p)
		up := e.Button == mouse.ButtonWheelUp
		if e.Modifiers&key.ModShift != 0 {
			delta := wheelRotate
			if !up {
				delta = -delta
			}
			return c.view.Replay(gesture.RotateEvent(gesture.PhaseChanged, delta, pivot))
		}
		factor := wheelZoom
		if !up {
			factor = 1 / wheelZoom
		}
		return c.view.Replay(gesture.PinchEvent(gesture.PhaseChanged, factor, pivot))

	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		c.leftDown = true
		return c.feed(c.tracker.Down(mousePointer, p))
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		c.leftDown = false
		return c.feed(c.tracker.Up(mousePointer, p))

	case e.Button == mouse.ButtonRight && e.Direction == mouse.DirPress:
		c.rotating = true
		c.rotateLast = p
		c.rotatePivot = c.view.PivotAt(p)
		c.view.Handle(gesture.RotateEvent(gesture.PhaseBegan, 0, c.rotatePivot))
		return false
	case e.Button == mouse.ButtonRight && e.Direction == mouse.DirRelease:
		c.rotating = false
		c.view.Handle(gesture.RotateEvent(gesture.PhaseEnded, 0, c.rotatePivot))
		return false

	case e.Direction == mouse.DirNone:
		changed := false
		if c.leftDown {
			changed = c.feed(c.tracker.Move(mousePointer, p))
		}
		if c.rotating {
			delta := (p.X - c.rotateLast.X) * dragRotate
			c.rotateLast = p
			if c.view.Handle(gesture.RotateEvent(gesture.PhaseChanged, delta, c.rotatePivot)) {
				changed = true
			}
		}
		return changed
	}
	return false
}

// touch handles a touch event. Touch sequences never collide with the mouse
// pointer id.
func (c *controller) touch(e touch.Event) bool {
	id := int(e.Sequence) + 1
	p := r2.Vec{X: float64(e.X), Y: float64(e.Y)}
	switch e.Type {
	case touch.TypeBegin:
		return c.feed(c.tracker.Down(id, p))
	case touch.TypeMove:
		return c.feed(c.tracker.Move(id, p))
	case touch.TypeEnd:
		return c.feed(c.tracker.Up(id, p))
	}
	return false
}

// key handles a key press. It reports whether a repaint is needed and whether
// the window should close.
func (c *controller) key(e key.Event) (repaint, quit bool) {
	if e.Direction == key.DirRelease {
		return false, false
	}
	ctrl := e.Modifiers&key.ModControl != 0
	center := r2.Vec{}
	switch {
	case e.Code == key.CodeEscape:
		return false, true
	case e.Code == key.CodeReturnEnter:
		c.crop()
		return true, false
	case ctrl && (e.Rune == 's' || e.Code == key.CodeS):
		c.save()
		return true, false
	case ctrl && (e.Rune == 'c' || e.Code == key.CodeC):
		c.copy()
		return true, false
	case ctrl:
		return false, false
	case e.Code == key.CodeLeftArrow:
		return c.view.Engine().Pan(r2.Vec{X: -keyPan}), false
	case e.Code == key.CodeRightArrow:
		return c.view.Engine().Pan(r2.Vec{X: keyPan}), false
	case e.Code == key.CodeUpArrow:
		return c.view.Engine().Pan(r2.Vec{Y: -keyPan}), false
	case e.Code == key.CodeDownArrow:
		return c.view.Engine().Pan(r2.Vec{Y: keyPan}), false
	}
	switch e.Rune {
	case 'q', 'Q':
		return false, true
	case 'f', 'F':
		c.view.FillCropRect()
		return true, false
	case 'g', 'G':
		c.view.FitCropRect()
		return true, false
	case '0':
		c.view.SetState(transform.Identity)
		return true, false
	case '+', '=':
		return c.view.Engine().Pinch(keyZoom, center), false
	case '-':
		return c.view.Engine().Pinch(1/keyZoom, center), false
	case 'r':
		return c.view.Engine().Rotate(math.Pi/2, center), false
	case 'R':
		return c.view.Engine().Rotate(-math.Pi/2, center), false
	}
	return false, false
}

func (c *controller) crop() *image.RGBA {
	img, err := c.view.RequestCrop()
	if err != nil {
		log.Printf("crop: %v", err)
		c.say(fmt.Sprintf("crop failed: %v", err))
		return nil
	}
	c.result = img
	c.say(fmt.Sprintf("cropped %dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
	if c.actions.Cropped != nil {
		c.actions.Cropped(img)
	}
	return img
}

// latest returns the last crop, cropping now if there is none.
func (c *controller) latest() *image.RGBA {
	if c.result != nil {
		return c.result
	}
	return c.crop()
}

func (c *controller) save() {
	if c.actions.Save == nil {
		return
	}
	img := c.latest()
	if img == nil {
		return
	}
	path, err := c.actions.Save(img)
	if err != nil {
		log.Printf("save: %v", err)
		c.say(fmt.Sprintf("save failed: %v", err))
		return
	}
	c.say(fmt.Sprintf("saved %s", path))
}

func (c *controller) copy() {
	if c.actions.Copy == nil {
		return
	}
	img := c.latest()
	if img == nil {
		return
	}
	if err := c.actions.Copy(img); err != nil {
		log.Printf("copy: %v", err)
		c.say(fmt.Sprintf("copy failed: %v", err))
		return
	}
	c.say("crop copied to clipboard")
}

func (c *controller) say(msg string) {
	c.message = msg
	c.messageUntil = c.now().Add(messageTTL)
	log.Print(msg)
}

// status is the text shown in the status line.
func (c *controller) status() string {
	s := c.view.State()
	line := fmt.Sprintf("%.0f%%  %.1f°  %+.0f,%+.0f",
		s.Scale*100, s.Rotation*180/math.Pi, s.Translation.X, s.Translation.Y)
	if c.message != "" && c.now().Before(c.messageUntil) {
		line += "  " + c.message
	}
	return line
}
