package cropview

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"github.com/example/pinchcrop/internal/render"
	"github.com/example/pinchcrop/internal/theme"
	"github.com/example/pinchcrop/internal/transform"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"
)

const statusHeight = 20

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// Window shows a View in a native window and turns mouse, touch and keyboard
// input into gestures.
type Window struct {
	View    *View
	Theme   *theme.Theme
	Title   string
	Actions Actions
}

// Run executes the UI loop using shiny's driver. It returns when the window
// closes.
func (w *Window) Run() { driver.Main(w.Main) }

type paintState struct {
	width, height int
	frame         *image.RGBA
	overlay       *image.RGBA
	spec          render.Spec
	status        string
}

// snapshot renders everything that reads the view. It must run on the event
// goroutine.
func (c *controller) snapshot(width, height int) paintState {
	st := paintState{width: width, height: height, spec: c.view.CropSpec(), status: c.status()}
	frame, err := c.view.Frame()
	if err != nil {
		log.Printf("render frame: %v", err)
	}
	st.frame = frame
	st.overlay = c.view.Overlay(c.theme().Dim)
	return st
}

func (c *controller) theme() *theme.Theme {
	if c.palette == nil {
		return theme.Default()
	}
	return c.palette
}

// Main runs the window on s.
func (w *Window) Main(s screen.Screen) {
	vs := w.View.Size()
	width, height := int(vs.W), int(vs.H)+statusHeight
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: w.Title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer win.Release()

	c := newController(w.View, w.Actions)
	c.palette = w.Theme

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, win, st, c.theme())
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	for {
		switch e := win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			h := height - statusHeight
			if h < 1 {
				h = 1
			}
			c.resize(transform.Size{W: float64(width), H: float64(h)})
			win.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := c.snapshot(width, height)
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if c.mouse(e) {
				win.Send(paint.Event{})
			}
		case touch.Event:
			if c.touch(e) {
				win.Send(paint.Event{})
			}
		case key.Event:
			repaint, quit := c.key(e)
			if quit {
				return
			}
			if repaint {
				win.Send(paint.Event{})
			}
		case error:
			log.Print(e)
		}
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState, th *theme.Theme) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)
	crop := st.spec.Bounds().Pixels()
	drawCheckerboard(dst, crop.Intersect(dst.Bounds()), 8, th.CheckerLight, th.CheckerDark)
	if ctx.Err() != nil {
		return
	}

	if st.frame != nil {
		draw.Draw(dst, st.frame.Bounds(), st.frame, st.frame.Bounds().Min, draw.Over)
	}
	if ctx.Err() != nil {
		return
	}
	if st.overlay != nil {
		draw.Draw(dst, st.overlay.Bounds(), st.overlay, st.overlay.Bounds().Min, draw.Over)
	}
	if !st.spec.IsPath() && st.spec.Mask == nil {
		render.Outline(dst, st.spec, th.Border, 2)
		render.Grid(dst, crop, th.Grid, 3)
	}
	if ctx.Err() != nil {
		return
	}

	drawStatus(dst, st.status, th)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

var (
	statusFaceOnce sync.Once
	statusFace     font.Face
)

// statusFont returns Go Regular at the status bar size, falling back to the
// built-in bitmap face.
func statusFont() font.Face {
	statusFaceOnce.Do(func() {
		statusFace = basicfont.Face7x13
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("parse status font: %v", err)
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 13, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Printf("status font face: %v", err)
			return
		}
		statusFace = face
	})
	return statusFace
}

func drawStatus(dst *image.RGBA, text string, th *theme.Theme) {
	b := dst.Bounds()
	bar := image.Rect(b.Min.X, b.Max.Y-statusHeight, b.Max.X, b.Max.Y)
	draw.Draw(dst, bar, image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(th.StatusText),
		Face: statusFont(),
		Dot:  fixed.P(bar.Min.X+6, bar.Max.Y-6),
	}
	d.DrawString(text)
}
