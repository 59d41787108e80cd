package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

type fakeBackend struct {
	monitors []Monitor
	root     *image.RGBA
	err      error
}

func (f fakeBackend) Monitors() ([]Monitor, error) {
	if len(f.monitors) == 0 {
		return nil, errNoMonitors
	}
	return f.monitors, nil
}

func (f fakeBackend) Root() (*image.RGBA, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.root, nil
}

func swap(t *testing.T, b backend, p portalFunc, onWayland bool) {
	t.Helper()
	prevDirect, prevPortal, prevWayland := direct, portal, wayland
	direct, portal = b, p
	wayland = func() bool { return onWayland }
	t.Cleanup(func() { direct, portal, wayland = prevDirect, prevPortal, prevWayland })
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func portalReturning(img *image.RGBA, err error, calls *int) portalFunc {
	return func(context.Context, Options) (*image.RGBA, error) {
		*calls++
		return img, err
	}
}

func TestScreenshotPrefersX11(t *testing.T) {
	var calls int
	root := solid(4, 4, color.RGBA{R: 255, A: 255})
	swap(t, fakeBackend{root: root}, portalReturning(nil, errors.New("no portal"), &calls), false)

	img, err := Screenshot(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if img != root || calls != 0 {
		t.Errorf("got portal calls %d, want the root image only", calls)
	}
}

func TestScreenshotFallsBackToPortal(t *testing.T) {
	var calls int
	shot := solid(2, 2, color.RGBA{G: 255, A: 255})
	swap(t, fakeBackend{err: errors.New("no X")}, portalReturning(shot, nil, &calls), false)

	img, err := Screenshot(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if img != shot || calls != 1 {
		t.Errorf("portal calls = %d, want 1", calls)
	}
}

func TestScreenshotFallbackFailureMentionsBoth(t *testing.T) {
	var calls int
	portalErr := errors.New("portal gone")
	swap(t, fakeBackend{err: errors.New("no X")}, portalReturning(nil, portalErr, &calls), false)

	_, err := Screenshot(context.Background(), Options{})
	if !errors.Is(err, portalErr) {
		t.Fatalf("expected wrapped portal error, got %v", err)
	}
	if !strings.Contains(err.Error(), "no X") {
		t.Errorf("error %q lost the X11 cause", err)
	}
}

func TestWaylandAndInteractiveUsePortal(t *testing.T) {
	for _, tt := range []struct {
		name        string
		wayland     bool
		interactive bool
	}{
		{"wayland", true, false},
		{"interactive", false, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			shot := solid(2, 2, color.RGBA{B: 255, A: 255})
			swap(t, fakeBackend{root: solid(1, 1, color.RGBA{})}, portalReturning(shot, nil, &calls), tt.wayland)
			img, err := Screenshot(context.Background(), Options{Interactive: tt.interactive})
			if err != nil {
				t.Fatalf("Screenshot: %v", err)
			}
			if img != shot || calls != 1 {
				t.Errorf("portal calls = %d, want 1", calls)
			}
		})
	}
}

func TestScreenshotCropsToDisplay(t *testing.T) {
	root := image.NewRGBA(image.Rect(0, 0, 20, 10))
	root.SetRGBA(15, 5, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	monitors := []Monitor{
		{Index: 0, Name: "eDP-1", Rect: image.Rect(0, 0, 10, 10)},
		{Index: 1, Name: "HDMI-1", Rect: image.Rect(10, 0, 20, 10), Primary: true},
	}
	var calls int
	swap(t, fakeBackend{root: root, monitors: monitors}, portalReturning(nil, nil, &calls), false)

	img, err := Screenshot(context.Background(), Options{Display: "primary"})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if got, want := img.Bounds(), image.Rect(0, 0, 10, 10); got != want {
		t.Fatalf("bounds = %v, want %v", got, want)
	}
	if got := img.RGBAAt(5, 5); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestFindMonitor(t *testing.T) {
	monitors := []Monitor{
		{Index: 0, Name: "eDP-1"},
		{Index: 1, Name: "HDMI-1", Primary: true},
	}
	tests := []struct {
		sel     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"primary", 1, false},
		{"#1", 1, false},
		{"0", 0, false},
		{"hdmi", 1, false},
		{"5", 0, true},
		{"dp-9", 0, true},
	}
	for _, tt := range tests {
		got, err := FindMonitor(monitors, tt.sel)
		if tt.wantErr {
			if err == nil {
				t.Errorf("FindMonitor(%q) expected error", tt.sel)
			}
			continue
		}
		if err != nil || got.Index != tt.want {
			t.Errorf("FindMonitor(%q) = %d, %v, want %d", tt.sel, got.Index, err, tt.want)
		}
	}
	if _, err := FindMonitor(nil, ""); !errors.Is(err, errNoMonitors) {
		t.Errorf("empty list error = %v", err)
	}
}
