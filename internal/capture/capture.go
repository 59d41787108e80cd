// Package capture grabs the desktop so it can be opened as a crop source.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
)

var (
	errNoMonitors = errors.New("no monitors available")
	// ErrUnsupported is returned on platforms without a capture backend.
	ErrUnsupported = errors.New("screen capture is not supported on this platform")
)

// Options selects what to capture.
type Options struct {
	// Display limits the capture to one monitor. See FindMonitor.
	Display string
	// Interactive lets the desktop portal ask the user for a region. It
	// always goes through the portal.
	Interactive bool
	// IncludeCursor asks the portal to draw the pointer.
	IncludeCursor bool
}

// backend is a direct screen source, X11 where available.
type backend interface {
	Monitors() ([]Monitor, error)
	Root() (*image.RGBA, error)
}

// portalFunc asks the desktop portal for a screenshot.
type portalFunc func(ctx context.Context, opts Options) (*image.RGBA, error)

var (
	direct  backend    = newBackend()
	portal  portalFunc = portalScreenshot
	wayland            = runningOnWayland
)

// Screenshot captures the desktop. Wayland sessions and interactive
// captures use the desktop portal; otherwise the X11 root window is read
// directly with the portal as a fallback.
func Screenshot(ctx context.Context, opts Options) (*image.RGBA, error) {
	img, err := screenshot(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.Display == "" || opts.Interactive {
		return img, nil
	}
	monitors, err := direct.Monitors()
	if err != nil {
		return nil, fmt.Errorf("capture display %q: %w", opts.Display, err)
	}
	mon, err := FindMonitor(monitors, opts.Display)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, mon.Rect)
}

func screenshot(ctx context.Context, opts Options) (*image.RGBA, error) {
	if opts.Interactive || wayland() {
		return portal(ctx, opts)
	}
	img, directErr := direct.Root()
	if directErr == nil {
		return img, nil
	}
	img, err := portal(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("screen capture: %v; portal fallback failed: %w", directErr, err)
	}
	return img, nil
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
