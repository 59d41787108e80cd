//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"context"
	"image"
)

type unsupportedBackend struct{}

func newBackend() backend { return unsupportedBackend{} }

func (unsupportedBackend) Monitors() ([]Monitor, error) { return nil, ErrUnsupported }

func (unsupportedBackend) Root() (*image.RGBA, error) { return nil, ErrUnsupported }

func runningOnWayland() bool { return false }

func portalScreenshot(context.Context, Options) (*image.RGBA, error) { return nil, ErrUnsupported }
