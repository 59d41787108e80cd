//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"fmt"

	"golang.design/x/clipboard"
)

type systemClipboard struct{}

func (systemClipboard) readImage() []byte { return clipboard.Read(clipboard.FmtImage) }

func (systemClipboard) writeImage(data []byte) { clipboard.Write(clipboard.FmtImage, data) }

func openBackend() (backend, error) {
	if !hasDisplay() {
		return nil, errNoDisplay
	}
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("clipboard: init: %w", err)
	}
	return systemClipboard{}, nil
}
