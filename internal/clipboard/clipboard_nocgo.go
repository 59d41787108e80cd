//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import "errors"

var errCGODisabled = errors.New("clipboard operations require cgo support")

func openBackend() (backend, error) {
	if !hasDisplay() {
		return nil, errNoDisplay
	}
	return nil, errCGODisabled
}
