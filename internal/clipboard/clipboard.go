// Package clipboard moves crops to and source images from the system
// clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"sync"

	"github.com/example/pinchcrop/internal/logging"
)

var (
	// ErrNoImage is returned when the clipboard holds no image data.
	ErrNoImage = errors.New("clipboard does not contain image data")
	// ErrUnsupported is returned on platforms without a clipboard backend.
	ErrUnsupported = errors.New("clipboard is not supported on this platform")

	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

// backend exchanges raw PNG bytes with the host clipboard.
type backend interface {
	readImage() []byte
	writeImage(data []byte)
}

var (
	initOnce sync.Once
	active   backend
	initErr  error
)

// ensure opens the platform backend once per process.
func ensure() (backend, error) {
	initOnce.Do(func() {
		active, initErr = openBackend()
	})
	return active, initErr
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// WriteImage publishes img to the clipboard as PNG.
func WriteImage(img image.Image) error {
	data, err := encodeImage(img)
	if err != nil {
		return err
	}
	b, err := ensure()
	if err != nil {
		return err
	}
	b.writeImage(data)
	logging.Logger().Debug("clipboard write", slog.Int("bytes", len(data)))
	return nil
}

// ReadImage decodes the image currently on the clipboard.
func ReadImage() (image.Image, error) {
	b, err := ensure()
	if err != nil {
		return nil, err
	}
	return decodeImage(b.readImage())
}

// encodeImage turns img into the PNG bytes clipboards exchange.
func encodeImage(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("clipboard: nil image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("clipboard: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeImage decodes clipboard bytes in any registered image format.
func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("clipboard: decode: %w", err)
	}
	return img, nil
}
