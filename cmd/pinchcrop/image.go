package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/pinchcrop/internal/clipboard"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	readClipboardFn  = clipboard.ReadImage
	writeClipboardFn = clipboard.WriteImage
	newID            = func() string { return uuid.NewString()[:8] }
)

// loadImage decodes path in any registered format.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// loadSource reads the crop source from path or, when fromClipboard is set,
// from the clipboard.
func loadSource(path string, fromClipboard bool) (image.Image, error) {
	if fromClipboard {
		img, err := readClipboardFn()
		if err != nil {
			return nil, fmt.Errorf("read image from clipboard: %w", err)
		}
		return img, nil
	}
	return loadImage(path)
}

// outputPath resolves where a crop is saved. An explicit path wins; otherwise
// the configured pattern is expanded inside the save directory.
func outputPath(explicit, saveDir, pattern string) string {
	if explicit != "" {
		return explicit
	}
	if pattern == "" {
		pattern = "crop-{id}.png"
	}
	name := strings.ReplaceAll(pattern, "{id}", newID())
	if saveDir == "" {
		return name
	}
	return filepath.Join(saveDir, name)
}

// writePNG encodes img to path, or to stdout when path is "-".
func writePNG(path string, img image.Image) error {
	var w io.Writer
	if path == "-" {
		w = os.Stdout
	} else {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output %q: %w", path, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				log.Printf("close %s: %v", path, cerr)
			}
		}()
		w = f
	}
	if err := png.Encode(w, img); err != nil {
		if path == "-" {
			return fmt.Errorf("write PNG to stdout: %w", err)
		}
		return fmt.Errorf("write PNG to %q: %w", path, err)
	}
	return nil
}

// saveCrop writes img and reports the absolute path.
func (r *root) saveCrop(path string, img image.Image) (string, error) {
	if err := writePNG(path, img); err != nil {
		return "", err
	}
	if path == "-" {
		fmt.Fprintln(os.Stderr, "wrote PNG data to stdout")
		return path, nil
	}
	saved := path
	if abs, err := filepath.Abs(path); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	r.notifySave(saved)
	return saved, nil
}

// copyCrop publishes img to the clipboard.
func (r *root) copyCrop(img image.Image) error {
	if err := writeClipboardFn(img); err != nil {
		return fmt.Errorf("copy PNG to clipboard: %w", err)
	}
	b := img.Bounds()
	detail := fmt.Sprintf("%dx%d crop", b.Dx(), b.Dy())
	fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
	r.notifyCopy(detail)
	return nil
}
