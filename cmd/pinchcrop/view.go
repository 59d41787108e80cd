package main

import (
	"fmt"
	"image"

	"github.com/example/pinchcrop/internal/config"
	"github.com/example/pinchcrop/internal/cropview"
	"github.com/example/pinchcrop/internal/render"
	"github.com/example/pinchcrop/internal/theme"
	"github.com/example/pinchcrop/internal/transform"
)

const (
	maxWindowW = 1280
	maxWindowH = 800
	minWindow  = 240
)

// viewOptions turns the crop section of the config into view options.
// Explicit interpolation and background values override the config.
func viewOptions(c config.Crop, interpolation, background string) ([]cropview.Option, error) {
	opts := []cropview.Option{cropview.WithPolicy(c.Apply)}
	interp, err := render.ParseInterpolator(firstNonEmpty(interpolation, c.Interpolation))
	if err != nil {
		return nil, err
	}
	opts = append(opts, cropview.WithInterpolator(interp))
	if bg := firstNonEmpty(background, c.Background); bg != "" {
		col, err := theme.ParseColor(bg)
		if err != nil {
			return nil, fmt.Errorf("invalid background: %w", err)
		}
		opts = append(opts, cropview.WithBackground(col))
	}
	return opts, nil
}

// windowSize fits img on a typical screen without upscaling past its own
// size.
func windowSize(img image.Image) transform.Size {
	s := transform.SizeOf(img.Bounds())
	limit := transform.Size{W: maxWindowW, H: maxWindowH}
	if k := s.AspectFitScale(limit); k < 1 {
		s = s.Scaled(k)
	}
	if s.W < minWindow {
		s.W = minWindow
	}
	if s.H < minWindow {
		s.H = minWindow
	}
	return s
}

// cropSpec builds a crop region from -rect, -path and the mask flags.
func cropSpec(rect, path, maskFile, maskMode string, invert bool, feather int) (render.Spec, bool, error) {
	var spec render.Spec
	set := false
	switch {
	case rect != "" && path != "":
		return spec, false, fmt.Errorf("-rect and -path are mutually exclusive")
	case rect != "":
		r, err := parseRectF(rect)
		if err != nil {
			return spec, false, err
		}
		spec, set = render.RectSpec(r), true
	case path != "":
		p, err := render.ParsePath(path)
		if err != nil {
			return spec, false, err
		}
		spec, set = render.PathSpec(p), true
	}
	if maskFile == "" {
		return spec, set, nil
	}
	if !set {
		return spec, false, fmt.Errorf("-mask needs -rect or -path")
	}
	mode, err := render.ParseMaskMode(maskMode)
	if err != nil {
		return spec, false, err
	}
	img, err := loadImage(maskFile)
	if err != nil {
		return spec, false, fmt.Errorf("load mask: %w", err)
	}
	if feather < 0 {
		feather = 0
	}
	return spec.WithMask(&render.Mask{Image: img, Mode: mode, Inverted: invert, Feather: feather}), true, nil
}
