package theme

import (
	"image/color"
	"strings"
)

// Theme defines the colours of the crop window.
type Theme struct {
	Name string

	// Canvas
	Background   color.RGBA // Behind the image
	CheckerLight color.RGBA // Transparent image areas
	CheckerDark  color.RGBA

	// Crop overlay
	Dim    color.RGBA // Outside the crop region
	Border color.RGBA // Crop region outline
	Grid   color.RGBA // Rule-of-thirds lines inside a rectangular region

	// Status line
	StatusBackground color.RGBA
	StatusText       color.RGBA
}

// Default returns the built-in dark theme.
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.RGBA{0, 0, 0, 255},
		CheckerLight:     color.RGBA{90, 90, 90, 255},
		CheckerDark:      color.RGBA{60, 60, 60, 255},
		Dim:              color.RGBA{0, 0, 0, 230},
		Border:           color.RGBA{255, 255, 255, 255},
		Grid:             color.RGBA{128, 128, 128, 128},
		StatusBackground: color.RGBA{64, 64, 64, 255},
		StatusText:       color.RGBA{255, 255, 255, 255},
	}
}

// Light returns the built-in light theme.
func Light() *Theme {
	return &Theme{
		Name:             "Light",
		Background:       color.RGBA{220, 220, 220, 255},
		CheckerLight:     color.RGBA{220, 220, 220, 255},
		CheckerDark:      color.RGBA{192, 192, 192, 255},
		Dim:              color.RGBA{255, 255, 255, 180},
		Border:           color.RGBA{0, 0, 0, 255},
		Grid:             color.RGBA{0, 0, 0, 96},
		StatusBackground: color.RGBA{200, 200, 200, 255},
		StatusText:       color.RGBA{0, 0, 0, 255},
	}
}

// Builtin returns a built-in theme by case-insensitive name.
func Builtin(name string) (*Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default", "dark":
		return Default(), true
	case "light":
		return Light(), true
	}
	return nil, false
}
