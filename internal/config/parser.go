package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/pinchcrop/internal/render"
	"github.com/example/pinchcrop/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		key, value, ok := splitLine(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case currentSection == "crop":
			err = setCropField(&cfg.Crop, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

// splitLine parses "key = value" or "key: value". Whichever separator comes
// first wins so colour values and paths may contain the other one.
func splitLine(line string) (key, value string, ok bool) {
	i := strings.IndexAny(line, "=:")
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	value = strings.TrimSpace(line[i+1:])
	// Remove quotes if present
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "output_pattern":
		cfg.OutputPattern = value
	}
	return nil
}

func setCropField(c *Crop, key, value string) error {
	var dst *float64
	switch strings.ToLower(key) {
	case "fit_inset":
		dst = &c.FitInset
	case "edge_margin":
		dst = &c.EdgeMargin
	case "min_scale_factor":
		dst = &c.MinScaleFactor
	case "max_scale_factor":
		dst = &c.MaxScaleFactor
	case "snap_degrees":
		dst = &c.SnapDegrees
	case "interpolation":
		if _, err := render.ParseInterpolator(value); err != nil {
			return err
		}
		c.Interpolation = value
		return nil
	case "background":
		if value != "" {
			if _, err := theme.ParseColor(value); err != nil {
				return fmt.Errorf("invalid color for key %s: %w", key, err)
			}
		}
		c.Background = value
		return nil
	default:
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	*dst = f
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "crop":
		n.Crop = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}
