package config

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/example/pinchcrop/internal/normalize"
	"github.com/example/pinchcrop/internal/theme"
)

// DefaultOutputPattern names crops saved without an explicit path. {id} is
// replaced by a short random identifier.
const DefaultOutputPattern = "crop-{id}.png"

// Crop holds the viewport policy and renderer settings.
type Crop struct {
	FitInset       float64 `split_words:"true"`
	EdgeMargin     float64 `split_words:"true"`
	MinScaleFactor float64 `split_words:"true"`
	MaxScaleFactor float64 `split_words:"true"`
	SnapDegrees    float64 `split_words:"true"`
	Interpolation  string
	Background     string // #RRGGBB[AA]; empty leaves uncovered pixels transparent
}

// Notify holds notification settings.
type Notify struct {
	Crop bool
	Save bool
	Copy bool
}

// Config holds the application configuration.
type Config struct {
	Theme         string
	SaveDir       string `split_words:"true"`
	OutputPattern string `split_words:"true"`
	Crop          Crop
	Notify        Notify
	Themes        map[string]*theme.Theme `ignored:"true"`
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		OutputPattern: DefaultOutputPattern,
		Crop: Crop{
			FitInset:       normalize.DefaultFitInset,
			EdgeMargin:     normalize.DefaultEdgeMargin,
			MinScaleFactor: normalize.DefaultMinScaleFactor,
			MaxScaleFactor: normalize.DefaultMaxScaleFactor,
			Interpolation:  "bilinear",
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// Apply copies the policy settings onto v.
func (c Crop) Apply(v *normalize.Viewport) {
	v.FitInset = c.FitInset
	v.EdgeMargin = c.EdgeMargin
	v.MinScaleFactor = c.MinScaleFactor
	v.MaxScaleFactor = c.MaxScaleFactor
	v.SnapAngle = c.SnapDegrees * math.Pi / 180
}

// LookupTheme resolves name against the themes defined in the config first,
// then the theme loader.
func (c *Config) LookupTheme(name string, l *theme.Loader) (*theme.Theme, error) {
	if name == "" {
		name = c.Theme
	}
	if t, ok := c.Themes[name]; ok {
		return t, nil
	}
	if l == nil {
		l = theme.NewLoader()
	}
	return l.Load(name)
}

// ThemeNames lists every theme LookupTheme can resolve by name: the
// loader's themes followed by those defined in the config.
func (c *Config) ThemeNames(l *theme.Loader) []string {
	if l == nil {
		l = theme.NewLoader()
	}
	names := l.Available()
	var own []string
	for name := range c.Themes {
		if !slices.Contains(names, name) {
			own = append(own, name)
		}
	}
	slices.Sort(own)
	return append(names, own...)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.OutputPattern != "" {
		fmt.Fprintf(&sb, "output_pattern = %s\n", c.OutputPattern)
	}
	sb.WriteString("\n")

	sb.WriteString("[crop]\n")
	fmt.Fprintf(&sb, "fit_inset = %g\n", c.Crop.FitInset)
	fmt.Fprintf(&sb, "edge_margin = %g\n", c.Crop.EdgeMargin)
	fmt.Fprintf(&sb, "min_scale_factor = %g\n", c.Crop.MinScaleFactor)
	fmt.Fprintf(&sb, "max_scale_factor = %g\n", c.Crop.MaxScaleFactor)
	fmt.Fprintf(&sb, "snap_degrees = %g\n", c.Crop.SnapDegrees)
	if c.Crop.Interpolation != "" {
		fmt.Fprintf(&sb, "interpolation = %s\n", c.Crop.Interpolation)
	}
	if c.Crop.Background != "" {
		fmt.Fprintf(&sb, "background = %s\n", c.Crop.Background)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "crop = %v\n", c.Notify.Crop)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		sb.WriteString(c.Themes[name].String())
		sb.WriteString("\n")
	}

	return sb.String()
}
