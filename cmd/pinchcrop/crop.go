package main

import (
	"flag"
	"fmt"
	"image"
	"math"
	"os"

	"github.com/example/pinchcrop/internal/cropview"
	"github.com/example/pinchcrop/internal/gesture"
	"github.com/example/pinchcrop/internal/render"
	"github.com/example/pinchcrop/internal/transform"
	"gonum.org/v1/gonum/spatial/r2"
)

type cropCmd struct {
	file          string
	fromClipboard bool
	output        string
	toClipboard   bool
	viewport      string
	rect          string
	path          string
	mask          string
	maskMode      string
	invertMask    bool
	feather       int
	fit           bool
	fill          bool
	rotate        float64
	pivot         string
	zoom          float64
	pan           string
	interpolation string
	background    string
	shadow        bool
	shadowRadius  int
	shadowOffset  string
	shadowPoint   image.Point
	shadowOpacity float64
	*root
	fs *flag.FlagSet
}

func (c *cropCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCropCmd(args []string, r *root) (*cropCmd, error) {
	fs := flag.NewFlagSet("crop", flag.ExitOnError)
	c := &cropCmd{root: r.subcommand("crop"), fs: fs}
	fs.Usage = usageFunc(c)
	defaults := render.DefaultShadowOptions()
	fs.StringVar(&c.file, "file", "", "image file to crop")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "load the image from the clipboard")
	fs.BoolVar(&c.fromClipboard, "from-clip", false, "load the image from the clipboard (alias)")
	fs.StringVar(&c.output, "output", "", "write the crop to this PNG file, - for stdout")
	fs.BoolVar(&c.toClipboard, "copy", false, "copy the crop to the clipboard")
	fs.StringVar(&c.viewport, "viewport", "", "view size WxH (default the image size)")
	fs.StringVar(&c.rect, "rect", "", "crop rectangle x,y,w,h in view units")
	fs.StringVar(&c.path, "path", "", "crop path in view units: M, L, Q, C and Z commands")
	fs.StringVar(&c.mask, "mask", "", "mask image stretched over the crop bounds")
	fs.StringVar(&c.maskMode, "mask-mode", "luminance", "mask coverage source: luminance or alpha")
	fs.BoolVar(&c.invertMask, "invert-mask", false, "invert the mask coverage")
	fs.IntVar(&c.feather, "feather", 0, "blur the mask edge by this many pixels")
	fs.BoolVar(&c.fit, "fit", false, "scale the image to fit inside the crop region first")
	fs.BoolVar(&c.fill, "fill", false, "scale the image to cover the crop region first")
	fs.Float64Var(&c.rotate, "rotate", 0, "rotate the image by this many degrees about the pivot")
	fs.StringVar(&c.pivot, "pivot", "", "pivot x,y in view units (default the crop region centre)")
	fs.Float64Var(&c.zoom, "zoom", 1, "zoom the image by this factor about the pivot")
	fs.StringVar(&c.pan, "pan", "", "move the image by dx,dy view units")
	fs.StringVar(&c.interpolation, "interpolation", "", "resampling: bilinear, nearest, approx-bilinear, catmull-rom")
	fs.StringVar(&c.background, "background", "", "fill uncovered pixels with #RRGGBB[AA]")
	fs.BoolVar(&c.shadow, "shadow", false, "apply a drop shadow to the crop")
	fs.IntVar(&c.shadowRadius, "shadow-radius", defaults.Radius, "drop shadow blur radius in pixels")
	fs.StringVar(&c.shadowOffset, "shadow-offset", formatShadowOffset(defaults.Offset), "drop shadow offset as dx,dy")
	fs.Float64Var(&c.shadowOpacity, "shadow-opacity", defaults.Opacity, "drop shadow opacity between 0 and 1")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.file == "" && !c.fromClipboard {
		return nil, &UsageError{of: c}
	}
	if c.file != "" && c.fromClipboard {
		return nil, fmt.Errorf("-file cannot be used with -from-clipboard")
	}
	if c.output == "" && !c.toClipboard {
		return nil, fmt.Errorf("output file is required unless -copy is set")
	}
	if c.output == "-" && c.toClipboard {
		return nil, fmt.Errorf("-output - cannot be used with -copy")
	}
	if c.fit && c.fill {
		return nil, fmt.Errorf("-fit and -fill are mutually exclusive")
	}
	if !(c.zoom > 0) || math.IsInf(c.zoom, 0) {
		return nil, fmt.Errorf("-zoom must be a positive number")
	}
	pt, err := parseShadowOffset(c.shadowOffset)
	if err != nil {
		return nil, err
	}
	c.shadowPoint = pt
	return c, nil
}

func (c *cropCmd) Run() error {
	img, err := loadSource(c.file, c.fromClipboard)
	if err != nil {
		return err
	}
	view, err := c.newView(img)
	if err != nil {
		return err
	}
	if err := c.applyGestures(view); err != nil {
		return err
	}

	out, err := view.RequestCrop()
	if err != nil {
		return fmt.Errorf("crop: %w", err)
	}
	c.root.notifyCrop(out)
	if c.shadow {
		out = render.ApplyShadow(out, c.shadowOptions()).Image
	}
	if c.output != "" {
		if _, err := c.root.saveCrop(c.output, out); err != nil {
			return err
		}
	}
	if c.toClipboard {
		if err := c.root.copyCrop(out); err != nil {
			return err
		}
	}
	return nil
}

func (c *cropCmd) newView(img image.Image) (*cropview.View, error) {
	opts, err := viewOptions(c.cfg().Crop, c.interpolation, c.background)
	if err != nil {
		return nil, err
	}
	spec, hasSpec, err := cropSpec(c.rect, c.path, c.mask, c.maskMode, c.invertMask, c.feather)
	if err != nil {
		return nil, err
	}
	if hasSpec {
		opts = append(opts, cropview.WithCropSpec(spec))
	}
	size := transform.SizeOf(img.Bounds())
	if c.viewport != "" {
		if size, err = parseSize(c.viewport); err != nil {
			return nil, err
		}
	}
	return cropview.New(img, size, opts...), nil
}

// applyGestures replays the flag gestures as complete gesture streams so
// they meet the same bounds as interactive input.
func (c *cropCmd) applyGestures(v *cropview.View) error {
	switch {
	case c.fit:
		v.FitCropRect()
	case c.fill:
		v.FillCropRect()
	}

	pivotAt := v.CropSpec().Bounds().Center()
	if c.pivot != "" {
		p, err := parseVec(c.pivot)
		if err != nil {
			return err
		}
		pivotAt = p
	}
	pivot := v.PivotAt(pivotAt)

	if c.zoom != 1 {
		if !v.Replay(gesture.PinchEvent(gesture.PhaseChanged, c.zoom, pivot)) {
			fmt.Fprintf(os.Stderr, "warning: zoom %g was not applied\n", c.zoom)
		}
	}
	if c.rotate != 0 {
		if !v.Replay(gesture.RotateEvent(gesture.PhaseChanged, c.rotate*math.Pi/180, pivot)) {
			fmt.Fprintf(os.Stderr, "warning: rotation %g° was not applied\n", c.rotate)
		}
	}
	if c.pan != "" {
		d, err := parseVec(c.pan)
		if err != nil {
			return err
		}
		before := v.State().Translation
		v.Replay(gesture.PanEvent(gesture.PhaseChanged, d))
		if got := r2.Sub(v.State().Translation, before); got != d {
			fmt.Fprintf(os.Stderr, "warning: pan clamped to %g,%g\n", got.X, got.Y)
		}
	}
	return nil
}

func (c *cropCmd) shadowOptions() render.ShadowOptions {
	opts := render.DefaultShadowOptions()
	opts.Radius = max(c.shadowRadius, 0)
	opts.Offset = c.shadowPoint
	opts.Opacity = math.Min(math.Max(c.shadowOpacity, 0), 1)
	return opts
}
