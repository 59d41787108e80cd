package main

import (
	"flag"
	"fmt"
	"image"
	"path/filepath"

	"github.com/example/pinchcrop/internal/cropview"
)

var runWindowFn = func(w *cropview.Window) { w.Run() }

type openCmd struct {
	file          string
	fromClipboard bool
	output        string
	size          string
	rect          string
	path          string
	interpolation string
	*root
	fs *flag.FlagSet
}

func (o *openCmd) FlagSet() *flag.FlagSet {
	return o.fs
}

func parseOpenCmd(args []string, r *root) (*openCmd, error) {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	o := &openCmd{root: r.subcommand("open"), fs: fs}
	fs.Usage = usageFunc(o)
	fs.StringVar(&o.file, "file", "", "image file to open")
	fs.BoolVar(&o.fromClipboard, "from-clipboard", false, "load the image from the clipboard")
	fs.BoolVar(&o.fromClipboard, "from-clip", false, "load the image from the clipboard (alias)")
	fs.StringVar(&o.output, "output", "", "save crops here instead of a generated name")
	fs.StringVar(&o.size, "size", "", "window size WxH (default fits the image on screen)")
	fs.StringVar(&o.rect, "rect", "", "initial crop rectangle x,y,w,h in window units")
	fs.StringVar(&o.path, "path", "", "initial crop path in window units, e.g. \"M 0 0 L 100 0 L 50 80 Z\"")
	fs.StringVar(&o.interpolation, "interpolation", "", "resampling: bilinear, nearest, approx-bilinear, catmull-rom")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.file == "" && !o.fromClipboard {
		return nil, &UsageError{of: o}
	}
	if o.file != "" && o.fromClipboard {
		return nil, fmt.Errorf("-file cannot be used with -from-clipboard")
	}
	return o, nil
}

func (o *openCmd) Run() error {
	img, err := loadSource(o.file, o.fromClipboard)
	if err != nil {
		return err
	}
	title := "pinchcrop"
	if o.file != "" {
		title += " - " + filepath.Base(o.file)
	}
	w, err := o.root.newWindow(img, title, o.size, o.output, o.interpolation, o.rect, o.path)
	if err != nil {
		return err
	}
	runWindowFn(w)
	return nil
}

// newWindow builds the interactive window shared by open and capture.
func (r *root) newWindow(img image.Image, title, size, output, interpolation, rect, path string) (*cropview.Window, error) {
	cfg := r.cfg()
	opts, err := viewOptions(cfg.Crop, interpolation, "")
	if err != nil {
		return nil, err
	}
	spec, hasSpec, err := cropSpec(rect, path, "", "", false, 0)
	if err != nil {
		return nil, err
	}
	if hasSpec {
		opts = append(opts, cropview.WithCropSpec(spec))
	}
	vs := windowSize(img)
	if size != "" {
		if vs, err = parseSize(size); err != nil {
			return nil, err
		}
	}

	view := cropview.New(img, vs, opts...)
	view.FitCropRect()
	return &cropview.Window{
		View:  view,
		Theme: r.theme(),
		Title: title,
		Actions: cropview.Actions{
			Save: func(crop *image.RGBA) (string, error) {
				return r.saveCrop(outputPath(output, cfg.SaveDir, cfg.OutputPattern), crop)
			},
			Copy:    func(crop *image.RGBA) error { return r.copyCrop(crop) },
			Cropped: func(crop *image.RGBA) { r.notifyCrop(crop) },
		},
	}, nil
}
