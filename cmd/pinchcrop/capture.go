package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"

	"github.com/example/pinchcrop/internal/capture"
)

var captureScreenshotFn = capture.Screenshot

type captureCmd struct {
	display       string
	interactive   bool
	includeCursor bool
	output        string
	size          string
	*root
	fs *flag.FlagSet
}

func (c *captureCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCaptureCmd(args []string, r *root) (*captureCmd, error) {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	c := &captureCmd{root: r.subcommand("capture"), fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.display, "display", "", "monitor to capture: primary, an index, or a name fragment")
	fs.BoolVar(&c.interactive, "interactive", false, "let the desktop portal ask for the capture area")
	fs.BoolVar(&c.includeCursor, "include-cursor", false, "embed the cursor in captures when supported")
	fs.StringVar(&c.output, "output", "", "save crops here instead of a generated name")
	fs.StringVar(&c.size, "size", "", "window size WxH (default fits the capture on screen)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 && c.display == "" {
		c.display = fs.Arg(0)
	}
	return c, nil
}

func (c *captureCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	img, err := captureScreenshotFn(ctx, capture.Options{
		Display:       c.display,
		Interactive:   c.interactive,
		IncludeCursor: c.includeCursor,
	})
	if err != nil {
		return fmt.Errorf("failed to capture screen: %w", err)
	}
	w, err := c.root.newWindow(image.Image(img), "pinchcrop - capture", c.size, c.output, "", "", "")
	if err != nil {
		return err
	}
	runWindowFn(w)
	return nil
}
