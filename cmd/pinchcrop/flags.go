package main

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/example/pinchcrop/internal/transform"
	"gonum.org/v1/gonum/spatial/r2"
)

// parseFloats splits a comma separated list of exactly n numbers.
func parseFloats(val string, n int) ([]float64, error) {
	parts := strings.Split(val, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma separated numbers", n)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseSize parses "WxH".
func parseSize(val string) (transform.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(val)), "x")
	if !ok {
		return transform.Size{}, fmt.Errorf("invalid size %q: want WxH", val)
	}
	fw, err1 := strconv.ParseFloat(strings.TrimSpace(w), 64)
	fh, err2 := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err1 != nil || err2 != nil || !(fw > 0) || !(fh > 0) {
		return transform.Size{}, fmt.Errorf("invalid size %q: want WxH", val)
	}
	return transform.Size{W: fw, H: fh}, nil
}

// parseRectF parses "x,y,w,h" in view units.
func parseRectF(val string) (transform.Rect, error) {
	v, err := parseFloats(val, 4)
	if err != nil {
		return transform.Rect{}, fmt.Errorf("invalid rect %q: %w", val, err)
	}
	r := transform.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
	if r.Empty() {
		return transform.Rect{}, fmt.Errorf("rect %q is empty", val)
	}
	return r, nil
}

// parseVec parses "x,y".
func parseVec(val string) (r2.Vec, error) {
	v, err := parseFloats(val, 2)
	if err != nil {
		return r2.Vec{}, fmt.Errorf("invalid point %q: %w", val, err)
	}
	return r2.Vec{X: v[0], Y: v[1]}, nil
}

func parseShadowOffset(val string) (image.Point, error) {
	parts := strings.Split(val, ",")
	if len(parts) != 2 {
		return image.Point{}, fmt.Errorf("invalid shadow offset %q", val)
	}
	vals := make([]int, 2)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Point{}, fmt.Errorf("invalid shadow offset %q", val)
		}
		vals[i] = v
	}
	return image.Pt(vals[0], vals[1]), nil
}

func formatShadowOffset(pt image.Point) string {
	return fmt.Sprintf("%d,%d", pt.X, pt.Y)
}
