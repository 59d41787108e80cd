package render

import (
	"fmt"
	"image"

	"github.com/example/pinchcrop/internal/transform"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"
)

type verb uint8

const (
	verbMove verb = iota
	verbLine
	verbQuad
	verbCubic
	verbClose
)

type element struct {
	verb verb
	pts  [3]r2.Vec
}

// Path is a closed outline made of lines and Bézier curves. Open subpaths
// are closed implicitly when rasterized.
type Path struct {
	elements []element
	start    r2.Vec
	current  r2.Vec
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{elements: make([]element, 0, 16)}
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) *Path {
	pt := r2.Vec{X: x, Y: y}
	p.elements = append(p.elements, element{verb: verbMove, pts: [3]r2.Vec{pt}})
	p.start, p.current = pt, pt
	return p
}

// LineTo draws a line to a point.
func (p *Path) LineTo(x, y float64) *Path {
	p.ensureStarted()
	pt := r2.Vec{X: x, Y: y}
	p.elements = append(p.elements, element{verb: verbLine, pts: [3]r2.Vec{pt}})
	p.current = pt
	return p
}

// QuadTo draws a quadratic Bézier curve.
func (p *Path) QuadTo(cx, cy, x, y float64) *Path {
	p.ensureStarted()
	pt := r2.Vec{X: x, Y: y}
	p.elements = append(p.elements, element{verb: verbQuad, pts: [3]r2.Vec{{X: cx, Y: cy}, pt}})
	p.current = pt
	return p
}

// CubicTo draws a cubic Bézier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *Path {
	p.ensureStarted()
	pt := r2.Vec{X: x, Y: y}
	p.elements = append(p.elements, element{verb: verbCubic, pts: [3]r2.Vec{{X: c1x, Y: c1y}, {X: c2x, Y: c2y}, pt}})
	p.current = pt
	return p
}

// Close closes the current subpath.
func (p *Path) Close() *Path {
	if len(p.elements) == 0 {
		return p
	}
	p.elements = append(p.elements, element{verb: verbClose})
	p.current = p.start
	return p
}

func (p *Path) ensureStarted() {
	if len(p.elements) == 0 {
		p.MoveTo(p.current.X, p.current.Y)
	}
}

// Empty reports whether the path has no drawing elements.
func (p *Path) Empty() bool {
	if p == nil {
		return true
	}
	for _, e := range p.elements {
		if e.verb != verbMove && e.verb != verbClose {
			return false
		}
	}
	return true
}

// Bounds returns the bounding box of every point, control points included.
func (p *Path) Bounds() transform.Rect {
	if p == nil {
		return transform.Rect{}
	}
	var pts []r2.Vec
	for _, e := range p.elements {
		pts = append(pts, e.points()...)
	}
	return transform.BoundingRect(pts...)
}

// Transform returns a copy of the path mapped through m.
func (p *Path) Transform(m transform.Matrix) *Path {
	out := &Path{elements: make([]element, len(p.elements))}
	for i, e := range p.elements {
		out.elements[i].verb = e.verb
		for j := range e.points() {
			out.elements[i].pts[j] = m.TransformPoint(e.pts[j])
		}
	}
	out.start = m.TransformPoint(p.start)
	out.current = m.TransformPoint(p.current)
	return out
}

// Scaled returns a copy of the path scaled about the origin.
func (p *Path) Scaled(k float64) *Path {
	return p.Transform(transform.Scale(k, k))
}

func (e element) points() []r2.Vec {
	switch e.verb {
	case verbMove, verbLine:
		return e.pts[:1]
	case verbQuad:
		return e.pts[:2]
	case verbCubic:
		return e.pts[:3]
	}
	return nil
}

// Rasterize returns the coverage of the path over bounds, non-zero winding,
// anti-aliased.
func (p *Path) Rasterize(bounds image.Rectangle) *image.Alpha {
	dst := image.NewAlpha(bounds)
	if p.Empty() || bounds.Empty() {
		return dst
	}
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	off := r2.Vec{X: float64(bounds.Min.X), Y: float64(bounds.Min.Y)}
	pt := func(v r2.Vec) (float32, float32) {
		v = r2.Sub(v, off)
		return float32(v.X), float32(v.Y)
	}
	open := false
	for _, e := range p.elements {
		switch e.verb {
		case verbMove:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(e.pts[0]))
			open = true
		case verbLine:
			z.LineTo(pt(e.pts[0]))
		case verbQuad:
			bx, by := pt(e.pts[0])
			cx, cy := pt(e.pts[1])
			z.QuadTo(bx, by, cx, cy)
		case verbCubic:
			bx, by := pt(e.pts[0])
			cx, cy := pt(e.pts[1])
			dx, dy := pt(e.pts[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		case verbClose:
			z.ClosePath()
			open = false
		}
	}
	if open {
		z.ClosePath()
	}
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}

// RectPath returns a path tracing r.
func RectPath(r transform.Rect) *Path {
	return NewPath().
		MoveTo(r.X, r.Y).
		LineTo(r.X+r.W, r.Y).
		LineTo(r.X+r.W, r.Y+r.H).
		LineTo(r.X, r.Y+r.H).
		Close()
}

// EllipsePath returns the ellipse inscribed in r as four cubic arcs.
func EllipsePath(r transform.Rect) *Path {
	// 4 * (sqrt(2) - 1) / 3
	const k = 0.5522847498
	c := r.Center()
	rx, ry := r.W/2, r.H/2
	kx, ky := k*rx, k*ry
	return NewPath().
		MoveTo(c.X+rx, c.Y).
		CubicTo(c.X+rx, c.Y+ky, c.X+kx, c.Y+ry, c.X, c.Y+ry).
		CubicTo(c.X-kx, c.Y+ry, c.X-rx, c.Y+ky, c.X-rx, c.Y).
		CubicTo(c.X-rx, c.Y-ky, c.X-kx, c.Y-ry, c.X, c.Y-ry).
		CubicTo(c.X+kx, c.Y-ry, c.X+rx, c.Y-ky, c.X+rx, c.Y).
		Close()
}

// ParsePath reads a path in SVG path notation, for example
// "M 0 0 L 10 0 Q 15 5 10 10 C 5 15 0 15 0 10 Z". Every SVG command is
// accepted, relative forms included. Coordinates are kept to 1/64 unit.
func ParsePath(s string) (*Path, error) {
	c := oksvg.PathCursor{ErrorMode: oksvg.StrictErrorMode}
	if err := c.CompilePath(s); err != nil {
		return nil, fmt.Errorf("path %q: %w", s, err)
	}
	p, err := fromRaster(c.Path)
	if err != nil {
		return nil, err
	}
	if p.Empty() {
		return nil, fmt.Errorf("path: %q draws nothing", s)
	}
	return p, nil
}

// rasterArgs is the number of coordinates following each rasterx command.
var rasterArgs = map[rasterx.PathCommand]int{
	rasterx.PathMoveTo:  2,
	rasterx.PathLineTo:  2,
	rasterx.PathQuadTo:  4,
	rasterx.PathCubicTo: 6,
	rasterx.PathClose:   0,
}

// fromRaster converts a compiled rasterx path into a Path.
func fromRaster(rp rasterx.Path) (*Path, error) {
	pt := func(i int) (float64, float64) {
		return float64(rp[i]) / 64, float64(rp[i+1]) / 64
	}
	p := NewPath()
	for i := 0; i < len(rp); {
		cmd := rasterx.PathCommand(rp[i])
		n, ok := rasterArgs[cmd]
		if !ok || i+1+n > len(rp) {
			return nil, fmt.Errorf("path: malformed command %d at %d", cmd, i)
		}
		switch cmd {
		case rasterx.PathMoveTo:
			p.MoveTo(pt(i + 1))
		case rasterx.PathLineTo:
			p.LineTo(pt(i + 1))
		case rasterx.PathQuadTo:
			cx, cy := pt(i + 1)
			x, y := pt(i + 3)
			p.QuadTo(cx, cy, x, y)
		case rasterx.PathCubicTo:
			c1x, c1y := pt(i + 1)
			c2x, c2y := pt(i + 3)
			x, y := pt(i + 5)
			p.CubicTo(c1x, c1y, c2x, c2y, x, y)
		case rasterx.PathClose:
			p.Close()
		}
		i += 1 + n
	}
	return p, nil
}
