// Package render draws snake views as SVG documents.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/jbeda/geom"

	"serpentine/snake"
)

// Layer is one snake to draw
type Layer struct {
	View  snake.View
	Color string
}

// Options toggles the debug overlays
type Options struct {
	Skeleton     bool // segment circles, centers and marker rings
	Destinations bool
}

// SVG serialization helper. The first write error sticks and later writes
// are skipped.
type SVG struct {
	writer io.Writer
	err    error
}

func NewSVG(w io.Writer) *SVG {
	return &SVG{writer: w}
}

func (svg *SVG) printf(format string, a ...any) {
	if svg.err != nil {
		return
	}
	_, svg.err = fmt.Fprintf(svg.writer, format, a...)
}

// Err returns the first write error
func (svg *SVG) Err() error {
	return svg.err
}

// attrs turns "k=v" pairs into attributes and anything else into a style
func attrs(s []string) string {
	var b strings.Builder
	for _, a := range s {
		switch {
		case strings.Index(a, "=") > 0:
			b.WriteString(a)
			b.WriteByte(' ')
		case a != "":
			fmt.Fprintf(&b, "style='%s' ", a)
		}
	}
	return b.String()
}

func (svg *SVG) Start(viewBox geom.Rect, s ...string) {
	svg.printf(`<?xml version="1.0"?>
<svg version="1.1"
     viewBox="%.2f %.2f %.2f %.2f"
     xmlns="http://www.w3.org/2000/svg" %s>
`, viewBox.Min.X, viewBox.Min.Y, viewBox.Width(), viewBox.Height(), attrs(s))
}

func (svg *SVG) End() {
	svg.printf("</svg>\n")
}

func (svg *SVG) Line(p1, p2 geom.Coord, s ...string) {
	svg.printf("<line x1='%.2f' y1='%.2f' x2='%.2f' y2='%.2f' %s/>\n", p1.X, p1.Y, p2.X, p2.Y, attrs(s))
}

func (svg *SVG) Circle(c geom.Coord, r float64, s ...string) {
	svg.printf("<circle cx='%.2f' cy='%.2f' r='%.2f' %s/>\n", c.X, c.Y, r, attrs(s))
}

func (svg *SVG) StartPath(p geom.Coord, s ...string) {
	svg.printf("<path %sd='M%.2f,%.2f", attrs(s), p.X, p.Y)
}

func (svg *SVG) PathLineTo(p geom.Coord) {
	svg.printf("\n  L%.2f,%.2f", p.X, p.Y)
}

// EndPath finishes the path, closing it back to its start when closed is set
func (svg *SVG) EndPath(closed bool) {
	if closed {
		svg.printf(" Z")
	}
	svg.printf("'/>\n")
}

func coord(p r2.Point) geom.Coord {
	return geom.Coord{X: p.X, Y: p.Y}
}

// ViewBox returns bounds grown to contain every segment circle, plus margin
func ViewBox(bounds r2.Rect, layers []Layer, margin float64) geom.Rect {
	box := geom.Rect{Min: coord(bounds.Lo()), Max: coord(bounds.Hi())}
	started := !bounds.IsEmpty()
	expand := func(p geom.Coord) {
		if !started {
			box = geom.Rect{Min: p, Max: p}
			started = true
			return
		}
		box.ExpandToContainCoord(p)
	}
	pad := geom.Coord{X: margin, Y: margin}
	for _, l := range layers {
		for _, s := range l.View.Segments {
			r := geom.Coord{X: s.Radius, Y: s.Radius}
			expand(coord(s.Position).Minus(r))
			expand(coord(s.Position).Plus(r))
		}
	}
	return geom.Rect{Min: box.Min.Minus(pad), Max: box.Max.Plus(pad)}
}

// DrawSnake renders one layer. Snakes with an outline are drawn as a filled
// silhouette, others as a stack of filled segment circles.
func (svg *SVG) DrawSnake(l Layer, opts Options) {
	v := l.View
	fill := fmt.Sprintf("fill:%s;stroke:#222;stroke-width:2", l.Color)

	if len(v.Silhouette) > 2 {
		svg.StartPath(coord(v.Silhouette[0]), fill)
		for _, p := range v.Silhouette[1:] {
			svg.PathLineTo(coord(p))
		}
		svg.EndPath(true)
	} else {
		for i := len(v.Segments) - 1; i >= 0; i-- {
			s := v.Segments[i]
			svg.Circle(coord(s.Position), s.Radius, fill)
		}
	}

	if opts.Skeleton {
		for i, s := range v.Segments {
			c := coord(s.Position)
			svg.Circle(c, s.Radius, "fill:none;stroke:#888;stroke-dasharray:4 3")
			svg.Circle(c, 2, "fill:#888")
			if s.Marker {
				svg.Circle(c, s.Radius+4, "fill:none;stroke:#d81b60;stroke-width:2")
			}
			if i > 0 {
				svg.Line(coord(v.Segments[i-1].Position), c, "stroke:#888")
			}
		}
	}

	for _, e := range v.Eyes {
		svg.Circle(coord(e), 6, "fill:#fff;stroke:#222")
		svg.Circle(coord(e), 3, "fill:#111")
	}

	if opts.Destinations {
		d := coord(v.Destination)
		arm := 6.0
		svg.Line(d.Minus(geom.Coord{X: arm, Y: arm}), d.Plus(geom.Coord{X: arm, Y: arm}), "stroke:"+l.Color)
		svg.Line(d.Minus(geom.Coord{X: arm, Y: -arm}), d.Plus(geom.Coord{X: arm, Y: -arm}), "stroke:"+l.Color)
		if len(v.Segments) > 0 {
			svg.Line(coord(v.Segments[0].Position), d, "stroke:"+l.Color+";stroke-opacity:0.3")
		}
	}
}

// WriteSnapshot writes a complete SVG document of every layer
func WriteSnapshot(w io.Writer, bounds r2.Rect, layers []Layer, opts Options) error {
	svg := NewSVG(w)
	box := ViewBox(bounds, layers, 20)
	svg.Start(box, "background:#f4f1e8")
	for _, l := range layers {
		svg.DrawSnake(l, opts)
	}
	svg.End()
	return svg.Err()
}
