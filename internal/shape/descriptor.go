package shape

import (
	"fmt"
	"math"
	"strings"

	"SmartBoard/internal/stroke"
)

// Kind identifies the variant of a Descriptor.
type Kind int

const (
	Wave Kind = iota
	Scribble
	Line
	Triangle
	Rectangle
	Ellipse
)

func (k Kind) String() string {
	switch k {
	case Wave:
		return "wave"
	case Scribble:
		return "scribble"
	case Line:
		return "line"
	case Triangle:
		return "triangle"
	case Rectangle:
		return "rectangle"
	case Ellipse:
		return "ellipse"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Style is the brush active when the gesture was drawn.
type Style struct {
	Color   string  `json:"color"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity,omitempty"`
}

// Arc is one quadratic Bezier segment of a synthesized wave.
type Arc struct {
	Start   stroke.Point `json:"start"`
	Control stroke.Point `json:"control"`
	End     stroke.Point `json:"end"`
}

// Descriptor is the outcome of classifying one stroke. Kind selects which of
// the variant fields are meaningful:
//
//	Wave:      Arcs
//	Scribble:  Stroke (the raw points, unchanged)
//	Line:      From, To
//	Ellipse:   Center, RadiusX, RadiusY
//
// Triangle and Rectangle are described by Bounds alone. Every descriptor is
// unfilled.
type Descriptor struct {
	Kind   Kind
	Bounds stroke.Box
	Style  Style

	Arcs     []Arc
	Stroke   stroke.Stroke
	From, To stroke.Point
	Center   stroke.Point
	RadiusX  float64
	RadiusY  float64
}

// PathData renders the wave arcs as SVG path commands.
func (d Descriptor) PathData() string {
	var b strings.Builder
	for i, a := range d.Arcs {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "M %g %g Q %g %g %g %g",
			a.Start.X, a.Start.Y, a.Control.X, a.Control.Y, a.End.X, a.End.Y)
	}
	return b.String()
}

// TrianglePoints returns apex, bottom-right and bottom-left of the isosceles
// triangle inscribed in b.
func TrianglePoints(b stroke.Box) [3]stroke.Point {
	return [3]stroke.Point{
		{X: b.Left + b.Width/2, Y: b.Top},
		{X: b.Right(), Y: b.Bottom()},
		{X: b.Left, Y: b.Bottom()},
	}
}

// Points samples the arc at n+1 evenly spaced parameters, ends included.
func (a Arc) Points(n int) []stroke.Point {
	pts := make([]stroke.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		pts = append(pts, stroke.Point{
			X: u*u*a.Start.X + 2*u*t*a.Control.X + t*t*a.End.X,
			Y: u*u*a.Start.Y + 2*u*t*a.Control.Y + t*t*a.End.Y,
		})
	}
	return pts
}

// EllipsePoints returns the closed outline of the ellipse inscribed in b as
// n+1 points; the last repeats the first.
func EllipsePoints(b stroke.Box, n int) []stroke.Point {
	c := b.Center()
	rx, ry := b.Width/2, b.Height/2
	pts := make([]stroke.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i%n) / float64(n)
		pts = append(pts, stroke.Point{X: c.X + rx*math.Cos(a), Y: c.Y + ry*math.Sin(a)})
	}
	return pts
}
