// Package stroke turns the raw point trace of one pointer gesture into a
// Stroke and the scalar features the shape classifier decides on.
package stroke

import (
	"errors"
	"math"
)

const (
	// MinPoints is the smallest stroke the sampler will describe.
	MinPoints = 3

	// closedRatio: a stroke is closed when its ends are nearer than this
	// fraction of the distance the pen travelled.
	closedRatio = 0.2

	// cornerAngle is the turning angle, in radians, above which a point
	// counts as a corner.
	cornerAngle = 0.8

	// cornerSpan is the lookback/lookahead used when measuring a turn.
	cornerSpan = 2
)

// ErrInsufficientData is returned for gestures with fewer than MinPoints points.
// Callers drop such strokes instead of classifying them.
var ErrInsufficientData = errors.New("stroke: insufficient data")

// Stroke is the ordered point trace of one continuous gesture.
type Stroke struct {
	Points []Point `json:"points"`
}

// First returns the first sampled point.
func (s Stroke) First() Point { return s.Points[0] }

// Last returns the last sampled point.
func (s Stroke) Last() Point { return s.Points[len(s.Points)-1] }

// Features are the derived scalars of a Stroke.
type Features struct {
	PathLength           float64
	ClosureDistance      float64
	Closed               bool
	Corners              int
	VerticalOscillations int
	Bounds               Box
	// AspectRatio is Bounds.Width / Bounds.Height, +Inf for a flat stroke.
	AspectRatio float64
}

// Sample copies raw into a Stroke and computes its Features.
func Sample(raw []Point) (Stroke, Features, error) {
	if len(raw) < MinPoints {
		return Stroke{}, Features{}, ErrInsufficientData
	}
	pts := make([]Point, len(raw))
	copy(pts, raw)

	f := Features{
		PathLength:           PathLength(pts),
		ClosureDistance:      Distance(pts[0], pts[len(pts)-1]),
		Corners:              countCorners(pts),
		VerticalOscillations: countOscillations(pts),
		Bounds:               Bounds(pts),
	}
	f.Closed = f.ClosureDistance < closedRatio*f.PathLength
	f.AspectRatio = aspect(f.Bounds)
	return Stroke{Points: pts}, f, nil
}

func aspect(b Box) float64 {
	if b.Height == 0 {
		return math.Inf(1)
	}
	return b.Width / b.Height
}

// countCorners counts interior points whose incoming and outgoing vectors,
// each spanning cornerSpan samples, turn by more than cornerAngle.
func countCorners(pts []Point) int {
	corners := 0
	for i := cornerSpan; i < len(pts)-cornerSpan; i++ {
		in := pts[i].Sub(pts[i-cornerSpan])
		out := pts[i+cornerSpan].Sub(pts[i])
		mag := in.Len() * out.Len()
		if mag == 0 {
			// repeated samples carry no direction
			continue
		}
		cos := math.Max(-1, math.Min(1, in.Dot(out)/mag))
		if math.Acos(cos) > cornerAngle {
			corners++
		}
	}
	return corners
}

// countOscillations counts strict local extrema of Y.
func countOscillations(pts []Point) int {
	n := 0
	for i := 1; i < len(pts)-1; i++ {
		y, prev, next := pts[i].Y, pts[i-1].Y, pts[i+1].Y
		if (y > prev && y > next) || (y < prev && y < next) {
			n++
		}
	}
	return n
}
