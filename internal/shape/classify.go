// Package shape decides which clean geometric primitive a freehand stroke
// was meant to be.
package shape

import "SmartBoard/internal/stroke"

const (
	waveOscillations = 6
	waveArcs         = 5
	scribbleRatio    = 2.0
	minPolyCorners   = 3
	maxPolyCorners   = 5
	minPolyAspect    = 0.4
	maxPolyAspect    = 2.5
)

type rule struct {
	kind  Kind
	match func(f stroke.Features) bool
	build func(s stroke.Stroke, f stroke.Features) Descriptor
}

// rules are evaluated in order and the first match wins. The last rule
// matches everything, so classification is total.
var rules = []rule{
	{
		kind: Wave,
		match: func(f stroke.Features) bool {
			return f.VerticalOscillations > waveOscillations && !f.Closed
		},
		build: buildWave,
	},
	{
		kind: Scribble,
		match: func(f stroke.Features) bool {
			return !f.Closed && f.PathLength > scribbleRatio*f.ClosureDistance
		},
		build: func(s stroke.Stroke, f stroke.Features) Descriptor {
			return Descriptor{Stroke: s}
		},
	},
	{
		kind:  Line,
		match: func(f stroke.Features) bool { return !f.Closed },
		build: func(s stroke.Stroke, f stroke.Features) Descriptor {
			return Descriptor{From: s.First(), To: s.Last()}
		},
	},
	{
		kind: Triangle,
		match: func(f stroke.Features) bool {
			return polygonal(f) && f.Corners == minPolyCorners
		},
		build: func(s stroke.Stroke, f stroke.Features) Descriptor { return Descriptor{} },
	},
	{
		kind:  Rectangle,
		match: polygonal,
		build: func(s stroke.Stroke, f stroke.Features) Descriptor { return Descriptor{} },
	},
	{
		kind:  Ellipse,
		match: func(stroke.Features) bool { return true },
		build: func(s stroke.Stroke, f stroke.Features) Descriptor {
			return Descriptor{
				Center:  f.Bounds.Center(),
				RadiusX: f.Bounds.Width / 2,
				RadiusY: f.Bounds.Height / 2,
			}
		},
	},
}

func polygonal(f stroke.Features) bool {
	return f.Closed &&
		f.Corners >= minPolyCorners && f.Corners <= maxPolyCorners &&
		f.AspectRatio > minPolyAspect && f.AspectRatio < maxPolyAspect
}

// Classify maps a sampled stroke to exactly one Descriptor carrying style.
func Classify(s stroke.Stroke, f stroke.Features, style Style) Descriptor {
	for _, r := range rules {
		if !r.match(f) {
			continue
		}
		d := r.build(s, f)
		d.Kind = r.kind
		d.Bounds = f.Bounds
		d.Style = style
		return d
	}
	panic("shape: no rule matched")
}

// buildWave lays a fixed run of arcs across the stroke's bounds; it does not
// follow the drawn points.
func buildWave(_ stroke.Stroke, f stroke.Features) Descriptor {
	b := f.Bounds
	cy := b.Top + b.Height/2
	step := b.Width / waveArcs
	arcs := make([]Arc, 0, waveArcs)
	for i := range waveArcs {
		x := b.Left + step*float64(i)
		arcs = append(arcs, Arc{
			Start:   stroke.Point{X: x, Y: cy},
			Control: stroke.Point{X: x + step/2, Y: cy - b.Height/2},
			End:     stroke.Point{X: x + step, Y: cy},
		})
	}
	return Descriptor{Arcs: arcs}
}
