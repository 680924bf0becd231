package state

import (
	"encoding/json"
	"errors"
	"fmt"

	"SmartBoard/internal/history"
	"SmartBoard/internal/shape"
	"SmartBoard/internal/stroke"

	"github.com/jinzhu/copier"
)

// DocumentVersion is written into every snapshot.
const DocumentVersion = 1

var (
	ErrUnknownObject = errors.New("state: unknown object")
	ErrBadSnapshot   = errors.New("state: bad snapshot")
	ErrNotText       = errors.New("state: not a text object")
)

type Kind string

const (
	KindPath     Kind = "path"
	KindLine     Kind = "line"
	KindRect     Kind = "rect"
	KindTriangle Kind = "triangle"
	KindEllipse  Kind = "ellipse"
	KindWave     Kind = "wave"
	KindText     Kind = "text"
)

// Object is one drawable in the document. Left/Top/Width/Height is its
// bounding box; Points holds a path trace or a line's two endpoints and Arcs
// a wave's segments. Stroke is the ink colour, which for text is the glyph
// colour.
type Object struct {
	ID          string         `json:"id"`
	Kind        Kind           `json:"kind"`
	Left        float64        `json:"left"`
	Top         float64        `json:"top"`
	Width       float64        `json:"width"`
	Height      float64        `json:"height"`
	Points      []stroke.Point `json:"points,omitempty"`
	Arcs        []shape.Arc    `json:"arcs,omitempty"`
	Stroke      string         `json:"stroke"`
	StrokeWidth float64        `json:"strokeWidth"`
	Opacity     float64        `json:"opacity"`
	Fill        string         `json:"fill,omitempty"` // empty is transparent

	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	Bold       bool    `json:"bold,omitempty"`
	Italic     bool    `json:"italic,omitempty"`
	// Background is the paper colour of a sticky note.
	Background string `json:"background,omitempty"`
}

func (o Object) Bounds() stroke.Box {
	return stroke.Box{Left: o.Left, Top: o.Top, Width: o.Width, Height: o.Height}
}

// Document is the whole board in paint order.
type Document struct {
	Version int      `json:"version"`
	Objects []Object `json:"objects"`
}

func NewDocument() Document {
	return Document{Version: DocumentVersion, Objects: []Object{}}
}

// Clone returns a deep copy that shares no slices with d.
func (d Document) Clone() Document {
	var out Document
	if err := copier.CopyWithOption(&out, &d, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds
		panic(fmt.Sprintf("state: clone document: %v", err))
	}
	if out.Objects == nil {
		out.Objects = []Object{}
	}
	return out
}

// Bounds returns the box covering every object, zero for an empty document.
func (d Document) Bounds() stroke.Box {
	if len(d.Objects) == 0 {
		return stroke.Box{}
	}
	b := d.Objects[0].Bounds()
	for _, o := range d.Objects[1:] {
		b = b.Union(o.Bounds())
	}
	return b
}

// Encode serializes d into a history snapshot.
func Encode(d Document) (history.Snapshot, error) {
	if d.Objects == nil {
		d.Objects = []Object{}
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("state: encode document: %w", err)
	}
	return history.Snapshot(data), nil
}

// Decode parses a snapshot written by Encode.
func Decode(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if d.Version == 0 || d.Version > DocumentVersion {
		return Document{}, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, d.Version)
	}
	for i, o := range d.Objects {
		if o.ID == "" || o.Kind == "" {
			return Document{}, fmt.Errorf("%w: object %d lacks id or kind", ErrBadSnapshot, i)
		}
	}
	if d.Objects == nil {
		d.Objects = []Object{}
	}
	return d, nil
}

// FromDescriptor materializes a classification result as a document object.
func FromDescriptor(id string, d shape.Descriptor) Object {
	o := Object{
		ID:          id,
		Left:        d.Bounds.Left,
		Top:         d.Bounds.Top,
		Width:       d.Bounds.Width,
		Height:      d.Bounds.Height,
		Stroke:      d.Style.Color,
		StrokeWidth: d.Style.Width,
		Opacity:     d.Style.Opacity,
	}
	if o.Opacity == 0 {
		o.Opacity = 1
	}
	switch d.Kind {
	case shape.Wave:
		o.Kind = KindWave
		o.Arcs = append([]shape.Arc(nil), d.Arcs...)
	case shape.Scribble:
		o.Kind = KindPath
		o.Points = append([]stroke.Point(nil), d.Stroke.Points...)
	case shape.Line:
		o.Kind = KindLine
		o.Points = []stroke.Point{d.From, d.To}
	case shape.Triangle:
		o.Kind = KindTriangle
	case shape.Rectangle:
		o.Kind = KindRect
	case shape.Ellipse:
		o.Kind = KindEllipse
	}
	return o
}

// NewPath builds a raw ink object from a point trace.
func NewPath(id string, points []stroke.Point, style shape.Style) Object {
	return FromDescriptor(id, shape.Descriptor{
		Kind:   shape.Scribble,
		Bounds: stroke.Bounds(points),
		Style:  style,
		Stroke: stroke.Stroke{Points: points},
	})
}
