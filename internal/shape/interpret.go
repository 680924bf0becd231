package shape

import (
	"errors"
	"fmt"
	"log/slog"

	"SmartBoard/internal/stroke"
)

// InkSurface is the part of the rendering surface that owns freshly drawn
// strokes until they are interpreted.
type InkSurface interface {
	// KeepStroke promotes the raw stroke into the document unchanged.
	KeepStroke(id string) error
	// ReplaceStroke removes the raw stroke and inserts d as the new selection.
	ReplaceStroke(id string, d Descriptor) error
	// DropStroke discards a stroke that was too short to classify.
	DropStroke(id string) error
}

// Interpreter runs completed strokes through the classifier and applies the
// outcome to the surface.
type Interpreter struct {
	surface InkSurface
	log     *slog.Logger
}

func NewInterpreter(surface InkSurface, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Interpreter{surface: surface, log: logger.With("component", "shape")}
}

// StrokeCompleted classifies the stroke with the given id. It returns
// ok == false when the stroke had too few points and was dropped.
func (in *Interpreter) StrokeCompleted(id string, raw []stroke.Point, style Style) (d Descriptor, ok bool, err error) {
	s, f, err := stroke.Sample(raw)
	if errors.Is(err, stroke.ErrInsufficientData) {
		in.log.Debug("stroke dropped", "id", id, "points", len(raw))
		if err := in.surface.DropStroke(id); err != nil {
			return Descriptor{}, false, fmt.Errorf("drop stroke %s: %w", id, err)
		}
		return Descriptor{}, false, nil
	}
	if err != nil {
		return Descriptor{}, false, err
	}

	d = Classify(s, f, style)
	in.log.Debug("stroke classified",
		"id", id,
		"kind", d.Kind,
		"length", f.PathLength,
		"closure", f.ClosureDistance,
		"closed", f.Closed,
		"corners", f.Corners,
		"oscillations", f.VerticalOscillations,
		"aspect", f.AspectRatio,
	)

	if d.Kind == Scribble {
		if err := in.surface.KeepStroke(id); err != nil {
			return d, true, fmt.Errorf("keep stroke %s: %w", id, err)
		}
		return d, true, nil
	}
	if err := in.surface.ReplaceStroke(id, d); err != nil {
		return d, true, fmt.Errorf("replace stroke %s: %w", id, err)
	}
	return d, true, nil
}
