package state

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"SmartBoard/internal/stroke"
)

const (
	PlaceholderText = "Type here..."
	StickyText      = "Sticky Note\nDouble click to edit"
	StickyColor     = "#fef08a"

	StickySide     = 160
	StickyPadding  = 20
	stickyFontSize = 18
	stickyFont     = "Inter"

	// average glyph advance and line pitch, in ems
	glyphAdvance = 0.6
	LineHeight   = 1.2
)

// TextStyle is the typography a text object is created with.
type TextStyle struct {
	Color      string
	FontSize   float64
	FontFamily string
	Bold       bool
	Italic     bool
}

// TextSize estimates the box a block of text occupies.
func TextSize(text string, fontSize float64) (w, h float64) {
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l))
	}
	return float64(longest) * fontSize * glyphAdvance, float64(len(lines)) * fontSize * LineHeight
}

// NewText builds a free text object with its top-left corner at p.
func NewText(id string, p stroke.Point, text string, st TextStyle) Object {
	w, h := TextSize(text, st.FontSize)
	return Object{
		ID:         id,
		Kind:       KindText,
		Left:       p.X,
		Top:        p.Y,
		Width:      w,
		Height:     h,
		Stroke:     st.Color,
		Opacity:    1,
		Text:       text,
		FontSize:   st.FontSize,
		FontFamily: st.FontFamily,
		Bold:       st.Bold,
		Italic:     st.Italic,
	}
}

// NewSticky builds a fixed-size sticky note at p.
func NewSticky(id string, p stroke.Point) Object {
	o := NewText(id, p, StickyText, TextStyle{Color: "#000000", FontSize: stickyFontSize, FontFamily: stickyFont})
	o.Width, o.Height = StickySide, StickySide
	o.Background = StickyColor
	return o
}

func (o Object) IsSticky() bool { return o.Kind == KindText && o.Background != "" }

// Lines splits the text into display lines.
func (o Object) Lines() []string {
	if o.Text == "" {
		return nil
	}
	return strings.Split(o.Text, "\n")
}

// SetText replaces the content of a text object. Free text is resized to
// fit; sticky notes keep their size.
func (b *Board) SetText(id, text string) error {
	o, ok := b.Object(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	if o.Kind != KindText {
		return ErrNotText
	}
	return b.Update(id, func(o *Object) {
		o.Text = text
		if !o.IsSticky() {
			o.Width, o.Height = TextSize(text, o.FontSize)
		}
	})
}
