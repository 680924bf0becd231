// Package export renders a board document to PDF.
package export

import (
	"fmt"
	"io"
	"math"

	"SmartBoard/internal/config"
	"SmartBoard/internal/shape"
	"SmartBoard/internal/state"
	"SmartBoard/internal/stroke"

	"github.com/jung-kurt/gofpdf"
)

const (
	margin  = 20.0
	minSide = 200.0
	// baseline of the first line below the text box top, in ems
	ascent = 0.8
)

// PDF writes doc as a single page sized to its contents plus a margin.
func PDF(w io.Writer, doc state.Document, background string) error {
	p := render(doc, background)
	if err := p.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}

// PDFFile is PDF into a file at path.
func PDFFile(path string, doc state.Document, background string) error {
	p := render(doc, background)
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}

func render(doc state.Document, background string) *gofpdf.Fpdf {
	b := doc.Bounds()
	w := math.Max(b.Width+2*margin, minSide)
	h := math.Max(b.Height+2*margin, minSide)
	origin := stroke.Point{X: b.Left - margin, Y: b.Top - margin}

	// "L" would swap Wd and Ht; "P" keeps the page exactly w x h.
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	bg := config.WithOpacity(background, 1)
	p.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
	p.Rect(0, 0, w, h, "F")

	tr := p.UnicodeTranslatorFromDescriptor("")
	for _, o := range doc.Objects {
		drawObject(p, o, origin, tr)
	}
	return p
}

func drawObject(p *gofpdf.Fpdf, o state.Object, origin stroke.Point, tr func(string) string) {
	c := config.WithOpacity(o.Stroke, 1)
	p.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.SetLineWidth(o.StrokeWidth)
	alpha := o.Opacity
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	p.SetAlpha(alpha, "Normal")
	defer p.SetAlpha(1, "Normal")

	at := func(pt stroke.Point) (float64, float64) {
		return pt.X - origin.X, pt.Y - origin.Y
	}
	x, y := o.Left-origin.X, o.Top-origin.Y

	switch o.Kind {
	case state.KindPath, state.KindLine:
		for i := 1; i < len(o.Points); i++ {
			x1, y1 := at(o.Points[i-1])
			x2, y2 := at(o.Points[i])
			p.Line(x1, y1, x2, y2)
		}
	case state.KindRect:
		p.Rect(x, y, o.Width, o.Height, "D")
	case state.KindEllipse:
		p.Ellipse(x+o.Width/2, y+o.Height/2, o.Width/2, o.Height/2, 0, "D")
	case state.KindTriangle:
		pts := make([]gofpdf.PointType, 0, 3)
		for _, v := range shape.TrianglePoints(o.Bounds()) {
			vx, vy := at(v)
			pts = append(pts, gofpdf.PointType{X: vx, Y: vy})
		}
		p.Polygon(pts, "D")
	case state.KindWave:
		for _, a := range o.Arcs {
			x0, y0 := at(a.Start)
			cx, cy := at(a.Control)
			x1, y1 := at(a.End)
			p.Curve(x0, y0, cx, cy, x1, y1, "D")
		}
	case state.KindText:
		if o.IsSticky() {
			bg := config.WithOpacity(o.Background, 1)
			p.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
			p.Rect(x, y, o.Width, o.Height, "F")
			x, y = x+state.StickyPadding, y+state.StickyPadding
		}
		p.SetFont(fontFamily(o.FontFamily), fontStyle(o), o.FontSize)
		p.SetTextColor(int(c.R), int(c.G), int(c.B))
		for i, line := range o.Lines() {
			p.Text(x, y+o.FontSize*(ascent+float64(i)*state.LineHeight), tr(line))
		}
	}
}

// fontFamily maps a board font onto one of the PDF core fonts.
func fontFamily(name string) string {
	switch name {
	case "Serif":
		return "Times"
	case "Monospace":
		return "Courier"
	}
	return "Helvetica"
}

func fontStyle(o state.Object) string {
	var s string
	if o.Bold {
		s += "B"
	}
	if o.Italic {
		s += "I"
	}
	return s
}
