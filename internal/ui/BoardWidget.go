package ui

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"sync"

	"SmartBoard/internal/config"
	"SmartBoard/internal/session"
	"SmartBoard/internal/shape"
	"SmartBoard/internal/state"
	"SmartBoard/internal/stroke"
	"SmartBoard/internal/view"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	// arcSegments is how many straight pieces approximate one wave arc.
	arcSegments     = 12
	ellipseSegments = 48
	// fyne reports about 25 per wheel notch, browsers about 100
	wheelScale = 4
	// grid lines closer than this many pixels are not drawn
	minGridPitch = 4
)

var selectionColor = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}

// BoardWidget draws the session's board and turns pointer input into strokes,
// stamps and selections.
type BoardWidget struct {
	widget.BaseWidget
	session *session.Session
	log     *slog.Logger

	mu      sync.RWMutex
	current []stroke.Point
	drawing bool
	view    view.Viewport

	// OnStatus shows a short message to the user.
	OnStatus func(text string)
	// OnEditText is asked to edit the content of a text object.
	OnEditText func(o state.Object)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.DoubleTappable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(s *session.Session, logger *slog.Logger) *BoardWidget {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := &BoardWidget{session: s, log: logger.With("component", "ui"), view: view.New()}
	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardWidget) SetStatus(text string) {
	if b.OnStatus != nil {
		fyne.Do(func() { b.OnStatus(text) })
	}
}

func (b *BoardWidget) viewport() view.Viewport {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.view
}

func (b *BoardWidget) toDocument(p fyne.Position) stroke.Point {
	return b.viewport().ToDocument(float64(p.X), float64(p.Y))
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	tool := b.session.Settings().Tool
	p := b.toDocument(e.Position)
	switch {
	case tool.Places():
		o, ok := b.session.PlaceAt(p)
		if ok && o.Kind == state.KindText && b.OnEditText != nil {
			b.OnEditText(o)
		}
		return
	case !tool.Draws():
		b.session.SelectAt(p)
		return
	}
	b.mu.Lock()
	b.drawing = true
	b.current = []stroke.Point{p}
	b.mu.Unlock()
	b.Refresh()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.mu.Lock()
	if !b.drawing {
		b.mu.Unlock()
		return
	}
	points := b.current
	b.drawing = false
	b.current = nil
	b.mu.Unlock()

	d, ok, err := b.session.StrokeCompleted(points)
	switch {
	case err != nil:
		b.log.Error("stroke failed", "err", err)
		b.SetStatus("Could not add stroke")
	case ok && b.session.Settings().Tool == config.ToolSmart:
		b.SetStatus("Recognized " + d.Kind.String())
	}
	b.Refresh()
}

// DoubleTapped opens the editor for a text object under the select tool.
func (b *BoardWidget) DoubleTapped(e *fyne.PointEvent) {
	if b.session.Settings().Tool != config.ToolSelect || b.OnEditText == nil {
		return
	}
	if o, ok := b.session.TextAt(b.toDocument(e.Position)); ok {
		b.OnEditText(o)
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.mu.Lock()
	if b.drawing {
		b.current = append(b.current, b.view.ToDocument(float64(e.Position.X), float64(e.Position.Y)))
	} else {
		b.view.Pan(float64(e.Dragged.DX), float64(e.Dragged.DY))
	}
	b.mu.Unlock()
	b.Refresh()
}

func (b *BoardWidget) DragEnd() {}

// Scrolled zooms around the pointer.
func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	b.mu.Lock()
	b.view.Wheel(float64(e.Position.X), float64(e.Position.Y), -float64(e.Scrolled.DY)*wheelScale)
	b.mu.Unlock()
	b.zoomChanged()
}

func (b *BoardWidget) ZoomIn()  { b.zoomBy(view.ZoomStep) }
func (b *BoardWidget) ZoomOut() { b.zoomBy(1 / view.ZoomStep) }

func (b *BoardWidget) zoomBy(f float64) {
	size := b.Size()
	b.mu.Lock()
	b.view.ZoomAt(float64(size.Width)/2, float64(size.Height)/2, b.view.Zoom*f)
	b.mu.Unlock()
	b.zoomChanged()
}

func (b *BoardWidget) zoomChanged() {
	b.SetStatus(fmt.Sprintf("Zoom %.0f%%", b.Zoom()*100))
	b.Refresh()
}

func (b *BoardWidget) Zoom() float64 { return b.viewport().Zoom }

// ResetView returns to the document origin at 100%.
func (b *BoardWidget) ResetView() {
	b.mu.Lock()
	b.view.Reset()
	b.mu.Unlock()
	b.zoomChanged()
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	size       fyne.Size
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	b := r.board
	settings := b.session.Settings()
	r.background.FillColor = config.WithOpacity(config.Background(settings.DarkMode), 1)

	b.mu.RLock()
	v := b.view
	preview := append([]stroke.Point(nil), b.current...)
	drawing := b.drawing
	b.mu.RUnlock()

	objects := []fyne.CanvasObject{r.background}
	if settings.ShowGrid {
		objects = append(objects, r.grid(settings.DarkMode, v)...)
	}

	board := b.session.Board()
	board.Visit(func(o *state.Object, selected bool) {
		objects = append(objects, drawObject(*o, v)...)
		if selected {
			objects = append(objects, outline(o.Bounds(), v))
		}
	})
	for _, o := range board.Pending() {
		objects = append(objects, drawObject(o, v)...)
	}
	if drawing && len(preview) > 1 {
		style := session.BrushFor(settings.Tool, settings)
		objects = append(objects, drawObject(state.NewPath("", preview, style), v)...)
	}
	return objects
}

func (r *boardWidgetRenderer) grid(dark bool, v view.Viewport) []fyne.CanvasObject {
	pitch := v.Scale(config.GridSize)
	if pitch < minGridPitch {
		return nil
	}
	c := config.WithOpacity(config.GridColor(dark), 1)
	w, h := float64(r.size.Width), float64(r.size.Height)
	var lines []fyne.CanvasObject
	for x := fmod(v.PanX, pitch); x < w; x += pitch {
		l := canvas.NewLine(c)
		l.StrokeWidth = 0.5
		l.Position1 = fyne.NewPos(float32(x), 0)
		l.Position2 = fyne.NewPos(float32(x), float32(h))
		lines = append(lines, l)
	}
	for y := fmod(v.PanY, pitch); y < h; y += pitch {
		l := canvas.NewLine(c)
		l.StrokeWidth = 0.5
		l.Position1 = fyne.NewPos(0, float32(y))
		l.Position2 = fyne.NewPos(float32(w), float32(y))
		lines = append(lines, l)
	}
	return lines
}

func fmod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}

func screenPos(v view.Viewport, p stroke.Point) fyne.Position {
	x, y := v.ToScreen(p)
	return fyne.NewPos(float32(x), float32(y))
}

func screenSize(v view.Viewport, w, h float64) fyne.Size {
	return fyne.NewSize(float32(v.Scale(w)), float32(v.Scale(h)))
}

func drawObject(o state.Object, v view.Viewport) []fyne.CanvasObject {
	c := config.WithOpacity(o.Stroke, o.Opacity)
	w := float32(v.Scale(o.StrokeWidth))
	polyline := func(pts []stroke.Point) []fyne.CanvasObject {
		var out []fyne.CanvasObject
		for i := 1; i < len(pts); i++ {
			l := canvas.NewLine(c)
			l.StrokeWidth = w
			l.Position1 = screenPos(v, pts[i-1])
			l.Position2 = screenPos(v, pts[i])
			out = append(out, l)
		}
		return out
	}

	switch o.Kind {
	case state.KindPath, state.KindLine:
		return polyline(o.Points)
	case state.KindTriangle:
		t := shape.TrianglePoints(o.Bounds())
		return polyline([]stroke.Point{t[0], t[1], t[2], t[0]})
	case state.KindWave:
		var out []fyne.CanvasObject
		for _, a := range o.Arcs {
			out = append(out, polyline(a.Points(arcSegments))...)
		}
		return out
	case state.KindEllipse:
		// canvas.Circle only draws circles
		return polyline(shape.EllipsePoints(o.Bounds(), ellipseSegments))
	case state.KindRect:
		rect := canvas.NewRectangle(color.Transparent)
		rect.StrokeColor = c
		rect.StrokeWidth = w
		rect.Move(screenPos(v, stroke.Point{X: o.Left, Y: o.Top}))
		rect.Resize(screenSize(v, o.Width, o.Height))
		return []fyne.CanvasObject{rect}
	case state.KindText:
		return drawText(o, c, v)
	}
	return nil
}

func drawText(o state.Object, c color.Color, v view.Viewport) []fyne.CanvasObject {
	var out []fyne.CanvasObject
	origin := stroke.Point{X: o.Left, Y: o.Top}
	if o.IsSticky() {
		paper := canvas.NewRectangle(config.WithOpacity(o.Background, 1))
		paper.Move(screenPos(v, origin))
		paper.Resize(screenSize(v, o.Width, o.Height))
		out = append(out, paper)
		origin = stroke.Point{X: o.Left + state.StickyPadding, Y: o.Top + state.StickyPadding}
	}
	style := fyne.TextStyle{Bold: o.Bold, Italic: o.Italic, Monospace: o.FontFamily == "Monospace"}
	for i, line := range o.Lines() {
		t := canvas.NewText(line, c)
		t.TextSize = float32(v.Scale(o.FontSize))
		t.TextStyle = style
		t.Move(screenPos(v, stroke.Point{X: origin.X, Y: origin.Y + float64(i)*o.FontSize*state.LineHeight}))
		t.Resize(t.MinSize())
		out = append(out, t)
	}
	return out
}

func outline(b stroke.Box, v view.Viewport) fyne.CanvasObject {
	const pad = 4
	pos := screenPos(v, stroke.Point{X: b.Left, Y: b.Top})
	size := screenSize(v, b.Width, b.Height)
	rect := canvas.NewRectangle(color.Transparent)
	rect.StrokeColor = selectionColor
	rect.StrokeWidth = 1
	rect.Move(pos.Subtract(fyne.NewPos(pad, pad)))
	rect.Resize(size.Add(fyne.NewSize(2*pad, 2*pad)))
	return rect
}

func (r *boardWidgetRenderer) Refresh() {
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.size = size
	r.background.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Destroy() {}
