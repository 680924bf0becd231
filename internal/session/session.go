// Package session ties one board document to its history, the stroke
// interpreter and the persisted settings.
package session

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"SmartBoard/internal/config"
	"SmartBoard/internal/export"
	"SmartBoard/internal/history"
	"SmartBoard/internal/shape"
	"SmartBoard/internal/state"
	"SmartBoard/internal/stroke"
)

const (
	// minInkPoints is the shortest raw brush stroke worth keeping.
	minInkPoints = 2
	// eraseClickSlop is how far the eraser may travel and still be a click.
	eraseClickSlop = 4

	rectStampWidth  = 150
	rectStampHeight = 100
	circleStampSide = 100
	lineStampLength = 100
)

type Options struct {
	Logger *slog.Logger
	// OnWarning receives recoverable failures such as a failed autosave.
	OnWarning func(msg string, err error)
}

// Session owns the live board and everything that mutates it. Its methods
// are meant to be called from the goroutine that drives the UI.
type Session struct {
	board   *state.Board
	history *history.Manager
	interp  *shape.Interpreter
	store   history.Store

	mu       sync.RWMutex
	settings config.Settings

	log       *slog.Logger
	onWarning func(msg string, err error)
}

// Open restores the last autosaved document and settings from store, or
// starts an empty board. Unreadable state is reported through OnWarning.
func Open(store history.Store, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		store:     store,
		settings:  config.DefaultSettings(),
		log:       logger.With("component", "session"),
		onWarning: opts.OnWarning,
	}
	s.board = state.NewBoard(logger)
	s.interp = shape.NewInterpreter(s.board, logger)
	s.history = history.NewManager(s.board, store, history.Options{
		Logger: logger,
		OnPersistError: func(key string, err error) {
			s.warn("autosave failed", err)
		},
	})
	s.board.OnMutated = s.documentMutated

	s.loadSettings()
	if err := s.history.Open(); err != nil {
		// a corrupt autosave must not keep the user off the board
		s.warn("could not restore last document", err)
	}
	s.log.Info("session opened", "objects", s.board.Len(), "tool", s.Settings().Tool)
	return s
}

func (s *Session) documentMutated() {
	if _, err := s.history.RecordIfChanged(); err != nil {
		s.warn("could not record change", err)
	}
}

func (s *Session) warn(msg string, err error) {
	s.log.Warn(msg, "err", err)
	if s.onWarning != nil {
		s.onWarning(msg, err)
	}
}

func (s *Session) Board() *state.Board       { return s.board }
func (s *Session) History() *history.Manager { return s.history }

func (s *Session) loadSettings() {
	data, ok, err := s.store.Load(config.SettingsKey)
	if err != nil {
		s.warn("could not read settings", err)
		return
	}
	if !ok {
		return
	}
	settings, err := config.ParseSettings(data)
	if err != nil {
		s.warn("ignoring stored settings", err)
		return
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

func (s *Session) Settings() config.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings applies fn to a copy of the settings and, if the result is
// valid, makes it current and persists it.
func (s *Session) UpdateSettings(fn func(*config.Settings)) error {
	s.mu.Lock()
	next := s.settings
	fn(&next)
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("session: settings: %w", err)
	}
	s.settings = next
	s.mu.Unlock()

	data, err := config.MarshalSettings(next)
	if err != nil {
		return err
	}
	if err := s.store.Persist(config.SettingsKey, data); err != nil {
		s.warn("could not save settings", err)
	}
	return nil
}

// BrushFor derives the ink style a tool lays down.
func BrushFor(tool config.Tool, st config.Settings) shape.Style {
	style := shape.Style{Color: st.Color, Width: st.StrokeWidth, Opacity: st.Opacity}
	switch tool {
	case config.ToolMarker:
		style.Opacity = 0.5
	case config.ToolHighlighter:
		style.Opacity = 0.2
		style.Width = st.StrokeWidth * 6
	case config.ToolEraser:
		style.Color = config.Background(st.DarkMode)
		style.Width = st.StrokeWidth * 5
		style.Opacity = 1
	}
	return style
}

// StrokeCompleted handles a finished freehand gesture with the current tool.
// Smart strokes go through the classifier; other brushes keep their ink. An
// eraser click removes the object under it instead of painting. It reports
// ok == false when no ink was added.
func (s *Session) StrokeCompleted(points []stroke.Point) (shape.Descriptor, bool, error) {
	st := s.Settings()
	if !st.Tool.Draws() {
		return shape.Descriptor{}, false, nil
	}
	style := BrushFor(st.Tool, st)

	if st.Tool == config.ToolSmart {
		id := s.board.AddPending(points, style)
		return s.interp.StrokeCompleted(id, points, style)
	}

	if st.Tool == config.ToolEraser && len(points) > 0 && stroke.PathLength(points) <= eraseClickSlop {
		s.EraseAt(points[0])
		return shape.Descriptor{}, false, nil
	}
	if len(points) < minInkPoints {
		return shape.Descriptor{}, false, nil
	}
	pts := append([]stroke.Point(nil), points...)
	s.board.Add(state.NewPath("", pts, style))
	return shape.Descriptor{
		Kind:   shape.Scribble,
		Bounds: stroke.Bounds(pts),
		Style:  style,
		Stroke: stroke.Stroke{Points: pts},
	}, true, nil
}

func (s *Session) Undo() (bool, error) { return s.history.Undo() }
func (s *Session) Redo() (bool, error) { return s.history.Redo() }

// Clear starts a new empty document with a fresh history.
func (s *Session) Clear() error {
	snap, err := state.Encode(state.NewDocument())
	if err != nil {
		return err
	}
	if _, err := s.history.ResetTo(snap); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	s.log.Info("board cleared")
	return nil
}

// Import replaces the board with a document previously written by SaveJSON.
func (s *Session) Import(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("session: import: %w", err)
	}
	doc, err := state.Decode(data)
	if err != nil {
		return fmt.Errorf("session: import: %w", err)
	}
	snap, err := state.Encode(doc)
	if err != nil {
		return err
	}
	if _, err := s.history.ResetTo(snap); err != nil {
		return fmt.Errorf("session: import: %w", err)
	}
	s.log.Info("document imported", "objects", len(doc.Objects))
	return nil
}

// SaveJSON writes the current document.
func (s *Session) SaveJSON(w io.Writer) error {
	snap, err := s.board.Snapshot()
	if err != nil {
		return err
	}
	if _, err := w.Write(snap); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	return nil
}

// ExportPDF writes the current document as a PDF at path.
func (s *Session) ExportPDF(path string) error {
	if err := export.PDFFile(path, s.board.Document(), config.Background(s.Settings().DarkMode)); err != nil {
		return err
	}
	s.log.Info("document exported", "path", path)
	return nil
}

func (s *Session) DeleteSelected() int { return s.board.DeleteSelected() }
func (s *Session) SelectAll()          { s.board.SelectAll() }

// SelectAt selects the topmost object under p, or clears the selection.
func (s *Session) SelectAt(p stroke.Point) bool {
	id, ok := s.board.HitTest(p)
	if !ok {
		s.board.ClearSelection()
		return false
	}
	s.board.Select(id)
	return true
}

// EraseAt removes the topmost object under p.
func (s *Session) EraseAt(p stroke.Point) bool {
	id, ok := s.board.HitTest(p)
	if !ok {
		return false
	}
	return s.board.Remove(id) > 0
}

// Stamp builds the object a placing tool drops with its top-left corner at p.
func Stamp(tool config.Tool, p stroke.Point, st config.Settings) (state.Object, bool) {
	o := state.Object{
		Left:        p.X,
		Top:         p.Y,
		Stroke:      st.Color,
		StrokeWidth: st.StrokeWidth,
		Opacity:     st.Opacity,
	}
	switch tool {
	case config.ToolRect:
		o.Kind = state.KindRect
		o.Width, o.Height = rectStampWidth, rectStampHeight
	case config.ToolCircle:
		o.Kind = state.KindEllipse
		o.Width, o.Height = circleStampSide, circleStampSide
	case config.ToolLine:
		o.Kind = state.KindLine
		o.Width = lineStampLength
		o.Points = []stroke.Point{p, {X: p.X + lineStampLength, Y: p.Y}}
	case config.ToolText:
		o = state.NewText("", p, state.PlaceholderText, state.TextStyle{
			Color:      st.Color,
			FontSize:   st.FontSize,
			FontFamily: st.FontFamily,
			Bold:       st.Bold,
			Italic:     st.Italic,
		})
	case config.ToolSticky:
		o = state.NewSticky("", p)
	default:
		return state.Object{}, false
	}
	return o, true
}

// PlaceAt drops the current placing tool's object at p, snapped to the grid
// when enabled, and selects it.
func (s *Session) PlaceAt(p stroke.Point) (state.Object, bool) {
	st := s.Settings()
	if st.SnapToGrid {
		p = stroke.Point{X: config.Snap(p.X), Y: config.Snap(p.Y)}
	}
	o, ok := Stamp(st.Tool, p, st)
	if !ok {
		return state.Object{}, false
	}
	o.ID = s.board.Add(o)
	s.board.Select(o.ID)
	return o, true
}

// TextAt returns the topmost object under p if it is a text object.
func (s *Session) TextAt(p stroke.Point) (state.Object, bool) {
	id, ok := s.board.HitTest(p)
	if !ok {
		return state.Object{}, false
	}
	o, ok := s.board.Object(id)
	if !ok || o.Kind != state.KindText {
		return state.Object{}, false
	}
	return o, true
}

func (s *Session) SetText(id, text string) error { return s.board.SetText(id, text) }
