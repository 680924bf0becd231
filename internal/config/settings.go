package config

import (
	"fmt"
	"math"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// SettingsKey is the store slot holding the most recent Settings.
const SettingsKey = "settings"

// GridSize is the background grid pitch in document units.
const GridSize = 20

// Palette is the fixed swatch row.
var Palette = []string{
	"#000000", "#ffffff", "#ef4444", "#f97316", "#f59e0b",
	"#10b981", "#3b82f6", "#6366f1", "#8b5cf6", "#ec4899",
}

var Fonts = []string{"Inter", "Serif", "Monospace", "Cursive", "System-ui"}

type Tool string

const (
	ToolSelect      Tool = "select"
	ToolPen         Tool = "pen"
	ToolMarker      Tool = "marker"
	ToolHighlighter Tool = "highlighter"
	ToolEraser      Tool = "eraser"
	ToolSmart       Tool = "smart"
	ToolRect        Tool = "rect"
	ToolCircle      Tool = "circle"
	ToolLine        Tool = "line"
	ToolText        Tool = "text"
	ToolSticky      Tool = "sticky"
)

var Tools = []Tool{
	ToolSelect, ToolPen, ToolMarker, ToolHighlighter, ToolEraser, ToolSmart,
	ToolRect, ToolCircle, ToolLine, ToolText, ToolSticky,
}

// Draws reports whether the tool lays down freehand ink.
func (t Tool) Draws() bool {
	switch t {
	case ToolPen, ToolMarker, ToolHighlighter, ToolEraser, ToolSmart:
		return true
	}
	return false
}

// Places reports whether a click with the tool drops a ready-made object.
func (t Tool) Places() bool {
	switch t {
	case ToolRect, ToolCircle, ToolLine, ToolText, ToolSticky:
		return true
	}
	return false
}

// Snap rounds v to the nearest grid line.
func Snap(v float64) float64 {
	return math.Round(v/GridSize) * GridSize
}

// Settings are the canvas preferences restored with the session.
type Settings struct {
	Tool        Tool    `toml:"tool"`
	Color       string  `toml:"color"`
	StrokeWidth float64 `toml:"stroke_width"`
	Opacity     float64 `toml:"opacity"`
	SnapToGrid  bool    `toml:"snap_to_grid"`
	ShowGrid    bool    `toml:"show_grid"`
	DarkMode    bool    `toml:"dark_mode"`
	FontSize    float64 `toml:"font_size"`
	FontFamily  string  `toml:"font_family"`
	Bold        bool    `toml:"bold"`
	Italic      bool    `toml:"italic"`
}

func DefaultSettings() Settings {
	return Settings{
		Tool:        ToolPen,
		Color:       "#000000",
		StrokeWidth: 3,
		Opacity:     1,
		ShowGrid:    true,
		FontSize:    24,
		FontFamily:  "Inter",
	}
}

// Background is the canvas color for the theme.
func Background(dark bool) string {
	if dark {
		return "#18181b"
	}
	return "#fafafa"
}

// GridColor is the grid line color for the theme.
func GridColor(dark bool) string {
	if dark {
		return "#27272a"
	}
	return "#e4e4e7"
}

func (s Settings) Validate() error {
	if !slices.Contains(Tools, s.Tool) {
		return fmt.Errorf("unknown tool %q", s.Tool)
	}
	if _, err := ParseHex(s.Color); err != nil {
		return err
	}
	if s.StrokeWidth <= 0 {
		return fmt.Errorf("stroke width %g is not positive", s.StrokeWidth)
	}
	if s.Opacity <= 0 || s.Opacity > 1 {
		return fmt.Errorf("opacity %g is outside (0, 1]", s.Opacity)
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("font size %g is not positive", s.FontSize)
	}
	if !slices.Contains(Fonts, s.FontFamily) {
		return fmt.Errorf("unknown font %q", s.FontFamily)
	}
	return nil
}

// MarshalSettings encodes s for the settings slot.
func MarshalSettings(s Settings) ([]byte, error) {
	data, err := toml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("config: encode settings: %w", err)
	}
	return data, nil
}

// ParseSettings decodes a settings slot over the defaults.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("config: parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("config: settings: %w", err)
	}
	return s, nil
}
