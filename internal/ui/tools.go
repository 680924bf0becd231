package ui

import (
	"image/color"

	"SmartBoard/internal/config"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	OnTapped func(hex string)
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(config.WithOpacity(s.Hex, 1))
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

var toolIcons = map[config.Tool]fyne.Resource{
	config.ToolSelect:      theme.RadioButtonCheckedIcon(),
	config.ToolPen:         theme.DocumentCreateIcon(),
	config.ToolMarker:      theme.ColorChromaticIcon(),
	config.ToolHighlighter: theme.ColorPaletteIcon(),
	config.ToolEraser:      theme.ContentClearIcon(),
	config.ToolSmart:       theme.ViewRestoreIcon(),
	config.ToolRect:        theme.CheckButtonIcon(),
	config.ToolCircle:      theme.RadioButtonIcon(),
	config.ToolLine:        theme.ContentRemoveIcon(),
	config.ToolText:        theme.FileTextIcon(),
	config.ToolSticky:      theme.DocumentIcon(),
}

// NewToolbar builds the tool, colour and command strip for the window.
func NewToolbar(w *Window) fyne.CanvasObject {
	s := w.session
	update := func(fn func(*config.Settings)) {
		if err := s.UpdateSettings(fn); err != nil {
			w.showError(err)
		}
		w.board.Refresh()
	}

	current := widget.NewLabel(string(s.Settings().Tool))
	tools := widget.NewToolbar()
	for _, t := range config.Tools {
		tool := t
		tools.Append(widget.NewToolbarAction(toolIcons[tool], func() {
			update(func(st *config.Settings) { st.Tool = tool })
			current.SetText(string(tool))
		}))
	}

	colorBox := container.NewHBox()
	for _, hex := range config.Palette {
		colorBox.Add(newColorSwatch(hex, func(hex string) {
			update(func(st *config.Settings) {
				st.Color = hex
				if st.Tool == config.ToolEraser || st.Tool == config.ToolSelect {
					st.Tool = config.ToolPen
					current.SetText(string(config.ToolPen))
				}
			})
		}))
	}

	strokeSlider := widget.NewSlider(1.0, 50.0)
	strokeSlider.SetValue(s.Settings().StrokeWidth)
	strokeSlider.OnChangeEnded = func(val float64) {
		update(func(st *config.Settings) { st.StrokeWidth = val })
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	grid := widget.NewCheck("Grid", func(on bool) {
		update(func(st *config.Settings) { st.ShowGrid = on })
	})
	grid.SetChecked(s.Settings().ShowGrid)
	dark := widget.NewCheck("Dark", func(on bool) {
		update(func(st *config.Settings) { st.DarkMode = on })
	})
	dark.SetChecked(s.Settings().DarkMode)
	snap := widget.NewCheck("Snap", func(on bool) {
		update(func(st *config.Settings) { st.SnapToGrid = on })
	})
	snap.SetChecked(s.Settings().SnapToGrid)

	font := widget.NewSelect(config.Fonts, func(family string) {
		update(func(st *config.Settings) { st.FontFamily = family })
	})
	font.SetSelected(s.Settings().FontFamily)
	bold := widget.NewCheck("B", func(on bool) {
		update(func(st *config.Settings) { st.Bold = on })
	})
	bold.SetChecked(s.Settings().Bold)
	italic := widget.NewCheck("I", func(on bool) {
		update(func(st *config.Settings) { st.Italic = on })
	})
	italic.SetChecked(s.Settings().Italic)
	fontSize := widget.NewSlider(8.0, 96.0)
	fontSize.SetValue(s.Settings().FontSize)
	fontSize.OnChangeEnded = func(val float64) {
		update(func(st *config.Settings) { st.FontSize = val })
	}
	fontSizeContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(100, 35)), fontSize)

	w.undoAction = widget.NewToolbarAction(theme.ContentUndoIcon(), w.undo)
	w.redoAction = widget.NewToolbarAction(theme.ContentRedoIcon(), w.redo)
	commands := widget.NewToolbar(
		w.undoAction,
		w.redoAction,
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), w.deleteSelected),
		widget.NewToolbarAction(theme.CancelIcon(), w.confirmClear),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FolderOpenIcon(), w.importJSON),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), w.saveJSON),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), w.exportPDF),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomOutIcon(), w.board.ZoomOut),
		widget.NewToolbarAction(theme.ZoomInIcon(), w.board.ZoomIn),
		widget.NewToolbarAction(theme.ZoomFitIcon(), w.board.ResetView),
	)
	w.syncCommands()

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tools,
		current,
		widget.NewSeparator(),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		grid,
		snap,
		dark,
		widget.NewSeparator(),
		font,
		fontSizeContainer,
		bold,
		italic,
		layout.NewSpacer(),
		commands,
	)
}
