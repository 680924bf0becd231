package ui

import (
	"log/slog"
	"path/filepath"

	"SmartBoard/internal/config"
	"SmartBoard/internal/session"
	"SmartBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const appID = "io.smartboard.app"

// Window is the main board window.
type Window struct {
	cfg     config.Config
	session *session.Session
	log     *slog.Logger

	win    fyne.Window
	board  *BoardWidget
	status *widget.Label

	undoAction *widget.ToolbarAction
	redoAction *widget.ToolbarAction
}

func NewWindow(cfg config.Config, s *session.Session, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := app.NewWithID(appID)
	w := &Window{
		cfg:     cfg,
		session: s,
		log:     logger.With("component", "window"),
		win:     a.NewWindow("Smart Board"),
		status:  widget.NewLabel("Ready"),
	}
	w.win.Resize(fyne.NewSize(cfg.WindowWidth, cfg.WindowHeight))

	w.board = NewBoardWidget(s, logger)
	w.board.OnStatus = w.status.SetText
	w.board.OnEditText = w.editText
	s.Board().OnChanged = func() {
		fyne.Do(func() {
			w.board.Refresh()
			w.syncCommands()
		})
	}

	toolbar := NewToolbar(w)
	content := container.NewBorder(toolbar, w.status, nil, nil, w.board)
	w.win.SetContent(content)
	w.bindKeys()
	return w
}

// Warn shows a recoverable problem in the status bar.
func (w *Window) Warn(msg string) {
	fyne.Do(func() { w.status.SetText(msg) })
}

func (w *Window) ShowAndRun() { w.win.ShowAndRun() }

func (w *Window) bindKeys() {
	c := w.win.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { w.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { w.redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyA, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { w.session.SelectAll() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyEqual, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { w.board.ZoomIn() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyMinus, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { w.board.ZoomOut() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.Key0, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { w.board.ResetView() })
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			w.deleteSelected()
		case fyne.KeyEscape:
			w.session.Board().ClearSelection()
		}
	})
}

func (w *Window) showError(err error) {
	w.log.Error("command failed", "err", err)
	dialog.ShowError(err, w.win)
}

// syncCommands enables undo and redo only when there is something to step to.
func (w *Window) syncCommands() {
	h := w.session.History()
	setEnabled(w.undoAction, h.CanUndo())
	setEnabled(w.redoAction, h.CanRedo())
}

func setEnabled(a *widget.ToolbarAction, on bool) {
	if a == nil {
		return
	}
	if on {
		a.Enable()
	} else {
		a.Disable()
	}
}

func (w *Window) undo() {
	if _, err := w.session.Undo(); err != nil {
		w.showError(err)
	}
	w.syncCommands()
}

func (w *Window) redo() {
	if _, err := w.session.Redo(); err != nil {
		w.showError(err)
	}
	w.syncCommands()
}

func (w *Window) editText(o state.Object) {
	entry := widget.NewMultiLineEntry()
	entry.SetText(o.Text)
	entry.SetMinRowsVisible(4)
	items := []*widget.FormItem{widget.NewFormItem("Text", entry)}
	dialog.ShowForm("Edit text", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		if err := w.session.SetText(o.ID, entry.Text); err != nil {
			w.showError(err)
		}
	}, w.win)
}

func (w *Window) deleteSelected() {
	if n := w.session.DeleteSelected(); n > 0 {
		w.status.SetText("Deleted selection")
	}
}

func (w *Window) confirmClear() {
	dialog.ShowConfirm("Clear board", "Remove everything and start over?", func(ok bool) {
		if !ok {
			return
		}
		if err := w.session.Clear(); err != nil {
			w.showError(err)
		}
	}, w.win)
}

func (w *Window) saveJSON() {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			w.showError(err)
			return
		}
		if wc == nil {
			return
		}
		defer wc.Close()
		if err := w.session.SaveJSON(wc); err != nil {
			w.showError(err)
			return
		}
		w.status.SetText("Saved " + wc.URI().Name())
	}, w.win)
	d.SetFileName("board.json")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	w.startIn(d, w.cfg.DataDir)
	d.Show()
}

func (w *Window) importJSON() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			w.showError(err)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()
		if err := w.session.Import(rc); err != nil {
			w.showError(err)
			return
		}
		w.status.SetText("Opened " + rc.URI().Name())
	}, w.win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	w.startIn(d, w.cfg.DataDir)
	d.Show()
}

func (w *Window) exportPDF() {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			w.showError(err)
			return
		}
		if wc == nil {
			return
		}
		path := wc.URI().Path()
		// gofpdf writes the file itself
		wc.Close()
		if err := w.session.ExportPDF(path); err != nil {
			w.showError(err)
			return
		}
		w.status.SetText("Exported " + filepath.Base(path))
	}, w.win)
	d.SetFileName("board.pdf")
	w.startIn(d, w.cfg.ExportDir)
	d.Show()
}

type locatable interface {
	SetLocation(fyne.ListableURI)
}

func (w *Window) startIn(d locatable, dir string) {
	if dir == "" {
		return
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		w.log.Debug("dialog location unavailable", "dir", dir, "err", err)
		return
	}
	d.SetLocation(lister)
}
