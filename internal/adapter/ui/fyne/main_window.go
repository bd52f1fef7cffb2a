// Package fyne is the desktop front end: a single window whose content is the
// visualizer raster, with keyboard handling for the theme toggle.
package fyne

import (
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Window defaults.
const (
	APPNAME               = "beatscope"
	WIDTH         float32 = 800
	HEIGHT        float32 = 600
	titleSeparator        = " - "
)

// MainWindow hosts the visualizer.
// It is a dumb view: it forwards keys to the theme toggle and nothing else.
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window

	visualizer *VisualizerWidget
	theme      *ThemeToggle

	// Lifecycle management
	closeOnce sync.Once
	onClose   func()
}

// NewMainWindow creates the main window with the visualizer as its only content.
func NewMainWindow(app fyneapp.App, visualizer *VisualizerWidget, theme *ThemeToggle, width, height float32) *MainWindow {
	w := &MainWindow{
		app:        app,
		visualizer: visualizer,
		theme:      theme,
	}

	w.window = app.NewWindow(APPNAME)
	w.window.SetContent(visualizer)
	w.window.SetPadded(false)

	if width <= 0 || height <= 0 {
		width, height = WIDTH, HEIGHT
	}
	w.window.Resize(fyneapp.NewSize(width, height))

	w.addShortcuts()

	w.window.SetCloseIntercept(func() {
		w.Close()
	})

	return w
}

// addShortcuts adds keyboard shortcuts.
func (w *MainWindow) addShortcuts() {
	w.window.Canvas().SetOnTypedRune(w.theme.HandleRune)

	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyneapp.KeyQ,
		Modifier: fyneapp.KeyModifierShortcutDefault,
	}, func(fyneapp.Shortcut) {
		w.Close()
	})
}

// SetTrackTitle shows the playing track in the window title.
func (w *MainWindow) SetTrackTitle(title string) {
	if title == "" {
		w.window.SetTitle(APPNAME)
		return
	}
	w.window.SetTitle(title + titleSeparator + APPNAME)
}

// OnClose registers fn to run once, before the window closes.
func (w *MainWindow) OnClose(fn func()) {
	w.onClose = fn
}

// ShowAndRun shows the window and runs the application.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// Close runs the close hook and closes the window.
// It's safe to call multiple times (idempotent).
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		if w.onClose != nil {
			w.onClose()
		}
		w.window.Close()
	})
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}
