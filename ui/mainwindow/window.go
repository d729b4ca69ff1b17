// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"graphfield/internal/app"
	"graphfield/internal/config"
	"graphfield/internal/mask/opencv"
	"graphfield/internal/nav"
	"graphfield/internal/version"
	"graphfield/internal/view"
	"graphfield/internal/zone"
	"graphfield/pkg/geometry"
	"graphfield/ui/canvas"
	"graphfield/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const reloadDebounce = 200 * time.Millisecond

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app        fyne.App
	prefs      *prefs.Prefs
	configPath string

	canvas    *canvas.FieldCanvas
	modeGroup *widget.RadioGroup
	statusBar *widget.Label
	pointer   *widget.Label
	watcher   *app.ConfigWatcher

	showStatusItem *fyne.MenuItem
	statusArea     fyne.CanvasObject
}

// New creates a new main window showing f. configPath may be empty when the
// field was built from defaults.
func New(fyneApp fyne.App, p *prefs.Prefs, f *app.Field, configPath string) *MainWindow {
	win := fyneApp.NewWindow("Graph Field")

	mw := &MainWindow{
		Window:     win,
		app:        fyneApp,
		prefs:      p,
		configPath: configPath,
	}

	mw.setupUI(f)
	mw.setupMenus()
	mw.bindField(f)
	mw.watch(configPath)
	mw.updateTitle()

	w, h := p.WindowSize(float64(f.Config.Field.Width), float64(f.Config.Field.Height)+80)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))
	mw.SetOnClosed(mw.onClosed)
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI(f *app.Field) {
	mw.canvas = canvas.NewFieldCanvas(f)
	mw.canvas.OnPointerMove(func(p geometry.Point2D) {
		mw.pointer.SetText(fmt.Sprintf("x %.1f  y %.1f", p.X, p.Y))
	})

	mw.statusBar = widget.NewLabel("Ready")
	mw.pointer = widget.NewLabel("")

	toolbar := mw.createToolbar(f.Nav.Mode())

	mw.statusArea = container.NewPadded(container.NewBorder(nil, nil, nil, mw.pointer, mw.statusBar))
	if !mw.prefs.ShowStatus() {
		mw.statusArea.Hide()
	}

	content := container.NewBorder(
		toolbar,       // top
		mw.statusArea, // bottom
		nil,           // left
		nil,           // right
		mw.canvas,     // center
	)
	mw.SetContent(content)
}

// createToolbar creates the zoom and mode controls.
func (mw *MainWindow) createToolbar(mode nav.Mode) fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	resetBtn := widget.NewButton("Reset", mw.onZoomReset)

	names := make([]string, 0, len(nav.Modes))
	for _, m := range nav.Modes {
		names = append(names, m.String())
	}
	mw.modeGroup = widget.NewRadioGroup(names, func(s string) {
		if s == "" {
			return
		}
		mw.onSetMode(s)
	})
	mw.modeGroup.Horizontal = true
	mw.modeGroup.Required = true
	mw.modeGroup.SetSelected(mode.String())

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		resetBtn,
		widget.NewSeparator(),
		widget.NewLabel("Mode:"),
		mw.modeGroup,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Config...", mw.onOpenConfig),
		fyne.NewMenuItem("Reload Config", mw.onReload),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Config As...", mw.onSaveConfigAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Set Background Image...", mw.onSetBackground),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	mw.showStatusItem = fyne.NewMenuItem("Show Status Bar", mw.onToggleStatus)
	mw.showStatusItem.Checked = mw.prefs.ShowStatus()

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Reset Zoom", mw.onZoomReset),
		fyne.NewMenuItem("Fix Scale at Current Width", mw.onFixScale),
		fyne.NewMenuItemSeparator(),
		mw.showStatusItem,
	)

	modeItems := make([]*fyne.MenuItem, 0, len(nav.Modes))
	for _, m := range nav.Modes {
		name := m.String()
		modeItems = append(modeItems, fyne.NewMenuItem(strings.ToUpper(name[:1])+name[1:], func() {
			mw.modeGroup.SetSelected(name)
		}))
	}
	modeMenu := fyne.NewMenu("Mode", modeItems...)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, modeMenu, helpMenu))
}

// bindField registers for the field's events. It runs for every field the
// window shows, including reloaded ones.
func (mw *MainWindow) bindField(f *app.Field) {
	f.On(app.EventZoneClicked, func(data any) {
		if e, ok := data.(zone.Event); ok {
			mw.updateStatus(fmt.Sprintf("Clicked %s at (%.1f, %.1f)", e.Zone.ID, e.X, e.Y))
		}
	})
	f.On(app.EventZoneDoubleClicked, func(data any) {
		if e, ok := data.(zone.Event); ok {
			mw.updateStatus(fmt.Sprintf("Double-clicked %s", e.Zone.ID))
		}
	})
	f.On(app.EventZoneEnter, func(data any) {
		if e, ok := data.(zone.Event); ok {
			mw.updateStatus("Entered " + e.Zone.ID)
		}
	})
	f.On(app.EventZoneLeave, func(data any) {
		if e, ok := data.(zone.Event); ok {
			mw.updateStatus("Left " + e.Zone.ID)
		}
	})
	f.On(app.EventViewChanged, func(data any) {
		if v, ok := data.(*view.View); ok {
			s := v.State()
			mw.updateStatus(fmt.Sprintf("Window (%.1f, %.1f) width %.1f", s.ZoomX, s.ZoomY, s.ZoomW))
		}
	})
}

// watch reloads the field whenever the config file changes on disk.
func (mw *MainWindow) watch(path string) {
	if path == "" {
		return
	}
	w, err := app.NewConfigWatcher(path, reloadDebounce)
	if err != nil {
		slog.Warn("config hot reload disabled", "path", path, "error", err)
		return
	}
	w.OnChange(func(string) { mw.onReload() })
	w.Start()
	mw.watcher = w
}

func (mw *MainWindow) stopWatching() {
	if mw.watcher != nil {
		mw.watcher.Stop()
		mw.watcher = nil
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updateTitle() {
	if mw.configPath == "" {
		mw.SetTitle("Graph Field - defaults")
		return
	}
	mw.SetTitle("Graph Field - " + filepath.Base(mw.configPath))
}

// getLastDir returns the directory of the last config as a ListableURI, or
// nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	last := mw.prefs.Get().LastConfig
	if last == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(filepath.Dir(last)))
	if err != nil {
		return nil
	}
	return listable
}

// loadField reads path and swaps the resulting field into the canvas,
// keeping the current interaction mode.
func (mw *MainWindow) loadField(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	f, err := app.NewField(cfg, opencv.LoaderFor(cfg.Field.MaskLoader))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if m, err := nav.ParseMode(mw.modeGroup.Selected); err == nil {
		if err := f.Nav.SetMode(m); err != nil {
			return err
		}
	}
	mw.bindField(f)
	mw.canvas.SetField(f)
	return nil
}

// Menu action handlers

func (mw *MainWindow) onOpenConfig() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		if err := mw.loadField(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.stopWatching()
		mw.configPath = path
		mw.prefs.Update(func(v *prefs.Values) { v.LastConfig = path })
		mw.watch(path)
		mw.updateTitle()
		mw.updateStatus("Loaded " + path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".toml", ".yaml", ".yml"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onReload() {
	if mw.configPath == "" {
		mw.updateStatus("No config file to reload")
		return
	}
	if err := mw.loadField(mw.configPath); err != nil {
		slog.Error("config reload failed", "path", mw.configPath, "error", err)
		mw.updateStatus("Reload failed: " + err.Error())
		return
	}
	slog.Info("config reloaded", "path", mw.configPath)
	mw.updateStatus("Reloaded " + filepath.Base(mw.configPath))
}

func (mw *MainWindow) onSaveConfigAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if _, err := config.FormatFor(path); err != nil {
			path += ".toml"
		}
		if err := mw.canvas.Field().Config.Save(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Saved " + path)
	}, mw.Window)
	fd.SetFileName("field.toml")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// onSetBackground shows an image under the widgets, taking its pixel size
// as the logical space.
func (mw *MainWindow) onSetBackground() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		var setErr error
		mw.canvas.Do(func(f *app.Field) { setErr = f.SetBackgroundFromFile(path, true) })
		if setErr != nil {
			dialog.ShowError(setErr, mw.Window)
			return
		}
		mw.updateStatus("Background " + filepath.Base(path))
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onZoomIn() {
	mw.canvas.Do(func(f *app.Field) {
		if err := f.View.ZoomIn(view.DefaultZoomStep); err != nil {
			slog.Warn("zoom in failed", "error", err)
		}
	})
}

func (mw *MainWindow) onZoomOut() {
	mw.canvas.Do(func(f *app.Field) {
		if err := f.View.ZoomOut(view.DefaultZoomStep); err != nil {
			slog.Warn("zoom out failed", "error", err)
		}
	})
}

func (mw *MainWindow) onZoomReset() {
	mw.canvas.Do(func(f *app.Field) { f.View.ZoomReset() })
}

// onFixScale makes the current width the reference pixel range used when
// the field does not scale with the window.
func (mw *MainWindow) onFixScale() {
	var width float64
	mw.canvas.Do(func(f *app.Field) {
		f.View.LatchPixelRange()
		width = f.View.State().PixelRange0
	})
	mw.updateStatus(fmt.Sprintf("Scale fixed at %g px", width))
}

func (mw *MainWindow) onSetMode(name string) {
	m, err := nav.ParseMode(name)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.canvas.Do(func(f *app.Field) {
		if err := f.Nav.SetMode(m); err != nil {
			slog.Warn("mode change rejected", "mode", name, "error", err)
		}
	})
	mw.prefs.Update(func(v *prefs.Values) { v.LastMode = m.String() })
	mw.updateStatus("Mode: " + m.String())
}

func (mw *MainWindow) onToggleStatus() {
	show := !mw.prefs.ShowStatus()
	mw.prefs.SetShowStatus(show)
	mw.showStatusItem.Checked = show
	if show {
		mw.statusArea.Show()
	} else {
		mw.statusArea.Hide()
	}
	mw.MainMenu().Refresh()
}

func (mw *MainWindow) onClosed() {
	mw.stopWatching()
	size := mw.Canvas().Size()
	mw.prefs.Update(func(v *prefs.Values) {
		v.WindowWidth = float64(size.Width)
		v.WindowHeight = float64(size.Height)
	})
	if err := mw.prefs.Save(); err != nil {
		slog.Warn("cannot save preferences", "path", mw.prefs.Path(), "error", err)
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Graph Field",
		fmt.Sprintf("Graph Field v%s\n\n"+
			"Zoomable normalized coordinate field with hit zones and axes.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
