// Package main provides the entry point for the Graph Field viewer.
package main

import (
	"log/slog"
	"os"

	"graphfield/internal/app"
	"graphfield/internal/config"
	"graphfield/internal/mask/opencv"
	"graphfield/internal/nav"
	"graphfield/internal/version"
	"graphfield/ui/mainwindow"
	"graphfield/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "io.github.graphfield"

func main() {
	level := slog.LevelInfo
	if os.Getenv("GRAPHFIELD_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})))
	slog.Info("starting graph field", "version", version.Version, "commit", version.GitCommit)

	appPrefs := prefs.Load()

	configPath := appPrefs.Get().LastConfig
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	field, configPath := openField(configPath, appPrefs)

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.FieldTheme{})

	win := mainwindow.New(a, appPrefs, field, configPath)
	win.ShowAndRun()
}

// openField loads the field at path, falling back to the built-in default
// field when path is empty or broken. It returns the path actually used.
func openField(path string, p *prefs.Prefs) (*app.Field, string) {
	if path != "" {
		cfg, err := config.Load(path)
		if err == nil {
			var f *app.Field
			f, err = app.NewField(cfg, opencv.LoaderFor(cfg.Field.MaskLoader))
			if err == nil {
				p.Update(func(v *prefs.Values) { v.LastConfig = path })
				return f, path
			}
		}
		slog.Error("cannot open config, using defaults", "path", path, "error", err)
	}

	f, err := app.NewField(config.Default(), nil)
	if err != nil {
		slog.Error("default field is invalid", "error", err)
		os.Exit(1)
	}
	if m, err := nav.ParseMode(p.Get().LastMode); err == nil {
		if err := f.Nav.SetMode(m); err != nil {
			slog.Warn("cannot restore mode", "mode", m, "error", err)
		}
	}
	return f, ""
}
