// Package prefs persists the viewer's window and session preferences as a
// small TOML file under the user config directory.
package prefs

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

const (
	appDir    = "graphfield"
	prefsFile = "preferences.toml"
)

// Values are the stored preferences.
type Values struct {
	WindowWidth  float64 `toml:"window_width"`
	WindowHeight float64 `toml:"window_height"`
	LastConfig   string  `toml:"last_config"`
	LastMode     string  `toml:"last_mode"`
	ShowStatus   *bool   `toml:"show_status,omitempty"`
}

// Prefs guards a Values set bound to a file.
type Prefs struct {
	mu     sync.RWMutex
	values Values
	path   string
}

// DefaultPath returns ~/.config/graphfield/preferences.toml or the platform
// equivalent.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, prefsFile)
}

// Load reads preferences from DefaultPath.
func Load() *Prefs {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads preferences from path. A missing or unreadable file yields
// empty preferences bound to path.
func LoadFrom(path string) *Prefs {
	p := &Prefs{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("cannot read preferences", "path", path, "error", err)
		}
		return p
	}
	if err := toml.Unmarshal(data, &p.values); err != nil {
		slog.Warn("ignoring malformed preferences", "path", path, "error", err)
		p.values = Values{}
	}
	return p
}

// Path returns the backing file.
func (p *Prefs) Path() string { return p.path }

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := toml.Marshal(p.values)
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// Get returns a copy of the stored values.
func (p *Prefs) Get() Values {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.values
}

// Update applies fn to the stored values.
func (p *Prefs) Update(fn func(v *Values)) {
	p.mu.Lock()
	fn(&p.values)
	p.mu.Unlock()
}

// WindowSize returns the saved window size, or the fallback when unset.
func (p *Prefs) WindowSize(fallbackW, fallbackH float64) (float64, float64) {
	v := p.Get()
	if v.WindowWidth <= 0 || v.WindowHeight <= 0 {
		return fallbackW, fallbackH
	}
	return v.WindowWidth, v.WindowHeight
}

// ShowStatus reports whether the status bar is visible, defaulting to true.
func (p *Prefs) ShowStatus() bool {
	v := p.Get()
	if v.ShowStatus == nil {
		return true
	}
	return *v.ShowStatus
}

// SetShowStatus stores the status bar visibility.
func (p *Prefs) SetShowStatus(on bool) {
	p.Update(func(v *Values) { v.ShowStatus = &on })
}
