package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher reports changes to a config file. It watches the file's
// directory so editors that replace the file on save are still seen.
type ConfigWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	onChange func(path string)
	stopCh   chan struct{}
	done     sync.WaitGroup
}

// NewConfigWatcher creates a watcher for path. Bursts of events closer than
// debounce collapse into one callback.
func NewConfigWatcher(path string, debounce time.Duration) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &ConfigWatcher{path: abs, debounce: debounce, watcher: w}, nil
}

// OnChange sets the callback invoked after the file is written or
// recreated. The callback runs on the watcher goroutine.
func (c *ConfigWatcher) OnChange(callback func(path string)) {
	c.onChange = callback
}

// Path returns the absolute path being watched.
func (c *ConfigWatcher) Path() string { return c.path }

// Start begins watching in a background goroutine.
func (c *ConfigWatcher) Start() {
	c.stopCh = make(chan struct{})
	c.done.Add(1)
	go c.watchLoop()
}

// Stop ends the watcher goroutine and releases the watch.
func (c *ConfigWatcher) Stop() {
	close(c.stopCh)
	c.done.Wait()
	c.watcher.Close()
}

func (c *ConfigWatcher) watchLoop() {
	defer c.done.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-c.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != c.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(c.debounce)
			} else {
				timer.Reset(c.debounce)
			}
			fire = timer.C
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "path", c.path, "error", err)
		case <-fire:
			fire = nil
			slog.Info("config file changed", "path", c.path)
			if c.onChange != nil {
				c.onChange(c.path)
			}
		}
	}
}
