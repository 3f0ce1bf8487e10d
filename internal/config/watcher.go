package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/randomizedcoder/tokenq/internal/telemetry/logger"
)

// Watcher watches the configuration file and reloads it on change.
//
// Only settings that are safe to change at runtime are applied by
// callbacks; the queue capacity and producer settings need a restart.
type Watcher struct {
	watcher   *fsnotify.Watcher
	path      string
	reload    func() (*Config, error)
	callbacks []func(*Config)
	mu        sync.RWMutex
	done      chan struct{}
	stopOnce  sync.Once
	log       logger.Logger
}

// NewWatcher creates a watcher for path. reload produces the new
// configuration, normally a fresh Loader's Load.
func NewWatcher(path string, reload func() (*Config, error), log logger.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file, to catch editor renames
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}

	return &Watcher{
		watcher: w,
		path:    filepath.Clean(path),
		reload:  reload,
		done:    make(chan struct{}),
		log:     log,
	}, nil
}

// OnChange registers a callback that receives each successfully reloaded
// configuration.
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start watches for changes until Stop is called.
func (w *Watcher) Start() {
	w.log.Info("configuration watcher started", "path", w.path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.log.Debug("configuration file changed", "op", event.Op.String())
				w.apply()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("configuration watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// Stop stops the watcher. Safe to call multiple times.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) apply() {
	cfg, err := w.reload()
	if err != nil {
		// Keep running with the previous configuration
		w.log.Warn("configuration reload rejected", "error", err)
		return
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb(cfg)
	}
}

// ApplyLogLevel is an OnChange callback that adjusts the global log level.
func ApplyLogLevel(cfg *Config) {
	logger.SetLevel(cfg.Log.Level)
}
