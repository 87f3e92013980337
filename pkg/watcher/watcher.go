package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"portfolio-site/pkg/config"
	"portfolio-site/pkg/logfields"
)

// BuildFunc rebuilds the site with the given configuration
type BuildFunc func(cfg *config.Config) error

// ReloadFunc reads and validates the configuration file at path
type ReloadFunc func(path string) (*config.Config, error)

// Watcher polls the configuration file, page templates and component files and
// rebuilds the site when any of them changes. It is not safe for concurrent use.
type Watcher struct {
	cfg    *config.Config
	build  BuildFunc
	reload ReloadFunc

	files  []string
	mtimes map[string]time.Time

	notifier *fsnotify.Watcher
}

// New creates a watcher for cfg. A nil reload uses config.Load.
func New(cfg *config.Config, build BuildFunc, reload ReloadFunc) *Watcher {
	if reload == nil {
		reload = config.Load
	}
	w := &Watcher{
		cfg:    cfg,
		build:  build,
		reload: reload,
		mtimes: make(map[string]time.Time),
	}
	w.files = WatchedFiles(cfg)
	w.seed(false)
	return w
}

// Config returns the configuration currently in effect
func (w *Watcher) Config() *config.Config {
	return w.cfg
}

// Files returns the tracked paths
func (w *Watcher) Files() []string {
	return w.files
}

// WatchedFiles lists the absolute paths of the configuration file, every page
// template and every component file, without duplicates
func WatchedFiles(cfg *config.Config) []string {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	if cfg.Path != "" {
		add(cfg.Path)
	}
	for _, page := range cfg.Pages {
		add(cfg.TemplatePath(page.Template))
	}
	for _, comp := range cfg.Components {
		add(cfg.ComponentPath(comp.File))
	}
	sort.Strings(files)
	return files
}

// seed records the modification time of every tracked file not seen yet
func (w *Watcher) seed(announce bool) {
	for _, f := range w.files {
		if _, ok := w.mtimes[f]; ok {
			continue
		}
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		w.mtimes[f] = info.ModTime()
		if announce {
			slog.Info("Now watching", logfields.Path(f))
		}
	}
}

// Poll checks every tracked file once. A changed configuration file is reloaded
// and swapped in before the rebuild; when the reload fails the previous
// configuration stays active and no rebuild happens. It reports whether a
// rebuild ran.
func (w *Watcher) Poll() bool {
	triggered := false
	reconfigure := false

	for _, f := range w.files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		mtime := info.ModTime()
		last, ok := w.mtimes[f]
		if !ok {
			w.mtimes[f] = mtime
			continue
		}
		if mtime.After(last) {
			w.mtimes[f] = mtime
			slog.Info("Change detected", logfields.Path(f))
			triggered = true
			if f == w.cfg.Path {
				reconfigure = true
			}
		}
	}

	if reconfigure {
		slog.Info("Configuration changed, reloading", logfields.Path(w.cfg.Path))
		cfg, err := w.reload(w.cfg.Path)
		if err != nil {
			slog.Error("Error reloading configuration, keeping previous", logfields.Path(w.cfg.Path), logfields.Error(err))
			triggered = false
		} else {
			if cfg.Path == "" {
				cfg.Path = w.cfg.Path
			}
			w.cfg = cfg
			w.files = WatchedFiles(cfg)
			w.seed(true)
			if w.notifier != nil {
				w.refreshNotifier()
			}
		}
	}

	if !triggered {
		return false
	}

	slog.Info("Rebuilding site")
	if err := w.build(w.cfg); err != nil {
		slog.Error("Build failed", logfields.Error(err))
	}
	return true
}

// Run polls at the configured interval until ctx is cancelled. File system
// notifications, when available, only trigger an early poll.
func (w *Watcher) Run(ctx context.Context) error {
	slog.Info("Watcher started",
		logfields.Count(len(w.files)),
		slog.Duration("interval", w.cfg.Watch.Interval))

	w.refreshNotifier()
	defer w.closeNotifier()

	interval := w.cfg.Watch.Interval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var events <-chan fsnotify.Event
		var errs <-chan error
		if w.notifier != nil {
			events = w.notifier.Events
			errs = w.notifier.Errors
		}

		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case <-ticker.C:
			w.Poll()
		case ev, ok := <-events:
			if !ok {
				w.notifier = nil
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.Poll()
			}
		case err, ok := <-errs:
			if !ok {
				w.notifier = nil
				continue
			}
			slog.Debug("File notification error", logfields.Error(err))
		}

		if w.cfg.Watch.Interval != interval {
			interval = w.cfg.Watch.Interval
			ticker.Reset(interval)
		}
	}
}

// refreshNotifier watches the directories holding the tracked files.
// Without notifications the watcher keeps polling.
func (w *Watcher) refreshNotifier() {
	w.closeNotifier()

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Debug("File notifications unavailable, polling only", logfields.Error(err))
		return
	}

	dirs := make(map[string]bool)
	for _, f := range w.files {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := notifier.Add(dir); err != nil {
			slog.Debug("Cannot watch directory", logfields.Path(dir), logfields.Error(err))
		}
	}
	w.notifier = notifier
}

func (w *Watcher) closeNotifier() {
	if w.notifier == nil {
		return
	}
	if err := w.notifier.Close(); err != nil {
		slog.Debug("Error closing file notifier", logfields.Error(err))
	}
	w.notifier = nil
}
