// Package watch reloads an engine when its data directory changes.
//
// Events are debounced: a burst of writes (an editor saving, a git
// checkout) coalesces into one reload after the directory has been quiet
// for the debounce interval. After each successful reload every format is
// recompiled and failures are logged.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a reload.
const DefaultDebounce = 250 * time.Millisecond

// DefaultExtensions are the data file extensions that trigger a reload.
var DefaultExtensions = []string{".yaml", ".yml", ".cue"}

// Reloader is the engine surface the watcher drives.
type Reloader interface {
	Reload() error
	CompileAll() map[string]error
}

// Invalidator drops state derived from the previous data, e.g. a param
// search index.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Result describes one reload.
type Result struct {
	// Changed lists the changed paths relative to the watched directory.
	Changed []string

	// Err is the reload error. The engine keeps its previous data.
	Err error

	// Failures maps format ids to their compile errors. Only set when the
	// reload succeeded.
	Failures map[string]error
}

// Config holds the watcher parameters.
type Config struct {
	// Dir is the data directory. Subdirectories (mods/*) are watched too.
	Dir string

	// Debounce of zero or less means DefaultDebounce.
	Debounce time.Duration

	// Extensions of nil means DefaultExtensions.
	Extensions []string
}

// Watcher reloads a Reloader on data changes.
type Watcher struct {
	cfg         Config
	dir         string
	target      Reloader
	invalidate  []Invalidator
	onReload    func(Result)
	logger      *slog.Logger
	fsw         *fsnotify.Watcher
	started     atomic.Bool
	reloadCount atomic.Int64
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the watcher's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithInvalidator adds state to drop after each successful reload.
func WithInvalidator(inv Invalidator) Option {
	return func(w *Watcher) {
		w.invalidate = append(w.invalidate, inv)
	}
}

// WithOnReload sets a callback run after each reload attempt.
func WithOnReload(fn func(Result)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// New registers cfg.Dir and its subdirectories for watching.
func New(cfg Config, target Reloader, opts ...Option) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Extensions == nil {
		cfg.Extensions = DefaultExtensions
	}
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", cfg.Dir, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:    cfg,
		dir:    dir,
		target: target,
		logger: slog.Default(),
		fsw:    fsw,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addTree(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Reloads returns how many reloads have been attempted.
func (w *Watcher) Reloads() int64 {
	return w.reloadCount.Load()
}

// Run blocks until ctx is canceled. It must be called once.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}
	defer w.fsw.Close()

	w.logger.Info("watching data directory", "dir", w.dir, "debounce", w.cfg.Debounce)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			rel, ok := w.relevant(evt)
			if !ok {
				continue
			}
			w.logger.Debug("data file event", "path", rel, "op", evt.Op.String())

			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
				fire = timer.C
			} else {
				timer.Reset(w.cfg.Debounce)
			}

		case <-fire:
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			w.reload(ctx, changed)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// relevant reports whether evt concerns a data file, and registers newly
// created directories.
func (w *Watcher) relevant(evt fsnotify.Event) (string, bool) {
	rel, err := filepath.Rel(w.dir, evt.Name)
	if err != nil {
		rel = evt.Name
	}
	if hidden(rel) {
		return "", false
	}
	if evt.Has(fsnotify.Create) {
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			if err := w.addTree(evt.Name); err != nil {
				w.logger.Warn("cannot watch new directory", "path", rel, "error", err)
			}
			return filepath.ToSlash(rel), true
		}
	}
	if evt.Op == fsnotify.Chmod {
		return "", false
	}
	if !slices.Contains(w.cfg.Extensions, filepath.Ext(evt.Name)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) reload(ctx context.Context, changed []string) {
	w.reloadCount.Add(1)
	res := Result{Changed: changed}
	start := time.Now()

	if err := w.target.Reload(); err != nil {
		res.Err = err
		w.logger.Error("reload failed, keeping previous data", "changed", len(changed), "error", err)
		w.notify(res)
		return
	}

	for _, inv := range w.invalidate {
		if err := inv.Invalidate(ctx); err != nil {
			w.logger.Warn("invalidate after reload", "error", err)
		}
	}

	res.Failures = w.target.CompileAll()
	for _, id := range slices.Sorted(maps.Keys(res.Failures)) {
		w.logger.Warn("format does not compile", "format", id, "error", res.Failures[id])
	}
	w.logger.Info("reloaded data",
		"changed", len(changed),
		"failures", len(res.Failures),
		"duration", time.Since(start),
	)
	w.notify(res)
}

func (w *Watcher) notify(res Result) {
	if w.onReload != nil {
		w.onReload(res)
	}
}

// addTree watches root and every non-hidden directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}

func hidden(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
