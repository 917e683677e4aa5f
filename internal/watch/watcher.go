// Package watch re-runs a handler when watched files in a directory change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce is how long a file must stay quiet before the handler runs.
const DefaultDebounce = 300 * time.Millisecond

// Handler is called with the settled paths, one call at a time. A returned
// error is logged and watching continues.
type Handler func(ctx context.Context, paths []string) error

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Runs          int
	Failures      int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// Watcher watches a set of file names inside one directory. It watches the
// directory rather than the files so atomic replacements are seen.
type Watcher struct {
	mu       sync.Mutex
	fs       *fsnotify.Watcher
	dir      string
	names    map[string]bool
	debounce time.Duration
	pending  map[string]time.Time
	running  bool
	log      *zap.Logger
	stats    Stats
}

// Option tunes a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// New starts watching dir for changes to the given base names. Events are
// buffered from this point; call Run to handle them, or Close.
func New(dir string, names []string, opts ...Option) (*Watcher, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("watch: no files to watch")
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		fs:       fs,
		dir:      dir,
		names:    make(map[string]bool, len(names)),
		debounce: DefaultDebounce,
		pending:  make(map[string]time.Time),
		log:      zap.NewNop(),
	}
	for _, n := range names {
		w.names[filepath.Base(n)] = true
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Close stops watching. Run closes the watcher itself on return.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run handles changes until ctx is cancelled. Events keep being collected
// while the handler runs; changes that settle meanwhile are batched into the
// next call.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watch: already running")
	}
	w.running = true
	w.mu.Unlock()
	defer w.fs.Close()

	w.log.Info("Watching for changes", zap.String("dir", w.dir), zap.Duration("debounce", w.debounce))

	g, ctx := errgroup.WithContext(ctx)
	fire := make(chan []string, 1)

	g.Go(func() error {
		defer close(fire)
		return w.loop(ctx, fire)
	})
	g.Go(func() error {
		for paths := range fire {
			w.log.Debug("Change settled", zap.Strings("paths", paths))
			err := handle(ctx, paths)
			w.mu.Lock()
			w.stats.Runs++
			if err != nil {
				w.stats.Failures++
			}
			w.mu.Unlock()
			if err != nil {
				w.log.Warn("Handler failed, still watching", zap.Error(err))
			}
		}
		return nil
	})

	err := g.Wait()
	w.log.Info("Stopped watching", zap.String("dir", w.dir))
	return err
}

func (w *Watcher) loop(ctx context.Context, fire chan<- []string) error {
	tick := min(w.debounce, 100*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Error("Watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			paths := w.settled()
			if len(paths) == 0 {
				continue
			}
			select {
			case fire <- paths:
			default:
				// handler busy: retry on the next tick
				w.requeue(paths)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.names[filepath.Base(event.Name)] {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.log.Debug("File event", zap.String("path", event.Name), zap.Stringer("op", event.Op))

	now := time.Now()
	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventPath = event.Name
	w.stats.LastEventTime = now
	w.pending[event.Name] = now
	w.mu.Unlock()
}

// settled removes and returns the paths quiet for at least the debounce
// window.
func (w *Watcher) settled() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	var out []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			out = append(out, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) requeue(paths []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		if _, ok := w.pending[p]; !ok {
			w.pending[p] = time.Time{}
		}
	}
}
