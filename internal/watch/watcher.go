// Package watch rebuilds the classpath whenever one of the configured jar
// directories changes.
package watch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"jarpath/internal/classpath"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Builder is the part of classpath.Builder the watcher needs.
type Builder interface {
	Build(ctx context.Context) (*classpath.Classpath, error)
}

// Event is emitted once per build whose output differs from the previous
// one, and once per failed build.
type Event struct {
	ID        string // short build id, also logged
	Trigger   string // path that caused the rebuild, "" for the initial build
	Classpath *classpath.Classpath
	Err       error
}

// Options configures a Watcher.
type Options struct {
	// Suffix marks jar entries. Writes to other files are ignored.
	Suffix string
	// Debounce is how long the directories must stay quiet before a rebuild.
	Debounce time.Duration
}

// Stats tracks watcher activity.
type Stats struct {
	FilesCreated  int
	FilesRemoved  int
	Rebuilds      int
	Unchanged     int
	Failures      int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
	LastEventType string
}

// Watcher watches jar directories with fsnotify.
type Watcher struct {
	mu       sync.RWMutex
	builder  Builder
	dirs     []string
	suffix   string
	debounce time.Duration
	logger   *zap.Logger
	stats    Stats

	// pending is the last relevant path seen since the previous rebuild.
	pending     string
	lastEventAt time.Time
	lastOutput  string
}

// New creates a Watcher over dirs (full OS paths). A nil logger discards
// diagnostics.
func New(builder Builder, dirs []string, opts Options, logger *zap.Logger) *Watcher {
	if opts.Suffix == "" {
		opts.Suffix = classpath.DefaultSuffix
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		builder:  builder,
		dirs:     append([]string(nil), dirs...),
		suffix:   opts.Suffix,
		debounce: opts.Debounce,
		logger:   logger,
	}
}

// Run builds once, then rebuilds after every settled burst of changes until
// ctx is cancelled. The directories are watched before the first build so no
// change after that build is missed. A failed initial build is returned; later
// failures are logged and emitted as events. Run closes the fsnotify watcher
// before it returns.
func (w *Watcher) Run(ctx context.Context, out chan<- Event) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if err := fsw.Close(); err != nil {
			w.logger.Warn("error closing watcher", zap.Error(err))
		}
	}()

	// A directory that cannot be watched usually fails the build too, and the
	// build's DirError names it better.
	var addErr error
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			if addErr == nil {
				addErr = fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			continue
		}
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}

	initial := w.build(ctx, "")
	if initial.Err != nil {
		return initial.Err
	}
	if addErr != nil {
		return addErr
	}

	if !send(ctx, out, initial) {
		return nil
	}

	tick := w.debounce / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	debounceTicker := time.NewTicker(tick)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("context cancelled")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			trigger, ready := w.settled(time.Now())
			if !ready {
				continue
			}
			ev := w.build(ctx, trigger)
			// A removed directory drops its inotify watch; re-adding is a
			// no-op for directories still watched.
			w.rewatch(fsw)
			if ev.Err == nil && ev.Classpath == nil {
				continue
			}
			if !send(ctx, out, ev) {
				return nil
			}
		}
	}
}

// handleEvent records a relevant filesystem event for the debounce loop.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	var eventType string
	switch {
	case event.Has(fsnotify.Create):
		eventType = "create"
	case event.Has(fsnotify.Remove):
		eventType = "remove"
	case event.Has(fsnotify.Rename):
		eventType = "rename"
	case event.Has(fsnotify.Write) && strings.HasSuffix(event.Name, w.suffix):
		eventType = "write"
	default:
		return
	}

	w.logger.Debug("filesystem event", zap.String("op", eventType), zap.String("path", event.Name))

	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	w.stats.LastEventTime = now
	w.stats.LastEventPath = event.Name
	w.stats.LastEventType = eventType
	switch eventType {
	case "create":
		w.stats.FilesCreated++
	case "remove", "rename":
		w.stats.FilesRemoved++
	}
	w.pending = event.Name
	w.lastEventAt = now
}

// settled reports whether a pending change has been quiet for the debounce
// window, clearing it if so.
func (w *Watcher) settled(now time.Time) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.lastEventAt.IsZero() || now.Sub(w.lastEventAt) < w.debounce {
		return "", false
	}
	trigger := w.pending
	w.pending = ""
	w.lastEventAt = time.Time{}
	return trigger, true
}

// build runs one build. The returned event has a nil Classpath and nil Err
// when the output is unchanged since the last successful build.
func (w *Watcher) build(ctx context.Context, trigger string) Event {
	id := uuid.NewString()[:8]
	log := w.logger.With(zap.String("build_id", id))
	if trigger != "" {
		log = log.With(zap.String("trigger", trigger))
	}

	cp, err := w.builder.Build(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.Rebuilds++

	if err != nil {
		w.stats.Failures++
		w.lastOutput = ""
		log.Error("classpath build failed", zap.Error(err))
		return Event{ID: id, Trigger: trigger, Err: err}
	}

	text := cp.String()
	if trigger != "" && text == w.lastOutput {
		w.stats.Unchanged++
		log.Debug("classpath unchanged")
		return Event{ID: id, Trigger: trigger}
	}
	w.lastOutput = text

	log.Info("classpath built", zap.Int("jars", len(cp.Entries)))
	return Event{ID: id, Trigger: trigger, Classpath: cp}
}

func (w *Watcher) rewatch(fsw *fsnotify.Watcher) {
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			w.logger.Debug("cannot watch directory", zap.String("dir", dir), zap.Error(err))
		}
	}
}

// GetStats returns the current watcher statistics.
func (w *Watcher) GetStats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
