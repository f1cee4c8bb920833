// Package watcher wraps fsnotify with a debounced flush loop: raw events
// are coalesced per path in a pending map and emitted only once a path has
// gone quiet for the debounce duration, so an editor's save (often a
// write-rename burst) produces a single event.
package watcher

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventKind classifies a settled filesystem event. Chmod and other
// unrecognized fsnotify ops are dropped before reaching this type.
type EventKind int

const (
	Create EventKind = iota
	Modify
	Remove
)

// Event is a single settled, debounced filesystem change.
type Event struct {
	Path string
	Kind EventKind
}

// Watcher watches a set of directories and emits debounced Events on Events.
type Watcher struct {
	logger *slog.Logger
	fsw    *fsnotify.Watcher

	mu          sync.Mutex
	pending     map[string]EventKind
	lastSeen    map[string]time.Time
	debounceDur time.Duration

	Events chan Event

	closeOnce sync.Once
	done      chan struct{}
}

// New creates a Watcher. The caller must call Run to start the flush loop
// and Close to release the underlying fsnotify watcher.
func New(logger *slog.Logger, debounceDur time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounceDur <= 0 {
		debounceDur = 250 * time.Millisecond
	}
	return &Watcher{
		logger:      logger.With(slog.String("component", "watcher")),
		fsw:         fsw,
		pending:     make(map[string]EventKind),
		lastSeen:    make(map[string]time.Time),
		debounceDur: debounceDur,
		Events:      make(chan Event, 64),
		done:        make(chan struct{}),
	}, nil
}

// WatchDir registers a directory with the underlying watcher. The watcher
// may refuse (e.g. the directory does not exist yet), in which case the
// caller is expected to retry after configuration changes.
func (w *Watcher) WatchDir(path string) error {
	return w.fsw.Add(path)
}

// Run drives the fsnotify event/error channels and the debounce flush
// ticker until Close is called. It should run on its own goroutine.
func (w *Watcher) Run() {
	ticker := time.NewTicker(w.debounceDur / 2)
	defer ticker.Stop()
	defer close(w.Events)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.record(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", slog.Any("err", err))
		case <-ticker.C:
			w.flush()
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) record(ev fsnotify.Event) {
	var kind EventKind
	switch {
	case ev.Op&fsnotify.Create != 0:
		kind = Create
	case ev.Op&fsnotify.Write != 0:
		kind = Modify
	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		kind = Remove
	default:
		return
	}

	w.mu.Lock()
	w.pending[ev.Name] = kind
	w.lastSeen[ev.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	now := time.Now()
	var ready []Event
	for path, kind := range w.pending {
		if now.Sub(w.lastSeen[path]) >= w.debounceDur {
			ready = append(ready, Event{Path: path, Kind: kind})
			delete(w.pending, path)
			delete(w.lastSeen, path)
		}
	}
	w.mu.Unlock()

	for _, ev := range ready {
		select {
		case w.Events <- ev:
		case <-w.done:
			return
		}
	}
}

// Close stops the flush loop and releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() { close(w.done) })
	return w.fsw.Close()
}
