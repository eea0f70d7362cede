package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// eventChannelBuffer is the size of the watch event channel.
	eventChannelBuffer = 16

	// DefaultDebounce is used when no debounce delay is given.
	DefaultDebounce = 300 * time.Millisecond
)

// WatchEvent reports that the watched file changed.
type WatchEvent struct {
	Path string
	Op   fsnotify.Op
}

// Watcher watches a single ontology file and emits debounced change events.
// The parent directory is watched so that editors which save by renaming a
// temporary file over the original are still observed.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   fsnotify.Op
	dirty     bool

	lastHash string

	events        chan WatchEvent
	droppedEvents atomic.Int64
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		events:   make(chan WatchEvent, eventChannelBuffer),
	}, nil
}

// Events returns the channel of change events. It is closed when the
// watcher stops.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start begins watching. Events are processed until ctx is cancelled or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if _, err := os.Stat(w.path); err != nil {
		return fmt.Errorf("%w: %s", ErrFileNotFound, w.path)
	}
	if data, err := os.ReadFile(w.path); err == nil {
		w.lastHash = contentHash(data)
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	go w.processEvents(ctx)

	w.logger.Info("Watching ontology file",
		"path", w.path,
		"debounce", w.debounce)
	return nil
}

// Stop stops the watcher.
// The events channel is closed by processEvents when it exits.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// DroppedEvents returns the number of events dropped due to channel overflow.
func (w *Watcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.pendingMu.Lock()
	w.pending |= event.Op
	w.dirty = true
	w.pendingMu.Unlock()

	w.logger.Debug("Ontology file change detected", "op", event.Op.String())
}

func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	if !w.dirty {
		w.pendingMu.Unlock()
		return
	}
	op := w.pending
	w.pending = 0
	w.dirty = false
	w.pendingMu.Unlock()

	// A rename away leaves nothing to render until the file reappears.
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Debug("Watched file not readable", "path", w.path, "error", err)
		return
	}

	hash := contentHash(data)
	if hash == w.lastHash {
		return
	}
	w.lastHash = hash

	select {
	case w.events <- WatchEvent{Path: w.path, Op: op}:
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("Event channel full, dropping event",
			"path", w.path,
			"total_dropped", dropped)
	}
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
