// Package watch reports changes to generated HTML files so they can be
// post-processed again.
//
// Writes made by the post-processor itself are recognized by content hash and
// never reported, so a rewrite does not trigger another rewrite.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before pending changes are reported.
const DefaultDebounce = 500 * time.Millisecond

const eventChannelBuffer = 256

// ErrWatchLimit is returned when the OS refuses more watches.
var ErrWatchLimit = errors.New("file watch limit reached")

// Op is the kind of change reported for a path.
type Op string

// OpWrite and OpRemove enumerate reported changes.
const (
	OpWrite  Op = "write"
	OpRemove Op = "remove"
)

// Event is a debounced change to a watched file.
type Event struct {
	Path string
	Op   Op
}

// Config configures a Watcher.
type Config struct {
	Debounce   time.Duration // 0 = DefaultDebounce
	Extensions []string      // Extensions matched in watched directories; empty = .html, .htm
	Logger     *slog.Logger  // nil = slog.Default()
}

// Watcher watches files, directory trees and glob patterns.
type Watcher struct {
	fsw        *fsnotify.Watcher
	logger     *slog.Logger
	debounce   time.Duration
	extensions map[string]bool

	mu       sync.RWMutex
	files    map[string]bool
	roots    []string
	patterns []string

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.RWMutex
	hashes map[string]uint64

	events  chan Event
	dropped atomic.Int64
}

// New creates a Watcher. Call Start to begin delivering events and Close to
// release it.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", wrapLimit(err))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = []string{".html", ".htm"}
	}
	extensions := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = true
	}

	return &Watcher{
		fsw:        fsw,
		logger:     logger,
		debounce:   debounce,
		extensions: extensions,
		files:      make(map[string]bool),
		pending:    make(map[string]fsnotify.Op),
		hashes:     make(map[string]uint64),
		events:     make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the channel of debounced events. It is closed when the
// watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// AddFile watches a single file through its parent directory.
func (w *Watcher) AddFile(path string) error {
	path = filepath.Clean(path)
	if err := w.addDir(filepath.Dir(path)); err != nil {
		return err
	}

	w.mu.Lock()
	w.files[path] = true
	w.mu.Unlock()
	return nil
}

// AddDir watches dir and its subdirectories for files with a watched
// extension. Hidden directories are skipped.
func (w *Watcher) AddDir(dir string) error {
	dir = filepath.Clean(dir)
	if err := w.addTree(dir); err != nil {
		return err
	}

	w.mu.Lock()
	w.roots = append(w.roots, dir)
	w.mu.Unlock()
	return nil
}

// AddGlob watches files matching a doublestar pattern such as
// "docs/**/*.html", including files created after the call.
func (w *Watcher) AddGlob(pattern string) error {
	pattern = filepath.Clean(pattern)
	if !doublestar.ValidatePathPattern(pattern) {
		return fmt.Errorf("%w: %s", doublestar.ErrBadPattern, pattern)
	}

	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	if err := w.addTree(filepath.FromSlash(base)); err != nil {
		return err
	}

	w.mu.Lock()
	w.patterns = append(w.patterns, pattern)
	w.mu.Unlock()
	return nil
}

// Start delivers events until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.processEvents(ctx)
}

// Close stops the watcher.
// The events channel is closed by the event loop when it exits.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Record stores the hash of content written to path, so the change it causes
// is not reported.
func (w *Watcher) Record(path string, content []byte) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[filepath.Clean(path)] = xxhash.Sum64(content)
}

// Forget drops the recorded hash of path.
func (w *Watcher) Forget(path string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	delete(w.hashes, filepath.Clean(path))
}

// Unchanged reports whether content matches the last recorded hash of path.
func (w *Watcher) Unchanged(path string, content []byte) bool {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	h, ok := w.hashes[filepath.Clean(path)]
	return ok && h == xxhash.Sum64(content)
}

// DroppedEvents returns the number of events dropped due to channel overflow.
func (w *Watcher) DroppedEvents() int64 {
	return w.dropped.Load()
}

func (w *Watcher) addDir(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, wrapLimit(err))
	}
	w.logger.Debug("watching directory", "path", dir)
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(path) {
			return filepath.SkipDir
		}
		return w.addDir(path)
	})
}

// matches reports whether path is a watched file.
func (w *Watcher) matches(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.files[path] {
		return true
	}
	for _, pattern := range w.patterns {
		if ok, _ := doublestar.PathMatch(pattern, path); ok {
			return true
		}
	}
	if !w.extensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	for _, root := range w.roots {
		if within(root, path) {
			return true
		}
	}
	return false
}

// recursive reports whether new directories under dir should be watched.
func (w *Watcher) recursive(dir string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, root := range w.roots {
		if within(root, dir) {
			return true
		}
	}
	for _, pattern := range w.patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		if within(filepath.FromSlash(base), dir) {
			return true
		}
	}
	return false
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent records a raw event for the next flush.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.handleNewDirectory(path)
			return
		}
	}
	if !w.matches(path) {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("change detected", "path", path, "op", event.Op.String())
}

func (w *Watcher) handleNewDirectory(path string) {
	if isHidden(path) || !w.recursive(filepath.Dir(path)) {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("failed to watch new directory", "path", path, "error", err)
	}
}

// flushPending reports accumulated changes whose content differs from the
// recorded hash.
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path := range toProcess {
		if ctx.Err() != nil {
			return
		}

		content, err := os.ReadFile(path) // #nosec G304 -- watched path
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				w.Forget(path)
				w.sendEvent(Event{Path: path, Op: OpRemove})
				continue
			}
			w.logger.Warn("failed to read changed file", "path", path, "error", err)
			continue
		}

		if w.Unchanged(path, content) {
			w.logger.Debug("content unchanged, skipping", "path", path)
			continue
		}
		w.Record(path, content)
		w.sendEvent(Event{Path: path, Op: OpWrite})
	}
}

func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
	default:
		dropped := w.dropped.Add(1)
		w.logger.Warn("event channel full, dropping event",
			"path", event.Path,
			"total_dropped", dropped)
	}
}

// wrapLimit marks inotify exhaustion with ErrWatchLimit.
func wrapLimit(err error) error {
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EMFILE) {
		return fmt.Errorf("%w: %v", ErrWatchLimit, err)
	}
	return err
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// within reports whether path is root or lies below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
