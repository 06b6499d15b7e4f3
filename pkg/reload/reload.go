// Package reload watches configuration files and triggers a reload
// callback when they change. Events are debounced per path because
// editors and atomic-save tools emit bursts of writes and renames for a
// single logical change.
package reload

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/getstubd/stubd/pkg/logging"
)

// DefaultIncludes are the glob patterns a directory watch reacts to when
// no explicit patterns are configured.
var DefaultIncludes = []string{"*.yaml", "*.yml", "*.json"}

const defaultDebounce = 300 * time.Millisecond

// Watcher watches files and directories and invokes a callback after
// changes settle.
type Watcher struct {
	onChange func(path string)
	log      *slog.Logger
	debounce time.Duration
	includes []string

	fsw *fsnotify.Watcher

	mu     sync.Mutex
	files  map[string]bool
	timers map[string]*time.Timer
	closed bool

	done chan struct{}
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// WithDebounce sets the settle window for change bursts.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIncludes sets the glob patterns directory events are filtered by.
// Patterns use doublestar syntax and match the file name or the full
// slash-separated path.
func WithIncludes(patterns []string) Option {
	return func(w *Watcher) {
		if len(patterns) > 0 {
			w.includes = patterns
		}
	}
}

// New creates a Watcher that calls onChange with the changed path.
// Call Start to begin delivering events and Close to stop.
func New(onChange func(path string), opts ...Option) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback is required")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		onChange: onChange,
		log:      logging.Nop(),
		debounce: defaultDebounce,
		includes: DefaultIncludes,
		fsw:      fsw,
		files:    make(map[string]bool),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches a file or directory. For a file the parent directory is
// watched, since editors typically replace files by rename and the
// original inode stops emitting events.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.IsDir() {
		return w.fsw.Add(abs)
	}

	w.mu.Lock()
	w.files[abs] = true
	w.mu.Unlock()
	return w.fsw.Add(filepath.Dir(abs))
}

// Start begins delivering events in a background goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

// Close stops the watcher. Pending debounce timers are cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are never fatal; the server keeps serving
			// its current routes.
			w.log.Error("file watch error", "error", err)
		}
	}
}

// relevant reports whether an event path should trigger the callback:
// either an explicitly watched file or a directory entry matching the
// include globs.
func (w *Watcher) relevant(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	w.mu.Lock()
	explicit := w.files[abs]
	w.mu.Unlock()
	if explicit {
		return true
	}

	name := filepath.Base(abs)
	slashed := filepath.ToSlash(abs)
	for _, pattern := range w.includes {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}

// schedule arms (or re-arms) the per-path debounce timer.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}
		w.log.Info("configuration change detected", "path", path)
		w.onChange(path)
	})
}
