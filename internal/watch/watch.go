// Package watch re-runs an action when watched files change.
//
// It backs the CLI's watch mode: edit the bundle or its text file and the
// export is regenerated. Events are debounced because editors commonly
// produce several writes per save.
package watch

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when using a closed watcher.
var ErrClosed = errors.New("watcher closed")

// DefaultDebounce is the settle time after the last event before firing.
const DefaultDebounce = 150 * time.Millisecond

// Handler is called with the changed path after the debounce window.
type Handler func(path string)

// Watcher debounces fsnotify events for a fixed set of files.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	handler  Handler
	timer    *time.Timer
	lastPath string
	closed   bool
	done     chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher that calls handler when any of the files changes.
// Directories are watched rather than the files themselves so that
// rename-and-replace saves keep working.
func New(handler Handler, files []string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		debounce: DefaultDebounce,
		handler:  handler,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			w.mu.Lock()
			if w.files[abs] && !w.closed {
				w.lastPath = abs
				if w.timer == nil {
					w.timer = time.AfterFunc(w.debounce, w.fire)
				} else {
					w.timer.Reset(w.debounce)
				}
			}
			w.mu.Unlock()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// fire runs after the debounce window with no further events.
func (w *Watcher) fire() {
	w.mu.Lock()
	path := w.lastPath
	w.timer = nil
	closed := w.closed
	w.mu.Unlock()
	if !closed {
		w.handler(path)
	}
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.done)
	return w.fsw.Close()
}
