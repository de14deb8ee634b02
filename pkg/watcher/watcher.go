package watcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event reports that the watched document changed or that watching failed.
type Event struct {
	Path string
	Err  error
}

// Watcher turns write bursts on one file into single change events.
// The parent directory is watched because editors often replace the file
// by renaming a temporary one over it.
type Watcher struct {
	path     string
	debounce *Debouncer

	fs     *fsnotify.Watcher
	mu     sync.Mutex
	closed bool
	events chan Event
}

// New prepares a watcher for path. debounce of zero uses the default.
func New(path string, debounce time.Duration) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watcher: no document path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watcher: resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watcher: watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		debounce: NewDebouncer(debounce),
		fs:       fsw,
		events:   make(chan Event, 1),
	}, nil
}

// Events delivers debounced change notifications. It is closed by Close or
// when ctx passed to Run is done.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run forwards filesystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("Warning: watching %s: %v", w.path, err)
			w.send(Event{Path: w.path, Err: err})
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
				continue
			}
			w.debounce.Trigger(func() {
				w.send(Event{Path: w.path})
			})
		}
	}
}

// send never blocks: an undelivered change already means "reload".
func (w *Watcher) send(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.events <- ev:
	default:
	}
}

// Close stops watching and closes the event channel.
func (w *Watcher) Close() error {
	w.debounce.Cancel()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	close(w.events)
	return w.fs.Close()
}
