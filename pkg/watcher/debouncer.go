// Package watcher reloads the document when it changes on disk.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is how long the document has to stay quiet
// before a reload is delivered. Editors write a file in several steps.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer runs the most recently triggered callback once no trigger has
// arrived for the configured duration.
type Debouncer struct {
	duration time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending func()
}

// NewDebouncer creates a Debouncer. Zero means DefaultDebounceDuration.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration <= 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{duration: duration}
}

// Trigger replaces the pending callback and restarts the quiet period.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	d.pending = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() { d.fire(gen) })
}

// fire runs the pending callback if gen is still the latest trigger. A timer
// that fired while Stop was racing it sees a newer generation and returns.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	cb := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	cb()
}

// Cancel drops the pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Debouncer) stopLocked() {
	d.gen++
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
