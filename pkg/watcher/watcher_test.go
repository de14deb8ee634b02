package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls, last atomic.Int32
	for i := 1; i <= 5; i++ {
		d.Trigger(func() {
			calls.Add(1)
			last.Store(int32(i))
		})
	}

	time.Sleep(150 * time.Millisecond)
	if calls.Load() != 1 {
		t.Errorf("callback ran %d times, want 1", calls.Load())
	}
	if last.Load() != 5 {
		t.Errorf("ran callback %d, want the last one", last.Load())
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Cancel()
	time.Sleep(80 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("cancelled callback ran %d times", calls.Load())
	}
}

func TestDebouncerDefaultDuration(t *testing.T) {
	if got := NewDebouncer(0).duration; got != DefaultDebounceDuration {
		t.Errorf("duration = %v", got)
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yml")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	other := filepath.Join(dir, "other.yml")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte{byte('b' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case ev := <-w.Events():
		if ev.Err != nil || ev.Path != path {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change event")
	}

	cancel()
	select {
	case _, ok := <-w.Events():
		for ok {
			_, ok = <-w.Events()
		}
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed after cancel")
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New("", 0); err == nil {
		t.Error("expected an error")
	}
}
