package wm

import "github.com/kraitsura/termfolio/pkg/model"

// ViewportState is the measured geometry of the panel container.
type ViewportState struct {
	Container model.Rect // Screen coordinates
	NavHeight int
	Screen    model.Size
	Valid     bool
}

// MeasureFunc reports the current container geometry. ok is false when the
// container is absent; the tracker then keeps its previous state.
type MeasureFunc func() (container model.Rect, navHeight int, screen model.Size, ok bool)

// Tracker owns the ViewportState. Every other component reads it.
type Tracker struct {
	measure MeasureFunc
	state   ViewportState
	seq     uint64
}

// NewTracker creates a tracker that measures through fn.
func NewTracker(fn MeasureFunc) *Tracker {
	return &Tracker{measure: fn}
}

// State returns the last measured geometry.
func (t *Tracker) State() ViewportState {
	return t.state
}

// Refresh re-measures the container. It returns true if the state changed.
func (t *Tracker) Refresh() bool {
	if t.measure == nil {
		return false
	}
	container, nav, screen, ok := t.measure()
	if !ok {
		return false
	}
	next := ViewportState{Container: container, NavHeight: nav, Screen: screen, Valid: true}
	if next == t.state {
		return false
	}
	t.state = next
	return true
}

// ScheduleRefresh records a resize and returns the token that has to be
// settled once the quiet period elapses. Older tokens become stale.
func (t *Tracker) ScheduleRefresh() uint64 {
	t.seq++
	return t.seq
}

// Settle refreshes only when token is the most recent one, so a burst of
// resizes collapses into a single trailing refresh.
func (t *Tracker) Settle(token uint64) bool {
	if token != t.seq {
		return false
	}
	return t.Refresh()
}
