package wm

import "github.com/kraitsura/termfolio/pkg/model"

// DragState is the state of the drag controller.
type DragState int

const (
	// DragIdle means no session is open.
	DragIdle DragState = iota
	// DragDragging means a panel follows the pointer.
	DragDragging
)

// String returns a string representation of the drag state.
func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// DragSession is the transient record of one drag.
type DragSession struct {
	PanelID string
	Start   model.Point // Pointer at drag start, screen coordinates
	Initial model.Point // Panel top-left at drag start, screen coordinates
	Bounds  Bounds

	pending    model.Point
	hasPending bool
}

// DragController turns pointer motion into clamped panel translation.
// Moves are coalesced: only the latest pointer position is applied when the
// frontend calls Frame on its next display refresh.
type DragController struct {
	session *DragSession
	insets  Insets
}

// State returns the current state.
func (d *DragController) State() DragState {
	if d.session == nil {
		return DragIdle
	}
	return DragDragging
}

// Begin opens a session for p. Only the active, non-preview panel can be
// dragged, and only once the viewport has been measured.
func (d *DragController) Begin(p *Panel, pointer model.Point, vp ViewportState) bool {
	if d.session != nil || p == nil || !p.Active || p.ID == model.PreviewPanelID {
		return false
	}
	bounds, ok := ComputeBounds(p.Size, vp, d.insets)
	if !ok {
		return false
	}
	b := bounds
	p.Bounds = &b
	p.Dragging = true
	d.session = &DragSession{
		PanelID: p.ID,
		Start:   pointer,
		Initial: model.Point{X: p.Pos.X, Y: p.Pos.Y + vp.NavHeight},
		Bounds:  bounds,
	}
	return true
}

// Move records the latest pointer position. It returns true when this is
// the first move since the last frame, meaning a frame must be scheduled.
func (d *DragController) Move(pointer model.Point) bool {
	if d.session == nil {
		return false
	}
	first := !d.session.hasPending
	d.session.pending = pointer
	d.session.hasPending = true
	return first
}

// Frame applies the pending move to the panel. Frames without a pending
// move, or without a measured viewport, are skipped and leave the panel at
// its last clamped position.
func (d *DragController) Frame(reg *Registry, vp ViewportState) bool {
	s := d.session
	if s == nil || !s.hasPending {
		return false
	}
	s.hasPending = false
	if !vp.Valid {
		return false
	}
	p, ok := reg.Get(s.PanelID)
	if !ok {
		d.session = nil
		return false
	}

	delta := s.pending.Sub(s.Start)
	// Panel rows are measured from the screen top while bounds are measured
	// from the bottom of the nav bar.
	candidate := model.Point{
		X: s.Initial.X + delta.X,
		Y: s.Initial.Y + delta.Y - vp.NavHeight,
	}
	next := s.Bounds.Clamp(candidate)
	if next == p.Pos {
		return false
	}
	p.Pos = next
	return true
}

// End closes the session and drops the cached bounds.
func (d *DragController) End(reg *Registry) bool {
	if d.session == nil {
		return false
	}
	if p, ok := reg.Get(d.session.PanelID); ok {
		p.Bounds = nil
		p.Dragging = false
	}
	d.session = nil
	return true
}
