package wm

import "testing"

func TestHighlightExpiry(t *testing.T) {
	h := NewHighlighter()
	tok := h.Highlight("ref-1")
	if !h.IsHighlighted("ref-1") {
		t.Fatal("expected highlight")
	}
	if !h.Expire("ref-1", tok) {
		t.Error("current token should expire the highlight")
	}
	if h.IsHighlighted("ref-1") {
		t.Error("highlight should be gone")
	}
}

func TestHighlightSupersede(t *testing.T) {
	h := NewHighlighter()
	old := h.Highlight("back-ref-2")
	cur := h.Highlight("back-ref-2")

	if h.Expire("back-ref-2", old) {
		t.Error("stale token must not remove a newer highlight")
	}
	if !h.IsHighlighted("back-ref-2") {
		t.Error("highlight removed by stale token")
	}
	if !h.Expire("back-ref-2", cur) {
		t.Error("current token should expire")
	}
}

func TestHighlightClear(t *testing.T) {
	h := NewHighlighter()
	tok := h.Highlight("ref-1")
	h.Highlight("ref-2")
	h.Clear()
	if h.IsHighlighted("ref-1") || h.IsHighlighted("ref-2") {
		t.Error("clear should drop every highlight")
	}
	if h.Expire("ref-1", tok) {
		t.Error("expiry after clear should be a no-op")
	}
}
