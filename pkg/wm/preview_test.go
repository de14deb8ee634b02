package wm

import (
	"fmt"
	"testing"
)

func newTestOverlay() *PreviewOverlay {
	n := 0
	return &PreviewOverlay{newID: func() string {
		n++
		return fmt.Sprintf("preview-%d", n)
	}}
}

func TestPreviewSingleInstance(t *testing.T) {
	o := newTestOverlay()
	p, created := o.Open("https://a.example", "work")
	if !created || p.InstanceID != "preview-1" {
		t.Fatalf("first open: created=%v id=%s", created, p.InstanceID)
	}

	q, created := o.Open("https://b.example", "")
	if created {
		t.Error("second open should reuse the instance")
	}
	if q != p || q.URL != "https://b.example" {
		t.Errorf("reused preview = %+v", q)
	}
	if q.Source != "work" {
		t.Errorf("source = %q, want work kept from first open", q.Source)
	}

	o.Open("https://c.example", "preview")
	if p.Source != "work" {
		t.Errorf("preview itself must never become the source, got %q", p.Source)
	}
	o.Open("https://d.example", "about")
	if p.Source != "about" {
		t.Errorf("source = %q, want about", p.Source)
	}
}

func TestPreviewCloseDestroys(t *testing.T) {
	o := newTestOverlay()
	o.Open("https://a.example", "work")
	closed := o.Close()
	if closed == nil || closed.Source != "work" {
		t.Fatalf("close returned %+v", closed)
	}
	if o.IsOpen() {
		t.Error("overlay still open")
	}
	if o.Close() != nil {
		t.Error("second close should return nil")
	}

	p, created := o.Open("https://a.example", "about")
	if !created || p.InstanceID != "preview-2" {
		t.Errorf("reopen should create a fresh instance, got %+v", p)
	}
}

func TestPreviewDefaultIDs(t *testing.T) {
	o := NewPreviewOverlay()
	a, _ := o.Open("x", "")
	o.Close()
	b, _ := o.Open("x", "")
	if a.InstanceID == "" || a.InstanceID == b.InstanceID {
		t.Errorf("instance ids should be unique: %q %q", a.InstanceID, b.InstanceID)
	}
}
