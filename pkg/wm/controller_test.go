package wm

import (
	"testing"

	"github.com/kraitsura/termfolio/pkg/model"
)

var testPanelSize = model.Size{W: 30, H: 8}

func newTestController(t *testing.T, w, h int, opts Options) (*Controller, *fakeScreen) {
	t.Helper()
	s := &fakeScreen{w: w, h: h, nav: 1}
	c := NewController(testDoc(), opts, s.Measure)
	for _, p := range c.Registry().Panels() {
		c.SetPanelSize(p.ID, testPanelSize)
	}
	c.SettleResize(c.Resize())
	return c, s
}

// layoutSurfaces registers panel and header rectangles the way a desktop
// frontend would.
func layoutSurfaces(c *Controller) {
	s := c.Surfaces()
	s.Reset()
	nav := c.Viewport().NavHeight
	for _, p := range c.Registry().ByRank() {
		r := model.RectAt(model.Point{X: p.Pos.X, Y: p.Pos.Y + nav}, p.Size)
		s.Register(Surface{Kind: SurfacePanel, PanelID: p.ID, Rect: r, Layer: p.Rank})
		r.Bottom = r.Top + 1
		s.Register(Surface{Kind: SurfaceHeader, PanelID: p.ID, Rect: r, Layer: p.Rank})
	}
}

func rankOf(c *Controller, id string) int {
	p, _ := c.Registry().Get(id)
	return p.Rank
}

func TestControllerInitialLayout(t *testing.T) {
	c, _ := newTestController(t, 120, 40, DefaultOptions())
	if c.Mode() != ModeDesktop {
		t.Fatalf("mode = %s, want desktop", c.Mode())
	}
	want := map[string]model.Point{
		"about": {X: 1, Y: 0},
		"work":  {X: 7, Y: 2},
		"refs":  {X: 13, Y: 4},
	}
	for id, pos := range want {
		p, _ := c.Registry().Get(id)
		if !p.Placed || p.Pos != pos {
			t.Errorf("%s placed=%v pos=%+v, want %+v", id, p.Placed, p.Pos, pos)
		}
	}
	if c.Registry().ActiveID() != "about" {
		t.Errorf("active = %q, want about", c.Registry().ActiveID())
	}
}

func TestControllerHeaderDrag(t *testing.T) {
	c, _ := newTestController(t, 120, 40, DefaultOptions())
	layoutSurfaces(c)

	c.PointerDown(model.Point{X: 2, Y: 1})
	if c.DragState() != DragDragging {
		t.Fatalf("state = %s, want dragging", c.DragState())
	}
	fx := c.PointerMove(model.Point{X: 12, Y: 6})
	if !fx.NeedFrame {
		t.Error("first move should request a frame")
	}
	if fx := c.Frame(); !fx.Changed {
		t.Error("frame should move the panel")
	}
	about, _ := c.Registry().Get("about")
	if about.Pos != (model.Point{X: 11, Y: 5}) {
		t.Errorf("pos = %+v, want {11 5}", about.Pos)
	}

	c.PointerUp(model.Point{X: 12, Y: 6})
	if c.DragState() != DragIdle || about.Bounds != nil {
		t.Error("release should end the drag")
	}
}

func TestControllerClickFocusesWithoutDrag(t *testing.T) {
	c, _ := newTestController(t, 120, 40, DefaultOptions())
	layoutSurfaces(c)

	// Header of work where about does not cover it.
	c.PointerDown(model.Point{X: 35, Y: 3})
	if c.Registry().ActiveID() != "work" {
		t.Fatalf("active = %q, want work", c.Registry().ActiveID())
	}
	if c.DragState() != DragIdle {
		t.Error("pressing the header of an inactive panel must not start a drag")
	}
	if rankOf(c, "work") != 3 || rankOf(c, "about") != 2 || rankOf(c, "refs") != 1 {
		t.Errorf("ranks about=%d work=%d refs=%d", rankOf(c, "about"), rankOf(c, "work"), rankOf(c, "refs"))
	}
}

func TestControllerFollowMarker(t *testing.T) {
	c, _ := newTestController(t, 120, 40, DefaultOptions())
	layoutSurfaces(c)
	c.Surfaces().Register(Surface{
		Kind:    SurfaceMarker,
		PanelID: "about",
		Rect:    model.Rect{Left: 3, Top: 3, Right: 7, Bottom: 4},
		Layer:   rankOf(c, "about"),
		Ref:     1,
	})

	fx := c.PointerDown(model.Point{X: 4, Y: 3})
	if c.Registry().ActiveID() != "refs" {
		t.Fatalf("active = %q, want refs", c.Registry().ActiveID())
	}
	if fx.Highlight == nil || fx.Highlight.Element != "back-ref-1" {
		t.Fatalf("highlight = %+v, want back-ref-1", fx.Highlight)
	}
	if !c.Highlighted("back-ref-1") {
		t.Error("back-ref should be highlighted")
	}

	back := c.FollowBackRef(1)
	if c.Registry().ActiveID() != "about" || back.Highlight.Element != "ref-1" {
		t.Errorf("back-ref landed on %q / %+v", c.Registry().ActiveID(), back.Highlight)
	}

	if !c.ExpireHighlight(fx.Highlight.Element, fx.Highlight.Token).Changed {
		t.Error("expiry should remove the highlight")
	}
	if c.Highlighted("back-ref-1") {
		t.Error("highlight should be gone")
	}
}

func TestControllerLinks(t *testing.T) {
	c, _ := newTestController(t, 120, 40, DefaultOptions())
	c.Surfaces().Register(Surface{Kind: SurfaceLink, PanelID: "work", Rect: model.Rect{Left: 50, Top: 20, Right: 60, Bottom: 21}, Layer: 2, Key: "https://example.com/src"})
	c.Surfaces().Register(Surface{Kind: SurfaceLink, PanelID: "work", Rect: model.Rect{Left: 50, Top: 21, Right: 60, Bottom: 22}, Layer: 2, Key: "https://example.com/demo", Preview: true})

	fx := c.PointerDown(model.Point{X: 51, Y: 20})
	if fx.OpenURL != "https://example.com/src" {
		t.Errorf("open url = %q", fx.OpenURL)
	}
	fx = c.PointerDown(model.Point{X: 51, Y: 21})
	if fx.PreviewURL != "https://example.com/demo" {
		t.Errorf("preview url = %q", fx.PreviewURL)
	}
	p, ok := c.Preview()
	if !ok || p.Source != "work" {
		t.Fatalf("preview = %+v, want source work", p)
	}
}

func TestControllerPreviewLifecycle(t *testing.T) {
	c, _ := newTestController(t, 120, 40, DefaultOptions())

	c.OpenPreview("https://example.com/a", "")
	p, ok := c.Preview()
	if !ok || p.Source != "about" {
		t.Fatalf("preview = %+v, want source about", p)
	}
	if c.Registry().ActiveID() != "" {
		t.Errorf("panels should be inactive under the preview, active = %q", c.Registry().ActiveID())
	}
	if c.Registry().NavCurrent() != "about" {
		t.Errorf("nav current = %q, want about", c.Registry().NavCurrent())
	}

	c.OpenPreview("https://example.com/b", "work")
	again, _ := c.Preview()
	if again.InstanceID != p.InstanceID || again.URL != "https://example.com/b" {
		t.Errorf("second open should redirect the same instance, got %+v", again)
	}

	fx := c.Key(ActionEscape)
	if !fx.PreviewClosed {
		t.Fatal("escape should close the preview")
	}
	if c.Registry().ActiveID() != "work" || rankOf(c, "work") != 3 {
		t.Errorf("focus should return to work, active = %q", c.Registry().ActiveID())
	}
	if fx := c.Key(ActionEscape); fx.Changed {
		t.Error("escape with nothing open should do nothing")
	}
}

func TestControllerPreviewLightDismiss(t *testing.T) {
	c, _ := newTestController(t, 120, 40, DefaultOptions())
	c.OpenPreview("https://example.com/a", "about")
	layoutSurfaces(c)
	c.Surfaces().Register(Surface{Kind: SurfaceOverlay, Rect: model.Rect{Left: 60, Top: 10, Right: 100, Bottom: 30}, Layer: PreviewRank})
	c.Surfaces().Register(Surface{Kind: SurfaceOverlayClose, Rect: model.Rect{Left: 96, Top: 10, Right: 99, Bottom: 11}, Layer: PreviewRank})

	c.PointerDown(model.Point{X: 70, Y: 20})
	if _, ok := c.Preview(); !ok {
		t.Fatal("click inside the preview should keep it open")
	}

	fx := c.PointerDown(model.Point{X: 35, Y: 3})
	if !fx.PreviewClosed {
		t.Fatal("click outside should close the preview")
	}
	if c.Registry().ActiveID() != "work" {
		t.Errorf("click should continue to the panel underneath, active = %q", c.Registry().ActiveID())
	}

	c.OpenPreview("https://example.com/a", "")
	c.PointerDown(model.Point{X: 97, Y: 10})
	if _, ok := c.Preview(); ok {
		t.Error("close button should close the preview")
	}
}

func TestControllerFocusClosesPreview(t *testing.T) {
	c, _ := newTestController(t, 120, 40, DefaultOptions())
	c.OpenPreview("https://example.com/a", "about")
	fx := c.FocusPanel("refs")
	if !fx.PreviewClosed {
		t.Error("focusing a panel should close the preview")
	}
	if c.Registry().ActiveID() != "refs" {
		t.Errorf("active = %q, want refs", c.Registry().ActiveID())
	}
}

func TestControllerKeys(t *testing.T) {
	c, _ := newTestController(t, 120, 40, DefaultOptions())

	c.Key(ActionFocusNext)
	if c.Registry().ActiveID() != "work" {
		t.Fatalf("active = %q, want work", c.Registry().ActiveID())
	}
	c.Key(ActionTabNext)
	g, _ := c.TabGroup("work")
	if g.Active() != "b" {
		t.Errorf("tab = %q, want b", g.Active())
	}
	c.Key(ActionTabPrev)
	c.Key(ActionTabPrev)
	if g.Active() != "c" {
		t.Errorf("tab = %q, want c", g.Active())
	}

	fx := c.Key(ActionOpenPreview)
	if fx.PreviewURL != "https://example.com/demo" {
		t.Errorf("preview url = %q", fx.PreviewURL)
	}
	if fx := c.Key(ActionFocusPrev); fx.Changed {
		t.Error("panel cycling should be ignored under the preview")
	}
}

func TestControllerResizeReclamps(t *testing.T) {
	c, s := newTestController(t, 120, 40, DefaultOptions())
	work, _ := c.Registry().Get("work")
	work.Pos = model.Point{X: 85, Y: 30}

	s.w, s.h = 90, 30
	stale := c.Resize()
	latest := c.Resize()
	if fx := c.SettleResize(stale); fx.Changed {
		t.Error("stale resize token should be ignored")
	}
	c.SettleResize(latest)
	if work.Pos != (model.Point{X: 60, Y: 21}) {
		t.Errorf("pos = %+v, want clamped {60 21}", work.Pos)
	}
}

func TestControllerCompactSwipe(t *testing.T) {
	c, _ := newTestController(t, 60, 40, DefaultOptions())
	if c.Mode() != ModeCompact {
		t.Fatalf("mode = %s, want compact", c.Mode())
	}
	strip := model.Rect{Left: 0, Top: 5, Right: 60, Bottom: 6}
	c.Surfaces().Register(Surface{Kind: SurfaceTabStrip, PanelID: "work", Rect: strip})
	c.Surfaces().Register(Surface{Kind: SurfaceTabButton, PanelID: "work", Rect: model.Rect{Left: 10, Top: 5, Right: 13, Bottom: 6}, Key: "c"})
	g, _ := c.TabGroup("work")

	c.PointerDown(model.Point{X: 40, Y: 5})
	c.PointerUp(model.Point{X: 30, Y: 5})
	if g.Active() != "b" {
		t.Fatalf("left swipe: tab = %q, want b", g.Active())
	}

	c.PointerDown(model.Point{X: 40, Y: 5})
	c.PointerUp(model.Point{X: 37, Y: 5})
	if g.Active() != "b" {
		t.Errorf("short swipe should be ignored, tab = %q", g.Active())
	}

	c.PointerDown(model.Point{X: 11, Y: 5})
	c.PointerUp(model.Point{X: 11, Y: 5})
	if g.Active() != "c" {
		t.Errorf("tap on button: tab = %q, want c", g.Active())
	}

	c.PointerDown(model.Point{X: 20, Y: 5})
	c.PointerUp(model.Point{X: 40, Y: 5})
	if g.Active() != "b" {
		t.Errorf("right swipe: tab = %q, want b", g.Active())
	}
}

func TestControllerCompactVisibility(t *testing.T) {
	c, _ := newTestController(t, 60, 40, DefaultOptions())
	spans := []PanelSpan{
		{ID: "about", Top: 2, Height: 10},
		{ID: "work", Top: 12, Height: 10},
		{ID: "refs", Top: 22, Height: 30},
	}

	c.UpdateVisibility(spans, 0, 40)
	if c.Registry().ActiveID() != "about" {
		t.Fatalf("active = %q, want about", c.Registry().ActiveID())
	}

	fx := c.UpdateVisibility(spans, 12, 40)
	if !fx.Changed || c.Registry().ActiveID() != "refs" {
		t.Fatalf("active = %q, want refs after scrolling", c.Registry().ActiveID())
	}
	if rankOf(c, "about") != 3 {
		t.Error("compact focus must not touch the stack")
	}

	if fx := c.UpdateVisibility(spans, 12, 40); fx.Changed {
		t.Error("panels that stay visible should not refocus")
	}
}

func TestControllerCompactNavScrolls(t *testing.T) {
	c, _ := newTestController(t, 60, 40, DefaultOptions())
	c.Surfaces().Register(Surface{Kind: SurfaceNav, Rect: model.Rect{Left: 10, Top: 0, Right: 16, Bottom: 1}, Key: "refs"})

	fx := c.PointerDown(model.Point{X: 11, Y: 0})
	if fx.ScrollTo != "refs" || c.Registry().ActiveID() != "refs" {
		t.Errorf("scroll=%q active=%q, want refs", fx.ScrollTo, c.Registry().ActiveID())
	}

	fx = c.FollowMarker(1)
	if fx.CenterOn != "back-ref-1" {
		t.Errorf("center on = %q, want back-ref-1", fx.CenterOn)
	}
}

func TestControllerCompactTapClosesPreview(t *testing.T) {
	c, _ := newTestController(t, 60, 40, DefaultOptions())
	c.OpenPreview("https://example.com/a", "about")
	c.Surfaces().Register(Surface{Kind: SurfaceOverlay, Rect: model.Rect{Left: 0, Top: 0, Right: 60, Bottom: 40}, Layer: PreviewRank})

	fx := c.PointerDown(model.Point{X: 5, Y: 5})
	if !fx.PreviewClosed || c.Registry().ActiveID() != "about" {
		t.Errorf("tap should close the preview and restore about, active = %q", c.Registry().ActiveID())
	}
}

func TestControllerModeSwitch(t *testing.T) {
	c, s := newTestController(t, 120, 40, DefaultOptions())
	layoutSurfaces(c)
	c.FocusPanel("work")
	layoutSurfaces(c)
	c.PointerDown(model.Point{X: 10, Y: 3})
	if c.DragState() != DragDragging {
		t.Fatal("expected a drag")
	}

	s.w = 60
	fx := c.SettleResize(c.Resize())
	if !fx.ModeChanged || c.Mode() != ModeCompact {
		t.Fatalf("mode = %s, want compact", c.Mode())
	}
	if c.DragState() != DragIdle {
		t.Error("mode switch should cancel the drag")
	}
	if fx.ScrollTo != "work" || c.Registry().ActiveID() != "work" {
		t.Errorf("active panel should survive and be scrolled to, got %q/%q", c.Registry().ActiveID(), fx.ScrollTo)
	}

	c.UpdateVisibility([]PanelSpan{{ID: "refs", Top: 5, Height: 10}}, 0, 40)
	if c.Registry().ActiveID() != "refs" {
		t.Fatalf("active = %q, want refs", c.Registry().ActiveID())
	}

	s.w = 120
	fx = c.SettleResize(c.Resize())
	if !fx.ModeChanged || c.Mode() != ModeDesktop {
		t.Fatalf("mode = %s, want desktop", c.Mode())
	}
	if rankOf(c, "refs") != 3 {
		t.Errorf("active panel should be raised back to the top, rank = %d", rankOf(c, "refs"))
	}
}

func TestControllerCompactStartPlacesOnDesktop(t *testing.T) {
	c, s := newTestController(t, 60, 40, DefaultOptions())
	for _, p := range c.Registry().Panels() {
		if p.Placed {
			t.Errorf("%s placed in compact mode", p.ID)
		}
	}
	s.w = 120
	c.SettleResize(c.Resize())
	for _, p := range c.Registry().Panels() {
		if !p.Placed {
			t.Errorf("%s not placed after switching to desktop", p.ID)
		}
	}
}

func TestControllerForcedMode(t *testing.T) {
	opts := DefaultOptions()
	opts.ForceMode = "compact"
	c, _ := newTestController(t, 120, 40, opts)
	if c.Mode() != ModeCompact {
		t.Errorf("mode = %s, want forced compact", c.Mode())
	}
}

func TestControllerInherit(t *testing.T) {
	prev, s := newTestController(t, 120, 40, DefaultOptions())
	prev.FocusPanel("work")
	prev.SwitchTab("work", "c")
	work, _ := prev.Registry().Get("work")
	work.Pos = model.Point{X: 40, Y: 10}

	next := NewController(testDoc(), DefaultOptions(), s.Measure)
	next.Inherit(prev)
	next.SettleResize(next.Resize())

	if next.Registry().ActiveID() != "work" {
		t.Errorf("active = %q, want work", next.Registry().ActiveID())
	}
	if g, _ := next.TabGroup("work"); g.Active() != "c" {
		t.Errorf("tab = %q, want c", g.Active())
	}
	p, _ := next.Registry().Get("work")
	if p.Pos != (model.Point{X: 40, Y: 10}) {
		t.Errorf("pos = %+v, want inherited {40 10}", p.Pos)
	}
}

func TestControllerInheritKeepsStack(t *testing.T) {
	prev, s := newTestController(t, 120, 40, DefaultOptions())
	prev.FocusPanel("refs")
	prev.FocusPanel("work")

	next := NewController(testDoc(), DefaultOptions(), s.Measure)
	next.Inherit(prev)

	want := map[string]int{"work": 3, "refs": 2, "about": 1}
	for id, rank := range want {
		p, _ := next.Registry().Get(id)
		if p.Rank != rank {
			t.Errorf("%s rank = %d, want %d", id, p.Rank, rank)
		}
	}
	if next.Registry().ActiveID() != "work" {
		t.Errorf("active = %q, want work", next.Registry().ActiveID())
	}
}

func TestControllerInheritChangedPanelsRestacks(t *testing.T) {
	prev, s := newTestController(t, 120, 40, DefaultOptions())
	prev.FocusPanel("refs")

	doc := testDoc()
	doc.Panels = append(doc.Panels, model.PanelSpec{ID: "extra", Title: "Extra"})
	next := NewController(doc, DefaultOptions(), s.Measure)
	next.Inherit(prev)

	ranks := make(map[int]string)
	for _, p := range next.Registry().Panels() {
		if other, dup := ranks[p.Rank]; dup {
			t.Errorf("%s and %s share rank %d", p.ID, other, p.Rank)
		}
		ranks[p.Rank] = p.ID
	}
	if ranks[4] != "refs" || next.Registry().ActiveID() != "refs" {
		t.Errorf("top = %q active = %q, want refs", ranks[4], next.Registry().ActiveID())
	}
}

func TestControllerSyncVisibilityKeepsFocus(t *testing.T) {
	c, _ := newTestController(t, 60, 40, DefaultOptions())
	spans := []PanelSpan{
		{ID: "about", Top: 2, Height: 10},
		{ID: "work", Top: 12, Height: 10},
		{ID: "refs", Top: 22, Height: 10},
	}
	c.FocusPanel("refs")
	c.SyncVisibility(spans, 0, 40)
	if c.Registry().ActiveID() != "refs" {
		t.Fatalf("sync must not move focus, active = %q", c.Registry().ActiveID())
	}
	if fx := c.UpdateVisibility(spans, 0, 40); fx.Changed {
		t.Error("panels already marked visible should not take focus")
	}
}
