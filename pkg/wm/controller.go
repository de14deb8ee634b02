package wm

import "github.com/kraitsura/termfolio/pkg/model"

// Options tunes the behavior sets.
type Options struct {
	CompactBreakpoint   int     // Screens narrower than this use compact mode
	ForceMode           string  // "desktop" or "compact" skips the width decision
	SwipeThreshold      int     // Minimum horizontal swipe, in cells
	VisibilityThreshold float64 // Share of a panel that must be visible to focus it
	VisibilityMargin    float64 // Share of the viewport ignored at top and bottom
	Insets              Insets
	CascadeStep         model.Point // Offset between initially placed panels
}

// DefaultOptions returns the default behavior tuning.
func DefaultOptions() Options {
	return Options{
		CompactBreakpoint:   80,
		SwipeThreshold:      6,
		VisibilityThreshold: 0.93,
		VisibilityMargin:    0.05,
		CascadeStep:         model.Point{X: 6, Y: 2},
	}
}

// HighlightTimer asks the frontend to call ExpireHighlight with Token once
// the highlight duration has elapsed.
type HighlightTimer struct {
	Element string
	Token   uint64
}

// Effects tells the frontend what changed and what it has to schedule.
type Effects struct {
	Changed       bool
	NeedFrame     bool            // Call Frame on the next display refresh
	Highlight     *HighlightTimer // Schedule the expiry of a highlight
	ScrollTo      string          // Compact: bring this panel into view
	CenterOn      string          // Compact: center this element once scrolling settled
	OpenURL       string          // A plain link was followed
	PreviewURL    string          // The preview overlay now shows this URL
	Tooltip       uint64          // Schedule ExpireTooltip with this token
	PreviewClosed bool
	ModeChanged   bool
}

func (e *Effects) add(o Effects) {
	e.Changed = e.Changed || o.Changed
	e.NeedFrame = e.NeedFrame || o.NeedFrame
	e.PreviewClosed = e.PreviewClosed || o.PreviewClosed
	e.ModeChanged = e.ModeChanged || o.ModeChanged
	if o.Highlight != nil {
		e.Highlight = o.Highlight
	}
	if o.Tooltip != 0 {
		e.Tooltip = o.Tooltip
	}
	if o.ScrollTo != "" {
		e.ScrollTo = o.ScrollTo
	}
	if o.CenterOn != "" {
		e.CenterOn = o.CenterOn
	}
	if o.OpenURL != "" {
		e.OpenURL = o.OpenURL
	}
	if o.PreviewURL != "" {
		e.PreviewURL = o.PreviewURL
	}
}

// Action is a keyboard command understood by the controller.
type Action int

const (
	ActionTabPrev Action = iota
	ActionTabNext
	ActionFocusNext
	ActionFocusPrev
	ActionOpenPreview
	ActionEscape
)

// PanelSpan is the vertical extent of a panel in the compact column,
// measured in content rows.
type PanelSpan struct {
	ID     string
	Top    int
	Height int
}

type swipe struct {
	panelID string
	start   model.Point
	tab     string // Tab button under the press, if any
}

// Controller owns all interaction state for one screen. Every handler
// leaves the state consistent before returning.
type Controller struct {
	opts     Options
	doc      *model.Document
	mode     Mode
	forced   bool
	measured bool

	tracker  *Tracker
	registry *Registry
	drag     DragController
	tabs     map[string]*TabGroup
	xref     *Navigator
	hl       *Highlighter
	preview  *PreviewOverlay
	surfaces Surfaces
	swipe    *swipe
	tip      *Tooltip
	tipSeq   uint64
	visible  map[string]bool
	warnings []string
}

// NewController registers every panel of doc. The mode is decided at the
// first settled resize unless opts forces one.
func NewController(doc *model.Document, opts Options, measure MeasureFunc) *Controller {
	if doc == nil {
		doc = &model.Document{}
	}
	c := &Controller{
		opts:     opts,
		doc:      doc,
		tracker:  NewTracker(measure),
		registry: NewRegistry(),
		tabs:     make(map[string]*TabGroup),
		hl:       NewHighlighter(),
		preview:  NewPreviewOverlay(),
		visible:  make(map[string]bool),
	}
	c.drag.insets = opts.Insets
	if m, ok := ParseMode(opts.ForceMode); ok {
		c.mode = m
		c.forced = true
	}

	for _, p := range doc.Panels {
		if c.registry.Register(p.ID, p.Nav != "") == nil {
			continue
		}
		if len(p.Tabs) > 0 {
			names := make([]string, len(p.Tabs))
			for i, t := range p.Tabs {
				names[i] = t.Name
			}
			c.tabs[p.ID] = NewTabGroup(p.ID, names)
		}
	}
	c.xref, c.warnings = NewNavigator(doc)
	return c
}

// Document returns the loaded document.
func (c *Controller) Document() *model.Document { return c.doc }

// Options returns the behavior tuning.
func (c *Controller) Options() Options { return c.opts }

// Mode returns the current behavior set.
func (c *Controller) Mode() Mode { return c.mode }

// Viewport returns the last measured geometry.
func (c *Controller) Viewport() ViewportState { return c.tracker.State() }

// Registry exposes the panel stack for rendering.
func (c *Controller) Registry() *Registry { return c.registry }

// Surfaces exposes the surface registry so the frontend can rebuild it.
func (c *Controller) Surfaces() *Surfaces { return &c.surfaces }

// Navigator exposes the cross-reference mapping.
func (c *Controller) Navigator() *Navigator { return c.xref }

// Warnings returns problems found while linking citations.
func (c *Controller) Warnings() []string { return c.warnings }

// DragState returns the drag controller state.
func (c *Controller) DragState() DragState { return c.drag.State() }

// Preview returns the open preview overlay.
func (c *Controller) Preview() (*Preview, bool) { return c.preview.Current() }

// Highlighted reports whether an element carries a highlight.
func (c *Controller) Highlighted(el string) bool { return c.hl.IsHighlighted(el) }

// TabGroup returns the tab group of a panel.
func (c *Controller) TabGroup(panelID string) (*TabGroup, bool) {
	g, ok := c.tabs[panelID]
	return g, ok
}

// Resize records a screen size change and returns the token to settle once
// the resize has been quiet for the debounce period.
func (c *Controller) Resize() uint64 {
	return c.tracker.ScheduleRefresh()
}

// SettleResize refreshes the viewport if token is the latest resize, then
// re-evaluates the mode and keeps desktop panels inside the container.
func (c *Controller) SettleResize(token uint64) Effects {
	var fx Effects
	if !c.tracker.Settle(token) {
		return fx
	}
	fx.Changed = true
	c.tip = nil
	next := c.mode
	if !c.forced {
		next = DecideMode(c.tracker.State().Screen.W, c.opts.CompactBreakpoint)
	}
	if next != c.mode || !c.measured {
		fx.add(c.setMode(next))
	}
	c.measured = true
	if c.mode == ModeDesktop {
		c.Place(false)
		c.reclamp()
	}
	return fx
}

// setMode swaps the behavior set. Transient interaction state belonging to
// the old set is torn down; the active panel survives.
func (c *Controller) setMode(m Mode) Effects {
	fx := Effects{Changed: true, ModeChanged: m != c.mode}
	c.mode = m
	c.drag.End(c.registry)
	c.swipe = nil
	c.tip = nil
	c.visible = make(map[string]bool)

	active := c.registry.ActiveID()
	switch m {
	case ModeDesktop:
		if active != "" {
			// Compact focus never touched ranks; raise the active panel again.
			c.registry.DeactivateAll()
			c.registry.Focus(active)
		}
	case ModeCompact:
		if active != "" {
			fx.ScrollTo = active
		}
	}
	return fx
}

// Place cascades panels that have not been placed yet (all panels when
// force is set) from the container's top-left corner and clamps them into
// their bounds.
func (c *Controller) Place(force bool) {
	vp := c.tracker.State()
	if !vp.Valid {
		return
	}
	step := c.opts.CascadeStep
	origin := model.Point{X: vp.Container.Left, Y: vp.Container.Top - vp.NavHeight}
	for i, p := range c.registry.Panels() {
		if p.Placed && !force {
			continue
		}
		b, _ := ComputeBounds(p.Size, vp, c.opts.Insets)
		p.Pos = b.Clamp(origin.Add(model.Point{X: 1 + i*step.X, Y: i * step.Y}))
		p.Placed = true
	}
}

func (c *Controller) reclamp() {
	vp := c.tracker.State()
	for _, p := range c.registry.Panels() {
		if !p.Placed || p.Dragging {
			continue
		}
		if b, ok := ComputeBounds(p.Size, vp, c.opts.Insets); ok {
			p.Pos = b.Clamp(p.Pos)
		}
	}
}

// SetPanelSize records the rendered size of a panel. Placed panels are
// clamped again unless they are being dragged, which keeps the bounds
// cached for the rest of the drag.
func (c *Controller) SetPanelSize(id string, size model.Size) bool {
	p, ok := c.registry.Get(id)
	if !ok || p.Size == size {
		return false
	}
	p.Size = size
	if c.mode == ModeDesktop && p.Placed && !p.Dragging {
		if b, ok := ComputeBounds(size, c.tracker.State(), c.opts.Insets); ok {
			p.Pos = b.Clamp(p.Pos)
		}
	}
	return true
}

// FocusPanel makes id the active panel. An open preview is dismissed first.
// In compact mode the panel is also scrolled into view.
func (c *Controller) FocusPanel(id string) Effects {
	var fx Effects
	if _, ok := c.registry.Get(id); !ok {
		return fx
	}
	if c.preview.IsOpen() {
		fx.add(c.ClosePreview())
	}
	switch c.mode {
	case ModeCompact:
		if c.registry.Activate(id) {
			fx.Changed = true
		}
		fx.ScrollTo = id
	default:
		if c.registry.Focus(id) {
			fx.Changed = true
		}
	}
	return fx
}

// PointerDown handles a mouse press or single touch at screen point pt.
// Any press closes an open tooltip before it is dispatched.
func (c *Controller) PointerDown(pt model.Point) Effects {
	fx := c.DismissTooltip()
	if c.preview.IsOpen() {
		sf, hit := c.surfaces.HitTest(pt)
		onOverlay := hit && sf.Layer >= PreviewRank
		switch {
		case hit && sf.Kind == SurfaceOverlayClose, c.mode == ModeCompact:
			fx.add(c.ClosePreview())
			return fx
		case onOverlay:
			return fx
		default:
			// Light dismiss: the click still reaches what lies underneath.
			fx.add(c.ClosePreview())
		}
	}

	sf, ok := c.surfaces.HitTest(pt)
	if !ok {
		return fx
	}
	switch sf.Kind {
	case SurfaceNav:
		fx.add(c.FocusPanel(sf.Key))
		return fx
	case SurfaceOverlay, SurfaceOverlayClose:
		return fx
	}

	if c.mode == ModeCompact {
		fx.add(c.compactPress(sf, pt))
		return fx
	}

	if sf.Kind == SurfaceHeader {
		if p, ok := c.registry.Get(sf.PanelID); ok && p.Active {
			if c.drag.Begin(p, pt, c.tracker.State()) {
				fx.Changed = true
			}
			return fx
		}
	}
	fx.add(c.FocusPanel(sf.PanelID))
	fx.add(c.activate(sf, pt))
	return fx
}

func (c *Controller) compactPress(sf Surface, pt model.Point) Effects {
	switch sf.Kind {
	case SurfaceTabStrip:
		c.swipe = &swipe{panelID: sf.PanelID, start: pt}
	case SurfaceTabButton:
		c.swipe = &swipe{panelID: sf.PanelID, start: pt, tab: sf.Key}
	case SurfaceMarker, SurfaceBackRef, SurfaceLink, SurfaceAbbr:
		return c.activate(sf, pt)
	}
	return Effects{}
}

// activate runs the behavior of an inner surface after its panel has been
// focused.
func (c *Controller) activate(sf Surface, pt model.Point) Effects {
	switch sf.Kind {
	case SurfaceAbbr:
		return c.showTooltip(sf, pt)
	case SurfaceTabButton:
		return c.SwitchTab(sf.PanelID, sf.Key)
	case SurfaceMarker:
		return c.FollowMarker(sf.Ref)
	case SurfaceBackRef:
		return c.FollowBackRef(sf.Ref)
	case SurfaceLink:
		if sf.Preview {
			return c.OpenPreview(sf.Key, sf.PanelID)
		}
		return Effects{OpenURL: sf.Key}
	}
	return Effects{}
}

// PointerMove handles pointer motion.
func (c *Controller) PointerMove(pt model.Point) Effects {
	if c.drag.State() != DragDragging {
		return Effects{}
	}
	return Effects{NeedFrame: c.drag.Move(pt)}
}

// PointerUp handles a release. It ends a drag, or in compact mode turns the
// press into a swipe or a tap on a tab button.
func (c *Controller) PointerUp(pt model.Point) Effects {
	var fx Effects
	if c.drag.End(c.registry) {
		fx.Changed = true
	}
	if s := c.swipe; s != nil {
		c.swipe = nil
		if dir := SwipeDirection(pt.X-s.start.X, c.opts.SwipeThreshold); dir != 0 {
			fx.add(c.CycleTab(s.panelID, dir))
		} else if s.tab != "" {
			fx.add(c.SwitchTab(s.panelID, s.tab))
		}
	}
	return fx
}

// PointerLost ends any drag or swipe when the pointer leaves the screen.
func (c *Controller) PointerLost() Effects {
	c.swipe = nil
	return Effects{Changed: c.drag.End(c.registry)}
}

// Frame applies the coalesced drag motion.
func (c *Controller) Frame() Effects {
	return Effects{Changed: c.drag.Frame(c.registry, c.tracker.State())}
}

// Key handles a keyboard command.
func (c *Controller) Key(a Action) Effects {
	switch a {
	case ActionTabPrev, ActionTabNext:
		p, ok := c.registry.Active()
		if !ok {
			return Effects{}
		}
		dir := 1
		if a == ActionTabPrev {
			dir = -1
		}
		return c.CycleTab(p.ID, dir)
	case ActionFocusNext, ActionFocusPrev:
		if c.preview.IsOpen() {
			return Effects{}
		}
		dir := 1
		if a == ActionFocusPrev {
			dir = -1
		}
		if id, ok := c.registry.Neighbor(dir); ok {
			return c.FocusPanel(id)
		}
	case ActionOpenPreview:
		p, ok := c.registry.Active()
		if !ok {
			return Effects{}
		}
		spec, ok := c.doc.Panel(p.ID)
		if !ok {
			return Effects{}
		}
		for _, l := range spec.Links {
			if l.Preview {
				return c.OpenPreview(l.URL, p.ID)
			}
		}
	case ActionEscape:
		if c.drag.End(c.registry) {
			return Effects{Changed: true}
		}
		if fx := c.DismissTooltip(); fx.Changed {
			return fx
		}
		return c.ClosePreview()
	}
	return Effects{}
}

// SwitchTab activates a tab of a panel's group.
func (c *Controller) SwitchTab(panelID, name string) Effects {
	g, ok := c.tabs[panelID]
	if !ok {
		return Effects{}
	}
	return Effects{Changed: g.Switch(name)}
}

// CycleTab moves a panel's group dir tabs, wrapping around.
func (c *Controller) CycleTab(panelID string, dir int) Effects {
	g, ok := c.tabs[panelID]
	if !ok {
		return Effects{}
	}
	return Effects{Changed: g.Cycle(dir)}
}

// FollowMarker jumps from inline citation k to its references entry.
func (c *Controller) FollowMarker(k int) Effects {
	t, ok := c.xref.MarkerTarget(k)
	if !ok {
		return Effects{}
	}
	return c.focusAndHighlight(t)
}

// FollowBackRef jumps from references entry k back to the citing panel.
func (c *Controller) FollowBackRef(k int) Effects {
	t, ok := c.xref.BackRefTarget(k)
	if !ok {
		return Effects{}
	}
	return c.focusAndHighlight(t)
}

func (c *Controller) focusAndHighlight(t Target) Effects {
	if _, ok := c.registry.Get(t.PanelID); !ok {
		return Effects{}
	}
	fx := c.FocusPanel(t.PanelID)
	if t.Element == "" {
		return fx
	}
	token := c.hl.Highlight(t.Element)
	fx.Changed = true
	fx.Highlight = &HighlightTimer{Element: t.Element, Token: token}
	if c.mode == ModeCompact {
		fx.CenterOn = t.Element
	}
	return fx
}

// ExpireHighlight removes a highlight if token is still current.
func (c *Controller) ExpireHighlight(el string, token uint64) Effects {
	return Effects{Changed: c.hl.Expire(el, token)}
}

// OpenPreview shows url in the preview overlay. source is the panel to
// return to; empty means the active panel.
func (c *Controller) OpenPreview(url, source string) Effects {
	if url == "" {
		return Effects{}
	}
	c.drag.End(c.registry)
	if source == "" {
		source = c.registry.ActiveID()
	}
	c.preview.Open(url, source)
	c.registry.DeactivateAll()
	return Effects{Changed: true, PreviewURL: url}
}

// ClosePreview destroys the overlay and gives focus back to the panel that
// opened it.
func (c *Controller) ClosePreview() Effects {
	p := c.preview.Close()
	if p == nil {
		return Effects{}
	}
	fx := Effects{Changed: true, PreviewClosed: true}
	src := p.Source
	if _, ok := c.registry.Get(src); !ok {
		src = ""
		if panels := c.registry.Panels(); len(panels) > 0 {
			src = panels[0].ID
		}
	}
	if src == "" {
		return fx
	}
	c.registry.DeactivateAll()
	if c.mode == ModeCompact {
		c.registry.Activate(src)
	} else {
		c.registry.Focus(src)
	}
	return fx
}

// UpdateVisibility is the compact-mode focus driver. spans describe the
// panel column, scroll is the first visible content row and height the
// number of visible rows. A panel that newly crosses the visibility
// threshold becomes active; when several cross at once the topmost wins.
func (c *Controller) UpdateVisibility(spans []PanelSpan, scroll, height int) Effects {
	if c.mode != ModeCompact || c.preview.IsOpen() {
		return Effects{}
	}
	newly := c.markVisible(spans, scroll, height)
	if newly == "" {
		return Effects{}
	}
	return Effects{Changed: c.registry.Activate(newly)}
}

// SyncVisibility records which panels are visible without moving focus.
// Call it after scrolling on the controller's behalf so panels uncovered by
// that scroll do not steal focus from its target.
func (c *Controller) SyncVisibility(spans []PanelSpan, scroll, height int) {
	if c.mode != ModeCompact {
		return
	}
	c.markVisible(spans, scroll, height)
}

func (c *Controller) markVisible(spans []PanelSpan, scroll, height int) string {
	if height <= 0 {
		return ""
	}
	margin := int(float64(height) * c.opts.VisibilityMargin)
	top, bottom := scroll+margin, scroll+height-margin

	newly := ""
	for _, s := range spans {
		if s.Height <= 0 {
			continue
		}
		overlap := max(0, min(bottom, s.Top+s.Height)-max(top, s.Top))
		vis := float64(overlap)/float64(s.Height) >= c.opts.VisibilityThreshold
		if vis && !c.visible[s.ID] && newly == "" {
			newly = s.ID
		}
		c.visible[s.ID] = vis
	}
	return newly
}

// Inherit carries layout and focus over from a controller built for an
// earlier version of the document. The stacking order survives only when
// the reload kept the same set of panels.
func (c *Controller) Inherit(prev *Controller) {
	if prev == nil {
		return
	}
	old := prev.registry.Panels()
	same := len(old) == c.registry.Len()
	for _, o := range old {
		p, ok := c.registry.Get(o.ID)
		if !ok {
			same = false
			continue
		}
		p.Pos, p.Size, p.Placed = o.Pos, o.Size, o.Placed
	}
	for id, g := range prev.tabs {
		if ng, ok := c.tabs[id]; ok {
			ng.Switch(g.Active())
		}
	}

	target := prev.registry.ActiveID()
	if p, ok := prev.preview.Current(); ok && target == "" {
		target = p.Source
	}
	if same {
		for _, o := range old {
			p, _ := c.registry.Get(o.ID)
			p.Rank = o.Rank
		}
		if target == "" {
			stack := c.registry.ByRank()
			target = stack[len(stack)-1].ID
		}
		c.registry.DeactivateAll()
	}
	if target != "" {
		c.registry.Focus(target)
	}
}
