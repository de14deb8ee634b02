package wm

import (
	"sort"

	"github.com/kraitsura/termfolio/pkg/model"
)

// PreviewRank is the fixed stacking value of the preview overlay. It is
// above any rank the registry can hand out.
const PreviewRank = 1000

// Panel is the interaction state of one window. The rendered surface is
// owned by the frontend and looked up by ID.
type Panel struct {
	ID       string
	Rank     int
	Active   bool
	Pos      model.Point // Top-left in layout coordinates
	Size     model.Size
	Bounds   *Bounds // Cached only while a drag is open
	Dragging bool
	Placed   bool
	Nav      bool // Has an entry in the nav bar
}

// Registry holds the panels in document order and maintains the z-order
// stack. Ranks are always a dense permutation of 1..N and the active panel
// holds N.
type Registry struct {
	panels     []*Panel
	byID       map[string]*Panel
	lastZIndex int
	active     string
	navCurrent string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Panel)}
}

// Register appends a panel. Panels registered earlier stay above later ones,
// so after loading a document the first panel holds the top rank. The first
// panel registered becomes active.
func (r *Registry) Register(id string, nav bool) *Panel {
	if id == "" || id == model.PreviewPanelID {
		return nil
	}
	if p, ok := r.byID[id]; ok {
		return p
	}
	for _, q := range r.panels {
		q.Rank++
	}
	p := &Panel{ID: id, Rank: 1, Nav: nav}
	r.panels = append(r.panels, p)
	r.byID[id] = p
	r.lastZIndex = len(r.panels)
	if r.active == "" {
		r.Focus(id)
	}
	return p
}

// Len returns the number of registered panels.
func (r *Registry) Len() int {
	return len(r.panels)
}

// Get returns the panel with the given id.
func (r *Registry) Get(id string) (*Panel, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Panels returns the panels in document order.
func (r *Registry) Panels() []*Panel {
	out := make([]*Panel, len(r.panels))
	copy(out, r.panels)
	return out
}

// ByRank returns the panels bottom-most first, which is drawing order.
func (r *Registry) ByRank() []*Panel {
	out := r.Panels()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

// Active returns the active panel, if any.
func (r *Registry) Active() (*Panel, bool) {
	if r.active == "" {
		return nil, false
	}
	return r.Get(r.active)
}

// ActiveID returns the id of the active panel or "" when none is active.
func (r *Registry) ActiveID() string {
	return r.active
}

// NavCurrent returns the id of the nav entry marked current.
func (r *Registry) NavCurrent() string {
	return r.navCurrent
}

// Focus activates the panel and raises it to the top of the stack. Panels
// ranked above its previous rank move down by one. Focusing the active
// panel is a no-op. It returns true if anything changed.
func (r *Registry) Focus(id string) bool {
	p, ok := r.byID[id]
	if !ok {
		return false
	}
	if p.Active && r.active == id {
		return false
	}

	prev := p.Rank
	for _, q := range r.panels {
		if q == p {
			continue
		}
		if q.Rank > prev {
			q.Rank = max(1, q.Rank-1)
		}
		q.Active = false
	}
	p.Rank = r.lastZIndex
	p.Active = true
	r.active = id
	r.updateNav()
	return true
}

// Activate marks the panel active without touching the stack. Compact mode
// stacks panels in document flow, so ranks carry no meaning there.
func (r *Registry) Activate(id string) bool {
	p, ok := r.byID[id]
	if !ok {
		return false
	}
	if p.Active && r.active == id {
		return false
	}
	for _, q := range r.panels {
		q.Active = q == p
	}
	r.active = id
	r.updateNav()
	return true
}

// DeactivateAll clears the active flag on every panel. The nav highlight is
// left alone so it keeps pointing at the panel underneath an overlay.
func (r *Registry) DeactivateAll() {
	for _, q := range r.panels {
		q.Active = false
	}
	r.active = ""
}

// Neighbor returns the panel dir steps away from the active one in document
// order, wrapping at both ends.
func (r *Registry) Neighbor(dir int) (string, bool) {
	n := len(r.panels)
	if n == 0 {
		return "", false
	}
	cur := -1
	for i, p := range r.panels {
		if p.ID == r.active {
			cur = i
			break
		}
	}
	if cur < 0 {
		return r.panels[0].ID, true
	}
	next := ((cur+dir)%n + n) % n
	return r.panels[next].ID, true
}

func (r *Registry) updateNav() {
	r.navCurrent = ""
	if p, ok := r.byID[r.active]; ok && p.Nav {
		r.navCurrent = p.ID
	}
}
