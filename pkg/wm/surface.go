package wm

import "github.com/kraitsura/termfolio/pkg/model"

// SurfaceKind identifies what an interactive rectangle does.
type SurfaceKind int

const (
	SurfacePanel SurfaceKind = iota
	SurfaceHeader
	SurfaceTabButton
	SurfaceTabStrip
	SurfaceMarker
	SurfaceBackRef
	SurfaceLink
	SurfaceAbbr
	SurfaceNav
	SurfaceOverlay
	SurfaceOverlayClose
)

// String returns a string representation of the kind.
func (k SurfaceKind) String() string {
	switch k {
	case SurfacePanel:
		return "panel"
	case SurfaceHeader:
		return "header"
	case SurfaceTabButton:
		return "tab-button"
	case SurfaceTabStrip:
		return "tab-strip"
	case SurfaceMarker:
		return "marker"
	case SurfaceBackRef:
		return "back-ref"
	case SurfaceLink:
		return "link"
	case SurfaceAbbr:
		return "abbr"
	case SurfaceNav:
		return "nav"
	case SurfaceOverlay:
		return "overlay"
	case SurfaceOverlayClose:
		return "overlay-close"
	default:
		return "unknown"
	}
}

// container kinds lose against anything registered inside them
func (k SurfaceKind) container() bool {
	return k == SurfacePanel || k == SurfaceOverlay || k == SurfaceTabStrip
}

// Surface is one interactive rectangle registered by the frontend.
type Surface struct {
	Kind    SurfaceKind
	PanelID string
	Rect    model.Rect // Screen coordinates
	Layer   int        // Higher layers receive the pointer first
	Key     string     // Tab name, link URL, nav target, element id or abbreviation title
	Ref     int        // Citation number for markers and back-refs
	Preview bool       // Link opens in the preview overlay
}

// Surfaces is the registry of interactive rectangles for the current
// layout. The frontend rebuilds it after every layout pass.
type Surfaces struct {
	items []Surface
}

// Reset forgets every surface.
func (s *Surfaces) Reset() {
	s.items = s.items[:0]
}

// Register adds a surface. Empty rectangles are ignored.
func (s *Surfaces) Register(sf Surface) {
	if sf.Rect.Empty() {
		return
	}
	s.items = append(s.items, sf)
}

// Len returns the number of registered surfaces.
func (s *Surfaces) Len() int {
	return len(s.items)
}

// Find returns the first surface of the given kind and panel.
func (s *Surfaces) Find(kind SurfaceKind, panelID, key string) (Surface, bool) {
	for _, sf := range s.items {
		if sf.Kind == kind && sf.PanelID == panelID && (key == "" || sf.Key == key) {
			return sf, true
		}
	}
	return Surface{}, false
}

// HitTest returns the surface receiving a pointer at p: the highest layer
// wins, inner surfaces win over their container, later registrations win
// ties.
func (s *Surfaces) HitTest(p model.Point) (Surface, bool) {
	var best Surface
	found := false
	for _, sf := range s.items {
		if !sf.Rect.Contains(p) {
			continue
		}
		if !found || beats(sf, best) {
			best = sf
			found = true
		}
	}
	return best, found
}

func beats(a, b Surface) bool {
	if a.Layer != b.Layer {
		return a.Layer > b.Layer
	}
	if a.Kind.container() != b.Kind.container() {
		return !a.Kind.container()
	}
	return true
}
