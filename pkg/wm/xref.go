package wm

import (
	"fmt"
	"strconv"

	"github.com/kraitsura/termfolio/pkg/model"
)

// RefMapping maps a citation number to the panel containing its marker.
type RefMapping map[int]string

// MarkerElement is the element id of inline citation n.
func MarkerElement(n int) string {
	return "ref-" + strconv.Itoa(n)
}

// BackRefElement is the element id of the references panel entry for n.
func BackRefElement(n int) string {
	return "back-ref-" + strconv.Itoa(n)
}

// Target is where following a cross-reference lands.
type Target struct {
	PanelID string
	Element string
}

// Navigator resolves clicks on citation markers and back-references.
type Navigator struct {
	refsPanel string
	mapping   RefMapping
}

// NewNavigator scans the document once. Markers without a reference entry,
// references without a marker and markers repeated in the same or a second
// panel are left out of the mapping and reported as warnings, so every mapped number
// has exactly one marker and one back-reference.
func NewNavigator(doc *model.Document) (*Navigator, []string) {
	nav := &Navigator{refsPanel: model.RefsPanelID, mapping: make(RefMapping)}
	if doc == nil {
		return nav, nil
	}

	var warnings []string
	refs := make(map[int]bool, len(doc.References))
	for _, r := range doc.References {
		refs[r.Number] = true
	}
	_, hasRefsPanel := doc.Panel(model.RefsPanelID)

	for _, p := range doc.Panels {
		if p.ID == model.RefsPanelID {
			continue
		}
		seen := make(map[int]bool)
		for _, n := range p.Markers() {
			if seen[n] {
				warnings = append(warnings, fmt.Sprintf("citation %d appears more than once in %s; linking the first", n, p.ID))
				continue
			}
			seen[n] = true
			if owner, dup := nav.mapping[n]; dup {
				warnings = append(warnings, fmt.Sprintf("citation %d appears in %s and %s; keeping %s", n, owner, p.ID, owner))
				continue
			}
			if !refs[n] || !hasRefsPanel {
				warnings = append(warnings, fmt.Sprintf("citation %d in %s has no reference entry", n, p.ID))
				continue
			}
			nav.mapping[n] = p.ID
		}
	}
	for _, r := range doc.References {
		if _, ok := nav.mapping[r.Number]; !ok {
			warnings = append(warnings, fmt.Sprintf("reference %d is never cited", r.Number))
		}
	}
	return nav, warnings
}

// Mapping returns a copy of the citation mapping.
func (n *Navigator) Mapping() RefMapping {
	out := make(RefMapping, len(n.mapping))
	for k, v := range n.mapping {
		out[k] = v
	}
	return out
}

// Has reports whether citation k is linked both ways.
func (n *Navigator) Has(k int) bool {
	_, ok := n.mapping[k]
	return ok
}

// MarkerTarget resolves a click on inline marker k.
func (n *Navigator) MarkerTarget(k int) (Target, bool) {
	if !n.Has(k) {
		return Target{}, false
	}
	return Target{PanelID: n.refsPanel, Element: BackRefElement(k)}, true
}

// BackRefTarget resolves a click on back-reference k.
func (n *Navigator) BackRefTarget(k int) (Target, bool) {
	owner, ok := n.mapping[k]
	if !ok {
		return Target{}, false
	}
	return Target{PanelID: owner, Element: MarkerElement(k)}, true
}
