package loader

import (
	"fmt"
	"strings"

	"github.com/kraitsura/termfolio/pkg/model"
)

// OutlineEntry is a jump target: a panel, or one tab inside it.
type OutlineEntry struct {
	PanelID string
	Tab     string // Empty for the panel itself
	Label   string // Text matched by the panel picker
}

// Outline lists every panel of a document followed by its tabs
type Outline struct {
	Entries []OutlineEntry
	byPanel map[string][]int // panel id -> indexes into Entries
}

// BuildOutline walks the document in order.
func BuildOutline(doc *model.Document) *Outline {
	o := &Outline{byPanel: make(map[string][]int)}
	if doc == nil {
		return o
	}
	for _, p := range doc.Panels {
		title := p.Title
		if title == "" {
			title = p.ID
		}
		o.add(OutlineEntry{PanelID: p.ID, Label: title})
		for _, t := range p.Tabs {
			o.add(OutlineEntry{
				PanelID: p.ID,
				Tab:     t.Name,
				Label:   fmt.Sprintf("%s › %s", title, t.DisplayLabel()),
			})
		}
	}
	return o
}

func (o *Outline) add(e OutlineEntry) {
	o.byPanel[e.PanelID] = append(o.byPanel[e.PanelID], len(o.Entries))
	o.Entries = append(o.Entries, e)
}

// Labels returns the entry labels, index-aligned with Entries
func (o *Outline) Labels() []string {
	out := make([]string, len(o.Entries))
	for i, e := range o.Entries {
		out[i] = e.Label
	}
	return out
}

// ForPanel returns the entries belonging to one panel.
func (o *Outline) ForPanel(id string) []OutlineEntry {
	idx := o.byPanel[id]
	out := make([]OutlineEntry, 0, len(idx))
	for _, i := range idx {
		out = append(out, o.Entries[i])
	}
	return out
}

// Lookup finds the entry whose label matches case-insensitively.
func (o *Outline) Lookup(label string) (OutlineEntry, bool) {
	for _, e := range o.Entries {
		if strings.EqualFold(e.Label, label) {
			return e, true
		}
	}
	return OutlineEntry{}, false
}
