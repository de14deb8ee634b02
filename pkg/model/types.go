package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Document is a portfolio laid out as a set of terminal windows
type Document struct {
	Title      string      `yaml:"title"`
	Panels     []PanelSpec `yaml:"panels"`
	References []Reference `yaml:"references,omitempty"`
}

// PanelSpec describes one window of the document
type PanelSpec struct {
	ID     string    `yaml:"id"`
	Title  string    `yaml:"title"`
	Nav    string    `yaml:"nav,omitempty"` // Nav bar label; empty keeps the panel out of the nav bar
	Body   string    `yaml:"body,omitempty"`
	Tabs   []TabSpec `yaml:"tabs,omitempty"`
	Links  []Link    `yaml:"links,omitempty"`
	Hints  Hints     `yaml:"hints,omitempty"`
	Width  int       `yaml:"width,omitempty"`  // Preferred outer width in cells (desktop)
	Height int       `yaml:"height,omitempty"` // Preferred outer height in cells (desktop)
	Abbrs  []Abbr    `yaml:"-"`                // Collected from <abbr> markup by ExtractAbbrs
}

// TabSpec is a single mutually exclusive pane inside a panel
type TabSpec struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label,omitempty"`
	Body  string `yaml:"body"`
}

// Link is an outbound link rendered at the bottom of a panel
type Link struct {
	Label   string `yaml:"label"`
	URL     string `yaml:"url"`
	Preview bool   `yaml:"preview,omitempty"`
}

// Reference is an entry of the references panel
type Reference struct {
	Number int    `yaml:"number"`
	Text   string `yaml:"text"`
}

// Abbr is an abbreviation whose expansion can be shown on request
type Abbr struct {
	Text  string
	Title string
}

// Hints holds device-specific usage messages shown at the top of a panel
type Hints struct {
	Desktop string `yaml:"desktop,omitempty"`
	Compact string `yaml:"compact,omitempty"`
}

// RefsPanelID is the well-known id of the references panel
const RefsPanelID = "refs"

// PreviewPanelID is the id of the synthetic preview window
const PreviewPanelID = "preview"

// MarkerPattern matches inline citation markers such as [^3]
var MarkerPattern = regexp.MustCompile(`\[\^(\d+)\]`)

// AbbrPattern matches <abbr title="...">text</abbr> markup
var AbbrPattern = regexp.MustCompile(`(?s)<abbr\s+title="([^"]*)"\s*>(.*?)</abbr>`)

// MarkerText returns the inline form of citation n
func MarkerText(n int) string {
	return "[^" + strconv.Itoa(n) + "]"
}

// BackRefText returns the back-reference form of citation n as shown in the
// references panel
func BackRefText(n int) string {
	return "[" + strconv.Itoa(n) + "]"
}

// DisplayLabel returns the display label of a tab
func (t TabSpec) DisplayLabel() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Name
}

// Panel returns the panel with the given id
func (d *Document) Panel(id string) (*PanelSpec, bool) {
	for i := range d.Panels {
		if d.Panels[i].ID == id {
			return &d.Panels[i], true
		}
	}
	return nil, false
}

// Texts returns every body of the panel, the main body first followed by
// the tab panes in order
func (p PanelSpec) Texts() []string {
	texts := make([]string, 0, len(p.Tabs)+1)
	if p.Body != "" {
		texts = append(texts, p.Body)
	}
	for _, t := range p.Tabs {
		texts = append(texts, t.Body)
	}
	return texts
}

// Markers returns the citation numbers appearing in the panel in text
// order. A number cited twice appears twice.
func (p PanelSpec) Markers() []int {
	var out []int
	for _, text := range p.Texts() {
		for _, m := range MarkerPattern.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

// StripAbbrs replaces abbreviation markup in s with its text. It returns
// the cleaned text and the abbreviations in order of appearance.
func StripAbbrs(s string) (string, []Abbr) {
	var found []Abbr
	out := AbbrPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := AbbrPattern.FindStringSubmatch(m)
		found = append(found, Abbr{Text: sub[2], Title: sub[1]})
		return sub[2]
	})
	return out, found
}

// ExtractAbbrs moves abbreviation markup out of every body of the panel
// into Abbrs. Each text is kept once; the first title wins. Markup without
// text or title is unwrapped but not recorded.
func (p *PanelSpec) ExtractAbbrs() {
	seen := make(map[string]bool, len(p.Abbrs))
	for _, a := range p.Abbrs {
		seen[a.Text] = true
	}
	collect := func(text string) string {
		out, found := StripAbbrs(text)
		for _, a := range found {
			a.Text, a.Title = strings.TrimSpace(a.Text), strings.TrimSpace(a.Title)
			if a.Text == "" || a.Title == "" || seen[a.Text] {
				continue
			}
			seen[a.Text] = true
			p.Abbrs = append(p.Abbrs, a)
		}
		return out
	}
	p.Body = collect(p.Body)
	for i := range p.Tabs {
		p.Tabs[i].Body = collect(p.Tabs[i].Body)
	}
}

// Validate checks if the panel spec is usable
func (p *PanelSpec) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("panel ID cannot be empty")
	}
	if p.ID == PreviewPanelID {
		return fmt.Errorf("panel ID %q is reserved", PreviewPanelID)
	}
	names := make(map[string]bool, len(p.Tabs))
	for _, t := range p.Tabs {
		if t.Name == "" {
			return fmt.Errorf("panel %s: tab name cannot be empty", p.ID)
		}
		if names[t.Name] {
			return fmt.Errorf("panel %s: duplicate tab %q", p.ID, t.Name)
		}
		names[t.Name] = true
	}
	for _, l := range p.Links {
		if l.URL == "" {
			return fmt.Errorf("panel %s: link %q has no url", p.ID, l.Label)
		}
	}
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("panel %s: negative size", p.ID)
	}
	return nil
}
