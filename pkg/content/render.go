// Package content turns document bodies into plain terminal lines and
// locates the citation markers inside them.
package content

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"golang.org/x/sync/errgroup"

	"github.com/kraitsura/termfolio/pkg/model"
)

// DefaultStyle is the glamour style used for panel bodies.
const DefaultStyle = "dark"

// minWidth keeps glamour from wrapping every word onto its own line.
const minWidth = 10

// StripANSI removes escape sequences so the frontend can apply its own
// styling and measure cells reliably.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// Renderer renders markdown at a given width.
type Renderer struct {
	style string
}

// NewRenderer creates a renderer for a glamour standard style.
func NewRenderer(style string) *Renderer {
	if style == "" {
		style = DefaultStyle
	}
	return &Renderer{style: style}
}

// Markdown renders src into lines at most width cells wide.
func (r *Renderer) Markdown(src string, width int) ([]string, error) {
	width = max(width, minWidth)
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	// TermRenderer keeps per-render state, so every call gets its own.
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := tr.Render(strings.TrimSpace(src))
	if err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}
	return trimLines(StripANSI(out)), nil
}

// Text renders src as markdown and falls back to plain wrapped text when
// glamour fails.
func (r *Renderer) Text(src string, width int) []string {
	lines, err := r.Markdown(src, width)
	if err != nil {
		log.Printf("Warning: %v; showing plain text", err)
		return Wrap(src, width)
	}
	return lines
}

// Wrap word-wraps text to width, hard-wrapping words that do not fit.
func Wrap(text string, width int) []string {
	width = max(width, 1)
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return strings.Split(wrap.String(wordwrap.String(text, width), width), "\n")
}

// trimLines drops trailing spaces and leading/trailing blank lines.
func trimLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return lines[start:end]
}

// Panel is the rendered content of one panel at one width.
type Panel struct {
	PanelID string
	Width   int
	Body    []string
	Tabs    map[string][]string
	Refs    []string // References list, only for the refs panel
}

// Lines returns the body lines followed by the lines of the given tab.
func (p *Panel) Lines(tab string) []string {
	out := make([]string, 0, len(p.Body)+len(p.Tabs[tab])+len(p.Refs)+1)
	out = append(out, p.Body...)
	if t, ok := p.Tabs[tab]; ok {
		if len(out) > 0 && len(t) > 0 {
			out = append(out, "")
		}
		out = append(out, t...)
	}
	if len(p.Refs) > 0 {
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, p.Refs...)
	}
	return out
}

// RenderPanel renders the body and every tab pane of spec.
func (r *Renderer) RenderPanel(spec model.PanelSpec, refs []model.Reference, width int) *Panel {
	p := &Panel{PanelID: spec.ID, Width: width, Tabs: make(map[string][]string, len(spec.Tabs))}
	p.Body = r.Text(spec.Body, width)
	for _, t := range spec.Tabs {
		p.Tabs[t.Name] = r.Text(t.Body, width)
	}
	if spec.ID == model.RefsPanelID {
		p.Refs = References(refs, width)
	}
	return p
}

// PlainPanel lays spec out as word-wrapped text without markdown
// rendering. It is cheap enough to show while RenderAll is running.
func PlainPanel(spec model.PanelSpec, refs []model.Reference, width int) *Panel {
	p := &Panel{PanelID: spec.ID, Width: width, Tabs: make(map[string][]string, len(spec.Tabs))}
	p.Body = Wrap(spec.Body, width)
	for _, t := range spec.Tabs {
		p.Tabs[t.Name] = Wrap(t.Body, width)
	}
	if spec.ID == model.RefsPanelID {
		p.Refs = References(refs, width)
	}
	return p
}

// RenderAll renders every panel concurrently. width reports the inner
// width for a panel.
func (r *Renderer) RenderAll(ctx context.Context, doc *model.Document, width func(model.PanelSpec) int) (map[string]*Panel, error) {
	results := make([]*Panel, len(doc.Panels))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, spec := range doc.Panels {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.RenderPanel(spec, doc.References, width(spec))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*Panel, len(results))
	for _, p := range results {
		out[p.PanelID] = p
	}
	return out, nil
}

// References lays out the references list. Each entry starts with its
// back-reference and continuation lines are indented under the text.
func References(refs []model.Reference, width int) []string {
	var lines []string
	for _, ref := range refs {
		prefix := model.BackRefText(ref.Number) + " "
		indent := strings.Repeat(" ", len(prefix))
		body := Wrap(ref.Text, max(width-len(prefix), 1))
		if len(body) == 0 {
			body = []string{""}
		}
		for i, l := range body {
			if i == 0 {
				lines = append(lines, strings.TrimRight(prefix+l, " "))
				continue
			}
			lines = append(lines, indent+l)
		}
	}
	return lines
}
