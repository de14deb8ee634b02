// Package ui is the bubbletea frontend of termfolio. It renders the panels
// described by the window manager in pkg/wm, registers their interactive
// surfaces and feeds terminal input back into the controller.
package ui

import (
	"context"
	"log"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kraitsura/termfolio/pkg/config"
	"github.com/kraitsura/termfolio/pkg/content"
	"github.com/kraitsura/termfolio/pkg/fetch"
	"github.com/kraitsura/termfolio/pkg/loader"
	"github.com/kraitsura/termfolio/pkg/model"
	"github.com/kraitsura/termfolio/pkg/watcher"
	"github.com/kraitsura/termfolio/pkg/wm"
)

// frameInterval is the display refresh used to coalesce drag motion.
const frameInterval = time.Second / 60

// flashDuration is how long footer messages stay up.
const flashDuration = 3 * time.Second

// Messages

type resizeSettledMsg struct{ token uint64 }

type frameMsg struct{}

type highlightExpiredMsg struct {
	element string
	token   uint64
}

type centerMsg struct{ element string }

type tooltipExpiredMsg struct{ token uint64 }

type previewLoadedMsg struct {
	url  string
	page *fetch.Page
	err  error
}

type documentLoadedMsg struct {
	result *loader.Result
	err    error
}

type fileChangedMsg struct {
	event  watcher.Event
	closed bool
}

// maxRenderRetries bounds how often a failed markdown batch is requested
// again before the panels settle on plain text.
const maxRenderRetries = 2

type renderedMsg struct {
	gen    uint64
	panels map[string]*content.Panel
	err    error
}

type flashExpiredMsg struct{ gen uint64 }

// previewPage is the loaded content of the preview overlay.
type previewPage struct {
	url     string
	page    *fetch.Page
	err     error
	loading bool
	scroll  int
	lines   []string
	width   int
}

// Model is the main bubbletea model
type Model struct {
	cfg     *config.Config
	docPath string
	ctrl    *wm.Controller
	outline *loader.Outline

	keys     KeyMap
	theme    Theme
	renderer *content.Renderer
	help     HelpOverlayModel
	helpBar  help.Model
	picker   PanelPickerModel

	width  int
	height int
	ready  bool

	// Layout results, rebuilt after every change
	nav     []navItem
	views   map[string]*panelView
	column  *Canvas
	spans   []wm.PanelSpan
	colView viewport.Model
	scroll  map[string]int
	preview *Canvas
	prevAt  model.Point

	// Content rendering
	rendered       map[string]*content.Panel
	plain          map[string]*content.Panel
	wantWidth      map[string]int
	renderGen      uint64
	rendering      bool
	renderFailures int // Failed batches in a row

	page           *previewPage
	frameScheduled bool

	flash    string
	flashErr bool
	flashGen uint64

	events    <-chan watcher.Event
	copyText  func(string) error
	fetchPage func(target string) (*fetch.Page, error)
	initCmd   tea.Cmd
}

// NewModel creates the frontend for a loaded document. docPath is used to
// resolve relative preview links and to reload the document.
func NewModel(res *loader.Result, docPath string, cfg *config.Config, theme Theme) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if res == nil {
		res = &loader.Result{Document: &model.Document{}}
	}
	theme.SetDark(cfg.Theme != "light")

	m := &Model{
		cfg:      cfg,
		docPath:  docPath,
		keys:     DefaultKeyMap(),
		theme:    theme,
		renderer: content.NewRenderer(cfg.MarkdownStyle),
		helpBar:  help.New(),
		scroll:   make(map[string]int),
		copyText: clipboard.WriteAll,
	}
	m.help = NewHelpOverlayModel(m.keys)
	m.colView = viewport.New(0, 0)
	m.fetchPage = m.defaultFetch
	m.initCmd = m.setDocument(res, nil)
	return m
}

// SetWatchEvents makes the model reload the document on every event.
func (m *Model) SetWatchEvents(events <-chan watcher.Event) {
	m.events = events
}

// SetClipboard replaces the clipboard writer.
func (m *Model) SetClipboard(fn func(string) error) {
	m.copyText = fn
}

// Controller exposes the window manager state.
func (m *Model) Controller() *wm.Controller {
	return m.ctrl
}

// setDocument swaps in a freshly loaded document, keeping the layout of
// panels that still exist.
func (m *Model) setDocument(res *loader.Result, prev *wm.Controller) tea.Cmd {
	for _, w := range res.Warnings {
		log.Printf("Warning: %s", w)
	}
	ctrl := wm.NewController(res.Document, m.cfg.Options(), m.measure)
	for _, w := range ctrl.Warnings() {
		log.Printf("Warning: %s", w)
	}
	ctrl.Inherit(prev)
	m.ctrl = ctrl
	m.outline = loader.BuildOutline(res.Document)
	m.picker = NewPanelPickerModel(m.outline)
	m.rendered = make(map[string]*content.Panel)
	m.plain = make(map[string]*content.Panel)
	m.wantWidth = make(map[string]int)
	m.renderGen++
	m.rendering = false
	m.renderFailures = 0
	m.page = nil
	m.frameScheduled = false
	if n := len(res.Warnings) + len(ctrl.Warnings()); n > 0 {
		return m.setFlash(pluralize(n, "document warning")+" (see log)", true)
	}
	return nil
}

// measure reports the panel container for the viewport tracker.
func (m *Model) measure() (model.Rect, int, model.Size, bool) {
	if m.width < MinScreenWidth || m.height < MinScreenHeight {
		return model.Rect{}, 0, model.Size{}, false
	}
	return containerRect(m.width, m.height), NavHeight, model.Size{W: m.width, H: m.height}, true
}

// Init starts listening for document changes.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForChange(m.events), m.initCmd}
	if title := m.ctrl.Document().Title; title != "" {
		cmds = append(cmds, tea.SetWindowTitle(title))
	}
	return tea.Batch(cmds...)
}

// Commands

func waitForChange(events <-chan watcher.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		return fileChangedMsg{event: ev, closed: !ok}
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m *Model) loadDocument() tea.Cmd {
	path := m.docPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		res, err := loader.LoadDocumentFromFile(path)
		return documentLoadedMsg{result: res, err: err}
	}
}

// renderPending renders the panels whose markdown is missing at their
// current width.
func (m *Model) renderPending() tea.Cmd {
	if m.rendering || len(m.wantWidth) == 0 {
		return nil
	}
	doc := m.ctrl.Document()
	sub := &model.Document{Title: doc.Title, References: doc.References}
	widths := make(map[string]int, len(m.wantWidth))
	for _, spec := range doc.Panels {
		if w, ok := m.wantWidth[spec.ID]; ok {
			sub.Panels = append(sub.Panels, spec)
			widths[spec.ID] = w
		}
	}
	m.wantWidth = make(map[string]int)
	if len(sub.Panels) == 0 {
		return nil
	}
	m.rendering = true
	gen, r := m.renderGen, m.renderer
	return func() tea.Msg {
		panels, err := r.RenderAll(context.Background(), sub, func(spec model.PanelSpec) int {
			return widths[spec.ID]
		})
		return renderedMsg{gen: gen, panels: panels, err: err}
	}
}

// resolve turns a link relative to the document into a path.
func (m *Model) resolve(target string) string {
	if m.docPath == "" || filepath.IsAbs(target) || hasScheme(target) {
		return target
	}
	return filepath.Join(filepath.Dir(m.docPath), target)
}

func (m *Model) defaultFetch(target string) (*fetch.Page, error) {
	return fetch.Fetch(context.Background(), m.resolve(target), m.cfg.PreviewTimeout)
}

func (m *Model) fetchPreview(target string) tea.Cmd {
	get := m.fetchPage
	return func() tea.Msg {
		page, err := get(target)
		return previewLoadedMsg{url: target, page: page, err: err}
	}
}

func (m *Model) setFlash(msg string, isErr bool) tea.Cmd {
	m.flash, m.flashErr = msg, isErr
	m.flashGen++
	gen := m.flashGen
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashExpiredMsg{gen: gen} })
}

// hasScheme reports whether target is a URL rather than a path. Single
// letter schemes are Windows drive letters.
func hasScheme(target string) bool {
	u, err := url.Parse(target)
	return err == nil && len(u.Scheme) > 1
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

var _ tea.Model = (*Model)(nil)
