// Package fetch loads the page shown in the preview overlay.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kraitsura/termfolio/pkg/content"
)

// DefaultTimeout bounds a remote fetch so the overlay never hangs.
const DefaultTimeout = 2 * time.Second

// maxBody caps how much of a page is read.
const maxBody = 2 << 20

// Kind says how a page body has to be rendered.
type Kind int

const (
	KindText Kind = iota
	KindMarkdown
	KindHTML
)

// Page is a loaded preview target.
type Page struct {
	URL   string
	Title string
	Kind  Kind
	Body  string
}

// Text returns the body as plain text; HTML is reduced first.
func (p *Page) Text() string {
	if p.Kind == KindHTML {
		return content.HTMLText(p.Body)
	}
	return p.Body
}

// Fetch loads target. http and https URLs are requested with the given
// timeout; file URLs and plain paths are read from disk.
func Fetch(ctx context.Context, target string, timeout time.Duration) (*Page, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid preview url %q: %w", target, err)
	}
	switch u.Scheme {
	case "http", "https":
		return fetchRemote(ctx, target, timeout)
	case "file":
		return readLocal(u.Path)
	case "":
		return readLocal(target)
	default:
		return nil, fmt.Errorf("unsupported preview url scheme: %s", u.Scheme)
	}
}

func fetchRemote(ctx context.Context, target string, timeout time.Duration) (*Page, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := http.Client{
		Timeout: timeout,
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html, text/markdown;q=0.9, text/plain;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status: %s", target, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", target, err)
	}

	page := &Page{URL: target, Kind: kindOf(resp.Header.Get("Content-Type"), target), Body: string(body)}
	if page.Kind == KindHTML {
		page.Title = content.HTMLTitle(page.Body)
	}
	return page, nil
}

func readLocal(path string) (*Page, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no preview file found at %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preview file: %w", err)
	}
	if len(data) > maxBody {
		data = data[:maxBody]
	}
	page := &Page{
		URL:   path,
		Title: filepath.Base(path),
		Kind:  kindOf(mime.TypeByExtension(filepath.Ext(path)), path),
		Body:  string(data),
	}
	if page.Kind == KindHTML {
		if title := content.HTMLTitle(page.Body); title != "" {
			page.Title = title
		}
	}
	return page, nil
}

func kindOf(contentType, target string) Kind {
	mt, _, _ := mime.ParseMediaType(contentType)
	switch {
	case mt == "text/html" || mt == "application/xhtml+xml":
		return KindHTML
	case mt == "text/markdown" || mt == "text/x-markdown":
		return KindMarkdown
	}
	ext := strings.ToLower(filepath.Ext(target))
	switch ext {
	case ".md", ".markdown":
		return KindMarkdown
	case ".html", ".htm":
		return KindHTML
	}
	return KindText
}
