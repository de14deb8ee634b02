package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFetchRemoteHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><title>Demo</title></head><body><p>Hello preview</p></body></html>"))
	}))
	defer srv.Close()

	page, err := Fetch(context.Background(), srv.URL, time.Second)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.Kind != KindHTML || page.Title != "Demo" {
		t.Errorf("page = %+v", page)
	}
	if page.Text() != "Hello preview" {
		t.Errorf("text = %q", page.Text())
	}
}

func TestFetchRemoteStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := Fetch(context.Background(), srv.URL, time.Second); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("expected a status error, got %v", err)
	}
}

func TestFetchRemoteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	if _, err := Fetch(context.Background(), srv.URL, 50*time.Millisecond); err == nil {
		t.Fatal("expected a timeout")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout was not honored")
	}
}

func TestFetchLocal(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(md, []byte("# Notes\n\nbody"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, target := range []string{md, "file://" + md} {
		page, err := Fetch(context.Background(), target, 0)
		if err != nil {
			t.Fatalf("Fetch(%s): %v", target, err)
		}
		if page.Kind != KindMarkdown || page.Title != "notes.md" || !strings.Contains(page.Body, "body") {
			t.Errorf("page = %+v", page)
		}
	}

	if _, err := Fetch(context.Background(), filepath.Join(dir, "missing.md"), 0); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := Fetch(context.Background(), "gopher://example.com", 0); err == nil {
		t.Error("expected an error for an unsupported scheme")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		ct, target string
		want       Kind
	}{
		{"text/html; charset=utf-8", "https://x", KindHTML},
		{"text/markdown", "https://x", KindMarkdown},
		{"", "README.md", KindMarkdown},
		{"", "page.HTM", KindHTML},
		{"text/plain", "notes.txt", KindText},
	}
	for _, tt := range tests {
		if got := kindOf(tt.ct, tt.target); got != tt.want {
			t.Errorf("kindOf(%q, %q) = %d, want %d", tt.ct, tt.target, got, tt.want)
		}
	}
}
