package sitemap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/repopdf/repopdf/internal/fetch"
)

const urlsetXML = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/docs/intro</loc></url>
  <url><loc> https://example.com/docs/setup </loc></url>
  <url><lastmod>2026-01-01</lastmod></url>
</urlset>`

func TestParseURLSet(t *testing.T) {
	t.Parallel()

	pages, nested, err := Parse([]byte(urlsetXML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"https://example.com/docs/intro", "https://example.com/docs/setup"}
	if !reflect.DeepEqual(pages, want) {
		t.Errorf("pages = %v, want %v", pages, want)
	}
	if len(nested) != 0 {
		t.Errorf("unexpected nested sitemaps: %v", nested)
	}
}

func TestParseSitemapIndex(t *testing.T) {
	t.Parallel()

	data := `<sitemapindex>
  <sitemap><loc>https://example.com/sitemap-a.xml</loc></sitemap>
  <sitemap><loc>https://example.com/sitemap-b.xml</loc></sitemap>
</sitemapindex>`

	pages, nested, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("unexpected pages: %v", pages)
	}
	if len(nested) != 2 {
		t.Errorf("nested = %v, want 2 entries", nested)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"not xml <", "<rss></rss>", ""} {
		if _, _, err := Parse([]byte(bad)); !errors.Is(err, ErrParse) {
			t.Errorf("Parse(%q) = %v, want ErrParse", bad, err)
		}
	}
}

func TestLoaderLocalFileWithNesting(t *testing.T) {
	t.Parallel()

	// The index is served over HTTP; one child works, one is broken.
	mux := http.NewServeMux()
	mux.HandleFunc("/child.xml", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<urlset><url><loc>https://example.com/a</loc></url></urlset>`)
	})
	mux.HandleFunc("/broken.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	index := filepath.Join(dir, "sitemap.xml")
	content := fmt.Sprintf(`<sitemapindex>
  <sitemap><loc>%s/child.xml</loc></sitemap>
  <sitemap><loc>%s/broken.xml</loc></sitemap>
</sitemapindex>`, srv.URL, srv.URL)
	if err := os.WriteFile(index, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var warnings []string
	loader := &Loader{
		Client: fetch.NewClient(5 * time.Second),
		Warnf: func(format string, args ...any) {
			warnings = append(warnings, fmt.Sprintf(format, args...))
		},
	}

	pages, err := loader.Load(context.Background(), index)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(pages, []string{"https://example.com/a"}) {
		t.Errorf("pages = %v", pages)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one for the broken child", warnings)
	}
}

func TestLoaderDeduplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	index := filepath.Join(dir, "sitemap.xml")
	data := `<urlset>
  <url><loc>https://example.com/a</loc></url>
  <url><loc>https://example.com/a</loc></url>
  <url><loc>https://example.com/b</loc></url>
</urlset>`
	if err := os.WriteFile(index, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := &Loader{Client: fetch.NewClient(time.Second)}
	pages, err := loader.Load(context.Background(), index)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"https://example.com/a", "https://example.com/b"}
	if !reflect.DeepEqual(pages, want) {
		t.Errorf("pages = %v, want %v", pages, want)
	}
}

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Getting Started: A Guide!", "Getting-Started-A-Guide"},
		{"  spaces  ", "spaces"},
		{"already-safe_name.v2", "already-safe_name.v2"},
		{"///", ""},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDirFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/docs/guide/intro", "docs/guide"},
		{"https://example.com/intro", ""},
		{"https://example.com/", ""},
	}
	for _, tt := range tests {
		if got := DirFor(tt.url); got != tt.want {
			t.Errorf("DirFor(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		url   string
		want  string
	}{
		{"My Page", "https://example.com/docs/x", "My-Page"},
		{"", "https://example.com/docs/setup-guide", "setup-guide"},
		{"", "https://example.com/", "example.com"},
	}
	for _, tt := range tests {
		if got := FileName(tt.title, tt.url); got != tt.want {
			t.Errorf("FileName(%q, %q) = %q, want %q", tt.title, tt.url, got, tt.want)
		}
	}
}

func TestUnique(t *testing.T) {
	t.Parallel()

	used := map[string]bool{}
	if got := Unique(used, "page"); got != "page" {
		t.Errorf("first = %q", got)
	}
	if got := Unique(used, "page"); got != "page-2" {
		t.Errorf("second = %q", got)
	}
	if got := Unique(used, "page"); got != "page-3" {
		t.Errorf("third = %q", got)
	}
}
