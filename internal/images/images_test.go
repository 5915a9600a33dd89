package images

// Notes:
// - Transformer behavior is asserted through a real goldmark conversion,
//   matching how the resolver runs in production.
// - Remote URLs must never touch the filesystem; those cases run against a
//   search-path list pointing at a directory that does not exist.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"
)

func render(t *testing.T, md string, tr *Transformer) string {
	t.Helper()
	gm := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(tr, 100)),
		),
	)
	var buf bytes.Buffer
	if err := gm.Convert([]byte(md), &buf); err != nil {
		t.Fatalf("convert: %v", err)
	}
	return buf.String()
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("fake image"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "img", "logo.png"))
	writeFile(t, filepath.Join(root, "assets", "banner.svg"))
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "icon.png"))

	paths, err := SearchPaths(root)
	if err != nil {
		t.Fatalf("SearchPaths: %v", err)
	}

	if len(paths) == 0 || paths[0] != root {
		t.Fatalf("first search path must be the root, got %v", paths)
	}

	want := map[string]bool{
		filepath.Join(root, "docs", "img"): true, // contains an image
		filepath.Join(root, "docs"):        true, // its parent
		filepath.Join(root, "assets"):      true,
	}
	got := map[string]bool{}
	for _, p := range paths {
		got[p] = true
		if strings.Contains(p, "node_modules") {
			t.Errorf("pruned directory leaked into search paths: %s", p)
		}
	}
	for p := range want {
		if !got[p] {
			t.Errorf("missing search path %s in %v", p, paths)
		}
	}

	// No duplicates.
	if len(got) != len(paths) {
		t.Errorf("duplicate search paths: %v", paths)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "img", "logo.png"))

	t.Run("found via search path", func(t *testing.T) {
		t.Parallel()
		got, ok := Resolve("img/logo.png", []string{filepath.Join(root, "docs")})
		if !ok {
			t.Fatal("expected resolution")
		}
		if got != filepath.Join(root, "docs", "img", "logo.png") {
			t.Errorf("resolved to %s", got)
		}
	})

	t.Run("first search path wins", func(t *testing.T) {
		t.Parallel()
		other := t.TempDir()
		writeFile(t, filepath.Join(other, "img", "logo.png"))
		got, ok := Resolve("img/logo.png", []string{other, filepath.Join(root, "docs")})
		if !ok || !strings.HasPrefix(got, other) {
			t.Errorf("got %s, want file under %s", got, other)
		}
	})

	t.Run("absolute reference as given", func(t *testing.T) {
		t.Parallel()
		abs := filepath.Join(root, "docs", "img", "logo.png")
		got, ok := Resolve(abs, nil)
		if !ok || got != abs {
			t.Errorf("got %s, %v", got, ok)
		}
	})

	t.Run("unresolved", func(t *testing.T) {
		t.Parallel()
		if _, ok := Resolve("missing.png", []string{root}); ok {
			t.Error("expected resolution failure")
		}
	})
}

func TestTransformerLocalImage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	logo := filepath.Join(root, "docs", "img", "logo.png")
	writeFile(t, logo)

	tr := &Transformer{SearchPaths: []string{filepath.Join(root, "docs")}}
	html := render(t, "![Logo](img/logo.png)", tr)

	if !strings.Contains(html, "file://") {
		t.Errorf("local image not rewritten to file URL: %s", html)
	}
	if !strings.Contains(html, "logo.png") {
		t.Errorf("resolved path lost: %s", html)
	}
}

func TestTransformerRemoteImage(t *testing.T) {
	t.Parallel()

	tr := &Transformer{SearchPaths: []string{"/nonexistent"}}

	t.Run("captioned becomes emphasis", func(t *testing.T) {
		t.Parallel()
		html := render(t, "![Logo](https://example.com/badge.svg)", tr)
		if !strings.Contains(html, "<em>Logo</em>") {
			t.Errorf("missing emphasized caption: %s", html)
		}
		if strings.Contains(html, "example.com") {
			t.Errorf("remote URL survived: %s", html)
		}
	})

	t.Run("uncaptioned dropped", func(t *testing.T) {
		t.Parallel()
		html := render(t, "before ![](https://example.com/x.png) after", tr)
		if strings.Contains(html, "<img") || strings.Contains(html, "example.com") {
			t.Errorf("remote image survived: %s", html)
		}
	})
}

func TestTransformerUnresolvedLocal(t *testing.T) {
	t.Parallel()

	tr := &Transformer{SearchPaths: []string{t.TempDir()}}
	html := render(t, "![Logo](missing/logo.png)", tr)
	if !strings.Contains(html, "<em>Logo</em>") {
		t.Errorf("unresolved local image should fall back to caption: %s", html)
	}
}

func TestTransformerNoImages(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "logo.png"))

	tr := &Transformer{SearchPaths: []string{root}, NoImages: true}
	html := render(t, "![Logo](logo.png)", tr)
	if strings.Contains(html, "<img") {
		t.Errorf("no-images toggle ignored: %s", html)
	}
	if !strings.Contains(html, "<em>Logo</em>") {
		t.Errorf("caption fallback missing: %s", html)
	}
}

func TestTransformerRawHTMLImgRemoved(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pic.png"))

	tr := &Transformer{SearchPaths: []string{root}}
	html := render(t, `text <img src="pic.png"> more`, tr)
	if strings.Contains(html, "<img") {
		t.Errorf("raw HTML img survived: %s", html)
	}
	if !strings.Contains(html, "text") || !strings.Contains(html, "more") {
		t.Errorf("surrounding text lost: %s", html)
	}
}
