// Package sitemap parses sitemap XML and derives output names for the
// batch driver.
//
// Both <urlset> and <sitemapindex> documents are understood; nested
// sitemaps are followed recursively with a depth cap. A nested sitemap
// that fails to load is a warning, not a fatal error.
package sitemap

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/repopdf/repopdf/internal/fetch"
)

// ErrParse indicates malformed sitemap XML.
var ErrParse = errors.New("failed to parse sitemap")

// maxDepth caps sitemapindex recursion.
const maxDepth = 5

// maxNameLength bounds derived file and directory names.
const maxNameLength = 100

// Parse extracts page URLs and nested sitemap URLs from sitemap XML.
func Parse(data []byte) (pages, nested []string, err error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, nil, fmt.Errorf("%w: empty document", ErrParse)
	}

	switch root.Tag {
	case "urlset":
		for _, el := range root.SelectElements("url") {
			if loc := locText(el); loc != "" {
				pages = append(pages, loc)
			}
		}
	case "sitemapindex":
		for _, el := range root.SelectElements("sitemap") {
			if loc := locText(el); loc != "" {
				nested = append(nested, loc)
			}
		}
	default:
		return nil, nil, fmt.Errorf("%w: unexpected root element <%s>", ErrParse, root.Tag)
	}
	return pages, nested, nil
}

func locText(el *etree.Element) string {
	loc := el.SelectElement("loc")
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(loc.Text())
}

// Loader resolves a sitemap location (local file or URL) into the full,
// deduplicated page-URL list.
type Loader struct {
	Client *fetch.Client
	Warnf  func(format string, args ...any) // nested-sitemap failures
}

// Load reads the sitemap at location and returns every page URL it
// transitively references, in document order, deduplicated.
func (l *Loader) Load(ctx context.Context, location string) ([]string, error) {
	seen := make(map[string]bool)
	var pages []string

	var visit func(loc string, depth int) error
	visit = func(loc string, depth int) error {
		if depth > maxDepth {
			return fmt.Errorf("%w: sitemap nesting exceeds depth %d", ErrParse, maxDepth)
		}

		data, err := l.read(ctx, loc)
		if err != nil {
			return err
		}
		found, nested, err := Parse(data)
		if err != nil {
			return err
		}

		for _, p := range found {
			if !seen[p] {
				seen[p] = true
				pages = append(pages, p)
			}
		}
		for _, n := range nested {
			if err := visit(n, depth+1); err != nil {
				// A broken nested sitemap does not abort the batch.
				l.warnf("skipping nested sitemap %s: %v", n, err)
			}
		}
		return nil
	}

	if err := visit(location, 0); err != nil {
		return nil, err
	}
	return pages, nil
}

func (l *Loader) read(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return l.Client.Get(ctx, location)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("reading sitemap: %w", err)
	}
	return data, nil
}

func (l *Loader) warnf(format string, args ...any) {
	if l.Warnf != nil {
		l.Warnf(format, args...)
	}
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
var dashRuns = regexp.MustCompile(`-{2,}`)

// SanitizeName turns arbitrary text into a safe filesystem component.
func SanitizeName(s string) string {
	s = strings.TrimSpace(s)
	s = unsafeChars.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-._")
	if len(s) > maxNameLength {
		s = strings.Trim(s[:maxNameLength], "-._")
	}
	return s
}

// DirFor derives the relative output directory for a page URL from its
// path segments, excluding the final segment.
func DirFor(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(path.Clean(u.Path), "/"), "/")
	if len(segments) <= 1 {
		return ""
	}
	var parts []string
	for _, seg := range segments[:len(segments)-1] {
		if s := SanitizeName(seg); s != "" {
			parts = append(parts, s)
		}
	}
	return path.Join(parts...)
}

// FileName derives the output base name for a page: its HTML title when
// available, otherwise the last URL path segment, otherwise the host.
func FileName(title, rawURL string) string {
	if name := SanitizeName(title); name != "" {
		return name
	}
	u, err := url.Parse(rawURL)
	if err == nil {
		if last := path.Base(path.Clean(u.Path)); last != "/" && last != "." {
			if name := SanitizeName(last); name != "" {
				return name
			}
		}
		if name := SanitizeName(u.Host); name != "" {
			return name
		}
	}
	return "page"
}

// Unique reserves name in used, appending a numeric suffix when the name
// is already taken.
func Unique(used map[string]bool, name string) string {
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s-%d", name, i)
	}
	used[candidate] = true
	return candidate
}
