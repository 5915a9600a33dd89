// Package images resolves image references while a document is rendered.
//
// Remote images are never fetched: they collapse to their emphasized
// caption, or disappear when uncaptioned. Local references are tried as
// written, then against an ordered search-path list built from the source
// tree. Raw HTML img tags are always removed from inline content.
package images

import (
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/repopdf/repopdf/internal/collect"
)

// imageExts marks raster and vector image files whose directories become
// search paths.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
	".ico":  true,
}

var imgTag = regexp.MustCompile(`(?i)<img\b`)

// SearchPaths builds the ordered directory list consulted for relative
// image references: the source root, then every non-pruned directory that
// directly contains an image file, each followed by its immediate parent.
// Duplicates are dropped, first occurrence wins.
func SearchPaths(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	paths := []string{absRoot}
	seen := map[string]bool{absRoot: true}
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			paths = append(paths, dir)
		}
	}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtrees contribute no search paths
		}
		if d.IsDir() {
			if path != absRoot && collect.Pruned(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if imageExts[strings.ToLower(filepath.Ext(path))] {
			dir := filepath.Dir(path)
			add(dir)
			add(filepath.Dir(dir))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Resolve locates a local image reference. It tries ref as written, then
// joined to each search path in order. Returns the absolute path of the
// first existing regular file.
func Resolve(ref string, searchPaths []string) (string, bool) {
	if isRegularFile(ref) {
		abs, err := filepath.Abs(ref)
		if err != nil {
			return "", false
		}
		return abs, true
	}
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, ref)
		if isRegularFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Transformer rewrites image nodes in the goldmark AST during conversion.
// It implements parser.ASTTransformer.
type Transformer struct {
	SearchPaths []string
	NoImages    bool // caption-or-drop every image, no filesystem lookups
}

var _ parser.ASTTransformer = (*Transformer)(nil)

// Transform applies the resolution rules to every image node and removes
// raw HTML img fragments. Nodes are gathered first so mutation does not
// disturb the walk.
func (t *Transformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var imgNodes []*ast.Image
	var rawNodes []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Image:
			imgNodes = append(imgNodes, v)
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			if imgTag.MatchString(rawHTMLText(v, source)) {
				rawNodes = append(rawNodes, v)
			}
		case *ast.HTMLBlock:
			if imgTag.MatchString(htmlBlockText(v, source)) {
				rawNodes = append(rawNodes, v)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, img := range imgNodes {
		t.apply(img, source)
	}
	for _, n := range rawNodes {
		if p := n.Parent(); p != nil {
			p.RemoveChild(p, n)
		}
	}
}

// apply resolves one image node in place.
func (t *Transformer) apply(img *ast.Image, source []byte) {
	dest := string(img.Destination)
	caption := nodeText(img, source)

	if t.NoImages || isRemote(dest) {
		replaceWithCaption(img, caption)
		return
	}

	resolved, ok := Resolve(dest, t.SearchPaths)
	if !ok {
		replaceWithCaption(img, caption)
		return
	}
	img.Destination = []byte(fileURL(resolved))
}

// replaceWithCaption substitutes an emphasized caption for the image, or
// removes the node entirely when no caption exists.
func replaceWithCaption(img *ast.Image, caption string) {
	parent := img.Parent()
	if parent == nil {
		return
	}
	if strings.TrimSpace(caption) == "" {
		parent.RemoveChild(parent, img)
		return
	}
	em := ast.NewEmphasis(1)
	em.AppendChild(em, ast.NewString([]byte(caption)))
	parent.ReplaceChild(parent, img, em)
}

// nodeText concatenates the literal text of a node's children (the alt
// text, for image nodes).
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
		case *ast.String:
			b.Write(v.Value)
		default:
			b.WriteString(nodeText(c, source))
		}
	}
	return b.String()
}

func rawHTMLText(n *ast.RawHTML, source []byte) string {
	var b strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

func htmlBlockText(n *ast.HTMLBlock, source []byte) string {
	var b strings.Builder
	for i := 0; i < n.Lines().Len(); i++ {
		seg := n.Lines().At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

func isRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// fileURL converts an absolute path to a file:// URL, handling Windows
// path separators.
func fileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
