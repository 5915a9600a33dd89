// Package collect discovers the Markdown files that participate in an
// export and fixes their order.
//
// Discovery runs in four phases: the root README, everything under docs/,
// remaining files directly in the root, then the rest of the tree. Each
// phase is sorted lexicographically by path and a file already captured by
// an earlier phase is never added again.
package collect

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/repopdf/repopdf/internal/pathmatch"
)

// Sentinel errors for discovery.
var (
	ErrNotDirectory = errors.New("source root is not a directory")
)

// readmeCandidates are checked in priority order; the first one that exists
// wins and the others are ignored.
var readmeCandidates = []string{"README.md", "Readme.md", "readme.md"}

// prunedDirs are never descended into: VCS metadata, virtual environments,
// test/lint caches, and dependency-manager directories.
var prunedDirs = map[string]bool{
	".git":          true,
	".hg":           true,
	".svn":          true,
	".bzr":          true,
	"node_modules":  true,
	"vendor":        true,
	"bower_components": true,
	".venv":         true,
	"venv":          true,
	"virtualenv":    true,
	"__pycache__":   true,
	".pytest_cache": true,
	".mypy_cache":   true,
	".ruff_cache":   true,
	".tox":          true,
	".nox":          true,
	".cache":        true,
}

// Pruned reports whether a directory name is excluded from traversal.
func Pruned(name string) bool {
	return prunedDirs[name]
}

// File is one discovered Markdown file.
type File struct {
	AbsPath string // resolved absolute path, the dedup key
	RelPath string // path relative to the source root, the display key
}

// Collect walks root and returns the ordered, deduplicated file list.
// Exclusion patterns are matched against basenames in every phase.
func Collect(root string, exclusions []string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading source root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving source root: %w", err)
	}

	c := &collector{
		root:       absRoot,
		exclusions: exclusions,
		seen:       make(map[string]bool),
	}

	c.collectReadme()
	if err := c.collectDocs(); err != nil {
		return nil, err
	}
	if err := c.collectRootLevel(); err != nil {
		return nil, err
	}
	if err := c.collectRemaining(); err != nil {
		return nil, err
	}

	return c.files, nil
}

type collector struct {
	root       string
	exclusions []string
	seen       map[string]bool
	files      []File
}

// collectReadme handles phase 1: the first existing README candidate wins.
func (c *collector) collectReadme() {
	for _, name := range readmeCandidates {
		path := filepath.Join(c.root, name)
		if c.add(path) {
			return
		}
	}
}

// collectDocs handles phase 2: all Markdown files under docs/, recursively.
func (c *collector) collectDocs() error {
	docs := filepath.Join(c.root, "docs")
	info, err := os.Stat(docs)
	if err != nil || !info.IsDir() {
		return nil // no docs/ subdirectory, phase is empty
	}
	return c.addWalked(docs, nil)
}

// collectRootLevel handles phase 3: Markdown files directly in the root.
func (c *collector) collectRootLevel() error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return fmt.Errorf("reading source root: %w", err)
	}
	var batch []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		batch = append(batch, filepath.Join(c.root, entry.Name()))
	}
	c.addSorted(batch)
	return nil
}

// collectRemaining handles phase 4: everything at depth >= 2 not already
// captured. Deduplication drops the docs/ files again reached here.
func (c *collector) collectRemaining() error {
	return c.addWalked(c.root, func(path string) bool {
		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return false
		}
		return strings.Count(filepath.ToSlash(rel), "/") >= 1
	})
}

// addWalked walks dir collecting Markdown files, pruning excluded
// directories, then adds the batch in lexicographic order. The optional
// keep predicate filters candidate paths before batching.
func (c *collector) addWalked(dir string, keep func(string) bool) error {
	var batch []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != dir && Pruned(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if keep != nil && !keep(path) {
			return nil
		}
		batch = append(batch, path)
		return nil
	})
	if err != nil {
		return err
	}
	c.addSorted(batch)
	return nil
}

// addSorted adds a batch of candidate paths in lexicographic order.
func (c *collector) addSorted(paths []string) {
	sort.Strings(paths)
	for _, p := range paths {
		c.add(p)
	}
}

// add accepts a single candidate, applying the extension check, exclusion
// rules, and resolved-path deduplication. Reports whether the file was
// added to the list.
func (c *collector) add(path string) bool {
	if !isMarkdown(path) {
		return false
	}
	if pathmatch.Excluded(path, c.exclusions) {
		return false
	}

	// Non-regular or unreadable files are silently skipped. os.Stat follows
	// symlinks so a link to a regular Markdown file is accepted.
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	key := dedupKey(path)
	if c.seen[key] {
		return false
	}
	c.seen[key] = true

	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		rel = path
	}
	c.files = append(c.files, File{AbsPath: path, RelPath: rel})
	return true
}

// dedupKey resolves symlinks and case-folds so that one physical file
// reachable through several logical paths is counted once.
func dedupKey(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		abs = resolved
	}
	return strings.ToLower(abs)
}

// isMarkdown reports whether path has a Markdown extension, case-insensitively.
func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
