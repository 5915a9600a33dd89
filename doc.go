// Package repopdf merges a repository's Markdown documentation into a
// single paginated PDF.
//
// # Quick Start
//
// Create a service and export a tree (nil config means built-in defaults):
//
//	svc := repopdf.New(nil)
//	err := svc.Export(ctx, repopdf.Job{
//	    Root:       "/path/to/repo",
//	    IncludeAll: true,
//	    OutputPath: "docs.pdf",
//	})
//
// # Pipeline
//
// An export runs in fixed stages:
//
//  1. File discovery: README first, then docs/, then root-level files,
//     then the rest of the tree, deduplicated by resolved path.
//  2. Content cleaning: badge stripping, emoji stripping, blank-line
//     collapsing, on isolated copies.
//  3. Section assembly: optional intro, fetched-URL sections, the file
//     list, optional credits, separated by page breaks.
//  4. Image resolution during Markdown conversion: local references are
//     located through an ordered search-path list; remote images collapse
//     to their caption and are never fetched.
//  5. Rendering through the first available backend (headless Chrome,
//     pandoc, wkhtmltopdf, or weasyprint).
//
// Optional sections can pull remote content: a metadata intro extracted
// from a fetched page, or a full page body converted from HTML to
// Markdown. Network retrieval has a bounded timeout and retry count.
//
// All intermediate files live in a per-invocation temporary directory
// removed when the export finishes, whether it succeeded or not.
//
// # Browser Requirements
//
// The default backend drives Chrome/Chromium through go-rod, which
// downloads a managed Chromium on first run. In containers and CI set
// ROD_NO_SANDBOX=1; use ROD_BROWSER_BIN to point at a specific binary.
package repopdf
