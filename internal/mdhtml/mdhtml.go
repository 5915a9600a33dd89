// Package mdhtml converts assembled Markdown to a standalone HTML document
// for the HTML-based rendering backends.
package mdhtml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmlesc "html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/repopdf/repopdf/internal/assemble"
)

// ErrConversion indicates Markdown to HTML conversion failed.
var ErrConversion = errors.New("HTML conversion failed")

// DefaultTheme is the syntax-highlight theme used when none is configured.
const DefaultTheme = "github"

// pageBreakDiv is what a page-break placeholder becomes in HTML.
const pageBreakDiv = `<div class="page-break"></div>`

// baseCSS carries the page-break rule and minimal print defaults; all other
// styling belongs to the external engine's configuration.
const baseCSS = `.page-break { page-break-after: always; break-after: page; }
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; line-height: 1.5; }
img { max-width: 100%; }
pre { overflow-x: auto; }
header.doc-meta { border-bottom: 1px solid #ccc; margin-bottom: 2em; padding-bottom: 1em; }
header.doc-meta p { color: #555; }`

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s
</style>
</head>
<body>
%s%s
</body>
</html>`

// Options configure a single conversion.
type Options struct {
	Theme       string                // chroma style name; DefaultTheme if empty
	Title       string                // document title for the HTML head
	Author      string                // shown in the header block when set
	Date        string                // shown in the header block when set
	CSS         string                // extra style injected after the base CSS
	Transformer parser.ASTTransformer // image resolution hook, may be nil
}

// Convert turns merged Markdown into a standalone HTML5 document. Goldmark
// has no native context support, so cancellation uses a goroutine plus
// select.
func Convert(ctx context.Context, markdown string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	gm := newGoldmark(opts)

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := gm.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrConversion, err)}
			return
		}
		body := convertPageBreaks(buf.String())
		title := opts.Title
		if title == "" {
			title = "Document"
		}
		css := baseCSS
		if opts.CSS != "" {
			css = css + "\n" + opts.CSS
		}
		done <- result{html: fmt.Sprintf(htmlTemplate, htmlesc.EscapeString(title), css, metaHeader(opts), body)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// newGoldmark builds the converter with GFM, footnotes, themed syntax
// highlighting, and the optional image transformer.
func newGoldmark(opts Options) goldmark.Markdown {
	theme := opts.Theme
	if theme == "" {
		theme = DefaultTheme
	}

	parserOpts := []parser.Option{parser.WithAutoHeadingID()}
	if opts.Transformer != nil {
		parserOpts = append(parserOpts, parser.WithASTTransformers(util.Prioritized(opts.Transformer, 100)))
	}

	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(theme),
				highlighting.WithFormatOptions(
					chromahtml.TabWidth(4),
				),
			),
		),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// WithUnsafe is intentionally not used; page breaks travel as
			// placeholder characters converted after conversion.
		),
	)
}

// metaHeader renders the document metadata block. An untitled document
// gets no header; author and date form a byline under the title.
func metaHeader(opts Options) string {
	if opts.Title == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("<header class=\"doc-meta\">\n")
	b.WriteString("<h1>" + htmlesc.EscapeString(opts.Title) + "</h1>\n")

	var byline []string
	if opts.Author != "" {
		byline = append(byline, htmlesc.EscapeString(opts.Author))
	}
	if opts.Date != "" {
		byline = append(byline, htmlesc.EscapeString(opts.Date))
	}
	if len(byline) > 0 {
		b.WriteString("<p>" + strings.Join(byline, ", ") + "</p>\n")
	}

	b.WriteString("</header>\n")
	return b.String()
}

// convertPageBreaks replaces placeholder paragraphs with page-break
// elements. A stray placeholder outside a paragraph is replaced too.
func convertPageBreaks(body string) string {
	body = strings.ReplaceAll(body, "<p>"+assemble.PageBreakPlaceholder+"</p>", pageBreakDiv)
	return strings.ReplaceAll(body, assemble.PageBreakPlaceholder, pageBreakDiv)
}
