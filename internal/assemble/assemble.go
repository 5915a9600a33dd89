// Package assemble builds the ordered section sequence for a single export.
//
// The relative order is fixed: intro, fetched-URL metadata, fetched-URL
// body, the collected document files, credits. Absent optional sections are
// skipped. Page-break markers separate adjacent sections; none leads or
// trails the sequence.
package assemble

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSections indicates that an export would produce a vacuous document.
var ErrNoSections = errors.New("no content sections to render")

// PageBreakPlaceholder separates sections in the merged Markdown. A Private
// Use Area character passes through Markdown conversion untouched; the HTML
// stage replaces the paragraph holding it with a page-break element.
const PageBreakPlaceholder = ""

// Kind tags a section's origin.
type Kind int

const (
	KindIntro Kind = iota
	KindURLMeta
	KindURLBody
	KindFile
	KindCredits
)

// Section is one unit of content contributing to the final document.
type Section struct {
	Kind    Kind
	Name    string // display name: relative path, host, or synthetic label
	Content string // Markdown content
	Dir     string // originating directory, for image resolution (files only)
}

// PageMeta is the extracted metadata of a fetched page.
type PageMeta struct {
	Title       string
	Description string
	URL         string
}

// PageBody is the converted body of a fetched page.
type PageBody struct {
	Host     string
	URL      string
	Markdown string
}

// Inputs collects the optional and mandatory content sources.
type Inputs struct {
	Intro   string
	URLMeta *PageMeta
	URLBody *PageBody
	Files   []Section // KindFile sections, already ordered and cleaned
	Credits string
}

// Assemble produces the final ordered section sequence. It fails with
// ErrNoSections when nothing at all would be rendered.
func Assemble(in Inputs) ([]Section, error) {
	var sections []Section

	if strings.TrimSpace(in.Intro) != "" {
		sections = append(sections, Section{Kind: KindIntro, Name: "intro", Content: in.Intro})
	}
	if in.URLMeta != nil {
		sections = append(sections, Section{
			Kind:    KindURLMeta,
			Name:    in.URLMeta.URL,
			Content: formatPageMeta(in.URLMeta),
		})
	}
	if in.URLBody != nil {
		sections = append(sections, Section{
			Kind:    KindURLBody,
			Name:    in.URLBody.URL,
			Content: formatPageBody(in.URLBody),
		})
	}
	sections = append(sections, in.Files...)
	if strings.TrimSpace(in.Credits) != "" {
		sections = append(sections, Section{Kind: KindCredits, Name: "credits", Content: in.Credits})
	}

	if len(sections) == 0 {
		return nil, ErrNoSections
	}
	return sections, nil
}

// Merge joins sections into one Markdown document with page-break
// placeholders between adjacent sections.
func Merge(sections []Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
			b.WriteString(PageBreakPlaceholder)
			b.WriteString("\n\n")
		}
		b.WriteString(strings.TrimRight(s.Content, "\n"))
	}
	b.WriteString("\n")
	return b.String()
}

// formatPageMeta renders fetched metadata as an intro-style section.
func formatPageMeta(m *PageMeta) string {
	var b strings.Builder
	title := m.Title
	if title == "" {
		title = m.URL
	}
	fmt.Fprintf(&b, "# %s\n", title)
	if m.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", m.Description)
	}
	fmt.Fprintf(&b, "\nSource: <%s>\n", m.URL)
	return b.String()
}

// formatPageBody prepends the synthesized heading and attribution line to
// converted page content.
func formatPageBody(p *PageBody) string {
	return fmt.Sprintf("# Imported from `%s`\n\nSource: <%s>\n\n%s\n", p.Host, p.URL, p.Markdown)
}
