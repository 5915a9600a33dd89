package repopdf

import "strings"

// Job describes one export invocation. Fields left zero simply disable the
// corresponding section or behavior.
type Job struct {
	Root       string   // source tree; required for file collection
	IncludeAll bool     // collect Markdown files (required for any file output)
	Exclude    []string // exclusion globs, each entry may be comma-separated

	Intro   string // optional leading section, Markdown
	MetaURL string // optional: fetch page metadata into an intro-style section
	BodyURL string // optional: fetch and convert a full page body section
	Credits string // optional trailing section, Markdown

	NoImages bool // caption-or-drop every image without filesystem lookups

	OutputPath string // must end in .pdf
}

// validate checks the invariants that do not require touching the
// filesystem.
func (j Job) validate() error {
	if !strings.HasSuffix(strings.ToLower(j.OutputPath), ".pdf") {
		return ErrOutputExtension
	}
	if j.Root == "" && j.Intro == "" && j.MetaURL == "" && j.BodyURL == "" && j.Credits == "" {
		return ErrNoInput
	}
	return nil
}

// hasFileInput reports whether file collection will run.
func (j Job) hasFileInput() bool {
	return j.Root != "" && j.IncludeAll
}
