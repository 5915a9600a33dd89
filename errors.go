package repopdf

import (
	"errors"

	"github.com/repopdf/repopdf/internal/assemble"
	"github.com/repopdf/repopdf/internal/collect"
	"github.com/repopdf/repopdf/internal/fetch"
	"github.com/repopdf/repopdf/internal/mdhtml"
	"github.com/repopdf/repopdf/internal/render"
)

// Sentinel errors for export operations. Pipeline-stage sentinels are
// re-exported so callers match them without importing internal packages.
var (
	ErrNoInput         = errors.New("no input specified: provide a source root, an intro, or a URL")
	ErrOutputExtension = errors.New("output file must have a .pdf extension")
	ErrReadFile        = errors.New("failed to read markdown file")

	ErrNotDirectory  = collect.ErrNotDirectory
	ErrEmptyResult   = assemble.ErrNoSections
	ErrFetch         = fetch.ErrFetch
	ErrConversion    = mdhtml.ErrConversion
	ErrRender        = render.ErrRender
	ErrToolMissing   = render.ErrNoBackend
	ErrUnknownEngine = render.ErrUnknownEngine
)
