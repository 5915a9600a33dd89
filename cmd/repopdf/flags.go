package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// sourceFlags holds file collection flags.
type sourceFlags struct {
	root     string
	all      bool
	exclude  []string
	noImages bool
}

// sectionFlags holds flags for sections that are not collected files.
type sectionFlags struct {
	intro      string
	metaURL    string
	contentURL string
	credits    string
}

// documentFlags holds document metadata flags.
type documentFlags struct {
	title  string
	author string
	date   string
}

// renderFlags holds rendering flags.
type renderFlags struct {
	theme  string
	engine string
	css    string
}

// cleanFlags holds content normalization flags.
type cleanFlags struct {
	keepBadges  bool
	keepSymbols bool
}

// exportFlags holds all flags for the export command. The FlagSet is kept
// so the merge step can tell set flags from defaults.
type exportFlags struct {
	fs       *flag.FlagSet
	common   commonFlags
	source   sourceFlags
	sections sectionFlags
	document documentFlags
	render   renderFlags
	clean    cleanFlags
}

// sitemapFlags holds all flags for the sitemap command.
type sitemapFlags struct {
	fs       *flag.FlagSet
	common   commonFlags
	noImages bool
	document documentFlags
	render   renderFlags
	clean    cleanFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show progress detail")
}

// addSourceFlags adds file collection flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVarP(&f.root, "root", "r", "", "source directory to collect Markdown from")
	fs.BoolVarP(&f.all, "all", "a", false, "collect all Markdown files under the root")
	fs.StringArrayVarP(&f.exclude, "exclude", "e", nil, "exclusion glob (repeatable, comma-separated entries allowed)")
	fs.BoolVar(&f.noImages, "no-images", false, "replace every image with its caption")
}

// addSectionFlags adds standalone section flags to a FlagSet.
func addSectionFlags(fs *flag.FlagSet, f *sectionFlags) {
	fs.StringVar(&f.intro, "intro", "", "leading Markdown section")
	fs.StringVar(&f.metaURL, "url", "", "fetch page metadata from URL as a section")
	fs.StringVar(&f.contentURL, "url-content", "", "fetch and convert a full page from URL as a section")
	fs.StringVar(&f.credits, "credits", "", "trailing Markdown section")
}

// addDocumentFlags adds document metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "document title")
	fs.StringVar(&f.author, "author", "", "document author")
	fs.StringVar(&f.date, "date", "", "document date (\"auto\" = today)")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.theme, "theme", "t", "", "syntax-highlight theme name")
	fs.StringVar(&f.engine, "engine", "", "force a rendering engine: chrome, pandoc, wkhtmltopdf, weasyprint")
	fs.StringVar(&f.css, "css", "", "extra CSS file injected into the document")
}

// addCleanFlags adds content normalization flags to a FlagSet.
func addCleanFlags(fs *flag.FlagSet, f *cleanFlags) {
	fs.BoolVar(&f.keepBadges, "keep-badges", false, "keep badge images and reference-link definitions")
	fs.BoolVar(&f.keepSymbols, "keep-symbols", false, "keep emoji and pictographic symbols")
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string) (*exportFlags, []string, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	f := &exportFlags{fs: fs}

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)
	addSectionFlags(fs, &f.sections)
	addDocumentFlags(fs, &f.document)
	addRenderFlags(fs, &f.render)
	addCleanFlags(fs, &f.clean)

	fs.Usage = func() { printExportUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseSitemapFlags parses sitemap command flags and returns positional args.
func parseSitemapFlags(args []string) (*sitemapFlags, []string, error) {
	fs := flag.NewFlagSet("sitemap", flag.ContinueOnError)
	f := &sitemapFlags{fs: fs}

	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.noImages, "no-images", false, "replace every image with its caption")
	addDocumentFlags(fs, &f.document)
	addRenderFlags(fs, &f.render)
	addCleanFlags(fs, &f.clean)

	fs.Usage = func() { printSitemapUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
