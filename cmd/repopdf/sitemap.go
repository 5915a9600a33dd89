package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	repopdf "github.com/repopdf/repopdf"
	"github.com/repopdf/repopdf/internal/config"
	"github.com/repopdf/repopdf/internal/fetch"
	"github.com/repopdf/repopdf/internal/sitemap"
)

const outDirPermissions = 0o750

// mergeSitemapFlags overlays explicitly set CLI flags onto cfg.
func mergeSitemapFlags(f *sitemapFlags, cfg *config.Config) {
	if f.fs.Changed("title") {
		cfg.Document.Title = f.document.title
	}
	if f.fs.Changed("author") {
		cfg.Document.Author = f.document.author
	}
	if f.fs.Changed("date") {
		cfg.Document.Date = f.document.date
	}
	if f.fs.Changed("theme") {
		cfg.Render.Theme = f.render.theme
	}
	if f.fs.Changed("engine") {
		cfg.Render.Engine = f.render.engine
	}
	if f.fs.Changed("css") {
		cfg.Render.CSS = f.render.css
	}
	if f.fs.Changed("keep-badges") {
		cfg.Clean.KeepBadges = f.clean.keepBadges
	}
	if f.fs.Changed("keep-symbols") {
		cfg.Clean.KeepSymbols = f.clean.keepSymbols
	}
}

// runSitemap executes the sitemap batch command: one PDF per page, laid
// out under outdir following the URL path structure.
func runSitemap(ctx context.Context, positional []string, f *sitemapFlags, env *Environment) error {
	if len(positional) != 2 {
		printSitemapUsage(env.Stderr)
		return fmt.Errorf("%w: sitemap takes a sitemap location and an output directory", ErrUsage)
	}
	location, outDir := positional[0], positional[1]

	cfg, warnings, err := loadRunConfig(&f.common)
	if err != nil {
		return err
	}
	mergeSitemapFlags(f, cfg)
	cfg.Document.Date = config.ResolveDate(cfg.Document.Date, env.Now)

	warnf := warnSink(&f.common, env)
	for _, w := range warnings {
		warnf("%s", w)
	}

	client := fetch.NewClient(cfg.FetchTimeout())
	loader := &sitemap.Loader{Client: client, Warnf: warnf}
	pages, err := loader.Load(ctx, location)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("%w: sitemap %s references no pages", ErrUsage, location)
	}

	if f.common.verbose {
		fmt.Fprintf(env.Stderr, "Sitemap lists %d pages\n", len(pages))
	}

	svc := repopdf.New(cfg, repopdf.WithWarnf(warnf), repopdf.WithFetcher(client))
	used := make(map[string]bool)
	var failed int

	for _, page := range pages {
		outPath := planOutputPath(ctx, client, used, outDir, page)
		if err := os.MkdirAll(filepath.Dir(outPath), outDirPermissions); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		job := repopdf.Job{
			BodyURL:    page,
			NoImages:   f.noImages,
			OutputPath: outPath,
		}
		if err := svc.Export(ctx, job); err != nil {
			// One broken page does not abort the batch, but a canceled
			// context does.
			if ctx.Err() != nil {
				return err
			}
			failed++
			warnf("skipping %s: %v", page, err)
			continue
		}
		if f.common.verbose {
			fmt.Fprintf(env.Stderr, "Wrote %s\n", outPath)
		}
	}

	if failed == len(pages) {
		return fmt.Errorf("all %d pages failed to export", failed)
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Exported %d of %d pages to %s\n", len(pages)-failed, len(pages), outDir)
	}
	return nil
}

// planOutputPath derives the PDF path for a page: directory from the URL
// path, base name from the page title when it can be fetched. Name
// collisions get a numeric suffix.
func planOutputPath(ctx context.Context, client *fetch.Client, used map[string]bool, outDir, page string) string {
	var title string
	if body, err := client.Get(ctx, page); err == nil {
		title = fetch.HTMLTitle(body)
	}

	rel := path.Join(sitemap.DirFor(page), sitemap.FileName(title, page))
	rel = sitemap.Unique(used, rel)
	return filepath.Join(outDir, filepath.FromSlash(rel)+".pdf")
}
