package main

import (
	"context"
	"errors"
	"fmt"

	repopdf "github.com/repopdf/repopdf"
	"github.com/repopdf/repopdf/internal/config"
)

// ErrUsage indicates invalid command invocation.
var ErrUsage = errors.New("invalid usage")

// loadRunConfig builds the effective configuration: defaults, then the
// YAML file (flag or REPOPDF_CONFIG), then environment overrides. CLI
// flags are merged afterward so they always win.
func loadRunConfig(common *commonFlags) (*config.Config, []string, error) {
	path := common.config
	if path == "" {
		path = config.EnvConfigPath()
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	warnings := config.ApplyEnv(cfg)
	return cfg, warnings, nil
}

// mergeExportFlags overlays explicitly set CLI flags onto cfg.
func mergeExportFlags(f *exportFlags, cfg *config.Config) {
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

// warnSink routes warnings according to quiet mode.
func warnSink(common *commonFlags, env *Environment) func(format string, args ...any) {
	if common.quiet {
		return func(string, ...any) {}
	}
	return func(format string, args ...any) {
		fmt.Fprintf(env.Stderr, "warning: "+format+"\n", args...)
	}
}

// runExport executes the export command.
func runExport(ctx context.Context, positional []string, f *exportFlags, env *Environment) error {
	if len(positional) != 1 {
		printExportUsage(env.Stderr)
		return fmt.Errorf("%w: export takes exactly one output path", ErrUsage)
	}

	cfg, warnings, err := loadRunConfig(&f.common)
	if err != nil {
		return err
	}
	mergeExportFlags(f, cfg)
	cfg.Document.Date = config.ResolveDate(cfg.Document.Date, env.Now)

	warnf := warnSink(&f.common, env)
	for _, w := range warnings {
		warnf("%s", w)
	}

	job := repopdf.Job{
		Root:       f.source.root,
		IncludeAll: f.source.all,
		Exclude:    f.source.exclude,
		Intro:      f.sections.intro,
		MetaURL:    f.sections.metaURL,
		BodyURL:    f.sections.contentURL,
		Credits:    f.sections.credits,
		NoImages:   f.source.noImages,
		OutputPath: positional[0],
	}

	if f.common.verbose {
		fmt.Fprintf(env.Stderr, "Exporting to %s\n", job.OutputPath)
	}

	svc := repopdf.New(cfg, repopdf.WithWarnf(warnf))
	if err := svc.Export(ctx, job); err != nil {
		return err
	}

	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Wrote %s\n", job.OutputPath)
	}
	return nil
}
