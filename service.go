package repopdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/repopdf/repopdf/internal/assemble"
	"github.com/repopdf/repopdf/internal/clean"
	"github.com/repopdf/repopdf/internal/collect"
	"github.com/repopdf/repopdf/internal/config"
	"github.com/repopdf/repopdf/internal/fetch"
	"github.com/repopdf/repopdf/internal/fileutil"
	"github.com/repopdf/repopdf/internal/images"
	"github.com/repopdf/repopdf/internal/mdhtml"
	"github.com/repopdf/repopdf/internal/pathmatch"
	"github.com/repopdf/repopdf/internal/render"
)

// Service runs the export pipeline. Construct with New; a Service is safe
// to reuse across jobs but runs them strictly sequentially.
type Service struct {
	cfg      *config.Config
	fetcher  *fetch.Client
	backends []*render.Backend
	warnf    func(format string, args ...any)
}

// Option configures a Service.
type Option func(*Service)

// WithWarnf routes non-fatal warnings (missing backends, env typos) to a
// caller-supplied sink. The default discards them.
func WithWarnf(f func(format string, args ...any)) Option {
	return func(s *Service) { s.warnf = f }
}

// WithFetcher injects a fetch client, mostly for tests.
func WithFetcher(c *fetch.Client) Option {
	return func(s *Service) { s.fetcher = c }
}

// WithBackends overrides the rendering backend list, mostly for tests.
func WithBackends(backends []*render.Backend) Option {
	return func(s *Service) { s.backends = backends }
}

// New creates a Service with the given configuration.
func New(cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Service{
		cfg:      cfg,
		backends: render.Backends(),
		warnf:    func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		s.fetcher = fetch.NewClient(cfg.FetchTimeout())
	}
	return s
}

// Export runs the full pipeline for one job and writes the PDF to
// job.OutputPath. Any failure aborts the run; temporary state is removed
// on every path.
func (s *Service) Export(ctx context.Context, job Job) error {
	if err := job.validate(); err != nil {
		return err
	}

	tempDir, cleanup, err := fileutil.TempDir()
	if err != nil {
		return err
	}
	defer cleanup()

	files, err := s.collectSections(job, tempDir)
	if err != nil {
		return err
	}

	inputs := assemble.Inputs{
		Intro:   job.Intro,
		Files:   files,
		Credits: job.Credits,
	}
	if job.MetaURL != "" {
		meta, err := s.fetcher.PageMeta(ctx, job.MetaURL)
		if err != nil {
			return err
		}
		inputs.URLMeta = meta
	}
	if job.BodyURL != "" {
		body, err := s.fetcher.PageBody(ctx, job.BodyURL)
		if err != nil {
			return err
		}
		inputs.URLBody = body
	}

	sections, err := assemble.Assemble(inputs)
	if err != nil {
		return err
	}
	merged := assemble.Merge(sections)

	html, err := s.toHTML(ctx, merged, job)
	if err != nil {
		return err
	}

	return s.render(ctx, html, job, tempDir)
}

// collectSections discovers, cleans, and stages the document files.
// Cleaning works on copies written under the invocation temp dir; the
// originals are never touched.
func (s *Service) collectSections(job Job, tempDir string) ([]assemble.Section, error) {
	if !job.hasFileInput() {
		return nil, nil
	}

	files, err := collect.Collect(job.Root, pathmatch.Split(job.Exclude))
	if err != nil {
		return nil, err
	}

	cleanOpts := clean.Options{
		KeepBadges:  s.cfg.Clean.KeepBadges,
		KeepSymbols: s.cfg.Clean.KeepSymbols,
		BadgeHosts:  s.cfg.Clean.BadgeHosts,
	}

	sections := make([]assemble.Section, 0, len(files))
	for _, f := range files {
		raw, err := os.ReadFile(f.AbsPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadFile, f.RelPath, err)
		}
		cleaned := clean.Clean(string(raw), cleanOpts)
		if _, err := fileutil.WriteFileIn(tempDir, filepath.Join("clean", f.RelPath), cleaned); err != nil {
			return nil, err
		}
		sections = append(sections, assemble.Section{
			Kind:    assemble.KindFile,
			Name:    f.RelPath,
			Content: cleaned,
			Dir:     filepath.Dir(f.AbsPath),
		})
	}
	return sections, nil
}

// toHTML converts the merged Markdown with image resolution hooked into
// the conversion.
func (s *Service) toHTML(ctx context.Context, merged string, job Job) (string, error) {
	var searchPaths []string
	if job.Root != "" {
		var err error
		searchPaths, err = images.SearchPaths(job.Root)
		if err != nil {
			return "", fmt.Errorf("building image search paths: %w", err)
		}
	}

	return mdhtml.Convert(ctx, merged, mdhtml.Options{
		Theme:  s.cfg.Render.Theme,
		Title:  s.cfg.Document.Title,
		Author: s.cfg.Document.Author,
		Date:   s.cfg.Document.Date,
		CSS:    s.cfg.Render.CSS,
		Transformer: &images.Transformer{
			SearchPaths: searchPaths,
			NoImages:    job.NoImages || s.cfg.Images.Disabled,
		},
	})
}

// render selects a backend and produces the PDF.
func (s *Service) render(ctx context.Context, html string, job Job, tempDir string) error {
	probes := render.ProbeAll(s.backends)
	backend, available, err := render.Choose(s.backends, probes, s.cfg.Render.Engine)
	if err != nil {
		return err
	}
	if !available {
		s.warnf("no rendering engine detected; attempting %s anyway", backend.Name)
	}

	return backend.Render(ctx, &render.Request{
		HTML:       html,
		SourceRoot: job.Root,
		WorkDir:    tempDir,
		OutputPath: job.OutputPath,
		Title:      s.cfg.Document.Title,
		Author:     s.cfg.Document.Author,
		Date:       s.cfg.Document.Date,
	})
}
