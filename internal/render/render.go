// Package render hands the assembled document to an external PDF engine.
//
// Backends are described by descriptors carrying an availability probe and
// an invocation method; selection over probe results is a pure function.
// A backend flagged RequiresStaging writes its intermediate representation
// under the source root and produces the PDF in an engine-owned cache
// directory before the result is relocated; sandboxed engines need this,
// expressed as a capability rather than a name check.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/repopdf/repopdf/internal/fileutil"
)

// Sentinel errors for rendering.
var (
	ErrRender        = errors.New("PDF rendering failed")
	ErrNoBackend     = errors.New("no rendering backend detected")
	ErrUnknownEngine = errors.New("unknown rendering engine")
)

// Request carries one document through a backend.
type Request struct {
	HTML       string // standalone HTML document
	SourceRoot string // staged intermediates are written here
	WorkDir    string // per-invocation temp directory
	OutputPath string
	Title      string
	Author     string
	Date       string
}

// Backend describes one rendering engine. Probe reports availability;
// Invoke converts the written HTML file into a PDF at pdfPath.
type Backend struct {
	Name            string
	RequiresStaging bool
	Probe           func() bool
	Invoke          func(ctx context.Context, req *Request, htmlPath, pdfPath string) error
}

// runner abstracts external command execution for testing.
type runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %v: %s", name, err, out)
	}
	return nil
}

func lookPath(bin string) func() bool {
	return func() bool {
		_, err := exec.LookPath(bin)
		return err == nil
	}
}

// Backends returns the descriptors in priority order. Chrome leads: rod can
// fetch a managed Chromium even when none is installed, so it remains the
// default attempt when every probe fails.
func Backends() []*Backend {
	run := execRunner{}
	return []*Backend{
		{
			Name: "chrome",
			Probe: func() bool {
				if os.Getenv("ROD_BROWSER_BIN") != "" {
					return true
				}
				_, found := launcher.LookPath()
				return found
			},
			Invoke: invokeChrome,
		},
		{
			Name:            "pandoc",
			RequiresStaging: true,
			Probe:           lookPath("pandoc"),
			Invoke: func(ctx context.Context, req *Request, htmlPath, pdfPath string) error {
				return invokePandoc(ctx, run, req, htmlPath, pdfPath)
			},
		},
		{
			Name:  "wkhtmltopdf",
			Probe: lookPath("wkhtmltopdf"),
			Invoke: func(ctx context.Context, req *Request, htmlPath, pdfPath string) error {
				return invokeWkhtmltopdf(ctx, run, req, htmlPath, pdfPath)
			},
		},
		{
			Name:  "weasyprint",
			Probe: lookPath("weasyprint"),
			Invoke: func(ctx context.Context, req *Request, htmlPath, pdfPath string) error {
				return invokeWeasyprint(ctx, run, req, htmlPath, pdfPath)
			},
		},
	}
}

// ProbeAll runs every availability probe once.
func ProbeAll(backends []*Backend) map[string]bool {
	probes := make(map[string]bool, len(backends))
	for _, b := range backends {
		probes[b.Name] = b.Probe()
	}
	return probes
}

// Choose picks the backend to invoke: the forced engine when requested, or
// the first available by priority. When nothing probes available the first
// backend is returned with available=false; the caller warns and attempts
// it anyway. Pure over the probe results.
func Choose(backends []*Backend, probes map[string]bool, forced string) (b *Backend, available bool, err error) {
	if forced != "" {
		for _, b := range backends {
			if b.Name == forced {
				return b, probes[b.Name], nil
			}
		}
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownEngine, forced)
	}
	for _, b := range backends {
		if probes[b.Name] {
			return b, true, nil
		}
	}
	return backends[0], false, nil
}

// Render writes the request's HTML to disk, invokes the backend, and
// leaves the PDF at req.OutputPath. Staged backends write the intermediate
// under the source root and relocate the PDF from the engine cache
// directory; intermediates are removed on success and failure alike.
func (b *Backend) Render(ctx context.Context, req *Request) error {
	if b.RequiresStaging {
		return b.renderStaged(ctx, req)
	}

	htmlPath, err := fileutil.WriteFileIn(req.WorkDir, "document.html", req.HTML)
	if err != nil {
		return err
	}

	if err := b.Invoke(ctx, req, htmlPath, req.OutputPath); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return verifyOutput(req.OutputPath)
}

// renderStaged performs the two-step conversion for sandboxed engines.
func (b *Backend) renderStaged(ctx context.Context, req *Request) error {
	stagingDir := req.SourceRoot
	if stagingDir == "" {
		stagingDir = req.WorkDir
	}
	stagedName := fmt.Sprintf(".repopdf-staged-%d.html", os.Getpid())
	stagedPath, err := fileutil.WriteFileIn(stagingDir, stagedName, req.HTML)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(stagedPath) }()

	cacheDir, err := engineCacheDir(b.Name)
	if err != nil {
		return err
	}
	cachePDF := filepath.Join(cacheDir, filepath.Base(stagedName)+".pdf")
	defer func() { _ = os.Remove(cachePDF) }()

	if err := b.Invoke(ctx, req, stagedPath, cachePDF); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	if err := verifyOutput(cachePDF); err != nil {
		return err
	}
	return fileutil.MoveFile(cachePDF, req.OutputPath)
}

// engineCacheDir returns the engine-owned scratch directory for staged PDFs.
func engineCacheDir(engine string) (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "repopdf", engine)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating engine cache dir: %w", err)
	}
	return dir, nil
}

// verifyOutput guards against engines that exit zero without producing a
// usable file.
func verifyOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: engine produced no output at %s", ErrRender, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: engine produced an empty file at %s", ErrRender, path)
	}
	return nil
}

func invokePandoc(ctx context.Context, r runner, req *Request, htmlPath, pdfPath string) error {
	args := []string{htmlPath, "-f", "html", "-o", pdfPath, "--resource-path", req.SourceRoot}
	if req.Title != "" {
		args = append(args, "--metadata", "title="+req.Title)
	}
	if req.Author != "" {
		args = append(args, "--metadata", "author="+req.Author)
	}
	if req.Date != "" {
		args = append(args, "--metadata", "date="+req.Date)
	}
	return r.Run(ctx, "pandoc", args...)
}

func invokeWkhtmltopdf(ctx context.Context, r runner, _ *Request, htmlPath, pdfPath string) error {
	return r.Run(ctx, "wkhtmltopdf", "--enable-local-file-access", "--quiet", htmlPath, pdfPath)
}

func invokeWeasyprint(ctx context.Context, r runner, _ *Request, htmlPath, pdfPath string) error {
	return r.Run(ctx, "weasyprint", htmlPath, pdfPath)
}
