package main

import (
	"errors"
	"os"

	repopdf "github.com/repopdf/repopdf"
	"github.com/repopdf/repopdf/internal/config"
)

// Exit codes for the repopdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful export
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitRender  = 4 // Rendering engine errors
	ExitFetch   = 5 // Network retrieval errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Network errors (exit 5)
	if errors.Is(err, repopdf.ErrFetch) {
		return ExitFetch
	}

	// Rendering errors (exit 4)
	if errors.Is(err, repopdf.ErrRender) ||
		errors.Is(err, repopdf.ErrToolMissing) ||
		errors.Is(err, repopdf.ErrConversion) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, repopdf.ErrNotDirectory) ||
		errors.Is(err, repopdf.ErrReadFile) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, repopdf.ErrNoInput) ||
		errors.Is(err, repopdf.ErrOutputExtension) ||
		errors.Is(err, repopdf.ErrEmptyResult) ||
		errors.Is(err, repopdf.ErrUnknownEngine) {
		return ExitUsage
	}

	return ExitGeneral
}
