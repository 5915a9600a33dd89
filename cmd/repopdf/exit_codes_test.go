package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	repopdf "github.com/repopdf/repopdf"
	"github.com/repopdf/repopdf/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil is success", nil, ExitSuccess},
		{"fetch error", repopdf.ErrFetch, ExitFetch},
		{"wrapped fetch error", fmt.Errorf("context: %w", repopdf.ErrFetch), ExitFetch},
		{"render error", repopdf.ErrRender, ExitRender},
		{"missing tool", repopdf.ErrToolMissing, ExitRender},
		{"conversion error", repopdf.ErrConversion, ExitRender},
		{"file not found", os.ErrNotExist, ExitIO},
		{"not a directory", repopdf.ErrNotDirectory, ExitIO},
		{"unreadable markdown", repopdf.ErrReadFile, ExitIO},
		{"usage error", ErrUsage, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse failure", config.ErrConfigParse, ExitUsage},
		{"no input", repopdf.ErrNoInput, ExitUsage},
		{"bad output extension", repopdf.ErrOutputExtension, ExitUsage},
		{"empty result", repopdf.ErrEmptyResult, ExitUsage},
		{"unknown engine", repopdf.ErrUnknownEngine, ExitUsage},
		{"unclassified error", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
