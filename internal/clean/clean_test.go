package clean

// Notes:
// - Idempotence is asserted by running Clean twice on the badge fixtures.
// - The badge heuristic only ever fires on remote URLs; local .png paths
//   must survive so the image resolver can still see them.

import (
	"strings"
	"testing"
)

func TestCleanBadges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "linked shields badge removed",
			in:   "# Title\n[![Build](https://img.shields.io/badge/build-passing-green)](https://ci.example.com)\ntext",
			want: "# Title\n\ntext",
		},
		{
			name: "bare svg badge removed",
			in:   "before ![cov](https://example.com/coverage.svg) after",
			want: "before  after",
		},
		{
			name: "png badge with query string removed",
			in:   "![ci](https://travis-ci.org/u/r.png?branch=main)",
			want: "",
		},
		{
			name: "html img badge removed",
			in:   `<img src="https://codecov.io/gh/u/r/badge.svg" alt="codecov">`,
			want: "",
		},
		{
			name: "reference definition removed",
			in:   "text\n[build-badge]: https://img.shields.io/badge/x.svg\nmore",
			want: "text\n\nmore",
		},
		{
			name: "local image untouched",
			in:   "![logo](./img/logo.png)",
			want: "![logo](./img/logo.png)",
		},
		{
			name: "remote jpeg untouched",
			in:   "![photo](https://example.com/photo.jpg)",
			want: "![photo](https://example.com/photo.jpg)",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Clean(tt.in, Options{KeepSymbols: true})
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Clean(got, Options{KeepSymbols: true}); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestCleanKeepBadges(t *testing.T) {
	t.Parallel()

	in := "![ci](https://img.shields.io/badge/x.svg)"
	got := Clean(in, Options{KeepBadges: true, KeepSymbols: true})
	if got != in {
		t.Errorf("KeepBadges: got %q, want unchanged", got)
	}
}

func TestCleanExtraBadgeHosts(t *testing.T) {
	t.Parallel()

	in := "![status](https://status.internal.example/ok.gif)"
	opts := Options{KeepSymbols: true, BadgeHosts: []string{"status.internal.example"}}
	if got := Clean(in, opts); got != "" {
		t.Errorf("custom host badge survived: %q", got)
	}
}

func TestCleanSymbols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "emoticon stripped",
			in:   "Hello \U0001F600 world",
			want: "Hello  world",
		},
		{
			name: "flag pair stripped",
			in:   "lang: \U0001F1EB\U0001F1F7 French",
			want: "lang:  French",
		},
		{
			name: "zwj sequence stripped",
			in:   "team \U0001F469‍\U0001F4BB here",
			want: "team  here",
		},
		{
			name: "dingbat and variation selector stripped",
			in:   "done ✔️!",
			want: "done !",
		},
		{
			name: "plain unicode text preserved",
			in:   "café 中文 рус",
			want: "café 中文 рус",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Clean(tt.in, Options{KeepBadges: true}); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	t.Run("keep symbols toggle", func(t *testing.T) {
		t.Parallel()
		in := "Hello \U0001F600"
		if got := Clean(in, Options{KeepBadges: true, KeepSymbols: true}); got != in {
			t.Errorf("KeepSymbols: got %q, want unchanged", got)
		}
	})
}

func TestCleanBlankLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "double blank run collapses",
			in:   "a\n\n\nb",
			want: "a\n\nb",
		},
		{
			name: "long whitespace-only run collapses",
			in:   "a\n \n\t\n   \nb",
			want: "a\n\nb",
		},
		{
			name: "single blank line preserved",
			in:   "a\n\nb",
			want: "a\n\nb",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Clean(tt.in, Options{KeepBadges: true, KeepSymbols: true})
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanStrippingLeavesBlankRunForCollapse(t *testing.T) {
	t.Parallel()

	// A badge on its own line leaves a blank line behind, which the final
	// collapse pass absorbs.
	in := "# Title\n\n![ci](https://img.shields.io/x.svg)\n\nIntro."
	got := Clean(in, Options{KeepSymbols: true})
	if strings.Contains(got, "shields.io") {
		t.Fatalf("badge survived: %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank run survived: %q", got)
	}
}
