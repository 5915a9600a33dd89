// Package clean normalizes Markdown content before assembly.
//
// Three transformations run in a fixed order: badge stripping, decorative
// symbol stripping, then blank-line collapsing. The first two are
// independently toggleable; all three are idempotent.
package clean

import (
	"regexp"
	"strings"
)

// DefaultBadgeHosts is the allow-list of remote hosts whose images are
// treated as status badges. It is data, not logic: configuration may extend
// it without touching the matching code.
var DefaultBadgeHosts = []string{
	"img.shields.io",
	"badge.fury.io",
	"badgen.net",
	"travis-ci.org",
	"travis-ci.com",
	"circleci.com",
	"ci.appveyor.com",
	"codecov.io",
	"coveralls.io",
	"codeclimate.com",
	"snyk.io",
	"goreportcard.com",
	"bestpractices.coreinfrastructure.org",
	"readthedocs.org",
	"dev.azure.com",
	"github.com/badges",
	"actions/workflows",
}

// Options controls which normalizations apply.
type Options struct {
	KeepBadges  bool     // pass badge images through unchanged
	KeepSymbols bool     // pass emoji and pictographs through unchanged
	BadgeHosts  []string // extra badge hosts beyond DefaultBadgeHosts
}

// Precompiled patterns for the three badge surface forms plus
// reference-style link definitions.
var (
	linkedBadge = regexp.MustCompile(`\[!\[[^\]]*\]\(([^)\s]+)[^)]*\)\]\([^)]*\)`)
	bareBadge   = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)[^)]*\)`)
	htmlImgTag  = regexp.MustCompile(`(?i)<img\s[^>]*src\s*=\s*["']([^"']+)["'][^>]*/?>`)
	refLinkDef  = regexp.MustCompile(`(?m)^\[[^\]]+\]:\s*(\S+).*$`)

	blankRun = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)
)

// Clean applies the enabled normalizations to content and returns the
// transformed copy. The input is never modified.
func Clean(content string, opts Options) string {
	if !opts.KeepBadges {
		content = stripBadges(content, append(opts.BadgeHosts, DefaultBadgeHosts...))
	}
	if !opts.KeepSymbols {
		content = stripSymbols(content)
	}
	return collapseBlankLines(content)
}

// stripBadges removes badge references in all three surface forms, plus
// reference-style definitions pointing at badge targets.
func stripBadges(content string, hosts []string) string {
	drop := func(re *regexp.Regexp, text string) string {
		return re.ReplaceAllStringFunc(text, func(m string) string {
			sub := re.FindStringSubmatch(m)
			if len(sub) > 1 && isBadgeURL(sub[1], hosts) {
				return ""
			}
			return m
		})
	}
	// Link-wrapped badges must go before bare images so the wrapping link
	// is removed together with the image.
	content = drop(linkedBadge, content)
	content = drop(bareBadge, content)
	content = drop(htmlImgTag, content)
	content = drop(refLinkDef, content)
	return content
}

// isBadgeURL applies the badge heuristic to a remote URL: a known badge
// host, or an svg/png target with an optional query string. Local paths are
// never badges.
func isBadgeURL(raw string, hosts []string) bool {
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	for _, h := range hosts {
		if strings.Contains(lower, strings.ToLower(h)) {
			return true
		}
	}
	if i := strings.IndexByte(lower, '?'); i >= 0 {
		lower = lower[:i]
	}
	return strings.HasSuffix(lower, ".svg") || strings.HasSuffix(lower, ".png")
}

// symbolRanges are the stripped code-point blocks: pictographs, emoticons,
// transport, supplemental symbols, misc symbols, dingbats, and regional
// indicator flags.
var symbolRanges = [][2]rune{
	{0x1F300, 0x1F5FF},
	{0x1F600, 0x1F64F},
	{0x1F680, 0x1F6FF},
	{0x1F900, 0x1F9FF},
	{0x1FA70, 0x1FAFF},
	{0x2600, 0x26FF},
	{0x2700, 0x27BF},
	{0x1F1E6, 0x1F1FF},
	{0xFE00, 0xFE0F}, // variation selectors
	{0x200D, 0x200D}, // zero-width joiner
}

// stripSymbols removes decorative code points, leaving surrounding text intact.
func stripSymbols(content string) string {
	return strings.Map(func(r rune) rune {
		for _, rng := range symbolRanges {
			if r >= rng[0] && r <= rng[1] {
				return -1
			}
		}
		return r
	}, content)
}

// collapseBlankLines reduces every run of two or more blank or
// whitespace-only lines to exactly one blank line.
func collapseBlankLines(content string) string {
	return blankRun.ReplaceAllString(content, "\n\n")
}
