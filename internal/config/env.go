package config

import (
	"fmt"
	"os"
	"strings"
)

// envPrefix scopes the recognized environment variables.
const envPrefix = "REPOPDF_"

// knownEnvVars lists valid REPOPDF_* variables. Anything else with the
// prefix earns a typo warning.
var knownEnvVars = map[string]bool{
	"REPOPDF_CONFIG":       true,
	"REPOPDF_THEME":        true,
	"REPOPDF_ENGINE":       true,
	"REPOPDF_KEEP_BADGES":  true,
	"REPOPDF_KEEP_SYMBOLS": true,
	"REPOPDF_NO_IMAGES":    true,
	"REPOPDF_TITLE":        true,
	"REPOPDF_AUTHOR":       true,
	"REPOPDF_DATE":         true,
	"REPOPDF_TIMEOUT":      true,
}

// EnvConfigPath returns the config file path from the environment, if set.
func EnvConfigPath() string {
	return os.Getenv("REPOPDF_CONFIG")
}

// ApplyEnv overlays REPOPDF_* variables onto cfg and returns warnings for
// unrecognized prefixed variables and unparsable values.
func ApplyEnv(cfg *Config) []string {
	var warnings []string

	if v := os.Getenv("REPOPDF_THEME"); v != "" {
		cfg.Render.Theme = v
	}
	if v := os.Getenv("REPOPDF_ENGINE"); v != "" {
		cfg.Render.Engine = v
	}
	if v := os.Getenv("REPOPDF_TITLE"); v != "" {
		cfg.Document.Title = v
	}
	if v := os.Getenv("REPOPDF_AUTHOR"); v != "" {
		cfg.Document.Author = v
	}
	if v := os.Getenv("REPOPDF_DATE"); v != "" {
		cfg.Document.Date = v
	}

	for name, target := range map[string]*bool{
		"REPOPDF_KEEP_BADGES":  &cfg.Clean.KeepBadges,
		"REPOPDF_KEEP_SYMBOLS": &cfg.Clean.KeepSymbols,
		"REPOPDF_NO_IMAGES":    &cfg.Images.Disabled,
	} {
		if v := os.Getenv(name); v != "" {
			b, ok := parseBool(v)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("%s: invalid boolean %q (use 1/0, true/false, yes/no)", name, v))
				continue
			}
			*target = b
		}
	}

	if v := os.Getenv("REPOPDF_TIMEOUT"); v != "" {
		var seconds int
		if _, err := fmt.Sscanf(v, "%d", &seconds); err != nil || seconds <= 0 {
			warnings = append(warnings, fmt.Sprintf("REPOPDF_TIMEOUT: invalid value %q (seconds expected)", v))
		} else {
			cfg.Fetch.TimeoutSeconds = seconds
		}
	}

	warnings = append(warnings, unknownEnvWarnings()...)
	return warnings
}

// unknownEnvWarnings flags REPOPDF_* variables that are not recognized,
// usually typos of real options.
func unknownEnvWarnings() []string {
	var warnings []string
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			warnings = append(warnings, fmt.Sprintf("unknown environment variable %s (see repopdf --help for recognized options)", name))
		}
	}
	return warnings
}

func parseBool(v string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
