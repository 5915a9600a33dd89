package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
	}
	return env, stdout, stderr
}

func TestRunMainNoArgs(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	if code := runMain(nil, env); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Usage: repopdf") {
		t.Error("usage not printed")
	}
}

func TestRunMainVersion(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	if code := runMain([]string{"version"}, env); code != ExitSuccess {
		t.Errorf("exit code = %d", code)
	}
	if !strings.Contains(stdout.String(), "repopdf") {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestRunMainHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bare help", []string{"help"}, "Commands:"},
		{"help export", []string{"help", "export"}, "Usage: repopdf export"},
		{"help sitemap", []string{"help", "sitemap"}, "Usage: repopdf sitemap"},
		{"help doctor", []string{"help", "doctor"}, "Usage: repopdf doctor"},
		{"long flag", []string{"--help"}, "Commands:"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, stdout, _ := testEnv()
			if code := runMain(tt.args, env); code != ExitSuccess {
				t.Errorf("exit code = %d", code)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("output %q does not contain %q", stdout.String(), tt.want)
			}
		})
	}
}

func TestRunMainExportUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"explicit export without output", []string{"export", "--all"}},
		{"bare invocation without output", []string{"--all"}},
		{"two output paths", []string{"export", "a.pdf", "b.pdf"}},
		{"unknown flag", []string{"export", "--frobnicate", "out.pdf"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _, _ := testEnv()
			if code := runMain(tt.args, env); code != ExitUsage {
				t.Errorf("exit code = %d, want %d", code, ExitUsage)
			}
		})
	}
}

func TestRunMainSitemapUsageError(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	if code := runMain([]string{"sitemap", "only-one-arg"}, env); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}
