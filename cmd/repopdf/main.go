package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	env := DefaultEnv()
	os.Exit(runMain(os.Args[1:], env))
}

// runMain dispatches to the requested command and returns the exit code.
func runMain(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help", "--help", "-h":
		runHelp(rest, env)
		return ExitSuccess
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "repopdf %s\n", Version)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(rest, env)
	case "sitemap":
		return runWithSignals(env, func(ctx context.Context) error {
			flags, positional, err := parseSitemapFlags(rest)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrUsage, err)
			}
			return runSitemap(ctx, positional, flags, env)
		})
	case "export":
		args = rest
		fallthrough
	default:
		// Bare invocations run the export command.
		exportArgs := args
		return runWithSignals(env, func(ctx context.Context) error {
			flags, positional, err := parseExportFlags(exportArgs)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrUsage, err)
			}
			return runExport(ctx, positional, flags, env)
		})
	}
}

// runWithSignals runs fn under a signal-canceled context and maps its
// error to an exit code.
func runWithSignals(env *Environment, fn func(ctx context.Context) error) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := fn(ctx); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}
