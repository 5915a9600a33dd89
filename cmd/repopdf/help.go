package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: repopdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Merge Markdown sources into a single PDF")
	fmt.Fprintln(w, "  sitemap    Export every page of a sitemap as individual PDFs")
	fmt.Fprintln(w, "  doctor     Diagnose rendering engine availability")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'repopdf help <command>' for details on a specific command.")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: repopdf export [flags] <output.pdf>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merge a tree of Markdown files plus optional fetched or free-text")
	fmt.Fprintln(w, "sections into a single paginated PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  output.pdf                Destination file (must end in .pdf)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	fmt.Fprintln(w, "  -r, --root <dir>          Source directory to collect Markdown from")
	fmt.Fprintln(w, "  -a, --all                 Collect all Markdown files under the root")
	fmt.Fprintln(w, "  -e, --exclude <glob>      Exclusion glob (repeatable; entries may be")
	fmt.Fprintln(w, "                            comma-separated)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sections:")
	fmt.Fprintln(w, "      --intro <md>          Leading Markdown section")
	fmt.Fprintln(w, "      --url <url>           Fetch page metadata from URL as a section")
	fmt.Fprintln(w, "      --url-content <url>   Fetch and convert a full page as a section")
	fmt.Fprintln(w, "      --credits <md>        Trailing Markdown section")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           Document title")
	fmt.Fprintln(w, "      --author <s>          Document author")
	fmt.Fprintln(w, "      --date <s>            Document date (\"auto\" = today)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -t, --theme <name>        Syntax-highlight theme (default: github)")
	fmt.Fprintln(w, "      --engine <name>       Force an engine: chrome, pandoc,")
	fmt.Fprintln(w, "                            wkhtmltopdf, weasyprint")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file injected into the document")
	fmt.Fprintln(w, "      --no-images           Replace every image with its caption")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Content:")
	fmt.Fprintln(w, "      --keep-badges         Keep badge images and reference links")
	fmt.Fprintln(w, "      --keep-symbols        Keep emoji and pictographic symbols")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <path>       Config file path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show progress detail")
}

// printSitemapUsage prints usage for the sitemap command.
func printSitemapUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: repopdf sitemap [flags] <sitemap> <outdir>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export every page referenced by a sitemap as its own PDF, mirroring")
	fmt.Fprintln(w, "the URL path structure under the output directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  sitemap                   Sitemap XML file path or URL")
	fmt.Fprintln(w, "  outdir                    Directory to write PDFs into")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags mirror the export command where they apply; run")
	fmt.Fprintln(w, "'repopdf help export' for details.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: repopdf doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check which rendering engines are available and diagnose common")
	fmt.Fprintln(w, "environment problems.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "sitemap":
		printSitemapUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: repopdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: repopdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
