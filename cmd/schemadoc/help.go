package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: schemadoc <command> [flags] [args]")
	fmt.Fprintln(w, "       schemadoc <file.html>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  process    Post-process generated schema docs in place (default)")
	fmt.Fprintln(w, "  terms      List the ontology mappings of a processed page")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'schemadoc help <command>' for details on a specific command.")
}

// printProcessUsage prints usage for the process command.
func printProcessUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: schemadoc process [flags] <input>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rewrite generated schema documentation in place: replace the title, inject")
	fmt.Fprintln(w, "the style and branding header, replace the root introduction, and move")
	fmt.Fprintln(w, "[ontology: ...] markers out of descriptions into linked callouts.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    file (any extension), directory (walked for .html/.htm), or glob such as 'docs/**/*.html'")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --stdout              Print the result instead of overwriting (single file)")
	fmt.Fprintln(w, "  -n, --dry-run             Report what would change without writing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Branding:")
	fmt.Fprintln(w, "      --title <s>           Page and header title")
	fmt.Fprintln(w, "      --no-header           Do not inject the branding header")
	fmt.Fprintln(w, "      --no-intro            Keep the generated root description")
	fmt.Fprintln(w, "      --intro-file <path>   Markdown file rendered as the root introduction")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>   Extra style appended after the base style")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding styles/ and templates/")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watch:")
	fmt.Fprintln(w, "      --watch               Reprocess inputs whenever they are regenerated")
	fmt.Fprintln(w, "      --debounce <d>        Quiet period before reprocessing (default 500ms)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-file details and debug logs")
	fmt.Fprintln(w, "      --log-json            Write logs as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  SCHEMADOC_CONFIG, SCHEMADOC_STYLE, SCHEMADOC_ASSET_PATH, SCHEMADOC_WORKERS")
}

// printTermsUsage prints usage for the terms command.
func printTermsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: schemadoc terms [flags] <file.html>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List each ontology mapping of a processed page with its property and")
	fmt.Fprintln(w, "linked terms, and any description still carrying a raw marker.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Output JSON")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: schemadoc config [-c <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration in effect after applying the config file and")
	fmt.Fprintln(w, "SCHEMADOC_* environment variables, as YAML.")
}

// runHelp prints help for a specific command.
// Returns false if the command is unknown.
func runHelp(args []string, env *Environment) bool {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return true
	}

	switch args[0] {
	case "process":
		printProcessUsage(env.Stdout)
	case "terms":
		printTermsUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: schemadoc version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: schemadoc help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return false
	}
	return true
}
