// Command schemadoc post-processes HTML documentation generated from a JSON
// Schema: it rebrands the page and turns ontology markers in property
// descriptions into linked callouts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/alnah/go-schemadoc/internal/fileutil"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// commands lists the subcommands recognized as the first argument.
var commands = []string{"process", "terms", "config", "version", "help"}

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	verbose := slices.Contains(os.Args, "-v") || slices.Contains(os.Args, "--verbose")
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		if verbose {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}))

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches args to a command and returns the process exit code.
// A first argument that is not a command is treated as input to process,
// so `schemadoc index.html` works without naming the command.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd := args[1]
	switch cmd {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "schemadoc %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		if !runHelp(args[2:], env) {
			return ExitUsage
		}
		return ExitSuccess
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	var err error
	switch {
	case cmd == "process":
		err = runProcessCmd(ctx, args[2:], env)
	case cmd == "terms":
		err = runTermsCmd(args[2:], env)
	case cmd == "config":
		err = runConfigCmd(args[2:], env)
	case looksLikeInput(cmd):
		err = runProcessCmd(ctx, args[1:], env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
	}
	return exitCodeFor(err)
}

// isCommand reports whether arg names a subcommand.
func isCommand(arg string) bool {
	return slices.Contains(commands, arg)
}

// looksLikeInput reports whether arg should be handed to the process command:
// a flag, an existing file or directory, an HTML file name or a glob pattern.
func looksLikeInput(arg string) bool {
	if isCommand(arg) {
		return false
	}
	if strings.HasPrefix(arg, "-") || fileutil.IsHTMLFile(arg) || hasGlobMeta(arg) {
		return true
	}
	_, err := os.Stat(arg)
	return err == nil
}
