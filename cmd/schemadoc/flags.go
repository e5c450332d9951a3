package main

import (
	"time"

	"github.com/alnah/go-schemadoc/internal/watch"
	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	logJSON bool
}

// brandingFlags override the page branding from the config.
type brandingFlags struct {
	title     string
	noHeader  bool
	noIntro   bool
	introFile string
}

// assetFlags holds style and asset location flags.
type assetFlags struct {
	style     string // Name or path of extra CSS
	assetPath string // Override asset directory
}

// outputFlags selects where results go instead of overwriting inputs.
type outputFlags struct {
	stdout bool // Print the processed document
	dryRun bool // Report changes without writing
}

// watchFlags holds watch mode flags.
type watchFlags struct {
	enabled  bool
	debounce time.Duration
}

// processFlags holds all flags for the process command.
type processFlags struct {
	common   commonFlags
	workers  int
	branding brandingFlags
	assets   assetFlags
	output   outputFlags
	watch    watchFlags
}

// termsFlags holds flags for the terms command.
type termsFlags struct {
	json bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file details and debug logs")
	fs.BoolVar(&f.logJSON, "log-json", false, "write logs as JSON")
}

// addBrandingFlags adds branding override flags to a FlagSet.
func addBrandingFlags(fs *flag.FlagSet, f *brandingFlags) {
	fs.StringVar(&f.title, "title", "", "page and header title")
	fs.BoolVar(&f.noHeader, "no-header", false, "do not inject the branding header")
	fs.BoolVar(&f.noIntro, "no-intro", false, "keep the generated root description")
	fs.StringVar(&f.introFile, "intro-file", "", "Markdown file rendered as the root introduction")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "extra style name or CSS file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding embedded styles and templates")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.stdout, "stdout", false, "print the result instead of overwriting the file")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "report what would change without writing")
}

// addWatchFlags adds watch mode flags to a FlagSet.
func addWatchFlags(fs *flag.FlagSet, f *watchFlags) {
	fs.BoolVar(&f.enabled, "watch", false, "keep running and reprocess files when they are regenerated")
	fs.DurationVar(&f.debounce, "debounce", watch.DefaultDebounce, "quiet period before reprocessing")
}

// parseProcessFlags parses process command flags and returns positional args.
func parseProcessFlags(args []string, env *Environment) (*processFlags, []string, error) {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &processFlags{}

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	addCommonFlags(fs, &f.common)
	addBrandingFlags(fs, &f.branding)
	addAssetFlags(fs, &f.assets)
	addOutputFlags(fs, &f.output)
	addWatchFlags(fs, &f.watch)

	fs.Usage = func() { printProcessUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseTermsFlags parses terms command flags and returns positional args.
func parseTermsFlags(args []string, env *Environment) (*termsFlags, []string, error) {
	fs := flag.NewFlagSet("terms", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &termsFlags{}

	fs.BoolVar(&f.json, "json", false, "output JSON")

	fs.Usage = func() { printTermsUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, env *Environment) (*commonFlags, []string, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &commonFlags{}

	addCommonFlags(fs, f)

	fs.Usage = func() { printConfigUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
