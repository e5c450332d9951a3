package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	schemadoc "github.com/alnah/go-schemadoc"
	"github.com/alnah/go-schemadoc/internal/assets"
	"github.com/alnah/go-schemadoc/internal/config"
	"github.com/alnah/go-schemadoc/internal/fileutil"
	"github.com/alnah/go-schemadoc/internal/hints"
	"github.com/alnah/go-schemadoc/internal/logger"
	"github.com/alnah/go-schemadoc/internal/watch"
)

// runProcessCmd parses process flags and rewrites the given inputs.
func runProcessCmd(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseProcessFlags(args, env)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	return withHints(runProcess(ctx, positional, f, env))
}

// runProcess orchestrates config loading, discovery and the batch.
func runProcess(ctx context.Context, positional []string, f *processFlags, env *Environment) error {
	if err := validateWorkers(f.workers); err != nil {
		return err
	}
	if err := validateOutputFlags(f); err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("%w%s", ErrNoInput, hints.ForNoInputs())
	}

	initLogger(&f.common, env)
	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := loadConfig(f.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	if err := mergeFlags(f, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	proc, err := newProcessor(cfg, logger.Get())
	if err != nil {
		return err
	}

	files, err := discoverFiles(positional)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 && !f.watch.enabled {
		return fmt.Errorf("%w: no HTML files found%s", ErrNoInput, hints.ForNoInputs())
	}
	if f.output.stdout && len(files) != 1 {
		return fmt.Errorf("%w: --stdout requires exactly one input file, got %d", ErrInvalidFlags, len(files))
	}

	params := &batchParams{
		workers: resolveWorkers(f.workers, envCfg.Workers),
		dryRun:  f.output.dryRun,
	}
	if f.output.stdout {
		params.stdout = env.Stdout
	}
	opts := printOptions{
		quiet:   f.common.quiet,
		verbose: f.common.verbose,
		dryRun:  f.output.dryRun,
		stdout:  f.output.stdout,
	}
	logger.Debug("starting batch", "files", len(files), "workers", params.workers)

	if f.watch.enabled {
		return runWatch(ctx, proc, positional, files, params, opts, f.watch.debounce, env)
	}

	results := processBatch(ctx, proc, files, params)
	if failed := printResults(results, opts, env); failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed: %w", failed, len(results), firstError(results))
	}
	return nil
}

// validateOutputFlags rejects output flag combinations that cannot work together.
func validateOutputFlags(f *processFlags) error {
	switch {
	case f.output.stdout && f.output.dryRun:
		return fmt.Errorf("%w: --stdout and --dry-run are mutually exclusive", ErrInvalidFlags)
	case f.output.stdout && f.watch.enabled:
		return fmt.Errorf("%w: --stdout cannot be combined with --watch", ErrInvalidFlags)
	case f.branding.noIntro && f.branding.introFile != "":
		return fmt.Errorf("%w: --no-intro and --intro-file are mutually exclusive", ErrInvalidFlags)
	case f.watch.debounce <= 0:
		return fmt.Errorf("%w: --debounce must be positive, got %v", ErrInvalidFlags, f.watch.debounce)
	}
	return nil
}

// initLogger configures the process-wide logger from common flags.
func initLogger(f *commonFlags, env *Environment) {
	logger.Init(logger.Options{
		Debug:  f.verbose,
		Quiet:  f.quiet,
		JSON:   f.logJSON,
		Output: env.Stderr,
	})
}

// loadConfig loads the config named by the flag, else by SCHEMADOC_CONFIG,
// else returns the defaults.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		hint := ""
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			hint = hints.ForConfigNotFound(config.SearchPaths(name))
		}
		return nil, fmt.Errorf("loading config: %w%s", err, hint)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(f *processFlags, cfg *config.Config) error {
	if f.branding.title != "" {
		cfg.Title.Replace = f.branding.title
		cfg.Header.Title = f.branding.title
	}
	if f.branding.noHeader {
		cfg.Header.Enabled = false
	}
	if f.branding.noIntro {
		cfg.Intro.Enabled = false
	}
	if f.branding.introFile != "" {
		data, err := os.ReadFile(f.branding.introFile) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("reading intro file: %w", err)
		}
		cfg.Intro.Enabled = true
		cfg.Intro.Markdown = string(data)
	}
	if f.assets.style != "" {
		cfg.Style.Name = f.assets.style
	}
	if f.assets.assetPath != "" {
		cfg.Assets.BasePath = f.assets.assetPath
	}
	return nil
}

// newProcessor builds the processor described by cfg.
func newProcessor(cfg *config.Config, log *slog.Logger) (*schemadoc.Processor, error) {
	opts := []schemadoc.Option{
		schemadoc.WithTitle(cfg.Title.Match, cfg.Title.Replace),
		schemadoc.WithStyle(cfg.Style.Name),
		schemadoc.WithAssetPath(cfg.Assets.BasePath),
		schemadoc.WithPrefixes(cfg.Ontology.Prefixes),
		schemadoc.WithReserved(cfg.Ontology.Reserved...),
		schemadoc.WithLogger(log),
	}

	if cfg.Header.Enabled {
		opts = append(opts, schemadoc.WithHeader(&schemadoc.Header{
			Title:       cfg.Header.Title,
			ProjectName: cfg.Header.ProjectName,
			ProjectURL:  cfg.Header.ProjectURL,
			Subject:     cfg.Header.Subject,
		}))
	} else {
		opts = append(opts, schemadoc.WithHeader(nil))
	}

	if cfg.Intro.Enabled {
		opts = append(opts, schemadoc.WithIntro(cfg.Intro.Markdown))
	} else {
		opts = append(opts, schemadoc.WithoutIntro())
	}

	proc, err := schemadoc.NewProcessor(opts...)
	if errors.Is(err, schemadoc.ErrStyleNotFound) {
		// Styles of the asset directory count too, so list them from there.
		if styles, lerr := assets.ListStyles(cfg.Assets.BasePath); lerr == nil {
			err = fmt.Errorf("%w%s", err, hints.ForStyleNotFound(styles))
		}
	}
	return proc, err
}

// withHints appends an actionable hint to errors users can fix themselves.
func withHints(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, schemadoc.ErrInvalidPrefix):
		return fmt.Errorf("%w%s", err, hints.ForInvalidPrefix())
	case errors.Is(err, watch.ErrWatchLimit):
		return fmt.Errorf("%w%s", err, hints.ForWatchLimit())
	}
	return err
}
