package schemadoc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alnah/go-schemadoc/internal/assets"
	"github.com/alnah/go-schemadoc/internal/fileutil"
	"github.com/alnah/go-schemadoc/internal/ontology"
	"github.com/alnah/go-schemadoc/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.StyleInjector  = (*pipeline.StyleInjection)(nil)
	_ pipeline.HeaderInjector = (*pipeline.HeaderInjection)(nil)
	_ pipeline.IntroRenderer  = (*pipeline.GoldmarkRenderer)(nil)
)

// Processor rewrites generated schema documentation.
// Create with NewProcessor; a Processor is immutable and safe for concurrent use.
type Processor struct {
	cfg            processorConfig
	assetLoader    assets.AssetLoader
	linker         *ontology.Linker
	styleInjector  pipeline.StyleInjector
	headerInjector pipeline.HeaderInjector
	descriptions   *pipeline.DescriptionRewriter
	css            string // base style plus the optional extra style
	intro          string // replacement for the root object block, empty when disabled
}

// NewProcessor creates a Processor with the built-in behavior, adjusted by opts.
// Assets, templates and the intro Markdown are resolved here, so Process never
// touches the filesystem.
func NewProcessor(opts ...Option) (*Processor, error) {
	cfg := defaultProcessorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Processor{
		cfg:           cfg,
		assetLoader:   assets.NewEmbeddedLoader(),
		styleInjector: &pipeline.StyleInjection{},
	}

	if cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		p.assetLoader = resolver
	}

	table := ontology.DefaultTable().Merge(cfg.prefixes)
	reserved := append(append([]string{}, ontology.DefaultReserved...), cfg.reserved...)
	linker, err := ontology.NewLinker(table, reserved...)
	if err != nil {
		return nil, fmt.Errorf("building ontology linker: %w", err)
	}
	p.linker = linker
	p.descriptions = pipeline.NewDescriptionRewriter(linker)

	if err := p.resolveStyle(); err != nil {
		return nil, err
	}

	headerTmpl, err := p.assetLoader.LoadTemplate(assets.HeaderTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading header template: %w", err)
	}
	p.headerInjector, err = pipeline.NewHeaderInjection(headerTmpl)
	if err != nil {
		return nil, fmt.Errorf("initializing header injector: %w", err)
	}

	if err := p.resolveIntro(); err != nil {
		return nil, err
	}

	return p, nil
}

// resolveStyle loads the base stylesheet and appends the extra style, if any.
func (p *Processor) resolveStyle() error {
	base, err := p.assetLoader.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return fmt.Errorf("loading base style: %w", err)
	}
	p.css = base

	input := p.cfg.style
	if input == "" || input == assets.DefaultStyleName {
		return nil
	}

	var extra string
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		extra = string(content)
	} else {
		extra, err = p.assetLoader.LoadStyle(input)
		if err != nil {
			return fmt.Errorf("loading style %q: %w", input, err)
		}
	}

	p.css = strings.TrimRight(base, "\n") + "\n" + extra
	return nil
}

// resolveIntro renders the intro Markdown or loads the built-in intro template.
func (p *Processor) resolveIntro() error {
	if p.cfg.introOff {
		return nil
	}

	if p.cfg.introMD != "" {
		rendered, err := pipeline.NewGoldmarkRenderer().RenderIntro(context.Background(), p.cfg.introMD)
		if err != nil {
			return fmt.Errorf("rendering intro: %w", err)
		}
		p.intro = rendered
		return nil
	}

	tmpl, err := p.assetLoader.LoadTemplate(assets.IntroTemplateName)
	if err != nil {
		return fmt.Errorf("loading intro template: %w", err)
	}
	p.intro = pipeline.WrapRootIntro(tmpl)
	return nil
}

// Prefixes returns the prefixes recognized in ontology markers, sorted.
func (p *Processor) Prefixes() []string {
	return p.linker.Prefixes()
}

// Linker returns the term linker used for ontology markers.
func (p *Processor) Linker() *ontology.Linker {
	return p.linker
}

// Process runs every rewrite step over htmlContent.
// Blank content has nothing to rewrite and is returned as is, with zero Stats.
// The context is checked between steps.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (p *Processor) Process(ctx context.Context, htmlContent string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(htmlContent) == "" {
		return &Result{HTML: htmlContent}, nil
	}

	var stats Stats
	doc := htmlContent

	doc, stats.TitlesReplaced = pipeline.ReplaceTitle(doc, p.cfg.titleMatch, p.cfg.titleReplace)

	doc, stats.StyleInjected = p.styleInjector.InjectStyle(ctx, doc, p.css)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.cfg.header != nil {
		doc, stats.HeadersInjected, err = p.headerInjector.InjectHeader(ctx, doc, toHeaderData(p.cfg.header))
		if err != nil {
			return nil, fmt.Errorf("injecting header: %w", err)
		}
	}

	if p.intro != "" {
		doc, stats.IntroReplaced = pipeline.ReplaceRootIntro(doc, p.intro)
	}

	doc, stats.LabelsDownsized = pipeline.DownsizeArrayLabels(doc)

	doc, ds, err := p.descriptions.Rewrite(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("rewriting descriptions: %w", err)
	}
	stats.Descriptions = ds.Blocks
	stats.Mappings = ds.Rewritten
	stats.MarkerOnly = ds.MarkerOnly
	stats.ExtraMarkers = ds.Extra
	stats.TermsLinked = ds.Terms

	p.cfg.logger.DebugContext(ctx, "document processed", slog.Any("stats", stats))
	if stats.ExtraMarkers > 0 {
		p.cfg.logger.WarnContext(ctx, "descriptions with several ontology markers; only the first was linked",
			slog.Int("extra", stats.ExtraMarkers))
	}

	return &Result{HTML: doc, Stats: stats}, nil
}

// ProcessFile rewrites the file at path in place.
// The file is replaced atomically; on any error it is left untouched.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	res, err := p.Process(ctx, string(data))
	if err != nil {
		return nil, fmt.Errorf("processing %s: %w", path, err)
	}

	if err := fileutil.WriteFileAtomic(path, []byte(res.HTML)); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	return res, nil
}

// toHeaderData converts the public Header to the pipeline representation.
func toHeaderData(h *Header) *pipeline.HeaderData {
	return &pipeline.HeaderData{
		Title:       h.Title,
		ProjectName: h.ProjectName,
		ProjectURL:  h.ProjectURL,
		Subject:     h.Subject,
	}
}
