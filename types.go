package schemadoc

import (
	"log/slog"
	"maps"
)

// Header is the branding block shown at the top of the page.
type Header struct {
	Title       string
	ProjectName string // Optional, omitted with the subject line when empty
	ProjectURL  string // Optional, links ProjectName
	Subject     string // What the documented format is, e.g. "piano roll edition format"
}

// DefaultHeader returns the built-in branding for the linked-rolls edition format.
func DefaultHeader() *Header {
	return &Header{
		Title:       DefaultTitle,
		ProjectName: "linked-rolls",
		ProjectURL:  "https://github.com/pfefferniels/linked-rolls",
		Subject:     "piano roll edition format",
	}
}

// Default title replacement.
const (
	DefaultTitleMatch = "Schema Docs"
	DefaultTitle      = "Roll Edition Format"
)

// Stats reports which rewrite steps fired.
type Stats struct {
	TitlesReplaced  int
	StyleInjected   bool
	HeadersInjected int
	IntroReplaced   bool
	LabelsDownsized int
	Descriptions    int // description paragraphs scanned
	Mappings        int // descriptions carrying a marker
	MarkerOnly      int // mappings whose paragraph was dropped
	ExtraMarkers    int // markers beyond the first in a description, stripped unlinked
	TermsLinked     int
}

// Changed reports whether any step modified the document.
func (s Stats) Changed() bool {
	return s.TitlesReplaced > 0 || s.StyleInjected || s.HeadersInjected > 0 ||
		s.IntroReplaced || s.LabelsDownsized > 0 || s.Mappings > 0
}

// LogValue groups the counters under one attribute.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("titles", s.TitlesReplaced),
		slog.Bool("style", s.StyleInjected),
		slog.Int("headers", s.HeadersInjected),
		slog.Bool("intro", s.IntroReplaced),
		slog.Int("labels", s.LabelsDownsized),
		slog.Int("descriptions", s.Descriptions),
		slog.Int("mappings", s.Mappings),
		slog.Int("markerOnly", s.MarkerOnly),
		slog.Int("extraMarkers", s.ExtraMarkers),
		slog.Int("terms", s.TermsLinked),
	)
}

// Result holds the rewritten document and what was changed.
type Result struct {
	HTML  string
	Stats Stats
}

// Option configures a Processor.
type Option func(*processorConfig)

// processorConfig holds the options applied by NewProcessor.
type processorConfig struct {
	titleMatch   string
	titleReplace string
	header       *Header
	introOff     bool
	introMD      string
	style        string
	assetPath    string
	prefixes     map[string]string
	reserved     []string
	logger       *slog.Logger
}

func defaultProcessorConfig() processorConfig {
	return processorConfig{
		titleMatch:   DefaultTitleMatch,
		titleReplace: DefaultTitle,
		header:       DefaultHeader(),
		logger:       slog.New(slog.DiscardHandler),
	}
}

// WithTitle replaces <title>match</title> with <title>replacement</title>.
// An empty match disables title replacement.
func WithTitle(match, replacement string) Option {
	return func(c *processorConfig) {
		c.titleMatch = match
		c.titleReplace = replacement
	}
}

// WithHeader sets the branding header. Nil disables header injection.
func WithHeader(h *Header) Option {
	return func(c *processorConfig) {
		if h == nil {
			c.header = nil
			return
		}
		copied := *h
		c.header = &copied
	}
}

// WithIntro renders the root introduction from Markdown instead of the
// built-in paragraph. Empty markdown restores the built-in paragraph.
func WithIntro(markdown string) Option {
	return func(c *processorConfig) {
		c.introOff = false
		c.introMD = markdown
	}
}

// WithoutIntro leaves the generated root object block in place.
func WithoutIntro() Option {
	return func(c *processorConfig) {
		c.introOff = true
	}
}

// WithStyle appends a style after the base stylesheet. nameOrPath is either
// the name of a style asset or a path to a CSS file.
func WithStyle(nameOrPath string) Option {
	return func(c *processorConfig) {
		c.style = nameOrPath
	}
}

// WithAssetPath loads styles and templates from dir, falling back to the
// embedded assets for anything missing there.
func WithAssetPath(dir string) Option {
	return func(c *processorConfig) {
		c.assetPath = dir
	}
}

// WithPrefixes merges prefix to base URL entries over the built-in table.
// An empty base URL removes the prefix.
func WithPrefixes(prefixes map[string]string) Option {
	return func(c *processorConfig) {
		if c.prefixes == nil {
			c.prefixes = make(map[string]string, len(prefixes))
		}
		maps.Copy(c.prefixes, prefixes)
	}
}

// WithReserved recognizes extra prefixes without linking them.
func WithReserved(prefixes ...string) Option {
	return func(c *processorConfig) {
		c.reserved = append(c.reserved, prefixes...)
	}
}

// WithLogger sets the logger receiving per-document debug records.
// Nil keeps the default, which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *processorConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
