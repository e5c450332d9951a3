// Package config loads and validates schemadoc YAML configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-schemadoc/internal/fileutil"
	"github.com/alnah/go-schemadoc/internal/ontology"
	"github.com/alnah/go-schemadoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrMissingField    = errors.New("required field is empty")
)

// Field length limits.
const (
	MaxTitleLength    = 200      // <title> text and header title
	MaxNameLength     = 100      // Project name
	MaxURLLength      = 2048     // Browser limit
	MaxSubjectLength  = 200      // Header subject line
	MaxMarkdownLength = 64 << 10 // Intro Markdown
	MaxStyleLength    = 1024     // Style name or path
	MaxPathLength     = 4096     // PATH_MAX on Linux
	MaxPrefixCount    = 64       // Ontology prefixes
)

// Directory under os.UserConfigDir() searched for named configs.
const userConfigDirName = "go-schemadoc"

// Default branding, matching the built-in output for the linked-rolls edition format.
const (
	DefaultTitleMatch    = "Schema Docs"
	DefaultTitle         = "Roll Edition Format"
	DefaultProjectName   = "linked-rolls"
	DefaultProjectURL    = "https://github.com/pfefferniels/linked-rolls"
	DefaultHeaderSubject = "piano roll edition format"
)

// Config holds all configuration for post-processing.
type Config struct {
	Title    TitleConfig    `yaml:"title"`
	Header   HeaderConfig   `yaml:"header"`
	Intro    IntroConfig    `yaml:"intro"`
	Style    StyleConfig    `yaml:"style"`
	Ontology OntologyConfig `yaml:"ontology"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// TitleConfig defines the <title> replacement.
type TitleConfig struct {
	Match   string `yaml:"match"`   // Title emitted by the docs generator
	Replace string `yaml:"replace"` // Replacement title
}

// HeaderConfig defines the branding header injected after <body>.
type HeaderConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Title       string `yaml:"title"`
	ProjectName string `yaml:"projectName"`
	ProjectURL  string `yaml:"projectURL"`
	Subject     string `yaml:"subject"`
}

// IntroConfig defines the root-object intro replacement.
type IntroConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Markdown string `yaml:"markdown"` // Empty = built-in paragraph
}

// StyleConfig defines extra CSS appended after the base style.
type StyleConfig struct {
	Name string `yaml:"name"` // Style name in assets or a path to a .css file
}

// OntologyConfig extends the built-in prefix table.
type OntologyConfig struct {
	Prefixes map[string]string `yaml:"prefixes"` // Merged over defaults; empty value removes
	Reserved []string          `yaml:"reserved"` // Recognized but never linked
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// DefaultConfig returns the configuration reproducing the built-in behavior.
func DefaultConfig() *Config {
	return &Config{
		Title: TitleConfig{
			Match:   DefaultTitleMatch,
			Replace: DefaultTitle,
		},
		Header: HeaderConfig{
			Enabled:     true,
			Title:       DefaultTitle,
			ProjectName: DefaultProjectName,
			ProjectURL:  DefaultProjectURL,
			Subject:     DefaultHeaderSubject,
		},
		Intro: IntroConfig{Enabled: true},
	}
}

// Validate checks field lengths and ontology entries.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"title.match", c.Title.Match, MaxTitleLength},
		{"title.replace", c.Title.Replace, MaxTitleLength},
		{"header.title", c.Header.Title, MaxTitleLength},
		{"header.projectName", c.Header.ProjectName, MaxNameLength},
		{"header.projectURL", c.Header.ProjectURL, MaxURLLength},
		{"header.subject", c.Header.Subject, MaxSubjectLength},
		{"intro.markdown", c.Intro.Markdown, MaxMarkdownLength},
		{"style.name", c.Style.Name, MaxStyleLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Title.Match != "" && c.Title.Replace == "" {
		return fmt.Errorf("%w: title.replace (required when title.match is set)", ErrMissingField)
	}
	if c.Header.Enabled && c.Header.Title == "" {
		return fmt.Errorf("%w: header.title (required when header is enabled)", ErrMissingField)
	}
	if c.Header.ProjectURL != "" && !fileutil.IsURL(c.Header.ProjectURL) {
		return fmt.Errorf("header.projectURL: must be an http(s) URL, got %q", c.Header.ProjectURL)
	}

	return c.validateOntology()
}

func (c *Config) validateOntology() error {
	if n := len(c.Ontology.Prefixes) + len(c.Ontology.Reserved); n > MaxPrefixCount {
		return fmt.Errorf("ontology: %d prefixes (max %d)", n, MaxPrefixCount)
	}
	for prefix, base := range c.Ontology.Prefixes {
		if err := validateFieldLength("ontology.prefixes."+prefix, base, MaxURLLength); err != nil {
			return err
		}
		if base == "" {
			if err := ontology.ValidatePrefix(prefix); err != nil {
				return fmt.Errorf("ontology.prefixes: %w", err)
			}
			continue
		}
		if err := (ontology.Table{prefix: base}).Validate(); err != nil {
			return fmt.Errorf("ontology.prefixes: %w", err)
		}
	}
	for _, prefix := range c.Ontology.Reserved {
		if err := ontology.ValidatePrefix(prefix); err != nil {
			return fmt.Errorf("ontology.reserved: %w", err)
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the locations tried for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, userConfigDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations:
// the current directory, then ~/.config/go-schemadoc/, .yaml before .yml.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
