package assets

// Notes:
// - Embedded assets: we check that the built-in style covers every class the
//   pipeline emits and that both templates exist.
// - FilesystemLoader/AssetResolver: we build asset trees in t.TempDir() and
//   test lookup order, fallback and containment. The symlink case is skipped
//   on Windows, where creating links needs privileges.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeTree creates files under dir from slash-separated relative paths.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// ---------------------------------------------------------------------------
// Embedded assets
// ---------------------------------------------------------------------------

func TestLoadStyle_Default(t *testing.T) {
	t.Parallel()

	css, err := LoadStyle(DefaultStyleName)
	if err != nil {
		t.Fatalf("LoadStyle(%q) error = %v", DefaultStyleName, err)
	}

	for _, selector := range []string{".site-header", ".root-intro", ".array-items-label", ".rdf-mapping", ".rdf-mapping a"} {
		if !strings.Contains(css, selector+" {") {
			t.Errorf("default style missing selector %q", selector)
		}
	}
}

func TestLoadStyle_Errors(t *testing.T) {
	t.Parallel()

	if _, err := LoadStyle("nonexistent-xyz"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
	}
	if _, err := LoadStyle("../default"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadStyle() error = %v, want ErrInvalidAssetName", err)
	}
	if _, err := LoadTemplate("footer"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate() error = %v, want ErrTemplateNotFound", err)
	}
}

func TestLoadTemplate_BuiltIns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		contains string
	}{
		{name: HeaderTemplateName, contains: `class="site-header"`},
		{name: IntroTemplateName, contains: "<strong>Edition</strong>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadTemplate(tt.name)
			if err != nil {
				t.Fatalf("LoadTemplate(%q) error = %v", tt.name, err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("LoadTemplate(%q) missing %q", tt.name, tt.contains)
			}
		})
	}
}

func TestAvailableStyles(t *testing.T) {
	t.Parallel()

	got := AvailableStyles()
	if strings.Join(got, ",") != "compact,default" {
		t.Errorf("AvailableStyles() = %v, want [compact default]", got)
	}
}

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"default", false},
		{"brand_2024-dark", false},
		{"", true},
		{"default.css", true},
		{"../default", true},
		{"styles/default", true},
		{`styles\default`, true},
		{"dé", true},
	}

	for _, tt := range tests {
		err := ValidateAssetName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAssetName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.name, err)
		}
	}
}

// ---------------------------------------------------------------------------
// FilesystemLoader
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	writeTree(t, dir, map[string]string{"file.txt": "x"})

	for name, path := range map[string]string{
		"empty":     "",
		"missing":   filepath.Join(dir, "missing"),
		"not a dir": file,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewFilesystemLoader(path); !errors.Is(err, ErrInvalidBasePath) {
				t.Errorf("NewFilesystemLoader(%q) error = %v, want ErrInvalidBasePath", path, err)
			}
		})
	}
}

func TestFilesystemLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"styles/brand.css":      ".site-header { color: teal; }",
		"styles/notes.txt":      "ignored",
		"styles/nested.css/x":   "a directory named like a style",
		"templates/header.html": "<header class=\"site-header\">{{.Title}}</header>",
	})

	l, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	if got, err := l.LoadStyle("brand"); err != nil || !strings.Contains(got, "teal") {
		t.Errorf("LoadStyle(brand) = %q, %v", got, err)
	}
	if got, err := l.LoadTemplate(HeaderTemplateName); err != nil || !strings.Contains(got, "{{.Title}}") {
		t.Errorf("LoadTemplate(header) = %q, %v", got, err)
	}
	if _, err := l.LoadStyle("default"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(default) error = %v, want ErrStyleNotFound", err)
	}
	if _, err := l.LoadTemplate(IntroTemplateName); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(intro) error = %v, want ErrTemplateNotFound", err)
	}
	if _, err := l.LoadStyle("nested"); !errors.Is(err, ErrAssetRead) {
		t.Errorf("LoadStyle(nested) error = %v, want ErrAssetRead", err)
	}
	if got := strings.Join(l.Styles(), ","); got != "brand" {
		t.Errorf("Styles() = %q, want brand", got)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}
	t.Parallel()

	outside := t.TempDir()
	writeTree(t, outside, map[string]string{"secret.css": "body { display: none; }"})

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "styles"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "secret.css"), filepath.Join(dir, "styles", "evil.css")); err != nil {
		t.Fatal(err)
	}

	l, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}
	if _, err := l.LoadStyle("evil"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadStyle(evil) error = %v, want ErrInvalidAssetName", err)
	}
}

// ---------------------------------------------------------------------------
// AssetResolver
// ---------------------------------------------------------------------------

func TestAssetResolver(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"styles/default.css":   "body { color: black; }",
		"styles/brand.css":     ".site-header { color: teal; }",
		"templates/intro.html": "<p>Custom intro.</p>",
	})

	r, err := NewAssetResolver(dir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	tests := []struct {
		name     string
		load     func(string) (string, error)
		asset    string
		contains string
		wantErr  error
	}{
		{"custom overrides embedded style", r.LoadStyle, DefaultStyleName, "color: black", nil},
		{"custom only style", r.LoadStyle, "brand", "teal", nil},
		{"embedded fallback style", r.LoadStyle, "compact", "{", nil},
		{"custom overrides template", r.LoadTemplate, IntroTemplateName, "Custom intro.", nil},
		{"embedded fallback template", r.LoadTemplate, HeaderTemplateName, `class="site-header"`, nil},
		{"missing everywhere", r.LoadStyle, "neon", "", ErrStyleNotFound},
		{"invalid name does not fall back", r.LoadStyle, "../default", "", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.load(tt.asset)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("got %q, want it to contain %q", got, tt.contains)
			}
		})
	}

	if got := strings.Join(r.Styles(), ","); got != "brand,compact,default" {
		t.Errorf("Styles() = %q, want brand,compact,default", got)
	}
}

func TestNewAssetResolver_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewAssetResolver(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrInvalidBasePath) {
		t.Errorf("NewAssetResolver(missing) error = %v, want ErrInvalidBasePath", err)
	}

	r, err := NewAssetResolver("")
	if err != nil {
		t.Fatalf("NewAssetResolver(\"\") error = %v", err)
	}
	if got := strings.Join(r.Styles(), ","); got != "compact,default" {
		t.Errorf("Styles() = %q, want embedded styles only", got)
	}
}

func TestListStyles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"styles/brand.css": ""})

	got, err := ListStyles(dir)
	if err != nil {
		t.Fatalf("ListStyles() error = %v", err)
	}
	if strings.Join(got, ",") != "brand,compact,default" {
		t.Errorf("ListStyles(dir) = %v", got)
	}

	got, err = ListStyles("")
	if err != nil || strings.Join(got, ",") != "compact,default" {
		t.Errorf("ListStyles(\"\") = %v, %v", got, err)
	}
}
