package schemadoc

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-schemadoc/internal/pipeline"
)

// Mock implementations for testing.

type mockHeaderInjector struct {
	called bool
	err    error
}

func (m *mockHeaderInjector) InjectHeader(ctx context.Context, htmlContent string, data *pipeline.HeaderData) (string, int, error) {
	m.called = true
	if m.err != nil {
		return "", 0, m.err
	}
	return htmlContent, 0, nil
}

type panickingStyleInjector struct{}

func (panickingStyleInjector) InjectStyle(ctx context.Context, htmlContent, cssContent string) (string, bool) {
	panic("boom")
}

func loadFixture(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "generated.html"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return string(data)
}

func newTestProcessor(t *testing.T, opts ...Option) *Processor {
	t.Helper()

	p, err := NewProcessor(opts...)
	if err != nil {
		t.Fatalf("NewProcessor() unexpected error: %v", err)
	}
	return p
}

func TestProcessor_Process_GeneratedDocument(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(t)
	res, err := p.Process(context.Background(), loadFixture(t))
	if err != nil {
		t.Fatalf("Process() unexpected error: %v", err)
	}

	want := Stats{
		TitlesReplaced:  1,
		StyleInjected:   true,
		HeadersInjected: 1,
		IntroReplaced:   true,
		LabelsDownsized: 1,
		Descriptions:    4,
		Mappings:        3,
		MarkerOnly:      1,
		TermsLinked:     3,
	}
	if res.Stats != want {
		t.Errorf("Stats = %+v, want %+v", res.Stats, want)
	}

	out := res.HTML
	for _, fragment := range []string{
		"<title>Roll Edition Format</title>",
		`<meta name="viewport" content="width=device-width, initial-scale=1">`,
		".rdf-mapping {",
		`<body onload="anchorOnLoad();" id="root">` + "\n" + `<header class="site-header">`,
		`<div class="root-intro"><p>The root element of this format is an <strong>Edition</strong>, describing a specific digital edition of a piano roll (cf. lrm:F2 Expression). It consists of the following properties:</p></div>`,
		`<p class="array-items-label"><em>Each item of this array must be:</em></p>`,
		`<span class="description"><p>Identifier of the edition</p>` + "\n" +
			`<div class="rdf-mapping"><a href="https://cidoc-crm.org/html/cidoc_crm_v7.1.3.html#E42" target="_blank" rel="noopener">crm:E42</a> Identifier</div>`,
		`<span class="description">` + "\n" +
			`<div class="rdf-mapping"><a href="https://www.w3.org/2000/01/rdf-schema#label" target="_blank" rel="noopener">rdfs:label</a></div>`,
		`<div class="rdf-mapping">reo:Perforation, see <a href="https://cidoc-crm.org/html/cidoc_crm_v7.1.3.html#E25" target="_blank" rel="noopener">crm:E25</a> Human-Made Feature</div>`,
		`<span class="description"><p>A single hole.</p>`,
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("output missing %q", fragment)
		}
	}

	for _, gone := range []string{
		"<title>Schema Docs</title>",
		"Edition of a piano roll.",
		"[ontology:",
		"<h4>Each item of this array must be:</h4>",
	} {
		if strings.Contains(out, gone) {
			t.Errorf("output should not contain %q", gone)
		}
	}

	if strings.Index(out, "<style>") > strings.Index(out, "</head>") {
		t.Error("style block should be inside <head>")
	}
}

func TestProcessor_Process_HeaderIdempotent(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(t)
	ctx := context.Background()

	first, err := p.Process(ctx, loadFixture(t))
	if err != nil {
		t.Fatalf("first Process() unexpected error: %v", err)
	}
	second, err := p.Process(ctx, first.HTML)
	if err != nil {
		t.Fatalf("second Process() unexpected error: %v", err)
	}

	if n := strings.Count(second.HTML, `class="site-header"`); n != 1 {
		t.Errorf("header count after two runs = %d, want 1", n)
	}
	if second.Stats.HeadersInjected != 0 {
		t.Errorf("second run HeadersInjected = %d, want 0", second.Stats.HeadersInjected)
	}
	if second.Stats.IntroReplaced || second.Stats.Mappings != 0 || second.Stats.TitlesReplaced != 0 {
		t.Errorf("second run should find nothing else to rewrite, got %+v", second.Stats)
	}
}

func TestProcessor_Process_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		opts        []Option
		contains    []string
		notContains []string
	}{
		{
			name:     "custom title",
			opts:     []Option{WithTitle("Schema Docs", "Piano Roll Format")},
			contains: []string{"<title>Piano Roll Format</title>"},
		},
		{
			name:     "title replacement disabled",
			opts:     []Option{WithTitle("", "")},
			contains: []string{"<title>Schema Docs</title>"},
		},
		{
			name:        "header disabled",
			opts:        []Option{WithHeader(nil)},
			notContains: []string{`class="site-header"`},
		},
		{
			name:     "custom header",
			opts:     []Option{WithHeader(&Header{Title: "Rolls", ProjectName: "rolls", ProjectURL: "https://example.org/rolls", Subject: "format"})},
			contains: []string{"<h1>Rolls</h1>", `<a href="https://example.org/rolls">rolls</a>`},
		},
		{
			name:        "intro disabled",
			opts:        []Option{WithoutIntro()},
			contains:    []string{`<div class="breadcrumbs"></div>`},
			notContains: []string{`class="root-intro"`},
		},
		{
			name:     "markdown intro",
			opts:     []Option{WithIntro("An **Edition** with `id` and `label`.")},
			contains: []string{`<div class="root-intro"><p>An <strong>Edition</strong> with <code>id</code> and <code>label</code>.</p></div>`},
		},
		{
			name:     "compact style appended",
			opts:     []Option{WithStyle("compact")},
			contains: []string{".rdf-mapping {", "max-width: 1200px"},
		},
		{
			name: "extra prefix linked",
			opts: []Option{WithPrefixes(map[string]string{"reo": "https://example.org/reo"})},
			contains: []string{
				`<a href="https://example.org/reo#Perforation" target="_blank" rel="noopener">reo:Perforation</a>`,
			},
		},
		{
			name:        "removed prefix left plain",
			opts:        []Option{WithPrefixes(map[string]string{"rdfs": ""})},
			contains:    []string{`<div class="rdf-mapping">rdfs:label</div>`},
			notContains: []string{"rdf-schema#label"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newTestProcessor(t, tt.opts...)
			res, err := p.Process(context.Background(), loadFixture(t))
			if err != nil {
				t.Fatalf("Process() unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(res.HTML, want) {
					t.Errorf("output missing %q", want)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(res.HTML, unwanted) {
					t.Errorf("output should not contain %q", unwanted)
				}
			}
		})
	}
}

func TestProcessor_Process_Blank(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(t)
	for _, input := range []string{"", "  \n\t"} {
		res, err := p.Process(context.Background(), input)
		if err != nil {
			t.Fatalf("Process(%q) unexpected error: %v", input, err)
		}
		if res.HTML != input {
			t.Errorf("Process(%q).HTML = %q, want input unchanged", input, res.HTML)
		}
		if res.Stats != (Stats{}) {
			t.Errorf("Process(%q).Stats = %+v, want zero", input, res.Stats)
		}
	}
}

func TestProcessor_Process_Errors(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(t)

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.Process(ctx, "<html></html>")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestProcessor_Process_HeaderError(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(t)
	renderErr := errors.New("render failed")
	mock := &mockHeaderInjector{err: renderErr}
	p.headerInjector = mock

	_, err := p.Process(context.Background(), "<html><head></head><body></body></html>")
	if !mock.called {
		t.Fatal("header injector not called")
	}
	if !errors.Is(err, renderErr) {
		t.Errorf("error = %v, want wrapped render error", err)
	}
	if !strings.Contains(err.Error(), "injecting header") {
		t.Errorf("error = %q, want step context", err)
	}
}

func TestProcessor_Process_RecoversPanic(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(t)
	p.styleInjector = panickingStyleInjector{}

	res, err := p.Process(context.Background(), "<html><head></head></html>")
	if err == nil || !strings.Contains(err.Error(), "internal error: boom") {
		t.Errorf("error = %v, want recovered panic", err)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
}

func TestProcessor_Process_LogsStats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := newTestProcessor(t, WithLogger(logger))
	_, err := p.Process(context.Background(),
		`<span class="description"><p>x [ontology: crm:E21] y [ontology: crm:E39]</p>`)
	if err != nil {
		t.Fatalf("Process() unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "document processed") || !strings.Contains(out, "stats.terms=1") {
		t.Errorf("debug record missing stats:\n%s", out)
	}
	if !strings.Contains(out, "several ontology markers") || !strings.Contains(out, "extra=1") {
		t.Errorf("warning for extra markers missing:\n%s", out)
	}
}

func TestNewProcessor_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{
			name:    "unknown style",
			opts:    []Option{WithStyle("nonexistent")},
			wantErr: ErrStyleNotFound,
		},
		{
			name:    "missing asset path",
			opts:    []Option{WithAssetPath("/nonexistent/assets/dir")},
			wantErr: ErrInvalidAssetPath,
		},
		{
			name:    "invalid prefix",
			opts:    []Option{WithPrefixes(map[string]string{"Bad": "https://example.org"})},
			wantErr: ErrInvalidPrefix,
		},
		{
			name:    "invalid reserved prefix",
			opts:    []Option{WithReserved("a b")},
			wantErr: ErrInvalidPrefix,
		},
		{
			name:    "missing style file",
			opts:    []Option{WithStyle("./nonexistent.css")},
			wantErr: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewProcessor(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewProcessor() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// writeAssetDir creates an asset directory holding files, keyed by slash path.
func writeAssetDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	return dir
}

func TestNewProcessor_AssetPathOverrides(t *testing.T) {
	t.Parallel()

	dir := writeAssetDir(t, map[string]string{
		"styles/default.css":   "body { color: black; }\n",
		"styles/brand.css":     ".site-header { color: teal; }\n",
		"templates/intro.html": "<p>Custom intro.</p>\n",
	})

	p := newTestProcessor(t, WithAssetPath(dir), WithStyle("brand"))
	res, err := p.Process(context.Background(), loadFixture(t))
	if err != nil {
		t.Fatalf("Process() unexpected error: %v", err)
	}

	for _, want := range []string{
		"body { color: black; }\n.site-header { color: teal; }",
		`<div class="root-intro"><p>Custom intro.</p></div>`,
		`<header class="site-header">`, // header template falls back to embedded
	} {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestNewProcessor_CustomHeaderTemplate(t *testing.T) {
	t.Parallel()

	t.Run("template without the header guard is rejected", func(t *testing.T) {
		t.Parallel()

		dir := writeAssetDir(t, map[string]string{
			"templates/header.html": `<header class="brand">{{.ProjectName}}</header>`,
		})
		_, err := NewProcessor(WithAssetPath(dir))
		if !errors.Is(err, ErrHeaderRender) {
			t.Errorf("NewProcessor() error = %v, want ErrHeaderRender", err)
		}
	})

	t.Run("template with the guard is injected once across runs", func(t *testing.T) {
		t.Parallel()

		dir := writeAssetDir(t, map[string]string{
			"templates/header.html": `<header class="site-header" data-brand="{{.ProjectName}}"></header>`,
		})
		p := newTestProcessor(t, WithAssetPath(dir))

		html := loadFixture(t)
		for range 2 {
			res, err := p.Process(context.Background(), html)
			if err != nil {
				t.Fatalf("Process() unexpected error: %v", err)
			}
			html = res.HTML
		}
		if n := strings.Count(html, `data-brand="linked-rolls"`); n != 1 {
			t.Errorf("header count = %d, want 1", n)
		}
	})
}

func TestNewProcessor_StyleFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "extra.css")
	if err := os.WriteFile(path, []byte(".rdf-mapping { color: red; }"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	p := newTestProcessor(t, WithStyle(path))
	if !strings.HasSuffix(p.css, ".rdf-mapping { color: red; }") {
		t.Errorf("style file should be appended after the base style, got suffix %q", p.css[max(0, len(p.css)-60):])
	}
}

func TestProcessor_Prefixes(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(t, WithReserved("mo"))
	got := strings.Join(p.Prefixes(), ",")
	want := "crm,dcterms,lrm,mo,owl,rdf,rdfs,reo"
	if got != want {
		t.Errorf("Prefixes() = %q, want %q", got, want)
	}
}

func TestProcessor_ProcessFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte(loadFixture(t)), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	p := newTestProcessor(t)
	res, err := p.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile() unexpected error: %v", err)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}
	if string(written) != res.HTML {
		t.Error("file content differs from returned HTML")
	}
}

func TestProcessor_ProcessFile_Errors(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(t)

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := p.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.html"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("empty file left untouched", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.html")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		res, err := p.ProcessFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ProcessFile() unexpected error: %v", err)
		}
		if res.HTML != "" || res.Stats.Changed() {
			t.Errorf("ProcessFile() = %+v, want empty output and no changes", res)
		}
	})
}

func TestStats_Changed(t *testing.T) {
	t.Parallel()

	if (Stats{Descriptions: 3}).Changed() {
		t.Error("scanning alone should not count as a change")
	}
	if !(Stats{LabelsDownsized: 1}).Changed() {
		t.Error("downsized labels should count as a change")
	}
}
