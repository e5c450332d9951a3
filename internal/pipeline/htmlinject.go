package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
)

// ErrHeaderRender indicates the header template failed to execute.
var ErrHeaderRender = errors.New("header template rendering failed")

// viewportMeta is inserted together with the style block.
const viewportMeta = `<meta name="viewport" content="width=device-width, initial-scale=1">`

// HeaderGuard is the attribute whose presence means a header was already injected.
const HeaderGuard = `class="site-header"`

// ReplaceTitle replaces every <title>match</title> with <title>replacement</title>.
// Both values are plain text and are HTML-escaped. An empty match is a no-op.
// Returns the number of replacements.
func ReplaceTitle(htmlContent, match, replacement string) (string, int) {
	if match == "" {
		return htmlContent, 0
	}
	old := "<title>" + html.EscapeString(match) + "</title>"
	n := strings.Count(htmlContent, old)
	if n == 0 {
		return htmlContent, 0
	}
	return strings.ReplaceAll(htmlContent, old, "<title>"+html.EscapeString(replacement)+"</title>"), n
}

// StyleInjector defines the contract for style injection into HTML.
type StyleInjector interface {
	InjectStyle(ctx context.Context, htmlContent, cssContent string) (string, bool)
}

// StyleInjection inserts the viewport meta tag and a <style> block.
type StyleInjection struct{}

// InjectStyle inserts the viewport meta and style block before the first
// </head> (case-insensitive). Documents without </head> are returned unchanged
// and false is reported. CSS is sanitized so it cannot close the style element.
func (s *StyleInjection) InjectStyle(ctx context.Context, htmlContent, cssContent string) (string, bool) {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent, false
	}

	idx := strings.Index(strings.ToLower(htmlContent), "</head>")
	if idx == -1 {
		return htmlContent, false
	}

	var block strings.Builder
	block.Grow(len(cssContent) + 96)
	block.WriteString("\n")
	block.WriteString(viewportMeta)
	block.WriteString("\n<style>\n")
	block.WriteString(sanitizeCSS(cssContent))
	if !strings.HasSuffix(cssContent, "\n") {
		block.WriteString("\n")
	}
	block.WriteString("</style>\n")

	return htmlContent[:idx] + block.String() + htmlContent[idx:], true
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// HeaderData holds the branding shown at the top of the page.
type HeaderData struct {
	Title       string
	ProjectName string
	ProjectURL  string
	Subject     string
}

// HeaderInjector defines the contract for header injection into HTML.
type HeaderInjector interface {
	InjectHeader(ctx context.Context, htmlContent string, data *HeaderData) (string, int, error)
}

// HeaderInjection renders and injects the branding header.
type HeaderInjection struct {
	tmpl *template.Template
}

// bodyOpenPattern matches opening body tags, attributes included.
var bodyOpenPattern = regexp.MustCompile(`<body[^>]*>`)

// NewHeaderInjection creates a HeaderInjection from template content.
// Returns error if the template cannot be parsed, or ErrHeaderRender if it
// does not carry HeaderGuard, without which repeated runs would stack headers.
func NewHeaderInjection(tmplContent string) (*HeaderInjection, error) {
	tmpl, err := template.New("header").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing header template: %w", err)
	}
	if !strings.Contains(tmplContent, HeaderGuard) {
		return nil, fmt.Errorf("%w: template must contain %s", ErrHeaderRender, HeaderGuard)
	}
	return &HeaderInjection{tmpl: tmpl}, nil
}

// InjectHeader renders the header and inserts it after every opening <body>
// tag. Nothing is injected if data is nil or the document already carries a
// header, which makes repeated runs safe. Returns the number of insertions.
func (h *HeaderInjection) InjectHeader(ctx context.Context, htmlContent string, data *HeaderData) (string, int, error) {
	if data == nil {
		return htmlContent, 0, nil
	}
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	if strings.Contains(htmlContent, HeaderGuard) {
		return htmlContent, 0, nil
	}

	locs := bodyOpenPattern.FindAllStringIndex(htmlContent, -1)
	if len(locs) == 0 {
		return htmlContent, 0, nil
	}

	var buf bytes.Buffer
	buf.WriteString("\n")
	if err := h.tmpl.Execute(&buf, data); err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrHeaderRender, err)
	}
	buf.WriteString("\n")
	header := buf.String()
	if !strings.Contains(header, HeaderGuard) {
		return "", 0, fmt.Errorf("%w: rendered header lacks %s", ErrHeaderRender, HeaderGuard)
	}

	var out strings.Builder
	out.Grow(len(htmlContent) + len(locs)*len(header))
	last := 0
	for _, loc := range locs {
		out.WriteString(htmlContent[last:loc[1]])
		out.WriteString(header)
		last = loc[1]
	}
	out.WriteString(htmlContent[last:])

	return out.String(), len(locs), nil
}
