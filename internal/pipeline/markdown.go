package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrIntroRender indicates the intro Markdown could not be converted.
var ErrIntroRender = errors.New("intro rendering failed")

// IntroRenderer abstracts rendering of the root intro from Markdown.
type IntroRenderer interface {
	RenderIntro(ctx context.Context, markdown string) (string, error)
}

// GoldmarkRenderer renders intro Markdown using goldmark (pure Go).
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewGoldmarkRenderer creates a GoldmarkRenderer with GFM extensions and
// class-based syntax highlighting for fenced JSON examples.
func NewGoldmarkRenderer() *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// Raw HTML in the intro is dropped; WithUnsafe is not enabled.
		),
	)
	return &GoldmarkRenderer{md: md}
}

// RenderIntro converts Markdown to an HTML fragment wrapped in the root intro
// container. Goldmark has no context support, so conversion runs in a
// goroutine raced against ctx.
func (g *GoldmarkRenderer) RenderIntro(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := g.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrIntroRender, err)}
			return
		}
		done <- result{html: WrapRootIntro(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
