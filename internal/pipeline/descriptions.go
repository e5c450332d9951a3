package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/alnah/go-schemadoc/internal/ontology"
)

const (
	descriptionOpen = `<span class="description">`
	mappingOpen     = `<div class="rdf-mapping">`
	mappingClose    = `</div>`
)

// descriptionPattern matches a description paragraph. Content may span lines
// and ends at the first </p>.
// Captures: 1=opening tags, 2=content, 3=closing tag.
var descriptionPattern = regexp.MustCompile(`(?s)(<span class="description"><p>)(.*?)(</p>)`)

// DescriptionStats counts what a rewrite did.
type DescriptionStats struct {
	Blocks     int // description paragraphs scanned
	Rewritten  int // blocks carrying a marker
	MarkerOnly int // rewritten blocks whose paragraph was dropped
	Extra      int // markers beyond the first, stripped but not linked
	Terms      int // links inserted
}

// DescriptionRewriter moves ontology markers out of description paragraphs
// into linked mapping callouts.
type DescriptionRewriter struct {
	linker *ontology.Linker
}

// NewDescriptionRewriter creates a rewriter using linker for term links.
// A nil linker uses the built-in prefix table.
func NewDescriptionRewriter(linker *ontology.Linker) *DescriptionRewriter {
	if linker == nil {
		linker = ontology.DefaultLinker()
	}
	return &DescriptionRewriter{linker: linker}
}

// Rewrite processes every description block of htmlContent in one pass.
// Blocks without a marker are copied unchanged; replacements are never
// re-scanned.
func (r *DescriptionRewriter) Rewrite(ctx context.Context, htmlContent string) (string, DescriptionStats, error) {
	var stats DescriptionStats
	if err := ctx.Err(); err != nil {
		return "", stats, err
	}

	matches := descriptionPattern.FindAllStringSubmatchIndex(htmlContent, -1)
	stats.Blocks = len(matches)
	if len(matches) == 0 {
		return htmlContent, stats, nil
	}

	var out strings.Builder
	out.Grow(len(htmlContent) + len(matches)*64)

	last := 0
	for _, m := range matches {
		content := htmlContent[m[4]:m[5]]
		marker, ok := r.linker.ExtractMarker(content)
		if !ok {
			continue
		}

		out.WriteString(htmlContent[last:m[0]])
		if marker.Regular != "" {
			out.WriteString(htmlContent[m[2]:m[3]])
			out.WriteString(marker.Regular)
			out.WriteString(htmlContent[m[6]:m[7]])
		} else {
			out.WriteString(descriptionOpen)
			stats.MarkerOnly++
		}
		out.WriteString("\n")
		out.WriteString(mappingOpen)
		out.WriteString(marker.Mapping)
		out.WriteString(mappingClose)
		last = m[1]

		stats.Rewritten++
		stats.Extra += marker.Count - 1
		stats.Terms += marker.Linked
	}
	if stats.Rewritten == 0 {
		return htmlContent, stats, nil
	}
	out.WriteString(htmlContent[last:])

	return out.String(), stats, nil
}
