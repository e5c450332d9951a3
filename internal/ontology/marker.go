package ontology

import (
	"regexp"
	"strings"
)

// markerPattern matches the structured marker appended to descriptions,
// including the whitespace that separates it from the regular text.
// Captures: 1=mapping payload.
var markerPattern = regexp.MustCompile(`\s*\[ontology:\s*(.+?)\]`)

// Marker is the result of splitting a description around its ontology marker.
type Marker struct {
	Regular string // description text with markers removed, trimmed
	Payload string // raw payload of the first marker
	Mapping string // Payload with term references linked
	Linked  int    // number of links in Mapping
	Count   int    // markers found in the description
}

// HasMarker reports whether content carries an ontology marker.
func HasMarker(content string) bool {
	return markerPattern.MatchString(content)
}

// ExtractMarker splits content into regular text and linked mapping.
// Returns false if content has no marker; content is then left to the caller
// as is.
//
// Only the first marker is linked, but every marker is stripped from the
// regular text.
func (l *Linker) ExtractMarker(content string) (Marker, bool) {
	all := markerPattern.FindAllStringSubmatch(content, -1)
	if len(all) == 0 {
		return Marker{}, false
	}

	payload := all[0][1]
	mapping, linked := l.LinkifyCount(payload)

	return Marker{
		Regular: strings.TrimSpace(markerPattern.ReplaceAllLiteralString(content, "")),
		Payload: payload,
		Mapping: mapping,
		Linked:  linked,
		Count:   len(all),
	}, true
}
