// Package report lists the ontology mappings found in a post-processed
// schema documentation page.
package report

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// RootProperty names mappings outside any property card.
const RootProperty = "(root)"

const markerText = "[ontology:"

// ErrParse is returned when the document cannot be parsed.
var ErrParse = errors.New("failed to parse HTML")

// Term is a linked ontology term.
type Term struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Mapping is one rendered mapping callout.
type Mapping struct {
	Property string `json:"property"`
	Text     string `json:"text"`
	Terms    []Term `json:"terms"`
}

// Unprocessed is a description still carrying a raw marker.
type Unprocessed struct {
	Property string `json:"property"`
	Text     string `json:"text"`
}

// Report holds everything found in one document.
type Report struct {
	Mappings    []Mapping     `json:"mappings"`
	Unprocessed []Unprocessed `json:"unprocessed"`
}

// Collect parses a document and gathers its mappings in document order.
func Collect(r io.Reader) (*Report, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	doc := goquery.NewDocumentFromNode(root)

	rep := &Report{
		Mappings:    []Mapping{},
		Unprocessed: []Unprocessed{},
	}

	doc.Find("div.rdf-mapping").Each(func(_ int, s *goquery.Selection) {
		m := Mapping{
			Property: propertyOf(s),
			Text:     collapseSpace(s.Text()),
			Terms:    []Term{},
		}
		s.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			m.Terms = append(m.Terms, Term{Name: strings.TrimSpace(a.Text()), URL: href})
		})
		rep.Mappings = append(rep.Mappings, m)
	})

	doc.Find("span.description").Each(func(_ int, s *goquery.Selection) {
		text := collapseSpace(s.Text())
		if !strings.Contains(text, markerText) {
			return
		}
		rep.Unprocessed = append(rep.Unprocessed, Unprocessed{
			Property: propertyOf(s),
			Text:     text,
		})
	})

	return rep, nil
}

// CollectString is Collect for an in-memory document.
func CollectString(doc string) (*Report, error) {
	return Collect(strings.NewReader(doc))
}

// Terms returns the distinct linked terms sorted by name.
func (r *Report) Terms() []Term {
	seen := make(map[Term]bool)
	var terms []Term
	for _, m := range r.Mappings {
		for _, t := range m.Terms {
			if seen[t] {
				continue
			}
			seen[t] = true
			terms = append(terms, t)
		}
	}
	slices.SortFunc(terms, func(a, b Term) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.URL, b.URL)
	})
	return terms
}

// WriteText writes one aligned line per mapping, followed by unprocessed
// descriptions, if any.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, m := range r.Mappings {
		fmt.Fprintf(tw, "%s\t%s\n", m.Property, m.Text)
		for _, t := range m.Terms {
			fmt.Fprintf(tw, "\t  %s\t%s\n", t.Name, t.URL)
		}
	}
	if len(r.Unprocessed) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Unprocessed markers:")
		for _, u := range r.Unprocessed {
			fmt.Fprintf(tw, "%s\t%s\n", u.Property, u.Text)
		}
	}

	return tw.Flush()
}

// propertyOf names the property card enclosing s.
func propertyOf(s *goquery.Selection) string {
	card := s.Closest("div.card")
	if card.Length() == 0 {
		return RootProperty
	}

	if name := strings.TrimSpace(card.Find(".property-name").First().Text()); name != "" {
		return name
	}
	if name := strings.TrimSpace(card.Find(".property-name-button").First().Text()); name != "" {
		return name
	}
	if id, ok := s.Closest("div.property-definition-div").Attr("id"); ok && id != "" {
		return id
	}
	return RootProperty
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
