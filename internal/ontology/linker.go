package ontology

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Term is an ontology term reference found in text.
type Term struct {
	Prefix string // "crm"
	Code   string // "E21"
	URL    string // empty when the prefix is reserved but unmapped
}

// String returns the term as written in the source text.
func (t Term) String() string {
	return t.Prefix + ":" + t.Code
}

// Resolved reports whether the term has a target URL.
func (t Term) Resolved() bool {
	return t.URL != ""
}

// Linker replaces ontology term references with links to their definitions.
// A Linker is immutable and safe for concurrent use.
type Linker struct {
	table    Table
	prefixes []string
	pattern  *regexp.Regexp
}

// NewLinker creates a Linker recognizing every prefix of table plus reserved.
// Returns ErrInvalidPrefix if a prefix name or base URL is malformed.
func NewLinker(table Table, reserved ...string) (*Linker, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(table)+len(reserved))
	var prefixes []string
	for _, p := range table.Prefixes() {
		seen[p] = true
		prefixes = append(prefixes, p)
	}
	for _, p := range reserved {
		if err := ValidatePrefix(p); err != nil {
			return nil, err
		}
		if !seen[p] {
			seen[p] = true
			prefixes = append(prefixes, p)
		}
	}
	if len(prefixes) == 0 {
		return nil, fmt.Errorf("%w: no prefixes configured", ErrInvalidPrefix)
	}
	sort.Strings(prefixes)

	// Prefix names are validated identifiers, no quoting needed. Word
	// characters are Unicode-aware; RE2 has no Unicode \b, so the leading
	// boundary is checked in find.
	pattern := regexp.MustCompile(`(` + strings.Join(prefixes, "|") + `):([A-Za-z][\p{L}\p{N}_]*)`)

	return &Linker{
		table:    table.Merge(nil),
		prefixes: prefixes,
		pattern:  pattern,
	}, nil
}

// DefaultLinker returns a Linker over DefaultTable and DefaultReserved.
func DefaultLinker() *Linker {
	l, err := NewLinker(DefaultTable(), DefaultReserved...)
	if err != nil {
		panic("ontology: default prefix table is invalid: " + err.Error())
	}
	return l
}

// Prefixes returns the recognized prefixes, mapped and reserved, sorted.
func (l *Linker) Prefixes() []string {
	return append([]string(nil), l.prefixes...)
}

// Terms returns every recognized term reference in text, in order.
func (l *Linker) Terms(text string) []Term {
	matches := l.find(text)
	if len(matches) == 0 {
		return nil
	}
	terms := make([]Term, 0, len(matches))
	for _, m := range matches {
		prefix, code := text[m[2]:m[3]], text[m[4]:m[5]]
		u, _ := l.table.URL(prefix, code)
		terms = append(terms, Term{Prefix: prefix, Code: code, URL: u})
	}
	return terms
}

// Linkify wraps each mapped term reference in an anchor opening in a new tab.
// The visible text is the reference as written. Terms with a reserved prefix
// are left as plain text.
func (l *Linker) Linkify(text string) string {
	out, _ := l.LinkifyCount(text)
	return out
}

// LinkifyCount is Linkify that also reports how many links were inserted.
func (l *Linker) LinkifyCount(text string) (string, int) {
	matches := l.find(text)
	if len(matches) == 0 {
		return text, 0
	}

	var buf strings.Builder
	buf.Grow(len(text) + len(matches)*96)

	last, linked := 0, 0
	for _, m := range matches {
		prefix, code := text[m[2]:m[3]], text[m[4]:m[5]]
		target, ok := l.table.URL(prefix, code)
		if !ok {
			continue
		}
		buf.WriteString(text[last:m[0]])
		buf.WriteString(`<a href="`)
		buf.WriteString(html.EscapeString(target))
		buf.WriteString(`" target="_blank" rel="noopener">`)
		buf.WriteString(text[m[0]:m[1]])
		buf.WriteString(`</a>`)
		last = m[1]
		linked++
	}
	if linked == 0 {
		return text, 0
	}
	buf.WriteString(text[last:])
	return buf.String(), linked
}

// find returns the submatch indices of every term reference that starts at a
// word boundary. A candidate preceded by a letter, digit or underscore is
// skipped and the scan resumes one rune later, so "xcrm:crm:E1" still yields
// "crm:E1".
func (l *Linker) find(text string) [][]int {
	var matches [][]int
	for pos := 0; pos < len(text); {
		m := l.pattern.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		for i := range m {
			if m[i] >= 0 {
				m[i] += pos
			}
		}
		if prev, _ := utf8.DecodeLastRuneInString(text[:m[0]]); m[0] > 0 && isWordRune(prev) {
			_, size := utf8.DecodeRuneInString(text[m[0]:])
			pos = m[0] + size
			continue
		}
		matches = append(matches, m)
		pos = m[1]
	}
	return matches
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
