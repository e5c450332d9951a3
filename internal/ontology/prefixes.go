package ontology

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
)

// ErrInvalidPrefix indicates a prefix or its base URL cannot be used.
var ErrInvalidPrefix = errors.New("invalid ontology prefix")

// Default base URLs. The term code is appended as the URL fragment.
const (
	CRMBaseURL     = "https://cidoc-crm.org/html/cidoc_crm_v7.1.3.html"
	LRMBaseURL     = "https://cidoc-crm.org/extensions/lrmoo/html/LRMoo_v0.9.6.html"
	RDFBaseURL     = "https://www.w3.org/1999/02/22-rdf-syntax-ns"
	RDFSBaseURL    = "https://www.w3.org/2000/01/rdf-schema"
	OWLBaseURL     = "https://www.w3.org/2002/07/owl"
	DCTermsBaseURL = "https://www.dublincore.org/specifications/dublin-core/dcmi-terms"
)

// DefaultReserved lists prefixes that are recognized but have no base URL.
var DefaultReserved = []string{"reo"}

// prefixPattern restricts prefix names so they are safe to splice into a regexp.
var prefixPattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// Table maps an ontology prefix to the base URL of its vocabulary.
// A Table is treated as immutable once handed to a Linker.
type Table map[string]string

// DefaultTable returns a fresh copy of the built-in prefix table.
func DefaultTable() Table {
	return Table{
		"crm":     CRMBaseURL,
		"lrm":     LRMBaseURL,
		"rdf":     RDFBaseURL,
		"rdfs":    RDFSBaseURL,
		"owl":     OWLBaseURL,
		"dcterms": DCTermsBaseURL,
	}
}

// URL returns base#code for a mapped prefix.
// Returns false if the prefix has no base URL.
func (t Table) URL(prefix, code string) (string, bool) {
	base, ok := t[prefix]
	if !ok || base == "" {
		return "", false
	}
	return base + "#" + code, true
}

// Merge returns a new table with the entries of other layered over t.
// An empty URL in other removes the mapping while keeping t untouched.
func (t Table) Merge(other map[string]string) Table {
	merged := make(Table, len(t)+len(other))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range other {
		if v == "" {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	return merged
}

// Prefixes returns the mapped prefixes in sorted order.
func (t Table) Prefixes() []string {
	prefixes := make([]string, 0, len(t))
	for p := range t {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}

// Validate checks every prefix name and base URL.
func (t Table) Validate() error {
	for _, prefix := range t.Prefixes() {
		if err := ValidatePrefix(prefix); err != nil {
			return err
		}
		if err := validateBaseURL(prefix, t[prefix]); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePrefix checks that a prefix is a lowercase identifier.
func ValidatePrefix(prefix string) error {
	if !prefixPattern.MatchString(prefix) {
		return fmt.Errorf("%w: %q (must match %s)", ErrInvalidPrefix, prefix, prefixPattern)
	}
	return nil
}

func validateBaseURL(prefix, base string) error {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPrefix, prefix, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %s: base URL must be http or https, got %q", ErrInvalidPrefix, prefix, base)
	}
	if u.Fragment != "" {
		return fmt.Errorf("%w: %s: base URL must not carry a fragment", ErrInvalidPrefix, prefix)
	}
	return nil
}
