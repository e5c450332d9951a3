// Package ontology links ontology term references (crm:E21, rdfs:label, ...)
// found in schema descriptions to their external definitions.
//
// A Table maps a short prefix to the base URL of its vocabulary. A Linker
// recognizes a closed set of prefixes: every prefix of the table plus any
// reserved prefixes that are known but have no URL yet. Reserved prefixes
// match syntactically and are left untouched.
//
// Descriptions carry their mappings in a structured marker appended by the
// schema build:
//
//	A physical copy of a piano roll. [ontology: crm:E22 Human-Made Object]
//
// ExtractMarker splits such a description into its regular text and the
// linked mapping payload.
package ontology
