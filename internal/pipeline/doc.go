// Package pipeline implements the rewrite steps applied to generated schema docs.
//
// Each step is a plain string or regexp substitution over the whole document:
//   - Title replacement
//   - Style and viewport injection before </head>
//   - Branding header injection after <body>, guarded against duplication
//   - Root-object intro replacement, at most once
//   - Array-items heading downsizing
//   - Description rewriting: ontology markers moved into linked callouts
//
// The steps assume the markup shapes emitted by the docs generator and do not
// parse HTML. The root schemadoc package runs them in order; file I/O and
// batching live in the CLI.
package pipeline
