// Package schemadoc post-processes HTML documentation generated from a JSON
// Schema, branding it and turning ontology markers into linked callouts.
//
// # Quick Start
//
// Create a processor and run it over a generated page:
//
//	proc, err := schemadoc.NewProcessor()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := proc.Process(ctx, generatedHTML)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("index.html", []byte(res.HTML), 0644)
//
// ProcessFile does the same in place, replacing the file atomically.
//
// # Rewrite Steps
//
// Steps run in this order over the whole document:
//
//  1. Title replacement ("Schema Docs" becomes the configured title)
//  2. Viewport meta and style block inserted before </head>
//  3. Branding header inserted after <body>, unless one is already present
//  4. Root object block replaced by an introduction, at most once
//  5. "Each item of this array must be:" headings downsized to labels
//  6. Description markers "[ontology: crm:E21 Person]" moved into
//     <div class="rdf-mapping"> callouts with linked terms
//
// Only step 3 is guarded against repeated runs. Running a processor twice over
// its own output inserts the style block again.
//
// # Ontology Prefixes
//
// Terms are written as prefix:Code. The built-in table maps crm, lrm, rdf,
// rdfs, owl and dcterms; reo is recognized but never linked. A term links to
// the prefix base URL with the code as fragment:
//
//	crm:E21 -> https://cidoc-crm.org/html/cidoc_crm_v7.1.3.html#E21
//
// Use WithPrefixes to add, replace or remove entries and WithReserved to
// recognize more prefixes without linking them.
//
// # Configuration
//
// Use functional options to customize the processor:
//
//	proc, err := schemadoc.NewProcessor(
//	    schemadoc.WithTitle("Schema Docs", "Piano Roll Format"),
//	    schemadoc.WithHeader(&schemadoc.Header{Title: "Piano Roll Format"}),
//	    schemadoc.WithIntro("The root element is an **Edition**."),
//	    schemadoc.WithStyle("compact"),
//	)
//
// A Processor is immutable after construction and safe for concurrent use.
package schemadoc
