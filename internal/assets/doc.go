// Package assets provides the style sheets and HTML fragments injected into
// generated schema documentation.
//
// Assets live in two directories of an asset tree:
//
//	{basePath}/
//	├── styles/{name}.css
//	└── templates/
//	    ├── header.html    # branding header (html/template)
//	    └── intro.html     # root-object introduction
//
// EmbeddedLoader serves the tree compiled into the binary. FilesystemLoader
// serves a tree on disk. AssetResolver layers a directory over the embedded
// tree, so a project can override the header while keeping the built-in
// style sheet.
//
// Names are restricted to letters, digits, '-' and '_', and files reached
// through symlinks must stay inside the asset directory.
package assets
