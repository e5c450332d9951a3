package assets

import "embed"

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// EmbeddedLoader loads the assets compiled into the binary.
type EmbeddedLoader struct {
	tree treeLoader
}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{tree: treeLoader{fsys: builtin}}
}

// LoadStyle loads styles/{name}.css.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.tree.load(styleKind, name)
}

// LoadTemplate loads templates/{name}.html.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.tree.load(templateKind, name)
}

// Styles returns the sorted names of the embedded styles.
func (e *EmbeddedLoader) Styles() []string {
	return e.tree.list(styleKind)
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
