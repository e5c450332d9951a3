package assets

import (
	"errors"
	"slices"
)

// AssetResolver looks assets up in a custom directory first and falls back
// to the embedded set for names the directory does not provide.
type AssetResolver struct {
	custom   *FilesystemLoader // nil without a custom directory
	embedded *EmbeddedLoader
}

// NewAssetResolver creates an AssetResolver.
// An empty customBasePath resolves embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath == "" {
		return r, nil
	}

	custom, err := NewFilesystemLoader(customBasePath)
	if err != nil {
		return nil, err
	}
	r.custom = custom
	return r, nil
}

// LoadStyle loads a style sheet, custom directory first.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.resolve(styleKind, name)
}

// LoadTemplate loads an HTML fragment, custom directory first.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.resolve(templateKind, name)
}

// Styles returns the sorted, distinct style names of both sources.
func (r *AssetResolver) Styles() []string {
	names := r.embedded.Styles()
	if r.custom != nil {
		names = append(names, r.custom.Styles()...)
		slices.Sort(names)
		names = slices.Compact(names)
	}
	return names
}

// resolve only falls back when the custom directory lacks the asset;
// invalid names and read errors are returned as is.
func (r *AssetResolver) resolve(k kind, name string) (string, error) {
	if r.custom != nil {
		content, err := r.custom.load(k, name)
		if !errors.Is(err, k.notFound) {
			return content, err
		}
	}
	return r.embedded.tree.load(k, name)
}

var _ AssetLoader = (*AssetResolver)(nil)
