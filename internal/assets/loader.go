package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
)

// AssetLoader loads style sheets and HTML fragments by name.
// Names carry no extension; invalid names fail with ErrInvalidAssetName.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// kind is a category of asset kept in its own directory.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// path returns the slash-separated location of name within an asset tree.
func (k kind) path(name string) string {
	return k.dir + "/" + name + k.ext
}

// assetNamePattern excludes dots so a name cannot select another extension
// or climb out of its directory.
var assetNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAssetName checks that name is usable as an asset file name.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if !assetNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// treeLoader reads assets laid out as styles/*.css and templates/*.html.
type treeLoader struct {
	fsys fs.FS
}

func (l treeLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := fs.ReadFile(l.fsys, k.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", k.notFound, name)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrAssetRead, k.path(name), err)
	}
	return string(content), nil
}

// list returns the sorted names of the assets of kind k.
func (l treeLoader) list(k kind) []string {
	entries, err := fs.ReadDir(l.fsys, k.dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), k.ext)
		if !ok || entry.IsDir() || ValidateAssetName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	return names
}
