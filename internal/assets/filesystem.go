package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads assets from a directory laid out like the embedded
// tree. Files reached through symlinks must stay inside the directory.
type FilesystemLoader struct {
	tree     treeLoader
	basePath string // absolute, symlinks resolved
}

// NewFilesystemLoader opens basePath as an asset directory.
// Returns ErrInvalidBasePath if it is not a readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidBasePath, absPath)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{
		tree:     treeLoader{fsys: os.DirFS(absPath)},
		basePath: absPath,
	}, nil
}

// LoadStyle loads {basePath}/styles/{name}.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.load(styleKind, name)
}

// LoadTemplate loads {basePath}/templates/{name}.html.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.load(templateKind, name)
}

// Styles returns the sorted names of the styles in the directory.
func (f *FilesystemLoader) Styles() []string {
	return f.tree.list(styleKind)
}

func (f *FilesystemLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	if err := f.contain(filepath.Join(f.basePath, filepath.FromSlash(k.path(name)))); err != nil {
		return "", err
	}
	return f.tree.load(k, name)
}

// contain rejects a path whose symlink target lies outside basePath.
// A missing file passes; reading it reports not found.
func (f *FilesystemLoader) contain(path string) error {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil
	}
	if !strings.HasPrefix(resolved, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s resolves outside %s", ErrInvalidAssetName, filepath.Base(path), f.basePath)
	}
	return nil
}

var _ AssetLoader = (*FilesystemLoader)(nil)
