package assets

import "errors"

// Built-in asset names.
const (
	DefaultStyleName   = "default"
	HeaderTemplateName = "header"
	IntroTemplateName  = "intro"
)

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid asset directory")
	ErrAssetRead        = errors.New("failed to read asset")
)

var builtinLoader = NewEmbeddedLoader()

// LoadStyle loads an embedded style sheet by name.
func LoadStyle(name string) (string, error) {
	return builtinLoader.LoadStyle(name)
}

// LoadTemplate loads an embedded HTML fragment by name.
func LoadTemplate(name string) (string, error) {
	return builtinLoader.LoadTemplate(name)
}

// AvailableStyles lists the names of the embedded styles.
func AvailableStyles() []string {
	return builtinLoader.Styles()
}

// ListStyles lists the styles usable with the asset directory basePath:
// its own styles plus the embedded ones. An empty basePath lists the
// embedded styles only.
func ListStyles(basePath string) ([]string, error) {
	if basePath == "" {
		return AvailableStyles(), nil
	}
	r, err := NewAssetResolver(basePath)
	if err != nil {
		return nil, err
	}
	return r.Styles(), nil
}
