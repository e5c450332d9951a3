package pipeline

import (
	"regexp"
	"strings"
)

// rootObjectPattern matches the generator's rendering of the root object:
// empty breadcrumbs, the object type badge and the schema description.
var rootObjectPattern = regexp.MustCompile(
	`<div class="breadcrumbs"></div>` +
		`<span class="badge badge-dark value-type">Type: object</span><br/>\s*` +
		`<span class="description"><p>[^<]*</p>\s*</span>`,
)

// RootIntroClass is the class of the element replacing the root object block.
const RootIntroClass = "root-intro"

// WrapRootIntro wraps intro markup in the root intro container.
func WrapRootIntro(intro string) string {
	return `<div class="` + RootIntroClass + `">` + strings.TrimSpace(intro) + `</div>`
}

// ReplaceRootIntro replaces the first root object block with intro, which is
// inserted verbatim. Later matches are left alone. Reports whether a
// replacement happened.
func ReplaceRootIntro(htmlContent, intro string) (string, bool) {
	loc := rootObjectPattern.FindStringIndex(htmlContent)
	if loc == nil {
		return htmlContent, false
	}
	return htmlContent[:loc[0]] + intro + htmlContent[loc[1]:], true
}
