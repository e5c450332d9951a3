package pipeline

import "strings"

const (
	arrayItemsHeading = `<h4>Each item of this array must be:</h4>`
	arrayItemsLabel   = `<p class="array-items-label"><em>Each item of this array must be:</em></p>`
)

// DownsizeArrayLabels turns every "Each item of this array must be:" heading
// into a small label paragraph. Returns the number of replacements.
func DownsizeArrayLabels(htmlContent string) (string, int) {
	n := strings.Count(htmlContent, arrayItemsHeading)
	if n == 0 {
		return htmlContent, 0
	}
	return strings.ReplaceAll(htmlContent, arrayItemsHeading, arrayItemsLabel), n
}
