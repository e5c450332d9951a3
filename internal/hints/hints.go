// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"runtime"
	"strings"
)

// GOOS is the target platform consulted by platform-specific hints.
var GOOS = runtime.GOOS

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating a config in ~/.config/go-schemadoc/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-schemadoc") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForInputNotFound returns a hint for a missing HTML input file.
func ForInputNotFound() string {
	return format("generate the schema docs first, then run schemadoc on the generated index.html")
}

// ForNoInputs returns a hint when no HTML files matched the arguments.
func ForNoInputs() string {
	return format("pass HTML files, directories, or glob patterns such as 'docs/**/*.html'")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForInvalidPrefix returns a hint for rejected ontology prefix entries.
func ForInvalidPrefix() string {
	return format("prefixes are lowercase identifiers (e.g. crm) mapped to http(s) base URLs without '#'")
}

// ForWatchLimit returns a hint for exhausted file watch limits.
// Only Linux exposes the inotify sysctl.
func ForWatchLimit() string {
	if GOOS != "linux" {
		return format("watch fewer directories or close other file watchers")
	}
	return formatHints([]string{
		"watch fewer directories",
		"raise fs.inotify.max_user_watches (sysctl -w fs.inotify.max_user_watches=524288)",
	})
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
