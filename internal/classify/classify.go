// Package classify decides whether a path names an HTML document that the
// converter accepts.
package classify

import (
	"path/filepath"
	"strings"
)

// extensions lists the accepted lowercase extensions.
var extensions = []string{".html", ".htm"}

// IsHTMLFile reports whether the final extension of path is .html or .htm,
// ignoring case. Only the last dot-separated segment of the base name counts.
func IsHTMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
