// Package pathutil handles URL path parameters and collapses request paths
// into bounded route labels for metrics and span names.
package pathutil

import (
	"regexp"
	"strings"
)

type pathPattern struct {
	pattern  *regexp.Regexp
	template string
}

// Evaluated in order.
var pathPatterns = []pathPattern{
	{pattern: regexp.MustCompile(`^/incidents/\d+$`), template: "/incidents/:id"},
	{pattern: regexp.MustCompile(`^/incidents/[^/]+$`), template: "/incidents/:id"},
}

var staticPaths = map[string]bool{
	"/incidents":         true,
	"/incidents/summary": true,
	"/districts":         true,
	"/scans":             true,
	"/auth/token":        true,
	"/health":            true,
	"/health/channels":   true,
	"/ready":             true,
	"/live":              true,
	"/metrics":           true,
}

// NormalizePath maps a request path to a bounded metric label. Known static
// routes pass through, ID routes collapse to a template and anything else
// becomes "other" so that scanners probing random URLs cannot blow up
// label cardinality.
//
//	NormalizePath("/incidents/123")     // "/incidents/:id"
//	NormalizePath("/incidents/summary") // "/incidents/summary"
//	NormalizePath("/wp-login.php")      // "other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if staticPaths[path] {
		return path
	}
	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}
	return "other"
}

// GetExpectedCardinality is the number of distinct labels NormalizePath
// can return.
func GetExpectedCardinality() int {
	templates := map[string]bool{"other": true}
	for _, p := range pathPatterns {
		templates[p.template] = true
	}
	return len(staticPaths) + len(templates)
}
