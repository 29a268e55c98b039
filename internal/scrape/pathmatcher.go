package scrape

import (
	"net/url"
	"path"
	"strings"
)

// defaultExcludePatterns keep asset and infrastructure URLs out of crawls.
var defaultExcludePatterns = []string{
	"/*.pdf",
	"/*.jpg",
	"/*.png",
	"/wp-content/*",
	"/cdn-cgi/*",
}

// PathMatcher filters URLs based on glob-style path patterns.
//
// "/dir/*" matches the directory and everything below it. "/*.ext" matches
// the extension at any depth.
type PathMatcher struct {
	patterns []string
}

// NewPathMatcher creates a PathMatcher, falling back to asset defaults when
// no patterns are given.
func NewPathMatcher(patterns []string) *PathMatcher {
	if len(patterns) == 0 {
		patterns = defaultExcludePatterns
	}
	lowered := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			lowered = append(lowered, p)
		}
	}
	return &PathMatcher{patterns: lowered}
}

// Patterns returns the configured patterns.
func (m *PathMatcher) Patterns() []string {
	return m.patterns
}

// IsExcluded reports whether a URL matches any exclude pattern. Unparseable
// URLs are excluded.
func (m *PathMatcher) IsExcluded(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	urlPath := strings.ToLower(u.Path)
	for _, pattern := range m.patterns {
		if matchPattern(pattern, urlPath) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, urlPath string) bool {
	if ok, _ := path.Match(pattern, urlPath); ok {
		return true
	}

	if strings.HasPrefix(pattern, "/*.") {
		return strings.HasSuffix(urlPath, pattern[2:])
	}

	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		return urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/")
	}

	return false
}
