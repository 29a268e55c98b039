package contact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sells-group/client-intel/internal/htmldoc"
)

var hoursRe = regexp.MustCompile(`(?i)\b(?:mon(?:day)?|tue(?:s(?:day)?)?|wed(?:nesday)?|thu(?:rs(?:day)?)?|fri(?:day)?|sat(?:urday)?|sun(?:day)?)\b` +
	`[^\n]{0,40}?\d{1,2}(?::\d{2})?\s*(?:am|pm|a\.m\.|p\.m\.)\s*(?:-|–|to)\s*\d{1,2}(?::\d{2})?\s*(?:am|pm|a\.m\.|p\.m\.)`)

// BusinessHours returns opening hours from structured data, falling back to
// the first day-and-time range in the visible text.
func BusinessHours(doc *htmldoc.Document, text string) string {
	for _, block := range doc.JSONLD() {
		if h := ldHours(block); h != "" {
			return h
		}
	}
	return htmldoc.Clean(hoursRe.FindString(text))
}

func ldHours(block map[string]any) string {
	switch h := block["openingHours"].(type) {
	case string:
		return strings.TrimSpace(h)
	case []any:
		var parts []string
		for _, p := range h {
			if s, ok := p.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}

	specs, ok := block["openingHoursSpecification"].([]any)
	if !ok {
		return ""
	}
	var parts []string
	for _, raw := range specs {
		spec, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		opens, _ := spec["opens"].(string)
		closes, _ := spec["closes"].(string)
		if opens == "" || closes == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s-%s", dayList(spec["dayOfWeek"]), opens, closes))
	}
	return strings.Join(parts, "; ")
}

func dayList(v any) string {
	trim := func(s string) string {
		return strings.TrimPrefix(strings.TrimPrefix(s, "https://schema.org/"), "http://schema.org/")
	}
	switch d := v.(type) {
	case string:
		return trim(d)
	case []any:
		var days []string
		for _, x := range d {
			if s, ok := x.(string); ok {
				days = append(days, trim(s))
			}
		}
		return strings.Join(days, ",")
	}
	return ""
}
