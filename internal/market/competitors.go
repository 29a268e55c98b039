package market

import (
	"regexp"
	"strings"
)

// competitorRe captures a run of capitalized words following a comparison
// phrase, e.g. "Acme vs Globex Industries" or "an alternative to Initech".
var competitorRe = regexp.MustCompile(`(?i:\bvs\.?|\bversus|\bcompared to|\balternatives? to)\s+((?:[A-Z0-9][\w&'.-]*)(?:\s+[A-Z0-9][\w&'.-]*){0,3})`)

// stopWords end a candidate name.
var stopWords = map[string]bool{
	"The": true, "A": true, "An": true, "And": true, "Or": true, "In": true, "For": true,
	"Which": true, "What": true, "Who": true, "Is": true, "Are": true, "Review": true,
	"Reviews": true, "Comparison": true, "Pricing": true, "Features": true,
}

// CompetitorMentions returns the names following comparison phrases in text,
// in order of appearance.
func CompetitorMentions(text string) []string {
	var out []string
	for _, m := range competitorRe.FindAllStringSubmatch(text, -1) {
		if name := cleanName(m[1]); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func cleanName(run string) string {
	var words []string
	for _, w := range strings.Fields(run) {
		if stopWords[w] {
			if len(words) == 0 {
				continue
			}
			break
		}
		words = append(words, w)
	}
	name := strings.Trim(strings.Join(words, " "), ".,:;!?-'")
	if len(name) < 2 {
		return ""
	}
	return name
}
