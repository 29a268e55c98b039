package contact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sells-group/client-intel/internal/htmldoc"
)

// abbrToState maps lowercase state abbreviations to lowercase full names.
var abbrToState = map[string]string{
	"al": "alabama", "ak": "alaska", "az": "arizona", "ar": "arkansas",
	"ca": "california", "co": "colorado", "ct": "connecticut", "de": "delaware",
	"fl": "florida", "ga": "georgia", "hi": "hawaii", "id": "idaho",
	"il": "illinois", "in": "indiana", "ia": "iowa", "ks": "kansas",
	"ky": "kentucky", "la": "louisiana", "me": "maine", "md": "maryland",
	"ma": "massachusetts", "mi": "michigan", "mn": "minnesota", "ms": "mississippi",
	"mo": "missouri", "mt": "montana", "ne": "nebraska", "nv": "nevada",
	"nh": "new hampshire", "nj": "new jersey", "nm": "new mexico", "ny": "new york",
	"nc": "north carolina", "nd": "north dakota", "oh": "ohio", "ok": "oklahoma",
	"or": "oregon", "pa": "pennsylvania", "ri": "rhode island", "sc": "south carolina",
	"sd": "south dakota", "tn": "tennessee", "tx": "texas", "ut": "utah",
	"vt": "vermont", "va": "virginia", "wa": "washington", "wv": "west virginia",
	"wi": "wisconsin", "wy": "wyoming", "dc": "district of columbia",
}

var streetAddrRe = regexp.MustCompile(`\b\d{1,6}\s+(?:[A-Za-z0-9.'#-]+\s+){1,6}?` +
	`(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Way|Court|Ct|Parkway|Pkwy|Place|Pl|Highway|Hwy|Circle|Cir|Terrace|Trail)\.?` +
	`(?:,?\s+(?:Suite|Ste\.?|Unit|#)\s*[\w-]+)?` +
	`,?\s+[A-Za-z][A-Za-z .'-]{1,40}?,\s*([A-Z]{2})\s+(\d{5}(?:-\d{4})?)\b`)

// Addresses returns postal addresses from structured data first, then from
// street-address patterns in the visible text.
func Addresses(doc *htmldoc.Document, text string) []string {
	out := []string{}
	seen := map[string]bool{}
	add := func(a string) {
		a = htmldoc.Clean(a)
		if a != "" && !seen[strings.ToLower(a)] {
			seen[strings.ToLower(a)] = true
			out = append(out, a)
		}
	}

	for _, block := range doc.JSONLD() {
		for _, a := range postalAddresses(block) {
			add(a)
		}
	}

	for _, m := range streetAddrRe.FindAllStringSubmatch(text, -1) {
		if _, ok := abbrToState[strings.ToLower(m[1])]; !ok {
			continue
		}
		add(m[0])
	}
	return out
}

// postalAddresses walks a JSON-LD object for PostalAddress-shaped values.
func postalAddresses(v any) []string {
	var out []string
	switch t := v.(type) {
	case map[string]any:
		if street, ok := t["streetAddress"].(string); ok && street != "" {
			out = append(out, formatPostal(t))
			return out
		}
		for k, child := range t {
			if k == "@context" {
				continue
			}
			out = append(out, postalAddresses(child)...)
		}
	case []any:
		for _, child := range t {
			out = append(out, postalAddresses(child)...)
		}
	}
	return out
}

func formatPostal(m map[string]any) string {
	get := func(k string) string {
		s, _ := m[k].(string)
		return strings.TrimSpace(s)
	}
	parts := []string{get("streetAddress")}
	if city := get("addressLocality"); city != "" {
		parts = append(parts, city)
	}
	region := strings.TrimSpace(fmt.Sprintf("%s %s", get("addressRegion"), get("postalCode")))
	if region != "" {
		parts = append(parts, region)
	}
	return strings.Join(parts, ", ")
}
