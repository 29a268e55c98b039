package people

import (
	"net/url"
	"sort"
	"strings"

	"github.com/sells-group/client-intel/internal/htmldoc"
	"github.com/sells-group/client-intel/internal/scrape"
)

// teamVocabulary are href fragments that suggest a page lists people.
var teamVocabulary = []string{
	"team",
	"about",
	"leadership",
	"staff",
	"people",
	"expert",
	"executive",
	"management",
	"founder",
	"board",
	"directors",
	"who-we-are",
	"our-story",
	"company",
	"bios",
	"partners",
	"professionals",
	"attorneys",
	"advisors",
	"meet",
}

// priorityWeights score a link by the fragments it contains.
var priorityWeights = []struct {
	fragment string
	weight   int
}{
	{"expert", 10},
	{"team", 8},
	{"staff", 6},
	{"about", 4},
}

// TeamLinks returns distinct same-site URLs whose href matches the team
// vocabulary, in document order. Fragments are dropped, the page itself is
// skipped, and URLs the matcher excludes are left out.
func TeamLinks(doc *htmldoc.Document, matcher *scrape.PathMatcher) []string {
	self := stripFragment(doc.URL.String())
	seen := map[string]bool{self: true}
	var out []string

	for _, a := range doc.Anchors() {
		if a.Href == "" {
			continue
		}
		u, err := doc.Resolve(a.Href)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || !doc.SameSite(u) {
			continue
		}
		if !matchesVocabulary(u.RequestURI()) {
			continue
		}
		u.Fragment = ""
		link := u.String()
		if seen[link] {
			continue
		}
		seen[link] = true
		if matcher != nil && matcher.IsExcluded(link) {
			continue
		}
		out = append(out, link)
	}
	return out
}

func matchesVocabulary(uri string) bool {
	lower := strings.ToLower(uri)
	for _, frag := range teamVocabulary {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

func stripFragment(raw string) string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// Priority sums the weights of every fragment in the URL path and query.
func Priority(link string) int {
	lower := strings.ToLower(link)
	if u, err := url.Parse(link); err == nil {
		lower = strings.ToLower(u.RequestURI())
	}
	score := 0
	for _, pw := range priorityWeights {
		if strings.Contains(lower, pw.fragment) {
			score += pw.weight
		}
	}
	return score
}

// Prioritize orders links by descending priority, keeping document order
// among equals, and returns at most limit of them.
func Prioritize(links []string, limit int) []string {
	ordered := make([]string, len(links))
	copy(ordered, links)
	sort.SliceStable(ordered, func(i, j int) bool {
		return Priority(ordered[i]) > Priority(ordered[j])
	})
	if limit >= 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered
}
