package people

import (
	"regexp"
	"strings"
)

// nameWord is one capitalized name token: "Jane", "McDonald", "O'Brien",
// "Smith-Jones".
const nameWord = `(?:Mc|Mac|O')?[A-Z][a-z]+(?:-[A-Z][a-z]+)?`

var (
	// strictNameRe is a whole string of two to four name words.
	strictNameRe = regexp.MustCompile(`^` + nameWord + `(?:\s+` + nameWord + `){1,3}$`)
	// leadingNameRe is a two-word name at the start of a string.
	leadingNameRe = regexp.MustCompile(`^(` + nameWord + `\s+` + nameWord + `)\b`)
	// middleInitialRe is "First M. Last" anywhere in a string.
	middleInitialRe = regexp.MustCompile(`\b(` + nameWord + `\s+[A-Z]\.\s+` + nameWord + `)\b`)
	// linkNameRe is anchor text of two or more name words.
	linkNameRe = regexp.MustCompile(`^` + nameWord + `(?:\s+` + nameWord + `)+$`)

	// credentialRe strips trailing credentials such as ", CPA" or ", Ph.D.".
	credentialRe = regexp.MustCompile(`,\s*[A-Z][A-Za-z.]{1,5}\.?$`)
)

// NameRule extracts a candidate name from a block of text. Rules are tried
// in order and the first accepted candidate wins.
type NameRule struct {
	Name    string
	Extract func(text string) string
}

// NameFilter rejects a candidate name when it returns false.
type NameFilter func(candidate string) bool

// cardNameRules are applied to the text of a team card.
var cardNameRules = []NameRule{
	{Name: "plain", Extract: plainNameLine},
	{Name: "leading", Extract: submatch(leadingNameRe)},
	{Name: "middle-initial", Extract: submatch(middleInitialRe)},
}

// plainNameLine returns the first line that is nothing but an accepted name.
func plainNameLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if n := stripCredentials(line); strictNameRe.MatchString(n) && Accept(n) {
			return n
		}
	}
	return ""
}

func submatch(re *regexp.Regexp) func(string) string {
	return func(text string) string {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return m[1]
		}
		return ""
	}
}

func stripCredentials(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSpace(credentialRe.ReplaceAllString(s, ""))
}

// denylist holds phrases that look like names but are headings seen on
// real sites. Matching is case-insensitive.
var denylist = []string{
	"meet mike",
	"meet joseph",
	"meet amy",
	"give us",
	"unsupported browser",
	"learn more",
	"read more",
	"contact us",
	"about us",
	"our team",
}

// navWords mark navigation text rather than a person.
var navWords = []string{"click", "view", "download"}

// siteVocabulary are words that show up in capitalized headings but never
// in a person's name. Words that double as surnames (Case, Sales, Story,
// Head, Call, Book, Work, Store) stay out.
var siteVocabulary = toSet(
	"our", "the", "and", "for", "with", "your", "you", "we", "us", "who", "what", "why", "how",
	"home", "about", "team", "services", "service", "solutions", "products", "contact", "news",
	"blog", "privacy", "policy", "terms", "welcome", "company", "careers", "support", "more",
	"get", "started", "read", "learn", "free", "today", "request", "quote", "now",
	"meet", "leadership", "management", "board", "directors", "mission", "values", "history",
	"testimonials", "reviews", "clients", "customers", "latest", "recent", "events", "resources",
	"industries", "partners", "locations", "hours", "follow", "sign", "office", "offices",
	"experience", "expertise", "approach", "people", "staff", "professionals",
	"insights", "studies", "pricing", "faq", "questions", "schedule", "consultation",
	"appointment", "appointments", "email", "phone", "bio",
	"downloads", "gallery", "portfolio", "projects", "areas", "practice", "client",
	"menu", "search", "login", "account", "cart", "shop", "online", "digital",
	"marketing", "business", "group", "center", "street", "avenue", "suite",
	"chief", "executive", "officer", "president", "vice", "director", "manager", "founder",
	"owner", "partner", "senior", "principal", "operations", "engineering", "technology",
	"financial", "head", "member", "members",
	"inc", "llc", "corp", "corporation", "ltd", "co", "associates", "holdings",
)

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// nameFilters are applied to every candidate regardless of which rule
// produced it.
var nameFilters = []NameFilter{
	notDenylisted,
	notNavigation,
	notSiteVocabulary,
}

func notDenylisted(c string) bool {
	lower := strings.ToLower(c)
	for _, p := range denylist {
		if strings.Contains(lower, p) {
			return false
		}
	}
	return true
}

func notNavigation(c string) bool {
	lower := strings.ToLower(c)
	for _, w := range navWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}

func notSiteVocabulary(c string) bool {
	for _, w := range strings.Fields(strings.ToLower(c)) {
		if siteVocabulary[strings.Trim(w, ".,")] {
			return false
		}
	}
	return true
}

// Accept reports whether a candidate passes every name filter.
func Accept(candidate string) bool {
	if candidate == "" {
		return false
	}
	for _, f := range nameFilters {
		if !f(candidate) {
			return false
		}
	}
	return true
}

// HeadingName returns the name in a heading's text, or "" when the heading
// is not a name.
func HeadingName(text string) string {
	n := stripCredentials(text)
	if strictNameRe.MatchString(n) && Accept(n) {
		return n
	}
	return ""
}

// CardName runs the card rules in order and returns the first accepted name.
func CardName(text string) string {
	for _, r := range cardNameRules {
		if n := r.Extract(text); n != "" && Accept(n) {
			return n
		}
	}
	return ""
}

// LinkName returns the name in LinkedIn anchor text, or "".
func LinkName(text string) string {
	n := strings.TrimSpace(text)
	if linkNameRe.MatchString(n) && Accept(n) {
		return n
	}
	return ""
}

// titleKeywordRe finds job-title vocabulary. Matching is case-sensitive so
// prose such as "we lead the market" is not taken as a title.
var titleKeywordRe = regexp.MustCompile(`\b(?:Chief [A-Z][a-z]+ Officer|CEO|CFO|COO|CTO|CMO|CIO|` +
	`Vice President|President|VP|Co-Founder|Founder|Owner|Managing Partner|Partner|Principal|` +
	`Director|Manager|Head of [A-Z][a-z]+|Lead|Chairman|Chair|Attorney|Counsel|Engineer|` +
	`Consultant|Advisor|Specialist|Coordinator|Administrator|Officer|Associate|Broker|Agent)\b`)

const maxTitleLen = 80

var sentenceSplitRe = regexp.MustCompile(`[.!?\n|•·]+\s*`)

// DefaultTitle is used when no title vocabulary is found near a name.
const DefaultTitle = "Team Member"

// FindTitle returns the longest clause of text containing title vocabulary,
// with name removed. Returns "" when nothing matches.
func FindTitle(text, name string) string {
	if name != "" {
		text = strings.ReplaceAll(text, name, "\n")
	}
	best := ""
	for _, seg := range sentenceSplitRe.Split(text, -1) {
		seg = trimTitle(seg)
		loc := titleKeywordRe.FindStringIndex(seg)
		if loc == nil {
			continue
		}
		candidate := seg
		if len(candidate) > maxTitleLen {
			candidate = trimTitle(seg[loc[0]:])
			if i := strings.IndexAny(candidate, ",;"); i > 0 {
				candidate = trimTitle(candidate[:i])
			}
			if len(candidate) > maxTitleLen {
				candidate = seg[loc[0]:loc[1]]
			}
		}
		if len(candidate) > len(best) {
			best = candidate
		}
	}
	return best
}

func trimTitle(s string) string {
	return strings.Trim(strings.Join(strings.Fields(s), " "), " ,-–—|:;")
}
