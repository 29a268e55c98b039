// Package contact harvests phones, emails, social links, addresses and
// business hours from a page.
package contact

import (
	"regexp"
	"strings"

	"github.com/sells-group/client-intel/internal/htmldoc"
	"github.com/sells-group/client-intel/internal/model"
)

var (
	phoneRe = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// imageSuffixes mark email-shaped strings that are really asset names such
// as "logo@2x.png".
var imageSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"}

// Extract builds the contact profile of a page. Individuals are left empty;
// they are filled in by discovery.
func Extract(doc *htmldoc.Document) model.ContactProfile {
	text := doc.Text()
	return model.ContactProfile{
		Phones:        Phones(doc.Raw),
		Emails:        Emails(doc.Raw),
		Addresses:     Addresses(doc, text),
		BusinessHours: BusinessHours(doc, text),
		SocialMedia:   Social(doc),
		Individuals:   []model.Individual{},
	}
}

// Phones returns distinct North American phone numbers in order of first
// appearance. Digit runs longer than a phone number are ignored.
func Phones(raw string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, loc := range phoneRe.FindAllStringIndex(raw, -1) {
		if loc[0] > 0 && isDigit(raw[loc[0]-1]) {
			continue
		}
		if loc[1] < len(raw) && isDigit(raw[loc[1]]) {
			continue
		}
		p := strings.TrimSpace(raw[loc[0]:loc[1]])
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// Emails returns distinct email addresses in order of first appearance,
// skipping image filenames.
func Emails(raw string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, e := range emailRe.FindAllString(raw, -1) {
		if isImageName(e) || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// FirstEmail returns the first usable email in s, or "".
func FirstEmail(s string) string {
	for _, e := range emailRe.FindAllString(s, -1) {
		if !isImageName(e) {
			return e
		}
	}
	return ""
}

func isImageName(s string) bool {
	lower := strings.ToLower(s)
	for _, suf := range imageSuffixes {
		if strings.Contains(lower, suf) {
			return true
		}
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
