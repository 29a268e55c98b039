package people

import (
	"strings"
	"unicode"
)

// PotentialEmails guesses common corporate address patterns for a name:
// first@, first.last@, firstlast@, flast@ and firstl@.
func PotentialEmails(name, domain string) []string {
	words := strings.Fields(name)
	if len(words) < 2 || domain == "" {
		return nil
	}
	first := letters(words[0])
	last := letters(words[len(words)-1])
	if first == "" || last == "" {
		return nil
	}
	at := "@" + domain
	return []string{
		first + at,
		first + "." + last + at,
		first + last + at,
		first[:1] + last + at,
		first + last[:1] + at,
	}
}

func letters(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
