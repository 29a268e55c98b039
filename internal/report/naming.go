package report

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/client-intel/internal/htmldoc"
)

// NameOverrides maps a domain or domain stem ("acme-supply.com" or
// "acme-supply") to a fixed display name.
type NameOverrides map[string]string

// NewNameOverrides merges base with the YAML map in file, if file is set.
// File entries win.
func NewNameOverrides(base map[string]string, file string) (NameOverrides, error) {
	o := NameOverrides{}
	for k, v := range base {
		o[strings.ToLower(strings.TrimSpace(k))] = v
	}
	if file == "" {
		return o, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, eris.Wrapf(err, "report: read name overrides %s", file)
	}
	var fromFile map[string]string
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, eris.Wrapf(err, "report: parse name overrides %s", file)
	}
	for k, v := range fromFile {
		o[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return o, nil
}

// Lookup returns the override for domain, trying the full domain first.
func (o NameOverrides) Lookup(domain string) (string, bool) {
	if len(o) == 0 {
		return "", false
	}
	domain = strings.ToLower(domain)
	if v, ok := o[domain]; ok {
		return v, true
	}
	v, ok := o[stem(domain)]
	return v, ok
}

// titleSeparators split a page title into site name and tagline. Spaced
// separators are preferred so hyphenated names survive.
var titleSeparators = []string{" - ", " | ", " – ", " — ", "-"}

var genericTitles = map[string]bool{
	"home": true, "homepage": true, "home page": true, "welcome": true, "index": true,
}

// ResolveCompanyName picks the display name: explicit, then a domain override,
// then the page title up to the first separator, then the humanized domain.
func ResolveCompanyName(explicit string, doc *htmldoc.Document, domain string, overrides NameOverrides) string {
	if n := strings.TrimSpace(explicit); n != "" {
		return n
	}
	if n, ok := overrides.Lookup(domain); ok {
		return n
	}
	if doc != nil {
		if n := titleName(doc.Title()); n != "" {
			return n
		}
	}
	return HumanizeDomain(domain)
}

func titleName(title string) string {
	title = strings.TrimSpace(title)
	for _, sep := range titleSeparators {
		if i := strings.Index(title, sep); i >= 0 {
			title = title[:i]
			break
		}
	}
	title = strings.TrimSpace(title)
	lower := strings.ToLower(title)
	if title == "" || genericTitles[lower] || strings.HasPrefix(lower, "welcome") {
		return ""
	}
	return title
}

// HumanizeDomain turns "acme-plumbing.com" into "Acme Plumbing".
func HumanizeDomain(domain string) string {
	s := strings.ReplaceAll(stem(domain), "-", " ")
	return cases.Title(language.English).String(s)
}

func stem(domain string) string {
	domain = strings.TrimPrefix(strings.ToLower(domain), "www.")
	if i := strings.IndexByte(domain, '.'); i > 0 {
		return domain[:i]
	}
	return domain
}
