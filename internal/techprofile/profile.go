// Package techprofile detects the technology a site is built with from
// markers in its HTML.
package techprofile

import (
	"strings"
	"time"

	"github.com/sells-group/client-intel/internal/htmldoc"
	"github.com/sells-group/client-intel/internal/model"
)

// PageFacts carries fetch-level facts the markup cannot reveal.
type PageFacts struct {
	Secure   bool
	Duration time.Duration
	Size     int
}

// marker ties a label to substrings of the raw HTML. Matching is
// case-sensitive.
type marker struct {
	label  string
	needle []string
}

// cmsMarkers are checked in order; the first hit wins.
var cmsMarkers = []marker{
	{"WordPress", []string{"wp-content", "WordPress"}},
	{"Wix", []string{"wix.com"}},
	{"Squarespace", []string{"squarespace"}},
}

var ecommerceMarkers = []marker{
	{"Shopify", []string{"Shopify"}},
}

var frameworkMarkers = []marker{
	{"Next.js", []string{"__NEXT_DATA__"}},
	{"React", []string{"react"}},
	{"Vue.js", []string{"vue"}},
	{"Angular", []string{"angular"}},
}

var analyticsMarkers = []marker{
	{"Google Analytics", []string{"google-analytics", "gtag"}},
	{"Facebook Pixel", []string{"facebook.com/tr"}},
	{"Hotjar", []string{"hotjar"}},
}

// marketingMarkers do not feed any score.
var marketingMarkers = []marker{
	{"Google Tag Manager", []string{"googletagmanager.com/gtm.js", "GTM-"}},
	{"HubSpot", []string{"js.hs-scripts.com", "hs-analytics", "hubspot"}},
	{"Mailchimp", []string{"list-manage.com", "mailchimp"}},
	{"Klaviyo", []string{"klaviyo"}},
	{"Marketo", []string{"munchkin", "marketo"}},
}

// Profile inspects a parsed page and returns its technology profile.
func Profile(doc *htmldoc.Document, facts PageFacts) model.TechnologyProfile {
	raw := doc.Raw

	tp := model.TechnologyProfile{
		CMS:              first(raw, cmsMarkers),
		Ecommerce:        first(raw, ecommerceMarkers),
		Frameworks:       all(raw, frameworkMarkers),
		Analytics:        all(raw, analyticsMarkers),
		MarketingTools:   all(raw, marketingMarkers),
		SSL:              facts.Secure,
		MobileResponsive: mobileResponsive(doc),
	}

	if facts.Size > 0 || facts.Duration > 0 {
		tp.Performance = &model.Performance{
			LoadTimeMs:    facts.Duration.Milliseconds(),
			PageSizeBytes: facts.Size,
			RequestCount:  1 + doc.Find("script[src], link[rel=stylesheet], img[src], iframe[src]").Length(),
		}
	}

	return tp
}

func mobileResponsive(doc *htmldoc.Document) bool {
	return strings.Contains(doc.Meta("viewport"), "width=device-width")
}

func hit(raw string, m marker) bool {
	for _, n := range m.needle {
		if strings.Contains(raw, n) {
			return true
		}
	}
	return false
}

func first(raw string, markers []marker) string {
	for _, m := range markers {
		if hit(raw, m) {
			return m.label
		}
	}
	return ""
}

// all returns every matching label once, in marker order.
func all(raw string, markers []marker) []string {
	out := []string{}
	seen := make(map[string]bool, len(markers))
	for _, m := range markers {
		if !seen[m.label] && hit(raw, m) {
			seen[m.label] = true
			out = append(out, m.label)
		}
	}
	return out
}
