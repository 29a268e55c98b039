// Package scoring derives improvement opportunities and heuristic scores
// from an analyzed site. Everything here is a pure function of its inputs.
package scoring

import (
	"strings"

	"github.com/sells-group/client-intel/internal/model"
)

// Category names an OpportunityTaxonomy bucket.
type Category int

// Opportunity categories.
const (
	AIAutomation Category = iota
	Conversion
	Marketing
	Content
	Technical
)

// absenceRule fires when none of its markers occur in the page HTML.
// Matching is case-sensitive.
type absenceRule struct {
	markers    []string
	category   Category
	suggestion string
}

var absenceRules = []absenceRule{
	{[]string{"chatbot", "chat"}, AIAutomation, "AI chatbot for 24/7 customer support"},
	{[]string{"appointment", "booking"}, AIAutomation, "Automated appointment booking system"},
	{[]string{"testimonial", "review"}, Marketing, "Customer testimonials and reviews section"},
	{[]string{"blog", "article"}, Content, "Content marketing blog to build authority and SEO"},
	{[]string{"<form"}, Conversion, "Lead capture form to convert visitors into inquiries"},
}

// techRule fires when the profile check fails.
type techRule struct {
	has        func(model.TechnologyProfile) bool
	suggestion string
}

var techRules = []techRule{
	{func(t model.TechnologyProfile) bool { return t.SSL }, "Install an SSL certificate to secure the site"},
	{func(t model.TechnologyProfile) bool { return t.MobileResponsive }, "Make the site mobile responsive"},
	{func(t model.TechnologyProfile) bool { return len(t.Analytics) > 0 }, "Set up web analytics to measure traffic and conversions"},
}

// DeriveOpportunities lists improvements suggested by what the page lacks.
func DeriveOpportunities(html string, tech model.TechnologyProfile) model.OpportunityTaxonomy {
	out := model.NewOpportunityTaxonomy()
	for _, r := range absenceRules {
		if containsAny(html, r.markers) {
			continue
		}
		add(&out, r.category, r.suggestion)
	}
	for _, r := range techRules {
		if !r.has(tech) {
			add(&out, Technical, r.suggestion)
		}
	}
	return out
}

func add(o *model.OpportunityTaxonomy, c Category, s string) {
	switch c {
	case AIAutomation:
		o.AIAutomation = append(o.AIAutomation, s)
	case Conversion:
		o.Conversion = append(o.Conversion, s)
	case Marketing:
		o.Marketing = append(o.Marketing, s)
	case Content:
		o.Content = append(o.Content, s)
	case Technical:
		o.Technical = append(o.Technical, s)
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
