package report

import (
	"fmt"

	"github.com/sells-group/client-intel/internal/model"
)

const maxRecommendations = 5

// check adds text to a list when ok holds.
type check struct {
	ok   func(in Input) bool
	text string
}

var strengthChecks = []check{
	{func(in Input) bool { return in.Technology.SSL }, "Secure website with SSL"},
	{func(in Input) bool { return in.Technology.MobileResponsive }, "Mobile-responsive design"},
	{func(in Input) bool { return len(in.Technology.Analytics) > 0 }, "Uses analytics to track visitors"},
	{func(in Input) bool { return in.Presence.GoogleResults > 5 }, "Strong search visibility"},
	{func(in Input) bool { return len(in.Presence.Reviews) > 0 }, "Customer reviews on third-party sites"},
	{func(in Input) bool { return len(in.Market.Competitors) > 0 }, "Clearly defined competitive landscape"},
}

var weaknessChecks = []check{
	{func(in Input) bool { return !in.Technology.SSL }, "No SSL certificate"},
	{func(in Input) bool { return !in.Technology.MobileResponsive }, "Not optimized for mobile devices"},
	{func(in Input) bool { return len(in.Contact.Emails) == 0 }, "No email address published on the website"},
	{func(in Input) bool { return in.Presence.GoogleResults < 3 }, "Limited online presence"},
	{func(in Input) bool { return len(in.Presence.Reviews) == 0 }, "No online reviews found"},
}

var estimatedValues = map[string]string{
	model.BudgetHigh:   "$10,000 - $50,000",
	model.BudgetMedium: "$5,000 - $15,000",
}

const defaultEstimatedValue = "$2,000 - $5,000"

// BuildInsights derives the narrative summary.
func BuildInsights(in Input) model.Insights {
	ins := model.Insights{
		Strengths:       apply(strengthChecks, in),
		Weaknesses:      apply(weaknessChecks, in),
		Recommendations: []string{},
		EstimatedValue:  EstimatedValue(in.Scores.Budget),
	}
	all := in.Opportunities.All()
	if len(all) > maxRecommendations {
		all = all[:maxRecommendations]
	}
	ins.Recommendations = append(ins.Recommendations, all...)
	ins.Summary = summary(in, len(in.Opportunities.All()))
	return ins
}

// EstimatedValue maps a budget tier to a project value range.
func EstimatedValue(budget string) string {
	if v, ok := estimatedValues[budget]; ok {
		return v
	}
	return defaultEstimatedValue
}

func apply(checks []check, in Input) []string {
	out := []string{}
	for _, c := range checks {
		if c.ok(in) {
			out = append(out, c.text)
		}
	}
	return out
}

func summary(in Input, opportunities int) string {
	platform := in.Technology.CMS
	if in.Technology.Ecommerce != "" {
		platform = in.Technology.Ecommerce
	}
	if platform == "" {
		platform = "a custom or undetected platform"
	}
	return fmt.Sprintf("%s runs on %s with a lead score of %d and tech readiness of %d. %d improvement opportunities identified; estimated budget %s.",
		in.CompanyName, platform, in.Scores.LeadScore, in.Scores.TechReadiness, opportunities, in.Scores.Budget)
}
