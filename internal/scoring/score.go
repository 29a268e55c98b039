package scoring

import "github.com/sells-group/client-intel/internal/model"

// Compute derives all scores. AI potential reads market.Opportunities.
func Compute(tech model.TechnologyProfile, contact model.ContactProfile, market model.MarketProfile, presence model.OnlinePresence) model.ScoringResult {
	return model.ScoringResult{
		LeadScore:           LeadScore(contact),
		TechReadiness:       TechReadiness(tech),
		AIPotential:         AIPotential(market.Opportunities),
		OnlinePresenceScore: OnlinePresenceScore(presence),
		Budget:              Budget(tech),
	}
}

// TechReadiness starts at 50: +10 SSL, +10 mobile, +15 any analytics,
// +15 any framework.
func TechReadiness(t model.TechnologyProfile) int {
	score := 50
	if t.SSL {
		score += 10
	}
	if t.MobileResponsive {
		score += 10
	}
	if len(t.Analytics) > 0 {
		score += 15
	}
	if len(t.Frameworks) > 0 {
		score += 15
	}
	return score
}

// AIPotential is 50 plus 15 per AI automation opportunity, capped at 100.
func AIPotential(o model.OpportunityTaxonomy) int {
	return min(100, 50+15*len(o.AIAutomation))
}

// LeadScore starts at 50: +20 any email, +15 any phone, +15 more than two
// social profiles.
func LeadScore(c model.ContactProfile) int {
	score := 50
	if len(c.Emails) > 0 {
		score += 20
	}
	if len(c.Phones) > 0 {
		score += 15
	}
	if len(c.SocialMedia) > 2 {
		score += 15
	}
	return score
}

// Budget buckets a company by platform.
func Budget(t model.TechnologyProfile) string {
	switch {
	case t.Ecommerce != "":
		return model.BudgetHigh
	case t.CMS == "WordPress":
		return model.BudgetMedium
	case t.CMS == "Wix", t.CMS == "Squarespace":
		return model.BudgetLowMedium
	}
	return model.BudgetUnknown
}

// OnlinePresenceScore weighs search results 5, reviews 15, social profiles 10
// and directories 5, capped at 100.
func OnlinePresenceScore(p model.OnlinePresence) int {
	return min(100, p.GoogleResults*5+len(p.Reviews)*15+len(p.SocialProfiles)*10+len(p.Directories)*5)
}
