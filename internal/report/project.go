package report

import (
	"strings"
	"time"

	"github.com/sells-group/client-intel/internal/model"
)

// ContactSourceWebsite tags contacts harvested from the analyzed site.
const ContactSourceWebsite = "website"

// Records is what a store persists for one report.
type Records struct {
	Organization model.Organization
	// Contact is nil when the site published no email.
	Contact  *model.Contact
	Activity model.Activity
}

// Project maps a report onto store records. IDs are left for the store.
func Project(r *model.IntelligenceReport) Records {
	org := model.Organization{
		Domain:      r.Company.Domain,
		Name:        r.Company.Name,
		Website:     r.Company.Website,
		Industry:    r.Company.Industry,
		Description: r.Company.Description,
		Location:    r.Company.Location,
		LeadScore:   r.Scores.LeadScore,
		Metadata: map[string]any{
			"techReadiness":       r.Scores.TechReadiness,
			"aiPotential":         r.Scores.AIPotential,
			"onlinePresenceScore": r.Scores.OnlinePresenceScore,
			"budget":              r.Scores.Budget,
			"cms":                 r.Technology.CMS,
			"ecommerce":           r.Technology.Ecommerce,
			"estimatedValue":      r.Insights.EstimatedValue,
			"lastAnalyzedAt":      r.AnalyzedAt.Format(time.RFC3339),
		},
	}
	if len(r.Contact.Phones) > 0 {
		org.Phone = r.Contact.Phones[0]
	}

	recs := Records{
		Organization: org,
		Activity: model.Activity{
			Type:        model.ActivityIntelligence,
			Subject:     "Client intelligence analysis: " + r.Company.Name,
			Description: r.Insights.Summary,
			Metadata: map[string]any{
				"url":             r.Source.URL,
				"scores":          r.Scores,
				"recommendations": r.Insights.Recommendations,
				"individuals":     len(r.Contact.Individuals),
			},
		},
	}

	if len(r.Contact.Emails) > 0 {
		recs.Contact = primaryContact(r)
	}
	return recs
}

// primaryContact is keyed by the first email. Name and title come from the
// individual who owns that email, if one was found.
func primaryContact(r *model.IntelligenceReport) *model.Contact {
	c := &model.Contact{Email: strings.ToLower(r.Contact.Emails[0]), Source: ContactSourceWebsite}
	if len(r.Contact.Phones) > 0 {
		c.Phone = r.Contact.Phones[0]
	}
	for _, ind := range r.Contact.Individuals {
		if strings.EqualFold(ind.Email, c.Email) {
			c.FirstName, c.LastName = splitName(ind.Name)
			c.Title = ind.Title
			break
		}
	}
	return c
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], parts[len(parts)-1]
}
