// Package report assembles the final intelligence report and its
// persistence projection.
package report

import (
	"strings"
	"time"

	"github.com/sells-group/client-intel/internal/htmldoc"
	"github.com/sells-group/client-intel/internal/model"
	"github.com/sells-group/client-intel/internal/scrape"
)

// Input carries every stage's output into Assemble.
type Input struct {
	CompanyName      string
	Domain           string
	Page             *scrape.Page
	Doc              *htmldoc.Document
	Technology       model.TechnologyProfile
	Contact          model.ContactProfile
	Market           model.MarketProfile
	Presence         model.OnlinePresence
	Opportunities    model.OpportunityTaxonomy
	Scores           model.ScoringResult
	TeamPagesCrawled int
	Now              time.Time
}

// Assemble builds the report.
func Assemble(in Input) *model.IntelligenceReport {
	if in.Now.IsZero() {
		in.Now = time.Now().UTC()
	}
	r := &model.IntelligenceReport{
		Company:        company(in),
		Contact:        in.Contact,
		Technology:     in.Technology,
		Market:         in.Market,
		OnlinePresence: in.Presence,
		Opportunities:  in.Opportunities,
		Scores:         in.Scores,
		Insights:       BuildInsights(in),
		AnalyzedAt:     in.Now,
	}
	r.Market.Opportunities = in.Opportunities
	if r.Contact.Individuals == nil {
		r.Contact.Individuals = []model.Individual{}
	}
	if in.Page != nil {
		r.Source = model.Source{
			URL:              in.Page.URL,
			FinalURL:         in.Page.FinalURL,
			StatusCode:       in.Page.StatusCode,
			Blocked:          in.Page.Blocked,
			BlockType:        string(in.Page.BlockType),
			Rendered:         in.Page.Rendered,
			TeamPagesCrawled: in.TeamPagesCrawled,
		}
	}
	return r
}

func company(in Input) model.Company {
	c := model.Company{Name: in.CompanyName, Domain: in.Domain}
	if in.Page != nil {
		c.Website = in.Page.FinalURL
	}
	if len(in.Contact.Addresses) > 0 {
		c.Location = in.Contact.Addresses[0]
	}
	if in.Doc == nil {
		return c
	}

	c.Description = firstNonEmpty(in.Doc.Meta("description"), in.Doc.MetaProperty("og:description"))
	c.LogoURL = in.Doc.MetaProperty("og:image")
	for _, block := range in.Doc.JSONLD() {
		if c.Industry == "" {
			c.Industry = industry(block["@type"])
		}
		if c.LogoURL == "" {
			c.LogoURL = logo(block["logo"])
		}
		if c.Description == "" {
			c.Description, _ = block["description"].(string)
		}
	}
	if c.LogoURL != "" {
		if u, err := in.Doc.Resolve(c.LogoURL); err == nil {
			c.LogoURL = u.String()
		}
	}
	c.Description = strings.TrimSpace(c.Description)
	return c
}

// genericTypes are schema.org types that say nothing about the industry.
var genericTypes = map[string]bool{
	"Organization": true, "Corporation": true, "LocalBusiness": true, "WebSite": true,
	"WebPage": true, "Place": true, "PostalAddress": true, "ImageObject": true,
	"BreadcrumbList": true, "Person": true, "SearchAction": true, "ListItem": true,
	"ReadAction": true, "AboutPage": true, "ContactPage": true, "CollectionPage": true,
}

// industry reads a specific schema.org type such as "Plumber" or
// "AccountingService" and spaces it out.
func industry(v any) string {
	var types []string
	switch t := v.(type) {
	case string:
		types = []string{t}
	case []any:
		for _, x := range t {
			if s, ok := x.(string); ok {
				types = append(types, s)
			}
		}
	}
	for _, t := range types {
		if t != "" && !genericTypes[t] {
			return splitCamel(t)
		}
	}
	return ""
}

func splitCamel(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func logo(v any) string {
	switch l := v.(type) {
	case string:
		return l
	case map[string]any:
		s, _ := l["url"].(string)
		return s
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
