// Package model defines the data shapes produced by the client intelligence pipeline.
package model

import "time"

// Performance holds best-effort page performance measurements.
type Performance struct {
	LoadTimeMs    int64 `json:"loadTimeMs"`
	PageSizeBytes int   `json:"pageSizeBytes"`
	RequestCount  int   `json:"requestCount"`
}

// TechnologyProfile describes the technology detected on a site.
type TechnologyProfile struct {
	CMS              string       `json:"cms,omitempty"`
	Ecommerce        string       `json:"ecommerce,omitempty"`
	Frameworks       []string     `json:"frameworks"`
	Analytics        []string     `json:"analytics"`
	MarketingTools   []string     `json:"marketingTools"`
	SSL              bool         `json:"ssl"`
	MobileResponsive bool         `json:"mobileResponsive"`
	Performance      *Performance `json:"performance,omitempty"`
}

// Individual is a named person discovered on or about a site.
type Individual struct {
	Name            string   `json:"name"`
	Title           string   `json:"title"`
	Email           string   `json:"email,omitempty"`
	LinkedIn        string   `json:"linkedIn,omitempty"`
	Source          string   `json:"source"`
	PotentialEmails []string `json:"potentialEmails,omitempty"`
}

// ContactProfile holds contact data harvested from a site.
type ContactProfile struct {
	Phones        []string          `json:"phones"`
	Emails        []string          `json:"emails"`
	Addresses     []string          `json:"addresses"`
	BusinessHours string            `json:"businessHours,omitempty"`
	SocialMedia   map[string]string `json:"socialMedia"`
	Individuals   []Individual      `json:"individuals"`
}

// NewsItem is a single recent news search hit.
type NewsItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
	Date    string `json:"date,omitempty"`
}

// OpportunityTaxonomy groups recommended improvements by category.
type OpportunityTaxonomy struct {
	Technical    []string `json:"technical"`
	Marketing    []string `json:"marketing"`
	Content      []string `json:"content"`
	Conversion   []string `json:"conversion"`
	AIAutomation []string `json:"aiAutomation"`
}

// NewOpportunityTaxonomy returns a taxonomy whose lists are empty, not nil.
func NewOpportunityTaxonomy() OpportunityTaxonomy {
	return OpportunityTaxonomy{
		Technical:    []string{},
		Marketing:    []string{},
		Content:      []string{},
		Conversion:   []string{},
		AIAutomation: []string{},
	}
}

// All flattens the taxonomy, AI automation first.
func (o OpportunityTaxonomy) All() []string {
	var out []string
	out = append(out, o.AIAutomation...)
	out = append(out, o.Conversion...)
	out = append(out, o.Marketing...)
	out = append(out, o.Content...)
	out = append(out, o.Technical...)
	return out
}

// MarketProfile is the market and competitor view of a company.
type MarketProfile struct {
	Competitors   []string            `json:"competitors"`
	RecentNews    []NewsItem          `json:"recentNews"`
	Opportunities OpportunityTaxonomy `json:"opportunities"`
	AIAnalysis    string              `json:"aiAnalysis,omitempty"`
}

// ReviewHit is a review platform listing found by search.
type ReviewHit struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
}

// ProfileHit is a social or directory listing found by search.
type ProfileHit struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// OnlinePresence summarizes how visible a company is in search.
type OnlinePresence struct {
	GoogleResults  int          `json:"googleResults"`
	Reviews        []ReviewHit  `json:"reviews"`
	SocialProfiles []ProfileHit `json:"socialProfiles"`
	Directories    []ProfileHit `json:"directories"`
}

// NewOnlinePresence returns an empty presence with non-nil lists.
func NewOnlinePresence() OnlinePresence {
	return OnlinePresence{
		Reviews:        []ReviewHit{},
		SocialProfiles: []ProfileHit{},
		Directories:    []ProfileHit{},
	}
}

// Budget tiers.
const (
	BudgetHigh      = "High"
	BudgetMedium    = "Medium"
	BudgetLowMedium = "Low-Medium"
	BudgetUnknown   = "Unknown"
)

// ScoringResult holds the derived scores for a company.
type ScoringResult struct {
	LeadScore           int    `json:"leadScore"`
	TechReadiness       int    `json:"techReadiness"`
	AIPotential         int    `json:"aiPotential"`
	OnlinePresenceScore int    `json:"onlinePresenceScore"`
	Budget              string `json:"budget"`
}

// Company is the identity block of a report.
type Company struct {
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Website     string `json:"website"`
	Industry    string `json:"industry"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Insights is the narrative summary of a report.
type Insights struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
	EstimatedValue  string   `json:"estimatedValue"`
}

// Source records how the analyzed page was obtained.
type Source struct {
	URL              string `json:"url"`
	FinalURL         string `json:"finalUrl"`
	StatusCode       int    `json:"statusCode"`
	Blocked          bool   `json:"blocked,omitempty"`
	BlockType        string `json:"blockType,omitempty"`
	Rendered         bool   `json:"rendered,omitempty"`
	TeamPagesCrawled int    `json:"teamPagesCrawled"`
}

// IntelligenceReport is the complete result of analyzing one site.
type IntelligenceReport struct {
	Company        Company             `json:"company"`
	Contact        ContactProfile      `json:"contact"`
	Technology     TechnologyProfile   `json:"technology"`
	Market         MarketProfile       `json:"market"`
	OnlinePresence OnlinePresence      `json:"onlinePresence"`
	Opportunities  OpportunityTaxonomy `json:"opportunities"`
	Scores         ScoringResult       `json:"scores"`
	Insights       Insights            `json:"insights"`
	Source         Source              `json:"source"`
	AnalyzedAt     time.Time           `json:"analyzedAt"`
}
