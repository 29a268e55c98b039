package model

// Organization is the persisted projection of a report's company.
type Organization struct {
	ID          string         `json:"id"`
	Domain      string         `json:"domain"`
	Name        string         `json:"name"`
	Website     string         `json:"website"`
	Industry    string         `json:"industry"`
	Description string         `json:"description"`
	Phone       string         `json:"phone"`
	Location    string         `json:"location"`
	LeadScore   int            `json:"lead_score"`
	Metadata    map[string]any `json:"metadata"`
}

// Contact is the persisted primary contact of an organization.
type Contact struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Title          string `json:"title"`
	Phone          string `json:"phone"`
	Source         string `json:"source"`
}

// Activity records that an analysis happened.
type Activity struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organization_id"`
	ContactID      string         `json:"contact_id,omitempty"`
	Type           string         `json:"type"`
	Subject        string         `json:"subject"`
	Description    string         `json:"description"`
	Metadata       map[string]any `json:"metadata"`
}

// ActivityIntelligence is the activity type written after an analysis.
const ActivityIntelligence = "intelligence_analysis"
