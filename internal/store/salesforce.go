package store

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/sells-group/client-intel/internal/model"
	sfpkg "github.com/sells-group/client-intel/pkg/salesforce"
)

// SalesforceStore writes reports as Account, Contact and Task records. The
// API has no transactions, so a failed unit may leave earlier records behind.
type SalesforceStore struct {
	client sfpkg.Client
	now    func() time.Time
}

// NewSalesforce wraps an authenticated Salesforce client.
func NewSalesforce(client sfpkg.Client) *SalesforceStore {
	return &SalesforceStore{client: client, now: utcNow}
}

func (s *SalesforceStore) WithinUnit(_ context.Context, fn func(Writer) error) error {
	return fn(&sfWriter{client: s.client, now: s.now})
}

// Migrate is a no-op; the Salesforce schema is managed in the org.
func (s *SalesforceStore) Migrate(context.Context) error { return nil }

func (s *SalesforceStore) Close() error { return nil }

type sfWriter struct {
	client sfpkg.Client
	now    func() time.Time
}

func (w *sfWriter) UpsertOrganization(ctx context.Context, org *model.Organization) (string, error) {
	fields := map[string]any{
		"Name":    org.Name,
		"Website": org.Website,
	}
	setIf(fields, "Industry", org.Industry)
	setIf(fields, "Description", truncateField(org.Description, 32000))
	setIf(fields, "Phone", org.Phone)
	id, err := sfpkg.UpsertAccount(ctx, w.client, org.Domain, fields)
	return id, eris.Wrap(err, "salesforce: upsert organization")
}

func (w *sfWriter) UpsertContact(ctx context.Context, c *model.Contact) (string, error) {
	fields := map[string]any{"LeadSource": "Website"}
	setIf(fields, "FirstName", c.FirstName)
	setIf(fields, "LastName", c.LastName)
	setIf(fields, "Title", c.Title)
	setIf(fields, "Phone", c.Phone)
	id, err := sfpkg.UpsertContact(ctx, w.client, c.OrganizationID, c.Email, fields)
	return id, eris.Wrap(err, "salesforce: upsert contact")
}

func (w *sfWriter) InsertActivity(ctx context.Context, a *model.Activity) (string, error) {
	desc := a.Description
	if len(a.Metadata) > 0 {
		meta, err := json.MarshalIndent(a.Metadata, "", "  ")
		if err != nil {
			return "", eris.Wrap(err, "salesforce: marshal activity metadata")
		}
		desc += "\n\n" + string(meta)
	}
	fields := map[string]any{
		"Subject":      truncateField(a.Subject, 255),
		"Description":  truncateField(desc, 32000),
		"ActivityDate": w.now().Format("2006-01-02"),
		"Type":         "Other",
	}
	id, err := sfpkg.CreateTask(ctx, w.client, a.OrganizationID, a.ContactID, fields)
	return id, eris.Wrap(err, "salesforce: insert activity")
}

func setIf(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}

// truncateField cuts s to at most n bytes on a rune boundary.
func truncateField(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

