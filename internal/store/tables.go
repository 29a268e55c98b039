package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/client-intel/internal/db"
	"github.com/sells-group/client-intel/internal/model"
)

var (
	organizationTable = db.UpsertConfig{
		Table: "organizations",
		Columns: []string{
			"id", "domain", "name", "website", "industry", "description",
			"phone", "location", "lead_score", "metadata", "created_at", "updated_at",
		},
		ConflictKeys: []string{"domain"},
		Immutable:    []string{"id", "created_at"},
		Returning:    "id",
	}

	contactTable = db.UpsertConfig{
		Table: "contacts",
		Columns: []string{
			"id", "organization_id", "email", "first_name", "last_name",
			"title", "phone", "source", "created_at", "updated_at",
		},
		ConflictKeys: []string{"email"},
		Immutable:    []string{"id", "created_at"},
		Returning:    "id",
	}

	activityColumns = []string{
		"id", "organization_id", "contact_id", "type", "subject",
		"description", "metadata", "created_at",
	}
)

// statements holds the SQL for one placeholder style.
type statements struct {
	organization string
	contact      string
	activity     string
}

func buildStatements(ph db.Placeholder) (statements, error) {
	var s statements
	var err error
	if s.organization, err = db.UpsertSQL(organizationTable, ph); err != nil {
		return s, err
	}
	if s.contact, err = db.UpsertSQL(contactTable, ph); err != nil {
		return s, err
	}
	if s.activity, err = db.InsertSQL("activities", activityColumns, "id", ph); err != nil {
		return s, err
	}
	return s, nil
}

// mustStatements panics on a malformed table definition.
func mustStatements(ph db.Placeholder) statements {
	s, err := buildStatements(ph)
	if err != nil {
		panic(err)
	}
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

// queryRowFunc adapts pgx.Tx.QueryRow and sql.Tx.QueryRowContext.
type queryRowFunc func(ctx context.Context, sql string, args ...any) rowScanner

// sqlWriter implements Writer over either SQL driver.
type sqlWriter struct {
	queryRow queryRowFunc
	stmts    statements
	now      func() time.Time
}

func (w *sqlWriter) UpsertOrganization(ctx context.Context, org *model.Organization) (string, error) {
	meta, err := marshalMetadata(org.Metadata)
	if err != nil {
		return "", err
	}
	now := w.now()
	var id string
	err = w.queryRow(ctx, w.stmts.organization,
		uuid.NewString(), org.Domain, org.Name, org.Website, org.Industry, org.Description,
		org.Phone, org.Location, org.LeadScore, meta, now, now,
	).Scan(&id)
	if err != nil {
		return "", eris.Wrapf(err, "store: upsert organization %s", org.Domain)
	}
	return id, nil
}

func (w *sqlWriter) UpsertContact(ctx context.Context, c *model.Contact) (string, error) {
	now := w.now()
	var id string
	err := w.queryRow(ctx, w.stmts.contact,
		uuid.NewString(), c.OrganizationID, c.Email, c.FirstName, c.LastName,
		c.Title, c.Phone, c.Source, now, now,
	).Scan(&id)
	if err != nil {
		return "", eris.Wrapf(err, "store: upsert contact %s", c.Email)
	}
	return id, nil
}

func (w *sqlWriter) InsertActivity(ctx context.Context, a *model.Activity) (string, error) {
	meta, err := marshalMetadata(a.Metadata)
	if err != nil {
		return "", err
	}
	var contactID any
	if a.ContactID != "" {
		contactID = a.ContactID
	}
	var id string
	err = w.queryRow(ctx, w.stmts.activity,
		uuid.NewString(), a.OrganizationID, contactID, a.Type, a.Subject,
		a.Description, meta, w.now(),
	).Scan(&id)
	if err != nil {
		return "", eris.Wrapf(err, "store: insert activity for %s", a.OrganizationID)
	}
	return id, nil
}

func marshalMetadata(m map[string]any) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", eris.Wrap(err, "store: marshal metadata")
	}
	return string(b), nil
}

func utcNow() time.Time { return time.Now().UTC() }
