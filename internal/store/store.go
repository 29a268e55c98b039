// Package store persists intelligence reports to a CRM-shaped backend.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/client-intel/internal/model"
	"github.com/sells-group/client-intel/internal/report"
)

// Writer writes the records of one report. Implementations are only valid
// inside the WithinUnit callback that produced them.
type Writer interface {
	// UpsertOrganization inserts or updates by domain and returns the row ID.
	UpsertOrganization(ctx context.Context, org *model.Organization) (string, error)
	// UpsertContact inserts or updates by email and returns the row ID.
	UpsertContact(ctx context.Context, c *model.Contact) (string, error)
	InsertActivity(ctx context.Context, a *model.Activity) (string, error)
}

// Store is a persistence backend.
type Store interface {
	// WithinUnit runs fn as one unit of work. SQL backends commit only when
	// fn returns nil.
	WithinUnit(ctx context.Context, fn func(Writer) error) error
	Migrate(ctx context.Context) error
	Close() error
}

// PersistenceError reports a failed save. The analysis itself succeeded.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Save writes the organization, its primary contact and an activity in one
// unit. IDs assigned by the store are written back into recs. Every failure
// is returned as a *PersistenceError.
func Save(ctx context.Context, s Store, recs *report.Records) error {
	op := "save"
	err := s.WithinUnit(ctx, func(w Writer) error {
		op = "upsert organization"
		orgID, err := w.UpsertOrganization(ctx, &recs.Organization)
		if err != nil {
			return err
		}
		recs.Organization.ID = orgID

		if recs.Contact != nil {
			op = "upsert contact"
			recs.Contact.OrganizationID = orgID
			contactID, err := w.UpsertContact(ctx, recs.Contact)
			if err != nil {
				return err
			}
			recs.Contact.ID = contactID
			recs.Activity.ContactID = contactID
		}

		op = "insert activity"
		recs.Activity.OrganizationID = orgID
		actID, err := w.InsertActivity(ctx, &recs.Activity)
		if err != nil {
			return err
		}
		recs.Activity.ID = actID
		op = "commit"
		return nil
	})
	if err != nil {
		return &PersistenceError{Op: op, Err: err}
	}

	zap.L().Info("store: report saved",
		zap.String("domain", recs.Organization.Domain),
		zap.String("organization_id", recs.Organization.ID),
		zap.Bool("contact", recs.Contact != nil),
	)
	return nil
}
