package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/client-intel/internal/model"
	"github.com/sells-group/client-intel/internal/report"
)

func sampleRecords() report.Records {
	return report.Records{
		Organization: model.Organization{
			Domain:    "acme.com",
			Name:      "Acme",
			Website:   "https://acme.com",
			LeadScore: 70,
			Metadata:  map[string]any{"techReadiness": 50},
		},
		Contact: &model.Contact{
			Email:     "info@acme.com",
			FirstName: "Jane",
			LastName:  "Smith",
			Source:    report.ContactSourceWebsite,
		},
		Activity: model.Activity{
			Type:     model.ActivityIntelligence,
			Subject:  "Client intelligence analysis: Acme",
			Metadata: map[string]any{"url": "https://acme.com"},
		},
	}
}

// fakeStore records writes and can fail at a chosen step.
type fakeStore struct {
	failOn string
	calls  []string
}

func (f *fakeStore) WithinUnit(_ context.Context, fn func(Writer) error) error { return fn(f) }
func (f *fakeStore) Migrate(context.Context) error                            { return nil }
func (f *fakeStore) Close() error                                             { return nil }

func (f *fakeStore) step(name, id string) (string, error) {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return "", errors.New(name + " failed")
	}
	return id, nil
}

func (f *fakeStore) UpsertOrganization(context.Context, *model.Organization) (string, error) {
	return f.step("org", "org-1")
}

func (f *fakeStore) UpsertContact(_ context.Context, c *model.Contact) (string, error) {
	if c.OrganizationID != "org-1" {
		return "", errors.New("contact not linked")
	}
	return f.step("contact", "contact-1")
}

func (f *fakeStore) InsertActivity(_ context.Context, a *model.Activity) (string, error) {
	if a.OrganizationID != "org-1" {
		return "", errors.New("activity not linked")
	}
	return f.step("activity", "act-1")
}

func TestSave_AssignsIDs(t *testing.T) {
	recs := sampleRecords()
	fs := &fakeStore{}
	require.NoError(t, Save(context.Background(), fs, &recs))

	assert.Equal(t, []string{"org", "contact", "activity"}, fs.calls)
	assert.Equal(t, "org-1", recs.Organization.ID)
	assert.Equal(t, "contact-1", recs.Contact.ID)
	assert.Equal(t, "contact-1", recs.Activity.ContactID)
	assert.Equal(t, "act-1", recs.Activity.ID)
}

func TestSave_NoContact(t *testing.T) {
	recs := sampleRecords()
	recs.Contact = nil
	fs := &fakeStore{}
	require.NoError(t, Save(context.Background(), fs, &recs))
	assert.Equal(t, []string{"org", "activity"}, fs.calls)
	assert.Empty(t, recs.Activity.ContactID)
}

func TestSave_WrapsFailure(t *testing.T) {
	tests := []struct {
		failOn string
		op     string
	}{
		{"org", "upsert organization"},
		{"contact", "upsert contact"},
		{"activity", "insert activity"},
	}
	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			recs := sampleRecords()
			err := Save(context.Background(), &fakeStore{failOn: tt.failOn}, &recs)

			var pe *PersistenceError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.op, pe.Op)
			assert.Contains(t, err.Error(), tt.failOn+" failed")
		})
	}
}

func TestMarshalMetadata(t *testing.T) {
	s, err := marshalMetadata(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", s)

	s, err = marshalMetadata(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, s)

	_, err = marshalMetadata(map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}

func fixedNow() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
