package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := newPostgresStore(mock)
	s.closeFn = nil
	s.now = fixedNow
	s.retry.InitialBackoff = time.Millisecond
	s.retry.JitterFraction = 0
	return s, mock
}

func idRow(id string) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id"}).AddRow(id)
}

// anyArgs matches n bound parameters of any value.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

const (
	organizationArgs = 12
	contactArgs      = 10
	activityArgs     = 8
)

func TestPostgresStore_Save(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "organizations" .* ON CONFLICT \("domain"\) DO UPDATE SET .* RETURNING "id"`).
		WithArgs(pgxmock.AnyArg(), "acme.com", "Acme", "https://acme.com", "", "", "", "", 70,
			`{"techReadiness":50}`, fixedNow(), fixedNow()).
		WillReturnRows(idRow("org-1"))
	mock.ExpectQuery(`INSERT INTO "contacts" .* ON CONFLICT \("email"\)`).
		WithArgs(pgxmock.AnyArg(), "org-1", "info@acme.com", "Jane", "Smith", "", "", "website",
			fixedNow(), fixedNow()).
		WillReturnRows(idRow("contact-1"))
	mock.ExpectQuery(`INSERT INTO "activities"`).
		WithArgs(pgxmock.AnyArg(), "org-1", "contact-1", "intelligence_analysis",
			"Client intelligence analysis: Acme", "", `{"url":"https://acme.com"}`, fixedNow()).
		WillReturnRows(idRow("act-1"))
	mock.ExpectCommit()

	recs := sampleRecords()
	require.NoError(t, Save(context.Background(), s, &recs))
	assert.Equal(t, "org-1", recs.Organization.ID)
	assert.Equal(t, "act-1", recs.Activity.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RollsBackOnFailure(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "organizations"`).WithArgs(anyArgs(organizationArgs)...).WillReturnRows(idRow("org-1"))
	mock.ExpectQuery(`INSERT INTO "contacts"`).WithArgs(anyArgs(contactArgs)...).WillReturnError(errors.New("check constraint violated"))
	mock.ExpectRollback()

	recs := sampleRecords()
	err := Save(context.Background(), s, &recs)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "upsert contact", pe.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RetriesTransientBegin(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin().WillReturnError(errors.New("read: connection reset by peer"))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "organizations"`).WithArgs(anyArgs(organizationArgs)...).WillReturnRows(idRow("org-1"))
	mock.ExpectQuery(`INSERT INTO "activities"`).WithArgs(anyArgs(activityArgs)...).WillReturnRows(idRow("act-1"))
	mock.ExpectCommit()

	recs := sampleRecords()
	recs.Contact = nil
	require.NoError(t, Save(context.Background(), s, &recs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_NoRetryOnPermanentError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin().WillReturnError(errors.New("permission denied for table organizations"))

	recs := sampleRecords()
	err := Save(context.Background(), s, &recs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: begin")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CommitFailure(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "organizations"`).WithArgs(anyArgs(organizationArgs)...).WillReturnRows(idRow("org-1"))
	mock.ExpectQuery(`INSERT INTO "activities"`).WithArgs(anyArgs(activityArgs)...).WillReturnRows(idRow("act-1"))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	recs := sampleRecords()
	recs.Contact = nil
	err := Save(context.Background(), s, &recs)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "commit", pe.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS organizations`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgres_BadConnString(t *testing.T) {
	_, err := NewPostgres(context.Background(), "://not a url", nil)
	assert.ErrorContains(t, err, "postgres: parse config")
}
