package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/client-intel/internal/db"
	"github.com/sells-group/client-intel/internal/resilience"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db    *sql.DB
	stmts statements
	retry resilience.RetryConfig
	now   func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// One writer; also keeps ":memory:" databases on a single connection.
	sqlDB.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}

	retry := resilience.DefaultRetryConfig()
	retry.Operation = "sqlite: unit"
	return &SQLiteStore{
		db:    sqlDB,
		stmts: mustStatements(db.Question),
		retry: retry,
		now:   utcNow,
	}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS organizations (
	id          TEXT PRIMARY KEY,
	domain      TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	website     TEXT NOT NULL DEFAULT '',
	industry    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	phone       TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL DEFAULT '',
	lead_score  INTEGER NOT NULL DEFAULT 0,
	metadata    TEXT NOT NULL DEFAULT '{}',
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS contacts (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id),
	email           TEXT NOT NULL UNIQUE,
	first_name      TEXT NOT NULL DEFAULT '',
	last_name       TEXT NOT NULL DEFAULT '',
	title           TEXT NOT NULL DEFAULT '',
	phone           TEXT NOT NULL DEFAULT '',
	source          TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS activities (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id),
	contact_id      TEXT REFERENCES contacts(id),
	type            TEXT NOT NULL,
	subject         TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	metadata        TEXT NOT NULL DEFAULT '{}',
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_contacts_organization_id ON contacts(organization_id);
CREATE INDEX IF NOT EXISTS idx_activities_organization_id ON activities(organization_id);
CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// WithinUnit runs fn in a transaction, retrying the unit while the database
// is locked.
func (s *SQLiteStore) WithinUnit(ctx context.Context, fn func(Writer) error) error {
	return resilience.Do(ctx, s.retry, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return eris.Wrap(err, "sqlite: begin")
		}

		w := &sqlWriter{
			queryRow: func(ctx context.Context, query string, args ...any) rowScanner {
				return tx.QueryRowContext(ctx, query, args...)
			},
			stmts: s.stmts,
			now:   s.now,
		}
		if err := fn(w); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				zap.L().Warn("sqlite: rollback failed", zap.Error(rbErr))
			}
			return err
		}
		return eris.Wrap(tx.Commit(), "sqlite: commit")
	})
}
