package db

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// Placeholder selects the bind parameter syntax of the target driver.
type Placeholder int

const (
	// Dollar renders $1, $2, ... (Postgres).
	Dollar Placeholder = iota
	// Question renders ?, ?, ... (SQLite).
	Question
)

// UpsertConfig describes a single-row upsert.
type UpsertConfig struct {
	Table        string   // e.g. "organizations"
	Columns      []string // all columns in insert order
	ConflictKeys []string // columns for ON CONFLICT
	UpdateCols   []string // columns to update on conflict (nil = all non-key, non-immutable)
	Immutable    []string // columns never overwritten on conflict, such as id
	Returning    string   // column returned after insert or update
}

// UpsertSQL builds an INSERT ... ON CONFLICT DO UPDATE statement with one bind
// parameter per column. Both Postgres and SQLite accept the output.
func UpsertSQL(cfg UpsertConfig, ph Placeholder) (string, error) {
	if cfg.Table == "" {
		return "", eris.New("db: upsert: no table specified")
	}
	if len(cfg.Columns) == 0 {
		return "", eris.New("db: upsert: no columns specified")
	}
	if len(cfg.ConflictKeys) == 0 {
		return "", eris.New("db: upsert: no conflict keys specified")
	}

	updateCols := cfg.UpdateCols
	if updateCols == nil {
		for _, c := range cfg.Columns {
			if !slices.Contains(cfg.ConflictKeys, c) && !slices.Contains(cfg.Immutable, c) {
				updateCols = append(updateCols, c)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s)",
		sanitizeTable(cfg.Table),
		quoteAndJoin(cfg.Columns),
		placeholders(len(cfg.Columns), ph),
		quoteAndJoin(cfg.ConflictKeys),
	)
	if len(updateCols) == 0 {
		b.WriteString(" DO NOTHING")
	} else {
		sets := make([]string, len(updateCols))
		for i, c := range updateCols {
			q := pgx.Identifier{c}.Sanitize()
			sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", q, q)
		}
		b.WriteString(" DO UPDATE SET ")
		b.WriteString(strings.Join(sets, ", "))
	}
	if cfg.Returning != "" {
		b.WriteString(" RETURNING ")
		b.WriteString(pgx.Identifier{cfg.Returning}.Sanitize())
	}
	return b.String(), nil
}

// InsertSQL builds a plain INSERT, optionally returning one column.
func InsertSQL(table string, columns []string, returning string, ph Placeholder) (string, error) {
	if table == "" || len(columns) == 0 {
		return "", eris.New("db: insert: table and columns are required")
	}
	s := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		sanitizeTable(table), quoteAndJoin(columns), placeholders(len(columns), ph))
	if returning != "" {
		s += " RETURNING " + pgx.Identifier{returning}.Sanitize()
	}
	return s, nil
}

func placeholders(n int, ph Placeholder) string {
	out := make([]string, n)
	for i := range out {
		if ph == Question {
			out[i] = "?"
		} else {
			out[i] = fmt.Sprintf("$%d", i+1)
		}
	}
	return strings.Join(out, ", ")
}

// sanitizeTable quotes a table name, handling schema-qualified names.
func sanitizeTable(table string) string {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

// quoteAndJoin quotes each column name and joins with commas.
func quoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
