package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertSQL_Dollar(t *testing.T) {
	sql, err := UpsertSQL(UpsertConfig{
		Table:        "organizations",
		Columns:      []string{"id", "domain", "name", "created_at"},
		ConflictKeys: []string{"domain"},
		Immutable:    []string{"id", "created_at"},
		Returning:    "id",
	}, Dollar)
	require.NoError(t, err)
	assert.Equal(t,
		`INSERT INTO "organizations" ("id", "domain", "name", "created_at") VALUES ($1, $2, $3, $4) `+
			`ON CONFLICT ("domain") DO UPDATE SET "name" = EXCLUDED."name" RETURNING "id"`,
		sql)
}

func TestUpsertSQL_Question(t *testing.T) {
	sql, err := UpsertSQL(UpsertConfig{
		Table:        "contacts",
		Columns:      []string{"email", "title"},
		ConflictKeys: []string{"email"},
		UpdateCols:   []string{"title"},
	}, Question)
	require.NoError(t, err)
	assert.Equal(t,
		`INSERT INTO "contacts" ("email", "title") VALUES (?, ?) ON CONFLICT ("email") DO UPDATE SET "title" = EXCLUDED."title"`,
		sql)
}

func TestUpsertSQL_OnlyKeysDoesNothing(t *testing.T) {
	sql, err := UpsertSQL(UpsertConfig{
		Table:        "tags",
		Columns:      []string{"name"},
		ConflictKeys: []string{"name"},
	}, Dollar)
	require.NoError(t, err)
	assert.Contains(t, sql, "DO NOTHING")
}

func TestUpsertSQL_Validation(t *testing.T) {
	_, err := UpsertSQL(UpsertConfig{Columns: []string{"id"}, ConflictKeys: []string{"id"}}, Dollar)
	assert.ErrorContains(t, err, "no table specified")

	_, err = UpsertSQL(UpsertConfig{Table: "t", ConflictKeys: []string{"id"}}, Dollar)
	assert.ErrorContains(t, err, "no columns specified")

	_, err = UpsertSQL(UpsertConfig{Table: "t", Columns: []string{"id"}}, Dollar)
	assert.ErrorContains(t, err, "no conflict keys specified")
}

func TestInsertSQL(t *testing.T) {
	sql, err := InsertSQL("activities", []string{"id", "type"}, "id", Question)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "activities" ("id", "type") VALUES (?, ?) RETURNING "id"`, sql)

	_, err = InsertSQL("", nil, "", Dollar)
	assert.Error(t, err)
}

func TestSanitizeTable(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", `"simple"`},
		{"intel.organizations", `"intel"."organizations"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeTable(tt.input))
		})
	}
}

func TestQuoteAndJoin(t *testing.T) {
	assert.Equal(t, `"id", "name", "value"`, quoteAndJoin([]string{"id", "name", "value"}))
}
