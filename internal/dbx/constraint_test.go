package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation_Postgres(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped unique", err: fmt.Errorf("db error: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "not null", err: &pgconn.PgError{Code: "23502"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", "file:dbx_constraint_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE u (email TEXT PRIMARY KEY, name TEXT NOT NULL, nick TEXT UNIQUE)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO u (email, name, nick) VALUES ('a@x.com', 'Aya', 'aya')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO u (email, name, nick) VALUES ('a@x.com', 'Other', 'other')`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "primary key: %v", err)

	_, err = db.Exec(`INSERT INTO u (email, name, nick) VALUES ('b@x.com', 'Bob', 'aya')`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "unique: %v", err)

	_, err = db.Exec(`INSERT INTO u (email, name, nick) VALUES ('c@x.com', NULL, 'c')`)
	require.Error(t, err)
	assert.False(t, IsUniqueViolation(err), "not null: %v", err)
}
