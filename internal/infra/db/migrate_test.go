package db

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		table   string
		failAt  int // statement index that errors, -1 for none
		wantErr string
	}{
		{"postgres", DialectPostgres, "BIGSERIAL PRIMARY KEY", -1, ""},
		{"sqlite", DialectSQLite, "INTEGER PRIMARY KEY AUTOINCREMENT", -1, ""},
		{"table error", DialectPostgres, "BIGSERIAL", 0, "create incidents"},
		{"index error", DialectSQLite, "AUTOINCREMENT", 2, "create index"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = conn.Close() }()

			stmts := append([]string{regexp.QuoteMeta(tt.table)}, make([]string, len(incidentIndexes))...)
			for i, idx := range incidentIndexes {
				stmts[i+1] = regexp.QuoteMeta(idx)
			}
			for i, stmt := range stmts {
				exp := mock.ExpectExec(stmt)
				if i == tt.failAt {
					exp.WillReturnError(errors.New("permission denied"))
					break
				}
				exp.WillReturnResult(sqlmock.NewResult(0, 0))
			}

			err = Migrate(conn, tt.dialect)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMigrate_UnknownDialect(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	assert.ErrorContains(t, Migrate(conn, "mysql"), "unknown dialect")
	assert.NoError(t, mock.ExpectationsWereMet())
}
