package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// incidentsTable is rendered per dialect; only the key and timestamp
// column types differ.
const incidentsTable = `
CREATE TABLE IF NOT EXISTS incidents (
    id            {{id}},
    headline      TEXT NOT NULL,
    link          TEXT NOT NULL UNIQUE,
    source        TEXT NOT NULL,
    district      TEXT NOT NULL,
    category      TEXT NOT NULL,
    first_seen_at {{ts}}
)`

var columnTypes = map[Dialect]*strings.Replacer{
	DialectPostgres: strings.NewReplacer(
		"{{id}}", "BIGSERIAL PRIMARY KEY",
		"{{ts}}", "TIMESTAMPTZ NOT NULL DEFAULT now()"),
	DialectSQLite: strings.NewReplacer(
		"{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{ts}}", "DATETIME NOT NULL"),
}

// Indexes back the newest-first listing and the summary group-bys.
var incidentIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_incidents_first_seen_at ON incidents(first_seen_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_incidents_district ON incidents(district)`,
	`CREATE INDEX IF NOT EXISTS idx_incidents_category ON incidents(category)`,
	`CREATE INDEX IF NOT EXISTS idx_incidents_source ON incidents(source)`,
}

// Migrate creates the schema for dialect. Every statement is idempotent,
// so it runs on each start.
func Migrate(db *sql.DB, dialect Dialect) error {
	types, ok := columnTypes[dialect]
	if !ok {
		return fmt.Errorf("migrate: unknown dialect %q", dialect)
	}
	if _, err := db.Exec(types.Replace(incidentsTable)); err != nil {
		return fmt.Errorf("migrate %s: create incidents: %w", dialect, err)
	}
	for _, stmt := range incidentIndexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate %s: create index: %w", dialect, err)
		}
	}
	return nil
}
