package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"lima-segura/internal/infra/adapter/persistence/postgres"
	"lima-segura/internal/infra/adapter/persistence/sqlite"
	"lima-segura/internal/infra/db"
	"lima-segura/internal/repository"
	"lima-segura/internal/resilience/circuitbreaker"
)

// DatabaseComponents holds the connection and the incident repository.
type DatabaseComponents struct {
	DB      *sql.DB
	Dialect db.Dialect
	Repo    repository.IncidentRepository
}

// SetupDatabase opens the database selected by DATABASE_URL or SQLITE_PATH,
// applies the schema and wraps the connection in a circuit breaker.
func SetupDatabase(ctx context.Context, logger *slog.Logger) (*DatabaseComponents, error) {
	conn, dialect, err := db.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(conn, dialect); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	q := circuitbreaker.NewDBCircuitBreaker(conn)
	var repo repository.IncidentRepository
	switch dialect {
	case db.DialectSQLite:
		repo = sqlite.NewIncidentRepo(q)
	default:
		repo = postgres.NewIncidentRepo(q)
	}

	logger.Info("database ready", slog.String("dialect", string(dialect)))
	return &DatabaseComponents{DB: conn, Dialect: dialect, Repo: repo}, nil
}

// Close closes the connection, logging failures.
func (c *DatabaseComponents) Close(logger *slog.Logger) {
	if err := c.DB.Close(); err != nil {
		logger.Error("failed to close database", slog.Any("error", err))
	}
}
