// Package db opens the incident database and applies its schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"lima-segura/internal/pkg/config"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

var ErrNoDatabase = errors.New("db: neither DATABASE_URL nor SQLITE_PATH is set")

// Querier is what the repositories need from a connection; both *sql.DB
// and circuitbreaker.DBCircuitBreaker satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ConnectionConfig sizes the postgres pool.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// Open picks the backend from the environment. DATABASE_URL (postgres)
// wins over SQLITE_PATH.
func Open(ctx context.Context) (*sql.DB, Dialect, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := OpenPostgres(ctx, dsn)
		return db, DialectPostgres, err
	}
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		db, err := OpenSQLite(ctx, path)
		return db, DialectSQLite, err
	}
	return nil, "", ErrNoDatabase
}

// OpenPostgres opens a pgx-backed pool. The session is tagged with
// application_name so the service shows up in pg_stat_activity.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	pgxCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if _, ok := pgxCfg.RuntimeParams["application_name"]; !ok {
		pgxCfg.RuntimeParams["application_name"] = "lima-segura"
	}
	db := stdlib.OpenDB(*pgxCfg)

	cfg := connectionConfigFromEnv()
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	slog.Info("database connection pool configured",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))

	if err := ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("database connection established", slog.String("dialect", string(DialectPostgres)))
	return db, nil
}

// OpenSQLite opens a local file with one connection, so writers never wait
// on each other for the file lock.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("database connection established",
		slog.String("dialect", string(DialectSQLite)),
		slog.String("path", path))
	return db, nil
}

func ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// connectionConfigFromEnv reads DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS,
// DB_CONN_MAX_LIFETIME and DB_CONN_MAX_IDLE_TIME. Bad values keep the
// default and are logged.
func connectionConfigFromEnv() ConnectionConfig {
	cfg := DefaultConnectionConfig()
	positive := func(v int) error { return config.ValidateRange(v, 1, 1000) }

	results := []config.ConfigLoadResult{
		config.LoadEnvInt("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns, positive),
		config.LoadEnvInt("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns, positive),
		config.LoadEnvDuration("DB_CONN_MAX_LIFETIME", cfg.ConnMaxLifetime, config.ValidatePositiveDuration),
		config.LoadEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.ConnMaxIdleTime, config.ValidatePositiveDuration),
	}
	for _, r := range results {
		for _, w := range r.Warnings {
			slog.Warn("Database pool configuration fallback applied", slog.String("warning", w))
		}
	}

	cfg.MaxOpenConns = results[0].Value.(int)
	cfg.MaxIdleConns = results[1].Value.(int)
	cfg.ConnMaxLifetime = results[2].Value.(time.Duration)
	cfg.ConnMaxIdleTime = results[3].Value.(time.Duration)
	return cfg
}
