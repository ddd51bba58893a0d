// Package postgres implements the repository ports on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/infra/db"
	"lima-segura/internal/repository"
)

const incidentColumns = `id, headline, link, source, district, category, first_seen_at`

// IncidentRepo implements repository.IncidentRepository on PostgreSQL.
type IncidentRepo struct {
	db  db.Querier
	now func() time.Time
}

// NewIncidentRepo creates a repository over q, typically a *sql.DB or a
// circuitbreaker.DBCircuitBreaker.
func NewIncidentRepo(q db.Querier) repository.IncidentRepository {
	return &IncidentRepo{db: q, now: time.Now}
}

func (repo *IncidentRepo) SaveNew(ctx context.Context, items []entity.ClassifiedItem) ([]entity.Incident, error) {
	const query = `
INSERT INTO incidents (headline, link, source, district, category, first_seen_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (link) DO NOTHING
RETURNING id`

	inserted := make([]entity.Incident, 0, len(items))
	for _, it := range items {
		seen := repo.now().UTC()
		rows, err := repo.db.QueryContext(ctx, query,
			it.Headline, it.Link, it.Source, it.District, it.Category, seen)
		if err != nil {
			return inserted, fmt.Errorf("SaveNew: %w", err)
		}

		var id int64
		found := rows.Next()
		if found {
			err = rows.Scan(&id)
		}
		if err == nil {
			err = rows.Err()
		}
		_ = rows.Close()
		if err != nil {
			return inserted, fmt.Errorf("SaveNew: Scan: %w", err)
		}
		if !found {
			continue // link already stored
		}

		inserted = append(inserted, entity.Incident{ID: id, ClassifiedItem: it, FirstSeenAt: seen})
	}
	return inserted, nil
}

func (repo *IncidentRepo) List(ctx context.Context, filter repository.IncidentFilter) ([]entity.Incident, error) {
	where, args := buildWhere(filter)
	query := `SELECT ` + incidentColumns + ` FROM incidents ` + where + ` ORDER BY first_seen_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	incidents := make([]entity.Incident, 0, max(filter.Limit, 16))
	for rows.Next() {
		var inc entity.Incident
		if err := rows.Scan(&inc.ID, &inc.Headline, &inc.Link, &inc.Source,
			&inc.District, &inc.Category, &inc.FirstSeenAt); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}

func (repo *IncidentRepo) Count(ctx context.Context, filter repository.IncidentFilter) (int64, error) {
	where, args := buildWhere(filter)
	var count int64
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM incidents `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *IncidentRepo) Get(ctx context.Context, id int64) (*entity.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1 LIMIT 1`
	var inc entity.Incident
	err := repo.db.QueryRowContext(ctx, query, id).Scan(&inc.ID, &inc.Headline, &inc.Link,
		&inc.Source, &inc.District, &inc.Category, &inc.FirstSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &inc, nil
}

func (repo *IncidentRepo) Summary(ctx context.Context) (entity.Summary, error) {
	var s entity.Summary
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM incidents`).Scan(&s.Total); err != nil {
		return s, fmt.Errorf("Summary: total: %w", err)
	}

	districts, err := repo.countBy(ctx, "district")
	if err != nil {
		return s, err
	}
	for _, d := range districts {
		s.ByDistrict = append(s.ByDistrict, entity.DistrictCount{District: d.Label, Count: d.Count})
	}

	if s.ByCategory, err = repo.countBy(ctx, "category"); err != nil {
		return s, err
	}
	if s.BySource, err = repo.countBy(ctx, "source"); err != nil {
		return s, err
	}
	return s, nil
}

// countBy groups incidents by a fixed column name; column is never user input.
func (repo *IncidentRepo) countBy(ctx context.Context, column string) ([]entity.LabelCount, error) {
	query := `SELECT ` + column + `, COUNT(*) AS n FROM incidents GROUP BY ` + column + ` ORDER BY n DESC, ` + column + ` ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("Summary: by %s: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	var out []entity.LabelCount
	for rows.Next() {
		var lc entity.LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, fmt.Errorf("Summary: by %s: Scan: %w", column, err)
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

// buildWhere builds the WHERE clause shared by List and Count.
func buildWhere(f repository.IncidentFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("district", f.District)
	add("category", f.Category)
	add("source", f.Source)

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
