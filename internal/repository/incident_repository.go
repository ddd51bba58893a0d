// Package repository declares the persistence ports used by the use cases.
package repository

import (
	"context"

	"lima-segura/internal/domain/entity"
)

// IncidentFilter narrows List and Count. Empty fields match everything.
type IncidentFilter struct {
	District string
	Category string
	Source   string

	// Limit <= 0 means no limit. Count ignores Limit and Offset.
	Limit  int
	Offset int
}

// IncidentRepository stores classified items keyed by link.
type IncidentRepository interface {
	// SaveNew inserts the items whose links are not stored yet and returns
	// them as incidents, in input order. Existing links are left untouched.
	SaveNew(ctx context.Context, items []entity.ClassifiedItem) ([]entity.Incident, error)

	// List returns incidents newest first.
	List(ctx context.Context, filter IncidentFilter) ([]entity.Incident, error)

	Count(ctx context.Context, filter IncidentFilter) (int64, error)

	// Get returns (nil, nil) if the incident does not exist.
	Get(ctx context.Context, id int64) (*entity.Incident, error)

	// Summary counts incidents per district, category and source. District
	// coordinates are left zero; callers fill them from the lexicon.
	Summary(ctx context.Context) (entity.Summary, error)
}
