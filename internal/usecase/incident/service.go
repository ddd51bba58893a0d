package incident

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lima-segura/internal/common/pagination"
	"lima-segura/internal/domain/entity"
	"lima-segura/internal/lexicon"
	"lima-segura/internal/observability/metrics"
	"lima-segura/internal/repository"
)

// suggestThreshold is the Jaro-Winkler score above which an unknown district
// filter gets a "did you mean" hint.
const suggestThreshold = 0.85

// Filter narrows List. Empty fields match everything.
type Filter struct {
	District string
	Category string
	Source   string
}

// PaginatedResult is one page of incidents with its metadata.
type PaginatedResult struct {
	Data       []entity.Incident
	Pagination pagination.Metadata
}

// Service provides read access to persisted incidents.
type Service struct {
	Repo    repository.IncidentRepository
	Lexicon *lexicon.Lexicon
}

func (s *Service) lexicon() *lexicon.Lexicon {
	if s.Lexicon == nil {
		return lexicon.Empty()
	}
	return s.Lexicon
}

// List returns one page of incidents, newest first.
//
// The district filter accepts aliases and any casing; it is resolved to the
// canonical name before querying. An unknown district is a ValidationError.
func (s *Service) List(ctx context.Context, f Filter, params pagination.Params) (*PaginatedResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordOperationDuration("incident_list", time.Since(start))
		pagination.RecordDuration("service", time.Since(start))
	}()

	filter, err := s.repoFilter(f)
	if err != nil {
		pagination.RecordError(pagination.ErrorValidation)
		return nil, err
	}

	total, err := s.Repo.Count(ctx, filter)
	if err != nil {
		pagination.RecordError(pagination.ErrorDatabase)
		return nil, fmt.Errorf("count incidents: %w", err)
	}
	pagination.UpdateTotalCount(total)

	filter.Limit = params.Limit
	filter.Offset = params.Offset()
	items, err := s.Repo.List(ctx, filter)
	if err != nil {
		pagination.RecordError(pagination.ErrorDatabase)
		return nil, fmt.Errorf("list incidents: %w", err)
	}

	resp := pagination.NewResponse(items, params, total)
	return &PaginatedResult{Data: resp.Data, Pagination: resp.Pagination}, nil
}

func (s *Service) repoFilter(f Filter) (repository.IncidentFilter, error) {
	out := repository.IncidentFilter{
		Category: strings.ToUpper(strings.TrimSpace(f.Category)),
		Source:   strings.TrimSpace(f.Source),
	}
	// CategoryCrimeSection is mixed case and stored verbatim.
	if strings.EqualFold(out.Category, entity.CategoryCrimeSection) {
		out.Category = entity.CategoryCrimeSection
	}

	district := strings.TrimSpace(f.District)
	switch {
	case district == "":
	case strings.EqualFold(district, entity.DistrictUnspecified):
		out.District = entity.DistrictUnspecified
	default:
		canonical, ok := s.lexicon().Canonical(district)
		if !ok {
			msg := fmt.Sprintf("unknown district %q", district)
			if hint, score := s.lexicon().Suggest(district); score >= suggestThreshold {
				msg += fmt.Sprintf(", did you mean %q?", hint)
			}
			return out, &entity.ValidationError{Field: "district", Message: msg}
		}
		out.District = canonical
	}
	return out, nil
}

// Get returns a single incident.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Incident, error) {
	if id <= 0 {
		return nil, ErrInvalidIncidentID
	}
	inc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get incident: %w", err)
	}
	if inc == nil {
		return nil, ErrIncidentNotFound
	}
	return inc, nil
}

// Summary aggregates all incidents and attaches district coordinates from
// the lexicon. Districts no longer in the lexicon keep zero coordinates.
func (s *Service) Summary(ctx context.Context) (entity.Summary, error) {
	start := time.Now()
	defer func() { metrics.RecordOperationDuration("incident_summary", time.Since(start)) }()

	sum, err := s.Repo.Summary(ctx)
	if err != nil {
		return entity.Summary{}, fmt.Errorf("summarize incidents: %w", err)
	}
	lex := s.lexicon()
	for i, dc := range sum.ByDistrict {
		if lat, lon, ok := lex.Coordinates(dc.District); ok {
			sum.ByDistrict[i].Lat = lat
			sum.ByDistrict[i].Lon = lon
		}
	}
	return sum, nil
}

// Districts returns the known districts in lexicon order.
func (s *Service) Districts() []lexicon.District {
	out := make([]lexicon.District, len(s.lexicon().Districts))
	copy(out, s.lexicon().Districts)
	return out
}
