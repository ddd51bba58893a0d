package pagination

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Params is a validated page request. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows before the page.
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// ParseQueryParams reads page and limit. Absent values take cfg's defaults;
// present but malformed ones are an error, never silently clamped.
func ParseQueryParams(r *http.Request, cfg Config) (Params, error) {
	q := r.URL.Query()
	p := Params{Page: cfg.DefaultPage, Limit: cfg.DefaultLimit}

	page, err := intParam(q, "page", p.Page, 1, 0)
	if err != nil {
		return p, err
	}
	p.Page = page

	limit, err := intParam(q, "limit", p.Limit, 1, cfg.MaxLimit)
	if err != nil {
		return p, err
	}
	p.Limit = limit
	return p, nil
}

// intParam parses q[name] within [lo, hi]; hi <= 0 means unbounded.
func intParam(q url.Values, name string, def, lo, hi int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err == nil && v >= lo && (hi <= 0 || v <= hi) {
		return v, nil
	}
	if hi > 0 {
		return def, fmt.Errorf("invalid query parameter: %s must be between %d and %d", name, lo, hi)
	}
	return def, fmt.Errorf("invalid query parameter: %s must be an integer >= %d", name, lo)
}

// CalculateTotalPages is ceil(total/limit), and at least 1 so an empty
// result still reports page 1 of 1.
func CalculateTotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
