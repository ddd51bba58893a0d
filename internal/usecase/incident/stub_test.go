package incident_test

import (
	"context"
	"sync"
	"time"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/repository"
)

/* ───────── in-memory IncidentRepository ───────── */

type stubRepo struct {
	mu      sync.Mutex
	data    []entity.Incident
	nextID  int64
	err     error
	countEr error

	lastFilter repository.IncidentFilter
}

func newStubRepo(items ...entity.ClassifiedItem) *stubRepo {
	r := &stubRepo{nextID: 1}
	_, _ = r.SaveNew(context.Background(), items)
	return r
}

func (r *stubRepo) SaveNew(_ context.Context, items []entity.ClassifiedItem) ([]entity.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	seen := map[string]bool{}
	for _, inc := range r.data {
		seen[inc.Link] = true
	}
	var out []entity.Incident
	for _, it := range items {
		if seen[it.Link] {
			continue
		}
		seen[it.Link] = true
		inc := entity.Incident{ID: r.nextID, ClassifiedItem: it, FirstSeenAt: time.Unix(r.nextID, 0)}
		r.nextID++
		r.data = append(r.data, inc)
		out = append(out, inc)
	}
	return out, nil
}

func (r *stubRepo) match(f repository.IncidentFilter) []entity.Incident {
	var out []entity.Incident
	for i := len(r.data) - 1; i >= 0; i-- {
		inc := r.data[i]
		if f.District != "" && inc.District != f.District {
			continue
		}
		if f.Category != "" && inc.Category != f.Category {
			continue
		}
		if f.Source != "" && inc.Source != f.Source {
			continue
		}
		out = append(out, inc)
	}
	return out
}

func (r *stubRepo) List(_ context.Context, f repository.IncidentFilter) ([]entity.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = f
	if r.err != nil {
		return nil, r.err
	}
	all := r.match(f)
	if f.Offset >= len(all) {
		return nil, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && f.Limit < len(all) {
		all = all[:f.Limit]
	}
	return all, nil
}

func (r *stubRepo) Count(_ context.Context, f repository.IncidentFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countEr != nil {
		return 0, r.countEr
	}
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.match(f))), nil
}

func (r *stubRepo) Get(_ context.Context, id int64) (*entity.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, inc := range r.data {
		if inc.ID == id {
			return &inc, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) Summary(_ context.Context) (entity.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return entity.Summary{}, r.err
	}
	sum := entity.Summary{Total: int64(len(r.data))}
	byDistrict := map[string]int64{}
	var order []string
	for _, inc := range r.data {
		if byDistrict[inc.District] == 0 {
			order = append(order, inc.District)
		}
		byDistrict[inc.District]++
	}
	for _, d := range order {
		sum.ByDistrict = append(sum.ByDistrict, entity.DistrictCount{District: d, Count: byDistrict[d]})
	}
	return sum, nil
}

func item(link, district, category string) entity.ClassifiedItem {
	return entity.ClassifiedItem{
		Headline: "Asaltan a vecinos en " + district,
		Link:     link,
		Source:   "El Comercio",
		District: district,
		Category: category,
	}
}
