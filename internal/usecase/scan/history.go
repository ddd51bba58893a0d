package scan

import (
	"sync"

	"lima-segura/internal/domain/entity"
)

// History accumulates items across scans. An item is never replaced once
// its link has been seen; later scans can only add new links.
type History struct {
	mu    sync.RWMutex
	items []entity.ClassifiedItem
	links map[string]struct{}
}

// NewHistory creates a History seeded with items, deduplicated first-seen.
func NewHistory(items ...entity.ClassifiedItem) *History {
	h := &History{links: make(map[string]struct{})}
	h.Merge(items)
	return h
}

// Merge adds the items whose links are new and returns them in input order.
func (h *History) Merge(items []entity.ClassifiedItem) []entity.ClassifiedItem {
	h.mu.Lock()
	defer h.mu.Unlock()

	var added []entity.ClassifiedItem
	for _, it := range items {
		if _, ok := h.links[it.Link]; ok {
			continue
		}
		h.links[it.Link] = struct{}{}
		h.items = append(h.items, it)
		added = append(added, it)
	}
	return added
}

// Items returns a copy of the accumulated items in first-seen order.
func (h *History) Items() []entity.ClassifiedItem {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]entity.ClassifiedItem(nil), h.items...)
}

// Len returns the number of distinct links seen.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.items)
}
