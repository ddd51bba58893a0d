package scraper

import (
	"fmt"
	"net/http"
	"time"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/usecase/classify"
)

// RegistryConfig tunes the adapters a Registry builds.
type RegistryConfig struct {
	// PageInterval is the pause between listing pages of one source.
	PageInterval time.Duration

	// PageTimeout bounds a single page fetch.
	PageTimeout time.Duration
}

// Registry holds one adapter per enabled source, in configuration order.
// Adapters are resolved once at assembly time.
type Registry struct {
	adapters []Adapter
	byName   map[string]Adapter
}

// NewRegistry validates sources and builds their adapters. Disabled sources
// are skipped. The first invalid source aborts construction.
func NewRegistry(client *http.Client, classifier *classify.Classifier, sources []entity.Source, cfg RegistryConfig) (*Registry, error) {
	r := &Registry{byName: make(map[string]Adapter, len(sources))}

	for i := range sources {
		src := sources[i]
		if !src.IsEnabled() {
			continue
		}
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("NewRegistry: %w", err)
		}
		if _, dup := r.byName[src.Name]; dup {
			return nil, fmt.Errorf("NewRegistry: duplicate source name %q", src.Name)
		}

		fetcher := NewPageFetcher(client, src.Name).WithTimeout(cfg.PageTimeout)

		var a Adapter
		switch src.Kind {
		case entity.SourceKindRSS:
			a = NewRSSAdapter(src, fetcher, classifier, cfg.PageInterval)
		default:
			a = NewHTMLAdapter(src, fetcher, classifier, cfg.PageInterval)
		}

		r.adapters = append(r.adapters, a)
		r.byName[src.Name] = a
	}

	return r, nil
}

// Adapters returns all adapters in configuration order.
func (r *Registry) Adapters() []Adapter {
	return append([]Adapter(nil), r.adapters...)
}

// Get returns the adapter for a source name.
func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// Names returns the source names in configuration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.adapters))
	for i, a := range r.adapters {
		names[i] = a.Name()
	}
	return names
}
