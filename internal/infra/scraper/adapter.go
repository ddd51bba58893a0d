package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/observability/metrics"
	"lima-segura/internal/usecase/classify"
)

// DefaultPageInterval is the pause between two listing page requests to the
// same site.
const DefaultPageInterval = time.Second

// Adapter scans one news source.
//
// Scan returns the source's accepted items, deduplicated by link with the
// first occurrence kept. Page-level failures are absorbed (logged, counted,
// treated as zero items). A non-nil error means the remaining pages could not
// be scanned, e.g. the deadline passed; the items accepted so far are still
// returned with it.
type Adapter interface {
	Name() string
	Scan(ctx context.Context) ([]entity.ClassifiedItem, error)
}

// pageSource yields candidates for one listing page.
type pageSource func(ctx context.Context, pageURL string) ([]entity.Candidate, error)

// pagedAdapter is the shared page loop behind HTMLAdapter and RSSAdapter.
type pagedAdapter struct {
	source     entity.Source
	site       classify.Site
	classifier *classify.Classifier
	limiter    *rate.Limiter
	fetchPage  pageSource
}

func newPagedAdapter(src entity.Source, classifier *classify.Classifier, interval time.Duration, fetch pageSource) pagedAdapter {
	if interval <= 0 {
		interval = DefaultPageInterval
	}
	return pagedAdapter{
		source:     src,
		site:       classify.SiteFromSource(src),
		classifier: classifier,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		fetchPage:  fetch,
	}
}

func (a *pagedAdapter) Name() string { return a.source.Name }

func (a *pagedAdapter) Scan(ctx context.Context) ([]entity.ClassifiedItem, error) {
	var (
		items    []entity.ClassifiedItem
		seen     = make(map[string]struct{})
		pages    = a.source.PageURLs()
		rejected = make(map[classify.Rejection]int)
	)

	for _, pageURL := range pages {
		if err := a.limiter.Wait(ctx); err != nil {
			// Wait fails early when the pause would outlast the deadline.
			if ctx.Err() != nil {
				return items, ctx.Err()
			}
			return items, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}

		candidates, err := a.fetchPage(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return items, ctx.Err()
			}
			metrics.RecordPageFetch(a.source.Name, false)
			slog.Warn("listing page failed, continuing with next page",
				slog.String("source", a.source.Name),
				slog.String("url", pageURL),
				slog.Any("error", err))
			continue
		}
		metrics.RecordPageFetch(a.source.Name, true)

		accepted := 0
		for _, cand := range candidates {
			item, reason := a.classifier.Classify(cand, a.site)
			if reason != classify.RejectNone {
				rejected[reason]++
				continue
			}
			if _, dup := seen[item.Link]; dup {
				continue
			}
			seen[item.Link] = struct{}{}
			items = append(items, item)
			accepted++
		}

		slog.Debug("listing page classified",
			slog.String("source", a.source.Name),
			slog.String("url", pageURL),
			slog.Int("candidates", len(candidates)),
			slog.Int("accepted", accepted))
	}

	slog.Info("source scanned",
		slog.String("source", a.source.Name),
		slog.Int("pages", len(pages)),
		slog.Int("items", len(items)),
		slog.Any("rejected", rejected))

	return items, nil
}

// HTMLAdapter scans a site's HTML listing pages.
type HTMLAdapter struct {
	pagedAdapter
	fetcher *PageFetcher
}

// NewHTMLAdapter creates an adapter for an html source.
func NewHTMLAdapter(src entity.Source, fetcher *PageFetcher, classifier *classify.Classifier, interval time.Duration) *HTMLAdapter {
	a := &HTMLAdapter{fetcher: fetcher}
	a.pagedAdapter = newPagedAdapter(src, classifier, interval, a.candidates)
	return a
}

func (a *HTMLAdapter) candidates(ctx context.Context, pageURL string) ([]entity.Candidate, error) {
	doc, err := a.fetcher.FetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ExtractCandidates(doc, a.source.HeadlineSelector(), a.source.Name, pageURL), nil
}
