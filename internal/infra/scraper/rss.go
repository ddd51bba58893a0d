package scraper

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mmcdole/gofeed"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/resilience/retry"
	"lima-segura/internal/usecase/classify"
	"lima-segura/internal/utils/text"
)

// RSSAdapter scans a site's RSS/Atom feeds. Feed item titles play the role of
// headlines and the feed URL the role of the listing page.
type RSSAdapter struct {
	pagedAdapter
	fetcher *PageFetcher
}

// NewRSSAdapter creates an adapter for an rss source.
func NewRSSAdapter(src entity.Source, fetcher *PageFetcher, classifier *classify.Classifier, interval time.Duration) *RSSAdapter {
	a := &RSSAdapter{fetcher: fetcher.WithRetryConfig(retry.FeedFetchConfig())}
	a.pagedAdapter = newPagedAdapter(src, classifier, interval, a.candidates)
	return a
}

func (a *RSSAdapter) candidates(ctx context.Context, feedURL string) ([]entity.Candidate, error) {
	var feed *gofeed.Feed
	err := a.fetcher.FetchBody(ctx, feedURL, func(body io.Reader) error {
		f, err := gofeed.NewParser().Parse(body)
		if err != nil {
			return fmt.Errorf("parse feed: %w", err)
		}
		feed = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]entity.Candidate, 0, len(feed.Items))
	for _, it := range feed.Items {
		title := text.CollapseSpace(it.Title)
		if it.Link == "" || text.CountRunes(title) < classify.MinHeadlineRunes {
			continue
		}
		out = append(out, entity.Candidate{
			Headline:   title,
			RawLink:    it.Link,
			Source:     a.source.Name,
			ListingURL: feedURL,
		})
	}
	return out, nil
}
