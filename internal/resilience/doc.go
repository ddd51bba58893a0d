// Package resilience groups the failure handling shared by the scrapers,
// the notification channels and the incident store.
//
// circuitbreaker gives each news site, each notification channel and the
// database its own gobreaker breaker, so a broken site or webhook stops
// being called while the rest keep working. retry wraps single page
// fetches and webhook posts in exponential backoff:
//
//	cb := circuitbreaker.New(circuitbreaker.SourceConfig("RPP"))
//	err := retry.WithBackoff(ctx, retry.ListingPageConfig(), func() error {
//	    _, err := cb.Execute(fetchListingPage)
//	    return err
//	})
package resilience
