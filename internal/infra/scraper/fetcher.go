// Package scraper fetches news listing pages and feeds and turns them into
// classified crime headlines.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"

	"lima-segura/internal/resilience/circuitbreaker"
	"lima-segura/internal/resilience/retry"
)

const (
	maxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultPageTimeout bounds a single listing page fetch.
	DefaultPageTimeout = 10 * time.Second

	// BrowserUserAgent is sent with every request; several Peruvian news sites
	// serve an empty shell or 403 to non-browser agents.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// PageFetcher downloads listing pages for one source. Requests go through
// retry with backoff wrapped around a per-source circuit breaker.
type PageFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	timeout        time.Duration
	source         string
}

// NewPageFetcher creates a PageFetcher for the named source.
func NewPageFetcher(client *http.Client, source string) *PageFetcher {
	return &PageFetcher{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.SourceConfig(source)),
		retryConfig:    retry.ListingPageConfig(),
		timeout:        DefaultPageTimeout,
		source:         source,
	}
}

// WithTimeout sets the per-page timeout. Non-positive values are ignored.
func (f *PageFetcher) WithTimeout(d time.Duration) *PageFetcher {
	if d > 0 {
		f.timeout = d
	}
	return f
}

// WithRetryConfig replaces the retry policy.
func (f *PageFetcher) WithRetryConfig(cfg retry.Config) *PageFetcher {
	f.retryConfig = cfg
	return f
}

// BreakerOpen reports whether the source's circuit breaker is open.
func (f *PageFetcher) BreakerOpen() bool {
	return f.circuitBreaker.IsOpen()
}

// FetchDocument retrieves and parses an HTML page.
func (f *PageFetcher) FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var doc *goquery.Document
	err := f.do(ctx, pageURL, func(body io.Reader) error {
		d, err := goquery.NewDocumentFromReader(body)
		if err != nil {
			return fmt.Errorf("parse HTML: %w", err)
		}
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FetchBody retrieves a page and hands its size-limited body to consume.
func (f *PageFetcher) FetchBody(ctx context.Context, pageURL string, consume func(io.Reader) error) error {
	return f.do(ctx, pageURL, consume)
}

func (f *PageFetcher) do(ctx context.Context, pageURL string, consume func(io.Reader) error) error {
	return retry.WithBackoff(ctx, f.retryConfig, func() error {
		_, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return nil, f.fetchOnce(ctx, pageURL, consume)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.Warn("source circuit breaker open, request rejected",
				slog.String("source", f.source),
				slog.String("url", pageURL),
				slog.String("state", f.circuitBreaker.State().String()))
		}
		return err
	})
}

func (f *PageFetcher) fetchOnce(ctx context.Context, pageURL string, consume func(io.Reader) error) error {
	if err := validateURL(pageURL); err != nil {
		return fmt.Errorf("URL validation failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", BrowserUserAgent)
	req.Header.Set("Accept-Language", "es-PE,es;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
			RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}

	return consume(io.LimitReader(resp.Body, maxBodySize))
}

// validateURL checks if a URL is safe to fetch (SSRF prevention).
// Loopback URLs on ephemeral ports (httptest servers) are allowed.
func validateURL(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %s (only http/https allowed)", u.Scheme)
	}

	if u.Hostname() == "127.0.0.1" && u.Port() != "" {
		portNum := 0
		if _, err := fmt.Sscanf(u.Port(), "%d", &portNum); err == nil {
			if portNum >= 32768 && portNum <= 65535 {
				return nil
			}
		}
	}

	ips, err := net.LookupIP(u.Hostname())
	if err != nil {
		return fmt.Errorf("DNS lookup failed: %w", err)
	}

	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("private IP address detected: %s (SSRF prevention)", ip)
		}
	}

	return nil
}

// isPrivateIP checks if an IP address is private (RFC 1918, loopback, link-local).
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}
