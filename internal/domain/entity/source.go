package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Source kinds.
const (
	SourceKindHTML = "html"
	SourceKindRSS  = "rss"
)

// DefaultSelector picks the headline elements of a listing page.
const DefaultSelector = "h2, h3"

// Source describes one news site: where its listing pages are, how to turn
// relative links into absolute ones, and which sections to ignore.
type Source struct {
	Name    string `yaml:"name" json:"name"`
	Kind    string `yaml:"kind" json:"kind"`
	BaseURL string `yaml:"base_url" json:"base_url"`

	// ListingURLs are scanned in order. For RSS sources they are feed URLs.
	ListingURLs []string `yaml:"listing_urls" json:"listing_urls"`

	// Pages is the number of listing pages to read per listing URL.
	// Page 1 is the listing URL itself; later pages are built from PageFormat.
	Pages int `yaml:"pages,omitempty" json:"pages,omitempty"`

	// PageFormat builds the URL of page n > 1. "{url}" is replaced with the
	// listing URL without its trailing slash and "{page}" with n,
	// e.g. "{url}/{page}/" or "{url}?page={page}".
	PageFormat string `yaml:"page_format,omitempty" json:"page_format,omitempty"`

	Selector      string   `yaml:"selector,omitempty" json:"selector,omitempty"`
	ExcludedPaths []string `yaml:"excluded_paths,omitempty" json:"excluded_paths,omitempty"`

	// Enabled defaults to true when omitted from YAML.
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// IsEnabled reports whether the source should be scanned.
func (s *Source) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// HeadlineSelector returns the configured selector or DefaultSelector.
func (s *Source) HeadlineSelector() string {
	if strings.TrimSpace(s.Selector) == "" {
		return DefaultSelector
	}
	return s.Selector
}

// PageURLs expands ListingURLs with pagination, in scan order.
func (s *Source) PageURLs() []string {
	pages := s.Pages
	if pages < 1 || s.PageFormat == "" {
		pages = 1
	}

	out := make([]string, 0, len(s.ListingURLs)*pages)
	for _, listing := range s.ListingURLs {
		out = append(out, listing)
		for n := 2; n <= pages; n++ {
			u := strings.ReplaceAll(s.PageFormat, "{url}", strings.TrimRight(listing, "/"))
			out = append(out, strings.ReplaceAll(u, "{page}", strconv.Itoa(n)))
		}
	}
	return out
}

// Validate validates the Source entity fields. An empty Kind is treated as
// html.
func (s *Source) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}

	if s.Kind == "" {
		s.Kind = SourceKindHTML
	}
	if s.Kind != SourceKindHTML && s.Kind != SourceKindRSS {
		return &ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("invalid kind %q (must be %s or %s)", s.Kind, SourceKindHTML, SourceKindRSS),
		}
	}

	if err := ValidateURL(s.BaseURL); err != nil {
		return fmt.Errorf("source %q base_url: %w", s.Name, err)
	}

	if len(s.ListingURLs) == 0 {
		return &ValidationError{Field: "listing_urls", Message: fmt.Sprintf("source %q has no listing URLs", s.Name)}
	}
	for _, u := range s.ListingURLs {
		if err := ValidateURL(u); err != nil {
			return fmt.Errorf("source %q listing_urls: %w", s.Name, err)
		}
	}

	if s.Pages < 0 || s.Pages > 20 {
		return &ValidationError{Field: "pages", Message: "pages must be between 0 and 20"}
	}
	if s.Pages > 1 && !strings.Contains(s.PageFormat, "{page}") {
		return &ValidationError{Field: "page_format", Message: "page_format must contain {page} when pages > 1"}
	}

	return nil
}
