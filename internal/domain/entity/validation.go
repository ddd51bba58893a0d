package entity

import "net/url"

// MaxLinkLength caps stored links. Longer hrefs on news sites are tracking
// junk and are rejected rather than truncated.
const MaxLinkLength = 2048

// ValidateURL accepts absolute http(s) URLs with a host. It never touches
// the network.
func ValidateURL(raw string) error {
	switch {
	case raw == "":
		return invalid("url", "URL is required")
	case len(raw) > MaxLinkLength:
		return invalid("url", "url must not exceed %d characters", MaxLinkLength)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return invalid("url", "malformed URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid("url", "scheme %q is not http or https", u.Scheme)
	}
	if u.Hostname() == "" {
		return invalid("url", "URL has no host")
	}
	return nil
}
