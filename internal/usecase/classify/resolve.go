package classify

import "strings"

// ResolveLink turns a scraped href into an absolute URL.
//
// A raw link that already starts with "http" is returned unchanged; anything
// else is appended to base. No validation or network access happens here;
// Classify rejects results that are not absolute http(s) URLs.
func ResolveLink(raw, base string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(raw), "http") {
		return raw
	}
	return base + raw
}
