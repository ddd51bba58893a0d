package entity

import "time"

const (
	// DistrictUnspecified is assigned by the lenient policy when a headline
	// names no known district. Downstream consumers depend on this exact value.
	DistrictUnspecified = "unspecified"

	// CategoryCrimeSection is the fallback category for headlines taken from a
	// crime-section listing page that matched no crime keyword.
	CategoryCrimeSection = "Policiales/Sucesos"
)

// Candidate is an unclassified headline/link pair extracted from a listing
// page. ListingURL is the page the pair was found on.
type Candidate struct {
	Headline   string
	RawLink    string
	Source     string
	ListingURL string
}

// ClassifiedItem is an accepted, categorized crime headline.
//
// Items are built only by the classifier and are never modified afterwards;
// a re-scan produces new values that are merged by Link.
type ClassifiedItem struct {
	Headline string `json:"headline"`
	Link     string `json:"link"`
	Source   string `json:"source"`
	District string `json:"district"`
	Category string `json:"category"`
}

// Incident is a persisted ClassifiedItem.
type Incident struct {
	ID int64 `json:"id"`
	ClassifiedItem
	FirstSeenAt time.Time `json:"first_seen_at"`
}

// LabelCount is one bucket of an aggregate count.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// DistrictCount is a per-district incident count with map coordinates.
// Lat and Lon are zero for DistrictUnspecified.
type DistrictCount struct {
	District string  `json:"district"`
	Count    int64   `json:"count"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// Summary aggregates persisted incidents for dashboards and maps.
type Summary struct {
	Total      int64           `json:"total"`
	ByDistrict []DistrictCount `json:"by_district"`
	ByCategory []LabelCount    `json:"by_category"`
	BySource   []LabelCount    `json:"by_source"`
}
