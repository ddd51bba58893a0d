package classify

import (
	"fmt"
	"strings"
)

// Policy decides what happens to a crime headline that names no district.
type Policy string

const (
	// PolicyStrict rejects headlines without an identifiable district.
	PolicyStrict Policy = "strict"

	// PolicyLenient accepts them with entity.DistrictUnspecified.
	PolicyLenient Policy = "lenient"
)

// ParsePolicy parses a policy name. The empty string yields PolicyStrict.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyLenient:
		return PolicyLenient, nil
	default:
		return PolicyStrict, fmt.Errorf("unknown classifier policy %q (must be %s or %s)", s, PolicyStrict, PolicyLenient)
	}
}

// Rejection is the reason a candidate was not accepted.
type Rejection string

const (
	RejectNone            Rejection = ""
	RejectShortHeadline   Rejection = "short_headline"
	RejectInvalidLink     Rejection = "invalid_link"
	RejectExcludedPath    Rejection = "excluded_path"
	RejectExcludedKeyword Rejection = "excluded_keyword"
	RejectNoDistrict      Rejection = "no_district"
	RejectNoCategory      Rejection = "no_category"
)

// Outcome returns the metrics label for the decision.
func (r Rejection) Outcome() string {
	if r == RejectNone {
		return "accepted"
	}
	return string(r)
}
