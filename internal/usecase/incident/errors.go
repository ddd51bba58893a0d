// Package incident serves persisted crime headlines to the API and runs the
// scan → store → notify ingest cycle shared by the worker and the API.
package incident

import "errors"

var (
	// ErrIncidentNotFound is returned by Get when the ID does not exist.
	ErrIncidentNotFound = errors.New("incident not found")

	// ErrInvalidIncidentID is returned by Get for non-positive IDs.
	ErrInvalidIncidentID = errors.New("invalid incident id")
)
