// Package lexicon holds the keyword, path and district tables the
// classifier matches headlines against.
//
// A Lexicon is plain data. It is loaded once (Default or Load), validated,
// and then shared read-only by every classifier. Swapping the lexicon is the
// way to tune precision and recall; the matching logic does not change.
package lexicon

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"

	"lima-segura/internal/utils/text"
)

// ErrInvalidLexicon is returned (wrapped) when a lexicon cannot be loaded or
// fails validation.
var ErrInvalidLexicon = errors.New("invalid lexicon")

// District is a canonical Lima/Callao district with its alternate spellings
// and map coordinates.
type District struct {
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Lat     float64  `yaml:"lat" json:"lat"`
	Lon     float64  `yaml:"lon" json:"lon"`
}

// Lexicon is the static configuration consumed by the classifier.
type Lexicon struct {
	// CrimeKeywords signal a crime headline. The matched keyword becomes the
	// item category.
	CrimeKeywords []string `yaml:"crime_keywords"`

	// ExclusionKeywords veto a headline even when it also names a crime.
	ExclusionKeywords []string `yaml:"exclusion_keywords"`

	// ExcludedPathFragments disqualify any link containing them.
	ExcludedPathFragments []string `yaml:"excluded_path_fragments"`

	// CrimeSectionFragments mark a listing URL as a crime section.
	CrimeSectionFragments []string `yaml:"crime_section_fragments"`

	Districts []District `yaml:"districts"`
}

// Empty returns a lexicon that matches nothing. Callers fall back to it when
// loading fails so that scans still run and return no items.
func Empty() *Lexicon {
	return &Lexicon{}
}

// DistrictVocabulary returns every canonical name and alias, in table order.
func (l *Lexicon) DistrictVocabulary() []string {
	out := make([]string, 0, len(l.Districts)*2)
	for _, d := range l.Districts {
		out = append(out, d.Name)
		out = append(out, d.Aliases...)
	}
	return out
}

// Canonical resolves a district name or alias to its canonical name.
// Comparison is case- and accent-insensitive.
func (l *Lexicon) Canonical(name string) (string, bool) {
	d, ok := l.district(name)
	if !ok {
		return "", false
	}
	return d.Name, true
}

// Coordinates returns the latitude and longitude of a district, resolving
// aliases first.
func (l *Lexicon) Coordinates(name string) (lat, lon float64, ok bool) {
	d, ok := l.district(name)
	if !ok {
		return 0, 0, false
	}
	return d.Lat, d.Lon, true
}

// District returns the full district record for a name or alias.
func (l *Lexicon) District(name string) (District, bool) {
	return l.district(name)
}

func (l *Lexicon) district(name string) (District, bool) {
	key := strings.TrimSpace(text.Fold(name))
	if key == "" {
		return District{}, false
	}
	for _, d := range l.Districts {
		if text.Fold(d.Name) == key {
			return d, true
		}
		for _, a := range d.Aliases {
			if text.Fold(a) == key {
				return d, true
			}
		}
	}
	return District{}, false
}

// Suggest returns the canonical district whose name or alias is closest to
// name by Jaro-Winkler similarity, with the similarity score. It is used to
// point operators at typos in lexicon files and CLI input.
func (l *Lexicon) Suggest(name string) (string, float64) {
	key := text.Fold(name)
	best, bestScore := "", 0.0
	for _, d := range l.Districts {
		for _, candidate := range append([]string{d.Name}, d.Aliases...) {
			score := matchr.JaroWinkler(key, text.Fold(candidate), false)
			if score > bestScore {
				best, bestScore = d.Name, score
			}
		}
	}
	return best, bestScore
}

// Validate checks the structural invariants the classifier relies on:
// every district has a name and usable coordinates, and no name or alias
// resolves to two different districts.
func (l *Lexicon) Validate() error {
	var errs []error

	if len(l.CrimeKeywords) == 0 {
		errs = append(errs, errors.New("crime_keywords is empty"))
	}
	if len(l.Districts) == 0 {
		errs = append(errs, errors.New("districts is empty"))
	}

	owner := make(map[string]string)
	for i, d := range l.Districts {
		if strings.TrimSpace(d.Name) == "" {
			errs = append(errs, fmt.Errorf("districts[%d]: name is required", i))
			continue
		}
		if !validCoordinates(d.Lat, d.Lon) {
			errs = append(errs, fmt.Errorf("district %q: missing or invalid coordinates (%v, %v)", d.Name, d.Lat, d.Lon))
		}
		for _, n := range append([]string{d.Name}, d.Aliases...) {
			key := strings.TrimSpace(text.Fold(n))
			if key == "" {
				errs = append(errs, fmt.Errorf("district %q: empty alias", d.Name))
				continue
			}
			if prev, dup := owner[key]; dup && prev != d.Name {
				errs = append(errs, fmt.Errorf("alias %q maps to both %q and %q", n, prev, d.Name))
				continue
			}
			owner[key] = d.Name
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidLexicon, errors.Join(errs...))
	}
	return nil
}

func validCoordinates(lat, lon float64) bool {
	if lat == 0 && lon == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
