// Package classify decides whether a scraped headline is Lima/Callao crime
// news and, if so, which district and category it belongs to.
package classify

import (
	"net/url"
	"strings"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/lexicon"
	"lima-segura/internal/observability/metrics"
	"lima-segura/internal/pkg/wordmatch"
	"lima-segura/internal/utils/text"
)

// MinHeadlineRunes is the shortest headline treated as news. Shorter texts
// are menu labels and section names ("Inicio", "Policiales").
const MinHeadlineRunes = 15

// Site is the per-source context a candidate is classified in.
type Site struct {
	Name          string
	BaseURL       string
	ExcludedPaths []string
}

// SiteFromSource builds the classification context of a configured source.
func SiteFromSource(src entity.Source) Site {
	return Site{Name: src.Name, BaseURL: src.BaseURL, ExcludedPaths: src.ExcludedPaths}
}

// Config configures a Classifier.
type Config struct {
	Policy Policy
}

// Classifier applies a lexicon to candidates. It is immutable after New and
// safe for concurrent use by every source adapter.
type Classifier struct {
	lex    *lexicon.Lexicon
	policy Policy

	districts  *wordmatch.Vocabulary
	keywords   *wordmatch.Vocabulary
	exclusions *wordmatch.Vocabulary
}

// New compiles the lexicon vocabularies. A nil lexicon behaves like
// lexicon.Empty and rejects everything.
func New(lex *lexicon.Lexicon, cfg Config) *Classifier {
	if lex == nil {
		lex = lexicon.Empty()
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyStrict
	}
	return &Classifier{
		lex:        lex,
		policy:     cfg.Policy,
		districts:  wordmatch.New(lex.DistrictVocabulary()),
		keywords:   wordmatch.New(lex.CrimeKeywords),
		exclusions: wordmatch.New(lex.ExclusionKeywords),
	}
}

// Policy returns the acceptance policy in use.
func (c *Classifier) Policy() Policy { return c.policy }

// Lexicon returns the lexicon the classifier was built from.
func (c *Classifier) Lexicon() *lexicon.Lexicon { return c.lex }

// Classify runs the decision procedure on one candidate. The first
// disqualifying step wins:
//
//  1. headline shorter than MinHeadlineRunes
//  2. link does not resolve to an absolute http(s) URL
//  3. link path contains an excluded fragment (site or lexicon)
//  4. headline matches an exclusion keyword
//  5. no district (strict policy only)
//  6. no crime keyword and the listing page is not a crime section
//
// A crime keyword always takes precedence over the crime-section fallback.
// Classify never fails; malformed input is a rejection.
func (c *Classifier) Classify(cand entity.Candidate, site Site) (entity.ClassifiedItem, Rejection) {
	item, reason := c.classify(cand, site)
	metrics.RecordClassification(reason.Outcome())
	return item, reason
}

func (c *Classifier) classify(cand entity.Candidate, site Site) (entity.ClassifiedItem, Rejection) {
	headline := text.CollapseSpace(cand.Headline)
	if text.CountRunes(headline) < MinHeadlineRunes {
		return entity.ClassifiedItem{}, RejectShortHeadline
	}

	if cand.RawLink == "" || hasForeignScheme(cand.RawLink) {
		return entity.ClassifiedItem{}, RejectInvalidLink
	}
	link := ResolveLink(cand.RawLink, site.BaseURL)
	if entity.ValidateURL(link) != nil {
		return entity.ClassifiedItem{}, RejectInvalidLink
	}
	u, err := url.Parse(link)
	if err != nil {
		return entity.ClassifiedItem{}, RejectInvalidLink
	}

	path := strings.ToLower(u.Path)
	if containsAny(path, site.ExcludedPaths) || containsAny(path, c.lex.ExcludedPathFragments) {
		return entity.ClassifiedItem{}, RejectExcludedPath
	}

	if _, vetoed := c.exclusions.Find(headline); vetoed {
		return entity.ClassifiedItem{}, RejectExcludedKeyword
	}

	district := entity.DistrictUnspecified
	if match, ok := c.districts.Find(headline); ok {
		if canonical, ok := c.lex.Canonical(match); ok {
			district = canonical
		}
	}
	if district == entity.DistrictUnspecified && c.policy != PolicyLenient {
		return entity.ClassifiedItem{}, RejectNoDistrict
	}

	var category string
	if keyword, ok := c.keywords.Find(headline); ok {
		category = strings.ToUpper(keyword)
	} else if c.IsCrimeSection(cand.ListingURL) {
		category = entity.CategoryCrimeSection
	} else {
		return entity.ClassifiedItem{}, RejectNoCategory
	}

	return entity.ClassifiedItem{
		Headline: headline,
		Link:     link,
		Source:   site.Name,
		District: district,
		Category: category,
	}, RejectNone
}

// IsCrimeSection reports whether a listing URL's path names a crime section.
func (c *Classifier) IsCrimeSection(listingURL string) bool {
	if listingURL == "" {
		return false
	}
	u, err := url.Parse(listingURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return containsAny(path, c.lex.CrimeSectionFragments)
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// hasForeignScheme reports whether raw carries a non-http scheme such as
// mailto: or javascript:, which must not be glued onto the base URL.
func hasForeignScheme(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return true
	}
	return u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https"
}
