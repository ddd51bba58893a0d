// Package wordmatch finds whole-word occurrences of vocabulary entries in
// free text.
//
// Matching is case- and accent-insensitive: both the text and the entries are
// folded with text.Fold before comparison. An entry only matches when it is
// bounded on both sides by a non-letter, non-digit rune (or the text edge),
// so "surco" never matches inside "resurcollo" and "robo" never matches
// inside "robótica". Entries are tried longest first and the first hit wins,
// so "San Juan de Miraflores" beats "Miraflores".
//
// A single-pass Aho-Corasick automaton over the folded entries acts as a
// prefilter; boundary checks only run for entries that occur as substrings.
package wordmatch

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"lima-segura/internal/utils/text"
)

type entry struct {
	original string
	folded   string
}

// Vocabulary is a precompiled, ordered set of entries. It is safe for
// concurrent use.
type Vocabulary struct {
	entries []entry

	// ahocorasick.Matcher keeps per-call state; Match must be serialized.
	mu        sync.Mutex
	prefilter *ahocorasick.Matcher
}

// New compiles entries into a Vocabulary.
//
// Entries that fold to the empty string are dropped. When two entries fold
// to the same string only the first is kept. The remaining entries are
// ordered by folded rune length, longest first; entries of equal length keep
// their input order.
func New(entries []string) *Vocabulary {
	seen := make(map[string]struct{}, len(entries))
	v := &Vocabulary{entries: make([]entry, 0, len(entries))}

	for _, e := range entries {
		folded := strings.TrimSpace(text.Fold(e))
		if folded == "" {
			continue
		}
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		v.entries = append(v.entries, entry{original: e, folded: folded})
	}

	sort.SliceStable(v.entries, func(i, j int) bool {
		return utf8.RuneCountInString(v.entries[i].folded) > utf8.RuneCountInString(v.entries[j].folded)
	})

	if len(v.entries) > 0 {
		dict := make([]string, len(v.entries))
		for i, e := range v.entries {
			dict[i] = e.folded
		}
		v.prefilter = ahocorasick.NewStringMatcher(dict)
	}

	return v
}

// Find returns the longest entry that occurs in s as a whole word, in its
// original spelling. ok is false when no entry matches.
func (v *Vocabulary) Find(s string) (match string, ok bool) {
	if v == nil || v.prefilter == nil || s == "" {
		return "", false
	}

	folded := text.Fold(s)

	v.mu.Lock()
	hits := v.prefilter.Match([]byte(folded))
	v.mu.Unlock()

	if len(hits) == 0 {
		return "", false
	}

	candidates := make(map[int]struct{}, len(hits))
	for _, h := range hits {
		candidates[h] = struct{}{}
	}

	// entries are sorted longest first, so the first confirmed hit wins.
	for i, e := range v.entries {
		if _, hit := candidates[i]; !hit {
			continue
		}
		if containsWord(folded, e.folded) {
			return e.original, true
		}
	}
	return "", false
}

// Len returns the number of distinct entries.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

// Entries returns the entries in match order.
func (v *Vocabulary) Entries() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.original
	}
	return out
}

// FindMatch is a convenience wrapper that compiles vocabulary and runs Find.
// Callers matching many texts against the same vocabulary should use New
// once and reuse the result.
func FindMatch(s string, vocabulary []string) (string, bool) {
	return New(vocabulary).Find(s)
}

// containsWord reports whether word occurs in s delimited by non-word runes
// or the string edges. Both arguments must already be folded.
func containsWord(s, word string) bool {
	offset := 0
	for offset <= len(s)-len(word) {
		idx := strings.Index(s[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)

		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return true
		}

		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !text.IsWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !text.IsWordRune(r)
}
