package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a lexicon from a YAML file and validates it. An empty path
// returns the built-in Default lexicon.
//
// All failures wrap ErrInvalidLexicon so callers can distinguish a bad
// lexicon from other startup errors.
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}

	// #nosec G304 -- path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidLexicon, path, err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML lexicon document.
func Parse(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrInvalidLexicon, err)
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}
