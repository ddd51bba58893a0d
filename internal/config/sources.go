// Package config loads the news source list.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"lima-segura/internal/domain/entity"
)

// SourcesFile is the YAML document read from SOURCES_PATH.
type SourcesFile struct {
	Sources []entity.Source `yaml:"sources"`
}

// commonExcludedPaths are site sections never worth scanning.
var commonExcludedPaths = []string{
	"/deportes/", "/politica/", "/espectaculos/", "/economia/",
	"/mundo/", "/tecnologia/", "/clima/",
}

// DefaultSources returns the built-in Lima news sources. Each call returns a
// fresh slice.
//
// Only the first page of each listing is read; it carries the latest stories.
func DefaultSources() []entity.Source {
	src := []entity.Source{
		{
			Name:    "El Comercio",
			BaseURL: "https://elcomercio.pe",
			ListingURLs: []string{
				"https://elcomercio.pe/noticias/delincuencia/",
				"https://elcomercio.pe/noticias/sicariato/",
				"https://elcomercio.pe/noticias/asaltos/",
				"https://elcomercio.pe/noticias/homicidios/",
				"https://elcomercio.pe/noticias/extorsion/",
				"https://elcomercio.pe/noticias/robo/",
			},
		},
		{
			Name:    "Canal N",
			BaseURL: "https://canaln.pe",
			ListingURLs: []string{
				"https://canaln.pe/noticias/policiales",
				"https://canaln.pe/noticias/policia",
				"https://canaln.pe/noticias/inseguridad-ciudadana",
			},
		},
		{
			Name:        "La República",
			BaseURL:     "https://larepublica.pe",
			ListingURLs: []string{"https://larepublica.pe/sociedad"},
		},
		{
			Name:        "Diario Correo",
			BaseURL:     "https://diariocorreo.pe",
			ListingURLs: []string{"https://diariocorreo.pe/peru/"},
		},
		{
			Name:        "Peru21",
			BaseURL:     "https://peru21.pe",
			ListingURLs: []string{"https://peru21.pe/actualidad/"},
			Selector:    "article h2, h2, h3",
		},
		{
			Name:        "RPP",
			BaseURL:     "https://rpp.pe",
			ListingURLs: []string{"https://rpp.pe/ultimas-noticias"},
		},
		{
			Name:        "Infobae",
			BaseURL:     "https://www.infobae.com",
			ListingURLs: []string{"https://www.infobae.com/peru/"},
		},
	}
	for i := range src {
		src[i].Kind = entity.SourceKindHTML
		src[i].ExcludedPaths = append([]string(nil), commonExcludedPaths...)
	}
	return src
}

// LoadSources reads the source list from a YAML file. An empty path yields
// DefaultSources. Every source is validated; all problems are reported
// together.
func LoadSources(path string) ([]entity.Source, error) {
	if path == "" {
		return DefaultSources(), nil
	}

	// #nosec G304 -- path comes from SOURCES_PATH or a CLI flag
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	return ParseSources(data)
}

// ParseSources decodes and validates a sources YAML document.
func ParseSources(data []byte) ([]entity.Source, error) {
	var file SourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, errors.New("sources file lists no sources")
	}

	var errs []error
	names := make(map[string]struct{}, len(file.Sources))
	for i := range file.Sources {
		src := &file.Sources[i]
		if err := src.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("sources[%d]: %w", i, err))
			continue
		}
		if _, dup := names[src.Name]; dup {
			errs = append(errs, fmt.Errorf("sources[%d]: duplicate name %q", i, src.Name))
		}
		names[src.Name] = struct{}{}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("sources validation failed: %w", errors.Join(errs...))
	}

	return file.Sources, nil
}
