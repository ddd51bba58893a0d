// Package bootstrap assembles the scan pipeline, database and notification
// components shared by the api, worker and scan commands.
package bootstrap

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"lima-segura/internal/config"
	"lima-segura/internal/domain/entity"
	"lima-segura/internal/infra/scraper"
	"lima-segura/internal/lexicon"
	"lima-segura/internal/usecase/classify"
	"lima-segura/internal/usecase/scan"
)

// ScanOptions overrides the environment for one assembly.
type ScanOptions struct {
	// LexiconPath and SourcesPath default to LEXICON_PATH and SOURCES_PATH.
	LexiconPath string
	SourcesPath string

	// Policy overrides CLASSIFIER_POLICY when non-empty.
	Policy classify.Policy

	// OnlySource restricts the pipeline to one source by name.
	OnlySource string

	// HTTPClient replaces the default scraping client.
	HTTPClient *http.Client
}

// ScanComponents is an assembled scan pipeline.
type ScanComponents struct {
	Lexicon    *lexicon.Lexicon
	Sources    []entity.Source
	Classifier *classify.Classifier
	Registry   *scraper.Registry
	Scanner    *scan.Service
	Config     scan.Config
}

// NewScanComponents loads the lexicon and sources and builds one adapter per
// enabled source.
//
// A lexicon that cannot be loaded or validated is logged at ERROR level and
// replaced by an empty one, so the pipeline keeps running and yields no
// items. Invalid sources are a hard error.
func NewScanComponents(logger *slog.Logger, opts ScanOptions) (*ScanComponents, error) {
	cfg := scan.LoadConfigFromEnv(logger)
	if opts.Policy != "" {
		cfg.Policy = opts.Policy
	}

	lex := LoadLexicon(logger, firstNonEmpty(opts.LexiconPath, os.Getenv("LEXICON_PATH")))

	sources, err := LoadSources(logger, firstNonEmpty(opts.SourcesPath, os.Getenv("SOURCES_PATH")))
	if err != nil {
		return nil, err
	}
	if opts.OnlySource != "" {
		sources, err = filterSource(sources, opts.OnlySource)
		if err != nil {
			return nil, err
		}
	}

	classifier := classify.New(lex, classify.Config{Policy: cfg.Policy})

	client := opts.HTTPClient
	if client == nil {
		client = NewScraperHTTPClient()
	}
	registry, err := scraper.NewRegistry(client, classifier, sources, scraper.RegistryConfig{
		PageInterval: cfg.PageInterval,
		PageTimeout:  scraper.DefaultPageTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("build source adapters: %w", err)
	}

	adapters := make([]scan.Adapter, 0, len(registry.Adapters()))
	for _, a := range registry.Adapters() {
		adapters = append(adapters, a)
	}
	scanner, err := scan.NewService(adapters, cfg)
	if err != nil {
		return nil, fmt.Errorf("build scan service: %w", err)
	}

	logger.Info("scan pipeline assembled",
		slog.Int("sources", len(adapters)),
		slog.String("policy", string(cfg.Policy)),
		slog.Int("districts", len(lex.Districts)),
		slog.Int("max_concurrent", cfg.MaxConcurrent))

	return &ScanComponents{
		Lexicon:    lex,
		Sources:    sources,
		Classifier: classifier,
		Registry:   registry,
		Scanner:    scanner,
		Config:     cfg,
	}, nil
}

// LoadLexicon returns the built-in lexicon when path is empty. Load and
// validation failures fall back to lexicon.Empty.
func LoadLexicon(logger *slog.Logger, path string) *lexicon.Lexicon {
	if path == "" {
		return lexicon.Default()
	}
	lex, err := lexicon.Load(path)
	if err != nil {
		logger.Error("lexicon unusable, running with an empty lexicon",
			slog.String("path", path),
			slog.Any("error", err))
		return lexicon.Empty()
	}
	logger.Info("lexicon loaded", slog.String("path", path), slog.Int("districts", len(lex.Districts)))
	return lex
}

// LoadSources returns the built-in sources when path is empty.
func LoadSources(logger *slog.Logger, path string) ([]entity.Source, error) {
	if path == "" {
		return config.DefaultSources(), nil
	}
	sources, err := config.LoadSources(path)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	logger.Info("sources loaded", slog.String("path", path), slog.Int("count", len(sources)))
	return sources, nil
}

// NewScraperHTTPClient returns the client used for listing pages.
func NewScraperHTTPClient() *http.Client {
	return &http.Client{
		Timeout: scraper.DefaultPageTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

func filterSource(sources []entity.Source, name string) ([]entity.Source, error) {
	for _, s := range sources {
		if s.Name == name {
			enabled := true
			s.Enabled = &enabled
			return []entity.Source{s}, nil
		}
	}
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name
	}
	return nil, fmt.Errorf("unknown source %q (known: %v)", name, names)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
