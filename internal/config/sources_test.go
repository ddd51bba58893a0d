package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lima-segura/internal/domain/entity"
)

func TestDefaultSources_Valid(t *testing.T) {
	sources := DefaultSources()
	if len(sources) != 7 {
		t.Fatalf("DefaultSources() = %d sources, want 7", len(sources))
	}
	for i := range sources {
		if err := sources[i].Validate(); err != nil {
			t.Errorf("source %q invalid: %v", sources[i].Name, err)
		}
		if len(sources[i].ExcludedPaths) == 0 {
			t.Errorf("source %q has no excluded paths", sources[i].Name)
		}
	}
}

func TestDefaultSources_FirstPageOnly(t *testing.T) {
	for _, src := range DefaultSources() {
		if got := src.PageURLs(); len(got) != len(src.ListingURLs) {
			t.Errorf("source %q scans %d pages for %d listings, want first pages only",
				src.Name, len(got), len(src.ListingURLs))
		}
	}
}

func TestDefaultSources_FreshCopy(t *testing.T) {
	a := DefaultSources()
	a[0].ExcludedPaths[0] = "/changed/"
	if b := DefaultSources(); b[0].ExcludedPaths[0] == "/changed/" {
		t.Error("DefaultSources() shares state between calls")
	}
}

func TestLoadSources_EmptyPathUsesDefaults(t *testing.T) {
	got, err := LoadSources("")
	if err != nil {
		t.Fatalf("LoadSources(\"\") error = %v", err)
	}
	if len(got) != len(DefaultSources()) {
		t.Errorf("LoadSources(\"\") = %d sources, want defaults", len(got))
	}
}

func TestLoadSources_File(t *testing.T) {
	const doc = `
sources:
  - name: RPP
    base_url: https://rpp.pe
    listing_urls: [https://rpp.pe/ultimas-noticias]
  - name: Infobae RSS
    kind: rss
    base_url: https://www.infobae.com
    listing_urls: [https://www.infobae.com/arc/outboundfeeds/rss/]
    enabled: false
  - name: El Comercio
    base_url: https://elcomercio.pe
    listing_urls: [https://elcomercio.pe/noticias/robo/]
    pages: 3
    page_format: "{url}/{page}/"
    selector: "h2 a"
`
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("LoadSources() = %d sources, want 3", len(got))
	}
	if got[0].Kind != entity.SourceKindHTML {
		t.Errorf("kind = %q, want html default", got[0].Kind)
	}
	if got[1].IsEnabled() {
		t.Error("Infobae RSS should be disabled")
	}
	wantPages := []string{
		"https://elcomercio.pe/noticias/robo/",
		"https://elcomercio.pe/noticias/robo/2/",
		"https://elcomercio.pe/noticias/robo/3/",
	}
	pages := got[2].PageURLs()
	if strings.Join(pages, ",") != strings.Join(wantPages, ",") {
		t.Errorf("PageURLs() = %v, want %v", pages, wantPages)
	}
}

func TestParseSources_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"not yaml", "sources: [", "failed to parse"},
		{"empty", "sources: []", "no sources"},
		{"missing base url", "sources:\n  - name: X\n    listing_urls: [https://x.pe/]\n", "base_url"},
		{"bad kind", "sources:\n  - name: X\n    kind: ftp\n    base_url: https://x.pe\n    listing_urls: [https://x.pe/]\n", "kind"},
		{"duplicate", "sources:\n  - name: X\n    base_url: https://x.pe\n    listing_urls: [https://x.pe/]\n  - name: X\n    base_url: https://x.pe\n    listing_urls: [https://x.pe/b]\n", "duplicate"},
		{"pages without placeholder", "sources:\n  - name: X\n    base_url: https://x.pe\n    listing_urls: [https://x.pe/]\n    pages: 2\n", "page_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSources([]byte(tt.doc))
			if err == nil {
				t.Fatal("ParseSources() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadSources_MissingFile(t *testing.T) {
	if _, err := LoadSources(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadSources() error = nil for missing file")
	}
}
