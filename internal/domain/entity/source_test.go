package entity

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSource_PageURLs(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		want []string
	}{
		{
			name: "no pagination",
			src:  Source{ListingURLs: []string{"https://rpp.pe/ultimas-noticias"}},
			want: []string{"https://rpp.pe/ultimas-noticias"},
		},
		{
			name: "pages without format stays single",
			src:  Source{ListingURLs: []string{"https://rpp.pe/ultimas-noticias"}, Pages: 3},
			want: []string{"https://rpp.pe/ultimas-noticias"},
		},
		{
			name: "path pagination",
			src: Source{
				ListingURLs: []string{"https://elcomercio.pe/noticias/robo/", "https://elcomercio.pe/noticias/asaltos/"},
				Pages:       2,
				PageFormat:  "{url}/{page}/",
			},
			want: []string{
				"https://elcomercio.pe/noticias/robo/",
				"https://elcomercio.pe/noticias/robo/2/",
				"https://elcomercio.pe/noticias/asaltos/",
				"https://elcomercio.pe/noticias/asaltos/2/",
			},
		},
		{
			name: "query pagination",
			src: Source{
				ListingURLs: []string{"https://canaln.pe/noticias/policiales"},
				Pages:       3,
				PageFormat:  "{url}?page={page}",
			},
			want: []string{
				"https://canaln.pe/noticias/policiales",
				"https://canaln.pe/noticias/policiales?page=2",
				"https://canaln.pe/noticias/policiales?page=3",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.src.PageURLs()); diff != "" {
				t.Errorf("PageURLs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSource_Validate(t *testing.T) {
	valid := func() Source {
		return Source{
			Name:        "La República",
			BaseURL:     "https://larepublica.pe",
			ListingURLs: []string{"https://larepublica.pe/sociedad"},
		}
	}

	t.Run("valid defaults kind to html", func(t *testing.T) {
		s := valid()
		if err := s.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if s.Kind != SourceKindHTML {
			t.Errorf("Kind = %q, want %q", s.Kind, SourceKindHTML)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Source)
	}{
		{name: "missing name", mutate: func(s *Source) { s.Name = "" }},
		{name: "unknown kind", mutate: func(s *Source) { s.Kind = "json" }},
		{name: "relative base", mutate: func(s *Source) { s.BaseURL = "larepublica.pe" }},
		{name: "no listings", mutate: func(s *Source) { s.ListingURLs = nil }},
		{name: "bad listing", mutate: func(s *Source) { s.ListingURLs = []string{"/sociedad"} }},
		{name: "too many pages", mutate: func(s *Source) { s.Pages = 50; s.PageFormat = "{url}/{page}" }},
		{name: "pages without placeholder", mutate: func(s *Source) { s.Pages = 2; s.PageFormat = "{url}/next" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}

func TestSource_Defaults(t *testing.T) {
	s := Source{}
	if !s.IsEnabled() {
		t.Error("IsEnabled() = false for nil Enabled")
	}
	if s.HeadlineSelector() != DefaultSelector {
		t.Errorf("HeadlineSelector() = %q", s.HeadlineSelector())
	}

	off := false
	s = Source{Enabled: &off, Selector: "article h2"}
	if s.IsEnabled() {
		t.Error("IsEnabled() = true for explicit false")
	}
	if s.HeadlineSelector() != "article h2" {
		t.Errorf("HeadlineSelector() = %q", s.HeadlineSelector())
	}
}
