package lexicon_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lima-segura/internal/lexicon"
	"lima-segura/internal/pkg/wordmatch"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, lexicon.Default().Validate())
}

func TestDefault_ReturnsCopy(t *testing.T) {
	a := lexicon.Default()
	a.Districts[0].Name = "CHANGED"
	a.CrimeKeywords[0] = "changed"

	b := lexicon.Default()
	assert.Equal(t, "ANCON", b.Districts[0].Name)
	assert.NotEqual(t, "changed", b.CrimeKeywords[0])
}

// Every entry the matcher can return for the district vocabulary must
// resolve to a canonical district with coordinates.
func TestDefault_CoordinateCompleteness(t *testing.T) {
	lex := lexicon.Default()
	for _, entry := range lex.DistrictVocabulary() {
		canonical, ok := lex.Canonical(entry)
		require.True(t, ok, "entry %q has no canonical district", entry)

		lat, lon, ok := lex.Coordinates(canonical)
		require.True(t, ok, "district %q has no coordinates", canonical)
		assert.Less(t, lat, 0.0)
		assert.Less(t, lon, 0.0)
	}
}

func TestCanonical(t *testing.T) {
	lex := lexicon.Default()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "SJL", want: "SAN JUAN DE LURIGANCHO", wantOK: true},
		{in: "sjm", want: "SAN JUAN DE MIRAFLORES", wantOK: true},
		{in: "Surco", want: "SANTIAGO DE SURCO", wantOK: true},
		{in: "Breña", want: "BREÑA", wantOK: true},
		{in: "brena", want: "BREÑA", wantOK: true},
		{in: "Rímac", want: "RIMAC", wantOK: true},
		{in: "Lima", want: "CERCADO DE LIMA", wantOK: true},
		{in: "Chosica", want: "LURIGANCHO", wantOK: true},
		{in: "Arequipa", wantOK: false},
		{in: "  ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := lex.Canonical(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggest(t *testing.T) {
	lex := lexicon.Default()

	name, score := lex.Suggest("SURQUILO")
	assert.Equal(t, "SURQUILLO", name)
	assert.Greater(t, score, 0.9)

	name, _ = lex.Suggest("san juan lurigancho")
	assert.Equal(t, "SAN JUAN DE LURIGANCHO", name)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		lex     lexicon.Lexicon
		wantErr bool
	}{
		{
			name: "valid",
			lex: lexicon.Lexicon{
				CrimeKeywords: []string{"robo"},
				Districts:     []lexicon.District{{Name: "ATE", Lat: -12.02, Lon: -76.92}},
			},
		},
		{
			name:    "empty",
			lex:     lexicon.Lexicon{},
			wantErr: true,
		},
		{
			name: "missing coordinates",
			lex: lexicon.Lexicon{
				CrimeKeywords: []string{"robo"},
				Districts:     []lexicon.District{{Name: "ATE"}},
			},
			wantErr: true,
		},
		{
			name: "out of range coordinates",
			lex: lexicon.Lexicon{
				CrimeKeywords: []string{"robo"},
				Districts:     []lexicon.District{{Name: "ATE", Lat: -120, Lon: -76.92}},
			},
			wantErr: true,
		},
		{
			name: "alias shared by two districts",
			lex: lexicon.Lexicon{
				CrimeKeywords: []string{"robo"},
				Districts: []lexicon.District{
					{Name: "SANTIAGO DE SURCO", Aliases: []string{"SURCO"}, Lat: -12.14, Lon: -76.97},
					{Name: "SURCO VIEJO", Aliases: []string{"surco"}, Lat: -12.15, Lon: -77.01},
				},
			},
			wantErr: true,
		},
		{
			name: "blank district name",
			lex: lexicon.Lexicon{
				CrimeKeywords: []string{"robo"},
				Districts:     []lexicon.District{{Name: " ", Lat: -12, Lon: -77}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lex.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, lexicon.ErrInvalidLexicon))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "lexicon.yaml")
	require.NoError(t, os.WriteFile(valid, []byte(`
crime_keywords: [robo, asalto]
exclusion_keywords: [congreso]
excluded_path_fragments: [/deportes/]
crime_section_fragments: [/policiales/]
districts:
  - name: SAN JUAN DE LURIGANCHO
    aliases: [SJL]
    lat: -11.9764
    lon: -77.0002
`), 0o600))

	lex, err := lexicon.Load(valid)
	require.NoError(t, err)
	assert.Equal(t, []string{"robo", "asalto"}, lex.CrimeKeywords)
	assert.Equal(t, []string{"SAN JUAN DE LURIGANCHO", "SJL"}, lex.DistrictVocabulary())

	got, ok := wordmatch.FindMatch("Asaltan a escolares en SJL", lex.DistrictVocabulary())
	require.True(t, ok)
	canonical, _ := lex.Canonical(got)
	assert.Equal(t, "SAN JUAN DE LURIGANCHO", canonical)

	t.Run("empty path uses default", func(t *testing.T) {
		lex, err := lexicon.Load("")
		require.NoError(t, err)
		assert.NotEmpty(t, lex.Districts)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := lexicon.Load(filepath.Join(dir, "nope.yaml"))
		assert.ErrorIs(t, err, lexicon.ErrInvalidLexicon)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("districts: [::"), 0o600))
		_, err := lexicon.Load(bad)
		assert.ErrorIs(t, err, lexicon.ErrInvalidLexicon)
	})

	t.Run("district without coordinates", func(t *testing.T) {
		orphan := filepath.Join(dir, "orphan.yaml")
		require.NoError(t, os.WriteFile(orphan, []byte("crime_keywords: [robo]\ndistricts:\n  - name: COMAS\n"), 0o600))
		_, err := lexicon.Load(orphan)
		assert.ErrorIs(t, err, lexicon.ErrInvalidLexicon)
	})
}
