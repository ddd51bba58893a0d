package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/infra/export"
	"lima-segura/internal/lexicon"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LEXICON_PATH", "")
	t.Setenv("SOURCES_PATH", "")

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestClassify_Accepted(t *testing.T) {
	out, err := execute(t, "classify", "Robo a mano armada en Miraflores deja un herido")
	require.NoError(t, err)
	assert.Contains(t, out, "MIRAFLORES")
	assert.Contains(t, out, "ROBO")
	assert.Contains(t, out, "https://example.pe/noticia")
}

func TestClassify_Rejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "no district under strict policy",
			args: []string{"classify", "Robo a mano armada en una avenida de la ciudad"},
			want: "rejected: no_district",
		},
		{
			name: "short headline",
			args: []string{"classify", "Robo"},
			want: "rejected: short_headline",
		},
		{
			name: "excluded keyword",
			args: []string{"classify", "Municipalidad de Miraflores anuncia operativo contra el robo"},
			want: "rejected: excluded_keyword",
		},
		{
			name: "excluded path",
			args: []string{"classify", "Robo a mano armada en Miraflores deja un herido", "--link", "/deportes/nota"},
			want: "rejected: excluded_path",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestClassify_LenientAndCrimeSection(t *testing.T) {
	out, err := execute(t, "classify", "Robo a mano armada en una avenida de la ciudad", "--lenient")
	require.NoError(t, err)
	assert.Contains(t, out, entity.DistrictUnspecified)

	out, err = execute(t, "classify", "Vecinos de Miraflores denuncian hechos en la cuadra 5",
		"--listing", "https://example.pe/policiales/")
	require.NoError(t, err)
	assert.Contains(t, out, entity.CategoryCrimeSection)
}

func TestClassify_InvalidListing(t *testing.T) {
	_, err := execute(t, "classify", "Robo a mano armada en Miraflores deja un herido", "--listing", "not-a-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--listing")
}

func TestLexiconCheck(t *testing.T) {
	out, err := execute(t, "lexicon", "check", "SJL", "miraflores")
	require.NoError(t, err)
	assert.Contains(t, out, "SJL -> SAN JUAN DE LURIGANCHO")
	assert.Contains(t, out, "miraflores -> MIRAFLORES")
	assert.Contains(t, out, "lexicon OK")
}

func TestLexiconCheck_SuggestsOrphans(t *testing.T) {
	out, err := execute(t, "lexicon", "check", "Mirafloras", "Springfield")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 names")
	assert.Contains(t, out, `did you mean "MIRAFLORES"?`)
	assert.Contains(t, out, "Springfield: unknown district\n")
}

func TestLexiconCheck_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crime_keywords: []\ndistricts: []\n"), 0o600))

	_, err := execute(t, "lexicon", "check", "--file", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, lexicon.ErrInvalidLexicon)
}

func TestCSVImport_DeduplicatesLinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	content := "Titular,Enlace,Fuente,Distrito,Categoría\n" +
		"Asalto en Miraflores,https://a.pe/1,RPP,MIRAFLORES,ASALTO\n" +
		"Asalto en Miraflores (act.),https://a.pe/1,RPP,MIRAFLORES,ASALTO\n" +
		"Robo en Breña,https://a.pe/2,Exitosa,BREÑA,ROBO\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := execute(t, "csv", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3 rows, 2 distinct links")
	assert.NotContains(t, out, "(act.)")
}

func TestCSVImport_MissingFile(t *testing.T) {
	_, err := execute(t, "csv", "import", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestRun_UnknownSource(t *testing.T) {
	_, err := execute(t, "run", "--source", "NoSuchSource")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSuchSource")
}

func writeInvalidLexicon(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crime_keywords: []\ndistricts: []\n"), 0o600))
	return path
}

func TestRun_InvalidLexiconYieldsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<h2><a href="/robo-surco">Robo en Surco deja dos heridos</a></h2>`)
	}))
	defer server.Close()

	sourcesPath := filepath.Join(t.TempDir(), "sources.yaml")
	doc := fmt.Sprintf("sources:\n  - name: Local\n    base_url: %s\n    listing_urls: [%s/policiales/]\n",
		server.URL, server.URL)
	require.NoError(t, os.WriteFile(sourcesPath, []byte(doc), 0o600))

	out, err := execute(t, "run", "--lexicon", writeInvalidLexicon(t), "--sources", sourcesPath, "--json")
	require.NoError(t, err)

	var got runOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Empty(t, got.Items)
	assert.Equal(t, 1, got.Stats.Sources)
	assert.Zero(t, got.Stats.Failed)
}

func TestClassify_InvalidLexiconRejects(t *testing.T) {
	out, err := execute(t, "classify", "Robo a mano armada en Miraflores deja un herido",
		"--lexicon", writeInvalidLexicon(t))
	require.NoError(t, err)
	assert.Contains(t, out, "rejected: no_district")
}

func TestHistoryCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	h, err := loadHistory(path)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Len(), "missing file starts empty")

	h.Merge([]entity.ClassifiedItem{
		{Headline: "Asalto en Miraflores", Link: "https://a.pe/1", Source: "RPP", District: "MIRAFLORES", Category: "ASALTO"},
	})
	require.NoError(t, saveHistory(path, h))

	h, err = loadHistory(path)
	require.NoError(t, err)
	added := h.Merge([]entity.ClassifiedItem{
		{Headline: "Asalto en Miraflores (act.)", Link: "https://a.pe/1", Source: "RPP", District: "MIRAFLORES", Category: "ASALTO"},
		{Headline: "Robo en Breña", Link: "https://a.pe/2", Source: "Exitosa", District: "BREÑA", Category: "ROBO"},
	})
	require.Len(t, added, 1)
	require.NoError(t, saveHistory(path, h))

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	items, err := export.ReadCSV(fh)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Asalto en Miraflores", items[0].Headline)
	assert.Equal(t, "https://a.pe/2", items[1].Link)
}
