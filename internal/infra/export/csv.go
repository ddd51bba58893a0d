// Package export reads and writes classified items as CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/utils/text"
)

// Header is the column order written by WriteCSV.
var Header = []string{"Titular", "Enlace", "Fuente", "Distrito", "Categoría"}

// ErrMissingColumn is returned when a CSV lacks a required column.
var ErrMissingColumn = errors.New("export: missing required column")

// column aliases accepted by ReadCSV, keyed by folded header name.
var columnAliases = map[string]string{
	"titular":   "headline",
	"titulo":    "headline",
	"enlace":    "link",
	"link":      "link",
	"fuente":    "source",
	"distrito":  "district",
	"categoria": "category",
}

// WriteCSV writes items with a header row.
func WriteCSV(w io.Writer, items []entity.ClassifiedItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("WriteCSV: header: %w", err)
	}
	for _, it := range items {
		if err := cw.Write([]string{it.Headline, it.Link, it.Source, it.District, it.Category}); err != nil {
			return fmt.Errorf("WriteCSV: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads items written by WriteCSV or by older exports that use the
// Titulo/Link/Fuente columns. Headline, link and source are required;
// Distrito and Categoría are optional. A missing district reads as
// entity.DistrictUnspecified and a missing category as "".
//
// Rows with an empty link are skipped. Duplicated links are kept; callers
// merge through scan.History.
func ReadCSV(r io.Reader) ([]entity.ClassifiedItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("ReadCSV: header: %w", err)
	}

	idx := make(map[string]int)
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		if field, ok := columnAliases[text.Fold(strings.TrimSpace(name))]; ok {
			if _, dup := idx[field]; !dup {
				idx[field] = i
			}
		}
	}
	for _, required := range []string{"headline", "link", "source"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("ReadCSV: %w: %s", ErrMissingColumn, required)
		}
	}

	get := func(rec []string, field string) string {
		i, ok := idx[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var items []entity.ClassifiedItem
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ReadCSV: line %d: %w", line, err)
		}

		it := entity.ClassifiedItem{
			Headline: get(rec, "headline"),
			Link:     get(rec, "link"),
			Source:   get(rec, "source"),
			District: get(rec, "district"),
			Category: get(rec, "category"),
		}
		if it.Link == "" {
			continue
		}
		if it.District == "" {
			it.District = entity.DistrictUnspecified
		}
		items = append(items, it)
	}
	return items, nil
}
