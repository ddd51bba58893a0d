package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"lima-segura/internal/bootstrap"
	"lima-segura/internal/domain/entity"
	"lima-segura/internal/infra/export"
	"lima-segura/internal/usecase/classify"
	"lima-segura/internal/usecase/scan"
)

const headlineWidth = 80

type runFlags struct {
	source  string
	sources string
	lenient bool
	csvPath string
	asJSON  bool
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [--source NAME] [--lenient] [--csv FILE] [--json]",
		Short: "Scans every enabled source once and prints the accepted headlines.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, g, f)
		},
	}
	cmd.Flags().StringVar(&f.source, "source", "", "Scan only this source, even if it is disabled.")
	cmd.Flags().StringVar(&f.sources, "sources", os.Getenv("SOURCES_PATH"), "Sources YAML file (built-in sources when empty).")
	cmd.Flags().BoolVar(&f.lenient, "lenient", false, "Accept crime headlines that name no district.")
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "Merge the results into this CSV file; only new headlines are printed.")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print JSON instead of a table.")
	return cmd
}

type runOutput struct {
	Items []entity.ClassifiedItem `json:"items"`
	Stats scan.Stats              `json:"stats"`
}

func runScan(cmd *cobra.Command, g *globalFlags, f *runFlags) error {
	opts := bootstrap.ScanOptions{
		LexiconPath: g.lexiconPath,
		SourcesPath: f.sources,
		OnlySource:  f.source,
	}
	if f.lenient {
		opts.Policy = classify.PolicyLenient
	}
	comps, err := bootstrap.NewScanComponents(logger(), opts)
	if err != nil {
		return err
	}

	history, err := loadHistory(f.csvPath)
	if err != nil {
		return err
	}
	items, stats := comps.Scanner.ScanInto(cmd.Context(), history)
	if items == nil {
		items = []entity.ClassifiedItem{}
	}

	if f.csvPath != "" {
		if err := saveHistory(f.csvPath, history); err != nil {
			return err
		}
		logger().Info("csv updated",
			slog.String("file", f.csvPath),
			slog.Int("added", len(items)),
			slog.Int("total", history.Len()))
	}

	out := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runOutput{Items: items, Stats: stats})
	}
	renderItems(out, items)
	renderStats(out, stats)
	return nil
}

// loadHistory reads the CSV at path into a History. An empty path or a
// missing file gives an empty History.
func loadHistory(path string) (*scan.History, error) {
	if path == "" {
		return scan.NewHistory(), nil
	}
	// #nosec G304 -- path is a command line argument
	fh, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return scan.NewHistory(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = fh.Close() }()

	existing, err := export.ReadCSV(fh)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return scan.NewHistory(existing...), nil
}

// saveHistory rewrites path with every item in h.
func saveHistory(path string, h *scan.History) error {
	// #nosec G304 -- path is a command line argument
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteCSV(fh, h.Items()); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func renderItems(out io.Writer, items []entity.ClassifiedItem) {
	t := newTable(out)
	t.AppendHeader(table.Row{"#", "Distrito", "Categoría", "Fuente", "Titular", "Enlace"})
	for i, it := range items {
		t.AppendRow(table.Row{i + 1, it.District, it.Category, it.Source, it.Headline, it.Link})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, WidthMax: headlineWidth, WidthMaxEnforcer: text.WrapSoft},
	})
	t.AppendFooter(table.Row{"", "", "", "Total", len(items), ""})
	t.Render()
}

func renderStats(out io.Writer, stats scan.Stats) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Fuente", "Items", "Duración", "Error"})
	for _, s := range stats.PerSource {
		t.AppendRow(table.Row{s.Source, s.Items, s.Duration.Round(time.Millisecond).String(), s.Error})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d fuentes, %d con error, %d parciales", stats.Sources, stats.Failed, stats.Partial),
		stats.Found,
		stats.Duration.Round(time.Millisecond).String(),
		fmt.Sprintf("%d duplicados", stats.Duplicates),
	})
	t.Render()
}
