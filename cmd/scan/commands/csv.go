package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lima-segura/internal/bootstrap"
	"lima-segura/internal/infra/export"
	"lima-segura/internal/usecase/scan"
)

func newCSVCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "csv",
		Short: "Works with CSV exports.",
	}

	var save bool
	imp := &cobra.Command{
		Use:   "import FILE",
		Short: "Reads an export into the scan history and prints it.",
		Long: `Reads a CSV export, drops repeated links keeping the first one, and
prints the result. With --save the items are also stored in the database
configured by DATABASE_URL or SQLITE_PATH; links already stored are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// #nosec G304 -- path is a command line argument
			fh, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = fh.Close() }()

			rows, err := export.ReadCSV(fh)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			history := scan.NewHistory(rows...)
			items := history.Items()

			out := cmd.OutOrStdout()
			renderItems(out, items)
			fmt.Fprintf(out, "%d rows, %d distinct links\n", len(rows), history.Len())

			if !save {
				return nil
			}
			database, err := bootstrap.SetupDatabase(cmd.Context(), logger())
			if err != nil {
				return err
			}
			defer database.Close(logger())

			inserted, err := database.Repo.SaveNew(cmd.Context(), items)
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}
			logger().Info("csv imported", slog.Int("inserted", len(inserted)), slog.Int("skipped", len(items)-len(inserted)))
			return nil
		},
	}
	imp.Flags().BoolVar(&save, "save", false, "Store the items in the database.")
	root.AddCommand(imp)
	return root
}
