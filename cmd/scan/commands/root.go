// Package commands implements the scan CLI: one-off scans, classifier dry
// runs, lexicon validation and CSV history import.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"lima-segura/internal/bootstrap"
	"lima-segura/internal/lexicon"
	"lima-segura/internal/observability/logging"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	lexiconPath string
	logLevel    string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "scan",
		Short:         "scan collects Lima and Callao crime headlines from news sites.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logging.NewTextLogger(cmd.ErrOrStderr(), logging.ParseLevel(g.logLevel)))
		},
	}
	root.PersistentFlags().StringVar(&g.lexiconPath, "lexicon", os.Getenv("LEXICON_PATH"), "Lexicon YAML file (built-in lexicon when empty).")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level: debug, info, warn or error.")

	root.AddCommand(
		newRunCmd(g),
		newClassifyCmd(g),
		newLexiconCmd(g),
		newCSVCmd(),
	)
	return root
}

// ExecuteContext runs the CLI and exits non-zero on error.
func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadLexicon logs an unusable lexicon file and falls back to an empty
// lexicon, like the worker and API. "lexicon check" is the strict path.
func (g *globalFlags) loadLexicon() *lexicon.Lexicon {
	return bootstrap.LoadLexicon(logger(), g.lexiconPath)
}

func logger() *slog.Logger {
	return logging.WithSource(slog.Default(), "cli")
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}
