package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"lima-segura/internal/lexicon"
)

// suggestThreshold is the Jaro-Winkler score above which a suggestion is shown.
const suggestThreshold = 0.85

func newLexiconCmd(g *globalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "lexicon",
		Short: "Inspects classifier lexicons.",
	}

	var file string
	check := &cobra.Command{
		Use:   "check [--file PATH] [NAME...]",
		Short: "Validates a lexicon and resolves district names against it.",
		Long: `Validates a lexicon file and prints its districts.

Every NAME given is resolved to its canonical district. Names that do not
resolve are reported with the closest district, if any is close enough.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := file
			if path == "" {
				path = g.lexiconPath
			}
			lex, err := lexicon.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			t := newTable(out)
			t.AppendHeader(table.Row{"Distrito", "Alias", "Lat", "Lon"})
			for _, d := range lex.Districts {
				t.AppendRow(table.Row{d.Name, strings.Join(d.Aliases, ", "), d.Lat, d.Lon})
			}
			t.AppendFooter(table.Row{
				fmt.Sprintf("%d distritos", len(lex.Districts)),
				fmt.Sprintf("%d palabras clave", len(lex.CrimeKeywords)),
				"", "",
			})
			t.Render()

			orphans := 0
			for _, name := range args {
				if canonical, ok := lex.Canonical(name); ok {
					fmt.Fprintf(out, "%s -> %s\n", name, canonical)
					continue
				}
				orphans++
				if best, score := lex.Suggest(name); score >= suggestThreshold {
					fmt.Fprintf(out, "%s: unknown district, did you mean %q? (%.2f)\n", name, best, score)
				} else {
					fmt.Fprintf(out, "%s: unknown district\n", name)
				}
			}
			if orphans > 0 {
				return fmt.Errorf("%d of %d names are not in the lexicon", orphans, len(args))
			}
			fmt.Fprintln(out, "lexicon OK")
			return nil
		},
	}
	check.Flags().StringVar(&file, "file", "", "Lexicon YAML file (defaults to --lexicon).")
	root.AddCommand(check)
	return root
}
