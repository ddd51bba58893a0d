package commands

import (
	"fmt"
	"net/url"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/usecase/classify"
)

type classifyFlags struct {
	listing string
	link    string
	source  string
	lenient bool
}

func newClassifyCmd(g *globalFlags) *cobra.Command {
	f := &classifyFlags{}
	cmd := &cobra.Command{
		Use:   `classify "<headline>" [--listing URL]`,
		Short: "Runs the classifier on one headline and explains the decision.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lex := g.loadLexicon()
			policy := classify.PolicyStrict
			if f.lenient {
				policy = classify.PolicyLenient
			}
			site, err := cliSite(f.source, f.listing)
			if err != nil {
				return err
			}

			c := classify.New(lex, classify.Config{Policy: policy})
			item, reason := c.Classify(entity.Candidate{
				Headline:   args[0],
				RawLink:    f.link,
				Source:     site.Name,
				ListingURL: f.listing,
			}, site)

			out := cmd.OutOrStdout()
			if reason != classify.RejectNone {
				_, err := fmt.Fprintf(out, "rejected: %s\n", reason)
				return err
			}
			t := newTable(out)
			t.AppendRows([]table.Row{
				{"Titular", item.Headline},
				{"Enlace", item.Link},
				{"Fuente", item.Source},
				{"Distrito", item.District},
				{"Categoría", item.Category},
			})
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&f.listing, "listing", "https://example.pe/", "Listing page the headline was found on.")
	cmd.Flags().StringVar(&f.link, "link", "/noticia", "Headline link, relative to the listing site.")
	cmd.Flags().StringVar(&f.source, "source", "cli", "Source name recorded on the item.")
	cmd.Flags().BoolVar(&f.lenient, "lenient", false, "Accept crime headlines that name no district.")
	return cmd
}

// cliSite derives the base URL from the listing page.
func cliSite(name, listing string) (classify.Site, error) {
	u, err := url.Parse(listing)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return classify.Site{}, fmt.Errorf("invalid --listing %q: must be an absolute URL", listing)
	}
	return classify.Site{Name: name, BaseURL: u.Scheme + "://" + u.Host}, nil
}
