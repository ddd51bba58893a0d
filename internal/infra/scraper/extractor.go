package scraper

import (
	"html"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/usecase/classify"
	"lima-segura/internal/utils/text"
)

// strictPolicy strips every tag and drops script/style contents.
var strictPolicy = bluemonday.StrictPolicy()

// ExtractCandidates yields headline/link pairs from the elements matching
// selector (entity.DefaultSelector when empty). For each element the first
// link inside it is used; an element that is itself a link is used directly.
//
// Elements without an href, and texts shorter than
// classify.MinHeadlineRunes, are skipped. No semantic filtering happens here.
func ExtractCandidates(doc *goquery.Document, selector, source, listingURL string) []entity.Candidate {
	if doc == nil {
		return nil
	}
	if strings.TrimSpace(selector) == "" {
		selector = entity.DefaultSelector
	}

	var out []entity.Candidate
	doc.Find(selector).Each(func(i int, heading *goquery.Selection) {
		link := heading
		if goquery.NodeName(heading) != "a" {
			link = heading.Find("a[href]").First()
		}
		if link.Length() == 0 {
			return
		}

		href, ok := link.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" || strings.HasPrefix(href, "#") {
			slog.Debug("skipping headline without link",
				slog.String("source", source),
				slog.Int("index", i))
			return
		}

		headline := plainText(link)
		if headline == "" {
			headline = plainText(heading)
		}
		if text.CountRunes(headline) < classify.MinHeadlineRunes {
			slog.Debug("skipping short headline",
				slog.String("source", source),
				slog.String("text", headline))
			return
		}

		out = append(out, entity.Candidate{
			Headline:   headline,
			RawLink:    href,
			Source:     source,
			ListingURL: listingURL,
		})
	})

	return out
}

// plainText renders the selection's inner HTML as collapsed plain text.
func plainText(s *goquery.Selection) string {
	inner, err := s.Html()
	if err != nil {
		return text.CollapseSpace(s.Text())
	}
	return text.CollapseSpace(html.UnescapeString(strictPolicy.Sanitize(inner)))
}
