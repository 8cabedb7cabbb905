// Package offer scrapes a job posting out of the current page so the
// companion application can store it alongside the user's applications.
package offer

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

// descriptionCap bounds the scraped body text; job boards routinely embed
// entire SPA bundles worth of text nodes.
const descriptionCap = 10000

// Scraper extracts a best-effort JobOffer from a page snapshot.
type Scraper struct {
	logger *zap.Logger
}

func NewScraper(logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{logger: logger.Named("offer")}
}

// Scrape reads the page once and assembles the offer. It never fails on
// missing metadata; absent pieces stay empty.
func (s *Scraper) Scrape(ctx context.Context, page schemas.Page) (*schemas.JobOffer, error) {
	snapshot, err := page.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := htmlquery.Parse(snapshot)
	if err != nil {
		return nil, err
	}

	offer := &schemas.JobOffer{
		URL:         page.URL(),
		Title:       sniffTitle(doc),
		Description: sniffDescription(doc),
		Company:     sniffCompany(doc),
	}
	s.logger.Debug("Scraped job offer",
		zap.String("url", offer.URL),
		zap.String("title", offer.Title),
		zap.Int("description_len", len(offer.Description)))
	return offer, nil
}

// sniffTitle prefers the page's main heading, then Open Graph metadata, then
// the document title.
func sniffTitle(doc *html.Node) string {
	if h1 := htmlquery.FindOne(doc, "//h1"); h1 != nil {
		if t := collapse(htmlquery.InnerText(h1)); t != "" {
			return t
		}
	}
	if og := metaContent(doc, "//meta[@property='og:title']"); og != "" {
		return og
	}
	if title := htmlquery.FindOne(doc, "//title"); title != nil {
		return collapse(htmlquery.InnerText(title))
	}
	return ""
}

func sniffDescription(doc *html.Node) string {
	body := htmlquery.FindOne(doc, "//body")
	if body == nil {
		return ""
	}
	text := collapse(htmlquery.InnerText(body))
	if len(text) > descriptionCap {
		cut := descriptionCap
		// Back up to a rune boundary so the cap never splits a character.
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

func sniffCompany(doc *html.Node) string {
	if site := metaContent(doc, "//meta[@property='og:site_name']"); site != "" {
		return site
	}
	return metaContent(doc, "//meta[@name='author']")
}

func metaContent(doc *html.Node, xpath string) string {
	node := htmlquery.FindOne(doc, xpath)
	if node == nil {
		return ""
	}
	return collapse(htmlquery.SelectAttr(node, "content"))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
