package offer

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/internal/mocks"
)

func TestScrapePrefersHeadingOverMetadata(t *testing.T) {
	page := mocks.MustNewPage(`<html><head>
	  <title>Acme Careers</title>
	  <meta property="og:title" content="OG Backend Engineer">
	  <meta property="og:site_name" content="Acme Corp">
	</head><body>
	  <h1>  Backend   Engineer </h1>
	  <p>Build the billing platform.</p>
	</body></html>`)
	page.SetURL("https://jobs.acme.test/backend")

	offer, err := NewScraper(zap.NewNop()).Scrape(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", offer.Title)
	assert.Equal(t, "Acme Corp", offer.Company)
	assert.Equal(t, "https://jobs.acme.test/backend", offer.URL)
	assert.Contains(t, offer.Description, "Build the billing platform.")
}

func TestScrapeFallsBackThroughTitleSources(t *testing.T) {
	page := mocks.MustNewPage(`<html><head>
	  <meta property="og:title" content="OG Backend Engineer">
	</head><body><p>text</p></body></html>`)
	offer, err := NewScraper(nil).Scrape(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, "OG Backend Engineer", offer.Title)

	page = mocks.MustNewPage(`<html><head><title>Plain Title</title></head><body></body></html>`)
	offer, err = NewScraper(nil).Scrape(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, "Plain Title", offer.Title)
}

func TestScrapeCompanyFallsBackToAuthorMeta(t *testing.T) {
	page := mocks.MustNewPage(`<html><head>
	  <meta name="author" content="Globex">
	</head><body></body></html>`)
	offer, err := NewScraper(nil).Scrape(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, "Globex", offer.Company)
}

func TestScrapeCapsDescription(t *testing.T) {
	page := mocks.MustNewPage("<html><body><p>" + strings.Repeat("badger ", 3000) + "</p></body></html>")
	offer, err := NewScraper(nil).Scrape(context.Background(), page)
	require.NoError(t, err)
	assert.Len(t, offer.Description, descriptionCap)
}

func TestScrapeCapNeverSplitsARune(t *testing.T) {
	// Place a two-byte rune straddling the cap so a naive byte slice would
	// leave a dangling continuation byte.
	body := strings.Repeat("a", descriptionCap-1) + strings.Repeat("é", 50)
	page := mocks.MustNewPage("<html><body><p>" + body + "</p></body></html>")

	offer, err := NewScraper(nil).Scrape(context.Background(), page)
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(offer.Description))
	assert.LessOrEqual(t, len(offer.Description), descriptionCap)
	assert.Len(t, offer.Description, descriptionCap-1)
}

func TestScrapeEmptyPage(t *testing.T) {
	page := mocks.MustNewPage("<html><body></body></html>")
	offer, err := NewScraper(nil).Scrape(context.Background(), page)
	require.NoError(t, err)
	assert.Empty(t, offer.Title)
	assert.Empty(t, offer.Company)
	assert.Empty(t, offer.Description)
}
