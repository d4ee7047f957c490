package scrape

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-scout/pkg/fetch"
	"product-scout/pkg/models"
	"product-scout/pkg/utils"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testPageScraper(ai AIExtractor) *PageScraper {
	log := testLogger()
	fetcher := fetch.NewFetcher(&http.Client{}, "test-agent", "en-US", 5*time.Second, 1<<20, log)
	return NewPageScraper(fetcher, ai, log)
}

func serve(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, html)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapeURL_StructuredData(t *testing.T) {
	srv := serve(t, `<html><head>
		<meta property="og:image" content="https://cdn.test/og.jpg" />
		<script type="application/ld+json">{
			"@type": "Product",
			"name": "Desk Lamp",
			"sku": "LAMP-42",
			"brand": {"name": "Lumina"},
			"image": "https://cdn.test/main.jpg",
			"description": "A lamp for desks",
			"offers": {"price": "1,299.00", "priceCurrency": "INR", "availability": "https://schema.org/InStock", "seller": {"name": "Lumina Store"}},
			"aggregateRating": {"ratingValue": 4.4, "reviewCount": 98},
			"review": [{"author": "Asha", "reviewRating": {"ratingValue": 5}, "reviewBody": "great"}]
		}</script></head><body></body></html>`)

	d, err := testPageScraper(nil).ScrapeURL(context.Background(), srv.URL+"/p/lamp")
	require.NoError(t, err)

	assert.Equal(t, "Desk Lamp", d.Title)
	assert.Equal(t, 1299.0, d.Price)
	assert.Equal(t, "INR", d.Currency)
	assert.Equal(t, "LAMP-42", d.SKU)
	assert.Equal(t, "Lumina", d.Brand)
	assert.Equal(t, "InStock", d.Availability)
	assert.Equal(t, "Lumina Store", d.Seller)
	assert.Equal(t, 4.4, d.Rating)
	assert.Equal(t, 98, d.ReviewCount)
	require.Len(t, d.SampleReviews, 1)
	assert.Equal(t, "Asha", d.SampleReviews[0].Author)
	// structured-data image plus the Open Graph one
	assert.Equal(t, []string{"https://cdn.test/main.jpg", "https://cdn.test/og.jpg"}, d.Images)
}

func TestScrapeURL_OpenGraphOnly(t *testing.T) {
	srv := serve(t, `<html><head>
		<meta property="og:title" content="Mystery Gadget" />
		<meta property="og:image" content="https://cdn.test/g.jpg" />
		<meta property="og:description" content="A gadget" />
	</head><body>₹749</body></html>`)

	d, err := testPageScraper(nil).ScrapeURL(context.Background(), srv.URL+"/p/gadget")
	require.NoError(t, err)

	assert.Equal(t, "Mystery Gadget", d.Title)
	assert.Equal(t, 749.0, d.Price)
	assert.Equal(t, "INR", d.Currency)
	assert.Equal(t, []string{"https://cdn.test/g.jpg"}, d.Images)
	assert.Equal(t, "A gadget", d.Description)
}

type stubAI struct {
	part  *models.PartialProduct
	calls int
}

func (s *stubAI) Extract(context.Context, string, string) *models.PartialProduct {
	s.calls++
	return s.part
}

func TestScrapeURL_AIFallbackWhenNothingElse(t *testing.T) {
	srv := serve(t, `<html><body>nothing extractable here</body></html>`)

	price := 350.0
	ai := &stubAI{part: &models.PartialProduct{Title: "AI Guess", Price: &price, Currency: "INR"}}

	d, err := testPageScraper(ai).ScrapeURL(context.Background(), srv.URL+"/p/x")
	require.NoError(t, err)

	assert.Equal(t, 1, ai.calls)
	assert.Equal(t, "AI Guess", d.Title)
	assert.Equal(t, 350.0, d.Price)
}

func TestScrapeURL_EmptyPageStillSucceeds(t *testing.T) {
	srv := serve(t, `<html><body>nothing here</body></html>`)

	d, err := testPageScraper(nil).ScrapeURL(context.Background(), srv.URL+"/x")
	require.NoError(t, err)

	assert.Empty(t, d.Title)
	assert.NotNil(t, d.Images)
	assert.NotNil(t, d.Specs)
	assert.NotNil(t, d.SampleReviews)
}

func TestScrapeURL_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testPageScraper(nil).ScrapeURL(context.Background(), srv.URL+"/x")
	assert.ErrorIs(t, err, utils.ErrClientHTTPError)
}
