package crawler

import (
	"context"

	"github.com/sirupsen/logrus"

	"product-scout/pkg/extract"
	"product-scout/pkg/fetch"
	"product-scout/pkg/models"
	"product-scout/pkg/product"
	"product-scout/pkg/utils"
)

// SeedSearcher supplies candidate URLs for a query. Satisfied by
// search.Chain.
type SeedSearcher interface {
	Search(ctx context.Context, query string, limit int) []models.SearchResult
}

// PageExtractor is the last-resort extraction step applied when a page
// carries no structured data. Satisfied by extract.AIExtractor, which
// returns nil on any failure.
type PageExtractor interface {
	Extract(ctx context.Context, html, pageURL string) *models.PartialProduct
}

// Discovery is the search-seeded pipeline behind the query endpoint: web
// search for candidate URLs, then structured-data extraction with an
// AI-assisted fallback, applied sequentially per URL.
type Discovery struct {
	searcher SeedSearcher
	fetcher  *fetch.Fetcher
	ai       PageExtractor
	log      *logrus.Entry
}

func NewDiscovery(searcher SeedSearcher, fetcher *fetch.Fetcher, ai PageExtractor, log *logrus.Logger) *Discovery {
	return &Discovery{
		searcher: searcher,
		fetcher:  fetcher,
		ai:       ai,
		log:      log.WithField("component", "discovery"),
	}
}

// Discover returns up to limit products for the query. The candidate pool is
// bounded to limit*2 URLs so a generous search result cannot blow the
// extraction budget. Zero search results is not an error; it just means an
// empty product list.
func (d *Discovery) Discover(ctx context.Context, query string, limit int) []*models.Product {
	if limit <= 0 {
		limit = 10
	}
	candidates := d.searcher.Search(ctx, query, limit*2)
	if len(candidates) > limit*2 {
		candidates = candidates[:limit*2]
	}
	d.log.WithFields(logrus.Fields{"query": query, "candidates": len(candidates)}).Info("Starting discovery")

	var found []*models.Product
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}
		if p := d.extractOne(ctx, candidate.URL); p != nil {
			found = append(found, p)
		}
	}

	results := product.Dedup(found)
	if len(results) > limit {
		results = results[:limit]
	}
	d.log.WithField("products", len(results)).Info("Discovery finished")
	return results
}

func (d *Discovery) extractOne(ctx context.Context, pageURL string) *models.Product {
	page, err := d.fetcher.FetchHTML(ctx, pageURL)
	if err != nil {
		d.log.WithError(err).WithFields(logrus.Fields{
			"url":      pageURL,
			"category": utils.CategorizeError(err),
		}).Debug("Fetch failed, skipping candidate")
		return nil
	}

	doc, err := extract.ParseHTML(page)
	if err != nil {
		return nil
	}

	for _, part := range extract.JSONLD(doc, pageURL) {
		if p := product.Normalize(part, pageURL); p != nil {
			return p
		}
	}

	if d.ai != nil {
		if part := d.ai.Extract(ctx, page, pageURL); part != nil {
			return product.Normalize(*part, pageURL)
		}
	}
	return nil
}
