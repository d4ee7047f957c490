package retail

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"product-scout/pkg/models"
	"product-scout/pkg/product"
)

// HTMLFetcher is the slice of the fetch client the multi-search needs.
type HTMLFetcher interface {
	FetchHTML(ctx context.Context, rawURL string) (string, error)
}

// MultiSearcher fans a query out to every configured retailer scraper
// concurrently. The retailers hit independent hosts and share no state, so
// unlike the frontier crawl this path is allowed to parallelize; a shared
// limiter keeps the combined outbound rate polite.
type MultiSearcher struct {
	scrapers []Scraper
	fetcher  HTMLFetcher
	limiter  *rate.Limiter
	log      *logrus.Entry
}

func NewMultiSearcher(scrapers []Scraper, fetcher HTMLFetcher, log *logrus.Logger) *MultiSearcher {
	return &MultiSearcher{
		scrapers: scrapers,
		fetcher:  fetcher,
		limiter:  rate.NewLimiter(rate.Limit(4), 2),
		log:      log.WithField("component", "multisearch"),
	}
}

// Search runs every retailer scrape concurrently and returns the merged,
// deduplicated result list, at most perRetailer records per retailer. A
// failing retailer contributes nothing; it never fails the whole search.
// Interleaving across retailers is unspecified.
func (m *MultiSearcher) Search(ctx context.Context, query string, perRetailer int) []*models.Product {
	if perRetailer <= 0 {
		perRetailer = 5
	}

	var (
		mu      sync.Mutex
		results []*models.Product
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, s := range m.scrapers {
		g.Go(func() error {
			found := m.searchOne(ctx, s, query, perRetailer)
			if len(found) == 0 {
				return nil
			}
			mu.Lock()
			results = append(results, found...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, only log them

	return product.DedupByRawURL(results)
}

func (m *MultiSearcher) searchOne(ctx context.Context, s Scraper, query string, limit int) []*models.Product {
	log := m.log.WithField("retailer", s.Name())

	if err := m.limiter.Wait(ctx); err != nil {
		return nil
	}

	page, err := m.fetcher.FetchHTML(ctx, s.SearchURL(query))
	if err != nil {
		log.WithError(err).Debug("Retailer search fetch failed, skipping")
		return nil
	}

	var found []*models.Product
	for _, part := range s.Extract(page) {
		if p := product.Normalize(part, ""); p != nil {
			found = append(found, p)
			if len(found) >= limit {
				break
			}
		}
	}
	log.WithFields(logrus.Fields{"query": query, "found": len(found)}).Debug("Retailer search complete")
	return found
}
