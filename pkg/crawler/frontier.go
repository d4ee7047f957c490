// Package crawler implements the discovery engines: the breadth-first
// frontier crawl over retailer domains and the search-seeded single-pass
// discovery used by the query endpoint.
package crawler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"product-scout/pkg/config"
	"product-scout/pkg/extract"
	"product-scout/pkg/fetch"
	"product-scout/pkg/models"
	"product-scout/pkg/product"
	"product-scout/pkg/robots"
	"product-scout/pkg/utils"
)

// Options bounds a single crawl job.
type Options struct {
	SeedDomains    []string
	MaxPages       int
	PerDomainLimit int
	MaxDepth       int
	Delay          time.Duration
}

// Clamp resolves zero values to the configured defaults and caps every
// numeric option at its hard ceiling. Callers pass client-supplied values
// straight in; nothing a client sends can push a crawl past the ceilings.
func (o *Options) Clamp(cfg config.CrawlConfig) {
	o.MaxPages = config.ClampCrawlOption(o.MaxPages, cfg.MaxPages, config.MaxPagesCeiling)
	o.PerDomainLimit = config.ClampCrawlOption(o.PerDomainLimit, cfg.PerDomainLimit, config.PerDomainLimitCeiling)
	o.MaxDepth = config.ClampCrawlOption(o.MaxDepth, cfg.MaxDepth, config.MaxDepthCeiling)
	if o.Delay <= 0 {
		o.Delay = cfg.PolitenessDelay
	}
}

// Frontier runs bounded breadth-first crawls. The Frontier itself holds only
// shared plumbing; all crawl state (visited set, domain counters, queue,
// robots cache) lives in a per-job arena so concurrent crawls cannot
// interfere.
type Frontier struct {
	fetcher       *fetch.Fetcher
	limiter       *fetch.RateLimiter
	robotsClient  *http.Client
	userAgent     string
	robotsTimeout time.Duration
	log           *logrus.Entry
}

func NewFrontier(fetcher *fetch.Fetcher, limiter *fetch.RateLimiter, robotsClient *http.Client, userAgent string, robotsTimeout time.Duration, log *logrus.Logger) *Frontier {
	return &Frontier{
		fetcher:       fetcher,
		limiter:       limiter,
		robotsClient:  robotsClient,
		userAgent:     userAgent,
		robotsTimeout: robotsTimeout,
		log:           log.WithField("component", "frontier"),
	}
}

// job is the arena for one crawl invocation.
type job struct {
	visited     map[string]struct{}
	domainCount map[string]int
	queue       []models.WorkItem
	robots      *robots.Evaluator
	products    []*models.Product
	pages       int
}

// Crawl walks the frontier breadth-first until the queue drains, the page
// budget is spent, or ctx is cancelled. It always returns whatever it found;
// per-URL failures are skipped, never surfaced.
func (f *Frontier) Crawl(ctx context.Context, query string, opts Options) []*models.Product {
	j := &job{
		visited:     make(map[string]struct{}),
		domainCount: make(map[string]int),
		robots:      robots.NewEvaluator(f.robotsClient, f.userAgent, f.robotsTimeout, f.log),
	}
	for _, seed := range SeedURLs(query, opts.SeedDomains) {
		j.queue = append(j.queue, models.WorkItem{URL: seed, Depth: 0})
	}

	log := f.log.WithFields(logrus.Fields{
		"query":    query,
		"seeds":    len(j.queue),
		"maxPages": opts.MaxPages,
	})
	log.Info("Starting crawl")

	for len(j.queue) > 0 && j.pages < opts.MaxPages && ctx.Err() == nil {
		item := j.queue[0]
		j.queue = j.queue[1:]
		f.visit(ctx, j, item, opts)
	}

	results := product.Dedup(j.products)
	log.WithFields(logrus.Fields{"pages": j.pages, "products": len(results)}).Info("Crawl finished")
	return results
}

func (f *Frontier) visit(ctx context.Context, j *job, item models.WorkItem, opts Options) {
	u, err := url.Parse(item.URL)
	if err != nil || u.Host == "" {
		return
	}
	key := utils.NormalizeURL(u)
	if _, seen := j.visited[key]; seen {
		return
	}
	j.visited[key] = struct{}{}

	domain := u.Host
	j.domainCount[domain]++
	if j.domainCount[domain] > opts.PerDomainLimit {
		return // quota spent, but the crawl itself continues
	}

	if !j.robots.Allowed(ctx, u) {
		f.log.WithField("url", item.URL).Debug("Blocked by robots policy")
		return
	}

	f.limiter.ApplyDelay(domain, opts.Delay)
	j.pages++
	page, err := f.fetcher.FetchHTML(ctx, item.URL)
	f.limiter.UpdateLastRequestTime(domain)
	if err != nil {
		f.log.WithError(err).WithFields(logrus.Fields{
			"url":      item.URL,
			"category": utils.CategorizeError(err),
		}).Debug("Fetch failed, skipping page")
		return
	}

	doc, err := extract.ParseHTML(page)
	if err != nil {
		return
	}

	parts := extract.JSONLD(doc, item.URL)
	if len(parts) == 0 && extract.LooksLikeProductURL(item.URL) {
		if part := extract.OpenGraph(doc, page, item.URL); part != nil {
			parts = append(parts, *part)
		}
	}
	for _, part := range parts {
		if p := product.Normalize(part, item.URL); p != nil {
			j.products = append(j.products, p)
		}
	}

	if item.Depth < opts.MaxDepth {
		f.enqueueLinks(j, doc, u, item.Depth+1)
	}
}

// enqueueLinks adds same-domain outbound links to the frontier. Cross-domain
// links are ignored so the crawl stays inside its seed domains.
func (f *Frontier) enqueueLinks(j *job, doc *goquery.Document, base *url.URL, depth int) {
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		link, err := base.Parse(href)
		if err != nil {
			return
		}
		if link.Scheme != "http" && link.Scheme != "https" {
			return
		}
		if link.Host != base.Host {
			return
		}
		key := utils.NormalizeURL(link)
		if _, seen := j.visited[key]; seen {
			return
		}
		j.queue = append(j.queue, models.WorkItem{URL: link.String(), Depth: depth})
	})
}
