// Package api exposes the discovery pipeline over HTTP. Validation errors
// come back as 400 with a terse message; missing required configuration is
// 500; everything the pipeline finds, however partial, is a 200.
package api

import (
	"context"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"product-scout/pkg/config"
	"product-scout/pkg/crawler"
	"product-scout/pkg/models"
)

// Discoverer runs the search-seeded extraction pipeline.
type Discoverer interface {
	Discover(ctx context.Context, query string, limit int) []*models.Product
}

// FrontierCrawler runs a bounded breadth-first crawl.
type FrontierCrawler interface {
	Crawl(ctx context.Context, query string, opts crawler.Options) []*models.Product
}

// PageScraper extracts a rich detail record from one URL.
type PageScraper interface {
	ScrapeURL(ctx context.Context, pageURL string) (*models.PageDetail, error)
}

// FreeSearcher fans a query out across the retailer scrapers.
type FreeSearcher interface {
	Search(ctx context.Context, query string, perRetailer int) []*models.Product
}

// ProxySearcher is the paid scraping-proxy backend.
type ProxySearcher interface {
	Configured() bool
	Search(ctx context.Context, query string) ([]*models.Product, error)
}

// Server wires the pipeline components to their routes.
type Server struct {
	discovery Discoverer
	frontier  FrontierCrawler
	pages     PageScraper
	free      FreeSearcher
	proxy     ProxySearcher
	crawlCfg  config.CrawlConfig
	log       *logrus.Entry
}

func NewServer(discovery Discoverer, frontier FrontierCrawler, pages PageScraper, free FreeSearcher, proxy ProxySearcher, crawlCfg config.CrawlConfig, log *logrus.Logger) *Server {
	return &Server{
		discovery: discovery,
		frontier:  frontier,
		pages:     pages,
		free:      free,
		proxy:     proxy,
		crawlCfg:  crawlCfg,
		log:       log.WithField("component", "api"),
	}
}

type crawlRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) handleCrawl(c *gin.Context) {
	var req crawlRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	products := s.discovery.Discover(c.Request.Context(), req.Query, req.Limit)
	if products == nil {
		products = []*models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"total":    len(products),
		"products": products,
	})
}

type crawlBasicRequest struct {
	Query          string   `json:"query"`
	SeedDomains    []string `json:"seedDomains"`
	MaxPages       int      `json:"maxPages"`
	PerDomainLimit int      `json:"perDomainLimit"`
	MaxDepth       int      `json:"maxDepth"`
}

func (s *Server) handleCrawlBasic(c *gin.Context) {
	var req crawlBasicRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	opts := crawler.Options{
		SeedDomains:    req.SeedDomains,
		MaxPages:       req.MaxPages,
		PerDomainLimit: req.PerDomainLimit,
		MaxDepth:       req.MaxDepth,
	}
	opts.Clamp(s.crawlCfg)

	products := s.frontier.Crawl(c.Request.Context(), req.Query, opts)
	if products == nil {
		products = []*models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"total":    len(products),
		"products": products,
	})
}

var urlSchemeRe = regexp.MustCompile(`^https?://`)

type scrapeURLRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleScrapeURL(c *gin.Context) {
	var req scrapeURLRequest
	if err := c.ShouldBindJSON(&req); err != nil || !urlSchemeRe.MatchString(req.URL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid http(s) url is required"})
		return
	}

	data, err := s.pages.ScrapeURL(c.Request.Context(), req.URL)
	if err != nil {
		s.log.WithError(err).WithField("url", req.URL).Warn("Page scrape failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scrape url"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     req.URL,
		"data":    data,
	})
}

type searchFreeRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults"`
}

func (s *Server) handleSearchFree(c *gin.Context) {
	var req searchFreeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	products := s.free.Search(c.Request.Context(), req.Query, req.MaxResults)
	if products == nil {
		products = []*models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
	})
}

type scrapeRequest struct {
	Query   string         `json:"query"`
	Options map[string]any `json:"options"`
}

func (s *Server) handleScrape(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	if !s.proxy.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scraping service not configured"})
		return
	}

	products, err := s.proxy.Search(c.Request.Context(), req.Query)
	if err != nil {
		s.log.WithError(err).Warn("Proxy search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scraping service request failed"})
		return
	}
	if products == nil {
		products = []*models.Product{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"products":     products,
		"query":        req.Query,
		"totalResults": len(products),
	})
}
