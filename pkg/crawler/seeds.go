package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// categoryDomains routes category keywords found in the query to the
// marketplaces most likely to carry that category.
var categoryDomains = map[string][]string{
	"fashion":     {"myntra.com", "amazon.in"},
	"clothing":    {"myntra.com", "flipkart.com"},
	"shoes":       {"myntra.com", "amazon.in"},
	"electronics": {"flipkart.com", "amazon.in"},
	"mobile":      {"flipkart.com", "amazon.in"},
	"laptop":      {"flipkart.com", "amazon.in"},
	"furniture":   {"amazon.in", "flipkart.com"},
	"books":       {"amazon.in", "snapdeal.com"},
	"grocery":     {"amazon.in", "flipkart.com"},
}

// defaultDomains seed a crawl when no category keyword matches.
var defaultDomains = []string{"amazon.in", "flipkart.com"}

// searchPaths maps a marketplace host to its search path template. Unknown
// hosts fall back to the common ?q= convention.
var searchPaths = map[string]string{
	"amazon.in":    "/s?k=%s",
	"flipkart.com": "/search?q=%s",
	"myntra.com":   "/%s",
	"snapdeal.com": "/search?keyword=%s",
}

const defaultSearchPath = "/search?q=%s"

// DomainsForQuery picks seed domains from the query's category keywords,
// defaulting to the two general marketplaces.
func DomainsForQuery(query string) []string {
	lower := strings.ToLower(query)
	for keyword, domains := range categoryDomains {
		if strings.Contains(lower, keyword) {
			return domains
		}
	}
	return defaultDomains
}

// SeedURLs builds the initial frontier: one search-page URL per seed domain.
// Domains may be bare hosts ("amazon.in") or full base URLs with a scheme;
// the latter lets tests point a crawl at a local server.
func SeedURLs(query string, domains []string) []string {
	if len(domains) == 0 {
		domains = DomainsForQuery(query)
	}

	escaped := url.QueryEscape(query)
	seeds := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.TrimSuffix(strings.TrimSpace(domain), "/")
		if domain == "" {
			continue
		}

		base := domain
		if !strings.Contains(base, "://") {
			base = "https://www." + base
		}
		host := domain
		if u, err := url.Parse(base); err == nil {
			host = strings.TrimPrefix(u.Hostname(), "www.")
		}

		path, ok := searchPaths[host]
		if !ok {
			path = defaultSearchPath
		}
		seeds = append(seeds, base+fmt.Sprintf(path, escaped))
	}
	return seeds
}
