package config

import (
	"fmt"
	"time"
)

// Browser-like defaults reduce anti-bot blocking on retail sites
const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	defaultAcceptLanguage = "en-US,en;q=0.9"
)

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.AcceptLanguage == "" {
		c.AcceptLanguage = defaultAcceptLanguage
	}

	// Crawl budgets
	if c.Crawl.MaxPages <= 0 {
		warnings = append(warnings, "crawl.max_pages should be > 0, defaulting to 40")
		c.Crawl.MaxPages = 40
	}
	if c.Crawl.MaxPages > MaxPagesCeiling {
		warnings = append(warnings, fmt.Sprintf(
			"crawl.max_pages (%d) exceeds ceiling, clamping to %d", c.Crawl.MaxPages, MaxPagesCeiling))
		c.Crawl.MaxPages = MaxPagesCeiling
	}
	if c.Crawl.PerDomainLimit <= 0 {
		warnings = append(warnings, "crawl.per_domain_limit should be > 0, defaulting to 8")
		c.Crawl.PerDomainLimit = 8
	}
	if c.Crawl.PerDomainLimit > PerDomainLimitCeiling {
		warnings = append(warnings, fmt.Sprintf(
			"crawl.per_domain_limit (%d) exceeds ceiling, clamping to %d", c.Crawl.PerDomainLimit, PerDomainLimitCeiling))
		c.Crawl.PerDomainLimit = PerDomainLimitCeiling
	}
	if c.Crawl.MaxDepth <= 0 {
		warnings = append(warnings, "crawl.max_depth should be > 0, defaulting to 2")
		c.Crawl.MaxDepth = 2
	}
	if c.Crawl.MaxDepth > MaxDepthCeiling {
		warnings = append(warnings, fmt.Sprintf(
			"crawl.max_depth (%d) exceeds ceiling, clamping to %d", c.Crawl.MaxDepth, MaxDepthCeiling))
		c.Crawl.MaxDepth = MaxDepthCeiling
	}
	if c.Crawl.PolitenessDelay <= 0 {
		c.Crawl.PolitenessDelay = 300 * time.Millisecond
	}
	if c.Crawl.FetchTimeout <= 0 {
		c.Crawl.FetchTimeout = 20 * time.Second
	}
	if c.Crawl.RobotsTimeout <= 0 {
		c.Crawl.RobotsTimeout = 10 * time.Second
	}
	if c.Crawl.MaxPageBytes <= 0 {
		c.Crawl.MaxPageBytes = 5 << 20 // 5MB
	}

	// AI extraction
	if c.AI.Model == "" {
		c.AI.Model = "gpt-4o-mini"
	}
	if c.AI.MaxHTMLChars <= 0 {
		c.AI.MaxHTMLChars = 20000
	}

	// HTTP client
	if c.HTTPClientSettings.Timeout <= 0 {
		c.HTTPClientSettings.Timeout = 30 * time.Second
	}
	if c.HTTPClientSettings.MaxIdleConns <= 0 {
		c.HTTPClientSettings.MaxIdleConns = 100
	}
	if c.HTTPClientSettings.MaxIdleConnsPerHost <= 0 {
		c.HTTPClientSettings.MaxIdleConnsPerHost = 4
	}
	if c.HTTPClientSettings.IdleConnTimeout <= 0 {
		c.HTTPClientSettings.IdleConnTimeout = 90 * time.Second
	}
	if c.HTTPClientSettings.TLSHandshakeTimeout <= 0 {
		c.HTTPClientSettings.TLSHandshakeTimeout = 10 * time.Second
	}
	if c.HTTPClientSettings.ExpectContinueTimeout <= 0 {
		c.HTTPClientSettings.ExpectContinueTimeout = 1 * time.Second
	}
	if c.HTTPClientSettings.DialerTimeout <= 0 {
		c.HTTPClientSettings.DialerTimeout = 15 * time.Second
	}
	if c.HTTPClientSettings.DialerKeepAlive <= 0 {
		c.HTTPClientSettings.DialerKeepAlive = 30 * time.Second
	}

	return warnings, nil
}

// ClampCrawlOption bounds a caller-supplied value to [1, ceiling], using the
// configured default when the caller passed nothing (<= 0).
func ClampCrawlOption(requested, configured, ceiling int) int {
	if requested <= 0 {
		requested = configured
	}
	if requested > ceiling {
		requested = ceiling
	}
	if requested <= 0 {
		requested = 1
	}
	return requested
}
