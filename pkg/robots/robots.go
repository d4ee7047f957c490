// Package robots implements a deliberately simplified robots.txt policy
// evaluator for low-volume interactive crawls.
//
// Two shortcuts are taken on purpose and should not be "fixed" silently:
// every Disallow rule is applied globally regardless of which User-agent
// group it belongs to, and any failure to fetch or read robots.txt is treated
// as an empty policy (fail-open). Neither is standards-compliant; both match
// the documented behavior of this pipeline.
package robots

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Policy is the ordered list of disallowed path prefixes for one domain.
// The zero value permits everything.
type Policy struct {
	Disallow []string
}

// Allows reports whether a URL path is crawlable under this policy.
// An exact "/" rule blocks the whole domain; otherwise a path is blocked when
// it starts with any disallowed prefix.
func (p Policy) Allows(path string) bool {
	if path == "" {
		path = "/"
	}
	for _, prefix := range p.Disallow {
		if prefix == "/" {
			return false
		}
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// Evaluator fetches, parses, and caches per-domain robots policies.
// The cache lives as long as the Evaluator: create one per crawl job so
// concurrent jobs cannot interfere and policies never outlive a request.
type Evaluator struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	cache     map[string]Policy
	cacheMu   sync.Mutex
	log       *logrus.Entry
}

// NewEvaluator creates an Evaluator with an empty policy cache
func NewEvaluator(client *http.Client, userAgent string, timeout time.Duration, log *logrus.Entry) *Evaluator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Evaluator{
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
		cache:     make(map[string]Policy),
		log:       log,
	}
}

// Get returns the robots policy for a domain (host, optionally with port),
// fetching and caching it on first use. Fetch or parse failure yields (and
// caches) an empty policy.
func (e *Evaluator) Get(ctx context.Context, scheme, domain string) Policy {
	e.cacheMu.Lock()
	policy, found := e.cache[domain]
	e.cacheMu.Unlock()
	if found {
		return policy
	}

	policy = e.fetch(ctx, scheme, domain)

	e.cacheMu.Lock()
	e.cache[domain] = policy
	e.cacheMu.Unlock()
	return policy
}

// Allowed reports whether u is crawlable per its domain's robots.txt
func (e *Evaluator) Allowed(ctx context.Context, u *url.URL) bool {
	if u == nil {
		return false
	}
	policy := e.Get(ctx, u.Scheme, u.Host)
	return policy.Allows(u.Path)
}

func (e *Evaluator) fetch(ctx context.Context, scheme, domain string) Policy {
	hostLog := e.log.WithField("host", domain)

	if scheme != "http" && scheme != "https" {
		scheme = "https"
	}
	robotsURL := scheme + "://" + domain + "/robots.txt"

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		hostLog.Debugf("robots.txt request creation failed: %v", err)
		return Policy{}
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		hostLog.Debugf("robots.txt fetch failed, treating domain as crawlable: %v", err)
		return Policy{}
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		hostLog.WithField("status_code", resp.StatusCode).Debug("robots.txt unavailable, treating domain as crawlable")
		return Policy{}
	}

	policy := Parse(resp.Body)
	hostLog.WithField("disallow_rules", len(policy.Disallow)).Debug("Parsed robots.txt")
	return policy
}

// Parse scans robots.txt content for Disallow rules. Rules are collected from
// every User-agent group (see package comment).
func Parse(r io.Reader) Policy {
	var policy Policy
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if !strings.HasPrefix(strings.ToLower(line), "disallow:") {
			continue
		}
		value := strings.TrimSpace(line[len("disallow:"):])
		if value == "" {
			continue // an empty Disallow allows everything, not blocks it
		}
		policy.Disallow = append(policy.Disallow, value)
	}
	return policy
}
