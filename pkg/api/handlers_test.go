package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"product-scout/pkg/config"
	"product-scout/pkg/crawler"
	"product-scout/pkg/models"
)

type stubDiscovery struct {
	products []*models.Product
	calls    int
	gotLimit int
}

func (s *stubDiscovery) Discover(_ context.Context, _ string, limit int) []*models.Product {
	s.calls++
	s.gotLimit = limit
	return s.products
}

type stubFrontier struct {
	products []*models.Product
	gotOpts  crawler.Options
}

func (s *stubFrontier) Crawl(_ context.Context, _ string, opts crawler.Options) []*models.Product {
	s.gotOpts = opts
	return s.products
}

type stubPages struct {
	detail *models.PageDetail
	err    error
	gotURL string
}

func (s *stubPages) ScrapeURL(_ context.Context, pageURL string) (*models.PageDetail, error) {
	s.gotURL = pageURL
	return s.detail, s.err
}

type stubFree struct {
	products []*models.Product
}

func (s *stubFree) Search(context.Context, string, int) []*models.Product { return s.products }

type stubProxy struct {
	configured bool
	products   []*models.Product
	err        error
	calls      int
}

func (s *stubProxy) Configured() bool { return s.configured }

func (s *stubProxy) Search(context.Context, string) ([]*models.Product, error) {
	s.calls++
	return s.products, s.err
}

type testEnv struct {
	discovery *stubDiscovery
	frontier  *stubFrontier
	pages     *stubPages
	free      *stubFree
	proxy     *stubProxy
	router    http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	env := &testEnv{
		discovery: &stubDiscovery{},
		frontier:  &stubFrontier{},
		pages:     &stubPages{detail: &models.PageDetail{Title: "Thing"}},
		free:      &stubFree{},
		proxy:     &stubProxy{},
	}
	crawlCfg := config.CrawlConfig{MaxPages: 40, PerDomainLimit: 8, MaxDepth: 2}
	srv := NewServer(env.discovery, env.frontier, env.pages, env.free, env.proxy, crawlCfg, log)
	env.router = NewRouter(srv, log)
	return env
}

func post(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sample(title string) *models.Product {
	return &models.Product{ID: "p1", Title: title, Price: 100, Currency: "INR", Availability: "Unknown", Source: models.SourceWeb}
}

func TestCrawl_Success(t *testing.T) {
	env := newTestEnv(t)
	env.discovery.products = []*models.Product{sample("Lamp")}

	w := post(t, env.router, "/crawl", `{"query":"lamp","limit":5}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.Equal(t, 5, env.discovery.gotLimit)
}

func TestCrawl_MissingQueryIs400(t *testing.T) {
	env := newTestEnv(t)

	w := post(t, env.router, "/crawl", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
	assert.Equal(t, 0, env.discovery.calls) // validation rejects before any search
}

func TestCrawl_MalformedBodyIs400(t *testing.T) {
	env := newTestEnv(t)
	w := post(t, env.router, "/crawl", `{"query":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCrawlBasic_ClampsOptions(t *testing.T) {
	env := newTestEnv(t)

	w := post(t, env.router, "/crawl-basic",
		`{"query":"lamp","maxPages":999,"perDomainLimit":100,"maxDepth":9}`)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, config.MaxPagesCeiling, env.frontier.gotOpts.MaxPages)
	assert.Equal(t, config.PerDomainLimitCeiling, env.frontier.gotOpts.PerDomainLimit)
	assert.Equal(t, config.MaxDepthCeiling, env.frontier.gotOpts.MaxDepth)
}

func TestCrawlBasic_DefaultsWhenOmitted(t *testing.T) {
	env := newTestEnv(t)

	post(t, env.router, "/crawl-basic", `{"query":"lamp"}`)
	assert.Equal(t, 40, env.frontier.gotOpts.MaxPages)
	assert.Equal(t, 8, env.frontier.gotOpts.PerDomainLimit)
	assert.Equal(t, 2, env.frontier.gotOpts.MaxDepth)
}

func TestCrawlBasic_EmptyResultsStillSuccess(t *testing.T) {
	env := newTestEnv(t)

	w := post(t, env.router, "/crawl-basic", `{"query":"lamp","seedDomains":["unreachable.invalid"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func TestScrapeURL_Success(t *testing.T) {
	env := newTestEnv(t)

	w := post(t, env.router, "/scrape-url", `{"url":"https://example.com/p/1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"url":"https://example.com/p/1"`)
	assert.Contains(t, w.Body.String(), `"title":"Thing"`)
	assert.Equal(t, "https://example.com/p/1", env.pages.gotURL)
}

func TestScrapeURL_RejectsBadURL(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{`{}`, `{"url":"ftp://x"}`, `{"url":"example.com"}`} {
		w := post(t, env.router, "/scrape-url", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestScrapeURL_FetchFailureIs500(t *testing.T) {
	env := newTestEnv(t)
	env.pages.detail = nil
	env.pages.err = errors.New("fetch failed")

	w := post(t, env.router, "/scrape-url", `{"url":"https://example.com/x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSearchFree_Success(t *testing.T) {
	env := newTestEnv(t)
	env.free.products = []*models.Product{sample("A"), sample("B")}

	w := post(t, env.router, "/search-free", `{"query":"lamp","maxResults":2}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestSearchFree_EmptyIsStillSuccess(t *testing.T) {
	env := newTestEnv(t)

	w := post(t, env.router, "/search-free", `{"query":"lamp"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"products":[]`)
}

func TestScrape_RequiresProxyKey(t *testing.T) {
	env := newTestEnv(t)
	env.proxy.configured = false

	w := post(t, env.router, "/scrape", `{"query":"lamp"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
	assert.Equal(t, 0, env.proxy.calls)
}

func TestScrape_Success(t *testing.T) {
	env := newTestEnv(t)
	env.proxy.configured = true
	env.proxy.products = []*models.Product{sample("Lamp")}

	w := post(t, env.router, "/scrape", `{"query":"lamp"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalResults":1`)
	assert.Contains(t, w.Body.String(), `"query":"lamp"`)
}

func TestScrape_UpstreamFailureIs500(t *testing.T) {
	env := newTestEnv(t)
	env.proxy.configured = true
	env.proxy.err = errors.New("proxy down")

	w := post(t, env.router, "/scrape", `{"query":"lamp"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
