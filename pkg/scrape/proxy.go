package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"product-scout/pkg/models"
	"product-scout/pkg/product"
	"product-scout/pkg/utils"
)

const defaultProxyEndpoint = "https://api.scraperapi.com/structured/amazon/search"

// ProxyClient runs product searches through a paid scraping-proxy service
// that returns pre-structured results. Unlike the free paths, this one fails
// fast when no key is configured: the endpoint exists specifically to
// exercise the paid service.
type ProxyClient struct {
	client   *http.Client
	apiKey   string
	endpoint string
	log      *logrus.Entry
}

func NewProxyClient(client *http.Client, apiKey, endpoint string, log *logrus.Logger) *ProxyClient {
	if endpoint == "" {
		endpoint = defaultProxyEndpoint
	}
	return &ProxyClient{
		client:   client,
		apiKey:   apiKey,
		endpoint: endpoint,
		log:      log.WithField("component", "proxy"),
	}
}

// Configured reports whether a proxy API key is present.
func (c *ProxyClient) Configured() bool { return c.apiKey != "" }

type proxyResult struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	ListPrice    float64 `json:"list_price"`
	Currency     string  `json:"price_currency"`
	Image        string  `json:"image"`
	URL          string  `json:"url"`
	Stars        float64 `json:"stars"`
	TotalReviews int     `json:"total_reviews"`
	Availability string  `json:"availability_quantity,omitempty"`
}

type proxyResponse struct {
	Results []proxyResult `json:"results"`
}

// Search queries the proxy and normalizes its structured results.
func (c *ProxyClient) Search(ctx context.Context, query string) ([]*models.Product, error) {
	if !c.Configured() {
		return nil, utils.ErrNotConfigured
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", query)
	q.Set("country", "in")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrRequestCreation, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrProviderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: proxy status %d", utils.ErrProviderFailed, resp.StatusCode)
	}

	var body proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrParsing, err)
	}

	products := make([]*models.Product, 0, len(body.Results))
	for _, r := range body.Results {
		price := r.Price
		part := models.PartialProduct{
			Title:    r.Name,
			Price:    &price,
			Currency: r.Currency,
			Image:    r.Image,
			URL:      r.URL,
			Source:   models.SourceProxy,
		}
		if r.ListPrice > r.Price {
			lp := r.ListPrice
			part.OriginalPrice = &lp
		}
		if r.Stars > 0 {
			stars := r.Stars
			part.Rating = &stars
		}
		if r.TotalReviews > 0 {
			tr := r.TotalReviews
			part.ReviewCount = &tr
		}
		if p := product.Normalize(part, r.URL); p != nil {
			products = append(products, p)
		}
	}

	c.log.WithFields(logrus.Fields{"query": query, "results": len(products)}).Debug("Proxy search complete")
	return product.Dedup(products), nil
}
