package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"product-scout/pkg/models"
	"product-scout/pkg/utils"
)

const defaultBraveEndpoint = "https://api.search.brave.com/res/v1/web/search"

// Brave queries the Brave Search API. Requires a subscription token.
type Brave struct {
	client   *http.Client
	apiKey   string
	endpoint string
}

// NewBrave returns a Brave provider. An empty endpoint selects the public
// API; tests point it at a local server.
func NewBrave(client *http.Client, apiKey, endpoint string) *Brave {
	if endpoint == "" {
		endpoint = defaultBraveEndpoint
	}
	return &Brave{client: client, apiKey: apiKey, endpoint: endpoint}
}

func (b *Brave) Name() string { return "brave" }

type braveResponse struct {
	Web struct {
		Results []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

func (b *Brave) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	if b.apiKey == "" {
		return nil, utils.ErrNotConfigured
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("count", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrRequestCreation, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrProviderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: brave status %d", utils.ErrProviderFailed, resp.StatusCode)
	}

	var body braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrParsing, err)
	}

	results := make([]models.SearchResult, 0, len(body.Web.Results))
	for _, r := range body.Web.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, models.SearchResult{URL: r.URL, Title: r.Title, Snippet: r.Description})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}
