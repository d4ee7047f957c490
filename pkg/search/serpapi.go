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

const defaultSerpAPIEndpoint = "https://serpapi.com/search.json"

// SerpAPI is the secondary search provider, used when Brave is unavailable.
type SerpAPI struct {
	client   *http.Client
	apiKey   string
	endpoint string
}

func NewSerpAPI(client *http.Client, apiKey, endpoint string) *SerpAPI {
	if endpoint == "" {
		endpoint = defaultSerpAPIEndpoint
	}
	return &SerpAPI{client: client, apiKey: apiKey, endpoint: endpoint}
}

func (s *SerpAPI) Name() string { return "serpapi" }

type serpAPIResponse struct {
	OrganicResults []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

func (s *SerpAPI) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	if s.apiKey == "" {
		return nil, utils.ErrNotConfigured
	}

	q := url.Values{}
	q.Set("engine", "google")
	q.Set("q", query)
	q.Set("num", strconv.Itoa(limit))
	q.Set("api_key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrRequestCreation, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrProviderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: serpapi status %d", utils.ErrProviderFailed, resp.StatusCode)
	}

	var body serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrParsing, err)
	}

	results := make([]models.SearchResult, 0, len(body.OrganicResults))
	for _, r := range body.OrganicResults {
		if r.Link == "" {
			continue
		}
		results = append(results, models.SearchResult{URL: r.Link, Title: r.Title, Snippet: r.Snippet})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}
