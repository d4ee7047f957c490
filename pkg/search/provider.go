// Package search adapts external web-search APIs into seed URLs for the
// discovery pipeline. Providers are tried in order; a single failed attempt
// moves to the next provider rather than retrying, to bound latency. When
// every provider fails the chain yields an empty list and the caller is
// expected to tolerate zero seeds.
package search

import (
	"context"

	"github.com/sirupsen/logrus"

	"product-scout/pkg/models"
)

// Provider is one web-search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
}

// Chain tries providers in order and returns results from the first that
// succeeds with a non-empty list.
type Chain struct {
	providers []Provider
	log       *logrus.Entry
}

func NewChain(log *logrus.Logger, providers ...Provider) *Chain {
	return &Chain{
		providers: providers,
		log:       log.WithField("component", "search"),
	}
}

// Search never returns an error: provider failures are logged and absorbed,
// and exhausting the chain yields an empty slice.
func (c *Chain) Search(ctx context.Context, query string, limit int) []models.SearchResult {
	for _, p := range c.providers {
		results, err := p.Search(ctx, query, limit)
		if err != nil {
			c.log.WithError(err).WithField("provider", p.Name()).Debug("Search provider failed, trying next")
			continue
		}
		if len(results) > 0 {
			return results
		}
	}
	return nil
}
