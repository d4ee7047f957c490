// Package product holds the normalization and deduplication stages that sit
// between the extraction strategies and the API responses. Every candidate
// record, whatever strategy produced it, passes through Normalize before it
// can appear in a result set.
package product

import (
	"strings"

	"github.com/google/uuid"

	"product-scout/pkg/models"
	"product-scout/pkg/utils"
)

const (
	defaultCurrency     = "INR"
	defaultAvailability = "Unknown"
)

// Normalize converts an extraction candidate into a canonical Product. It
// returns nil when the candidate is not worth keeping: an empty title or a
// price that is missing, unparseable or negative rejects the whole record.
// Missing optional fields get defaults rather than rejection.
func Normalize(p models.PartialProduct, fallbackURL string) *models.Product {
	title := trimmed(p.Title)
	if title == "" {
		return nil
	}

	price, ok := resolvePrice(p)
	if !ok || price < 0 {
		return nil
	}

	out := &models.Product{
		ID:             uuid.NewString(),
		Title:          title,
		Price:          price,
		Currency:       trimmed(p.Currency),
		Image:          trimmed(p.Image),
		URL:            trimmed(p.URL),
		Source:         p.Source,
		Brand:          trimmed(p.Brand),
		Availability:   trimmed(p.Availability),
		Seller:         trimmed(p.Seller),
		Shipping:       trimmed(p.Shipping),
		Description:    trimmed(p.Description),
		Features:       p.Features,
		Specifications: p.Specifications,
	}

	if out.URL == "" {
		out.URL = fallbackURL
	}
	if out.Currency == "" {
		out.Currency = defaultCurrency
	}
	if out.Availability == "" {
		out.Availability = defaultAvailability
	}
	if out.Source == "" {
		out.Source = models.SourceForHost(utils.Hostname(out.URL))
	}

	if p.OriginalPrice != nil && *p.OriginalPrice > price {
		out.OriginalPrice = *p.OriginalPrice
	}
	if p.Rating != nil {
		out.Rating = clampRating(*p.Rating)
	}
	if p.ReviewCount != nil && *p.ReviewCount > 0 {
		out.ReviewCount = *p.ReviewCount
	}

	return out
}

// resolvePrice picks the numeric price when the extractor set one, otherwise
// parses the raw price text.
func resolvePrice(p models.PartialProduct) (float64, bool) {
	if p.Price != nil {
		return *p.Price, true
	}
	return utils.ParsePrice(p.PriceText)
}

func clampRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
