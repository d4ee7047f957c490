package product

import (
	"strings"

	"product-scout/pkg/models"
	"product-scout/pkg/utils"
)

// Dedup removes duplicate products keyed by lowercased title plus the
// hostname of the product URL. The first occurrence wins; later duplicates
// are dropped. Order of survivors is preserved.
func Dedup(products []*models.Product) []*models.Product {
	return dedupBy(products, func(p *models.Product) string {
		return strings.ToLower(strings.TrimSpace(p.Title)) + "|" + utils.Hostname(p.URL)
	})
}

// DedupByRawURL removes duplicates keyed by lowercased title plus the full
// raw URL. Used by the free-search path, where the same retailer host can
// legitimately contribute many distinct product pages.
func DedupByRawURL(products []*models.Product) []*models.Product {
	return dedupBy(products, func(p *models.Product) string {
		return strings.ToLower(strings.TrimSpace(p.Title)) + "|" + p.URL
	})
}

func dedupBy(products []*models.Product, key func(*models.Product) string) []*models.Product {
	seen := make(map[string]struct{}, len(products))
	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		k := key(p)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}
