package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"product-scout/pkg/models"
	"product-scout/pkg/utils"
)

// currencySymbolPriceRe finds a currency-marked amount in raw HTML. Used as
// the lightweight fallback on product-looking pages that carry no JSON-LD.
var currencySymbolPriceRe = regexp.MustCompile(`(₹|Rs\.?\s?|\$|€|£)\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

var symbolCurrency = map[string]string{
	"₹": "INR",
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
}

// productPathTokens are URL path fragments that usually mark a product detail
// page rather than a listing or editorial page
var productPathTokens = []string{"/product", "/dp/", "/p/", "/item/", "/sku/", "/buy/"}

// deepSlugRe matches a long hyphenated slug segment, the other common shape
// of product detail URLs ("/nike-air-zoom-pegasus-40-black")
var deepSlugRe = regexp.MustCompile(`/[a-z0-9]+(?:-[a-z0-9]+){3,}`)

// LooksLikeProductURL is a pragmatic, lossy approximation of "this URL points
// at a single product page". It exists so the crawler can spend its cheap
// Open Graph fallback only where it is likely to pay off.
func LooksLikeProductURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, token := range productPathTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return deepSlugRe.MatchString(lower)
}

// OpenGraph attempts a minimal extraction from Open Graph meta tags plus a
// currency-symbol price scan of the page body. Returns nil when no title or
// no price can be found; the caller treats that as "no extraction".
func OpenGraph(doc *goquery.Document, html, srcURL string) *models.PartialProduct {
	if doc == nil {
		return nil
	}
	title := MetaContent(doc, "og:title")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		return nil
	}

	part := &models.PartialProduct{
		Title:       title,
		Image:       MetaContent(doc, "og:image"),
		Description: MetaContent(doc, "og:description"),
		URL:         srcURL,
		Source:      models.SourceForHost(utils.Hostname(srcURL)),
	}

	// Prefer explicit product meta tags when present
	if priceText := MetaContent(doc, "product:price:amount"); priceText != "" {
		part.PriceText = priceText
		part.Currency = MetaContent(doc, "product:price:currency")
		return part
	}

	match := currencySymbolPriceRe.FindStringSubmatch(html)
	if match == nil {
		return nil // a title without any price is not worth normalizing
	}
	part.PriceText = match[2]
	part.Currency = symbolCurrency[strings.TrimSpace(strings.TrimSuffix(match[1], "."))]
	if part.Currency == "" && strings.HasPrefix(match[1], "Rs") {
		part.Currency = "INR"
	}
	return part
}

// MetaContent returns the content attribute of a meta tag addressed by its
// property (or name) attribute
func MetaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(`meta[property="` + property + `"]`).First()
	if sel.Length() == 0 {
		sel = doc.Find(`meta[name="` + property + `"]`).First()
	}
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}
