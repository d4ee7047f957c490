package retail

import (
	"regexp"

	"product-scout/pkg/models"
)

// NewAmazon scrapes amazon.in search result pages. Result cards carry the
// title inside an h2 anchor; price lives in the a-price-whole span.
func NewAmazon() Scraper {
	return &cardScraper{
		name:          "amazon",
		source:        models.SourceAmazon,
		baseURL:       "https://www.amazon.in",
		searchURLTmpl: "https://www.amazon.in/s?k=%s",
		cardRe:        regexp.MustCompile(`(?s)<h2[^>]*>\s*<a[^>]+href="([^"]+)"[^>]*>\s*<span[^>]*>([^<]+)</span>`),
		priceRe:       regexp.MustCompile(`<span class="a-price-whole">([0-9,]+)`),
		ratingRe:      regexp.MustCompile(`([0-9.]+) out of 5 stars`),
	}
}

// NewFlipkart scrapes flipkart.com search result pages using its obfuscated
// class markers (_1fQZEK card link, _4rR01T title, _30jeq3 price, _3LWZlK
// rating). These rotate occasionally and need refreshing when they do.
func NewFlipkart() Scraper {
	return &cardScraper{
		name:          "flipkart",
		source:        models.SourceFlipkart,
		baseURL:       "https://www.flipkart.com",
		searchURLTmpl: "https://www.flipkart.com/search?q=%s",
		cardRe:        regexp.MustCompile(`(?s)<a[^>]+class="[^"]*_1fQZEK[^"]*"[^>]+href="([^"]+)".{0,600}?<div class="_4rR01T">([^<]+)</div>`),
		priceRe:       regexp.MustCompile(`<div class="_30jeq3[^"]*">₹?([0-9,]+)</div>`),
		ratingRe:      regexp.MustCompile(`<div class="_3LWZlK[^"]*">([0-9.]+)</div>`),
	}
}

// NewMyntra scrapes myntra.com listing pages (path-based search).
func NewMyntra() Scraper {
	return &cardScraper{
		name:          "myntra",
		source:        models.SourceMyntra,
		baseURL:       "https://www.myntra.com",
		searchURLTmpl: "https://www.myntra.com/%s",
		cardRe:        regexp.MustCompile(`(?s)<li class="product-base"[^>]*>.{0,300}?<a[^>]+href="([^"]+)".{0,800}?<h4 class="product-product">([^<]+)</h4>`),
		priceRe:       regexp.MustCompile(`<span class="product-discountedPrice">Rs\.? ?([0-9,]+)</span>`),
		ratingRe:      regexp.MustCompile(`class="product-ratingsContainer"><span>([0-9.]+)`),
	}
}

// NewSnapdeal scrapes snapdeal.com search result pages. Snapdeal renders
// ratings as a star-width percentage rather than a number, so no rating is
// extracted here.
func NewSnapdeal() Scraper {
	return &cardScraper{
		name:          "snapdeal",
		source:        models.SourceSnapdeal,
		baseURL:       "https://www.snapdeal.com",
		searchURLTmpl: "https://www.snapdeal.com/search?keyword=%s",
		cardRe:        regexp.MustCompile(`(?s)<a[^>]+class="dp-widget-link[^"]*"[^>]+href="([^"]+)".{0,600}?<p class="product-title"[^>]*>([^<]+)</p>`),
		priceRe:       regexp.MustCompile(`<span[^>]+class="[^"]*product-price[^"]*"[^>]*>(?:Rs\.? ?)?([0-9,]+)`),
	}
}

// DefaultScrapers returns the full retailer set in its conventional order.
func DefaultScrapers() []Scraper {
	return []Scraper{NewAmazon(), NewFlipkart(), NewMyntra(), NewSnapdeal()}
}
