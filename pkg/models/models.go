package models

import "strings"

// Source identifies the retailer or provider a record was extracted from
type Source string

const (
	SourceAmazon   Source = "amazon"
	SourceFlipkart Source = "flipkart"
	SourceMyntra   Source = "myntra"
	SourceSnapdeal Source = "snapdeal"
	SourceWeb      Source = "web" // generic crawled page
	SourceProxy    Source = "proxy"
	SourceAI       Source = "ai"
)

// knownHosts maps hostname substrings to retailer sources
var knownHosts = map[string]Source{
	"amazon":   SourceAmazon,
	"flipkart": SourceFlipkart,
	"myntra":   SourceMyntra,
	"snapdeal": SourceSnapdeal,
}

// SourceForHost derives a Source tag from a hostname, falling back to SourceWeb
func SourceForHost(host string) Source {
	lower := strings.ToLower(host)
	for marker, src := range knownHosts {
		if strings.Contains(lower, marker) {
			return src
		}
	}
	return SourceWeb
}

// Product is the canonical output record of the discovery pipeline.
// A Product is valid only if Title is non-empty and Price is a non-negative
// number; the normalizer enforces this. Products are transient per request and
// never persisted by this service.
type Product struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Price          float64           `json:"price"`
	OriginalPrice  float64           `json:"originalPrice,omitempty"`
	Currency       string            `json:"currency"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"reviewCount"`
	Image          string            `json:"image"`
	URL            string            `json:"url"`
	Source         Source            `json:"source"`
	Brand          string            `json:"brand,omitempty"`
	Availability   string            `json:"availability"`
	Seller         string            `json:"seller,omitempty"`
	Shipping       string            `json:"shipping,omitempty"`
	Description    string            `json:"description,omitempty"`
	Features       []string          `json:"features,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
}

// Review is a single customer review sampled from a product page
type Review struct {
	Author string  `json:"author,omitempty"`
	Rating float64 `json:"rating,omitempty"`
	Text   string  `json:"text,omitempty"`
}

// PartialProduct is the single intermediate shape produced by every extraction
// strategy (JSON-LD, Open Graph, retailer regex, AI). All fields are optional;
// the normalizer decides whether the record is complete enough to keep.
// Price (if set) takes precedence over PriceText; PriceText is the raw string
// as found in the page ("1,299.00", "₹2,499") and is parsed at normalize time.
type PartialProduct struct {
	Title          string
	PriceText      string
	Price          *float64
	OriginalPrice  *float64
	Currency       string
	Rating         *float64
	ReviewCount    *int
	Image          string
	URL            string
	Brand          string
	Availability   string
	Seller         string
	Shipping       string
	Description    string
	SKU            string
	Features       []string
	Specifications map[string]string
	Reviews        []Review
	Source         Source
}

// Partial converts a Product back into the intermediate shape. Used when a
// normalized record has to flow through the normalizer again (e.g. re-capping
// a merged result set).
func (p Product) Partial() PartialProduct {
	price := p.Price
	part := PartialProduct{
		Title:          p.Title,
		Price:          &price,
		Currency:       p.Currency,
		Image:          p.Image,
		URL:            p.URL,
		Brand:          p.Brand,
		Availability:   p.Availability,
		Seller:         p.Seller,
		Shipping:       p.Shipping,
		Description:    p.Description,
		Features:       p.Features,
		Specifications: p.Specifications,
		Source:         p.Source,
	}
	if p.OriginalPrice > 0 {
		op := p.OriginalPrice
		part.OriginalPrice = &op
	}
	if p.Rating > 0 {
		r := p.Rating
		part.Rating = &r
	}
	if p.ReviewCount > 0 {
		rc := p.ReviewCount
		part.ReviewCount = &rc
	}
	return part
}

// WorkItem represents a URL and its depth in the crawl frontier
type WorkItem struct {
	URL   string
	Depth int
}

// SearchResult is one candidate URL returned by a web-search provider
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// PageDetail is the rich single-page output of the on-demand scrape endpoint
type PageDetail struct {
	Title         string            `json:"title"`
	Images        []string          `json:"images"`
	Description   string            `json:"description"`
	Brand         string            `json:"brand"`
	SKU           string            `json:"sku"`
	Price         float64           `json:"price"`
	Currency      string            `json:"currency"`
	Availability  string            `json:"availability"`
	Seller        string            `json:"seller"`
	Rating        float64           `json:"rating"`
	ReviewCount   int               `json:"reviewCount"`
	Specs         map[string]string `json:"specs"`
	SampleReviews []Review          `json:"sampleReviews"`
}
