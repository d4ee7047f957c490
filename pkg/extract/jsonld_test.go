package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-scout/pkg/models"
)

func scriptLD(block string) string {
	return `<script type="application/ld+json">` + block + `</script>`
}

func wrapLD(block string) string {
	return "<html><head>" + scriptLD(block) + "</head><body></body></html>"
}

func TestJSONLD_BasicProduct(t *testing.T) {
	html := wrapLD(`{
		"@context": "https://schema.org",
		"@type": "Product",
		"name": "Wireless Mouse",
		"image": "https://cdn.example.com/mouse.jpg",
		"brand": {"@type": "Brand", "name": "Logi"},
		"offers": {
			"@type": "Offer",
			"price": "1,299.00",
			"priceCurrency": "INR",
			"availability": "https://schema.org/InStock",
			"seller": {"@type": "Organization", "name": "MegaMart"}
		},
		"aggregateRating": {"ratingValue": 4.3, "reviewCount": 211}
	}`)
	doc, err := ParseHTML(html)
	require.NoError(t, err)

	parts := JSONLD(doc, "https://www.example.com/p/mouse")
	require.Len(t, parts, 1)

	p := parts[0]
	assert.Equal(t, "Wireless Mouse", p.Title)
	require.NotNil(t, p.Price)
	assert.Equal(t, 1299.0, *p.Price)
	assert.Equal(t, "INR", p.Currency)
	assert.Equal(t, "https://cdn.example.com/mouse.jpg", p.Image)
	assert.Equal(t, "Logi", p.Brand)
	assert.Equal(t, "InStock", p.Availability)
	assert.Equal(t, "MegaMart", p.Seller)
	require.NotNil(t, p.Rating)
	assert.Equal(t, 4.3, *p.Rating)
	require.NotNil(t, p.ReviewCount)
	assert.Equal(t, 211, *p.ReviewCount)
}

func TestJSONLD_TypeArray(t *testing.T) {
	html := wrapLD(`{"@type": ["Thing", "product"], "name": "Kettle", "offers": {"price": 899}}`)
	doc, err := ParseHTML(html)
	require.NoError(t, err)

	parts := JSONLD(doc, "https://example.com/p/kettle")
	require.Len(t, parts, 1)
	assert.Equal(t, "Kettle", parts[0].Title)
	require.NotNil(t, parts[0].Price)
	assert.Equal(t, 899.0, *parts[0].Price)
}

func TestJSONLD_ItemWrapper(t *testing.T) {
	html := wrapLD(`{
		"@type": "ListItem",
		"item": {"@type": "Product", "name": "Backpack", "offers": {"price": "2499"}}
	}`)
	doc, err := ParseHTML(html)
	require.NoError(t, err)

	parts := JSONLD(doc, "https://example.com/x")
	require.Len(t, parts, 1)
	assert.Equal(t, "Backpack", parts[0].Title)
}

func TestJSONLD_GraphAndArrayFlattened(t *testing.T) {
	html := "<html><head>" + scriptLD(`{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebPage", "name": "ignored"},
			{"@type": "Product", "name": "Desk Lamp", "offers": {"lowPrice": 549}}
		]
	}`) + scriptLD(`[
		{"@type": "Product", "name": "Chair", "offers": [{"price": 3999, "priceCurrency": "INR"}]}
	]`) + "</head></html>"
	doc, err := ParseHTML(html)
	require.NoError(t, err)

	parts := JSONLD(doc, "https://example.com/cat/furniture")
	require.Len(t, parts, 2)
	assert.Equal(t, "Desk Lamp", parts[0].Title)
	require.NotNil(t, parts[0].Price) // lowPrice fallback
	assert.Equal(t, 549.0, *parts[0].Price)
	assert.Equal(t, "Chair", parts[1].Title)
	assert.Equal(t, 3999.0, *parts[1].Price)
}

func TestJSONLD_ImageArrayFirstUsed(t *testing.T) {
	html := wrapLD(`{"@type": "Product", "name": "Shoes",
		"image": ["https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"],
		"offers": {"price": 1999}}`)
	doc, err := ParseHTML(html)
	require.NoError(t, err)

	parts := JSONLD(doc, "https://example.com/p/shoes")
	require.Len(t, parts, 1)
	assert.Equal(t, "https://cdn.example.com/1.jpg", parts[0].Image)
}

func TestJSONLD_MalformedBlockSkipped(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">{not valid json</script>
		<script type="application/ld+json">{"@type": "Product", "name": "Valid", "offers": {"price": 10}}</script>
	</head></html>`
	doc, err := ParseHTML(html)
	require.NoError(t, err)

	parts := JSONLD(doc, "https://example.com/p")
	require.Len(t, parts, 1)
	assert.Equal(t, "Valid", parts[0].Title)
}

func TestJSONLD_NonProductIgnored(t *testing.T) {
	html := wrapLD(`{"@type": "Article", "name": "Buying guide"}`)
	doc, err := ParseHTML(html)
	require.NoError(t, err)

	assert.Empty(t, JSONLD(doc, "https://example.com/blog"))
}

func TestJSONLD_Reviews(t *testing.T) {
	html := wrapLD(`{"@type": "Product", "name": "Phone", "offers": {"price": 15999},
		"review": [
			{"author": {"name": "Asha"}, "reviewRating": {"ratingValue": 5}, "reviewBody": "Great"},
			{"author": "Ravi", "reviewBody": "Okay"},
			{"reviewBody": "Meh"},
			{"reviewBody": "Fourth review dropped"}
		]}`)
	doc, err := ParseHTML(html)
	require.NoError(t, err)

	parts := JSONLD(doc, "https://example.com/p/phone")
	require.Len(t, parts, 1)
	require.Len(t, parts[0].Reviews, 3) // capped at 3
	assert.Equal(t, "Asha", parts[0].Reviews[0].Author)
	assert.Equal(t, 5.0, parts[0].Reviews[0].Rating)
	assert.Equal(t, "Ravi", parts[0].Reviews[1].Author)
}

func TestJSONLD_SourceDerivedFromHost(t *testing.T) {
	html := wrapLD(`{"@type": "Product", "name": "X", "offers": {"price": 1}}`)
	doc, err := ParseHTML(html)
	require.NoError(t, err)

	parts := JSONLD(doc, "https://www.amazon.in/dp/B0TEST")
	require.Len(t, parts, 1)
	assert.Equal(t, models.SourceAmazon, parts[0].Source)
}
