package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"product-scout/pkg/models"
	"product-scout/pkg/utils"
)

// JSONLD returns partial product records for every Product-typed JSON-LD node
// embedded in the page. This is a best-effort extractor, not a validator:
// malformed script blocks are skipped silently.
func JSONLD(doc *goquery.Document, srcURL string) []models.PartialProduct {
	if doc == nil {
		return nil
	}
	var parts []models.PartialProduct

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var root interface{}
		if err := json.Unmarshal([]byte(sel.Text()), &root); err != nil {
			return // malformed block, skip
		}
		for _, node := range flattenNodes(root) {
			if p, ok := productFromNode(node, srcURL); ok {
				parts = append(parts, p)
			}
		}
	})
	return parts
}

// flattenNodes expands top-level arrays and @graph wrappers into a flat node
// list. One level is enough in practice; deeply nested graphs are rare.
func flattenNodes(root interface{}) []map[string]interface{} {
	var nodes []map[string]interface{}
	switch v := root.(type) {
	case []interface{}:
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				nodes = append(nodes, m)
			}
		}
	case map[string]interface{}:
		nodes = append(nodes, v)
		if graph, ok := v["@graph"].([]interface{}); ok {
			for _, item := range graph {
				if m, ok := item.(map[string]interface{}); ok {
					nodes = append(nodes, m)
				}
			}
		}
	}
	return nodes
}

// productFromNode maps one JSON-LD node to a PartialProduct if the node (or
// its "item" wrapper, one level deep) is typed as a Product.
func productFromNode(node map[string]interface{}, srcURL string) (models.PartialProduct, bool) {
	if !typeIncludesProduct(node["@type"]) {
		// ListItem and similar wrappers nest the product under "item"
		inner, ok := node["item"].(map[string]interface{})
		if !ok || !typeIncludesProduct(inner["@type"]) {
			return models.PartialProduct{}, false
		}
		node = inner
	}

	part := models.PartialProduct{
		Title:       asString(node["name"]),
		Description: asString(node["description"]),
		SKU:         asString(node["sku"]),
		URL:         srcURL,
		Source:      models.SourceForHost(utils.Hostname(srcURL)),
	}

	// image may be a string or an array (first element used)
	switch img := node["image"].(type) {
	case string:
		part.Image = img
	case []interface{}:
		if len(img) > 0 {
			part.Image = asString(img[0])
		}
	case map[string]interface{}:
		part.Image = asString(img["url"])
	}

	// brand may be a string or a {name} object
	switch brand := node["brand"].(type) {
	case string:
		part.Brand = brand
	case map[string]interface{}:
		part.Brand = asString(brand["name"])
	}

	applyOffers(&part, node)
	applyAggregateRating(&part, node)
	part.Reviews = sampleReviews(node["review"], 3)

	return part, true
}

// applyOffers reads price/currency/availability/seller from the node's offers
// (object, first array element, or aggregateOffer), with lowPrice as fallback
func applyOffers(part *models.PartialProduct, node map[string]interface{}) {
	offers := firstObject(node["offers"])
	if offers == nil {
		offers = firstObject(node["aggregateOffer"])
	}
	if offers == nil {
		return
	}

	if price, ok := asFloat(offers["price"]); ok {
		part.Price = &price
	} else if low, ok := asFloat(offers["lowPrice"]); ok {
		part.Price = &low
	}
	if high, ok := asFloat(offers["highPrice"]); ok && part.OriginalPrice == nil {
		part.OriginalPrice = &high
	}
	part.Currency = asString(offers["priceCurrency"])

	// Availability URIs look like "https://schema.org/InStock": keep the
	// trailing token only
	if avail := asString(offers["availability"]); avail != "" {
		segments := strings.Split(strings.TrimSuffix(avail, "/"), "/")
		part.Availability = segments[len(segments)-1]
	}

	switch seller := offers["seller"].(type) {
	case string:
		part.Seller = seller
	case map[string]interface{}:
		part.Seller = asString(seller["name"])
	}
}

func applyAggregateRating(part *models.PartialProduct, node map[string]interface{}) {
	rating, ok := node["aggregateRating"].(map[string]interface{})
	if !ok {
		return
	}
	if value, ok := asFloat(rating["ratingValue"]); ok {
		part.Rating = &value
	}
	count, ok := asFloat(rating["reviewCount"])
	if !ok {
		count, ok = asFloat(rating["ratingCount"])
	}
	if ok {
		n := int(count)
		part.ReviewCount = &n
	}
}

// sampleReviews extracts up to max customer reviews from a JSON-LD review
// field (object or array)
func sampleReviews(raw interface{}, max int) []models.Review {
	var items []interface{}
	switch v := raw.(type) {
	case []interface{}:
		items = v
	case map[string]interface{}:
		items = []interface{}{v}
	default:
		return nil
	}

	var reviews []models.Review
	for _, item := range items {
		if len(reviews) >= max {
			break
		}
		node, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		review := models.Review{Text: asString(node["reviewBody"])}
		switch author := node["author"].(type) {
		case string:
			review.Author = author
		case map[string]interface{}:
			review.Author = asString(author["name"])
		}
		if rr, ok := node["reviewRating"].(map[string]interface{}); ok {
			if value, ok := asFloat(rr["ratingValue"]); ok {
				review.Rating = value
			}
		}
		if review.Text == "" && review.Author == "" {
			continue
		}
		reviews = append(reviews, review)
	}
	return reviews
}

// typeIncludesProduct checks a JSON-LD @type value (string or array of
// strings, case-insensitive) for "Product"
func typeIncludesProduct(raw interface{}) bool {
	switch v := raw.(type) {
	case string:
		return strings.EqualFold(v, "Product")
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.EqualFold(s, "Product") {
				return true
			}
		}
	}
	return false
}

// firstObject unwraps a value that may be an object or an array of objects
func firstObject(raw interface{}) map[string]interface{} {
	switch v := raw.(type) {
	case map[string]interface{}:
		return v
	case []interface{}:
		if len(v) > 0 {
			if m, ok := v[0].(map[string]interface{}); ok {
				return m
			}
		}
	}
	return nil
}

// asString coerces a JSON value to a trimmed string ("" when not a string)
func asString(raw interface{}) string {
	s, _ := raw.(string)
	return strings.TrimSpace(s)
}

// asFloat coerces a JSON value (number, or numeric string possibly with
// currency formatting like "1,299.00") to a float64
func asFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		if v < 0 {
			return 0, false
		}
		return v, true
	case string:
		return utils.ParsePrice(v)
	}
	return 0, false
}
