// Package retail implements the free-tier multi-retailer search: direct
// regex scraping of retailer search-result pages, keyed on known CSS class
// markers. The patterns are deliberately brittle; when a retailer changes
// its markup the corresponding scraper simply yields nothing until its
// patterns are refreshed. Each retailer sits behind the Scraper interface so
// one can be swapped or disabled without touching the orchestrator.
package retail

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"product-scout/pkg/models"
)

// Scraper is the per-retailer capability: build a search URL for a query and
// extract product candidates from the returned HTML.
type Scraper interface {
	Name() string
	Source() models.Source
	SearchURL(query string) string
	Extract(html string) []models.PartialProduct
}

// imgSrcRe matches any image tag with a src attribute. Used by the
// backward scan that associates a result card with its thumbnail.
var imgSrcRe = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)

const (
	// blockWindow bounds how far past a card anchor the price and rating
	// sub-patterns may match
	blockWindow = 2000
	// imageWindow bounds the backward scan for the card's image
	imageWindow = 1500
)

// cardScraper is the shared regex-driven implementation behind every
// retailer. cardRe must expose two capture groups: the card's href and its
// title text. priceRe and ratingRe each expose one capture group and match
// within a bounded window after the card anchor.
type cardScraper struct {
	name          string
	source        models.Source
	baseURL       string
	searchURLTmpl string
	cardRe        *regexp.Regexp
	priceRe       *regexp.Regexp
	ratingRe      *regexp.Regexp
}

func (s *cardScraper) Name() string          { return s.name }
func (s *cardScraper) Source() models.Source { return s.source }

func (s *cardScraper) SearchURL(query string) string {
	return fmt.Sprintf(s.searchURLTmpl, url.QueryEscape(query))
}

func (s *cardScraper) Extract(page string) []models.PartialProduct {
	var out []models.PartialProduct
	for _, m := range s.cardRe.FindAllStringSubmatchIndex(page, -1) {
		href := page[m[2]:m[3]]
		title := cleanText(page[m[4]:m[5]])

		block := page[m[1]:min(len(page), m[1]+blockWindow)]
		priceText := firstGroup(s.priceRe, block)

		// the thumbnail usually precedes the title anchor in markup, so
		// scan backwards from the card and take the closest image
		image := nearestImageBefore(page, m[0], imageWindow)

		if title == "" || priceText == "" || image == "" {
			continue
		}

		part := models.PartialProduct{
			Title:     title,
			PriceText: priceText,
			Image:     image,
			URL:       s.absoluteURL(href),
			Source:    s.source,
		}
		if ratingText := firstGroup(s.ratingRe, block); ratingText != "" {
			if r, err := strconv.ParseFloat(ratingText, 64); err == nil {
				part.Rating = &r
			}
		}
		out = append(out, part)
	}
	return out
}

func (s *cardScraper) absoluteURL(href string) string {
	href = html.UnescapeString(strings.TrimSpace(href))
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return s.baseURL + href
}

// nearestImageBefore returns the src of the image tag closest before pos,
// scanning at most window bytes back. Approximates "this card's thumbnail"
// without a DOM parse.
func nearestImageBefore(page string, pos, window int) string {
	start := pos - window
	if start < 0 {
		start = 0
	}
	matches := imgSrcRe.FindAllStringSubmatch(page[start:pos], -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1][1]
}

func firstGroup(re *regexp.Regexp, s string) string {
	if re == nil {
		return ""
	}
	if m := re.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// cleanText strips any residual markup and entity-escapes from a captured
// title fragment
func cleanText(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

var tagRe = regexp.MustCompile(`<[^>]*>`)
