// Package scrape serves the on-demand paths: rich single-page extraction
// and the paid scraping-proxy search.
package scrape

import (
	"context"
	"slices"

	"github.com/sirupsen/logrus"

	"product-scout/pkg/extract"
	"product-scout/pkg/fetch"
	"product-scout/pkg/models"
	"product-scout/pkg/utils"
)

// PageScraper produces the rich single-page detail record: structured data
// merged with Open Graph metadata. No crawling, no link following.
type PageScraper struct {
	fetcher *fetch.Fetcher
	ai      AIExtractor
	log     *logrus.Entry
}

// AIExtractor is the optional last-resort extraction used when a page has
// neither structured data nor usable meta tags.
type AIExtractor interface {
	Extract(ctx context.Context, html, pageURL string) *models.PartialProduct
}

func NewPageScraper(fetcher *fetch.Fetcher, ai AIExtractor, log *logrus.Logger) *PageScraper {
	return &PageScraper{fetcher: fetcher, ai: ai, log: log.WithField("component", "pagescrape")}
}

// ScrapeURL fetches one page and assembles a PageDetail from whatever
// extraction layers yield. Only the fetch itself can fail; extraction gaps
// just leave fields at their zero values.
func (s *PageScraper) ScrapeURL(ctx context.Context, pageURL string) (*models.PageDetail, error) {
	page, err := s.fetcher.FetchHTML(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := extract.ParseHTML(page)
	if err != nil {
		return nil, err
	}

	detail := &models.PageDetail{
		Images:        []string{},
		Specs:         map[string]string{},
		SampleReviews: []models.Review{},
	}

	var part *models.PartialProduct
	if parts := extract.JSONLD(doc, pageURL); len(parts) > 0 {
		part = &parts[0]
	}
	og := extract.OpenGraph(doc, page, pageURL)

	if part == nil && og == nil && s.ai != nil {
		part = s.ai.Extract(ctx, page, pageURL)
	}

	if part != nil {
		applyPartial(detail, part)
	}
	if og != nil {
		fillFromOpenGraph(detail, og)
	} else if img := extract.MetaContent(doc, "og:image"); img != "" && !slices.Contains(detail.Images, img) {
		detail.Images = append(detail.Images, img)
	}

	s.log.WithFields(logrus.Fields{"url": pageURL, "title": detail.Title}).Debug("Page scraped")
	return detail, nil
}

func applyPartial(d *models.PageDetail, p *models.PartialProduct) {
	d.Title = p.Title
	d.Description = p.Description
	d.Brand = p.Brand
	d.SKU = p.SKU
	d.Currency = p.Currency
	d.Availability = p.Availability
	d.Seller = p.Seller
	if p.Image != "" {
		d.Images = append(d.Images, p.Image)
	}
	if p.Price != nil {
		d.Price = *p.Price
	} else if price, ok := utils.ParsePrice(p.PriceText); ok {
		d.Price = price
	}
	if p.Rating != nil {
		d.Rating = *p.Rating
	}
	if p.ReviewCount != nil {
		d.ReviewCount = *p.ReviewCount
	}
	if p.Specifications != nil {
		d.Specs = p.Specifications
	}
	if len(p.Reviews) > 0 {
		d.SampleReviews = p.Reviews
	}
}

// fillFromOpenGraph fills only the gaps structured data left behind, except
// for images where the Open Graph image is always appended as a fallback
// view of the page.
func fillFromOpenGraph(d *models.PageDetail, og *models.PartialProduct) {
	if d.Title == "" {
		d.Title = og.Title
	}
	if d.Description == "" {
		d.Description = og.Description
	}
	if og.Image != "" && !slices.Contains(d.Images, og.Image) {
		d.Images = append(d.Images, og.Image)
	}
	if d.Price == 0 {
		if price, ok := utils.ParsePrice(og.PriceText); ok {
			d.Price = price
		}
	}
	if d.Currency == "" {
		d.Currency = og.Currency
	}
}
