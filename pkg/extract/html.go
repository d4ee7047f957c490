package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses raw page text into a goquery document. Callers parse once
// and hand the document to the extractors alongside the raw text.
func ParseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
