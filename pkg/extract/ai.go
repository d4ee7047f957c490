package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"product-scout/pkg/models"
	"product-scout/pkg/utils"
)

const aiPrompt = `You are a product data extractor. Below is the HTML of a product page.
Extract the product information and respond with ONLY a JSON object, no prose,
no markdown fences, matching exactly this shape (omit unknown fields):

{"title": string, "price": number, "originalPrice": number, "currency": string,
 "rating": number, "reviewCount": number, "image": string, "brand": string,
 "availability": string, "description": string}

Page URL: %URL%

HTML:
%HTML%`

// AIExtractor is the last-resort extraction strategy: truncated page HTML is
// sent to a generative text service with a strict JSON-output prompt. It never
// returns an error; any failure yields nil so the pipeline continues.
type AIExtractor struct {
	llm          llms.Model
	maxHTMLChars int
	log          *logrus.Entry
}

// NewAIExtractor creates an AIExtractor, or returns (nil, err) when the
// underlying client cannot be constructed. A nil *AIExtractor is safe to call.
func NewAIExtractor(apiKey, model string, maxHTMLChars int, log *logrus.Entry) (*AIExtractor, error) {
	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, err
	}
	if maxHTMLChars <= 0 {
		maxHTMLChars = 20000
	}
	return &AIExtractor{llm: llm, maxHTMLChars: maxHTMLChars, log: log}, nil
}

// Extract asks the text service for a structured product record. Returns nil
// on any failure (service error, malformed JSON, empty result).
func (a *AIExtractor) Extract(ctx context.Context, html, pageURL string) *models.PartialProduct {
	if a == nil || a.llm == nil {
		return nil
	}
	extractLog := a.log.WithField("url", pageURL)

	prompt := strings.NewReplacer(
		"%URL%", pageURL,
		"%HTML%", utils.Truncate(html, a.maxHTMLChars),
	).Replace(aiPrompt)

	out, err := llms.GenerateFromSinglePrompt(ctx, a.llm, prompt, llms.WithTemperature(0))
	if err != nil {
		extractLog.Debugf("AI extraction failed: %v", err)
		return nil
	}

	var node map[string]interface{}
	if err := json.Unmarshal([]byte(stripCodeFences(out)), &node); err != nil {
		extractLog.Debugf("AI returned non-JSON output: %v", err)
		return nil
	}

	part := &models.PartialProduct{
		Title:        asString(node["title"]),
		Currency:     asString(node["currency"]),
		Image:        asString(node["image"]),
		Brand:        asString(node["brand"]),
		Availability: asString(node["availability"]),
		Description:  asString(node["description"]),
		URL:          pageURL,
		Source:       models.SourceAI,
	}
	if price, ok := asFloat(node["price"]); ok {
		part.Price = &price
	}
	if original, ok := asFloat(node["originalPrice"]); ok {
		part.OriginalPrice = &original
	}
	if rating, ok := asFloat(node["rating"]); ok {
		part.Rating = &rating
	}
	if count, ok := asFloat(node["reviewCount"]); ok {
		n := int(count)
		part.ReviewCount = &n
	}
	return part
}

// stripCodeFences removes markdown fence markers some models wrap JSON in
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
