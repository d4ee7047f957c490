package utils

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// priceCleanRe strips everything that is not a digit or decimal point
// (currency symbols, thousands separators, surrounding text)
var priceCleanRe = regexp.MustCompile(`[^0-9.]`)

// ParsePrice extracts a non-negative price from a raw string as found in page
// markup ("1,299.00", "₹2,499", "Rs. 599"). Returns false if no usable number
// is present.
func ParsePrice(raw string) (float64, bool) {
	cleaned := priceCleanRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return 0, false
	}
	// A stray trailing dot ("1299.") still parses; multiple dots do not
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || price < 0 {
		return 0, false
	}
	return price, true
}

// Hostname returns the lower-cased hostname of a URL string, or "" if the URL
// cannot be parsed or has no host
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// Truncate bounds s to at most max bytes. Used to cap HTML handed to the AI
// extractor.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}

// NormalizeURL standardizes a URL string for visited-set comparison: lowercase
// scheme/host, empty path becomes "/", trailing slash and fragment removed.
// Query strings are kept because search/category pages differ only by query.
func NormalizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	normalized := *u // work on a copy
	normalized.Scheme = strings.ToLower(normalized.Scheme)
	normalized.Host = strings.ToLower(normalized.Host)
	if normalized.Path == "" {
		normalized.Path = "/"
	} else if len(normalized.Path) > 1 && strings.HasSuffix(normalized.Path, "/") {
		normalized.Path = normalized.Path[:len(normalized.Path)-1]
	}
	normalized.Fragment = ""
	return normalized.String()
}
