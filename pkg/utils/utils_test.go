package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"plain number", "1299", 1299, true},
		{"decimal", "1299.50", 1299.50, true},
		{"indian comma grouping", "1,29,900", 129900, true},
		{"western comma grouping", "1,299.00", 1299, true},
		{"rupee symbol", "₹2,499", 2499, true},
		{"rs prefix", "Rs. 599", 599, true},
		{"dollar symbol", "$12.99", 12.99, true},
		{"surrounding text", "Price: 450 only", 450, true},
		{"empty", "", 0, false},
		{"no digits", "out of stock", 0, false},
		{"multiple dots", "1.2.3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestHostname(t *testing.T) {
	assert.Equal(t, "www.amazon.in", Hostname("https://www.Amazon.in/dp/B0TEST?th=1"))
	assert.Equal(t, "", Hostname("not a url\x7f"))
	assert.Equal(t, "", Hostname("/relative/path"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 10))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0)) // 0 means no cap
}

func TestNormalizeURL(t *testing.T) {
	u, err := url.Parse("HTTPS://Example.COM/Products/?q=shoes#reviews")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/Products?q=shoes", NormalizeURL(u))

	u2, err := url.Parse("https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", NormalizeURL(u2))

	assert.Equal(t, "", NormalizeURL(nil))
}

func TestCategorizeError(t *testing.T) {
	assert.Equal(t, "None", CategorizeError(nil))
	assert.Equal(t, "Policy_Robots", CategorizeError(ErrRobotsDisallowed))
	assert.Equal(t, "Config_Missing", CategorizeError(ErrNotConfigured))
}
