package scrape

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-scout/pkg/models"
	"product-scout/pkg/utils"
)

func TestProxyClient_NotConfigured(t *testing.T) {
	c := NewProxyClient(http.DefaultClient, "", "", testLogger())
	assert.False(t, c.Configured())

	_, err := c.Search(context.Background(), "lamp")
	assert.ErrorIs(t, err, utils.ErrNotConfigured)
}

func TestProxyClient_Search(t *testing.T) {
	var gotKey, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		gotQuery = r.URL.Query().Get("query")
		io.WriteString(w, `{"results":[
			{"name":"Desk Lamp","price":1299,"list_price":1999,"price_currency":"INR",
			 "image":"https://cdn.test/lamp.jpg","url":"https://www.amazon.in/dp/B0LAMP",
			 "stars":4.4,"total_reviews":321},
			{"name":"","price":100,"url":"https://www.amazon.in/dp/B0NONAME"}
		]}`)
	}))
	defer srv.Close()

	c := NewProxyClient(srv.Client(), "proxy-key", srv.URL, testLogger())
	products, err := c.Search(context.Background(), "desk lamp")
	require.NoError(t, err)

	assert.Equal(t, "proxy-key", gotKey)
	assert.Equal(t, "desk lamp", gotQuery)

	// the nameless record fails normalization and is dropped
	require.Len(t, products, 1)
	p := products[0]
	assert.Equal(t, "Desk Lamp", p.Title)
	assert.Equal(t, 1299.0, p.Price)
	assert.Equal(t, 1999.0, p.OriginalPrice)
	assert.Equal(t, "INR", p.Currency)
	assert.Equal(t, 4.4, p.Rating)
	assert.Equal(t, 321, p.ReviewCount)
	assert.Equal(t, models.SourceProxy, p.Source)
}

func TestProxyClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewProxyClient(srv.Client(), "k", srv.URL, testLogger())
	_, err := c.Search(context.Background(), "lamp")
	assert.ErrorIs(t, err, utils.ErrProviderFailed)
}
