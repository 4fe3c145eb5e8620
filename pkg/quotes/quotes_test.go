package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      "test-token",
		httpClient: http.DefaultClient,
	}
}

func TestClient_Lookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stock/AAPL/quote":
			if r.URL.Query().Get("token") != "test-token" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"symbol":"AAPL","companyName":"Apple Inc","latestPrice":150.25}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	t.Run("KnownSymbol", func(t *testing.T) {
		quote, err := client.Lookup(context.Background(), "aapl")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", quote.Symbol)
		assert.Equal(t, "Apple Inc", quote.Name)
		assert.Equal(t, "150.25", quote.Price.StringFixed(2))
	})

	t.Run("UnknownSymbol", func(t *testing.T) {
		_, err := client.Lookup(context.Background(), "ZZZZ")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("BlankSymbol", func(t *testing.T) {
		_, err := client.Lookup(context.Background(), "   ")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestClient_Lookup_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Lookup(context.Background(), "AAPL")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestClient_Lookup_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Lookup(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "AAPL", Normalize(" aapl "))
	assert.Equal(t, "NET", Normalize("net"))
	assert.Equal(t, "", Normalize("  "))
}
