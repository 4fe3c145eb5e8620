package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"papertrade/pkg/config"
)

// ErrNotFound is returned when a symbol does not resolve to a quote.
// Callers treat any upstream failure on the trade path uniformly as
// symbol-not-found, so this is the only sentinel the package exports.
var ErrNotFound = errors.New("quotes: symbol not found")

// Quote is a point-in-time price for a symbol.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// Source resolves ticker symbols to current quotes.
type Source interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}

// Client fetches quotes from an IEX-style HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a quote API client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Quotes.APIURL, "/"),
		token:   cfg.Quotes.APIToken,
		httpClient: &http.Client{
			Timeout: cfg.Quotes.Timeout,
		},
	}
}

// quoteResponse mirrors the upstream API payload.
type quoteResponse struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	LatestPrice float64 `json:"latestPrice"`
}

// Lookup fetches the current quote for a symbol. Unknown symbols return
// ErrNotFound; transport and decoding failures are returned wrapped.
func (c *Client) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return nil, ErrNotFound
	}

	endpoint := fmt.Sprintf("%s/stock/%s/quote?token=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("quote API returned status %d", resp.StatusCode)
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	if body.Symbol == "" {
		return nil, ErrNotFound
	}

	return &Quote{
		Symbol: Normalize(body.Symbol),
		Name:   body.CompanyName,
		Price:  decimal.NewFromFloat(body.LatestPrice),
	}, nil
}

// Normalize canonicalizes a ticker symbol for lookups and ledger rows.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
