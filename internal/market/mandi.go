// internal/market/mandi.go
//
// Mandi (wholesale market) price lookups against the Open Government
// Data platform India. Prices are advisory context for the store owner,
// so every failure path degrades to static fallback data.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// baseURL is the OGD India resource for current daily commodity prices.
const baseURL = "https://api.data.gov.in/resource/9ef2731d-91d2-4581-adbc-a24ad7373c04"

const (
	requestTimeout = 10 * time.Second
	resultLimit    = 10
)

// Price is one commodity quote from a mandi.
type Price struct {
	Commodity  string          `json:"commodity"`
	Market     string          `json:"market"`
	State      string          `json:"state"`
	MaxPrice   decimal.Decimal `json:"max_price"`
	ModalPrice decimal.Decimal `json:"modal_price"`
	Date       string          `json:"date"`
}

// Client fetches commodity prices, falling back to canned data when the
// API key is missing or the upstream call fails.
type Client struct {
	apiKey string
	http   *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: requestTimeout},
	}
}

// ogdRecord is the upstream wire shape; prices arrive as strings.
type ogdRecord struct {
	Commodity  string `json:"commodity"`
	Market     string `json:"market"`
	State      string `json:"state"`
	MaxPrice   string `json:"max_price"`
	ModalPrice string `json:"modal_price"`
	ArrivalOn  string `json:"arrival_date"`
}

type ogdResponse struct {
	Records []ogdRecord `json:"records"`
}

// LatestPrices returns current quotes, optionally filtered by commodity
// and state.
func (c *Client) LatestPrices(ctx context.Context, commodity, state string) ([]Price, error) {
	if c.apiKey == "" {
		log.Warn().Msg("OGD India API key not configured, returning fallback mandi prices")
		return fallbackPrices(), nil
	}

	prices, err := c.fetch(ctx, commodity, state)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch mandi prices, returning fallback data")
		return fallbackPrices(), nil
	}
	return prices, nil
}

func (c *Client) fetch(ctx context.Context, commodity, state string) ([]Price, error) {
	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("format", "json")
	params.Set("limit", fmt.Sprintf("%d", resultLimit))
	if commodity != "" {
		params.Set("filters[commodity]", commodity)
	}
	if state != "" {
		params.Set("filters[state]", state)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build mandi price request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mandi price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mandi price API returned status %d", resp.StatusCode)
	}

	var payload ogdResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode mandi price response: %w", err)
	}

	prices := make([]Price, 0, len(payload.Records))
	for _, rec := range payload.Records {
		prices = append(prices, Price{
			Commodity:  rec.Commodity,
			Market:     rec.Market,
			State:      rec.State,
			MaxPrice:   parsePrice(rec.MaxPrice),
			ModalPrice: parsePrice(rec.ModalPrice),
			Date:       rec.ArrivalOn,
		})
	}
	return prices, nil
}

// parsePrice tolerates the odd malformed quote; a bad record should not
// sink the whole listing.
func parsePrice(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func fallbackPrices() []Price {
	return []Price{
		{Commodity: "Sugar", Market: "Delhi", State: "Delhi",
			MaxPrice: decimal.NewFromInt(4200), ModalPrice: decimal.NewFromInt(4100), Date: "2026-02-03"},
		{Commodity: "Rice", Market: "Karnal", State: "Haryana",
			MaxPrice: decimal.NewFromInt(3800), ModalPrice: decimal.NewFromInt(3600), Date: "2026-02-03"},
		{Commodity: "Salt", Market: "Mumbai", State: "Maharashtra",
			MaxPrice: decimal.NewFromInt(2500), ModalPrice: decimal.NewFromInt(2400), Date: "2026-02-03"},
	}
}
