// internal/market/mandi_test.go
package market

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLatestPricesWithoutKeyFallsBack(t *testing.T) {
	c := NewClient("")
	prices, err := c.LatestPrices(context.Background(), "", "")
	if err != nil {
		t.Fatalf("LatestPrices: %v", err)
	}
	if len(prices) != 3 {
		t.Fatalf("got %d fallback prices, want 3", len(prices))
	}
	if prices[0].Commodity != "Sugar" || !prices[0].ModalPrice.Equal(decimal.NewFromInt(4100)) {
		t.Errorf("unexpected first fallback price: %+v", prices[0])
	}
}

func TestParsePrice(t *testing.T) {
	if got := parsePrice("4100"); !got.Equal(decimal.NewFromInt(4100)) {
		t.Errorf("got %v", got)
	}
	if got := parsePrice("36.50"); !got.Equal(decimal.RequireFromString("36.50")) {
		t.Errorf("got %v", got)
	}
	if got := parsePrice("not a number"); !got.IsZero() {
		t.Errorf("got %v, want zero", got)
	}
}
