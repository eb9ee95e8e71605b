// internal/service/reorder_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/kiranalabs/restock/internal/domain"
)

func reorderFixture() *ReorderService {
	stores := &fakeStoreRepo{store: domain.Store{ID: 1, StoreID: "STORE001", Name: "STORE001"}}
	skus := &fakeSKURepo{skus: []domain.SKU{
		{ID: 1, SKUID: "sugar", SKUName: "Sugar", CurrentStock: 0},
		{ID: 2, SKUID: "rice", SKUName: "Rice", CurrentStock: 0},
		{ID: 3, SKUID: "salt", SKUName: "Salt", CurrentStock: 0},
		{ID: 4, SKUID: "atta", SKUName: "Atta", CurrentStock: 0},
	}}

	start := day(2026, time.April, 1)
	forecasts := &fakeForecastRepo{}
	for skuDBID := int64(1); skuDBID <= 4; skuDBID++ {
		for i := 0; i < 7; i++ {
			forecasts.rows = append(forecasts.rows, domain.ForecastResult{
				StoreID:        1,
				SKUID:          skuDBID,
				ForecastDate:   start.AddDate(0, 0, i),
				PredictedUnits: 10,
				ModelUsed:      domain.ModelMovingAverage,
				Horizon:        7,
			})
		}
	}

	return NewReorderService(stores, skus, &fakeSalesRepo{}, forecasts,
		&fakeReorderRepo{}, nil, ReorderPolicy{}, 7)
}

// Every product here is out of stock, so the whole batch shares the
// critical tier and ties must come out in catalog order every time.
func TestGenerateOrderStable(t *testing.T) {
	svc := reorderFixture()

	first, err := svc.Generate(context.Background(), "STORE001", 7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(first) != 4 {
		t.Fatalf("got %d items, want 4", len(first))
	}

	wantOrder := []string{"sugar", "rice", "salt", "atta"}
	for i, item := range first {
		if item.SKUID != wantOrder[i] {
			t.Fatalf("item %d = %q, want catalog order %v", i, item.SKUID, wantOrder)
		}
	}

	for run := 0; run < 5; run++ {
		again, err := svc.Generate(context.Background(), "STORE001", 7)
		if err != nil {
			t.Fatalf("Generate run %d: %v", run, err)
		}
		for i := range first {
			if again[i].SKUID != first[i].SKUID {
				t.Fatalf("run %d: item %d = %q, want %q", run, i, again[i].SKUID, first[i].SKUID)
			}
		}
	}
}

func TestGenerateSkipsCoveredProducts(t *testing.T) {
	svc := reorderFixture()

	// Plenty of stock: nothing to reorder for this product.
	if _, err := svc.skus.UpdateStock(context.Background(), 1, "rice", 500); err != nil {
		t.Fatalf("UpdateStock: %v", err)
	}

	items, err := svc.Generate(context.Background(), "STORE001", 7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, item := range items {
		if item.SKUID == "rice" {
			t.Error("covered product still in the reorder list")
		}
	}
	if len(items) != 3 {
		t.Errorf("got %d items, want 3", len(items))
	}
}
