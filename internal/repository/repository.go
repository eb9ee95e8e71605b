// internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kiranalabs/restock/internal/domain"
)

// ErrNotFound is returned when a referenced store or sku does not exist.
var ErrNotFound = errors.New("not found")

// StoreRepository resolves stores by their natural id.
type StoreRepository interface {
	GetByStoreID(ctx context.Context, storeID string) (*domain.Store, error)
	GetOrCreate(ctx context.Context, storeID, name string) (*domain.Store, error)
	List(ctx context.Context) ([]domain.Store, error)
}

// SKURepository manages the per-store product catalog.
type SKURepository interface {
	ListByStore(ctx context.Context, storeDBID int64) ([]domain.SKU, error)
	GetByNaturalID(ctx context.Context, storeDBID int64, skuID string) (*domain.SKU, error)
	// EnsureMany upserts every distinct sku referenced by the records
	// and returns the catalog keyed by natural sku id.
	EnsureMany(ctx context.Context, storeDBID int64, records []domain.SalesRecord) (map[string]domain.SKU, error)
	UpdateStock(ctx context.Context, storeDBID int64, skuID string, stock int) (bool, error)
}

// SalesRepository persists the immutable sales history.
type SalesRepository interface {
	// ReplaceWindow deletes prior records for the affected skus within
	// the new batch's observed date span, then inserts the batch. A
	// windowed overwrite: history outside the span survives.
	ReplaceWindow(ctx context.Context, storeDBID int64, txs []domain.SalesTransaction) error
	ListByStore(ctx context.Context, storeDBID int64, skuDBIDs []int64) ([]domain.SalesTransaction, error)
}

// ForecastRepository persists forecast batches.
type ForecastRepository interface {
	// Supersede removes future-dated forecasts for the forecasted skus
	// and inserts the new batch in one transaction.
	Supersede(ctx context.Context, storeDBID int64, skuDBIDs []int64, results []domain.ForecastResult) error
	List(ctx context.Context, storeDBID int64, horizon int, skuDBID *int64) ([]domain.ForecastResult, error)
}

// ReorderRepository persists recommendation batches. Only one batch per
// store is active at a time; superseded batches are kept as history.
type ReorderRepository interface {
	Supersede(ctx context.Context, storeDBID int64, recs []domain.ReorderRecommendation) error
	ListActive(ctx context.Context, storeDBID int64) ([]domain.ReorderRecommendation, error)
}

// FestivalRepository stores the festival calendar used for seasonality.
type FestivalRepository interface {
	Create(ctx context.Context, f *domain.Festival) error
	GetByDate(ctx context.Context, date time.Time) (*domain.Festival, error)
	GetRange(ctx context.Context, start, end time.Time) ([]domain.Festival, error)
	Exists(ctx context.Context, name string, date time.Time) (bool, error)
	List(ctx context.Context) ([]domain.Festival, error)
}
