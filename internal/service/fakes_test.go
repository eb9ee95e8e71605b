// internal/service/fakes_test.go
package service

import (
	"context"
	"time"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/repository"
	"github.com/kiranalabs/restock/internal/storage"
)

type fakeStoreRepo struct {
	store domain.Store
}

func (f *fakeStoreRepo) GetByStoreID(_ context.Context, storeID string) (*domain.Store, error) {
	if storeID != f.store.StoreID {
		return nil, repository.ErrNotFound
	}
	s := f.store
	return &s, nil
}

func (f *fakeStoreRepo) GetOrCreate(_ context.Context, storeID, name string) (*domain.Store, error) {
	s := f.store
	return &s, nil
}

func (f *fakeStoreRepo) List(_ context.Context) ([]domain.Store, error) {
	return []domain.Store{f.store}, nil
}

type fakeSKURepo struct {
	skus []domain.SKU
}

func (f *fakeSKURepo) ListByStore(_ context.Context, _ int64) ([]domain.SKU, error) {
	out := make([]domain.SKU, len(f.skus))
	copy(out, f.skus)
	return out, nil
}

func (f *fakeSKURepo) GetByNaturalID(_ context.Context, _ int64, skuID string) (*domain.SKU, error) {
	for _, sku := range f.skus {
		if sku.SKUID == skuID {
			s := sku
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSKURepo) EnsureMany(_ context.Context, _ int64, records []domain.SalesRecord) (map[string]domain.SKU, error) {
	out := make(map[string]domain.SKU)
	for _, sku := range f.skus {
		out[sku.SKUID] = sku
	}
	next := int64(len(f.skus) + 1)
	for _, rec := range records {
		if _, ok := out[rec.SKUID]; !ok {
			sku := domain.SKU{ID: next, SKUID: rec.SKUID, SKUName: rec.SKUName}
			f.skus = append(f.skus, sku)
			out[rec.SKUID] = sku
			next++
		}
	}
	return out, nil
}

func (f *fakeSKURepo) UpdateStock(_ context.Context, _ int64, skuID string, stock int) (bool, error) {
	for i := range f.skus {
		if f.skus[i].SKUID == skuID {
			f.skus[i].CurrentStock = stock
			return true, nil
		}
	}
	return false, nil
}

type fakeSalesRepo struct {
	txs      []domain.SalesTransaction
	replaced [][]domain.SalesTransaction
}

func (f *fakeSalesRepo) ReplaceWindow(_ context.Context, _ int64, txs []domain.SalesTransaction) error {
	f.replaced = append(f.replaced, txs)
	return nil
}

func (f *fakeSalesRepo) ListByStore(_ context.Context, _ int64, _ []int64) ([]domain.SalesTransaction, error) {
	return f.txs, nil
}

type fakeForecastRepo struct {
	rows       []domain.ForecastResult
	superseded []domain.ForecastResult
}

func (f *fakeForecastRepo) Supersede(_ context.Context, _ int64, _ []int64, results []domain.ForecastResult) error {
	f.superseded = results
	return nil
}

func (f *fakeForecastRepo) List(_ context.Context, _ int64, horizon int, skuDBID *int64) ([]domain.ForecastResult, error) {
	var out []domain.ForecastResult
	for _, row := range f.rows {
		if row.Horizon != horizon {
			continue
		}
		if skuDBID != nil && row.SKUID != *skuDBID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

type fakeReorderRepo struct {
	active []domain.ReorderRecommendation
}

func (f *fakeReorderRepo) Supersede(_ context.Context, _ int64, recs []domain.ReorderRecommendation) error {
	f.active = recs
	return nil
}

func (f *fakeReorderRepo) ListActive(_ context.Context, _ int64) ([]domain.ReorderRecommendation, error) {
	return f.active, nil
}

type uploadedObject struct {
	Key         string
	ContentType string
}

type fakeStorage struct {
	objects  []storage.ObjectInfo
	uploaded []uploadedObject
}

func (f *fakeStorage) UploadObject(_ context.Context, key string, data []byte, contentType string) error {
	f.uploaded = append(f.uploaded, uploadedObject{Key: key, ContentType: contentType})
	f.objects = append(f.objects, storage.ObjectInfo{Key: key, Size: int64(len(data))})
	return nil
}

func (f *fakeStorage) ListObjects(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	out := make([]storage.ObjectInfo, len(f.objects))
	copy(out, f.objects)
	return out, nil
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
