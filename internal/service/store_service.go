// internal/service/store_service.go
package service

import (
	"context"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/repository"
)

type StoreService struct {
	stores repository.StoreRepository
	skus   repository.SKURepository
}

func NewStoreService(stores repository.StoreRepository, skus repository.SKURepository) *StoreService {
	return &StoreService{stores: stores, skus: skus}
}

func (s *StoreService) ListStores(ctx context.Context) ([]domain.Store, error) {
	return s.stores.List(ctx)
}

func (s *StoreService) GetStore(ctx context.Context, storeID string) (*domain.Store, error) {
	return s.stores.GetByStoreID(ctx, storeID)
}

func (s *StoreService) ListSKUs(ctx context.Context, storeID string) ([]domain.SKU, error) {
	store, err := s.stores.GetByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.skus.ListByStore(ctx, store.ID)
}

// UpdateStock sets the current stock level for one sku. Returns
// ErrNotFound when either the store or the sku does not exist.
func (s *StoreService) UpdateStock(ctx context.Context, storeID, skuID string, stock int) error {
	store, err := s.stores.GetByStoreID(ctx, storeID)
	if err != nil {
		return err
	}
	updated, err := s.skus.UpdateStock(ctx, store.ID, skuID, stock)
	if err != nil {
		return err
	}
	if !updated {
		return repository.ErrNotFound
	}
	return nil
}
