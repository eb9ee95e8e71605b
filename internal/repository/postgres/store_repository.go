// internal/repository/postgres/store_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/repository"
)

type storeRepository struct {
	db *DB
}

func NewStoreRepository(db *DB) repository.StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) GetByStoreID(ctx context.Context, storeID string) (*domain.Store, error) {
	var store domain.Store
	query := `
		SELECT id, store_id, name, location, created_at, updated_at
		FROM stores
		WHERE store_id = $1
	`
	err := r.db.GetContext(ctx, &store, query, storeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store %s: %w", storeID, err)
	}
	return &store, nil
}

func (r *storeRepository) GetOrCreate(ctx context.Context, storeID, name string) (*domain.Store, error) {
	var store domain.Store
	query := `
		INSERT INTO stores (store_id, name)
		VALUES ($1, $2)
		ON CONFLICT (store_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, store_id, name, location, created_at, updated_at
	`
	if err := r.db.GetContext(ctx, &store, query, storeID, name); err != nil {
		return nil, fmt.Errorf("failed to upsert store %s: %w", storeID, err)
	}
	return &store, nil
}

func (r *storeRepository) List(ctx context.Context) ([]domain.Store, error) {
	var stores []domain.Store
	query := `
		SELECT id, store_id, name, location, created_at, updated_at
		FROM stores
		ORDER BY store_id
	`
	if err := r.db.SelectContext(ctx, &stores, query); err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}
