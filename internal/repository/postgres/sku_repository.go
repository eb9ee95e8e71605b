// internal/repository/postgres/sku_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/repository"
)

type skuRepository struct {
	db *DB
}

func NewSKURepository(db *DB) repository.SKURepository {
	return &skuRepository{db: db}
}

func (r *skuRepository) ListByStore(ctx context.Context, storeDBID int64) ([]domain.SKU, error) {
	var skus []domain.SKU
	query := `
		SELECT id, store_id, sku_id, sku_name, category, current_stock, created_at, updated_at
		FROM skus
		WHERE store_id = $1
		ORDER BY sku_id
	`
	if err := r.db.SelectContext(ctx, &skus, query, storeDBID); err != nil {
		return nil, fmt.Errorf("failed to list skus: %w", err)
	}
	return skus, nil
}

func (r *skuRepository) GetByNaturalID(ctx context.Context, storeDBID int64, skuID string) (*domain.SKU, error) {
	var sku domain.SKU
	query := `
		SELECT id, store_id, sku_id, sku_name, category, current_stock, created_at, updated_at
		FROM skus
		WHERE store_id = $1 AND sku_id = $2
	`
	err := r.db.GetContext(ctx, &sku, query, storeDBID, skuID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sku %s: %w", skuID, err)
	}
	return &sku, nil
}

// EnsureMany upserts every distinct sku in the batch and returns the
// resulting catalog keyed by natural sku id. Names and categories take
// the latest value seen in the upload.
func (r *skuRepository) EnsureMany(ctx context.Context, storeDBID int64, records []domain.SalesRecord) (map[string]domain.SKU, error) {
	type skuInfo struct {
		name     string
		category string
	}
	distinct := make(map[string]skuInfo)
	for _, rec := range records {
		distinct[rec.SKUID] = skuInfo{name: rec.SKUName, category: rec.Category}
	}

	out := make(map[string]domain.SKU, len(distinct))

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO skus (store_id, sku_id, sku_name, category)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (store_id, sku_id) DO UPDATE SET
				sku_name = EXCLUDED.sku_name,
				category = CASE WHEN EXCLUDED.category <> '' THEN EXCLUDED.category ELSE skus.category END,
				updated_at = NOW()
			RETURNING id, sku_id, sku_name, category, current_stock
		`
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare sku upsert: %w", err)
		}
		defer stmt.Close()

		for skuID, info := range distinct {
			var sku domain.SKU
			sku.StoreID = storeDBID
			err := stmt.QueryRowContext(ctx, storeDBID, skuID, info.name, info.category).
				Scan(&sku.ID, &sku.SKUID, &sku.SKUName, &sku.Category, &sku.CurrentStock)
			if err != nil {
				return fmt.Errorf("failed to upsert sku %s: %w", skuID, err)
			}
			out[skuID] = sku
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *skuRepository) UpdateStock(ctx context.Context, storeDBID int64, skuID string, stock int) (bool, error) {
	query := `
		UPDATE skus
		SET current_stock = $3, updated_at = NOW()
		WHERE store_id = $1 AND sku_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, storeDBID, skuID, stock)
	if err != nil {
		return false, fmt.Errorf("failed to update stock for %s: %w", skuID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return n > 0, nil
}
