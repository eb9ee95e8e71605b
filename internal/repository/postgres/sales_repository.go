// internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/repository"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

// ReplaceWindow deletes existing records for the batch's skus within the
// batch's date span and inserts the new rows, all in one transaction.
// Re-uploading a corrected sheet replaces that window instead of
// stacking duplicate days on top of it.
func (r *salesRepository) ReplaceWindow(ctx context.Context, storeDBID int64, txs []domain.SalesTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	normalizeTxDates(txs)

	minDate, maxDate := txs[0].Date, txs[0].Date
	skuSet := make(map[int64]bool)
	for _, t := range txs {
		if t.Date.Before(minDate) {
			minDate = t.Date
		}
		if t.Date.After(maxDate) {
			maxDate = t.Date
		}
		skuSet[t.SKUID] = true
	}
	skuIDs := make([]int64, 0, len(skuSet))
	for id := range skuSet {
		skuIDs = append(skuIDs, id)
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		del := `
			DELETE FROM sales_transactions
			WHERE store_id = $1 AND sku_id = ANY($2) AND date BETWEEN $3 AND $4
		`
		if _, err := tx.ExecContext(ctx, del, storeDBID, pq.Array(skuIDs), minDate, maxDate); err != nil {
			return fmt.Errorf("failed to clear sales window: %w", err)
		}

		ins := `
			INSERT INTO sales_transactions (store_id, sku_id, date, units_sold, price, discount)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		stmt, err := tx.PrepareContext(ctx, ins)
		if err != nil {
			return fmt.Errorf("failed to prepare sales insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range txs {
			if _, err := stmt.ExecContext(ctx, storeDBID, t.SKUID, t.Date, t.UnitsSold, t.Price, t.Discount); err != nil {
				return fmt.Errorf("failed to insert sales record: %w", err)
			}
		}
		return nil
	})
}

func (r *salesRepository) ListByStore(ctx context.Context, storeDBID int64, skuDBIDs []int64) ([]domain.SalesTransaction, error) {
	var txs []domain.SalesTransaction
	query := `
		SELECT id, store_id, sku_id, date, units_sold, price, discount, created_at
		FROM sales_transactions
		WHERE store_id = $1
	`
	args := []interface{}{storeDBID}
	if len(skuDBIDs) > 0 {
		query += ` AND sku_id = ANY($2)`
		args = append(args, pq.Array(skuDBIDs))
	}
	query += ` ORDER BY sku_id, date`

	if err := r.db.SelectContext(ctx, &txs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return txs, nil
}

// normalizeTxDates truncates transaction dates to midnight UTC so the
// DATE column comparison behaves the same regardless of upload timezone.
func normalizeTxDates(txs []domain.SalesTransaction) {
	for i := range txs {
		d := txs[i].Date
		txs[i].Date = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
}
