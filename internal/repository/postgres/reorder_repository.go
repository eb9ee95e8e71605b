// internal/repository/postgres/reorder_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/repository"
)

type reorderRepository struct {
	db *DB
}

func NewReorderRepository(db *DB) repository.ReorderRepository {
	return &reorderRepository{db: db}
}

// Supersede deactivates the store's current recommendation batch and
// inserts the new one. Recommendations are regenerated wholesale, so the
// invariant is simple: at most one active batch per store.
func (r *reorderRepository) Supersede(ctx context.Context, storeDBID int64, recs []domain.ReorderRecommendation) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		deactivate := `
			UPDATE reorder_recommendations
			SET is_active = FALSE
			WHERE store_id = $1 AND is_active = TRUE
		`
		if _, err := tx.ExecContext(ctx, deactivate, storeDBID); err != nil {
			return fmt.Errorf("failed to deactivate recommendations: %w", err)
		}

		if len(recs) == 0 {
			return nil
		}

		ins := `
			INSERT INTO reorder_recommendations (
				store_id, sku_id, reorder_qty, reason, urgency,
				forecasted_demand, current_stock, velocity_change_pct, is_active
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		`
		stmt, err := tx.PrepareContext(ctx, ins)
		if err != nil {
			return fmt.Errorf("failed to prepare recommendation insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range recs {
			_, err := stmt.ExecContext(ctx,
				storeDBID, rec.SKUID, rec.ReorderQty, rec.Reason, rec.Urgency,
				rec.ForecastedDemand, rec.CurrentStock, rec.VelocityChangePct)
			if err != nil {
				return fmt.Errorf("failed to insert recommendation: %w", err)
			}
		}
		return nil
	})
}

func (r *reorderRepository) ListActive(ctx context.Context, storeDBID int64) ([]domain.ReorderRecommendation, error) {
	var recs []domain.ReorderRecommendation
	query := `
		SELECT id, store_id, sku_id, reorder_qty, reason, urgency,
		       forecasted_demand, current_stock, velocity_change_pct, generated_at, is_active
		FROM reorder_recommendations
		WHERE store_id = $1 AND is_active = TRUE
	`
	if err := r.db.SelectContext(ctx, &recs, query, storeDBID); err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return recs, nil
}
