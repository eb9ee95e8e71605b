// internal/repository/postgres/forecast_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/repository"
)

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) repository.ForecastRepository {
	return &forecastRepository{db: db}
}

// Supersede drops future-dated forecasts for the given skus at the given
// horizon and writes the new batch. Past forecast rows stay for audit.
func (r *forecastRepository) Supersede(ctx context.Context, storeDBID int64, skuDBIDs []int64, results []domain.ForecastResult) error {
	if len(results) == 0 {
		return nil
	}
	horizon := results[0].Horizon

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		del := `
			DELETE FROM forecasts
			WHERE store_id = $1 AND sku_id = ANY($2)
			  AND forecast_horizon = $3 AND forecast_date >= CURRENT_DATE
		`
		if _, err := tx.ExecContext(ctx, del, storeDBID, pq.Array(skuDBIDs), horizon); err != nil {
			return fmt.Errorf("failed to supersede forecasts: %w", err)
		}

		ins := `
			INSERT INTO forecasts (
				store_id, sku_id, forecast_date, predicted_units,
				confidence_lower, confidence_upper, model_used, forecast_horizon
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		stmt, err := tx.PrepareContext(ctx, ins)
		if err != nil {
			return fmt.Errorf("failed to prepare forecast insert: %w", err)
		}
		defer stmt.Close()

		for _, f := range results {
			_, err := stmt.ExecContext(ctx,
				storeDBID, f.SKUID, f.ForecastDate, f.PredictedUnits,
				f.ConfidenceLower, f.ConfidenceUpper, f.ModelUsed, f.Horizon)
			if err != nil {
				return fmt.Errorf("failed to insert forecast: %w", err)
			}
		}
		return nil
	})
}

func (r *forecastRepository) List(ctx context.Context, storeDBID int64, horizon int, skuDBID *int64) ([]domain.ForecastResult, error) {
	var results []domain.ForecastResult
	query := `
		SELECT id, store_id, sku_id, forecast_date, predicted_units,
		       confidence_lower, confidence_upper, model_used, forecast_horizon, generated_at
		FROM forecasts
		WHERE store_id = $1 AND forecast_horizon = $2 AND forecast_date >= CURRENT_DATE
	`
	args := []interface{}{storeDBID, horizon}
	if skuDBID != nil {
		query += ` AND sku_id = $3`
		args = append(args, *skuDBID)
	}
	query += ` ORDER BY sku_id, forecast_date`

	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list forecasts: %w", err)
	}
	return results, nil
}
