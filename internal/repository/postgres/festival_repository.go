// internal/repository/postgres/festival_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/repository"
)

type festivalRepository struct {
	db *DB
}

func NewFestivalRepository(db *DB) repository.FestivalRepository {
	return &festivalRepository{db: db}
}

func (r *festivalRepository) Create(ctx context.Context, f *domain.Festival) error {
	query := `
		INSERT INTO festivals (name, date, region, impact_multiplier)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, date) DO UPDATE SET
			region = EXCLUDED.region,
			impact_multiplier = EXCLUDED.impact_multiplier
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, f.Name, f.Date, f.Region, f.ImpactMultiplier).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create festival %s: %w", f.Name, err)
	}
	return nil
}

func (r *festivalRepository) GetByDate(ctx context.Context, date time.Time) (*domain.Festival, error) {
	var f domain.Festival
	query := `
		SELECT id, name, date, region, impact_multiplier, created_at
		FROM festivals
		WHERE date = $1
		ORDER BY impact_multiplier DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &f, query, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get festival: %w", err)
	}
	return &f, nil
}

func (r *festivalRepository) GetRange(ctx context.Context, start, end time.Time) ([]domain.Festival, error) {
	var festivals []domain.Festival
	query := `
		SELECT id, name, date, region, impact_multiplier, created_at
		FROM festivals
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`
	if err := r.db.SelectContext(ctx, &festivals, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list festivals in range: %w", err)
	}
	return festivals, nil
}

func (r *festivalRepository) Exists(ctx context.Context, name string, date time.Time) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM festivals WHERE name = $1 AND date = $2`
	if err := r.db.GetContext(ctx, &count, query, name, date); err != nil {
		return false, fmt.Errorf("failed to check festival: %w", err)
	}
	return count > 0, nil
}

func (r *festivalRepository) List(ctx context.Context) ([]domain.Festival, error) {
	var festivals []domain.Festival
	query := `
		SELECT id, name, date, region, impact_multiplier, created_at
		FROM festivals
		ORDER BY date
	`
	if err := r.db.SelectContext(ctx, &festivals, query); err != nil {
		return nil, fmt.Errorf("failed to list festivals: %w", err)
	}
	return festivals, nil
}
