package postgres

import (
	"context"
	"fmt"

	"github.com/painelgpt/backend/internal/domain"
)

// MatchRepo persists match decisions
type MatchRepo struct {
	db *DB
}

// NewMatchRepo creates a new match repository
func NewMatchRepo(db *DB) *MatchRepo {
	return &MatchRepo{db: db}
}

func (r *MatchRepo) ListByRestaurant(ctx context.Context, restaurantID int64) ([]domain.MatchRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT restaurante_id, item_geraldo_id, item_ifood_id, confianca, status, match_por, updated_at
		FROM item_matches
		WHERE restaurante_id = $1
		ORDER BY item_geraldo_id
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var records []domain.MatchRecord
	for rows.Next() {
		var rec domain.MatchRecord
		if err := rows.Scan(&rec.RestaurantID, &rec.GeraldoItemID, &rec.IfoodItemID,
			&rec.Confidence, &rec.Status, &rec.Method, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Upsert writes the record, replacing any previous decision for the same item
func (r *MatchRepo) Upsert(ctx context.Context, rec domain.MatchRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO item_matches (restaurante_id, item_geraldo_id, item_ifood_id, confianca, status, match_por, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (restaurante_id, item_geraldo_id) DO UPDATE SET
			item_ifood_id = EXCLUDED.item_ifood_id,
			confianca = EXCLUDED.confianca,
			status = EXCLUDED.status,
			match_por = EXCLUDED.match_por,
			updated_at = EXCLUDED.updated_at
	`, rec.RestaurantID, rec.GeraldoItemID, rec.IfoodItemID,
		rec.Confidence, rec.Status, rec.Method, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: item %d: %v", domain.ErrPersistenceFailure, rec.GeraldoItemID, err)
	}
	return nil
}
