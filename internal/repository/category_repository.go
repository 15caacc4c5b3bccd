package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/jmoiron/sqlx"
)

type CategoryRepository interface {
	Get(ctx context.Context, userID string) (*entity.Categories, error)
	Upsert(ctx context.Context, userID string, categories entity.Categories) error
}

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Get(ctx context.Context, userID string) (*entity.Categories, error) {
	var raw []byte
	query := `SELECT categories FROM user_categories WHERE user_id = $1`

	err := r.db.GetContext(ctx, &raw, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user categories: %w", err)
	}

	var categories entity.Categories
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode user categories: %w", err)
	}

	return &categories, nil
}

func (r *categoryRepository) Upsert(ctx context.Context, userID string, categories entity.Categories) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}

	query := `
		INSERT INTO user_categories (user_id, categories, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id)
		DO UPDATE SET categories = EXCLUDED.categories, updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, query, userID, raw); err != nil {
		return fmt.Errorf("failed to upsert categories: %w", err)
	}

	return nil
}
