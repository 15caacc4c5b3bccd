// internal/repository/extension_user_repository.go
package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
)

type ExtensionUserRepository interface {
	Create(ctx context.Context, user *entity.ExtensionUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ExtensionUser, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionUser, error)
	GetByUsername(ctx context.Context, username string) (*entity.ExtensionUser, error)
	GetAll(ctx context.Context, filter entity.ExtensionUserFilter) ([]entity.ExtensionUser, error)
	Update(ctx context.Context, id uuid.UUID, req entity.UpdateExtensionUserRequest) (*entity.ExtensionUser, error)
	RegenerateAPIKey(ctx context.Context, id uuid.UUID) (string, error)
	UpdateLastUsed(ctx context.Context, apiKey string) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetStats(ctx context.Context) (*entity.ExtensionUserStats, error)
}

type extensionUserRepository struct {
	db *sqlx.DB
}

func NewExtensionUserRepository(db *sqlx.DB) ExtensionUserRepository {
	return &extensionUserRepository{db: db}
}

func (r *extensionUserRepository) Create(ctx context.Context, user *entity.ExtensionUser) error {
	user.ID = uuid.Must(uuid.NewV4())
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	user.IsActive = true

	apiKey, err := r.generateAPIKey()
	if err != nil {
		return fmt.Errorf("failed to generate API key: %w", err)
	}
	user.APIKey = apiKey

	query := `
		INSERT INTO extension_users (id, username, api_key, is_active, created_at, updated_at)
		VALUES (:id, :username, :api_key, :is_active, :created_at, :updated_at)`

	if _, err = r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("failed to create extension user: %w", err)
	}

	return nil
}

func (r *extensionUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ExtensionUser, error) {
	return r.getOne(ctx, `SELECT * FROM extension_users WHERE id = $1`, id)
}

func (r *extensionUserRepository) GetByAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionUser, error) {
	return r.getOne(ctx, `SELECT * FROM extension_users WHERE api_key = $1 AND is_active = true`, apiKey)
}

func (r *extensionUserRepository) GetByUsername(ctx context.Context, username string) (*entity.ExtensionUser, error) {
	return r.getOne(ctx, `SELECT * FROM extension_users WHERE username = $1`, username)
}

func (r *extensionUserRepository) getOne(ctx context.Context, query string, arg interface{}) (*entity.ExtensionUser, error) {
	var user entity.ExtensionUser

	err := r.db.GetContext(ctx, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get extension user: %w", err)
	}

	return &user, nil
}

func (r *extensionUserRepository) GetAll(ctx context.Context, filter entity.ExtensionUserFilter) ([]entity.ExtensionUser, error) {
	var users []entity.ExtensionUser

	query := "SELECT * FROM extension_users WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.Username != "" {
		query += fmt.Sprintf(" AND username ILIKE $%d", argIndex)
		args = append(args, "%"+filter.Username+"%")
		argIndex++
	}

	if filter.IsActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", argIndex)
		args = append(args, *filter.IsActive)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get extension users: %w", err)
	}

	return users, nil
}

func (r *extensionUserRepository) Update(ctx context.Context, id uuid.UUID, req entity.UpdateExtensionUserRequest) (*entity.ExtensionUser, error) {
	var setParts []string
	var args []interface{}
	argIndex := 1

	if req.Username != nil {
		setParts = append(setParts, fmt.Sprintf("username = $%d", argIndex))
		args = append(args, *req.Username)
		argIndex++
	}

	if req.IsActive != nil {
		setParts = append(setParts, fmt.Sprintf("is_active = $%d", argIndex))
		args = append(args, *req.IsActive)
		argIndex++
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE extension_users
		SET %s
		WHERE id = $%d
		RETURNING *`, strings.Join(setParts, ", "), argIndex)

	var user entity.ExtensionUser
	err := r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update extension user: %w", err)
	}

	return &user, nil
}

func (r *extensionUserRepository) RegenerateAPIKey(ctx context.Context, id uuid.UUID) (string, error) {
	newAPIKey, err := r.generateAPIKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate new API key: %w", err)
	}

	query := `
		UPDATE extension_users
		SET api_key = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND is_active = true`

	result, err := r.db.ExecContext(ctx, query, newAPIKey, id)
	if err != nil {
		return "", fmt.Errorf("failed to update API key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rowsAffected == 0 {
		return "", fmt.Errorf("user not found or inactive")
	}

	return newAPIKey, nil
}

func (r *extensionUserRepository) UpdateLastUsed(ctx context.Context, apiKey string) error {
	query := `
		UPDATE extension_users
		SET last_used_at = CURRENT_TIMESTAMP
		WHERE api_key = $1 AND is_active = true`

	if _, err := r.db.ExecContext(ctx, query, apiKey); err != nil {
		return fmt.Errorf("failed to update last used: %w", err)
	}

	return nil
}

func (r *extensionUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM extension_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete extension user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *extensionUserRepository) GetStats(ctx context.Context) (*entity.ExtensionUserStats, error) {
	var stats entity.ExtensionUserStats

	generalQuery := `
		SELECT
			COUNT(*) as total_users,
			COUNT(CASE WHEN is_active = true THEN 1 END) as active_users,
			COUNT(CASE WHEN is_active = false THEN 1 END) as inactive_users
		FROM extension_users`

	err := r.db.QueryRowContext(ctx, generalQuery).Scan(
		&stats.TotalUsers,
		&stats.ActiveUsers,
		&stats.InactiveUsers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get general stats: %w", err)
	}

	todayQuery := `
		SELECT COUNT(*)
		FROM extension_users
		WHERE last_used_at >= CURRENT_DATE
		AND is_active = true`

	if err = r.db.QueryRowContext(ctx, todayQuery).Scan(&stats.UsersUsedToday); err != nil {
		return nil, fmt.Errorf("failed to get today stats: %w", err)
	}

	weekQuery := `
		SELECT COUNT(*)
		FROM extension_users
		WHERE last_used_at >= CURRENT_DATE - INTERVAL '7 days'
		AND is_active = true`

	if err = r.db.QueryRowContext(ctx, weekQuery).Scan(&stats.UsersUsedThisWeek); err != nil {
		return nil, fmt.Errorf("failed to get week stats: %w", err)
	}

	return &stats, nil
}

// generateAPIKey выдаёт уникальный ключ с префиксом ft_
func (r *extensionUserRepository) generateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	apiKey := "ft_" + hex.EncodeToString(bytes)

	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM extension_users WHERE api_key = $1`, apiKey).Scan(&count)
	if err != nil {
		return "", err
	}

	if count > 0 {
		return r.generateAPIKey()
	}

	return apiKey, nil
}
