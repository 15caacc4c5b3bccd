// internal/repository/time_entry_repository.go
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	uuid2 "github.com/gofrs/uuid"
	"github.com/google/uuid"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/jmoiron/sqlx"
)

type TimeEntryRepository interface {
	Create(ctx context.Context, entry *entity.TimeEntry, category entity.Category) error
	BatchCreate(ctx context.Context, entries []entity.TimeEntry, categories []entity.Category) error
	GetByRange(ctx context.Context, userID string, start, end time.Time) ([]entity.TimeEntry, error)
	GetByFilter(ctx context.Context, filter entity.TimeEntryFilter) ([]entity.TimeEntry, error)
	CountByFilter(ctx context.Context, filter entity.TimeEntryFilter) (int, error)
	GetRollups(ctx context.Context, userID, startDate, endDate string) ([]entity.DailyRollup, error)
	Prune(ctx context.Context, olderThan string) (int64, error)
}

type timeEntryRepository struct {
	db *sqlx.DB
}

func NewTimeEntryRepository(db *sqlx.DB) TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

const insertEntryQuery = `
	INSERT INTO time_entries (id, user_id, domain, url, title, favicon, time_spent, started_at, date, created_at)
	VALUES (:id, :user_id, :domain, :url, :title, :favicon, :time_spent, :started_at, :date, :created_at)`

// Rollups are keyed by (user, date, domain); the category is fixed at first
// write, so a later recategorization never rewrites history.
const upsertRollupQuery = `
	INSERT INTO daily_rollups (user_id, date, domain, category, total_time)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id, date, domain)
	DO UPDATE SET total_time = daily_rollups.total_time + EXCLUDED.total_time`

func (r *timeEntryRepository) Create(ctx context.Context, entry *entity.TimeEntry, category entity.Category) error {
	entry.ID = uuid2.UUID(uuid.New())
	entry.CreatedAt = time.Now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.NamedExecContext(ctx, insertEntryQuery, entry); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, upsertRollupQuery,
		rollupUserID(entry), entry.Date, entry.Domain, string(category), entry.TimeSpent); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *timeEntryRepository) BatchCreate(ctx context.Context, entries []entity.TimeEntry, categories []entity.Category) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range entries {
		entries[i].ID = uuid2.UUID(uuid.New())
		entries[i].CreatedAt = time.Now()
	}

	if _, err = tx.NamedExecContext(ctx, insertEntryQuery, entries); err != nil {
		return err
	}

	for i := range entries {
		if _, err = tx.ExecContext(ctx, upsertRollupQuery,
			rollupUserID(&entries[i]), entries[i].Date, entries[i].Domain,
			string(categories[i]), entries[i].TimeSpent); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *timeEntryRepository) GetByRange(ctx context.Context, userID string, start, end time.Time) ([]entity.TimeEntry, error) {
	var entries []entity.TimeEntry

	query := "SELECT * FROM time_entries WHERE started_at >= $1 AND started_at <= $2"
	args := []interface{}{start, end}

	if userID != "" {
		query += " AND user_id = $3"
		args = append(args, userID)
	}

	query += " ORDER BY started_at ASC"

	err := r.db.SelectContext(ctx, &entries, query, args...)
	return entries, err
}

func (r *timeEntryRepository) GetByFilter(ctx context.Context, filter entity.TimeEntryFilter) ([]entity.TimeEntry, error) {
	var entries []entity.TimeEntry

	whereClause, args := buildEntryWhereClause(filter)
	argIndex := len(args) + 1

	query := "SELECT * FROM time_entries" + whereClause + " ORDER BY started_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	err := r.db.SelectContext(ctx, &entries, query, args...)
	return entries, err
}

func (r *timeEntryRepository) CountByFilter(ctx context.Context, filter entity.TimeEntryFilter) (int, error) {
	whereClause, args := buildEntryWhereClause(filter)

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM time_entries"+whereClause, args...)
	return total, err
}

func (r *timeEntryRepository) GetRollups(ctx context.Context, userID, startDate, endDate string) ([]entity.DailyRollup, error) {
	query := `
		SELECT
			date,
			SUM(total_time) AS total_time,
			SUM(CASE WHEN category = 'productive' THEN total_time ELSE 0 END) AS productive_time,
			SUM(CASE WHEN category = 'unproductive' THEN total_time ELSE 0 END) AS unproductive_time,
			SUM(CASE WHEN category = 'neutral' THEN total_time ELSE 0 END) AS neutral_time,
			COUNT(DISTINCT domain) AS unique_domains
		FROM daily_rollups
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		GROUP BY date
		ORDER BY date ASC`

	var rollups []entity.DailyRollup
	err := r.db.SelectContext(ctx, &rollups, query, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily rollups: %w", err)
	}

	return rollups, nil
}

func (r *timeEntryRepository) Prune(ctx context.Context, olderThan string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM time_entries WHERE date < $1", olderThan)
	if err != nil {
		return 0, err
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM daily_rollups WHERE date < $1", olderThan); err != nil {
		return 0, err
	}

	return removed, tx.Commit()
}

func buildEntryWhereClause(filter entity.TimeEntryFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *filter.UserID)
		argIndex++
	}

	if filter.Domain != nil {
		conditions = append(conditions, fmt.Sprintf("domain = $%d", argIndex))
		args = append(args, *filter.Domain)
		argIndex++
	}

	if filter.StartTime != nil {
		conditions = append(conditions, fmt.Sprintf("started_at >= $%d", argIndex))
		args = append(args, *filter.StartTime)
		argIndex++
	}

	if filter.EndTime != nil {
		conditions = append(conditions, fmt.Sprintf("started_at <= $%d", argIndex))
		args = append(args, *filter.EndTime)
		argIndex++
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// rollupUserID maps a missing entry owner to the single-profile bucket.
func rollupUserID(entry *entity.TimeEntry) string {
	if entry.UserID == nil {
		return ""
	}
	return *entry.UserID
}
