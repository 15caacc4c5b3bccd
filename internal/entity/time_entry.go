// internal/entity/time_entry.go
package entity

import (
	"github.com/gofrs/uuid"
	"time"
)

// TimeEntry is one contiguous focused session on a domain.
type TimeEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    *string   `json:"userId,omitempty" db:"user_id"`
	Domain    string    `json:"domain" db:"domain" binding:"required"`
	URL       *string   `json:"url,omitempty" db:"url"`
	Title     *string   `json:"title,omitempty" db:"title"`
	Favicon   *string   `json:"favicon,omitempty" db:"favicon"`
	TimeSpent int64     `json:"timeSpent" db:"time_spent"` // в миллисекундах
	StartedAt time.Time `json:"startedAt" db:"started_at"`
	Date      string    `json:"date" db:"date"` // YYYY-MM-DD, tracker timezone
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CreateTimeEntryRequest struct {
	Domain    string    `json:"domain" binding:"required"`
	URL       *string   `json:"url,omitempty"`
	Title     *string   `json:"title,omitempty"`
	Favicon   *string   `json:"favicon,omitempty"`
	TimeSpent int64     `json:"timeSpent" binding:"required"`
	StartedAt time.Time `json:"startedAt" binding:"required"`
	Date      string    `json:"date,omitempty"`
}

type SyncEntriesRequest struct {
	Entries []CreateTimeEntryRequest `json:"entries" binding:"required,dive"`
}

type SyncBatchResult struct {
	Batch   int    `json:"batch"`
	Success bool   `json:"success"`
	Count   int    `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

type SyncEntriesResponse struct {
	TotalEntries int               `json:"totalEntries"`
	Results      []SyncBatchResult `json:"results"`
}

// TimeEntryFilter фильтры для выборки записей
type TimeEntryFilter struct {
	UserID    *string    `form:"userId"`
	Domain    *string    `form:"domain"`
	StartTime *time.Time `form:"startTime"`
	EndTime   *time.Time `form:"endTime"`
	Limit     int        `form:"limit"`
	Offset    int        `form:"offset"`
	Page      int        `form:"page"`
	PerPage   int        `form:"per_page"`
}

// DailyRollup is the precomputed per-date aggregate kept alongside raw entries.
// It is rebuildable from TimeEntry history; categories are resolved once, at
// append time.
type DailyRollup struct {
	Date             string `json:"date" db:"date"`
	TotalTime        int64  `json:"totalTime" db:"total_time"`
	ProductiveTime   int64  `json:"productiveTime" db:"productive_time"`
	UnproductiveTime int64  `json:"unproductiveTime" db:"unproductive_time"`
	NeutralTime      int64  `json:"neutralTime" db:"neutral_time"`
	UniqueDomains    int    `json:"uniqueDomains" db:"unique_domains"`
}
