// internal/service/time_entry_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/dinerozz/focus-tracker-backend/internal/repository"
	"github.com/dinerozz/focus-tracker-backend/internal/service/category"
	"github.com/dinerozz/focus-tracker-backend/pkg/utils"
)

// syncBatchSize is how many entries go into one insert transaction during sync.
const syncBatchSize = 100

var ErrInvalidEntry = errors.New("invalid time entry")

type TimeEntryService interface {
	CreateEntry(ctx context.Context, userID string, req entity.CreateTimeEntryRequest) (*entity.TimeEntry, error)
	SyncEntries(ctx context.Context, userID string, req entity.SyncEntriesRequest) (*entity.SyncEntriesResponse, error)
	GetEntries(ctx context.Context, filter entity.TimeEntryFilter) ([]entity.TimeEntry, *entity.PaginationInfo, error)
	GetRollups(ctx context.Context, userID, startDate, endDate string) ([]entity.DailyRollup, error)
	Prune(ctx context.Context, retentionDays int) (int64, error)
}

type timeEntryService struct {
	repo       repository.TimeEntryRepository
	categories category.CategoryService
}

func NewTimeEntryService(repo repository.TimeEntryRepository, categories category.CategoryService) TimeEntryService {
	return &timeEntryService{
		repo:       repo,
		categories: categories,
	}
}

func (s *timeEntryService) CreateEntry(ctx context.Context, userID string, req entity.CreateTimeEntryRequest) (*entity.TimeEntry, error) {
	entry, err := s.buildEntry(userID, req)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.classifier(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, entry, snapshot.Classify(entry.Domain)); err != nil {
		return nil, fmt.Errorf("failed to create time entry: %w", err)
	}

	return entry, nil
}

func (s *timeEntryService) SyncEntries(ctx context.Context, userID string, req entity.SyncEntriesRequest) (*entity.SyncEntriesResponse, error) {
	if len(req.Entries) == 0 {
		return nil, fmt.Errorf("no entries provided")
	}

	if len(req.Entries) > 1000 {
		return nil, fmt.Errorf("too many entries, maximum is 1000")
	}

	var entries []entity.TimeEntry
	for i, item := range req.Entries {
		entry, err := s.buildEntry(userID, item)
		if err != nil {
			return nil, fmt.Errorf("validation error at index %d: %w", i, err)
		}
		entries = append(entries, *entry)
	}

	snapshot, err := s.classifier(ctx, userID)
	if err != nil {
		return nil, err
	}

	categories := make([]entity.Category, len(entries))
	for i := range entries {
		categories[i] = snapshot.Classify(entries[i].Domain)
	}

	response := &entity.SyncEntriesResponse{TotalEntries: len(entries)}

	// Батчи независимы: падение одного не останавливает остальные
	for start := 0; start < len(entries); start += syncBatchSize {
		end := start + syncBatchSize
		if end > len(entries) {
			end = len(entries)
		}

		result := entity.SyncBatchResult{Batch: start/syncBatchSize + 1}

		if err := s.repo.BatchCreate(ctx, entries[start:end], categories[start:end]); err != nil {
			log.Printf("❌ Ошибка синхронизации батча %d: %v", result.Batch, err)
			result.Error = err.Error()
		} else {
			result.Success = true
			result.Count = end - start
		}

		response.Results = append(response.Results, result)
	}

	return response, nil
}

func (s *timeEntryService) GetEntries(ctx context.Context, filter entity.TimeEntryFilter) ([]entity.TimeEntry, *entity.PaginationInfo, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 50
	}

	filter.Limit = filter.PerPage
	filter.Offset = (filter.Page - 1) * filter.PerPage

	entries, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get time entries: %w", err)
	}

	total, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count time entries: %w", err)
	}

	totalPages := (total + filter.PerPage - 1) / filter.PerPage

	pagination := &entity.PaginationInfo{
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		Total:      total,
		TotalPages: totalPages,
	}

	return entries, pagination, nil
}

func (s *timeEntryService) GetRollups(ctx context.Context, userID, startDate, endDate string) ([]entity.DailyRollup, error) {
	rollups, err := s.repo.GetRollups(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get rollups: %w", err)
	}
	return rollups, nil
}

func (s *timeEntryService) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retention days must be positive")
	}

	cutoff := utils.NowTracker().AddDate(0, 0, -retentionDays).Format("2006-01-02")

	removed, err := s.repo.Prune(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune entries older than %s: %w", cutoff, err)
	}

	if removed > 0 {
		log.Printf("🔧 Удалено %d записей старше %s", removed, cutoff)
	}

	return removed, nil
}

func (s *timeEntryService) buildEntry(userID string, req entity.CreateTimeEntryRequest) (*entity.TimeEntry, error) {
	if req.Domain == "" {
		return nil, fmt.Errorf("%w: domain is required", ErrInvalidEntry)
	}

	if req.TimeSpent <= 0 {
		return nil, fmt.Errorf("%w: timeSpent must be positive", ErrInvalidEntry)
	}

	if req.StartedAt.IsZero() {
		return nil, fmt.Errorf("%w: startedAt is required", ErrInvalidEntry)
	}

	date := req.Date
	if date == "" {
		date = utils.FormatTrackerDate(req.StartedAt)
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidEntry, date)
	}

	entry := &entity.TimeEntry{
		Domain:    req.Domain,
		URL:       req.URL,
		Title:     req.Title,
		Favicon:   req.Favicon,
		TimeSpent: req.TimeSpent,
		StartedAt: req.StartedAt,
		Date:      date,
	}

	if userID != "" {
		entry.UserID = &userID
	}

	return entry, nil
}

// classifier returns the category lookup for a user; callers without an
// account get the default sets.
func (s *timeEntryService) classifier(ctx context.Context, userID string) (*category.Snapshot, error) {
	if userID == "" {
		defaults := category.DefaultCategories()
		return category.NewSnapshot(defaults), nil
	}

	categories, err := s.categories.GetCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	return category.NewSnapshot(*categories), nil
}
