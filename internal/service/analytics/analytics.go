// internal/service/analytics_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/dinerozz/focus-tracker-backend/internal/repository"
	"github.com/dinerozz/focus-tracker-backend/internal/service/category"
	"github.com/dinerozz/focus-tracker-backend/internal/service/redis"
	"github.com/dinerozz/focus-tracker-backend/pkg/utils"
)

const analyticsCacheTTL = 60 * time.Second

type AnalyticsService interface {
	GetAnalytics(ctx context.Context, userID, period string) (*entity.AnalyticsReport, error)
	GetDashboard(ctx context.Context, userID string) (*entity.DashboardResponse, error)
}

type analyticsService struct {
	entries    repository.TimeEntryRepository
	categories category.CategoryService
	cache      redis.ServiceInterface
}

func NewAnalyticsService(entries repository.TimeEntryRepository, categories category.CategoryService, cache redis.ServiceInterface) AnalyticsService {
	return &analyticsService{
		entries:    entries,
		categories: categories,
		cache:      cache,
	}
}

var periodDays = map[string]int{
	"1d":  1,
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

// periodRange maps a period token to a [start, end] window ending now.
// Unknown tokens are an error, not a silent default.
func periodRange(period string, now time.Time) (time.Time, time.Time, error) {
	days, ok := periodDays[period]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown period: %s", period)
	}
	return now.AddDate(0, 0, -days), now, nil
}

func (s *analyticsService) GetAnalytics(ctx context.Context, userID, period string) (*entity.AnalyticsReport, error) {
	now := utils.NowTracker()

	start, end, err := periodRange(period, now)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached entity.AnalyticsReport
		if err := s.cache.GetAnalytics(ctx, userID, period, &cached); err == nil {
			return &cached, nil
		}
	}

	entries, err := s.entries.GetByRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	snapshot, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := BuildReport(entries, snapshot, period)

	if s.cache != nil {
		if err := s.cache.CacheAnalytics(ctx, userID, period, report, analyticsCacheTTL); err != nil {
			log.Printf("Не удалось закешировать аналитику: %v", err)
		}
	}

	return report, nil
}

func (s *analyticsService) GetDashboard(ctx context.Context, userID string) (*entity.DashboardResponse, error) {
	now := utils.NowTracker()

	snapshot, categories, err := s.snapshotWithSets(ctx, userID)
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todayEntries, err := s.entries.GetByRange(ctx, userID, dayStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load today entries: %w", err)
	}

	weekStart := dayStart.AddDate(0, 0, -6)
	weekEntries, err := s.entries.GetByRange(ctx, userID, weekStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly entries: %w", err)
	}

	dates := make([]string, 7)
	for i := 0; i < 7; i++ {
		dates[i] = weekStart.AddDate(0, 0, i).Format("2006-01-02")
	}

	return &entity.DashboardResponse{
		TodayStats:  BuildDayStats(todayEntries, snapshot),
		WeeklyStats: BuildWeeklyStats(weekEntries, snapshot, dates),
		Categories:  categories,
	}, nil
}

func (s *analyticsService) snapshot(ctx context.Context, userID string) (*category.Snapshot, error) {
	snapshot, _, err := s.snapshotWithSets(ctx, userID)
	return snapshot, err
}

func (s *analyticsService) snapshotWithSets(ctx context.Context, userID string) (*category.Snapshot, entity.Categories, error) {
	if userID == "" {
		defaults := category.DefaultCategories()
		return category.NewSnapshot(defaults), defaults, nil
	}

	categories, err := s.categories.GetCategories(ctx, userID)
	if err != nil {
		return nil, entity.Categories{}, fmt.Errorf("failed to load categories: %w", err)
	}

	return category.NewSnapshot(*categories), *categories, nil
}
