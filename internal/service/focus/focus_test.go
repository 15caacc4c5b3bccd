package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/dinerozz/focus-tracker-backend/internal/service/category"
	"github.com/dinerozz/focus-tracker-backend/internal/tracker"
)

type stubEntryService struct {
	created []entity.CreateTimeEntryRequest
	fail    bool
}

func (s *stubEntryService) CreateEntry(_ context.Context, _ string, req entity.CreateTimeEntryRequest) (*entity.TimeEntry, error) {
	if s.fail {
		return nil, fmt.Errorf("store unavailable")
	}
	s.created = append(s.created, req)
	return &entity.TimeEntry{Domain: req.Domain}, nil
}

func (s *stubEntryService) SyncEntries(context.Context, string, entity.SyncEntriesRequest) (*entity.SyncEntriesResponse, error) {
	return nil, nil
}

func (s *stubEntryService) GetEntries(context.Context, entity.TimeEntryFilter) ([]entity.TimeEntry, *entity.PaginationInfo, error) {
	return nil, nil, nil
}

func (s *stubEntryService) GetRollups(context.Context, string, string, string) ([]entity.DailyRollup, error) {
	return nil, nil
}

func (s *stubEntryService) Prune(context.Context, int) (int64, error) {
	return 0, nil
}

type stubCategoryService struct{}

func (stubCategoryService) GetCategories(context.Context, string) (*entity.Categories, error) {
	defaults := category.DefaultCategories()
	return &defaults, nil
}

func (stubCategoryService) SaveCategories(context.Context, string, entity.Categories) error {
	return nil
}

func (stubCategoryService) AddDomain(context.Context, string, string, entity.Category) (*entity.Categories, error) {
	return nil, nil
}

func (stubCategoryService) RemoveDomain(context.Context, string, string, entity.Category) (*entity.Categories, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

func focusEvents(base time.Time) []entity.FocusEvent {
	return []entity.FocusEvent{
		{Type: entity.EventFocusGained, Timestamp: base, URL: strPtr("https://github.com/pulls")},
		{Type: entity.EventFocusLost, Timestamp: base.Add(10 * time.Second)},
	}
}

func TestHandleEventsRecordsCompletedSession(t *testing.T) {
	entries := &stubEntryService{}
	svc := NewFocusService(entries, stubCategoryService{}, tracker.Config{Location: time.UTC})

	base := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)

	resp, err := svc.HandleEvents(context.Background(), "user-1", entity.IngestEventsRequest{
		Events: focusEvents(base),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Accepted)
	assert.Equal(t, 1, resp.Recorded)

	require.Len(t, entries.created, 1)
	assert.Equal(t, "github.com", entries.created[0].Domain)
	assert.Equal(t, int64(10_000), entries.created[0].TimeSpent)
}

func TestHandleEventsRejectsEmptyAndOversized(t *testing.T) {
	svc := NewFocusService(&stubEntryService{}, stubCategoryService{}, tracker.Config{Location: time.UTC})

	_, err := svc.HandleEvents(context.Background(), "user-1", entity.IngestEventsRequest{})
	assert.Error(t, err)

	events := make([]entity.FocusEvent, maxEventsPerRequest+1)
	base := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	for i := range events {
		events[i] = entity.FocusEvent{Type: entity.EventFocusLost, Timestamp: base}
	}

	_, err = svc.HandleEvents(context.Background(), "user-1", entity.IngestEventsRequest{Events: events})
	assert.Error(t, err)
}

func TestLiveReflectsRollupAndActiveSession(t *testing.T) {
	svc := NewFocusService(&stubEntryService{}, stubCategoryService{}, tracker.Config{Location: time.UTC})

	now := time.Now().UTC()
	base := now.Add(-time.Minute)

	_, err := svc.HandleEvents(context.Background(), "user-1", entity.IngestEventsRequest{
		Events: []entity.FocusEvent{
			{Type: entity.EventFocusGained, Timestamp: base, URL: strPtr("https://github.com/pulls")},
			{Type: entity.EventFocusLost, Timestamp: base.Add(30 * time.Second)},
			{Type: entity.EventFocusGained, Timestamp: base.Add(31 * time.Second), URL: strPtr("https://news.ycombinator.com")},
		},
	})
	require.NoError(t, err)

	live, err := svc.Live(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, now.Format("2006-01-02"), live.Date)
	assert.Equal(t, int64(30_000), live.Rollup.TotalTime)
	assert.True(t, live.Tracking)
	require.NotNil(t, live.CurrentDomain)
	assert.Equal(t, "news.ycombinator.com", *live.CurrentDomain)
}

func TestPendingEntriesFlushAfterRecovery(t *testing.T) {
	entries := &stubEntryService{fail: true}
	svc := NewFocusService(entries, stubCategoryService{}, tracker.Config{Location: time.UTC})

	base := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)

	resp, err := svc.HandleEvents(context.Background(), "user-1", entity.IngestEventsRequest{
		Events: focusEvents(base),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Recorded)

	live, err := svc.Live(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, live.PendingSync)

	entries.fail = false
	assert.Equal(t, 1, svc.FlushPending())

	live, err = svc.Live(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, live.PendingSync)
	require.Len(t, entries.created, 1)
}

func TestProfilesAreIsolatedPerUser(t *testing.T) {
	svc := NewFocusService(&stubEntryService{}, stubCategoryService{}, tracker.Config{Location: time.UTC})

	base := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)

	_, err := svc.HandleEvents(context.Background(), "user-1", entity.IngestEventsRequest{
		Events: focusEvents(base),
	})
	require.NoError(t, err)

	live, err := svc.Live(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), live.Rollup.TotalTime)
	assert.False(t, live.Tracking)
}

func TestShutdownAbandonsOpenSessions(t *testing.T) {
	entries := &stubEntryService{}
	svc := NewFocusService(entries, stubCategoryService{}, tracker.Config{Location: time.UTC})

	base := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)

	_, err := svc.HandleEvents(context.Background(), "user-1", entity.IngestEventsRequest{
		Events: []entity.FocusEvent{
			{Type: entity.EventFocusGained, Timestamp: base, URL: strPtr("https://github.com")},
		},
	})
	require.NoError(t, err)

	svc.Shutdown()

	live, err := svc.Live(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, live.Tracking)
	assert.Empty(t, entries.created)
}
