// internal/service/focus_service.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/dinerozz/focus-tracker-backend/internal/service/category"
	timeentry "github.com/dinerozz/focus-tracker-backend/internal/service/time_entry"
	"github.com/dinerozz/focus-tracker-backend/internal/tracker"
	"github.com/dinerozz/focus-tracker-backend/pkg/utils"
)

const maxEventsPerRequest = 500

// FocusService folds raw focus events through a per-user tracker. Completed
// sessions land in an in-memory store for the live view and are pushed to the
// persistent entry service through a retry queue.
type FocusService interface {
	HandleEvents(ctx context.Context, userID string, req entity.IngestEventsRequest) (*entity.IngestEventsResponse, error)
	Live(ctx context.Context, userID string) (*entity.LiveStatsResponse, error)
	FlushPending() int
	PruneLive(retentionDays int) int
	Shutdown()
}

type focusService struct {
	mu       sync.Mutex
	profiles map[string]*profile

	entries    timeentry.TimeEntryService
	categories category.CategoryService
	cfg        tracker.Config
}

func NewFocusService(entries timeentry.TimeEntryService, categories category.CategoryService, cfg tracker.Config) FocusService {
	return &focusService{
		profiles:   make(map[string]*profile),
		entries:    entries,
		categories: categories,
		cfg:        cfg,
	}
}

// profile is the tracking state of a single user. It is the tracker's sink:
// completed entries go to the memory store and to the persistence queue.
type profile struct {
	userID  string
	tracker *tracker.FocusTracker
	store   *tracker.MemoryStore
	retry   *tracker.RetrySink

	snapMu   sync.Mutex
	snapshot *category.Snapshot
}

func (p *profile) Submit(entry entity.TimeEntry) error {
	if err := p.store.Append(entry, p); err != nil {
		return err
	}
	return p.retry.Submit(entry)
}

func (p *profile) Classify(domain string) entity.Category {
	p.snapMu.Lock()
	defer p.snapMu.Unlock()
	return p.snapshot.Classify(domain)
}

func (p *profile) setSnapshot(snapshot *category.Snapshot) {
	p.snapMu.Lock()
	p.snapshot = snapshot
	p.snapMu.Unlock()
}

// persistSink pushes one completed session into the durable entry service.
// Event ingestion must not stall on the database, so it runs detached from
// the request context.
type persistSink struct {
	userID  string
	entries timeentry.TimeEntryService
}

func (s *persistSink) Submit(entry entity.TimeEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := entity.CreateTimeEntryRequest{
		Domain:    entry.Domain,
		URL:       entry.URL,
		Title:     entry.Title,
		Favicon:   entry.Favicon,
		TimeSpent: entry.TimeSpent,
		StartedAt: entry.StartedAt,
		Date:      entry.Date,
	}

	_, err := s.entries.CreateEntry(ctx, s.userID, req)
	return err
}

func (s *focusService) HandleEvents(ctx context.Context, userID string, req entity.IngestEventsRequest) (*entity.IngestEventsResponse, error) {
	if len(req.Events) == 0 {
		return nil, fmt.Errorf("no events provided")
	}

	if len(req.Events) > maxEventsPerRequest {
		return nil, fmt.Errorf("too many events, maximum is %d", maxEventsPerRequest)
	}

	p := s.profile(userID)

	snapshot, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.setSnapshot(snapshot)

	before := p.store.Len()

	for _, ev := range req.Events {
		p.tracker.HandleEvent(ev)
	}

	return &entity.IngestEventsResponse{
		Accepted: len(req.Events),
		Recorded: p.store.Len() - before,
	}, nil
}

func (s *focusService) Live(ctx context.Context, userID string) (*entity.LiveStatsResponse, error) {
	p := s.profile(userID)

	today := utils.NowTracker().Format("2006-01-02")
	rollup, _ := p.store.Rollup(today)

	resp := &entity.LiveStatsResponse{
		Date:        today,
		Rollup:      rollup,
		PendingSync: p.retry.Pending(),
	}

	if session, ok := p.tracker.Current(); ok {
		resp.Tracking = true
		resp.CurrentDomain = &session.Domain
	}

	return resp, nil
}

func (s *focusService) FlushPending() int {
	flushed := 0
	for _, p := range s.snapshotProfiles() {
		flushed += p.retry.Flush()
	}
	return flushed
}

func (s *focusService) PruneLive(retentionDays int) int {
	if retentionDays <= 0 {
		return 0
	}

	cutoff := utils.NowTracker().AddDate(0, 0, -retentionDays).Format("2006-01-02")

	removed := 0
	for _, p := range s.snapshotProfiles() {
		removed += p.store.Prune(cutoff)
	}
	return removed
}

func (s *focusService) Shutdown() {
	for _, p := range s.snapshotProfiles() {
		p.tracker.Shutdown()
	}
}

func (s *focusService) profile(userID string) *profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		p = &profile{
			userID:   userID,
			store:    tracker.NewMemoryStore(),
			snapshot: category.NewSnapshot(category.DefaultCategories()),
		}
		p.retry = tracker.NewRetrySink(&persistSink{userID: userID, entries: s.entries})
		p.tracker = tracker.New(p, s.cfg)
		s.profiles[userID] = p
	}

	return p
}

func (s *focusService) snapshotProfiles() []*profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		result = append(result, p)
	}
	return result
}

func (s *focusService) snapshot(ctx context.Context, userID string) (*category.Snapshot, error) {
	if userID == "" {
		return category.NewSnapshot(category.DefaultCategories()), nil
	}

	categories, err := s.categories.GetCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	return category.NewSnapshot(*categories), nil
}
