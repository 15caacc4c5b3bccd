// internal/tracker/store.go
package tracker

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
)

// ErrInvalidEntry marks a permanently malformed entry; callers must not
// retry it.
var ErrInvalidEntry = errors.New("invalid time entry")

// Classifier resolves a domain to its category. The store consults it once
// per append; later category changes do not recategorize existing rollups.
type Classifier interface {
	Classify(domain string) entity.Category
}

type rollup struct {
	totalTime        int64
	productiveTime   int64
	unproductiveTime int64
	neutralTime      int64
	domains          map[string]struct{}
}

// MemoryStore is an append-only in-memory record store with a derived
// per-date rollup index. One exclusive-write mutex per instance; reads hand
// out copies so aggregation never observes a history mutating mid-scan.
type MemoryStore struct {
	mu      sync.Mutex
	entries []entity.TimeEntry
	rollups map[string]*rollup
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rollups: make(map[string]*rollup),
	}
}

// Append inserts an entry and folds it into the rollup bucket matching the
// domain's category at append time.
func (s *MemoryStore) Append(entry entity.TimeEntry, classifier Classifier) error {
	if entry.Domain == "" || entry.TimeSpent <= 0 {
		return ErrInvalidEntry
	}

	if entry.Date == "" {
		entry.Date = entry.StartedAt.Format("2006-01-02")
	}

	category := entity.CategoryNeutral
	if classifier != nil {
		category = classifier.Classify(entry.Domain)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)

	r, ok := s.rollups[entry.Date]
	if !ok {
		r = &rollup{domains: make(map[string]struct{})}
		s.rollups[entry.Date] = r
	}

	r.totalTime += entry.TimeSpent
	r.domains[entry.Domain] = struct{}{}

	switch category {
	case entity.CategoryProductive:
		r.productiveTime += entry.TimeSpent
	case entity.CategoryUnproductive:
		r.unproductiveTime += entry.TimeSpent
	default:
		r.neutralTime += entry.TimeSpent
	}

	return nil
}

// Query returns a copy of the entries whose start falls in [start, end],
// ordered by start time ascending.
func (s *MemoryStore) Query(start, end time.Time) []entity.TimeEntry {
	if end.Before(start) {
		return nil
	}

	s.mu.Lock()
	var result []entity.TimeEntry
	for _, e := range s.entries {
		if e.StartedAt.Before(start) || e.StartedAt.After(end) {
			continue
		}
		result = append(result, e)
	}
	s.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.Before(result[j].StartedAt)
	})

	return result
}

// Rollup returns the derived aggregate for one date.
func (s *MemoryStore) Rollup(date string) (entity.DailyRollup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rollups[date]
	if !ok {
		return entity.DailyRollup{Date: date}, false
	}

	return s.toDailyRollupLocked(date, r), true
}

// Rollups returns all daily aggregates sorted by date ascending.
func (s *MemoryStore) Rollups() []entity.DailyRollup {
	s.mu.Lock()
	result := make([]entity.DailyRollup, 0, len(s.rollups))
	for date, r := range s.rollups {
		result = append(result, s.toDailyRollupLocked(date, r))
	}
	s.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result
}

// Prune deletes entries and rollups with date < olderThan (YYYY-MM-DD).
// Running it twice with the same cutoff is a no-op the second time.
func (s *MemoryStore) Prune(olderThan string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	removed := 0
	for _, e := range s.entries {
		if e.Date < olderThan {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept

	for date := range s.rollups {
		if date < olderThan {
			delete(s.rollups, date)
		}
	}

	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) toDailyRollupLocked(date string, r *rollup) entity.DailyRollup {
	return entity.DailyRollup{
		Date:             date,
		TotalTime:        r.totalTime,
		ProductiveTime:   r.productiveTime,
		UnproductiveTime: r.unproductiveTime,
		NeutralTime:      r.neutralTime,
		UniqueDomains:    len(r.domains),
	}
}
