package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
)

type stubClassifier map[string]entity.Category

func (s stubClassifier) Classify(domain string) entity.Category {
	if c, ok := s[domain]; ok {
		return c
	}
	return entity.CategoryNeutral
}

func entryAt(domain string, startedAt time.Time, ms int64) entity.TimeEntry {
	return entity.TimeEntry{
		Domain:    domain,
		TimeSpent: ms,
		StartedAt: startedAt,
		Date:      startedAt.UTC().Format("2006-01-02"),
	}
}

func TestAppend_RejectsMalformedEntries(t *testing.T) {
	store := NewMemoryStore()

	err := store.Append(entity.TimeEntry{Domain: "", TimeSpent: 1000}, nil)
	assert.ErrorIs(t, err, ErrInvalidEntry)

	err = store.Append(entity.TimeEntry{Domain: "github.com", TimeSpent: 0}, nil)
	assert.ErrorIs(t, err, ErrInvalidEntry)

	err = store.Append(entity.TimeEntry{Domain: "github.com", TimeSpent: -500}, nil)
	assert.ErrorIs(t, err, ErrInvalidEntry)

	assert.Equal(t, 0, store.Len())
}

func TestAppend_UpdatesRollupByCategoryAtAppendTime(t *testing.T) {
	store := NewMemoryStore()
	classifier := stubClassifier{
		"github.com":  entity.CategoryProductive,
		"youtube.com": entity.CategoryUnproductive,
	}

	day := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(entryAt("github.com", day, 7200000), classifier))
	require.NoError(t, store.Append(entryAt("youtube.com", day.Add(3*time.Hour), 3600000), classifier))
	require.NoError(t, store.Append(entryAt("example.com", day.Add(5*time.Hour), 600000), classifier))

	rollup, ok := store.Rollup("2025-05-12")
	require.True(t, ok)
	assert.Equal(t, int64(11400000), rollup.TotalTime)
	assert.Equal(t, int64(7200000), rollup.ProductiveTime)
	assert.Equal(t, int64(3600000), rollup.UnproductiveTime)
	assert.Equal(t, int64(600000), rollup.NeutralTime)
	assert.Equal(t, 3, rollup.UniqueDomains)

	// recategorizing later does not touch the existing rollup
	classifier["github.com"] = entity.CategoryUnproductive
	rollup, _ = store.Rollup("2025-05-12")
	assert.Equal(t, int64(7200000), rollup.ProductiveTime)
}

func TestQuery_OrderedAndRangeBound(t *testing.T) {
	store := NewMemoryStore()
	day := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(entryAt("b.com", day.Add(15*time.Hour), 6000), nil))
	require.NoError(t, store.Append(entryAt("a.com", day.Add(9*time.Hour), 6000), nil))
	require.NoError(t, store.Append(entryAt("c.com", day.Add(48*time.Hour), 6000), nil))

	entries := store.Query(day, day.Add(24*time.Hour))
	require.Len(t, entries, 2)
	assert.Equal(t, "a.com", entries[0].Domain)
	assert.Equal(t, "b.com", entries[1].Domain)

	assert.Nil(t, store.Query(day.Add(time.Hour), day), "inverted range yields nothing")
}

func TestQuery_ReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	day := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(entryAt("github.com", day, 6000), nil))

	entries := store.Query(day.Add(-time.Hour), day.Add(time.Hour))
	entries[0].Domain = "mutated.com"

	again := store.Query(day.Add(-time.Hour), day.Add(time.Hour))
	assert.Equal(t, "github.com", again[0].Domain)
}

func TestPrune_RemovesOldDatesAndIsIdempotent(t *testing.T) {
	store := NewMemoryStore()

	old := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(entryAt("old.com", old, 6000), nil))
	require.NoError(t, store.Append(entryAt("new.com", recent, 6000), nil))

	removed := store.Prune("2025-05-01")
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())

	_, ok := store.Rollup("2025-04-01")
	assert.False(t, ok)
	_, ok = store.Rollup("2025-05-12")
	assert.True(t, ok)

	entries := store.Query(old.Add(-time.Hour), recent.Add(time.Hour))
	require.Len(t, entries, 1)
	assert.Equal(t, "new.com", entries[0].Domain)

	assert.Equal(t, 0, store.Prune("2025-05-01"), "second prune with same cutoff is a no-op")
}

func TestRollups_SortedByDate(t *testing.T) {
	store := NewMemoryStore()

	d1 := time.Date(2025, 5, 14, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(entryAt("a.com", d1, 6000), nil))
	require.NoError(t, store.Append(entryAt("b.com", d2, 6000), nil))

	rollups := store.Rollups()
	require.Len(t, rollups, 2)
	assert.Equal(t, "2025-05-12", rollups[0].Date)
	assert.Equal(t, "2025-05-14", rollups[1].Date)
}
