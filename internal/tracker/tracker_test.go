package tracker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
)

type captureSink struct {
	mu      sync.Mutex
	entries []entity.TimeEntry
	fail    bool
}

func (s *captureSink) Submit(entry entity.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink unavailable")
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *captureSink) all() []entity.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.TimeEntry(nil), s.entries...)
}

func newTestTracker(sink Sink) *FocusTracker {
	return New(sink, Config{
		DwellThreshold: 5000 * time.Millisecond,
		Location:       time.UTC,
	})
}

var base = time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)

func TestFocusLost_EmitsEntryPastDwell(t *testing.T) {
	sink := &captureSink{}
	tr := newTestTracker(sink)

	tr.FocusGained("https://github.com/pulls", "Pull Requests", "https://github.com/favicon.ico", base)
	tr.FocusLost(base.Add(10 * time.Second))

	entries := sink.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "github.com", entries[0].Domain)
	assert.Equal(t, int64(10000), entries[0].TimeSpent)
	assert.Equal(t, base, entries[0].StartedAt)
	assert.Equal(t, "2025-05-12", entries[0].Date)
	require.NotNil(t, entries[0].URL)
	assert.Equal(t, "https://github.com/pulls", *entries[0].URL)

	_, tracking := tr.Current()
	assert.False(t, tracking)
}

func TestFocusLost_ShortDwellDiscarded(t *testing.T) {
	sink := &captureSink{}
	tr := newTestTracker(sink)

	tr.FocusGained("https://github.com", "", "", base)
	tr.FocusLost(base.Add(3 * time.Second))

	assert.Empty(t, sink.all())
}

func TestFocusGained_SameDomainKeepsStart(t *testing.T) {
	sink := &captureSink{}
	tr := newTestTracker(sink)

	tr.FocusGained("https://github.com/pulls", "", "", base)
	tr.FocusGained("https://github.com/issues", "", "", base.Add(2*time.Second))
	tr.FocusGained("https://github.com/pulls", "", "", base.Add(4*time.Second))
	tr.FocusLost(base.Add(10 * time.Second))

	entries := sink.all()
	require.Len(t, entries, 1, "one real session must not split into multiple records")
	assert.Equal(t, int64(10000), entries[0].TimeSpent)
	assert.Equal(t, base, entries[0].StartedAt)
}

func TestFocusGained_SwitchClosesOldAndOpensNew(t *testing.T) {
	sink := &captureSink{}
	tr := newTestTracker(sink)

	tr.FocusGained("https://github.com", "", "", base)
	tr.FocusGained("https://youtube.com", "", "", base.Add(10*time.Second))

	session, tracking := tr.Current()
	require.True(t, tracking)
	assert.Equal(t, "youtube.com", session.Domain)

	tr.FocusLost(base.Add(16 * time.Second))

	entries := sink.all()
	require.Len(t, entries, 2)
	assert.Equal(t, "github.com", entries[0].Domain)
	assert.Equal(t, int64(10000), entries[0].TimeSpent)
	assert.Equal(t, "youtube.com", entries[1].Domain)
	assert.Equal(t, int64(6000), entries[1].TimeSpent)

	// границы сессий не пересекаются
	firstEnd := entries[0].StartedAt.Add(time.Duration(entries[0].TimeSpent) * time.Millisecond)
	assert.False(t, entries[1].StartedAt.Before(firstEnd))
}

func TestFocusGained_UntrackableURLClosesSession(t *testing.T) {
	sink := &captureSink{}
	tr := newTestTracker(sink)

	tr.FocusGained("https://github.com", "", "", base)
	tr.FocusGained("chrome://settings", "", "", base.Add(8*time.Second))

	entries := sink.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "github.com", entries[0].Domain)

	_, tracking := tr.Current()
	assert.False(t, tracking, "no session may open on an untrackable url")
}

func TestHandleEvent_WindowBlurAndRefocus(t *testing.T) {
	sink := &captureSink{}
	tr := newTestTracker(sink)

	url := "https://stackoverflow.com/questions/1"
	tr.HandleEvent(entity.FocusEvent{Type: entity.EventFocusGained, URL: &url, Timestamp: base})
	tr.HandleEvent(entity.FocusEvent{Type: entity.EventWindowBlurred, Timestamp: base.Add(7 * time.Second)})

	_, tracking := tr.Current()
	assert.False(t, tracking)

	tr.HandleEvent(entity.FocusEvent{Type: entity.EventWindowFocused, URL: &url, Timestamp: base.Add(60 * time.Second)})
	tr.HandleEvent(entity.FocusEvent{Type: entity.EventFocusLost, Timestamp: base.Add(72 * time.Second)})

	entries := sink.all()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(7000), entries[0].TimeSpent)
	assert.Equal(t, int64(12000), entries[1].TimeSpent)
}

func TestShutdown_AbandonsOpenSession(t *testing.T) {
	sink := &captureSink{}
	tr := newTestTracker(sink)

	tr.FocusGained("https://github.com", "", "", base)
	tr.Shutdown()

	assert.Empty(t, sink.all())
	_, tracking := tr.Current()
	assert.False(t, tracking)
}

func TestNoDoubleCounting(t *testing.T) {
	sink := &captureSink{}
	tr := newTestTracker(sink)

	// github holds focus for exactly 30s total across two sessions
	tr.FocusGained("https://github.com", "", "", base)
	tr.FocusGained("https://youtube.com", "", "", base.Add(20*time.Second))
	tr.FocusGained("https://github.com", "", "", base.Add(30*time.Second))
	tr.FocusLost(base.Add(40 * time.Second))

	var githubTotal int64
	for _, e := range sink.all() {
		if e.Domain == "github.com" {
			githubTotal += e.TimeSpent
		}
	}
	assert.Equal(t, int64(30000), githubTotal)
}

func TestSinkFailureDoesNotBlockTransitions(t *testing.T) {
	sink := &captureSink{fail: true}
	tr := newTestTracker(sink)

	tr.FocusGained("https://github.com", "", "", base)
	tr.FocusLost(base.Add(10 * time.Second))

	// session closed regardless of sink health
	_, tracking := tr.Current()
	assert.False(t, tracking)

	tr.FocusGained("https://youtube.com", "", "", base.Add(20*time.Second))
	session, tracking := tr.Current()
	require.True(t, tracking)
	assert.Equal(t, "youtube.com", session.Domain)
}

func TestConcurrentEventsStayConsistent(t *testing.T) {
	sink := &captureSink{}
	tr := newTestTracker(sink)

	var wg sync.WaitGroup
	urls := []string{"https://github.com", "https://youtube.com", "https://reddit.com"}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ts := base.Add(time.Duration(i) * 10 * time.Second)
			tr.FocusGained(urls[i%len(urls)], "", "", ts)
			tr.FocusLost(ts.Add(6 * time.Second))
		}(i)
	}
	wg.Wait()

	// at most one (or zero) active session after the dust settles
	if session, tracking := tr.Current(); tracking {
		assert.NotEmpty(t, session.Domain)
	}
	for _, e := range sink.all() {
		assert.Greater(t, e.TimeSpent, int64(0))
		assert.NotEmpty(t, e.Domain)
	}
}
