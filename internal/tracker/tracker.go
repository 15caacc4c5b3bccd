// internal/tracker/tracker.go
package tracker

import (
	"log"
	"sync"
	"time"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
)

const DefaultDwellThreshold = 5000 * time.Millisecond

// Sink receives completed time entries. Submit may fail; the tracker never
// blocks a session transition on sink health.
type Sink interface {
	Submit(entry entity.TimeEntry) error
}

// ActiveSession is the single in-flight focused session. It never survives a
// process restart.
type ActiveSession struct {
	Domain    string
	URL       string
	Title     string
	Favicon   string
	StartedAt time.Time
}

type Config struct {
	DwellThreshold time.Duration  // minimum session duration to record
	Location       *time.Location // timezone for the derived date field
}

// FocusTracker converts focus/visibility events into non-overlapping time
// entries. Transitions are serialized on a single mutex so the close-old /
// open-new switch is atomic: there is no window where two sessions are active
// or a concurrent read sees neither.
type FocusTracker struct {
	mu      sync.Mutex
	session *ActiveSession
	sink    Sink
	dwell   time.Duration
	loc     *time.Location
}

func New(sink Sink, cfg Config) *FocusTracker {
	dwell := cfg.DwellThreshold
	if dwell <= 0 {
		dwell = DefaultDwellThreshold
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &FocusTracker{
		sink:  sink,
		dwell: dwell,
		loc:   loc,
	}
}

// HandleEvent dispatches a single inbound focus event.
func (t *FocusTracker) HandleEvent(ev entity.FocusEvent) {
	url := ""
	if ev.URL != nil {
		url = *ev.URL
	}
	title := ""
	if ev.Title != nil {
		title = *ev.Title
	}
	favicon := ""
	if ev.Favicon != nil {
		favicon = *ev.Favicon
	}

	switch ev.Type {
	case entity.EventFocusGained, entity.EventWindowFocused:
		t.FocusGained(url, title, favicon, ev.Timestamp)
	case entity.EventFocusLost, entity.EventWindowBlurred:
		t.FocusLost(ev.Timestamp)
	}
}

// FocusGained opens a session on a trackable URL. An untrackable URL closes
// the current session without opening a new one. Re-focusing the domain that
// is already tracked keeps the original start time.
func (t *FocusTracker) FocusGained(url, title, favicon string, ts time.Time) {
	domain, err := ExtractDomain(url)

	var completed *entity.TimeEntry

	t.mu.Lock()
	if err != nil {
		completed = t.closeLocked(ts)
	} else if t.session != nil && t.session.Domain == domain {
		// idempotent re-focus, keep startedAt
	} else {
		completed = t.closeLocked(ts)
		t.session = &ActiveSession{
			Domain:    domain,
			URL:       url,
			Title:     title,
			Favicon:   favicon,
			StartedAt: ts,
		}
	}
	t.mu.Unlock()

	t.submit(completed)
}

// FocusLost closes the current session, emitting an entry when it passed the
// dwell threshold.
func (t *FocusTracker) FocusLost(ts time.Time) {
	t.mu.Lock()
	completed := t.closeLocked(ts)
	t.mu.Unlock()

	t.submit(completed)
}

// Current returns a snapshot of the active session, if any.
func (t *FocusTracker) Current() (ActiveSession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil {
		return ActiveSession{}, false
	}
	return *t.session, true
}

// Shutdown abandons an open session without emitting an entry. This is the
// accepted data-loss boundary on process exit.
func (t *FocusTracker) Shutdown() {
	t.mu.Lock()
	t.session = nil
	t.mu.Unlock()
}

// closeLocked ends the active session and returns the entry to emit, or nil
// when there was no session or it was below the dwell threshold. Callers hold
// t.mu; the sink is never invoked under the lock.
func (t *FocusTracker) closeLocked(ts time.Time) *entity.TimeEntry {
	if t.session == nil {
		return nil
	}

	s := t.session
	t.session = nil

	elapsed := ts.Sub(s.StartedAt)
	if elapsed < t.dwell {
		// шум, не записываем
		return nil
	}

	entry := entity.TimeEntry{
		Domain:    s.Domain,
		TimeSpent: elapsed.Milliseconds(),
		StartedAt: s.StartedAt,
		Date:      s.StartedAt.In(t.loc).Format("2006-01-02"),
	}
	if s.URL != "" {
		entry.URL = &s.URL
	}
	if s.Title != "" {
		entry.Title = &s.Title
	}
	if s.Favicon != "" {
		entry.Favicon = &s.Favicon
	}

	return &entry
}

func (t *FocusTracker) submit(entry *entity.TimeEntry) {
	if entry == nil || t.sink == nil {
		return
	}

	if err := t.sink.Submit(*entry); err != nil {
		log.Printf("failed to submit time entry for %s: %v", entry.Domain, err)
	}
}
