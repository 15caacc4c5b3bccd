package tracker

import (
	"fmt"
	"sync"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
)

// RetrySink wraps a Sink and queues entries whose submission failed so they
// can be flushed later. The queue is keyed by domain+startedAt, which is the
// identity a downstream sink deduplicates on, so a retried submission stays
// idempotent.
type RetrySink struct {
	mu      sync.Mutex
	sink    Sink
	pending []entity.TimeEntry
	queued  map[string]struct{}
}

func NewRetrySink(sink Sink) *RetrySink {
	return &RetrySink{
		sink:   sink,
		queued: make(map[string]struct{}),
	}
}

func (r *RetrySink) Submit(entry entity.TimeEntry) error {
	err := r.sink.Submit(entry)
	if err == nil {
		return nil
	}

	r.enqueue(entry)
	return fmt.Errorf("submission queued for retry: %w", err)
}

// Flush retries every queued entry. Entries that fail again are re-queued.
func (r *RetrySink) Flush() (submitted int) {
	r.mu.Lock()
	batch := r.pending
	r.pending = nil
	r.queued = make(map[string]struct{})
	r.mu.Unlock()

	for _, entry := range batch {
		if err := r.sink.Submit(entry); err != nil {
			r.enqueue(entry)
			continue
		}
		submitted++
	}

	return submitted
}

// Pending reports how many entries await a retry.
func (r *RetrySink) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

func (r *RetrySink) enqueue(entry entity.TimeEntry) {
	key := entry.Domain + "|" + entry.StartedAt.UTC().Format("2006-01-02T15:04:05.000000000")

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.queued[key]; ok {
		return
	}
	r.queued[key] = struct{}{}
	r.pending = append(r.pending, entry)
}
