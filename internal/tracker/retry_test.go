package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySink_QueuesFailedSubmissions(t *testing.T) {
	inner := &captureSink{fail: true}
	sink := NewRetrySink(inner)

	entry := entryAt("github.com", time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC), 10000)
	err := sink.Submit(entry)
	require.Error(t, err)
	assert.Equal(t, 1, sink.Pending(), "failed record must not be lost")
	assert.Empty(t, inner.all())

	// sink recovers
	inner.fail = false
	submitted := sink.Flush()
	assert.Equal(t, 1, submitted)
	assert.Equal(t, 0, sink.Pending())
	require.Len(t, inner.all(), 1)
	assert.Equal(t, "github.com", inner.all()[0].Domain)
}

func TestRetrySink_DeduplicatesByIdentity(t *testing.T) {
	inner := &captureSink{fail: true}
	sink := NewRetrySink(inner)

	entry := entryAt("github.com", time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC), 10000)
	require.Error(t, sink.Submit(entry))
	require.Error(t, sink.Submit(entry))

	assert.Equal(t, 1, sink.Pending(), "same domain+startedAt queues once")
}

func TestRetrySink_RequeuesOnFlushFailure(t *testing.T) {
	inner := &captureSink{fail: true}
	sink := NewRetrySink(inner)

	require.Error(t, sink.Submit(entryAt("github.com", time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC), 10000)))

	assert.Equal(t, 0, sink.Flush())
	assert.Equal(t, 1, sink.Pending())
}

func TestRetrySink_PassThroughWhenHealthy(t *testing.T) {
	inner := &captureSink{}
	sink := NewRetrySink(inner)

	require.NoError(t, sink.Submit(entryAt("github.com", time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC), 10000)))
	assert.Equal(t, 0, sink.Pending())
	assert.Len(t, inner.all(), 1)
}
