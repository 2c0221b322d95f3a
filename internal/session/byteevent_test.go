package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteEventTracker_ResolvesInOffsetOrder(t *testing.T) {
	cb := &fakeByteEventCallback{}
	tracker := NewByteEventTracker(cb)
	txn := &fakeTransaction{}

	tracker.AddFirstBodyByteEvent(10, txn)
	tracker.AddLastByteEvent(50, txn)
	tracker.AddTrackedByteEvent(80)
	require.Equal(t, 3, tracker.PendingEvents())

	// Ack covers only the first event.
	assert.Equal(t, 1, tracker.ProcessByteEvents(10))
	require.Len(t, cb.resolved, 1)
	assert.Equal(t, ByteEventFirstByte, cb.resolved[0].Type)
	assert.Equal(t, uint64(10), cb.resolved[0].Offset)
	assert.Equal(t, 2, tracker.PendingEvents())

	// Ack short of the next event resolves nothing.
	assert.Equal(t, 0, tracker.ProcessByteEvents(49))

	// Ack past everything drains the rest in order.
	assert.Equal(t, 2, tracker.ProcessByteEvents(100))
	require.Len(t, cb.resolved, 3)
	assert.Equal(t, ByteEventLastByte, cb.resolved[1].Type)
	assert.Equal(t, ByteEventTrackedByte, cb.resolved[2].Type)
	assert.Equal(t, 0, tracker.PendingEvents())
}

func TestByteEventTracker_NilCallbackResolvesSilently(t *testing.T) {
	tracker := NewByteEventTracker(nil)
	tracker.AddTrackedByteEvent(1)
	assert.NotPanics(t, func() {
		assert.Equal(t, 1, tracker.ProcessByteEvents(1))
	})
}

func TestByteEventTracker_LastByteRecordsTTLB(t *testing.T) {
	tracker := NewByteEventTracker(nil)
	stats := &fakeStats{}
	tracker.SetTTLBAStats(stats)

	tracker.AddFirstBodyByteEvent(1, nil)
	tracker.AddLastByteEvent(2, nil)
	tracker.ProcessByteEvents(2)

	// Only the last-byte milestone contributes a latency sample.
	require.Len(t, stats.ttlbs, 1)
	assert.GreaterOrEqual(t, int64(stats.ttlbs[0]), int64(0))
}

func TestByteEventTracker_CancelAll(t *testing.T) {
	cb := &fakeByteEventCallback{}
	tracker := NewByteEventTracker(cb)
	tracker.AddFirstBodyByteEvent(10, nil)
	tracker.AddLastByteEvent(20, nil)

	assert.Equal(t, 2, tracker.CancelAll())
	assert.Equal(t, 0, tracker.PendingEvents())
	require.Len(t, cb.cancelled, 2)
	assert.Empty(t, cb.resolved)
}

func TestByteEventTracker_AbsorbMovesAllPendingState(t *testing.T) {
	prev := NewByteEventTracker(nil)
	prev.AddFirstBodyByteEvent(5, nil)
	prev.AddLastByteEvent(15, nil)
	prev.AddTrackedByteEvent(25)

	next := NewByteEventTracker(nil)
	next.Absorb(prev)

	assert.Equal(t, 0, prev.PendingEvents())
	require.Equal(t, 3, next.PendingEvents())

	cb := &fakeByteEventCallback{}
	next.SetCallback(cb)
	next.ProcessByteEvents(25)
	require.Len(t, cb.resolved, 3)
	assert.Equal(t, uint64(5), cb.resolved[0].Offset)
	assert.Equal(t, uint64(15), cb.resolved[1].Offset)
	assert.Equal(t, uint64(25), cb.resolved[2].Offset)
}

func TestByteEventTracker_AbsorbNilIsNoop(t *testing.T) {
	tracker := NewByteEventTracker(nil)
	assert.NotPanics(t, func() { tracker.Absorb(nil) })
	assert.Equal(t, 0, tracker.PendingEvents())
}

func TestByteEventType_String(t *testing.T) {
	assert.Equal(t, "first_byte", ByteEventFirstByte.String())
	assert.Equal(t, "last_byte", ByteEventLastByte.String())
	assert.Equal(t, "tracked_byte", ByteEventTrackedByte.String())
}
