package session

import (
	"time"

	"github.com/eapache/queue"
)

// ByteEventType distinguishes the delivery milestones a tracker can watch.
type ByteEventType uint8

const (
	// ByteEventFirstByte fires when the first body byte of a message is
	// acknowledged by the transport.
	ByteEventFirstByte ByteEventType = iota
	// ByteEventLastByte fires when the final byte of a message is
	// acknowledged (time-to-last-byte).
	ByteEventLastByte
	// ByteEventTrackedByte fires for an explicitly tracked offset with no
	// associated transaction.
	ByteEventTrackedByte
)

// String returns a short name for the event type.
func (t ByteEventType) String() string {
	switch t {
	case ByteEventFirstByte:
		return "first_byte"
	case ByteEventLastByte:
		return "last_byte"
	case ByteEventTrackedByte:
		return "tracked_byte"
	default:
		return "unknown"
	}
}

// ByteEvent is one pending byte-level acknowledgment.
type ByteEvent struct {
	// Offset is the absolute egress byte offset this event resolves at.
	Offset uint64
	// Type is the delivery milestone.
	Type ByteEventType
	// Transaction is the exchange the event belongs to; nil for tracked-byte
	// events.
	Transaction Transaction
	// RecordedAt is when the event was registered, used for latency
	// measurement once the event resolves.
	RecordedAt time.Time
}

// ByteEventCallback receives resolved and cancelled byte events.
type ByteEventCallback interface {
	OnByteEvent(ev ByteEvent)
	OnByteEventCanceled(ev ByteEvent)
}

// ByteEventTracker tracks byte-level delivery acknowledgments for a session.
// Events are registered in increasing offset order and resolve in FIFO order
// as the transport acknowledges bytes.
//
// A tracker may be referenced by both the session and its transactions;
// replacement is session-initiated only, and the replacement must Absorb the
// predecessor so no pending acknowledgment is lost (see
// SessionCore.SetByteEventTracker).
type ByteEventTracker struct {
	pending    *queue.Queue // of ByteEvent, ordered by Offset
	callback   ByteEventCallback
	ttlbaStats SessionStats
}

// NewByteEventTracker creates a tracker delivering to cb. cb may be nil;
// events then resolve silently (stats are still recorded).
func NewByteEventTracker(cb ByteEventCallback) *ByteEventTracker {
	return &ByteEventTracker{
		pending:  queue.New(),
		callback: cb,
	}
}

// SetCallback replaces the event callback.
func (t *ByteEventTracker) SetCallback(cb ByteEventCallback) {
	t.callback = cb
}

// SetTTLBAStats installs the stats observer that receives time-to-last-byte
// latencies. The tracker reports through the session's observer, not one of
// its own.
func (t *ByteEventTracker) SetTTLBAStats(stats SessionStats) {
	t.ttlbaStats = stats
}

// AddFirstBodyByteEvent registers a first-byte milestone at offset for txn.
func (t *ByteEventTracker) AddFirstBodyByteEvent(offset uint64, txn Transaction) {
	t.addEvent(ByteEvent{Offset: offset, Type: ByteEventFirstByte, Transaction: txn, RecordedAt: time.Now()})
}

// AddLastByteEvent registers a last-byte milestone at offset for txn.
func (t *ByteEventTracker) AddLastByteEvent(offset uint64, txn Transaction) {
	t.addEvent(ByteEvent{Offset: offset, Type: ByteEventLastByte, Transaction: txn, RecordedAt: time.Now()})
}

// AddTrackedByteEvent registers a bare tracked offset.
func (t *ByteEventTracker) AddTrackedByteEvent(offset uint64) {
	t.addEvent(ByteEvent{Offset: offset, Type: ByteEventTrackedByte, RecordedAt: time.Now()})
}

// addEvent appends ev. Callers register events in non-decreasing offset
// order; the FIFO relies on it.
func (t *ByteEventTracker) addEvent(ev ByteEvent) {
	t.pending.Add(ev)
}

// PendingEvents returns the number of unresolved events.
func (t *ByteEventTracker) PendingEvents() int {
	return t.pending.Length()
}

// ProcessByteEvents resolves every pending event with Offset <= ackedOffset,
// invoking the callback for each and recording time-to-last-byte latency for
// last-byte events. Returns the number of events resolved.
func (t *ByteEventTracker) ProcessByteEvents(ackedOffset uint64) int {
	resolved := 0
	for t.pending.Length() > 0 {
		ev := t.pending.Peek().(ByteEvent)
		if ev.Offset > ackedOffset {
			break
		}
		t.pending.Remove()
		resolved++
		if ev.Type == ByteEventLastByte && t.ttlbaStats != nil {
			t.ttlbaStats.RecordTTLB(time.Since(ev.RecordedAt))
		}
		if t.callback != nil {
			t.callback.OnByteEvent(ev)
		}
	}
	return resolved
}

// CancelAll drains every pending event, notifying the callback of each
// cancellation. Used when the connection dies with acknowledgments
// outstanding.
func (t *ByteEventTracker) CancelAll() int {
	cancelled := 0
	for t.pending.Length() > 0 {
		ev := t.pending.Remove().(ByteEvent)
		cancelled++
		if t.callback != nil {
			t.callback.OnByteEventCanceled(ev)
		}
	}
	return cancelled
}

// Absorb transplants every pending event from prev into t, preserving order,
// and leaves prev empty. It must be called before prev is discarded when a
// session replaces its tracker; dropping the pending set would silently lose
// acknowledgment events.
//
// Absorb moves only the pending state. The callback and stats wiring of the
// new tracker are installed separately by the owner. The receiver is expected
// to be freshly constructed (empty pending set); absorbing into a tracker
// that already holds events would break the offset ordering invariant.
func (t *ByteEventTracker) Absorb(prev *ByteEventTracker) {
	if prev == nil {
		return
	}
	for prev.pending.Length() > 0 {
		t.pending.Add(prev.pending.Remove())
	}
}
