package session

import (
	"net"
	"time"

	"example.com/hsession/internal/codec"
)

// Handler is the application-side object a transaction delivers events to.
// At the session layer only error delivery matters; richer handler surfaces
// belong to the transaction layer.
type Handler interface {
	// OnError delivers a parse error to the handler. The handler decides how
	// to react, e.g. by producing an error response through its transaction.
	OnError(err *codec.ParseError)
}

// Transaction is one HTTP exchange multiplexed on a session. The session
// routes ingress body bytes to it and, for parse errors that arrive before
// the application attached a handler, installs one or aborts the exchange.
//
// A transaction must tolerate SetHandler and OnError after parsing has
// already started.
type Transaction interface {
	// OnIngressBody delivers a chunk of request/response body plus its
	// padding. The transaction may buffer the bytes or consume them
	// immediately; consumed bytes are reported back to the session via
	// NotifyBodyProcessed, possibly synchronously from within this call.
	OnIngressBody(data []byte, padding uint16)
	// SendAbort terminates the exchange.
	SendAbort()
	// SetHandler attaches the application handler.
	SetHandler(h Handler)
	// OnError delivers an error to the transaction (and through it to the
	// attached handler).
	OnError(err *codec.ParseError)
}

// Controller supplies per-connection policy to a session. The session holds
// a non-owning, nullable reference to it; every method must be safe to call
// synchronously from within session lifecycle operations.
type Controller interface {
	// AttachSession is called when the session binds itself to this
	// controller.
	AttachSession(s *SessionCore)
	// DetachSession is called exactly once during session teardown.
	DetachSession(s *SessionCore)
	// OnSessionCodecChange notifies the controller that the session's codec
	// was replaced or reconfigured.
	OnSessionCodecChange(s *SessionCore)
	// GetHeaderIndexingStrategy returns the header-indexing policy the
	// session should install on HPACK-capable codecs.
	GetHeaderIndexingStrategy() codec.HeaderIndexingStrategy
	// GetParseErrorHandler builds a handler for a parse error that arrived on
	// a handler-less transaction, or returns nil when the error cannot be
	// handled and the transaction should be aborted.
	GetParseErrorHandler(txn Transaction, err *codec.ParseError, localAddr net.Addr) Handler
}

// InfoCallback receives fire-and-forget session lifecycle notifications. No
// return value is consulted; a nil callback disables all notifications.
type InfoCallback interface {
	// OnDestroy fires first in the session teardown sequence.
	OnDestroy(s *SessionCore)
	// OnIngressLimitExceeded fires once per upward crossing of the ingress
	// buffer limit.
	OnIngressLimitExceeded(s *SessionCore)
	// OnIngressError reports a parse error for which a handler was installed.
	OnIngressError(s *SessionCore, kind codec.IngressErrorKind)
}

// SessionStats receives accounting events. Implementations typically feed
// counters or histograms; a nil observer disables recording.
type SessionStats interface {
	// RecordPendingBufferedReadBytes tracks the session-wide delta of
	// buffered ingress bytes (positive on enqueue, negative on consume).
	RecordPendingBufferedReadBytes(delta int64)
	// RecordTTLB records the time-to-last-byte latency for a tracked egress
	// message, reported through the byte-event tracker.
	RecordTTLB(latency time.Duration)
}

// TransportInfo carries connection-establishment metadata captured by the
// transport and handed to the session at construction.
type TransportInfo struct {
	// ALPN is the negotiated application protocol, empty when none.
	ALPN string
	// TLSVersion is the negotiated TLS version string, empty for plaintext.
	TLSVersion string
	// Secure reports whether the transport is encrypted.
	Secure bool
	// SetupDuration is the time from accept/connect to readiness.
	SetupDuration time.Duration
}
