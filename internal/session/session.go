// Package session implements the version-agnostic session core that sits
// between a byte-stream transport and per-exchange transactions. One
// SessionCore represents one established connection and owns the
// connection-scoped policy individual transactions cannot decide alone:
// ingress backpressure accounting, byte-event tracker ownership, the binding
// to an external controller, and the dispatch of parse errors that arrive
// before a transaction has a handler.
//
// All operations on a SessionCore execute on the single sequential context
// that owns the connection; there is no internal locking. Cross-connection
// parallelism comes from running many independent sessions.
package session

import (
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"example.com/hsession/internal/codec"
	"example.com/hsession/internal/config"
	"example.com/hsession/internal/logger"
	"example.com/hsession/internal/netutil"
)

// SessionCore multiplexes one or more concurrent exchanges over a single
// connection, independent of whether the wire protocol is HTTP/1.x or
// HTTP/2.
type SessionCore struct {
	id        string
	localAddr net.Addr
	peerAddr  net.Addr
	tinfo     TransportInfo

	// codec is exclusively owned and never nil after construction.
	codec codec.Codec

	// controller, infoCallback and sessionStats are borrowed, nullable
	// references; all dependent operations degrade to no-ops when nil.
	controller   Controller
	infoCallback InfoCallback
	sessionStats SessionStats

	byteEventTracker *ByteEventTracker

	// pendingReadSize counts ingress body bytes buffered by transactions but
	// not yet reported processed. Never decremented below zero; an
	// over-decrement is a contract violation and panics.
	pendingReadSize uint32
	readBufLimit    uint32

	prioritySampled     bool
	h2PrioritiesEnabled bool
	exHeadersEnabled    bool

	// guards counts in-flight operations that must observe a fully alive
	// session; teardown requested while guarded is deferred until the
	// outermost guard releases.
	guards         int
	destroyPending bool
	destroyed      bool

	log zerolog.Logger
}

// New creates a session for an established connection. localAddr and
// peerAddr are normalized once (IPv4-mapped-IPv6 collapsed to IPv4); cdc must
// be non-nil. controller, infoCallback, cfg and log may each be nil; nil cfg
// takes the default limits and a nil log discards.
//
// The controller is stored but not attached; call AttachToSessionController
// once the session is ready to receive controller callbacks.
func New(
	localAddr, peerAddr net.Addr,
	controller Controller,
	tinfo TransportInfo,
	infoCallback InfoCallback,
	cdc codec.Codec,
	cfg *config.SessionConfig,
	log *logger.Logger,
) *SessionCore {
	if cdc == nil {
		panic("session: codec must not be nil")
	}
	if cfg == nil {
		defaults := config.Default().Session
		cfg = &defaults
	}
	if log == nil {
		log = logger.Nop()
	}

	localAddr = netutil.NormalizeAddr(localAddr)
	peerAddr = netutil.NormalizeAddr(peerAddr)

	s := &SessionCore{
		id:                  uuid.NewString(),
		localAddr:           localAddr,
		peerAddr:            peerAddr,
		tinfo:               tinfo,
		codec:               cdc,
		infoCallback:        infoCallback,
		readBufLimit:        cfg.ReadBufLimit,
		h2PrioritiesEnabled: true,
	}
	s.log = log.With().
		Str("session_id", s.id).
		Stringer("protocol", cdc.Protocol()).
		Str("local_addr", addrString(localAddr)).
		Str("peer_addr", addrString(peerAddr)).
		Logger()

	s.SetController(controller)
	return s
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}

// ID returns the session's unique identifier.
func (s *SessionCore) ID() string { return s.id }

// LocalAddr returns the normalized local endpoint address.
func (s *SessionCore) LocalAddr() net.Addr { return s.localAddr }

// PeerAddr returns the normalized peer endpoint address.
func (s *SessionCore) PeerAddr() net.Addr { return s.peerAddr }

// TransportInfo returns the connection-establishment metadata.
func (s *SessionCore) TransportInfo() TransportInfo { return s.tinfo }

// Codec returns the active wire-format engine.
func (s *SessionCore) Codec() codec.Codec { return s.codec }

// Controller returns the attached controller, or nil.
func (s *SessionCore) Controller() Controller { return s.controller }

// InfoCallback returns the lifecycle observer, or nil.
func (s *SessionCore) InfoCallback() InfoCallback { return s.infoCallback }

// SetInfoCallback replaces the lifecycle observer.
func (s *SessionCore) SetInfoCallback(cb InfoCallback) { s.infoCallback = cb }

// PendingReadSize returns the ingress bytes currently buffered by
// transactions but not yet reported processed.
func (s *SessionCore) PendingReadSize() uint32 { return s.pendingReadSize }

// ReadBufferLimit returns the ingress buffering threshold.
func (s *SessionCore) ReadBufferLimit() uint32 { return s.readBufLimit }

// SetReadBufferLimit replaces the ingress buffering threshold. The new limit
// takes effect at the next increment or decrement; no crossing is computed
// here.
func (s *SessionCore) SetReadBufferLimit(limit uint32) { s.readBufLimit = limit }

// SetController stores the controller reference (nil detaches nothing; the
// reference is simply replaced) and re-derives the codec-level policy that
// depends on the controller.
func (s *SessionCore) SetController(controller Controller) {
	s.controller = controller
	s.initCodecHeaderIndexingStrategy()
}

// AttachToSessionController binds the session to its controller, if one is
// set. Safe to call with no controller.
func (s *SessionCore) AttachToSessionController() {
	if s.controller != nil {
		s.controller.AttachSession(s)
	}
}

// OnCodecChanged runs whenever the active codec is replaced or reconfigured:
// the controller is notified first (the notification may be what gives the
// controller fresh policy to report), then codec-level policy is re-derived.
func (s *SessionCore) OnCodecChanged() {
	if s.controller != nil {
		s.controller.OnSessionCodecChange(s)
	}
	s.initCodecHeaderIndexingStrategy()
}

// initCodecHeaderIndexingStrategy installs the controller's header-indexing
// strategy on the codec when both a controller is present and the codec
// belongs to the HTTP/2 family. Otherwise the codec keeps its existing
// default; absence of a controller is not an error.
func (s *SessionCore) initCodecHeaderIndexingStrategy() {
	if s.controller == nil || !s.codec.Protocol().UsesHPACK() {
		return
	}
	if indexer, ok := s.codec.(codec.HeaderIndexer); ok {
		indexer.SetHeaderIndexingStrategy(s.controller.GetHeaderIndexingStrategy())
	}
}

// ReplaceCodec swaps the active codec (protocol upgrade, reconfiguration)
// and runs the codec-changed sequence. The new codec must be non-nil.
func (s *SessionCore) ReplaceCodec(cdc codec.Codec) {
	if cdc == nil {
		panic("session: codec must not be nil")
	}
	s.codec = cdc
	s.log = s.log.With().Stringer("protocol", cdc.Protocol()).Logger()
	s.OnCodecChanged()
}

// OnBody routes a chunk of ingress body to txn and updates the session-wide
// flow-control accounting. The counter is incremented by len(data)+padding
// before delivery so bytes in flight are accounted even if the transaction
// consumes them synchronously; the transaction may call NotifyBodyProcessed
// from within OnIngressBody and the post-delivery counter is re-read, not
// assumed.
//
// Returns true when this call crossed the read buffer limit upward, meaning
// the caller should pause ingress. The signal is edge-triggered: while the
// counter stays above the limit, further calls return false. A counter
// sitting exactly at the limit counts as not exceeded.
//
// The session is guarded against teardown for the full duration of the call:
// the delivery may trigger a callback chain that requests destruction, and
// teardown then runs only after OnBody returns.
func (s *SessionCore) OnBody(data []byte, padding uint16, txn Transaction) bool {
	if txn == nil {
		panic("session: OnBody requires a transaction")
	}
	release := s.acquireGuard()
	defer release()

	oldSize := s.pendingReadSize
	n := uint32(len(data)) + uint32(padding)
	s.pendingReadSize += n
	if s.sessionStats != nil && n > 0 {
		s.sessionStats.RecordPendingBufferedReadBytes(int64(n))
	}

	txn.OnIngressBody(data, padding)

	if oldSize < s.pendingReadSize {
		// The transaction buffered at least part of the chunk without
		// reporting it processed.
		s.log.Debug().
			Uint32("pending_read_size", s.pendingReadSize).
			Uint32("read_buf_limit", s.readBufLimit).
			Msg("enqueued ingress")
		if s.pendingReadSize > s.readBufLimit && oldSize <= s.readBufLimit {
			if s.infoCallback != nil {
				s.infoCallback.OnIngressLimitExceeded(s)
			}
			return true
		}
	}
	return false
}

// NotifyBodyProcessed records that a transaction consumed bytes of buffered
// ingress and returns true when the counter crossed the read buffer limit
// downward, meaning the caller may resume ingress.
//
// bytes must not exceed PendingReadSize; a transaction over-reporting
// consumption is a programming error and panics rather than corrupting the
// accounting.
func (s *SessionCore) NotifyBodyProcessed(bytes uint32) bool {
	if bytes > s.pendingReadSize {
		panic(fmt.Sprintf(
			"session: NotifyBodyProcessed(%d) exceeds pending read size %d",
			bytes, s.pendingReadSize))
	}
	oldSize := s.pendingReadSize
	s.pendingReadSize -= bytes
	if s.sessionStats != nil && bytes > 0 {
		s.sessionStats.RecordPendingBufferedReadBytes(-int64(bytes))
	}
	s.log.Debug().
		Uint32("bytes", bytes).
		Uint32("pending_read_size", s.pendingReadSize).
		Uint32("read_buf_limit", s.readBufLimit).
		Msg("dequeued ingress")
	return oldSize > s.readBufLimit && s.pendingReadSize <= s.readBufLimit
}

// SetSessionStats replaces the stats observer and forwards it to the
// byte-event tracker, which reports latencies through the session's
// observer.
func (s *SessionCore) SetSessionStats(stats SessionStats) {
	s.sessionStats = stats
	if s.byteEventTracker != nil {
		s.byteEventTracker.SetTTLBAStats(stats)
	}
}

// ByteEventTracker returns the current tracker, or nil.
func (s *SessionCore) ByteEventTracker() *ByteEventTracker {
	return s.byteEventTracker
}

// SetByteEventTracker replaces the byte-event tracker. When both the new and
// the existing tracker are non-nil, the new tracker absorbs the
// predecessor's pending acknowledgment state before it becomes visible, so
// no in-flight byte event is lost across the swap. A non-nil replacement
// receives cb and the current stats observer.
func (s *SessionCore) SetByteEventTracker(tracker *ByteEventTracker, cb ByteEventCallback) {
	if tracker != nil && s.byteEventTracker != nil {
		tracker.Absorb(s.byteEventTracker)
	}
	s.byteEventTracker = tracker
	if s.byteEventTracker != nil {
		s.byteEventTracker.SetCallback(cb)
		s.byteEventTracker.SetTTLBAStats(s.sessionStats)
	}
}

// GetParseErrorHandler decides whether a parse error on a handler-less
// transaction can be handled locally. On the initiating side of an exchange
// (upstream direction) no meaningful error response can be synthesized, so
// no handler is returned regardless of controller policy; otherwise the
// controller builds the handler, which may still be nil.
func (s *SessionCore) GetParseErrorHandler(txn Transaction, err *codec.ParseError) Handler {
	if s.codec.TransportDirection() == codec.DirectionUpstream {
		// All an initiator can do with a pre-handler parse error is abort.
		return nil
	}
	if s.controller == nil {
		return nil
	}
	return s.controller.GetParseErrorHandler(txn, err, s.localAddr)
}

// HandleErrorDirectly resolves a parse error that arrived on a transaction
// with no handler attached. Either a controller-supplied handler is
// installed and the error delivered through it, or the transaction is
// aborted; the error is never silently swallowed.
func (s *SessionCore) HandleErrorDirectly(txn Transaction, err *codec.ParseError) {
	if txn == nil {
		panic("session: HandleErrorDirectly requires a transaction")
	}
	s.log.Debug().Err(err).Msg("creating direct error handler")
	handler := s.GetParseErrorHandler(txn, err)
	if handler == nil {
		txn.SendAbort()
		return
	}
	txn.SetHandler(handler)
	if s.infoCallback != nil {
		s.infoCallback.OnIngressError(s, err.Kind())
	}
	txn.OnError(err)
}

// EnableExHeadersSettings advertises extended-headers support in the codec's
// egress settings. On codecs without settings (HTTP/1.x) this is a no-op and
// the flag stays false.
func (s *SessionCore) EnableExHeadersSettings() {
	settings := s.codec.EgressSettings()
	if settings != nil {
		settings.SetSetting(codec.SettingEnableExHeaders, 1)
		s.exHeadersEnabled = true
	}
}

// ExHeadersEnabled reports whether extended headers were enabled.
func (s *SessionCore) ExHeadersEnabled() bool { return s.exHeadersEnabled }

// SetPrioritySampled toggles priority sampling. Default off.
func (s *SessionCore) SetPrioritySampled(enabled bool) { s.prioritySampled = enabled }

// PrioritySampled reports whether priority sampling is enabled.
func (s *SessionCore) PrioritySampled() bool { return s.prioritySampled }

// SetHTTP2PrioritiesEnabled toggles HTTP/2-style priority handling. Default
// on.
func (s *SessionCore) SetHTTP2PrioritiesEnabled(enabled bool) { s.h2PrioritiesEnabled = enabled }

// HTTP2PrioritiesEnabled reports whether HTTP/2-style priorities are
// enabled.
func (s *SessionCore) HTTP2PrioritiesEnabled() bool { return s.h2PrioritiesEnabled }

// RunDestroyCallbacks executes the teardown sequence exactly once: the info
// callback is notified of destruction, then the controller is detached and
// the controller reference cleared. The controller reference stays valid
// during the detach call itself.
func (s *SessionCore) RunDestroyCallbacks() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	if s.infoCallback != nil {
		s.infoCallback.OnDestroy(s)
	}
	if s.controller != nil {
		s.controller.DetachSession(s)
		s.controller = nil
	}
	s.log.Debug().Msg("session destroyed")
}

// Destroyed reports whether the teardown sequence has run.
func (s *SessionCore) Destroyed() bool { return s.destroyed }

// Destroy requests session teardown. If an operation currently holds the
// destruction guard (e.g. a callback chain rooted in OnBody), teardown is
// deferred until the outermost guarded operation returns; otherwise it runs
// immediately.
func (s *SessionCore) Destroy() {
	if s.guards > 0 {
		s.destroyPending = true
		return
	}
	s.RunDestroyCallbacks()
}

// acquireGuard marks the session as in use by a reentrancy-sensitive
// operation. The returned release function must be called when the operation
// completes; a deferred Destroy runs when the last guard releases.
func (s *SessionCore) acquireGuard() func() {
	s.guards++
	return func() {
		s.guards--
		if s.guards == 0 && s.destroyPending {
			s.destroyPending = false
			s.RunDestroyCallbacks()
		}
	}
}
