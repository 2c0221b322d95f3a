package session

// Hand-rolled fakes for the session's collaborators. Each fake records the
// calls it receives; tests assert on the recordings.

import (
	"net"
	"testing"
	"time"

	"golang.org/x/net/http2/hpack"

	"example.com/hsession/internal/codec"
	"example.com/hsession/internal/config"
)

// markerStrategy is a comparable indexing strategy distinct from the codec
// default, so tests can tell whether the controller's strategy was installed.
type markerStrategy struct {
	name string
}

func (markerStrategy) Index(hf hpack.HeaderField) bool { return true }

type fakeTransaction struct {
	chunks        int
	receivedBytes int
	aborted       int
	handler       Handler
	errs          []*codec.ParseError

	// onIngress, when set, runs after the default bookkeeping on every
	// OnIngressBody delivery. Tests use it to consume synchronously or to
	// trigger reentrant session operations.
	onIngress func(data []byte, padding uint16)
}

func (t *fakeTransaction) OnIngressBody(data []byte, padding uint16) {
	t.chunks++
	t.receivedBytes += len(data) + int(padding)
	if t.onIngress != nil {
		t.onIngress(data, padding)
	}
}

func (t *fakeTransaction) SendAbort() { t.aborted++ }

func (t *fakeTransaction) SetHandler(h Handler) { t.handler = h }

func (t *fakeTransaction) OnError(err *codec.ParseError) {
	t.errs = append(t.errs, err)
	if t.handler != nil {
		t.handler.OnError(err)
	}
}

type fakeHandler struct {
	errs []*codec.ParseError
}

func (h *fakeHandler) OnError(err *codec.ParseError) { h.errs = append(h.errs, err) }

type fakeController struct {
	attaches     int
	detaches     int
	codecChanges int

	strategy codec.HeaderIndexingStrategy

	// handler is returned by GetParseErrorHandler; nil means "no handler".
	handler            Handler
	parseHandlerCalls  int
	lastParseErr       *codec.ParseError
	lastParseLocalAddr net.Addr
}

func (c *fakeController) AttachSession(s *SessionCore) { c.attaches++ }
func (c *fakeController) DetachSession(s *SessionCore) { c.detaches++ }
func (c *fakeController) OnSessionCodecChange(s *SessionCore) {
	c.codecChanges++
}

func (c *fakeController) GetHeaderIndexingStrategy() codec.HeaderIndexingStrategy {
	return c.strategy
}

func (c *fakeController) GetParseErrorHandler(txn Transaction, err *codec.ParseError, localAddr net.Addr) Handler {
	c.parseHandlerCalls++
	c.lastParseErr = err
	c.lastParseLocalAddr = localAddr
	return c.handler
}

type fakeInfoCallback struct {
	destroys      int
	limitExceeded int
	ingressErrors []codec.IngressErrorKind
}

func (cb *fakeInfoCallback) OnDestroy(s *SessionCore) { cb.destroys++ }

func (cb *fakeInfoCallback) OnIngressLimitExceeded(s *SessionCore) { cb.limitExceeded++ }
func (cb *fakeInfoCallback) OnIngressError(s *SessionCore, kind codec.IngressErrorKind) {
	cb.ingressErrors = append(cb.ingressErrors, kind)
}

type fakeStats struct {
	pendingDeltas []int64
	ttlbs         []time.Duration
}

func (st *fakeStats) RecordPendingBufferedReadBytes(delta int64) {
	st.pendingDeltas = append(st.pendingDeltas, delta)
}

func (st *fakeStats) RecordTTLB(latency time.Duration) {
	st.ttlbs = append(st.ttlbs, latency)
}

type fakeByteEventCallback struct {
	resolved  []ByteEvent
	cancelled []ByteEvent
}

func (cb *fakeByteEventCallback) OnByteEvent(ev ByteEvent) {
	cb.resolved = append(cb.resolved, ev)
}

func (cb *fakeByteEventCallback) OnByteEventCanceled(ev ByteEvent) {
	cb.cancelled = append(cb.cancelled, ev)
}

func testAddrs() (local, peer *net.TCPAddr) {
	local = &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8443}
	peer = &net.TCPAddr{IP: net.IPv4(192, 0, 2, 10), Port: 41234}
	return local, peer
}

// newTestSession builds a session over an HTTP/2 codec with the given
// direction and a read buffer limit of 100 bytes, which the flow-control
// tests assume.
func newTestSession(t *testing.T, dir codec.TransportDirection, ctrl Controller, cb InfoCallback) *SessionCore {
	t.Helper()
	local, peer := testAddrs()
	cfg := config.Default().Session
	cfg.ReadBufLimit = 100
	return New(local, peer, ctrl, TransportInfo{}, cb, codec.NewHTTP2Codec(dir), &cfg, nil)
}
