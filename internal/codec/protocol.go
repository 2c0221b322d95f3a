package codec

// Protocol identifies the wire protocol a codec speaks.
type Protocol uint8

const (
	// ProtocolHTTP1_0 is HTTP/1.0.
	ProtocolHTTP1_0 Protocol = iota
	// ProtocolHTTP1_1 is HTTP/1.1.
	ProtocolHTTP1_1
	// ProtocolHTTP2 is HTTP/2 (RFC 7540).
	ProtocolHTTP2
)

// String returns the ALPN-style name of the protocol.
func (p Protocol) String() string {
	switch p {
	case ProtocolHTTP1_0:
		return "http/1.0"
	case ProtocolHTTP1_1:
		return "http/1.1"
	case ProtocolHTTP2:
		return "h2"
	default:
		return "unknown"
	}
}

// UsesHPACK reports whether the protocol belongs to the HTTP/2 family, i.e.
// compresses headers with HPACK and understands SETTINGS.
func (p Protocol) UsesHPACK() bool {
	return p == ProtocolHTTP2
}

// TransportDirection describes which role this endpoint plays on the
// connection a codec is attached to.
type TransportDirection uint8

const (
	// DirectionDownstream means the peer initiated the connection and this
	// endpoint responds (server role).
	DirectionDownstream TransportDirection = iota
	// DirectionUpstream means this endpoint initiated the connection and
	// drives the exchanges (client role).
	DirectionUpstream
)

// String returns a human-readable direction name.
func (d TransportDirection) String() string {
	switch d {
	case DirectionDownstream:
		return "downstream"
	case DirectionUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}
