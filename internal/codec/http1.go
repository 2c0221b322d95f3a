package codec

// HTTP1xCodec is the HTTP/1.x wire engine. HTTP/1.x has no settings
// negotiation and no header compression, so EgressSettings returns nil and
// the codec does not implement HeaderIndexer.
type HTTP1xCodec struct {
	direction TransportDirection
	protocol  Protocol
}

var _ Codec = (*HTTP1xCodec)(nil)

// NewHTTP1xCodec creates an HTTP/1.1 codec for the given direction.
func NewHTTP1xCodec(direction TransportDirection) *HTTP1xCodec {
	return &HTTP1xCodec{direction: direction, protocol: ProtocolHTTP1_1}
}

// NewHTTP10Codec creates an HTTP/1.0 codec for the given direction.
func NewHTTP10Codec(direction TransportDirection) *HTTP1xCodec {
	return &HTTP1xCodec{direction: direction, protocol: ProtocolHTTP1_0}
}

// Protocol returns the HTTP/1.x variant this codec speaks.
func (c *HTTP1xCodec) Protocol() Protocol {
	return c.protocol
}

// TransportDirection returns the direction the codec was created with.
func (c *HTTP1xCodec) TransportDirection() TransportDirection {
	return c.direction
}

// EgressSettings returns nil; HTTP/1.x has no settings.
func (c *HTTP1xCodec) EgressSettings() *Settings {
	return nil
}
