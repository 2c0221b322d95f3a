package codec

import (
	"bytes"
	"fmt"

	"golang.org/x/net/http2/hpack"
)

// HTTP2Codec is the HTTP/2-family wire engine. Only the pieces the session
// layer interacts with are modeled here: protocol identity, transport
// direction, the egress settings bag, and HPACK header encoding under a
// pluggable indexing strategy.
type HTTP2Codec struct {
	direction      TransportDirection
	egressSettings *Settings

	encodeBuf bytes.Buffer
	encoder   *hpack.Encoder
	strategy  HeaderIndexingStrategy
}

var _ Codec = (*HTTP2Codec)(nil)
var _ HeaderIndexer = (*HTTP2Codec)(nil)

// NewHTTP2Codec creates an HTTP/2 codec for the given direction with the
// RFC 7540 default egress settings and the default header-indexing strategy.
func NewHTTP2Codec(direction TransportDirection) *HTTP2Codec {
	settings := NewSettings()
	settings.SetSetting(SettingHeaderTableSize, DefaultHeaderTableSize)
	settings.SetSetting(SettingInitialWindowSize, DefaultInitialWindowSize)
	settings.SetSetting(SettingMaxFrameSize, DefaultMaxFrameSize)

	c := &HTTP2Codec{
		direction:      direction,
		egressSettings: settings,
		strategy:       DefaultHeaderIndexingStrategy,
	}
	c.encoder = hpack.NewEncoder(&c.encodeBuf)
	c.encoder.SetMaxDynamicTableSize(DefaultHeaderTableSize)
	return c
}

// Protocol returns ProtocolHTTP2.
func (c *HTTP2Codec) Protocol() Protocol {
	return ProtocolHTTP2
}

// TransportDirection returns the direction the codec was created with.
func (c *HTTP2Codec) TransportDirection() TransportDirection {
	return c.direction
}

// EgressSettings returns the settings this endpoint advertises to the peer.
func (c *HTTP2Codec) EgressSettings() *Settings {
	return c.egressSettings
}

// SetHeaderIndexingStrategy installs the strategy consulted for each header
// field during encoding. A nil strategy restores the default.
func (c *HTTP2Codec) SetHeaderIndexingStrategy(s HeaderIndexingStrategy) {
	if s == nil {
		s = DefaultHeaderIndexingStrategy
	}
	c.strategy = s
}

// HeaderIndexingStrategy returns the currently installed strategy.
func (c *HTTP2Codec) HeaderIndexingStrategy() HeaderIndexingStrategy {
	return c.strategy
}

// SetMaxEncoderTableSize updates the maximum dynamic table size the HPACK
// encoder may use. Set this to the peer's SETTINGS_HEADER_TABLE_SIZE once
// known; the encoder must not exceed the peer's limit.
func (c *HTTP2Codec) SetMaxEncoderTableSize(size uint32) {
	c.encoder.SetMaxDynamicTableSize(size)
}

// EncodeHeaders HPACK-encodes fields, consulting the indexing strategy for
// each one. Fields the strategy declines are written as never-indexed
// literals so neither endpoint adds them to its dynamic table. The returned
// slice is a copy and stays valid across further encode calls.
func (c *HTTP2Codec) EncodeHeaders(fields []hpack.HeaderField) ([]byte, error) {
	c.encodeBuf.Reset()
	for _, hf := range fields {
		if hf.Name == "" {
			return nil, fmt.Errorf("hpack: invalid header field: empty name (value: %q)", hf.Value)
		}
		if !c.strategy.Index(hf) {
			hf.Sensitive = true
		}
		if err := c.encoder.WriteField(hf); err != nil {
			return nil, fmt.Errorf("hpack: encoder.WriteField failed for %q: %w", hf.Name, err)
		}
	}
	encoded := make([]byte, c.encodeBuf.Len())
	copy(encoded, c.encodeBuf.Bytes())
	return encoded, nil
}
