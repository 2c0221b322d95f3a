// Package codec defines the wire-format engine surface the session layer
// consumes. A codec parses and serializes one protocol variant (HTTP/1.x or
// HTTP/2); the session owns exactly one codec at a time and treats it
// polymorphically through the Codec interface. Version-specific capabilities
// are reached through optional capability interfaces rather than type
// switches scattered across callers.
package codec

import "golang.org/x/net/http2/hpack"

// Codec is the version-agnostic surface a session needs from its wire-format
// engine.
type Codec interface {
	// Protocol identifies the wire protocol variant this codec speaks.
	Protocol() Protocol
	// TransportDirection reports which role this endpoint plays on the
	// connection.
	TransportDirection() TransportDirection
	// EgressSettings returns the settings this endpoint advertises to the
	// peer, or nil for protocol variants that have no settings concept.
	EgressSettings() *Settings
}

// HeaderIndexingStrategy decides, per header field, whether a
// compression-capable codec may add the field to its dynamic table. Fields
// the strategy declines are encoded as never-indexed literals.
type HeaderIndexingStrategy interface {
	Index(hf hpack.HeaderField) bool
}

// HeaderIndexingStrategyFunc adapts a plain function to a
// HeaderIndexingStrategy.
type HeaderIndexingStrategyFunc func(hf hpack.HeaderField) bool

// Index calls the underlying function.
func (f HeaderIndexingStrategyFunc) Index(hf hpack.HeaderField) bool {
	return f(hf)
}

// HeaderIndexer is the capability interface implemented by codecs whose
// header compression supports a pluggable indexing strategy. Callers check
// for it with a type assertion; codecs without header compression simply do
// not implement it.
type HeaderIndexer interface {
	SetHeaderIndexingStrategy(s HeaderIndexingStrategy)
	HeaderIndexingStrategy() HeaderIndexingStrategy
}

// defaultIndexingStrategy declines to index fields that are poor dynamic
// table candidates: :path and content-length vary per request and would
// churn the table.
type defaultIndexingStrategy struct{}

func (defaultIndexingStrategy) Index(hf hpack.HeaderField) bool {
	switch hf.Name {
	case ":path", "content-length":
		return false
	default:
		return true
	}
}

// DefaultHeaderIndexingStrategy is the strategy codecs use when no
// controller-supplied strategy has been installed.
var DefaultHeaderIndexingStrategy HeaderIndexingStrategy = defaultIndexingStrategy{}
