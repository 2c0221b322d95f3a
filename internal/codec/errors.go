package codec

import "fmt"

// ErrorCode represents an HTTP/2 error code (RFC 7540 Section 7). HTTP/1.x
// parse failures are reported with ErrCodeProtocolError.
type ErrorCode uint32

const (
	ErrCodeNoError            ErrorCode = 0x0
	ErrCodeProtocolError      ErrorCode = 0x1
	ErrCodeInternalError      ErrorCode = 0x2
	ErrCodeFlowControlError   ErrorCode = 0x3
	ErrCodeSettingsTimeout    ErrorCode = 0x4
	ErrCodeStreamClosed       ErrorCode = 0x5
	ErrCodeFrameSizeError     ErrorCode = 0x6
	ErrCodeRefusedStream      ErrorCode = 0x7
	ErrCodeCancel             ErrorCode = 0x8
	ErrCodeCompressionError   ErrorCode = 0x9
	ErrCodeConnectError       ErrorCode = 0xa
	ErrCodeEnhanceYourCalm    ErrorCode = 0xb
	ErrCodeInadequateSecurity ErrorCode = 0xc
	ErrCodeHTTP11Required     ErrorCode = 0xd
)

// String returns the RFC name of the error code.
func (e ErrorCode) String() string {
	switch e {
	case ErrCodeNoError:
		return "NO_ERROR"
	case ErrCodeProtocolError:
		return "PROTOCOL_ERROR"
	case ErrCodeInternalError:
		return "INTERNAL_ERROR"
	case ErrCodeFlowControlError:
		return "FLOW_CONTROL_ERROR"
	case ErrCodeSettingsTimeout:
		return "SETTINGS_TIMEOUT"
	case ErrCodeStreamClosed:
		return "STREAM_CLOSED"
	case ErrCodeFrameSizeError:
		return "FRAME_SIZE_ERROR"
	case ErrCodeRefusedStream:
		return "REFUSED_STREAM"
	case ErrCodeCancel:
		return "CANCEL"
	case ErrCodeCompressionError:
		return "COMPRESSION_ERROR"
	case ErrCodeConnectError:
		return "CONNECT_ERROR"
	case ErrCodeEnhanceYourCalm:
		return "ENHANCE_YOUR_CALM"
	case ErrCodeInadequateSecurity:
		return "INADEQUATE_SECURITY"
	case ErrCodeHTTP11Required:
		return "HTTP_1_1_REQUIRED"
	default:
		return fmt.Sprintf("UNKNOWN_ERROR_CODE_%d", uint32(e))
	}
}

// IngressErrorKind is the normalized classification of a parse error, used
// when reporting ingress failures to session observers that do not care
// about wire-level codes.
type IngressErrorKind uint8

const (
	// IngressErrorUnknown covers codes with no more specific classification.
	IngressErrorUnknown IngressErrorKind = iota
	// IngressErrorMessage is a malformed request or response.
	IngressErrorMessage
	// IngressErrorHeaderCompression is a header-compression (HPACK) failure.
	IngressErrorHeaderCompression
	// IngressErrorFlowControl is a flow-control violation by the peer.
	IngressErrorFlowControl
	// IngressErrorFrameSize is a frame with an invalid size.
	IngressErrorFrameSize
)

// String returns a short name for the kind.
func (k IngressErrorKind) String() string {
	switch k {
	case IngressErrorMessage:
		return "message_error"
	case IngressErrorHeaderCompression:
		return "header_compression_error"
	case IngressErrorFlowControl:
		return "flow_control_error"
	case IngressErrorFrameSize:
		return "frame_size_error"
	default:
		return "unknown_error"
	}
}

// ParseError describes a protocol violation detected by a codec while
// parsing ingress. It implements the standard Go error interface.
type ParseError struct {
	Code  ErrorCode
	Msg   string
	Cause error // optional underlying cause
}

// Error returns a string representation of the ParseError.
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s (code %s, %d): %s", e.Msg, e.Code.String(), e.Code, e.Cause)
	}
	return fmt.Sprintf("parse error: %s (code %s, %d)", e.Msg, e.Code.String(), e.Code)
}

// Unwrap returns the underlying cause of the error, if any.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Kind maps the wire-level error code to its normalized ingress
// classification.
func (e *ParseError) Kind() IngressErrorKind {
	switch e.Code {
	case ErrCodeProtocolError, ErrCodeStreamClosed, ErrCodeRefusedStream:
		return IngressErrorMessage
	case ErrCodeCompressionError:
		return IngressErrorHeaderCompression
	case ErrCodeFlowControlError:
		return IngressErrorFlowControl
	case ErrCodeFrameSizeError:
		return IngressErrorFrameSize
	default:
		return IngressErrorUnknown
	}
}

// NewParseError creates a new ParseError.
func NewParseError(code ErrorCode, msg string) *ParseError {
	return &ParseError{Code: code, Msg: msg}
}

// NewParseErrorWithCause creates a new ParseError with an underlying cause.
func NewParseErrorWithCause(code ErrorCode, msg string, cause error) *ParseError {
	return &ParseError{Code: code, Msg: msg, Cause: cause}
}
