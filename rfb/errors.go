package rfb

import "fmt"

// Kind tags an Error with the taxonomy from the protocol design: transport
// failures, protocol violations, and decoder failures. All of them are
// fatal to a session; nothing in this package retries.
type Kind int

const (
	KindUnknown Kind = iota

	// Transport
	KindResolve
	KindConnect
	KindRead
	KindWrite
	KindSelect

	// Protocol
	KindNotRFB
	KindBadVersion
	KindUnknownAuth
	KindAuthRejected
	KindAuthFailed
	KindAuthTooMany
	KindBadFormat
	KindUnknownMessage
	KindMissingDecoder
	KindOversizedString
	KindUnsupportedFeature

	// Decoder
	KindZlibInit
	KindZlibDecompress
	KindInvalidColorDepth
)

func (k Kind) String() string {
	switch k {
	case KindResolve:
		return "Resolve"
	case KindConnect:
		return "Connect"
	case KindRead:
		return "Read"
	case KindWrite:
		return "Write"
	case KindSelect:
		return "Select"
	case KindNotRFB:
		return "NotRFB"
	case KindBadVersion:
		return "BadVersion"
	case KindUnknownAuth:
		return "UnknownAuth"
	case KindAuthRejected:
		return "AuthRejected"
	case KindAuthFailed:
		return "AuthFailed"
	case KindAuthTooMany:
		return "AuthTooMany"
	case KindBadFormat:
		return "BadFormat"
	case KindUnknownMessage:
		return "UnknownMessage"
	case KindMissingDecoder:
		return "MissingDecoder"
	case KindOversizedString:
		return "OversizedString"
	case KindUnsupportedFeature:
		return "UnsupportedFeature"
	case KindZlibInit:
		return "ZlibInit"
	case KindZlibDecompress:
		return "ZlibDecompress"
	case KindInvalidColorDepth:
		return "InvalidColorDepth"
	default:
		return "Unknown"
	}
}

// Error is the sole error type the engine returns. Every failure path is
// fatal to the session; there is no partial-state recovery because RFB has
// no resync points.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// wrapf builds an *Error that keeps err (which may be nil) in its Err
// field, exposed through Unwrap, so that errors.As/errors.Is keep working
// through the taxonomy.
func wrapf(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func errKind(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
