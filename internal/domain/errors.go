package domain

import "fmt"

// ErrKind classifies every error this service hands back to its callers.
// Handlers map kinds to HTTP statuses; nobody matches on message text.
type ErrKind int

const (
	KindInvalidInterval ErrKind = iota + 1
	KindInvalidResource
	KindConflict
	KindForbidden
	KindNotFound
	KindUnauthorized
	KindStorage
)

func (k ErrKind) String() string {
	switch k {
	case KindInvalidInterval:
		return "invalid_interval"
	case KindInvalidResource:
		return "invalid_resource"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is the single tagged error variant crossing the service boundary.
// Ref is set only for storage errors: the correlation id under which the
// real failure was logged.
type Error struct {
	Kind    ErrKind
	Code    int
	Message string
	Ref     string
}

func (e *Error) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s: %s (ref %s)", e.Kind, e.Message, e.Ref)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newErr(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Code: -1, Message: msg}
}

func ErrInvalidInterval(msg string) *Error { return newErr(KindInvalidInterval, msg) }
func ErrInvalidResource(msg string) *Error { return newErr(KindInvalidResource, msg) }
func ErrConflict(msg string) *Error        { return newErr(KindConflict, msg) }
func ErrForbidden(msg string) *Error       { return newErr(KindForbidden, msg) }
func ErrNotFound(msg string) *Error        { return newErr(KindNotFound, msg) }
func ErrUnauthorized(msg string) *Error    { return newErr(KindUnauthorized, msg) }

// ErrStorage masks an internal failure behind a reference id. The caller
// sees only the id; the detail goes to the log.
func ErrStorage(ref string) *Error {
	return &Error{Kind: KindStorage, Code: -1, Message: "internal error, reference " + ref, Ref: ref}
}

// KindOf extracts the kind from any error, KindStorage for foreign ones.
func KindOf(err error) ErrKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindStorage
}
