package repository

import "errors"

var (
	// ErrStorageUnavailable: a connection could not be acquired.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrQueryFailed: the driver rejected or failed a statement.
	ErrQueryFailed = errors.New("query failed")
	ErrNotFound    = errors.New("not found")
	// ErrIntegrityViolation: the entity is still referenced by another table.
	ErrIntegrityViolation = errors.New("entity is referenced")
)

// Kind classifies repository errors so adapters can branch on cause
// instead of guessing from a boolean.
type Kind int

const (
	KindNone Kind = iota
	KindStorageUnavailable
	KindQueryFailed
	KindNotFound
	KindIntegrityViolation
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindStorageUnavailable:
		return "storage_unavailable"
	case KindQueryFailed:
		return "query_failed"
	case KindNotFound:
		return "not_found"
	case KindIntegrityViolation:
		return "integrity_violation"
	default:
		return "unknown"
	}
}

// KindOf returns the Kind of err; nil maps to KindNone.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrStorageUnavailable):
		return KindStorageUnavailable
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrIntegrityViolation):
		return KindIntegrityViolation
	case errors.Is(err, ErrQueryFailed):
		return KindQueryFailed
	default:
		return KindUnknown
	}
}
