package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Adapters and stores return these
// (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about remote resources, not validation failures:
// - ErrNotFound: the backend has no such record
// - ErrConflict: the backend refused the write because of existing state
// - ErrUnauthorized: the access token was rejected
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)

// Reason returns the human-readable explanation a remote party attached to
// err, or "" when none is in its chain. Adapters expose it by implementing
// Reason() string on their error type.
func Reason(err error) string {
	var r interface{ Reason() string }
	if errors.As(err, &r) {
		return r.Reason()
	}
	return ""
}
