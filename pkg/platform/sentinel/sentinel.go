package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so callers can branch on the fact without knowing the backend.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: no value persisted under the requested key
// - ErrUnavailable: the durable storage could not be opened or used
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("storage unavailable")
)
