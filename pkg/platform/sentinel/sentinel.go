package sentinel

import "errors"

// Sentinel errors for infrastructure facts. The cache and store layers return
// these (optionally wrapped) so the account service can translate them into
// domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: row or cache entry does not exist
// - ErrConflict: write collided with an existing row (unique violation)
// - ErrUnavailable: backend temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
