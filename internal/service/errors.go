package service

import "errors"

// Resolution-path failures are hard errors surfaced to the caller; callers
// map them onto distinct response codes. Enrichment failures (list
// memberships for display) degrade softly instead and never reach these.
var (
	ErrUnauthenticated       = errors.New("not authenticated")
	ErrTenantContextRequired = errors.New("customer context required")
)

// ValidationError indicates malformed filter or pagination input, rejected
// before any store call.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}
