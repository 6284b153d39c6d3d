package handlers

// Error codes carried in ErrorResponse.Code. Clients branch on these, never
// on Message.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeUnavailable      = "unavailable"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// ErrCodeInternal is written by middleware.Recovery for panics.
	ErrCodeInternal = "internal_error"
)
