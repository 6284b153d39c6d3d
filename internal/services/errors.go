// Package services holds the transactional use-cases of the risk engine.
// This file centralizes the service-level error values so that they can be
// consistently returned by service methods and checked by callers with
// errors.Is.
//
// Translation into HTTP status codes is performed at the handler layer.
// Idempotent replays and forgiving no-ops are not errors and have no entry
// here.
package services

import "errors"

// Validation errors.
var (
	// ErrEmptySubject is returned when no subject id was supplied.
	ErrEmptySubject = errors.New("subject is empty")

	// ErrInvalidSourceKind is returned for a source kind other than sms or call
	// on the generic event path.
	ErrInvalidSourceKind = errors.New("source kind must be sms or call")

	// ErrInvalidConfidence is returned when a confidence is outside [0,100].
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 100")

	// ErrInvalidStatus is returned for an unknown ledger status filter.
	ErrInvalidStatus = errors.New("status must be ACTIVE, RESOLVED or DECAYED")

	// ErrEmptySource is returned when a scam event carries no source id.
	ErrEmptySource = errors.New("source id is empty")

	// ErrEmptyText is returned when a message or transcript is blank.
	ErrEmptyText = errors.New("text is empty")

	// ErrTextTooLong is returned when a message exceeds the configured limit.
	ErrTextTooLong = errors.New("text too long")

	// ErrInvalidCoordinates is returned for an SOS location outside the
	// valid latitude/longitude range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrInvalidPhoneHash is returned when a phone hash is not 64 lowercase
	// hex characters.
	ErrInvalidPhoneHash = errors.New("phone hash must be 64 hex characters")

	// ErrInvalidPhone is returned when a raw phone number cannot be parsed.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrInvalidCategory is returned for an unknown report category.
	ErrInvalidCategory = errors.New("invalid report category")

	// ErrInvalidObservation is returned for a negative call duration or an
	// unknown time of day.
	ErrInvalidObservation = errors.New("invalid call observation")

	// ErrNotesTooLong is returned when report notes exceed the limit.
	ErrNotesTooLong = errors.New("notes too long")
)

// Anti-abuse errors.
var (
	// ErrReportRateLimited is returned when a reporter exceeded the rolling
	// daily report limit.
	ErrReportRateLimited = errors.New("report limit reached, try again later")

	// ErrDuplicateReport is returned when a reporter already reported the
	// same phone hash.
	ErrDuplicateReport = errors.New("phone already reported by this user")
)
