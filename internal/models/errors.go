package models

import "errors"

// Sentinel errors shared by the login, listing and insights layers.
// Callers wrap them with the underlying cause and match with errors.Is.
var (
	ErrLoginFailed         = errors.New("login failed")
	ErrResourceListFailed  = errors.New("failed to list pages")
	ErrInvalidRange        = errors.New("start date is after end date")
	ErrFutureDate          = errors.New("date range extends past today")
	ErrRangeTooLong        = errors.New("date range exceeds 93 days")
	ErrInsightsFetchFailed = errors.New("failed to fetch insights")
)

// IsValidationError reports whether err was produced by client-side date
// range validation rather than by a remote call.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrFutureDate) ||
		errors.Is(err, ErrRangeTooLong)
}
