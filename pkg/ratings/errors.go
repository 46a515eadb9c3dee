package ratings

import "errors"

var (
	// ErrFetchProfile indicates the ratings request could not be completed or decoded.
	ErrFetchProfile = errors.New("failed to fetch ratings profile")

	// ErrUnexpectedStatus indicates a non-2xx answer while strict mode is on.
	ErrUnexpectedStatus = errors.New("unexpected ratings status")

	// ErrEmptyResponse indicates a 2xx answer without a response object.
	ErrEmptyResponse = errors.New("ratings response has no profile")
)
