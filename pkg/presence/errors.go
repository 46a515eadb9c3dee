package presence

import "errors"

var (
	// ErrSessionBusy indicates a start or stop is already in flight.
	ErrSessionBusy = errors.New("presence session is changing state")

	// ErrProfileUnavailable indicates the activity could not be built because the profile fetch failed.
	ErrProfileUnavailable = errors.New("profile unavailable")

	// ErrLogin indicates the connection or handshake with the presence client failed.
	ErrLogin = errors.New("failed to log into presence client")

	// ErrPublish indicates the activity was rejected after a successful login.
	ErrPublish = errors.New("failed to publish activity")

	// ErrStop indicates clearing the activity or closing the connection failed.
	ErrStop = errors.New("failed to stop presence session")

	// ErrTooManyButtons indicates a template with more buttons than Discord displays.
	ErrTooManyButtons = errors.New("too many activity buttons")

	// ErrInvalidTemplate indicates a template field does not parse or render.
	ErrInvalidTemplate = errors.New("invalid presence template")
)
