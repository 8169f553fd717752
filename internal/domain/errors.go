package domain

import "errors"

var (
	// ErrInvalidRequest marks a route request that can never be planned as given.
	ErrInvalidRequest = errors.New("invalid route request")
	// ErrNoUsablePoints is returned when every requested stop was dropped.
	ErrNoUsablePoints = errors.New("no usable points")
	// ErrInvalidLocation marks coordinates that cannot be routed through.
	ErrInvalidLocation = errors.New("invalid location")
	// ErrUnknownStore is returned for catalog keys without an entry.
	ErrUnknownStore = errors.New("unknown store")
)

// RequestError carries a caller-facing reason alongside one of the sentinels above.
type RequestError struct {
	Reason string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return e.Err.Error() + ": " + e.Reason
	}
	return e.Reason
}

func (e *RequestError) Unwrap() error { return e.Err }

func invalidRequest(reason string) error {
	return &RequestError{Reason: reason, Err: ErrInvalidRequest}
}
