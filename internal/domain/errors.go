package domain

import "errors"

var (
	// ErrSourceUnavailable means the live telemetry store could not be reached.
	ErrSourceUnavailable = errors.New("telemetry source unavailable")
	// ErrPersistence covers connectivity and constraint failures of the metrics store.
	ErrPersistence = errors.New("persistence error")
	// ErrMalformedSequence is returned when samples handed to integration are not
	// in non-decreasing timestamp order.
	ErrMalformedSequence = errors.New("malformed sample sequence")
	// ErrInvalidQuery marks caller mistakes such as an unknown period or date.
	ErrInvalidQuery = errors.New("invalid query")
)
