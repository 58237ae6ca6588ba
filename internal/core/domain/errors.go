package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Application lifecycle errors
var (
	// ErrInvalidTransition is returned when a transition is attempted from a
	// state that does not permit the requested event. The application is left
	// unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCapacityExceeded is returned when approval or booking would exceed
	// the flat type's total units. A business rejection, not a fault.
	ErrCapacityExceeded = errors.New("flat type capacity exceeded")

	// ErrLedgerUnderflow and ErrLedgerOverflow indicate an internal
	// inventory inconsistency. They should not occur while capacity checks
	// are in place.
	ErrLedgerUnderflow = errors.New("available units already at zero")
	ErrLedgerOverflow  = errors.New("available units already at total")

	// ErrMissingReference is returned when an application points at a
	// project or flat type that no longer exists. The application is forced
	// to UNSUCCESSFUL rather than crashing on historical data.
	ErrMissingReference = errors.New("referenced project or flat type no longer exists")
)
