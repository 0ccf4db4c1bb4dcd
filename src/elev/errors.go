package elev

import "github.com/pkg/errors"

// Invariant violations. Any of these aborts the simulation run.
var (
	ErrPassengerNotPresent = errors.New("passenger not present")
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrInvalidState        = errors.New("invalid state")
)
