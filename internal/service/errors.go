// Package service implements the booking engine: the transactional
// logic that turns a capacity-limited class into a consistent set of
// confirmed and cancelled reservations. This file defines the sentinel
// values for every business-rule rejection so that handlers can map
// each one to a distinct, stable HTTP response with errors.Is. All of
// them are recoverable by the caller; only ErrStoreFailure indicates a
// persistence problem, and by the time it surfaces the enclosing
// transaction has been rolled back.
package service

import (
    "errors"
    "fmt"

    "github.com/ritmofit/booking-api/internal/repository"
)

// Not-found conditions originate in the repository layer and pass
// through unchanged; they are re-exported here so callers can match
// the full taxonomy against one package.
var (
    ErrClassNotFound       = repository.ErrClassNotFound
    ErrReservationNotFound = repository.ErrReservationNotFound
)

// ErrAlreadyOccurred is returned when the class start instant is not
// strictly in the future. A class is bookable right up to its start.
var ErrAlreadyOccurred = errors.New("class already occurred")

// ErrDuplicateReservation is returned when the user already holds a
// confirmed reservation for the class.
var ErrDuplicateReservation = errors.New("duplicate reservation")

// ErrScheduleConflict is returned when the class overlaps in time with
// another class the user has confirmed.
var ErrScheduleConflict = errors.New("reservation overlaps with another")

// ErrCapacityExceeded is returned when the class has no seats left.
var ErrCapacityExceeded = errors.New("class is full")

// ErrAlreadyCancelled is returned when cancelling a reservation that is
// not in the confirmed state.
var ErrAlreadyCancelled = errors.New("reservation already cancelled")

// ErrStoreFailure wraps any persistence error, including lock-wait
// timeouts. Handlers should translate it into a generic 500 without
// exposing storage internals.
var ErrStoreFailure = errors.New("store failure")

// storeFailure tags err as a persistence problem while keeping its text
// for server-side logs.
func storeFailure(err error) error {
    return fmt.Errorf("%w: %v", ErrStoreFailure, err)
}
