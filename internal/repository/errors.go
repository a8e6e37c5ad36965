// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking service and handlers to distinguish between different failure
// scenarios with errors.Is instead of inspecting driver errors.
// Not-found errors deliberately do not reveal whether a row exists but
// belongs to someone else: ownership checks are folded into the lookup
// queries, so a foreign reservation is indistinguishable from a missing
// one.
package repository

import "errors"

// ErrClassNotFound is returned when a class session does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrClassNotFound = errors.New("class not found")

// ErrReservationNotFound is returned when a reservation does not exist
// or is not owned by the calling user. Handlers should translate this
// into an HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrOTPNotFound is returned when no login code has been issued for an
// email address. Handlers should treat this the same as an invalid code.
var ErrOTPNotFound = errors.New("otp not found")
