package model

import "time"

// Reservation statuses.  A reservation is created CONFIRMED and may
// only transition to CANCELLED; cancelled rows are never resurrected.
// Rebooking a class after cancelling inserts a new row, so the status
// history of a (user, class) pair is append-only.
const (
    StatusConfirmed = "CONFIRMED" // active booking, counted against capacity
    StatusCancelled = "CANCELLED" // released booking, seat returned to the pool
)

// Reservation records a user's booking of a single class session.
// At most one CONFIRMED reservation can exist per (user, class) pair;
// the booking engine enforces this under the class row lock.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the reservation.
//  ClassID   – class session being reserved.
//  Status    – CONFIRMED or CANCELLED.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp (set when cancelled).
type Reservation struct {
    ID        uint64    // reservations.id
    UserID    uint64    // reservations.user_id
    ClassID   uint64    // reservations.class_id
    Status    string    // reservations.status
    CreatedAt time.Time // reservations.created_at
    UpdatedAt time.Time // reservations.updated_at
}
