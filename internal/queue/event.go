// Package queue defines message payloads exchanged over the message broker
// and the background consumers that process them.
package queue

// ReservationConfirmedEvent is published after a booking transaction
// commits. It contains enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary
// database.
type ReservationConfirmedEvent struct {
    ReservationID     uint64 `json:"reservation_id"`
    UserID            uint64 `json:"user_id"`
    ClassID           uint64 `json:"class_id"`
    Title             string `json:"title"`
    Discipline        string `json:"discipline"`
    Location          string `json:"location"`
    Instructor        string `json:"instructor"`
    StartsAt          string `json:"starts_at"`
    RemainingCapacity int    `json:"remaining_capacity"`
    ConfirmedAt       string `json:"confirmed_at"`
}

// ReservationCancelledEvent is published after a cancellation commits.
type ReservationCancelledEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    UserID        uint64 `json:"user_id"`
    CancelledAt   string `json:"cancelled_at"`
}

// OTPRequestedEvent carries a login code from the auth handler to the
// mail consumer. Email delivery is taken off the request path so a slow
// SMTP server cannot stall the login endpoint.
type OTPRequestedEvent struct {
    Email        string `json:"email"`
    Code         string `json:"code"`
    ExpiresAt    string `json:"expires_at"`
    ExpiresInMin int    `json:"expires_in_min"`
}
