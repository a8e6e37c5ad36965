package service

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "go.uber.org/zap"

    "github.com/ritmofit/booking-api/internal/model"
    "github.com/ritmofit/booking-api/internal/repository"
)

// BookingService is the reservation engine. It owns every transition of
// a reservation's lifecycle and every mutation of a class's
// remaining_capacity counter; nothing else in the system writes to
// either. The service keeps no in-process state: each call opens one
// transaction, takes the class row lock, runs the checks in order and
// either commits both the reservation write and the capacity adjustment
// or rolls back everything.
type BookingService struct {
    db           *sql.DB
    classes      *repository.ClassRepo
    reservations *repository.ReservationRepo
    logger       *zap.Logger
}

// NewBookingService constructs a BookingService. All dependencies must
// be non-nil.
func NewBookingService(db *sql.DB, classes *repository.ClassRepo, reservations *repository.ReservationRepo, logger *zap.Logger) *BookingService {
    if db == nil || classes == nil || reservations == nil || logger == nil {
        panic("nil dependency passed to NewBookingService")
    }
    return &BookingService{db: db, classes: classes, reservations: reservations, logger: logger}
}

// CreateResult is returned on a successful booking.
type CreateResult struct {
    ReservationID     uint64 `json:"reservation_id"`
    RemainingCapacity int    `json:"remaining_capacity"`
}

// Create attempts to book a seat for userID on classID. The checks run
// in a fixed order (existence, start instant, duplicate, overlap,
// capacity) and the first failure determines the returned error, so a
// request that is simultaneously a duplicate and out of capacity
// reports ErrDuplicateReservation. The class row stays exclusively
// locked from the first read to the commit, which is what prevents two
// concurrent requests from both taking the last seat.
func (s *BookingService) Create(ctx context.Context, userID, classID uint64) (CreateResult, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return CreateResult{}, storeFailure(err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    cls, err := s.classes.GetForUpdateTx(ctx, tx, classID)
    if err != nil {
        if errors.Is(err, repository.ErrClassNotFound) {
            return CreateResult{}, err
        }
        return CreateResult{}, storeFailure(err)
    }

    candidate, err := ClassInterval(cls)
    if err != nil {
        return CreateResult{}, storeFailure(err)
    }
    if !candidate.Start.After(time.Now().UTC()) {
        return CreateResult{}, ErrAlreadyOccurred
    }

    exists, err := s.reservations.ConfirmedExistsTx(ctx, tx, userID, classID)
    if err != nil {
        return CreateResult{}, storeFailure(err)
    }
    if exists {
        return CreateResult{}, ErrDuplicateReservation
    }

    // Sessions never span midnight, so only the candidate's day matters.
    sameDay, err := s.reservations.ConfirmedOnDateTx(ctx, tx, userID, cls.Date.UTC().Format("2006-01-02"))
    if err != nil {
        return CreateResult{}, storeFailure(err)
    }
    existing := make([]Interval, 0, len(sameDay))
    for _, other := range sameDay {
        iv, err := ClassInterval(other)
        if err != nil {
            return CreateResult{}, storeFailure(err)
        }
        existing = append(existing, iv)
    }
    if ConflictsAny(candidate, existing) {
        return CreateResult{}, ErrScheduleConflict
    }

    if cls.RemainingCapacity <= 0 {
        return CreateResult{}, ErrCapacityExceeded
    }

    id, err := s.reservations.InsertConfirmedTx(ctx, tx, userID, classID)
    if err != nil {
        return CreateResult{}, storeFailure(err)
    }
    if err := s.classes.AdjustCapacityTx(ctx, tx, classID, -1); err != nil {
        return CreateResult{}, storeFailure(err)
    }

    if err := tx.Commit(); err != nil {
        return CreateResult{}, storeFailure(err)
    }
    committed = true

    s.logger.Info("reservation created",
        zap.Uint64("reservation_id", id),
        zap.Uint64("user_id", userID),
        zap.Uint64("class_id", classID),
        zap.Int("remaining_capacity", cls.RemainingCapacity-1),
    )
    return CreateResult{ReservationID: id, RemainingCapacity: cls.RemainingCapacity - 1}, nil
}

// Cancel transitions a confirmed reservation owned by userID to
// cancelled and restores one seat to its class. The reservation must
// belong to the caller (a foreign reservation surfaces as
// ErrReservationNotFound, so its existence is never revealed) and must
// currently be confirmed. The reservation row is locked by the lookup,
// which serializes concurrent cancels of the same reservation: the
// loser of the lock race observes CANCELLED and stops before touching
// capacity. The class row is then locked before the capacity increment
// so cancellations also serialize with concurrent bookings.
func (s *BookingService) Cancel(ctx context.Context, userID, reservationID uint64) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return storeFailure(err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    res, err := s.reservations.GetForUserTx(ctx, tx, reservationID, userID)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return err
        }
        return storeFailure(err)
    }
    if res.Status != model.StatusConfirmed {
        return ErrAlreadyCancelled
    }

    // The class row must exist (FK), so any error here is a store problem.
    if _, err := s.classes.GetForUpdateTx(ctx, tx, res.ClassID); err != nil {
        return storeFailure(err)
    }

    if err := s.reservations.UpdateStatusTx(ctx, tx, reservationID, model.StatusCancelled); err != nil {
        return storeFailure(err)
    }
    if err := s.classes.AdjustCapacityTx(ctx, tx, res.ClassID, +1); err != nil {
        return storeFailure(err)
    }

    if err := tx.Commit(); err != nil {
        return storeFailure(err)
    }
    committed = true

    s.logger.Info("reservation cancelled",
        zap.Uint64("reservation_id", reservationID),
        zap.Uint64("user_id", userID),
        zap.Uint64("class_id", res.ClassID),
    )
    return nil
}

// ListMine returns the caller's confirmed reservations joined with
// class data. Read-only; no business rule applies.
func (s *BookingService) ListMine(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error) {
    details, err := s.reservations.ListConfirmedByUser(ctx, userID)
    if err != nil {
        return nil, storeFailure(err)
    }
    return details, nil
}
