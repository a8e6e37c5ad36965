package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/ritmofit/booking-api/internal/model"
)

// ReservationRepo provides persistence for reservations. Rows are
// append-only: a booking inserts a CONFIRMED row and a cancellation
// flips its status, nothing is ever physically deleted. All writes
// funnel through the booking service, which calls the ...Tx methods
// inside a transaction that also holds the class row lock. All
// timestamp fields are stored in UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ConfirmedExistsTx reports whether the user already holds a CONFIRMED
// reservation for the class. It must run inside the booking transaction
// so the answer cannot go stale before the insert.
func (r *ReservationRepo) ConfirmedExistsTx(ctx context.Context, tx *sql.Tx, userID, classID uint64) (bool, error) {
    const q = `SELECT id FROM reservations WHERE user_id = ? AND class_id = ? AND status = 'CONFIRMED' LIMIT 1`
    var id uint64
    err := tx.QueryRowContext(ctx, q, userID, classID).Scan(&id)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// ConfirmedOnDateTx returns the class sessions of the user's CONFIRMED
// reservations on the given calendar day ("YYYY-MM-DD"). The booking
// service feeds these into the overlap predicate; the query itself does
// no interval arithmetic.
func (r *ReservationRepo) ConfirmedOnDateTx(ctx context.Context, tx *sql.Tx, userID uint64, date string) ([]model.ClassSession, error) {
    const q = `SELECT c.id, c.title, c.discipline, c.location, c.instructor, c.class_date,
                      TIME_FORMAT(c.start_time, '%H:%i:%s'), c.duration_min,
                      c.total_capacity, c.remaining_capacity, c.created_at, c.updated_at
               FROM reservations r
               JOIN classes c ON c.id = r.class_id
               WHERE r.user_id = ? AND r.status = 'CONFIRMED' AND c.class_date = ?`
    rows, err := tx.QueryContext(ctx, q, userID, date)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.ClassSession, 0)
    for rows.Next() {
        var cs model.ClassSession
        if err := rows.Scan(
            &cs.ID, &cs.Title, &cs.Discipline, &cs.Location, &cs.Instructor,
            &cs.Date, &cs.StartTime, &cs.DurationMin,
            &cs.TotalCapacity, &cs.RemainingCapacity, &cs.CreatedAt, &cs.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, cs)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// InsertConfirmedTx inserts a new CONFIRMED reservation within the scope
// of an existing transaction and returns the generated ID. The caller
// must commit or rollback the transaction.
func (r *ReservationRepo) InsertConfirmedTx(ctx context.Context, tx *sql.Tx, userID, classID uint64) (uint64, error) {
    const q = `INSERT INTO reservations (user_id, class_id, status) VALUES (?, ?, 'CONFIRMED')`
    res, err := tx.ExecContext(ctx, q, userID, classID)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetForUserTx loads a reservation by ID, restricted to the given owner,
// within a transaction, and takes an exclusive row lock on it. The
// status read here feeds a check-then-act in the cancel flow, so two
// concurrent cancels of the same reservation must serialize on this
// lock; a plain snapshot read would let both observe CONFIRMED and
// restore the seat twice. Ownership is part of the WHERE clause, so a
// reservation belonging to someone else yields ErrReservationNotFound
// and never leaks its existence.
func (r *ReservationRepo) GetForUserTx(ctx context.Context, tx *sql.Tx, reservationID, userID uint64) (model.Reservation, error) {
    const q = `SELECT id, user_id, class_id, status, created_at, updated_at
               FROM reservations WHERE id = ? AND user_id = ? FOR UPDATE`
    var res model.Reservation
    err := tx.QueryRowContext(ctx, q, reservationID, userID).Scan(
        &res.ID, &res.UserID, &res.ClassID, &res.Status, &res.CreatedAt, &res.UpdatedAt,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return model.Reservation{}, ErrReservationNotFound
    }
    if err != nil {
        return model.Reservation{}, err
    }
    return res, nil
}

// UpdateStatusTx flips a reservation's status within the caller's
// transaction. Status should be one of the model.Status* constants.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, reservationID uint64, status string) error {
    const q = `UPDATE reservations SET status = ? WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, status, reservationID)
    return err
}

// ReservationDetail joins a reservation with its class session for
// display to members. It is returned by ListConfirmedByUser.
type ReservationDetail struct {
    ReservationID uint64             `json:"reservation_id"`
    Status        string             `json:"status"`
    Class         model.ClassSession `json:"class"`
}

// ListConfirmedByUser returns the user's CONFIRMED reservations joined
// with class data, ordered chronologically by class date and start time.
// When no reservations exist, an empty slice is returned.
func (r *ReservationRepo) ListConfirmedByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
    const q = `SELECT r.id, r.status,
                      c.id, c.title, c.discipline, c.location, c.instructor, c.class_date,
                      TIME_FORMAT(c.start_time, '%H:%i:%s'), c.duration_min,
                      c.total_capacity, c.remaining_capacity, c.created_at, c.updated_at
               FROM reservations r
               JOIN classes c ON c.id = r.class_id
               WHERE r.user_id = ? AND r.status = 'CONFIRMED'
               ORDER BY c.class_date, c.start_time`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    details := make([]ReservationDetail, 0)
    for rows.Next() {
        var d ReservationDetail
        if err := rows.Scan(
            &d.ReservationID, &d.Status,
            &d.Class.ID, &d.Class.Title, &d.Class.Discipline, &d.Class.Location, &d.Class.Instructor,
            &d.Class.Date, &d.Class.StartTime, &d.Class.DurationMin,
            &d.Class.TotalCapacity, &d.Class.RemainingCapacity, &d.Class.CreatedAt, &d.Class.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// HistoryEntry is one row of the attendance history projection: a
// CONFIRMED reservation whose class has already started.
type HistoryEntry struct {
    ReservationID uint64             `json:"reservation_id"`
    AttendedAt    string             `json:"attended_at"`
    Class         model.ClassSession `json:"class"`
}

// ListHistory returns the user's attendance history, newest first.
// Only CONFIRMED reservations whose class start instant has passed are
// included. from and to are optional "YYYY-MM-DD" bounds on the class
// date; empty strings disable the respective bound.
func (r *ReservationRepo) ListHistory(ctx context.Context, userID uint64, from, to string) ([]HistoryEntry, error) {
    q := `SELECT r.id, DATE_FORMAT(TIMESTAMP(c.class_date, c.start_time), '%Y-%m-%d %H:%i:%s'),
                 c.id, c.title, c.discipline, c.location, c.instructor, c.class_date,
                 TIME_FORMAT(c.start_time, '%H:%i:%s'), c.duration_min,
                 c.total_capacity, c.remaining_capacity, c.created_at, c.updated_at
          FROM reservations r
          JOIN classes c ON c.id = r.class_id
          WHERE r.user_id = ? AND r.status = 'CONFIRMED'
            AND TIMESTAMP(c.class_date, c.start_time) <= UTC_TIMESTAMP()`
    args := []interface{}{userID}
    if from != "" {
        q += " AND c.class_date >= ?"
        args = append(args, from)
    }
    if to != "" {
        q += " AND c.class_date <= ?"
        args = append(args, to)
    }
    q += " ORDER BY c.class_date DESC, c.start_time DESC"

    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    entries := make([]HistoryEntry, 0)
    for rows.Next() {
        var e HistoryEntry
        if err := rows.Scan(
            &e.ReservationID, &e.AttendedAt,
            &e.Class.ID, &e.Class.Title, &e.Class.Discipline, &e.Class.Location, &e.Class.Instructor,
            &e.Class.Date, &e.Class.StartTime, &e.Class.DurationMin,
            &e.Class.TotalCapacity, &e.Class.RemainingCapacity, &e.Class.CreatedAt, &e.Class.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        entries = append(entries, e)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return entries, nil
}
