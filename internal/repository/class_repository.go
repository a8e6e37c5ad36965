// Package repository contains data access logic for the class catalog.
// This file defines repository methods for class sessions. The catalog
// rows are created and edited out of band (migrations / back office);
// the API reads them, and the booking service adjusts the
// remaining_capacity counter under a row lock.
package repository

import (
    "context"      // context for controlling query lifetime
    "database/sql" // sql provides DB abstraction
    "errors"
    "strings"

    "github.com/ritmofit/booking-api/internal/model"
)

// ClassRepo manages persistence for class sessions.
type ClassRepo struct {
    db *sql.DB
}

// NewClassRepo constructs a ClassRepo with the given DB handle.
func NewClassRepo(db *sql.DB) *ClassRepo {
    return &ClassRepo{db: db}
}

// classColumns is the column list shared by every session SELECT so the
// scan order stays in one place.
const classColumns = `id, title, discipline, location, instructor, class_date,
       TIME_FORMAT(start_time, '%H:%i:%s'), duration_min,
       total_capacity, remaining_capacity, created_at, updated_at`

func scanClass(row *sql.Row) (model.ClassSession, error) {
    var cs model.ClassSession
    err := row.Scan(
        &cs.ID, &cs.Title, &cs.Discipline, &cs.Location, &cs.Instructor,
        &cs.Date, &cs.StartTime, &cs.DurationMin,
        &cs.TotalCapacity, &cs.RemainingCapacity, &cs.CreatedAt, &cs.UpdatedAt,
    )
    return cs, err
}

// GetByID loads a single class session. It returns ErrClassNotFound when
// no session with the given ID exists.
func (r *ClassRepo) GetByID(ctx context.Context, id uint64) (model.ClassSession, error) {
    q := `SELECT ` + classColumns + ` FROM classes WHERE id = ?`
    cs, err := scanClass(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.ClassSession{}, ErrClassNotFound
    }
    return cs, err
}

// GetForUpdateTx loads a class session inside the given transaction and
// takes an exclusive row lock on it (SELECT ... FOR UPDATE). Every
// check-then-act sequence on the capacity counter must go through this
// method so that two concurrent bookings cannot both observe the same
// remaining_capacity. The lock is held until the transaction commits or
// rolls back.
func (r *ClassRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.ClassSession, error) {
    q := `SELECT ` + classColumns + ` FROM classes WHERE id = ? FOR UPDATE`
    cs, err := scanClass(tx.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.ClassSession{}, ErrClassNotFound
    }
    return cs, err
}

// AdjustCapacityTx shifts remaining_capacity by delta (-1 on booking,
// +1 on cancellation) within the caller's transaction. Callers must hold
// the row lock via GetForUpdateTx and have validated the counter bounds;
// this method applies the delta blindly so that a restore after an
// external total_capacity edit is not silently clamped.
func (r *ClassRepo) AdjustCapacityTx(ctx context.Context, tx *sql.Tx, id uint64, delta int) error {
    const q = `UPDATE classes SET remaining_capacity = remaining_capacity + ? WHERE id = ?`
    res, err := tx.ExecContext(ctx, q, delta, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrClassNotFound
    }
    return nil
}

// ClassFilter narrows List results. Zero-valued fields are ignored.
// Date is compared against class_date and must be "YYYY-MM-DD".
type ClassFilter struct {
    Discipline string
    Location   string
    Date       string
}

// List returns catalog sessions matching the filter, soonest first.
// The WHERE clause is assembled dynamically the same way for every
// combination of filters so that partial filtering works.
func (r *ClassRepo) List(ctx context.Context, f ClassFilter) ([]model.ClassSession, error) {
    q := `SELECT ` + classColumns + ` FROM classes WHERE 1=1`
    args := make([]interface{}, 0, 3)
    if s := strings.TrimSpace(f.Discipline); s != "" {
        q += " AND discipline = ?"
        args = append(args, s)
    }
    if s := strings.TrimSpace(f.Location); s != "" {
        q += " AND location = ?"
        args = append(args, s)
    }
    if s := strings.TrimSpace(f.Date); s != "" {
        q += " AND class_date = ?"
        args = append(args, s)
    }
    q += " ORDER BY class_date, start_time"

    rows, err := r.db.QueryContext(ctx, q, args...)
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
