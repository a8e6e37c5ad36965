package service

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"

    "github.com/ritmofit/booking-api/internal/model"
    "github.com/ritmofit/booking-api/internal/repository"
)

// newBookingService wires a BookingService to a sqlmock database so the
// full transaction paths (begin, row lock, checks, writes, commit or
// rollback) can be exercised without a real MySQL.
func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    svc := NewBookingService(db, repository.NewClassRepo(db), repository.NewReservationRepo(db), zap.NewNop())
    return svc, mock
}

var classCols = []string{
    "id", "title", "discipline", "location", "instructor", "class_date",
    "start_time", "duration_min", "total_capacity", "remaining_capacity",
    "created_at", "updated_at",
}

// futureDate is far enough ahead that the past-class check never trips.
var futureDate = time.Date(2099, 1, 5, 0, 0, 0, 0, time.UTC)

func classRow(id uint64, date time.Time, start string, durationMin, total, remaining int) *sqlmock.Rows {
    now := time.Now().UTC()
    return sqlmock.NewRows(classCols).AddRow(
        id, "Funcional", "Funcional", "Palermo", "Lu Ferreyra", date,
        start, durationMin, total, remaining, now, now,
    )
}

func expectLockClass(mock sqlmock.Sqlmock, classID uint64, rows *sqlmock.Rows) {
    mock.ExpectQuery(`FROM classes WHERE id = (.+) FOR UPDATE`).
        WithArgs(classID).
        WillReturnRows(rows)
}

func expectNoDuplicate(mock sqlmock.Sqlmock, userID, classID uint64) {
    mock.ExpectQuery(`SELECT id FROM reservations WHERE user_id = (.+) AND class_id = (.+) AND status = 'CONFIRMED'`).
        WithArgs(userID, classID).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

func expectSameDay(mock sqlmock.Sqlmock, userID uint64, date string, rows *sqlmock.Rows) {
    mock.ExpectQuery(`FROM reservations r\s+JOIN classes c ON c.id = r.class_id`).
        WithArgs(userID, date).
        WillReturnRows(rows)
}

func TestCreate_Success(t *testing.T) {
    svc, mock := newBookingService(t)

    mock.ExpectBegin()
    expectLockClass(mock, 3, classRow(3, futureDate, "10:00:00", 60, 20, 5))
    expectNoDuplicate(mock, 7, 3)
    expectSameDay(mock, 7, "2099-01-05", sqlmock.NewRows(classCols))
    mock.ExpectExec(`INSERT INTO reservations \(user_id, class_id, status\)`).
        WithArgs(7, 3).
        WillReturnResult(sqlmock.NewResult(41, 1))
    mock.ExpectExec(`UPDATE classes SET remaining_capacity = remaining_capacity \+ (.+) WHERE id = (.+)`).
        WithArgs(-1, 3).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    res, err := svc.Create(context.Background(), 7, 3)
    require.NoError(t, err)
    assert.Equal(t, uint64(41), res.ReservationID)
    assert.Equal(t, 4, res.RemainingCapacity)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ClassNotFound(t *testing.T) {
    svc, mock := newBookingService(t)

    mock.ExpectBegin()
    expectLockClass(mock, 99, sqlmock.NewRows(classCols))
    mock.ExpectRollback()

    _, err := svc.Create(context.Background(), 7, 99)
    assert.ErrorIs(t, err, repository.ErrClassNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_AlreadyOccurred(t *testing.T) {
    svc, mock := newBookingService(t)

    past := time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)
    mock.ExpectBegin()
    expectLockClass(mock, 3, classRow(3, past, "10:00:00", 60, 20, 5))
    mock.ExpectRollback()

    _, err := svc.Create(context.Background(), 7, 3)
    assert.ErrorIs(t, err, ErrAlreadyOccurred)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateBeforeCapacity(t *testing.T) {
    svc, mock := newBookingService(t)

    // remaining_capacity is 0 as well: the duplicate check runs first,
    // so the duplicate error wins.
    mock.ExpectBegin()
    expectLockClass(mock, 3, classRow(3, futureDate, "10:00:00", 60, 20, 0))
    mock.ExpectQuery(`SELECT id FROM reservations WHERE user_id = (.+) AND class_id = (.+) AND status = 'CONFIRMED'`).
        WithArgs(7, 3).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
    mock.ExpectRollback()

    _, err := svc.Create(context.Background(), 7, 3)
    assert.ErrorIs(t, err, ErrDuplicateReservation)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ScheduleConflict(t *testing.T) {
    svc, mock := newBookingService(t)

    // Candidate spans [10:30, 11:30); the user already holds [10:00, 11:00).
    mock.ExpectBegin()
    expectLockClass(mock, 3, classRow(3, futureDate, "10:30:00", 60, 20, 5))
    expectNoDuplicate(mock, 7, 3)
    expectSameDay(mock, 7, "2099-01-05", classRow(8, futureDate, "10:00:00", 60, 20, 5))
    mock.ExpectRollback()

    _, err := svc.Create(context.Background(), 7, 3)
    assert.ErrorIs(t, err, ErrScheduleConflict)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_BackToBackAllowed(t *testing.T) {
    svc, mock := newBookingService(t)

    // Candidate starts exactly when the existing class ends.
    mock.ExpectBegin()
    expectLockClass(mock, 3, classRow(3, futureDate, "11:00:00", 60, 20, 5))
    expectNoDuplicate(mock, 7, 3)
    expectSameDay(mock, 7, "2099-01-05", classRow(8, futureDate, "10:00:00", 60, 20, 5))
    mock.ExpectExec(`INSERT INTO reservations`).
        WithArgs(7, 3).
        WillReturnResult(sqlmock.NewResult(42, 1))
    mock.ExpectExec(`UPDATE classes SET remaining_capacity`).
        WithArgs(-1, 3).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    res, err := svc.Create(context.Background(), 7, 3)
    require.NoError(t, err)
    assert.Equal(t, uint64(42), res.ReservationID)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_CapacityExceeded(t *testing.T) {
    svc, mock := newBookingService(t)

    mock.ExpectBegin()
    expectLockClass(mock, 3, classRow(3, futureDate, "10:00:00", 60, 20, 0))
    expectNoDuplicate(mock, 7, 3)
    expectSameDay(mock, 7, "2099-01-05", sqlmock.NewRows(classCols))
    mock.ExpectRollback()

    _, err := svc.Create(context.Background(), 7, 3)
    assert.ErrorIs(t, err, ErrCapacityExceeded)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_InsertFailureRollsBack(t *testing.T) {
    svc, mock := newBookingService(t)

    mock.ExpectBegin()
    expectLockClass(mock, 3, classRow(3, futureDate, "10:00:00", 60, 20, 5))
    expectNoDuplicate(mock, 7, 3)
    expectSameDay(mock, 7, "2099-01-05", sqlmock.NewRows(classCols))
    mock.ExpectExec(`INSERT INTO reservations`).
        WithArgs(7, 3).
        WillReturnError(errors.New("lock wait timeout exceeded"))
    mock.ExpectRollback()

    _, err := svc.Create(context.Background(), 7, 3)
    assert.ErrorIs(t, err, ErrStoreFailure)
    assert.NoError(t, mock.ExpectationsWereMet())
}

// The reservation lookup must take the row lock: the status it returns
// feeds a check-then-act, and without FOR UPDATE two concurrent cancels
// of the same reservation would both read CONFIRMED and restore the
// seat twice.
func expectReservationForUser(mock sqlmock.Sqlmock, reservationID, userID uint64, rows *sqlmock.Rows) {
    mock.ExpectQuery(`FROM reservations WHERE id = (.+) AND user_id = (.+) FOR UPDATE`).
        WithArgs(reservationID, userID).
        WillReturnRows(rows)
}

var reservationCols = []string{"id", "user_id", "class_id", "status", "created_at", "updated_at"}

func reservationRow(id, userID, classID uint64, status string) *sqlmock.Rows {
    now := time.Now().UTC()
    return sqlmock.NewRows(reservationCols).AddRow(id, userID, classID, status, now, now)
}

func TestCancel_Success(t *testing.T) {
    svc, mock := newBookingService(t)

    mock.ExpectBegin()
    expectReservationForUser(mock, 41, 7, reservationRow(41, 7, 3, model.StatusConfirmed))
    expectLockClass(mock, 3, classRow(3, futureDate, "10:00:00", 60, 20, 4))
    mock.ExpectExec(`UPDATE reservations SET status`).
        WithArgs(model.StatusCancelled, 41).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE classes SET remaining_capacity`).
        WithArgs(1, 3).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    err := svc.Cancel(context.Background(), 7, 41)
    require.NoError(t, err)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_NotOwnedLooksAbsent(t *testing.T) {
    svc, mock := newBookingService(t)

    // The row belongs to user 8; user 7's lookup matches nothing, so the
    // caller cannot distinguish foreign from missing.
    mock.ExpectBegin()
    expectReservationForUser(mock, 41, 7, sqlmock.NewRows(reservationCols))
    mock.ExpectRollback()

    err := svc.Cancel(context.Background(), 7, 41)
    assert.ErrorIs(t, err, repository.ErrReservationNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_AlreadyCancelled(t *testing.T) {
    svc, mock := newBookingService(t)

    // This is also what the loser of two racing cancels sees once the
    // winner commits and the reservation row lock is released: status
    // CANCELLED, no second capacity increment.
    mock.ExpectBegin()
    expectReservationForUser(mock, 41, 7, reservationRow(41, 7, 3, model.StatusCancelled))
    mock.ExpectRollback()

    err := svc.Cancel(context.Background(), 7, 41)
    assert.ErrorIs(t, err, ErrAlreadyCancelled)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_CommitFailure(t *testing.T) {
    svc, mock := newBookingService(t)

    mock.ExpectBegin()
    expectReservationForUser(mock, 41, 7, reservationRow(41, 7, 3, model.StatusConfirmed))
    expectLockClass(mock, 3, classRow(3, futureDate, "10:00:00", 60, 20, 4))
    mock.ExpectExec(`UPDATE reservations SET status`).
        WithArgs(model.StatusCancelled, 41).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE classes SET remaining_capacity`).
        WithArgs(1, 3).
        WillReturnResult(sqlmock.NewResult(0, 1))
    // After a failed Commit the tx is already done, so the deferred
    // Rollback never reaches the driver.
    mock.ExpectCommit().WillReturnError(errors.New("server gone away"))

    err := svc.Cancel(context.Background(), 7, 41)
    assert.ErrorIs(t, err, ErrStoreFailure)
    assert.NoError(t, mock.ExpectationsWereMet())
}
