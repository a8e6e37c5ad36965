package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

var classCols = []string{
    "id", "title", "discipline", "location", "instructor", "class_date",
    "start_time", "duration_min", "total_capacity", "remaining_capacity",
    "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*ClassRepo, sqlmock.Sqlmock) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    return NewClassRepo(db), mock
}

func TestClassGetByID_NotFound(t *testing.T) {
    repo, mock := newMockDB(t)

    mock.ExpectQuery(`FROM classes WHERE id = (.+)`).
        WithArgs(99).
        WillReturnRows(sqlmock.NewRows(classCols))

    _, err := repo.GetByID(context.Background(), 99)
    assert.ErrorIs(t, err, ErrClassNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassList_AppliesOnlySetFilters(t *testing.T) {
    repo, mock := newMockDB(t)
    now := time.Now().UTC()
    date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

    rows := sqlmock.NewRows(classCols).
        AddRow(1, "Morning Flow", "yoga", "palermo", "Lucia Fernandez",
            date, "08:00:00", 60, 20, 12, now, now).
        AddRow(4, "Evening Flow", "yoga", "belgrano", "Lucia Fernandez",
            date, "19:00:00", 60, 20, 20, now, now)

    // discipline and date set, location empty: exactly two placeholders.
    mock.ExpectQuery(`FROM classes WHERE 1=1 AND discipline = (.+) AND class_date = (.+) ORDER BY class_date, start_time`).
        WithArgs("yoga", "2026-10-01").
        WillReturnRows(rows)

    out, err := repo.List(context.Background(), ClassFilter{Discipline: "yoga", Date: "2026-10-01"})
    require.NoError(t, err)
    require.Len(t, out, 2)
    assert.Equal(t, "Morning Flow", out[0].Title)
    assert.Equal(t, "19:00:00", out[1].StartTime)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassList_NoFilterNoArgs(t *testing.T) {
    repo, mock := newMockDB(t)

    mock.ExpectQuery(`FROM classes WHERE 1=1 ORDER BY class_date, start_time`).
        WillReturnRows(sqlmock.NewRows(classCols))

    out, err := repo.List(context.Background(), ClassFilter{})
    require.NoError(t, err)
    assert.Empty(t, out)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustCapacityTx_MissingClass(t *testing.T) {
    repo, mock := newMockDB(t)

    mock.ExpectBegin()
    mock.ExpectExec(`UPDATE classes SET remaining_capacity = remaining_capacity \+ (.+) WHERE id = (.+)`).
        WithArgs(1, 42).
        WillReturnResult(sqlmock.NewResult(0, 0))

    tx, err := repo.db.Begin()
    require.NoError(t, err)
    err = repo.AdjustCapacityTx(context.Background(), tx, 42, 1)
    assert.ErrorIs(t, err, ErrClassNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}
