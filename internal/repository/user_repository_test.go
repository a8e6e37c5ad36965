package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

var userCols = []string{
    "id", "email", "name", "photo_url", "password_hash", "created_at", "updated_at",
}

func userRow(id uint64, email, name string) *sqlmock.Rows {
    now := time.Now().UTC()
    return sqlmock.NewRows(userCols).AddRow(id, email, name, nil, "", now, now)
}

func TestCreateFromEmail_NameFromLocalPart(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    repo := NewUserRepo(db)

    mock.ExpectExec(`INSERT INTO users \(email, name\)`).
        WithArgs("maria.lopez@example.com", "maria.lopez").
        WillReturnResult(sqlmock.NewResult(7, 1))
    mock.ExpectQuery(`FROM users WHERE id=(.+)`).
        WithArgs(7).
        WillReturnRows(userRow(7, "maria.lopez@example.com", "maria.lopez"))

    u, err := repo.CreateFromEmail(context.Background(), "Maria.Lopez@Example.com ")
    require.NoError(t, err)
    assert.Equal(t, uint64(7), u.ID)
    assert.Equal(t, "maria.lopez", u.Name)
    assert.Empty(t, u.PasswordHash)
    assert.Nil(t, u.PhotoURL)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_PartialPatch(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    repo := NewUserRepo(db)

    name := "Maria L."
    // Email and photo omitted: COALESCE keeps the stored values, and the
    // nil args make that visible at the driver level.
    mock.ExpectExec(`UPDATE users`).
        WithArgs("Maria L.", nil, nil, 7).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(`FROM users WHERE id=(.+)`).
        WithArgs(7).
        WillReturnRows(userRow(7, "maria.lopez@example.com", "Maria L."))

    u, err := repo.UpdateProfile(context.Background(), 7, &name, nil, nil)
    require.NoError(t, err)
    assert.Equal(t, "Maria L.", u.Name)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLatestOTP_NotFound(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    repo := NewOTPRepo(db)

    mock.ExpectQuery(`FROM otps WHERE email = (.+) ORDER BY id DESC LIMIT 1`).
        WithArgs("nobody@example.com").
        WillReturnRows(sqlmock.NewRows([]string{"id", "email", "code", "expires_at", "created_at"}))

    _, err = repo.FindLatest(context.Background(), "nobody@example.com")
    assert.ErrorIs(t, err, ErrOTPNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}
