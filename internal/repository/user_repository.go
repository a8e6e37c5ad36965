package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ritmofit/booking-api/internal/model"
)

// UserRepo persists member accounts.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = "id, email, name, photo_url, COALESCE(password_hash, ''), created_at, updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var photo sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Name, &photo, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if photo.Valid {
		p := photo.String
		u.PhotoURL = &p
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// CreateFromEmail inserts a password-less account for a first OTP login.
// The display name defaults to the email local part, matching what the
// member sees before editing their profile.
func (r *UserRepo) CreateFromEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		name = email[:i]
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name) VALUES (?,?)", email, name)
	if err != nil {
		// MySQL error 1062 = duplicate key; another request won the race.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// SetPasswordHash stores a bcrypt hash for the user, enabling password
// login alongside OTP.
func (r *UserRepo) SetPasswordHash(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}

// UpdateProfile patches the profile fields that are non-nil and returns
// the updated record. COALESCE keeps the stored value when a field was
// not supplied, so a partial update never blanks the other columns.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, email, photo *string) (model.User, error) {
	if email != nil {
		e := strings.ToLower(strings.TrimSpace(*email))
		email = &e
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users
		 SET name  = COALESCE(?, name),
		     email = COALESCE(?, email),
		     photo_url = COALESCE(?, photo_url)
		 WHERE id = ?`,
		name, email, photo, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}
