package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/ritmofit/booking-api/internal/model"
)

// OTPRepo persists one-time login codes. Codes are short-lived and are
// deleted for an address once any of them is consumed, so stale rows
// never accumulate beyond the resend window.
type OTPRepo struct{ DB *sql.DB }

func NewOTPRepo(db *sql.DB) *OTPRepo { return &OTPRepo{DB: db} }

// Insert stores a freshly generated code for the address.
func (r *OTPRepo) Insert(ctx context.Context, email, code string, expiresAt time.Time) error {
    _, err := r.DB.ExecContext(ctx,
        "INSERT INTO otps (email, code, expires_at) VALUES (?,?,?)",
        email, code, expiresAt)
    return err
}

// FindLatest returns the most recently issued code for the address,
// regardless of expiry; the handler decides between "invalid" and
// "expired". Returns ErrOTPNotFound when no code was ever issued.
func (r *OTPRepo) FindLatest(ctx context.Context, email string) (model.OTP, error) {
    var o model.OTP
    err := r.DB.QueryRowContext(ctx,
        "SELECT id, email, code, expires_at, created_at FROM otps WHERE email = ? ORDER BY id DESC LIMIT 1",
        email).Scan(&o.ID, &o.Email, &o.Code, &o.ExpiresAt, &o.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.OTP{}, ErrOTPNotFound
    }
    if err != nil {
        return model.OTP{}, err
    }
    return o, nil
}

// DeleteByEmail removes every code issued to the address. Called after
// a successful verification so a code can never be replayed.
func (r *OTPRepo) DeleteByEmail(ctx context.Context, email string) error {
    _, err := r.DB.ExecContext(ctx, "DELETE FROM otps WHERE email = ?", email)
    return err
}
