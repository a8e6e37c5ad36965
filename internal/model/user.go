package model

import "time"

// User represents a member account as stored in the `users` table.
// Accounts are created on first OTP login, so PasswordHash is empty
// until the member explicitly sets a password.  The booking engine
// consumes users by ID only and never mutates them.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address (login identity).
//  Name         – display name; defaults to the email local part.
//  PhotoURL     – optional profile picture URL.
//  PasswordHash – bcrypt hash, empty when only OTP login is used.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    Name         string    // users.name
    PhotoURL     *string   // users.photo_url (nullable)
    PasswordHash string    // users.password_hash (empty when unset)
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// OTP models an entry in the `otps` table.  Codes are six decimal
// digits, expire a few minutes after issuance and are deleted once
// consumed, so the table only ever holds transient rows.
//
// Fields:
//  ID        – primary key identifier.
//  Email     – address the code was sent to.
//  Code      – six-digit login code.
//  ExpiresAt – expiration timestamp of the code.
//  CreatedAt – timestamp of creation.
type OTP struct {
    ID        uint64    // otps.id
    Email     string    // otps.email
    Code      string    // otps.code
    ExpiresAt time.Time // otps.expires_at
    CreatedAt time.Time // otps.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user; only the SHA-256 hash of the raw
// value is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
