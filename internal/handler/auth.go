package handler

import (
    "context"      // context with cancellation for DB calls
    "database/sql" // sentinel errors from the repository layer
    "net/http"     // HTTP status codes
    "strings"      // string normalization
    "time"         // timeouts and expiries

    "github.com/labstack/echo/v4"

    "github.com/ritmofit/booking-api/internal/config"
    "github.com/ritmofit/booking-api/internal/queue"
    "github.com/ritmofit/booking-api/internal/repository"
    "github.com/ritmofit/booking-api/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints. The primary
// login flow is passwordless: the member requests a one-time code by
// email and exchanges it for a token pair. A bcrypt password can be
// set afterwards as an alternative login method.
type AuthHandler struct {
    Cfg    config.Config
    Users  *repository.UserRepo
    Tokens *repository.TokenRepo
    OTPs   *repository.OTPRepo
    Events *queue.Publisher
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, o *repository.OTPRepo, ev *queue.Publisher) *AuthHandler {
    if u == nil || t == nil || o == nil || ev == nil {
        panic("nil dependency passed to NewAuthHandler")
    }
    return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, OTPs: o, Events: ev}
}

// ----- DTOs -----

type otpRequestReq struct {
    Email string `json:"email"`
}
type otpVerifyReq struct {
    Email string `json:"email"`
    Code  string `json:"code"`
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}
type setPasswordReq struct {
    Password string `json:"password"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type userPart struct {
    ID    uint64 `json:"id"`
    Email string `json:"email"`
    Name  string `json:"name"`
}
type authResp struct {
    User    userPart  `json:"user"`
    Access  tokenPart `json:"access"`
    Refresh tokenPart `json:"refresh"`
}

// issuePair creates an access/refresh token pair for the user and
// persists the refresh token hash. Shared by every login flow.
func (h *AuthHandler) issuePair(ctx context.Context, userID uint64, email string) (tokenPart, tokenPart, error) {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, email, h.Cfg.AccessTTLMin)
    if err != nil {
        return tokenPart{}, tokenPart{}, err
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return tokenPart{}, tokenPart{}, err
    }
    if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return tokenPart{}, tokenPart{}, err
    }
    return tokenPart{Token: access.Token, Expires: access.Exp},
        tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, nil // raw back to client
}

// RequestOTP: store a fresh six-digit code and hand it to the mail
// consumer. Always answers 200 for a well-formed email so the endpoint
// does not leak which addresses have accounts.
func (h *AuthHandler) RequestOTP(c echo.Context) error {
    var req otpRequestReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    email := strings.ToLower(strings.TrimSpace(req.Email))
    if email == "" || !strings.Contains(email, "@") {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
    }

    code, err := utils.NewOTPCode()
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate code failed"})
    }
    exp := time.Now().UTC().Add(time.Duration(h.Cfg.OTPTTLMin) * time.Minute)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    // Older codes for the address become dead weight once a new one is
    // issued; only the latest is ever accepted.
    _ = h.OTPs.DeleteByEmail(ctx, email)
    if err := h.OTPs.Insert(ctx, email, code, exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store code failed"})
    }

    // Delivery is best-effort and asynchronous; publish failures are
    // logged by the publisher and must not fail the request.
    _ = h.Events.PublishOTPRequested(ctx, queue.OTPRequestedEvent{
        Email:        email,
        Code:         code,
        ExpiresAt:    exp.Format(time.RFC3339),
        ExpiresInMin: h.Cfg.OTPTTLMin,
    })

    return c.JSON(http.StatusOK, echo.Map{"message": "code sent"})
}

// VerifyOTP: check the latest code for the address, create the account
// on first login and return a token pair.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
    var req otpVerifyReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    email := strings.ToLower(strings.TrimSpace(req.Email))
    code := strings.TrimSpace(req.Code)
    if email == "" || code == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/code required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    otp, err := h.OTPs.FindLatest(ctx, email)
    if err != nil {
        if err == repository.ErrOTPNotFound {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired code"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if otp.Code != code || time.Now().UTC().After(otp.ExpiresAt) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired code"})
    }
    // Consume the code regardless of what happens next; a login code is
    // single-use.
    _ = h.OTPs.DeleteByEmail(ctx, email)

    u, err := h.Users.GetByEmail(ctx, email)
    if err != nil {
        if err != sql.ErrNoRows {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
        }
        // First login: provision the account from the address itself.
        u, err = h.Users.CreateFromEmail(ctx, email)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
        }
    }

    access, refresh, err := h.issuePair(ctx, u.ID, u.Email)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
    }
    return c.JSON(http.StatusOK, authResp{
        User:    userPart{ID: u.ID, Email: u.Email, Name: u.Name},
        Access:  access,
        Refresh: refresh,
    })
}

// Login: verify a bcrypt password and return a new pair. Accounts that
// never set a password fail with the same message as a wrong one.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if u.PasswordHash == "" || !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    access, refresh, err := h.issuePair(ctx, u.ID, u.Email)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
    }
    return c.JSON(http.StatusOK, authResp{
        User:    userPart{ID: u.ID, Email: u.Email, Name: u.Name},
        Access:  access,
        Refresh: refresh,
    })
}

// SetPassword: protected; stores a bcrypt hash so the member can also
// log in with a password.
func (h *AuthHandler) SetPassword(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req setPasswordReq
    if err := c.Bind(&req); err != nil || len(req.Password) < 8 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "password of at least 8 characters required"})
    }

    hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    if err := h.Users.SetPasswordHash(ctx, userID, hash); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save password failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Refresh: validate by hash, revoke old, issue new.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }
    raw := strings.TrimSpace(req.RefreshToken)
    hash := utils.HashRefreshRaw(raw)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    userID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
    }
    _ = h.Tokens.RevokeByHash(ctx, hash)

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }

    access, refresh, err := h.issuePair(ctx, u.ID, u.Email)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
    }
    return c.JSON(http.StatusOK, authResp{
        User:    userPart{ID: u.ID, Email: u.Email, Name: u.Name},
        Access:  access,
        Refresh: refresh,
    })
}

// Logout: revoke a specific refresh token, or with a valid bearer and
// no body token, revoke every session of the caller.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    _ = c.Bind(&req)
    refreshToken := strings.TrimSpace(req.RefreshToken)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if refreshToken != "" {
        hash := utils.HashRefreshRaw(refreshToken)
        if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
        }
        if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
        }
        return c.NoContent(http.StatusNoContent)
    }

    // No body token: the route runs behind JWTAuth, so a bearer is
    // guaranteed here and we log the member out of every session.
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    if err := h.Tokens.RevokeAllForUser(ctx, userID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Me: simple protected endpoint echoing the token identity.
func (h *AuthHandler) Me(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "user_id": c.Get("user_id"),
        "email":   c.Get("email"),
    })
}
