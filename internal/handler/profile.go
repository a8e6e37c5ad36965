package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/ritmofit/booking-api/internal/model"
    "github.com/ritmofit/booking-api/internal/repository"
)

// ProfileHandler serves the member's own account record.
type ProfileHandler struct {
    Users *repository.UserRepo
}

func NewProfileHandler(users *repository.UserRepo) *ProfileHandler {
    if users == nil {
        panic("nil repository passed to NewProfileHandler")
    }
    return &ProfileHandler{Users: users}
}

type profileResp struct {
    ID       uint64  `json:"id"`
    Email    string  `json:"email"`
    Name     string  `json:"name"`
    PhotoURL *string `json:"photo_url"`
}

type updateProfileReq struct {
    Name     *string `json:"name"`
    Email    *string `json:"email"`
    PhotoURL *string `json:"photo_url"`
}

func toProfileResp(u model.User) profileResp {
    return profileResp{ID: u.ID, Email: u.Email, Name: u.Name, PhotoURL: u.PhotoURL}
}

// Get handles GET /v1/users/me.
func (h *ProfileHandler) Get(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, toProfileResp(u))
}

// Update handles PUT /v1/users/me. Only the fields present in the body
// are changed; omitted fields keep their stored values.
func (h *ProfileHandler) Update(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req updateProfileReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Name == nil && req.Email == nil && req.PhotoURL == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
    }
    if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
    }
    if req.Email != nil && !strings.Contains(*req.Email, "@") {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.UpdateProfile(ctx, userID, req.Name, req.Email, req.PhotoURL)
    if err != nil {
        if err == repository.ErrEmailExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, toProfileResp(u))
}
