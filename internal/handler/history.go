package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/ritmofit/booking-api/internal/repository"
)

// HistoryHandler serves the member's attendance history: confirmed
// reservations whose class has already started.
type HistoryHandler struct {
    Reservations *repository.ReservationRepo
}

func NewHistoryHandler(reservations *repository.ReservationRepo) *HistoryHandler {
    if reservations == nil {
        panic("nil repository passed to NewHistoryHandler")
    }
    return &HistoryHandler{Reservations: reservations}
}

// List handles GET /v1/history with optional from/to (YYYY-MM-DD)
// bounds on the class date. Entries come back newest first.
func (h *HistoryHandler) List(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    from := c.QueryParam("from")
    to := c.QueryParam("to")
    for _, d := range []string{from, to} {
        if d == "" {
            continue
        }
        if _, err := time.Parse("2006-01-02", d); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "from/to must be YYYY-MM-DD"})
        }
    }

    entries, err := h.Reservations.ListHistory(c.Request().Context(), userID, from, to)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"history": entries})
}
